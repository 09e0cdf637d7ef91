package service

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStub installs a shell script acting as the compiler and returns its path.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub compilers are shell scripts")
	}
	path := filepath.Join(t.TempDir(), "elm")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

const (
	stubOk = `printf 'compiled!' > out.js`

	stubFail = `printf 'Y' >&2
exit 1`

	stubChunked = `printf 'line1\n' >&2
sleep 0.1
printf 'line2\n' >&2
exit 1`

	// Echoes the staged source back as the compiled output.
	stubEcho = `cp src/Main.elm out.js`

	stubNoOutput = `exit 0`

	stubHang = `exec sleep 10`
)
