package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokitheyo/elm-notebook/internal/events"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "ELM_PATH", "ELM_COMPILE_TIMEOUT", "ELM_SCRATCH_DIR", "NATS_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8007, cfg.Server.Port)
	assert.Equal(t, "elm", cfg.Compiler.Path)
	assert.Equal(t, 60*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, 1<<20, cfg.Compiler.MaxStderrBytes)
	assert.Equal(t, filepath.Join(os.TempDir(), "elm-notebook"), cfg.Scratch.Dir)
	assert.Equal(t, time.Hour, cfg.Scratch.Retention)
	assert.Empty(t, cfg.Events.NATSURL)
	assert.Equal(t, events.DefaultSubject, cfg.Events.Subject)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
compiler:
  path: /opt/elm/bin/elm
  args: ["make", "src/Main.elm", "--optimize", "--output=out.js"]
  timeout: 30s
  max_stderr_bytes: 4096
scratch:
  dir: /var/tmp/notebook
  retention: 10m
events:
  nats_url: nats://localhost:4222
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/opt/elm/bin/elm", cfg.Compiler.Path)
	assert.Equal(t, []string{"make", "src/Main.elm", "--optimize", "--output=out.js"}, cfg.Compiler.Args)
	assert.Equal(t, 30*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, 4096, cfg.Compiler.MaxStderrBytes)
	assert.Equal(t, "/var/tmp/notebook", cfg.Scratch.Dir)
	assert.Equal(t, 10*time.Minute, cfg.Scratch.Retention)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("ELM_PATH", "/usr/local/bin/elm")
	t.Setenv("ELM_COMPILE_TIMEOUT", "5s")
	t.Setenv("ELM_SCRATCH_DIR", "/scratch")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/usr/local/bin/elm", cfg.Compiler.Path)
	assert.Equal(t, 5*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, "/scratch", cfg.Scratch.Dir)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	t.Setenv("PORT", "eighty")
	_, err := LoadConfig(missing)
	assert.Error(t, err)

	t.Setenv("PORT", "")
	t.Setenv("ELM_COMPILE_TIMEOUT", "forever")
	_, err = LoadConfig(missing)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [\n"), 0644))
	t.Setenv("ELM_COMPILE_TIMEOUT", "")
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}
