package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ManifestFile = "elm.json"
	SourceDir    = "src"
	SourceFile   = "src/Main.elm"
	OutputFile   = "out.js"
)

// Preamble declares the Main module with a no-op view so that any fragment of
// top-level declarations compiles as a complete program.
const Preamble = `
module Main exposing (..)

import Html

main = Html.text ""

`

const Manifest = `{
  "type": "application",
  "source-directories": [
      "src"
  ],
  "elm-version": "0.19.1",
  "dependencies": {
      "direct": {
          "elm/browser": "1.0.2",
          "elm/core": "1.0.5",
          "elm/html": "1.0.0",
          "elm/http": "2.0.0",
          "elm/json": "1.1.3",
          "elm/url": "1.0.0",
          "elm-explorations/markdown": "1.0.0"
      },
      "indirect": {
          "elm/bytes": "1.0.8",
          "elm/file": "1.0.5",
          "elm/time": "1.0.0",
          "elm/virtual-dom": "1.0.3"
      }
  },
  "test-dependencies": {
      "direct": {},
      "indirect": {}
  }
}
`

func SynthesizeSource(fragment string) string {
	return strings.TrimSpace(Preamble + fragment)
}

// Project is one staged Elm application living in its own directory.
type Project struct {
	ID  string
	Dir string
}

// Stage creates <root>/<id> with the manifest and the synthesized Main.elm.
// Existing files are overwritten. Once the id is valid the returned Project is
// non-nil even on error so the caller can remove partial output.
func Stage(root, id, fragment string) (*Project, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid project id: %q", id)
	}
	p := &Project{ID: id, Dir: filepath.Join(root, id)}

	if err := os.MkdirAll(filepath.Join(p.Dir, SourceDir), 0755); err != nil {
		return p, fmt.Errorf("create project dir: %w", err)
	}
	if err := os.WriteFile(p.SourcePath(), []byte(SynthesizeSource(fragment)), 0644); err != nil {
		return p, fmt.Errorf("write %s: %w", SourceFile, err)
	}
	if err := os.WriteFile(p.ManifestPath(), []byte(Manifest), 0644); err != nil {
		return p, fmt.Errorf("write %s: %w", ManifestFile, err)
	}
	return p, nil
}

func (p *Project) SourcePath() string   { return filepath.Join(p.Dir, filepath.FromSlash(SourceFile)) }
func (p *Project) ManifestPath() string { return filepath.Join(p.Dir, ManifestFile) }
func (p *Project) OutputPath() string   { return filepath.Join(p.Dir, OutputFile) }

func (p *Project) ReadOutput() (string, error) {
	b, err := os.ReadFile(p.OutputPath())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p *Project) Remove() error {
	return os.RemoveAll(p.Dir)
}
