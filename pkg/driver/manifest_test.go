package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
name: sorting-demos
delay: 250ms
max_steps: 200000
programs:
  bubble:
    source: algos/bubble.js
    input: "5 3 1 4"
  remote:
    git: https://example.com/algos.git
    tag: v1.0.0
    path: sort/insertion.js
    input_file: inputs/insertion.txt
  quick: algos/quick.js
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "sorting-demos" || manifest.Delay != 250*time.Millisecond || manifest.MaxSteps != 200000 {
		t.Fatalf("unexpected manifest header %+v", manifest)
	}
	if diff := cmp.Diff([]string{"bubble", "remote", "quick"}, manifest.ProgramOrder); diff != "" {
		t.Fatalf("program order mismatch (-want +got):\n%s", diff)
	}
	want := &ProgramSpec{
		Name:      "remote",
		Git:       "https://example.com/algos.git",
		Tag:       "v1.0.0",
		Path:      "sort/insertion.js",
		InputFile: "inputs/insertion.txt",
	}
	if diff := cmp.Diff(want, manifest.Programs["remote"]); diff != "" {
		t.Fatalf("remote program mismatch (-want +got):\n%s", diff)
	}
	if got := manifest.Programs["quick"].Source; got != "algos/quick.js" {
		t.Fatalf("shorthand source = %q", got)
	}
	if manifest.Dir() != filepath.Dir(path) {
		t.Fatalf("Dir = %q", manifest.Dir())
	}

	def, err := manifest.DefaultProgram()
	if err != nil || def.Name != "bubble" {
		t.Fatalf("DefaultProgram = %+v, %v", def, err)
	}
	if found, ok := manifest.FindProgram("REMOTE"); !ok || found.Name != "remote" {
		t.Fatalf("FindProgram case fallback failed")
	}
	if _, ok := manifest.FindProgram("missing"); ok {
		t.Fatalf("expected missing program lookup to fail")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, `
delay: soon
programs:
  empty: {}
  both:
    source: a.js
    git: https://example.com/x.git
    rev: abc
    path: x.js
  refs:
    git: https://example.com/x.git
    tag: v1
    branch: main
  nopath:
    git: https://example.com/x.git
    rev: abc
  stray:
    source: a.js
    branch: main
  inputs:
    source: a.js
    input: "1 2"
    input_file: in.txt
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		`delay "soon" is not a duration`,
		"name must be provided",
		"programs.empty: must specify source or git",
		"programs.both: source and git are mutually exclusive",
		"programs.refs: git programs require path",
		"programs.refs: git programs require exactly one of rev, tag, or branch",
		"programs.nopath: git programs require path",
		"programs.stray: rev, tag, branch and path apply only to git programs",
		"programs.inputs: input and input_file are mutually exclusive",
	}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(verr.Error(), "manifest validation failed:\n- ") {
		t.Fatalf("unexpected error text %q", verr.Error())
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: demo
programs:
  a:
    source: a.js
    sauce: b.js
`)
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "sauce") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestDefaultProgramWithoutPrograms(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader("name: demo\n"))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, err := manifest.DefaultProgram(); !errors.Is(err, ErrNoPrograms) {
		t.Fatalf("expected ErrNoPrograms, got %v", err)
	}
}
