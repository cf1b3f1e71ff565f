package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

var testSignature = object.Signature{Name: "dsaviz", Email: "dsaviz@example.com", When: time.Unix(1700000000, 0)}

// commitAll stages every file under dir and commits it.
func commitAll(t *testing.T, repo *git.Repository, dir, message string) plumbing.Hash {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	sig := testSignature
	hash, err := worktree.Commit(message, &git.CommitOptions{Author: &sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}

func initGitRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo
}

func TestSourceLoaderLocalFiles(t *testing.T) {
	path := writeManifest(t, `
name: demo
programs:
  bubble:
    source: algos/bubble.js
    input_file: inputs/bubble.txt
  inline:
    source: algos/bubble.js
    input: "9 8"
`)
	root := filepath.Dir(path)
	writeFile(t, filepath.Join(root, "algos", "bubble.js"), "let arr = [3, 1];\n")
	writeFile(t, filepath.Join(root, "inputs", "bubble.txt"), "5 3 1\n")

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	loader := NewSourceLoader(t.TempDir())

	prog, err := loader.Load(manifest, manifest.Programs["bubble"])
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prog.Source != "let arr = [3, 1];\n" || prog.Input != "5 3 1\n" {
		t.Fatalf("unexpected program %+v", prog)
	}
	if prog.Origin != filepath.Join(root, "algos", "bubble.js") {
		t.Fatalf("unexpected origin %q", prog.Origin)
	}

	inline, err := loader.Load(manifest, manifest.Programs["inline"])
	if err != nil {
		t.Fatalf("Load inline: %v", err)
	}
	if inline.Input != "9 8" {
		t.Fatalf("unexpected inline input %q", inline.Input)
	}
}

func TestSourceLoaderMissingFile(t *testing.T) {
	path := writeManifest(t, `
name: demo
programs:
  gone: missing.js
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	_, err = NewSourceLoader("").Load(manifest, manifest.Programs["gone"])
	if err == nil || !strings.Contains(err.Error(), `program "gone"`) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestSourceLoaderLocalRepository(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "algos")
	repo := initGitRepo(t, repoDir)

	writeFile(t, filepath.Join(repoDir, "sort", "insertion.js"), "let v = 1;\n")
	first := commitAll(t, repo, repoDir, "first")
	if _, err := repo.CreateTag("v1.0.0", first, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	sig := testSignature
	if _, err := repo.CreateTag("annotated", first, &git.CreateTagOptions{Tagger: &sig, Message: "release"}); err != nil {
		t.Fatalf("CreateTag annotated: %v", err)
	}

	writeFile(t, filepath.Join(repoDir, "sort", "insertion.js"), "let v = 2;\n")
	commitAll(t, repo, repoDir, "second")

	projectDir := filepath.Join(root, "project")
	writeFile(t, filepath.Join(projectDir, ManifestFileName), `name: demo
programs:
  tagged:
    git: ../algos
    tag: v1.0.0
    path: sort/insertion.js
  annotated:
    git: ../algos
    tag: annotated
    path: sort/insertion.js
  pinned:
    git: ../algos
    rev: `+first.String()+`
    path: sort/insertion.js
  tip:
    git: ../algos
    branch: master
    path: sort/insertion.js
  missing:
    git: ../algos
    branch: master
    path: sort/none.js
`)
	manifest, err := LoadManifest(filepath.Join(projectDir, ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	loader := NewSourceLoader("")

	for name, want := range map[string]string{
		"tagged":    "let v = 1;\n",
		"annotated": "let v = 1;\n",
		"pinned":    "let v = 1;\n",
		"tip":       "let v = 2;\n",
	} {
		prog, err := loader.Load(manifest, manifest.Programs[name])
		if err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
		if prog.Source != want {
			t.Fatalf("%s: source = %q, want %q", name, prog.Source, want)
		}
		if !strings.HasPrefix(prog.Origin, "git+../algos@") {
			t.Fatalf("%s: unexpected origin %q", name, prog.Origin)
		}
	}

	if _, err := loader.Load(manifest, manifest.Programs["missing"]); err == nil {
		t.Fatalf("expected missing path error")
	}
}

func TestSourceLoaderUsesCachedClone(t *testing.T) {
	url := "https://example.invalid/algos.git"
	cacheDir := t.TempDir()
	cloneDir := filepath.Join(cacheDir, "git", sanitizePathSegment(url))
	repo := initGitRepo(t, cloneDir)
	writeFile(t, filepath.Join(cloneDir, "main.js"), "let cached = true;\n")
	commitAll(t, repo, cloneDir, "cached")

	manifest := &Manifest{Path: filepath.Join(t.TempDir(), ManifestFileName)}
	spec := &ProgramSpec{Name: "remote", Git: url, Branch: "master", Path: "main.js"}
	prog, err := NewSourceLoader(cacheDir).Load(manifest, spec)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prog.Source != "let cached = true;\n" {
		t.Fatalf("unexpected source %q", prog.Source)
	}
}

func TestSourceLoaderRemoteWithoutCache(t *testing.T) {
	spec := &ProgramSpec{Name: "remote", Git: "https://example.invalid/x.git", Rev: "abc", Path: "x.js"}
	_, err := NewSourceLoader("").Load(&Manifest{}, spec)
	if err == nil || !strings.Contains(err.Error(), "no cache directory") {
		t.Fatalf("expected cache error, got %v", err)
	}
}

func TestSanitizePathSegment(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a.git": "https___example.com_a.git",
		"  ":                        "head",
		"v1.0.0":                    "v1.0.0",
	}
	for in, want := range cases {
		if got := sanitizePathSegment(in); got != want {
			t.Fatalf("sanitizePathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
