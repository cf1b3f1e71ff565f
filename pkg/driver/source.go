package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Program is a manifest entry with its source and input loaded.
type Program struct {
	Name   string
	Origin string
	Source string
	Input  string
}

// SourceLoader reads program sources named by a manifest. Remote
// repositories are cloned once into CacheDir and reused afterwards.
type SourceLoader struct {
	CacheDir string
}

// NewSourceLoader returns a loader caching clones under cacheDir.
func NewSourceLoader(cacheDir string) *SourceLoader {
	return &SourceLoader{CacheDir: cacheDir}
}

// Load resolves spec's source text and input.
func (l *SourceLoader) Load(m *Manifest, spec *ProgramSpec) (*Program, error) {
	if spec == nil {
		return nil, fmt.Errorf("driver: nil program spec")
	}
	prog := &Program{Name: spec.Name, Input: spec.Input}
	if spec.IsGit() {
		source, origin, err := l.loadGit(m, spec)
		if err != nil {
			return nil, fmt.Errorf("program %q: %w", spec.Name, err)
		}
		prog.Source, prog.Origin = source, origin
	} else {
		path := resolvePath(m, spec.Source)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("program %q: read %s: %w", spec.Name, path, err)
		}
		prog.Source, prog.Origin = string(data), path
	}
	if spec.InputFile != "" {
		path := resolvePath(m, spec.InputFile)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("program %q: read input %s: %w", spec.Name, path, err)
		}
		prog.Input = string(data)
	}
	return prog, nil
}

func resolvePath(m *Manifest, path string) string {
	if filepath.IsAbs(path) || m == nil || m.Path == "" {
		return path
	}
	return filepath.Join(m.Dir(), path)
}

func (l *SourceLoader) loadGit(m *Manifest, spec *ProgramSpec) (string, string, error) {
	repo, err := l.openRepository(m, spec.Git)
	if err != nil {
		return "", "", err
	}
	candidates, descriptor, err := gitRevisionCandidates(spec)
	if err != nil {
		return "", "", err
	}
	hash, err := resolveRevision(repo, candidates)
	if err != nil && !isLocalRepository(resolvePath(m, spec.Git)) {
		if fetchErr := fetchRepository(repo); fetchErr != nil {
			return "", "", fetchErr
		}
		hash, err = resolveRevision(repo, candidates)
	}
	if err != nil {
		return "", "", fmt.Errorf("resolve revision %s: %w", descriptor, err)
	}
	commit, err := commitFor(repo, hash)
	if err != nil {
		return "", "", err
	}
	file, err := commit.File(filepath.ToSlash(spec.Path))
	if err != nil {
		return "", "", fmt.Errorf("read %s at %s: %w", spec.Path, descriptor, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return "", "", fmt.Errorf("read %s at %s: %w", spec.Path, descriptor, err)
	}
	return contents, fmt.Sprintf("git+%s@%s:%s", spec.Git, hash.String(), spec.Path), nil
}

// openRepository opens url in place when it names a local repository and
// otherwise clones it into the cache, reusing an earlier clone.
func (l *SourceLoader) openRepository(m *Manifest, url string) (*git.Repository, error) {
	if local := resolvePath(m, url); isLocalRepository(local) {
		repo, err := git.PlainOpen(local)
		if err != nil {
			return nil, fmt.Errorf("git open %s: %w", local, err)
		}
		return repo, nil
	}
	if l == nil || l.CacheDir == "" {
		return nil, fmt.Errorf("git %s: no cache directory configured", url)
	}
	dir := filepath.Join(l.CacheDir, "git", sanitizePathSegment(url))
	if _, err := os.Stat(dir); err == nil {
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return nil, fmt.Errorf("git open %s: %w", dir, err)
		}
		return repo, nil
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, err
	}
	tmpDir, err := os.MkdirTemp(filepath.Dir(dir), "clone-*")
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}
	if _, err := git.PlainClone(tmpDir, true, &git.CloneOptions{URL: url, Tags: git.AllTags}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git clone %s: %w", url, err)
	}
	if err := os.Rename(tmpDir, dir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("git open %s: %w", dir, err)
	}
	return repo, nil
}

func isLocalRepository(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fetchRepository(repo *git.Repository) error {
	err := repo.Fetch(&git.FetchOptions{RemoteName: git.DefaultRemoteName, Tags: git.AllTags})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("git fetch: %w", err)
	}
	return nil
}

// gitRevisionCandidates lists the revisions to try, most specific first. A
// branch may exist locally or only as a remote-tracking ref of a clone.
func gitRevisionCandidates(spec *ProgramSpec) ([]plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return []plumbing.Revision{plumbing.Revision(rev)}, rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return []plumbing.Revision{plumbing.Revision("refs/tags/" + tag)}, tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return []plumbing.Revision{
			plumbing.Revision("refs/heads/" + branch),
			plumbing.Revision("refs/remotes/" + git.DefaultRemoteName + "/" + branch),
		}, branch, nil
	}
	return nil, "", fmt.Errorf("git programs require rev, tag, or branch")
}

func resolveRevision(repo *git.Repository, candidates []plumbing.Revision) (plumbing.Hash, error) {
	var lastErr error
	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(rev)
		if err == nil {
			return *hash, nil
		}
		lastErr = err
	}
	return plumbing.ZeroHash, lastErr
}

// commitFor peels annotated tags down to their commit.
func commitFor(repo *git.Repository, hash plumbing.Hash) (*object.Commit, error) {
	commit, err := repo.CommitObject(hash)
	if err == nil {
		return commit, nil
	}
	tag, tagErr := repo.TagObject(hash)
	if tagErr != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	commit, err = tag.Commit()
	if err != nil {
		return nil, fmt.Errorf("load tagged commit %s: %w", hash, err)
	}
	return commit, nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
