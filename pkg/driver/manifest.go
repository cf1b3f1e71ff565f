package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file the CLI looks for.
const ManifestFileName = "viz.yml"

// Manifest represents the parsed contents of viz.yml.
type Manifest struct {
	Path     string
	Name     string
	Delay    time.Duration
	MaxSteps int
	Programs map[string]*ProgramSpec
	// ProgramOrder lists program names in file order.
	ProgramOrder []string
}

// ProgramSpec describes one runnable program: either a local source file or
// a file inside a git repository, plus the input it reads.
type ProgramSpec struct {
	Name      string
	Source    string
	Git       string
	Rev       string
	Tag       string
	Branch    string
	Path      string
	Input     string
	InputFile string
}

// IsGit reports whether the program is loaded from a repository.
func (p *ProgramSpec) IsGit() bool {
	return p != nil && p.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var ErrNoPrograms = errors.New("manifest: no programs defined")

// LoadManifest parses viz.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()
	return decodeManifest(file, absPath)
}

// ParseManifest decodes manifest contents that did not come from a file.
// Relative paths resolve against the working directory.
func ParseManifest(r io.Reader) (*Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return decodeManifest(r, filepath.Join(wd, ManifestFileName))
}

func decodeManifest(r io.Reader, path string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	manifest, issues := raw.toManifest(path)
	issues = append(issues, manifest.validate()...)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return manifest, nil
}

// Dir is the directory relative paths resolve against.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// OrderedPrograms returns the programs in file order.
func (m *Manifest) OrderedPrograms() []*ProgramSpec {
	if m == nil {
		return nil
	}
	out := make([]*ProgramSpec, 0, len(m.ProgramOrder))
	for _, name := range m.ProgramOrder {
		if spec := m.Programs[name]; spec != nil {
			out = append(out, spec)
		}
	}
	return out
}

// DefaultProgram returns the first program in file order.
func (m *Manifest) DefaultProgram() (*ProgramSpec, error) {
	programs := m.OrderedPrograms()
	if len(programs) == 0 {
		return nil, ErrNoPrograms
	}
	return programs[0], nil
}

// FindProgram looks up a program by name, ignoring case as a fallback.
func (m *Manifest) FindProgram(name string) (*ProgramSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if spec, ok := m.Programs[name]; ok && spec != nil {
		return spec, true
	}
	for _, key := range m.ProgramOrder {
		if strings.EqualFold(key, name) {
			return m.Programs[key], true
		}
	}
	return nil, false
}

func (m *Manifest) validate() []string {
	var issues []string
	if m.Name == "" {
		issues = append(issues, "name must be provided")
	}
	if m.MaxSteps < 0 {
		issues = append(issues, "max_steps must not be negative")
	}
	for _, name := range m.ProgramOrder {
		for _, issue := range m.Programs[name].validate() {
			issues = append(issues, fmt.Sprintf("programs.%s: %s", name, issue))
		}
	}
	return issues
}

func (p *ProgramSpec) validate() []string {
	var issues []string
	switch {
	case p.Source == "" && p.Git == "":
		issues = append(issues, "must specify source or git")
	case p.Source != "" && p.Git != "":
		issues = append(issues, "source and git are mutually exclusive")
	}
	if p.Git != "" {
		if p.Path == "" {
			issues = append(issues, "git programs require path")
		}
		refs := 0
		for _, ref := range []string{p.Rev, p.Tag, p.Branch} {
			if ref != "" {
				refs++
			}
		}
		if refs != 1 {
			issues = append(issues, "git programs require exactly one of rev, tag, or branch")
		}
	} else if p.Rev != "" || p.Tag != "" || p.Branch != "" || p.Path != "" {
		issues = append(issues, "rev, tag, branch and path apply only to git programs")
	}
	if p.Input != "" && p.InputFile != "" {
		issues = append(issues, "input and input_file are mutually exclusive")
	}
	return issues
}

type manifestFile struct {
	Name     string     `yaml:"name"`
	Delay    string     `yaml:"delay"`
	MaxSteps int        `yaml:"max_steps"`
	Programs programMap `yaml:"programs"`
}

type programYAML struct {
	Source    string `yaml:"source"`
	Git       string `yaml:"git"`
	Rev       string `yaml:"rev"`
	Tag       string `yaml:"tag"`
	Branch    string `yaml:"branch"`
	Path      string `yaml:"path"`
	Input     string `yaml:"input"`
	InputFile string `yaml:"input_file"`
}

type programMap struct {
	items []programMapEntry
}

type programMapEntry struct {
	name string
	spec *programYAML
}

func (pm *programMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		pm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		pm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: programs must be a mapping")
	}
	items := make([]programMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: programs must not use empty keys")
		}
		entry := new(programYAML)
		if valueNode.Kind == yaml.ScalarNode && valueNode.Tag != "!!null" {
			// Shorthand: `name: path/to/file.js`.
			entry.Source = valueNode.Value
		} else {
			// Node.Decode does not inherit the decoder's KnownFields setting.
			if err := checkProgramKeys(valueNode); err != nil {
				return fmt.Errorf("manifest: program %q: %w", key, err)
			}
			if err := valueNode.Decode(entry); err != nil {
				return fmt.Errorf("manifest: program %q: %w", key, err)
			}
		}
		items = append(items, programMapEntry{name: key, spec: entry})
	}
	pm.items = items
	return nil
}

var programKeys = map[string]bool{
	"source": true, "git": true, "rev": true, "tag": true, "branch": true,
	"path": true, "input": true, "input_file": true,
}

func checkProgramKeys(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content); i += 2 {
		if key := node.Content[i].Value; !programKeys[key] {
			return fmt.Errorf("line %d: field %s not found", node.Content[i].Line, key)
		}
	}
	return nil
}

func (mf manifestFile) toManifest(path string) (*Manifest, []string) {
	var issues []string
	result := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		MaxSteps:     mf.MaxSteps,
		Programs:     make(map[string]*ProgramSpec, len(mf.Programs.items)),
		ProgramOrder: make([]string, 0, len(mf.Programs.items)),
	}
	if delay := strings.TrimSpace(mf.Delay); delay != "" {
		d, err := time.ParseDuration(delay)
		switch {
		case err != nil:
			issues = append(issues, fmt.Sprintf("delay %q is not a duration", delay))
		case d < 0:
			issues = append(issues, "delay must not be negative")
		default:
			result.Delay = d
		}
	}

	for _, item := range mf.Programs.items {
		if item.spec == nil {
			continue
		}
		if _, exists := result.Programs[item.name]; exists {
			issues = append(issues, fmt.Sprintf("program %q is defined more than once", item.name))
			continue
		}
		raw := item.spec
		result.Programs[item.name] = &ProgramSpec{
			Name:      item.name,
			Source:    strings.TrimSpace(raw.Source),
			Git:       strings.TrimSpace(raw.Git),
			Rev:       strings.TrimSpace(raw.Rev),
			Tag:       strings.TrimSpace(raw.Tag),
			Branch:    strings.TrimSpace(raw.Branch),
			Path:      strings.TrimSpace(raw.Path),
			Input:     raw.Input,
			InputFile: strings.TrimSpace(raw.InputFile),
		}
		result.ProgramOrder = append(result.ProgramOrder, item.name)
	}
	return result, issues
}
