package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dsaviz/interpreter-go/pkg/driver"
	"dsaviz/interpreter-go/pkg/playback"
)

var errManifestNotFound = errors.New("viz.yml not found")

// target is a program ready to run, either a file named on the command line
// or an entry of the active manifest.
type target struct {
	name     string
	origin   string
	source   string
	input    string
	manifest *driver.Manifest
}

// loadManifest returns the manifest named by --manifest, or the nearest
// viz.yml above the working directory. A missing manifest is not an error
// unless it was named explicitly.
func (c *cli) loadManifest() (*driver.Manifest, error) {
	if c.manifestPath != "" {
		return driver.LoadManifest(c.manifestPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	path, err := findManifest(cwd)
	if err != nil {
		if errors.Is(err, errManifestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

// resolveTarget maps a command argument to a program. Existing files win
// over manifest program names; an empty argument selects the manifest's
// default program.
func (c *cli) resolveTarget(arg string) (*target, error) {
	manifest, manifestErr := c.loadManifest()

	if arg != "" && isRegularFile(arg) {
		if manifestErr != nil {
			c.logger.Warn().Err(manifestErr).Msg("ignoring unreadable manifest")
			manifest = nil
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		return &target{
			name:     strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)),
			origin:   arg,
			source:   string(data),
			manifest: manifest,
		}, nil
	}

	if manifestErr != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", manifestErr)
	}
	if manifest == nil {
		if arg == "" {
			return nil, fmt.Errorf("no program given and %s not found", driver.ManifestFileName)
		}
		return nil, fmt.Errorf("%s: no such file and %s not found", arg, driver.ManifestFileName)
	}

	spec, err := pickProgram(manifest, arg)
	if err != nil {
		return nil, err
	}
	cacheDir, err := resolveCacheDir()
	if err != nil {
		return nil, err
	}
	prog, err := driver.NewSourceLoader(cacheDir).Load(manifest, spec)
	if err != nil {
		return nil, err
	}
	return &target{
		name:     prog.Name,
		origin:   prog.Origin,
		source:   prog.Source,
		input:    prog.Input,
		manifest: manifest,
	}, nil
}

func pickProgram(manifest *driver.Manifest, name string) (*driver.ProgramSpec, error) {
	if name == "" {
		spec, err := manifest.DefaultProgram()
		if err != nil {
			return nil, fmt.Errorf("manifest error: %w", err)
		}
		return spec, nil
	}
	spec, ok := manifest.FindProgram(name)
	if !ok {
		return nil, fmt.Errorf("%s: not a file or a program in %s", name, manifest.Path)
	}
	return spec, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", driver.ManifestFileName, origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveCacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("DSAVIZ_CACHE")); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve DSAVIZ_CACHE %q: %w", dir, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".dsaviz", "cache"), nil
}

// resolveDelay picks the playback delay: an explicit flag, then DSAVIZ_DELAY,
// then the manifest, then the playback default.
func resolveDelay(flag time.Duration, flagSet bool, manifest *driver.Manifest) (time.Duration, error) {
	if flagSet {
		if flag < 0 {
			return 0, fmt.Errorf("delay %s is negative", flag)
		}
		return flag, nil
	}
	if env := strings.TrimSpace(os.Getenv("DSAVIZ_DELAY")); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("DSAVIZ_DELAY %q is not a duration", env)
		}
		return d, nil
	}
	if manifest != nil && manifest.Delay > 0 {
		return manifest.Delay, nil
	}
	return playback.DefaultDelay, nil
}

func resolveMaxSteps(flag int, flagSet bool, manifest *driver.Manifest) int {
	if flagSet {
		return flag
	}
	if manifest != nil && manifest.MaxSteps > 0 {
		return manifest.MaxSteps
	}
	return 0
}
