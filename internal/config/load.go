package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames lists the recognised config names in lookup order.
var FileNames = []string{"linter.config.json", "oxmerge.toml", "oxmerge.yaml", "oxmerge.yml"}

// Load decodes the file at path, choosing the decoder by extension, and
// fills defaults. It does not validate.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config path comes from the command line or discovery
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the format named by ext (".json", ".toml", ".yaml", ".yml").
func Decode(data []byte, ext string) (*Config, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	var cfg Config
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalid, ext)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Search describes where to look for a config file.
type Search struct {
	// Explicit is the --config value; when set nothing else is consulted.
	Explicit string
	// ProjectPath is the resolved project directory, .csproj or .sln.
	ProjectPath string
	// FirstArg is the first positional argument as typed.
	FirstArg string
	ExeDir   string
	WorkDir  string
}

// Dirs returns the candidate directories in lookup order, without duplicates.
func (s Search) Dirs() []string {
	var dirs []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		for _, d := range dirs {
			if d == abs {
				return
			}
		}
		dirs = append(dirs, abs)
	}
	add(dirOf(s.ProjectPath))
	add(dirOf(s.FirstArg))
	add(s.ExeDir)
	add(s.WorkDir)
	return dirs
}

func dirOf(p string) string {
	if p == "" {
		return ""
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p
	}
	return filepath.Dir(p)
}

// Find returns the first existing config file.
func (s Search) Find() (string, bool) {
	if s.Explicit != "" {
		return s.Explicit, true
	}
	for _, dir := range s.Dirs() {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

// Report describes how the effective config was obtained.
type Report struct {
	Path     string // "" when defaults are used
	Warnings []string
}

// Resolve finds and loads the config. A missing or unreadable discovered file
// falls back to defaults with a warning; only an explicit --config that
// cannot be loaded is an error. Validation problems are warnings.
func Resolve(s Search) (*Config, Report, error) {
	var rep Report
	path, ok := s.Find()
	if !ok {
		rep.Warnings = append(rep.Warnings, "linter.config.json not found. Using default settings.")
		return Default(), rep, nil
	}
	cfg, err := Load(path)
	if err != nil {
		if s.Explicit != "" {
			return nil, rep, err
		}
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("Could not load or parse %s. Using default settings. Error: %v", filepath.Base(path), err))
		return Default(), rep, nil
	}
	rep.Path = path
	if err := cfg.Validate(); err != nil {
		for _, e := range unwrapJoined(err) {
			rep.Warnings = append(rep.Warnings, e.Error())
		}
	}
	return cfg, rep, nil
}

func unwrapJoined(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
