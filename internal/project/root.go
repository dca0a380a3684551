package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrNoPluginsDir is returned when no marker directory exists at or above the project.
	ErrNoPluginsDir = errors.New("plugins directory not found")
	// ErrPluginNotFound is returned when a requested plugin does not exist.
	ErrPluginNotFound = errors.New("plugin not found")
)

type TargetKind uint8

const (
	TargetDir TargetKind = iota
	TargetProject
	TargetSolution
)

func (k TargetKind) String() string {
	switch k {
	case TargetProject:
		return "project"
	case TargetSolution:
		return "solution"
	default:
		return "directory"
	}
}

// Target is the resolved project location.
type Target struct {
	Input      string // как указал пользователь
	Kind       TargetKind
	Path       string // absolute .csproj/.sln path, or the directory
	Root       string // directory that holds the marker root
	PluginsDir string
	Warnings   []string
}

// SplitArgs applies the positional argument convention:
// `[project] [plugin]` where the first argument is the project only if it
// names a directory or ends with .csproj/.sln; otherwise it is the plugin
// and the project is the current directory.
func SplitArgs(args []string) (projectArg, pluginArg string) {
	if len(args) == 0 {
		return "", ""
	}
	first := args[0]
	if looksLikeProject(first) {
		projectArg = first
		if len(args) > 1 {
			pluginArg = args[1]
		}
		return projectArg, pluginArg
	}
	return "", first
}

func looksLikeProject(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	if ext == ".csproj" || ext == ".sln" {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.IsDir()
}

// ResolveTarget turns the project argument into a Target. When the directory
// has no marker root the parents are searched, the way a .sln next to the
// plugins directory would be found from a subdirectory.
func ResolveTarget(input, markerDir string) (*Target, error) {
	if input == "" {
		input = "."
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", input, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("the specified file or directory does not exist: %s", input)
		}
		return nil, fmt.Errorf("failed to stat %q: %w", input, err)
	}

	t := &Target{Input: input, Path: abs, Root: abs}
	if info.IsDir() {
		t.Kind = TargetDir
		if sln := globSorted(abs, "*.sln"); len(sln) > 0 {
			t.Kind = TargetSolution
			t.Path = sln[0]
			if len(sln) > 1 {
				t.Warnings = append(t.Warnings, fmt.Sprintf("Multiple solution files found. Using the first one: %s", filepath.Base(sln[0])))
			}
		}
	} else {
		switch strings.ToLower(filepath.Ext(abs)) {
		case ".csproj":
			t.Kind = TargetProject
		case ".sln":
			t.Kind = TargetSolution
		default:
			return nil, fmt.Errorf("unsupported project file %q: expected a directory, .csproj or .sln", input)
		}
		t.Root = filepath.Dir(abs)
	}

	root, ok, err := FindProjectRoot(t.Root, markerDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no '%s' directory at or above %s", ErrNoPluginsDir, markerDir, t.Root)
	}
	t.Root = root
	t.PluginsDir = filepath.Join(root, markerDir)
	return t, nil
}

// FindProjectRoot walks up from startDir to the first directory containing markerDir.
func FindProjectRoot(startDir, markerDir string) (root string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, markerDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, true, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func globSorted(dir, pattern string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}
	slices.Sort(matches)
	return matches
}
