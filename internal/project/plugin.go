package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Plugin is a directory of partial class files merged into one output.
type Plugin struct {
	Name   string   // relative path under the marker root, separators -> '_'
	RelDir string   // relative path with '/' separators
	Dir    string   // absolute directory
	Files  []string // absolute .cs paths directly inside Dir, sorted
}

// OutputPath returns <outDir>/<Name>.cs.
func (p *Plugin) OutputPath(outDir string) string {
	return filepath.Join(outDir, p.Name+".cs")
}

// Matches reports whether the user-supplied name selects this plugin: the
// normalised name or the directory basename, case-insensitively.
func (p *Plugin) Matches(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	normalized := NameFromRel(name)
	return strings.EqualFold(p.Name, normalized) || strings.EqualFold(filepath.Base(p.Dir), name)
}

// NameFromRel converts a relative directory into a plugin name.
func NameFromRel(rel string) string {
	rel = strings.Trim(strings.ReplaceAll(rel, `\`, "/"), "/")
	return strings.ReplaceAll(rel, "/", "_")
}

// skipDir matches build output and tooling directories that hold generated .cs files.
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch strings.ToLower(name) {
	case "bin", "obj":
		return true
	}
	return false
}

// Discover enumerates plugin directories under pluginsDir in lexical order of
// their relative path. The marker root itself is never a plugin.
func Discover(pluginsDir string) ([]Plugin, error) {
	root, err := filepath.Abs(pluginsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", pluginsDir, err)
	}
	var plugins []Plugin
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if path == root {
			return nil
		}
		files, err := sourceFiles(path)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		plugins = append(plugins, Plugin{
			Name:   NameFromRel(rel),
			RelDir: rel,
			Dir:    path,
			Files:  files,
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", pluginsDir, walkErr)
	}
	slices.SortFunc(plugins, func(a, b Plugin) int {
		return strings.Compare(a.RelDir, b.RelDir)
	})
	return plugins, nil
}

func sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".cs") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// Filter narrows plugins to the one selected by name. An empty name keeps all.
func Filter(plugins []Plugin, name string) ([]Plugin, error) {
	if strings.TrimSpace(name) == "" {
		return plugins, nil
	}
	var out []Plugin
	for i := range plugins {
		if plugins[i].Matches(name) {
			out = append(out, plugins[i])
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPluginNotFound, name)
	}
	return out, nil
}

// PluginForPath attributes a file path to a plugin: the directory segments
// after the last marker segment (matched case-insensitively), joined with
// '_'. Both '/' and '\' separate segments so that paths reported by a
// Windows build are attributed too.
func PluginForPath(path, markerDir string) (string, bool) {
	dirs, ok := pluginDirs(path, markerDir)
	if !ok || len(dirs) == 0 {
		return "", false
	}
	return strings.Join(dirs, "_"), true
}

// UnderMarker reports whether path lies below the marker root and, when
// plugin is non-empty, belongs to that plugin (by name or by directory basename).
func UnderMarker(path, markerDir, plugin string) bool {
	dirs, ok := pluginDirs(path, markerDir)
	if !ok {
		return false
	}
	if plugin == "" {
		return true
	}
	if len(dirs) == 0 {
		return false
	}
	return strings.EqualFold(strings.Join(dirs, "_"), NameFromRel(plugin)) ||
		strings.EqualFold(dirs[len(dirs)-1], plugin)
}

// pluginDirs returns the directory segments between the last marker segment
// and the file name. The last one wins so that a checkout living under an
// outer directory of the same name is still attributed correctly.
func pluginDirs(path, markerDir string) ([]string, bool) {
	segs := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	if len(segs) < 2 {
		return nil, false
	}
	dirs := segs[:len(segs)-1]
	for i := len(dirs) - 1; i >= 0; i-- {
		if strings.EqualFold(dirs[i], markerDir) {
			return dirs[i+1:], true
		}
	}
	return nil, false
}
