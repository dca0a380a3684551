package diagfmt

import (
	"os"
	"strings"
	"sync"

	"oxmerge/internal/source"
)

// SnippetCache reads each file at most once per invocation. Read failures are
// cached as an empty line list so the snippet silently disappears.
type SnippetCache struct {
	mu    sync.Mutex
	lines map[string][]string
}

func NewSnippetCache() *SnippetCache {
	return &SnippetCache{lines: make(map[string][]string)}
}

// Prime seeds the cache with files that are already loaded in fs. Only the
// latest version of a reloaded path is used.
func (c *SnippetCache) Prime(fs *source.FileSet) {
	if c == nil || fs == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range fs.Len() {
		f := fs.Get(source.FileID(i)) // #nosec G115 -- ids are dense uint32
		if f == nil {
			continue
		}
		if latest, ok := fs.GetLatest(f.Path); ok && latest != f.ID {
			continue
		}
		c.lines[f.Path] = splitLines(f.Content)
	}
}

// Lines returns the lines of path without their terminators.
func (c *SnippetCache) Lines(path string) []string {
	if c == nil || path == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if lines, ok := c.lines[path]; ok {
		return lines
	}
	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		norm, _ := source.Normalize(data)
		lines = splitLines(norm)
	}
	c.lines[path] = lines
	return lines
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
