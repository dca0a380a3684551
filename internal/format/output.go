package format

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteResult describes what WriteFile did.
type WriteResult uint8

const (
	NotWritten WriteResult = iota
	Written
	Unchanged
)

func (r WriteResult) String() string {
	switch r {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	}
	return "not written"
}

// WriteFile atomically replaces path with data: the bytes go to a temp file
// in the same directory which is then renamed over the target. A target that
// already holds identical bytes is left untouched, so its mtime survives.
func WriteFile(path string, data []byte) (WriteResult, error) {
	// #nosec G304 -- output path is derived from the plugin name
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return Unchanged, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return NotWritten, fmt.Errorf("read %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NotWritten, fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return NotWritten, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return NotWritten, fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return NotWritten, fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return NotWritten, fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return NotWritten, fmt.Errorf("rename %s: %w", path, err)
	}
	return Written, nil
}
