package diagfmt

import (
	"oxmerge/internal/source"
)

func displayPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "Unknown file"
	}
	switch mode {
	case PathModeAbsolute:
		return source.AbsolutePath(path)
	case PathModeRelative:
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
		return path
	case PathModeBasename:
		return source.BaseName(path)
	default:
		return path
	}
}
