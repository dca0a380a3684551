package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAsIs prints the path the diagnostic carries.
	PathModeAsIs PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value onto PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "asis", "as-is":
		return PathModeAsIs, true
	case "absolute", "abs":
		return PathModeAbsolute, true
	case "relative", "rel":
		return PathModeRelative, true
	case "basename", "base":
		return PathModeBasename, true
	}
	return PathModeAsIs, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int      // строк контекста вокруг основной строки
	PathMode  PathMode // только для заголовка, сниппет читается по исходному пути
	BaseDir   string   // для PathModeRelative
	ShowNotes bool
	// Marker is the leading glyph of the header line.
	Marker string
}

// DefaultPrettyOpts returns the console defaults: notes on, two context lines.
func DefaultPrettyOpts() PrettyOpts {
	return PrettyOpts{Context: 2, ShowNotes: true, Marker: "❌"}
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
