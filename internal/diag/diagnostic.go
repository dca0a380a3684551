package diag

import (
	"fmt"

	"oxmerge/internal/source"
)

// Location anchors a diagnostic in a file. Lines and columns are 1-based;
// a zero Start means the position is unknown.
type Location struct {
	Path  string
	Start source.LineCol
	End   source.LineCol
}

// Known reports whether the location carries a resolvable position.
func (l Location) Known() bool {
	return l.Path != "" && l.Start.Line > 0
}

func (l Location) String() string {
	if l.Start.Line == 0 {
		return l.Path
	}
	return fmt.Sprintf("%s(%d,%d)", l.Path, l.Start.Line, l.Start.Col)
}

// FileStart returns the zero-width location at line 1, column 1 of path.
func FileStart(path string) Location {
	pos := source.LineCol{Line: 1, Col: 1}
	return Location{Path: path, Start: pos, End: pos}
}

// LocationOf resolves a span against its file set.
func LocationOf(fs *source.FileSet, sp source.Span) Location {
	start, end := fs.Resolve(sp)
	return Location{Path: fs.Get(sp.File).Path, Start: start, End: end}
}

// Note is a secondary line printed under a diagnostic.
type Note struct {
	Msg string
	Loc *Location
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary Location, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg})
	return d
}

// WithNoteAt appends a note that points at another location.
func (d Diagnostic) WithNoteAt(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg, Loc: &loc})
	return d
}

// Line renders the compiler-style single line:
//
//	path(line,col): error CODE: message
func (d Diagnostic) Line() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Primary, d.Severity.Label(), d.Code.ID(), d.Message)
}
