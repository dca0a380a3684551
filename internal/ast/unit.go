package ast

import (
	"oxmerge/internal/source"
)

// SourceUnit is the structural view of one file.
type SourceUnit struct {
	File   source.FileID
	Path   string
	Usings []Using
	Types  []TypeDecl // top-level declarations in source order
	Errors []ParseError
}

// Using is one using directive.
type Using struct {
	Text   string // normalised source text, e.g. "using static System.Math;"
	Name   string // referenced name without whitespace; "" when unresolvable
	Alias  string
	Static bool
	Global bool
	Span   source.Span
}

// ParseError describes a recoverable structural parse failure.
type ParseError struct {
	Span source.Span
	Msg  string
}

func (e ParseError) Error() string {
	return e.Msg
}

// HasErrors reports whether the file failed to parse cleanly.
func (u *SourceUnit) HasErrors() bool {
	return len(u.Errors) > 0
}

// Classes returns the class declarations among u.Types.
func (u *SourceUnit) Classes() []*TypeDecl {
	out := make([]*TypeDecl, 0, len(u.Types))
	for i := range u.Types {
		if u.Types[i].IsClass() {
			out = append(out, &u.Types[i])
		}
	}
	return out
}
