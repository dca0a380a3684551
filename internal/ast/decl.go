package ast

import (
	"slices"

	"oxmerge/internal/source"
)

// Kind is the declaration keyword of a type.
type Kind uint8

const (
	KindClass Kind = iota
	KindStruct
	KindInterface
	KindRecord
	KindRecordStruct
	KindEnum
	KindDelegate
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindRecord:
		return "record"
	case KindRecordStruct:
		return "record struct"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	default:
		return "type"
	}
}

// Keyword returns the leading declaration keyword ("record" for record structs).
func (k Kind) Keyword() string {
	if k == KindRecordStruct {
		return "record"
	}
	return k.String()
}

// TypeDecl is one top-level type declaration.
type TypeDecl struct {
	Name        string
	Namespace   string // fully qualified, "" for the global namespace
	Kind        Kind
	Modifiers   []string // in source order
	Attrs       []AttrList
	Bases       []string // base list entries, whitespace-trimmed
	TypeParams  string   // "<T, U>" or ""
	ParamList   string   // record primary constructor parameters, or ""
	Constraints []string // "where T : class" clauses
	Doc         string   // comments directly preceding the declaration
	Members     []Member
	Trailing    string // comments and directives before the closing brace
	Span        source.Span
	NameSpan    source.Span
}

// IsClass reports whether the declaration is a class.
func (d *TypeDecl) IsClass() bool {
	return d.Kind == KindClass
}

// HasModifier reports whether m is among the declaration's modifiers.
func (d *TypeDecl) HasModifier(m string) bool {
	return slices.Contains(d.Modifiers, m)
}

// IsPartial reports whether the declaration carries the partial modifier.
func (d *TypeDecl) IsPartial() bool {
	return d.HasModifier("partial")
}

// QualifiedName returns Namespace.Name, or Name in the global namespace.
func (d *TypeDecl) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// AttrList is one bracketed attribute section, e.g. [Info("A", "b", "1.0")].
type AttrList struct {
	Text   string   // source text from '[' to ']'
	Target string   // "assembly", "return", ... or ""
	Names  []string // attribute names in order, e.g. ["Info", "Description"]
	Span   source.Span
}

// Member is an opaque member declaration fragment.
//
// Text is dedented to column zero and holds the leading comments and
// directives followed by the declaration itself. Lines listed in Verbatim
// lie inside multi-line string literals and must be emitted unchanged.
type Member struct {
	Text     string
	Verbatim []int
	Offset   uint32 // byte offset of the first significant token in its file
	Seq      uint64 // monotonic parse order, used as a tie-break
	Span     source.Span
}
