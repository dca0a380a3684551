package token

import (
	"oxmerge/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Verbatim bool // identifier written as @name
	Leading  []Trivia
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwUsing && t.Kind <= KwThis
}

// IsContextual reports whether t is the non-verbatim identifier word.
func (t Token) IsContextual(word string) bool {
	return t.Kind == Ident && !t.Verbatim && t.Text == word
}

// Is reports whether t is the punctuation or operator op.
func (t Token) Is(k Kind) bool { return t.Kind == k }

