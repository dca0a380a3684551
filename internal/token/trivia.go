package token

import (
	"strings"

	"oxmerge/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDirective
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// DirectiveName returns the directive keyword of a TriviaDirective ("region",
// "if", "pragma"), or "".
func (t Trivia) DirectiveName() string {
	if t.Kind != TriviaDirective {
		return ""
	}
	s := strings.TrimLeft(t.Text, " \t")
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimLeft(s, " \t")
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// IsRegion reports whether the trivia is a #region or #endregion line.
func (t Trivia) IsRegion() bool {
	name := t.DirectiveName()
	return name == "region" || name == "endregion"
}

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	case TriviaDirective:
		return "Directive"
	}
	return "Trivia(?)"
}
