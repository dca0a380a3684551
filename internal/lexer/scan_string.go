package lexer

import (
	"oxmerge/internal/token"
)

// isStringPrefix reports whether the cursor sits on $" @" $@" @$" or a raw $$""" opener.
func (lx *Lexer) isStringPrefix() bool {
	i := uint32(0)
	for lx.cursor.PeekAt(i) == '$' || lx.cursor.PeekAt(i) == '@' {
		i++
	}
	return i > 0 && lx.cursor.PeekAt(i) == '"'
}

// scanString handles every C# string form: "..", @"..", $"..", $@"..", """..""" and $$"""..""".
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	dollars, verbatim := 0, false
	for {
		switch {
		case lx.cursor.Eat('$'):
			dollars++
			continue
		case lx.cursor.Eat('@'):
			verbatim = true
			continue
		}
		break
	}

	ok := lx.scanStringBody(dollars, verbatim)
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		lx.report(sp, "unterminated string literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

// scanStringBody consumes from the opening quote to the closing one.
func (lx *Lexer) scanStringBody(dollars int, verbatim bool) bool {
	quotes := 0
	for lx.cursor.PeekAt(uint32(quotes)) == '"' { // #nosec G115 -- bounded by file size
		quotes++
	}
	if quotes >= 3 && !verbatim {
		return lx.scanRawString(quotes)
	}
	lx.cursor.Bump() // opening '"'
	interpolated := dollars > 0

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			if verbatim && lx.cursor.PeekAt(1) == '"' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			lx.cursor.Bump()
			return true
		case b == '\\' && !verbatim:
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '\n' && !verbatim:
			return false
		case b == '{' && interpolated:
			if lx.cursor.PeekAt(1) == '{' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			lx.cursor.Bump()
			if !lx.skipHole() {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// scanRawString consumes a raw literal opened by n quotes; it ends at the
// first run of n quotes.
func (lx *Lexer) scanRawString(n int) bool {
	for range n {
		lx.cursor.Bump()
	}
	run := 0
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			run++
			if run == n {
				// лишние кавычки подряд тоже часть закрывающей последовательности
				for lx.cursor.Peek() == '"' {
					lx.cursor.Bump()
				}
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

// skipHole consumes an interpolation hole up to and including its closing
// '}'. Nested strings, chars and braces are honoured.
func (lx *Lexer) skipHole() bool {
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '{':
			depth++
			lx.cursor.Bump()
		case b == '}':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case b == '"' || (b == '$' || b == '@') && lx.isStringPrefix():
			dollars, verbatim := 0, false
			for {
				if lx.cursor.Eat('$') {
					dollars++
					continue
				}
				if lx.cursor.Eat('@') {
					verbatim = true
					continue
				}
				break
			}
			if !lx.scanStringBody(dollars, verbatim) {
				return false
			}
		case b == '\'':
			lx.scanChar()
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// scanChar сканирует символьный литерал: 'a', '\n', 'A', '\''.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case '\'':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.CharLit, Span: sp, Text: lx.text(sp)}
		case '\n':
		default:
			lx.cursor.Bump()
			continue
		}
		break
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(sp, "unterminated character literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanNumber сканирует числовые литералы целиком: 0x1F, 0b1010, 1_000, 1.5e-3f, 10UL, .5m.
// Диапазоны вида 1..2 не съедаются: точка берётся, только если за ней цифра.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	hex := false
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		hex = true
		lx.cursor.Bump()
		lx.cursor.Bump()
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '.' && isDec(lx.cursor.PeekAt(1)) && !hex:
			kind = token.RealLit
			lx.cursor.Bump()
		case (b == 'e' || b == 'E') && !hex:
			kind = token.RealLit
			lx.cursor.Bump()
			if n := lx.cursor.Peek(); n == '+' || n == '-' {
				lx.cursor.Bump()
			}
		case (b == 'f' || b == 'F' || b == 'd' || b == 'D' || b == 'm' || b == 'M') && !hex:
			kind = token.RealLit
			lx.cursor.Bump()
		case isDec(b) || b == '_' || (b < utf8RuneSelf && isIdentContinueByte(b)):
			lx.cursor.Bump()
		default:
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
