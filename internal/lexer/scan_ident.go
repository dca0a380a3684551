package lexer

import (
	"golang.org/x/text/unicode/norm"

	"oxmerge/internal/token"
)

// scanIdent сканирует идентификатор (в том числе @verbatim) и проверяет через LookupKeyword.
// Token.Text хранит имя без '@' в форме NFC, чтобы сравнение имён не зависело
// от способа записи составных символов.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	verbatim := lx.cursor.Eat('@')
	nameStart := lx.cursor.Off

	r, sz := lx.peekRune()
	if sz == 0 || !(r < utf8RuneSelf && isIdentStartByte(byte(r)) || r >= utf8RuneSelf && isIdentStartRune(r)) {
		lx.cursor.Reset(start)
		return lx.scanOperatorOrPunct()
	}
	lx.bumpRune()
	ascii := r < utf8RuneSelf
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[nameStart:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}

	if !verbatim {
		if k, ok := token.LookupKeyword(text); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text, Verbatim: verbatim}
}
