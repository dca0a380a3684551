package lexer

import (
	"oxmerge/internal/token"
)

// многосимвольные операторы в порядке жадности
var multiOps = []string{
	"??=", "...",
	"<=", ">=", "==", "!=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"->", "??", "..",
}

var singlePunct = map[byte]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'<': token.Lt,
	'>': token.Gt,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	':': token.Colon,
	'=': token.Assign,
	'?': token.Question,
	'#': token.Hash,
}

// scanOperatorOrPunct: сначала составные ("::", "=>", затем multiOps), потом одиночные.
// '<' и '>' никогда не склеиваются в сдвиги.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch {
	case lx.try("::"):
		return emit(token.ColonColon)
	case lx.try("=>"):
		return emit(token.FatArrow)
	}
	for _, op := range multiOps {
		if lx.try(op) {
			return emit(token.Op)
		}
	}

	b := lx.cursor.Peek()
	if k, ok := singlePunct[b]; ok {
		lx.cursor.Bump()
		return emit(k)
	}
	if b >= utf8RuneSelf {
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.report(sp, "unexpected character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.cursor.Bump()
	return emit(token.Op)
}
