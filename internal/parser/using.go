package parser

import (
	"strings"

	"oxmerge/internal/ast"
	"oxmerge/internal/token"
)

// parseUsing разбирает директиву:
//
//	[global] using [static] [Alias =] Name;
//
// Name хранится без пробелов (кроме ", " внутри аргументов типа), чтобы
// одинаковые директивы из разных файлов совпадали текстуально.
func (p *Parser) parseUsing() {
	start := p.pos
	u := ast.Using{}
	if p.peek().IsContextual("global") {
		p.advance()
		u.Global = true
	}
	p.advance() // using

	if p.at(token.KwStatic) {
		p.advance()
		u.Static = true
	}
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Assign {
		u.Alias = p.advance().Text
		p.advance()
	}

	var name strings.Builder
	for !p.at(token.Semicolon) {
		tok := p.peek()
		if tok.Kind == token.EOF || tok.Kind == token.LBrace || tok.Kind == token.RBrace {
			p.errorAt(p.diagSpan(), "expected ';' after using directive")
			u.Span = p.spanBetween(start, p.pos-1)
			u.Text = renderUsing(u)
			p.unit.Usings = append(p.unit.Usings, u)
			return
		}
		p.advance()
		name.WriteString(tok.Text)
		if tok.Kind == token.Comma {
			name.WriteByte(' ')
		}
	}
	p.advance() // ;

	u.Name = name.String()
	u.Span = p.spanBetween(start, p.pos-1)
	u.Text = renderUsing(u)
	p.unit.Usings = append(p.unit.Usings, u)
}

func renderUsing(u ast.Using) string {
	var sb strings.Builder
	if u.Global {
		sb.WriteString("global ")
	}
	sb.WriteString("using ")
	if u.Static {
		sb.WriteString("static ")
	}
	if u.Alias != "" {
		sb.WriteString(u.Alias)
		sb.WriteString(" = ")
	}
	sb.WriteString(u.Name)
	sb.WriteByte(';')
	return sb.String()
}
