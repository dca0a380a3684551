package parser

import (
	"fmt"

	"oxmerge/internal/ast"
	"oxmerge/internal/source"
	"oxmerge/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt смотрит на n токенов вперёд; за концом потока всегда EOF.
func (p *Parser) peekAt(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance — съедает следующий токен; EOF никогда не съедается.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

// prev возвращает последний съеденный токен.
func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (peek,false).
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	tok := p.peek()
	p.errorAt(p.diagSpan(), fmt.Sprintf("expected '%s', got %s", k, describe(tok)))
	return tok, false
}

// diagSpan — лучший span для диагностики: на EOF указываем сразу за последним токеном.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.pos > 0 {
		end := p.prev().Span.End
		return source.Span{File: tok.Span.File, Start: end, End: end}
	}
	return tok.Span
}

func (p *Parser) errorAt(sp source.Span, msg string) {
	if p.opts.MaxErrors > 0 && len(p.unit.Errors) >= p.opts.MaxErrors {
		return
	}
	p.unit.Errors = append(p.unit.Errors, ast.ParseError{Span: sp, Msg: msg})
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("identifier '%s'", tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}

// skipGroup съедает сбалансированную группу, начинающуюся с текущей открывающей скобки.
// Возвращает индекс закрывающего токена или -1, если группа не закрыта.
func (p *Parser) skipGroup() int {
	open := p.advance()
	depth := 1
	for !p.at(token.EOF) {
		tok := p.advance()
		switch {
		case tok.Kind.IsOpen():
			depth++
		case tok.Kind.IsClose():
			depth--
			if depth == 0 {
				return p.pos - 1
			}
		}
	}
	p.errorAt(open.Span, fmt.Sprintf("unbalanced '%s'", open.Text))
	return -1
}

// skipAngles съедает <...> с учётом вложенности; текущий токен — '<'.
func (p *Parser) skipAngles() bool {
	open := p.advance()
	depth := 1
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				p.advance()
				return true
			}
		case token.LBrace, token.RBrace, token.Semicolon:
			p.errorAt(open.Span, "unbalanced '<'")
			return false
		case token.LParen, token.LBracket:
			p.skipGroup()
			continue
		}
		p.advance()
	}
	p.errorAt(open.Span, "unbalanced '<'")
	return false
}

// skipPast съедает токены до k включительно (сбалансированно).
func (p *Parser) skipPast(k token.Kind) {
	for !p.at(token.EOF) {
		if p.at(k) {
			p.advance()
			return
		}
		if p.peek().Kind.IsOpen() {
			p.skipGroup()
			continue
		}
		p.advance()
	}
}

// textBetween возвращает исходный текст от начала токена from до конца токена to (индексы в p.toks).
func (p *Parser) textBetween(from, to int) string {
	if from > to || from < 0 {
		return ""
	}
	return string(p.file.Content[p.toks[from].Span.Start:p.toks[to].Span.End])
}

func (p *Parser) spanBetween(from, to int) source.Span {
	return p.toks[from].Span.Cover(p.toks[to].Span)
}
