package parser

import (
	"strings"

	"oxmerge/internal/ast"
	"oxmerge/internal/token"
)

// atTypeStart reports whether the upcoming tokens begin a type declaration:
// attribute sections, then modifiers, then a declaration keyword.
func (p *Parser) atTypeStart() bool {
	i := 0
	for p.peekAt(i).Kind == token.LBracket {
		j, ok := p.scanGroupAhead(i)
		if !ok {
			return false
		}
		i = j + 1
	}
	for token.IsTypeModifier(p.peekAt(i)) {
		i++
	}
	_, ok := p.kindAt(i)
	return ok
}

// kindAt распознаёт ключевое слово объявления типа на позиции pos+i.
func (p *Parser) kindAt(i int) (ast.Kind, bool) {
	tok := p.peekAt(i)
	switch tok.Kind {
	case token.KwClass:
		return ast.KindClass, true
	case token.KwStruct:
		return ast.KindStruct, true
	case token.KwInterface:
		return ast.KindInterface, true
	case token.KwEnum:
		return ast.KindEnum, true
	case token.KwDelegate:
		return ast.KindDelegate, true
	}
	if tok.IsContextual("record") {
		switch next := p.peekAt(i + 1); {
		case next.Kind == token.KwStruct:
			return ast.KindRecordStruct, true
		case next.Kind == token.KwClass, next.Kind == token.Ident:
			return ast.KindRecord, true
		}
	}
	return 0, false
}

// scanGroupAhead находит закрывающую скобку группы, открытой на pos+i, не сдвигая позицию.
func (p *Parser) scanGroupAhead(i int) (int, bool) {
	depth := 0
	for ; p.pos+i < len(p.toks); i++ {
		k := p.peekAt(i).Kind
		switch {
		case k == token.EOF:
			return 0, false
		case k.IsOpen():
			depth++
		case k.IsClose():
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// parseTypeDecl разбирает одно объявление типа (класс, структура, интерфейс,
// record, enum или delegate) вместе с атрибутами и модификаторами.
func (p *Parser) parseTypeDecl(ns string) *ast.TypeDecl {
	startIdx := p.pos
	decl := ast.TypeDecl{Namespace: ns}
	decl.Doc = commentText(p.peek().Leading, p.pos > 0)

	for p.at(token.LBracket) {
		decl.Attrs = append(decl.Attrs, p.parseAttrList())
	}
	for token.IsTypeModifier(p.peek()) {
		decl.Modifiers = append(decl.Modifiers, p.advance().Text)
	}
	kind, _ := p.kindAt(0)
	decl.Kind = kind
	switch kind {
	case ast.KindRecordStruct:
		p.advance()
		p.advance()
	case ast.KindRecord:
		p.advance()
		if p.at(token.KwClass) {
			p.advance()
		}
	case ast.KindDelegate:
		if !p.parseDelegate(&decl, startIdx) {
			return nil
		}
		return p.pushType(decl)
	default:
		p.advance()
	}

	if !p.at(token.Ident) {
		p.errorAt(p.diagSpan(), "expected type name, got "+describe(p.peek()))
		p.resyncTop()
		return nil
	}
	nameTok := p.advance()
	decl.Name = nameTok.Text
	decl.NameSpan = nameTok.Span

	if p.at(token.Lt) {
		from := p.pos
		if p.skipAngles() {
			decl.TypeParams = p.textBetween(from, p.pos-1)
		}
	}
	if p.at(token.LParen) {
		from := p.pos
		if end := p.skipGroup(); end >= 0 {
			decl.ParamList = p.textBetween(from, end)
		}
	}
	if p.at(token.Colon) {
		p.advance()
		decl.Bases = p.parseBaseList()
	}
	for p.peek().IsContextual("where") {
		decl.Constraints = append(decl.Constraints, p.parseConstraint())
	}

	switch {
	case p.at(token.LBrace) && kind == ast.KindEnum:
		p.skipGroup()
	case p.at(token.LBrace):
		p.parseBody(&decl)
	case p.at(token.Semicolon):
		// record R(int X); и подобные объявления без тела
	default:
		p.errorAt(p.diagSpan(), "expected '{' to open the body of '"+decl.Name+"'")
		p.resyncTop()
		return nil
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	decl.Span = p.spanBetween(startIdx, p.pos-1)
	return p.pushType(decl)
}

func (p *Parser) pushType(decl ast.TypeDecl) *ast.TypeDecl {
	p.unit.Types = append(p.unit.Types, decl)
	return &p.unit.Types[len(p.unit.Types)-1]
}

// parseDelegate: delegate RetType Name<T>(params) where ...;
// Имя — идентификатор прямо перед списком параметров (или перед его '<...>').
func (p *Parser) parseDelegate(decl *ast.TypeDecl, startIdx int) bool {
	p.advance() // delegate
	lastIdent := -1
	for !p.at(token.EOF) && !p.at(token.LParen) && !p.at(token.Semicolon) {
		switch {
		case p.at(token.Ident):
			lastIdent = p.pos
			p.advance()
		case p.at(token.Lt):
			p.skipAngles()
		default:
			p.advance()
		}
	}
	if lastIdent < 0 {
		p.errorAt(p.diagSpan(), "expected delegate name")
		p.resyncTop()
		return false
	}
	decl.Name = p.toks[lastIdent].Text
	decl.NameSpan = p.toks[lastIdent].Span
	p.skipPast(token.Semicolon)
	decl.Span = p.spanBetween(startIdx, p.pos-1)
	return true
}

// parseAttrList разбирает одну секцию [target: A(...), B].
func (p *Parser) parseAttrList() ast.AttrList {
	from := p.pos
	p.advance() // [
	attr := ast.AttrList{}
	if p.peekAt(1).Kind == token.Colon && (p.at(token.Ident) || p.peek().IsKeyword()) {
		attr.Target = p.advance().Text
		p.advance()
	}

	var name strings.Builder
	flush := func() {
		if name.Len() > 0 {
			attr.Names = append(attr.Names, name.String())
			name.Reset()
		}
	}
	for !p.at(token.EOF) && !p.at(token.RBracket) {
		switch tok := p.peek(); {
		case tok.Kind == token.LParen:
			p.skipGroup()
		case tok.Kind == token.Lt:
			p.skipAngles()
		case tok.Kind == token.Comma:
			flush()
			p.advance()
		case tok.Kind == token.LBrace, tok.Kind == token.RBrace, tok.Kind == token.Semicolon:
			p.errorAt(p.toks[from].Span, "unterminated attribute section")
			flush()
			attr.Span = p.spanBetween(from, p.pos-1)
			attr.Text = p.textBetween(from, p.pos-1)
			return attr
		default:
			name.WriteString(p.advance().Text)
		}
	}
	flush()
	end := p.pos
	if _, ok := p.expect(token.RBracket); !ok {
		end = p.pos - 1
	}
	attr.Span = p.spanBetween(from, end)
	attr.Text = p.textBetween(from, end)
	return attr
}

// parseBaseList собирает элементы базового списка до '{', ';' или 'where'.
func (p *Parser) parseBaseList() []string {
	var bases []string
	from := p.pos
	flush := func(to int) {
		if to >= from {
			bases = append(bases, collapseSpaces(p.textBetween(from, to)))
		}
	}
	for !p.at(token.EOF) {
		tok := p.peek()
		switch {
		case tok.Kind == token.LBrace || tok.Kind == token.Semicolon || tok.IsContextual("where"):
			flush(p.pos - 1)
			return bases
		case tok.Kind == token.Comma:
			flush(p.pos - 1)
			p.advance()
			from = p.pos
		case tok.Kind == token.Lt:
			p.skipAngles()
		case tok.Kind == token.LParen || tok.Kind == token.LBracket:
			p.skipGroup()
		case tok.Kind == token.RBrace:
			p.errorAt(tok.Span, "unexpected '}' in base list")
			flush(p.pos - 1)
			return bases
		default:
			p.advance()
		}
	}
	flush(p.pos - 1)
	return bases
}

// parseConstraint: where T : class, new()
func (p *Parser) parseConstraint() string {
	from := p.pos
	p.advance() // where
	for !p.at(token.EOF) {
		tok := p.peek()
		if tok.Kind == token.LBrace || tok.Kind == token.Semicolon || tok.Kind == token.RBrace ||
			(tok.IsContextual("where") && p.pos > from+1) {
			break
		}
		switch tok.Kind {
		case token.Lt:
			p.skipAngles()
		case token.LParen, token.LBracket:
			p.skipGroup()
		default:
			p.advance()
		}
	}
	return collapseSpaces(p.textBetween(from, p.pos-1))
}

// collapseSpaces сводит любые пробельные последовательности к одному пробелу.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
