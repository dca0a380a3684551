package parser

import (
	"sync/atomic"

	"oxmerge/internal/ast"
	"oxmerge/internal/lexer"
	"oxmerge/internal/source"
	"oxmerge/internal/token"
)

type Options struct {
	// Seq hands out member sequence numbers. Sharing one counter between
	// all files of an invocation gives members a total parse order.
	Seq *atomic.Uint64
	// MaxErrors stops recording parse errors after this many (0 = unlimited).
	MaxErrors int
}

// Parser — состояние парсера на один файл
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int
	opts Options
	unit *ast.SourceUnit
}

// ParseFile — входная точка для разбора одного файла.
// Ошибки разбора не прерывают работу: они копятся в SourceUnit.Errors,
// а парсер восстанавливается на ближайшей границе объявления.
func ParseFile(file *source.File, opts Options) *ast.SourceUnit {
	if opts.Seq == nil {
		opts.Seq = new(atomic.Uint64)
	}
	p := &Parser{
		file: file,
		opts: opts,
		unit: &ast.SourceUnit{File: file.ID, Path: file.Path},
	}
	lx := lexer.New(file, lexer.Options{Reporter: lexReporter{p}})
	p.toks = lx.All()

	p.parseNamespaceBody("", false)
	return p.unit
}

type lexReporter struct{ p *Parser }

func (r lexReporter) Report(sp source.Span, msg string) {
	r.p.errorAt(sp, msg)
}

// parseNamespaceBody разбирает содержимое файла или блока namespace.
// inBlock = true: останавливаемся на закрывающей '}' (она не съедается).
func (p *Parser) parseNamespaceBody(ns string, inBlock bool) {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Kind == token.RBrace:
			if inBlock {
				return
			}
			p.errorAt(tok.Span, "unexpected '}'")
			p.advance()
		case tok.Kind == token.Semicolon:
			p.advance()
		case tok.Kind == token.KwExtern && p.peekAt(1).IsContextual("alias"):
			p.skipPast(token.Semicolon)
		case tok.Kind == token.KwUsing,
			tok.IsContextual("global") && p.peekAt(1).Kind == token.KwUsing:
			p.parseUsing()
		case tok.Kind == token.KwNamespace:
			p.parseNamespace(ns)
		case tok.Kind == token.LBracket && p.isGlobalAttribute():
			p.skipGroup()
		case p.atTypeStart():
			p.parseTypeDecl(ns)
		default:
			p.errorAt(tok.Span, "unexpected "+describe(tok)+" at top level")
			p.resyncTop()
		}
	}
}

// parseNamespace handles both `namespace A.B { ... }` and `namespace A.B;`.
func (p *Parser) parseNamespace(outer string) {
	kw := p.advance()
	name, ok := p.parseDottedName()
	if !ok {
		p.errorAt(kw.Span, "expected namespace name")
		p.resyncTop()
		return
	}
	full := name
	if outer != "" {
		full = outer + "." + name
	}

	switch p.peek().Kind {
	case token.Semicolon:
		// file-scoped: всё до конца файла принадлежит namespace
		p.advance()
		p.parseNamespaceBody(full, false)
	case token.LBrace:
		open := p.advance()
		p.parseNamespaceBody(full, true)
		if _, ok := p.expect(token.RBrace); !ok {
			p.errorAt(open.Span, "namespace '"+full+"' is missing its closing '}'")
		}
	default:
		p.errorAt(p.peek().Span, "expected '{' or ';' after namespace name")
		p.resyncTop()
	}
}

// parseDottedName reads Ident(.Ident)* and returns it without whitespace.
func (p *Parser) parseDottedName() (string, bool) {
	if !p.at(token.Ident) {
		return "", false
	}
	name := p.advance().Text
	for p.at(token.Dot) && p.peekAt(1).Kind == token.Ident {
		p.advance()
		name += "." + p.advance().Text
	}
	return name, true
}

// isGlobalAttribute reports whether the '[' opens [assembly: ...] or [module: ...].
func (p *Parser) isGlobalAttribute() bool {
	target := p.peekAt(1)
	return (target.IsContextual("assembly") || target.IsContextual("module")) &&
		p.peekAt(2).Kind == token.Colon
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' или до конца сбалансированной группы {...}, или до начала объявления.
func (p *Parser) resyncTop() {
	start := p.pos
	for !p.at(token.EOF) {
		if p.pos > start && (p.atTypeStart() || p.at(token.KwNamespace) || p.at(token.KwUsing)) {
			return
		}
		tok := p.peek()
		switch tok.Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.LBrace:
			p.skipGroup()
			return
		case token.RBrace:
			if p.pos == start {
				p.advance()
			}
			return
		case token.LParen, token.LBracket:
			p.skipGroup()
		default:
			p.advance()
		}
	}
}
