package parser

import (
	"slices"
	"strings"

	"oxmerge/internal/ast"
	"oxmerge/internal/token"
)

// parseBody разбирает тело класса/структуры/интерфейса/record на члены.
// Текущий токен — '{'.
func (p *Parser) parseBody(decl *ast.TypeDecl) {
	open := p.advance()
	first := true
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.RBrace:
			trailing := triviaText(tok.Leading, !first)
			decl.Trailing, _ = normalizeBlock(trailing, nil, minIndent(trailing))
			p.advance()
			return
		case token.EOF:
			p.errorAt(open.Span, "type '"+decl.Name+"' is missing its closing '}'")
			return
		}
		if m, ok := p.parseMember(!first); ok {
			decl.Members = append(decl.Members, m)
		}
		first = false
	}
}

// parseMember отрезает один член. Член заканчивается:
//   - на ';' на нулевой глубине;
//   - на '}', вернувшей глубину к нулю, если до этого на нулевой глубине
//     не было '=' или '=>' и следом не идёт '=' (инициализатор свойства).
func (p *Parser) parseMember(skipFirstLine bool) (ast.Member, bool) {
	startIdx := p.pos
	first := p.peek()
	depth := 0
	sawAssign := false

scan:
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			p.errorAt(p.diagSpan(), "unexpected end of file inside a member declaration")
			break scan
		case depth == 0 && tok.Kind == token.RBrace:
			p.errorAt(p.diagSpan(), "expected ';' or '}' to end the member declaration")
			break scan
		}
		p.advance()

		switch {
		case tok.Kind.IsOpen():
			depth++
		case tok.Kind.IsClose():
			depth--
			if depth < 0 {
				p.errorAt(tok.Span, "unbalanced '"+tok.Text+"'")
				depth = 0
				continue
			}
			if depth == 0 && tok.Kind == token.RBrace && !sawAssign {
				if p.at(token.Assign) {
					sawAssign = true
					continue
				}
				break scan
			}
		case depth == 0 && (tok.Kind == token.Assign || tok.Kind == token.FatArrow):
			sawAssign = true
		case depth == 0 && tok.Kind == token.Semicolon:
			break scan
		}
	}

	endIdx := p.pos - 1
	if endIdx < startIdx {
		return ast.Member{}, false
	}

	end := p.toks[endIdx].Span.End
	// комментарий на той же строке после члена принадлежит ему
	for _, tr := range p.peek().Leading {
		if tr.Kind == token.TriviaNewline {
			break
		}
		if tr.Kind == token.TriviaLineComment || tr.Kind == token.TriviaBlockComment || tr.Kind == token.TriviaDocLine {
			end = tr.Span.End
		}
	}

	leading := triviaText(first.Leading, skipFirstLine)
	if !strings.Contains(leading, "\n") {
		// член на одной строке с '{' или предыдущим членом: пробелы перед ним не отступ
		leading = strings.TrimLeft(leading, " \t")
	}
	body := string(p.file.Content[first.Span.Start:end])

	// строки внутри многострочных строковых литералов не переформатируются
	leadLines := strings.Count(leading, "\n")
	var verbatim []int
	for i := startIdx; i <= endIdx; i++ {
		tok := p.toks[i]
		if tok.Kind != token.StringLit && tok.Kind != token.Invalid {
			continue
		}
		lit := p.file.Content[tok.Span.Start:tok.Span.End]
		n := strings.Count(string(lit), "\n")
		if n == 0 {
			continue
		}
		base := leadLines + strings.Count(string(p.file.Content[first.Span.Start:tok.Span.Start]), "\n")
		for l := 1; l <= n; l++ {
			verbatim = append(verbatim, base+l)
		}
	}

	text, verbatim := normalizeBlock(leading+body, verbatim, p.lineIndent(first.Span.Start))
	return ast.Member{
		Text:     text,
		Verbatim: verbatim,
		Offset:   first.Span.Start,
		Seq:      p.opts.Seq.Add(1),
		Span:     p.spanBetween(startIdx, endIdx),
	}, true
}

// triviaText склеивает текст trivia. С skipFirstLine всё до первого перевода
// строки отбрасывается: это хвост предыдущей строки. Строки #region/#endregion выкидываются.
func triviaText(leading []token.Trivia, skipFirstLine bool) string {
	if skipFirstLine {
		// без перевода строки всё это уже забрал предыдущий член
		rest := []token.Trivia(nil)
		for i, tr := range leading {
			if tr.Kind == token.TriviaNewline {
				rest = leading[i+1:]
				break
			}
		}
		leading = rest
	}
	var sb strings.Builder
	for _, tr := range leading {
		sb.WriteString(tr.Text)
	}
	lines := strings.Split(sb.String(), "\n")
	lines = slices.DeleteFunc(lines, func(line string) bool {
		trimmed := strings.TrimLeft(line, " \t")
		return strings.HasPrefix(trimmed, "#region") || strings.HasPrefix(trimmed, "#endregion")
	})
	return strings.Join(lines, "\n")
}

// commentText возвращает комментарии перед объявлением типа, по одному на строку.
func commentText(leading []token.Trivia, skipFirstLine bool) string {
	if skipFirstLine {
		for i, tr := range leading {
			if tr.Kind == token.TriviaNewline {
				leading = leading[i+1:]
				break
			}
		}
	}
	var lines []string
	for _, tr := range leading {
		switch tr.Kind {
		case token.TriviaLineComment, token.TriviaDocLine, token.TriviaBlockComment:
			lines = append(lines, tr.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// lineIndent возвращает ширину отступа строки, содержащей смещение off.
func (p *Parser) lineIndent(off uint32) int {
	content := p.file.Content
	start := int(off)
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	n := 0
	for start+n < len(content) && (content[start+n] == ' ' || content[start+n] == '\t') {
		n++
	}
	return n
}

// normalizeBlock снимает до indent пробельных символов с каждой строки,
// обрезает хвостовые пробелы и пустые строки по краям. Строки из verbatim
// не трогаются; возвращаются их пересчитанные индексы.
func normalizeBlock(text string, verbatim []int, indent int) (string, []int) {
	lines := strings.Split(text, "\n")
	isVerbatim := func(i int) bool { return slices.Contains(verbatim, i) }

	for i, line := range lines {
		if isVerbatim(i) {
			continue
		}
		n := 0
		for n < indent && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		lines[i] = strings.TrimRight(line[n:], " \t\r")
	}

	first, last := 0, len(lines)-1
	for first <= last && lines[first] == "" && !isVerbatim(first) {
		first++
	}
	for last >= first && lines[last] == "" && !isVerbatim(last) {
		last--
	}
	if first > last {
		return "", nil
	}

	var out []int
	for _, v := range verbatim {
		if v >= first && v <= last {
			out = append(out, v-first)
		}
	}
	return strings.Join(lines[first:last+1], "\n"), out
}

// minIndent возвращает наименьший отступ среди непустых строк.
func minIndent(text string) int {
	best := -1
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); best < 0 || n < best {
			best = n
		}
	}
	return max(best, 0)
}
