package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"oxmerge/internal/lexer"
	"oxmerge/internal/source"
	"oxmerge/internal/token"
)

// testReporter собирает все ошибки, полученные от лексера
type testReporter struct {
	msgs []string
}

func (r *testReporter) Report(sp source.Span, msg string) {
	r.msgs = append(r.msgs, fmt.Sprintf("%s: %s", sp, msg))
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := lx.All()
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %s\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.msgs)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != kind {
		t.Errorf("%q: expected kind %v, got %v (errors %v)", input, kind, tok.Kind, reporter.msgs)
	}
	if tok.Text != text {
		t.Errorf("%q: expected text %q, got %q", input, text, tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("%q: expected EOF after single token, got %v(%q)", input, next.Kind, next.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== идентификаторы и ключевые слова ======

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"Foo", token.Ident, "Foo"},
		{"_bar1", token.Ident, "_bar1"},
		{"class", token.KwClass, "class"},
		{"partial", token.Ident, "partial"},
		{"@class", token.Ident, "class"},
		{"Привет", token.Ident, "Привет"},
		{"cafe\u0301", token.Ident, "caf\u00e9"}, // NFC
	}
	for _, tt := range tests {
		expectSingleToken(t, tt.input, tt.kind, tt.text)
	}

	lx, _ := makeTestLexer("@partial")
	if tok := lx.Next(); !tok.Verbatim || tok.IsContextual("partial") {
		t.Errorf("verbatim identifier must not act as contextual keyword: %+v", tok)
	}
}

// ====== литералы ======

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"42", token.IntLit},
		{"0xFF_FF", token.IntLit},
		{"0b1010", token.IntLit},
		{"10UL", token.IntLit},
		{"1.5", token.RealLit},
		{"1.5e-3f", token.RealLit},
		{"2m", token.RealLit},
		{".5", token.RealLit},
		{"0xDEADBEEF", token.IntLit},
	}
	for _, tt := range tests {
		expectSingleToken(t, tt.input, tt.kind, tt.input)
	}
	// диапазон: точка не съедается
	expectTokens(t, "1..2", []token.Kind{token.IntLit, token.Op, token.IntLit})
}

func TestStrings(t *testing.T) {
	tests := []string{
		`"plain"`,
		`"esc \" \\ \n"`,
		`@"C:\path\""quoted"""`,
		`$"hi {name}!"`,
		`$"{{literal}} {a + b:0.00}"`,
		`$"outer {(ok ? "yes" : $"no {x}")}"`,
		`$@"multi
line {x}"`,
		`"""raw "quoted" text"""`,
		`$$"""{{value}} and {x}"""`,
		`""`,
	}
	for _, in := range tests {
		expectSingleToken(t, in, token.StringLit, in)
	}
}

func TestStringErrors(t *testing.T) {
	tests := []string{
		`"unterminated`,
		"\"newline\n\"",
		`$"hole {never closed"`,
	}
	for _, in := range tests {
		lx, rep := makeTestLexer(in)
		tok := lx.Next()
		if tok.Kind != token.Invalid {
			t.Errorf("%q: expected Invalid, got %v", in, tok.Kind)
		}
		if len(rep.msgs) == 0 {
			t.Errorf("%q: expected an error report", in)
		}
	}
}

func TestChars(t *testing.T) {
	for _, in := range []string{`'a'`, `'\''`, `'\n'`, `'\u0041'`, `'"'`} {
		expectSingleToken(t, in, token.CharLit, in)
	}
}

// ====== операторы ======

func TestOperators(t *testing.T) {
	toks := expectTokens(t, "a ?? b => c :: d <= e >>= f",
		[]token.Kind{
			token.Ident, token.Op, token.Ident, token.FatArrow, token.Ident,
			token.ColonColon, token.Ident, token.Op, token.Ident,
			token.Gt, token.Op, token.Ident,
		})
	if toks[1].Text != "??" || toks[7].Text != "<=" || toks[10].Text != ">=" {
		t.Errorf("unexpected op texts: %s", tokensToString(toks))
	}
}

func TestGenericsCloseSeparately(t *testing.T) {
	expectTokens(t, "List<List<int>>", []token.Kind{
		token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt,
	})
}

// ====== trivia ======

func TestTrivia(t *testing.T) {
	input := "// line\n/// doc\n/* block */ #not a directive\n  #region Hooks\nclass"
	lx, _ := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != token.Hash {
		t.Fatalf("mid-line '#' must be a token, got %v", tok.Kind)
	}
	kinds := make([]token.TriviaKind, 0, len(tok.Leading))
	for _, tr := range tok.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline,
		token.TriviaDocLine, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaSpace,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("leading trivia = %v, want %v", kinds, want)
	}

	// пропускаем "not a directive"
	for tok.Kind != token.KwClass && tok.Kind != token.EOF {
		tok = lx.Next()
	}
	var region *token.Trivia
	for i := range tok.Leading {
		if tok.Leading[i].Kind == token.TriviaDirective {
			region = &tok.Leading[i]
		}
	}
	if region == nil || !region.IsRegion() || region.Text != "#region Hooks" {
		t.Fatalf("expected #region directive trivia, got %+v", tok.Leading)
	}
}

func TestTriviaUnterminatedBlockComment(t *testing.T) {
	lx, rep := makeTestLexer("/* never closed")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaBlockComment {
		t.Errorf("expected block comment trivia on EOF, got %+v", tok.Leading)
	}
	if len(rep.msgs) != 1 {
		t.Errorf("expected one report, got %v", rep.msgs)
	}
}

func TestLexerDeclaration(t *testing.T) {
	input := `[Info("Foo", "me", "1.0")]
public partial class Foo : RustPlugin { }`
	expectTokens(t, input, []token.Kind{
		token.LBracket, token.Ident, token.LParen, token.StringLit, token.Comma,
		token.StringLit, token.Comma, token.StringLit, token.RParen, token.RBracket,
		token.KwPublic, token.Ident, token.KwClass, token.Ident, token.Colon, token.Ident,
		token.LBrace, token.RBrace,
	})
}

func TestLexerPeek(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p1 := lx.Peek()
	p2 := lx.Peek()
	if p1.Text != "a" || p2.Text != "a" {
		t.Fatalf("Peek must be idempotent: %q %q", p1.Text, p2.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
	for range 3 {
		if lx.Next().Kind != token.EOF {
			t.Fatal("EOF must be sticky")
		}
	}
}

func TestLexerSpansMatchSource(t *testing.T) {
	input := "namespace A.B { class C<T> where T : new() { int x = $\"{1}\"; } }"
	lx, _ := makeTestLexer(input)
	for _, tok := range lx.All() {
		if tok.Kind == token.EOF {
			break
		}
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span text %q != token text %q", got, tok.Text)
		}
	}
}
