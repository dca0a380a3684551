package token_test

import (
	"testing"

	"oxmerge/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want token.Kind
		ok   bool
	}{
		{"class", token.KwClass, true},
		{"namespace", token.KwNamespace, true},
		{"Class", token.Invalid, false},
		{"partial", token.Invalid, false}, // contextual
		{"record", token.Invalid, false},
	}
	for _, tt := range tests {
		k, ok := token.LookupKeyword(tt.in)
		if ok != tt.ok || (ok && k != tt.want) {
			t.Errorf("LookupKeyword(%q) = %v, %v", tt.in, k, ok)
		}
	}
}

func TestIsTypeModifier(t *testing.T) {
	tests := []struct {
		name string
		tok  token.Token
		want bool
	}{
		{"public", token.Token{Kind: token.KwPublic, Text: "public"}, true},
		{"partial", token.Token{Kind: token.Ident, Text: "partial"}, true},
		{"verbatim partial", token.Token{Kind: token.Ident, Text: "partial", Verbatim: true}, false},
		{"class", token.Token{Kind: token.KwClass, Text: "class"}, false},
		{"ident", token.Token{Kind: token.Ident, Text: "Foo"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := token.IsTypeModifier(tt.tok); got != tt.want {
				t.Errorf("IsTypeModifier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectiveName(t *testing.T) {
	tests := []struct {
		text   string
		name   string
		region bool
	}{
		{"#region Hooks", "region", true},
		{"  #  endregion", "endregion", true},
		{"#if DEBUG", "if", false},
		{"#pragma warning disable CS0649", "pragma", false},
	}
	for _, tt := range tests {
		tr := token.Trivia{Kind: token.TriviaDirective, Text: tt.text}
		if got := tr.DirectiveName(); got != tt.name {
			t.Errorf("DirectiveName(%q) = %q, want %q", tt.text, got, tt.name)
		}
		if tr.IsRegion() != tt.region {
			t.Errorf("IsRegion(%q) = %v", tt.text, tr.IsRegion())
		}
	}
	if (token.Trivia{Kind: token.TriviaLineComment, Text: "#region"}).IsRegion() {
		t.Error("comment must not be a region")
	}
}

func TestKindString(t *testing.T) {
	if token.LBrace.String() != "{" || token.KwClass.String() != "class" {
		t.Errorf("unexpected kind names: %s %s", token.LBrace, token.KwClass)
	}
	if !token.LParen.IsOpen() || !token.RBracket.IsClose() || token.Lt.IsOpen() {
		t.Error("bracket classification wrong")
	}
}
