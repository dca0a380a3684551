package lexer

import (
	"testing"

	"oxmerge/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.cs", []byte(content)))
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Errorf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("expected sticky EOF with zero bytes")
	}
}

func TestPeekHelpers(t *testing.T) {
	cursor := NewCursor(createFile("ab"))
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Errorf("Peek2 = %q %q %v", b0, b1, ok)
	}
	if cursor.PeekAt(1) != 'b' || cursor.PeekAt(2) != 0 {
		t.Error("PeekAt out of range must return 0")
	}
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Error("Peek2 at last byte must fail")
	}
}

func TestMarkReset(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	if sp := cursor.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Errorf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 || !cursor.Eat('h') || cursor.Eat('x') {
		t.Error("Reset/Eat misbehaved")
	}
}

func TestAtLineStart(t *testing.T) {
	tests := []struct {
		input string
		off   uint32
		want  bool
	}{
		{"#if X", 0, true},
		{"  #if X", 2, true},
		{"a\n\t#if", 3, true},
		{"a #if", 2, false},
	}
	for _, tt := range tests {
		c := NewCursor(createFile(tt.input))
		c.Off = tt.off
		if got := c.AtLineStart(); got != tt.want {
			t.Errorf("AtLineStart(%q@%d) = %v, want %v", tt.input, tt.off, got, tt.want)
		}
	}
}
