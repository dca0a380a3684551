package format

import (
	"slices"
	"strings"
)

// Writer accumulates formatted output and emits canonical whitespace.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 4096),
		atLineStart: true,
	}
}

// Bytes returns the accumulated output terminated by exactly one newline.
// An empty document stays empty.
func (w *Writer) Bytes() []byte {
	out := w.buf
	for len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil
	}
	return append(slices.Clone(out), '\n')
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		spaceCount := w.indentLevel * w.opt.IndentWidth
		for range spaceCount {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s on the current line. s must not contain newlines;
// use Line or Block for multi-line text.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
}

// WriteByte writes a single byte to the output.
func (w *Writer) WriteByte(b byte) error {
	if b == '\n' {
		w.Newline()
		return nil
	}
	w.writeIndent()
	w.buf = append(w.buf, b)
	return nil
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line, dropping trailing blanks. Consecutive calls
// produce empty lines; see BlankLine for the collapsing variant.
func (w *Writer) Newline() {
	w.trimTrailingBlanks()
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// EndLine ends the current line unless the writer is already at a line start.
func (w *Writer) EndLine() {
	if !w.atLineStart {
		w.Newline()
	}
}

// BlankLine guarantees exactly one empty line before the next output. It is
// a no-op at the very start of the document.
func (w *Writer) BlankLine() {
	w.EndLine()
	if len(w.buf) == 0 {
		return
	}
	if len(w.buf) >= 2 && w.buf[len(w.buf)-2] == '\n' {
		return
	}
	w.buf = append(w.buf, '\n')
}

// Line writes s as a full line at the current indentation.
func (w *Writer) Line(s string) {
	w.EndLine()
	w.WriteString(strings.TrimRight(s, " \t"))
	w.Newline()
}

// Block writes multi-line text, indenting every line except those listed in
// verbatim (0-based), which are copied unchanged. Blank lines stay empty.
func (w *Writer) Block(text string, verbatim []int) {
	if text == "" {
		return
	}
	w.EndLine()
	for i, line := range strings.Split(text, "\n") {
		if slices.Contains(verbatim, i) {
			w.buf = append(w.buf, line...)
			w.buf = append(w.buf, '\n')
			w.atLineStart = true
			continue
		}
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			w.WriteString(line)
		}
		w.Newline()
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

func (w *Writer) trimTrailingBlanks() {
	for len(w.buf) > 0 {
		last := w.buf[len(w.buf)-1]
		if last != ' ' && last != '\t' {
			return
		}
		w.buf = w.buf[:len(w.buf)-1]
	}
}
