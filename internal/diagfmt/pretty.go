package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"oxmerge/internal/diag"
)

type palette struct {
	err   *color.Color
	warn  *color.Color
	info  *color.Color
	caret *color.Color
	gut   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow),
		info:  color.New(color.FgBlue),
		caret: color.New(color.FgCyan),
		gut:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.caret, p.gut} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty печатает диагностики в консольном виде:
//
//	❌ path(line,col): error CODE: message
//	    • note
//	  >   12 | source line
//	         |     ^^^^
//
// Порядок не меняется, сортировка на вызывающей стороне.
func Pretty(w io.Writer, diags []diag.Diagnostic, cache *SnippetCache, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i := range diags {
		if err := prettyOne(w, &diags[i], cache, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

// PrettyBag renders every item of bag.
func PrettyBag(w io.Writer, bag *diag.Bag, cache *SnippetCache, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	return Pretty(w, bag.Items(), cache, opts)
}

func prettyOne(w io.Writer, d *diag.Diagnostic, cache *SnippetCache, opts PrettyOpts, pal palette) error {
	loc := d.Primary
	loc.Path = displayPath(loc.Path, opts.PathMode, opts.BaseDir)
	header := d.Line()
	if loc.Path != d.Primary.Path {
		header = diag.Diagnostic{Severity: d.Severity, Code: d.Code, Message: d.Message, Primary: loc}.Line()
	}
	if opts.Marker != "" {
		header = opts.Marker + " " + header
	}
	if _, err := pal.severity(d.Severity).Fprintln(w, header); err != nil {
		return err
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			line := "    • " + n.Msg
			if n.Loc != nil && n.Loc.Known() {
				line += " (" + LocationLine(*n.Loc, opts.PathMode, opts.BaseDir) + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	snippet := Snippet(cache.Lines(d.Primary.Path), d.Primary, opts.Context)
	if len(snippet) == 0 {
		return nil
	}
	for _, sl := range snippet {
		var err error
		if sl.Caret {
			_, err = fmt.Fprintf(w, "%s%s\n", pal.gut.Sprint(sl.Gutter), pal.caret.Sprint(sl.Text))
		} else {
			_, err = fmt.Fprintf(w, "%s%s\n", pal.gut.Sprint(sl.Gutter), sl.Text)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// SnippetLine is one rendered line of a source excerpt.
type SnippetLine struct {
	Gutter string
	Text   string
	Caret  bool
}

const lineNoWidth = 4

// Snippet builds the ±context excerpt around loc from lines. The caret line
// sits under the primary line; its width is the display width of the span on
// that line, at least one column. An unknown location or an empty file gives
// no snippet.
func Snippet(lines []string, loc diag.Location, context int) []SnippetLine {
	if len(lines) == 0 || loc.Start.Line == 0 {
		return nil
	}
	primary := int(loc.Start.Line) - 1
	if primary >= len(lines) {
		return nil
	}
	context = max(context, 0)
	from := max(0, primary-context)
	to := min(len(lines)-1, primary+context)

	out := make([]SnippetLine, 0, to-from+2)
	for i := from; i <= to; i++ {
		prefix := " "
		if i == primary {
			prefix = ">"
		}
		out = append(out, SnippetLine{
			Gutter: fmt.Sprintf("  %s %*d | ", prefix, lineNoWidth, i+1),
			Text:   lines[i],
		})
		if i == primary {
			out = append(out, SnippetLine{
				Gutter: strings.Repeat(" ", 5+lineNoWidth) + "| ",
				Text:   caretLine(lines[i], loc),
				Caret:  true,
			})
		}
	}
	return out
}

func caretLine(line string, loc diag.Location) string {
	startCol := clampCol(line, loc.Start.Col)
	prefix := line[:startCol]

	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteRune('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	width := 1
	if loc.End.Line == loc.Start.Line && loc.End.Col > loc.Start.Col {
		endCol := clampCol(line, loc.End.Col)
		width = max(1, runewidth.StringWidth(line[startCol:endCol]))
	} else if loc.End.Line != loc.Start.Line {
		width = max(1, int(loc.End.Col)-int(loc.Start.Col))
	}
	sb.WriteString(strings.Repeat("^", width))
	return sb.String()
}

// clampCol converts a 1-based byte column into an index into line that does
// not split a multi-byte rune.
func clampCol(line string, col uint32) int {
	idx := 0
	if col > 1 {
		idx = int(col - 1)
	}
	idx = min(idx, len(line))
	for idx > 0 && idx < len(line) && !isRuneStart(line[idx]) {
		idx--
	}
	return idx
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// LocationLine formats loc as "path(line,col)" under the given path mode.
func LocationLine(loc diag.Location, mode PathMode, baseDir string) string {
	loc.Path = displayPath(loc.Path, mode, baseDir)
	return loc.String()
}
