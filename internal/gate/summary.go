package gate

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// SkipEntry is one plugin that produced no output.
type SkipEntry struct {
	Plugin string `json:"plugin"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (e SkipEntry) String() string {
	return fmt.Sprintf("%s (%s)", e.Plugin, e.Reason)
}

// Summary aggregates gate decisions of one invocation.
type Summary struct {
	Processed int
	Merged    int
	Skipped   int
	Entries   []SkipEntry
	// OutputDir is printed when at least one plugin was merged.
	OutputDir string
	// DryRun marks a check run: eligible plugins were not written.
	DryRun bool
}

// Record adds d to the summary. Unvalidated plugins count as processed only.
func (s *Summary) Record(d Decision) {
	s.Processed++
	switch d.State {
	case StateMerged:
		s.Merged++
	case StateUnvalidated:
	default:
		s.Skipped++
		s.Entries = append(s.Entries, SkipEntry{Plugin: d.Plugin, Delta: d.Delta, Reason: d.Reason})
	}
}

// IssuesFound reports whether any plugin was rejected or skipped.
func (s *Summary) IssuesFound() bool {
	return s.Skipped > 0
}

// Render prints the merge summary block.
func (s *Summary) Render(w io.Writer, useColor bool) error {
	title := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	ok := color.New(color.FgGreen)
	for _, c := range []*color.Color{title, warn, ok} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	mergedLabel := "Successfully merged"
	if s.DryRun {
		mergedLabel = "Ready to merge"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title.Sprint("📋 MERGE SUMMARY"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 30))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Plugins processed: %d\n", s.Processed)
	fmt.Fprintf(&b, "%s: %d\n", mergedLabel, s.Merged)
	fmt.Fprintf(&b, "Skipped due to errors: %d\n", s.Skipped)

	if len(s.Entries) > 0 {
		b.WriteString("\n")
		b.WriteString(warn.Sprint("⚠️  Skipped plugins:"))
		b.WriteString("\n")
		for _, e := range s.Entries {
			fmt.Fprintf(&b, "   • %s\n", e)
		}
	}
	if s.Merged > 0 && s.OutputDir != "" && !s.DryRun {
		b.WriteString("\n")
		b.WriteString(ok.Sprintf("✅ Output directory: %s", s.OutputDir))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// SkipLine is the progress line printed when a plugin is not merged.
func SkipLine(d Decision) string {
	return fmt.Sprintf("⏭️  SKIP %s: %s", d.Plugin, d.Reason)
}
