package diag

import (
	"cmp"
	"slices"
	"strings"
)

// FormatShortDiagnostics renders diagnostics one per line in compiler style,
// sorted deterministically. Notes follow their diagnostic indented by four
// spaces. The result has no trailing newline.
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	sorted := slices.Clone(diags)
	slices.SortStableFunc(sorted, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Primary.Path, b.Primary.Path),
			cmp.Compare(a.Primary.Start.Line, b.Primary.Start.Line),
			cmp.Compare(a.Primary.Start.Col, b.Primary.Start.Col),
			cmp.Compare(b.Severity, a.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})

	var sb strings.Builder
	for i, d := range sorted {
		if i > 0 {
			sb.WriteByte('\n')
		}
		d.Message = sanitizeMessage(d.Message)
		sb.WriteString(d.Line())
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			sb.WriteString("\n    • ")
			sb.WriteString(sanitizeMessage(n.Msg))
		}
	}
	return sb.String()
}

func sanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
