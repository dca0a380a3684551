package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lowercase form used in compiler-style output lines.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// ParseSeverity maps compiler/SARIF severity names onto Severity.
// "hidden", "none" and "note" map to SevInfo.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "fatal error", "fatal":
		return SevError, true
	case "warning", "warn":
		return SevWarning, true
	case "info", "information", "note", "hidden", "none", "suggestion":
		return SevInfo, true
	default:
		return SevInfo, false
	}
}
