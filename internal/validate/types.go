package validate

import (
	"oxmerge/internal/diag"
	"oxmerge/internal/resolve"
)

// Ledger accumulates per-plugin error counts. Implementations must be safe
// for concurrent use.
type Ledger interface {
	Increment(plugin string, n int)
}

// Outcome is the validation stage a plugin stopped at.
type Outcome uint8

const (
	OutcomeOK Outcome = iota
	OutcomeParseFailure
	OutcomeNoPrimary
	OutcomeMissingPartial
	OutcomeStructural
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeParseFailure:
		return "parse-failure"
	case OutcomeNoPrimary:
		return "no-primary"
	case OutcomeMissingPartial:
		return "missing-partial"
	case OutcomeStructural:
		return "structural-violation"
	}
	return "unknown"
}

// ExtraType is a top-level declaration that is not a valid partial part.
type ExtraType struct {
	Kind          string
	QualifiedName string
	Span          *diag.Location
}

// Violation describes one file breaking the single-unit rule.
type Violation struct {
	Path           string
	MissingPrimary bool
	Extra          []ExtraType
	Primary        diag.Location
}

// MissingPartial is a candidate declaration without the partial modifier.
type MissingPartial struct {
	Path string
	Name string
	Loc  diag.Location
}

// Report is the validation result for one plugin.
type Report struct {
	Plugin          string
	Outcome         Outcome
	Resolution      resolve.Result
	ParseFailures   []string
	MissingPartials []MissingPartial
	Violations      []Violation
	// Diagnostics holds errors and RBP101 warnings in emission order.
	Diagnostics []diag.Diagnostic
	// Errors is the amount added to the ledger.
	Errors int
}

// OK reports whether the plugin may proceed to the gate.
func (r *Report) OK() bool {
	return r.Outcome == OutcomeOK
}
