// Package gate decides which plugins may be merged and keeps the skip summary.
package gate

import (
	"fmt"

	"oxmerge/internal/validate"
)

// State is where a plugin ended up in the merge pipeline.
type State uint8

const (
	StateUnvalidated State = iota
	StateRejectedMissingPartial
	StateRejectedStructural
	StateSkipped
	StateMerged
)

func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateRejectedMissingPartial:
		return "rejected(missing-partial)"
	case StateRejectedStructural:
		return "rejected(structural-violation)"
	case StateSkipped:
		return "skipped(has-errors)"
	case StateMerged:
		return "merged"
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s != StateUnvalidated
}

// Decision is the gate verdict for one plugin.
type Decision struct {
	Plugin string
	State  State
	// Delta is the error count that caused a skip or rejection.
	Delta  int
	Reason string
}

// Eligible reports whether the plugin may be merged.
func (d Decision) Eligible() bool {
	return d.State == StateMerged
}

// Decide walks the state machine for plugin. before is the ledger count
// recorded ahead of structural validation, report the validation result
// (nil means validation did not run and the plugin stays unvalidated).
//
// Validation findings reject the plugin with the errors they added as the
// delta; otherwise any errors in the ledger skip it.
func Decide(ledger *Ledger, plugin string, before int, report *validate.Report) Decision {
	d := Decision{Plugin: plugin}
	if report == nil {
		return d
	}
	after := ledger.Count(plugin)

	switch report.Outcome {
	case validate.OutcomeMissingPartial:
		d.State = StateRejectedMissingPartial
	case validate.OutcomeStructural, validate.OutcomeNoPrimary, validate.OutcomeParseFailure:
		d.State = StateRejectedStructural
	}
	if d.State.Terminal() {
		d.Delta = max(after-before, report.Errors)
		d.Reason = fmt.Sprintf("%d new error(s)", d.Delta)
		return d
	}

	if after > 0 {
		d.State = StateSkipped
		d.Delta = after
		d.Reason = fmt.Sprintf("%d errors", after)
		return d
	}
	d.State = StateMerged
	return d
}
