package triage

import (
	"cmp"
	"fmt"
	"slices"

	"oxmerge/internal/config"
	"oxmerge/internal/diag"
	"oxmerge/internal/project"
)

// Ledger receives per-plugin error counts.
type Ledger interface {
	Increment(plugin string, n int)
}

// Options scopes a classification run.
type Options struct {
	// MarkerDir is the path segment rooting the plugin tree.
	MarkerDir string
	// Plugin narrows the run to one plugin (name or directory basename).
	Plugin string
	Levels []config.PriorityLevel
}

// Bucket is the group of records selected for display.
type Bucket struct {
	Level    int
	Name     string
	Fallback bool
	// Records are ordered by severity, most severe first; ties keep input order.
	Records []diag.Diagnostic
}

// Title is the heading printed above the bucket.
func (b *Bucket) Title() string {
	if b.Fallback || b.Name == "" {
		return fmt.Sprintf("Level %d", b.Level)
	}
	return fmt.Sprintf("Level %d: %s", b.Level, b.Name)
}

// Head returns at most limit records (all of them when limit <= 0).
func (b *Bucket) Head(limit int) []diag.Diagnostic {
	if limit <= 0 || len(b.Records) <= limit {
		return b.Records
	}
	return b.Records[:limit]
}

// Result is the outcome of Classify.
type Result struct {
	// Records are the diagnostics that passed the filter, in input order.
	Records []diag.Diagnostic
	// Bucket is nil when nothing is displayed.
	Bucket   *Bucket
	Errors   int
	Warnings int
	// Tally maps plugin name to the errors attributed to it.
	Tally map[string]int
}

// IssuesFound reports whether a bucket was selected for display.
func (r *Result) IssuesFound() bool {
	return r != nil && r.Bucket != nil
}

// Classify runs filter, tally and bucketing over diags. Error counts are
// pushed into ledger (which may be nil).
func Classify(diags []diag.Diagnostic, opts Options, ledger Ledger) *Result {
	marker := cmp.Or(opts.MarkerDir, config.DefaultMarkerDir)
	records := Filter(diags, marker, opts.Plugin)
	res := &Result{
		Records: records,
		Tally:   Tally(records, marker, ledger),
		Bucket:  Select(records, opts.Levels),
	}
	for _, d := range records {
		switch d.Severity {
		case diag.SevError:
			res.Errors++
		case diag.SevWarning:
			res.Warnings++
		}
	}
	return res
}

// Filter keeps warnings and errors with a source path under the marker root.
// A non-empty plugin narrows the set to that plugin's files.
func Filter(diags []diag.Diagnostic, marker, plugin string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Severity < diag.SevWarning || d.Primary.Path == "" {
			continue
		}
		if !project.UnderMarker(d.Primary.Path, marker, plugin) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Tally attributes every error to its plugin and increments the ledger once
// per record. Records whose path names no plugin are skipped.
func Tally(records []diag.Diagnostic, marker string, ledger Ledger) map[string]int {
	counts := make(map[string]int)
	for _, d := range records {
		if d.Severity != diag.SevError {
			continue
		}
		name, ok := project.PluginForPath(d.Primary.Path, marker)
		if !ok {
			continue
		}
		counts[name]++
	}
	if ledger != nil {
		for name, n := range counts {
			ledger.Increment(name, n)
		}
	}
	return counts
}

// Select picks the display bucket: levels are tried in ascending order and
// the first one matching any record wins. Without a match, records whose id
// no level claims form the fallback bucket "Level {len(levels)}". Returns nil
// when nothing is left to show.
func Select(records []diag.Diagnostic, levels []config.PriorityLevel) *Bucket {
	sorted := (&config.Config{PriorityLevels: levels}).SortedLevels()
	for _, lvl := range sorted {
		matched := collect(records, func(id string) bool { return slices.Contains(lvl.Rules, id) })
		if len(matched) > 0 {
			return &Bucket{Level: lvl.Level, Name: lvl.Name, Records: matched}
		}
	}

	claimed := make(map[string]struct{})
	for _, lvl := range sorted {
		for _, r := range lvl.Rules {
			claimed[r] = struct{}{}
		}
	}
	rest := collect(records, func(id string) bool {
		_, ok := claimed[id]
		return !ok
	})
	if len(rest) == 0 {
		return nil
	}
	return &Bucket{Level: len(sorted), Fallback: true, Records: rest}
}

func collect(records []diag.Diagnostic, match func(id string) bool) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range records {
		if match(string(d.Code)) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b diag.Diagnostic) int {
		return cmp.Compare(b.Severity, a.Severity)
	})
	return out
}
