package driver

import (
	"encoding/json"

	"oxmerge/internal/diag"
	"oxmerge/internal/observ"
)

// Diagnostics returns the validator findings of all plugins in discovery
// order, warnings included.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for _, pr := range r.Plugins {
		if pr.Report != nil {
			out = append(out, pr.Report.Diagnostics...)
		}
	}
	return out
}

// IssuesFound is the invocation's failure signal: a displayed diagnostic
// bucket, or any plugin that was rejected or skipped.
func (r *Result) IssuesFound() bool {
	if r == nil {
		return false
	}
	return r.Triage.IssuesFound() || r.Summary.IssuesFound()
}

// Lookup returns the result for the plugin with the given name.
func (r *Result) Lookup(name string) (*PluginResult, bool) {
	for i := range r.Plugins {
		if r.Plugins[i].Plugin.Name == name {
			return &r.Plugins[i], true
		}
	}
	return nil, false
}

// CacheHits sums parse cache hits over all plugins.
func (r *Result) CacheHits() int {
	n := 0
	for _, pr := range r.Plugins {
		n += pr.CacheHits
	}
	return n
}

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingsJSON renders the phase timer for --timings with --format json.
func (r *Result) TimingsJSON() ([]byte, error) {
	report := r.Timer.Report()
	payload := timingPayload{
		Kind:    r.Mode.String(),
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
	if r.Target != nil {
		payload.Path = r.Target.Path
	}
	return json.Marshal(payload)
}
