package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"oxmerge/internal/config"
	"oxmerge/internal/diagfmt"
	"oxmerge/internal/driver"
	"oxmerge/internal/format"
	"oxmerge/internal/gate"
	"oxmerge/internal/triage"
)

type prettyRun struct {
	cfg         *config.Config
	color       bool
	quiet       bool
	pathMode    diagfmt.PathMode
	diagnostics bool // ingested diagnostics were supplied
}

// writeRunPretty prints, in order: target warnings, the triaged diagnostic
// bucket, validator findings per plugin, per-plugin outcome lines and the
// merge summary.
func writeRunPretty(out, errOut io.Writer, res *driver.Result, pr prettyRun) error {
	if !pr.quiet {
		for _, w := range res.Target.Warnings {
			fmt.Fprintf(errOut, "⚠️  %s\n", w)
		}
	}

	cache := diagfmt.NewSnippetCache()
	cache.Prime(res.FileSet)
	popts := diagfmt.DefaultPrettyOpts()
	popts.Color = pr.color
	popts.Context = cmp.Or(pr.cfg.ContextLines, config.DefaultContextLines)
	popts.PathMode = pr.pathMode
	popts.BaseDir = res.Target.Root

	if pr.diagnostics {
		err := triage.Render(out, res.Triage, cache, triage.RenderOpts{
			Pretty: popts,
			Limit:  cmp.Or(pr.cfg.DisplayLimit, config.DefaultDisplayLimit),
		})
		if err != nil {
			return err
		}
	}

	if len(res.Plugins) > 0 {
		fmt.Fprintln(out)
	}
	ok := color.New(color.FgGreen)
	skip := color.New(color.FgYellow)
	if pr.color {
		ok.EnableColor()
		skip.EnableColor()
	} else {
		ok.DisableColor()
		skip.DisableColor()
	}
	for i := range res.Plugins {
		p := &res.Plugins[i]
		if p.Report != nil && len(p.Report.Diagnostics) > 0 {
			if err := diagfmt.Pretty(out, p.Report.Diagnostics, cache, popts); err != nil {
				return err
			}
		}
		switch {
		case !p.Decision.Eligible():
			skip.Fprintln(out, gate.SkipLine(p.Decision))
		case res.Mode == driver.ModeCheck:
			if !pr.quiet {
				ok.Fprintf(out, "✅ OK %s\n", p.Plugin.Name)
			}
		case !pr.quiet:
			ok.Fprintf(out, "✅ MERGED %s → %s%s\n", p.Plugin.Name, displayOutput(res, p.Output), writeNote(p.Write))
		}
	}

	fmt.Fprintln(out)
	return res.Summary.Render(out, pr.color)
}

func displayOutput(res *driver.Result, path string) string {
	if rel, err := filepath.Rel(res.Target.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func writeNote(w format.WriteResult) string {
	if w == format.Unchanged {
		return " (unchanged)"
	}
	return ""
}

type runPayload struct {
	Mode    string          `json:"mode"`
	Project string          `json:"project"`
	OutDir  string          `json:"out_dir"`
	Triage  *triagePayload  `json:"triage,omitempty"`
	Plugins []pluginPayload `json:"plugins"`
	Summary summaryPayload  `json:"summary"`
	Timings json.RawMessage `json:"timings,omitempty"`
}

type triagePayload struct {
	Level       string                    `json:"level,omitempty"`
	Errors      int                       `json:"errors"`
	Warnings    int                       `json:"warnings"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type pluginPayload struct {
	Name        string                   `json:"name"`
	Dir         string                   `json:"dir"`
	Files       int                      `json:"files"`
	State       string                   `json:"state"`
	Delta       int                      `json:"delta,omitempty"`
	Reason      string                   `json:"reason,omitempty"`
	Output      string                   `json:"output,omitempty"`
	Write       string                   `json:"write,omitempty"`
	CacheHits   int                      `json:"cache_hits,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type summaryPayload struct {
	Processed int              `json:"processed"`
	Merged    int              `json:"merged"`
	Skipped   int              `json:"skipped"`
	Entries   []gate.SkipEntry `json:"entries,omitempty"`
}

func buildRunPayload(res *driver.Result, cfg *config.Config, withTriage bool) runPayload {
	jopts := diagfmt.JSONOpts{
		PathMode:     diagfmt.PathModeRelative,
		BaseDir:      res.Target.Root,
		IncludeNotes: true,
	}
	payload := runPayload{
		Mode:    res.Mode.String(),
		Project: res.Target.Path,
		OutDir:  res.OutDir,
		Plugins: make([]pluginPayload, 0, len(res.Plugins)),
		Summary: summaryPayload{
			Processed: res.Summary.Processed,
			Merged:    res.Summary.Merged,
			Skipped:   res.Summary.Skipped,
			Entries:   res.Summary.Entries,
		},
	}
	if withTriage && res.Triage != nil {
		tp := &triagePayload{Errors: res.Triage.Errors, Warnings: res.Triage.Warnings}
		if b := res.Triage.Bucket; b != nil {
			tp.Level = b.Title()
			limited := jopts
			limited.Max = cmp.Or(cfg.DisplayLimit, config.DefaultDisplayLimit)
			tp.Diagnostics = diagfmt.BuildDiagnosticsOutput(b.Records, limited)
		}
		payload.Triage = tp
	}
	for i := range res.Plugins {
		p := &res.Plugins[i]
		pp := pluginPayload{
			Name:      p.Plugin.Name,
			Dir:       p.Plugin.RelDir,
			Files:     len(p.Plugin.Files),
			State:     p.Decision.State.String(),
			Delta:     p.Decision.Delta,
			Reason:    p.Decision.Reason,
			CacheHits: p.CacheHits,
		}
		if p.Decision.Eligible() {
			pp.Output = p.Output
			if res.Mode == driver.ModeMerge {
				pp.Write = p.Write.String()
			}
		}
		if p.Report != nil && len(p.Report.Diagnostics) > 0 {
			pp.Diagnostics = diagfmt.BuildDiagnosticsOutput(p.Report.Diagnostics, jopts).Diagnostics
		}
		payload.Plugins = append(payload.Plugins, pp)
	}
	return payload
}

func writeRunJSON(out io.Writer, res *driver.Result, cfg *config.Config, withTriage, timings bool) error {
	payload := buildRunPayload(res, cfg, withTriage)
	if timings {
		data, err := res.TimingsJSON()
		if err != nil {
			return err
		}
		payload.Timings = data
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeCacheStats prints parse cache counters; nothing when the cache is off.
func writeCacheStats(w io.Writer, cache *driver.DiskCache) {
	if cache == nil {
		return
	}
	hits, misses := cache.Stats()
	fmt.Fprintf(w, "cache: %d hit(s), %d miss(es)\n", hits, misses)
}
