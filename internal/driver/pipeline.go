package driver

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"oxmerge/internal/ast"
	"oxmerge/internal/config"
	"oxmerge/internal/diag"
	"oxmerge/internal/format"
	"oxmerge/internal/gate"
	"oxmerge/internal/merge"
	"oxmerge/internal/observ"
	"oxmerge/internal/project"
	"oxmerge/internal/resolve"
	"oxmerge/internal/source"
	"oxmerge/internal/trace"
	"oxmerge/internal/triage"
	"oxmerge/internal/validate"
)

// Mode selects whether eligible plugins are written.
type Mode uint8

const (
	ModeMerge Mode = iota
	ModeCheck
)

func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "merge"
}

// Options configures Run.
type Options struct {
	// Input is the project argument: a directory, .csproj or .sln ("" = cwd).
	Input string
	// Plugin narrows the run to one plugin.
	Plugin string
	Config *config.Config
	// Diagnostics are compiler/analyzer findings ingested by the caller.
	Diagnostics []diag.Diagnostic
	// OutDir overrides Config.OutputDir; relative paths are taken from the project root.
	OutDir string
	// Jobs limits parallel workers (0 = GOMAXPROCS).
	Jobs   int
	Mode   Mode
	Cache  *DiskCache
	Format format.Options
	// MaxParseErrors caps recorded parse errors per file (0 = unlimited).
	MaxParseErrors int
	Progress       ProgressSink
}

// PluginResult is everything known about one plugin after a run.
type PluginResult struct {
	Plugin project.Plugin
	// Digest fingerprints the plugin's name and file contents.
	Digest   project.Digest
	Units    []*ast.SourceUnit
	Report   *validate.Report
	Decision gate.Decision
	// Before is the ledger count ahead of structural validation.
	Before int
	Merged *merge.Unit
	// Output is the merged file path (also set in check mode).
	Output    string
	Write     format.WriteResult
	CacheHits int
}

// Result is the outcome of Run.
type Result struct {
	Target  *project.Target
	FileSet *source.FileSet
	// Plugins are in discovery order.
	Plugins []PluginResult
	Triage  *triage.Result
	Summary gate.Summary
	Ledger  *gate.Ledger
	OutDir  string
	Mode    Mode
	Timer   *observ.Timer
}

// Run executes the pipeline: discover, triage, parse and validate every
// plugin, then gate and merge. Merging starts only after every plugin's
// error count is final.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	marker := cmp.Or(cfg.MarkerDir, config.DefaultMarkerDir)
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx).SpanID)
	defer runSpan.End(opts.Mode.String())
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: runSpan.ID()})

	timer := observ.NewTimer()
	res := &Result{Ledger: gate.NewLedger(), Mode: opts.Mode, Timer: timer}

	// discover
	idx := timer.Begin("discover")
	emit(opts.Progress, Event{Stage: StageDiscover, Status: StatusWorking})
	target, err := project.ResolveTarget(opts.Input, marker)
	if err != nil {
		emit(opts.Progress, Event{Stage: StageDiscover, Status: StatusError, Err: err})
		return nil, err
	}
	res.Target = target
	res.FileSet = source.NewFileSetWithBase(target.Root)
	plugins, err := project.Discover(target.PluginsDir)
	if err != nil {
		emit(opts.Progress, Event{Stage: StageDiscover, Status: StatusError, Err: err})
		return nil, err
	}
	if opts.Plugin != "" {
		if plugins, err = project.Filter(plugins, opts.Plugin); err != nil {
			emit(opts.Progress, Event{Stage: StageDiscover, Status: StatusError, Err: err})
			return nil, err
		}
	}
	res.OutDir = outputDir(target.Root, cmp.Or(opts.OutDir, cfg.OutputDir, config.DefaultOutputDir))
	res.Plugins = make([]PluginResult, len(plugins))
	for i := range plugins {
		res.Plugins[i].Plugin = plugins[i]
		res.Plugins[i].Output = plugins[i].OutputPath(res.OutDir)
		emit(opts.Progress, Event{Plugin: plugins[i].Name, Stage: StageParse, Status: StatusQueued})
	}
	timer.End(idx, fmt.Sprintf("%d plugins", len(plugins)))
	emit(opts.Progress, Event{Stage: StageDiscover, Status: StatusDone})

	// triage
	idx = timer.Begin("triage")
	res.Triage = triage.Classify(opts.Diagnostics, triage.Options{
		MarkerDir: marker,
		Plugin:    opts.Plugin,
		Levels:    cfg.PriorityLevels,
	}, res.Ledger)
	timer.End(idx, fmt.Sprintf("%d records", len(res.Triage.Records)))

	// parse + validate
	idx = timer.Begin("parse+validate")
	if err := analyze(ctx, res, opts, cfg); err != nil {
		return nil, err
	}
	timer.End(idx, "")

	// gate + merge
	idx = timer.Begin("merge")
	if err := mergeEligible(ctx, res, opts); err != nil {
		return nil, err
	}
	timer.End(idx, fmt.Sprintf("%d merged", res.Summary.Merged))

	return res, nil
}

func outputDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func jobsFor(jobs, n int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// analyze parses and validates plugins on parallel workers. The ledger is the
// only state they share.
func analyze(ctx context.Context, res *Result, opts Options, cfg *config.Config) error {
	if len(res.Plugins) == 0 {
		return nil
	}
	validator := validate.New(res.Ledger, resolve.DefaultStrategies(cfg.MarkerBases))
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	// счётчики до валидации: только то, что пришло из триажа
	before := res.Ledger.Snapshot()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts.Jobs, len(res.Plugins)))
	for i := range res.Plugins {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			pr := &res.Plugins[i]
			name := pr.Plugin.Name
			span := trace.Begin(tracer, trace.ScopePlugin, "plugin:"+name, parent)
			start := time.Now()

			emit(opts.Progress, Event{Plugin: name, Stage: StageParse, Status: StatusWorking})
			units, files, hits := parsePlugin(res.FileSet, pr.Plugin.Files, opts.Cache, opts.MaxParseErrors)
			pr.Units = units
			pr.CacheHits = hits
			pr.Digest = pluginDigest(name, files)

			emit(opts.Progress, Event{Plugin: name, Stage: StageValidate, Status: StatusWorking})
			pr.Before = before[name]
			pr.Report = validator.Validate(name, res.FileSet, units)

			status := StatusDone
			if !pr.Report.OK() {
				status = StatusError
			}
			emit(opts.Progress, Event{Plugin: name, Stage: StageValidate, Status: status, Elapsed: time.Since(start)})
			span.WithExtra("files", fmt.Sprint(len(units))).End(pr.Report.Outcome.String())
			return nil
		})
	}
	return g.Wait()
}

// mergeEligible gates every plugin against the final ledger and merges the
// eligible ones in parallel.
func mergeEligible(ctx context.Context, res *Result, opts Options) error {
	res.Summary = gate.Summary{OutputDir: res.OutDir, DryRun: opts.Mode == ModeCheck}
	for i := range res.Plugins {
		pr := &res.Plugins[i]
		pr.Decision = gate.Decide(res.Ledger, pr.Plugin.Name, pr.Before, pr.Report)
		res.Summary.Record(pr.Decision)
		if !pr.Decision.Eligible() {
			emit(opts.Progress, Event{Plugin: pr.Plugin.Name, Stage: StageMerge, Status: StatusSkipped})
		}
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts.Jobs, len(res.Plugins)))
	for i := range res.Plugins {
		pr := &res.Plugins[i]
		if !pr.Decision.Eligible() {
			continue
		}
		g.Go(func() error {
			name := pr.Plugin.Name
			start := time.Now()
			emit(opts.Progress, Event{Plugin: name, Stage: StageMerge, Status: StatusWorking})
			data, unit := merge.Merge(pr.Units, pr.Report.Resolution.Candidates, opts.Format)
			pr.Merged = unit
			if opts.Mode == ModeCheck {
				emit(opts.Progress, Event{Plugin: name, Stage: StageMerge, Status: StatusDone, Elapsed: time.Since(start)})
				return nil
			}

			emit(opts.Progress, Event{Plugin: name, Stage: StageWrite, Status: StatusWorking})
			wr, err := format.WriteFile(pr.Output, data)
			if err != nil {
				emit(opts.Progress, Event{Plugin: name, Stage: StageWrite, Status: StatusError, Err: err})
				return fmt.Errorf("failed to write %s: %w", pr.Output, err)
			}
			pr.Write = wr
			emit(opts.Progress, Event{Plugin: name, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}
	return g.Wait()
}
