package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"oxmerge/internal/config"
	"oxmerge/internal/diag"
	"oxmerge/internal/diagfmt"
	"oxmerge/internal/diagsrc"
	"oxmerge/internal/driver"
	"oxmerge/internal/project"
)

type pipelineMode struct {
	name  string
	short string
	long  string
	mode  driver.Mode
}

var (
	modeMerge = pipelineMode{
		name:  "merge",
		short: "Validate plugins and write merged single-file outputs",
		long:  `Merge triages the supplied compiler diagnostics, validates every plugin's partial-class layout and writes one merged .cs file per clean plugin into the output directory`,
		mode:  driver.ModeMerge,
	}
	modeCheck = pipelineMode{
		name:  "check",
		short: "Run the merge pipeline without writing outputs",
		long:  `Check runs triage, validation and merging in memory and reports which plugins would be merged`,
		mode:  driver.ModeCheck,
	}
)

type pipelineFlags struct {
	diagnostics       string
	diagnosticsFormat string
	plugin            string
	marker            string
	out               string
	jobs              int
	cache             bool
	clearCache        bool
	ui                string
	format            string
	paths             string
}

func newPipelineCmd(pm pipelineMode) *cobra.Command {
	var flags pipelineFlags
	cmd := &cobra.Command{
		Use:   pm.name + " [project|dir|.csproj|.sln] [plugin]",
		Short: pm.short,
		Long:  pm.long,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args, pm.mode, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.diagnostics, "diagnostics", "", "compiler diagnostics to triage (msbuild log, SARIF or JSON)")
	f.StringVar(&flags.diagnosticsFormat, "diagnostics-format", "auto", "diagnostics format (auto|msbuild|sarif|json)")
	f.StringVar(&flags.plugin, "plugin", "", "process only this plugin (name or directory)")
	f.StringVar(&flags.marker, "marker", "", "plugins root directory name (default from config, \"plugins\")")
	f.StringVar(&flags.out, "out", "", "output directory (default from config, \"build\")")
	f.IntVar(&flags.jobs, "jobs", 0, "max parallel workers (0=auto)")
	f.BoolVar(&flags.cache, "cache", false, "cache parsed files on disk between runs")
	f.BoolVar(&flags.clearCache, "clear-cache", false, "drop the disk cache before running")
	f.StringVar(&flags.ui, "ui", "auto", "progress view (auto|on|off)")
	f.StringVar(&flags.format, "format", "pretty", "output format (pretty|json)")
	f.StringVar(&flags.paths, "paths", "relative", "path display (asis|absolute|relative|basename)")
	return cmd
}

func runPipeline(cmd *cobra.Command, args []string, mode driver.Mode, flags pipelineFlags) (err error) {
	format := strings.ToLower(flags.format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", flags.format)
	}
	uiMode, err := readUIMode(flags.ui)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	quiet := quietFlag(cmd)

	session, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := session.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanupTrace(err != nil && !errors.Is(err, errIssuesFound)) }()

	projectArg, pluginArg := project.SplitArgs(args)
	pluginArg = cmp.Or(flags.plugin, pluginArg)

	cfg, err := loadConfig(cmd, args, projectArg, quiet)
	if err != nil {
		return err
	}
	if flags.marker != "" {
		cfg.MarkerDir = flags.marker
	}

	diags, err := readDiagnostics(flags)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if flags.cache {
		cache, err = driver.OpenDiskCache("oxmerge")
		if err != nil {
			fmt.Fprintf(stderr, "⚠️  disk cache disabled: %v\n", err)
		} else if flags.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
	}

	opts := driver.Options{
		Input:       projectArg,
		Plugin:      pluginArg,
		Config:      cfg,
		Diagnostics: diags,
		OutDir:      flags.out,
		Jobs:        flags.jobs,
		Mode:        mode,
		Cache:       cache,
	}

	var res *driver.Result
	if !quiet && shouldUseTUI(uiMode, format) {
		res, err = runWithUI(cmd.Context(), "oxmerge "+mode.String(), opts)
	} else {
		res, err = driver.Run(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	if format == "json" {
		if err := writeRunJSON(stdout, res, cfg, flags.diagnostics != "", timingsFlag(cmd)); err != nil {
			return err
		}
	} else {
		colorOn, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		pathMode, ok := diagfmt.ParsePathMode(flags.paths)
		if !ok {
			return fmt.Errorf("invalid --paths value %q", flags.paths)
		}
		err = writeRunPretty(stdout, stderr, res, prettyRun{
			cfg:         cfg,
			color:       colorOn,
			quiet:       quiet,
			pathMode:    pathMode,
			diagnostics: flags.diagnostics != "",
		})
		if err != nil {
			return err
		}
		if timingsFlag(cmd) {
			fmt.Fprint(stderr, res.Timer.Summary())
			writeCacheStats(stderr, cache)
		}
	}

	if res.IssuesFound() {
		return errIssuesFound
	}
	return nil
}

// loadConfig resolves the config file the way the lookup order prescribes:
// --config, the project, the first argument, the executable, the working dir.
func loadConfig(cmd *cobra.Command, args []string, projectArg string, quiet bool) (*config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	search := config.Search{Explicit: explicit, ProjectPath: cmp.Or(projectArg, ".")}
	if len(args) > 0 {
		search.FirstArg = args[0]
	}
	if exe, err := os.Executable(); err == nil {
		search.ExeDir = filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		search.WorkDir = wd
	}

	cfg, rep, err := config.Resolve(search)
	if err != nil {
		return nil, err
	}
	if !quiet {
		for _, w := range rep.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s\n", w)
		}
	}
	return cfg, nil
}

func readDiagnostics(flags pipelineFlags) ([]diag.Diagnostic, error) {
	if flags.diagnostics == "" {
		return nil, nil
	}
	format, err := diagsrc.ParseFormat(flags.diagnosticsFormat)
	if err != nil {
		return nil, err
	}
	if flags.diagnostics == "-" {
		return diagsrc.Read(os.Stdin, format, diagsrc.Options{})
	}
	return diagsrc.ReadFile(flags.diagnostics, format, diagsrc.Options{})
}
