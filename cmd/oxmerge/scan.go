package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"oxmerge/internal/diag"
	"oxmerge/internal/diagfmt"
	"oxmerge/internal/driver"
	"oxmerge/internal/source"
)

func newScanCmd() *cobra.Command {
	var (
		format    string
		tokens    bool
		short     bool
		maxErrors int
	)
	cmd := &cobra.Command{
		Use:   "scan [flags] <file.cs>",
		Short: "Print the structure oxmerge sees in a C# file",
		Long:  `Scan parses a single C# file with the structural parser and prints its usings, namespaces, type declarations and members`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], strings.ToLower(format), tokens, short, maxErrors)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json|dump)")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "print the token stream instead of the tree")
	cmd.Flags().BoolVar(&short, "short", false, "print diagnostics one per line without snippets")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 100, "maximum number of parse errors to record")
	return cmd
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runScan(cmd *cobra.Command, path, format string, tokens, short bool, maxErrors int) error {
	out := cmd.OutOrStdout()
	colorOn, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	popts := diagfmt.DefaultPrettyOpts()
	popts.Color = colorOn
	report := func(bag *diag.Bag, fs *source.FileSet) error {
		if short {
			if bag.Len() > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatShortDiagnostics(bag.Items(), true))
			}
			return nil
		}
		return diagfmt.PrettyBag(cmd.ErrOrStderr(), bag, snippetsFor(fs), popts)
	}

	if tokens {
		res, err := driver.Tokenize(path, maxErrors)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		if err := report(res.Bag, res.FileSet); err != nil {
			return err
		}
		switch format {
		case "pretty":
			err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
		case "json":
			err = diagfmt.FormatTokensJSON(out, res.Tokens)
		case "dump":
			dumpConfig.Fdump(out, res.Tokens)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
		if err != nil {
			return err
		}
		if res.Bag.HasErrors() {
			return errIssuesFound
		}
		return nil
	}

	res, err := driver.Parse(path, maxErrors)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := report(res.Bag, res.FileSet); err != nil {
		return err
	}
	switch format {
	case "pretty":
		err = diagfmt.FormatUnitPretty(out, res.Unit, res.FileSet)
	case "json":
		err = diagfmt.FormatUnitJSON(out, res.Unit, res.FileSet)
	case "dump":
		dumpConfig.Fdump(out, res.Unit)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errIssuesFound
	}
	return nil
}

func snippetsFor(fs *source.FileSet) *diagfmt.SnippetCache {
	cache := diagfmt.NewSnippetCache()
	cache.Prime(fs)
	return cache
}
