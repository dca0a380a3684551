package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"oxmerge/internal/version"
)

// errIssuesFound is returned by commands that ran to completion but found
// problems. It maps to exit status 1 without an extra message.
var errIssuesFound = errors.New("issues found")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oxmerge",
		Short:         "Validate and merge partial-class uMod plugins into single files",
		Long:          `oxmerge checks that every plugin under the plugins directory follows the single-partial-class layout and stitches its files into one deployable .cs file`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "config file (.json, .toml, .yaml)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(newPipelineCmd(modeMerge))
	root.AddCommand(newPipelineCmd(modeCheck))
	root.AddCommand(newScanCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}

// execute runs root with args and returns the process exit status.
func execute(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errIssuesFound) {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
	}
	return 1
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
