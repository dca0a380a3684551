package diagsrc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"oxmerge/internal/diag"
)

type Options struct {
	// BaseDir resolves relative paths; "" leaves them untouched.
	BaseDir string
	// Reporter receives every parsed diagnostic in input order. Nil collects
	// into the returned slice only.
	Reporter diag.Reporter
}

// ReadFile loads diagnostics from path in the given format (FormatAuto detects it).
func ReadFile(path string, format Format, opts Options) ([]diag.Diagnostic, error) {
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	if format == FormatAuto {
		format = Detect(path, data)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return Parse(data, format, opts)
}

// Read is ReadFile for an already opened stream; auto detection uses content only.
func Read(r io.Reader, format Format, opts Options) ([]diag.Diagnostic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	if format == FormatAuto {
		format = Detect("", data)
	}
	return Parse(data, format, opts)
}

// Parse decodes data. Exact duplicates are dropped (msbuild prints every
// diagnostic once per target and once more in the build summary).
func Parse(data []byte, format Format, opts Options) ([]diag.Diagnostic, error) {
	var (
		items []diag.Diagnostic
		err   error
	)
	switch format {
	case FormatMSBuild:
		items = parseMSBuild(data)
	case FormatSARIF:
		items, err = parseSARIF(data)
	case FormatJSON:
		items, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(0)
	var sink diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Reporter != nil {
		sink = multiReporter{diag.BagReporter{Bag: bag}, opts.Reporter}
	}
	dedup := diag.NewDedupReporter(sink)
	for _, d := range items {
		d.Primary.Path = normalizeDiagPath(d.Primary.Path, opts.BaseDir)
		dedup.Report(d)
	}
	return bag.Items(), nil
}

type multiReporter []diag.Reporter

func (m multiReporter) Report(d diag.Diagnostic) {
	for _, r := range m {
		r.Report(d)
	}
}

func normalizeDiagPath(p, baseDir string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	if baseDir != "" && !filepath.IsAbs(p) && !isWindowsAbs(p) {
		p = filepath.ToSlash(filepath.Join(baseDir, p))
	}
	return p
}

func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}
