package triage

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oxmerge/internal/config"
	"oxmerge/internal/diag"
	"oxmerge/internal/diagfmt"
	"oxmerge/internal/source"
)

type mapLedger struct {
	mu sync.Mutex
	m  map[string]int
}

func (l *mapLedger) Increment(plugin string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]int)
	}
	l.m[plugin] += n
}

func rec(sev diag.Severity, id, path string) diag.Diagnostic {
	loc := diag.Location{Path: path, Start: source.LineCol{Line: 1, Col: 1}, End: source.LineCol{Line: 1, Col: 2}}
	return diag.New(sev, diag.Code(id), loc, id+" message")
}

func ids(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, string(d.Code))
	}
	return out
}

func TestFilter(t *testing.T) {
	in := []diag.Diagnostic{
		rec(diag.SevError, "CS1", "/p/plugins/Foo/A.cs"),
		rec(diag.SevInfo, "CS2", "/p/plugins/Foo/A.cs"),
		rec(diag.SevWarning, "CS3", ""),
		rec(diag.SevWarning, "CS4", "/p/src/Other.cs"),
		rec(diag.SevWarning, "CS5", `C:\p\Plugins\Bar\B.cs`),
		rec(diag.SevError, "CS6", "/p/plugins/Bar/B.cs"),
	}
	assert.Equal(t, []string{"CS1", "CS5", "CS6"}, ids(Filter(in, "plugins", "")))
	assert.Equal(t, []string{"CS5", "CS6"}, ids(Filter(in, "plugins", "bar")))
}

func TestTallyCountsErrorsOnly(t *testing.T) {
	records := []diag.Diagnostic{
		rec(diag.SevError, "CS1", "/p/plugins/Foo/A.cs"),
		rec(diag.SevError, "CS1", "/p/plugins/Foo/B.cs"),
		rec(diag.SevWarning, "CS2", "/p/plugins/Foo/A.cs"),
		rec(diag.SevError, "CS3", "/p/plugins/Group/Bar/C.cs"),
		rec(diag.SevError, "CS4", "/p/plugins/Loose.cs"),
	}
	ledger := &mapLedger{}
	got := Tally(records, "plugins", ledger)
	assert.Equal(t, map[string]int{"Foo": 2, "Group_Bar": 1}, got)
	assert.Equal(t, got, ledger.m)
}

func TestTallyNestedMarkerCheckout(t *testing.T) {
	records := []diag.Diagnostic{
		rec(diag.SevError, "CS1", "/tmp/x/plugins/proj/plugins/Err/Err.cs"),
		rec(diag.SevError, "CS2", "/tmp/x/plugins/proj/plugins/Err/Err.Hooks.cs"),
	}
	ledger := &mapLedger{}
	got := Tally(records, "plugins", ledger)
	assert.Equal(t, map[string]int{"Err": 2}, got)
	assert.Len(t, Filter(records, "plugins", "Err"), 2)
}

func TestSelectFirstLevelWins(t *testing.T) {
	levels := []config.PriorityLevel{
		{Level: 2, Name: "Style", Rules: []string{"B"}},
		{Level: 1, Name: "Compile", Rules: []string{"A"}},
	}
	records := []diag.Diagnostic{
		rec(diag.SevError, "B", "/p/plugins/Foo/A.cs"),
		rec(diag.SevError, "A", "/p/plugins/Foo/A.cs"),
	}
	b := Select(records, levels)
	require.NotNil(t, b)
	assert.Equal(t, 1, b.Level)
	assert.Equal(t, "Level 1: Compile", b.Title())
	assert.Equal(t, []string{"A"}, ids(b.Records))
}

func TestSelectFallback(t *testing.T) {
	levels := []config.PriorityLevel{
		{Level: 1, Name: "Compile", Rules: []string{"A"}},
		{Level: 2, Name: "Style", Rules: []string{"B"}},
	}
	records := []diag.Diagnostic{
		rec(diag.SevWarning, "X", "/p/plugins/Foo/A.cs"),
		rec(diag.SevError, "Y", "/p/plugins/Foo/A.cs"),
		rec(diag.SevWarning, "Z", "/p/plugins/Foo/A.cs"),
	}
	b := Select(records, levels)
	require.NotNil(t, b)
	assert.True(t, b.Fallback)
	assert.Equal(t, "Level 2", b.Title())
	assert.Equal(t, []string{"Y", "X", "Z"}, ids(b.Records), "severity descending, stable")

	assert.Nil(t, Select(nil, levels))
}

func TestClassifyTotalsAndLedger(t *testing.T) {
	in := []diag.Diagnostic{
		rec(diag.SevError, "CS0103", "/p/plugins/Foo/A.cs"),
		rec(diag.SevWarning, "CS0168", "/p/plugins/Foo/A.cs"),
		rec(diag.SevError, "CS0103", "/p/plugins/Bar/A.cs"),
	}
	ledger := &mapLedger{}
	res := Classify(in, Options{Plugin: "Foo"}, ledger)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 1, res.Warnings)
	assert.Equal(t, map[string]int{"Foo": 1}, ledger.m)
	assert.True(t, res.IssuesFound())

	empty := Classify(nil, Options{}, nil)
	assert.False(t, empty.IssuesFound())
}

func TestRenderCapsDisplay(t *testing.T) {
	var in []diag.Diagnostic
	for i := range 20 {
		in = append(in, rec(diag.SevError, fmt.Sprintf("CS%04d", i), "/p/plugins/Foo/A.cs"))
	}
	res := Classify(in, Options{}, nil)

	var buf bytes.Buffer
	opts := RenderOpts{Pretty: diagfmt.DefaultPrettyOpts(), Limit: 15}
	require.NoError(t, Render(&buf, res, diagfmt.NewSnippetCache(), opts))
	out := buf.String()

	assert.Contains(t, out, "Displaying issues for Level 0\n")
	assert.Contains(t, out, "  (Displaying first 15 of 20)\n")
	assert.Equal(t, 15, strings.Count(out, "❌ "))
	assert.Contains(t, out, "CS0014")
	assert.NotContains(t, out, "CS0015")
	assert.True(t, strings.HasSuffix(out, "\nTotal: 20 errors, 0 warnings.\n"))
}

func TestRenderWithoutBucket(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &Result{}, nil, RenderOpts{}))
	assert.Equal(t, "\nTotal: 0 errors, 0 warnings.\n", buf.String())
}
