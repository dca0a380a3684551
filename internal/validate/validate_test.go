package validate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oxmerge/internal/ast"
	"oxmerge/internal/diag"
	"oxmerge/internal/parser"
	"oxmerge/internal/resolve"
	"oxmerge/internal/source"
)

type countLedger struct {
	mu sync.Mutex
	m  map[string]int
}

func (l *countLedger) Increment(plugin string, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]int)
	}
	l.m[plugin] += n
}

type file struct{ path, src string }

func run(t *testing.T, files ...file) (*Report, *countLedger) {
	t.Helper()
	fs := source.NewFileSet()
	units := make([]*ast.SourceUnit, 0, len(files))
	for _, f := range files {
		id := fs.AddVirtual(f.path, []byte(f.src))
		units = append(units, parser.ParseFile(fs.Get(id), parser.Options{}))
	}
	ledger := &countLedger{}
	v := New(ledger, resolve.DefaultStrategies([]string{"RustPlugin", "CovalencePlugin"}))
	return v.Validate("Foo", fs, units), ledger
}

const core = `namespace Oxide.Plugins
{
    [Info("Foo", "me", "1.0.0")]
    public partial class Foo : RustPlugin
    {
        private int a;
    }
}
`

const hooks = `namespace Oxide.Plugins
{
    public partial class Foo
    {
        void OnServerInitialized() {}
    }
}
`

func TestValidPluginHasNoFindings(t *testing.T) {
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Foo.Hooks.cs", hooks})
	assert.True(t, rep.OK())
	assert.Empty(t, rep.Diagnostics)
	assert.Empty(t, rep.Violations)
	assert.Zero(t, rep.Errors)
	assert.Empty(t, ledger.m)
	assert.Equal(t, []string{"Foo"}, rep.Resolution.Candidates)
}

func TestMissingPartialCountsEachDeclaration(t *testing.T) {
	bad := `namespace Oxide.Plugins { public class Foo { void A() {} } }
namespace Oxide.Plugins.Extra { class Foo {} }`
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Bad.cs", bad})

	assert.Equal(t, OutcomeMissingPartial, rep.Outcome)
	require.Len(t, rep.MissingPartials, 2)
	assert.Equal(t, 2, rep.Errors)
	assert.Equal(t, 2, ledger.m["Foo"])
	assert.Empty(t, rep.Violations, "single-unit check must not run")

	d := rep.Diagnostics[0]
	assert.Equal(t, diag.CodeMissingPartial, d.Code)
	assert.Equal(t, "Plugin class 'Foo' in Bad.cs is missing 'partial' modifier", d.Message)
	assert.Equal(t, source.LineCol{Line: 1, Col: 40}, d.Primary.Start)
}

func TestExtraTypeViolation(t *testing.T) {
	withHelper := `namespace Oxide.Plugins
{
    public partial class Foo
    {
    }

    internal class Helper {}
}
`
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Helper.cs", withHelper})
	assert.Equal(t, OutcomeStructural, rep.Outcome)
	require.Len(t, rep.Violations, 1)
	v := rep.Violations[0]
	assert.False(t, v.MissingPrimary)
	require.Len(t, v.Extra, 1)
	assert.Equal(t, "class", v.Extra[0].Kind)
	assert.Equal(t, "Oxide.Plugins.Helper", v.Extra[0].QualifiedName)
	assert.Equal(t, source.LineCol{Line: 7, Col: 20}, v.Primary.Start)
	assert.Equal(t, source.LineCol{Line: 7, Col: 26}, v.Primary.End)
	assert.Equal(t, 1, ledger.m["Foo"])

	d := rep.Diagnostics[0]
	assert.Equal(t, "File must only contain partial 'Foo' declarations.", d.Message)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "Extra top-level class 'Oxide.Plugins.Helper'", d.Notes[0].Msg)
}

func TestFileWithoutPartial(t *testing.T) {
	enumOnly := "namespace Oxide.Plugins\n{\n    enum Mode { A, B }\n}\n"
	empty := "// nothing here\nusing System;\n"
	rep, ledger := run(t,
		file{"plugins/Foo/Foo.cs", core},
		file{"plugins/Foo/Mode.cs", enumOnly},
		file{"plugins/Foo/Empty.cs", empty},
	)
	require.Len(t, rep.Violations, 2)
	assert.Equal(t, 2, ledger.m["Foo"])

	enum := rep.Violations[0]
	assert.True(t, enum.MissingPrimary)
	require.Len(t, enum.Extra, 1)
	assert.Equal(t, "enum", enum.Extra[0].Kind)
	assert.Equal(t, []diag.Note{
		{Msg: "Missing partial plugin class definition"},
		{Msg: "Extra top-level enum 'Oxide.Plugins.Mode'"},
	}, rep.Diagnostics[0].Notes)

	none := rep.Violations[1]
	assert.True(t, none.MissingPrimary)
	assert.Empty(t, none.Extra)
	assert.Equal(t, diag.FileStart("plugins/Foo/Empty.cs"), none.Primary)
}

func TestNamespaceMismatchIsExtra(t *testing.T) {
	other := "namespace Other { public partial class Foo {} }"
	rep, _ := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Other.cs", other})
	require.Len(t, rep.Violations, 1)
	assert.True(t, rep.Violations[0].MissingPrimary)
	assert.Equal(t, "Other.Foo", rep.Violations[0].Extra[0].QualifiedName)
}

func TestPartialStructWithPluginNameIsExtra(t *testing.T) {
	// merge only assembles classes, so a same-named partial struct would vanish
	other := "namespace Oxide.Plugins { public partial struct Foo {} }"
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Other.cs", other})
	assert.Equal(t, OutcomeStructural, rep.Outcome)
	require.Len(t, rep.Violations, 1)
	v := rep.Violations[0]
	assert.True(t, v.MissingPrimary)
	require.Len(t, v.Extra, 1)
	assert.Equal(t, "struct", v.Extra[0].Kind)
	assert.Equal(t, "Oxide.Plugins.Foo", v.Extra[0].QualifiedName)
	assert.Equal(t, 1, ledger.m["Foo"])
}

func TestParseFailure(t *testing.T) {
	broken := "namespace Oxide.Plugins { public partial class Foo { void A() { } }\n"
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Broken.cs", broken})
	assert.Equal(t, OutcomeParseFailure, rep.Outcome)
	assert.Equal(t, []string{"plugins/Foo/Broken.cs"}, rep.ParseFailures)
	assert.Equal(t, 1, ledger.m["Foo"])
	require.Len(t, rep.Diagnostics, 1)
	assert.Equal(t, diag.CodeParseFailure, rep.Diagnostics[0].Code)
	assert.True(t, rep.Resolution.Empty(), "resolution must not run")
}

func TestNoPrimary(t *testing.T) {
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", "class Foo {}"})
	assert.Equal(t, OutcomeNoPrimary, rep.Outcome)
	assert.Equal(t, 1, ledger.m["Foo"])
	assert.Equal(t, diag.CodeNoPrimary, rep.Diagnostics[0].Code)
	assert.Equal(t, diag.FileStart("plugins/Foo/Foo.cs"), rep.Diagnostics[0].Primary)
}

func TestConflictingBaseListWarns(t *testing.T) {
	other := "namespace Oxide.Plugins { public partial class Foo : CovalencePlugin { } }"
	rep, ledger := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Other.cs", other})
	assert.True(t, rep.OK())
	assert.Zero(t, rep.Errors)
	assert.Empty(t, ledger.m)
	require.Len(t, rep.Diagnostics, 1)
	d := rep.Diagnostics[0]
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Equal(t, diag.CodeConflictingRedeclaration, d.Code)
	assert.Contains(t, d.Message, "conflicts with 'RustPlugin' declared in Foo.cs")
	require.Len(t, d.Notes, 1)
	require.NotNil(t, d.Notes[0].Loc)
	assert.Equal(t, "plugins/Foo/Foo.cs", d.Notes[0].Loc.Path)
	assert.Equal(t, source.LineCol{Line: 4, Col: 26}, d.Notes[0].Loc.Start)
}

func TestIdenticalRedeclarationIsSilent(t *testing.T) {
	same := "namespace Oxide.Plugins { public partial class Foo : RustPlugin { } }"
	rep, _ := run(t, file{"plugins/Foo/Foo.cs", core}, file{"plugins/Foo/Same.cs", same})
	assert.True(t, rep.OK())
	assert.Empty(t, rep.Diagnostics)
}
