package merge

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oxmerge/internal/ast"
	"oxmerge/internal/format"
	"oxmerge/internal/parser"
	"oxmerge/internal/source"
)

type file struct{ path, src string }

func parseAll(t *testing.T, files ...file) []*ast.SourceUnit {
	t.Helper()
	fs := source.NewFileSet()
	seq := new(atomic.Uint64)
	units := make([]*ast.SourceUnit, 0, len(files))
	for _, f := range files {
		id := fs.AddVirtual(f.path, []byte(f.src))
		u := parser.ParseFile(fs.Get(id), parser.Options{Seq: seq})
		require.Empty(t, u.Errors, f.path)
		units = append(units, u)
	}
	return units
}

const fooCore = `using System;
using Oxide.Core;

namespace Oxide.Plugins
{
    [Info("Foo", "me", "1.0.0")]
    public partial class Foo : RustPlugin
    {
        private int A;
    }
}
`

const fooCommands = `using System;
using System.Linq;
using System.Collections.Generic;

namespace Oxide.Plugins
{
    public partial class Foo : RustPlugin
    {
        // chat command
        [ChatCommand("b")]
        private void B(BasePlayer player, string command, string[] args)
        {
            var n = args.Count();
        }
    }
}
`

func TestEndToEndTwoFiles(t *testing.T) {
	units := parseAll(t,
		file{"plugins/Foo/Foo.Core.cs", fooCore},
		file{"plugins/Foo/Foo.Commands.cs", fooCommands},
	)
	out, u := Merge(units, []string{"Foo"}, format.Options{})

	want := `using System;
using Oxide.Core;
using System.Linq;
using System.Collections.Generic;

namespace Oxide.Plugins
{
    [Info("Foo", "me", "1.0.0")]
    public class Foo : RustPlugin
    {
        private int A;

        // chat command
        [ChatCommand("b")]
        private void B(BasePlayer player, string command, string[] args)
        {
            var n = args.Count();
        }
    }
}
`
	assert.Equal(t, want, string(out))
	require.Len(t, u.Declarations(), 1)
	d := u.Declarations()[0]
	assert.Equal(t, 2, d.Parts)
	assert.Equal(t, "plugins/Foo/Foo.Core.cs", d.BaseFile)
	assert.Equal(t, 2, u.MemberCount())
}

func TestMergeIsIdempotent(t *testing.T) {
	files := []file{
		{"plugins/Foo/Foo.Core.cs", fooCore},
		{"plugins/Foo/Foo.Commands.cs", fooCommands},
	}
	first, _ := Merge(parseAll(t, files...), []string{"Foo"}, format.Options{})
	second, _ := Merge(parseAll(t, files...), []string{"Foo"}, format.Options{})
	assert.Equal(t, first, second)
}

func TestMembersInterleaveByOffset(t *testing.T) {
	f1 := "partial class Foo : RustPlugin\n{\n    int a;\n\n\n\n\n\n\n\n\n\n\n\n    int c;\n}\n"
	f2 := "partial class Foo\n{\n" + strings.Repeat("\n", 14) + "    int b;\n}\n"
	units := parseAll(t, file{"a.cs", f1}, file{"b.cs", f2})
	u := Build(units, []string{"Foo"})

	var texts []string
	for _, m := range u.Declarations()[0].Members {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"int a;", "int b;", "int c;"}, texts)
}

func TestEqualOffsetsKeepFileOrder(t *testing.T) {
	src := "partial class Foo\n{\n    int x;\n}\n"
	units := parseAll(t, file{"a.cs", src}, file{"b.cs", strings.Replace(src, "x", "y", 1)})
	u := Build(units, []string{"Foo"})
	members := u.Declarations()[0].Members
	require.Len(t, members, 2)
	assert.Equal(t, "int x;", members[0].Text)
	assert.Equal(t, "int y;", members[1].Text)
}

func TestUsingsConsolidation(t *testing.T) {
	units := parseAll(t,
		file{"a.cs", "using System;\nusing Col = System.Collections;\nusing static System.Math;\npartial class Foo {}"},
		file{"b.cs", "using  System ;\nglobal using System.Text;\nusing System.Math;\nusing Col = System.Collections;\nusing Other = System.Collections;\npartial class Foo {}"},
	)
	var got []string
	for _, u := range ConsolidateUsings(units) {
		got = append(got, u.Text)
	}
	assert.Equal(t, []string{
		"global using System.Text;",
		"using System;",
		"using Col = System.Collections;",
		"using static System.Math;",
		"using System.Math;",
		"using Other = System.Collections;",
	}, got)
}

func TestAttributesAndModifiers(t *testing.T) {
	units := parseAll(t,
		file{"a.cs", "[Info(\"Foo\", \"me\", \"1.0\")]\npartial class Foo : RustPlugin { int a; }"},
		file{"b.cs", "[Info( \"Foo\",  \"me\", \"1.0\" )]\n[Description(\"d\")]\n[Info(\"Foo\", \"me\", \"1.0\")]\npartial class Foo { int b; }"},
	)
	d := Build(units, []string{"Foo"}).Declarations()[0]
	assert.Equal(t, []string{
		`[Info("Foo", "me", "1.0")]`,
		`[Info( "Foo",  "me", "1.0" )]`,
		`[Description("d")]`,
	}, d.Attrs, "dedup is by whitespace-normalised text only")
	assert.Equal(t, []string{"public"}, d.Modifiers)
	assert.Equal(t, "public class Foo : RustPlugin", Header(d))
}

func TestAttributesOrderedByOffsetAcrossFiles(t *testing.T) {
	units := parseAll(t,
		file{"a.cs", "// header comment\n[Description(\"d\")]\npartial class Foo : RustPlugin { int a; }"},
		file{"b.cs", "[Info(\"Foo\", \"me\", \"1.0\")]\npartial class Foo { int b; }"},
	)
	d := Build(units, []string{"Foo"}).Declarations()[0]
	assert.Equal(t, []string{
		`[Info("Foo", "me", "1.0")]`,
		`[Description("d")]`,
	}, d.Attrs, "offset wins over file order")
}

func TestBasePartIsFirstWithBases(t *testing.T) {
	units := parseAll(t,
		file{"a.cs", "internal partial class Foo { int a; }"},
		file{"b.cs", "public sealed partial class Foo<T> : RustPlugin, IDisposable where T : class { int b; }"},
		file{"c.cs", "partial class Foo<T> : CovalencePlugin { int c; }"},
	)
	d := Build(units, []string{"Foo"}).Declarations()[0]
	assert.Equal(t, "b.cs", d.BaseFile)
	assert.Equal(t, "public sealed class Foo<T> : RustPlugin, IDisposable where T : class", Header(d))
}

func TestNamespaceBlocks(t *testing.T) {
	units := parseAll(t,
		file{"a.cs", "partial class Foo : RustPlugin { int a; }\nnamespace N { partial class Foo { int b; } }"},
		file{"b.cs", "namespace M { partial class Foo { int c; } }\nnamespace N { partial class Bar { int d; } }"},
	)
	u := Build(units, []string{"Foo", "Bar"})
	require.Len(t, u.Blocks, 3)
	assert.Equal(t, "", u.Blocks[0].Namespace)
	assert.Equal(t, "N", u.Blocks[1].Namespace)
	assert.Len(t, u.Blocks[1].Decls, 2, "Bar joins the existing N container")
	assert.Equal(t, "M", u.Blocks[2].Namespace)

	out := string(Emit(u, format.Options{}))
	assert.True(t, strings.HasPrefix(out, "public class Foo : RustPlugin\n{\n    int a;\n}\n\nnamespace N\n{\n"), out)
	assert.Equal(t, 1, strings.Count(out, "namespace N"))
	assert.NotContains(t, out, "partial")
}

func TestTrailingAndVerbatim(t *testing.T) {
	src := "partial class Foo : RustPlugin\n{\n" +
		"    string s = @\"\n  keep   \nme\";\n" +
		"    #region Hooks\n" +
		"    void A() {}\n" +
		"    #endregion\n" +
		"    // the end\n" +
		"}\n"
	out, _ := Merge(parseAll(t, file{"a.cs", src}), []string{"Foo"}, format.Options{})
	want := "public class Foo : RustPlugin\n{\n" +
		"    string s = @\"\n  keep   \nme\";\n" +
		"\n" +
		"    void A() {}\n" +
		"\n" +
		"    // the end\n" +
		"}\n"
	assert.Equal(t, want, string(out))
}

func TestNonCandidatesAndNonPartialsIgnored(t *testing.T) {
	units := parseAll(t, file{"a.cs", "partial class Foo : RustPlugin { int a; }\nclass Foo2 {}\nclass Foo { int z; }"})
	u := Build(units, []string{"Foo"})
	require.Len(t, u.Declarations(), 1)
	assert.Len(t, u.Declarations()[0].Members, 1)
}
