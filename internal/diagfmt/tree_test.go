package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"oxmerge/internal/lexer"
	"oxmerge/internal/parser"
	"oxmerge/internal/source"
)

const treeSrc = `using System;
namespace Oxide.Plugins
{
    [Info("Foo", "me", "1.0.0")]
    public partial class Foo : RustPlugin
    {
        private int a;
        void B() {}
    }
}
`

func TestFormatUnitPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.cs", []byte(treeSrc))
	unit := parser.ParseFile(fs.Get(id), parser.Options{})

	var buf bytes.Buffer
	if err := FormatUnitPretty(&buf, unit, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"SourceUnit Foo.cs (10 lines)\n",
		"├─ Usings (1)\n",
		"└─ Type[0]: class Oxide.Plugins.Foo (span: 4:5-9:6)\n",
		"Modifiers: public partial",
		"Bases: RustPlugin",
		"Members (2)",
		"void B() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatUnitJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.cs", []byte(treeSrc))
	unit := parser.ParseFile(fs.Get(id), parser.Options{})

	var buf bytes.Buffer
	if err := FormatUnitJSON(&buf, unit, fs); err != nil {
		t.Fatal(err)
	}
	var out UnitOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Types) != 1 || out.Types[0].Name != "Foo" || out.Types[0].Line != 5 || out.Types[0].Column != 26 {
		t.Fatalf("unexpected JSON: %+v", out)
	}
	if len(out.Types[0].Members) != 2 || out.Usings[0].Name != "System" {
		t.Errorf("members/usings lost: %+v", out)
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.cs", []byte("class A {}"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 token lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], `"A" at 1:7-1:8 (leading: Space)`) {
		t.Errorf("unexpected ident line %q", lines[1])
	}
}
