package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oxmerge/internal/ast"
	"oxmerge/internal/parser"
	"oxmerge/internal/source"
)

var markers = []string{"RustPlugin", "CovalencePlugin"}

func parseAll(t *testing.T, srcs ...string) []*ast.SourceUnit {
	t.Helper()
	fs := source.NewFileSet()
	units := make([]*ast.SourceUnit, 0, len(srcs))
	for i, src := range srcs {
		id := fs.AddVirtual("f"+string(rune('a'+i))+".cs", []byte(src))
		u := parser.ParseFile(fs.Get(id), parser.Options{})
		require.Empty(t, u.Errors, "source %d", i)
		units = append(units, u)
	}
	return units
}

func TestIsMarkerBaseType(t *testing.T) {
	assert.True(t, IsMarkerBaseType("RustPlugin", markers))
	assert.True(t, IsMarkerBaseType("Oxide.Plugins.CovalencePlugin", markers))
	assert.True(t, IsMarkerBaseType("MyRustPluginBase", markers), "substring heuristic")
	assert.False(t, IsMarkerBaseType("Plugin", markers))
	assert.False(t, IsMarkerBaseType("RustPlugin", []string{""}))
}

func TestTierOneWinsOverOthers(t *testing.T) {
	units := parseAll(t,
		`[Info("Other", "x", "1.0")] public class OtherPlugin {}`,
		`namespace Oxide.Plugins { partial class Foo : RustPlugin {} }`,
	)
	res := Resolve(units, DefaultStrategies(markers))
	assert.Equal(t, TierMarkerBase, res.Tier)
	assert.Equal(t, []string{"Foo"}, res.Candidates)
	assert.Contains(t, res.Namespaces(), "Oxide.Plugins")
}

func TestTierTwoOnlyWithoutMarker(t *testing.T) {
	units := parseAll(t,
		`public class HelperPlugin {}`,
		`[Info("Foo", "me", "1.0.0")] partial class Foo : Base {}`,
		`partial class Foo {}`,
	)
	res := Resolve(units, DefaultStrategies(markers))
	assert.Equal(t, TierInfoAttribute, res.Tier)
	assert.Equal(t, []string{"Foo"}, res.Candidates)
	assert.Len(t, res.Primaries, 1)
}

func TestTierThree(t *testing.T) {
	units := parseAll(t,
		`public class ShopPLUGIN {} class LonePlugin {} public class Other {}`,
	)
	res := Resolve(units, DefaultStrategies(markers))
	assert.Equal(t, TierPublicPluginSuffix, res.Tier)
	assert.Equal(t, []string{"ShopPLUGIN"}, res.Candidates)
}

func TestOnlyClassesConsidered(t *testing.T) {
	units := parseAll(t,
		`struct Foo : RustPlugin {} interface IFoo : RustPlugin {} public record BarPlugin;`,
	)
	res := Resolve(units, DefaultStrategies(markers))
	assert.True(t, res.Empty())
	assert.Equal(t, TierNone, res.Tier)
}

func TestCandidatesDistinctInOrder(t *testing.T) {
	units := parseAll(t,
		`partial class B : RustPlugin {}`,
		`partial class A : CovalencePlugin {} partial class B : RustPlugin {}`,
	)
	res := Resolve(units, DefaultStrategies(markers))
	assert.Equal(t, []string{"B", "A"}, res.Candidates)
	assert.Len(t, res.Primaries, 3)
	assert.True(t, res.Has("A"))
	assert.False(t, res.Has("C"))
}

func TestCustomStrategies(t *testing.T) {
	units := parseAll(t, `class Foo {}`)
	res := Resolve(units, []Strategy{{Tier: TierMarkerBase, Match: func(d *ast.TypeDecl) bool { return d.Name == "Foo" }}})
	assert.Equal(t, []string{"Foo"}, res.Candidates)
}
