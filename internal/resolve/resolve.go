// Package resolve picks the primary plugin class among the class
// declarations of one plugin.
//
// Resolution is an ordered list of strategies; the first strategy that
// selects at least one declaration wins and later ones are not consulted.
package resolve

import (
	"strings"

	"oxmerge/internal/ast"
)

// Tier identifies the strategy that produced a Result.
type Tier uint8

const (
	TierNone Tier = iota
	TierMarkerBase
	TierInfoAttribute
	TierPublicPluginSuffix
)

func (t Tier) String() string {
	switch t {
	case TierMarkerBase:
		return "marker-base"
	case TierInfoAttribute:
		return "info-attribute"
	case TierPublicPluginSuffix:
		return "public-plugin-suffix"
	default:
		return "none"
	}
}

// Strategy is a pure predicate over one declaration.
type Strategy struct {
	Tier  Tier
	Match func(d *ast.TypeDecl) bool
}

// DefaultStrategies returns the three tiers for the given marker base names.
func DefaultStrategies(markers []string) []Strategy {
	return []Strategy{
		{Tier: TierMarkerBase, Match: func(d *ast.TypeDecl) bool {
			for _, b := range d.Bases {
				if IsMarkerBaseType(b, markers) {
					return true
				}
			}
			return false
		}},
		{Tier: TierInfoAttribute, Match: hasInfoAttribute},
		{Tier: TierPublicPluginSuffix, Match: func(d *ast.TypeDecl) bool {
			return d.HasModifier("public") && strings.HasSuffix(strings.ToLower(d.Name), "plugin")
		}},
	}
}

// IsMarkerBaseType reports whether a base-list entry textually contains any
// marker. This is a substring heuristic: "MyRustPluginBase" matches
// "RustPlugin" too, no type binding is attempted.
func IsMarkerBaseType(tokenText string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(tokenText, m) {
			return true
		}
	}
	return false
}

func hasInfoAttribute(d *ast.TypeDecl) bool {
	for _, a := range d.Attrs {
		for _, name := range a.Names {
			if strings.Contains(name, "Info") {
				return true
			}
		}
	}
	return false
}

// Result of primary resolution.
type Result struct {
	Tier Tier
	// Primaries are the declarations the winning strategy selected.
	Primaries []*ast.TypeDecl
	// Candidates are the distinct identifiers of Primaries in first-seen order.
	Candidates []string
}

// Empty reports that no strategy selected anything.
func (r Result) Empty() bool {
	return len(r.Candidates) == 0
}

// Has reports whether name is a candidate identifier.
func (r Result) Has(name string) bool {
	for _, c := range r.Candidates {
		if c == name {
			return true
		}
	}
	return false
}

// Namespaces returns the distinct namespaces of the primary declarations.
func (r Result) Namespaces() map[string]struct{} {
	ns := make(map[string]struct{}, len(r.Primaries))
	for _, d := range r.Primaries {
		ns[d.Namespace] = struct{}{}
	}
	return ns
}

// Resolve runs strategies over the class declarations of all units in
// order. Non-class declarations are never considered.
func Resolve(units []*ast.SourceUnit, strategies []Strategy) Result {
	var classes []*ast.TypeDecl
	for _, u := range units {
		if u == nil {
			continue
		}
		classes = append(classes, u.Classes()...)
	}
	for _, s := range strategies {
		var picked []*ast.TypeDecl
		for _, d := range classes {
			if s.Match(d) {
				picked = append(picked, d)
			}
		}
		if len(picked) == 0 {
			continue
		}
		res := Result{Tier: s.Tier, Primaries: picked}
		seen := make(map[string]struct{}, len(picked))
		for _, d := range picked {
			if _, ok := seen[d.Name]; ok {
				continue
			}
			seen[d.Name] = struct{}{}
			res.Candidates = append(res.Candidates, d.Name)
		}
		return res
	}
	return Result{}
}
