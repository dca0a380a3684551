package merge

import (
	"cmp"
	"slices"
	"strings"

	"oxmerge/internal/ast"
)

type groupKey struct{ name, ns string }

type part struct {
	decl    *ast.TypeDecl
	fileIdx int
	path    string
}

// Build merges the partial declarations of candidates found in units.
// units must be in file order; only top-level partial classes whose name is
// a candidate contribute.
func Build(units []*ast.SourceUnit, candidates []string) *Unit {
	out := &Unit{Usings: ConsolidateUsings(units)}

	var (
		order  []groupKey
		groups = make(map[groupKey][]part)
	)
	for fi, u := range units {
		if u == nil {
			continue
		}
		for _, d := range u.Classes() {
			if !d.IsPartial() || !slices.Contains(candidates, d.Name) {
				continue
			}
			key := groupKey{d.Name, d.Namespace}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], part{decl: d, fileIdx: fi, path: u.Path})
		}
	}

	nsBlock := make(map[string]int)
	for _, key := range order {
		decl := mergeGroup(groups[key])
		if key.ns == "" {
			out.Blocks = append(out.Blocks, Block{Decls: []*Declaration{decl}})
			continue
		}
		if idx, ok := nsBlock[key.ns]; ok {
			out.Blocks[idx].Decls = append(out.Blocks[idx].Decls, decl)
			continue
		}
		nsBlock[key.ns] = len(out.Blocks)
		out.Blocks = append(out.Blocks, Block{Namespace: key.ns, Decls: []*Declaration{decl}})
	}
	return out
}

func mergeGroup(parts []part) *Declaration {
	base := parts[0]
	for _, p := range parts {
		if len(p.decl.Bases) > 0 {
			base = p
			break
		}
	}

	d := &Declaration{
		Name:        base.decl.Name,
		Namespace:   base.decl.Namespace,
		TypeParams:  base.decl.TypeParams,
		ParamList:   base.decl.ParamList,
		Bases:       slices.Clone(base.decl.Bases),
		Constraints: slices.Clone(base.decl.Constraints),
		Parts:       len(parts),
		BaseFile:    base.path,
	}
	if base.decl.Doc != "" {
		d.Doc = base.decl.Doc
	} else {
		for _, p := range parts {
			if p.decl.Doc != "" {
				d.Doc = p.decl.Doc
				break
			}
		}
	}

	for _, m := range base.decl.Modifiers {
		if m != "partial" {
			d.Modifiers = append(d.Modifiers, m)
		}
	}
	if len(d.Modifiers) == 0 {
		d.Modifiers = []string{"public"}
	}

	d.Attrs = mergeAttrs(parts)
	d.Members = mergeMembers(parts)
	return d
}

func mergeAttrs(parts []part) []string {
	type attr struct {
		text    string
		fileIdx int
		offset  uint32
	}
	var all []attr
	for _, p := range parts {
		for _, a := range p.decl.Attrs {
			all = append(all, attr{text: a.Text, fileIdx: p.fileIdx, offset: a.Span.Start})
		}
	}
	slices.SortStableFunc(all, func(a, b attr) int {
		return cmp.Or(cmp.Compare(a.offset, b.offset), cmp.Compare(a.fileIdx, b.fileIdx))
	})
	seen := make(map[string]struct{}, len(all))
	var out []string
	for _, a := range all {
		key := normalizeSpace(a.text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if strings.Contains(a.text, "\n") {
			out = append(out, key)
		} else {
			out = append(out, strings.TrimSpace(a.text))
		}
	}
	return out
}

func mergeMembers(parts []part) []Member {
	var all []Member
	for _, p := range parts {
		var lastSeq uint64
		for _, m := range p.decl.Members {
			all = append(all, Member{
				Text:     m.Text,
				Verbatim: m.Verbatim,
				Offset:   m.Offset,
				FileIdx:  p.fileIdx,
				Seq:      m.Seq,
			})
			lastSeq = m.Seq
		}
		if p.decl.Trailing != "" {
			// комментарии перед закрывающей скобкой идут после последнего члена этой части
			all = append(all, Member{
				Text:    p.decl.Trailing,
				Offset:  p.decl.Span.End,
				FileIdx: p.fileIdx,
				Seq:     lastSeq,
			})
		}
	}
	slices.SortStableFunc(all, func(a, b Member) int {
		return cmp.Or(
			cmp.Compare(a.Offset, b.Offset),
			cmp.Compare(a.FileIdx, b.FileIdx),
			cmp.Compare(a.Seq, b.Seq),
		)
	})
	return all
}

// ConsolidateUsings returns the using directives of all units in file order,
// without duplicates and without unresolvable entries. Global usings come
// first.
func ConsolidateUsings(units []*ast.SourceUnit) []ast.Using {
	seen := make(map[string]struct{})
	var global, local []ast.Using
	for _, u := range units {
		if u == nil {
			continue
		}
		for _, us := range u.Usings {
			if us.Name == "" {
				continue
			}
			key := UsingKey(us)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if us.Global {
				global = append(global, us)
			} else {
				local = append(local, us)
			}
		}
	}
	return append(global, local...)
}

// UsingKey is the textual identity of a using directive: the referenced
// name, qualified by alias and the static flag. "global" does not change
// identity.
func UsingKey(u ast.Using) string {
	key := u.Name
	if u.Alias != "" {
		key = u.Alias + "=" + key
	}
	if u.Static {
		key = "static " + key
	}
	return key
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
