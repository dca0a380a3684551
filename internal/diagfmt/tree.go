package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"oxmerge/internal/ast"
	"oxmerge/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(label string) *treeNode {
	child := &treeNode{label: label}
	n.children = append(n.children, child)
	return child
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil {
		return span.String()
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

func lookupFile(fs *source.FileSet, id source.FileID) (*source.File, bool) {
	if fs == nil {
		return nil, false
	}
	f, ok := fs.Lookup(id)
	return f, ok && f != nil
}

func buildUnitTree(unit *ast.SourceUnit, fs *source.FileSet) *treeNode {
	root := &treeNode{label: fmt.Sprintf("SourceUnit %s", unit.Path)}
	if f, ok := lookupFile(fs, unit.File); ok {
		root.label += fmt.Sprintf(" (%d lines)", f.LineCount())
	}
	if len(unit.Usings) > 0 {
		usings := root.add(fmt.Sprintf("Usings (%d)", len(unit.Usings)))
		for _, u := range unit.Usings {
			usings.add(fmt.Sprintf("%s (span: %s)", u.Text, formatSpan(u.Span, fs)))
		}
	}
	for i := range unit.Types {
		root.children = append(root.children, buildTypeTree(&unit.Types[i], fs, i))
	}
	if len(unit.Errors) > 0 {
		errs := root.add(fmt.Sprintf("Errors (%d)", len(unit.Errors)))
		for _, e := range unit.Errors {
			errs.add(fmt.Sprintf("%s: %s", formatSpan(e.Span, fs), e.Msg))
		}
	}
	return root
}

func buildTypeTree(decl *ast.TypeDecl, fs *source.FileSet, idx int) *treeNode {
	node := &treeNode{label: fmt.Sprintf("Type[%d]: %s %s (span: %s)", idx, decl.Kind, decl.QualifiedName(), formatSpan(decl.Span, fs))}
	if len(decl.Modifiers) > 0 {
		node.add("Modifiers: " + strings.Join(decl.Modifiers, " "))
	}
	for _, a := range decl.Attrs {
		node.add(fmt.Sprintf("Attr: %s [%s]", a.Text, strings.Join(a.Names, ", ")))
	}
	if decl.TypeParams != "" {
		node.add("TypeParams: " + decl.TypeParams)
	}
	if decl.ParamList != "" {
		node.add("Params: " + decl.ParamList)
	}
	if len(decl.Bases) > 0 {
		node.add("Bases: " + strings.Join(decl.Bases, ", "))
	}
	for _, c := range decl.Constraints {
		node.add("Constraint: " + c)
	}
	if len(decl.Members) > 0 {
		members := node.add(fmt.Sprintf("Members (%d)", len(decl.Members)))
		for i, m := range decl.Members {
			members.add(fmt.Sprintf("[%d] @%d #%d %s", i, m.Offset, m.Seq, firstLine(m.Text)))
		}
	}
	if decl.Trailing != "" {
		node.add("Trailing: " + firstLine(decl.Trailing))
	}
	return node
}

func firstLine(s string) string {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "//") || strings.HasPrefix(l, "#") || strings.HasPrefix(l, "[") {
			continue
		}
		if len(lines) > 1 {
			return l + " …"
		}
		return l
	}
	return strings.TrimSpace(s)
}

func writeTree(w io.Writer, node *treeNode, prefix string, last, root bool) error {
	var err error
	switch {
	case root:
		_, err = fmt.Fprintln(w, node.label)
	case last:
		_, err = fmt.Fprintf(w, "%s└─ %s\n", prefix, node.label)
		prefix += "   "
	default:
		_, err = fmt.Fprintf(w, "%s├─ %s\n", prefix, node.label)
		prefix += "│  "
	}
	if err != nil {
		return err
	}
	for i, child := range node.children {
		if err := writeTree(w, child, prefix, i == len(node.children)-1, false); err != nil {
			return err
		}
	}
	return nil
}

// FormatUnitPretty печатает структурное дерево файла.
func FormatUnitPretty(w io.Writer, unit *ast.SourceUnit, fs *source.FileSet) error {
	if unit == nil {
		return fmt.Errorf("nil source unit")
	}
	return writeTree(w, buildUnitTree(unit, fs), "", true, true)
}

type UsingOutput struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Alias  string `json:"alias,omitempty"`
	Static bool   `json:"static,omitempty"`
	Global bool   `json:"global,omitempty"`
}

type MemberOutput struct {
	Offset uint32 `json:"offset"`
	Seq    uint64 `json:"seq"`
	Text   string `json:"text"`
}

type TypeOutput struct {
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Namespace   string         `json:"namespace,omitempty"`
	Modifiers   []string       `json:"modifiers,omitempty"`
	Attributes  []string       `json:"attributes,omitempty"`
	Bases       []string       `json:"bases,omitempty"`
	TypeParams  string         `json:"type_params,omitempty"`
	Constraints []string       `json:"constraints,omitempty"`
	Line        uint32         `json:"line"`
	Column      uint32         `json:"column"`
	Members     []MemberOutput `json:"members,omitempty"`
}

type UnitOutput struct {
	Path   string        `json:"path"`
	Usings []UsingOutput `json:"usings,omitempty"`
	Types  []TypeOutput  `json:"types"`
	Errors []string      `json:"errors,omitempty"`
}

// BuildUnitOutput converts a parsed file into its JSON shape.
func BuildUnitOutput(unit *ast.SourceUnit, fs *source.FileSet) UnitOutput {
	out := UnitOutput{Path: unit.Path, Types: make([]TypeOutput, 0, len(unit.Types))}
	for _, u := range unit.Usings {
		out.Usings = append(out.Usings, UsingOutput{Text: u.Text, Name: u.Name, Alias: u.Alias, Static: u.Static, Global: u.Global})
	}
	for i := range unit.Types {
		d := &unit.Types[i]
		pos, _ := fs.Resolve(d.NameSpan)
		t := TypeOutput{
			Kind:        d.Kind.String(),
			Name:        d.Name,
			Namespace:   d.Namespace,
			Modifiers:   d.Modifiers,
			Bases:       d.Bases,
			TypeParams:  d.TypeParams,
			Constraints: d.Constraints,
			Line:        pos.Line,
			Column:      pos.Col,
		}
		for _, a := range d.Attrs {
			t.Attributes = append(t.Attributes, a.Text)
		}
		for _, m := range d.Members {
			t.Members = append(t.Members, MemberOutput{Offset: m.Offset, Seq: m.Seq, Text: m.Text})
		}
		out.Types = append(out.Types, t)
	}
	for _, e := range unit.Errors {
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", formatSpan(e.Span, fs), e.Msg))
	}
	return out
}

// FormatUnitJSON выводит структурное дерево в JSON.
func FormatUnitJSON(w io.Writer, unit *ast.SourceUnit, fs *source.FileSet) error {
	if unit == nil {
		return fmt.Errorf("nil source unit")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildUnitOutput(unit, fs))
}
