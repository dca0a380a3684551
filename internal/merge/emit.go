package merge

import (
	"strings"

	"oxmerge/internal/ast"
	"oxmerge/internal/format"
)

// Emit renders u. Layout:
//
//	using A;
//	using B;
//
//	namespace N
//	{
//	    [Attr]
//	    public class Foo : Base
//	    {
//	        member
//
//	        member
//	    }
//	}
func Emit(u *Unit, opts format.Options) []byte {
	w := format.NewWriter(opts)
	for _, us := range u.Usings {
		w.Line(us.Text)
	}
	for _, b := range u.Blocks {
		w.BlankLine()
		if b.Namespace == "" {
			for i, d := range b.Decls {
				if i > 0 {
					w.BlankLine()
				}
				emitDecl(w, d)
			}
			continue
		}
		w.Line("namespace " + b.Namespace)
		w.Line("{")
		w.IndentPush()
		for i, d := range b.Decls {
			if i > 0 {
				w.BlankLine()
			}
			emitDecl(w, d)
		}
		w.IndentPop()
		w.Line("}")
	}
	return w.Bytes()
}

func emitDecl(w *format.Writer, d *Declaration) {
	w.Block(d.Doc, nil)
	for _, a := range d.Attrs {
		w.Line(a)
	}
	w.Line(Header(d))
	w.Line("{")
	w.IndentPush()
	for i, m := range d.Members {
		if i > 0 {
			w.BlankLine()
		}
		w.Block(m.Text, m.Verbatim)
	}
	w.IndentPop()
	w.Line("}")
}

// Header renders the declaration line without attributes.
func Header(d *Declaration) string {
	var sb strings.Builder
	for _, m := range d.Modifiers {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	sb.WriteString(ast.KindClass.Keyword())
	sb.WriteByte(' ')
	sb.WriteString(d.Name)
	sb.WriteString(d.TypeParams)
	sb.WriteString(d.ParamList)
	if len(d.Bases) > 0 {
		sb.WriteString(" : ")
		sb.WriteString(strings.Join(d.Bases, ", "))
	}
	for _, c := range d.Constraints {
		sb.WriteByte(' ')
		sb.WriteString(c)
	}
	return sb.String()
}

// Merge builds and renders in one step.
func Merge(units []*ast.SourceUnit, candidates []string, opts format.Options) ([]byte, *Unit) {
	u := Build(units, candidates)
	return Emit(u, opts), u
}
