package merge

import (
	"oxmerge/internal/ast"
)

// Member is a member fragment with the position it is sorted by.
type Member struct {
	Text     string
	Verbatim []int
	Offset   uint32
	FileIdx  int
	Seq      uint64
}

// Declaration is one merged class.
type Declaration struct {
	Name        string
	Namespace   string
	Doc         string
	Attrs       []string
	Modifiers   []string
	TypeParams  string
	ParamList   string
	Bases       []string
	Constraints []string
	Members     []Member
	// Parts counts the contributing partial declarations.
	Parts int
	// BaseFile is the file the base list / generics were taken from.
	BaseFile string
}

// Block is a top-level chunk of the output: a namespace container, or a
// single declaration in the global namespace (Namespace == "").
type Block struct {
	Namespace string
	Decls     []*Declaration
}

// Unit is the merged compilation unit.
type Unit struct {
	Usings []ast.Using
	Blocks []Block
}

// Declarations returns all merged declarations in emission order.
func (u *Unit) Declarations() []*Declaration {
	var out []*Declaration
	for _, b := range u.Blocks {
		out = append(out, b.Decls...)
	}
	return out
}

// MemberCount returns the number of members over all declarations.
func (u *Unit) MemberCount() int {
	n := 0
	for _, d := range u.Declarations() {
		n += len(d.Members)
	}
	return n
}
