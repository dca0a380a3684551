package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident

	// reserved words the structural parser cares about
	KwUsing
	KwNamespace
	KwClass
	KwStruct
	KwInterface
	KwEnum
	KwDelegate
	KwStatic
	KwExtern
	KwPublic
	KwPrivate
	KwProtected
	KwInternal
	KwSealed
	KwAbstract
	KwUnsafe
	KwNew
	KwReadonly
	KwRef
	KwVirtual
	KwOverride
	KwConst
	KwVolatile
	KwEvent
	KwOperator
	KwThis

	IntLit
	RealLit
	StringLit
	CharLit

	LBrace   // {
	RBrace   // }
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	Lt       // <
	Gt       // >
	Semicolon
	Comma
	Dot
	Colon
	ColonColon // ::
	Assign     // =
	FatArrow   // =>
	Question   // ?
	Hash       // # outside of a directive line
	Op         // any other operator, Text holds it
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwUsing:     "using",
	KwNamespace: "namespace",
	KwClass:     "class",
	KwStruct:    "struct",
	KwInterface: "interface",
	KwEnum:      "enum",
	KwDelegate:  "delegate",
	KwStatic:    "static",
	KwExtern:    "extern",
	KwPublic:    "public",
	KwPrivate:   "private",
	KwProtected: "protected",
	KwInternal:  "internal",
	KwSealed:    "sealed",
	KwAbstract:  "abstract",
	KwUnsafe:    "unsafe",
	KwNew:       "new",
	KwReadonly:  "readonly",
	KwRef:       "ref",
	KwVirtual:   "virtual",
	KwOverride:  "override",
	KwConst:     "const",
	KwVolatile:  "volatile",
	KwEvent:     "event",
	KwOperator:  "operator",
	KwThis:      "this",
	IntLit:      "IntLit",
	RealLit:     "RealLit",
	StringLit:   "StringLit",
	CharLit:     "CharLit",
	LBrace:      "{",
	RBrace:      "}",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	Lt:          "<",
	Gt:          ">",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	Colon:       ":",
	ColonColon:  "::",
	Assign:      "=",
	FatArrow:    "=>",
	Question:    "?",
	Hash:        "#",
	Op:          "Op",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsOpen reports whether k opens a bracketed region tracked for depth.
func (k Kind) IsOpen() bool {
	return k == LBrace || k == LParen || k == LBracket
}

// IsClose reports whether k closes a bracketed region tracked for depth.
func (k Kind) IsClose() bool {
	return k == RBrace || k == RParen || k == RBracket
}
