package token

var keywords = map[string]Kind{
	"using":     KwUsing,
	"namespace": KwNamespace,
	"class":     KwClass,
	"struct":    KwStruct,
	"interface": KwInterface,
	"enum":      KwEnum,
	"delegate":  KwDelegate,
	"static":    KwStatic,
	"extern":    KwExtern,
	"public":    KwPublic,
	"private":   KwPrivate,
	"protected": KwProtected,
	"internal":  KwInternal,
	"sealed":    KwSealed,
	"abstract":  KwAbstract,
	"unsafe":    KwUnsafe,
	"new":       KwNew,
	"readonly":  KwReadonly,
	"ref":       KwRef,
	"virtual":   KwVirtual,
	"override":  KwOverride,
	"const":     KwConst,
	"volatile":  KwVolatile,
	"event":     KwEvent,
	"operator":  KwOperator,
	"this":      KwThis,
}

// contextual modifiers are plain identifiers in the token stream
var contextualModifiers = map[string]struct{}{
	"partial":  {},
	"file":     {},
	"async":    {},
	"required": {},
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые, как и в C#.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsTypeModifier reports whether a token may appear in the modifier list of a
// type declaration.
func IsTypeModifier(t Token) bool {
	switch t.Kind {
	case KwPublic, KwPrivate, KwProtected, KwInternal, KwStatic, KwSealed,
		KwAbstract, KwUnsafe, KwNew, KwReadonly, KwRef:
		return true
	case Ident:
		if t.Verbatim {
			return false
		}
		_, ok := contextualModifiers[t.Text]
		return ok
	default:
		return false
	}
}
