package diag

// Code identifies a diagnostic rule, e.g. "CS0103" or "RBP001".
type Code string

const (
	UnknownCode Code = ""

	// Структурные нарушения плагина
	// файл должен содержать только partial-части основного класса
	CodeSingleUnit Code = "RBP001"
	// часть основного класса без модификатора partial
	CodeMissingPartial Code = "RBP002"
	// не найдено ни одного кандидата на основной класс
	CodeNoPrimary Code = "RBP003"
	// файл не удалось разобрать
	CodeParseFailure Code = "RBP004"

	// Предупреждения слияния
	// части класса объявляют разные базовые списки / параметры типа / ограничения
	CodeConflictingRedeclaration Code = "RBP101"
)

// ID returns the code text, or "UNKNOWN" for an empty code.
func (c Code) ID() string {
	if c == UnknownCode {
		return "UNKNOWN"
	}
	return string(c)
}

func (c Code) String() string {
	return c.ID()
}

// Title returns a short description of internal codes, "" otherwise.
func (c Code) Title() string {
	switch c {
	case CodeSingleUnit:
		return "file contains something other than partial plugin class parts"
	case CodeMissingPartial:
		return "plugin class part is missing the 'partial' modifier"
	case CodeNoPrimary:
		return "no primary plugin class found"
	case CodeParseFailure:
		return "source file could not be parsed"
	case CodeConflictingRedeclaration:
		return "plugin class parts disagree on base list or generics"
	default:
		return ""
	}
}
