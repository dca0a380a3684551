// Package token defines the lexical token kinds and trivia of the C# subset
// that the structural parser understands.
// Invariants:
//   - Token.Text is the exact source text of Token.Span, except for identifiers,
//     whose Text is NFC-normalised and stripped of a leading '@'.
//   - Comments, whitespace and preprocessor lines (#if, #region, ...) are
//     Trivia attached to the following significant token; they never appear
//     in the main token stream.
//   - Contextual keywords (partial, record, global, where, file, ...) are
//     lexed as Ident; the parser decides by text.
//   - '<' and '>' are always single tokens so that nested generics close
//     correctly (List<List<int>>).
package token
