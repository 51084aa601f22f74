// Package token defines lexical token kinds and trivia shared by both
// surface grammars.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Annotations are lexed as '::' (Kind: ColonColon) + an expression; no
//     per-annotation token kinds.
//   - Line comments ("%") are represented as leading Trivia (TriviaLineComment)
//     and never appear in the main token stream.
//   - Base type names (int, bool, float, string) are identifiers, recognized
//     by the lowerer, not the lexer.
package token
