package lexer

import (
	"surge/internal/diag"
	"surge/internal/token"
)

// collectLeadingTrivia gathers the run of trivia preceding the next
// significant token:
//   - ' ' and '\t' coalesce into one TriviaSpace
//   - consecutive '\n' coalesce into one TriviaNewline
//   - '%'... or '$'... to end of line -> TriviaLineComment (the former is
//     the primary surface's comment lead-in, the latter the alternate
//     surface's)
//   - '/* ... */' -> TriviaBlockComment (nesting supported; unterminated is
//     reported and the scan stops at EOF)
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '%' || b == '$' {
			lx.cursor.Bump()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaLineComment,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '/' {
			if lx.scanBlockCommentIntoHold() {
				continue
			}
		}

		break
	}
}

// scanBlockCommentIntoHold scans "/* ... */" with nesting; returns false
// (and rewinds) if the input at the cursor isn't a block comment, so the
// caller falls through to scanning '/' as an operator.
func (lx *Lexer) scanBlockCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || b1 != '*' {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if c0, c1, ok := lx.cursor.Peek2(); ok {
			if c0 == '/' && c1 == '*' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
				continue
			}
			if c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
				continue
			}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if depth > 0 {
		lx.errLex(diag.SynUnterminatedComment, sp, "unterminated block comment")
	}
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaBlockComment,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
	return true
}
