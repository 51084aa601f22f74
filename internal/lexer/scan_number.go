package lexer

import (
	"surge/internal/token"
)

// scanNumber scans 0, 123, 0x.., 1.0, 1e-3, 1.0e+10. Digit-group
// underscores are accepted but not validated for placement.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(sp, "expected digit after '.'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		return lx.scanExponent(start, kind)
	}

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		if lx.cursor.Peek() == 'x' || lx.cursor.Peek() == 'X' {
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '.' {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '.' && b1 == '.' {
			// ".." range operator — not part of the number
		} else {
			lx.cursor.Bump()
			if isDec(lx.cursor.Peek()) {
				kind = token.FloatLit
				for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
					lx.cursor.Bump()
				}
			} else {
				kind = token.FloatLit
			}
		}
	}

	return lx.scanExponent(start, kind)
}

func (lx *Lexer) scanExponent(start Mark, kind token.Kind) token.Token {
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
