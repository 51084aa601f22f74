package lexer

import (
	"surge/internal/token"
)

// scanOperatorOrPunct scans punctuation and symbolic operators, longest
// match first: 3-character operators, then 2-character, then 1-character.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try3('<', '-', '>'):
		return emit(token.Iff)
	case lx.try2('<', '>'):
		return emit(token.NothingLit)
	case lx.try2('-', '>'):
		return emit(token.Implies)
	case lx.try2('<', '-'):
		return emit(token.ImpliedBy)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.Neq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('+', '+'):
		return emit(token.PlusPlus)
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2('.', '.'):
		return emit(token.DotDot)
	case lx.try2('/', '\\'):
		return emit(token.AndAnd)
	case lx.try2('\\', '/'):
		return emit(token.OrOr)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '=':
		return emit(token.Eq)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '.':
		return emit(token.Dot)
	case '|':
		return emit(token.Pipe)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '_':
		return emit(token.Underscore)
	case '\\':
		return emit(token.Backslash)
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
}
