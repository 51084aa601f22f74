package token

import (
	"surge/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsPunctOrOp reports whether the token is punctuation or an operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Div, Mod, Eq, EqEq, Neq, Lt, LtEq, Gt, GtEq,
		Not, AndAnd, OrOr, Xor, Implies, ImpliedBy, Iff, PlusPlus, In, Subset,
		Superset, Union, Intersect, Diff, SymDiff, DotDot, LParen, RParen,
		LBracket, RBracket, LBrace, RBrace, Comma, Colon, ColonColon,
		Semicolon, Pipe, Underscore, Backslash, Dot:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
