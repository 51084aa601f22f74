package token_test

import (
	"testing"

	"surge/internal/source"
	"surge/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.NothingLit, token.IntLit, token.FloatLit, token.BoolLit,
		token.StringLit, token.FStringLit, token.InfinityLit,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Div, token.Mod,
		token.Eq, token.EqEq, token.Neq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.Not, token.AndAnd, token.OrOr, token.Xor, token.Implies, token.ImpliedBy,
		token.Iff, token.PlusPlus, token.In, token.Subset, token.Superset, token.Union,
		token.Intersect, token.Diff, token.SymDiff, token.DotDot,
		token.LParen, token.RParen, token.LBracket, token.RBracket, token.LBrace, token.RBrace,
		token.Comma, token.Colon, token.ColonColon, token.Semicolon, token.Pipe,
		token.Underscore, token.Backslash, token.Dot,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.IntLit}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsIdent(t *testing.T) {
	if !tok(token.Ident).IsIdent() {
		t.Fatalf("Ident should be ident")
	}
	if tok(token.KwLet).IsIdent() {
		t.Fatalf("KwLet must not be ident")
	}
}

func TestIsKeyword(t *testing.T) {
	keywords := []token.Kind{
		token.KwLet, token.KwIn, token.KwIf, token.KwThen, token.KwElseif, token.KwElse,
		token.KwEndif, token.KwCase, token.KwOf, token.KwEndcase, token.KwWhere,
		token.KwFunction, token.KwPredicate, token.KwTest, token.KwAnnotation, token.KwEnum,
		token.KwType, token.KwVar, token.KwPar, token.KwOpt, token.KwArray, token.KwSet,
		token.KwTuple, token.KwRecord, token.KwAny, token.KwConstraint, token.KwSolve,
		token.KwSatisfy, token.KwMinimize, token.KwMaximize, token.KwOutput, token.KwInclude,
		token.Div, token.Mod, token.Not, token.Xor, token.In, token.Subset, token.Superset,
		token.Union, token.Intersect, token.Diff, token.SymDiff,
	}
	for _, k := range keywords {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	if tok(token.Ident).IsKeyword() {
		t.Fatalf("Ident must not be keyword")
	}
}
