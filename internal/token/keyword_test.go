package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"let":        KwLet,
		"in":         KwIn,
		"if":         KwIf,
		"case":       KwCase,
		"of":         KwOf,
		"function":   KwFunction,
		"predicate":  KwPredicate,
		"constraint": KwConstraint,
		"solve":      KwSolve,
		"satisfy":    KwSatisfy,
		"true":       BoolLit,
		"false":      BoolLit,
		"div":        Div,
		"union":      Union,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Case matters — the lexer never lowercases before lookup.
	notKw := []string{
		"Let", "IF", "Solve",
		"int", "bool", "float", // base type names — Ident
		"identifier", "toString",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}
