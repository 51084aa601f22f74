package lexer_test

import (
	"fmt"
	"surge/internal/diag"
	"surge/internal/lexer"
	"surge/internal/source"
	"surge/internal/token"
	"testing"
)

// testReporter collects every diagnostic the lexer reports.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mzn", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	return lx, reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	lx, rep := makeTestLexer(input)
	toks := collectAllTokens(lx)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("input %q: got %d tokens %v, want %d %v", input, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("input %q: token %d = %v, want %v", input, i, got[i], want[i])
		}
	}
	if rep.HasErrors() {
		t.Fatalf("input %q: unexpected errors: %v", input, rep.ErrorMessages())
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	assertKinds(t, "let x in array", token.KwLet, token.Ident, token.KwIn, token.KwArray, token.EOF)
}

func TestIntAndFloatLiterals(t *testing.T) {
	assertKinds(t, "1 2.5 0x1F 1e10", token.IntLit, token.FloatLit, token.IntLit, token.FloatLit, token.EOF)
}

func TestBoolAndAbsentAndInfinity(t *testing.T) {
	assertKinds(t, "true false <> infinity",
		token.BoolLit, token.BoolLit, token.NothingLit, token.InfinityLit, token.EOF)
}

func TestOperators(t *testing.T) {
	assertKinds(t, "-> <- <-> == != <= >= ++ :: .. /\\ \\/",
		token.Implies, token.ImpliedBy, token.Iff, token.EqEq, token.Neq, token.LtEq,
		token.GtEq, token.PlusPlus, token.ColonColon, token.DotDot, token.AndAnd,
		token.OrOr, token.EOF)
}

func TestStringLiteral(t *testing.T) {
	toks := collectAllTokens(mustLex(t, `"hello world"`))
	if len(toks) != 2 || toks[0].Kind != token.StringLit {
		t.Fatalf("expected one string literal token, got %v", kinds(toks))
	}
}

func TestInterpolatedStringPromotesKind(t *testing.T) {
	toks := collectAllTokens(mustLex(t, `"x = \(x)"`))
	if len(toks) != 2 || toks[0].Kind != token.FStringLit {
		t.Fatalf("expected FStringLit, got %v", kinds(toks))
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	lx, rep := makeTestLexer(`"no closing quote`)
	collectAllTokens(lx)
	if !rep.HasErrors() {
		t.Fatalf("expected an unterminated-string error")
	}
}

func TestLineCommentIsTrivia(t *testing.T) {
	toks := collectAllTokens(mustLex(t, "x % a comment\ny"))
	if len(toks) != 3 {
		t.Fatalf("expected ident, ident, EOF, got %v", kinds(toks))
	}
	if len(toks[1].Leading) == 0 {
		t.Fatalf("expected the comment+newline to attach as leading trivia to the second ident")
	}
}

func TestBlockCommentNesting(t *testing.T) {
	toks := collectAllTokens(mustLex(t, "x /* outer /* inner */ still outer */ y"))
	if len(toks) != 3 {
		t.Fatalf("expected ident, ident, EOF, got %v", kinds(toks))
	}
}

func mustLex(t *testing.T, input string) *lexer.Lexer {
	t.Helper()
	lx, _ := makeTestLexer(input)
	return lx
}
