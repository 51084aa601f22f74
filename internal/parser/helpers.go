package parser

import (
	"surge/internal/diag"
	"surge/internal/source"
	"surge/internal/token"
)

// advance consumes the next token and records its span for diagnostics.
func (p *Parser) advance() token.Token {
	p.fill(1)
	tok := p.buf[0]
	p.buf = p.buf[1:]
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// currentErrorSpan returns the best span to attach to an "expected X" error:
// the peeked token's span, or the position right after the last consumed
// token when we've hit EOF.
func (p *Parser) currentErrorSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// expect consumes k or reports code/msg and returns an Invalid token.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.currentErrorSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.currentErrorSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	p.reportWithNotes(code, sev, sp, msg, nil)
}

func (p *Parser) reportWithNotes(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, notes)
}

// resyncUntil consumes tokens up to (not including) the next token that
// matches one of stop, or EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) {
		peek := p.peek().Kind
		for _, s := range stop {
			if peek == s {
				return
			}
		}
		p.advance()
	}
}

// parseIdent expects an identifier (or '_') and interns its text.
func (p *Parser) parseIdent() (source.StringID, bool) {
	if p.atOr(token.Ident, token.Underscore) {
		tok := p.advance()
		return p.arenas.Intern(tok.Text), true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return source.NoStringID, false
}

// topLevelStarters are the token kinds beginning a top-level item; also
// used by resyncTop as stop tokens.
var topLevelStarters = []token.Kind{
	token.KwFunction, token.KwPredicate, token.KwTest,
	token.KwEnum, token.KwType, token.KwVar, token.KwPar,
	token.KwConstraint, token.KwSolve, token.KwOutput,
	token.KwInclude, token.KwAnnotation,
}

func isTopLevelStarter(k token.Kind) bool {
	for _, s := range topLevelStarters {
		if k == s {
			return true
		}
	}
	return k == token.Ident
}

// resyncTop recovers after a failed top-level item: skip to ';', to the
// start of the next item, or to EOF. Forces one token of progress when
// the scan doesn't move, so malformed input can't hang parseItems.
func (p *Parser) resyncTop() {
	stop := append([]token.Kind{token.Semicolon}, topLevelStarters...)

	prev := p.peek()
	p.resyncUntil(stop...)

	if !p.at(token.EOF) && p.peek().Span == prev.Span && p.peek().Kind == prev.Kind {
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}
