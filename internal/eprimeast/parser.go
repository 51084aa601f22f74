package eprimeast

import (
	"context"

	"surge/internal/diag"
	"surge/internal/lexer"
	"surge/internal/source"
	"surge/internal/token"
)

// Options configures a single parse.
type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget for this parse has been spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result is what ParseFile hands back.
type Result struct {
	File FileID
	Bag  *diag.Bag
}

// Parser holds the state of a single-file parse of the alternate surface.
// Unlike the primary surface's Parser, one token of lookahead (the
// lexer's own Peek/Push) is enough: nothing in this grammar needs to
// commit past a second token before choosing a production.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *Builder
	file     FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span
}

// ParseFile parses one file already wrapped in a lexer, building nodes
// into arenas and reporting through opts.Reporter.
func ParseFile(_ context.Context, fs *source.FileSet, lx *lexer.Lexer, arenas *Builder, opts Options) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseItems()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{File: p.file, Bag: bag}
}

func (p *Parser) peek() token.Token { return p.lx.Peek() }

func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	peek := p.peek().Kind
	for _, k := range kinds {
		if peek == k {
			return true
		}
	}
	return false
}

func (p *Parser) IsError() bool { return p.opts.CurrentErrors != 0 }

func (p *Parser) currentErrorSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

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
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}

// parseIdent expects an identifier and interns its text.
func (p *Parser) parseIdent() (source.StringID, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Intern(tok.Text), true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return source.NoStringID, false
}

// topLevelStarters are the token kinds beginning a top-level item; also
// used by resyncTop as stop tokens. There is no item-terminator token in
// this grammar (no trailing ';'), so recovery always resyncs forward to
// the next of these rather than to a semicolon.
var topLevelStarters = []token.Kind{
	token.KwGiven, token.KwFind, token.KwLetting,
	token.KwSuch, token.KwMinimising, token.KwMaximising, token.KwBranching,
	token.KwOutput,
}

func isTopLevelStarter(k token.Kind) bool {
	for _, s := range topLevelStarters {
		if k == s {
			return true
		}
	}
	return false
}

// resyncTop recovers after a failed top-level item: skip to the start of
// the next item or to EOF, forcing one token of progress when the scan
// doesn't move so malformed input can't hang parseItems.
func (p *Parser) resyncTop() {
	prev := p.peek()
	for !p.at(token.EOF) && !isTopLevelStarter(p.peek().Kind) {
		p.advance()
	}
	if !p.at(token.EOF) && p.peek().Span == prev.Span && p.peek().Kind == prev.Kind {
		p.advance()
	}
}

// parseItems is the top-level loop: parse item(s) one clause at a time
// until EOF, resyncing after each failure.
func (p *Parser) parseItems() {
	startSpan := p.peek().Span

	for !p.at(token.EOF) {
		before := p.peek()

		ok := p.parseItem()
		if !ok {
			p.resyncTop()
		}

		if !p.at(token.EOF) {
			after := p.peek()
			if after.Kind == before.Kind && after.Span == before.Span {
				p.advance()
			}
		}
	}

	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.peek().Span)
}
