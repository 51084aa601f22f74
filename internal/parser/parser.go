// Package parser builds internal/ast trees for the primary surface grammar:
// a full expression language in the style of a declarative constraint model
// (let/in, if-then-elseif-else-endif, case-of, array/set comprehensions,
// generator-calls, string interpolation). Nothing here is desugared — that
// is internal/lower's job.
package parser

import (
	"context"

	"surge/internal/ast"
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
	File ast.FileID
	Bag  *diag.Bag
}

// Parser holds the state of a single-file parse. It keeps its own
// 2-token lookahead buffer on top of the lexer's 1-token Peek, needed to
// tell a generator-call's `(pattern in set)` from an ordinary call's
// argument list before committing to either parse.
type Parser struct {
	lx        *lexer.Lexer
	buf       []token.Token
	arenas    *ast.Builder
	file      ast.FileID
	fs        *source.FileSet
	opts      Options
	lastSpan  source.Span
	exprDepth int

	// forwardEnums tracks enum names declared with a forward `enum Name;`
	// so a later `Name = {...}` item can be recognized syntactically as
	// its completing assignment instead of parsed as a fresh declaration.
	forwardEnums map[source.StringID]bool
}

func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		p.buf = append(p.buf, p.lx.Next())
	}
}

// peek returns the next token without consuming it.
func (p *Parser) peek() token.Token {
	p.fill(1)
	return p.buf[0]
}

// peek2 returns the token after peek() without consuming either.
func (p *Parser) peek2() token.Token {
	p.fill(2)
	return p.buf[1]
}

// ParseFile parses one file already wrapped in a lexer, building nodes
// into arenas and reporting through opts.Reporter.
func ParseFile(_ context.Context, fs *source.FileSet, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
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

// parseItems is the top-level loop: parse one item at a time until EOF,
// resyncing after each failure. Progress is forced when resync lands on
// the token it started from, so corrupted input can never hang the parser.
func (p *Parser) parseItems() {
	startSpan := p.peek().Span

	for !p.at(token.EOF) {
		before := p.peek()

		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
		} else {
			p.arenas.PushItem(p.file, itemID)
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
