package parser

import (
	"strconv"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/token"
)

// parseParenExpr handles the three constructs that start with '(':
// a parenthesized expression, a tuple literal, and a record literal
// (disambiguated by a leading `name:` field).
func (p *Parser) parseParenExpr() (ast.ExprID, bool) {
	open := p.advance() // '('
	if p.at(token.RParen) {
		close := p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.ETupleLit, Span: open.Span.Cover(close.Span)}), true
	}
	if p.at(token.Ident) && p.peek2().Kind == token.Colon {
		return p.parseRecordLiteralBody(open)
	}

	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.RParen) {
		p.advance()
		return first, true // plain parenthesized expression
	}

	elems := []ast.ExprID{first}
	for p.at(token.Comma) {
		p.advance()
		if p.at(token.RParen) {
			break
		}
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple literal")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ETupleLit, Span: open.Span.Cover(close.Span), Elems: elems}), true
}

func (p *Parser) parseRecordLiteralBody(open token.Token) (ast.ExprID, bool) {
	var fields []ast.RecordField
	for {
		nameID, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in record literal"); !ok {
			return ast.NoExprID, false
		}
		val, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		fields = append(fields, ast.RecordField{Name: nameID, Value: val})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close record literal")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ERecordLit, Span: open.Span.Cover(close.Span), Fields: fields}), true
}

// parseArrayLiteralOrComprehension handles '[', which can start an empty
// array, a flat array literal, an indexed array literal ('[i: v, ...]'),
// a row-major 2D array literal ('[| ... | ... |]'), or a comprehension.
func (p *Parser) parseArrayLiteralOrComprehension() (ast.ExprID, bool) {
	open := p.advance() // '['
	if p.at(token.RBracket) {
		close := p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EArrayLit, Span: open.Span.Cover(close.Span)}), true
	}
	if p.at(token.Pipe) {
		return p.parseArrayLiteral2D(open)
	}

	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}

	switch {
	case p.at(token.Pipe):
		p.advance()
		gens, ok := p.parseGenerators()
		if !ok {
			return ast.NoExprID, false
		}
		where := ast.NoExprID
		if p.at(token.KwWhere) {
			p.advance()
			w, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			where = w
		}
		close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array comprehension")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.NewExpr(ast.Expr{
			Kind: ast.EArrayComp, Span: open.Span.Cover(close.Span), Body: first, Generators: gens, Where: where,
		}), true

	case p.at(token.Colon):
		return p.parseIndexedArrayLiteral(open, first)

	default:
		elems := []ast.ExprID{first}
		for p.at(token.Comma) {
			p.advance()
			if p.at(token.RBracket) {
				break
			}
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			elems = append(elems, e)
		}
		close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array literal")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EArrayLit, Span: open.Span.Cover(close.Span), Elems: elems}), true
	}
}

func (p *Parser) parseIndexedArrayLiteral(open token.Token, firstIdx ast.ExprID) (ast.ExprID, bool) {
	p.advance() // ':'
	firstVal, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	idxs := []ast.ExprID{firstIdx}
	vals := []ast.ExprID{firstVal}
	for p.at(token.Comma) {
		p.advance()
		if p.at(token.RBracket) {
			break
		}
		idx, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynInvalidArrayLiteral, "expected ':' between index and value in indexed array literal"); !ok {
			return ast.NoExprID, false
		}
		val, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		idxs = append(idxs, idx)
		vals = append(vals, val)
	}
	close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close indexed array literal")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{
		Kind: ast.EIndexedArrayLit, Span: open.Span.Cover(close.Span), Elems: vals, IndexExprs: idxs,
	}), true
}

func (p *Parser) parseArrayLiteral2D(open token.Token) (ast.ExprID, bool) {
	var elems []ast.ExprID
	rows := 0
	cols := -1
	for p.at(token.Pipe) {
		p.advance()
		if p.atOr(token.Pipe, token.RBracket) {
			break // trailing '|' terminator with no final row
		}
		rowCols := 0
		for {
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			elems = append(elems, e)
			rowCols++
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if cols == -1 {
			cols = rowCols
		} else if rowCols != cols {
			p.err(diag.SynInvalidArrayLiteral, "all rows of a 2D array literal must have the same number of columns")
			return ast.NoExprID, false
		}
		rows++
	}
	close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close 2D array literal")
	if !ok {
		return ast.NoExprID, false
	}
	if cols == -1 {
		cols = 0
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.EArrayLit2D, Span: open.Span.Cover(close.Span), Elems: elems, Rows: rows, Cols: cols}), true
}

// parseSetLiteralOrComprehension handles '{': empty set, flat set
// literal, or set comprehension.
func (p *Parser) parseSetLiteralOrComprehension() (ast.ExprID, bool) {
	open := p.advance() // '{'
	if p.at(token.RBrace) {
		close := p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.ESetLit, Span: open.Span.Cover(close.Span)}), true
	}

	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}

	if p.at(token.Pipe) {
		p.advance()
		gens, ok := p.parseGenerators()
		if !ok {
			return ast.NoExprID, false
		}
		where := ast.NoExprID
		if p.at(token.KwWhere) {
			p.advance()
			w, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			where = w
		}
		close, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close set comprehension")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.NewExpr(ast.Expr{
			Kind: ast.ESetComp, Span: open.Span.Cover(close.Span), Body: first, Generators: gens, Where: where,
		}), true
	}

	elems := []ast.ExprID{first}
	for p.at(token.Comma) {
		p.advance()
		if p.at(token.RBrace) {
			break
		}
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
	}
	close, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close set literal")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ESetLit, Span: open.Span.Cover(close.Span), Elems: elems}), true
}

// parseGenerators parses one or more comma-separated `patternlist in expr`
// clauses. A comma after a pattern (before 'in') joins patterns sharing
// one collection; a comma after a complete clause starts the next
// generator — the grammar only ever needs this one token of context.
func (p *Parser) parseGenerators() ([]ast.Generator, bool) {
	var gens []ast.Generator
	for {
		var pats []ast.PatternID
		for {
			pat, ok := p.parsePattern()
			if !ok {
				return nil, false
			}
			pats = append(pats, pat)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in generator"); !ok {
			return nil, false
		}
		coll, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		gens = append(gens, ast.Generator{Patterns: pats, Collection: coll})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return gens, true
}

// parseArrayAccess parses 'expr[i, j, ...]', where a bare '..' index means
// a full-range slice along that dimension.
func (p *Parser) parseArrayAccess(base ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '['
	var indices []ast.ExprID
	for {
		if p.at(token.DotDot) {
			dd := p.advance()
			indices = append(indices, p.arenas.NewExpr(ast.Expr{Kind: ast.ESlice, Span: dd.Span}))
		} else {
			idx, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			indices = append(indices, idx)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array access")
	if !ok {
		return ast.NoExprID, false
	}
	baseSpan := p.arenas.Exprs.Get(base).Span
	return p.arenas.NewExpr(ast.Expr{Kind: ast.EArrayAccess, Span: baseSpan.Cover(close.Span), Base: base, Indices: indices}), true
}

// parseDotAccess parses 'expr.field' (record access) or 'expr.N'
// (1-based tuple access).
func (p *Parser) parseDotAccess(base ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '.'
	baseSpan := p.arenas.Exprs.Get(base).Span

	if p.at(token.IntLit) {
		tok := p.advance()
		idx, err := strconv.Atoi(tok.Text)
		if err != nil || idx < 1 {
			p.err(diag.SynExpectExpression, "invalid tuple index")
			return ast.NoExprID, false
		}
		return p.arenas.NewExpr(ast.Expr{Kind: ast.ETupleAccess, Span: baseSpan.Cover(tok.Span), Base: base, Index: idx}), true
	}

	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ERecordAccess, Span: baseSpan.Cover(p.lastSpan), Base: base, Field: nameID}), true
}

// parseCallOrGeneratorCall parses 'callee(args)'. When callee is a bare
// identifier and the argument list has the shape of a single generator
// ('ident in expr'), followed by a second parenthesized body, it is
// instead parsed as generator-call sugar (e.g. 'forall(i in S)(body)').
// Later generators may follow ('forall(i in S, j in T)(...)'), but call
// sugar whose first generator binds several patterns ('forall(i, j in
// S)(...)') is not distinguished from an ordinary call at this lookahead
// depth and parses as a plain call instead; comprehensions are unaffected since
// their '|' already commits to comprehension grammar.
func (p *Parser) parseCallOrGeneratorCall(callee ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '('
	calleeNode := p.arenas.Exprs.Get(callee)

	if calleeNode.Kind == ast.EIdent && p.atOr(token.Ident, token.Underscore) && p.peek2().Kind == token.KwIn {
		gens, ok := p.parseGenerators()
		if !ok {
			return ast.NoExprID, false
		}
		where := ast.NoExprID
		if p.at(token.KwWhere) {
			p.advance()
			w, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			where = w
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close generator clause"); !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to start generator-call body"); !ok {
			return ast.NoExprID, false
		}
		body, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close generator-call body")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.NewExpr(ast.Expr{
			Kind: ast.EGeneratorCall, Span: calleeNode.Span.Cover(close.Span),
			Callee: callee, Generators: gens, Where: where, Body: body,
		}), true
	}

	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			a, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			args = append(args, a)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close call arguments")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{Kind: ast.ECall, Span: calleeNode.Span.Cover(close.Span), Callee: callee, Args: args}), true
}
