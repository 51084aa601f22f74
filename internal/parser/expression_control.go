package parser

import (
	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/token"
)

// parseLetExpr parses 'let { item; item; ... } in expr'. Each bound item
// is parsed with the same item grammar as a top-level declaration,
// assignment, constraint, or function — 'let' just gives them a scope.
func (p *Parser) parseLetExpr() (ast.ExprID, bool) {
	kw := p.advance() // 'let'
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after 'let'"); !ok {
		return ast.NoExprID, false
	}

	var items []ast.ItemID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncUntil(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		items = append(items, itemID)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close 'let' item block"); !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after 'let' item block"); !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	bodySpan := p.arenas.Exprs.Get(body).Span
	return p.arenas.NewExpr(ast.Expr{
		Kind: ast.ELet, Span: kw.Span.Cover(bodySpan), LetItems: items, Body: body,
	}), true
}

// parseIfExpr parses 'if cond then expr (elseif cond then expr)* (else expr)? endif'.
func (p *Parser) parseIfExpr() (ast.ExprID, bool) {
	kw := p.advance() // 'if'

	var branches []ast.IfBranch
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwThen, diag.SynUnexpectedToken, "expected 'then' after 'if' condition"); !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	branches = append(branches, ast.IfBranch{Cond: cond, Then: then})

	for p.at(token.KwElseif) {
		p.advance()
		c, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.KwThen, diag.SynUnexpectedToken, "expected 'then' after 'elseif' condition"); !ok {
			return ast.NoExprID, false
		}
		t, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		branches = append(branches, ast.IfBranch{Cond: c, Then: t})
	}

	elseExpr := ast.NoExprID
	if p.at(token.KwElse) {
		p.advance()
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elseExpr = e
	}

	end, ok := p.expect(token.KwEndif, diag.SynUnexpectedToken, "expected 'endif' to close 'if' expression")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{
		Kind: ast.EIfThenElse, Span: kw.Span.Cover(end.Span), Branches: branches, Else: elseExpr,
	}), true
}

// parseCaseExpr parses 'case scrutinee of (pattern -> body,)* endcase'.
func (p *Parser) parseCaseExpr() (ast.ExprID, bool) {
	kw := p.advance() // 'case'
	scrutinee, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwOf, diag.SynUnexpectedToken, "expected 'of' after 'case' scrutinee"); !ok {
		return ast.NoExprID, false
	}

	var arms []ast.CaseArm
	for !p.at(token.KwEndcase) && !p.at(token.EOF) {
		armStart := p.peek().Span
		pat, ok := p.parsePattern()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Implies, diag.SynUnexpectedToken, "expected '->' after case pattern"); !ok {
			return ast.NoExprID, false
		}
		body, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		bodySpan := p.arenas.Exprs.Get(body).Span
		arms = append(arms, ast.CaseArm{Pattern: pat, Body: body, Span: armStart.Cover(bodySpan)})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	end, ok := p.expect(token.KwEndcase, diag.SynUnexpectedToken, "expected 'endcase' to close 'case' expression")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.NewExpr(ast.Expr{
		Kind: ast.ECase, Span: kw.Span.Cover(end.Span), Scrutinee: scrutinee, Arms: arms,
	}), true
}
