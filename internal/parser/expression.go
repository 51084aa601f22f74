package parser

import (
	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/token"
)

// parseExpr is the entry point for expression parsing.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr implements precedence-climbing over the raw (non-
// desugared) infix operator set; internal/lower rewrites the result into
// HIR calls per the desugaring table.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	p.exprDepth++
	defer func() { p.exprDepth-- }()

	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok := p.peek()
		prec, rightAssoc := binaryPrec(tok.Kind)
		if prec < 0 || prec < minPrec {
			break
		}

		opTok := p.advance()
		nextMinPrec := prec + 1
		if rightAssoc {
			nextMinPrec = prec
		}

		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after binary operator")
			return ast.NoExprID, false
		}

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.NewExpr(ast.Expr{
			Kind:  ast.EInfix,
			Span:  leftSpan.Cover(rightSpan),
			Op:    p.arenas.Intern(opTok.Text),
			Left:  left,
			Right: right,
		})
	}

	return p.parsePostfixAnnotation(left)
}

// parsePostfixAnnotation handles the `expr :: annotation` suffix, which
// binds looser than every operator so it can trail a whole expression.
func (p *Parser) parsePostfixAnnotation(expr ast.ExprID) (ast.ExprID, bool) {
	for p.at(token.ColonColon) {
		p.advance()
		ann, ok := p.parseBinaryExpr(precAdditive)
		if !ok {
			return ast.NoExprID, false
		}
		exprSpan := p.arenas.Exprs.Get(expr).Span
		annSpan := p.arenas.Exprs.Get(ann).Span
		expr = p.arenas.NewExpr(ast.Expr{
			Kind:       ast.EAnnotated,
			Span:       exprSpan.Cover(annSpan),
			Left:       expr,
			Annotation: ann,
		})
	}
	return expr, true
}

// parseUnaryExpr handles raw prefix operators ('not', unary '-'/'+').
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	if isUnaryPrefix(p.peek().Kind) {
		opTok := p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		operandSpan := p.arenas.Exprs.Get(operand).Span
		return p.arenas.NewExpr(ast.Expr{
			Kind:  ast.EPrefix,
			Span:  opTok.Span.Cover(operandSpan),
			Op:    p.arenas.Intern(opTok.Text),
			Right: operand,
		}), true
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr handles array access, tuple/record field access, and
// calls, looping while one of them follows. No postfix operator is parsed,
// so this parser never builds an EPostfix node.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		switch p.peek().Kind {
		case token.LParen:
			newExpr, ok := p.parseCallOrGeneratorCall(expr)
			if !ok {
				return ast.NoExprID, false
			}
			expr = newExpr
		case token.LBracket:
			newExpr, ok := p.parseArrayAccess(expr)
			if !ok {
				return ast.NoExprID, false
			}
			expr = newExpr
		case token.Dot:
			newExpr, ok := p.parseDotAccess(expr)
			if !ok {
				return ast.NoExprID, false
			}
			expr = newExpr
		default:
			return expr, true
		}
	}
}

// parsePrimaryExpr parses atomic expressions.
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.BoolLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EBoolLit, Span: tok.Span, BoolValue: tok.Text == "true"}), true
	case token.IntLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EIntLit, Span: tok.Span, NumText: tok.Text}), true
	case token.FloatLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EFloatLit, Span: tok.Span, NumText: tok.Text}), true
	case token.StringLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EStringLit, Span: tok.Span, StrText: tok.Text}), true
	case token.FStringLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EFStringLit, Span: tok.Span, StrText: tok.Text}), true
	case token.NothingLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EAbsentLit, Span: tok.Span}), true
	case token.InfinityLit:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EInfinityLit, Span: tok.Span}), true
	case token.Ident:
		p.advance()
		return p.arenas.NewExpr(ast.Expr{Kind: ast.EIdent, Span: tok.Span, Name: p.arenas.Intern(tok.Text)}), true
	case token.Underscore:
		p.err(diag.SynAnonVarInExprPos, "'_' is only valid in pattern position, not in an expression")
		return ast.NoExprID, false
	case token.KwLet:
		return p.parseLetExpr()
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwCase:
		return p.parseCaseExpr()
	case token.LParen:
		return p.parseParenExpr()
	case token.LBracket:
		return p.parseArrayLiteralOrComprehension()
	case token.LBrace:
		return p.parseSetLiteralOrComprehension()
	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
		return ast.NoExprID, false
	}
}
