package eprimeast

import (
	"surge/internal/diag"
	"surge/internal/token"
)

const (
	precIff            = 1 // <->
	precImplies        = 2 // ->
	precOr             = 3 // \/
	precAnd            = 4 // /\
	precEquality       = 5 // = !=
	precComparison     = 6 // < <= > >=
	precAdditive       = 7 // + -
	precMultiplicative = 8 // * / mod
)

func binaryPrec(k token.Kind) (prec int, rightAssoc bool) {
	switch k {
	case token.Iff:
		return precIff, true
	case token.Implies:
		return precImplies, true
	case token.OrOr:
		return precOr, false
	case token.AndAnd:
		return precAnd, false
	case token.Eq, token.Neq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Mod:
		return precMultiplicative, false
	default:
		return -1, false
	}
}

func isUnaryPrefix(k token.Kind) bool {
	switch k {
	case token.Not, token.Minus:
		return true
	default:
		return false
	}
}

// parseExpr is the entry point for expression parsing.
func (p *Parser) parseExpr() (ExprID, bool) {
	return p.parseBinaryExpr(0)
}

func (p *Parser) parseBinaryExpr(minPrec int) (ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return NoExprID, false
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
			return NoExprID, false
		}

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.NewExpr(Expr{
			Kind:  EInfix,
			Span:  leftSpan.Cover(rightSpan),
			Op:    p.arenas.Intern(opTok.Text),
			Left:  left,
			Right: right,
		})
	}

	return left, true
}

func (p *Parser) parseUnaryExpr() (ExprID, bool) {
	if isUnaryPrefix(p.peek().Kind) {
		opTok := p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return NoExprID, false
		}
		operandSpan := p.arenas.Exprs.Get(operand).Span
		return p.arenas.NewExpr(Expr{
			Kind: EPrefix, Span: opTok.Span.Cover(operandSpan),
			Op: p.arenas.Intern(opTok.Text), Right: operand,
		}), true
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() (ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return NoExprID, false
	}
	for p.at(token.LBracket) {
		p.advance()
		var indices []ExprID
		for {
			idx, ok := p.parseExpr()
			if !ok {
				return NoExprID, false
			}
			indices = append(indices, idx)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close indexed access")
		if !ok {
			return NoExprID, false
		}
		baseSpan := p.arenas.Exprs.Get(expr).Span
		expr = p.arenas.NewExpr(Expr{
			Kind: EIndexedAccess, Span: baseSpan.Cover(close.Span), Base: expr, Indices: indices,
		})
	}
	return expr, true
}

func (p *Parser) parsePrimaryExpr() (ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.BoolLit:
		p.advance()
		return p.arenas.NewExpr(Expr{Kind: EBoolLit, Span: tok.Span, BoolValue: tok.Text == "true"}), true
	case token.IntLit:
		p.advance()
		return p.arenas.NewExpr(Expr{Kind: EIntLit, Span: tok.Span, NumText: tok.Text}), true
	case token.Ident:
		p.advance()
		return p.arenas.NewExpr(Expr{Kind: EIdent, Span: tok.Span, Name: p.arenas.Intern(tok.Text)}), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parenthesized expression"); !ok {
			return NoExprID, false
		}
		return inner, true
	case token.LBracket:
		return p.parseMatrixLiteral()
	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
		return NoExprID, false
	}
}

func (p *Parser) parseMatrixLiteral() (ExprID, bool) {
	open := p.advance() // '['
	if p.at(token.RBracket) {
		close := p.advance()
		return p.arenas.NewExpr(Expr{Kind: EMatrixLit, Span: open.Span.Cover(close.Span)}), true
	}
	var elems []ExprID
	for {
		e, ok := p.parseExpr()
		if !ok {
			return NoExprID, false
		}
		elems = append(elems, e)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close matrix literal")
	if !ok {
		return NoExprID, false
	}
	return p.arenas.NewExpr(Expr{Kind: EMatrixLit, Span: open.Span.Cover(close.Span), Elems: elems}), true
}
