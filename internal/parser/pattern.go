package parser

import (
	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/token"
)

// parsePattern parses a pattern: used by case arms, comprehension
// generators, and destructuring assignment left-hand sides.
func (p *Parser) parsePattern() (ast.PatternID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Underscore:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PAnon, Span: tok.Span}), true
	case token.NothingLit:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PAbsent, Span: tok.Span}), true
	case token.BoolLit:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PBoolLit, Span: tok.Span, BoolValue: tok.Text == "true"}), true
	case token.StringLit:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PStringLit, Span: tok.Span, StrText: tok.Text}), true
	case token.IntLit:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PIntLit, Span: tok.Span, NumText: tok.Text}), true
	case token.FloatLit:
		p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PFloatLit, Span: tok.Span, NumText: tok.Text}), true
	case token.Minus:
		return p.parseNegatedNumberPattern(tok)
	case token.LParen:
		return p.parseTupleOrRecordPattern()
	case token.Ident:
		return p.parseIdentOrCallPattern()
	default:
		p.err(diag.SynExpectExpression, "expected pattern, got \""+tok.Text+"\"")
		return ast.NoPatternID, false
	}
}

func (p *Parser) parseNegatedNumberPattern(minusTok token.Token) (ast.PatternID, bool) {
	p.advance() // '-'
	numTok := p.peek()
	if numTok.Kind != token.IntLit && numTok.Kind != token.FloatLit {
		p.err(diag.SynExpectExpression, "expected numeric literal after '-' in pattern")
		return ast.NoPatternID, false
	}
	p.advance()
	kind := ast.PIntLit
	if numTok.Kind == token.FloatLit {
		kind = ast.PFloatLit
	}
	return p.arenas.NewPattern(ast.Pattern{
		Kind: kind, Span: minusTok.Span.Cover(numTok.Span), NumText: numTok.Text, Negated: true,
	}), true
}

func (p *Parser) parseIdentOrCallPattern() (ast.PatternID, bool) {
	tok := p.advance()
	name := p.arenas.Intern(tok.Text)
	if !p.at(token.LParen) {
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PIdent, Span: tok.Span, Name: name}), true
	}
	p.advance() // '('
	var args []ast.PatternID
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parsePattern()
			if !ok {
				return ast.NoPatternID, false
			}
			args = append(args, arg)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close constructor pattern")
	if !ok {
		return ast.NoPatternID, false
	}
	return p.arenas.NewPattern(ast.Pattern{Kind: ast.PCall, Span: tok.Span.Cover(close.Span), Name: name, Args: args}), true
}

func (p *Parser) parseTupleOrRecordPattern() (ast.PatternID, bool) {
	open := p.advance() // '('
	if p.at(token.RParen) {
		close := p.advance()
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PTuple, Span: open.Span.Cover(close.Span)}), true
	}

	if p.at(token.Ident) && p.peek2().Kind == token.Colon {
		var fields []ast.RecordPatternField
		for {
			nameID, ok := p.parseIdent()
			if !ok {
				return ast.NoPatternID, false
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in record pattern"); !ok {
				return ast.NoPatternID, false
			}
			pat, ok := p.parsePattern()
			if !ok {
				return ast.NoPatternID, false
			}
			fields = append(fields, ast.RecordPatternField{Name: nameID, Pattern: pat})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close record pattern")
		if !ok {
			return ast.NoPatternID, false
		}
		return p.arenas.NewPattern(ast.Pattern{Kind: ast.PRecord, Span: open.Span.Cover(close.Span), Fields: fields}), true
	}

	var elems []ast.PatternID
	for {
		pat, ok := p.parsePattern()
		if !ok {
			return ast.NoPatternID, false
		}
		elems = append(elems, pat)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple pattern")
	if !ok {
		return ast.NoPatternID, false
	}
	return p.arenas.NewPattern(ast.Pattern{Kind: ast.PTuple, Span: open.Span.Cover(close.Span), Elems: elems}), true
}
