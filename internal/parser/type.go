package parser

import (
	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/token"
)

// startsTypeExpr reports whether k can begin a type expression, including
// the bare-domain forms (a set literal, a numeric range, or an identifier
// naming an enum or type alias).
func startsTypeExpr(k token.Kind) bool {
	switch k {
	case token.KwVar, token.KwPar, token.KwOpt, token.KwAny, token.KwSet,
		token.KwArray, token.KwTuple, token.KwRecord,
		token.Ident, token.LBrace, token.IntLit, token.Minus:
		return true
	default:
		return false
	}
}

// parseTypeExpr parses an optional 'var'/'par' and 'opt' modifier followed
// by a base type.
func (p *Parser) parseTypeExpr() (ast.TypeID, bool) {
	start := p.peek().Span

	isVar := false
	varExplicit := false
	if p.atOr(token.KwVar, token.KwPar) {
		tok := p.advance()
		isVar = tok.Kind == token.KwVar
		varExplicit = true
	}
	isOpt := false
	if p.at(token.KwOpt) {
		p.advance()
		isOpt = true
	}

	te, ok := p.parseBaseType()
	if !ok {
		return ast.NoTypeID, false
	}
	node := p.arenas.Types.Get(te)
	node.IsVar = isVar
	node.VarIsExplicit = varExplicit
	node.IsOpt = isOpt
	node.Span = start.Cover(node.Span)
	return te, true
}

func (p *Parser) parseBaseType() (ast.TypeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwAny:
		p.advance()
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TAny, Span: tok.Span}), true
	case token.KwSet:
		p.advance()
		if _, ok := p.expect(token.KwOf, diag.SynUnexpectedToken, "expected 'of' after 'set'"); !ok {
			return ast.NoTypeID, false
		}
		elem, ok := p.parseBaseType()
		if !ok {
			return ast.NoTypeID, false
		}
		elemSpan := p.arenas.Types.Get(elem).Span
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TSetOf, Span: tok.Span.Cover(elemSpan), Elem: elem}), true
	case token.KwArray:
		return p.parseArrayType(tok)
	case token.KwTuple:
		return p.parseTupleType(tok)
	case token.KwRecord:
		return p.parseRecordType(tok)
	case token.Ident:
		return p.parseIdentOrBoundedType()
	case token.LBrace, token.IntLit, token.Minus:
		domain, ok := p.parseExpr()
		if !ok {
			return ast.NoTypeID, false
		}
		domSpan := p.arenas.Exprs.Get(domain).Span
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TBounded, Span: domSpan, Domain: domain}), true
	default:
		p.err(diag.SynUnexpectedToken, "expected type, got \""+tok.Text+"\"")
		return ast.NoTypeID, false
	}
}

// parseIdentOrBoundedType handles the primitive base type names (which are
// plain identifiers in this grammar, not keywords) and falls back to a
// domain expression — an enum name, a type-alias name, or the start of a
// numeric range anchored on a named constant.
func (p *Parser) parseIdentOrBoundedType() (ast.TypeID, bool) {
	tok := p.peek()
	switch tok.Text {
	case "bool":
		p.advance()
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TPrimitiveBool, Span: tok.Span}), true
	case "int":
		p.advance()
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TPrimitiveInt, Span: tok.Span}), true
	case "float":
		p.advance()
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TPrimitiveFloat, Span: tok.Span}), true
	case "string":
		p.advance()
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TPrimitiveString, Span: tok.Span}), true
	default:
		domain, ok := p.parseExpr()
		if !ok {
			return ast.NoTypeID, false
		}
		domSpan := p.arenas.Exprs.Get(domain).Span
		return p.arenas.NewType(ast.TypeExpr{Kind: ast.TBounded, Span: domSpan, Domain: domain}), true
	}
}

func (p *Parser) parseArrayType(kw token.Token) (ast.TypeID, bool) {
	p.advance() // 'array'
	if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' after 'array'"); !ok {
		return ast.NoTypeID, false
	}
	var indices []ast.TypeID
	for {
		idx, ok := p.parseTypeExpr()
		if !ok {
			return ast.NoTypeID, false
		}
		indices = append(indices, idx)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array index list"); !ok {
		return ast.NoTypeID, false
	}
	if _, ok := p.expect(token.KwOf, diag.SynUnexpectedToken, "expected 'of' after array index list"); !ok {
		return ast.NoTypeID, false
	}
	of, ok := p.parseTypeExpr()
	if !ok {
		return ast.NoTypeID, false
	}
	ofSpan := p.arenas.Types.Get(of).Span
	return p.arenas.NewType(ast.TypeExpr{Kind: ast.TArrayOf, Span: kw.Span.Cover(ofSpan), Indices: indices, Of: of}), true
}

func (p *Parser) parseTupleType(kw token.Token) (ast.TypeID, bool) {
	p.advance() // 'tuple'
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'tuple'"); !ok {
		return ast.NoTypeID, false
	}
	var elems []ast.TypeID
	if !p.at(token.RParen) {
		for {
			e, ok := p.parseTypeExpr()
			if !ok {
				return ast.NoTypeID, false
			}
			elems = append(elems, e)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple type")
	if !ok {
		return ast.NoTypeID, false
	}
	return p.arenas.NewType(ast.TypeExpr{Kind: ast.TTuple, Span: kw.Span.Cover(close.Span), Elems: elems}), true
}

func (p *Parser) parseRecordType(kw token.Token) (ast.TypeID, bool) {
	p.advance() // 'record'
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'record'"); !ok {
		return ast.NoTypeID, false
	}
	var fields []ast.RecordFieldType
	if !p.at(token.RParen) {
		for {
			nameID, ok := p.parseIdent()
			if !ok {
				return ast.NoTypeID, false
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in record type field"); !ok {
				return ast.NoTypeID, false
			}
			fieldType, ok := p.parseTypeExpr()
			if !ok {
				return ast.NoTypeID, false
			}
			fields = append(fields, ast.RecordFieldType{Name: nameID, Type: fieldType})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close record type")
	if !ok {
		return ast.NoTypeID, false
	}
	return p.arenas.NewType(ast.TypeExpr{Kind: ast.TRecord, Span: kw.Span.Cover(close.Span), Fields: fields}), true
}
