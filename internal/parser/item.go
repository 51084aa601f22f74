package parser

import (
	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/source"
	"surge/internal/token"
)

// parseItem dispatches on the current token to one of the top-level item
// productions. A bare identifier is ambiguous between a declaration
// ('Type : name'), a plain assignment ('name = expr'), and a destructuring
// assignment ('(pat) = expr'); startsTypeExpr plus one token of peek
// settles it without backtracking.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.peek().Kind {
	case token.KwInclude:
		return p.parseIncludeItem()
	case token.KwConstraint:
		return p.parseConstraintItem()
	case token.KwSolve:
		return p.parseSolveItem()
	case token.KwOutput, token.StringLit:
		return p.parseOutputItem()
	case token.KwAnnotation:
		return p.parseAnnotationItem()
	case token.KwEnum:
		return p.parseEnumerationItem()
	case token.KwType:
		return p.parseTypeAliasItem()
	case token.KwFunction, token.KwPredicate, token.KwTest:
		return p.parseFunctionItem()
	case token.LParen:
		return p.parseAssignmentItem()
	case token.Ident:
		if p.peek2().Kind == token.Eq {
			return p.parseAssignmentItem()
		}
		return p.parseDeclarationItem()
	default:
		tok := p.peek()
		if startsTypeExpr(tok.Kind) {
			return p.parseDeclarationItem()
		}
		p.err(diag.SynUnexpectedToken, "expected top-level item, got \""+tok.Text+"\"")
		return ast.NoItemID, false
	}
}

func (p *Parser) parseIncludeItem() (ast.ItemID, bool) {
	kw := p.advance() // 'include'
	pathTok, ok := p.expect(token.StringLit, diag.SynExpectExpression, "expected a string path after 'include'")
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after include path")
	if !ok {
		return ast.NoItemID, false
	}
	// The token text keeps its surrounding quotes; Path holds only the path.
	path := pathTok.Text[1 : len(pathTok.Text)-1]
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IInclude, Span: kw.Span.Cover(semi.Span), Path: path,
	}), true
}

func (p *Parser) parseConstraintItem() (ast.ItemID, bool) {
	kw := p.advance() // 'constraint'
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoItemID, false
	}
	anns, ok := p.parseOptionalAnnotations()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after constraint")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IConstraint, Span: kw.Span.Cover(semi.Span), Expr: expr, Annotations: anns,
	}), true
}

func (p *Parser) parseSolveItem() (ast.ItemID, bool) {
	kw := p.advance() // 'solve'
	var goal ast.SolveGoalKind
	objective := ast.NoExprID

	switch p.peek().Kind {
	case token.KwSatisfy:
		p.advance()
		goal = ast.SolveSatisfy
	case token.KwMinimize:
		p.advance()
		goal = ast.SolveMinimize
		obj, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		objective = obj
	case token.KwMaximize:
		p.advance()
		goal = ast.SolveMaximize
		obj, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		objective = obj
	default:
		p.err(diag.SynUnexpectedToken, "expected 'satisfy', 'minimize', or 'maximize' after 'solve'")
		return ast.NoItemID, false
	}

	anns, ok := p.parseOptionalAnnotations()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after solve item")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.ISolve, Span: kw.Span.Cover(semi.Span), Goal: goal, Objective: objective, Annotations: anns,
	}), true
}

// parseOutputItem parses 'output expr;' or the named form
// '"section": output expr;'.
func (p *Parser) parseOutputItem() (ast.ItemID, bool) {
	start := p.peek().Span
	section := source.NoStringID
	if p.at(token.StringLit) && p.peek2().Kind == token.Colon {
		tok := p.advance()
		section = p.arenas.Intern(tok.Text)
		p.advance() // ':'
	}
	if _, ok := p.expect(token.KwOutput, diag.SynUnexpectedToken, "expected 'output'"); !ok {
		return ast.NoItemID, false
	}
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after output item")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IOutput, Span: start.Cover(semi.Span), Expr: expr, Section: section,
	}), true
}

func (p *Parser) parseAnnotationItem() (ast.ItemID, bool) {
	kw := p.advance() // 'annotation'
	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	var params []ast.Param
	if p.at(token.LParen) {
		p.advance()
		if !p.at(token.RParen) {
			for {
				prm, ok := p.parseParam()
				if !ok {
					return ast.NoItemID, false
				}
				params = append(params, prm)
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close annotation parameters"); !ok {
			return ast.NoItemID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after annotation declaration")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IAnnotation, Span: kw.Span.Cover(semi.Span), Name: nameID, Params: params,
	}), true
}

// parseEnumerationItem parses a forward declaration ('enum Name;'), which
// registers Name in forwardEnums for later recognition as an assignment
// target, or a full definition ('enum Name = {cases};').
func (p *Parser) parseEnumerationItem() (ast.ItemID, bool) {
	kw := p.advance() // 'enum'
	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}

	if p.at(token.Semicolon) {
		semi := p.advance()
		if p.forwardEnums == nil {
			p.forwardEnums = make(map[source.StringID]bool)
		}
		p.forwardEnums[nameID] = true
		return p.arenas.NewItem(ast.Item{
			Kind: ast.IEnumeration, Span: kw.Span.Cover(semi.Span), Name: nameID,
		}), true
	}

	if _, ok := p.expect(token.Eq, diag.SynUnexpectedToken, "expected '=' or ';' after enum name"); !ok {
		return ast.NoItemID, false
	}
	cases, ok := p.parseEnumCaseList()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after enum definition")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IEnumeration, Span: kw.Span.Cover(semi.Span), Name: nameID, Cases: cases,
	}), true
}

func (p *Parser) parseEnumCaseList() ([]ast.EnumCase, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open enum case list"); !ok {
		return nil, false
	}
	var cases []ast.EnumCase
	if !p.at(token.RBrace) {
		for {
			c, ok := p.parseEnumCase()
			if !ok {
				return nil, false
			}
			cases = append(cases, c)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close enum case list"); !ok {
		return nil, false
	}
	return cases, true
}

func (p *Parser) parseEnumCase() (ast.EnumCase, bool) {
	tok := p.peek()
	if tok.Kind == token.Underscore {
		p.advance()
		params, ok, span := p.parseEnumCaseParams(tok.Span)
		if !ok {
			return ast.EnumCase{}, false
		}
		return ast.EnumCase{Kind: ast.EnumCaseAnonymous, Span: span, Params: params}, true
	}
	nameID, ok := p.parseIdent()
	if !ok {
		return ast.EnumCase{}, false
	}
	if !p.at(token.LParen) {
		return ast.EnumCase{Kind: ast.EnumCaseAtom, Name: nameID, Span: tok.Span}, true
	}
	params, ok, span := p.parseEnumCaseParams(tok.Span)
	if !ok {
		return ast.EnumCase{}, false
	}
	return ast.EnumCase{Kind: ast.EnumCaseConstructor, Name: nameID, Params: params, Span: span}, true
}

func (p *Parser) parseEnumCaseParams(start source.Span) ([]ast.TypeID, bool, source.Span) {
	p.advance() // '('
	var params []ast.TypeID
	if !p.at(token.RParen) {
		for {
			t, ok := p.parseTypeExpr()
			if !ok {
				return nil, false, start
			}
			params = append(params, t)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close enum case parameters")
	if !ok {
		return nil, false, start
	}
	return params, true, start.Cover(close.Span)
}

func (p *Parser) parseTypeAliasItem() (ast.ItemID, bool) {
	kw := p.advance() // 'type'
	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Eq, diag.SynUnexpectedToken, "expected '=' after type alias name"); !ok {
		return ast.NoItemID, false
	}
	aliased, ok := p.parseTypeExpr()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after type alias")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.ITypeAlias, Span: kw.Span.Cover(semi.Span), Name: nameID, Aliased: aliased,
	}), true
}

func (p *Parser) parseParam() (ast.Param, bool) {
	start := p.peek().Span
	ty, ok := p.parseTypeExpr()
	if !ok {
		return ast.Param{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' between parameter type and name"); !ok {
		return ast.Param{}, false
	}
	nameID, ok := p.parseIdent()
	if !ok {
		return ast.Param{}, false
	}
	return ast.Param{Name: nameID, Type: ty, Span: start.Cover(p.lastSpan)}, true
}

// parseFunctionItem parses the unified function/predicate/test production;
// only 'function' carries an explicit return type ('predicate'/'test'
// always return bool).
func (p *Parser) parseFunctionItem() (ast.ItemID, bool) {
	kwTok := p.advance() // 'function' | 'predicate' | 'test'
	var form ast.FuncForm
	switch kwTok.Kind {
	case token.KwFunction:
		form = ast.FuncFunction
	case token.KwPredicate:
		form = ast.FuncPredicate
	case token.KwTest:
		form = ast.FuncTest
	}

	returnType := ast.NoTypeID
	if form == ast.FuncFunction {
		rt, ok := p.parseTypeExpr()
		if !ok {
			return ast.NoItemID, false
		}
		returnType = rt
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after function return type"); !ok {
			return ast.NoItemID, false
		}
	}

	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}

	var params []ast.Param
	if p.at(token.LParen) {
		p.advance()
		if !p.at(token.RParen) {
			for {
				prm, ok := p.parseParam()
				if !ok {
					return ast.NoItemID, false
				}
				params = append(params, prm)
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list"); !ok {
			return ast.NoItemID, false
		}
	}

	body := ast.NoExprID
	if p.at(token.Eq) {
		p.advance()
		b, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		body = b
	}

	anns, ok := p.parseOptionalAnnotations()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after function item")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IFunction, Span: kwTok.Span.Cover(semi.Span), Name: nameID, Params: params,
		Form: form, ReturnType: returnType, Body: body, Annotations: anns,
	}), true
}

// parseDeclarationItem parses 'TypeExpr : name (:: annotation)? (= expr)? ;'.
func (p *Parser) parseDeclarationItem() (ast.ItemID, bool) {
	start := p.peek().Span
	ty, ok := p.parseTypeExpr()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' between declared type and name"); !ok {
		return ast.NoItemID, false
	}
	nameID, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}

	anns, ok := p.parseOptionalAnnotations()
	if !ok {
		return ast.NoItemID, false
	}

	hasInit := false
	init := ast.NoExprID
	if p.at(token.Eq) {
		p.advance()
		v, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		hasInit = true
		init = v
	}

	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after declaration")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IDeclaration, Span: start.Cover(semi.Span), Name: nameID, DeclType: ty,
		HasInit: hasInit, Init: init, Annotations: anns,
	}), true
}

// parseAssignmentItem parses 'pattern = expr;'. When the left-hand side is
// a bare identifier previously registered by a forward 'enum Name;', the
// item is reclassified as IEnumAssignment and its right-hand side is
// re-parsed as an enum case list instead of a general expression.
func (p *Parser) parseAssignmentItem() (ast.ItemID, bool) {
	start := p.peek().Span

	if p.at(token.Ident) && p.peek2().Kind == token.Eq {
		tok := p.peek()
		nameID := p.arenas.Intern(tok.Text)
		if p.forwardEnums[nameID] {
			p.advance() // name
			p.advance() // '='
			cases, ok := p.parseEnumCaseList()
			if !ok {
				return ast.NoItemID, false
			}
			semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after enum assignment")
			if !ok {
				return ast.NoItemID, false
			}
			return p.arenas.NewItem(ast.Item{
				Kind: ast.IEnumAssignment, Span: start.Cover(semi.Span), Name: nameID, Cases: cases,
			}), true
		}
	}

	pat, ok := p.parsePattern()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Eq, diag.SynUnexpectedToken, "expected '=' in assignment"); !ok {
		return ast.NoItemID, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' after assignment")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewItem(ast.Item{
		Kind: ast.IAssignment, Span: start.Cover(semi.Span), Pattern: pat, Value: value,
	}), true
}

// parseOptionalAnnotations parses zero or more trailing '::' annotations
// attached directly to an item (as opposed to a sub-expression).
func (p *Parser) parseOptionalAnnotations() ([]ast.ExprID, bool) {
	var anns []ast.ExprID
	for p.at(token.ColonColon) {
		p.advance()
		ann, ok := p.parseBinaryExpr(precAdditive)
		if !ok {
			return nil, false
		}
		anns = append(anns, ann)
	}
	return anns, true
}
