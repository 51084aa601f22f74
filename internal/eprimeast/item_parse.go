package eprimeast

import (
	"surge/internal/diag"
	"surge/internal/token"
)

// parseItem parses one top-level clause and pushes the item(s) it produces
// onto the current file directly, rather than returning a single id: 'such
// that' is a comma-separated list of expressions that the reference lowers
// as one IConstraint item PER expression (collect_constraint loops over
// c.expressions()), so a single grammatical clause here can yield several
// items. Reports false only when no item could be recovered at all.
func (p *Parser) parseItem() bool {
	switch p.peek().Kind {
	case token.KwGiven:
		return p.parseGivenItem()
	case token.KwFind:
		return p.parseFindItem()
	case token.KwLetting:
		return p.parseLettingItem()
	case token.KwSuch:
		return p.parseSuchThatItem()
	case token.KwMinimising, token.KwMaximising:
		return p.parseObjectiveItem()
	case token.KwBranching:
		return p.parseBranchingItem()
	case token.KwOutput:
		return p.parseOutputItem()
	case token.Ident:
		if p.peek().Text == "heuristic" {
			return p.parseHeuristicItem()
		}
		p.err(diag.SynUnexpectedToken, "expected top-level item, got \""+p.peek().Text+"\"")
		return false
	default:
		tok := p.peek()
		p.err(diag.SynUnexpectedToken, "expected top-level item, got \""+tok.Text+"\"")
		return false
	}
}

// parseGivenItem parses 'given Name : Domain'.
func (p *Parser) parseGivenItem() bool {
	start := p.advance() // 'given'
	name, ok := p.parseIdent()
	if !ok {
		return false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after given name"); !ok {
		return false
	}
	dom, ok := p.parseDomain()
	if !ok {
		return false
	}
	domSpan := p.arenas.Domains.Get(dom).Span
	item := p.arenas.NewItem(Item{Kind: IGiven, Span: start.Span.Cover(domSpan), Name: name, Domain: dom})
	p.arenas.PushItem(p.file, item)
	return true
}

// parseFindItem parses 'find Name : Domain'.
func (p *Parser) parseFindItem() bool {
	start := p.advance() // 'find'
	name, ok := p.parseIdent()
	if !ok {
		return false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after find name"); !ok {
		return false
	}
	dom, ok := p.parseDomain()
	if !ok {
		return false
	}
	domSpan := p.arenas.Domains.Get(dom).Span
	item := p.arenas.NewItem(Item{Kind: IFind, Span: start.Span.Cover(domSpan), Name: name, Domain: dom})
	p.arenas.PushItem(p.file, item)
	return true
}

// parseLettingItem parses 'letting Name be domain Domain' (a domain alias)
// or 'letting Name be Expr' (a const-definition), disambiguated by
// peeking past 'be' for an identifier spelled "domain".
func (p *Parser) parseLettingItem() bool {
	start := p.advance() // 'letting'
	name, ok := p.parseIdent()
	if !ok {
		return false
	}
	if _, ok := p.expect(token.KwBe, diag.SynUnexpectedToken, "expected \"be\" after letting name"); !ok {
		return false
	}

	if p.atIdentText("domain") {
		p.advance()
		dom, ok := p.parseDomain()
		if !ok {
			return false
		}
		domSpan := p.arenas.Domains.Get(dom).Span
		item := p.arenas.NewItem(Item{
			Kind: ILettingDomain, Span: start.Span.Cover(domSpan), Name: name, Domain: dom,
		})
		p.arenas.PushItem(p.file, item)
		return true
	}

	value, ok := p.parseExpr()
	if !ok {
		return false
	}
	valueSpan := p.arenas.Exprs.Get(value).Span
	item := p.arenas.NewItem(Item{
		Kind: ILettingConst, Span: start.Span.Cover(valueSpan), Name: name, Value: value,
	})
	p.arenas.PushItem(p.file, item)
	return true
}

// parseSuchThatItem parses 'such that Expr (, Expr)*', pushing one
// IConstraint item per comma-separated expression.
func (p *Parser) parseSuchThatItem() bool {
	start := p.advance() // 'such'
	if _, ok := p.expect(token.KwThat, diag.SynUnexpectedToken, "expected \"that\" after \"such\""); !ok {
		return false
	}

	for {
		expr, ok := p.parseExpr()
		if !ok {
			return false
		}
		exprSpan := p.arenas.Exprs.Get(expr).Span
		item := p.arenas.NewItem(Item{Kind: IConstraint, Span: start.Span.Cover(exprSpan), Expr: expr})
		p.arenas.PushItem(p.file, item)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return true
}

// parseObjectiveItem parses 'minimising Expr' / 'maximising Expr'.
func (p *Parser) parseObjectiveItem() bool {
	start := p.advance()
	strategy := Minimising
	if start.Kind == token.KwMaximising {
		strategy = Maximising
	}
	objective, ok := p.parseExpr()
	if !ok {
		return false
	}
	objSpan := p.arenas.Exprs.Get(objective).Span
	item := p.arenas.NewItem(Item{
		Kind: IObjective, Span: start.Span.Cover(objSpan), Strategy: strategy, Objective: objective,
	})
	p.arenas.PushItem(p.file, item)
	return true
}

// parseBranchingItem parses 'branching on [Expr, ...]'. Lowering merges
// this into the model's solve-item annotation rather than producing a
// distinct HIR node of its own.
func (p *Parser) parseBranchingItem() bool {
	start := p.advance() // 'branching'
	if _, ok := p.expect(token.KwOn, diag.SynUnexpectedToken, "expected \"on\" after \"branching\""); !ok {
		return false
	}
	if _, ok := p.expect(token.LBracket, diag.SynUnclosedDelimiter, "expected '[' after \"branching on\""); !ok {
		return false
	}

	var branchOn []ExprID
	if !p.at(token.RBracket) {
		for {
			e, ok := p.parseExpr()
			if !ok {
				return false
			}
			branchOn = append(branchOn, e)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	close, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close branching list")
	if !ok {
		return false
	}
	item := p.arenas.NewItem(Item{Kind: IBranching, Span: start.Span.Cover(close.Span), BranchOn: branchOn})
	p.arenas.PushItem(p.file, item)
	return true
}

// parseOutputItem parses 'output Expr' — the alternate surface has no named
// section form (that's a primary-surface-only feature), just a single
// expression to print.
func (p *Parser) parseOutputItem() bool {
	start := p.advance() // 'output'
	expr, ok := p.parseExpr()
	if !ok {
		return false
	}
	exprSpan := p.arenas.Exprs.Get(expr).Span
	item := p.arenas.NewItem(Item{Kind: IOutput, Span: start.Span.Cover(exprSpan), Expr: expr})
	p.arenas.PushItem(p.file, item)
	return true
}

// parseHeuristicItem parses 'heuristic Name' and keeps it only so
// resyncTop never has to fire on it; internal/lower drops IHeuristic
// items with no diagnostic, matching the reference's own
// Heuristic(_) => return (currently not supported).
func (p *Parser) parseHeuristicItem() bool {
	start := p.advance() // 'heuristic'
	end := start
	if p.at(token.Ident) {
		end = p.advance()
	}
	item := p.arenas.NewItem(Item{Kind: IHeuristic, Span: start.Span.Cover(end.Span)})
	p.arenas.PushItem(p.file, item)
	return true
}
