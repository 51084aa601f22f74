package eprimeast

import (
	"surge/internal/diag"
	"surge/internal/token"
)

// parseDomain dispatches on the identifier text of primitive domain
// keywords ('bool', 'int', 'matrix'), none of which are reserved keywords
// in the shared token table — mirroring the primary surface's own
// parseIdentOrBoundedType idiom of recognizing primitive type names by
// spelling rather than by dedicated Kind. Anything else is a bare
// identifier naming a domain alias introduced by an earlier 'letting ...
// be domain' item.
func (p *Parser) parseDomain() (DomainID, bool) {
	tok := p.peek()
	if tok.Kind != token.Ident {
		p.err(diag.SynExpectIdentifier, "expected a domain, got \""+tok.Text+"\"")
		return NoDomainID, false
	}

	switch tok.Text {
	case "bool":
		p.advance()
		return p.arenas.NewDomain(Domain{Kind: DBool, Span: tok.Span}), true
	case "int":
		return p.parseIntDomain()
	case "matrix":
		return p.parseMatrixDomain()
	default:
		p.advance()
		return p.arenas.NewDomain(Domain{Kind: DRef, Span: tok.Span, Name: p.arenas.Intern(tok.Text)}), true
	}
}

// parseIntDomain parses 'int' (unbounded) or 'int(a..b, c, d..e)'.
func (p *Parser) parseIntDomain() (DomainID, bool) {
	start := p.advance() // 'int'
	if !p.at(token.LParen) {
		return p.arenas.NewDomain(Domain{Kind: DInt, Span: start.Span}), true
	}
	p.advance() // '('

	var ranges []RangeItem
	for {
		low, ok := p.parseExpr()
		if !ok {
			return NoDomainID, false
		}
		item := RangeItem{Low: low, High: NoExprID}
		if p.at(token.DotDot) {
			p.advance()
			high, ok := p.parseExpr()
			if !ok {
				return NoDomainID, false
			}
			item.High = high
		}
		ranges = append(ranges, item)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	close, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close int domain")
	if !ok {
		return NoDomainID, false
	}
	return p.arenas.NewDomain(Domain{Kind: DIntRanges, Span: start.Span.Cover(close.Span), Ranges: ranges}), true
}

// parseMatrixDomain parses 'matrix indexed by [d1, d2, ...] of d'.
func (p *Parser) parseMatrixDomain() (DomainID, bool) {
	start := p.advance() // 'matrix'
	if !p.atIdentText("indexed") {
		p.err(diag.SynUnexpectedToken, "expected \"indexed\" after \"matrix\"")
		return NoDomainID, false
	}
	p.advance()
	if !p.atIdentText("by") {
		p.err(diag.SynUnexpectedToken, "expected \"by\" after \"indexed\"")
		return NoDomainID, false
	}
	p.advance()

	if _, ok := p.expect(token.LBracket, diag.SynUnclosedDelimiter, "expected '[' after \"indexed by\""); !ok {
		return NoDomainID, false
	}
	var dims []DomainID
	for {
		d, ok := p.parseDomain()
		if !ok {
			return NoDomainID, false
		}
		dims = append(dims, d)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close index domain list"); !ok {
		return NoDomainID, false
	}

	if !p.atIdentText("of") {
		p.err(diag.SynUnexpectedToken, "expected \"of\" after index domain list")
		return NoDomainID, false
	}
	p.advance()

	of, ok := p.parseDomain()
	if !ok {
		return NoDomainID, false
	}
	ofSpan := p.arenas.Domains.Get(of).Span
	return p.arenas.NewDomain(Domain{
		Kind: DMatrix, Span: start.Span.Cover(ofSpan), Dims: dims, Of: of,
	}), true
}

// atIdentText reports whether the current token is an identifier with
// exactly this text, for the primitive-domain-keyword spellings that are
// deliberately not reserved in the shared token table.
func (p *Parser) atIdentText(text string) bool {
	tok := p.peek()
	return tok.Kind == token.Ident && tok.Text == text
}
