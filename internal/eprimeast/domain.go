package eprimeast

import (
	"surge/internal/ast"
	"surge/internal/source"
)

// DomainKind tags the variant stored in a Domain node.
type DomainKind uint8

const (
	DMissing DomainKind = iota
	DBool
	DInt       // unbounded 'int' / 'int()'
	DIntRanges // 'int(1..10, 20, 30..40)'
	DRef       // a domain-alias or 'given ... new type' name
	DMatrix    // 'matrix indexed by [d1, d2, ...] of d'
)

// RangeItem is one comma-separated entry of an int(...) domain: either a
// single value (High is NoExprID) or an inclusive range.
type RangeItem struct {
	Low  ExprID
	High ExprID
}

// Domain is a tagged-variant domain-expression node.
type Domain struct {
	Kind DomainKind
	Span source.Span

	// DIntRanges
	Ranges []RangeItem

	// DRef
	Name source.StringID

	// DMatrix
	Dims []DomainID
	Of   DomainID
}

// Domains manages allocation of Domain nodes.
type Domains struct {
	Arena *ast.Arena[Domain]
}

// NewDomains creates a new Domains arena with the given capacity hint.
func NewDomains(capHint uint) *Domains {
	return &Domains{Arena: ast.NewArena[Domain](capHint)}
}

// New allocates d and returns its id.
func (ds *Domains) New(d Domain) DomainID { return DomainID(ds.Arena.Allocate(d)) }

// Get returns the domain at id, or nil if id is invalid.
func (ds *Domains) Get(id DomainID) *Domain { return ds.Arena.Get(uint32(id)) }
