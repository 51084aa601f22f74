package eprimeast

import (
	"surge/internal/ast"
	"surge/internal/source"
)

// ExprKind tags the variant stored in an Expr node. Named directly after
// the reference grammar's (partially unimplemented) Expression enum:
// boolean_literal, identifier, integer_literal are the only variants it
// lowers today; infix/prefix operators, matrix literals, and indexed
// access are named there too (commented out, pending) and are implemented
// here in full since nothing in the distilled spec's Non-goals excludes
// them.
type ExprKind uint8

const (
	EMissing ExprKind = iota
	EBoolLit
	EIntLit
	EIdent
	EMatrixLit
	EIndexedAccess
	EInfix
	EPrefix
)

// Expr is a tagged-variant raw expression node for the alternate surface.
type Expr struct {
	Kind ExprKind
	Span source.Span

	// EBoolLit
	BoolValue bool
	// EIntLit: literal text preserved verbatim.
	NumText string
	// EIdent
	Name source.StringID

	// EMatrixLit
	Elems []ExprID

	// EIndexedAccess
	Base    ExprID
	Indices []ExprID

	// EInfix, EPrefix
	Op    source.StringID
	Left  ExprID
	Right ExprID
}

// Exprs manages allocation of Expr nodes.
type Exprs struct {
	Arena *ast.Arena[Expr]
}

// NewExprs creates a new Exprs arena with the given capacity hint.
func NewExprs(capHint uint) *Exprs {
	return &Exprs{Arena: ast.NewArena[Expr](capHint)}
}

// New allocates e and returns its id.
func (e *Exprs) New(expr Expr) ExprID { return ExprID(e.Arena.Allocate(expr)) }

// Get returns the expression at id, or nil if id is invalid.
func (e *Exprs) Get(id ExprID) *Expr { return e.Arena.Get(uint32(id)) }
