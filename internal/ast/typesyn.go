package ast

import "surge/internal/source"

// TypeKind tags the variant stored in a TypeExpr node.
type TypeKind uint8

const (
	TMissing TypeKind = iota
	TAny
	TPrimitiveBool
	TPrimitiveInt
	TPrimitiveFloat
	TPrimitiveString
	TBounded // a domain given by an expression: '1..10', '{1,3,5}', or an enum/type-alias name
	TSetOf
	TArrayOf
	TTuple
	TRecord
)

// RecordFieldType is one `name: Type` entry of a record type.
type RecordFieldType struct {
	Name source.StringID
	Type TypeID
}

// TypeExpr is a tagged-variant raw type-expression node. `var`/`par` and
// `opt` are modifiers carried on every node (not separate Kinds), matching
// how the grammar lets them prefix any base type.
type TypeExpr struct {
	Kind TypeKind
	Span source.Span

	IsVar      bool // explicit 'var'; false means par unless inferred otherwise downstream
	VarIsExplicit bool // true when 'var'/'par' was written, false when inferred by absence
	IsOpt      bool

	// TBounded: domain expression (range, set literal, or identifier);
	// NoExprID for an unbounded base primitive.
	Domain ExprID

	// TSetOf
	Elem TypeID

	// TArrayOf: one TypeID per index set (collapsed to a tuple dimension
	// type only during lowering, not here), plus the element type.
	Indices []TypeID
	Of      TypeID

	// TTuple
	Elems []TypeID

	// TRecord
	Fields []RecordFieldType
}

// TypeExprs manages allocation of TypeExpr nodes.
type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

// NewTypeExprs creates a new TypeExprs arena with the given capacity hint.
func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

// New allocates t and returns its id.
func (t *TypeExprs) New(te TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(te))
}

// Get returns the type expression at id, or nil if id is invalid.
func (t *TypeExprs) Get(id TypeID) *TypeExpr { return t.Arena.Get(uint32(id)) }
