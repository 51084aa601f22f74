package hir

import "surge/internal/source"

// TypeKind tags the variant stored in a TypeExpr.
type TypeKind uint8

const (
	TypeMissing TypeKind = iota
	TypeAny
	TypePrimitive
	TypeBounded
	TypeSetOf
	TypeArrayOf
	TypeTuple
	TypeRecord
	TypeOperation
	TypeInstVar
)

// Primitive identifies which base type a TypePrimitive names.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimInt
	PrimFloat
	PrimString
)

// Instantiation marks whether a type is fixed at compile time (`par`,
// default) or decided by the solver (`var`).
type Instantiation uint8

const (
	InstPar Instantiation = iota
	InstVar
)

// RecordFieldType is one `name: Type` entry in a record type.
type RecordFieldType struct {
	Name source.StringID
	Type TypeId
}

// TypeExpr is a tagged-variant HIR type node.
type TypeExpr struct {
	Kind TypeKind
	Span source.Span

	// TypePrimitive
	Prim     Primitive
	Inst     Instantiation
	Optional bool

	// TypeBounded: the domain is an expression (e.g. `1..10`, an enum name,
	// or a set literal), not evaluated here — only referenced.
	Domain ExpressionId

	// TypeSetOf, TypeArrayOf
	Elem TypeId
	// TypeArrayOf: dimensions collapsed into a single tuple type when
	// arity > 1, per the normative desugaring table.
	Dim TypeId

	// TypeTuple
	Elems []TypeId

	// TypeRecord
	Fields []RecordFieldType

	// TypeOperation: function/predicate signature type.
	Params []TypeId
	Return TypeId

	// TypeInstVar: an anonymous type-inst variable, e.g. `$T`.
	VarName       source.StringID
	MustBeVar     bool
	MustBeIndex   bool
	MustBeEnum    bool
}
