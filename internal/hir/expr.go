package hir

import "surge/internal/source"

// ExprKind tags the variant stored in an Expr. Infix/prefix/postfix
// operators, generator-calls, and string interpolation are desugared at
// lowering time into ExprCall; they have no tag of their own here.
type ExprKind uint8

const (
	ExprMissing ExprKind = iota
	ExprBoolLit
	ExprIntLit
	ExprFloatLit
	ExprStringLit
	ExprAbsentLit
	ExprInfinityLit
	ExprIdentifier
	ExprTupleLit
	ExprRecordLit
	ExprSetLit
	ExprArrayLit
	ExprIndexedArrayLit
	ExprArrayLit2D
	ExprArrayAccess
	ExprArrayComprehension
	ExprSetComprehension
	ExprIfThenElse
	ExprCall
	ExprCase
	ExprLet
	ExprTupleAccess
	ExprRecordAccess
	ExprLambda
	ExprSlice
)

// RecordField is one `name: value` pair in a record literal or access.
type RecordField struct {
	Name  source.StringID
	Value ExpressionId
}

// Generator is one `x in collection where cond` clause of a comprehension.
type Generator struct {
	Patterns  []PatternId
	Collection ExpressionId
	Where      ExpressionId // NoExpressionId if absent
}

// CaseArm is one `pattern -> result` arm of a case expression.
type CaseArm struct {
	Pattern PatternId
	Result  ExpressionId
}

// LetItem is one binding or constraint inside a `let` expression's body.
type LetItem struct {
	Pattern    PatternId    // NoPatternId when this is a `constraint`/`where` item
	Annotation TypeId       // declared type, NoTypeId if inferred
	Value      ExpressionId
}

// Expr is a tagged-variant HIR expression node: exactly the fields for Kind
// are meaningful, the rest are zero. Sum types are modelled as flat structs
// rather than an interface hierarchy so that visitors are plain switches.
type Expr struct {
	Kind ExprKind
	Span source.Span

	// ExprBoolLit
	BoolValue bool
	// ExprIntLit
	IntValue int64
	// ExprFloatLit
	FloatValue float64
	// ExprStringLit
	StringValue source.StringID
	// ExprIdentifier
	Name source.StringID

	// ExprTupleLit, ExprSetLit, ExprArrayLit, ExprIndexedArrayLit
	Elements []ExpressionId
	// ExprIndexedArrayLit: the index expression for each element (same length as Elements)
	Indices []ExpressionId
	// ExprArrayLit2D
	RowIndices []ExpressionId
	ColIndices []ExpressionId
	Rows       [][]ExpressionId

	// ExprRecordLit
	Fields []RecordField

	// ExprArrayAccess: Collection[Index]; Index is a tuple literal when the
	// surface had more than one index (desugaring rule in the lowerer).
	Collection ExpressionId
	Index      ExpressionId

	// ExprArrayComprehension, ExprSetComprehension
	Generators []Generator
	Body       ExpressionId

	// ExprIfThenElse
	Cond ExpressionId
	Then ExpressionId
	Else ExpressionId // NoExpressionId for a dangling `if` with no `else` (Missing is used instead in practice)

	// ExprCall: callee is an identifier already resolved through the
	// interner; Args are positional.
	Callee source.StringID
	Args   []ExpressionId

	// ExprCase
	Scrutinee ExpressionId
	Arms      []CaseArm

	// ExprLet
	LetItems []LetItem
	LetIn    ExpressionId

	// ExprTupleAccess
	TupleBase ExpressionId
	TupleIdx  uint32
	// ExprRecordAccess
	RecordBase ExpressionId
	RecordName source.StringID

	// ExprLambda
	Params []PatternId
	ParamTypes []TypeId
	ReturnType TypeId // NoTypeId if inferred
	LambdaBody ExpressionId
}
