package hir

import "surge/internal/source"

// ItemKind is one of the ten HIR item kinds the two surface syntaxes
// collapse into.
type ItemKind uint8

const (
	ItemAnnotation ItemKind = iota
	ItemAssignment
	ItemEnumAssignment
	ItemConstraint
	ItemDeclaration
	ItemEnumeration
	ItemFunction
	ItemOutput
	ItemSolve
	ItemTypeAlias
)

func (k ItemKind) String() string {
	switch k {
	case ItemAnnotation:
		return "annotation"
	case ItemAssignment:
		return "assignment"
	case ItemEnumAssignment:
		return "enum_assignment"
	case ItemConstraint:
		return "constraint"
	case ItemDeclaration:
		return "declaration"
	case ItemEnumeration:
		return "enumeration"
	case ItemFunction:
		return "function"
	case ItemOutput:
		return "output"
	case ItemSolve:
		return "solve"
	case ItemTypeAlias:
		return "type_alias"
	default:
		return "unknown"
	}
}

// SolveGoal is the kind of solve directive an ItemSolve carries.
type SolveGoal uint8

const (
	SolveSatisfy SolveGoal = iota
	SolveMinimize
	SolveMaximize
)

// EnumeratorKind distinguishes a zero-arity atom from a parameterised
// constructor inside an enumeration's case list.
type EnumeratorKind uint8

const (
	EnumeratorAtom EnumeratorKind = iota
	EnumeratorConstructor
	EnumeratorAnonymous // `_(...)`  — anonymous case, recognised only during enum-assignment re-parsing
)

// Enumerator is one case of an Enumeration or EnumAssignment item.
type Enumerator struct {
	Kind   EnumeratorKind
	Name   source.StringID
	Params []TypeId // argument domains, inferred from the argument expressions for EnumAssignment
}

// TypeInstParam records one type-inst identifier collected while lowering a
// function signature, together with the constraints its usage implied.
type TypeInstParam struct {
	Name        source.StringID
	MustBeVar   bool
	MustBeIndex bool
	MustBeEnum  bool
}

// Item is a tagged-variant HIR item: only the fields relevant to Kind are
// populated.
type Item struct {
	Kind ItemKind
	Span source.Span

	// ItemAnnotation, ItemFunction, ItemDeclaration, ItemEnumeration,
	// ItemEnumAssignment, ItemTypeAlias, ItemAssignment: the item's name.
	Name source.StringID

	// ItemAnnotation: parameter patterns when the annotation takes
	// arguments (an atom annotation has none).
	Params     []PatternId
	ParamTypes []TypeId

	// ItemFunction
	TypeParams []TypeInstParam
	ReturnType TypeId
	Body       ExpressionId // NoExpressionId for an extern/forward declaration

	// ItemAssignment: the declared pattern and its value.
	Pattern PatternId
	Value   ExpressionId

	// ItemEnumeration, ItemEnumAssignment
	Cases []Enumerator

	// ItemConstraint, ItemOutput: single body expression.
	Expr ExpressionId
	// ItemOutput: named output section, NoStringID when unnamed.
	Section source.StringID

	// ItemDeclaration: declared type and optional initializer.
	DeclType TypeId

	// ItemSolve
	Goal      SolveGoal
	Objective ExpressionId // NoExpressionId for `solve satisfy`

	// ItemTypeAlias
	Aliased TypeId

	// Annotations attached to this item itself (as opposed to an
	// expression within it), by identifier.
	Annotations []source.StringID
}

// HasSignature reports whether this item kind carries signature
// information consulted by other items (everything except Constraint,
// Output, Solve, and Assignment).
func (it *Item) HasSignature() bool {
	switch it.Kind {
	case ItemConstraint, ItemOutput, ItemSolve, ItemAssignment:
		return false
	default:
		return true
	}
}

// HasBody reports whether this item carries body expressions to type-check
// (everything except an Enumeration with no right-hand side).
func (it *Item) HasBody() bool {
	if it.Kind == ItemEnumeration {
		return len(it.Cases) > 0
	}
	return true
}

// ItemData is the per-item storage: three arenas holding every expression,
// type expression, and pattern the item's lowering allocated, plus a side
// table mapping an expression to the annotations attached to it.
type ItemData struct {
	Exprs       *Arena[Expr]
	Types       *Arena[TypeExpr]
	Patterns    *Arena[Pattern]
	Annotations map[ExpressionId][]ExpressionId
}

// NewItemData returns an empty ItemData with all three arenas initialised
// (sentinel slot reserved in each).
func NewItemData() *ItemData {
	return &ItemData{
		Exprs:       NewArena[Expr](8),
		Types:       NewArena[TypeExpr](4),
		Patterns:    NewArena[Pattern](4),
		Annotations: make(map[ExpressionId][]ExpressionId),
	}
}

// AllocExpr appends e to the item's expression arena.
func (d *ItemData) AllocExpr(e Expr) ExpressionId {
	return ExpressionId(d.Exprs.Allocate(e))
}

// AllocType appends t to the item's type arena.
func (d *ItemData) AllocType(t TypeExpr) TypeId {
	return TypeId(d.Types.Allocate(t))
}

// AllocPattern appends p to the item's pattern arena.
func (d *ItemData) AllocPattern(p Pattern) PatternId {
	return PatternId(d.Patterns.Allocate(p))
}

// Expr returns the expression at id, or nil if id is invalid.
func (d *ItemData) Expr(id ExpressionId) *Expr { return d.Exprs.Get(uint32(id)) }

// Type returns the type expression at id, or nil if id is invalid.
func (d *ItemData) Type(id TypeId) *TypeExpr { return d.Types.Get(uint32(id)) }

// Pattern returns the pattern at id, or nil if id is invalid.
func (d *ItemData) Pattern(id PatternId) *Pattern { return d.Patterns.Get(uint32(id)) }

// AddAnnotation records that annotation (an expression, usually a call or
// identifier) applies to target.
func (d *ItemData) AddAnnotation(target, annotation ExpressionId) {
	d.Annotations[target] = append(d.Annotations[target], annotation)
}
