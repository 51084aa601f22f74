package ast

import "surge/internal/source"

// ItemKind tags the variant stored in an Item node.
type ItemKind uint8

const (
	IMissing ItemKind = iota
	IAnnotation
	IAssignment
	IEnumAssignment
	IConstraint
	IDeclaration
	IEnumeration
	IFunction // covers function/predicate/test — distinguished by FuncForm
	IOutput
	ISolve
	ITypeAlias
	IInclude
)

// FuncForm distinguishes the three keywords that introduce a function-like
// item; all three share the same parse shape.
type FuncForm uint8

const (
	FuncFunction FuncForm = iota
	FuncPredicate
	FuncTest
)

// SolveGoalKind is the kind of solve directive an ISolve item carries.
type SolveGoalKind uint8

const (
	SolveSatisfy SolveGoalKind = iota
	SolveMinimize
	SolveMaximize
)

// EnumCaseKind distinguishes a zero-arity atom from a parameterised
// constructor inside an enumeration's case list.
type EnumCaseKind uint8

const (
	EnumCaseAtom EnumCaseKind = iota
	EnumCaseConstructor
	EnumCaseAnonymous // '_(args)', recognised only while re-parsing an enum assignment
)

// EnumCase is one case of an IEnumeration or IEnumAssignment item.
type EnumCase struct {
	Kind   EnumCaseKind
	Name   source.StringID
	Params []TypeID // argument domains for a constructor case
	Span   source.Span
}

// Param is one declared parameter of a function/predicate/test item.
type Param struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

// Item is a tagged-variant raw top-level item node.
type Item struct {
	Kind ItemKind
	Span source.Span

	// IAnnotation, IFunction, IDeclaration, IEnumeration, IEnumAssignment,
	// ITypeAlias, IAssignment
	Name source.StringID

	// IAnnotation, IFunction
	Params []Param

	// IFunction
	Form       FuncForm
	ReturnType TypeID
	Body       ExprID // NoExprID for a forward/extern-like declaration with no '=' body

	// IAssignment
	Pattern PatternID
	Value   ExprID

	// IEnumeration, IEnumAssignment
	Cases []EnumCase

	// IConstraint, IOutput
	Expr ExprID
	// IOutput: named output section, NoStringID when unnamed.
	Section source.StringID

	// IDeclaration
	DeclType TypeID
	HasInit  bool
	Init     ExprID

	// ISolve
	Goal      SolveGoalKind
	Objective ExprID

	// ITypeAlias
	Aliased TypeID

	// IInclude
	Path string

	// Annotations attached directly to this item (the '::' forms that
	// follow the item rather than a sub-expression).
	Annotations []ExprID
}

// Items manages allocation of Item nodes.
type Items struct {
	Arena *Arena[Item]
}

// NewItems creates a new Items arena with the given capacity hint.
func NewItems(capHint uint) *Items {
	return &Items{Arena: NewArena[Item](capHint)}
}

// New allocates it and returns its id.
func (it *Items) New(item Item) ItemID {
	return ItemID(it.Arena.Allocate(item))
}

// Get returns the item at id, or nil if id is invalid.
func (it *Items) Get(id ItemID) *Item { return it.Arena.Get(uint32(id)) }
