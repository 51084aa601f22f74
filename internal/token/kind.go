package token

// Kind represents the category of a source token. The set is shared by both
// surface grammars (the full expression language and the restricted
// alternate syntax); each surface's parser accepts only the subset it needs.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwIn represents the 'in' keyword (let-in, and generator "in").
	KwIn // in
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwThen represents the 'then' keyword.
	KwThen // then
	// KwElseif represents the 'elseif' keyword.
	KwElseif // elseif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwEndif represents the 'endif' keyword.
	KwEndif // endif
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwOf represents the 'of' keyword (case-of, array-of).
	KwOf // of
	// KwEndcase represents the 'endcase' keyword.
	KwEndcase // endcase
	// KwWhere represents the 'where' keyword (comprehension filters).
	KwWhere // where
	// KwFunction represents the 'function' keyword.
	KwFunction // function
	// KwPredicate represents the 'predicate' keyword.
	KwPredicate // predicate
	// KwTest represents the 'test' keyword (boolean-returning predicate alias).
	KwTest // test
	// KwAnnotation represents the 'annotation' keyword.
	KwAnnotation // annotation
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwType represents the 'type' keyword (type alias declarations).
	KwType // type
	// KwVar represents the 'var' keyword (decision var-ness).
	KwVar // var
	// KwPar represents the 'par' keyword (explicit parameter-ness).
	KwPar // par
	// KwOpt represents the 'opt' keyword (optional type modifier).
	KwOpt // opt
	// KwArray represents the 'array' keyword.
	KwArray // array
	// KwSet represents the 'set' keyword.
	KwSet // set
	// KwTuple represents the 'tuple' keyword.
	KwTuple // tuple
	// KwRecord represents the 'record' keyword.
	KwRecord // record
	// KwAny represents the 'any' keyword (polymorphic type-inst marker).
	KwAny // any
	// KwConstraint represents the 'constraint' keyword.
	KwConstraint // constraint
	// KwSolve represents the 'solve' keyword.
	KwSolve // solve
	// KwSatisfy represents the 'satisfy' keyword.
	KwSatisfy // satisfy
	// KwMinimize represents the 'minimize' keyword.
	KwMinimize // minimize
	// KwMaximize represents the 'maximize' keyword.
	KwMaximize // maximize
	// KwOutput represents the 'output' keyword.
	KwOutput // output
	// KwInclude represents the 'include' keyword.
	KwInclude // include

	// KwGiven represents the alternate surface's 'given' keyword (parameter
	// declaration).
	KwGiven // given
	// KwFind represents the alternate surface's 'find' keyword (decision
	// declaration).
	KwFind // find
	// KwLetting represents the alternate surface's 'letting' keyword
	// (const-definition and domain-alias).
	KwLetting // letting
	// KwBe represents the alternate surface's 'be' keyword ('letting X be ...').
	KwBe // be
	// KwSuch represents the first half of the alternate surface's 'such that'.
	KwSuch // such
	// KwThat represents the second half of the alternate surface's 'such that'.
	KwThat // that
	// KwMinimising represents the alternate surface's 'minimising' objective keyword.
	KwMinimising // minimising
	// KwMaximising represents the alternate surface's 'maximising' objective keyword.
	KwMaximising // maximising
	// KwBranching represents the alternate surface's 'branching' keyword.
	KwBranching // branching
	// KwOn represents the alternate surface's 'on' keyword ('branching on').
	KwOn // on

	// NothingLit represents the absent-value literal token (`<>`).
	NothingLit
	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// BoolLit represents the boolean literal token.
	BoolLit
	// StringLit represents the string literal token.
	StringLit
	// FStringLit represents a string literal with \( ... ) interpolation holes.
	FStringLit
	// InfinityLit represents the unbounded-domain literal token.
	InfinityLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token (float division).
	Slash // /
	// Div represents the integer-division keyword-operator token.
	Div // div
	// Mod represents the modulo keyword-operator token.
	Mod // mod
	// Eq represents the assignment/equality-declaration operator token.
	Eq // =
	// EqEq represents the equality comparison operator token.
	EqEq // ==
	// Neq represents the inequality comparison operator token.
	Neq // !=
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// Not represents the boolean negation operator token.
	Not // not
	// AndAnd represents the boolean conjunction operator token.
	AndAnd // /\
	// OrOr represents the boolean disjunction operator token.
	OrOr // \/
	// Xor represents the boolean exclusive-or operator token.
	Xor // xor
	// Implies represents the implication operator token.
	Implies // ->
	// ImpliedBy represents the reverse-implication operator token.
	ImpliedBy // <-
	// Iff represents the biconditional operator token.
	Iff // <->
	// PlusPlus represents the array/string concatenation operator token.
	PlusPlus // ++
	// In represents the set-membership operator token.
	In // in
	// Subset represents the subset-test operator token.
	Subset // subset
	// Superset represents the superset-test operator token.
	Superset // superset
	// Union represents the set-union operator token.
	Union // union
	// Intersect represents the set-intersection operator token.
	Intersect // intersect
	// Diff represents the set-difference operator token.
	Diff // diff
	// SymDiff represents the symmetric-set-difference operator token.
	SymDiff // symdiff
	// DotDot represents the range-literal operator token.
	DotDot // ..

	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// Comma represents the comma token.
	Comma // ,
	// Colon represents the colon token (generator/array-index separator).
	Colon // :
	// ColonColon represents the annotation-attachment operator token.
	ColonColon // ::
	// Semicolon represents the item-terminator token.
	Semicolon // ;
	// Pipe represents the comprehension generator-separator / set-builder bar token.
	Pipe // |
	// Underscore represents the wildcard-pattern token.
	Underscore // _
	// Backslash represents the string-interpolation lead-in token (`\(`).
	Backslash
	// Dot represents the tuple/record field-access operator token.
	Dot // .
)

// IsLiteral reports whether k is a numeric, boolean, or string literal kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case NothingLit, IntLit, FloatLit, BoolLit, StringLit, FStringLit, InfinityLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether k is a reserved word in either surface grammar.
func (k Kind) IsKeyword() bool {
	switch k {
	case KwLet, KwIn, KwIf, KwThen, KwElseif, KwElse, KwEndif, KwCase, KwOf, KwEndcase,
		KwWhere, KwFunction, KwPredicate, KwTest, KwAnnotation, KwEnum, KwType, KwVar, KwPar,
		KwOpt, KwArray, KwSet, KwTuple, KwRecord, KwAny, KwConstraint, KwSolve, KwSatisfy,
		KwMinimize, KwMaximize, KwOutput, KwInclude, KwGiven, KwFind, KwLetting, KwBe, KwSuch,
		KwThat, KwMinimising, KwMaximising, KwBranching, KwOn, Div, Mod, Not, Xor, In, Subset, Superset,
		Union, Intersect, Diff, SymDiff:
		return true
	default:
		return false
	}
}
