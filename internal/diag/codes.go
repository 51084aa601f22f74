package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown, placeholder for zero value.
	UnknownCode Code = 0

	// Setup / IO: config and file-layer errors raised before a single token
	// is produced.
	SetupInfo               Code = 1000
	StandardLibraryNotFound Code = 1001
	FileUnreadable          Code = 1002
	InvalidConfig           Code = 1003

	// Include resolution.
	IncludeInfo       Code = 1100
	IncludeNotFound   Code = 1101
	IncludeCycle      Code = 1102
	IncludeBadPath    Code = 1103

	// Syntax: lexing and parsing of both surfaces.
	SynInfo               Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynUnterminatedString  Code = 2003
	SynInvalidNumericLit   Code = 2004
	SynExpectExpression    Code = 2005
	SynExpectIdentifier    Code = 2006
	SynInvalidArrayLiteral Code = 2007
	SynInvalidCaseArm      Code = 2008
	SynAnonVarInExprPos    Code = 2009
	SynUnsupportedItem     Code = 2010 // eprime item outside the lowered subset (e.g. heuristic) — info only
	SynUnterminatedComment Code = 2011
	SynTokenTooLong        Code = 2012

	// Lowering: desugaring and HIR construction.
	LowerInfo        Code = 2100
	LowerUnreachable Code = 2101 // HIR construction invariant violated; indicates a compiler defect, not user error

	// Name resolution and scope collection.
	ScopeInfo            Code = 3000
	UndefinedIdentifier  Code = 3001
	DuplicateDeclaration Code = 3002
	AmbiguousReference   Code = 3003
	UnusedLetBinding     Code = 3004 // warning

	// Type checking.
	TypeInfo                     Code = 4000
	TypeMismatch                 Code = 4001
	NoApplicableOverload         Code = 4002
	AmbiguousOverload            Code = 4003
	UnresolvableTypeInstIdent    Code = 4004
	CyclicSignatureDependency    Code = 4005
	MissingSolveGoal             Code = 4006 // warning

	// Pattern exhaustiveness.
	PatternInfo       Code = 5000
	NonExhaustiveCase Code = 5001
	UnreachableArm    Code = 5002 // warning

	// HIR validation: arena/source-map invariants checked after lowering.
	ValidationInfo Code = 6000
	HirInvariant   Code = 6001

	// Query engine diagnostics.
	QueryInfo  Code = 7000
	QueryCycle Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                "Unknown error",
		SetupInfo:                  "Setup information",
		StandardLibraryNotFound:    "Standard library share directory not found",
		FileUnreadable:             "Source file could not be read",
		InvalidConfig:              "Invalid front-end configuration",
		IncludeInfo:                "Include resolution information",
		IncludeNotFound:            "Included file could not be located",
		IncludeCycle:               "Include forms a cycle",
		IncludeBadPath:             "Malformed include path",
		SynInfo:                    "Syntax information",
		SynUnexpectedToken:         "Unexpected token",
		SynUnclosedDelimiter:       "Unclosed delimiter",
		SynUnterminatedString:      "Unterminated string literal",
		SynInvalidNumericLit:       "Invalid numeric literal",
		SynExpectExpression:        "Expected expression",
		SynExpectIdentifier:        "Expected identifier",
		SynInvalidArrayLiteral:     "Invalid array literal",
		SynInvalidCaseArm:          "Invalid case arm",
		SynAnonVarInExprPos:        "Anonymous variable not allowed in expression position",
		SynUnsupportedItem:         "Item is outside the lowered subset and was skipped",
		SynUnterminatedComment:     "Unterminated block comment",
		SynTokenTooLong:            "Token exceeds the maximum length",
		LowerInfo:                  "Lowering information",
		LowerUnreachable:           "HIR construction invariant violated",
		ScopeInfo:                  "Scope collection information",
		UndefinedIdentifier:        "Undefined identifier",
		DuplicateDeclaration:       "Duplicate top-level declaration",
		AmbiguousReference:         "Ambiguous reference",
		UnusedLetBinding:           "Unused let binding",
		TypeInfo:                   "Type checking information",
		TypeMismatch:               "Type mismatch",
		NoApplicableOverload:       "No applicable overload",
		AmbiguousOverload:          "Ambiguous overload resolution",
		UnresolvableTypeInstIdent:  "Unresolvable type-inst identifier",
		CyclicSignatureDependency:  "Cyclic signature dependency",
		MissingSolveGoal:           "Model has no solve goal; defaulting to satisfy",
		PatternInfo:                "Pattern matching information",
		NonExhaustiveCase:          "Case expression is not exhaustive",
		UnreachableArm:             "Case arm is unreachable",
		ValidationInfo:             "HIR validation information",
		HirInvariant:               "HIR structural invariant violated",
		QueryInfo:                  "Query engine information",
		QueryCycle:                 "Dependency cycle between queries",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 1100:
		return fmt.Sprintf("SET%04d", ic)
	case ic >= 1100 && ic < 2000:
		return fmt.Sprintf("INC%04d", ic)
	case ic >= 2000 && ic < 2100:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2100 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PAT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("HIR%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("QRY%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
