package token

// keywords maps reserved words recognised by either surface grammar to
// their Kind. A lexer for a restrictive surface (the alternate syntax)
// still uses this shared table and rejects keywords its grammar doesn't
// accept at the parser level, not the lexer level.
var keywords = map[string]Kind{
	"let":        KwLet,
	"in":         KwIn,
	"if":         KwIf,
	"then":       KwThen,
	"elseif":     KwElseif,
	"else":       KwElse,
	"endif":      KwEndif,
	"case":       KwCase,
	"of":         KwOf,
	"endcase":    KwEndcase,
	"where":      KwWhere,
	"function":   KwFunction,
	"predicate":  KwPredicate,
	"test":       KwTest,
	"annotation": KwAnnotation,
	"enum":       KwEnum,
	"type":       KwType,
	"var":        KwVar,
	"par":        KwPar,
	"opt":        KwOpt,
	"array":      KwArray,
	"set":        KwSet,
	"tuple":      KwTuple,
	"record":     KwRecord,
	"any":        KwAny,
	"constraint": KwConstraint,
	"solve":      KwSolve,
	"satisfy":    KwSatisfy,
	"minimize":   KwMinimize,
	"maximize":   KwMaximize,
	"output":     KwOutput,
	"include":    KwInclude,
	"given":      KwGiven,
	"find":       KwFind,
	"letting":    KwLetting,
	"be":         KwBe,
	"such":       KwSuch,
	"that":       KwThat,
	"minimising": KwMinimising,
	"maximising": KwMaximising,
	"branching":  KwBranching,
	"on":         KwOn,
	"true":       BoolLit,
	"false":      BoolLit,
	"div":        Div,
	"mod":        Mod,
	"not":        Not,
	"xor":        Xor,
	"subset":     Subset,
	"superset":   Superset,
	"union":      Union,
	"intersect":  Intersect,
	"diff":       Diff,
	"symdiff":    SymDiff,
	"infinity":   InfinityLit,
}

// LookupKeyword returns the kind for a reserved word, and whether ident is one.
// Keywords are case-sensitive — only the lowercase spellings are recognised.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
