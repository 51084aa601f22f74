package ast

import "surge/internal/source"

// PatternKind tags the variant stored in a Pattern node.
type PatternKind uint8

const (
	PMissing PatternKind = iota
	PIdent
	PAnon // '_'
	PAbsent
	PBoolLit
	PStringLit
	PIntLit
	PFloatLit
	PTuple
	PRecord
	PCall // enum constructor pattern: Name(args...)
)

// RecordPatternField is one `name: pattern` entry of a record pattern.
type RecordPatternField struct {
	Name    source.StringID
	Pattern PatternID
}

// Pattern is a tagged-variant raw pattern node.
type Pattern struct {
	Kind PatternKind
	Span source.Span

	// PIdent, PCall
	Name source.StringID

	// PBoolLit
	BoolValue bool
	// PStringLit
	StrText string
	// PIntLit, PFloatLit
	NumText  string
	Negated  bool

	// PTuple
	Elems []PatternID

	// PRecord
	Fields []RecordPatternField

	// PCall
	Args []PatternID
}

// Patterns manages allocation of Pattern nodes.
type Patterns struct {
	Arena *Arena[Pattern]
}

// NewPatterns creates a new Patterns arena with the given capacity hint.
func NewPatterns(capHint uint) *Patterns {
	return &Patterns{Arena: NewArena[Pattern](capHint)}
}

// New allocates p and returns its id.
func (p *Patterns) New(pat Pattern) PatternID {
	return PatternID(p.Arena.Allocate(pat))
}

// Get returns the pattern at id, or nil if id is invalid.
func (p *Patterns) Get(id PatternID) *Pattern { return p.Arena.Get(uint32(id)) }
