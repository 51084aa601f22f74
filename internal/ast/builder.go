package ast

import (
	"surge/internal/source"
)

// Hints provides capacity hints for the builder's arenas.
type Hints struct{ Files, Items, Exprs, Types, Patterns uint }

// Builder owns every per-file arena the parser allocates into, plus the
// shared string interner new identifiers/text are interned through.
type Builder struct {
	Files           *Files
	Items           *Items
	Exprs           *Exprs
	Types           *TypeExprs
	Patterns        *Patterns
	StringsInterner *source.Interner
}

// NewBuilder creates a Builder configured with capacity hints and a shared
// string interner. Zero hint fields fall back to sensible defaults; a nil
// interner allocates a fresh one.
func NewBuilder(hints Hints, stringsInterner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 6
	}
	if hints.Patterns == 0 {
		hints.Patterns = 1 << 6
	}
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Exprs:           NewExprs(hints.Exprs),
		Types:           NewTypeExprs(hints.Types),
		Patterns:        NewPatterns(hints.Patterns),
		StringsInterner: stringsInterner,
	}
}

// NewFile creates a new file id.
func (b *Builder) NewFile(sp source.Span) FileID { return b.Files.New(sp) }

// PushItem appends item to file's item list.
func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// NewItem allocates a new item.
func (b *Builder) NewItem(it Item) ItemID { return b.Items.New(it) }

// NewExpr allocates a new expression.
func (b *Builder) NewExpr(e Expr) ExprID { return b.Exprs.New(e) }

// NewType allocates a new type expression.
func (b *Builder) NewType(t TypeExpr) TypeID { return b.Types.New(t) }

// NewPattern allocates a new pattern.
func (b *Builder) NewPattern(p Pattern) PatternID { return b.Patterns.New(p) }

// Intern interns s through the shared string interner.
func (b *Builder) Intern(s string) source.StringID { return b.StringsInterner.Intern(s) }
