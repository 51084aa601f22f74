package eprimeast

import "surge/internal/source"

// Hints provides capacity hints for the builder's arenas.
type Hints struct{ Files, Items, Exprs, Domains uint }

// Builder owns every per-file arena the eprime parser allocates into, plus
// the shared string interner new identifiers are interned through — the
// same interner instance the primary surface's ast.Builder uses, so a
// model mixing both surfaces (via 'include') shares one StringID space.
type Builder struct {
	Files           *Files
	Items           *Items
	Exprs           *Exprs
	Domains         *Domains
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
		hints.Items = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 7
	}
	if hints.Domains == 0 {
		hints.Domains = 1 << 5
	}
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Exprs:           NewExprs(hints.Exprs),
		Domains:         NewDomains(hints.Domains),
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

// NewDomain allocates a new domain expression.
func (b *Builder) NewDomain(d Domain) DomainID { return b.Domains.New(d) }

// Intern interns s through the shared string interner.
func (b *Builder) Intern(s string) source.StringID { return b.StringsInterner.Intern(s) }
