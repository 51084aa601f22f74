// Package hir provides the arena-backed High-level Intermediate
// Representation shared by both surface lowerers. Every entity the
// lowerer produces — item, expression, type expression, pattern — lives in
// an append-only arena and is addressed by a stable integer id for the
// lifetime of the compilation session; ids are never recycled.
package hir

import (
	"sync"

	"surge/internal/interner"
	"surge/internal/source"
)

// ModelRef identifies one lowered model (one source file after include
// resolution). A model's FileID doubles as its ref.
type ModelRef = source.FileID

// ItemLocal indexes an item within a model's item arena.
type ItemLocal uint32

// NoItemLocal is the reserved sentinel (arena index 0).
const NoItemLocal ItemLocal = 0

// ExpressionId, TypeId and PatternId index into the expression/type/pattern
// arenas owned by one item's ItemData. They are only meaningful together
// with the ItemRef that owns them.
type (
	ExpressionId uint32
	TypeId       uint32
	PatternId    uint32
)

const (
	NoExpressionId ExpressionId = 0
	NoTypeId       TypeId       = 0
	NoPatternId    PatternId    = 0
)

func (id ExpressionId) IsValid() bool { return id != NoExpressionId }
func (id TypeId) IsValid() bool       { return id != NoTypeId }
func (id PatternId) IsValid() bool    { return id != NoPatternId }

// ItemKey is the composite key interned to produce an ItemRef: a
// process-wide handle to one item in one model.
type ItemKey struct {
	Model ModelRef
	Local ItemLocal
}

// ItemRef is a process-wide handle to an item, stable for the session.
type ItemRef interner.Handle

// NoItemRef is the reserved sentinel.
const NoItemRef ItemRef = 0

// EntityKind distinguishes which of an item's three arenas an EntityRef
// points into.
type EntityKind uint8

const (
	EntityNone EntityKind = iota
	EntityExpression
	EntityType
	EntityPattern
)

// EntityKey is the composite key interned to produce an EntityRef: a
// process-wide handle to any sub-entity of a specific item.
type EntityKey struct {
	Item  ItemRef
	Kind  EntityKind
	Index uint32
}

// EntityRef is a process-wide handle to any sub-entity of an item.
type EntityRef interner.Handle

// NoEntityRef is the reserved sentinel.
const NoEntityRef EntityRef = 0

// PatternRef is an EntityRef whose Kind is EntityPattern: the canonical
// identity of a declaration, since a declaration IS its pattern.
type PatternRef = EntityRef

// Interners bundles the two process-wide interning tables the HIR layer
// hands out stable ItemRef/EntityRef handles from. Owned by the frontend
// and threaded through lowering, scope collection, and checking.
//
// internal/lower/parallel.go lowers independent files concurrently and
// shares one Interners across all of them, so unlike interner.Table itself
// this wrapper serializes access with a mutex — the same role
// source.Interner's own RWMutex plays for string interning during
// parallel tokenize/parse (internal/driver/parallel.go).
type Interners struct {
	mu       sync.Mutex
	Items    *interner.Table[ItemKey]
	Entities *interner.Table[EntityKey]
}

// NewInterners constructs a fresh, empty Interners pair.
func NewInterners() *Interners {
	return &Interners{
		Items:    interner.New[ItemKey](),
		Entities: interner.New[EntityKey](),
	}
}

// InternItem returns the stable ItemRef for (model, local).
func (in *Interners) InternItem(model ModelRef, local ItemLocal) ItemRef {
	in.mu.Lock()
	defer in.mu.Unlock()
	return ItemRef(in.Items.Intern(ItemKey{Model: model, Local: local}))
}

// InternEntity returns the stable EntityRef for (item, kind, index).
func (in *Interners) InternEntity(item ItemRef, kind EntityKind, index uint32) EntityRef {
	in.mu.Lock()
	defer in.mu.Unlock()
	return EntityRef(in.Entities.Intern(EntityKey{Item: item, Kind: kind, Index: index}))
}

// ExpressionRef returns the process-wide EntityRef for an expression local
// to item.
func (in *Interners) ExpressionRef(item ItemRef, id ExpressionId) EntityRef {
	return in.InternEntity(item, EntityExpression, uint32(id))
}

// TypeRef returns the process-wide EntityRef for a type expression local to
// item.
func (in *Interners) TypeRef(item ItemRef, id TypeId) EntityRef {
	return in.InternEntity(item, EntityType, uint32(id))
}

// PatternRefOf returns the process-wide PatternRef for a pattern local to
// item.
func (in *Interners) PatternRefOf(item ItemRef, id PatternId) PatternRef {
	return in.InternEntity(item, EntityPattern, uint32(id))
}
