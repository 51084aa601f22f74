package hir

import "surge/internal/source"

// OriginTag disambiguates an Origin when more than one HIR id maps onto the
// same CST node (e.g. a desugared infix call's synthesized callee vs. its
// argument list both trace back to the same `a OP b` node).
type OriginTag uint8

const (
	OriginNode OriginTag = iota
	OriginSynthetic       // no CST backing at all — lowerer-inserted, e.g. the default `solve satisfy`
	OriginDesugaredCallee
	OriginDesugaredArg
)

// Origin is the source map's payload: an opaque triple of (CST node
// handle, disambiguation tag, debug label) tying a HIR id back to source.
// It is the only permitted link from HIR back to source; error reporting
// resolves a span by looking up an Origin and then asking the CST/FileSet
// for its coordinates.
type Origin struct {
	Node  source.NodeHandle
	Tag   OriginTag
	Debug string
}

// NewSyntheticOrigin builds the Origin for an HIR node the lowerer
// synthesized rather than parsed — no CST handle exists, so Node is the
// zero sentinel. Source-map totality (every HIR id has an Origin) still
// holds: it's just explicit about having no source backing.
func NewSyntheticOrigin(debug string) Origin {
	return Origin{Node: source.NoNodeHandle, Tag: OriginSynthetic, Debug: debug}
}

// hirID is the uniform key SourceMap is addressed by: either an item
// itself or a sub-entity within it.
type hirID struct {
	item  ItemRef
	kind  EntityKind
	index uint32
}

// SourceMap maps every HIR id reachable from a model's items to its Origin.
// Populated exclusively by the lowerer; every other phase only reads it.
type SourceMap struct {
	entries map[hirID]Origin
}

// NewSourceMap returns an empty SourceMap.
func NewSourceMap() *SourceMap {
	return &SourceMap{entries: make(map[hirID]Origin)}
}

// InsertItem records the origin of an item itself.
func (sm *SourceMap) InsertItem(item ItemRef, origin Origin) {
	sm.entries[hirID{item: item, kind: EntityNone}] = origin
}

// InsertExpr records the origin of an expression local to item.
func (sm *SourceMap) InsertExpr(item ItemRef, id ExpressionId, origin Origin) {
	sm.entries[hirID{item: item, kind: EntityExpression, index: uint32(id)}] = origin
}

// InsertType records the origin of a type expression local to item.
func (sm *SourceMap) InsertType(item ItemRef, id TypeId, origin Origin) {
	sm.entries[hirID{item: item, kind: EntityType, index: uint32(id)}] = origin
}

// InsertPattern records the origin of a pattern local to item.
func (sm *SourceMap) InsertPattern(item ItemRef, id PatternId, origin Origin) {
	sm.entries[hirID{item: item, kind: EntityPattern, index: uint32(id)}] = origin
}

// Item looks up the origin of an item itself.
func (sm *SourceMap) Item(item ItemRef) (Origin, bool) {
	o, ok := sm.entries[hirID{item: item, kind: EntityNone}]
	return o, ok
}

// Expr looks up the origin of an expression local to item.
func (sm *SourceMap) Expr(item ItemRef, id ExpressionId) (Origin, bool) {
	o, ok := sm.entries[hirID{item: item, kind: EntityExpression, index: uint32(id)}]
	return o, ok
}

// Type looks up the origin of a type expression local to item.
func (sm *SourceMap) Type(item ItemRef, id TypeId) (Origin, bool) {
	o, ok := sm.entries[hirID{item: item, kind: EntityType, index: uint32(id)}]
	return o, ok
}

// Pattern looks up the origin of a pattern local to item.
func (sm *SourceMap) Pattern(item ItemRef, id PatternId) (Origin, bool) {
	o, ok := sm.entries[hirID{item: item, kind: EntityPattern, index: uint32(id)}]
	return o, ok
}

// Len reports how many entries the source map holds, used by tests
// asserting source-map totality against an item/entity count.
func (sm *SourceMap) Len() int { return len(sm.entries) }
