// Package interner provides a generic composite-key interner: it assigns
// stable, densely-packed integer handles to arbitrary comparable keys, the
// same way internal/source.Interner does for plain strings, but for the
// structural keys the HIR layer needs (ItemRef = model x ItemLocal,
// EntityRef = item x entity kind x index, and the like).
package interner

import (
	"fmt"

	"fortio.org/safecast"
)

// Handle is the integer handle produced for an interned key. Handle 0 is
// reserved; callers that need a typed sentinel should define
// `type XRef interner.Handle` and a `NoXRef XRef = 0` constant in their own
// package, mirroring the source.NoStringID convention.
type Handle uint32

// Table interns values of key type K, handing back a stable Handle for each
// distinct key. It never recycles handles, matching the teacher's
// append-only typeKey/index discipline: once issued, a Handle designates
// the same key for the engine's entire lifetime.
type Table[K comparable] struct {
	byHandle []K
	index    map[K]Handle
}

// New constructs an empty Table with handle 0 reserved for the zero value
// of K (matching the arena sentinel-at-index-0 convention used throughout
// this module).
func New[K comparable]() *Table[K] {
	var zero K
	return &Table[K]{
		byHandle: []K{zero},
		index:    map[K]Handle{zero: 0},
	}
}

// Intern returns the stable Handle for key, allocating a new one if this is
// the first time key has been seen.
func (t *Table[K]) Intern(key K) Handle {
	if id, ok := t.index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(t.byHandle))
	if err != nil {
		panic(fmt.Errorf("interner: table overflow: %w", err))
	}
	id := Handle(n)
	t.byHandle = append(t.byHandle, key)
	t.index[key] = id
	return id
}

// Lookup returns the key for a previously interned Handle.
func (t *Table[K]) Lookup(h Handle) (K, bool) {
	if int(h) < 0 || int(h) >= len(t.byHandle) {
		var zero K
		return zero, false
	}
	return t.byHandle[h], true
}

// MustLookup panics if h was never issued by this Table.
func (t *Table[K]) MustLookup(h Handle) K {
	k, ok := t.Lookup(h)
	if !ok {
		panic("interner: invalid handle")
	}
	return k
}

// Len returns the number of distinct keys interned, including the reserved
// zero-value sentinel.
func (t *Table[K]) Len() int {
	return len(t.byHandle)
}
