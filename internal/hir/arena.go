package hir

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is an append-only indexed vector: the stable local handle for a
// value IS its index. Index 0 is reserved so the zero value of any Id type
// built on top of Arena naturally means "no such entity" (mirrors
// internal/symbols/arena.go's sentinel-at-0 convention from the teacher).
type Arena[T any] struct {
	data []T
}

// NewArena returns an empty arena with the sentinel slot reserved.
func NewArena[T any](capHint uint32) *Arena[T] {
	a := &Arena[T]{data: make([]T, 1, capHint+1)}
	return a
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	idx, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("hir: arena overflow: %w", err))
	}
	a.data = append(a.data, value)
	return idx
}

// Get returns a pointer to the value at index, or nil for index 0 or an
// out-of-range index.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) >= len(a.data) {
		return nil
	}
	return &a.data[index]
}

// Len returns the number of allocated slots, including the sentinel.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("hir: arena length overflow: %w", err))
	}
	return n
}

// Slice returns a copy of the arena's backing storage, sentinel included.
func (a *Arena[T]) Slice() []T {
	out := make([]T, len(a.data))
	copy(out, a.data)
	return out
}
