// Package query implements a small demand-driven, memoized query engine:
// derived values are computed lazily, cached, and invalidated precisely when
// one of the inputs they actually read from changes — not wholesale on every
// edit. This is the storage layer the frontend package's named queries
// (ast, cst, lower_items, collect_global_scope, ...) are built on; the shape
// mirrors the salsa query-group pattern (see the db.rs query group this
// module's callers are a transliteration of), reimplemented from scratch in
// Go since nothing in the example pack embeds a Rust incremental-computation
// crate.
//
// Concurrency model matches the teacher: a single coarse-grained mutex
// guards all engine state. The workload here is CPU-bound tree-walking, not
// IO-bound, so fine-grained per-cell locking buys little and would
// complicate the dependency graph for no benefit.
package query

import (
	"fmt"
	"sync"
)

// Revision is a monotonically increasing counter bumped every time an input
// changes. Cells remember the revision they were last verified at.
type Revision uint64

// cellKey identifies one memoized computation: a query name plus its
// argument, type-erased. Concrete key types are typically small structs
// (e.g. a FileID or a ModelRef), which are comparable and therefore usable
// as map keys once boxed into an any.
type cellKey struct {
	query string
	arg   any
}

type cell struct {
	value      any
	err        error
	valid      bool
	verifiedAt Revision
	changedAt  Revision
	reads      []cellKey // not populated; dependencies are kept as reverse edges in Engine.dependOn
}

// Engine is the query database: a single mutex-guarded map of cells, plus
// the current global revision.
type Engine struct {
	mu       sync.Mutex
	cells    map[cellKey]*cell
	rev      Revision
	dependOn map[cellKey][]cellKey // reverse edges: cell -> cells that read it
	stack    []cellKey             // active computation stack, for cycle detection and dependency recording
}

// NewEngine constructs an empty query engine at revision 0.
func NewEngine() *Engine {
	return &Engine{
		cells:    make(map[cellKey]*cell),
		dependOn: make(map[cellKey][]cellKey),
	}
}

// CycleError is returned when a query transitively depends on itself.
type CycleError struct {
	Query string
	Arg   any
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("query cycle detected at %s(%v)", e.Query, e.Arg)
}

// SetInput assigns the value of an input cell (a base fact with no
// dependencies, such as a file's raw contents or a config flag) and bumps
// the engine's revision, invalidating every cell that transitively read it.
func SetInput[V any](e *Engine, query string, arg any, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rev++
	key := cellKey{query: query, arg: arg}
	c, ok := e.cells[key]
	if !ok {
		c = &cell{}
		e.cells[key] = c
	}
	c.value = value
	c.err = nil
	c.valid = true
	c.changedAt = e.rev
	c.verifiedAt = e.rev
	e.invalidateDependents(key)
}

// invalidateDependents marks every cell that (transitively) read key as
// stale. Must be called with e.mu held.
func (e *Engine) invalidateDependents(key cellKey) {
	for _, dep := range e.dependOn[key] {
		c, ok := e.cells[dep]
		if !ok || !c.valid {
			continue
		}
		c.valid = false
		e.invalidateDependents(dep)
	}
}

// Compute func for a derived query: given the engine (to recurse into other
// queries) and the argument, produce a value or an error.
type Compute[V any] func(e *Engine, arg any) (V, error)

// Derived evaluates a memoized query: if the cell for (query, arg) is
// already valid, its cached value is returned without recomputation;
// otherwise fn runs, and its result is cached against the cells it read
// (recorded via the engine's active-computation stack).
func Derived[V any](e *Engine, query string, arg any, fn Compute[V]) (V, error) {
	key := cellKey{query: query, arg: arg}

	e.mu.Lock()
	if c, ok := e.cells[key]; ok && c.valid {
		v, _ := c.value.(V)
		err := c.err
		e.recordRead(key)
		e.mu.Unlock()
		return v, err
	}
	for _, active := range e.stack {
		if active == key {
			e.mu.Unlock()
			var zero V
			return zero, &CycleError{Query: query, Arg: arg}
		}
	}
	c, ok := e.cells[key]
	if !ok {
		c = &cell{}
		e.cells[key] = c
	}
	e.stack = append(e.stack, key)
	e.mu.Unlock()

	value, err := fn(e, arg)

	e.mu.Lock()
	e.stack = e.stack[:len(e.stack)-1]
	c.value = value
	c.err = err
	c.valid = true
	c.verifiedAt = e.rev
	if c.changedAt == 0 {
		c.changedAt = e.rev
	}
	e.recordRead(key)
	e.mu.Unlock()

	return value, err
}

// recordRead links the currently-executing query (the top of the stack, if
// any, before key's own frame was popped) as a dependent of key. Must be
// called with e.mu held.
func (e *Engine) recordRead(key cellKey) {
	if len(e.stack) == 0 {
		return
	}
	reader := e.stack[len(e.stack)-1]
	if reader == key {
		return
	}
	edges := e.dependOn[key]
	for _, d := range edges {
		if d == reader {
			return
		}
	}
	e.dependOn[key] = append(edges, reader)
}

// Revision returns the engine's current global revision, bumped once per
// SetInput call. Exposed for tests that assert on invalidation counts.
func (e *Engine) Revision() Revision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rev
}
