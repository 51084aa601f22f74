package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds a collection of diagnostics.
type Bag struct {
	items   []*Diagnostic
	maximum uint16
}

// NewBag creates a Bag with a capacity limit.
func NewBag(maximum int) *Bag {
	result, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("bag maximum overflow: %w", err))
	}
	return &Bag{
		items:   make([]*Diagnostic, 0, result),
		maximum: result,
	}
}

// Add appends d, honoring the bag's capacity. Every phase in this module
// (resolve, lower, scope, check, exhaust, hirvalidate) reports through one
// bag per unit of work — model, item, or whole run — sized off
// max_diagnostics (§6's input query), so a caller that keeps reporting past
// the limit degrades to silently dropping diagnostics rather than growing
// without bound. Add's false return is how a Reporter (see reporter.go)
// notices the limit was hit.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the bag's capacity limit.
func (b *Bag) Cap() uint16 {
	return b.maximum
}

// HasErrors reports whether any diagnostic in the bag is at least SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity.AtLeast(SevError) {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic in the bag is at least
// SevWarning (so it is also true once the bag has an error).
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity.AtLeast(SevWarning) {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics currently held.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the bag's diagnostics in insertion order. The returned
// slice aliases the bag's own backing array — callers must not mutate it;
// internal/frontend's appendFiltered, for instance, only ever ranges over
// it to copy matching entries elsewhere.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Merge appends other's diagnostics onto b, growing b's capacity if
// needed to hold all of them. Used where several bags accumulated in
// parallel (internal/check and internal/exhaust's per-item bags, in their
// own test suites) need folding into one before inspection.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	newTotalUint16, err := safecast.Conv[uint16](newTotal)
	if err != nil {
		panic(fmt.Errorf("bag merge overflow: %w", err))
	}
	if newTotalUint16 > b.maximum {
		b.maximum = newTotalUint16
	}
	b.items = append(b.items, other.items...)
}

// diagnosticLess orders two diagnostics by file, then start offset, then
// end offset, then severity descending (errors before warnings before
// info), then code ascending — the total order §8 requires for stable,
// platform-independent diagnostic output.
func diagnosticLess(di, dj *Diagnostic) bool {
	if di.Primary.File != dj.Primary.File {
		return di.Primary.File < dj.Primary.File
	}
	if di.Primary.Start != dj.Primary.Start {
		return di.Primary.Start < dj.Primary.Start
	}
	if di.Primary.End != dj.Primary.End {
		return di.Primary.End < dj.Primary.End
	}
	if di.Severity != dj.Severity {
		return di.Severity > dj.Severity
	}
	return di.Code.String() < dj.Code.String()
}

// Sort orders the bag's diagnostics per diagnosticLess, in place. Callers
// that present a run's aggregated diagnostics to a human or a golden file
// (see golden.go) sort first so the same model always prints the same
// diagnostic order regardless of which phase happened to run first.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return diagnosticLess(b.items[i], b.items[j])
	})
}

// Dedup drops every diagnostic whose (Code, Primary span) pair has already
// been seen, keeping the first occurrence. Two phases reporting the same
// underlying problem at the same span (e.g. a dangling reference flagged
// both during scope collection and again during checking) collapse to one
// entry.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.String(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Filter keeps only the diagnostics for which predicate reports true.
func (b *Bag) Filter(predicate func(*Diagnostic) bool) {
	newitems := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		if predicate(d) {
			newitems = append(newitems, d)
		}
	}
	b.items = newitems
}

// Transform replaces every diagnostic with transformer's result in place;
// transformer must never return nil.
func (b *Bag) Transform(transformer func(*Diagnostic) *Diagnostic) {
	for i := range b.items {
		next := transformer(b.items[i])
		if next == nil {
			panic("diag: transformer returned nil")
		}
		b.items[i] = next
	}
}
