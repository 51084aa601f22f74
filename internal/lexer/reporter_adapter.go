package lexer

import "surge/internal/diag"

// ReporterAdapter wraps a diag.Bag as the diag.Reporter the lexer expects,
// so callers that only have a bag on hand (most of the parser/frontend
// tests) don't need to construct a BagReporter themselves.
type ReporterAdapter struct {
	Bag *diag.Bag
}

// Reporter returns a diag.Reporter that forwards diagnostics to the adapter's bag.
func (r *ReporterAdapter) Reporter() diag.Reporter {
	return &diag.BagReporter{Bag: r.Bag}
}
