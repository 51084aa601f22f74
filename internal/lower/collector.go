// Package lower implements the two surface-to-HIR lowering passes: one per
// surface syntax (internal/ast for the primary surface, internal/eprimeast
// for the alternate one), sharing a Collector that owns the ItemData under
// construction for whichever item is currently being lowered. Grounded on
// original_source's ItemCollector/ExpressionCollector split
// (crates/shackle/src/hir/lower/minizinc/item.rs): one collector owns the
// per-item arenas and is handed to whichever surface-specific item lowerer
// needs it next.
package lower

import (
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/source"
)

// Collector owns the state threaded through lowering of a single item's
// expressions, type expressions, and patterns: the ItemData arenas under
// construction, the shared source map and interner tables, and a lazily
// populated per-file Cst that backs every Origin this item's nodes record.
type Collector struct {
	Model     *hir.Model
	Interners *hir.Interners
	SourceMap *hir.SourceMap
	Cst       *source.Cst
	Strings   *source.Interner
	Reporter  diag.Reporter

	ItemRef hir.ItemRef
	Data    *hir.ItemData
}

// NewExpr allocates e (with span set) into the current item's expression
// arena and records its origin as backed by a fresh Cst node at span.
func (c *Collector) NewExpr(span source.Span, e hir.Expr) hir.ExpressionId {
	e.Span = span
	id := c.Data.AllocExpr(e)
	h := c.Cst.Add(source.CstKindUnknown, span)
	c.SourceMap.InsertExpr(c.ItemRef, id, hir.Origin{Node: h, Tag: hir.OriginNode})
	return id
}

// NewSyntheticExpr allocates e with no CST backing at all — the lowerer
// inserted it (e.g. the Missing placeholder for an ill-formed sub-node).
func (c *Collector) NewSyntheticExpr(e hir.Expr, debug string) hir.ExpressionId {
	id := c.Data.AllocExpr(e)
	c.SourceMap.InsertExpr(c.ItemRef, id, hir.NewSyntheticOrigin(debug))
	return id
}

// NewType allocates t into the current item's type arena, origin-tracked.
func (c *Collector) NewType(span source.Span, t hir.TypeExpr) hir.TypeId {
	t.Span = span
	id := c.Data.AllocType(t)
	h := c.Cst.Add(source.CstKindUnknown, span)
	c.SourceMap.InsertType(c.ItemRef, id, hir.Origin{Node: h, Tag: hir.OriginNode})
	return id
}

// NewPattern allocates p into the current item's pattern arena, origin-tracked.
func (c *Collector) NewPattern(span source.Span, p hir.Pattern) hir.PatternId {
	p.Span = span
	id := c.Data.AllocPattern(p)
	h := c.Cst.Add(source.CstKindUnknown, span)
	c.SourceMap.InsertPattern(c.ItemRef, id, hir.Origin{Node: h, Tag: hir.OriginNode})
	return id
}

// NewSyntheticPattern allocates a pattern with no CST backing.
func (c *Collector) NewSyntheticPattern(p hir.Pattern, debug string) hir.PatternId {
	id := c.Data.AllocPattern(p)
	c.SourceMap.InsertPattern(c.ItemRef, id, hir.NewSyntheticOrigin(debug))
	return id
}

// missing reports an error and returns a Missing placeholder expression so
// lowering can continue past an ill-formed sub-node (§4.5 failure semantics:
// lowering never aborts on individual ill-formed sub-expressions).
func (c *Collector) missingExpr(span source.Span, code diag.Code, msg string) hir.ExpressionId {
	diag.ReportError(c.Reporter, code, span, msg).Emit()
	return c.NewExpr(span, hir.Expr{Kind: hir.ExprMissing})
}

func (c *Collector) internOp(s *source.Interner, id source.StringID, suffix string) source.StringID {
	text, _ := s.Lookup(id)
	return s.Intern(text + suffix)
}
