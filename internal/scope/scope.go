// Package scope implements the scope collector: global-scope aggregation
// over every resolved model plus, per item, a local-scope walk that records
// what each identifier and call resolves to. Grounded on
// internal/symbols/resolver.go's Enter/Leave/Declare/Lookup scope-stack
// discipline, adapted from ast-level symbols to hir-level patterns and
// expressions, and on internal/symbols/resolve_walk.go's per-construct
// scope-push convention (one pushed scope per function body, block, case
// arm, and so on).
package scope

import (
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/source"
)

// GlobalSymbolKind classifies what kind of top-level entity a global-scope
// entry names.
type GlobalSymbolKind uint8

const (
	GlobalInvalid GlobalSymbolKind = iota
	GlobalFunction
	GlobalDeclaration
	GlobalEnumeration
	GlobalEnumerator // an enum atom or constructor, introduced at its Cases entry
	GlobalTypeAlias
	GlobalAnnotation
)

// GlobalSymbol is one top-level name visible from any model in the
// resolved set.
type GlobalSymbol struct {
	Kind  GlobalSymbolKind
	Model hir.ModelRef
	Item  hir.ItemLocal
	Name  source.StringID
	Span  source.Span
	// CaseIndex is meaningful only for GlobalEnumerator: the index of the
	// constructor within its owning item's Cases list.
	CaseIndex int
}

// GlobalScope is the union over all resolved models of their top-level
// declarations and functions, per §4.6: functions form overload sets keyed
// by identifier, everything else must be unique.
type GlobalScope struct {
	byName map[source.StringID][]GlobalSymbol
}

// Lookup returns every global entry for name. Exactly one non-function
// entry, or any number of GlobalFunction entries (an overload set), never a
// mix of the two — CollectGlobal enforces that at declaration time.
func (g *GlobalScope) Lookup(name source.StringID) ([]GlobalSymbol, bool) {
	entries, ok := g.byName[name]
	return entries, ok
}

// CollectGlobal walks every model's items in allocation order and builds
// the global scope, reporting a DuplicateDeclaration error for any
// non-function name declared more than once.
func CollectGlobal(models []*hir.Model, strings *source.Interner, reporter diag.Reporter) *GlobalScope {
	g := &GlobalScope{byName: make(map[source.StringID][]GlobalSymbol)}
	for _, m := range models {
		if m == nil {
			continue
		}
		for _, local := range m.Locals() {
			it := m.Item(local)
			if it == nil {
				continue
			}
			collectGlobalItem(g, m, local, it, strings, reporter)
		}
	}
	return g
}

func collectGlobalItem(g *GlobalScope, m *hir.Model, local hir.ItemLocal, it *hir.Item, strings *source.Interner, reporter diag.Reporter) {
	switch it.Kind {
	case hir.ItemFunction:
		g.declare(GlobalSymbol{Kind: GlobalFunction, Model: m.Ref, Item: local, Name: it.Name, Span: it.Span}, strings, reporter)
	case hir.ItemDeclaration, hir.ItemAssignment:
		g.declare(GlobalSymbol{Kind: GlobalDeclaration, Model: m.Ref, Item: local, Name: it.Name, Span: it.Span}, strings, reporter)
	case hir.ItemTypeAlias:
		g.declare(GlobalSymbol{Kind: GlobalTypeAlias, Model: m.Ref, Item: local, Name: it.Name, Span: it.Span}, strings, reporter)
	case hir.ItemAnnotation:
		g.declare(GlobalSymbol{Kind: GlobalAnnotation, Model: m.Ref, Item: local, Name: it.Name, Span: it.Span}, strings, reporter)
	case hir.ItemEnumeration:
		g.declare(GlobalSymbol{Kind: GlobalEnumeration, Model: m.Ref, Item: local, Name: it.Name, Span: it.Span}, strings, reporter)
		declareCases(g, m, local, it, strings, reporter)
	case hir.ItemEnumAssignment:
		// it.Name refers back to an enum already declared by its forward
		// ItemEnumeration; only the constructors introduced here are new.
		declareCases(g, m, local, it, strings, reporter)
	}
}

func declareCases(g *GlobalScope, m *hir.Model, local hir.ItemLocal, it *hir.Item, strings *source.Interner, reporter diag.Reporter) {
	for i, cs := range it.Cases {
		g.declare(GlobalSymbol{
			Kind: GlobalEnumerator, Model: m.Ref, Item: local,
			Name: cs.Name, Span: it.Span, CaseIndex: i,
		}, strings, reporter)
	}
}

func (g *GlobalScope) declare(sym GlobalSymbol, strings *source.Interner, reporter diag.Reporter) {
	if sym.Name == source.NoStringID {
		return
	}
	existing := g.byName[sym.Name]
	if len(existing) > 0 {
		if sym.Kind == GlobalFunction && onlyFunctions(existing) {
			g.byName[sym.Name] = append(existing, sym)
			return
		}
		msg := "duplicate top-level declaration"
		if strings != nil {
			msg = "duplicate top-level declaration of '" + strings.MustLookup(sym.Name) + "'"
		}
		diag.ReportError(reporter, diag.DuplicateDeclaration, sym.Span, msg).
			WithNote(existing[0].Span, "previous declaration here").
			Emit()
		return
	}
	g.byName[sym.Name] = append(g.byName[sym.Name], sym)
}

func onlyFunctions(entries []GlobalSymbol) bool {
	for _, e := range entries {
		if e.Kind != GlobalFunction {
			return false
		}
	}
	return true
}

// ResolutionKind tags what an identifier or call expression resolved to.
type ResolutionKind uint8

const (
	ResUnresolved ResolutionKind = iota
	ResLocal
	ResGlobalUnique
	ResGlobalOverload
)

// Resolution is what one expression resolved to: a local PatternRef, a
// single unique global, or a function overload set. Ambiguity between
// overloads is NOT an error here — per §4.7 that is the type checker's
// job, once argument types are known.
type Resolution struct {
	Kind      ResolutionKind
	Local     hir.PatternRef
	Global    GlobalSymbol
	Overloads []GlobalSymbol
}

// ItemScopeResult is one item's scope-collection output: every identifier
// and call expression's Resolution, plus the diagnostics raised while
// collecting it (undefined identifiers, unused let-bindings).
type ItemScopeResult struct {
	Resolutions map[hir.ExpressionId]Resolution
	// EnumeratorPatterns records, for a case-arm pattern position only, the
	// bare identifier patterns that name a previously declared enum atom
	// rather than introduce a fresh binding — e.g. Red in `case c of Red ->
	// 1, ...`. A PatternIdentifier not present here (including every
	// PatternIdentifier outside case-arm position: function/annotation
	// params, let-bindings, lambda params, comprehension generators) is a
	// fresh binding, full stop.
	EnumeratorPatterns map[hir.PatternId]GlobalSymbol
	Bag                *diag.Bag
}

// binding is one name introduced by a pattern at some scope depth.
type binding struct {
	ref    hir.PatternRef
	span   source.Span
	name   source.StringID
	viaLet bool
	used   bool
}

// localScope is one pushed scope in the stack a single item's walk
// maintains — one per function body, comprehension, let, case arm, and
// lambda, mirroring internal/symbols/resolve_walk.go's push-per-construct
// convention.
type localScope struct {
	parent *localScope
	depth  int
	names  map[source.StringID][]*binding
}

type collector struct {
	global     *GlobalScope
	interners  *hir.Interners
	strings    *source.Interner
	itemRef    hir.ItemRef
	data       *hir.ItemData
	reporter   diag.Reporter
	result     map[hir.ExpressionId]Resolution
	enumerator map[hir.PatternId]GlobalSymbol
	scope      *localScope
}

func (c *collector) enter() *localScope {
	depth := 0
	if c.scope != nil {
		depth = c.scope.depth + 1
	}
	s := &localScope{parent: c.scope, depth: depth, names: make(map[source.StringID][]*binding)}
	c.scope = s
	return s
}

// leave pops s, warning on any let-introduced binding that was never
// referenced (skipping "_", the conventional discard name).
func (c *collector) leave(s *localScope) {
	for _, bs := range s.names {
		for _, b := range bs {
			if !b.viaLet || b.used {
				continue
			}
			if c.strings != nil && c.strings.MustLookup(b.name) == "_" {
				continue
			}
			diag.ReportWarning(c.reporter, diag.UnusedLetBinding, b.span, "unused let-binding").Emit()
		}
	}
	c.scope = s.parent
}

// declarePattern recursively declares every identifier a pattern binds.
// Non-binding patterns (literals, anonymous, absent) declare nothing.
func (c *collector) declarePattern(id hir.PatternId, viaLet bool) {
	c.declarePatternIn(id, viaLet, false)
}

// declareMatchPattern is declarePattern for a case-arm pattern specifically:
// a bare identifier there is ambiguous at the HIR level between "fresh
// binding" and "equality match against a declared enum atom" (lowering
// produces the same PatternIdentifier{Name} shape for both — e.g. Red in
// `case c of Red -> 1, Green -> 2, x -> 3 endcase`). Resolve the ambiguity
// here, once, against global scope: a name that IS a declared enumerator
// is recorded in EnumeratorPatterns and does NOT introduce a binding: an
// enum-atom arm can't also shadow the atom it matches. Anything else falls
// back to declarePattern's ordinary fresh-binding behavior.
func (c *collector) declareMatchPattern(id hir.PatternId) {
	c.declarePatternIn(id, false, true)
}

func (c *collector) declarePatternIn(id hir.PatternId, viaLet bool, matchable bool) {
	if !id.IsValid() {
		return
	}
	pat := c.data.Pattern(id)
	if pat == nil {
		return
	}
	switch pat.Kind {
	case hir.PatternIdentifier:
		if matchable {
			if entries, ok := c.global.Lookup(pat.Name); ok {
				for _, e := range entries {
					if e.Kind == GlobalEnumerator {
						if c.enumerator != nil {
							c.enumerator[id] = e
						}
						return
					}
				}
			}
		}
		c.declareName(pat.Name, pat.Span, viaLet, id)
	case hir.PatternTuple:
		for _, el := range pat.Elements {
			c.declarePatternIn(el, viaLet, matchable)
		}
	case hir.PatternRecord:
		for _, f := range pat.Fields {
			c.declarePatternIn(f.Pattern, viaLet, matchable)
		}
	case hir.PatternCall:
		for _, a := range pat.Args {
			c.declarePatternIn(a, viaLet, matchable)
		}
	}
}

func (c *collector) declareName(name source.StringID, span source.Span, viaLet bool, patID hir.PatternId) {
	if name == source.NoStringID || c.scope == nil {
		return
	}
	ref := c.interners.PatternRefOf(c.itemRef, patID)
	b := &binding{ref: ref, span: span, name: name, viaLet: viaLet}
	c.scope.names[name] = append(c.scope.names[name], b)
}

func (c *collector) lookupLocal(name source.StringID) (*binding, bool) {
	for s := c.scope; s != nil; s = s.parent {
		if bs := s.names[name]; len(bs) > 0 {
			return bs[len(bs)-1], true
		}
	}
	return nil, false
}

func (c *collector) resolveIdentifier(id hir.ExpressionId, name source.StringID, span source.Span) {
	if b, ok := c.lookupLocal(name); ok {
		b.used = true
		c.result[id] = Resolution{Kind: ResLocal, Local: b.ref}
		return
	}
	if entries, ok := c.global.Lookup(name); ok {
		if len(entries) == 1 && entries[0].Kind != GlobalFunction {
			c.result[id] = Resolution{Kind: ResGlobalUnique, Global: entries[0]}
			return
		}
		c.result[id] = Resolution{Kind: ResGlobalOverload, Overloads: entries}
		return
	}
	c.reportUndefined(name, span)
	c.result[id] = Resolution{Kind: ResUnresolved}
}

// resolveCall resolves a call's callee against global function scope only:
// calls always name a top-level function or annotation, never a local
// binding, in the surfaces this collector handles.
func (c *collector) resolveCall(id hir.ExpressionId, name source.StringID, span source.Span) {
	if entries, ok := c.global.Lookup(name); ok {
		c.result[id] = Resolution{Kind: ResGlobalOverload, Overloads: entries}
		return
	}
	c.reportUndefined(name, span)
	c.result[id] = Resolution{Kind: ResUnresolved}
}

func (c *collector) reportUndefined(name source.StringID, span source.Span) {
	msg := "undefined identifier"
	if c.strings != nil {
		msg = "undefined identifier '" + c.strings.MustLookup(name) + "'"
	}
	diag.ReportError(c.reporter, diag.UndefinedIdentifier, span, msg).Emit()
}

func (c *collector) walkAnnotations(id hir.ExpressionId) {
	for _, ann := range c.data.Annotations[id] {
		c.walkExpr(ann)
	}
}

func (c *collector) walkExpr(id hir.ExpressionId) {
	if !id.IsValid() {
		return
	}
	e := c.data.Expr(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case hir.ExprIdentifier:
		c.resolveIdentifier(id, e.Name, e.Span)
	case hir.ExprCall:
		c.resolveCall(id, e.Callee, e.Span)
		for _, a := range e.Args {
			c.walkExpr(a)
		}
	case hir.ExprTupleLit, hir.ExprSetLit, hir.ExprArrayLit:
		for _, el := range e.Elements {
			c.walkExpr(el)
		}
	case hir.ExprIndexedArrayLit:
		for i, el := range e.Elements {
			c.walkExpr(el)
			if i < len(e.Indices) {
				c.walkExpr(e.Indices[i])
			}
		}
	case hir.ExprArrayLit2D:
		for _, idx := range e.RowIndices {
			c.walkExpr(idx)
		}
		for _, idx := range e.ColIndices {
			c.walkExpr(idx)
		}
		for _, row := range e.Rows {
			for _, el := range row {
				c.walkExpr(el)
			}
		}
	case hir.ExprRecordLit:
		for _, f := range e.Fields {
			c.walkExpr(f.Value)
		}
	case hir.ExprArrayAccess:
		c.walkExpr(e.Collection)
		c.walkExpr(e.Index)
	case hir.ExprArrayComprehension, hir.ExprSetComprehension:
		c.walkComprehension(e)
	case hir.ExprIfThenElse:
		c.walkExpr(e.Cond)
		c.walkExpr(e.Then)
		c.walkExpr(e.Else)
	case hir.ExprCase:
		c.walkExpr(e.Scrutinee)
		for _, arm := range e.Arms {
			s := c.enter()
			c.declareMatchPattern(arm.Pattern)
			c.walkExpr(arm.Result)
			c.leave(s)
		}
	case hir.ExprLet:
		c.walkLet(e)
	case hir.ExprTupleAccess:
		c.walkExpr(e.TupleBase)
	case hir.ExprRecordAccess:
		c.walkExpr(e.RecordBase)
	case hir.ExprLambda:
		s := c.enter()
		for _, p := range e.Params {
			c.declarePattern(p, false)
		}
		c.walkExpr(e.LambdaBody)
		c.leave(s)
	case hir.ExprSlice:
		// Lowering does not yet populate slice operands; nothing to walk.
	}
	c.walkAnnotations(id)
}

// walkComprehension declares each generator's patterns in sequence, so a
// later generator's Collection and Where can see earlier ones' bindings —
// one flat scope for the whole comprehension rather than one nested scope
// per generator.
func (c *collector) walkComprehension(e *hir.Expr) {
	s := c.enter()
	for _, gen := range e.Generators {
		c.walkExpr(gen.Collection)
		for _, p := range gen.Patterns {
			c.declarePattern(p, false)
		}
		c.walkExpr(gen.Where)
	}
	c.walkExpr(e.Body)
	c.leave(s)
}

// walkLet declares each binding after its own value expression is walked,
// so a binding cannot see itself but can see every binding before it —
// and so the bindings are live across the remaining LetItems and LetIn.
func (c *collector) walkLet(e *hir.Expr) {
	s := c.enter()
	for _, item := range e.LetItems {
		c.walkExpr(item.Value)
		if item.Pattern.IsValid() {
			c.declarePattern(item.Pattern, true)
		}
	}
	c.walkExpr(e.LetIn)
	c.leave(s)
}

// CollectItem runs the local-scope walk for one item, given the global
// scope already built by CollectGlobal.
func CollectItem(global *GlobalScope, interners *hir.Interners, strings *source.Interner, model *hir.Model, local hir.ItemLocal, maxDiagnostics int) *ItemScopeResult {
	bag := diag.NewBag(maxDiagnostics)
	result := &ItemScopeResult{
		Resolutions:        make(map[hir.ExpressionId]Resolution),
		EnumeratorPatterns: make(map[hir.PatternId]GlobalSymbol),
		Bag:                bag,
	}

	item := model.Item(local)
	data := model.ItemData(local)
	if item == nil || data == nil {
		return result
	}

	c := &collector{
		global:     global,
		interners:  interners,
		strings:    strings,
		itemRef:    interners.InternItem(model.Ref, local),
		data:       data,
		reporter:   &diag.BagReporter{Bag: bag},
		result:     result.Resolutions,
		enumerator: result.EnumeratorPatterns,
	}

	switch item.Kind {
	case hir.ItemFunction:
		s := c.enter()
		for _, p := range item.Params {
			c.declarePattern(p, false)
		}
		c.walkExpr(item.Body)
		c.leave(s)
	case hir.ItemAssignment, hir.ItemDeclaration:
		c.walkExpr(item.Value)
	case hir.ItemConstraint, hir.ItemOutput:
		c.walkExpr(item.Expr)
	case hir.ItemSolve:
		c.walkExpr(item.Objective)
	case hir.ItemAnnotation:
		s := c.enter()
		for _, p := range item.Params {
			c.declarePattern(p, false)
		}
		c.leave(s)
	}

	return result
}

// ModelScopeResult is every item's ItemScopeResult for one model, keyed by
// ItemLocal.
type ModelScopeResult struct {
	Items map[hir.ItemLocal]*ItemScopeResult
}

// CollectModel runs CollectItem over every item in model, in allocation
// order.
func CollectModel(global *GlobalScope, interners *hir.Interners, strings *source.Interner, model *hir.Model, maxDiagnosticsPerItem int) *ModelScopeResult {
	out := &ModelScopeResult{Items: make(map[hir.ItemLocal]*ItemScopeResult, model.Len())}
	for _, local := range model.Locals() {
		out.Items[local] = CollectItem(global, interners, strings, model, local, maxDiagnosticsPerItem)
	}
	return out
}
