package check

import (
	"strings"

	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/scope"
	"surge/internal/source"
)

// Signature is the checked shape of one item: a function's parameter/return
// types, or — for anything else with HasSignature() true — the single
// "value type" produced when that item's name is referenced elsewhere.
type Signature struct {
	Kind       hir.ItemKind
	ParamTypes []TypeID
	ReturnType TypeID
}

// SignatureSet is every item's computed Signature, keyed by hir.ItemKey —
// the signature phase's output, consumed by the body phase.
type SignatureSet struct {
	byItem map[hir.ItemKey]*Signature
	order  []hir.ItemKey
}

// Lookup returns the signature computed for (model, item).
func (s *SignatureSet) Lookup(key hir.ItemKey) (*Signature, bool) {
	sig, ok := s.byItem[key]
	return sig, ok
}

// Order returns every signature-bearing item key in the order CollectSignatures
// computed them: topological batches first (items with no unresolved
// dependency come first), then any cyclic residual in the order
// toposortKahn gave up on them. §9 scopes "topologically sorted" to this
// signature-reference graph specifically, not the full item set — callers
// that need a total item order append the remaining, non-signature-bearing
// items (constraints, assignments, outputs, solve) after this.
func (s *SignatureSet) Order() []hir.ItemKey {
	return s.order
}

// dependencyGraph is a dense-indexed directed graph over the ordered items
// list: ported from internal/project/dag/topo.go's ToposortKahn, generalised
// from ModuleID nodes to plain item-list indices (this package's items are
// keyed by hir.ItemKey rather than the project package's own ModuleID, so
// dag.Graph itself isn't reused — only Kahn's wave-by-wave batching shape
// is).
type dependencyGraph struct {
	edges [][]int // edges[u] = nodes that depend on u
	indeg []int
}

type topoResult struct {
	batches [][]int
	cyclic  []int // residual nodes whose in-degree never reached 0
}

func toposortKahn(g dependencyGraph) topoResult {
	n := len(g.indeg)
	indeg := make([]int, n)
	copy(indeg, g.indeg)

	var res topoResult
	remaining := n
	done := make([]bool, n)
	for remaining > 0 {
		var batch []int
		for i := 0; i < n; i++ {
			if !done[i] && indeg[i] == 0 {
				batch = append(batch, i)
			}
		}
		if len(batch) == 0 {
			for i := 0; i < n; i++ {
				if !done[i] {
					res.cyclic = append(res.cyclic, i)
				}
			}
			break
		}
		for _, u := range batch {
			done[u] = true
			remaining--
			for _, v := range g.edges[u] {
				indeg[v]--
			}
		}
		res.batches = append(res.batches, batch)
	}
	return res
}

// CollectSignatures runs the signature phase over every HasSignature item in
// models: it computes each item's Signature from globally-visible
// identifiers only, ordering items by a topological sort of the dependency
// edges a TypeBounded domain identifier can introduce (§4.7's "directed
// graph by name reference"), and reports CyclicSignatureDependency for any
// item whose dependency cannot be resolved acyclically.
func CollectSignatures(models []*hir.Model, global *scope.GlobalScope, interner *Interner, strings *source.Interner, reporter diag.Reporter) *SignatureSet {
	set := &SignatureSet{byItem: make(map[hir.ItemKey]*Signature)}

	type node struct {
		model *hir.Model
		local hir.ItemLocal
		item  *hir.Item
		key   hir.ItemKey
	}
	var nodes []node
	index := make(map[hir.ItemKey]int)
	for _, m := range models {
		if m == nil {
			continue
		}
		for _, local := range m.Locals() {
			it := m.Item(local)
			if it == nil || !it.HasSignature() {
				continue
			}
			key := hir.ItemKey{Model: m.Ref, Local: local}
			index[key] = len(nodes)
			nodes = append(nodes, node{model: m, local: local, item: it, key: key})
		}
	}

	g := dependencyGraph{edges: make([][]int, len(nodes)), indeg: make([]int, len(nodes))}
	for i, n := range nodes {
		for _, dep := range signatureDependencies(n.model, n.local, n.item, global, strings) {
			if j, ok := index[dep]; ok && j != i {
				g.edges[j] = append(g.edges[j], i)
				g.indeg[i]++
			}
		}
	}

	topo := toposortKahn(g)
	for _, batch := range topo.batches {
		for _, i := range batch {
			n := nodes[i]
			set.byItem[n.key] = computeSignature(n.model, n.local, n.item, set, global, interner, strings)
			set.order = append(set.order, n.key)
		}
	}
	for _, i := range topo.cyclic {
		n := nodes[i]
		diag.ReportError(reporter, diag.CyclicSignatureDependency, n.item.Span,
			"signature depends on itself through a cycle of type references").Emit()
		// Degrade gracefully: compute it anyway. translateBounded looks an
		// enum-named domain up in global scope, not in set, so the cycle
		// does not leave any part of this signature unresolved.
		set.byItem[n.key] = computeSignature(n.model, n.local, n.item, set, global, interner, strings)
		set.order = append(set.order, n.key)
	}
	return set
}

// signatureDependencies reports which other items' signatures must already
// be computed before this item's own can be: only TypeBounded domains whose
// Domain expression is a bare identifier referring to another signature-
// bearing item create an edge — every other TypeExpr shape is self-
// contained.
func signatureDependencies(m *hir.Model, local hir.ItemLocal, it *hir.Item, global *scope.GlobalScope, strings *source.Interner) []hir.ItemKey {
	data := m.ItemData(local)
	if data == nil {
		return nil
	}
	var deps []hir.ItemKey
	visit := func(id hir.TypeId) { visitTypeDeps(data, id, global, strings, &deps) }
	for _, t := range it.ParamTypes {
		visit(t)
	}
	visit(it.ReturnType)
	visit(it.DeclType)
	visit(it.Aliased)
	for _, cs := range it.Cases {
		for _, p := range cs.Params {
			visit(p)
		}
	}
	return deps
}

func visitTypeDeps(data *hir.ItemData, id hir.TypeId, global *scope.GlobalScope, strings *source.Interner, deps *[]hir.ItemKey) {
	if !id.IsValid() {
		return
	}
	t := data.Type(id)
	if t == nil {
		return
	}
	switch t.Kind {
	case hir.TypeBounded:
		if name, ok := domainIdentifier(data, t.Domain); ok {
			if isTypeInstVarName(strings, name) {
				return
			}
			if entries, found := global.Lookup(name); found {
				for _, e := range entries {
					if e.Kind == scope.GlobalEnumeration {
						*deps = append(*deps, hir.ItemKey{Model: e.Model, Local: e.Item})
					}
				}
			}
		}
	case hir.TypeSetOf:
		visitTypeDeps(data, t.Elem, global, strings, deps)
	case hir.TypeArrayOf:
		visitTypeDeps(data, t.Dim, global, strings, deps)
		visitTypeDeps(data, t.Elem, global, strings, deps)
	case hir.TypeTuple:
		for _, e := range t.Elems {
			visitTypeDeps(data, e, global, strings, deps)
		}
	case hir.TypeRecord:
		for _, f := range t.Fields {
			visitTypeDeps(data, f.Type, global, strings, deps)
		}
	}
}

// domainIdentifier reports the bare identifier name a TypeBounded's Domain
// names, if it is exactly a bare identifier expression (as opposed to a
// range, set literal, or other computed domain).
func domainIdentifier(data *hir.ItemData, domain hir.ExpressionId) (source.StringID, bool) {
	if !domain.IsValid() {
		return source.NoStringID, false
	}
	e := data.Expr(domain)
	if e == nil || e.Kind != hir.ExprIdentifier {
		return source.NoStringID, false
	}
	return e.Name, true
}

// isTypeInstVarName reports whether name is a `$`-prefixed type-inst
// identifier rather than a concrete domain name — mirrors
// internal/lower/lower_model.go's collectTypeInstParams convention for the
// same syntax.
func isTypeInstVarName(strings *source.Interner, name source.StringID) bool {
	if strings == nil {
		return false
	}
	text, ok := strings.Lookup(name)
	return ok && stringsHasPrefix(text, "$")
}

func stringsHasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }

func computeSignature(m *hir.Model, local hir.ItemLocal, it *hir.Item, set *SignatureSet, global *scope.GlobalScope, interner *Interner, strings *source.Interner) *Signature {
	data := m.ItemData(local)
	tr := &typeTranslator{data: data, set: set, global: global, interner: interner, strings: strings}

	sig := &Signature{Kind: it.Kind}
	switch it.Kind {
	case hir.ItemFunction, hir.ItemAnnotation:
		for _, pt := range it.ParamTypes {
			sig.ParamTypes = append(sig.ParamTypes, tr.translate(pt))
		}
		if it.Kind == hir.ItemFunction {
			sig.ReturnType = tr.translate(it.ReturnType)
		} else {
			sig.ReturnType = interner.Bool(hir.InstPar, false) // an annotation's "value" when referenced bare
		}
	case hir.ItemDeclaration:
		sig.ReturnType = tr.translate(it.DeclType)
	case hir.ItemTypeAlias:
		sig.ReturnType = tr.translate(it.Aliased)
	case hir.ItemEnumeration, hir.ItemEnumAssignment:
		sig.ReturnType = interner.Enum(m.Ref, local, hir.InstPar, false)
	}
	return sig
}

// typeTranslator turns a signature-phase hir.TypeExpr into a checked TypeID,
// looking up any TypeBounded domain that is a bare identifier in global
// scope: a name declared as an enumeration yields that enum's type, any
// other name yields int.
type typeTranslator struct {
	data     *hir.ItemData
	set      *SignatureSet
	global   *scope.GlobalScope
	interner *Interner
	strings  *source.Interner
}

func (tr *typeTranslator) translate(id hir.TypeId) TypeID {
	if !id.IsValid() {
		return tr.interner.Any()
	}
	t := tr.data.Type(id)
	if t == nil {
		return tr.interner.Any()
	}
	switch t.Kind {
	case hir.TypeAny, hir.TypeInstVar:
		return tr.interner.Any()
	case hir.TypePrimitive:
		switch t.Prim {
		case hir.PrimBool:
			return tr.interner.Bool(t.Inst, t.Optional)
		case hir.PrimFloat:
			return tr.interner.Float(t.Inst, t.Optional)
		case hir.PrimString:
			return tr.interner.Str(t.Inst, t.Optional)
		default:
			return tr.interner.Int(t.Inst, t.Optional)
		}
	case hir.TypeBounded:
		return tr.translateBounded(t)
	case hir.TypeSetOf:
		return tr.interner.SetOf(tr.translate(t.Elem), t.Inst, t.Optional)
	case hir.TypeArrayOf:
		return tr.interner.ArrayOf(tr.translate(t.Dim), tr.translate(t.Elem), t.Inst, t.Optional)
	case hir.TypeTuple:
		elems := make([]TypeID, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, tr.translate(e))
		}
		return tr.interner.TupleOf(elems)
	case hir.TypeRecord:
		fields := make([]RecordFieldType, 0, len(t.Fields))
		for _, f := range t.Fields {
			var name string
			if tr.strings != nil {
				name, _ = tr.strings.Lookup(f.Name)
			}
			fields = append(fields, RecordFieldType{Name: name, Type: tr.translate(f.Type)})
		}
		return tr.interner.RecordOf(fields)
	default:
		return tr.interner.Any()
	}
}

// translateBounded decides whether a bounded-type's domain actually names an
// enumeration declared elsewhere, or is a numeric (int) range/set domain —
// the signature phase's one genuine cross-item lookup, per §4.7.
func (tr *typeTranslator) translateBounded(t *hir.TypeExpr) TypeID {
	name, ok := domainIdentifier(tr.data, t.Domain)
	if !ok {
		return tr.interner.Int(t.Inst, t.Optional)
	}
	if isTypeInstVarName(tr.strings, name) {
		return tr.interner.Any()
	}
	entries, found := tr.global.Lookup(name)
	if !found {
		return tr.interner.Int(t.Inst, t.Optional)
	}
	for _, e := range entries {
		if e.Kind == scope.GlobalEnumeration {
			return tr.interner.Enum(e.Model, e.Item, t.Inst, t.Optional)
		}
	}
	return tr.interner.Int(t.Inst, t.Optional)
}
