// Package hirvalidate implements the HIR structural-invariant validator: the
// catch-all safety net named in §7 ("Validation: HIR structural invariants"),
// run once per model after lowering. It never diagnoses anything a user
// wrote wrong — a violation here means a lowerer produced a malformed tree —
// so every finding is reported at diag.HirInvariant, matching the "indicates
// a compiler defect, not user error" framing internal/diag already gives
// LowerUnreachable.
//
// Grounded on internal/mir/validate.go's validateLocalIDs: walk every
// instruction/expression in a unit and confirm every id it references
// actually resolves, rather than trusting the producer. Adapted from MIR's
// single flat instruction stream to HIR's three per-item arenas (Exprs,
// Types, Patterns) plus the source map's own totality invariant — every
// allocated id must have an Origin, a requirement specific to this layer
// that MIR validation has no analogue for.
package hirvalidate

import (
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/source"
)

// Result is one model's validation output.
type Result struct {
	Bag *diag.Bag
}

// CheckModel validates every item in model: every ExpressionId/TypeId/
// PatternId any node carries must resolve within that item's own arenas,
// and every allocated id (sentinel and Missing-kind placeholders excluded)
// must have a source-map origin.
func CheckModel(interners *hir.Interners, sm *hir.SourceMap, model *hir.Model, maxDiagnostics int) *Result {
	bag := diag.NewBag(maxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	if model == nil {
		return &Result{Bag: bag}
	}
	for _, local := range model.Locals() {
		checkItem(interners, sm, model, local, reporter)
	}
	return &Result{Bag: bag}
}

func checkItem(interners *hir.Interners, sm *hir.SourceMap, model *hir.Model, local hir.ItemLocal, reporter diag.Reporter) {
	it := model.Item(local)
	data := model.ItemData(local)
	if it == nil || data == nil {
		return
	}
	ref := interners.InternItem(model.Ref, local)

	if _, ok := sm.Item(ref); !ok {
		diag.ReportError(reporter, diag.HirInvariant, it.Span, "item has no source-map origin").Emit()
	}

	v := &itemValidator{data: data, sm: sm, ref: ref, reporter: reporter}

	v.expr(it.Body, it.Span, "item body")
	v.expr(it.Value, it.Span, "item value")
	v.expr(it.Expr, it.Span, "item expression")
	v.expr(it.Objective, it.Span, "solve objective")
	v.pattern(it.Pattern, it.Span, "item pattern")
	v.typ(it.DeclType, it.Span, "declared type")
	v.typ(it.ReturnType, it.Span, "return type")
	v.typ(it.Aliased, it.Span, "aliased type")
	for _, p := range it.Params {
		v.pattern(p, it.Span, "annotation/function parameter")
	}
	for _, t := range it.ParamTypes {
		v.typ(t, it.Span, "parameter type")
	}
	for _, c := range it.Cases {
		for _, t := range c.Params {
			v.typ(t, it.Span, "enumerator parameter type")
		}
	}

	for target, anns := range data.Annotations {
		v.expr(target, it.Span, "annotation target")
		for _, a := range anns {
			v.expr(a, it.Span, "annotation")
		}
	}

	exprs := data.Exprs.Slice()
	for idx := 1; idx < len(exprs); idx++ {
		e := exprs[idx]
		id := hir.ExpressionId(idx)
		if e.Kind == hir.ExprMissing {
			continue
		}
		if _, ok := sm.Expr(ref, id); !ok {
			diag.ReportError(reporter, diag.HirInvariant, e.Span, "expression has no source-map origin").Emit()
		}
		v.walkExpr(&e)
	}

	types := data.Types.Slice()
	for idx := 1; idx < len(types); idx++ {
		t := types[idx]
		id := hir.TypeId(idx)
		if t.Kind == hir.TypeMissing {
			continue
		}
		if _, ok := sm.Type(ref, id); !ok {
			diag.ReportError(reporter, diag.HirInvariant, t.Span, "type expression has no source-map origin").Emit()
		}
		v.walkType(&t)
	}

	patterns := data.Patterns.Slice()
	for idx := 1; idx < len(patterns); idx++ {
		p := patterns[idx]
		id := hir.PatternId(idx)
		if p.Kind == hir.PatternMissing {
			continue
		}
		if _, ok := sm.Pattern(ref, id); !ok {
			diag.ReportError(reporter, diag.HirInvariant, p.Span, "pattern has no source-map origin").Emit()
		}
		v.walkPattern(&p)
	}
}

// itemValidator bounds-checks id references within one item's own arenas;
// every XxxId field on a Expr/TypeExpr/Pattern/Item is only ever meaningful
// relative to the same item's own arenas (see internal/hir/ids.go), so a
// single item-scoped validator suffices.
type itemValidator struct {
	data     *hir.ItemData
	sm       *hir.SourceMap
	ref      hir.ItemRef
	reporter diag.Reporter
}

func (v *itemValidator) expr(id hir.ExpressionId, span source.Span, what string) {
	if !id.IsValid() {
		return
	}
	if v.data.Expr(id) == nil {
		diag.ReportError(v.reporter, diag.HirInvariant, span, what+" references an out-of-range expression id").Emit()
	}
}

func (v *itemValidator) typ(id hir.TypeId, span source.Span, what string) {
	if !id.IsValid() {
		return
	}
	if v.data.Type(id) == nil {
		diag.ReportError(v.reporter, diag.HirInvariant, span, what+" references an out-of-range type id").Emit()
	}
}

func (v *itemValidator) pattern(id hir.PatternId, span source.Span, what string) {
	if !id.IsValid() {
		return
	}
	if v.data.Pattern(id) == nil {
		diag.ReportError(v.reporter, diag.HirInvariant, span, what+" references an out-of-range pattern id").Emit()
	}
}

func (v *itemValidator) walkExpr(e *hir.Expr) {
	switch e.Kind {
	case hir.ExprTupleLit, hir.ExprSetLit, hir.ExprArrayLit:
		for _, el := range e.Elements {
			v.expr(el, e.Span, "literal element")
		}
	case hir.ExprIndexedArrayLit:
		for _, el := range e.Elements {
			v.expr(el, e.Span, "literal element")
		}
		for _, idx := range e.Indices {
			v.expr(idx, e.Span, "literal index")
		}
	case hir.ExprArrayLit2D:
		for _, idx := range e.RowIndices {
			v.expr(idx, e.Span, "2D literal row index")
		}
		for _, idx := range e.ColIndices {
			v.expr(idx, e.Span, "2D literal column index")
		}
		for _, row := range e.Rows {
			for _, el := range row {
				v.expr(el, e.Span, "2D literal element")
			}
		}
	case hir.ExprRecordLit:
		for _, f := range e.Fields {
			v.expr(f.Value, e.Span, "record field value")
		}
	case hir.ExprArrayAccess:
		v.expr(e.Collection, e.Span, "array access collection")
		v.expr(e.Index, e.Span, "array access index")
	case hir.ExprArrayComprehension, hir.ExprSetComprehension:
		for _, g := range e.Generators {
			for _, p := range g.Patterns {
				v.pattern(p, e.Span, "comprehension generator pattern")
			}
			v.expr(g.Collection, e.Span, "comprehension generator collection")
			v.expr(g.Where, e.Span, "comprehension generator filter")
		}
		v.expr(e.Body, e.Span, "comprehension body")
	case hir.ExprIfThenElse:
		v.expr(e.Cond, e.Span, "if condition")
		v.expr(e.Then, e.Span, "if then-branch")
		v.expr(e.Else, e.Span, "if else-branch")
	case hir.ExprCall:
		for _, a := range e.Args {
			v.expr(a, e.Span, "call argument")
		}
	case hir.ExprCase:
		v.expr(e.Scrutinee, e.Span, "case scrutinee")
		for _, arm := range e.Arms {
			v.pattern(arm.Pattern, e.Span, "case arm pattern")
			v.expr(arm.Result, e.Span, "case arm result")
		}
	case hir.ExprLet:
		for _, item := range e.LetItems {
			v.pattern(item.Pattern, e.Span, "let item pattern")
			v.typ(item.Annotation, e.Span, "let item annotation")
			v.expr(item.Value, e.Span, "let item value")
		}
		v.expr(e.LetIn, e.Span, "let body")
	case hir.ExprTupleAccess:
		v.expr(e.TupleBase, e.Span, "tuple access base")
	case hir.ExprRecordAccess:
		v.expr(e.RecordBase, e.Span, "record access base")
	case hir.ExprLambda:
		for _, p := range e.Params {
			v.pattern(p, e.Span, "lambda parameter")
		}
		for _, t := range e.ParamTypes {
			v.typ(t, e.Span, "lambda parameter type")
		}
		v.typ(e.ReturnType, e.Span, "lambda return type")
		v.expr(e.LambdaBody, e.Span, "lambda body")
	}
}

func (v *itemValidator) walkType(t *hir.TypeExpr) {
	switch t.Kind {
	case hir.TypeBounded:
		v.expr(t.Domain, t.Span, "bounded type domain")
	case hir.TypeSetOf:
		v.typ(t.Elem, t.Span, "set element type")
	case hir.TypeArrayOf:
		v.typ(t.Elem, t.Span, "array element type")
		v.typ(t.Dim, t.Span, "array dimension type")
	case hir.TypeTuple:
		for _, el := range t.Elems {
			v.typ(el, t.Span, "tuple element type")
		}
	case hir.TypeRecord:
		for _, f := range t.Fields {
			v.typ(f.Type, t.Span, "record field type")
		}
	case hir.TypeOperation:
		for _, p := range t.Params {
			v.typ(p, t.Span, "operation parameter type")
		}
		v.typ(t.Return, t.Span, "operation return type")
	}
}

func (v *itemValidator) walkPattern(p *hir.Pattern) {
	switch p.Kind {
	case hir.PatternTuple:
		for _, el := range p.Elements {
			v.pattern(el, p.Span, "tuple pattern element")
		}
	case hir.PatternRecord:
		for _, f := range p.Fields {
			v.pattern(f.Pattern, p.Span, "record pattern field")
		}
	case hir.PatternCall:
		for _, a := range p.Args {
			v.pattern(a, p.Span, "constructor pattern argument")
		}
	}
}
