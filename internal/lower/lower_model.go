package lower

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/lexer"
	"surge/internal/parser"
	"surge/internal/source"
)

// LowerModel lowers one parsed primary-surface file into a fresh HIR model.
// Every item yields exactly one HIR item except IInclude, which yields zero
// (include resolution is a separate phase and leaves no HIR trace).
func LowerModel(
	ref hir.ModelRef,
	fs *source.FileSet,
	b *ast.Builder,
	file ast.FileID,
	interners *hir.Interners,
	reporter diag.Reporter,
) (*hir.Model, *hir.SourceMap, *source.Cst) {
	m := hir.NewModel(ref)
	sm := hir.NewSourceMap()
	cst := source.NewCst(ref)

	ml := &modelLowerer{
		fs: fs, b: b, model: m, interners: interners, sourceMap: sm,
		cst: cst, strings: b.StringsInterner, reporter: reporter,
	}

	f := b.Files.Get(file)
	for _, itemID := range f.Items {
		ml.lowerItem(itemID)
	}
	return m, sm, cst
}

type modelLowerer struct {
	fs        *source.FileSet
	b         *ast.Builder
	model     *hir.Model
	interners *hir.Interners
	sourceMap *hir.SourceMap
	cst       *source.Cst
	strings   *source.Interner
	reporter  diag.Reporter
}

func (ml *modelLowerer) lowerItem(id ast.ItemID) {
	it := ml.b.Items.Get(id)
	if it == nil || it.Kind == ast.IInclude {
		return
	}

	local, data := ml.model.AddItem(hir.Item{Span: it.Span})
	ref := ml.interners.InternItem(ml.model.Ref, local)
	nodeHandle := ml.cst.Add(source.CstKindUnknown, it.Span)
	ml.sourceMap.InsertItem(ref, hir.Origin{Node: nodeHandle, Tag: hir.OriginNode})

	c := &Collector{
		Model: ml.model, Interners: ml.interners, SourceMap: ml.sourceMap,
		Cst: ml.cst, Strings: ml.strings, Reporter: ml.reporter,
		ItemRef: ref, Data: data,
	}

	out := ml.model.Item(local)
	out.Span = it.Span
	out.Name = it.Name

	switch it.Kind {
	case ast.IAnnotation:
		out.Kind = hir.ItemAnnotation
		out.Params, out.ParamTypes = c.lowerParams(ml.b, it.Params)
	case ast.IAssignment:
		out.Kind = hir.ItemAssignment
		out.Pattern = c.lowerPattern(ml.b, it.Pattern)
		out.Value = c.lowerExpr(ml.b, it.Value)
	case ast.IEnumAssignment:
		out.Kind = hir.ItemEnumAssignment
		out.Cases = lowerCases(ml.b, c, it.Cases)
	case ast.IConstraint:
		out.Kind = hir.ItemConstraint
		out.Expr = c.lowerExpr(ml.b, it.Expr)
	case ast.IDeclaration:
		out.Kind = hir.ItemDeclaration
		out.DeclType = c.lowerType(ml.b, it.DeclType)
		if it.HasInit {
			out.Value = c.lowerExpr(ml.b, it.Init)
		}
	case ast.IEnumeration:
		out.Kind = hir.ItemEnumeration
		out.Cases = lowerCases(ml.b, c, it.Cases)
	case ast.IFunction:
		out.Kind = hir.ItemFunction
		out.Params, out.ParamTypes = c.lowerParams(ml.b, it.Params)
		out.ReturnType = c.lowerType(ml.b, it.ReturnType)
		out.TypeParams = collectTypeInstParams(ml.b, it.ReturnType, it.Params)
		if it.Body.IsValid() {
			out.Body = c.lowerExpr(ml.b, it.Body)
		} else {
			out.Body = hir.NoExpressionId
		}
	case ast.IOutput:
		out.Kind = hir.ItemOutput
		out.Expr = c.lowerExpr(ml.b, it.Expr)
		out.Section = it.Section
	case ast.ISolve:
		out.Kind = hir.ItemSolve
		out.Goal = hir.SolveGoal(it.Goal)
		if it.Objective.IsValid() {
			out.Objective = c.lowerExpr(ml.b, it.Objective)
		}
	case ast.ITypeAlias:
		out.Kind = hir.ItemTypeAlias
		out.Aliased = c.lowerType(ml.b, it.Aliased)
	}

	for _, annID := range it.Annotations {
		ann := c.lowerExpr(ml.b, annID)
		out.Annotations = append(out.Annotations, nameOfExpr(ml.b, annID, ml.strings))
		_ = ann
	}
}

// nameOfExpr extracts the identifier spelling of an item-level annotation
// expression for Item.Annotations, which records annotations by name.
func nameOfExpr(b *ast.Builder, id ast.ExprID, strs *source.Interner) source.StringID {
	e := b.Exprs.Get(id)
	if e == nil {
		return source.NoStringID
	}
	switch e.Kind {
	case ast.EIdent:
		return e.Name
	case ast.ECall:
		callee := b.Exprs.Get(e.Callee)
		if callee != nil && callee.Kind == ast.EIdent {
			return callee.Name
		}
	}
	return strs.Intern("")
}

func lowerCases(b *ast.Builder, c *Collector, cases []ast.EnumCase) []hir.Enumerator {
	out := make([]hir.Enumerator, 0, len(cases))
	for _, ec := range cases {
		params := make([]hir.TypeId, 0, len(ec.Params))
		for _, p := range ec.Params {
			params = append(params, c.lowerType(b, p))
		}
		out = append(out, hir.Enumerator{
			Kind:   hir.EnumeratorKind(ec.Kind),
			Name:   ec.Name,
			Params: params,
		})
	}
	return out
}

func (c *Collector) lowerParams(b *ast.Builder, params []ast.Param) ([]hir.PatternId, []hir.TypeId) {
	pats := make([]hir.PatternId, 0, len(params))
	types := make([]hir.TypeId, 0, len(params))
	for _, p := range params {
		pats = append(pats, c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternIdentifier, Name: p.Name}))
		types = append(types, c.lowerType(b, p.Type))
	}
	return pats, types
}

// collectTypeInstParams walks a function's parameter types, then its return
// type, for $-style type-inst identifiers: a bounded type whose domain is a
// bare identifier starting with '$' (see getOrCreate). Only identifiers
// used as an array index type are recorded; each is marked MustBeIndex, and
// MustBeVar when that index type is declared var. Identifiers in any other
// position are not collected, and enum-typed use is not tracked. The result
// is sorted on interned StringID.
func collectTypeInstParams(b *ast.Builder, retType ast.TypeID, params []ast.Param) []hir.TypeInstParam {
	seen := map[source.StringID]*hir.TypeInstParam{}
	var order []source.StringID
	visit := func(_ ast.TypeID) {}
	visit = func(id ast.TypeID) {
		t := b.Types.Get(id)
		if t == nil {
			return
		}
		switch t.Kind {
		case ast.TSetOf:
			visit(t.Elem)
		case ast.TArrayOf:
			for _, ix := range t.Indices {
				tp := getOrCreate(seen, &order, b, ix)
				if tp != nil {
					tp.MustBeIndex = true
				}
				visit(ix)
			}
			visit(t.Of)
		case ast.TTuple:
			for _, e := range t.Elems {
				visit(e)
			}
		case ast.TRecord:
			for _, f := range t.Fields {
				visit(f.Type)
			}
		}
	}
	for _, p := range params {
		visit(p.Type)
	}
	visit(retType)

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]hir.TypeInstParam, 0, len(order))
	for _, name := range order {
		out = append(out, *seen[name])
	}
	return out
}

func getOrCreate(seen map[source.StringID]*hir.TypeInstParam, order *[]source.StringID, b *ast.Builder, id ast.TypeID) *hir.TypeInstParam {
	t := b.Types.Get(id)
	if t == nil || t.Kind != ast.TBounded {
		return nil
	}
	// A bounded domain naming a bare identifier doubles as a type-inst
	// reference when that identifier starts with '$' — the only syntax
	// this surface uses for one (mirrors the original's $T convention).
	de := b.Exprs.Get(t.Domain)
	if de == nil || de.Kind != ast.EIdent {
		return nil
	}
	name := de.Name
	text, _ := b.StringsInterner.Lookup(name)
	if !strings.HasPrefix(text, "$") {
		return nil
	}
	if tp, ok := seen[name]; ok {
		return tp
	}
	tp := &hir.TypeInstParam{Name: name}
	if t.IsVar {
		tp.MustBeVar = true
	}
	seen[name] = tp
	*order = append(*order, name)
	return tp
}

func (c *Collector) lowerType(b *ast.Builder, id ast.TypeID) hir.TypeId {
	t := b.Types.Get(id)
	if t == nil {
		return c.NewType(source.Span{}, hir.TypeExpr{Kind: hir.TypeMissing})
	}
	inst := hir.InstPar
	if t.IsVar {
		inst = hir.InstVar
	}
	switch t.Kind {
	case ast.TMissing:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeMissing})
	case ast.TAny:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeAny})
	case ast.TPrimitiveBool:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypePrimitive, Prim: hir.PrimBool, Inst: inst, Optional: t.IsOpt})
	case ast.TPrimitiveInt:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypePrimitive, Prim: hir.PrimInt, Inst: inst, Optional: t.IsOpt})
	case ast.TPrimitiveFloat:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypePrimitive, Prim: hir.PrimFloat, Inst: inst, Optional: t.IsOpt})
	case ast.TPrimitiveString:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypePrimitive, Prim: hir.PrimString, Inst: inst, Optional: t.IsOpt})
	case ast.TBounded:
		return c.NewType(t.Span, hir.TypeExpr{
			Kind: hir.TypeBounded, Domain: c.lowerExpr(b, t.Domain), Inst: inst, Optional: t.IsOpt,
		})
	case ast.TSetOf:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeSetOf, Elem: c.lowerType(b, t.Elem), Inst: inst, Optional: t.IsOpt})
	case ast.TArrayOf:
		var dim hir.TypeId
		switch len(t.Indices) {
		case 0:
			dim = hir.NoTypeId
		case 1:
			dim = c.lowerType(b, t.Indices[0])
		default:
			elems := make([]hir.TypeId, 0, len(t.Indices))
			for _, ix := range t.Indices {
				elems = append(elems, c.lowerType(b, ix))
			}
			dim = c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeTuple, Elems: elems})
		}
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeArrayOf, Dim: dim, Elem: c.lowerType(b, t.Of), Inst: inst, Optional: t.IsOpt})
	case ast.TTuple:
		elems := make([]hir.TypeId, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, c.lowerType(b, e))
		}
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeTuple, Elems: elems})
	case ast.TRecord:
		fields := make([]hir.RecordFieldType, 0, len(t.Fields))
		for _, f := range t.Fields {
			fields = append(fields, hir.RecordFieldType{Name: f.Name, Type: c.lowerType(b, f.Type)})
		}
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeRecord, Fields: fields})
	default:
		return c.NewType(t.Span, hir.TypeExpr{Kind: hir.TypeMissing})
	}
}

func (c *Collector) lowerPattern(b *ast.Builder, id ast.PatternID) hir.PatternId {
	p := b.Patterns.Get(id)
	if p == nil {
		return c.NewPattern(source.Span{}, hir.Pattern{Kind: hir.PatternMissing})
	}
	switch p.Kind {
	case ast.PMissing:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternMissing})
	case ast.PIdent:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternIdentifier, Name: p.Name})
	case ast.PAnon:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternAnonymous})
	case ast.PAbsent:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternAbsent})
	case ast.PBoolLit:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternBoolLit, BoolValue: p.BoolValue})
	case ast.PStringLit:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternStringLit, StringValue: c.Strings.Intern(p.StrText)})
	case ast.PIntLit:
		v, err := strconv.ParseInt(p.NumText, 0, 64)
		if err != nil {
			diag.ReportError(c.Reporter, diag.SynInvalidNumericLit, p.Span, "invalid integer literal pattern: "+p.NumText).Emit()
		}
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternNumericLit, IntValue: v, Negated: p.Negated})
	case ast.PFloatLit:
		v, err := strconv.ParseFloat(p.NumText, 64)
		if err != nil {
			diag.ReportError(c.Reporter, diag.SynInvalidNumericLit, p.Span, "invalid float literal pattern: "+p.NumText).Emit()
		}
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternNumericLit, FloatValue: v, IsFloat: true, Negated: p.Negated})
	case ast.PTuple:
		elems := make([]hir.PatternId, 0, len(p.Elems))
		for _, e := range p.Elems {
			elems = append(elems, c.lowerPattern(b, e))
		}
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternTuple, Elements: elems})
	case ast.PRecord:
		fields := make([]hir.RecordPatternField, 0, len(p.Fields))
		for _, f := range p.Fields {
			fields = append(fields, hir.RecordPatternField{Name: f.Name, Pattern: c.lowerPattern(b, f.Pattern)})
		}
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternRecord, Fields: fields})
	case ast.PCall:
		args := make([]hir.PatternId, 0, len(p.Args))
		for _, a := range p.Args {
			args = append(args, c.lowerPattern(b, a))
		}
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternCall, Constructor: p.Name, Args: args})
	default:
		return c.NewPattern(p.Span, hir.Pattern{Kind: hir.PatternMissing})
	}
}

func (c *Collector) lowerExpr(b *ast.Builder, id ast.ExprID) hir.ExpressionId {
	e := b.Exprs.Get(id)
	if e == nil {
		return c.NewSyntheticExpr(hir.Expr{Kind: hir.ExprMissing}, "nil expr id")
	}

	switch e.Kind {
	case ast.EMissing:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprMissing})
	case ast.EBoolLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprBoolLit, BoolValue: e.BoolValue})
	case ast.EIntLit:
		v, err := strconv.ParseInt(e.NumText, 0, 64)
		if err != nil {
			return c.missingIntLit(e, err)
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprIntLit, IntValue: v})
	case ast.EFloatLit:
		v, err := strconv.ParseFloat(e.NumText, 64)
		if err != nil {
			diag.ReportError(c.Reporter, diag.SynInvalidNumericLit, e.Span, "invalid float literal: "+e.NumText).Emit()
			v = 0.0
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprFloatLit, FloatValue: v})
	case ast.EStringLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprStringLit, StringValue: c.Strings.Intern(e.StrText)})
	case ast.EFStringLit:
		return c.lowerFString(b, e)
	case ast.EAbsentLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprAbsentLit})
	case ast.EInfinityLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprInfinityLit})
	case ast.EIdent:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprIdentifier, Name: e.Name})
	case ast.ETupleLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprTupleLit, Elements: c.lowerExprList(b, e.Elems)})
	case ast.ERecordLit:
		fields := make([]hir.RecordField, 0, len(e.Fields))
		for _, f := range e.Fields {
			fields = append(fields, hir.RecordField{Name: f.Name, Value: c.lowerExpr(b, f.Value)})
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprRecordLit, Fields: fields})
	case ast.ESetLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprSetLit, Elements: c.lowerExprList(b, e.Elems)})
	case ast.EArrayLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayLit, Elements: c.lowerExprList(b, e.Elems)})
	case ast.EIndexedArrayLit:
		if len(e.Elems) != len(e.IndexExprs) {
			diag.ReportError(c.Reporter, diag.SynInvalidArrayLiteral, e.Span,
				"indexed array literal has a different number of indices than elements").Emit()
		}
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprIndexedArrayLit, Elements: c.lowerExprList(b, e.Elems), Indices: c.lowerExprList(b, e.IndexExprs),
		})
	case ast.EArrayLit2D:
		return c.lowerArray2D(b, e)
	case ast.EArrayAccess:
		return c.lowerArrayAccess(b, e)
	case ast.EArrayComp:
		return c.lowerComprehension(b, e, hir.ExprArrayComprehension)
	case ast.ESetComp:
		return c.lowerComprehension(b, e, hir.ExprSetComprehension)
	case ast.EIfThenElse:
		return c.lowerIfThenElse(b, e.Span, e.Branches, e.Else)
	case ast.ECall:
		return c.lowerCall(b, e)
	case ast.EGeneratorCall:
		return c.lowerGeneratorCall(b, e)
	case ast.ECase:
		arms := make([]hir.CaseArm, 0, len(e.Arms))
		for _, a := range e.Arms {
			arms = append(arms, hir.CaseArm{Pattern: c.lowerPattern(b, a.Pattern), Result: c.lowerExpr(b, a.Body)})
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprCase, Scrutinee: c.lowerExpr(b, e.Scrutinee), Arms: arms})
	case ast.ELet:
		items := make([]hir.LetItem, 0, len(e.LetItems))
		for _, itID := range e.LetItems {
			if li, ok := c.lowerLetItem(b, itID); ok {
				items = append(items, li)
			}
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprLet, LetItems: items, LetIn: c.lowerExpr(b, e.Body)})
	case ast.ETupleAccess:
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprTupleAccess, TupleBase: c.lowerExpr(b, e.Base), TupleIdx: uint32(e.Index),
		})
	case ast.ERecordAccess:
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprRecordAccess, RecordBase: c.lowerExpr(b, e.Base), RecordName: e.Field,
		})
	case ast.ESlice:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprSlice})
	case ast.EInfix:
		return c.lowerInfix(b, e)
	case ast.EPrefix:
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprCall, Callee: e.Op, Args: []hir.ExpressionId{c.lowerExpr(b, e.Right)},
		})
	case ast.EPostfix:
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprCall, Callee: c.internOp(c.Strings, e.Op, "o"), Args: []hir.ExpressionId{c.lowerExpr(b, e.Left)},
		})
	case ast.EAnnotated:
		target := c.lowerExpr(b, e.Left)
		ann := c.lowerExpr(b, e.Annotation)
		c.Data.AddAnnotation(target, ann)
		return target
	default:
		return c.missingExpr(e.Span, diag.LowerUnreachable, "unhandled primary-surface expression kind")
	}
}

func (c *Collector) missingIntLit(e *ast.Expr, err error) hir.ExpressionId {
	diag.ReportError(c.Reporter, diag.SynInvalidNumericLit, e.Span, "invalid integer literal: "+e.NumText+": "+err.Error()).Emit()
	return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprIntLit, IntValue: 0})
}

func (c *Collector) lowerExprList(b *ast.Builder, ids []ast.ExprID) []hir.ExpressionId {
	out := make([]hir.ExpressionId, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.lowerExpr(b, id))
	}
	return out
}

// lowerArray2D collapses the surface's flat row-major representation into
// HIR's ExprArrayLit2D. The surface carries only Rows/Cols counts (no
// explicit index sets), so RowIndices/ColIndices are left empty — the
// "plain count" alternative of the normative table's "(indexed or plain
// count)" row.
func (c *Collector) lowerArray2D(b *ast.Builder, e *ast.Expr) hir.ExpressionId {
	flat := c.lowerExprList(b, e.Elems)
	if e.Rows <= 0 || e.Cols <= 0 || e.Rows*e.Cols != len(flat) {
		diag.ReportError(c.Reporter, diag.SynInvalidArrayLiteral, e.Span,
			"2-D array literal has ragged or mismatched rows").Emit()
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayLit2D})
	}
	rows := make([][]hir.ExpressionId, e.Rows)
	for r := 0; r < e.Rows; r++ {
		rows[r] = flat[r*e.Cols : (r+1)*e.Cols]
	}
	return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayLit2D, Rows: rows})
}

// lowerArrayAccess implements "array access with n > 1 indices -> access
// whose index is a tuple literal of the indices".
func (c *Collector) lowerArrayAccess(b *ast.Builder, e *ast.Expr) hir.ExpressionId {
	base := c.lowerExpr(b, e.Base)
	switch len(e.Indices) {
	case 0:
		return c.missingExpr(e.Span, diag.LowerUnreachable, "array access with no index")
	case 1:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayAccess, Collection: base, Index: c.lowerExpr(b, e.Indices[0])})
	default:
		elems := c.lowerExprList(b, e.Indices)
		tup := c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprTupleLit, Elements: elems})
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayAccess, Collection: base, Index: tup})
	}
}

// lowerComprehension lowers a comprehension's generator list, attaching the
// single surface-level `where` clause (if present) to the last generator,
// since the surface only supports one trailing where but HIR's Generator
// carries a Where slot per clause.
func (c *Collector) lowerComprehension(b *ast.Builder, e *ast.Expr, kind hir.ExprKind) hir.ExpressionId {
	gens := make([]hir.Generator, 0, len(e.Generators))
	for _, g := range e.Generators {
		pats := make([]hir.PatternId, 0, len(g.Patterns))
		for _, p := range g.Patterns {
			pats = append(pats, c.lowerPattern(b, p))
		}
		gens = append(gens, hir.Generator{Patterns: pats, Collection: c.lowerExpr(b, g.Collection)})
	}
	if e.Where.IsValid() && len(gens) > 0 {
		gens[len(gens)-1].Where = c.lowerExpr(b, e.Where)
	}
	return c.NewExpr(e.Span, hir.Expr{Kind: kind, Generators: gens, Body: c.lowerExpr(b, e.Body)})
}

// lowerIfThenElse desugars an elseif chain (Branches[1:]) into a nested
// ExprIfThenElse in the Else position, since HIR's IfThenElse only carries
// a single Cond/Then/Else triple.
func (c *Collector) lowerIfThenElse(b *ast.Builder, span source.Span, branches []ast.IfBranch, elseID ast.ExprID) hir.ExpressionId {
	if len(branches) == 0 {
		return c.missingExpr(span, diag.LowerUnreachable, "if-then-else with no branches")
	}
	head := branches[0]
	var elseExpr hir.ExpressionId
	switch {
	case len(branches) > 1:
		elseExpr = c.lowerIfThenElse(b, span, branches[1:], elseID)
	case elseID.IsValid():
		elseExpr = c.lowerExpr(b, elseID)
	default:
		elseExpr = c.NewSyntheticExpr(hir.Expr{Kind: hir.ExprMissing}, "if with no else")
	}
	return c.NewExpr(span, hir.Expr{
		Kind: hir.ExprIfThenElse, Cond: c.lowerExpr(b, head.Cond), Then: c.lowerExpr(b, head.Then), Else: elseExpr,
	})
}

func (c *Collector) lowerCall(b *ast.Builder, e *ast.Expr) hir.ExpressionId {
	callee := b.Exprs.Get(e.Callee)
	var name source.StringID
	if callee != nil && callee.Kind == ast.EIdent {
		name = callee.Name
	} else {
		diag.ReportError(c.Reporter, diag.LowerUnreachable, e.Span, "call with a non-identifier callee").Emit()
	}
	return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprCall, Callee: name, Args: c.lowerExprList(b, e.Args)})
}

// lowerGeneratorCall implements `f(x in G)(body)` -> `call(f, [ [body | x in G] ])`:
// the comprehension over the call's generator clauses becomes the call's
// sole argument. The surface carries a single Where clause at the
// generator-call level (not per-generator), so — exactly as in
// lowerComprehension — it is attached to the last generator.
func (c *Collector) lowerGeneratorCall(b *ast.Builder, e *ast.Expr) hir.ExpressionId {
	callee := b.Exprs.Get(e.Callee)
	var name source.StringID
	if callee != nil && callee.Kind == ast.EIdent {
		name = callee.Name
	}
	gens := make([]hir.Generator, 0, len(e.Generators))
	for _, g := range e.Generators {
		pats := make([]hir.PatternId, 0, len(g.Patterns))
		for _, p := range g.Patterns {
			pats = append(pats, c.lowerPattern(b, p))
		}
		gens = append(gens, hir.Generator{Patterns: pats, Collection: c.lowerExpr(b, g.Collection)})
	}
	if e.Where.IsValid() && len(gens) > 0 {
		gens[len(gens)-1].Where = c.lowerExpr(b, e.Where)
	}
	comp := c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayComprehension, Generators: gens, Body: c.lowerExpr(b, e.Body)})
	return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprCall, Callee: name, Args: []hir.ExpressionId{comp}})
}

// lowerInfix implements `a OP b` -> `call(OP, [a, b])`, collapsing the
// surface's `==` onto HIR's single equality operator `=`.
func (c *Collector) lowerInfix(b *ast.Builder, e *ast.Expr) hir.ExpressionId {
	opText, _ := c.Strings.Lookup(e.Op)
	callee := e.Op
	if opText == "==" {
		callee = c.Strings.Intern("=")
	}
	return c.NewExpr(e.Span, hir.Expr{
		Kind: hir.ExprCall, Callee: callee,
		Args: []hir.ExpressionId{c.lowerExpr(b, e.Left), c.lowerExpr(b, e.Right)},
	})
}

func (c *Collector) lowerLetItem(b *ast.Builder, id ast.ItemID) (hir.LetItem, bool) {
	it := b.Items.Get(id)
	if it == nil {
		return hir.LetItem{}, false
	}
	switch it.Kind {
	case ast.IAssignment:
		return hir.LetItem{Pattern: c.lowerPattern(b, it.Pattern), Value: c.lowerExpr(b, it.Value)}, true
	case ast.IDeclaration:
		pat := c.NewPattern(it.Span, hir.Pattern{Kind: hir.PatternIdentifier, Name: it.Name})
		var val hir.ExpressionId
		if it.HasInit {
			val = c.lowerExpr(b, it.Init)
		}
		return hir.LetItem{Pattern: pat, Annotation: c.lowerType(b, it.DeclType), Value: val}, true
	case ast.IConstraint:
		return hir.LetItem{Value: c.lowerExpr(b, it.Expr)}, true
	default:
		diag.ReportError(c.Reporter, diag.LowerUnreachable, it.Span, "unsupported let-bound item kind").Emit()
		return hir.LetItem{}, false
	}
}

// lowerFString implements `"... \(e) ..."` -> `call(concat, [array_lit(["...",
// show(e), "..."])])`. The parser preserves f-string text raw (escapes
// unprocessed), so the lowerer itself splits on balanced `\( ... )`
// interpolation spans and re-parses each captured span as a standalone
// expression through the same lexer/parser pair used for whole files,
// wrapped in a throwaway `constraint (...)` item so the existing recursive-
// descent entry point can be reused without adding a second one.
func (c *Collector) lowerFString(b *ast.Builder, e *ast.Expr) hir.ExpressionId {
	segments, exprs, ok := splitInterpolations(e.StrText)
	if !ok {
		diag.ReportError(c.Reporter, diag.SynInvalidArrayLiteral, e.Span, "unbalanced interpolation in string literal").Emit()
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprStringLit, StringValue: c.Strings.Intern(e.StrText)})
	}

	parts := make([]hir.ExpressionId, 0, len(segments)+len(exprs))
	for i, seg := range segments {
		parts = append(parts, c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprStringLit, StringValue: c.Strings.Intern(seg)}))
		if i < len(exprs) {
			inner := c.reparseFStringExpr(e, exprs[i])
			show := c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprCall, Callee: c.Strings.Intern("show"), Args: []hir.ExpressionId{inner}})
			parts = append(parts, show)
		}
	}
	arrayLit := c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayLit, Elements: parts})
	return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprCall, Callee: c.Strings.Intern("concat"), Args: []hir.ExpressionId{arrayLit}})
}

func (c *Collector) reparseFStringExpr(outer *ast.Expr, src string) hir.ExpressionId {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("<interpolation>", []byte("constraint ("+src+");"))
	file := fs.Get(fileID)

	bag := diag.NewBag(8)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	arenas := ast.NewBuilder(ast.Hints{}, c.Strings)

	result := parser.ParseFile(context.Background(), fs, lx, arenas, parser.Options{MaxErrors: 8, Reporter: rep})
	f := arenas.Files.Get(result.File)
	if f == nil || len(f.Items) == 0 {
		diag.ReportError(c.Reporter, diag.SynInvalidNumericLit, outer.Span, "could not parse string interpolation: "+src).Emit()
		return c.NewSyntheticExpr(hir.Expr{Kind: hir.ExprMissing}, "unparseable interpolation")
	}
	it := arenas.Items.Get(f.Items[0])
	return c.lowerExpr(arenas, it.Expr)
}

// splitInterpolations splits raw f-string text on balanced `\( ... )` spans,
// returning the literal segments (len = n+1) and the n captured inner
// expression sources in order.
func splitInterpolations(text string) (segments []string, exprs []string, ok bool) {
	var seg strings.Builder
	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\\' && text[i+1] == '(' {
			segments = append(segments, seg.String())
			seg.Reset()
			depth := 1
			j := i + 2
			start := j
			for j < len(text) && depth > 0 {
				switch text[j] {
				case '(':
					depth++
				case ')':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			if depth != 0 {
				return nil, nil, false
			}
			exprs = append(exprs, text[start:j])
			i = j + 1
			continue
		}
		seg.WriteByte(text[i])
		i++
	}
	segments = append(segments, seg.String())
	return segments, exprs, true
}
