package lower

import (
	"strconv"

	"surge/internal/diag"
	"surge/internal/eprimeast"
	"surge/internal/hir"
	"surge/internal/source"
)

// LowerEprimeModel lowers one parsed alternate-surface file into a fresh
// HIR model. Per §9's normative scoping decision, only {constraint,
// const-definition, domain-alias, decision-declaration,
// parameter-declaration, branching->solve-annotation, output, solve goal}
// are lowered; IHeuristic items are parsed but dropped here with no
// diagnostic, matching the reference's own `Heuristic(_) => return`.
func LowerEprimeModel(
	ref hir.ModelRef,
	b *eprimeast.Builder,
	file eprimeast.FileID,
	interners *hir.Interners,
	reporter diag.Reporter,
) (*hir.Model, *hir.SourceMap, *source.Cst) {
	m := hir.NewModel(ref)
	sm := hir.NewSourceMap()
	cst := source.NewCst(ref)

	el := &eprimeLowerer{
		b: b, model: m, interners: interners, sourceMap: sm,
		cst: cst, strings: b.StringsInterner, reporter: reporter,
	}

	f := b.Files.Get(file)
	var branchOn []eprimeast.ExprID
	var solveLocal hir.ItemLocal = hir.NoItemLocal

	for _, itemID := range f.Items {
		it := b.Items.Get(itemID)
		if it == nil {
			continue
		}
		switch it.Kind {
		case eprimeast.IHeuristic:
			continue
		case eprimeast.IBranching:
			branchOn = append(branchOn, it.BranchOn...)
		case eprimeast.IObjective:
			solveLocal = el.lowerObjective(it)
		default:
			el.lowerItem(itemID)
		}
	}

	if solveLocal == hir.NoItemLocal {
		solveLocal = el.synthesizeSatisfy(f.Span)
	}
	if len(branchOn) > 0 {
		el.attachBranching(solveLocal, branchOn)
	}

	return m, sm, cst
}

type eprimeLowerer struct {
	b         *eprimeast.Builder
	model     *hir.Model
	interners *hir.Interners
	sourceMap *hir.SourceMap
	cst       *source.Cst
	strings   *source.Interner
	reporter  diag.Reporter
}

func (el *eprimeLowerer) newCollector(local hir.ItemLocal, span source.Span, data *hir.ItemData) *Collector {
	ref := el.interners.InternItem(el.model.Ref, local)
	h := el.cst.Add(source.CstKindUnknown, span)
	el.sourceMap.InsertItem(ref, hir.Origin{Node: h, Tag: hir.OriginNode})
	return &Collector{
		Model: el.model, Interners: el.interners, SourceMap: el.sourceMap,
		Cst: el.cst, Strings: el.strings, Reporter: el.reporter,
		ItemRef: ref, Data: data,
	}
}

func (el *eprimeLowerer) lowerItem(id eprimeast.ItemID) {
	it := el.b.Items.Get(id)
	local, data := el.model.AddItem(hir.Item{Span: it.Span})
	c := el.newCollector(local, it.Span, data)
	out := el.model.Item(local)
	out.Span = it.Span
	out.Name = it.Name

	switch it.Kind {
	case eprimeast.IGiven:
		out.Kind = hir.ItemDeclaration
		out.DeclType = c.lowerEprimeDomain(el.b, it.Domain, hir.InstPar)
	case eprimeast.IFind:
		out.Kind = hir.ItemDeclaration
		out.DeclType = c.lowerEprimeDomain(el.b, it.Domain, hir.InstVar)
	case eprimeast.ILettingDomain:
		out.Kind = hir.ItemTypeAlias
		out.Aliased = c.lowerEprimeDomain(el.b, it.Domain, hir.InstPar)
	case eprimeast.ILettingConst:
		out.Kind = hir.ItemAssignment
		out.Pattern = c.NewPattern(it.Span, hir.Pattern{Kind: hir.PatternIdentifier, Name: it.Name})
		out.Value = c.lowerEprimeExpr(el.b, it.Value)
	case eprimeast.IConstraint:
		out.Kind = hir.ItemConstraint
		out.Expr = c.lowerEprimeExpr(el.b, it.Expr)
	case eprimeast.IOutput:
		out.Kind = hir.ItemOutput
		out.Expr = c.lowerEprimeExpr(el.b, it.Expr)
		out.Section = source.NoStringID
	default:
		diag.ReportError(el.reporter, diag.LowerUnreachable, it.Span, "unsupported alternate-surface item kind").Emit()
	}
}

// lowerObjective lowers an IObjective into its own ItemSolve item and
// returns its local handle so a later IBranching clause can attach to it.
func (el *eprimeLowerer) lowerObjective(it *eprimeast.Item) hir.ItemLocal {
	local, data := el.model.AddItem(hir.Item{Span: it.Span})
	c := el.newCollector(local, it.Span, data)
	out := el.model.Item(local)
	out.Span = it.Span
	out.Kind = hir.ItemSolve
	if it.Strategy == eprimeast.Minimising {
		out.Goal = hir.SolveMinimize
	} else {
		out.Goal = hir.SolveMaximize
	}
	out.Objective = c.lowerEprimeExpr(el.b, it.Objective)
	return local
}

// synthesizeSatisfy inserts the default `solve satisfy` the reference
// always has implicitly when no minimising/maximising clause is present;
// it has no CST backing, so its item origin is OriginSynthetic.
func (el *eprimeLowerer) synthesizeSatisfy(span source.Span) hir.ItemLocal {
	local, _ := el.model.AddItem(hir.Item{Span: span, Kind: hir.ItemSolve, Goal: hir.SolveSatisfy})
	ref := el.interners.InternItem(el.model.Ref, local)
	el.sourceMap.InsertItem(ref, hir.NewSyntheticOrigin("default solve satisfy"))
	return local
}

// attachBranching folds one or more 'branching on [...]' clauses into the
// solve item as an annotation rather than a distinct HIR node, mirroring
// how the surface language itself expresses search strategy as a `::`
// annotation on the solve goal. When the goal already carries a real
// objective, the annotation anchors to that expression (reachable, so no
// synthetic expression id is needed); for `solve satisfy`, where Objective
// is otherwise unused, it becomes the anchor instead.
func (el *eprimeLowerer) attachBranching(local hir.ItemLocal, branchOn []eprimeast.ExprID) {
	data := el.model.ItemData(local)
	out := el.model.Item(local)
	ref := el.interners.InternItem(el.model.Ref, local)
	c := &Collector{
		Model: el.model, Interners: el.interners, SourceMap: el.sourceMap,
		Cst: el.cst, Strings: el.strings, Reporter: el.reporter,
		ItemRef: ref, Data: data,
	}

	vars := make([]hir.ExpressionId, 0, len(branchOn))
	for _, id := range branchOn {
		vars = append(vars, c.lowerEprimeExpr(el.b, id))
	}
	arrayLit := c.NewSyntheticExpr(hir.Expr{Kind: hir.ExprArrayLit, Elements: vars}, "branching_on arguments")
	ann := c.NewSyntheticExpr(
		hir.Expr{Kind: hir.ExprCall, Callee: el.strings.Intern("branching_on"), Args: []hir.ExpressionId{arrayLit}},
		"branching_on annotation",
	)

	anchor := out.Objective
	if !anchor.IsValid() {
		anchor = c.NewSyntheticExpr(hir.Expr{Kind: hir.ExprBoolLit, BoolValue: true}, "solve-satisfy annotation anchor")
		out.Objective = anchor
	}
	data.AddAnnotation(anchor, ann)
	out.Annotations = append(out.Annotations, el.strings.Intern("branching"))
}

// lowerEprimeDomain maps an eprimeast.Domain onto the shared HIR type
// representation, stamping every node with inst (par for 'given', var for
// 'find'/decision declarations — the alternate surface has no explicit
// var/par spelling of its own, unlike the primary surface's modifier).
func (c *Collector) lowerEprimeDomain(b *eprimeast.Builder, id eprimeast.DomainID, inst hir.Instantiation) hir.TypeId {
	d := b.Domains.Get(id)
	if d == nil {
		return c.NewType(source.Span{}, hir.TypeExpr{Kind: hir.TypeMissing})
	}
	switch d.Kind {
	case eprimeast.DMissing:
		return c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypeMissing})
	case eprimeast.DBool:
		return c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypePrimitive, Prim: hir.PrimBool, Inst: inst})
	case eprimeast.DInt:
		return c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypePrimitive, Prim: hir.PrimInt, Inst: inst})
	case eprimeast.DIntRanges:
		elems := make([]hir.ExpressionId, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			low := c.lowerEprimeExpr(b, r.Low)
			if r.High.IsValid() {
				high := c.lowerEprimeExpr(b, r.High)
				elems = append(elems, c.NewExpr(d.Span, hir.Expr{
					Kind: hir.ExprCall, Callee: c.Strings.Intern(".."), Args: []hir.ExpressionId{low, high},
				}))
			} else {
				elems = append(elems, low)
			}
		}
		domExpr := c.NewExpr(d.Span, hir.Expr{Kind: hir.ExprSetLit, Elements: elems})
		return c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypeBounded, Domain: domExpr, Inst: inst})
	case eprimeast.DRef:
		domExpr := c.NewExpr(d.Span, hir.Expr{Kind: hir.ExprIdentifier, Name: d.Name})
		return c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypeBounded, Domain: domExpr, Inst: inst})
	case eprimeast.DMatrix:
		var dim hir.TypeId
		switch len(d.Dims) {
		case 0:
			dim = hir.NoTypeId
		case 1:
			dim = c.lowerEprimeDomain(b, d.Dims[0], hir.InstPar)
		default:
			dims := make([]hir.TypeId, 0, len(d.Dims))
			for _, dd := range d.Dims {
				dims = append(dims, c.lowerEprimeDomain(b, dd, hir.InstPar))
			}
			dim = c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypeTuple, Elems: dims})
		}
		return c.NewType(d.Span, hir.TypeExpr{
			Kind: hir.TypeArrayOf, Dim: dim, Elem: c.lowerEprimeDomain(b, d.Of, inst),
		})
	default:
		return c.NewType(d.Span, hir.TypeExpr{Kind: hir.TypeMissing})
	}
}

// lowerEprimeExpr maps an eprimeast.Expr onto hir.Expr, applying the same
// infix/prefix-to-call and multi-index-to-tuple desugaring rules the
// primary surface's lowerer applies, since both surfaces share one
// normative desugaring table.
func (c *Collector) lowerEprimeExpr(b *eprimeast.Builder, id eprimeast.ExprID) hir.ExpressionId {
	e := b.Exprs.Get(id)
	if e == nil {
		return c.NewSyntheticExpr(hir.Expr{Kind: hir.ExprMissing}, "nil eprime expr id")
	}
	switch e.Kind {
	case eprimeast.EMissing:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprMissing})
	case eprimeast.EBoolLit:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprBoolLit, BoolValue: e.BoolValue})
	case eprimeast.EIntLit:
		v, err := strconv.ParseInt(e.NumText, 0, 64)
		if err != nil {
			diag.ReportError(c.Reporter, diag.SynInvalidNumericLit, e.Span, "invalid integer literal: "+e.NumText).Emit()
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprIntLit, IntValue: v})
	case eprimeast.EIdent:
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprIdentifier, Name: e.Name})
	case eprimeast.EMatrixLit:
		elems := make([]hir.ExpressionId, 0, len(e.Elems))
		for _, sub := range e.Elems {
			elems = append(elems, c.lowerEprimeExpr(b, sub))
		}
		return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayLit, Elements: elems})
	case eprimeast.EIndexedAccess:
		base := c.lowerEprimeExpr(b, e.Base)
		switch len(e.Indices) {
		case 0:
			return c.missingExpr(e.Span, diag.LowerUnreachable, "indexed access with no index")
		case 1:
			return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayAccess, Collection: base, Index: c.lowerEprimeExpr(b, e.Indices[0])})
		default:
			idxElems := make([]hir.ExpressionId, 0, len(e.Indices))
			for _, ix := range e.Indices {
				idxElems = append(idxElems, c.lowerEprimeExpr(b, ix))
			}
			tup := c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprTupleLit, Elements: idxElems})
			return c.NewExpr(e.Span, hir.Expr{Kind: hir.ExprArrayAccess, Collection: base, Index: tup})
		}
	case eprimeast.EInfix:
		opText, _ := c.Strings.Lookup(e.Op)
		callee := e.Op
		if opText == "==" {
			callee = c.Strings.Intern("=")
		}
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprCall, Callee: callee,
			Args: []hir.ExpressionId{c.lowerEprimeExpr(b, e.Left), c.lowerEprimeExpr(b, e.Right)},
		})
	case eprimeast.EPrefix:
		return c.NewExpr(e.Span, hir.Expr{
			Kind: hir.ExprCall, Callee: e.Op, Args: []hir.ExpressionId{c.lowerEprimeExpr(b, e.Right)},
		})
	default:
		return c.missingExpr(e.Span, diag.LowerUnreachable, "unhandled alternate-surface expression kind")
	}
}
