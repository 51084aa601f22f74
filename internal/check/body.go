package check

import (
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/scope"
	"surge/internal/source"
)

// ItemCheckResult is one item's body-phase output: every expression's
// inferred/checked TypeID, plus the diagnostics raised while checking it. A
// type error poisons only the node it occurs at — checking continues for
// the rest of the item — so callers should expect Types entries even for
// nodes that also produced a diagnostic.
type ItemCheckResult struct {
	Types map[hir.ExpressionId]TypeID
	Bag   *diag.Bag
}

// localEnv is the body phase's own scope-shaped type environment: it walks
// the same bindings internal/scope's collector does (function/lambda
// params, let-bindings, comprehension generators, case-arm patterns), but
// records each PatternRef's inferred/declared TypeID instead of resolving
// names — the two walks are structurally identical, driven independently
// because the body phase needs types scope collection never computed.
type localEnv struct {
	parent *localEnv
	types  map[hir.PatternRef]TypeID
}

func newLocalEnv(parent *localEnv) *localEnv {
	return &localEnv{parent: parent, types: make(map[hir.PatternRef]TypeID)}
}

func (e *localEnv) bind(ref hir.PatternRef, t TypeID) { e.types[ref] = t }

func (e *localEnv) lookup(ref hir.PatternRef) (TypeID, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.types[ref]; ok {
			return t, true
		}
	}
	return 0, false
}

type bodyChecker struct {
	sigs      *SignatureSet
	global    *scope.GlobalScope
	interner  *Interner
	strings   *source.Interner
	interners *hir.Interners
	itemRef   hir.ItemRef
	data      *hir.ItemData
	itemScope *scope.ItemScopeResult
	reporter  diag.Reporter
	reported  map[hir.ExpressionId]bool
	result    map[hir.ExpressionId]TypeID
	env       *localEnv
}

func (c *bodyChecker) enter()                { c.env = newLocalEnv(c.env) }
func (c *bodyChecker) leave(saved *localEnv) { c.env = saved }

func (c *bodyChecker) poison(id hir.ExpressionId, code diag.Code, span source.Span, msg string) TypeID {
	if !c.reported[id] {
		c.reported[id] = true
		diag.ReportError(c.reporter, code, span, msg).Emit()
	}
	t := c.interner.TypeError()
	c.result[id] = t
	return t
}

func (c *bodyChecker) set(id hir.ExpressionId, t TypeID) TypeID {
	c.result[id] = t
	return t
}

// translateLocal translates a hir.TypeId declared within this item's own
// ItemData, for param/return/let-annotation positions in the body phase —
// no cross-item dependency needed here since signature-phase translation
// already ran for every other item's own declared types.
func (c *bodyChecker) translateLocal(id hir.TypeId) TypeID {
	tr := &typeTranslator{data: c.data, set: c.sigs, global: c.global, interner: c.interner, strings: c.strings}
	return tr.translate(id)
}

func (c *bodyChecker) patternRef(id hir.PatternId) hir.PatternRef {
	return c.interners.PatternRefOf(c.itemRef, id)
}

// bindPattern declares a pattern against declared (if valid) or inferred
// type t, recursing component-wise for tuple/record patterns so each
// sub-binding gets its own element type.
func (c *bodyChecker) bindPattern(id hir.PatternId, t TypeID) {
	if !id.IsValid() {
		return
	}
	pat := c.data.Pattern(id)
	if pat == nil {
		return
	}
	switch pat.Kind {
	case hir.PatternIdentifier:
		if c.itemScope != nil {
			if _, ok := c.itemScope.EnumeratorPatterns[id]; ok {
				// A case-arm pattern naming a declared enum atom (e.g. Red in
				// `case c of Red -> 1, ...`) is an equality match against
				// that atom, not a fresh binding — nothing to bind.
				return
			}
		}
		c.env.bind(c.patternRef(id), t)
	case hir.PatternTuple:
		ty, _ := c.interner.Lookup(t)
		for i, el := range pat.Elements {
			elemType := c.interner.Any()
			if ty.Kind == KindTuple && i < len(ty.Elems) {
				elemType = ty.Elems[i]
			}
			c.bindPattern(el, elemType)
		}
	case hir.PatternRecord:
		ty, _ := c.interner.Lookup(t)
		for _, f := range pat.Fields {
			elemType := c.interner.Any()
			if ty.Kind == KindRecord {
				if text, ok := c.strings.Lookup(f.Name); ok {
					for _, rf := range ty.Fields {
						if rf.Name == text {
							elemType = rf.Type
							break
						}
					}
				}
			}
			c.bindPattern(f.Pattern, elemType)
		}
	case hir.PatternCall:
		for _, a := range pat.Args {
			c.bindPattern(a, c.interner.Any())
		}
	}
}

func (c *bodyChecker) infer(id hir.ExpressionId) TypeID {
	if !id.IsValid() {
		return c.interner.Any()
	}
	e := c.data.Expr(id)
	if e == nil {
		return c.interner.Any()
	}
	var t TypeID
	switch e.Kind {
	case hir.ExprBoolLit:
		t = c.set(id, c.interner.Bool(hir.InstPar, false))
	case hir.ExprIntLit:
		t = c.set(id, c.interner.Int(hir.InstPar, false))
	case hir.ExprFloatLit:
		t = c.set(id, c.interner.Float(hir.InstPar, false))
	case hir.ExprStringLit:
		t = c.set(id, c.interner.Str(hir.InstPar, false))
	case hir.ExprAbsentLit:
		t = c.set(id, c.interner.Absent())
	case hir.ExprInfinityLit:
		t = c.set(id, c.interner.Int(hir.InstPar, false))
	case hir.ExprIdentifier:
		t = c.inferIdentifier(id, e)
	case hir.ExprCall:
		t = c.inferCall(id, e)
	case hir.ExprTupleLit:
		elems := make([]TypeID, 0, len(e.Elements))
		for _, el := range e.Elements {
			elems = append(elems, c.infer(el))
		}
		t = c.set(id, c.interner.TupleOf(elems))
	case hir.ExprSetLit:
		t = c.set(id, c.inferHomogeneous(e.Elements, true))
	case hir.ExprArrayLit:
		t = c.set(id, c.inferHomogeneous(e.Elements, false))
	case hir.ExprIndexedArrayLit:
		for _, ix := range e.Indices {
			c.infer(ix)
		}
		t = c.set(id, c.inferHomogeneous(e.Elements, false))
	case hir.ExprArrayLit2D:
		for _, ix := range e.RowIndices {
			c.infer(ix)
		}
		for _, ix := range e.ColIndices {
			c.infer(ix)
		}
		var all []hir.ExpressionId
		for _, row := range e.Rows {
			all = append(all, row...)
		}
		t = c.set(id, c.inferHomogeneous(all, false))
	case hir.ExprRecordLit:
		fields := make([]RecordFieldType, 0, len(e.Fields))
		for _, f := range e.Fields {
			var name string
			if c.strings != nil {
				name, _ = c.strings.Lookup(f.Name)
			}
			fields = append(fields, RecordFieldType{Name: name, Type: c.infer(f.Value)})
		}
		t = c.set(id, c.interner.RecordOf(fields))
	case hir.ExprArrayAccess:
		t = c.inferArrayAccess(id, e)
	case hir.ExprArrayComprehension:
		t = c.inferComprehension(id, e, false)
	case hir.ExprSetComprehension:
		t = c.inferComprehension(id, e, true)
	case hir.ExprIfThenElse:
		t = c.inferIfThenElse(id, e)
	case hir.ExprCase:
		t = c.inferCase(id, e)
	case hir.ExprLet:
		t = c.inferLet(id, e)
	case hir.ExprTupleAccess:
		t = c.inferTupleAccess(id, e)
	case hir.ExprRecordAccess:
		t = c.inferRecordAccess(id, e)
	case hir.ExprLambda:
		t = c.inferLambda(id, e)
	case hir.ExprSlice:
		t = c.set(id, c.interner.Any())
	default:
		t = c.set(id, c.interner.Any())
	}
	c.checkAnnotations(id)
	return t
}

func (c *bodyChecker) checkAnnotations(id hir.ExpressionId) {
	for _, ann := range c.data.Annotations[id] {
		c.infer(ann)
	}
}

func (c *bodyChecker) inferHomogeneous(elements []hir.ExpressionId, asSet bool) TypeID {
	elem := c.interner.Any()
	inst := hir.InstPar
	for i, el := range elements {
		et := c.infer(el)
		if i == 0 {
			elem = et
		}
		if ty, ok := c.interner.Lookup(et); ok {
			inst = combineInst(inst, ty.Inst)
		}
	}
	if asSet {
		return c.interner.SetOf(elem, inst, false)
	}
	return c.interner.ArrayOf(c.interner.Int(hir.InstPar, false), elem, inst, false)
}

func (c *bodyChecker) inferIdentifier(id hir.ExpressionId, e *hir.Expr) TypeID {
	res, ok := c.itemScope.Resolutions[id]
	if !ok {
		return c.set(id, c.interner.Any())
	}
	switch res.Kind {
	case scope.ResLocal:
		if t, found := c.env.lookup(res.Local); found {
			return c.set(id, t)
		}
		return c.set(id, c.interner.Any())
	case scope.ResGlobalUnique:
		if sig, found := c.sigs.Lookup(hir.ItemKey{Model: res.Global.Model, Local: res.Global.Item}); found {
			return c.set(id, sig.ReturnType)
		}
		return c.set(id, c.interner.Any())
	case scope.ResGlobalOverload:
		if len(res.Overloads) == 1 {
			if sig, found := c.sigs.Lookup(hir.ItemKey{Model: res.Overloads[0].Model, Local: res.Overloads[0].Item}); found {
				return c.set(id, c.interner.OpOf(sig.ParamTypes, sig.ReturnType))
			}
		}
		return c.poison(id, diag.AmbiguousOverload, e.Span, "reference to an overloaded name with no call arguments to disambiguate it")
	default:
		return c.set(id, c.interner.Any())
	}
}

func (c *bodyChecker) inferCall(id hir.ExpressionId, e *hir.Expr) TypeID {
	argTypes := make([]TypeID, 0, len(e.Args))
	for _, a := range e.Args {
		argTypes = append(argTypes, c.infer(a))
	}
	res, ok := c.itemScope.Resolutions[id]
	if !ok || res.Kind != scope.ResGlobalOverload {
		return c.set(id, c.interner.Any())
	}

	type candidate struct {
		sig       *Signature
		wildcards int
	}
	var matches []candidate
	for _, overload := range res.Overloads {
		sig, found := c.sigs.Lookup(hir.ItemKey{Model: overload.Model, Local: overload.Item})
		if !found || len(sig.ParamTypes) != len(argTypes) {
			continue
		}
		ok := true
		wildcards := 0
		for i, pt := range sig.ParamTypes {
			if ty, found := c.interner.Lookup(pt); found && ty.Kind == KindAny {
				wildcards++
			}
			if !c.interner.Assignable(argTypes[i], pt) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, candidate{sig: sig, wildcards: wildcards})
		}
	}

	if len(matches) == 0 {
		return c.poison(id, diag.NoApplicableOverload, e.Span, "no overload of this call accepts the given argument types")
	}

	best := matches[0]
	ambiguous := false
	for _, m := range matches[1:] {
		if m.wildcards < best.wildcards {
			best = m
			ambiguous = false
		} else if m.wildcards == best.wildcards {
			ambiguous = true
		}
	}
	if ambiguous {
		return c.poison(id, diag.AmbiguousOverload, e.Span, "more than one equally specific overload applies to this call")
	}

	ret := best.sig.ReturnType
	if ty, found := c.interner.Lookup(ret); found && ty.Kind == KindAny {
		instantiated := false
		for i, pt := range best.sig.ParamTypes {
			if pty, found := c.interner.Lookup(pt); found && pty.Kind == KindAny {
				ret = argTypes[i]
				instantiated = true
				break
			}
		}
		if !instantiated {
			return c.poison(id, diag.UnresolvableTypeInstIdent, e.Span,
				"the call's return type is a type-inst identifier not bound by any parameter")
		}
	}
	return c.set(id, ret)
}

func (c *bodyChecker) inferArrayAccess(id hir.ExpressionId, e *hir.Expr) TypeID {
	ct := c.infer(e.Collection)
	c.infer(e.Index)
	ty, ok := c.interner.Lookup(ct)
	if !ok || (ty.Kind != KindArray && !isWildcard(ty.Kind)) {
		return c.poison(id, diag.TypeMismatch, e.Span, "indexing a value that is not an array")
	}
	if isWildcard(ty.Kind) {
		return c.set(id, c.interner.Any())
	}
	return c.set(id, ty.Elem)
}

func (c *bodyChecker) inferComprehension(id hir.ExpressionId, e *hir.Expr, asSet bool) TypeID {
	saved := c.env
	c.enter()
	inst := hir.InstPar
	for _, gen := range e.Generators {
		ct := c.infer(gen.Collection)
		elem := c.interner.Any()
		if ty, ok := c.interner.Lookup(ct); ok {
			switch ty.Kind {
			case KindArray, KindSet:
				elem = ty.Elem
				inst = combineInst(inst, ty.Inst)
			}
		}
		for _, p := range gen.Patterns {
			c.bindPattern(p, elem)
		}
		if gen.Where.IsValid() {
			c.infer(gen.Where)
		}
	}
	bodyType := c.infer(e.Body)
	c.leave(saved)
	if asSet {
		return c.set(id, c.interner.SetOf(bodyType, inst, false))
	}
	return c.set(id, c.interner.ArrayOf(c.interner.Int(hir.InstPar, false), bodyType, inst, false))
}

func (c *bodyChecker) inferIfThenElse(id hir.ExpressionId, e *hir.Expr) TypeID {
	condType := c.infer(e.Cond)
	thenType := c.infer(e.Then)
	var elseType TypeID = c.interner.Any()
	if e.Else.IsValid() {
		elseType = c.infer(e.Else)
	}
	if cb, ok := c.interner.Lookup(condType); ok && cb.Kind != KindBool && !isWildcard(cb.Kind) {
		c.poison(id, diag.TypeMismatch, e.Span, "if-condition is not bool")
	}
	if !c.interner.Equal(thenType, elseType) {
		return c.poison(id, diag.TypeMismatch, e.Span, "if-then-else branches have different types")
	}
	tb, _ := c.interner.Lookup(thenType)
	eb, _ := c.interner.Lookup(elseType)
	inst := combineInst(tb.Inst, eb.Inst)
	optional := tb.Optional || eb.Optional
	return c.set(id, c.reinstantiate(thenType, inst, optional))
}

// reinstantiate returns base's type with inst/optional overridden —
// used to propagate the widest instantiation/optionality across branches
// that otherwise describe the same shape.
func (c *bodyChecker) reinstantiate(base TypeID, inst hir.Instantiation, optional bool) TypeID {
	ty, ok := c.interner.Lookup(base)
	if !ok {
		return base
	}
	switch ty.Kind {
	case KindBool:
		return c.interner.Bool(inst, optional)
	case KindInt:
		return c.interner.Int(inst, optional)
	case KindFloat:
		return c.interner.Float(inst, optional)
	case KindString:
		return c.interner.Str(inst, optional)
	case KindEnum:
		return c.interner.Enum(ty.EnumModel, ty.EnumItem, inst, optional)
	case KindSet:
		return c.interner.SetOf(ty.Elem, inst, optional)
	case KindArray:
		return c.interner.ArrayOf(ty.Dim, ty.Elem, inst, optional)
	default:
		return base
	}
}

func (c *bodyChecker) inferCase(id hir.ExpressionId, e *hir.Expr) TypeID {
	scrutType := c.infer(e.Scrutinee)
	result := c.interner.Any()
	haveResult := false
	for _, arm := range e.Arms {
		saved := c.env
		c.enter()
		c.bindPattern(arm.Pattern, scrutType)
		armType := c.infer(arm.Result)
		c.leave(saved)
		if !haveResult {
			result = armType
			haveResult = true
			continue
		}
		if !c.interner.Equal(result, armType) {
			c.poison(id, diag.TypeMismatch, e.Span, "case arms produce different types")
		}
	}
	return c.set(id, result)
}

func (c *bodyChecker) inferLet(id hir.ExpressionId, e *hir.Expr) TypeID {
	saved := c.env
	c.enter()
	for _, item := range e.LetItems {
		valueType := c.infer(item.Value)
		declared := valueType
		if item.Annotation.IsValid() {
			declared = c.translateLocal(item.Annotation)
			if !c.interner.Assignable(valueType, declared) {
				c.poison(item.Value, diag.TypeMismatch, e.Span, "let-binding value does not match its declared type")
			}
		}
		if item.Pattern.IsValid() {
			c.bindPattern(item.Pattern, declared)
		}
	}
	t := c.infer(e.LetIn)
	c.leave(saved)
	return c.set(id, t)
}

func (c *bodyChecker) inferTupleAccess(id hir.ExpressionId, e *hir.Expr) TypeID {
	base := c.infer(e.TupleBase)
	ty, ok := c.interner.Lookup(base)
	if !ok || (ty.Kind != KindTuple && !isWildcard(ty.Kind)) {
		return c.poison(id, diag.TypeMismatch, e.Span, "accessing a tuple field of a value that is not a tuple")
	}
	if isWildcard(ty.Kind) {
		return c.set(id, c.interner.Any())
	}
	idx := int(e.TupleIdx) - 1
	if idx < 0 || idx >= len(ty.Elems) {
		return c.poison(id, diag.TypeMismatch, e.Span, "tuple index out of range")
	}
	return c.set(id, ty.Elems[idx])
}

func (c *bodyChecker) inferRecordAccess(id hir.ExpressionId, e *hir.Expr) TypeID {
	base := c.infer(e.RecordBase)
	ty, ok := c.interner.Lookup(base)
	if !ok || (ty.Kind != KindRecord && !isWildcard(ty.Kind)) {
		return c.poison(id, diag.TypeMismatch, e.Span, "accessing a record field of a value that is not a record")
	}
	if isWildcard(ty.Kind) {
		return c.set(id, c.interner.Any())
	}
	var name string
	if c.strings != nil {
		name, _ = c.strings.Lookup(e.RecordName)
	}
	for _, f := range ty.Fields {
		if f.Name == name {
			return c.set(id, f.Type)
		}
	}
	return c.poison(id, diag.TypeMismatch, e.Span, "record has no such field")
}

func (c *bodyChecker) inferLambda(id hir.ExpressionId, e *hir.Expr) TypeID {
	saved := c.env
	c.enter()
	paramTypes := make([]TypeID, 0, len(e.Params))
	for i, p := range e.Params {
		var pt TypeID
		if i < len(e.ParamTypes) {
			pt = c.translateLocal(e.ParamTypes[i])
		} else {
			pt = c.interner.Any()
		}
		paramTypes = append(paramTypes, pt)
		c.bindPattern(p, pt)
	}
	bodyType := c.infer(e.LambdaBody)
	c.leave(saved)
	ret := bodyType
	if e.ReturnType.IsValid() {
		declared := c.translateLocal(e.ReturnType)
		if !c.interner.Assignable(bodyType, declared) {
			c.poison(e.LambdaBody, diag.TypeMismatch, e.Span, "lambda body does not match its declared return type")
		}
		ret = declared
	}
	return c.set(id, c.interner.OpOf(paramTypes, ret))
}

// CheckItem runs the body phase for one item, given the already-completed
// signature phase and the already-completed scope collection for that same
// item.
func CheckItem(sigs *SignatureSet, global *scope.GlobalScope, interner *Interner, strings *source.Interner, interners *hir.Interners, itemScope *scope.ItemScopeResult, model *hir.Model, local hir.ItemLocal, maxDiagnostics int) *ItemCheckResult {
	bag := diag.NewBag(maxDiagnostics)
	result := &ItemCheckResult{Types: make(map[hir.ExpressionId]TypeID), Bag: bag}

	item := model.Item(local)
	data := model.ItemData(local)
	if item == nil || data == nil {
		return result
	}

	c := &bodyChecker{
		sigs: sigs, global: global, interner: interner, strings: strings, interners: interners,
		itemRef: interners.InternItem(model.Ref, local), data: data, itemScope: itemScope,
		reporter: &diag.BagReporter{Bag: bag}, reported: make(map[hir.ExpressionId]bool),
		result: result.Types, env: newLocalEnv(nil),
	}

	key := hir.ItemKey{Model: model.Ref, Local: local}
	sig, hasSig := sigs.Lookup(key)

	switch item.Kind {
	case hir.ItemFunction:
		c.enter()
		if hasSig {
			for i, p := range item.Params {
				pt := interner.Any()
				if i < len(sig.ParamTypes) {
					pt = sig.ParamTypes[i]
				}
				c.bindPattern(p, pt)
			}
		}
		if item.Body.IsValid() {
			bodyType := c.infer(item.Body)
			if hasSig && item.ReturnType.IsValid() && !interner.Assignable(bodyType, sig.ReturnType) {
				c.poison(item.Body, diag.TypeMismatch, item.Span, "function body does not match its declared return type")
			}
		}
		c.leave(nil)
	case hir.ItemAssignment, hir.ItemDeclaration:
		if item.Value.IsValid() {
			valueType := c.infer(item.Value)
			if hasSig && item.Kind == hir.ItemDeclaration && item.DeclType.IsValid() && !interner.Assignable(valueType, sig.ReturnType) {
				c.poison(item.Value, diag.TypeMismatch, item.Span, "declared value does not match its declared type")
			}
		}
	case hir.ItemConstraint:
		if item.Expr.IsValid() {
			t := c.infer(item.Expr)
			if ty, ok := interner.Lookup(t); ok && ty.Kind != KindBool && !isWildcard(ty.Kind) {
				c.poison(item.Expr, diag.TypeMismatch, item.Span, "constraint expression is not bool")
			}
		}
	case hir.ItemOutput:
		if item.Expr.IsValid() {
			c.infer(item.Expr)
		}
	case hir.ItemSolve:
		if item.Objective.IsValid() {
			t := c.infer(item.Objective)
			if ty, ok := interner.Lookup(t); ok && ty.Kind != KindInt && ty.Kind != KindFloat && !isWildcard(ty.Kind) {
				c.poison(item.Objective, diag.TypeMismatch, item.Span, "solve objective is not numeric")
			}
		}
	case hir.ItemAnnotation:
		c.enter()
		if hasSig {
			for i, p := range item.Params {
				pt := interner.Any()
				if i < len(sig.ParamTypes) {
					pt = sig.ParamTypes[i]
				}
				c.bindPattern(p, pt)
			}
		}
		c.leave(nil)
	}

	return result
}

// ModelCheckResult is every item's ItemCheckResult for one model.
type ModelCheckResult struct {
	Items map[hir.ItemLocal]*ItemCheckResult
}

// CheckModel runs CheckItem over every item in model, in allocation order.
func CheckModel(sigs *SignatureSet, global *scope.GlobalScope, interner *Interner, strings *source.Interner, interners *hir.Interners, modelScope *scope.ModelScopeResult, model *hir.Model, maxDiagnosticsPerItem int) *ModelCheckResult {
	out := &ModelCheckResult{Items: make(map[hir.ItemLocal]*ItemCheckResult, model.Len())}
	for _, local := range model.Locals() {
		itemScope := modelScope.Items[local]
		if itemScope == nil {
			itemScope = &scope.ItemScopeResult{Resolutions: map[hir.ExpressionId]scope.Resolution{}}
		}
		out.Items[local] = CheckItem(sigs, global, interner, strings, interners, itemScope, model, local, maxDiagnosticsPerItem)
	}
	return out
}
