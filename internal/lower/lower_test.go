package lower_test

import (
	"context"
	"testing"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/eprimeast"
	"surge/internal/hir"
	"surge/internal/lexer"
	"surge/internal/lower"
	"surge/internal/parser"
	"surge/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mzn", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	arenas := ast.NewBuilder(ast.Hints{}, nil)

	result := parser.ParseFile(context.Background(), fs, lx, arenas, parser.Options{MaxErrors: 32, Reporter: rep})
	return arenas, result.File, result.Bag
}

func parseEprimeSource(t *testing.T, input string) (*eprimeast.Builder, eprimeast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.eprime", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	arenas := eprimeast.NewBuilder(eprimeast.Hints{}, nil)

	result := eprimeast.ParseFile(context.Background(), fs, lx, arenas, eprimeast.Options{MaxErrors: 32, Reporter: rep})
	return arenas, result.File, result.Bag
}

func requireNoErrors(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag != nil && bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
}

func lowerOne(t *testing.T, input string) (*hir.Model, *hir.Interners) {
	t.Helper()
	arenas, fileID, bag := parseSource(t, input)
	requireNoErrors(t, bag)

	interners := hir.NewInterners()
	reporter := &diag.BagReporter{Bag: diag.NewBag(64)}
	model, _, _ := lower.LowerModel(source.FileID(fileID), nil, arenas, fileID, interners, reporter)
	if model.Len() == 0 {
		t.Fatalf("expected at least one item")
	}
	return model, interners
}

func firstItem(t *testing.T, m *hir.Model) *hir.Item {
	t.Helper()
	locals := m.Locals()
	if len(locals) == 0 {
		t.Fatalf("model has no items")
	}
	return m.Item(locals[0])
}

func TestLowerSimpleAssignment(t *testing.T) {
	model, _ := lowerOne(t, `one = 1;`)
	item := firstItem(t, model)
	if item.Kind != hir.ItemAssignment {
		t.Fatalf("expected ItemAssignment, got %v", item.Kind)
	}
	data := model.ItemData(model.Locals()[0])
	pat := data.Pattern(item.Pattern)
	if pat.Kind != hir.PatternIdentifier {
		t.Fatalf("expected an identifier pattern, got %v", pat.Kind)
	}
	val := data.Expr(item.Value)
	if val.Kind != hir.ExprIntLit || val.IntValue != 1 {
		t.Fatalf("expected int literal 1, got %+v", val)
	}
}

func TestLowerDeclarationWithInit(t *testing.T) {
	model, _ := lowerOne(t, `1..10: n = 5;`)
	item := firstItem(t, model)
	if item.Kind != hir.ItemDeclaration {
		t.Fatalf("expected ItemDeclaration, got %v", item.Kind)
	}
	data := model.ItemData(model.Locals()[0])
	declType := data.Type(item.DeclType)
	if declType.Kind != hir.TypeBounded {
		t.Fatalf("expected a bounded domain type, got %v", declType.Kind)
	}
	val := data.Expr(item.Value)
	if val.Kind != hir.ExprIntLit || val.IntValue != 5 {
		t.Fatalf("expected int literal 5, got %+v", val)
	}
}

// Infix operators desugar to calls per the normative table's `a OP b` ->
// `call(OP, [a, b])` row; `==` additionally folds to `=`.
func TestLowerInfixDesugarsToCall(t *testing.T) {
	model, interners := lowerOne(t, `constraint x == 1;`)
	_ = interners
	item := firstItem(t, model)
	if item.Kind != hir.ItemConstraint {
		t.Fatalf("expected ItemConstraint, got %v", item.Kind)
	}
	data := model.ItemData(model.Locals()[0])
	top := data.Expr(item.Expr)
	if top.Kind != hir.ExprCall {
		t.Fatalf("expected the infix to lower to a call, got %v", top.Kind)
	}
	if len(top.Args) != 2 {
		t.Fatalf("expected a 2-argument call, got %d args", len(top.Args))
	}
}

// Generator-call sugar desugars per the table's `f(x|G)` ->
// `call(f, [[x|G]])` row: the call's sole argument is a comprehension
// built from the call's own generator clauses.
func TestLowerGeneratorCallSugar(t *testing.T) {
	model, _ := lowerOne(t, `constraint forall(i in 1..3)(x[i] > 0);`)
	item := firstItem(t, model)
	data := model.ItemData(model.Locals()[0])
	top := data.Expr(item.Expr)
	if top.Kind != hir.ExprCall {
		t.Fatalf("expected a call, got %v", top.Kind)
	}
	if len(top.Args) != 1 {
		t.Fatalf("expected a single comprehension argument, got %d", len(top.Args))
	}
	comp := data.Expr(top.Args[0])
	if comp.Kind != hir.ExprArrayComprehension {
		t.Fatalf("expected the sole argument to be an array comprehension, got %v", comp.Kind)
	}
	if len(comp.Generators) != 1 {
		t.Fatalf("expected 1 generator, got %d", len(comp.Generators))
	}
}

// String interpolation desugars per the table's `"..\(e)..`" ->
// `concat([..., show(e), ...])` row.
func TestLowerStringInterpolation(t *testing.T) {
	model, _ := lowerOne(t, `s = "hello \(x)";`)
	item := firstItem(t, model)
	data := model.ItemData(model.Locals()[0])
	top := data.Expr(item.Value)
	if top.Kind != hir.ExprCall {
		t.Fatalf("expected concat call, got %v", top.Kind)
	}
	if len(top.Args) != 1 {
		t.Fatalf("expected one array-literal argument, got %d", len(top.Args))
	}
	arr := data.Expr(top.Args[0])
	if arr.Kind != hir.ExprArrayLit {
		t.Fatalf("expected an array literal, got %v", arr.Kind)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected [literal, show(x), literal], got %d elements", len(arr.Elements))
	}
	showCall := data.Expr(arr.Elements[1])
	if showCall.Kind != hir.ExprCall {
		t.Fatalf("expected the interpolated hole to lower to a call, got %v", showCall.Kind)
	}
}

// Plain array literals and indexed array literals are disambiguated at
// parse time and stay two distinct HIR kinds (no desugaring between them).
func TestLowerPlainVsIndexedArrayLiteral(t *testing.T) {
	model, _ := lowerOne(t, `xs = [1, 2, 3];`)
	item := firstItem(t, model)
	data := model.ItemData(model.Locals()[0])
	plain := data.Expr(item.Value)
	if plain.Kind != hir.ExprArrayLit {
		t.Fatalf("expected a plain array literal, got %v", plain.Kind)
	}

	model2, _ := lowerOne(t, `ys = [2: 1, 2, 3];`)
	item2 := firstItem(t, model2)
	data2 := model2.ItemData(model2.Locals()[0])
	indexed := data2.Expr(item2.Value)
	if indexed.Kind != hir.ExprIndexedArrayLit {
		t.Fatalf("expected an indexed array literal, got %v", indexed.Kind)
	}
	if len(indexed.Indices) != len(indexed.Elements) {
		t.Fatalf("expected one index per element")
	}
}

// A multi-index array access tuple-wraps its index, per the normative
// table's last row.
func TestLowerMultiIndexArrayAccessWrapsTuple(t *testing.T) {
	model, _ := lowerOne(t, `constraint xs[i, j] > 0;`)
	item := firstItem(t, model)
	data := model.ItemData(model.Locals()[0])
	top := data.Expr(item.Expr)
	if top.Kind != hir.ExprCall {
		t.Fatalf("expected the comparison to lower to a call, got %v", top.Kind)
	}
	access := data.Expr(top.Args[0])
	if access.Kind != hir.ExprArrayAccess {
		t.Fatalf("expected an array access, got %v", access.Kind)
	}
	idx := data.Expr(access.Index)
	if idx.Kind != hir.ExprTupleLit || len(idx.Elements) != 2 {
		t.Fatalf("expected a 2-tuple index, got %+v", idx)
	}
}

func TestLowerEprimeGivenAndConstraint(t *testing.T) {
	arenas, fileID, bag := parseEprimeSource(t, "given n : int(1..10)\nfind x : bool\nsuch that x\n")
	requireNoErrors(t, bag)

	interners := hir.NewInterners()
	reporter := &diag.BagReporter{Bag: diag.NewBag(64)}
	model, _, _ := lower.LowerEprimeModel(source.FileID(fileID), arenas, fileID, interners, reporter)

	var sawGiven, sawFind, sawConstraint, sawSolve bool
	for _, local := range model.Locals() {
		it := model.Item(local)
		switch it.Kind {
		case hir.ItemDeclaration:
			if it.DeclType != hir.NoTypeId {
				typ := model.ItemData(local).Type(it.DeclType)
				switch typ.Inst {
				case hir.InstPar:
					sawGiven = true
				case hir.InstVar:
					sawFind = true
				}
			}
		case hir.ItemConstraint:
			sawConstraint = true
		case hir.ItemSolve:
			sawSolve = true
			if it.Goal != hir.SolveSatisfy {
				t.Fatalf("expected the synthesized default to be solve satisfy, got %v", it.Goal)
			}
		}
	}
	if !sawGiven || !sawFind || !sawConstraint {
		t.Fatalf("expected given/find/constraint items to all lower, got given=%v find=%v constraint=%v",
			sawGiven, sawFind, sawConstraint)
	}
	if !sawSolve {
		t.Fatalf("expected a synthesized solve-satisfy item when no objective is present")
	}
}

func TestLowerEprimeOutput(t *testing.T) {
	arenas, fileID, bag := parseEprimeSource(t, "find x : bool\nsuch that x\noutput x\n")
	requireNoErrors(t, bag)

	interners := hir.NewInterners()
	reporter := &diag.BagReporter{Bag: diag.NewBag(64)}
	model, _, _ := lower.LowerEprimeModel(source.FileID(fileID), arenas, fileID, interners, reporter)

	var sawOutput bool
	for _, local := range model.Locals() {
		it := model.Item(local)
		if it.Kind == hir.ItemOutput {
			sawOutput = true
			if it.Expr == hir.NoExpressionId {
				t.Fatalf("expected the output item to carry a lowered expression")
			}
			if it.Section != source.NoStringID {
				t.Fatalf("expected an unnamed output section, got %v", it.Section)
			}
		}
	}
	if !sawOutput {
		t.Fatalf("expected an ItemOutput to lower from the 'output' clause")
	}
}

func TestLowerEprimeHeuristicDropped(t *testing.T) {
	arenas, fileID, bag := parseEprimeSource(t, "find x : bool\nsuch that x\nheuristic static\n")
	requireNoErrors(t, bag)

	interners := hir.NewInterners()
	reporter := &diag.BagReporter{Bag: diag.NewBag(64)}
	model, _, _ := lower.LowerEprimeModel(source.FileID(fileID), arenas, fileID, interners, reporter)

	for _, local := range model.Locals() {
		if model.Item(local).Kind == hir.ItemAnnotation {
			t.Fatalf("heuristic clause should be silently dropped, not lowered")
		}
	}
}

func TestLowerEprimeBranchingAttachesToSolve(t *testing.T) {
	arenas, fileID, bag := parseEprimeSource(t, "find x : bool\nsuch that x\nbranching on [x]\n")
	requireNoErrors(t, bag)

	interners := hir.NewInterners()
	reporter := &diag.BagReporter{Bag: diag.NewBag(64)}
	model, _, _ := lower.LowerEprimeModel(source.FileID(fileID), arenas, fileID, interners, reporter)

	var solveLocal hir.ItemLocal
	var found bool
	for _, local := range model.Locals() {
		if model.Item(local).Kind == hir.ItemSolve {
			solveLocal = local
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a solve item")
	}
	solve := model.Item(solveLocal)
	if len(solve.Annotations) == 0 {
		t.Fatalf("expected the solve item to carry a branching annotation name")
	}
	data := model.ItemData(solveLocal)
	anns := data.Annotations[solve.Objective]
	if len(anns) != 1 {
		t.Fatalf("expected exactly one annotation attached to the solve anchor, got %d", len(anns))
	}
	call := data.Expr(anns[0])
	if call.Kind != hir.ExprCall {
		t.Fatalf("expected the branching annotation to be a call, got %v", call.Kind)
	}
}
