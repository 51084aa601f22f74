package scope_test

import (
	"context"
	"testing"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/lexer"
	"surge/internal/lower"
	"surge/internal/parser"
	"surge/internal/scope"
	"surge/internal/source"
)

func lowerSource(t *testing.T, input string) (*hir.Model, *hir.Interners, *source.Interner) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mzn", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	arenas := ast.NewBuilder(ast.Hints{}, nil)

	res := parser.ParseFile(context.Background(), fs, lx, arenas, parser.Options{MaxErrors: 32, Reporter: rep})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Fatalf("unexpected parse diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	interners := hir.NewInterners()
	lowerBag := diag.NewBag(64)
	lowerRep := &diag.BagReporter{Bag: lowerBag}
	model, _, _ := lower.LowerModel(source.FileID(fileID), fs, arenas, res.File, interners, lowerRep)
	if lowerBag.HasErrors() {
		for _, d := range lowerBag.Items() {
			t.Fatalf("unexpected lowering diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
	return model, interners, arenas.StringsInterner
}

func itemByKind(t *testing.T, m *hir.Model, kind hir.ItemKind) (hir.ItemLocal, *hir.Item) {
	t.Helper()
	for _, local := range m.Locals() {
		it := m.Item(local)
		if it.Kind == kind {
			return local, it
		}
	}
	t.Fatalf("no item of kind %v found", kind)
	return 0, nil
}

func TestCollectGlobalDetectsDuplicateDeclaration(t *testing.T) {
	model, _, strings := lowerSource(t, "x = 1;\nx = 2;\n")
	bag := diag.NewBag(32)
	scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatalf("expected a DuplicateDeclaration error for the second 'x'")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.DuplicateDeclaration {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DuplicateDeclaration among reported diagnostics")
	}
}

func TestCollectItemResolvesLetBindingLocally(t *testing.T) {
	model, interners, strings := lowerSource(t, "constraint let { int: y = 1; } in y > 0;\n")
	bag := diag.NewBag(32)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})

	local, _ := itemByKind(t, model, hir.ItemConstraint)
	result := scope.CollectItem(global, interners, strings, model, local, 32)
	if result.Bag.HasErrors() {
		for _, d := range result.Bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	data := model.ItemData(local)
	var sawLocalResolution bool
	for _, res := range result.Resolutions {
		if res.Kind == scope.ResLocal {
			sawLocalResolution = true
		}
	}
	if !sawLocalResolution {
		t.Fatalf("expected the 'y' reference inside the let body to resolve locally")
	}
	_ = data
}

func TestCollectItemReportsUndefinedIdentifier(t *testing.T) {
	model, interners, strings := lowerSource(t, "constraint undeclared_name > 0;\n")
	bag := diag.NewBag(32)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})

	local, _ := itemByKind(t, model, hir.ItemConstraint)
	result := scope.CollectItem(global, interners, strings, model, local, 32)

	if !result.Bag.HasErrors() {
		t.Fatalf("expected an UndefinedIdentifier diagnostic")
	}
	found := false
	for _, d := range result.Bag.Items() {
		if d.Code == diag.UndefinedIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UndefinedIdentifier among reported diagnostics")
	}
}

func TestCollectItemWarnsOnUnusedLetBinding(t *testing.T) {
	model, interners, strings := lowerSource(t, "constraint let { int: unused = 1; } in true;\n")
	bag := diag.NewBag(32)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})

	local, _ := itemByKind(t, model, hir.ItemConstraint)
	result := scope.CollectItem(global, interners, strings, model, local, 32)

	found := false
	for _, d := range result.Bag.Items() {
		if d.Code == diag.UnusedLetBinding {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnusedLetBinding warning for 'unused'")
	}
}

func TestCollectGlobalAllowsFunctionOverloads(t *testing.T) {
	model, _, strings := lowerSource(t, "function int: f(int: a) = a;\nfunction int: f(int: a, int: b) = a + b;\n")
	bag := diag.NewBag(32)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("two same-named functions with different arity must not collide: %+v", bag.Items())
	}

	fName := strings.Intern("f")
	entries, ok := global.Lookup(fName)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected a 2-entry overload set for 'f', got %+v", entries)
	}
	for _, e := range entries {
		if e.Kind != scope.GlobalFunction {
			t.Fatalf("expected every entry in the overload set to be GlobalFunction, got %v", e.Kind)
		}
	}
}

func TestCollectItemResolvesGlobalReference(t *testing.T) {
	model, interners, strings := lowerSource(t, "int: n = 5;\nconstraint n > 0;\n")
	bag := diag.NewBag(32)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})

	local, _ := itemByKind(t, model, hir.ItemConstraint)
	result := scope.CollectItem(global, interners, strings, model, local, 32)
	if result.Bag.HasErrors() {
		for _, d := range result.Bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	var sawGlobal bool
	for _, res := range result.Resolutions {
		if res.Kind == scope.ResGlobalUnique {
			sawGlobal = true
		}
	}
	if !sawGlobal {
		t.Fatalf("expected the 'n' reference to resolve to the global declaration")
	}
}

// A bare identifier in case-arm position lowers to the very same
// hir.PatternIdentifier shape whether it names a fresh binding (e.g. x) or
// a reference to an already-declared enum atom (e.g. Red): this test
// confirms the collector tells the two apart instead of always declaring a
// fresh local that would shadow the atom it's meant to match.
func TestCollectItemCaseArmEnumAtomIsEqualityMatchNotBinding(t *testing.T) {
	model, interners, strings := lowerSource(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Green -> 2,
  other -> 3
endcase;
`)
	bag := diag.NewBag(32)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("unexpected global-scope diagnostics: %+v", bag.Items())
	}

	var local hir.ItemLocal
	var caseExpr *hir.Expr
	var data *hir.ItemData
	for _, l := range model.Locals() {
		it := model.Item(l)
		if it.Kind != hir.ItemDeclaration {
			continue
		}
		d := model.ItemData(l)
		if e := d.Expr(it.Value); e != nil && e.Kind == hir.ExprCase {
			local, caseExpr, data = l, e, d
			break
		}
	}
	if caseExpr == nil {
		t.Fatalf("expected to find the declaration whose value is a case expression")
	}

	result := scope.CollectItem(global, interners, strings, model, local, 32)
	if result.Bag.HasErrors() {
		for _, d := range result.Bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	if len(caseExpr.Arms) != 3 {
		t.Fatalf("expected 3 case arms, got %d", len(caseExpr.Arms))
	}
	redArm, greenArm, otherArm := caseExpr.Arms[0], caseExpr.Arms[1], caseExpr.Arms[2]

	if _, ok := result.EnumeratorPatterns[redArm.Pattern]; !ok {
		t.Fatalf("expected 'Red' arm pattern to be recorded as an enum-atom match")
	}
	if _, ok := result.EnumeratorPatterns[greenArm.Pattern]; !ok {
		t.Fatalf("expected 'Green' arm pattern to be recorded as an enum-atom match")
	}
	if _, ok := result.EnumeratorPatterns[otherArm.Pattern]; ok {
		t.Fatalf("'other' does not name a declared enum atom and must be a fresh binding, not an enum-atom match")
	}

	redPat := data.Pattern(redArm.Pattern)
	redName, _ := strings.Lookup(redPat.Name)
	if redName != "Red" {
		t.Fatalf("expected the first arm pattern to name 'Red', got %q", redName)
	}
}
