package exhaust_test

import (
	"context"
	"testing"

	"surge/internal/ast"
	"surge/internal/check"
	"surge/internal/diag"
	"surge/internal/exhaust"
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

// exhaustCheck runs the full scope+check+exhaust pipeline over a single-
// model source and returns every diagnostic the exhaustiveness pass itself
// raised (scope/type diagnostics are asserted clean, not returned).
func exhaustCheck(t *testing.T, input string) *diag.Bag {
	t.Helper()
	model, interners, strings := lowerSource(t, input)

	globalBag := diag.NewBag(64)
	global := scope.CollectGlobal([]*hir.Model{model}, strings, &diag.BagReporter{Bag: globalBag})
	if globalBag.HasErrors() {
		for _, d := range globalBag.Items() {
			t.Fatalf("unexpected global-scope diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	modelScope := scope.CollectModel(global, interners, strings, model, 64)

	sigBag := diag.NewBag(64)
	interner := check.NewInterner()
	sigs := check.CollectSignatures([]*hir.Model{model}, global, interner, strings, &diag.BagReporter{Bag: sigBag})
	if sigBag.HasErrors() {
		for _, d := range sigBag.Items() {
			t.Fatalf("unexpected signature diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	checkResult := check.CheckModel(sigs, global, interner, strings, interners, modelScope, model, 64)
	for local, item := range checkResult.Items {
		if item != nil && item.Bag.HasErrors() {
			for _, d := range item.Bag.Items() {
				t.Errorf("unexpected type-check diagnostic on item %d: [%s] %s", local, d.Code.ID(), d.Message)
			}
		}
	}

	exhaustResult := exhaust.CheckModel([]*hir.Model{model}, interner, strings, modelScope, checkResult, model, 64)

	out := diag.NewBag(128)
	for _, item := range exhaustResult.Items {
		if item != nil {
			out.Merge(item.Bag)
		}
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestExhaustExhaustiveCaseReportsNothing(t *testing.T) {
	bag := exhaustCheck(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Green -> 2,
  Blue -> 3
endcase;
`)
	if bag.HasErrors() || len(bag.Items()) != 0 {
		t.Fatalf("expected no exhaustiveness diagnostics, got %+v", bag.Items())
	}
}

func TestExhaustMissingConstructorIsReported(t *testing.T) {
	bag := exhaustCheck(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Green -> 2
endcase;
`)
	if !hasCode(bag, diag.NonExhaustiveCase) {
		t.Fatalf("expected NonExhaustiveCase for a case missing 'Blue', got %+v", bag.Items())
	}
}

func TestExhaustCatchAllBindingCoversRemainingConstructors(t *testing.T) {
	bag := exhaustCheck(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  other -> 0
endcase;
`)
	if hasCode(bag, diag.NonExhaustiveCase) {
		t.Fatalf("a catch-all binding arm should make the case exhaustive, got %+v", bag.Items())
	}
}

func TestExhaustArmAfterCatchAllIsUnreachable(t *testing.T) {
	bag := exhaustCheck(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  other -> 0,
  Blue -> 3
endcase;
`)
	if !hasCode(bag, diag.UnreachableArm) {
		t.Fatalf("expected UnreachableArm for the arm following a catch-all, got %+v", bag.Items())
	}
	if hasCode(bag, diag.NonExhaustiveCase) {
		t.Fatalf("a catch-all arm already makes the case exhaustive, got %+v", bag.Items())
	}
}

func TestExhaustDuplicateConstructorArmIsUnreachable(t *testing.T) {
	bag := exhaustCheck(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Red -> 2,
  Green -> 3,
  Blue -> 4
endcase;
`)
	if !hasCode(bag, diag.UnreachableArm) {
		t.Fatalf("expected UnreachableArm for the second 'Red' arm, got %+v", bag.Items())
	}
}

func TestExhaustNonEnumScrutineeIsNotChecked(t *testing.T) {
	bag := exhaustCheck(t, `
int: n = 1;
int: x = case n of
  other -> 0
endcase;
`)
	if len(bag.Items()) != 0 {
		t.Fatalf("expected no exhaustiveness diagnostics for a non-enum scrutinee, got %+v", bag.Items())
	}
}
