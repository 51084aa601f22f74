package check_test

import (
	"context"
	"testing"

	"surge/internal/ast"
	"surge/internal/check"
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

// checkOne runs the full signature+body pipeline over a single-model source
// and returns the per-item results alongside the signature set, for tests
// that need to inspect more than one item.
func checkOne(t *testing.T, input string) (*hir.Model, *check.SignatureSet, *check.Interner, *check.ModelCheckResult, *diag.Bag) {
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

	bag := diag.NewBag(256)
	result := check.CheckModel(sigs, global, interner, strings, interners, modelScope, model, 64)
	for _, local := range model.Locals() {
		item := result.Items[local]
		if item == nil {
			continue
		}
		bag.Merge(item.Bag)
	}
	bag.Merge(sigBag)
	return model, sigs, interner, result, bag
}

func TestCheckDeclarationValueMatchesDeclaredType(t *testing.T) {
	_, _, _, _, bag := checkOne(t, "int: n = 5;\n")
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
}

func TestCheckConstraintRejectsNonBoolBody(t *testing.T) {
	_, _, _, _, bag := checkOne(t, "constraint 5;\n")
	if !bag.HasErrors() {
		t.Fatalf("expected a TypeMismatch for a constraint whose body is an int literal")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.TypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TypeMismatch among reported diagnostics, got %+v", bag.Items())
	}
}

func TestCheckFunctionOverloadResolvesByArity(t *testing.T) {
	_, _, _, _, bag := checkOne(t, `
function int: f(int: a) = a;
function int: f(int: a, int: b) = a;
int: x = f(1);
int: y = f(1, 2);
`)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
}

func TestCheckCallWithNoApplicableOverloadIsPoisoned(t *testing.T) {
	_, _, _, _, bag := checkOne(t, `
function int: f(int: a) = a;
bool: b = f(1, 2, 3);
`)
	if !bag.HasErrors() {
		t.Fatalf("expected a NoApplicableOverload diagnostic")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.NoApplicableOverload {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected NoApplicableOverload among reported diagnostics, got %+v", bag.Items())
	}
}

func TestCheckEnumCaseIdentifierResolvesToEnumType(t *testing.T) {
	model, sigs, interner, result, bag := checkOne(t, "enum Color = {Red, Green, Blue};\nColor: c = Red;\n")
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}

	declLocal, declItem := itemByKind(t, model, hir.ItemDeclaration)
	sig, ok := sigs.Lookup(hir.ItemKey{Model: model.Ref, Local: declLocal})
	if !ok {
		t.Fatalf("expected a signature for the 'c' declaration")
	}
	sigTy, _ := interner.Lookup(sig.ReturnType)
	if sigTy.Kind != check.KindEnum {
		t.Fatalf("expected 'Color' declaration to have KindEnum, got %v", sigTy.Kind)
	}

	itemResult := result.Items[declLocal]
	if itemResult == nil {
		t.Fatalf("expected a check result for the 'c' declaration item")
	}
	valueType, ok := itemResult.Types[declItem.Value]
	if !ok {
		t.Fatalf("expected the declaration's value expression to have a checked type")
	}
	if !interner.Equal(valueType, sig.ReturnType) {
		t.Fatalf("expected 'Red' to check as the same enum type as its declared type")
	}
}

func TestCheckIfThenElseBranchMismatchIsPoisoned(t *testing.T) {
	_, _, _, _, bag := checkOne(t, `
bool: cond = true;
int: x = if cond then 1 else true endif;
`)
	if !bag.HasErrors() {
		t.Fatalf("expected a TypeMismatch for if-then-else branches of differing type")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.TypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TypeMismatch among reported diagnostics, got %+v", bag.Items())
	}
}
