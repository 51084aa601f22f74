package hirvalidate_test

import (
	"context"
	"testing"

	"surge/internal/ast"
	"surge/internal/diag"
	"surge/internal/hir"
	"surge/internal/hirvalidate"
	"surge/internal/lexer"
	"surge/internal/lower"
	"surge/internal/parser"
	"surge/internal/source"
)

func lowerSource(t *testing.T, input string) (*hir.Model, *hir.SourceMap, *hir.Interners) {
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
	model, sm, _ := lower.LowerModel(hir.ModelRef(fileID), fs, arenas, res.File, interners, lowerRep)
	if lowerBag.HasErrors() {
		for _, d := range lowerBag.Items() {
			t.Fatalf("unexpected lowering diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
	return model, sm, interners
}

func TestCheckModelAcceptsWellFormedModel(t *testing.T) {
	model, sm, interners := lowerSource(t, `
enum Color = {Red, Green, Blue};
Color: c = Red;
int: x = case c of
  Red -> 1,
  Green -> 2,
  Blue -> 3
endcase;
constraint x > 0;
solve satisfy;
`)

	result := hirvalidate.CheckModel(interners, sm, model, 64)
	if result.Bag.HasErrors() {
		for _, d := range result.Bag.Items() {
			t.Errorf("unexpected validation diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
}

func TestCheckModelReportsOutOfRangeExpressionReference(t *testing.T) {
	model, sm, interners := lowerSource(t, `int: x = 1;`)

	var target hir.ItemLocal
	for _, local := range model.Locals() {
		if it := model.Item(local); it != nil && it.Kind == hir.ItemDeclaration {
			target = local
			break
		}
	}
	if target == 0 {
		t.Fatalf("expected to find the 'x' declaration item")
	}
	data := model.ItemData(target)
	bogus := hir.ExpressionId(data.Exprs.Len() + 100)
	data.Exprs.Allocate(hir.Expr{Kind: hir.ExprCall, Args: []hir.ExpressionId{bogus}})

	result := hirvalidate.CheckModel(interners, sm, model, 64)
	if !result.Bag.HasErrors() {
		t.Fatalf("expected a HirInvariant diagnostic for the dangling expression id")
	}
	found := false
	for _, d := range result.Bag.Items() {
		if d.Code == diag.HirInvariant {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.HirInvariant among %+v", result.Bag.Items())
	}
}
