package eprimeast_test

import (
	"context"
	"testing"

	"surge/internal/diag"
	"surge/internal/eprimeast"
	"surge/internal/lexer"
	"surge/internal/source"
)

func parseSource(t *testing.T, input string) (*eprimeast.Builder, eprimeast.FileID, *diag.Bag) {
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

func TestParseGivenItem(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `given n : int(1..10)`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.IGiven {
		t.Fatalf("expected IGiven, got %v", item.Kind)
	}
	dom := arenas.Domains.Get(item.Domain)
	if dom.Kind != eprimeast.DIntRanges || len(dom.Ranges) != 1 {
		t.Fatalf("expected a single int range, got %+v", dom)
	}
}

func TestParseFindItem(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `find x : bool`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.IFind {
		t.Fatalf("expected IFind, got %v", item.Kind)
	}
	if arenas.Domains.Get(item.Domain).Kind != eprimeast.DBool {
		t.Fatalf("expected DBool domain")
	}
}

func TestParseLettingConst(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `letting n be 5`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.ILettingConst {
		t.Fatalf("expected ILettingConst, got %v", item.Kind)
	}
	val := arenas.Exprs.Get(item.Value)
	if val.Kind != eprimeast.EIntLit || val.NumText != "5" {
		t.Fatalf("expected int literal 5, got %+v", val)
	}
}

func TestParseLettingDomain(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `letting MyDom be domain int(1..3)`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.ILettingDomain {
		t.Fatalf("expected ILettingDomain, got %v", item.Kind)
	}
	if arenas.Domains.Get(item.Domain).Kind != eprimeast.DIntRanges {
		t.Fatalf("expected DIntRanges domain")
	}
}

func TestParseSuchThatMultipleConstraints(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `such that x = 1, y != 2`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	if len(file.Items) != 2 {
		t.Fatalf("expected 2 IConstraint items, got %d", len(file.Items))
	}
	for _, id := range file.Items {
		item := arenas.Items.Get(id)
		if item.Kind != eprimeast.IConstraint {
			t.Fatalf("expected IConstraint, got %v", item.Kind)
		}
	}
	first := arenas.Exprs.Get(arenas.Items.Get(file.Items[0]).Expr)
	if first.Kind != eprimeast.EInfix {
		t.Fatalf("expected infix expression, got %v", first.Kind)
	}
}

func TestParseObjective(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `minimising x + y`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.IObjective || item.Strategy != eprimeast.Minimising {
		t.Fatalf("expected minimising IObjective, got %+v", item)
	}
}

func TestParseBranchingOn(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `branching on [x, y]`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.IBranching {
		t.Fatalf("expected IBranching, got %v", item.Kind)
	}
	if len(item.BranchOn) != 2 {
		t.Fatalf("expected 2 branch-on expressions, got %d", len(item.BranchOn))
	}
}

func TestParseOutputItem(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `output x`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.IOutput {
		t.Fatalf("expected IOutput, got %v", item.Kind)
	}
	if item.Expr == eprimeast.NoExprID {
		t.Fatalf("expected IOutput to carry an expression")
	}
}

func TestParseHeuristicKeptAsItem(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `heuristic static`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	if item.Kind != eprimeast.IHeuristic {
		t.Fatalf("expected IHeuristic, got %v", item.Kind)
	}
}

func TestParseMatrixDomain(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `find m : matrix indexed by [int(1..3)] of bool`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	dom := arenas.Domains.Get(item.Domain)
	if dom.Kind != eprimeast.DMatrix || len(dom.Dims) != 1 {
		t.Fatalf("expected a 1-dimensional matrix domain, got %+v", dom)
	}
	of := arenas.Domains.Get(dom.Of)
	if of.Kind != eprimeast.DBool {
		t.Fatalf("expected bool element domain, got %v", of.Kind)
	}
}

func TestParseIndexedAccessExpr(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `such that m[1, 2] = 0`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	expr := arenas.Exprs.Get(item.Expr)
	if expr.Kind != eprimeast.EInfix {
		t.Fatalf("expected infix equality, got %v", expr.Kind)
	}
	lhs := arenas.Exprs.Get(expr.Left)
	if lhs.Kind != eprimeast.EIndexedAccess || len(lhs.Indices) != 2 {
		t.Fatalf("expected 2-index indexed access, got %+v", lhs)
	}
}

func TestParseDomainAliasReference(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `find x : MyDom`)
	requireNoErrors(t, bag)

	file := arenas.Files.Get(fileID)
	item := arenas.Items.Get(file.Items[0])
	dom := arenas.Domains.Get(item.Domain)
	if dom.Kind != eprimeast.DRef {
		t.Fatalf("expected DRef domain, got %v", dom.Kind)
	}
}

func TestParseUnexpectedTokenRecovers(t *testing.T) {
	arenas, fileID, bag := parseSource(t, `@@@ find x : bool`)
	if bag == nil || !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the stray token")
	}

	file := arenas.Files.Get(fileID)
	if len(file.Items) != 1 {
		t.Fatalf("expected recovery to still parse the trailing find item, got %d items", len(file.Items))
	}
	if arenas.Items.Get(file.Items[0]).Kind != eprimeast.IFind {
		t.Fatalf("expected IFind after recovery")
	}
}
