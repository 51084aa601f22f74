package hir

import "testing"

func TestModelAddItemAssignsStableLocals(t *testing.T) {
	m := NewModel(7)

	local1, data1 := m.AddItem(Item{Kind: ItemAssignment, Name: 1})
	local2, data2 := m.AddItem(Item{Kind: ItemConstraint})

	if local1 == NoItemLocal || local2 == NoItemLocal || local1 == local2 {
		t.Fatalf("expected distinct non-zero locals, got %d and %d", local1, local2)
	}

	id := data1.AllocExpr(Expr{Kind: ExprIntLit, IntValue: 1})
	if got := data1.Expr(id); got == nil || got.IntValue != 1 {
		t.Fatalf("expected to read back the allocated expression, got %+v", got)
	}

	// An id obtained before further allocation still refers to the same
	// expression afterward (arena stability).
	_ = data2.AllocExpr(Expr{Kind: ExprMissing})
	if got := data1.Expr(id); got == nil || got.IntValue != 1 {
		t.Fatalf("expression id did not remain stable across unrelated allocations")
	}

	if m.Item(local1).Kind != ItemAssignment {
		t.Fatalf("expected item 1 to be an assignment")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", m.Len())
	}
}

func TestSourceMapTotalityForEveryAllocatedEntity(t *testing.T) {
	in := NewInterners()
	m := NewModel(1)
	sm := NewSourceMap()

	local, data := m.AddItem(Item{Kind: ItemDeclaration})
	item := in.InternItem(m.Ref, local)
	sm.InsertItem(item, NewSyntheticOrigin("declaration"))

	exprID := data.AllocExpr(Expr{Kind: ExprIntLit, IntValue: 42})
	sm.InsertExpr(item, exprID, NewSyntheticOrigin("int literal"))

	if _, ok := sm.Item(item); !ok {
		t.Fatalf("expected source map entry for item")
	}
	if _, ok := sm.Expr(item, exprID); !ok {
		t.Fatalf("expected source map entry for expression %d", exprID)
	}
	if sm.Len() != 2 {
		t.Fatalf("expected 2 source map entries, got %d", sm.Len())
	}
}

func TestCountEntitiesSumsAcrossItems(t *testing.T) {
	m := NewModel(1)
	_, d1 := m.AddItem(Item{Kind: ItemDeclaration})
	d1.AllocExpr(Expr{Kind: ExprIntLit})
	_, d2 := m.AddItem(Item{Kind: ItemConstraint})
	d2.AllocExpr(Expr{Kind: ExprBoolLit})
	d2.AllocExpr(Expr{Kind: ExprBoolLit})

	counts := CountEntities(m)
	if counts.Declarations != 1 || counts.Constraints != 1 {
		t.Fatalf("unexpected item counts: %+v", counts)
	}
	if counts.Expressions != 3 {
		t.Fatalf("expected 3 total expressions, got %d", counts.Expressions)
	}
}
