package ast

import (
	"surge/internal/source"
	"testing"
)

func TestBuilderRoundTripsAnExpressionTree(t *testing.T) {
	b := NewBuilder(Hints{}, nil)

	fileID := b.NewFile(source.Span{})
	xName := b.Intern("x")
	xExpr := b.NewExpr(Expr{Kind: EIdent, Name: xName})
	oneExpr := b.NewExpr(Expr{Kind: EIntLit, NumText: "1"})
	opName := b.Intern("+")
	addExpr := b.NewExpr(Expr{Kind: EInfix, Op: opName, Left: xExpr, Right: oneExpr})

	pat := b.NewPattern(Pattern{Kind: PIdent, Name: xName})
	item := b.NewItem(Item{Kind: IAssignment, Name: xName, Pattern: pat, Value: addExpr})
	b.PushItem(fileID, item)

	file := b.Files.Get(fileID)
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item in file, got %d", len(file.Items))
	}
	got := b.Items.Get(file.Items[0])
	if got.Kind != IAssignment {
		t.Fatalf("expected IAssignment, got %v", got.Kind)
	}
	value := b.Exprs.Get(got.Value)
	if value.Kind != EInfix {
		t.Fatalf("expected EInfix, got %v", value.Kind)
	}
	if b.Exprs.Get(value.Left).Kind != EIdent || b.Exprs.Get(value.Right).Kind != EIntLit {
		t.Fatalf("expected infix(ident, intlit), got (%v, %v)",
			b.Exprs.Get(value.Left).Kind, b.Exprs.Get(value.Right).Kind)
	}
}

func TestTypeExprArenaStability(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	elemID := b.NewType(TypeExpr{Kind: TPrimitiveInt})
	arrID := b.NewType(TypeExpr{Kind: TArrayOf, Indices: []TypeID{elemID}, Of: elemID})
	if b.Types.Get(arrID).Of != elemID {
		t.Fatalf("expected array element type id to remain stable")
	}
}
