package ast

import (
	"testing"

	"github.com/pontaoski/pyjit/types"
)

func TestParseOperators(t *testing.T) {
	for op, name := range binaryNames {
		got, ok := ParseBinaryOperator(name)
		if !ok || got != op {
			t.Errorf("ParseBinaryOperator(%q): expected %v, got %v", name, op, got)
		}
	}
	for op, name := range compareNames {
		got, ok := ParseCompareOperator(name)
		if !ok || got != op {
			t.Errorf("ParseCompareOperator(%q): expected %v, got %v", name, op, got)
		}
	}
	if _, ok := ParseBinaryOperator("And"); ok {
		t.Error("a boolean operator parsed as binary")
	}
	if _, ok := ParseUnaryOperator("Neg"); ok {
		t.Error("unknown unary operator accepted")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		node interface{}
		want string
	}{
		{nil, "<nil>"},
		{Identifier{Name: "x"}, "Name"},
		{Target{Name: "x"}, "Name(store)"},
		{Lit{Literal: Float(1)}, "Constant"},
		{Lit{Literal: String("s")}, "Constant(str)"},
		{BinaryOp{Op: Pow}, "BinOp(Pow)"},
		{Comparison{Op: NotIn}, "Compare(NotIn)"},
		{BooleanOp{Op: Or}, "BoolOp(Or)"},
		{AugmentedAssignment{Op: FloorDiv}, "AugAssign(FloorDiv)"},
		{Opaque{Kind: "Lambda"}, "Lambda"},
		{OpaqueStatement{Kind: "For"}, "For"},
		{Loop{}, "While"},
	}
	for _, tt := range tests {
		if got := Kind(tt.node); got != tt.want {
			t.Errorf("Kind(%#v): expected %s, got %s", tt.node, tt.want, got)
		}
	}
}

func TestPosOf(t *testing.T) {
	span := types.SingleCharSpan(types.Position{Line: 3, Column: 5, Filename: "m.py"})
	if got := PosOf(Return{Pos: span}); got != span {
		t.Errorf("expected %v, got %v", span, got)
	}
	var fn *Function
	if got := PosOf(fn); !got.IsZero() {
		t.Errorf("expected the zero span for a nil function, got %v", got)
	}
}
