package codegen

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pontaoski/pyjit/ast"
	jiterrors "github.com/pontaoski/pyjit/errors"
	"github.com/pontaoski/pyjit/types"
)

func TestRenderExpression(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"identifier", name("delta"), "delta"},
		{"float type name", call("float", name("n")), "double(n)"},
		{"int type name", call("int", name("x")), "int(x)"},
		{"target", target("res"), "res"},
		{"integer", integer(42), "42"},
		{"negative integer", integer(-3), "(-3)"},
		{"smallest integer", integer(math.MinInt64), "(-9223372036854775807 - 1)"},
		{"largest integer", integer(math.MaxInt64), "9223372036854775807"},
		{"tiny float", float(1e-30), "1e-30"},
		{"integral float", float(1), "1.0"},
		{"fraction", float(0.5), "0.5"},
		{"true", boolean(true), "true"},
		{"false", boolean(false), "false"},
		{"negation", ast.UnaryOp{Op: ast.USub, Operand: name("x")}, "(-x)"},
		{"unary plus", ast.UnaryOp{Op: ast.UAdd, Operand: name("x")}, "(+x)"},
		{"not", ast.UnaryOp{Op: ast.Not, Operand: name("ok")}, "(!ok)"},
		{"invert", ast.UnaryOp{Op: ast.Invert, Operand: name("m")}, "(~m)"},
		{"double negation", ast.UnaryOp{Op: ast.USub, Operand: ast.UnaryOp{Op: ast.USub, Operand: integer(1)}}, "(-(-1))"},
		{"add", bin(integer(2), ast.Add, integer(2)), "(2 + 2)"},
		{"sub", bin(name("n"), ast.Sub, integer(1)), "(n - 1)"},
		{"mult", bin(name("a"), ast.Mult, name("b")), "(a * b)"},
		{"div", bin(name("a"), ast.Div, name("b")), "(a / b)"},
		{"floor div", bin(name("a"), ast.FloorDiv, name("b")), "(a / b)"},
		{"mod", bin(name("a"), ast.Mod, name("b")), "(a % b)"},
		{"lshift", bin(name("a"), ast.LShift, integer(2)), "(a << 2)"},
		{"rshift", bin(name("a"), ast.RShift, integer(2)), "(a >> 2)"},
		{"bitor", bin(name("a"), ast.BitOr, name("b")), "(a | b)"},
		{"bitxor", bin(name("a"), ast.BitXor, name("b")), "(a ^ b)"},
		{"bitand", bin(name("a"), ast.BitAnd, name("b")), "(a & b)"},
		{"and", ast.BooleanOp{Left: name("a"), Op: ast.And, Right: name("b")}, "(a && b)"},
		{"or", ast.BooleanOp{Left: name("a"), Op: ast.Or, Right: boolean(false)}, "(a || false)"},
		{"eq", cmp(name("a"), ast.Eq, name("b")), "(a == b)"},
		{"noteq", cmp(name("a"), ast.NotEq, name("b")), "(a != b)"},
		{"lt", cmp(name("a"), ast.Lt, name("b")), "(a < b)"},
		{"lte", cmp(name("a"), ast.LtE, name("b")), "(a <= b)"},
		{"gt", cmp(name("a"), ast.Gt, name("b")), "(a > b)"},
		{"gte", cmp(name("a"), ast.GtE, name("b")), "(a >= b)"},
		{"call no args", call("seed"), "seed()"},
		{"call in order", call("f", integer(1), name("b"), bin(name("c"), ast.Add, integer(1))), "f(1, b, (c + 1))"},
		{"nested", bin(bin(name("delta"), ast.Mult, name("x")), ast.Div, name("elements")), "((delta * x) / elements)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderExpression(tt.expr)
			if err != nil {
				t.Fatalf("RenderExpression failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBooleanLiteralsNeverUseHostSpelling(t *testing.T) {
	expr := ast.BooleanOp{
		Left:  boolean(true),
		Op:    ast.Or,
		Right: ast.UnaryOp{Op: ast.Not, Operand: boolean(false)},
	}
	got, err := RenderExpression(expr)
	if err != nil {
		t.Fatalf("RenderExpression failed: %v", err)
	}
	if strings.Contains(got, "True") || strings.Contains(got, "False") {
		t.Errorf("host boolean spelling leaked into %q", got)
	}
	if got != "(true || (!false))" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestOperatorNodesAreParenthesized(t *testing.T) {
	exprs := []ast.Expression{
		bin(name("a"), ast.Add, bin(name("b"), ast.Mult, name("c"))),
		ast.BooleanOp{Left: cmp(name("a"), ast.Lt, name("b")), Op: ast.And, Right: cmp(name("b"), ast.Lt, name("c"))},
		cmp(bin(name("a"), ast.BitAnd, integer(1)), ast.Eq, integer(0)),
	}
	for _, e := range exprs {
		got, err := RenderExpression(e)
		if err != nil {
			t.Fatalf("RenderExpression failed: %v", err)
		}
		if !strings.HasPrefix(got, "(") || !strings.HasSuffix(got, ")") {
			t.Errorf("%q is not wrapped in parentheses", got)
		}
		depth := 0
		for i, r := range got {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 && i != len(got)-1 {
				t.Errorf("outer parentheses of %q close early at %d", got, i)
				break
			}
		}
		if depth != 0 {
			t.Errorf("unbalanced parentheses in %q", got)
		}
	}
}

func TestRenderExpressionUnsupported(t *testing.T) {
	pos := types.SingleCharSpan(types.Position{Line: 7, Column: 12, Filename: "mod.py"})
	tests := []struct {
		name string
		expr ast.Expression
		kind string
		path string
	}{
		{"nil", nil, "<nil>", ""},
		{"opaque", ast.Opaque{Kind: "Subscript", Pos: pos}, "Subscript", ""},
		{"string literal", ast.Lit{Literal: ast.String("hi"), Pos: pos}, "Constant(str)", ""},
		{"power", bin(name("a"), ast.Pow, integer(2)), "BinOp(Pow)", ""},
		{"matmult", bin(name("a"), ast.MatMult, name("b")), "BinOp(MatMult)", ""},
		{"is", cmp(name("a"), ast.Is, name("b")), "Compare(Is)", ""},
		{"in", cmp(name("a"), ast.In, name("b")), "Compare(In)", ""},
		{"nested left", bin(ast.Opaque{Kind: "Attribute"}, ast.Add, integer(1)), "Attribute", "left"},
		{"call argument", call("f", integer(1), ast.Opaque{Kind: "Lambda"}), "Lambda", "args[1]"},
		{"unary operand", ast.UnaryOp{Op: ast.USub, Operand: ast.Opaque{Kind: "List"}}, "List", "operand"},
		{"keyword identifier", name("new"), "Name(new, C++ keyword)", ""},
		{"keyword target", target("class"), "Name(class, C++ keyword)", ""},
		{"keyword callee", call("delete", integer(1)), "Name(delete, C++ keyword)", "func"},
		{"keyword operand", bin(name("a"), ast.Add, name("this")), "Name(this, C++ keyword)", "right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderExpression(tt.expr)
			var unsupported jiterrors.UnsupportedExpression
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected UnsupportedExpression, got %v", err)
			}
			if unsupported.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, unsupported.Kind)
			}
			if got := jiterrors.PathOf(err); got != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, got)
			}
		})
	}
}

func TestUnsupportedExpressionCarriesLocation(t *testing.T) {
	pos := types.SingleCharSpan(types.Position{Line: 7, Column: 12, Filename: "mod.py"})
	_, err := RenderExpression(ast.Opaque{Kind: "Subscript", Pos: pos})
	if err == nil || !strings.Contains(err.Error(), "mod.py:7:12") {
		t.Errorf("expected the location in %v", err)
	}
}
