// Package codegen renders annotated function trees as C++ source with C
// linkage and derives the matching foreign-call signatures.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pontaoski/pyjit/ast"
	jiterrors "github.com/pontaoski/pyjit/errors"
	"github.com/pontaoski/pyjit/types"
)

var unaryOperators = map[ast.UnaryOperator]string{
	ast.UAdd:   "+",
	ast.USub:   "-",
	ast.Not:    "!",
	ast.Invert: "~",
}

// Div and FloorDiv share "/": C++ division on the declared operand types
// stands in for both.
var binaryOperators = map[ast.BinaryOperator]string{
	ast.Add:      "+",
	ast.Sub:      "-",
	ast.Mult:     "*",
	ast.Div:      "/",
	ast.FloorDiv: "/",
	ast.Mod:      "%",
	ast.LShift:   "<<",
	ast.RShift:   ">>",
	ast.BitOr:    "|",
	ast.BitXor:   "^",
	ast.BitAnd:   "&",
}

var booleanOperators = map[ast.BooleanOperator]string{
	ast.And: "&&",
	ast.Or:  "||",
}

var compareOperators = map[ast.CompareOperator]string{
	ast.Eq:    "==",
	ast.NotEq: "!=",
	ast.Lt:    "<",
	ast.LtE:   "<=",
	ast.Gt:    ">",
	ast.GtE:   ">=",
}

func unsupportedExpression(e ast.Expression) error {
	return jiterrors.UnsupportedExpression{Kind: ast.Kind(e), Location: ast.PosOf(e)}
}

// RenderExpression renders e as a C++ expression. Every operator node is
// wrapped in parentheses so C++ precedence never changes its meaning.
func RenderExpression(e ast.Expression) (string, error) {
	switch expr := e.(type) {
	case ast.Identifier:
		// Type names used as values are casts: float(x) becomes double(x).
		if t, err := types.NativeType(expr.Name); err == nil {
			return t.Keyword(), nil
		}
		if err := checkName(expr.Name, expr.Pos); err != nil {
			return "", err
		}
		return expr.Name, nil
	case ast.Target:
		if err := checkTarget(expr); err != nil {
			return "", err
		}
		return expr.Name, nil
	case ast.Lit:
		return renderLiteral(expr)
	case ast.UnaryOp:
		op, ok := unaryOperators[expr.Op]
		if !ok {
			return "", unsupportedExpression(expr)
		}
		operand, err := RenderExpression(expr.Operand)
		if err != nil {
			return "", jiterrors.Within(err, "operand")
		}
		return "(" + op + operand + ")", nil
	case ast.BinaryOp:
		op, ok := binaryOperators[expr.Op]
		if !ok {
			return "", unsupportedExpression(expr)
		}
		return renderInfix(expr.Left, op, expr.Right)
	case ast.BooleanOp:
		op, ok := booleanOperators[expr.Op]
		if !ok {
			return "", unsupportedExpression(expr)
		}
		return renderInfix(expr.Left, op, expr.Right)
	case ast.Comparison:
		op, ok := compareOperators[expr.Op]
		if !ok {
			return "", unsupportedExpression(expr)
		}
		return renderInfix(expr.Left, op, expr.Right)
	case ast.Call:
		fn, err := RenderExpression(expr.Function)
		if err != nil {
			return "", jiterrors.Within(err, "func")
		}
		args := make([]string, 0, len(expr.Arguments))
		for i, arg := range expr.Arguments {
			rendered, err := RenderExpression(arg)
			if err != nil {
				return "", jiterrors.Within(err, fmt.Sprintf("args[%d]", i))
			}
			args = append(args, rendered)
		}
		return fn + "(" + strings.Join(args, ", ") + ")", nil
	default:
		return "", unsupportedExpression(e)
	}
}

func renderInfix(left ast.Expression, op string, right ast.Expression) (string, error) {
	l, err := RenderExpression(left)
	if err != nil {
		return "", jiterrors.Within(err, "left")
	}
	r, err := RenderExpression(right)
	if err != nil {
		return "", jiterrors.Within(err, "right")
	}
	return "(" + l + " " + op + " " + r + ")", nil
}

func renderLiteral(l ast.Lit) (string, error) {
	switch v := l.Literal.(type) {
	case ast.Boolean:
		// Python spells these True/False; C++ does not.
		if v {
			return "true", nil
		}
		return "false", nil
	case ast.Integer:
		if v == math.MinInt64 {
			// 9223372036854775808 alone does not fit a signed literal.
			return "(-9223372036854775807 - 1)", nil
		}
		s := strconv.FormatInt(int64(v), 10)
		if v < 0 {
			s = "(" + s + ")"
		}
		return s, nil
	case ast.Float:
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", jiterrors.UnsupportedExpression{Kind: fmt.Sprintf("Constant(%v)", f), Location: l.Pos}
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		if f < 0 || (f == 0 && math.Signbit(f)) {
			s = "(" + s + ")"
		}
		return s, nil
	default:
		return "", unsupportedExpression(l)
	}
}
