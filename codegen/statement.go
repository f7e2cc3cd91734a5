package codegen

import (
	"fmt"
	"strings"

	"github.com/pontaoski/pyjit/ast"
	jiterrors "github.com/pontaoski/pyjit/errors"
	"github.com/pontaoski/pyjit/types"
)

const indentUnit = "    "

// RenderBody renders stmts one per line, indented level units. Nothing is
// returned for a body that fails part way.
func RenderBody(stmts []ast.Statement, level int) (string, error) {
	var b strings.Builder
	if err := writeBody(&b, stmts, level, "body"); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeBody(b *strings.Builder, stmts []ast.Statement, level int, label string) error {
	for i, stmt := range stmts {
		if err := writeStatement(b, stmt, level); err != nil {
			return jiterrors.Within(err, fmt.Sprintf("%s[%d]", label, i))
		}
	}
	return nil
}

func resolveAnnotation(a ast.Annotation) (types.DeclaredType, error) {
	t, err := types.NativeType(a.Name)
	if err != nil {
		return 0, jiterrors.UnsupportedType{Name: a.Name, Location: a.Pos}
	}
	return t, nil
}

func unsupportedStatement(s ast.Statement) error {
	return jiterrors.UnsupportedStatement{Kind: ast.Kind(s), Location: ast.PosOf(s)}
}

func writeStatement(b *strings.Builder, s ast.Statement, level int) error {
	indent := strings.Repeat(indentUnit, level)

	switch stmt := s.(type) {
	case ast.AnnotatedDeclaration:
		if err := checkTarget(stmt.Target); err != nil {
			return jiterrors.Within(err, "target")
		}
		t, err := resolveAnnotation(stmt.Annotation)
		if err != nil {
			return jiterrors.Within(err, "annotation")
		}
		value, err := RenderExpression(stmt.Value)
		if err != nil {
			return jiterrors.Within(err, "value")
		}
		fmt.Fprintf(b, "%s%s %s = %s;\n", indent, t.Keyword(), stmt.Target.Name, value)
	case ast.Assignment:
		if len(stmt.Targets) != 1 {
			return jiterrors.MalformedChainedAssignment{Targets: len(stmt.Targets), Location: stmt.Pos}
		}
		target, err := RenderExpression(stmt.Targets[0])
		if err != nil {
			return jiterrors.Within(err, "targets[0]")
		}
		value, err := RenderExpression(stmt.Value)
		if err != nil {
			return jiterrors.Within(err, "value")
		}
		fmt.Fprintf(b, "%s%s = %s;\n", indent, target, value)
	case ast.AugmentedAssignment:
		target, err := RenderExpression(stmt.Target)
		if err != nil {
			return jiterrors.Within(err, "target")
		}
		value, err := RenderExpression(stmt.Value)
		if err != nil {
			return jiterrors.Within(err, "value")
		}
		switch op := stmt.Op.(type) {
		case ast.BinaryOperator:
			sign, ok := binaryOperators[op]
			if !ok {
				return unsupportedStatement(stmt)
			}
			fmt.Fprintf(b, "%s%s %s= %s;\n", indent, target, sign, value)
		case ast.BooleanOperator:
			sign, ok := booleanOperators[op]
			if !ok {
				return unsupportedStatement(stmt)
			}
			// C++ has no &&= or ||=.
			fmt.Fprintf(b, "%s%s = (%s %s %s);\n", indent, target, target, sign, value)
		default:
			return unsupportedStatement(stmt)
		}
	case ast.Return:
		if stmt.Value == nil {
			return jiterrors.UnsupportedStatement{Kind: "Return(None)", Location: stmt.Pos}
		}
		value, err := RenderExpression(stmt.Value)
		if err != nil {
			return jiterrors.Within(err, "value")
		}
		fmt.Fprintf(b, "%sreturn %s;\n", indent, value)
	case ast.Conditional:
		b.WriteString(indent)
		return writeConditional(b, stmt, level)
	case ast.Loop:
		cond, err := RenderExpression(stmt.Condition)
		if err != nil {
			return jiterrors.Within(err, "test")
		}
		fmt.Fprintf(b, "%swhile (%s) {\n", indent, cond)
		if err := writeBody(b, stmt.Body, level+1, "body"); err != nil {
			return err
		}
		b.WriteString(indent + "}\n")
	default:
		return unsupportedStatement(s)
	}
	return nil
}

// writeConditional expects the indentation of the first line to be written
// already, so an elif can continue on the line of the closing brace.
func writeConditional(b *strings.Builder, stmt ast.Conditional, level int) error {
	indent := strings.Repeat(indentUnit, level)

	cond, err := RenderExpression(stmt.Condition)
	if err != nil {
		return jiterrors.Within(err, "test")
	}
	fmt.Fprintf(b, "if (%s) {\n", cond)
	if err := writeBody(b, stmt.Then, level+1, "then"); err != nil {
		return err
	}

	if len(stmt.Else) == 0 {
		b.WriteString(indent + "}\n")
		return nil
	}

	if len(stmt.Else) == 1 {
		if elif, ok := stmt.Else[0].(ast.Conditional); ok {
			b.WriteString(indent + "} else ")
			return jiterrors.Within(writeConditional(b, elif, level), "else[0]")
		}
	}

	b.WriteString(indent + "} else {\n")
	if err := writeBody(b, stmt.Else, level+1, "else"); err != nil {
		return err
	}
	b.WriteString(indent + "}\n")
	return nil
}
