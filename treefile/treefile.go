// Package treefile reads the annotated tree produced by the upstream Python
// parser. The document is YAML or JSON shaped after Python's ast module: a
// Module node whose body holds FunctionDef nodes, or a single FunctionDef.
//
// Node kinds outside the supported subset decode to ast.Opaque and
// ast.OpaqueStatement so that code generation reports them with their
// position instead of the decoder guessing.
package treefile

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/pyjit/ast"
	"github.com/pontaoski/pyjit/logger"
	"github.com/pontaoski/pyjit/types"
)

// MalformedTree is returned for documents that are valid YAML but cannot be
// a parser tree.
type MalformedTree struct {
	Reason   string
	Location types.Span
}

func (e MalformedTree) Error() string {
	return fmt.Sprintf("malformed tree: %s at %s", e.Reason, e.Location)
}

type decoder struct {
	filename string
}

// DecodeFile reads and decodes the tree file at path.
func DecodeFile(path string) ([]*ast.Function, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return Decode(data, path)
}

// Decode decodes a tree document. filename is recorded in every span.
func Decode(data []byte, filename string) ([]*ast.Function, error) {
	var root rawNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, tracerr.Wrap(fmt.Errorf("%s: %w", filename, err))
	}

	d := decoder{filename: filename}

	var defs []*rawNode
	switch root.kind() {
	case "FunctionDef":
		defs = []*rawNode{&root}
	case "Module", "":
		for _, n := range root.Body {
			if n == nil {
				continue
			}
			if n.kind() != "FunctionDef" {
				logger.Debug("skipping top-level node", "kind", n.kind(), "at", d.span(n).String())
				continue
			}
			defs = append(defs, n)
		}
	default:
		return nil, MalformedTree{Reason: "root is a " + root.kind() + " node", Location: d.span(&root)}
	}

	fns := make([]*ast.Function, 0, len(defs))
	for _, n := range defs {
		fn, err := d.function(n)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

func (d decoder) position(line, col int) types.Position {
	// col_offset counts from zero.
	return types.Position{Line: line, Column: col + 1, Filename: d.filename}
}

func (d decoder) span(n *rawNode) types.Span {
	from := d.position(n.Lineno, n.ColOffset)
	if n.EndLineno == 0 {
		return types.SingleCharSpan(from)
	}
	return types.Span{From: from, To: d.position(n.EndLineno, n.EndColOffset)}
}

func (d decoder) annotation(a *rawAnnotation, fallback types.Span) ast.Annotation {
	if a == nil {
		return ast.Annotation{Pos: fallback}
	}
	pos := fallback
	if a.Lineno != 0 {
		pos = types.SingleCharSpan(d.position(a.Lineno, a.ColOffset))
	}
	return ast.Annotation{Name: a.Name, Pos: pos}
}

func (d decoder) function(n *rawNode) (*ast.Function, error) {
	pos := d.span(n)
	if n.Name == "" {
		return nil, MalformedTree{Reason: "function without a name", Location: pos}
	}
	if len(n.Args.Extra) > 0 {
		return nil, MalformedTree{
			Reason:   fmt.Sprintf("function %s uses %s", n.Name, strings.Join(n.Args.Extra, ", ")),
			Location: pos,
		}
	}

	fn := &ast.Function{
		Name:    n.Name,
		Returns: d.annotation(n.Returns, pos),
		Body:    d.statements(n.Body),
		Pos:     pos,
	}
	for _, a := range n.Args.List {
		if a == nil {
			continue
		}
		ppos := d.span(a)
		fn.Params = append(fn.Params, ast.Param{
			Name:       a.Arg,
			Annotation: d.annotation(a.Annotation, ppos),
			Pos:        ppos,
		})
	}
	return fn, nil
}

func (d decoder) statements(nodes []*rawNode) []ast.Statement {
	if len(nodes) == 0 {
		return nil
	}
	stmts := make([]ast.Statement, 0, len(nodes))
	for _, n := range nodes {
		stmts = append(stmts, d.statement(n))
	}
	return stmts
}

func (d decoder) statement(n *rawNode) ast.Statement {
	if n == nil {
		return nil
	}
	pos := d.span(n)
	kind := n.kind()

	switch kind {
	case "AnnAssign":
		if n.Target == nil || n.Target.kind() != "Name" {
			return ast.OpaqueStatement{Kind: "AnnAssign(" + d.kindOf(n.Target) + ")", Pos: pos}
		}
		if n.Value == nil {
			return ast.OpaqueStatement{Kind: "AnnAssign(no value)", Pos: pos}
		}
		return ast.AnnotatedDeclaration{
			Target:     ast.Target{Name: n.Target.ID, Pos: d.span(n.Target)},
			Annotation: d.annotation(n.Annotation, pos),
			Value:      d.value(n.Value, pos),
			Pos:        pos,
		}
	case "Assign":
		targets := make([]ast.Expression, 0, len(n.Targets))
		for _, t := range n.Targets {
			targets = append(targets, d.target(t))
		}
		return ast.Assignment{Targets: targets, Value: d.value(n.Value, pos), Pos: pos}
	case "AugAssign":
		name := d.opName(n.Op)
		var op ast.AugmentedOperator
		if b, ok := ast.ParseBinaryOperator(name); ok {
			op = b
		} else if b, ok := ast.ParseBooleanOperator(name); ok {
			op = b
		} else {
			return ast.OpaqueStatement{Kind: "AugAssign(" + name + ")", Pos: pos}
		}
		return ast.AugmentedAssignment{Target: d.target(n.Target), Op: op, Value: d.value(n.Value, pos), Pos: pos}
	case "Return":
		if n.Value == nil {
			return ast.Return{Pos: pos}
		}
		return ast.Return{Value: d.value(n.Value, pos), Pos: pos}
	case "If":
		return ast.Conditional{
			Condition: d.expression(n.Test),
			Then:      d.statements(n.Body),
			Else:      d.statements(n.Orelse),
			Pos:       pos,
		}
	case "While":
		if len(n.Orelse) > 0 {
			return ast.OpaqueStatement{Kind: "While(else)", Pos: pos}
		}
		return ast.Loop{Condition: d.expression(n.Test), Body: d.statements(n.Body), Pos: pos}
	default:
		return ast.OpaqueStatement{Kind: kind, Pos: pos}
	}
}

func (d decoder) kindOf(n *rawNode) string {
	if n == nil {
		return "<nil>"
	}
	return n.kind()
}

func (d decoder) opName(o *rawOp) string {
	if o == nil {
		return "<nil>"
	}
	return o.Name
}

func (d decoder) target(n *rawNode) ast.Expression {
	if n == nil {
		return nil
	}
	if n.kind() == "Name" {
		return ast.Target{Name: n.ID, Pos: d.span(n)}
	}
	return ast.Opaque{Kind: n.kind(), Pos: d.span(n)}
}

// value decodes a "value" field that must hold an expression node.
func (d decoder) value(v *rawValue, at types.Span) ast.Expression {
	if v == nil {
		return nil
	}
	if v.Node == nil {
		return ast.Opaque{Kind: fmt.Sprintf("%T", v.Scalar), Pos: at}
	}
	return d.expression(v.Node)
}

func (d decoder) expressions(nodes []*rawNode) []ast.Expression {
	exprs := make([]ast.Expression, 0, len(nodes))
	for _, n := range nodes {
		exprs = append(exprs, d.expression(n))
	}
	return exprs
}

func (d decoder) expression(n *rawNode) ast.Expression {
	if n == nil {
		return nil
	}
	pos := d.span(n)
	kind := n.kind()

	switch kind {
	case "Name":
		return ast.Identifier{Name: n.ID, Pos: pos}
	case "Constant", "Num", "NameConstant":
		return d.constant(n, pos)
	case "UnaryOp":
		op, ok := ast.ParseUnaryOperator(d.opName(n.Op))
		if !ok {
			return ast.Opaque{Kind: "UnaryOp(" + d.opName(n.Op) + ")", Pos: pos}
		}
		return ast.UnaryOp{Op: op, Operand: d.expression(n.Operand), Pos: pos}
	case "BinOp":
		op, ok := ast.ParseBinaryOperator(d.opName(n.Op))
		if !ok {
			return ast.Opaque{Kind: "BinOp(" + d.opName(n.Op) + ")", Pos: pos}
		}
		return ast.BinaryOp{Left: d.expression(n.Left), Op: op, Right: d.expression(n.Right), Pos: pos}
	case "BoolOp":
		op, ok := ast.ParseBooleanOperator(d.opName(n.Op))
		if !ok || len(n.Values) < 2 {
			return ast.Opaque{Kind: "BoolOp(" + d.opName(n.Op) + ")", Pos: pos}
		}
		// a and b and c is one node with three values; fold it to the left.
		acc := d.expression(n.Values[0])
		for _, v := range n.Values[1:] {
			acc = ast.BooleanOp{Left: acc, Op: op, Right: d.expression(v), Pos: pos}
		}
		return acc
	case "Compare":
		if len(n.Ops) != 1 || len(n.Comparators) != 1 {
			return ast.Opaque{Kind: "Compare(chained)", Pos: pos}
		}
		op, ok := ast.ParseCompareOperator(n.Ops[0].Name)
		if !ok {
			return ast.Opaque{Kind: "Compare(" + n.Ops[0].Name + ")", Pos: pos}
		}
		return ast.Comparison{Left: d.expression(n.Left), Op: op, Right: d.expression(n.Comparators[0]), Pos: pos}
	case "Call":
		if len(n.Keywords) > 0 {
			return ast.Opaque{Kind: "Call(keywords)", Pos: pos}
		}
		return ast.Call{Function: d.expression(n.Func), Arguments: d.expressions(n.Args.List), Pos: pos}
	default:
		return ast.Opaque{Kind: kind, Pos: pos}
	}
}

func (d decoder) constant(n *rawNode, pos types.Span) ast.Expression {
	if n.Value == nil {
		return ast.Opaque{Kind: "Constant(None)", Pos: pos}
	}
	if n.Value.Node != nil {
		return ast.Opaque{Kind: "Constant(" + n.Value.Node.kind() + ")", Pos: pos}
	}

	var lit ast.Literal
	switch v := n.Value.Scalar.(type) {
	case bool:
		lit = ast.Boolean(v)
	case int:
		lit = ast.Integer(v)
	case int64:
		lit = ast.Integer(v)
	case uint64:
		// Beyond int64; no declared type can hold it.
		return ast.Opaque{Kind: "Constant(int)", Pos: pos}
	case float64:
		if n.Value.Spelling != "" && !strings.ContainsAny(n.Value.Spelling, ".eE") {
			// An integer beyond uint64 that yaml.v2 resolved as a float.
			return ast.Opaque{Kind: "Constant(int)", Pos: pos}
		}
		lit = ast.Float(v)
	case string:
		lit = ast.String(v)
	case nil:
		return ast.Opaque{Kind: "Constant(None)", Pos: pos}
	default:
		return ast.Opaque{Kind: fmt.Sprintf("Constant(%T)", v), Pos: pos}
	}
	return ast.Lit{Literal: lit, Pos: pos}
}
