// Package ast holds the annotated tree handed over by the upstream parser.
// Nodes are read-only once built.
package ast

import "github.com/pontaoski/pyjit/types"

type Annotation struct {
	Name string
	Pos  types.Span
}

type Literal interface {
	is_Literal()
}
type Integer int64

func (v Integer) is_Literal() {}

type Float float64

func (v Float) is_Literal() {}

type Boolean bool

func (v Boolean) is_Literal() {}

type String string

func (v String) is_Literal() {}

type Expression interface {
	is_Expression()
}

type Identifier struct {
	Name string
	Pos  types.Span
}

func (v Identifier) is_Expression() {}

type Lit struct {
	Literal
	Pos types.Span
}

func (v Lit) is_Expression() {}

type UnaryOp struct {
	Op      UnaryOperator
	Operand Expression
	Pos     types.Span
}

func (v UnaryOp) is_Expression() {}

type BinaryOp struct {
	Left  Expression
	Op    BinaryOperator
	Right Expression
	Pos   types.Span
}

func (v BinaryOp) is_Expression() {}

type BooleanOp struct {
	Left  Expression
	Op    BooleanOperator
	Right Expression
	Pos   types.Span
}

func (v BooleanOp) is_Expression() {}

type Comparison struct {
	Left  Expression
	Op    CompareOperator
	Right Expression
	Pos   types.Span
}

func (v Comparison) is_Expression() {}

type Call struct {
	Function  Expression
	Arguments []Expression
	Pos       types.Span
}

func (v Call) is_Expression() {}

// Target is a name in store position.
type Target struct {
	Name string
	Pos  types.Span
}

func (v Target) is_Expression() {}

// Opaque stands for a node kind outside the supported subset. The decoder
// keeps it so code generation can report it with its position.
type Opaque struct {
	Kind string
	Pos  types.Span
}

func (v Opaque) is_Expression() {}

type Statement interface {
	is_Statement()
}

type AnnotatedDeclaration struct {
	Target     Target
	Annotation Annotation
	Value      Expression
	Pos        types.Span
}

func (v AnnotatedDeclaration) is_Statement() {}

type Assignment struct {
	Targets []Expression
	Value   Expression
	Pos     types.Span
}

func (v Assignment) is_Statement() {}

type AugmentedAssignment struct {
	Target Expression
	Op     AugmentedOperator
	Value  Expression
	Pos    types.Span
}

func (v AugmentedAssignment) is_Statement() {}

type Return struct {
	Value Expression
	Pos   types.Span
}

func (v Return) is_Statement() {}

// Conditional models if/elif/else. An elif chain is an Else holding exactly
// one Conditional.
type Conditional struct {
	Condition Expression
	Then      []Statement
	Else      []Statement
	Pos       types.Span
}

func (v Conditional) is_Statement() {}

type Loop struct {
	Condition Expression
	Body      []Statement
	Pos       types.Span
}

func (v Loop) is_Statement() {}

type OpaqueStatement struct {
	Kind string
	Pos  types.Span
}

func (v OpaqueStatement) is_Statement() {}

type Param struct {
	Name       string
	Annotation Annotation
	Pos        types.Span
}

type Function struct {
	Name    string
	Params  []Param
	Returns Annotation
	Body    []Statement
	Pos     types.Span
}

// PosOf returns the span recorded on a node, or the zero span.
func PosOf(n interface{}) types.Span {
	switch v := n.(type) {
	case Identifier:
		return v.Pos
	case Lit:
		return v.Pos
	case UnaryOp:
		return v.Pos
	case BinaryOp:
		return v.Pos
	case BooleanOp:
		return v.Pos
	case Comparison:
		return v.Pos
	case Call:
		return v.Pos
	case Target:
		return v.Pos
	case Opaque:
		return v.Pos
	case AnnotatedDeclaration:
		return v.Pos
	case Assignment:
		return v.Pos
	case AugmentedAssignment:
		return v.Pos
	case Return:
		return v.Pos
	case Conditional:
		return v.Pos
	case Loop:
		return v.Pos
	case OpaqueStatement:
		return v.Pos
	case Param:
		return v.Pos
	case *Function:
		if v != nil {
			return v.Pos
		}
	}
	return types.Span{}
}
