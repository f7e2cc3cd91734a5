package ast

import "fmt"

// AugmentedOperator is either a BinaryOperator or a BooleanOperator.
type AugmentedOperator interface {
	is_AugmentedOperator()
	String() string
}

type UnaryOperator int

const (
	UAdd UnaryOperator = iota
	USub
	Not
	Invert
)

type BinaryOperator int

const (
	Add BinaryOperator = iota
	Sub
	Mult
	MatMult
	Div
	FloorDiv
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
)

func (BinaryOperator) is_AugmentedOperator() {}

type BooleanOperator int

const (
	And BooleanOperator = iota
	Or
)

func (BooleanOperator) is_AugmentedOperator() {}

type CompareOperator int

const (
	Eq CompareOperator = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

// Operator names follow Python's ast module.

var unaryNames = map[UnaryOperator]string{
	UAdd:   "UAdd",
	USub:   "USub",
	Not:    "Not",
	Invert: "Invert",
}

var binaryNames = map[BinaryOperator]string{
	Add:      "Add",
	Sub:      "Sub",
	Mult:     "Mult",
	MatMult:  "MatMult",
	Div:      "Div",
	FloorDiv: "FloorDiv",
	Mod:      "Mod",
	Pow:      "Pow",
	LShift:   "LShift",
	RShift:   "RShift",
	BitOr:    "BitOr",
	BitXor:   "BitXor",
	BitAnd:   "BitAnd",
}

var booleanNames = map[BooleanOperator]string{
	And: "And",
	Or:  "Or",
}

var compareNames = map[CompareOperator]string{
	Eq:    "Eq",
	NotEq: "NotEq",
	Lt:    "Lt",
	LtE:   "LtE",
	Gt:    "Gt",
	GtE:   "GtE",
	Is:    "Is",
	IsNot: "IsNot",
	In:    "In",
	NotIn: "NotIn",
}

func (o UnaryOperator) String() string {
	if n, ok := unaryNames[o]; ok {
		return n
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(o))
}

func (o BinaryOperator) String() string {
	if n, ok := binaryNames[o]; ok {
		return n
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(o))
}

func (o BooleanOperator) String() string {
	if n, ok := booleanNames[o]; ok {
		return n
	}
	return fmt.Sprintf("BooleanOperator(%d)", int(o))
}

func (o CompareOperator) String() string {
	if n, ok := compareNames[o]; ok {
		return n
	}
	return fmt.Sprintf("CompareOperator(%d)", int(o))
}

func ParseUnaryOperator(name string) (UnaryOperator, bool) {
	for op, n := range unaryNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

func ParseBinaryOperator(name string) (BinaryOperator, bool) {
	for op, n := range binaryNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

func ParseBooleanOperator(name string) (BooleanOperator, bool) {
	for op, n := range booleanNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

func ParseCompareOperator(name string) (CompareOperator, bool) {
	for op, n := range compareNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Kind names the node variant the way error messages report it.
func Kind(n interface{}) string {
	switch v := n.(type) {
	case nil:
		return "<nil>"
	case Identifier:
		return "Name"
	case Lit:
		switch v.Literal.(type) {
		case Integer, Float, Boolean:
			return "Constant"
		case String:
			return "Constant(str)"
		default:
			return "Constant(?)"
		}
	case UnaryOp:
		return "UnaryOp(" + v.Op.String() + ")"
	case BinaryOp:
		return "BinOp(" + v.Op.String() + ")"
	case BooleanOp:
		return "BoolOp(" + v.Op.String() + ")"
	case Comparison:
		return "Compare(" + v.Op.String() + ")"
	case Call:
		return "Call"
	case Target:
		return "Name(store)"
	case Opaque:
		return v.Kind
	case AnnotatedDeclaration:
		return "AnnAssign"
	case Assignment:
		return "Assign"
	case AugmentedAssignment:
		if v.Op == nil {
			return "AugAssign"
		}
		return "AugAssign(" + v.Op.String() + ")"
	case Return:
		return "Return"
	case Conditional:
		return "If"
	case Loop:
		return "While"
	case OpaqueStatement:
		return v.Kind
	default:
		return fmt.Sprintf("%T", n)
	}
}
