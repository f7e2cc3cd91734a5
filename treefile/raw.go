package treefile

// rawNode is the union of every field the supported Python ast node kinds
// carry. Keys follow Python's ast module. The node kind may be given as
// "_type", the key common ast-to-JSON dumpers use, or as "kind". "_type"
// wins since Constant nodes carry a "kind" field of their own.
type rawNode struct {
	Kind string `yaml:"kind"`
	Type string `yaml:"_type"`

	Lineno       int `yaml:"lineno"`
	ColOffset    int `yaml:"col_offset"`
	EndLineno    int `yaml:"end_lineno"`
	EndColOffset int `yaml:"end_col_offset"`

	Name       string         `yaml:"name"`
	Args       rawArgs        `yaml:"args"`
	Returns    *rawAnnotation `yaml:"returns"`
	Arg        string         `yaml:"arg"`
	Annotation *rawAnnotation `yaml:"annotation"`

	ID          string     `yaml:"id"`
	Value       *rawValue  `yaml:"value"`
	Op          *rawOp     `yaml:"op"`
	Ops         []rawOp    `yaml:"ops"`
	Operand     *rawNode   `yaml:"operand"`
	Left        *rawNode   `yaml:"left"`
	Right       *rawNode   `yaml:"right"`
	Values      []*rawNode `yaml:"values"`
	Comparators []*rawNode `yaml:"comparators"`
	Func        *rawNode   `yaml:"func"`
	Keywords    []*rawNode `yaml:"keywords"`

	Target  *rawNode   `yaml:"target"`
	Targets []*rawNode `yaml:"targets"`
	Test    *rawNode   `yaml:"test"`
	Body    []*rawNode `yaml:"body"`
	Orelse  []*rawNode `yaml:"orelse"`
}

func (n *rawNode) kind() string {
	if n.Type != "" {
		return n.Type
	}
	return n.Kind
}

// rawValue is "value": a scalar for Constant, a child node elsewhere.
// Spelling keeps a scalar's source text, since yaml.v2 resolves integers
// too large for uint64 to float64.
type rawValue struct {
	Node     *rawNode
	Scalar   interface{}
	Spelling string
}

func (v *rawValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var node rawNode
	if err := unmarshal(&node); err == nil && node.kind() != "" {
		v.Node = &node
		return nil
	}
	if err := unmarshal(&v.Scalar); err != nil {
		return err
	}
	if err := unmarshal(&v.Spelling); err != nil {
		v.Spelling = ""
	}
	return nil
}

// rawOp is an operator, either a bare name or a node such as {_type: Add}.
type rawOp struct {
	Name string
}

func (o *rawOp) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := unmarshal(&o.Name); err == nil {
		return nil
	}
	var node rawNode
	if err := unmarshal(&node); err != nil {
		return err
	}
	o.Name = node.kind()
	return nil
}

// rawAnnotation is a type name, either a bare string or a Name node.
type rawAnnotation struct {
	Name      string
	Lineno    int
	ColOffset int
}

func (a *rawAnnotation) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := unmarshal(&a.Name); err == nil {
		return nil
	}
	var node rawNode
	if err := unmarshal(&node); err != nil {
		return err
	}
	a.Lineno, a.ColOffset = node.Lineno, node.ColOffset
	switch node.kind() {
	case "Name":
		a.Name = node.ID
	case "Constant":
		// String annotations, as in x: "float".
		if node.Value != nil {
			if s, ok := node.Value.Scalar.(string); ok {
				a.Name = s
				return nil
			}
		}
		a.Name = node.kind()
	default:
		a.Name = node.kind()
	}
	return nil
}

// rawArgs is "args": a node list for Call, and for FunctionDef either a
// list of arg nodes or Python's arguments node.
type rawArgs struct {
	List  []*rawNode
	Extra []string
}

func (a *rawArgs) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := unmarshal(&a.List); err == nil {
		return nil
	}
	a.List = nil

	var def struct {
		Args        []*rawNode `yaml:"args"`
		Posonlyargs []*rawNode `yaml:"posonlyargs"`
		Kwonlyargs  []*rawNode `yaml:"kwonlyargs"`
		Vararg      *rawNode   `yaml:"vararg"`
		Kwarg       *rawNode   `yaml:"kwarg"`
		Defaults    []*rawNode `yaml:"defaults"`
	}
	if err := unmarshal(&def); err != nil {
		return err
	}
	a.List = def.Args
	if len(def.Posonlyargs) > 0 {
		a.Extra = append(a.Extra, "positional-only parameters")
	}
	if len(def.Kwonlyargs) > 0 {
		a.Extra = append(a.Extra, "keyword-only parameters")
	}
	if def.Vararg != nil {
		a.Extra = append(a.Extra, "*args")
	}
	if def.Kwarg != nil {
		a.Extra = append(a.Extra, "**kwargs")
	}
	if len(def.Defaults) > 0 {
		a.Extra = append(a.Extra, "default values")
	}
	return nil
}
