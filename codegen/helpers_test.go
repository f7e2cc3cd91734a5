package codegen

import "github.com/pontaoski/pyjit/ast"

func name(n string) ast.Expression { return ast.Identifier{Name: n} }

func target(n string) ast.Target { return ast.Target{Name: n} }

func integer(v int64) ast.Expression { return ast.Lit{Literal: ast.Integer(v)} }

func float(v float64) ast.Expression { return ast.Lit{Literal: ast.Float(v)} }

func boolean(v bool) ast.Expression { return ast.Lit{Literal: ast.Boolean(v)} }

func bin(l ast.Expression, op ast.BinaryOperator, r ast.Expression) ast.Expression {
	return ast.BinaryOp{Left: l, Op: op, Right: r}
}

func cmp(l ast.Expression, op ast.CompareOperator, r ast.Expression) ast.Expression {
	return ast.Comparison{Left: l, Op: op, Right: r}
}

func call(fn string, args ...ast.Expression) ast.Expression {
	return ast.Call{Function: name(fn), Arguments: args}
}

func annotated(n, typ string, value ast.Expression) ast.Statement {
	return ast.AnnotatedDeclaration{Target: target(n), Annotation: ast.Annotation{Name: typ}, Value: value}
}

func assign(n string, value ast.Expression) ast.Statement {
	return ast.Assignment{Targets: []ast.Expression{target(n)}, Value: value}
}

func augmented(n string, op ast.AugmentedOperator, value ast.Expression) ast.Statement {
	return ast.AugmentedAssignment{Target: target(n), Op: op, Value: value}
}

func ret(value ast.Expression) ast.Statement { return ast.Return{Value: value} }

func param(n, typ string) ast.Param {
	return ast.Param{Name: n, Annotation: ast.Annotation{Name: typ}}
}

// expFunction is the exponential-series workload: accumulate terms while they
// exceed the threshold, then sum them back.
func expFunction(fnName string) *ast.Function {
	return &ast.Function{
		Name:    fnName,
		Params:  []ast.Param{param("x", "float")},
		Returns: ast.Annotation{Name: "float"},
		Body: []ast.Statement{
			annotated("res", "float", integer(0)),
			annotated("threshold", "float", float(1e-30)),
			annotated("delta", "float", integer(1)),
			annotated("elements", "int", integer(0)),
			ast.Loop{
				Condition: cmp(name("delta"), ast.Gt, name("threshold")),
				Body: []ast.Statement{
					assign("elements", bin(name("elements"), ast.Add, integer(1))),
					assign("delta", bin(bin(name("delta"), ast.Mult, name("x")), ast.Div, name("elements"))),
				},
			},
			ast.Loop{
				Condition: cmp(name("elements"), ast.GtE, integer(0)),
				Body: []ast.Statement{
					augmented("res", ast.Add, name("delta")),
					assign("delta", bin(bin(name("delta"), ast.Mult, name("elements")), ast.Div, name("x"))),
					augmented("elements", ast.Sub, integer(1)),
				},
			},
			ret(name("res")),
		},
	}
}

const expText = `extern "C" double jit_exp(double x) {
    double res = 0;
    double threshold = 1e-30;
    double delta = 1;
    int elements = 0;
    while ((delta > threshold)) {
        elements = (elements + 1);
        delta = ((delta * x) / elements);
    }
    while ((elements >= 0)) {
        res += delta;
        delta = ((delta * elements) / x);
        elements -= 1;
    }
    return res;
}`

// fibFunction is the recursive workload with an explicit else branch.
func fibFunction(fnName string) *ast.Function {
	return &ast.Function{
		Name:    fnName,
		Params:  []ast.Param{param("n", "int")},
		Returns: ast.Annotation{Name: "int"},
		Body: []ast.Statement{
			ast.Conditional{
				Condition: cmp(name("n"), ast.Lt, integer(2)),
				Then:      []ast.Statement{ret(integer(1))},
				Else: []ast.Statement{
					ret(bin(
						call(fnName, bin(name("n"), ast.Sub, integer(1))),
						ast.Add,
						call(fnName, bin(name("n"), ast.Sub, integer(2))),
					)),
				},
			},
		},
	}
}
