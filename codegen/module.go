package codegen

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pontaoski/pyjit/ast"
	jiterrors "github.com/pontaoski/pyjit/errors"
	"github.com/pontaoski/pyjit/logger"
	"github.com/pontaoski/pyjit/types"
)

// Unit is one translated function.
type Unit struct {
	Name      string
	Text      string
	Signature types.Signature
}

// Module is the translation of every function that succeeded, in input order.
type Module struct {
	Text       string
	Signatures types.SignatureTable
	Units      []Unit
}

type Options struct {
	// Workers bounds how many functions render at once. Zero means
	// GOMAXPROCS.
	Workers int
}

// RenderFunction renders one function with C linkage. The declaration line,
// and with it the exported name, is fixed before the body is rendered.
func RenderFunction(fn *ast.Function) (Unit, error) {
	if fn == nil {
		return Unit{}, jiterrors.UnsupportedStatement{Kind: "FunctionDef(<nil>)"}
	}

	if err := checkName(fn.Name, fn.Pos); err != nil {
		return Unit{}, jiterrors.InFunction(jiterrors.Within(err, "name"), fn.Name)
	}
	ret, err := resolveAnnotation(fn.Returns)
	if err != nil {
		return Unit{}, jiterrors.InFunction(jiterrors.Within(err, "returns"), fn.Name)
	}

	params := make([]string, 0, len(fn.Params))
	sig := types.Signature{
		Params:  make([]types.SignatureTag, 0, len(fn.Params)),
		Returns: ret.SignatureTag(),
	}
	for i, p := range fn.Params {
		if err := checkName(p.Name, p.Pos); err != nil {
			return Unit{}, jiterrors.InFunction(jiterrors.Within(err, fmt.Sprintf("params[%d]", i)), fn.Name)
		}
		t, err := resolveAnnotation(p.Annotation)
		if err != nil {
			return Unit{}, jiterrors.InFunction(jiterrors.Within(err, fmt.Sprintf("params[%d]", i)), fn.Name)
		}
		params = append(params, t.Keyword()+" "+p.Name)
		sig.Params = append(sig.Params, t.SignatureTag())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "extern \"C\" %s %s(%s) {\n", ret.Keyword(), fn.Name, strings.Join(params, ", "))

	body, err := RenderBody(fn.Body, 1)
	if err != nil {
		return Unit{}, jiterrors.InFunction(err, fn.Name)
	}
	b.WriteString(body)
	b.WriteString("}")

	return Unit{Name: fn.Name, Text: b.String(), Signature: sig}, nil
}

// RenderModule renders every function independently. A function that fails
// contributes an error instead of text; the others still translate. A name
// defined more than once fails every definition carrying it. The returned
// error, if any, is an errors.Collected.
func RenderModule(fns []*ast.Function, opts Options) (*Module, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	seen := map[string][]int{}
	for i, fn := range fns {
		if fn != nil {
			seen[fn.Name] = append(seen[fn.Name], i)
		}
	}
	duplicated := func(fn *ast.Function) bool {
		return fn != nil && len(seen[fn.Name]) > 1
	}

	units := make([]Unit, len(fns))
	errs := make([]error, len(fns))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, fn := range fns {
		if duplicated(fn) {
			continue
		}
		i, fn := i, fn
		g.Go(func() error {
			units[i], errs[i] = RenderFunction(fn)
			return nil
		})
	}
	_ = g.Wait()

	mod := &Module{Signatures: types.SignatureTable{}}
	var failed jiterrors.Collected
	var texts []string
	for i, fn := range fns {
		if duplicated(fn) {
			if seen[fn.Name][0] == i {
				var locs []types.Span
				for _, idx := range seen[fn.Name] {
					locs = append(locs, fns[idx].Pos)
				}
				err := jiterrors.DuplicateFunctionName{Name: fn.Name, Locations: locs}
				logger.LogUnitFailed(fn.Name, err)
				failed = append(failed, err)
			}
			continue
		}
		if errs[i] != nil {
			name := "<nil>"
			if fn != nil {
				name = fn.Name
			}
			logger.LogUnitFailed(name, errs[i])
			failed = append(failed, errs[i])
			continue
		}

		u := units[i]
		logger.LogUnit(u.Name, len(u.Signature.Params), strings.Count(u.Text, "\n")+1)
		mod.Units = append(mod.Units, u)
		mod.Signatures[u.Name] = u.Signature
		texts = append(texts, u.Text)
	}

	if len(texts) > 0 {
		mod.Text = strings.Join(texts, "\n\n") + "\n"
	}
	return mod, failed.OrNil()
}
