// Package bindgen writes a Go cgo binding for a built module: one typed
// wrapper per routine in the signature table, linked against the shared
// object the build command produces.
package bindgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"

	"github.com/pontaoski/pyjit/typeinfo"
	"github.com/pontaoski/pyjit/types"
)

type Options struct {
	// Package is the Go package clause of the generated file.
	Package string
	// Library is the shared object's base name; libpyjit.so is "pyjit".
	Library string
	// LibDir, when set, is added to the linker search path. It may use
	// ${SRCDIR}.
	LibDir string
}

// NameClash is returned when two routines map to the same Go name.
type NameClash struct {
	GoName string
	First  string
	Second string
}

func (e NameClash) Error() string {
	return fmt.Sprintf("%s and %s both bind as %s", e.First, e.Second, e.GoName)
}

func goType(tag types.SignatureTag) (*jen.Statement, error) {
	switch tag {
	case types.CInt:
		return jen.Int32(), nil
	case types.CDouble:
		return jen.Float64(), nil
	case types.CBool:
		return jen.Bool(), nil
	}
	return nil, fmt.Errorf("no Go type for %s", tag)
}

func cType(tag types.SignatureTag) string {
	return tag.Keyword()
}

func preamble(table types.SignatureTable, opts Options) string {
	var b strings.Builder
	if opts.Library != "" {
		b.WriteString("#cgo LDFLAGS:")
		if opts.LibDir != "" {
			b.WriteString(" -L" + opts.LibDir)
		}
		b.WriteString(" -l" + opts.Library + "\n")
	}
	b.WriteString("#include <stdbool.h>\n\n")

	for _, name := range typeinfo.Names(table) {
		sig := table[name]
		params := make([]string, len(sig.Params))
		for i, tag := range sig.Params {
			params[i] = fmt.Sprintf("%s a%d", cType(tag), i)
		}
		if len(params) == 0 {
			params = []string{"void"}
		}
		fmt.Fprintf(&b, "extern %s %s(%s);\n", cType(sig.Returns), name, strings.Join(params, ", "))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Generate renders the binding file for table.
func Generate(table types.SignatureTable, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "main"
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by pyjit bind. DO NOT EDIT.")

	owners := map[string]string{}
	for _, name := range typeinfo.Names(table) {
		sig := table[name]

		goName := strcase.ToCamel(name)
		if prev, ok := owners[goName]; ok {
			return nil, NameClash{GoName: goName, First: prev, Second: name}
		}
		owners[goName] = name

		ret, err := goType(sig.Returns)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		var params, args []jen.Code
		for i, tag := range sig.Params {
			typ, err := goType(tag)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %d: %w", name, i, err)
			}
			arg := fmt.Sprintf("a%d", i)
			params = append(params, jen.Id(arg).Add(typ))
			args = append(args, jen.Qual("C", cType(tag)).Call(jen.Id(arg)))
		}

		f.Commentf("%s calls the compiled %s.", goName, name)
		f.Func().Id(goName).Params(params...).Add(ret).Block(
			jen.Return(ret.Clone().Call(jen.Qual("C", name).Call(args...))),
		)
		f.Line()
	}

	f.CgoPreamble(preamble(table, opts))

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
