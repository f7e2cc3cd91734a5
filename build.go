package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/pyjit/ast"
	"github.com/pontaoski/pyjit/bindgen"
	"github.com/pontaoski/pyjit/codegen"
	"github.com/pontaoski/pyjit/config"
	jiterrors "github.com/pontaoski/pyjit/errors"
	"github.com/pontaoski/pyjit/logger"
	"github.com/pontaoski/pyjit/reader"
	"github.com/pontaoski/pyjit/toolchain"
	"github.com/pontaoski/pyjit/treefile"
	"github.com/pontaoski/pyjit/typeinfo"
	"github.com/pontaoski/pyjit/types"
)

// Tree files picked up when build is given no arguments.
var treeSuffixes = []string{".tree.yaml", ".tree.yml", ".tree.json"}

func findTrees(dir string) ([]string, error) {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var trees []string
	for _, fi := range fis {
		if fi.IsDir() {
			continue
		}
		for _, suffix := range treeSuffixes {
			if strings.HasSuffix(fi.Name(), suffix) {
				trees = append(trees, filepath.Join(dir, fi.Name()))
				break
			}
		}
	}
	return trees, nil
}

func parseTrees(paths []string) ([]*ast.Function, error) {
	var fns []*ast.Function
	for _, path := range paths {
		decoded, err := treefile.DecodeFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("decoded tree file", "path", path, "functions", len(decoded))
		fns = append(fns, decoded...)
	}
	return fns, nil
}

type buildOptions struct {
	trees     []string
	dump      bool
	emitOnly  bool
	keepGoing bool
	out       io.Writer
}

func build(ctx context.Context, p *config.Project, opts buildOptions) error {
	trees := opts.trees
	if len(trees) == 0 {
		found, err := findTrees(p.Dir)
		if err != nil {
			return err
		}
		trees = found
	}
	if len(trees) == 0 {
		return tracerr.Errorf("no tree files given and none found in %s", p.Dir)
	}

	logger.LogPhase("decode", "files", len(trees))
	fns, err := parseTrees(trees)
	if err != nil {
		return err
	}

	logger.LogPhase("render", "functions", len(fns), "workers", p.Workers)
	mod, err := codegen.RenderModule(fns, codegen.Options{Workers: p.Workers})
	if err != nil {
		if collected, ok := err.(jiterrors.Collected); ok {
			for _, e := range collected {
				fmt.Fprintln(os.Stderr, e)
			}
		}
		if !opts.keepGoing || len(mod.Units) == 0 {
			return tracerr.Errorf("%d of %d functions could not be translated", len(fns)-len(mod.Units), len(fns))
		}
		logger.Warn("continuing with the functions that translated", "translated", len(mod.Units), "total", len(fns))
	}

	if opts.dump {
		_, err := io.WriteString(opts.out, mod.Text)
		return err
	}

	if err := writeOutputs(p, mod); err != nil {
		return err
	}
	if opts.emitOnly {
		return nil
	}

	job := toolchain.Job{Source: p.SourcePath(), Output: p.LibraryPath()}
	if p.EmbedSignatures {
		job.IR = p.IRPath()
	}
	logger.LogPhase("compile", "output", job.Output)
	return p.CompilerConfig().Build(ctx, job)
}

// writeOutputs places the module text, its signature table and, when the
// project embeds signatures, the companion IR module in the output directory.
func writeOutputs(p *config.Project, mod *codegen.Module) error {
	if err := os.MkdirAll(p.OutputDir(), 0o755); err != nil {
		return tracerr.Wrap(err)
	}

	if err := ioutil.WriteFile(p.SourcePath(), []byte(mod.Text), 0o644); err != nil {
		return tracerr.Wrap(err)
	}

	data, err := typeinfo.EncodeTable(mod.Signatures)
	if err != nil {
		return tracerr.Wrap(err)
	}
	if err := ioutil.WriteFile(p.SignaturesPath(), data, 0o644); err != nil {
		return tracerr.Wrap(err)
	}

	if p.EmbedSignatures {
		m, err := typeinfo.Module(mod.Signatures)
		if err != nil {
			return tracerr.Wrap(err)
		}
		if err := ioutil.WriteFile(p.IRPath(), []byte(m.String()), 0o644); err != nil {
			return tracerr.Wrap(err)
		}
	}
	return nil
}

// loadTable reads signatures from a JSON table or, for anything else, from a
// built library.
func loadTable(path string) (types.SignatureTable, error) {
	if strings.HasSuffix(path, ".json") {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		table, err := typeinfo.DecodeTable(data)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		return table, nil
	}
	return reader.ReadSignatures(path)
}

func bind(p *config.Project, from, pkg, output string) error {
	if from == "" {
		from = p.SignaturesPath()
	}
	table, err := loadTable(from)
	if err != nil {
		return err
	}

	opts := bindgen.Options{Package: pkg, Library: p.Package}
	outDir, err := filepath.Abs(filepath.Dir(output))
	if err != nil {
		return tracerr.Wrap(err)
	}
	if rel, err := filepath.Rel(outDir, p.OutputDir()); err == nil {
		opts.LibDir = filepath.ToSlash(filepath.Join("${SRCDIR}", rel))
	}

	code, err := bindgen.Generate(table, opts)
	if err != nil {
		return tracerr.Wrap(err)
	}
	logger.Info("writing binding", "output", output, "functions", len(table))
	return tracerr.Wrap(ioutil.WriteFile(output, code, 0o644))
}
