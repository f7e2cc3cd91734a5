// Package toolchain drives the system C++ compiler to turn generated module
// text into a shared object: compile each input to an object file, link the
// objects with -shared, then remove the objects.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/pyjit/logger"
)

type Compiler struct {
	Path  string
	Flags []string
}

// Job names the inputs and the shared object to produce. IR is optional:
// when set it must be an LLVM IR file, which only clang accepts.
type Job struct {
	Source string
	IR     string
	Output string
}

// BuildFailed carries the compiler's diagnostics.
type BuildFailed struct {
	Compiler string
	Args     []string
	Stderr   string
	Err      error
}

func (e BuildFailed) Error() string {
	return fmt.Sprintf("%s %s: %s\n%s", e.Compiler, strings.Join(e.Args, " "), e.Err, e.Stderr)
}

func (e BuildFailed) Unwrap() error {
	return e.Err
}

// IsClang reports whether path names a clang driver.
func IsClang(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "clang")
}

// Available reports whether the compiler can be found on PATH.
func (c Compiler) Available() bool {
	_, err := exec.LookPath(c.Path)
	return err == nil
}

func objectFor(input string) string {
	return input + ".o"
}

// CompileArgs is the argument list that turns one input into an object.
func (c Compiler) CompileArgs(input, object string) []string {
	args := append([]string{}, c.Flags...)
	return append(args, "-fPIC", "-c", input, "-o", object)
}

// LinkArgs is the argument list that links objects into a shared object.
func (c Compiler) LinkArgs(objects []string, output string) []string {
	args := []string{"-shared"}
	args = append(args, objects...)
	return append(args, "-o", output)
}

func (c Compiler) run(ctx context.Context, args []string) error {
	logger.Debug("running compiler", "compiler", c.Path, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return tracerr.Wrap(BuildFailed{Compiler: c.Path, Args: args, Stderr: stderr.String(), Err: err})
	}
	return nil
}

// Build produces job.Output. Intermediate objects are removed whether or not
// the build succeeds.
func (c Compiler) Build(ctx context.Context, job Job) error {
	if job.IR != "" && !IsClang(c.Path) {
		return tracerr.Errorf("%s cannot compile LLVM IR input %s, use clang", c.Path, job.IR)
	}

	inputs := []string{job.Source}
	if job.IR != "" {
		inputs = append(inputs, job.IR)
	}

	var objects []string
	defer func() {
		for _, o := range objects {
			os.Remove(o)
		}
	}()

	for _, in := range inputs {
		obj := objectFor(in)
		if err := c.run(ctx, c.CompileArgs(in, obj)); err != nil {
			return err
		}
		objects = append(objects, obj)
	}

	link := c.LinkArgs(objects, job.Output)
	logger.LogBuild(c.Path, job.Output, link)
	return c.run(ctx, link)
}
