package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/pontaoski/pyjit/types"
)

type UnsupportedType struct {
	Name     string
	Location types.Span
}

func (e UnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type annotation '%s', expected one of int, float, bool. %s", e.Name, e.Location)
}

type UnsupportedExpression struct {
	Kind     string
	Location types.Span
}

func (e UnsupportedExpression) Error() string {
	return fmt.Sprintf("unsupported expression %s. %s", e.Kind, e.Location)
}

type UnsupportedStatement struct {
	Kind     string
	Location types.Span
}

func (e UnsupportedStatement) Error() string {
	return fmt.Sprintf("unsupported statement %s. %s", e.Kind, e.Location)
}

type DuplicateFunctionName struct {
	Name      string
	Locations []types.Span
}

func (e DuplicateFunctionName) Error() string {
	var locs []string
	for _, l := range e.Locations {
		locs = append(locs, l.String())
	}
	return fmt.Sprintf("function %s defined %d times. %s", e.Name, len(e.Locations), strings.Join(locs, ", "))
}

type MalformedChainedAssignment struct {
	Targets  int
	Location types.Span
}

func (e MalformedChainedAssignment) Error() string {
	return fmt.Sprintf("assignment with %d targets, exactly one is supported. %s", e.Targets, e.Location)
}

// Trace records where in a function's tree an error surfaced.
type Trace struct {
	Function string
	Path     []string
	Err      error
}

func (e Trace) Error() string {
	var b strings.Builder
	if e.Function != "" {
		b.WriteString(e.Function)
	}
	if len(e.Path) > 0 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(strings.Join(e.Path, "."))
	}
	if b.Len() == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", b.String(), e.Err)
}

func (e Trace) Unwrap() error {
	return e.Err
}

// Within prefixes the tree path of err with segment.
func Within(err error, segment string) error {
	if err == nil {
		return nil
	}
	if t, ok := err.(Trace); ok {
		t.Path = append([]string{segment}, t.Path...)
		return t
	}
	return Trace{Path: []string{segment}, Err: err}
}

// InFunction records the function a traced error belongs to.
func InFunction(err error, name string) error {
	if err == nil {
		return nil
	}
	if t, ok := err.(Trace); ok {
		t.Function = name
		return t
	}
	return Trace{Function: name, Err: err}
}

// PathOf returns the tree path recorded on err, if any.
func PathOf(err error) string {
	var t Trace
	if stderrors.As(err, &t) {
		return strings.Join(t.Path, ".")
	}
	return ""
}

// Collected holds the failures of independent units.
type Collected []error

func (e Collected) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d errors:\n\t%s", len(e), strings.Join(msgs, "\n\t"))
}

func (e Collected) Unwrap() []error {
	return e
}

// OrNil returns nil for an empty collection.
func (e Collected) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
