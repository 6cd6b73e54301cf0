// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package interp substitutes template variables into strings and paths.
//
// Templates use the HCL template syntax: `${name}` is replaced by the value of
// the variable `name`, `$${` produces a literal `${`. Every variable is a
// string. A template that references a variable missing from the context is
// rejected with ErrUndefinedVariable rather than rendered partially.
package interp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/dvctree/internal/relpath"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var (
	// ErrUndefinedVariable is returned when a template references a variable
	// that is not present in the context.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrTemplate is returned for templates that cannot be parsed or rendered.
	ErrTemplate = errors.New("invalid template")
)

// UndefinedVariableError names the variable a template referenced.
type UndefinedVariableError struct {
	Name     string
	Template string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("%s %q in template %q", ErrUndefinedVariable.Error(), e.Name, e.Template)
}

func (e *UndefinedVariableError) Unwrap() error { return ErrUndefinedVariable }

// Interpolatable is implemented by records whose string fields can be
// rendered against a Context. Interpolate returns a new record and leaves the
// receiver untouched.
type Interpolatable[T any] interface {
	Interpolate(ctx *Context) (T, error)
}

// Context maps variable names to string values.
type Context struct {
	vars    map[string]string
	evalCtx *hcl.EvalContext
}

// NewContext creates a context holding a copy of vars.
func NewContext(vars map[string]string) *Context {
	owned := make(map[string]string, len(vars))
	values := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		owned[k] = v
		values[k] = cty.StringVal(v)
	}
	return &Context{
		vars:    owned,
		evalCtx: &hcl.EvalContext{Variables: values},
	}
}

// Names returns the variable names in the context, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.vars))
	for k := range c.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the value of a variable.
func (c *Context) Lookup(name string) (string, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Interpolate renders text against the context.
func (c *Context) Interpolate(text string) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(text), "<template>", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w %q: %s", ErrTemplate, text, diags.Error())
	}

	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, ok := c.vars[name]; !ok {
			return "", &UndefinedVariableError{Name: name, Template: text}
		}
	}

	val, diags := expr.Value(c.evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w %q: %s", ErrTemplate, text, diags.Error())
	}

	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrTemplate, text, err)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("%w %q: template rendered no value", ErrTemplate, text)
	}
	return val.AsString(), nil
}

// InterpolatePath renders a path against the context and parses the result
// back into a path.
func (c *Context) InterpolatePath(p relpath.Path) (relpath.Path, error) {
	text, err := c.Interpolate(string(p))
	if err != nil {
		return "", err
	}
	return relpath.New(text), nil
}
