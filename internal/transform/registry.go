// Package transform provides the registry of named column transforms that
// mapping rules reference through their TransformationFunction column.
//
// A transform receives one whole column (or the row identifiers, for
// generated columns) and returns a column of the same length. Transforms are
// pure: they never see which output file is being generated.
package transform

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownTransform is returned when a rule names a transform that is not registered.
	ErrUnknownTransform = errors.New("unknown transform")
	// ErrTransformFailed is returned when a transform panics or returns a column of the wrong length.
	ErrTransformFailed = errors.New("transform failed")
)

// Func is a column-level transform.
type Func func(in []string) []string

// Registry maps transform names to functions.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Func),
	}
}

// Builtins returns a registry holding the built-in ACG transforms.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(NameSex, Sex)
	r.Register(NameDate, FormatDate)
	r.Register(NameDxVersion, DxVersion)
	r.Register(NameRxCodeType, RxCodeType)
	r.Register(NameZeroCost, ZeroFill)
	r.Register(NameZeroUtilization, ZeroFill)

	return r
}

// Register adds or replaces a transform.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Get returns the named transform, or nil if not found.
func (r *Registry) Get(name string) Func {
	return r.funcs[name]
}

// Has returns true if a transform with the given name exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.funcs[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Apply runs the named transform over in. A panic inside the transform or a
// result whose length differs from the input is reported as
// ErrTransformFailed; the caller decides how to render the column.
func (r *Registry) Apply(name string, in []string) (out []string, err error) {
	fn := r.Get(name)
	if fn == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownTransform, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("%w: %s panicked: %v", ErrTransformFailed, name, rec)
		}
	}()

	out = fn(slices.Clone(in))
	if len(out) != len(in) {
		return nil, fmt.Errorf("%w: %s returned %d values for %d rows", ErrTransformFailed, name, len(out), len(in))
	}

	return out, nil
}
