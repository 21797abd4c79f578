package stack

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Function is a named stack operation.
type Function interface {
	// Name is the name scripts call the operation by.
	Name() string

	// Apply runs the operation and returns the (possibly mutated) stack.
	Apply(ctx context.Context, s Stack) (Stack, error)
}

// Functions is a name-keyed table of stack operations. It is not safe for
// concurrent registration; populate it before use.
type Functions struct {
	funcs map[string]Function
}

// NewFunctions creates an empty function table.
func NewFunctions() *Functions {
	return &Functions{funcs: make(map[string]Function)}
}

// Register adds operations to the table under their names.
func (f *Functions) Register(fns ...Function) error {
	for _, fn := range fns {
		if fn == nil {
			return fmt.Errorf("%w: function is nil", ErrInvalidFunction)
		}
		name := fn.Name()
		if name == "" {
			return fmt.Errorf("%w: function name is empty", ErrInvalidFunction)
		}
		if _, exists := f.funcs[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateFunction, name)
		}
		f.funcs[name] = fn
	}
	return nil
}

// Lookup returns the operation registered under name.
func (f *Functions) Lookup(name string) (Function, bool) {
	fn, ok := f.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (f *Functions) Names() []string {
	return slices.Sorted(maps.Keys(f.funcs))
}

// Call runs the operation registered under name against the stack.
func (f *Functions) Call(ctx context.Context, name string, s Stack) (Stack, error) {
	fn, ok := f.funcs[name]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return fn.Apply(ctx, s)
}
