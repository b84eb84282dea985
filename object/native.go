package object

import "context"

// NativeFn is a host-callable thunk: `(self, args) -> value`, per
// spec.md §3.1 ("NativeFunction | display name; host-callable thunk").
// self is the receiver for magic-method dispatch (spec.md §4.4) and Nil
// for ordinary builtins (spec.md §4.3 calling convention step 2).
type NativeFn func(ctx context.Context, self Value, args []Value) (Value, error)

// NativeFunction wraps a host function as a kiz Value.
type NativeFunction struct {
	base
	Name string
	Fn   NativeFn
}

func NewNativeFunction(name string, fn NativeFn) *NativeFunction {
	return &NativeFunction{base: newBase(), Name: name, Fn: fn}
}

func (n *NativeFunction) Kind() Kind      { return NativeFunctionKind }
func (n *NativeFunction) Display() string { return "<native_function " + n.Name + ">" }
