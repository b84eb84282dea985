// Package builtins registers the magic-method table of spec.md §4.1 and
// the host API functions of spec.md §6, plus the supplemented `len`,
// `str`, `int`, and `type` helpers SPEC_FULL.md adds. Structure (one
// Install entry point wiring a flat map of NativeFunctions, grouped by
// concern across files) follows the teacher's builtins package.
package builtins

import (
	"bufio"
	"io"

	"github.com/kiz-lang/kiz/object"
)

// Install registers every `(kind, operator)` magic slot spec.md §4.1's
// table requires and returns the name -> value map used to seed a VM's
// builtins (spec.md §3.5). stdout/stdin back `print`/`input`.
func Install(stdout io.Writer, stdin io.Reader) map[string]object.Value {
	registerNumericMagic()
	registerCollectionMagic()
	registerScalarMagic()

	reader := bufio.NewReader(stdin)
	globals := map[string]object.Value{
		"print":      object.NewNativeFunction("print", printFn(stdout)),
		"input":      object.NewNativeFunction("input", inputFn(stdout, reader)),
		"isinstance": object.NewNativeFunction("isinstance", isinstanceFn),
		"len":        object.NewNativeFunction("len", lenFn),
		"str":        object.NewNativeFunction("str", strFn),
		"int":        object.NewNativeFunction("int", intFn),
		"type":       object.NewNativeFunction("type", typeFn),
	}
	return globals
}

func native(name string, fn object.NativeFn) *object.NativeFunction {
	return object.NewNativeFunction(name, fn)
}

func reg(kind object.Kind, mop object.MagicOp, name string, fn object.NativeFn) {
	object.RegisterMagic(kind, mop, native(name, fn))
}
