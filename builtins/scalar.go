package builtins

import (
	"context"

	"github.com/kiz-lang/kiz/object"
)

// registerScalarMagic installs Bool and Nil's only ✓ cells in spec.md
// §4.1's table: eq.
func registerScalarMagic() {
	reg(object.BoolKind, object.MagicEq, "bool.eq", boolEq)
	reg(object.NilKind, object.MagicEq, "nil.eq", nilEq)
}

func boolEq(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Bool)
	b, ok := args[1].(*object.Bool)
	if !ok {
		return object.NewBool(false), nil
	}
	return object.NewBool(a.Value == b.Value), nil
}

// nilEq: Nil is equal only to Nil.
func nilEq(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	_, ok := args[1].(*object.NilType)
	return object.NewBool(ok), nil
}
