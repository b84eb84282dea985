package builtins

import (
	"context"
	"strings"

	"github.com/kiz-lang/kiz/object"
)

// registerCollectionMagic installs the String, List, and Dict rows of
// spec.md §4.1's magic-method table — only the cells marked ✓ there:
// add/mul/eq/in for String and List, add(merge)/in for Dict.
func registerCollectionMagic() {
	reg(object.StringKind, object.MagicAdd, "string.add", stringAdd)
	reg(object.StringKind, object.MagicMul, "string.mul", stringMul)
	reg(object.StringKind, object.MagicEq, "string.eq", stringEq)
	reg(object.StringKind, object.MagicIn, "string.in", stringIn)

	reg(object.ListKind, object.MagicAdd, "list.add", listAdd)
	reg(object.ListKind, object.MagicMul, "list.mul", listMul)
	reg(object.ListKind, object.MagicEq, "list.eq", listEq)
	reg(object.ListKind, object.MagicIn, "list.in", listIn)

	reg(object.DictKind, object.MagicAdd, "dict.add", dictAdd)
	reg(object.DictKind, object.MagicIn, "dict.in", dictIn)
}

func stringAdd(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.String)
	b, ok := args[1].(*object.String)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for +: string and %s", args[1].Kind())
	}
	return object.NewString(a.Value + b.Value), nil
}

// stringMul implements repetition, "a" * 3 -> "aaa", per spec.md §4.1's
// mul cell for String.
func stringMul(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.String)
	n, ok := args[1].(*object.Int)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for *: string and %s", args[1].Kind())
	}
	count := n.Value.Int64()
	if count < 0 {
		count = 0
	}
	return object.NewString(strings.Repeat(a.Value, int(count))), nil
}

func stringEq(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.String)
	b, ok := args[1].(*object.String)
	if !ok {
		return object.NewBool(false), nil
	}
	return object.NewBool(a.Value == b.Value), nil
}

// stringIn implements `needle in container` for a String needle. `in`
// is parsed with the needle as the Left operand, so per the binary
// dispatch rule (magic slot looked up on the Left operand's kind) the
// slot invoked is the needle's own "in" slot, not the container's:
// args[0] is self (the needle), args[1] is the container. A String
// needle accepts a String container (substring test), a List container
// (element membership), or a Dict container (key membership, since
// dict keys are always strings).
func stringIn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	needle := args[0].(*object.String)
	switch container := args[1].(type) {
	case *object.String:
		return object.NewBool(strings.Contains(container.Value, needle.Value)), nil
	case *object.List:
		return listContains(container, needle)
	case *object.Dict:
		_, found := container.Entries.Get(needle.Value)
		return object.NewBool(found), nil
	default:
		return nil, object.TypeErrorf("unsupported operand type for in: string and %s", args[1].Kind())
	}
}

func listAdd(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.List)
	b, ok := args[1].(*object.List)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for +: list and %s", args[1].Kind())
	}
	combined := make([]object.Value, 0, len(a.Elements)+len(b.Elements))
	combined = append(combined, a.Elements...)
	combined = append(combined, b.Elements...)
	return object.NewList(combined), nil
}

func listMul(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.List)
	n, ok := args[1].(*object.Int)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for *: list and %s", args[1].Kind())
	}
	count := n.Value.Int64()
	if count < 0 {
		count = 0
	}
	var combined []object.Value
	for i := int64(0); i < count; i++ {
		combined = append(combined, a.Elements...)
	}
	return object.NewList(combined), nil
}

func listEq(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.List)
	b, ok := args[1].(*object.List)
	if !ok || len(a.Elements) != len(b.Elements) {
		return object.NewBool(false), nil
	}
	for i, ea := range a.Elements {
		eq, err := valuesEqual(ea, b.Elements[i])
		if err != nil {
			return nil, err
		}
		if !eq {
			return object.NewBool(false), nil
		}
	}
	return object.NewBool(true), nil
}

// listIn implements `needle in container` for a List needle: self
// (args[0]) is the needle, args[1] the container. A List container is
// searched for an equal sub-list; other container kinds don't support
// a List needle.
func listIn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	needle := args[0].(*object.List)
	container, ok := args[1].(*object.List)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for in: list and %s", args[1].Kind())
	}
	return listContains(container, needle)
}

// listContains reports whether needle equals one of container's
// elements, via the eq magic slot (see valuesEqual).
func listContains(container *object.List, needle object.Value) (object.Value, error) {
	for _, e := range container.Elements {
		eq, err := valuesEqual(e, needle)
		if err != nil {
			return nil, err
		}
		if eq {
			return object.NewBool(true), nil
		}
	}
	return object.NewBool(false), nil
}

// dictAdd merges b's entries over a's, a new Dict, left-biased keys
// overwritten by the right operand, matching the teacher's map-merge
// convention for `+`.
func dictAdd(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Dict)
	b, ok := args[1].(*object.Dict)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for +: dict and %s", args[1].Kind())
	}
	out := object.NewDict()
	a.Entries.Each(func(name string, v object.Value) { out.Entries.Set(name, v) })
	b.Entries.Each(func(name string, v object.Value) { out.Entries.Set(name, v) })
	return out, nil
}

// dictIn implements `needle in container` for a Dict needle: self
// (args[0]) is the needle, searched for as an element of a List
// container via the eq magic slot. A Dict can't be a dict key, so a
// Dict container is not supported here.
func dictIn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	needle := args[0].(*object.Dict)
	container, ok := args[1].(*object.List)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for in: dict and %s", args[1].Kind())
	}
	return listContains(container, needle)
}

// valuesEqual invokes the eq magic slot on a's kind, mirroring the VM's
// own binary-dispatch rule, for use by composite eq/in implementations
// that must compare nested elements.
func valuesEqual(a, b object.Value) (bool, error) {
	fn, ok := object.LookupMagic(a.Kind(), object.MagicEq)
	if !ok {
		return a == b, nil
	}
	native, ok := fn.(*object.NativeFunction)
	if !ok {
		return false, object.TypeErrorf("nested equality requires a native eq slot for %s", a.Kind())
	}
	result, err := native.Fn(context.Background(), a, []object.Value{a, b})
	if err != nil {
		return false, err
	}
	bv, ok := result.(*object.Bool)
	if !ok {
		return false, object.TypeErrorf("eq slot for %s did not return a bool", a.Kind())
	}
	return bv.Value, nil
}
