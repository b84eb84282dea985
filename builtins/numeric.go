package builtins

import (
	"context"

	"github.com/kiz-lang/kiz/bigrat"
	"github.com/kiz-lang/kiz/object"
)

// registerNumericMagic installs the Int and Rational rows of spec.md
// §4.1's magic-method table, including the required "Integer↔rational
// operators promote integer operands to rational form" coercion.
func registerNumericMagic() {
	reg(object.IntKind, object.MagicAdd, "int.add", intAdd)
	reg(object.IntKind, object.MagicSub, "int.sub", intSub)
	reg(object.IntKind, object.MagicMul, "int.mul", intMul)
	reg(object.IntKind, object.MagicDiv, "int.div", intDiv)
	reg(object.IntKind, object.MagicMod, "int.mod", intMod)
	reg(object.IntKind, object.MagicPow, "int.pow", intPow)
	reg(object.IntKind, object.MagicNeg, "int.neg", intNeg)
	reg(object.IntKind, object.MagicEq, "int.eq", intEq)
	reg(object.IntKind, object.MagicLt, "int.lt", intLt)
	reg(object.IntKind, object.MagicGt, "int.gt", intGt)

	reg(object.RationalKind, object.MagicAdd, "rational.add", ratAdd)
	reg(object.RationalKind, object.MagicSub, "rational.sub", ratSub)
	reg(object.RationalKind, object.MagicMul, "rational.mul", ratMul)
	reg(object.RationalKind, object.MagicDiv, "rational.div", ratDiv)
	reg(object.RationalKind, object.MagicEq, "rational.eq", ratEq)
	reg(object.RationalKind, object.MagicLt, "rational.lt", ratLt)
	reg(object.RationalKind, object.MagicGt, "rational.gt", ratGt)
}

// asRational promotes v (Int or Rational) to bigrat.Rational. ok is
// false for any other kind.
func asRational(v object.Value) (bigrat.Rational, bool) {
	switch t := v.(type) {
	case *object.Int:
		return t.Value.AsRational(), true
	case *object.Rational:
		return t.Value, true
	default:
		return bigrat.Rational{}, false
	}
}

func intAdd(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	switch b := args[1].(type) {
	case *object.Int:
		return object.NewInt(a.Value.Add(b.Value)), nil
	case *object.Rational:
		return object.NewRational(a.Value.AsRational().Add(b.Value)), nil
	default:
		return nil, object.TypeErrorf("unsupported operand type for +: int and %s", b.Kind())
	}
}

func intSub(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	switch b := args[1].(type) {
	case *object.Int:
		return object.NewInt(a.Value.Sub(b.Value)), nil
	case *object.Rational:
		return object.NewRational(a.Value.AsRational().Sub(b.Value)), nil
	default:
		return nil, object.TypeErrorf("unsupported operand type for -: int and %s", b.Kind())
	}
}

func intMul(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	switch b := args[1].(type) {
	case *object.Int:
		return object.NewInt(a.Value.Mul(b.Value)), nil
	case *object.Rational:
		return object.NewRational(a.Value.AsRational().Mul(b.Value)), nil
	default:
		return nil, object.TypeErrorf("unsupported operand type for *: int and %s", b.Kind())
	}
}

// intDiv always promotes to rational division ("true division"), per
// the end-to-end scenario `10 / 3` → `10/3`, not truncated quotient.
func intDiv(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	br, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for /: int and %s", args[1].Kind())
	}
	result, err := a.Value.AsRational().Div(br)
	if err != nil {
		return nil, err
	}
	return object.NewRational(result), nil
}

func intMod(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	b, ok := args[1].(*object.Int)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for %%: int and %s", args[1].Kind())
	}
	result, err := a.Value.Mod(b.Value)
	if err != nil {
		return nil, err
	}
	return object.NewInt(result), nil
}

func intPow(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	b, ok := args[1].(*object.Int)
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for ^: int and %s", args[1].Kind())
	}
	if b.Value.Cmp(bigrat.NewInt(0)) < 0 {
		one := bigrat.NewInt(1)
		positive, err := a.Value.Pow(b.Value.Neg())
		if err != nil {
			return nil, err
		}
		r, err := bigrat.NewRational(one, positive)
		if err != nil {
			return nil, err
		}
		return object.NewRational(r), nil
	}
	result, err := a.Value.Pow(b.Value)
	if err != nil {
		return nil, err
	}
	return object.NewInt(result), nil
}

func intNeg(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	return object.NewInt(a.Value.Neg()), nil
}

func intEq(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	br, ok := asRational(args[1])
	if !ok {
		return object.NewBool(false), nil
	}
	return object.NewBool(a.Value.AsRational().Eq(br)), nil
}

func intLt(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	br, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for <: int and %s", args[1].Kind())
	}
	return object.NewBool(a.Value.AsRational().Cmp(br) < 0), nil
}

func intGt(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Int)
	br, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for >: int and %s", args[1].Kind())
	}
	return object.NewBool(a.Value.AsRational().Cmp(br) > 0), nil
}

func ratAdd(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for +: rational and %s", args[1].Kind())
	}
	return object.NewRational(a.Value.Add(b)), nil
}

func ratSub(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for -: rational and %s", args[1].Kind())
	}
	return object.NewRational(a.Value.Sub(b)), nil
}

func ratMul(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for *: rational and %s", args[1].Kind())
	}
	return object.NewRational(a.Value.Mul(b)), nil
}

func ratDiv(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for /: rational and %s", args[1].Kind())
	}
	result, err := a.Value.Div(b)
	if err != nil {
		return nil, err
	}
	return object.NewRational(result), nil
}

func ratEq(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return object.NewBool(false), nil
	}
	return object.NewBool(a.Value.Eq(b)), nil
}

func ratLt(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for <: rational and %s", args[1].Kind())
	}
	return object.NewBool(a.Value.Cmp(b) < 0), nil
}

func ratGt(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	a := args[0].(*object.Rational)
	b, ok := asRational(args[1])
	if !ok {
		return nil, object.TypeErrorf("unsupported operand type for >: rational and %s", args[1].Kind())
	}
	return object.NewBool(a.Value.Cmp(b) > 0), nil
}
