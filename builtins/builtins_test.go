package builtins

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kiz-lang/kiz/object"
	"github.com/stretchr/testify/require"
)

func install(t *testing.T, stdin string) (map[string]object.Value, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	globals := Install(&out, strings.NewReader(stdin))
	return globals, &out
}

func callNative(t *testing.T, globals map[string]object.Value, name string, args ...object.Value) (object.Value, error) {
	t.Helper()
	fn, ok := globals[name].(*object.NativeFunction)
	require.True(t, ok, "%s is not registered as a native function", name)
	return fn.Fn(context.Background(), object.Nil, args)
}

func TestPrintWritesDisplayFormAndNewline(t *testing.T) {
	globals, out := install(t, "")
	_, err := callNative(t, globals, "print", object.NewString("hi"), object.NewIntFromInt64(1))
	require.NoError(t, err)
	require.Equal(t, "\"hi\"1\n", out.String())
}

func TestInputReadsLineAndStripsNewline(t *testing.T) {
	globals, out := install(t, "world\n")
	v, err := callNative(t, globals, "input", object.NewString("prompt> "))
	require.NoError(t, err)
	s, ok := v.(*object.String)
	require.True(t, ok)
	require.Equal(t, "world", s.Value)
	require.Equal(t, "prompt> ", out.String())
}

func TestInputAtEOFReturnsEmptyString(t *testing.T) {
	globals, _ := install(t, "")
	v, err := callNative(t, globals, "input")
	require.NoError(t, err)
	s, ok := v.(*object.String)
	require.True(t, ok)
	require.Equal(t, "", s.Value)
}

func TestIsinstanceMatchesKindName(t *testing.T) {
	globals, _ := install(t, "")
	v, err := callNative(t, globals, "isinstance", object.NewIntFromInt64(1), object.NewString("int"))
	require.NoError(t, err)
	require.Equal(t, object.True, v)

	v, err = callNative(t, globals, "isinstance", object.NewIntFromInt64(1), object.NewString("string"))
	require.NoError(t, err)
	require.Equal(t, object.False, v)
}

func TestIsinstanceRejectsNonStringKind(t *testing.T) {
	globals, _ := install(t, "")
	_, err := callNative(t, globals, "isinstance", object.NewIntFromInt64(1), object.NewIntFromInt64(1))
	require.Error(t, err)
}

func TestLenOnStringListDict(t *testing.T) {
	globals, _ := install(t, "")

	v, err := callNative(t, globals, "len", object.NewString("hello"))
	require.NoError(t, err)
	require.Equal(t, "5", v.(*object.Int).Value.String())

	v, err = callNative(t, globals, "len", object.NewList([]object.Value{object.NewIntFromInt64(1), object.NewIntFromInt64(2)}))
	require.NoError(t, err)
	require.Equal(t, "2", v.(*object.Int).Value.String())

	d := object.NewDict()
	d.Entries.Set("a", object.NewIntFromInt64(1))
	v, err = callNative(t, globals, "len", d)
	require.NoError(t, err)
	require.Equal(t, "1", v.(*object.Int).Value.String())
}

func TestLenRejectsUnsupportedType(t *testing.T) {
	globals, _ := install(t, "")
	_, err := callNative(t, globals, "len", object.NewIntFromInt64(1))
	require.Error(t, err)
}

func TestStrUnquotesStringsAndFormatsOthers(t *testing.T) {
	globals, _ := install(t, "")

	v, err := callNative(t, globals, "str", object.NewString("hi"))
	require.NoError(t, err)
	require.Equal(t, "hi", v.(*object.String).Value)

	v, err = callNative(t, globals, "str", object.NewIntFromInt64(42))
	require.NoError(t, err)
	require.Equal(t, "42", v.(*object.String).Value)
}

func TestIntCoercesStringAndInt(t *testing.T) {
	globals, _ := install(t, "")

	v, err := callNative(t, globals, "int", object.NewString("123"))
	require.NoError(t, err)
	require.Equal(t, "123", v.(*object.Int).Value.String())

	n := object.NewIntFromInt64(7)
	v, err = callNative(t, globals, "int", n)
	require.NoError(t, err)
	require.Same(t, n, v)
}

func TestIntTruncatesRationalTowardZero(t *testing.T) {
	globals, _ := install(t, "")
	seven := object.NewIntFromInt64(7)
	two := object.NewIntFromInt64(2)
	sevenHalves, err := seven.Value.AsRational().Div(two.Value.AsRational())
	require.NoError(t, err)
	r := object.NewRational(sevenHalves)

	v, err := callNative(t, globals, "int", r)
	require.NoError(t, err)
	require.Equal(t, "3", v.(*object.Int).Value.String())
}

func TestIntRejectsBadStringAndUnsupportedType(t *testing.T) {
	globals, _ := install(t, "")
	_, err := callNative(t, globals, "int", object.NewString("not a number"))
	require.Error(t, err)

	_, err = callNative(t, globals, "int", object.NewBool(true))
	require.Error(t, err)
}

func TestTypeReturnsKindName(t *testing.T) {
	globals, _ := install(t, "")
	v, err := callNative(t, globals, "type", object.NewIntFromInt64(1))
	require.NoError(t, err)
	require.Equal(t, "int", v.(*object.String).Value)

	v, err = callNative(t, globals, "type", object.NewList(nil))
	require.NoError(t, err)
	require.Equal(t, "list", v.(*object.String).Value)
}

// magic calls a registered (kind, op) slot directly with self == args[0].
func magic(t *testing.T, kind object.Kind, mop object.MagicOp, args ...object.Value) (object.Value, error) {
	t.Helper()
	fn, ok := object.LookupMagic(kind, mop)
	require.True(t, ok, "no magic slot registered for %s/%v", kind, mop)
	native, ok := fn.(*object.NativeFunction)
	require.True(t, ok)
	return native.Fn(context.Background(), args[0], args)
}

func TestIntMagicArithmeticAndComparison(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))

	a := object.NewIntFromInt64(7)
	b := object.NewIntFromInt64(2)

	v, err := magic(t, object.IntKind, object.MagicAdd, a, b)
	require.NoError(t, err)
	require.Equal(t, "9", v.(*object.Int).Value.String())

	v, err = magic(t, object.IntKind, object.MagicMod, a, b)
	require.NoError(t, err)
	require.Equal(t, "1", v.(*object.Int).Value.String())

	v, err = magic(t, object.IntKind, object.MagicDiv, a, b)
	require.NoError(t, err)
	r, ok := v.(*object.Rational)
	require.True(t, ok, "int/int division must produce a Rational")
	require.Equal(t, "7/2", r.Value.String())

	v, err = magic(t, object.IntKind, object.MagicLt, b, a)
	require.NoError(t, err)
	require.Equal(t, object.True, v)
}

func TestIntMagicPromotesToRationalAgainstRationalOperand(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))

	a := object.NewIntFromInt64(1)
	one := object.NewIntFromInt64(1)
	two := object.NewIntFromInt64(2)
	oneHalf, err := one.Value.AsRational().Div(two.Value.AsRational())
	require.NoError(t, err)
	half := object.NewRational(oneHalf)

	v, err := magic(t, object.IntKind, object.MagicAdd, a, half)
	require.NoError(t, err)
	r, ok := v.(*object.Rational)
	require.True(t, ok)
	require.Equal(t, "3/2", r.Value.String())
}

func TestIntMagicAddRejectsNonNumericOperand(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))
	_, err := magic(t, object.IntKind, object.MagicAdd, object.NewIntFromInt64(1), object.NewString("x"))
	require.Error(t, err)
}

func TestStringMagicAddMulEq(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))

	v, err := magic(t, object.StringKind, object.MagicAdd, object.NewString("a"), object.NewString("b"))
	require.NoError(t, err)
	require.Equal(t, "ab", v.(*object.String).Value)

	v, err = magic(t, object.StringKind, object.MagicMul, object.NewString("ab"), object.NewIntFromInt64(3))
	require.NoError(t, err)
	require.Equal(t, "ababab", v.(*object.String).Value)

	v, err = magic(t, object.StringKind, object.MagicEq, object.NewString("x"), object.NewString("x"))
	require.NoError(t, err)
	require.Equal(t, object.True, v)
}

// TestStringInDispatchesOnNeedleAcrossContainerKinds exercises the fixed
// operand-order bug: a String needle supports String, List, and Dict
// containers, and self/args[0] is always the needle.
func TestStringInDispatchesOnNeedleAcrossContainerKinds(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))
	needle := object.NewString("b")

	v, err := magic(t, object.StringKind, object.MagicIn, needle, object.NewString("abc"))
	require.NoError(t, err)
	require.Equal(t, object.True, v)

	v, err = magic(t, object.StringKind, object.MagicIn, needle,
		object.NewList([]object.Value{object.NewString("a"), object.NewString("b")}))
	require.NoError(t, err)
	require.Equal(t, object.True, v)

	d := object.NewDict()
	d.Entries.Set("b", object.NewIntFromInt64(1))
	v, err = magic(t, object.StringKind, object.MagicIn, needle, d)
	require.NoError(t, err)
	require.Equal(t, object.True, v)

	v, err = magic(t, object.StringKind, object.MagicIn, object.NewString("z"), object.NewString("abc"))
	require.NoError(t, err)
	require.Equal(t, object.False, v)
}

func TestListInSearchesForEqualSubList(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))
	needle := object.NewList([]object.Value{object.NewIntFromInt64(1)})
	container := object.NewList([]object.Value{
		object.NewList([]object.Value{object.NewIntFromInt64(9)}),
		object.NewList([]object.Value{object.NewIntFromInt64(1)}),
	})
	v, err := magic(t, object.ListKind, object.MagicIn, needle, container)
	require.NoError(t, err)
	require.Equal(t, object.True, v)
}

func TestListInRejectsNonListContainer(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))
	needle := object.NewList(nil)
	_, err := magic(t, object.ListKind, object.MagicIn, needle, object.NewString("x"))
	require.Error(t, err)
}

func TestDictAddMergesLeftBiasedByRight(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))
	a := object.NewDict()
	a.Entries.Set("x", object.NewIntFromInt64(1))
	b := object.NewDict()
	b.Entries.Set("x", object.NewIntFromInt64(2))
	b.Entries.Set("y", object.NewIntFromInt64(3))

	v, err := magic(t, object.DictKind, object.MagicAdd, a, b)
	require.NoError(t, err)
	merged := v.(*object.Dict)
	require.Equal(t, 2, merged.Len())
	x, _ := merged.Entries.Get("x")
	require.Equal(t, "2", x.(*object.Int).Value.String())
}

func TestDictInSearchesContainerListForEqualDict(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))
	needle := object.NewDict()
	needle.Entries.Set("k", object.NewIntFromInt64(1))

	other := object.NewDict()
	other.Entries.Set("k", object.NewIntFromInt64(1))

	container := object.NewList([]object.Value{other})
	v, err := magic(t, object.DictKind, object.MagicIn, needle, container)
	require.NoError(t, err)
	require.Equal(t, object.True, v)
}

func TestBoolAndNilEqMagic(t *testing.T) {
	Install(&bytes.Buffer{}, strings.NewReader(""))

	v, err := magic(t, object.BoolKind, object.MagicEq, object.True, object.True)
	require.NoError(t, err)
	require.Equal(t, object.True, v)

	v, err = magic(t, object.BoolKind, object.MagicEq, object.True, object.NewIntFromInt64(1))
	require.NoError(t, err)
	require.Equal(t, object.False, v)

	v, err = magic(t, object.NilKind, object.MagicEq, object.Nil, object.Nil)
	require.NoError(t, err)
	require.Equal(t, object.True, v)
}
