package object

import (
	"context"
	"testing"

	"github.com/kiz-lang/kiz/bigrat"
	"github.com/stretchr/testify/require"
)

func TestRefCounting(t *testing.T) {
	v := NewIntFromInt64(5)
	require.Equal(t, 0, v.RefCount())

	Acquire(v)
	require.Equal(t, 1, v.RefCount())

	Acquire(v)
	require.Equal(t, 2, v.RefCount())

	Release(v)
	require.Equal(t, 1, v.RefCount())
}

func TestListOwnsElements(t *testing.T) {
	elem := NewIntFromInt64(1)
	require.Equal(t, 0, elem.RefCount())

	l := NewList([]Value{elem})
	require.Equal(t, 1, elem.RefCount())

	Release(l)
	require.Equal(t, 0, elem.RefCount())
}

func TestAttrsSetReplacesOwnership(t *testing.T) {
	attrs := NewAttrs()
	first := NewIntFromInt64(1)
	second := NewIntFromInt64(2)

	attrs.Set("x", first)
	require.Equal(t, 1, first.RefCount())

	attrs.Set("x", second)
	require.Equal(t, 0, first.RefCount())
	require.Equal(t, 1, second.RefCount())

	v, ok := attrs.Get("x")
	require.True(t, ok)
	require.Same(t, second, v)
}

func TestAttrsInsertionOrder(t *testing.T) {
	attrs := NewAttrs()
	attrs.Set("b", NewIntFromInt64(2))
	attrs.Set("a", NewIntFromInt64(1))
	attrs.Set("c", NewIntFromInt64(3))
	require.Equal(t, []string{"b", "a", "c"}, attrs.Keys())
}

func TestMagicTableRegisterAndLookup(t *testing.T) {
	fn := NewNativeFunction("test.magic", func(_ context.Context, _ Value, args []Value) (Value, error) {
		return args[0], nil
	})
	RegisterMagic(IntKind, MagicAdd, fn)

	got, ok := LookupMagic(IntKind, MagicAdd)
	require.True(t, ok)
	require.Same(t, fn, got)

	_, ok = LookupMagic(IntKind, MagicPow)
	require.False(t, ok)

	_, ok = LookupMagic(RationalKind, MagicAdd)
	require.False(t, ok)
}

func TestDisplayFormatsPerKind(t *testing.T) {
	require.Equal(t, "5", NewIntFromInt64(5).Display())
	require.Equal(t, "\"hi\"", NewString("hi").Display())
	require.Equal(t, "nil", Nil.Display())
	require.Equal(t, "true", NewBool(true).Display())

	r, err := bigrat.NewRational(bigrat.NewInt(1), bigrat.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, "1/2", NewRational(r).Display())
}

func TestListDisplay(t *testing.T) {
	l := NewList([]Value{NewIntFromInt64(1), NewIntFromInt64(2)})
	defer Release(l)
	require.Equal(t, "[1, 2]", l.Display())
}

func TestDictLenAndDestroy(t *testing.T) {
	d := NewDict()
	v := NewIntFromInt64(7)
	d.Entries.Set("x", v)
	require.Equal(t, 1, d.Len())
	require.Equal(t, 1, v.RefCount())

	Release(d)
	require.Equal(t, 0, v.RefCount())
}
