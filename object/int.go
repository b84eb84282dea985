package object

import "github.com/kiz-lang/kiz/bigrat"

// Int is an arbitrary-precision integer value.
type Int struct {
	base
	Value bigrat.Int
}

// NewInt wraps a bigrat.Int as a kiz Value.
func NewInt(v bigrat.Int) *Int {
	return &Int{base: newBase(), Value: v}
}

// NewIntFromInt64 is a convenience constructor for small literal integers.
func NewIntFromInt64(n int64) *Int {
	return NewInt(bigrat.NewInt(n))
}

func (i *Int) Kind() Kind      { return IntKind }
func (i *Int) Display() string { return i.Value.String() }
