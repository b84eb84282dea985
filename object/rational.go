package object

import "github.com/kiz-lang/kiz/bigrat"

// Rational is a reduced fraction value with a positive denominator, per
// spec.md §3.1.
type Rational struct {
	base
	Value bigrat.Rational
}

func NewRational(v bigrat.Rational) *Rational {
	return &Rational{base: newBase(), Value: v}
}

func (r *Rational) Kind() Kind      { return RationalKind }
func (r *Rational) Display() string { return r.Value.String() }
