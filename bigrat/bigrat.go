// Package bigrat provides the arbitrary-precision integer and rational
// arithmetic spec.md §1 calls out as a black-box dependency ("a bignum
// type and a rational-number type built on it, with the standard
// ring/field operations and total ordering"). No third-party
// arbitrary-precision-rational library appears anywhere in the retrieved
// example pack, so this wraps the standard library's math/big — the
// documented, justified exception to "never fall back to stdlib" (see
// DESIGN.md).
package bigrat

import (
	"fmt"
	"math/big"
)

// Int is an arbitrary-precision signed integer.
type Int struct {
	v *big.Int
}

// NewInt builds an Int from an int64.
func NewInt(n int64) Int { return Int{big.NewInt(n)} }

// ParseInt parses a base-10 string into an Int.
func ParseInt(s string) (Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, fmt.Errorf("invalid integer literal %q", s)
	}
	return Int{v}, nil
}

func (a Int) Add(b Int) Int { return Int{new(big.Int).Add(a.v, b.v)} }
func (a Int) Sub(b Int) Int { return Int{new(big.Int).Sub(a.v, b.v)} }
func (a Int) Mul(b Int) Int { return Int{new(big.Int).Mul(a.v, b.v)} }

// Div performs truncating integer division. Returns an error on division
// by zero, per spec.md §7 ("division or modulus by zero").
func (a Int) Div(b Int) (Int, error) {
	if b.v.Sign() == 0 {
		return Int{}, fmt.Errorf("division by zero")
	}
	return Int{new(big.Int).Quo(a.v, b.v)}, nil
}

// Mod performs truncating remainder, matching the sign of a (Go's Quo/Rem
// semantics), and errors on modulus by zero.
func (a Int) Mod(b Int) (Int, error) {
	if b.v.Sign() == 0 {
		return Int{}, fmt.Errorf("modulus by zero")
	}
	return Int{new(big.Int).Rem(a.v, b.v)}, nil
}

// Pow computes a raised to a non-negative integer power b.
func (a Int) Pow(b Int) (Int, error) {
	if b.v.Sign() < 0 {
		return Int{}, fmt.Errorf("negative exponent not supported for integer power")
	}
	return Int{new(big.Int).Exp(a.v, b.v, nil)}, nil
}

func (a Int) Neg() Int { return Int{new(big.Int).Neg(a.v)} }

func (a Int) Cmp(b Int) int { return a.v.Cmp(b.v) }
func (a Int) Eq(b Int) bool { return a.v.Cmp(b.v) == 0 }

func (a Int) IsZero() bool { return a.v.Sign() == 0 }

func (a Int) String() string { return a.v.String() }

// Int64 returns the value truncated to an int64 (used only by builtins
// that must interoperate with host-native indices).
func (a Int) Int64() int64 { return a.v.Int64() }

// AsRational promotes an Int to a Rational with denominator 1, per
// spec.md §4.1 numeric coercion ("Integer↔rational operators promote
// integer operands to rational form (integer as N/1)").
func (a Int) AsRational() Rational { return Rational{num: new(big.Int).Set(a.v), den: big.NewInt(1)} }

// Rational is a reduced fraction with a positive denominator, per
// spec.md §3.1 ("A Rational is always reduced ... and its denominator is
// positive").
type Rational struct {
	num, den *big.Int
}

// NewRational builds a reduced Rational from an integer numerator and
// denominator. Returns an error if den is zero.
func NewRational(num, den Int) (Rational, error) {
	if den.v.Sign() == 0 {
		return Rational{}, fmt.Errorf("rational with zero denominator")
	}
	return reduce(new(big.Int).Set(num.v), new(big.Int).Set(den.v)), nil
}

func reduce(num, den *big.Int) Rational {
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Sign() != 0 && g.Cmp(big.NewInt(1)) != 0 {
		num.Quo(num, g)
		den.Quo(den, g)
	}
	return Rational{num: num, den: den}
}

func (a Rational) Num() Int { return Int{new(big.Int).Set(a.num)} }
func (a Rational) Den() Int { return Int{new(big.Int).Set(a.den)} }

// IsWhole reports whether the rational has denominator 1.
func (a Rational) IsWhole() bool { return a.den.Cmp(big.NewInt(1)) == 0 }

func (a Rational) Add(b Rational) Rational {
	num := new(big.Int).Add(new(big.Int).Mul(a.num, b.den), new(big.Int).Mul(b.num, a.den))
	den := new(big.Int).Mul(a.den, b.den)
	return reduce(num, den)
}

func (a Rational) Sub(b Rational) Rational {
	num := new(big.Int).Sub(new(big.Int).Mul(a.num, b.den), new(big.Int).Mul(b.num, a.den))
	den := new(big.Int).Mul(a.den, b.den)
	return reduce(num, den)
}

func (a Rational) Mul(b Rational) Rational {
	num := new(big.Int).Mul(a.num, b.num)
	den := new(big.Int).Mul(a.den, b.den)
	return reduce(num, den)
}

func (a Rational) Div(b Rational) (Rational, error) {
	if b.num.Sign() == 0 {
		return Rational{}, fmt.Errorf("division by zero")
	}
	num := new(big.Int).Mul(a.num, b.den)
	den := new(big.Int).Mul(a.den, b.num)
	return reduce(num, den), nil
}

func (a Rational) Cmp(b Rational) int {
	lhs := new(big.Int).Mul(a.num, b.den)
	rhs := new(big.Int).Mul(b.num, a.den)
	return lhs.Cmp(rhs)
}

func (a Rational) Eq(b Rational) bool { return a.Cmp(b) == 0 }

func (a Rational) String() string {
	if a.IsWhole() {
		return a.num.String()
	}
	return a.num.String() + "/" + a.den.String()
}
