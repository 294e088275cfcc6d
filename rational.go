package cycles

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrArithmetic is the sentinel error kind for rational arithmetic failures:
// division by zero and overflow of the underlying signed 64-bit numerator
// or denominator.
var ErrArithmetic = errors.New("cycles: arithmetic error")

// ArithmeticError carries the operands that triggered an ErrArithmetic
// failure, for callers that want more than the sentinel.
type ArithmeticError struct {
	Op      string
	A, B    Rational
	Message string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("cycles: arithmetic error: %s(%s, %s): %s", e.Op, e.A, e.B, e.Message)
}

func (e *ArithmeticError) Unwrap() error { return ErrArithmetic }

// Rational is an exact rational number, always normalized: gcd-reduced with
// the sign carried on Num and Den > 0.
type Rational struct {
	Num int64
	Den int64
}

// NewRational builds a normalized Rational from a numerator and denominator.
// A zero denominator is a programmer error and panics with ArithmeticError,
// matching math/big.Rat's behavior for the same invariant violation.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic(&ArithmeticError{Op: "new", A: Rational{Num: num}, B: Rational{Num: den, Den: 1}, Message: "zero denominator"})
	}
	return normalize(num, den)
}

// NewRationalFromInt lifts an integer to a Rational with denominator 1.
func NewRationalFromInt(i int64) Rational {
	return Rational{Num: i, Den: 1}
}

// NewRationalFromFloat approximates a float64 as a Rational, bounding the
// denominator to keep cycle arithmetic well-behaved.
func NewRationalFromFloat(f float64) Rational {
	const maxDen = 1_000_000
	if f == 0 {
		return Rational{Num: 0, Den: 1}
	}
	neg := f < 0
	if neg {
		f = -f
	}
	whole := int64(f)
	frac := f - float64(whole)

	// Continued-fraction search for the best approximation with Den <= maxDen.
	bestNum, bestDen := int64(0), int64(1)
	if frac > 0 {
		h0, h1 := int64(0), int64(1)
		k0, k1 := int64(1), int64(0)
		x := frac
		for i := 0; i < 32; i++ {
			a := int64(x)
			h2 := a*h1 + h0
			k2 := a*k1 + k0
			if k2 > maxDen {
				break
			}
			h0, h1 = h1, h2
			k0, k1 = k1, k2
			bestNum, bestDen = h1, k1
			rem := x - float64(a)
			if rem < 1e-12 {
				break
			}
			x = 1 / rem
		}
	}
	num := whole*bestDen + bestNum
	den := bestDen
	if neg {
		num = -num
	}
	return normalize(num, den)
}

func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func normalize(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{Num: 0, Den: 1}
	}
	g := gcd64(num, den)
	return Rational{Num: num / g, Den: den / g}
}

func absU64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

// checkedMul multiplies two int64s and reports whether the exact product
// fits in an int64 (signed).
func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absU64(a), absU64(b))
	if neg {
		if hi != 0 || lo > uint64(1)<<63 {
			return 0, false
		}
		return -int64(lo), true
	}
	if hi != 0 || lo > uint64(1)<<63-1 {
		return 0, false
	}
	return int64(lo), true
}

func mustMul(op string, a, b int64, ra, rb Rational) int64 {
	v, ok := checkedMul(a, b)
	if !ok {
		panic(&ArithmeticError{Op: op, A: ra, B: rb, Message: "overflow"})
	}
	return v
}

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	num := mustMul("add.cross1", r.Num, o.Den, r, o) + mustMul("add.cross2", o.Num, r.Den, r, o)
	den := mustMul("add.den", r.Den, o.Den, r, o)
	return normalize(num, den)
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	return r.Add(o.Neg())
}

// Mul returns r * o.
func (r Rational) Mul(o Rational) Rational {
	num := mustMul("mul.num", r.Num, o.Num, r, o)
	den := mustMul("mul.den", r.Den, o.Den, r, o)
	return normalize(num, den)
}

// Div returns r / o. Panics with ArithmeticError (wrapping ErrArithmetic) if
// o is zero; see SafeDiv for a non-panicking variant used at script
// boundaries.
func (r Rational) Div(o Rational) Rational {
	if o.Num == 0 {
		panic(&ArithmeticError{Op: "div", A: r, B: o, Message: "division by zero"})
	}
	num := mustMul("div.num", r.Num, o.Den, r, o)
	den := mustMul("div.den", r.Den, o.Num, r, o)
	return normalize(num, den)
}

// SafeDiv is Div without the panic: it recovers an ArithmeticError panic
// and returns it as a regular error. Used by the mini-script interpreter so
// that `a / 0` in a script surfaces as a catchable error instead of
// crashing the host process.
func SafeDiv(a, b Rational) (result Rational, err error) {
	defer func() {
		if p := recover(); p != nil {
			if ae, ok := p.(*ArithmeticError); ok {
				err = ae
				return
			}
			panic(p)
		}
	}()
	return a.Div(b), nil
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{Num: -r.Num, Den: r.Den}
}

// IsZero reports whether r == 0.
func (r Rational) IsZero() bool { return r.Num == 0 }

// Compare returns -1, 0, or 1 as r is less than, equal to, or greater than o.
func (r Rational) Compare(o Rational) int {
	// r.Num/r.Den vs o.Num/o.Den, cross-multiplied (Den always positive).
	lhs := mustMul("cmp.lhs", r.Num, o.Den, r, o)
	rhs := mustMul("cmp.rhs", o.Num, r.Den, r, o)
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

func (r Rational) LessThan(o Rational) bool         { return r.Compare(o) < 0 }
func (r Rational) LessOrEqual(o Rational) bool      { return r.Compare(o) <= 0 }
func (r Rational) GreaterThan(o Rational) bool      { return r.Compare(o) > 0 }
func (r Rational) GreaterOrEqual(o Rational) bool   { return r.Compare(o) >= 0 }
func (r Rational) Equal(o Rational) bool            { return r.Compare(o) == 0 }

// Min returns the smaller of r and o.
func (r Rational) Min(o Rational) Rational {
	if r.LessOrEqual(o) {
		return r
	}
	return o
}

// Max returns the larger of r and o.
func (r Rational) Max(o Rational) Rational {
	if r.GreaterOrEqual(o) {
		return r
	}
	return o
}

// Floor returns the greatest integer <= r.
func (r Rational) Floor() int64 {
	q := r.Num / r.Den
	if r.Num%r.Den != 0 && r.Num < 0 {
		q--
	}
	return q
}

// Ceil returns the smallest integer >= r.
func (r Rational) Ceil() int64 {
	q := r.Num / r.Den
	if r.Num%r.Den != 0 && r.Num > 0 {
		q++
	}
	return q
}

// Frac returns the non-negative fractional part of r, i.e. r - floor(r).
func (r Rational) Frac() Rational {
	f := r.Sub(NewRationalFromInt(r.Floor()))
	return f
}

// Float64 converts r to a float64 approximation.
func (r Rational) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// String renders r as "num/den", or just "num" when the denominator is 1.
func (r Rational) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Epsilon is the small rational used by tempo transforms to trim scaled
// query-arc bounds and suppress duplicate events at shared cycle
// boundaries (spec §4.4, §9): a deliberate property of the engine, not an
// accident of floating point.
var Epsilon = NewRational(1, 10_000_000)
