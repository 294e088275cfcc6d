package cycles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRationalNormalization(t *testing.T) {
	tests := []struct {
		name       string
		num, den   int64
		wantNum    int64
		wantDen    int64
	}{
		{"already reduced", 1, 2, 1, 2},
		{"reduces by gcd", 4, 8, 1, 2},
		{"negative denominator flips sign", 3, -4, -3, 4},
		{"double negative is positive", -3, -4, 3, 4},
		{"zero numerator normalizes denominator to 1", 0, 7, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRational(tt.num, tt.den)
			require.Equal(t, tt.wantNum, r.Num)
			require.Equal(t, tt.wantDen, r.Den)
		})
	}
}

func TestRationalArithmetic(t *testing.T) {
	half := NewRational(1, 2)
	third := NewRational(1, 3)

	require.Equal(t, NewRational(5, 6), half.Add(third))
	require.Equal(t, NewRational(1, 6), half.Sub(third))
	require.Equal(t, NewRational(1, 6), half.Mul(third))
	require.Equal(t, NewRational(3, 2), half.Div(third))
	require.Equal(t, NewRational(-1, 2), half.Neg())
}

func TestRationalDivisionByZeroPanics(t *testing.T) {
	require.Panics(t, func() {
		NewRational(1, 2).Div(NewRational(0, 1))
	})
}

func TestSafeDivByZero(t *testing.T) {
	_, err := SafeDiv(NewRational(1, 2), NewRational(0, 5))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrArithmetic))
}

func TestRationalFloorCeilFrac(t *testing.T) {
	r := NewRational(7, 2) // 3.5
	require.Equal(t, int64(3), r.Floor())
	require.Equal(t, int64(4), r.Ceil())
	require.Equal(t, NewRational(1, 2), r.Frac())

	neg := NewRational(-7, 2) // -3.5
	require.Equal(t, int64(-4), neg.Floor())
	require.Equal(t, int64(-3), neg.Ceil())
	require.Equal(t, NewRational(1, 2), neg.Frac())
}

func TestRationalCompare(t *testing.T) {
	require.True(t, NewRational(1, 3).LessThan(NewRational(1, 2)))
	require.True(t, NewRational(2, 4).Equal(NewRational(1, 2)))
	require.True(t, NewRational(3, 4).GreaterThan(NewRational(1, 2)))
}

func TestRationalFromFloat(t *testing.T) {
	r := NewRationalFromFloat(0.25)
	require.Equal(t, NewRational(1, 4), r)

	r2 := NewRationalFromFloat(-1.5)
	require.Equal(t, NewRational(-3, 2), r2)
}

func TestRationalString(t *testing.T) {
	require.Equal(t, "1/2", NewRational(1, 2).String())
	require.Equal(t, "3", NewRational(6, 2).String())
}
