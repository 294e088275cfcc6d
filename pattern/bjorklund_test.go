package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func countTrue(seq []bool) int {
	n := 0
	for _, b := range seq {
		if b {
			n++
		}
	}
	return n
}

func TestBjorklundKnownPatterns(t *testing.T) {
	cases := []struct {
		pulses, steps int
		want          []bool
	}{
		{3, 8, []bool{true, false, false, true, false, false, true, false}},
		{5, 8, []bool{true, false, true, true, false, true, true, false}},
	}
	for _, c := range cases {
		got := Bjorklund(c.pulses, c.steps)
		require.Equal(t, c.want, got)
	}
}

func TestBjorklundDegenerateCases(t *testing.T) {
	require.Nil(t, Bjorklund(3, 0))
	require.Equal(t, []bool{false, false, false}, Bjorklund(0, 3))
	require.Equal(t, []bool{true, true, true}, Bjorklund(5, 3))
}

func TestBjorklundHasExactPulseCount(t *testing.T) {
	for steps := 1; steps <= 16; steps++ {
		for pulses := 0; pulses <= steps; pulses++ {
			seq := Bjorklund(pulses, steps)
			require.Len(t, seq, steps)
			require.Equal(t, pulses, countTrue(seq))
		}
	}
}

func TestRotate(t *testing.T) {
	seq := []bool{true, false, false, false}
	require.Equal(t, []bool{false, false, false, true}, Rotate(seq, 1))
	require.Equal(t, seq, Rotate(seq, 0))
	require.Equal(t, seq, Rotate(seq, 4))
}
