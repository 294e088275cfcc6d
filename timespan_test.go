package cycles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func r(num, den int64) Rational { return NewRational(num, den) }

func TestTimeSpanClipTo(t *testing.T) {
	a := TimeSpan{Begin: r(0, 1), End: r(1, 1)}
	b := TimeSpan{Begin: r(1, 2), End: r(3, 2)}

	clipped, ok := a.ClipTo(b)
	require.True(t, ok)
	require.Equal(t, r(1, 2), clipped.Begin)
	require.Equal(t, r(1, 1), clipped.End)

	disjointA := TimeSpan{Begin: r(0, 1), End: r(1, 1)}
	disjointB := TimeSpan{Begin: r(2, 1), End: r(3, 1)}
	_, ok = disjointA.ClipTo(disjointB)
	require.False(t, ok)
}

func TestTimeSpanOverlaps(t *testing.T) {
	a := TimeSpan{Begin: r(0, 1), End: r(1, 1)}
	touching := TimeSpan{Begin: r(1, 1), End: r(2, 1)}
	require.False(t, a.Overlaps(touching), "half-open spans that only touch at the boundary do not overlap")

	overlapping := TimeSpan{Begin: r(1, 2), End: r(3, 2)}
	require.True(t, a.Overlaps(overlapping))
}

func TestTimeSpanShiftScale(t *testing.T) {
	a := TimeSpan{Begin: r(0, 1), End: r(1, 2)}
	shifted := a.Shift(r(1, 1))
	require.Equal(t, TimeSpan{Begin: r(1, 1), End: r(3, 2)}, shifted)

	scaled := a.Scale(r(2, 1))
	require.Equal(t, TimeSpan{Begin: r(0, 1), End: r(1, 1)}, scaled)
}

func TestCycleSpansSingleCycle(t *testing.T) {
	spans := CycleSpans(r(0, 1), r(1, 1))
	require.Len(t, spans, 1)
	require.Equal(t, TimeSpan{Begin: r(0, 1), End: r(1, 1)}, spans[0])
}

func TestCycleSpansAcrossMultipleCycles(t *testing.T) {
	spans := CycleSpans(r(1, 2), r(5, 2))
	require.Len(t, spans, 3)
	require.Equal(t, TimeSpan{Begin: r(1, 2), End: r(1, 1)}, spans[0])
	require.Equal(t, TimeSpan{Begin: r(1, 1), End: r(2, 1)}, spans[1])
	require.Equal(t, TimeSpan{Begin: r(2, 1), End: r(5, 2)}, spans[2])
}

func TestIntegerCyclesOverlapping(t *testing.T) {
	require.Equal(t, []int64{0}, IntegerCyclesOverlapping(r(0, 1), r(1, 1)))
	require.Equal(t, []int64{0, 1}, IntegerCyclesOverlapping(r(0, 1), r(2, 1)))
	require.Equal(t, []int64{-1, 0}, IntegerCyclesOverlapping(r(-1, 2), r(1, 2)))
}
