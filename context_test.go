package cycles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryContextDefaults(t *testing.T) {
	ctx := NewQueryContext()
	require.Equal(t, int64(0), ctx.RandomSeed())
	require.Equal(t, 0.0, ctx.RangeMin())
	require.Equal(t, 1.0, ctx.RangeMax())
}

func TestQueryContextUpdateIsImmutable(t *testing.T) {
	ctx := NewQueryContext()
	updated := ctx.WithRandomSeed(42)

	require.Equal(t, int64(0), ctx.RandomSeed(), "original context must be unaffected")
	require.Equal(t, int64(42), updated.RandomSeed())
}

func TestQueryContextSeededRandomIsDeterministic(t *testing.T) {
	ctx := NewQueryContext().WithRandomSeed(7)

	a := ctx.GetSeededRandom("SometimesPattern", 3, "1/2").NextDouble()
	b := ctx.GetSeededRandom("SometimesPattern", 3, "1/2").NextDouble()
	require.Equal(t, a, b)

	c := ctx.GetSeededRandom("SometimesPattern", 4, "1/2").NextDouble()
	require.NotEqual(t, a, c, "different mixins must not correlate")

	d := ctx.GetSeededRandom("OtherPattern", 3, "1/2").NextDouble()
	require.NotEqual(t, a, d, "different tags must not correlate")
}
