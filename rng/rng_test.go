package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive(7, "tag", 1, "x").NextDouble()
	b := Derive(7, "tag", 1, "x").NextDouble()
	require.Equal(t, a, b)
}

func TestDeriveDiffersByTag(t *testing.T) {
	a := Derive(7, "tagA").NextDouble()
	b := Derive(7, "tagB").NextDouble()
	require.NotEqual(t, a, b)
}

func TestDeriveDiffersBySeed(t *testing.T) {
	a := Derive(1, "tag").NextDouble()
	b := Derive(2, "tag").NextDouble()
	require.NotEqual(t, a, b)
}

func TestNextDoubleInUnitRange(t *testing.T) {
	r := Derive(42, "range")
	for i := 0; i < 1000; i++ {
		v := r.NextDouble()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestNextIntRespectsBounds(t *testing.T) {
	r := Derive(42, "bounds")
	for i := 0; i < 1000; i++ {
		v := r.NextInt(3, 9)
		require.GreaterOrEqual(t, v, 3)
		require.Less(t, v, 9)
	}
}

func TestNextIntDegenerate(t *testing.T) {
	r := Derive(1, "degenerate")
	require.Equal(t, 5, r.NextInt(5, 5))
	require.Equal(t, 5, r.NextInt(5, 2))
}

func TestPermutationIsAPermutation(t *testing.T) {
	r := Derive(99, "perm")
	perm := r.Permutation(10)
	require.Len(t, perm, 10)
	seen := make(map[int]bool)
	for _, v := range perm {
		require.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true
	}
}
