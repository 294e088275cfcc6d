// Package rng implements the deterministic seeded random generator
// QueryContext derives per combinator invocation (spec §4.9): a splitmix64
// finalizer mixes (seed, tag, mixins...) down to a 64-bit state, which then
// drives a PCG-style linear congruential generator. The mixer and the LCG
// constants are both fixed so that two implementations given the same
// inputs produce bit-identical streams.
package rng

import "fmt"

const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// RNG is a derived, stateful generator. It is never shared: every
// getSeededRandom call constructs a fresh one from its salted seed.
type RNG struct {
	state uint64
}

// Derive builds an RNG from an integer seed, a string tag identifying the
// calling combinator, and any number of mixin values (typically the cycle
// number and/or step index) stringified and folded into the seed. Distinct
// tags guarantee that two different combinators observing the same event
// do not correlate.
func Derive(seed int64, tag string, mixins ...interface{}) *RNG {
	h := splitmix64(uint64(seed))
	h = mixString(h, tag)
	for _, m := range mixins {
		h = mixString(h, fmt.Sprintf("%v", m))
	}
	// Run the state through the finalizer once more so the first Next()
	// call doesn't immediately reveal the raw mixed seed.
	return &RNG{state: splitmix64(h)}
}

// splitmix64 is the standard splitmix64 output finalizer, used here purely
// as a fixed, well-distributed integer mixing function (not as a generator
// in its own right).
func splitmix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func mixString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h = splitmix64(h)
	}
	return h
}

// next advances the LCG and returns the raw 64-bit state.
func (r *RNG) next() uint64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return r.state
}

// NextDouble returns a value in [0, 1).
func (r *RNG) NextDouble() float64 {
	// Top 53 bits give a uniformly distributed double mantissa.
	top53 := r.next() >> 11
	return float64(top53) / float64(uint64(1)<<53)
}

// NextInt returns a value in [lo, hi).
func (r *RNG) NextInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo)
	return lo + int(r.next()%span)
}

// Permutation returns a uniformly-shuffled permutation of [0, n) using a
// Fisher-Yates shuffle driven by this generator.
func (r *RNG) Permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.NextInt(0, i+1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
