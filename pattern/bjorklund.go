package pattern

// Bjorklund distributes pulses pulses as evenly as possible over steps
// slots, returning a boolean sequence of length steps (true = onset). It is
// the classic Bjorklund/Euclidean-rhythm algorithm used by TidalCycles and
// Strudel's `.euclid`.
//
// Invariants: for 0 <= pulses <= steps, the result has exactly steps
// entries and exactly pulses of them true. Out-of-range inputs degrade to
// an all-false sequence of the requested length rather than erroring,
// matching spec §7's "pattern constructors do not throw" rule (negative
// pulses in euclidean -> empty).
func Bjorklund(pulses, steps int) []bool {
	if steps <= 0 {
		return nil
	}
	if pulses <= 0 {
		return make([]bool, steps)
	}
	if pulses >= steps {
		out := make([]bool, steps)
		for i := range out {
			out[i] = true
		}
		return out
	}

	// Classic Bjorklund bucket construction: start with `pulses` buckets of
	// [true] and `steps-pulses` buckets of [false], then repeatedly append
	// the smallest-count group onto the largest-count group until at most
	// one group remains with count > 1.
	a := make([][]bool, pulses)
	for i := range a {
		a[i] = []bool{true}
	}
	b := make([][]bool, steps-pulses)
	for i := range b {
		b[i] = []bool{false}
	}

	for len(b) > 1 {
		n := len(a)
		if n > len(b) {
			n = len(b)
		}
		var newA [][]bool
		for i := 0; i < n; i++ {
			newA = append(newA, append(append([]bool{}, a[i]...), b[i]...))
		}
		var remainder [][]bool
		if len(a) > n {
			remainder = a[n:]
		} else {
			remainder = b[n:]
		}
		a, b = newA, remainder
		if len(a) <= 1 {
			break
		}
	}

	var out []bool
	for _, g := range a {
		out = append(out, g...)
	}
	for _, g := range b {
		out = append(out, g...)
	}
	return out
}

// Rotate returns seq rotated left by n slots (i.e. slot i of the result is
// seq[(i+n) mod len(seq)]), the mechanism behind Euclidean's rotation
// parameter.
func Rotate(seq []bool, n int) []bool {
	l := len(seq)
	if l == 0 {
		return nil
	}
	n = ((n % l) + l) % l
	out := make([]bool, l)
	for i := range out {
		out[i] = seq[(i+n)%l]
	}
	return out
}
