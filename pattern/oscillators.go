package pattern

import "math"

// Sine oscillates between min and max with period 1 cycle, starting at the
// midpoint and rising (cosine-shifted sine, matching the reference systems'
// `sine` convention where cycle 0 is the midpoint).
func Sine() Pattern {
	return Continuous(func(min, max, t float64) float64 {
		return min + (max-min)*(math.Sin(2*math.Pi*t)+1)/2
	})
}

// Cosine is Sine phase-shifted a quarter cycle earlier, so it starts at max.
func Cosine() Pattern {
	return Continuous(func(min, max, t float64) float64 {
		return min + (max-min)*(math.Cos(2*math.Pi*t)+1)/2
	})
}

// Saw ramps linearly from min to max once per cycle.
func Saw() Pattern {
	return Continuous(func(min, max, t float64) float64 {
		frac := t - math.Floor(t)
		return min + (max-min)*frac
	})
}

// Isaw is Saw inverted: it ramps from max down to min.
func Isaw() Pattern {
	return Continuous(func(min, max, t float64) float64 {
		frac := t - math.Floor(t)
		return max - (max-min)*frac
	})
}

// Tri ramps up then down linearly within each cycle (a triangle wave).
func Tri() Pattern {
	return Continuous(func(min, max, t float64) float64 {
		frac := t - math.Floor(t)
		if frac < 0.5 {
			return min + (max-min)*(frac*2)
		}
		return max - (max-min)*((frac-0.5)*2)
	})
}

// Square alternates between min (first half of the cycle) and max (second
// half).
func Square() Pattern {
	return Continuous(func(min, max, t float64) float64 {
		frac := t - math.Floor(t)
		if frac < 0.5 {
			return min
		}
		return max
	})
}

// Envelope wraps an arbitrary shaping function as a Continuous pattern,
// exposed for scripts that want a bespoke curve without a named oscillator.
func Envelope(f func(t float64) float64) Pattern {
	return Continuous(func(min, max, t float64) float64 {
		frac := t - math.Floor(t)
		return min + (max-min)*f(frac)
	})
}
