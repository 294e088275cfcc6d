package cycles

import "fmt"

// TimeSpan is a half-open interval [Begin, End) of Rationals, with
// Begin <= End.
type TimeSpan struct {
	Begin Rational
	End   Rational
}

// NewTimeSpan builds a TimeSpan from begin to end.
func NewTimeSpan(begin, end Rational) TimeSpan {
	return TimeSpan{Begin: begin, End: end}
}

// Duration returns End - Begin.
func (t TimeSpan) Duration() Rational {
	return t.End.Sub(t.Begin)
}

// Shift returns t translated by offset.
func (t TimeSpan) Shift(offset Rational) TimeSpan {
	return TimeSpan{Begin: t.Begin.Add(offset), End: t.End.Add(offset)}
}

// Scale returns t with both endpoints multiplied by factor.
func (t TimeSpan) Scale(factor Rational) TimeSpan {
	return TimeSpan{Begin: t.Begin.Mul(factor), End: t.End.Mul(factor)}
}

// WithTime returns a copy of t with Begin and End independently remapped by f.
func (t TimeSpan) WithTime(f func(Rational) Rational) TimeSpan {
	return TimeSpan{Begin: f(t.Begin), End: f(t.End)}
}

// ClipTo intersects t with other, returning (clipped, true), or
// (zero-value, false) when one span begins after the other ends. Spans that
// only touch yield an empty clipped span and true.
func (t TimeSpan) ClipTo(other TimeSpan) (TimeSpan, bool) {
	begin := t.Begin.Max(other.Begin)
	end := t.End.Min(other.End)
	if begin.GreaterThan(end) {
		return TimeSpan{}, false
	}
	return TimeSpan{Begin: begin, End: end}, true
}

// Overlaps reports whether t and other share positive duration under
// half-open interval semantics.
func (t TimeSpan) Overlaps(other TimeSpan) bool {
	if t.Begin.GreaterOrEqual(t.End) || other.Begin.GreaterOrEqual(other.End) {
		return false
	}
	return t.Begin.LessThan(other.End) && other.Begin.LessThan(t.End)
}

// Contains reports whether t fully contains other (t ⊇ other).
func (t TimeSpan) Contains(other TimeSpan) bool {
	return t.Begin.LessOrEqual(other.Begin) && other.End.LessOrEqual(t.End)
}

// Equal reports whether t and other have identical bounds.
func (t TimeSpan) Equal(other TimeSpan) bool {
	return t.Begin.Equal(other.Begin) && t.End.Equal(other.End)
}

// String renders t as "[begin, end)".
func (t TimeSpan) String() string {
	return fmt.Sprintf("[%s, %s)", t.Begin, t.End)
}

// CycleSpans splits [from, to) into one TimeSpan per integer cycle it
// overlaps, each clipped to [from, to). Most primitives tile by integer
// cycle number (spec §4.1, "Cycle tiling"); this is the shared helper every
// per-cycle combinator uses to enumerate the cycles it must query.
func CycleSpans(from, to Rational) []TimeSpan {
	if from.GreaterOrEqual(to) {
		return nil
	}
	var spans []TimeSpan
	cycle := from.Floor()
	for {
		cycleBegin := NewRationalFromInt(cycle)
		cycleEnd := NewRationalFromInt(cycle + 1)
		if cycleBegin.GreaterOrEqual(to) {
			break
		}
		begin := cycleBegin.Max(from)
		end := cycleEnd.Min(to)
		if begin.LessThan(end) {
			spans = append(spans, TimeSpan{Begin: begin, End: end})
		}
		cycle++
	}
	return spans
}

// IntegerCyclesOverlapping returns the integer cycle indices i such that
// [i, i+1) overlaps [from, to).
func IntegerCyclesOverlapping(from, to Rational) []int64 {
	if from.GreaterOrEqual(to) {
		return nil
	}
	var cycles []int64
	start := from.Floor()
	end := to.Ceil()
	// to is exclusive: if `to` lands exactly on an integer, that integer's
	// cycle [to, to+1) does not overlap [from, to).
	if to.Floor() == to.Ceil() && to.Frac().IsZero() {
		end = to.Floor()
	}
	for i := start; i < end; i++ {
		cb := NewRationalFromInt(i)
		ce := NewRationalFromInt(i + 1)
		if cb.LessThan(to) && ce.GreaterThan(from) {
			cycles = append(cycles, i)
		}
	}
	return cycles
}
