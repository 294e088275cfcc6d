package pattern

import (
	"github.com/wbrown/cycles"
)

// precisionFloor suppresses degenerate queries at sequence step boundaries
// (spec §4.3): an inner arc narrower than this is not worth querying.
var precisionFloor = cycles.NewRational(1, 10_000_000)

// --- Sequence --------------------------------------------------------------

type sequence struct {
	Base
	children []Pattern
}

// Sequence squashes children into one cycle, each occupying a share of the
// cycle proportional to its Weight().
func Sequence(children ...Pattern) Pattern {
	return &sequence{children: children}
}

func (s *sequence) stepOffsets() []float64 {
	offsets := make([]float64, len(s.children)+1)
	total := 0.0
	for i, c := range s.children {
		total += c.Weight()
		offsets[i+1] = total
	}
	if total == 0 {
		return offsets
	}
	for i := range offsets {
		offsets[i] /= total
	}
	return offsets
}

func (s *sequence) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if len(s.children) == 0 {
		return nil
	}
	offsets := s.stepOffsets()
	var out []cycles.Event
	for _, cycleSpan := range cycles.CycleSpans(from, to) {
		cycleNum := cycleSpan.Begin.Floor()
		cycleBegin := cycles.NewRationalFromInt(cycleNum)

		for i, child := range s.children {
			stepStartF := offsets[i]
			stepSizeF := offsets[i+1] - offsets[i]
			if stepSizeF <= 0 {
				continue
			}
			stepStart := cycleBegin.Add(cycles.NewRationalFromFloat(stepStartF))
			stepSize := cycles.NewRationalFromFloat(stepSizeF)
			stepEnd := stepStart.Add(stepSize)

			windowBegin := stepStart.Max(cycleSpan.Begin)
			windowEnd := stepEnd.Min(cycleSpan.End)
			if windowBegin.GreaterOrEqual(windowEnd) {
				continue
			}

			innerBegin := windowBegin.Sub(stepStart).Div(stepSize).Add(cycles.NewRationalFromInt(cycleNum))
			innerEnd := windowEnd.Sub(stepStart).Div(stepSize).Add(cycles.NewRationalFromInt(cycleNum))
			if innerEnd.Sub(innerBegin).LessThan(precisionFloor) {
				continue
			}

			for _, ev := range safeInvoke("sequence.child", func() []cycles.Event {
				return child.QueryArc(innerBegin, innerEnd, ctx)
			}) {
				part := mapSequenceSpan(ev.Part, cycleNum, stepStart, stepSize)
				whole := mapSequenceSpan(ev.Whole, cycleNum, stepStart, stepSize)
				out = append(out, cycles.Event{Part: part, Whole: whole, Data: ev.Data})
			}
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

// mapSequenceSpan maps a span from inner (cycle-relative) time back to
// outer time: subtract the inner cycle origin, scale by stepSize, shift to
// stepStart.
func mapSequenceSpan(span cycles.TimeSpan, cycleNum int64, stepStart, stepSize cycles.Rational) cycles.TimeSpan {
	origin := cycles.NewRationalFromInt(cycleNum)
	return cycles.TimeSpan{
		Begin: span.Begin.Sub(origin).Mul(stepSize).Add(stepStart),
		End:   span.End.Sub(origin).Mul(stepSize).Add(stepStart),
	}
}

func (s *sequence) NumSteps() *cycles.Rational {
	n := cycles.NewRationalFromInt(int64(len(s.children)))
	return &n
}

// --- Stack -------------------------------------------------------------

type stack struct {
	Base
	children []Pattern
}

// Stack plays every child simultaneously, concatenating their events.
func Stack(children ...Pattern) Pattern {
	return &stack{children: children}
}

func (s *stack) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	for _, child := range s.children {
		out = append(out, safeInvoke("stack.child", func() []cycles.Event {
			return child.QueryArc(from, to, ctx)
		})...)
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (s *stack) NumSteps() *cycles.Rational {
	var lcm *int64
	for _, c := range s.children {
		n := c.NumSteps()
		if n == nil || n.Den != 1 {
			continue
		}
		v := n.Num
		if lcm == nil {
			lcm = &v
			continue
		}
		l := lcmInt64(*lcm, v)
		lcm = &l
	}
	if lcm == nil {
		return nil
	}
	r := cycles.NewRationalFromInt(*lcm)
	return &r
}

func (s *stack) EstimateCycleDuration() cycles.Rational {
	max := cycles.NewRationalFromInt(1)
	for i, c := range s.children {
		d := c.EstimateCycleDuration()
		if i == 0 || d.GreaterThan(max) {
			max = d
		}
	}
	return max
}

func gcdInt64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcmInt64(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcdInt64(a, b) * b
}

// --- Arrangement ------------------------------------------------------------

// ArrangementSegment is one (duration, pattern) step of an Arrangement.
type ArrangementSegment struct {
	Duration cycles.Rational
	Pattern  Pattern
}

type arrangement struct {
	Base
	segments []ArrangementSegment
	total    cycles.Rational
}

// Arrangement plays segments sequentially and loops once their combined
// duration is exhausted.
func Arrangement(segments ...ArrangementSegment) Pattern {
	total := cycles.NewRationalFromInt(0)
	for _, s := range segments {
		total = total.Add(s.Duration)
	}
	return &arrangement{segments: segments, total: total}
}

func (a *arrangement) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if a.total.IsZero() || len(a.segments) == 0 {
		return nil
	}
	var out []cycles.Event
	loopStart := from.Div(a.total).Floor()
	for loop := loopStart; cycles.NewRationalFromInt(loop).Mul(a.total).LessThan(to); loop++ {
		loopBegin := cycles.NewRationalFromInt(loop).Mul(a.total)
		segBegin := loopBegin
		for _, seg := range a.segments {
			segEnd := segBegin.Add(seg.Duration)
			window := cycles.TimeSpan{Begin: segBegin, End: segEnd}
			query := cycles.TimeSpan{Begin: from, End: to}
			clipped, ok := window.ClipTo(query)
			if ok && clipped.Begin.LessThan(clipped.End) {
				localFrom := clipped.Begin.Sub(segBegin)
				localTo := clipped.End.Sub(segBegin)
				for _, ev := range safeInvoke("arrangement.segment", func() []cycles.Event {
					return seg.Pattern.QueryArc(localFrom, localTo, ctx)
				}) {
					out = append(out, ev.Shift(segBegin))
				}
			}
			segBegin = segEnd
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (a *arrangement) EstimateCycleDuration() cycles.Rational { return a.total }

// --- Aligned -------------------------------------------------------------

type aligned struct {
	Base
	source              Pattern
	sourceDur, targetDur cycles.Rational
	alignment           float64
}

// Aligned places one sourceDur-long cycle of source inside each
// targetDur-long output cycle, positioned at alignment * (targetDur -
// sourceDur) (alignment in [0,1]: 0 left-aligns, 1 right-aligns).
func Aligned(source Pattern, sourceDur, targetDur cycles.Rational, alignment float64) Pattern {
	return &aligned{source: source, sourceDur: sourceDur, targetDur: targetDur, alignment: alignment}
}

func (p *aligned) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if p.targetDur.IsZero() {
		return nil
	}
	gap := p.targetDur.Sub(p.sourceDur)
	offset := cycles.NewRationalFromFloat(p.alignment).Mul(gap)

	var out []cycles.Event
	loopStart := from.Div(p.targetDur).Floor()
	for loop := loopStart; cycles.NewRationalFromInt(loop).Mul(p.targetDur).LessThan(to); loop++ {
		loopBegin := cycles.NewRationalFromInt(loop).Mul(p.targetDur)
		placeBegin := loopBegin.Add(offset)
		placeEnd := placeBegin.Add(p.sourceDur)
		window := cycles.TimeSpan{Begin: placeBegin, End: placeEnd}
		query := cycles.TimeSpan{Begin: from, End: to}
		clipped, ok := window.ClipTo(query)
		if !ok || clipped.Begin.GreaterOrEqual(clipped.End) {
			continue
		}
		localFrom := clipped.Begin.Sub(placeBegin)
		localTo := clipped.End.Sub(placeBegin)
		for _, ev := range safeInvoke("aligned.source", func() []cycles.Event {
			return p.source.QueryArc(localFrom, localTo, ctx)
		}) {
			out = append(out, ev.Shift(placeBegin))
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *aligned) EstimateCycleDuration() cycles.Rational { return p.targetDur }

// --- RepeatCycles ----------------------------------------------------------

type repeatCycles struct {
	Base
	source Pattern
	n      int64
}

// RepeatCycles holds each source cycle for n output cycles before advancing.
func RepeatCycles(source Pattern, n int64) Pattern {
	if n < 1 {
		n = 1
	}
	return &repeatCycles{source: source, n: n}
}

func (p *repeatCycles) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		c := span.Begin.Floor()
		srcCycle := floorDiv(c, p.n)
		offset := cycles.NewRationalFromInt(c - srcCycle)
		localFrom := span.Begin.Sub(offset)
		localTo := span.End.Sub(offset)
		for _, ev := range safeInvoke("repeatCycles.source", func() []cycles.Event {
			return p.source.QueryArc(localFrom, localTo, ctx)
		}) {
			out = append(out, ev.Shift(offset))
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *repeatCycles) NumSteps() *cycles.Rational             { return p.source.NumSteps() }
func (p *repeatCycles) EstimateCycleDuration() cycles.Rational { return p.source.EstimateCycleDuration() }

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// --- Reverse ---------------------------------------------------------------

type reverseOne struct {
	Base
	inner Pattern
}

// Reverse mirrors each cycle's events around its midpoint. For n > 1 it is
// defined as fast(n).rev().slow(n) (spec §4.3); Reverse builds that
// composition around reverseOne rather than duplicating its logic.
func Reverse(inner Pattern, n int64) Pattern {
	if n <= 1 {
		return &reverseOne{inner: inner}
	}
	return Slow(Reverse(Fast(inner, StaticFactor(cycles.NewRationalFromInt(n))), 1), StaticFactor(cycles.NewRationalFromInt(n)))
}

func (p *reverseOne) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		cycleBegin := cycles.NewRationalFromInt(cycleNum)
		cycleEnd := cycles.NewRationalFromInt(cycleNum + 1)

		reflect := func(t cycles.Rational) cycles.Rational {
			return cycleBegin.Add(cycleEnd).Sub(t)
		}
		// Querying the whole cycle keeps reversed events' wholes correct
		// even when they straddle the query window.
		for _, ev := range safeInvoke("reverse.inner", func() []cycles.Event {
			return p.inner.QueryArc(cycleBegin, cycleEnd, ctx)
		}) {
			newWhole := cycles.TimeSpan{Begin: reflect(ev.Whole.End), End: reflect(ev.Whole.Begin)}
			newPart := cycles.TimeSpan{Begin: reflect(ev.Part.End), End: reflect(ev.Part.Begin)}
			clipped, ok := newPart.ClipTo(span)
			if !ok {
				continue
			}
			out = append(out, cycles.Event{Part: clipped, Whole: newWhole, Data: ev.Data})
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *reverseOne) NumSteps() *cycles.Rational             { return p.inner.NumSteps() }
func (p *reverseOne) EstimateCycleDuration() cycles.Rational { return p.inner.EstimateCycleDuration() }
