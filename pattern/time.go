package pattern

import (
	"github.com/wbrown/cycles"
)

// timeEpsilon keeps tempo transforms from double-counting events that fall
// exactly on a scaled query boundary (spec §4.4).
var timeEpsilon = cycles.Epsilon

// Factor is a control value that can be a fixed rational or a pattern whose
// events supply the factor per cycle (spec DESIGN NOTES §9: "unify via a
// ControlValueProvider sum with variants Static(value) and Pattern(p)").
type Factor struct {
	static  *cycles.Rational
	pattern Pattern
}

// StaticFactor wraps a constant factor.
func StaticFactor(r cycles.Rational) Factor { return Factor{static: &r} }

// PatternFactor wraps a pattern whose numeric events supply the factor.
func PatternFactor(p Pattern) Factor { return Factor{pattern: p} }

// valueAt resolves the factor for the cycle containing `at`, defaulting to 1
// when a pattern factor has no event there.
func (f Factor) valueAt(at cycles.Rational, ctx cycles.QueryContext) cycles.Rational {
	if f.static != nil {
		return *f.static
	}
	if f.pattern == nil {
		return cycles.NewRationalFromInt(1)
	}
	cycle := at.Floor()
	span := cycles.TimeSpan{Begin: cycles.NewRationalFromInt(cycle), End: cycles.NewRationalFromInt(cycle + 1)}
	events := safeInvoke("factor.pattern", func() []cycles.Event {
		return f.pattern.QueryArc(span.Begin, span.End, ctx)
	})
	for _, ev := range events {
		if !ev.HasOnset() || ev.Data.Value == nil {
			continue
		}
		if v, err := ev.Data.Value.AsDouble(); err == nil {
			return cycles.NewRationalFromFloat(v)
		}
	}
	return cycles.NewRationalFromInt(1)
}

// --- TempoModifier / Fast / Slow --------------------------------------------

type tempoModifier struct {
	Base
	source        Pattern
	factor        Factor
	invertPattern bool
}

// TempoModifier scales source's timeline by factor. When invertPattern is
// false (the `fast` direction) the effective scale is 1/max(minFactor,
// factor); when true (the `slow` direction) the scale is factor itself.
func TempoModifier(source Pattern, factor Factor, invertPattern bool) Pattern {
	return &tempoModifier{source: source, factor: factor, invertPattern: invertPattern}
}

// Fast queries source factor times faster per cycle.
func Fast(source Pattern, factor Factor) Pattern {
	return TempoModifier(source, factor, false)
}

// Slow queries source factor times slower per cycle.
func Slow(source Pattern, factor Factor) Pattern {
	return TempoModifier(source, factor, true)
}

var minFactor = cycles.NewRational(1, 1000)

func clampFactor(f cycles.Rational) cycles.Rational {
	if f.LessThan(minFactor) {
		return minFactor
	}
	return f
}

func (p *tempoModifier) scaleFor(at cycles.Rational, ctx cycles.QueryContext) cycles.Rational {
	raw := p.factor.valueAt(at, ctx)
	if p.invertPattern {
		return raw
	}
	one := cycles.NewRationalFromInt(1)
	return one.Div(clampFactor(raw))
}

func (p *tempoModifier) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	scale := p.scaleFor(from, ctx)
	if scale.IsZero() {
		return nil
	}
	qFrom := from.Mul(scale).Add(timeEpsilon)
	qTo := to.Mul(scale).Sub(timeEpsilon)
	if qFrom.GreaterOrEqual(qTo) {
		return nil
	}
	events := safeInvoke("tempoModifier.source", func() []cycles.Event {
		return p.source.QueryArc(qFrom, qTo, ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, cycles.Event{
			Part:  divSpan(ev.Part, scale),
			Whole: divSpan(ev.Whole, scale),
			Data:  ev.Data,
		})
	}
	return out
}

func divSpan(s cycles.TimeSpan, scale cycles.Rational) cycles.TimeSpan {
	return cycles.TimeSpan{Begin: s.Begin.Div(scale), End: s.End.Div(scale)}
}

func (p *tempoModifier) NumSteps() *cycles.Rational { return p.source.NumSteps() }
func (p *tempoModifier) EstimateCycleDuration() cycles.Rational {
	if p.factor.static == nil {
		return p.source.EstimateCycleDuration()
	}
	scale := *p.factor.static
	if !p.invertPattern {
		one := cycles.NewRationalFromInt(1)
		scale = one.Div(clampFactor(scale))
	}
	if scale.IsZero() {
		return p.source.EstimateCycleDuration()
	}
	return p.source.EstimateCycleDuration().Div(scale)
}

// --- TimeShift ---------------------------------------------------------------

type timeShift struct {
	Base
	source Pattern
	offset cycles.Rational
}

// TimeShift delays (offset > 0) or advances (offset < 0) source in time.
func TimeShift(source Pattern, offset cycles.Rational) Pattern {
	return &timeShift{source: source, offset: offset}
}

func (p *timeShift) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	events := safeInvoke("timeShift.source", func() []cycles.Event {
		return p.source.QueryArc(from.Sub(p.offset), to.Sub(p.offset), ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Shift(p.offset))
	}
	return out
}

func (p *timeShift) NumSteps() *cycles.Rational             { return p.source.NumSteps() }
func (p *timeShift) EstimateCycleDuration() cycles.Rational { return p.source.EstimateCycleDuration() }

// --- Compress / FastGap ------------------------------------------------------

type compress struct {
	Base
	source       Pattern
	begin, end   cycles.Rational
}

// Compress squeezes one cycle of source into the [begin, end) sub-span of
// every output cycle, leaving the rest of the cycle silent. Requires
// 0 <= begin < end <= 1.
func Compress(source Pattern, begin, end cycles.Rational) Pattern {
	return &compress{source: source, begin: begin, end: end}
}

func (p *compress) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	dur := p.end.Sub(p.begin)
	if dur.IsZero() || dur.LessThan(cycles.NewRationalFromInt(0)) {
		return nil
	}
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		origin := cycles.NewRationalFromInt(cycleNum)
		windowBegin := origin.Add(p.begin)
		windowEnd := origin.Add(p.end)
		window := cycles.TimeSpan{Begin: windowBegin, End: windowEnd}
		clipped, ok := window.ClipTo(span)
		if !ok || clipped.Begin.GreaterOrEqual(clipped.End) {
			continue
		}
		localFrom := clipped.Begin.Sub(windowBegin).Div(dur).Add(origin)
		localTo := clipped.End.Sub(windowBegin).Div(dur).Add(origin)
		for _, ev := range safeInvoke("compress.source", func() []cycles.Event {
			return p.source.QueryArc(localFrom, localTo, ctx)
		}) {
			out = append(out, cycles.Event{
				Part:  mapSequenceSpan(ev.Part, cycleNum, windowBegin, dur),
				Whole: mapSequenceSpan(ev.Whole, cycleNum, windowBegin, dur),
				Data:  ev.Data,
			})
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *compress) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// FastGap is Compress(source, 0, 1/factor): it speeds source up by factor
// but, unlike Fast, leaves the remainder of the cycle silent instead of
// repeating.
func FastGap(source Pattern, factor cycles.Rational) Pattern {
	one := cycles.NewRationalFromInt(1)
	end := one.Div(clampFactor(factor))
	return Compress(source, cycles.NewRationalFromInt(0), end)
}

// --- Focus -------------------------------------------------------------------

// Focus is like Compress but wraps rather than silences: the compressed
// window repeats to fill the full cycle, i.e. Focus(p, b, e) plays
// fast(1/(e-b)) of p shifted so that its first repetition lands at b.
func Focus(source Pattern, begin, end cycles.Rational) Pattern {
	dur := end.Sub(begin)
	if dur.LessOrEqual(cycles.NewRationalFromInt(0)) {
		return Silence()
	}
	one := cycles.NewRationalFromInt(1)
	factor := one.Div(dur)
	return TimeShift(Fast(source, StaticFactor(factor)), begin)
}

// --- Zoom --------------------------------------------------------------------

type zoom struct {
	Base
	source     Pattern
	begin, end cycles.Rational
}

// Zoom plays the [begin, end) sub-span of source's own cycle structure,
// stretched out to fill a full output cycle, repeating across cycles (it
// is the inverse operation of Compress).
func Zoom(source Pattern, begin, end cycles.Rational) Pattern {
	return &zoom{source: source, begin: begin, end: end}
}

func (p *zoom) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	dur := p.end.Sub(p.begin)
	if dur.IsZero() {
		return nil
	}
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		origin := cycles.NewRationalFromInt(cycleNum)
		localFrom := span.Begin.Sub(origin).Mul(dur).Add(p.begin)
		localTo := span.End.Sub(origin).Mul(dur).Add(p.begin)
		for _, ev := range safeInvoke("zoom.source", func() []cycles.Event {
			return p.source.QueryArc(localFrom, localTo, ctx)
		}) {
			out = append(out, cycles.Event{
				Part:  zoomSpan(ev.Part, origin, p.begin, dur),
				Whole: zoomSpan(ev.Whole, origin, p.begin, dur),
				Data:  ev.Data,
			})
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func zoomSpan(s cycles.TimeSpan, origin, begin, dur cycles.Rational) cycles.TimeSpan {
	return cycles.TimeSpan{
		Begin: s.Begin.Sub(begin).Div(dur).Add(origin),
		End:   s.End.Sub(begin).Div(dur).Add(origin),
	}
}

// --- Hurry ---------------------------------------------------------------

// Hurry speeds source up by factor (as Fast does) and also scales the
// `speed` voice parameter by the same factor, the idiomatic "fast + pitch"
// combinator from the reference systems.
func Hurry(source Pattern, factor cycles.Rational) Pattern {
	sped := Fast(source, StaticFactor(factor))
	return Map(sped, func(d cycles.VoiceData) cycles.VoiceData {
		current := 1.0
		if d.Speed != nil {
			if v, err := d.Speed.AsDouble(); err == nil {
				current = v
			}
		}
		return d.Copy(func(v *cycles.VoiceData) {
			v.Speed = cycles.NumValue(current * factor.Float64())
		})
	})
}
