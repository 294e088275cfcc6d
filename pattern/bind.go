package pattern

import (
	"github.com/wbrown/cycles"
)

// JoinStrategy selects how Bind reconciles an outer event's Whole with the
// inner pattern(s) it produces (spec §4.6 / Open Question resolution,
// recorded in the design ledger: PickInner is the default join because it
// matches the reference systems' plain `>>=`/`innerJoin`).
type JoinStrategy int

const (
	// PickInner keeps the inner event's own Whole, clipping Part to the
	// intersection of outer.Part and inner.Part.
	PickInner JoinStrategy = iota
	// PickOuter keeps the outer event's Whole instead of the inner one's.
	PickOuter
	// PickReset re-phases the inner pattern so its cycle origin aligns
	// with the outer event's fractional cycle position
	// (selector.whole.begin.frac()), dropping only the absolute cycle
	// count — useful for "restart this motif from its beginning whenever
	// triggered" without losing the sub-cycle phase.
	PickReset
	// PickRestart re-queries the inner pattern from the start of the
	// outer event's own Part (selector.part.begin) rather than from the
	// outer event's Whole.
	PickRestart
	// PickSqueeze compresses one full cycle of the inner pattern into the
	// outer event's Whole span, like Compress driven per-outer-event.
	PickSqueeze
)

type bind struct {
	Base
	outer    Pattern
	f        func(cycles.VoiceData) Pattern
	strategy JoinStrategy
}

// Bind queries outer, then for each of its events calls f with that
// event's Data to obtain an inner pattern, queries the inner pattern, and
// reconciles the two events' spans according to strategy.
func Bind(outer Pattern, f func(cycles.VoiceData) Pattern, strategy JoinStrategy) Pattern {
	return &bind{outer: outer, f: f, strategy: strategy}
}

func (p *bind) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	outerEvents := safeInvoke("bind.outer", func() []cycles.Event {
		return p.outer.QueryArc(from, to, ctx)
	})
	query := cycles.TimeSpan{Begin: from, End: to}
	var out []cycles.Event
	for _, oev := range outerEvents {
		inner := safeInvokeBind(oev.Data, p.f)
		if inner == nil {
			continue
		}
		switch p.strategy {
		case PickSqueeze:
			out = append(out, p.squeeze(inner, oev, query, ctx)...)
		case PickReset:
			offset := oev.Whole.Begin.Sub(oev.Whole.Begin.Frac())
			out = append(out, p.reset(inner, oev, query, ctx, offset)...)
		case PickRestart:
			out = append(out, p.reset(inner, oev, query, ctx, oev.Part.Begin)...)
		default:
			out = append(out, p.plainJoin(inner, oev, query, ctx)...)
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func safeInvokeBind(d cycles.VoiceData, f func(cycles.VoiceData) Pattern) (result Pattern) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()
	return f(d)
}

func (p *bind) plainJoin(inner Pattern, oev cycles.Event, query cycles.TimeSpan, ctx cycles.QueryContext) []cycles.Event {
	innerEvents := safeInvoke("bind.inner", func() []cycles.Event {
		return inner.QueryArc(oev.Part.Begin, oev.Part.End, ctx)
	})
	var out []cycles.Event
	for _, iev := range innerEvents {
		part, ok := iev.Part.ClipTo(oev.Part)
		if !ok {
			continue
		}
		part, ok = part.ClipTo(query)
		if !ok {
			continue
		}
		whole := iev.Whole
		if p.strategy == PickOuter {
			whole = oev.Whole
		}
		out = append(out, cycles.Event{Part: part, Whole: whole, Data: iev.Data})
	}
	return out
}

// reset queries inner in coordinates shifted by offset, then shifts the
// results back. PickReset passes offset = floor(oev.Whole.Begin) so the
// inner pattern's cycle origin aligns with the outer event's fractional
// cycle position; PickRestart passes offset = oev.Part.Begin so the inner
// pattern restarts at the outer event's own onset. Results are clipped to
// both the outer event's part and the query window, matching plainJoin.
func (p *bind) reset(inner Pattern, oev cycles.Event, query cycles.TimeSpan, ctx cycles.QueryContext, offset cycles.Rational) []cycles.Event {
	localFrom := oev.Part.Begin.Sub(offset)
	localTo := oev.Part.End.Sub(offset)
	innerEvents := safeInvoke("bind.inner", func() []cycles.Event {
		return inner.QueryArc(localFrom, localTo, ctx)
	})
	var out []cycles.Event
	for _, iev := range innerEvents {
		shifted := iev.Shift(offset)
		part, ok := shifted.Part.ClipTo(oev.Part)
		if !ok {
			continue
		}
		part, ok = part.ClipTo(query)
		if !ok {
			continue
		}
		out = append(out, cycles.Event{Part: part, Whole: shifted.Whole, Data: shifted.Data})
	}
	return out
}

func (p *bind) squeeze(inner Pattern, oev cycles.Event, query cycles.TimeSpan, ctx cycles.QueryContext) []cycles.Event {
	dur := oev.Whole.Duration()
	if dur.IsZero() {
		return nil
	}
	localFrom := oev.Part.Begin.Sub(oev.Whole.Begin).Div(dur)
	localTo := oev.Part.End.Sub(oev.Whole.Begin).Div(dur)
	innerEvents := safeInvoke("bind.inner", func() []cycles.Event {
		return inner.QueryArc(localFrom, localTo, ctx)
	})
	var out []cycles.Event
	for _, iev := range innerEvents {
		part := mapSequenceSpan(iev.Part, 0, oev.Whole.Begin, dur)
		whole := mapSequenceSpan(iev.Whole, 0, oev.Whole.Begin, dur)
		clipped, ok := part.ClipTo(query)
		if !ok {
			continue
		}
		out = append(out, cycles.Event{Part: clipped, Whole: whole, Data: iev.Data})
	}
	return out
}
