package pattern

import (
	"github.com/wbrown/cycles"
)

// --- Map / Filter ------------------------------------------------------------

type mapPattern struct {
	Base
	source Pattern
	f      func(cycles.VoiceData) cycles.VoiceData
}

// Map transforms every event's payload through f, leaving spans untouched.
func Map(source Pattern, f func(cycles.VoiceData) cycles.VoiceData) Pattern {
	return &mapPattern{source: source, f: f}
}

func (p *mapPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	events := safeInvoke("map.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		data := safeInvokeData(ev.Data, p.f)
		out = append(out, ev.WithData(data))
	}
	return out
}

func (p *mapPattern) NumSteps() *cycles.Rational             { return p.source.NumSteps() }
func (p *mapPattern) EstimateCycleDuration() cycles.Rational { return p.source.EstimateCycleDuration() }

// safeInvokeData applies f to d, falling back to d unchanged if f panics —
// the same callback-boundary rule QueryArc-level transforms follow.
func safeInvokeData(d cycles.VoiceData, f func(cycles.VoiceData) cycles.VoiceData) (result cycles.VoiceData) {
	result = d
	defer func() {
		if r := recover(); r != nil {
			result = d
		}
	}()
	return f(d)
}

type filterPattern struct {
	Base
	source Pattern
	pred   func(cycles.VoiceData) bool
}

// Filter keeps only events whose payload satisfies pred.
func Filter(source Pattern, pred func(cycles.VoiceData) bool) Pattern {
	return &filterPattern{source: source, pred: pred}
}

func (p *filterPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	events := safeInvoke("filter.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		if safeInvokePred(ev.Data, p.pred) {
			out = append(out, ev)
		}
	}
	return out
}

func safeInvokePred(d cycles.VoiceData, pred func(cycles.VoiceData) bool) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	return pred(d)
}

// --- Reinterpret -----------------------------------------------------------

// Reinterpret replaces every event's Value with one parsed from its existing
// Value's string form via parse — the mechanism behind numeric re-typing of
// a pattern originally built from string literals (e.g. "0 1 2" -> note
// numbers).
func Reinterpret(source Pattern, parse func(string) cycles.VoiceValue) Pattern {
	return Map(source, func(d cycles.VoiceData) cycles.VoiceData {
		if d.Value == nil {
			return d
		}
		return d.Copy(func(v *cycles.VoiceData) {
			v.Value = parse(d.Value.String())
		})
	})
}

// --- ContextModifier / ContextRangeMap ---------------------------------------

type contextModifier struct {
	Base
	source Pattern
	f      func(cycles.QueryContext) cycles.QueryContext
}

// ContextModifier runs source under a query context transformed by f —
// the mechanism behind combinators that need to thread extra state down
// (new random seed mixins, a narrowed continuous range, ...).
func ContextModifier(source Pattern, f func(cycles.QueryContext) cycles.QueryContext) Pattern {
	return &contextModifier{source: source, f: f}
}

func (p *contextModifier) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	return p.source.QueryArc(from, to, p.f(ctx))
}
func (p *contextModifier) NumSteps() *cycles.Rational { return p.source.NumSteps() }
func (p *contextModifier) EstimateCycleDuration() cycles.Rational {
	return p.source.EstimateCycleDuration()
}

// ContextRangeMap narrows a Continuous pattern's sampled output to [min,
// max) by setting the context's range keys before querying source.
func ContextRangeMap(source Pattern, min, max float64) Pattern {
	return ContextModifier(source, func(ctx cycles.QueryContext) cycles.QueryContext {
		return ctx.WithRange(min, max)
	})
}
