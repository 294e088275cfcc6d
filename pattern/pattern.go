// Package pattern implements the pattern algebra: a Pattern is a pure
// function from a half-open time arc and a query context to a list of
// events. Combinators in this package build larger patterns from smaller
// ones without ever materializing an infinite sequence.
package pattern

import (
	"log"

	"github.com/wbrown/cycles"
)

// Pattern is the central abstraction (spec §3, §4.1). Implementations must
// be pure: QueryArc's result depends only on (from, to, ctx) and the
// pattern's own definition.
type Pattern interface {
	// QueryArc returns every event whose Part intersects [from, to).
	QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event

	// Weight is this pattern's relative duration share inside a Sequence.
	Weight() float64

	// NumSteps is the structural step count, if known; nil means unknown.
	NumSteps() *cycles.Rational

	// EstimateCycleDuration is a hint used by combinators (e.g. Stack) that
	// need an approximate cycle length without querying.
	EstimateCycleDuration() cycles.Rational
}

// Base supplies the common-case defaults (weight 1, unknown step count,
// unit cycle duration) so every combinator only needs to implement QueryArc
// and override whichever of the three hint methods its semantics require.
type Base struct{}

func (Base) Weight() float64                        { return 1.0 }
func (Base) NumSteps() *cycles.Rational              { return nil }
func (Base) EstimateCycleDuration() cycles.Rational { return cycles.NewRationalFromInt(1) }

// oneStep is shared by every primitive whose NumSteps is the constant 1
// (Atom, Continuous sampled once, etc.)
var oneStep = cycles.NewRationalFromInt(1)

func stepsOf(n int64) *cycles.Rational {
	r := cycles.NewRationalFromInt(n)
	return &r
}

// FixedWeight marks a Pattern whose Weight() is always 1 — an optimization
// hint for sequence packing, not a semantic distinction (spec §3).
type FixedWeight interface {
	Pattern
	fixedWeight()
}

// Fixed marks a Pattern that tiles uniformly across cycles — again a hint,
// not a semantic distinction.
type Fixed interface {
	Pattern
	fixedCycle()
}

type fixedWeightMarker struct{}

func (fixedWeightMarker) fixedWeight() {}

type fixedCycleMarker struct{}

func (fixedCycleMarker) fixedCycle() {}

// --- Silence -----------------------------------------------------------

type silence struct {
	Base
	fixedWeightMarker
	fixedCycleMarker
}

// Silence returns a Pattern that never produces events.
func Silence() Pattern { return &silence{} }

func (*silence) QueryArc(_, _ cycles.Rational, _ cycles.QueryContext) []cycles.Event {
	return nil
}

// --- Atomic --------------------------------------------------------------

type atomic struct {
	Base
	fixedWeightMarker
	fixedCycleMarker
	data     cycles.VoiceData
	infinite bool
}

// Atom returns a Pattern emitting one event per integer cycle, with
// data as its payload.
func Atom(data cycles.VoiceData) Pattern {
	return &atomic{data: data}
}

// AtomInfinite is identical to Atom except it reports NumSteps() == nil
// where Atom reports one step, marking a value that exists at every
// instant rather than a single discrete step.
func AtomInfinite(data cycles.VoiceData) Pattern {
	return &atomic{data: data, infinite: true}
}

func (a *atomic) QueryArc(from, to cycles.Rational, _ cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	for _, i := range cycles.IntegerCyclesOverlapping(from, to) {
		whole := cycles.TimeSpan{Begin: cycles.NewRationalFromInt(i), End: cycles.NewRationalFromInt(i + 1)}
		part, ok := whole.ClipTo(cycles.TimeSpan{Begin: from, End: to})
		if !ok {
			continue
		}
		out = append(out, cycles.Event{Part: part, Whole: whole, Data: a.data})
	}
	return out
}

func (a *atomic) NumSteps() *cycles.Rational {
	if a.infinite {
		return nil
	}
	return &oneStep
}

// --- Weighted ------------------------------------------------------------

type weighted struct {
	inner Pattern
	w     float64
}

// Weighted wraps inner, exposing w as its Weight(); only meaningful as a
// direct child of Sequence.
func Weighted(inner Pattern, w float64) Pattern {
	return &weighted{inner: inner, w: w}
}

func (p *weighted) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	return p.inner.QueryArc(from, to, ctx)
}
func (p *weighted) Weight() float64                        { return p.w }
func (p *weighted) NumSteps() *cycles.Rational              { return p.inner.NumSteps() }
func (p *weighted) EstimateCycleDuration() cycles.Rational { return p.inner.EstimateCycleDuration() }

// --- StepsOverride ---------------------------------------------------------

type stepsOverride struct {
	inner Pattern
	n     cycles.Rational
}

// StepsOverride wraps inner, reporting n as its NumSteps() regardless of
// what inner itself would report.
func StepsOverride(inner Pattern, n cycles.Rational) Pattern {
	return &stepsOverride{inner: inner, n: n}
}

func (p *stepsOverride) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	return p.inner.QueryArc(from, to, ctx)
}
func (p *stepsOverride) Weight() float64 { return p.inner.Weight() }
func (p *stepsOverride) NumSteps() *cycles.Rational {
	n := p.n
	return &n
}
func (p *stepsOverride) EstimateCycleDuration() cycles.Rational { return p.inner.EstimateCycleDuration() }

// --- Continuous ------------------------------------------------------------

// ContinuousFunc samples an oscillator at query time: min/max come from the
// context's rangeMin/rangeMax keys, t is the query's `from` bound as a
// float64.
type ContinuousFunc func(min, max, t float64) float64

type continuous struct {
	Base
	f ContinuousFunc
}

// Continuous returns a Pattern that emits exactly one event spanning
// [from, to) per query, whose value is f sampled at the context's
// range bounds and the query's `from` time.
func Continuous(f ContinuousFunc) Pattern {
	return &continuous{f: f}
}

func (c *continuous) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	fromF := from.Float64()
	val := c.f(ctx.RangeMin(), ctx.RangeMax(), fromF)
	span := cycles.TimeSpan{Begin: from, End: to}
	return []cycles.Event{{Part: span, Whole: span, Data: cycles.NewVoiceData(cycles.NumValue(val))}}
}

func (c *continuous) NumSteps() *cycles.Rational { return nil }

// safeInvoke calls fn and, if it panics, logs the panic and returns zero
// events instead of propagating — the callback-boundary rule from spec §7:
// a failing transform must not silence an otherwise-unrelated combinator
// (most importantly Superimpose's base layer).
func safeInvoke(site string, fn func() []cycles.Event) (result []cycles.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cycles: %s transform panicked, treating as no events: %v", site, r)
			result = nil
		}
	}()
	return fn()
}
