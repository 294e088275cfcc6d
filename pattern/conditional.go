package pattern

import (
	"github.com/wbrown/cycles"
)

// --- Superimpose / Off ------------------------------------------------------

// Superimpose stacks source with transform(source): the original pattern
// plays unmodified alongside a transformed copy. A panicking transform
// silences only its own layer (spec §7); the base source always plays.
func Superimpose(source Pattern, transform func(Pattern) Pattern) Pattern {
	transformed := safeBuildTransform("superimpose", transform, source)
	if transformed == nil {
		return source
	}
	return Stack(source, transformed)
}

func safeBuildTransform(site string, transform func(Pattern) Pattern, source Pattern) (result Pattern) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()
	return transform(source)
}

// Off is Superimpose with the transform fixed to "shift by offset, then map
// through f" — the idiomatic echo/delay combinator. The shifted layer is
// filtered to events with Part.Begin >= the query's own from, so a negative
// offset doesn't leak the delayed copy of the previous cycle into view.
func Off(source Pattern, offset cycles.Rational, f func(cycles.VoiceData) cycles.VoiceData) Pattern {
	return Superimpose(source, func(p Pattern) Pattern {
		return &fromBoundFilter{source: Map(TimeShift(p, offset), f)}
	})
}

// fromBoundFilter drops events whose Part.Begin falls before the query's
// own from bound, trimming leakage from patterns (like Off's delayed layer)
// that internally query earlier coordinates than what was asked for.
type fromBoundFilter struct {
	Base
	source Pattern
}

func (p *fromBoundFilter) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	events := safeInvoke("fromBoundFilter.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		if ev.Part.Begin.LessThan(from) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (p *fromBoundFilter) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// --- Sometimes / degradeBy / undegradeBy -----------------------------------

// DegradeBy removes each of source's events independently with probability
// prob, using the query context's seeded RNG keyed by the event's own
// onset so repeated queries of the same arc are stable.
func DegradeBy(source Pattern, prob float64) Pattern {
	return degrade(source, prob, false)
}

// UndegradeBy is DegradeBy's complement: it keeps events with probability
// prob instead of removing them with probability prob.
func UndegradeBy(source Pattern, prob float64) Pattern {
	return degrade(source, prob, true)
}

type degradePattern struct {
	Base
	source  Pattern
	prob    float64
	inverse bool
}

func degrade(source Pattern, prob float64, inverse bool) Pattern {
	return &degradePattern{source: source, prob: prob, inverse: inverse}
}

func (p *degradePattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	events := safeInvoke("degrade.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		roll := ctx.GetSeededRandom("degradeBy", ev.Whole.Begin.String(), ev.Whole.End.String()).NextDouble()
		keep := roll >= p.prob
		if p.inverse {
			keep = roll < p.prob
		}
		if keep {
			out = append(out, ev)
		}
	}
	return out
}

func (p *degradePattern) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// Probability is Sometimes' probability argument: either a constant or a
// Pattern sampled at each candidate event's onset, so the match rate can
// itself vary over time.
type Probability struct {
	constant float64
	pattern  Pattern
}

// ConstProbability builds a Probability fixed at p for every event.
func ConstProbability(p float64) Probability {
	return Probability{constant: p}
}

// PatternProbability builds a Probability sampled from p at each
// candidate event's onset; falls back to 0 if p yields nothing there.
func PatternProbability(p Pattern) Probability {
	return Probability{pattern: p}
}

func (pr Probability) sample(onset cycles.Rational, ctx cycles.QueryContext) float64 {
	if pr.pattern == nil {
		return pr.constant
	}
	epsilon := cycles.NewRational(1, 1000000)
	events := safeInvoke("sometimes.probability", func() []cycles.Event {
		return pr.pattern.QueryArc(onset, onset.Add(epsilon), ctx)
	})
	if len(events) == 0 {
		return 0
	}
	v, err := events[0].Data.Value.AsDouble()
	if err != nil {
		return 0
	}
	return v
}

// Sometimes splits source's events by a per-event coin flip against
// probability: matching events pass through onMatch, the rest through
// onMiss (nil means "leave unchanged" for either). seed, if non-empty,
// replaces the default RNG tag so independent Sometimes calls over the
// same source don't share a draw.
func Sometimes(source Pattern, probability Probability, onMatch, onMiss func(Pattern) Pattern, seed string) Pattern {
	if seed == "" {
		seed = "sometimes"
	}
	matched := probSplit(source, probability, seed, true)
	missed := probSplit(source, probability, seed, false)
	matchedOut := Pattern(matched)
	if onMatch != nil {
		if t := safeBuildTransform("sometimes.onMatch", onMatch, matched); t != nil {
			matchedOut = t
		}
	}
	missedOut := Pattern(missed)
	if onMiss != nil {
		if t := safeBuildTransform("sometimes.onMiss", onMiss, missed); t != nil {
			missedOut = t
		}
	}
	return Stack(matchedOut, missedOut)
}

type probSplitPattern struct {
	Base
	source      Pattern
	probability Probability
	seed        string
	keepMatches bool
}

// probSplit keeps source's events whose seeded roll falls under (or, when
// keepMatches is false, at/over) the sampled probability at that event's
// onset, the generalized, pattern-probability-aware form of degrade/
// undegrade that Sometimes is built from.
func probSplit(source Pattern, probability Probability, seed string, keepMatches bool) Pattern {
	return &probSplitPattern{source: source, probability: probability, seed: seed, keepMatches: keepMatches}
}

func (p *probSplitPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	events := safeInvoke("probSplit.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	out := make([]cycles.Event, 0, len(events))
	for _, ev := range events {
		prob := p.probability.sample(ev.Whole.Begin, ctx)
		roll := ctx.GetSeededRandom(p.seed, ev.Whole.Begin.String(), ev.Whole.End.String()).NextDouble()
		isMatch := roll < prob
		if isMatch == p.keepMatches {
			out = append(out, ev)
		}
	}
	return out
}

func (p *probSplitPattern) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// --- When / FirstOf / LastOf -------------------------------------------------

// When applies transform on cycles where test(cycleNumber) is true, and
// plays source unmodified otherwise.
func When(source Pattern, test func(int64) bool, transform func(Pattern) Pattern) Pattern {
	transformed := safeBuildTransform("when", transform, source)
	return &whenPattern{source: source, transformed: transformed, test: test}
}

type whenPattern struct {
	Base
	source, transformed Pattern
	test                func(int64) bool
}

func (p *whenPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		target := p.source
		if p.transformed != nil && safeTest(p.test, cycleNum) {
			target = p.transformed
		}
		out = append(out, safeInvoke("when.cycle", func() []cycles.Event {
			return target.QueryArc(span.Begin, span.End, ctx)
		})...)
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func safeTest(test func(int64) bool, n int64) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	return test(n)
}

func (p *whenPattern) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// FirstOf applies transform every n-th cycle (cycle 0, n, 2n, ...).
func FirstOf(source Pattern, n int64, transform func(Pattern) Pattern) Pattern {
	return When(source, func(cycle int64) bool {
		return ((cycle % n) + n) % n == 0
	}, transform)
}

// LastOf applies transform on the last cycle of every n (cycle n-1, 2n-1,
// ...).
func LastOf(source Pattern, n int64, transform func(Pattern) Pattern) Pattern {
	return When(source, func(cycle int64) bool {
		m := ((cycle % n) + n) % n
		return m == n-1
	}, transform)
}

// --- Choice / RandL / Randrun -------------------------------------------------

type choicePattern struct {
	Base
	options []Pattern
}

// Choice picks one of options uniformly at random, once per cycle, seeded
// by the cycle number so the same cycle always re-selects the same option.
func Choice(options ...Pattern) Pattern {
	return &choicePattern{options: options}
}

func (p *choicePattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if len(p.options) == 0 {
		return nil
	}
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		idx := ctx.GetSeededRandom("choice", cycleNum).NextInt(0, len(p.options))
		out = append(out, safeInvoke("choice.cycle", func() []cycles.Event {
			return p.options[idx].QueryArc(span.Begin, span.End, ctx)
		})...)
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

type randL struct {
	Base
	n int64
}

// RandL returns, per cycle, a Sequence of n steps each holding a random
// integer in 0..7, reshuffled every cycle and seeded by both the cycle
// number and the step's own index within it, following the same
// per-cycle-rebuild shape as Randrun.
func RandL(n int64) Pattern {
	return &randL{n: n}
}

func (p *randL) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if p.n <= 0 {
		return nil
	}
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		children := make([]Pattern, p.n)
		for i := int64(0); i < p.n; i++ {
			roll := ctx.GetSeededRandom("randL", cycleNum, i).NextInt(0, 8)
			children[i] = Atom(cycles.NewVoiceData(cycles.NumValue(float64(roll))))
		}
		out = append(out, safeInvoke("randL.cycle", func() []cycles.Event {
			return Sequence(children...).QueryArc(span.Begin, span.End, ctx)
		})...)
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *randL) NumSteps() *cycles.Rational {
	n := cycles.NewRationalFromInt(p.n)
	return &n
}

// Randrun returns a Sequence of n steps containing a random permutation of
// 0..n-1, reshuffled once per cycle from the context's seed.
func Randrun(n int64) Pattern {
	return &randrun{n: n}
}

type randrun struct {
	Base
	n int64
}

func (p *randrun) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if p.n <= 0 {
		return nil
	}
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		perm := ctx.GetSeededRandom("randrun", cycleNum).Permutation(int(p.n))
		children := make([]Pattern, p.n)
		for i, v := range perm {
			children[i] = Atom(cycles.NewVoiceData(cycles.NumValue(float64(v))))
		}
		out = append(out, safeInvoke("randrun.cycle", func() []cycles.Event {
			return Sequence(children...).QueryArc(span.Begin, span.End, ctx)
		})...)
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *randrun) NumSteps() *cycles.Rational {
	n := cycles.NewRationalFromInt(p.n)
	return &n
}
