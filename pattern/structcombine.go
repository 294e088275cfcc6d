package pattern

import (
	"github.com/wbrown/cycles"
)

// --- Struct / Mask -----------------------------------------------------------

type structPattern struct {
	Base
	boolPattern Pattern
	source      Pattern
}

// Struct replays source's value at each onset of boolPattern where the
// boolean gate is truthy, discarding boolPattern's own value. Non-onset
// (boolPattern) events and falsy gates produce no output.
func Struct(boolPattern, source Pattern) Pattern {
	return &structPattern{boolPattern: boolPattern, source: source}
}

func (p *structPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	gates := safeInvoke("struct.gate", func() []cycles.Event {
		return p.boolPattern.QueryArc(from, to, ctx)
	})
	var out []cycles.Event
	for _, gate := range gates {
		if !gate.HasOnset() || !gateTruthy(gate.Data) {
			continue
		}
		innerEvents := safeInvoke("struct.source", func() []cycles.Event {
			return p.source.QueryArc(gate.Whole.Begin, gate.Whole.End, ctx)
		})
		for _, inner := range innerEvents {
			if !inner.HasOnset() {
				continue
			}
			out = append(out, cycles.Event{Part: gate.Part, Whole: gate.Whole, Data: inner.Data})
			break
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func gateTruthy(d cycles.VoiceData) bool {
	if d.Value == nil {
		return true
	}
	return d.Value.IsTruthy()
}

func (p *structPattern) NumSteps() *cycles.Rational { return p.boolPattern.NumSteps() }

type maskPattern struct {
	Base
	boolPattern Pattern
	source      Pattern
}

// Mask keeps source's events only where boolPattern is truthy at the
// midpoint of their part, unlike Struct which discards source's own rhythm.
func Mask(source, boolPattern Pattern) Pattern {
	return &maskPattern{boolPattern: boolPattern, source: source}
}

func (p *maskPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	sourceEvents := safeInvoke("mask.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	gates := safeInvoke("mask.gate", func() []cycles.Event {
		return p.boolPattern.QueryArc(from, to, ctx)
	})
	var out []cycles.Event
	for _, ev := range sourceEvents {
		midpoint := ev.Part.Begin.Add(ev.Part.End).Div(cycles.NewRationalFromInt(2))
		if gateAt(gates, midpoint) {
			out = append(out, ev)
		}
	}
	return out
}

func gateAt(gates []cycles.Event, t cycles.Rational) bool {
	for _, g := range gates {
		if g.Part.Begin.LessOrEqual(t) && t.LessThan(g.Part.End) {
			return gateTruthy(g.Data)
		}
	}
	return false
}

func (p *maskPattern) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// KeepIf is a predicate-based alternative to Mask: it keeps source's events
// only where predPattern's value at the midpoint of their part satisfies
// pred.
func KeepIf(source, predPattern Pattern, pred func(cycles.VoiceValue) bool) Pattern {
	return Mask(source, Filter(predPattern, func(d cycles.VoiceData) bool {
		return d.Value != nil && pred(d.Value)
	}))
}

// --- boolPatternFromSeq ------------------------------------------------------

// boolPatternFromSeq builds a Sequence of BoolValue atoms from seq, the
// bridge between Bjorklund's []bool output and the Pattern algebra.
func boolPatternFromSeq(seq []bool) Pattern {
	children := make([]Pattern, len(seq))
	for i, b := range seq {
		children[i] = Atom(cycles.NewVoiceData(cycles.BoolValue(b)))
	}
	return Sequence(children...)
}
