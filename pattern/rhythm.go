package pattern

import (
	"github.com/wbrown/cycles"
)

// --- Euclidean ---------------------------------------------------------------

// Euclidean distributes pulses onsets of source as evenly as possible
// across steps slots per cycle, using Bjorklund's algorithm, rotated by
// rotation slots. A negative pulses count yields an empty pattern. When
// legato is true, each resulting gate is stretched to end at the start of
// the next gate (wrapping to the cycle boundary for the last one) instead
// of stopping at its own step width.
func Euclidean(source Pattern, pulses, steps, rotation int, legato bool) Pattern {
	if pulses < 0 {
		return Silence()
	}
	seq := Bjorklund(pulses, steps)
	seq = Rotate(seq, rotation)
	gated := Struct(boolPatternFromSeq(seq), source)
	if !legato {
		return gated
	}
	return &legatoPattern{source: gated}
}

// legatoPattern extends each of source's events to end where the next one
// (within the same cycle) begins, tying gates together the way a legato
// playing style holds a note until the next one sounds.
type legatoPattern struct {
	Base
	source Pattern
}

func (p *legatoPattern) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	query := cycles.TimeSpan{Begin: from, End: to}
	for _, span := range cycles.CycleSpans(from, to) {
		cycleEvents := safeInvoke("legato.cycle", func() []cycles.Event {
			return p.source.QueryArc(span.Begin, span.End, ctx)
		})
		cycles.SortEventsByPartBegin(cycleEvents)
		for i, ev := range cycleEvents {
			end := span.End
			if i+1 < len(cycleEvents) {
				end = cycleEvents[i+1].Part.Begin
			}
			whole := cycles.TimeSpan{Begin: ev.Whole.Begin, End: end}
			part := cycles.TimeSpan{Begin: ev.Part.Begin, End: end}
			clipped, ok := part.ClipTo(query)
			if !ok {
				continue
			}
			out = append(out, cycles.Event{Part: clipped, Whole: whole, Data: ev.Data})
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *legatoPattern) NumSteps() *cycles.Rational { return p.source.NumSteps() }

// EuclideanMorph interpolates the Euclidean gate pattern itself across
// cycles: cycle n uses the rhythm that lies (n mod steps)/(steps-1) of the way
// from the fromPulses rhythm to the toPulses rhythm, a standard
// algorithmic-rhythm morph technique (both endpoints share `steps`).
func EuclideanMorph(source Pattern, fromPulses, toPulses, steps int) Pattern {
	return &euclideanMorph{source: source, fromPulses: fromPulses, toPulses: toPulses, steps: steps}
}

type euclideanMorph struct {
	Base
	source               Pattern
	fromPulses, toPulses int
	steps                int
}

func (p *euclideanMorph) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		cycleNum := span.Begin.Floor()
		step := int(((cycleNum % int64(p.steps)) + int64(p.steps)) % int64(p.steps))
		pulses := p.fromPulses + (p.toPulses-p.fromPulses)*step/maxInt(1, p.steps-1)
		gated := Euclidean(p.source, pulses, p.steps, 0, false)
		out = append(out, safeInvoke("euclideanMorph.cycle", func() []cycles.Event {
			return gated.QueryArc(span.Begin, span.End, ctx)
		})...)
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// --- Segment ------------------------------------------------------------

type segment struct {
	Base
	source Pattern
	n      int64
}

// Segment samples source at n evenly spaced points per cycle, turning a
// continuous pattern into n discrete steps.
func Segment(source Pattern, n int64) Pattern {
	return &segment{source: source, n: n}
}

func (p *segment) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if p.n <= 0 {
		return nil
	}
	step := cycles.NewRational(1, p.n)
	var out []cycles.Event
	startIdx := from.Div(step).Floor()
	for i := startIdx; cycles.NewRationalFromInt(i).Mul(step).LessThan(to); i++ {
		stepBegin := cycles.NewRationalFromInt(i).Mul(step)
		stepEnd := stepBegin.Add(step)
		whole := cycles.TimeSpan{Begin: stepBegin, End: stepEnd}
		part, ok := whole.ClipTo(cycles.TimeSpan{Begin: from, End: to})
		if !ok {
			continue
		}
		innerEvents := safeInvoke("segment.source", func() []cycles.Event {
			return p.source.QueryArc(stepBegin, stepEnd, ctx)
		})
		if len(innerEvents) == 0 {
			continue
		}
		out = append(out, cycles.Event{Part: part, Whole: whole, Data: innerEvents[0].Data})
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *segment) NumSteps() *cycles.Rational {
	n := cycles.NewRationalFromInt(p.n)
	return &n
}

// --- Ply ------------------------------------------------------------------

type ply struct {
	Base
	source Pattern
	n      int64
}

// Ply repeats each of source's events n times within its own Whole span.
func Ply(source Pattern, n int64) Pattern {
	return &ply{source: source, n: n}
}

func (p *ply) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	if p.n <= 0 {
		return nil
	}
	sourceEvents := safeInvoke("ply.source", func() []cycles.Event {
		return p.source.QueryArc(from, to, ctx)
	})
	n := cycles.NewRationalFromInt(p.n)
	var out []cycles.Event
	for _, ev := range sourceEvents {
		if !ev.HasOnset() {
			continue
		}
		wholeDur := ev.Whole.Duration().Div(n)
		for i := int64(0); i < p.n; i++ {
			begin := ev.Whole.Begin.Add(cycles.NewRationalFromInt(i).Mul(wholeDur))
			end := begin.Add(wholeDur)
			whole := cycles.TimeSpan{Begin: begin, End: end}
			part, ok := whole.ClipTo(cycles.TimeSpan{Begin: from, End: to})
			if !ok {
				continue
			}
			out = append(out, cycles.Event{Part: part, Whole: whole, Data: ev.Data})
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *ply) NumSteps() *cycles.Rational {
	inner := p.source.NumSteps()
	if inner == nil {
		return nil
	}
	r := inner.Mul(cycles.NewRationalFromInt(p.n))
	return &r
}

// --- Drop / Take ------------------------------------------------------------

// Drop removes the first n steps of source's Sequence structure from each
// cycle (source must report a known NumSteps for this to shrink anything).
func Drop(source Pattern, n int64) Pattern {
	return sliceSteps(source, n, -1)
}

// Take keeps only the first n steps of source's Sequence structure,
// silencing the rest of the cycle.
func Take(source Pattern, n int64) Pattern {
	return sliceSteps(source, 0, n)
}

// sliceSteps keeps steps in [startStep, startStep+count) out of source's
// reported NumSteps; count < 0 means "to the end". When source has no
// usable discrete step count (NumSteps nil, fractional, or non-positive),
// falls back to the cycle-level behavior: startStep/count are treated as
// whole cycles instead of steps.
func sliceSteps(source Pattern, startStep, count int64) Pattern {
	total := source.NumSteps()
	if total == nil || total.Den != 1 || total.Num <= 0 {
		return &cycleDropTake{source: source, startCycle: startStep, count: count}
	}
	n := total.Num
	if startStep < 0 {
		startStep = 0
	}
	if startStep >= n {
		return Silence()
	}
	end := n
	if count >= 0 && startStep+count < end {
		end = startStep + count
	}
	begin := cycles.NewRational(startStep, n)
	stop := cycles.NewRational(end, n)
	return Zoom(source, begin, stop)
}

// cycleDropTake is the cycle-granularity fallback for Drop/Take: it skips
// startCycle whole cycles of source (source's cycle startCycle becomes the
// new cycle 0), then, if count >= 0, silences everything from cycle count
// onward.
type cycleDropTake struct {
	Base
	source     Pattern
	startCycle int64
	count      int64
}

func (p *cycleDropTake) QueryArc(from, to cycles.Rational, ctx cycles.QueryContext) []cycles.Event {
	start := p.startCycle
	if start < 0 {
		start = 0
	}
	var out []cycles.Event
	for _, span := range cycles.CycleSpans(from, to) {
		c := span.Begin.Floor()
		if p.count >= 0 && c >= p.count {
			continue
		}
		offset := cycles.NewRationalFromInt(start)
		localFrom := span.Begin.Add(offset)
		localTo := span.End.Add(offset)
		events := safeInvoke("cycleDropTake.source", func() []cycles.Event {
			return p.source.QueryArc(localFrom, localTo, ctx)
		})
		for _, ev := range events {
			out = append(out, ev.Shift(offset.Mul(cycles.NewRationalFromInt(-1))))
		}
	}
	cycles.SortEventsByPartBegin(out)
	return out
}

func (p *cycleDropTake) NumSteps() *cycles.Rational { return p.source.NumSteps() }
