package pattern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wbrown/cycles"
)

func r(num, den int64) cycles.Rational { return cycles.NewRational(num, den) }
func ri(n int64) cycles.Rational       { return cycles.NewRationalFromInt(n) }

func bd() cycles.VoiceData { return cycles.NewVoiceData(cycles.StringValue("bd")) }
func sn() cycles.VoiceData { return cycles.NewVoiceData(cycles.StringValue("sn")) }

func TestAtomTilesOneEventPerCycle(t *testing.T) {
	p := Atom(bd())
	events := p.QueryArc(ri(0), ri(3), cycles.NewQueryContext())
	require.Len(t, events, 3)
	for i, ev := range events {
		require.True(t, ev.Part.Equal(cycles.TimeSpan{Begin: ri(int64(i)), End: ri(int64(i + 1))}))
		require.True(t, ev.HasOnset())
	}
}

func TestSilenceNeverEmits(t *testing.T) {
	events := Silence().QueryArc(ri(0), ri(10), cycles.NewQueryContext())
	require.Empty(t, events)
}

func TestSequenceSplitsCycleByWeight(t *testing.T) {
	p := Sequence(Atom(bd()), Atom(sn()))
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 2)
	require.True(t, events[0].Part.Equal(cycles.TimeSpan{Begin: ri(0), End: r(1, 2)}))
	require.True(t, events[1].Part.Equal(cycles.TimeSpan{Begin: r(1, 2), End: ri(1)}))
}

func TestSequenceQueryIsArcAdditive(t *testing.T) {
	p := Sequence(Atom(bd()), Atom(sn()), Atom(bd()))
	whole := p.QueryArc(ri(0), ri(2), cycles.NewQueryContext())
	left := p.QueryArc(ri(0), r(1, 2), cycles.NewQueryContext())
	right := p.QueryArc(r(1, 2), ri(2), cycles.NewQueryContext())
	require.Equal(t, len(whole), len(left)+len(right))
}

func TestStackPlaysChildrenSimultaneously(t *testing.T) {
	p := Stack(Atom(bd()), Atom(sn()))
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 2)
}

func TestFastSlowAreInverses(t *testing.T) {
	base := Sequence(Atom(bd()), Atom(sn()))
	factor := StaticFactor(ri(2))
	roundTrip := Slow(Fast(base, factor), factor)

	a := base.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	b := roundTrip.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, a, len(b))
	for i := range a {
		require.True(t, a[i].Part.Equal(b[i].Part), "event %d part mismatch: %s vs %s", i, a[i].Part, b[i].Part)
	}
}

func TestFastDoublesEventCount(t *testing.T) {
	base := Atom(bd())
	fast := Fast(base, StaticFactor(ri(2)))
	events := fast.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 2)
}

func TestReverseInvolution(t *testing.T) {
	base := Sequence(Atom(bd()), Atom(sn()), Silence())
	twice := Reverse(Reverse(base, 1), 1)
	a := base.QueryArc(ri(0), ri(4), cycles.NewQueryContext())
	b := twice.QueryArc(ri(0), ri(4), cycles.NewQueryContext())
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.True(t, a[i].Part.Equal(b[i].Part))
	}
}

func TestEuclideanThreeEight(t *testing.T) {
	p := Euclidean(Atom(bd()), 3, 8, 0, false)
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 3)
	starts := make([]cycles.Rational, len(events))
	for i, ev := range events {
		starts[i] = ev.Part.Begin
	}
	require.Equal(t, []cycles.Rational{r(0, 8), r(3, 8), r(6, 8)}, starts)
}

func TestEuclideanNegativePulsesIsEmpty(t *testing.T) {
	normal := Euclidean(Atom(bd()), 3, 8, 0, false).QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	negative := Euclidean(Atom(bd()), -3, 8, 0, false).QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Equal(t, 3, len(normal))
	require.Equal(t, 0, len(negative))
}

func TestEuclideanLegatoExtendsGateToNextOnset(t *testing.T) {
	plain := Euclidean(Atom(bd()), 3, 8, 0, false).QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	legato := Euclidean(Atom(bd()), 3, 8, 0, true).QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, plain, 3)
	require.Len(t, legato, 3)
	require.True(t, plain[0].Part.Equal(cycles.TimeSpan{Begin: r(0, 8), End: r(1, 8)}))
	require.True(t, legato[0].Part.Equal(cycles.TimeSpan{Begin: r(0, 8), End: r(3, 8)}), "legato must extend to the next gate's onset, not its own step width")
	require.True(t, legato[len(legato)-1].Part.End.Equal(ri(1)), "the last gate extends to the cycle boundary")
}

func TestDegradeByIsDeterministicPerArc(t *testing.T) {
	base := Sequence(Atom(bd()), Atom(sn()), Atom(bd()), Atom(sn()))
	degraded := DegradeBy(base, 0.5)
	ctx := cycles.NewQueryContext().WithRandomSeed(1)
	a := degraded.QueryArc(ri(0), ri(1), ctx)
	b := degraded.QueryArc(ri(0), ri(1), ctx)
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.True(t, a[i].Part.Equal(b[i].Part))
	}
}

func TestStructKeepsOnlyTruthyGates(t *testing.T) {
	gate := Sequence(
		Atom(cycles.NewVoiceData(cycles.BoolValue(true))),
		Atom(cycles.NewVoiceData(cycles.BoolValue(false))),
	)
	p := Struct(gate, Atom(bd()))
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 1)
	require.True(t, events[0].Part.Equal(cycles.TimeSpan{Begin: ri(0), End: r(1, 2)}))
}

func TestPlyRepeatsEventWithinItsOwnSpan(t *testing.T) {
	p := Ply(Atom(bd()), 3)
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 3)
	require.True(t, events[0].Part.Equal(cycles.TimeSpan{Begin: ri(0), End: r(1, 3)}))
	require.True(t, events[2].Part.Equal(cycles.TimeSpan{Begin: r(2, 3), End: ri(1)}))
}

func TestSegmentSamplesContinuousIntoSteps(t *testing.T) {
	p := Segment(Saw(), 4)
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 4)
}

func TestDropFallsBackToCycleLevelWithoutDiscreteSteps(t *testing.T) {
	cycleMarker := Continuous(func(min, max, from float64) float64 {
		return math.Floor(from)
	})
	dropped := Drop(cycleMarker, 2)
	events := dropped.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 1)
	v, err := events[0].Data.Value.AsDouble()
	require.NoError(t, err)
	require.Equal(t, 2.0, v, "Drop(n) on a non-discrete pattern should skip n whole cycles of source")

	taken := Take(cycleMarker, 2)
	within := taken.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, within, 1)
	beyond := taken.QueryArc(ri(2), ri(3), cycles.NewQueryContext())
	require.Empty(t, beyond, "Take(n) on a non-discrete pattern should silence cycles at/after n")
}

func TestSometimesSplitsByOnMatchAndOnMiss(t *testing.T) {
	base := Sequence(Atom(bd()), Atom(bd()), Atom(bd()), Atom(bd()))
	toSn := func(cycles.VoiceData) cycles.VoiceData { return sn() }
	p := Sometimes(base, ConstProbability(1), func(p Pattern) Pattern {
		return Map(p, toSn)
	}, func(p Pattern) Pattern {
		return Map(p, func(cycles.VoiceData) cycles.VoiceData { return bd() })
	}, "")
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 4)
	for _, ev := range events {
		require.Equal(t, "sn", ev.Data.Value.String(), "probability 1 must route every event through onMatch")
	}
}

func TestSometimesIdentityBranchesKeepEveryEventForAnySeed(t *testing.T) {
	base := Sequence(Atom(bd()), Atom(bd()), Atom(bd()), Atom(bd()), Atom(bd()), Atom(bd()), Atom(bd()), Atom(bd()))
	identity := func(p Pattern) Pattern { return p }
	a := Sometimes(base, ConstProbability(0.5), identity, identity, "seed-a").QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	b := Sometimes(base, ConstProbability(0.5), identity, identity, "seed-b").QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, a, 8)
	require.Len(t, b, 8)
}

func TestSuperimposeKeepsBaseWhenTransformPanics(t *testing.T) {
	base := Atom(bd())
	p := Superimpose(base, func(Pattern) Pattern {
		panic("boom")
	})
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 1)
}

func TestBindPlainJoinClipsPartKeepsInnerWhole(t *testing.T) {
	outer := Atom(bd())
	p := Bind(outer, func(cycles.VoiceData) Pattern {
		return Sequence(Atom(sn()), Atom(sn()))
	}, PickInner)
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 2)
	require.True(t, events[0].Whole.Equal(cycles.TimeSpan{Begin: ri(0), End: r(1, 2)}))
}

func TestBindRestartRephasesInnerToOuterOnset(t *testing.T) {
	outer := Fast(Atom(bd()), StaticFactor(ri(2)))
	inner := Saw()
	p := Bind(outer, func(cycles.VoiceData) Pattern { return inner }, PickRestart)
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 2)
	for _, ev := range events {
		v, err := ev.Data.Value.AsDouble()
		require.NoError(t, err)
		require.InDelta(t, 0.0, v, 1e-9, "restart must re-query inner from its own onset, not the outer's absolute position")
	}
}

func TestBindResetDropsAbsoluteCycleButKeepsPhase(t *testing.T) {
	cycleMarker := Continuous(func(min, max, from float64) float64 {
		return math.Floor(from)
	})
	bindFn := func(cycles.VoiceData) Pattern { return cycleMarker }

	reset0 := Bind(Atom(bd()), bindFn, PickReset).QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	reset2 := Bind(TimeShift(Atom(bd()), ri(2)), bindFn, PickReset).QueryArc(ri(2), ri(3), cycles.NewQueryContext())
	require.Len(t, reset0, 1)
	require.Len(t, reset2, 1)
	v0, err := reset0[0].Data.Value.AsDouble()
	require.NoError(t, err)
	v2, err := reset2[0].Data.Value.AsDouble()
	require.NoError(t, err)
	require.Equal(t, v0, v2, "PickReset must align inner's cycle origin regardless of the outer event's absolute cycle")

	plain2 := Bind(TimeShift(Atom(bd()), ri(2)), bindFn, PickInner).QueryArc(ri(2), ri(3), cycles.NewQueryContext())
	require.Len(t, plain2, 1)
	pv2, err := plain2[0].Data.Value.AsDouble()
	require.NoError(t, err)
	require.NotEqual(t, v2, pv2, "PickInner leaks the outer's absolute cycle count into the inner query")
}

func TestOffWithNegativeOffsetDoesNotLeakPreviousCycle(t *testing.T) {
	base := Atom(bd())
	p := Off(base, r(-1, 8), func(d cycles.VoiceData) cycles.VoiceData { return sn() })
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 1, "the delayed copy would fall at -1/8, before the query's from, and must be dropped")
	require.Equal(t, "bd", events[0].Data.Value.String(), "only the unshifted base layer should survive within [0,1)")
}

func TestRandLProducesNStepsOfIntegersInRange(t *testing.T) {
	p := RandL(4)
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 4)
	for _, ev := range events {
		v, err := ev.Data.Value.AsDouble()
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 8.0)
	}
}

func TestRandLIsDeterministicPerCycle(t *testing.T) {
	p := RandL(4)
	a := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	b := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, a, len(b))
	for i := range a {
		av, _ := a[i].Data.Value.AsDouble()
		bv, _ := b[i].Data.Value.AsDouble()
		require.Equal(t, av, bv)
	}
}

func TestZoomAndCompressAreInverses(t *testing.T) {
	base := Sequence(Atom(bd()), Atom(sn()), Atom(bd()), Atom(sn()))
	compressed := Compress(base, r(1, 4), r(3, 4))
	zoomed := Zoom(compressed, r(1, 4), r(3, 4))
	a := base.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	b := zoomed.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Equal(t, len(a), len(b))
}

func TestWeightedDrivesSequenceShare(t *testing.T) {
	p := Sequence(Weighted(Atom(bd()), 3), Atom(sn()))
	events := p.QueryArc(ri(0), ri(1), cycles.NewQueryContext())
	require.Len(t, events, 2)
	require.True(t, events[0].Part.Equal(cycles.TimeSpan{Begin: ri(0), End: r(3, 4)}))
	require.True(t, events[1].Part.Equal(cycles.TimeSpan{Begin: r(3, 4), End: ri(1)}))
}
