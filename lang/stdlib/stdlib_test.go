package stdlib

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/cycles/lang/interp"
)

func newEngine(t *testing.T) *interp.Engine {
	t.Helper()
	e := interp.NewEngine()
	Install(e)
	return e
}

func TestSequenceAndQueryArcRoundTrip(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { seq, n } from "cycles/core";
		let p = seq(n(1), n(2));
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr, ok := v.(*interp.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 2)
}

func TestFastDoublesEventCountOverOneCycle(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { seq, n } from "cycles/core";
		let p = seq(n(1), n(2)).fast(2);
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr := v.(*interp.Array)
	require.Len(t, arr.Elements, 4)
}

func TestEuclidProducesExpectedPulseCount(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { n } from "cycles/core";
		let p = n(1).euclid(3, 8, 0);
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr := v.(*interp.Array)
	require.Len(t, arr.Elements, 3)
}

func TestSuperimposeKeepsBaseWhenScriptTransformThrows(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { n } from "cycles/core";
		let p = n(1).superimpose((x) => x.bogus());
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr := v.(*interp.Array)
	require.Len(t, arr.Elements, 1)
}

func TestStackCombinesChildren(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { stack, n } from "cycles/core";
		let p = stack(n(1), n(2));
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr := v.(*interp.Array)
	require.Len(t, arr.Elements, 2)
}

func TestFmapTransformsEventData(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { n } from "cycles/core";
		let p = n(1).fmap((d) => ({ value: d.value + 10 }));
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr := v.(*interp.Array)
	require.Len(t, arr.Elements, 1)
	event := arr.Elements[0].(*interp.Object)
	data, _ := event.Get("data")
	dataObj := data.(*interp.Object)
	value, _ := dataObj.Get("value")
	require.Equal(t, float64(11), value)
}

func TestMathNamespaceIsExported(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { Math } from "cycles/math";
		Math.sqrt(16);
	`)
	require.NoError(t, err)
	require.Equal(t, float64(4), v)
}

func TestBindSqueezesInnerPatternIntoOuterEvent(t *testing.T) {
	e := newEngine(t)
	v, err := e.Run(`
		import { seq, n } from "cycles/core";
		let p = seq(n(1), n(2)).bind((d) => n(d.value * 10), "squeeze");
		p.queryArc(0, 1);
	`)
	require.NoError(t, err)
	arr := v.(*interp.Array)
	require.Len(t, arr.Elements, 2)
}
