package stdlib

import (
	"fmt"

	"github.com/wbrown/cycles"
	"github.com/wbrown/cycles/lang/interp"
	"github.com/wbrown/cycles/pattern"
)

// callScript invokes a script-level callable (Closure or NativeFunc) with
// args, panicking on error so the pattern package's own safeInvoke/
// safeBuildTransform callback-boundary recovery (spec §7) catches it
// exactly the way a native Go panic inside a transform would be caught.
func callScript(fn interp.Value, args ...interp.Value) interp.Value {
	v, err := interp.Call(fn, args)
	if err != nil {
		panic(err)
	}
	return v
}

// patternTransform adapts a script closure `(p) => p2` into a
// func(pattern.Pattern) pattern.Pattern, the shape Superimpose/Sometimes/
// When/FirstOf/LastOf expect.
func patternTransform(fn interp.Value) func(pattern.Pattern) pattern.Pattern {
	return func(p pattern.Pattern) pattern.Pattern {
		result := callScript(fn, wrapPattern(p))
		out, err := patternArg("transform", result)
		if err != nil {
			panic(err)
		}
		return out
	}
}

// dataTransform adapts a script closure `(data) => data2` into a
// func(cycles.VoiceData) cycles.VoiceData, the shape Map/Off expect.
func dataTransform(fn interp.Value) func(cycles.VoiceData) cycles.VoiceData {
	return func(d cycles.VoiceData) cycles.VoiceData {
		result := callScript(fn, valueOfData(d))
		out, err := dataOfValue(result)
		if err != nil {
			panic(err)
		}
		return out
	}
}

// dataPredicate adapts a script closure `(data) => bool` into a
// func(cycles.VoiceData) bool, the shape Filter/KeepIf expect.
func dataPredicate(fn interp.Value) func(cycles.VoiceData) bool {
	return func(d cycles.VoiceData) bool {
		result := callScript(fn, valueOfData(d))
		return interp.Truthy(result)
	}
}

// cycleTest adapts a script closure `(cycle) => bool` into a
// func(int64) bool, the shape When expects.
func cycleTest(fn interp.Value) func(int64) bool {
	return func(cycle int64) bool {
		result := callScript(fn, float64(cycle))
		return interp.Truthy(result)
	}
}

// bindFunc adapts a script closure `(data) => Pattern` into a
// func(cycles.VoiceData) pattern.Pattern, the shape Bind expects.
func bindFunc(fn interp.Value) func(cycles.VoiceData) pattern.Pattern {
	return func(d cycles.VoiceData) pattern.Pattern {
		result := callScript(fn, valueOfData(d))
		out, err := patternArg("bind", result)
		if err != nil {
			panic(fmt.Errorf("cycles: bind callback: %w", err))
		}
		return out
	}
}
