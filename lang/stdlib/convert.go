// Package stdlib is the library surface scripts import to reach the pattern
// algebra and a handful of host utilities (console, Math), grounded on the
// teacher's function_registry.go: native callables keyed by name, installed
// into an interp.Registry via a Library's registration callbacks.
package stdlib

import (
	"fmt"

	"github.com/wbrown/cycles"
	"github.com/wbrown/cycles/lang/interp"
	"github.com/wbrown/cycles/pattern"
)

// PatternType is the NativeObject.Type tag every constructed Pattern value
// carries, the lookup key for the extension methods this package registers.
const PatternType = "Pattern"

func wrapPattern(p pattern.Pattern) *interp.NativeObject {
	return &interp.NativeObject{Type: PatternType, Value: p}
}

// ToPattern coerces a top-level script result into a Pattern, for hosts
// (e.g. cmd/cyclesql) that evaluate a script and need the resulting Pattern
// rather than a raw interp.Value. It applies the same auto-atom promotion
// patternArg gives combinator arguments.
func ToPattern(v interp.Value) (pattern.Pattern, error) {
	return patternArg("result", v)
}

// patternArg coerces a script value into a Pattern: a wrapped Pattern passes
// through, a number or string becomes a one-cycle Atom, and an array becomes
// a Sequence of its coerced elements — the implicit "auto-atom" promotion
// the mini-script surface relies on so `seq(note("c4"), note("e4"))` and
// `seq("c4", "e4")` both work.
func patternArg(function string, v interp.Value) (pattern.Pattern, error) {
	switch x := v.(type) {
	case *interp.NativeObject:
		if x.Type != PatternType {
			return nil, &interp.ArgumentError{Function: function, Expected: "a Pattern", Actual: x.Type}
		}
		p, ok := x.Value.(pattern.Pattern)
		if !ok {
			return nil, &interp.ArgumentError{Function: function, Expected: "a Pattern", Actual: x.Type}
		}
		return p, nil
	case float64:
		return pattern.Atom(cycles.NewVoiceData(cycles.NumValue(x))), nil
	case string:
		return pattern.Atom(cycles.NewVoiceData(cycles.StringValue(x))), nil
	case *interp.Array:
		children := make([]pattern.Pattern, 0, len(x.Elements))
		for _, el := range x.Elements {
			child, err := patternArg(function, el)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return pattern.Sequence(children...), nil
	default:
		return nil, &interp.ArgumentError{Function: function, Expected: "a Pattern, number, string, or array", Actual: interp.Stringify(v)}
	}
}

func numberArg(function string, v interp.Value) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, &interp.ArgumentError{Function: function, Expected: "a number", Actual: interp.Stringify(v)}
	}
	return n, nil
}

func intArg(function string, v interp.Value) (int64, error) {
	n, err := numberArg(function, v)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func boolArg(function string, v interp.Value) bool {
	return interp.Truthy(v)
}

// rationalArg accepts either a plain number (denominator 1) or a
// two-element [num, den] array, so script authors can write exact
// fractions (`p.fast([3, 2])`) without a dedicated rational literal.
func rationalArg(function string, v interp.Value) (cycles.Rational, error) {
	switch x := v.(type) {
	case float64:
		return cycles.NewRationalFromFloat(x), nil
	case *interp.Array:
		if len(x.Elements) != 2 {
			return cycles.Rational{}, &interp.ArgumentError{Function: function, Expected: "[num, den]", Actual: interp.Stringify(v)}
		}
		num, err := intArg(function, x.Elements[0])
		if err != nil {
			return cycles.Rational{}, err
		}
		den, err := intArg(function, x.Elements[1])
		if err != nil {
			return cycles.Rational{}, err
		}
		return cycles.NewRational(num, den), nil
	default:
		return cycles.Rational{}, &interp.ArgumentError{Function: function, Expected: "a number or [num, den]", Actual: interp.Stringify(v)}
	}
}

// factorArg builds a pattern.Factor: a plain number/rational is static, a
// Pattern argument drives the tempo modulation itself (spec §4.4's
// Static(value)/Pattern(p) unification).
func factorArg(function string, v interp.Value) (pattern.Factor, error) {
	if native, ok := v.(*interp.NativeObject); ok && native.Type == PatternType {
		p, err := patternArg(function, v)
		if err != nil {
			return pattern.Factor{}, err
		}
		return pattern.PatternFactor(p), nil
	}
	r, err := rationalArg(function, v)
	if err != nil {
		return pattern.Factor{}, err
	}
	return pattern.StaticFactor(r), nil
}

// probabilityArg builds a pattern.Probability: a plain number is constant, a
// Pattern argument makes the match rate itself vary over time, mirroring
// factorArg's Static/Pattern unification for Sometimes' probability.
func probabilityArg(function string, v interp.Value) (pattern.Probability, error) {
	if native, ok := v.(*interp.NativeObject); ok && native.Type == PatternType {
		p, err := patternArg(function, v)
		if err != nil {
			return pattern.Probability{}, err
		}
		return pattern.PatternProbability(p), nil
	}
	n, err := numberArg(function, v)
	if err != nil {
		return pattern.Probability{}, err
	}
	return pattern.ConstProbability(n), nil
}

// voiceValueOf converts a script value into the VoiceValue it would carry as
// pattern data.
func voiceValueOf(v interp.Value) (cycles.VoiceValue, error) {
	switch x := v.(type) {
	case float64:
		return cycles.NumValue(x), nil
	case string:
		return cycles.StringValue(x), nil
	case bool:
		return cycles.BoolValue(x), nil
	default:
		return nil, fmt.Errorf("cycles: cannot use %s as pattern data", interp.Stringify(v))
	}
}

func valueOfVoice(v cycles.VoiceValue) interp.Value {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case cycles.NumValue:
		f, _ := x.AsDouble()
		return f
	case cycles.BoolValue:
		return bool(x)
	default:
		return x.String()
	}
}

// valueOfData renders a VoiceData as a script Object with note/value/speed/
// params fields, the shape `.fmap` callbacks and console.log output see.
func valueOfData(d cycles.VoiceData) interp.Value {
	obj := interp.NewObject()
	if d.Note != nil {
		obj.Set("note", valueOfVoice(d.Note))
	}
	if d.Value != nil {
		obj.Set("value", valueOfVoice(d.Value))
	}
	if d.Speed != nil {
		obj.Set("speed", valueOfVoice(d.Speed))
	}
	if len(d.Params) > 0 {
		params := interp.NewObject()
		for k, v := range d.Params {
			params.Set(k, valueOfVoice(v))
		}
		obj.Set("params", params)
	}
	return obj
}

// dataOfValue is valueOfData's inverse, used when a script callback (e.g.
// passed to .fmap) returns a plain value or an { note, value, speed,
// params } object in place of a VoiceData.
func dataOfValue(v interp.Value) (cycles.VoiceData, error) {
	if obj, ok := v.(*interp.Object); ok {
		var d cycles.VoiceData
		if note, ok := obj.Get("note"); ok {
			vv, err := voiceValueOf(note)
			if err != nil {
				return d, err
			}
			d.Note = vv
		}
		if val, ok := obj.Get("value"); ok {
			vv, err := voiceValueOf(val)
			if err != nil {
				return d, err
			}
			d.Value = vv
		}
		if speed, ok := obj.Get("speed"); ok {
			vv, err := voiceValueOf(speed)
			if err != nil {
				return d, err
			}
			d.Speed = vv
		}
		if params, ok := obj.Get("params"); ok {
			if pobj, ok := params.(*interp.Object); ok {
				d.Params = map[string]cycles.VoiceValue{}
				for _, k := range pobj.Keys() {
					pv, _ := pobj.Get(k)
					vv, err := voiceValueOf(pv)
					if err != nil {
						return d, err
					}
					d.Params[k] = vv
				}
			}
		}
		return d, nil
	}
	vv, err := voiceValueOf(v)
	if err != nil {
		return cycles.VoiceData{}, err
	}
	return cycles.NewVoiceData(vv), nil
}

func eventsToValue(events []cycles.Event) interp.Value {
	arr := &interp.Array{Elements: make([]interp.Value, 0, len(events))}
	for _, ev := range events {
		obj := interp.NewObject()
		obj.Set("partBegin", ev.Part.Begin.Float64())
		obj.Set("partEnd", ev.Part.End.Float64())
		obj.Set("wholeBegin", ev.Whole.Begin.Float64())
		obj.Set("wholeEnd", ev.Whole.End.Float64())
		obj.Set("data", valueOfData(ev.Data))
		arr.Elements = append(arr.Elements, obj)
	}
	return arr
}
