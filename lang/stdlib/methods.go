package stdlib

import (
	"github.com/wbrown/cycles"
	"github.com/wbrown/cycles/lang/interp"
	"github.com/wbrown/cycles/pattern"
)

// registerPatternMethods installs every `somePattern.method(...)` extension
// method on PatternType. Split from the constructor exports in pattern.go
// so each file stays focused the way the teacher keeps one concern per file
// across datalog/executor's many small Relation-method files.
func registerPatternMethods(r *interp.Registry) {
	self := func(receiver interp.Value) (pattern.Pattern, error) {
		p, ok := receiver.(pattern.Pattern)
		if !ok {
			return nil, &interp.TypeError{Message: "method receiver is not a Pattern"}
		}
		return p, nil
	}

	r.DefineMethod(PatternType, "fast", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		factor, err := factorArg("fast", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Fast(p, factor)), nil
	})
	r.DefineMethod(PatternType, "slow", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		factor, err := factorArg("slow", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Slow(p, factor)), nil
	})
	r.DefineMethod(PatternType, "hurry", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		factor, err := rationalArg("hurry", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Hurry(p, factor)), nil
	})
	r.DefineMethod(PatternType, "rev", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Reverse(p, 1)), nil
	})
	r.DefineMethod(PatternType, "shift", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		offset, err := rationalArg("shift", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.TimeShift(p, offset)), nil
	})
	r.DefineMethod(PatternType, "compress", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		begin, end, err := spanArgs("compress", args)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Compress(p, begin, end)), nil
	})
	r.DefineMethod(PatternType, "focus", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		begin, end, err := spanArgs("focus", args)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Focus(p, begin, end)), nil
	})
	r.DefineMethod(PatternType, "zoom", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		begin, end, err := spanArgs("zoom", args)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Zoom(p, begin, end)), nil
	})
	r.DefineMethod(PatternType, "range", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		min, err := numberArg("range", arg(args, 0))
		if err != nil {
			return nil, err
		}
		max, err := numberArg("range", arg(args, 1))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.ContextRangeMap(p, min, max)), nil
	})

	r.DefineMethod(PatternType, "euclid", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		pulses, err := intArg("euclid", arg(args, 0))
		if err != nil {
			return nil, err
		}
		steps, err := intArg("euclid", arg(args, 1))
		if err != nil {
			return nil, err
		}
		rotation := int64(0)
		if len(args) > 2 {
			rotation, err = intArg("euclid", args[2])
			if err != nil {
				return nil, err
			}
		}
		legato := false
		if len(args) > 3 {
			legato = boolArg("euclid", args[3])
		}
		return wrapPattern(pattern.Euclidean(p, int(pulses), int(steps), int(rotation), legato)), nil
	})
	r.DefineMethod(PatternType, "struct", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		gate, err := patternArg("struct", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Struct(gate, p)), nil
	})
	r.DefineMethod(PatternType, "mask", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		gate, err := patternArg("mask", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Mask(p, gate)), nil
	})
	r.DefineMethod(PatternType, "segment", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		n, err := intArg("segment", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Segment(p, n)), nil
	})
	r.DefineMethod(PatternType, "ply", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		n, err := intArg("ply", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Ply(p, n)), nil
	})
	r.DefineMethod(PatternType, "drop", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		n, err := intArg("drop", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Drop(p, n)), nil
	})
	r.DefineMethod(PatternType, "take", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		n, err := intArg("take", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Take(p, n)), nil
	})

	r.DefineMethod(PatternType, "fmap", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Map(p, dataTransform(arg(args, 0)))), nil
	})
	r.DefineMethod(PatternType, "filter", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Filter(p, dataPredicate(arg(args, 0)))), nil
	})
	r.DefineMethod(PatternType, "superimpose", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Superimpose(p, patternTransform(arg(args, 0)))), nil
	})
	r.DefineMethod(PatternType, "off", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		offset, err := rationalArg("off", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Off(p, offset, dataTransform(arg(args, 1)))), nil
	})
	r.DefineMethod(PatternType, "degradeBy", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		prob, err := numberArg("degradeBy", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.DegradeBy(p, prob)), nil
	})
	r.DefineMethod(PatternType, "undegradeBy", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		prob, err := numberArg("undegradeBy", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.UndegradeBy(p, prob)), nil
	})
	r.DefineMethod(PatternType, "sometimes", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		prob, err := probabilityArg("sometimes", arg(args, 0))
		if err != nil {
			return nil, err
		}
		onMatch := patternTransform(arg(args, 1))
		var onMiss func(pattern.Pattern) pattern.Pattern
		if len(args) > 2 && arg(args, 2) != nil {
			onMiss = patternTransform(args[2])
		}
		seed := ""
		if len(args) > 3 {
			if s, ok := arg(args, 3).(string); ok {
				seed = s
			}
		}
		return wrapPattern(pattern.Sometimes(p, prob, onMatch, onMiss, seed)), nil
	})
	r.DefineMethod(PatternType, "when", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.When(p, cycleTest(arg(args, 0)), patternTransform(arg(args, 1)))), nil
	})
	r.DefineMethod(PatternType, "every", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		n, err := intArg("every", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.FirstOf(p, n, patternTransform(arg(args, 1)))), nil
	})
	r.DefineMethod(PatternType, "bind", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		strategy := pattern.PickInner
		if len(args) > 1 {
			s, serr := strategyArg(args[1])
			if serr != nil {
				return nil, serr
			}
			strategy = s
		}
		return wrapPattern(pattern.Bind(p, bindFunc(arg(args, 0)), strategy)), nil
	})

	r.DefineMethod(PatternType, "queryArc", func(receiver interp.Value, args []interp.Value) (interp.Value, error) {
		p, err := self(receiver)
		if err != nil {
			return nil, err
		}
		from, err := rationalArg("queryArc", arg(args, 0))
		if err != nil {
			return nil, err
		}
		to, err := rationalArg("queryArc", arg(args, 1))
		if err != nil {
			return nil, err
		}
		seed := int64(0)
		if len(args) > 2 {
			s, serr := intArg("queryArc", args[2])
			if serr != nil {
				return nil, serr
			}
			seed = s
		}
		ctx := cycles.NewQueryContext().WithRandomSeed(seed)
		return eventsToValue(p.QueryArc(from, to, ctx)), nil
	})
}

func spanArgs(fname string, args []interp.Value) (cycles.Rational, cycles.Rational, error) {
	begin, err := rationalArg(fname, arg(args, 0))
	if err != nil {
		return cycles.Rational{}, cycles.Rational{}, err
	}
	end, err := rationalArg(fname, arg(args, 1))
	if err != nil {
		return cycles.Rational{}, cycles.Rational{}, err
	}
	return begin, end, nil
}

func strategyArg(v interp.Value) (pattern.JoinStrategy, error) {
	name, ok := v.(string)
	if !ok {
		return 0, &interp.ArgumentError{Function: "bind", Expected: "a strategy name string", Actual: interp.Stringify(v)}
	}
	switch name {
	case "inner":
		return pattern.PickInner, nil
	case "outer":
		return pattern.PickOuter, nil
	case "reset":
		return pattern.PickReset, nil
	case "restart":
		return pattern.PickRestart, nil
	case "squeeze":
		return pattern.PickSqueeze, nil
	default:
		return 0, &interp.ArgumentError{Function: "bind", Expected: `"inner"|"outer"|"reset"|"restart"|"squeeze"`, Actual: name}
	}
}
