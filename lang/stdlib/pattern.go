package stdlib

import (
	"github.com/wbrown/cycles"
	"github.com/wbrown/cycles/lang/interp"
	"github.com/wbrown/cycles/pattern"
)

// Pattern returns the "cycles/core" library: every native pattern
// constructor and, via its registration callback, every extension method
// reachable as `somePattern.method(...)` from script. Grounded on
// function_registry.go's "one file, one namespace of natives" shape.
func Pattern() *interp.Library {
	lib := interp.NewLibrary("cycles/core").WithRegistration(registerPatternMethods)

	lib.WithNativeExport("silence", nativeFn("silence", func(args []interp.Value) (interp.Value, error) {
		return wrapPattern(pattern.Silence()), nil
	}))
	lib.WithNativeExport("seq", nativeFn("seq", sequenceFn))
	lib.WithNativeExport("sequence", nativeFn("sequence", sequenceFn))
	lib.WithNativeExport("stack", nativeFn("stack", stackFn))
	lib.WithNativeExport("note", nativeFn("note", func(args []interp.Value) (interp.Value, error) {
		return atomWith("note", args, func(d *cycles.VoiceData, v cycles.VoiceValue) { d.Note = v })
	}))
	lib.WithNativeExport("n", nativeFn("n", func(args []interp.Value) (interp.Value, error) {
		return atomWith("n", args, func(d *cycles.VoiceData, v cycles.VoiceValue) { d.Value = v })
	}))
	lib.WithNativeExport("sound", nativeFn("sound", func(args []interp.Value) (interp.Value, error) {
		return atomWith("sound", args, func(d *cycles.VoiceData, v cycles.VoiceValue) { d.Value = v })
	}))
	lib.WithNativeExport("s", nativeFn("s", func(args []interp.Value) (interp.Value, error) {
		return atomWith("s", args, func(d *cycles.VoiceData, v cycles.VoiceValue) { d.Value = v })
	}))

	lib.WithNativeExport("sine", nativeFn("sine", oscillatorFn(pattern.Sine)))
	lib.WithNativeExport("cosine", nativeFn("cosine", oscillatorFn(pattern.Cosine)))
	lib.WithNativeExport("saw", nativeFn("saw", oscillatorFn(pattern.Saw)))
	lib.WithNativeExport("isaw", nativeFn("isaw", oscillatorFn(pattern.Isaw)))
	lib.WithNativeExport("tri", nativeFn("tri", oscillatorFn(pattern.Tri)))
	lib.WithNativeExport("square", nativeFn("square", oscillatorFn(pattern.Square)))
	lib.WithNativeExport("randL", nativeFn("randL", func(args []interp.Value) (interp.Value, error) {
		n, err := intArg("randL", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.RandL(n)), nil
	}))
	lib.WithNativeExport("randrun", nativeFn("randrun", func(args []interp.Value) (interp.Value, error) {
		n, err := intArg("randrun", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return wrapPattern(pattern.Randrun(n)), nil
	}))
	lib.WithNativeExport("choice", nativeFn("choice", func(args []interp.Value) (interp.Value, error) {
		opts := make([]pattern.Pattern, len(args))
		for i, a := range args {
			p, err := patternArg("choice", a)
			if err != nil {
				return nil, err
			}
			opts[i] = p
		}
		return wrapPattern(pattern.Choice(opts...)), nil
	}))

	return lib
}

func nativeFn(name string, fn func(args []interp.Value) (interp.Value, error)) *interp.NativeFunc {
	return &interp.NativeFunc{Name: name, Fn: fn}
}

func sequenceFn(args []interp.Value) (interp.Value, error) {
	children := make([]pattern.Pattern, len(args))
	for i, a := range args {
		p, err := patternArg("seq", a)
		if err != nil {
			return nil, err
		}
		children[i] = p
	}
	return wrapPattern(pattern.Sequence(children...)), nil
}

func stackFn(args []interp.Value) (interp.Value, error) {
	children := make([]pattern.Pattern, len(args))
	for i, a := range args {
		p, err := patternArg("stack", a)
		if err != nil {
			return nil, err
		}
		children[i] = p
	}
	return wrapPattern(pattern.Stack(children...)), nil
}

func atomWith(name string, args []interp.Value, set func(*cycles.VoiceData, cycles.VoiceValue)) (interp.Value, error) {
	if len(args) != 1 {
		return nil, &interp.ArgumentError{Function: name, Expected: "1 argument", Actual: interp.Stringify(&interp.Array{Elements: args})}
	}
	// A bare string/number becomes one atom per cycle; an array becomes a
	// Sequence of such atoms, mirroring mini-notation's implicit "this is a
	// one-cycle step list" convention without a dedicated notation parser.
	build := func(v interp.Value) (pattern.Pattern, error) {
		vv, err := voiceValueOf(v)
		if err != nil {
			return nil, err
		}
		var d cycles.VoiceData
		set(&d, vv)
		return pattern.Atom(d), nil
	}
	if arr, ok := args[0].(*interp.Array); ok {
		children := make([]pattern.Pattern, len(arr.Elements))
		for i, el := range arr.Elements {
			p, err := build(el)
			if err != nil {
				return nil, err
			}
			children[i] = p
		}
		return wrapPattern(pattern.Sequence(children...)), nil
	}
	p, err := build(args[0])
	if err != nil {
		return nil, err
	}
	return wrapPattern(p), nil
}

func oscillatorFn(ctor func() pattern.Pattern) func([]interp.Value) (interp.Value, error) {
	return func(args []interp.Value) (interp.Value, error) {
		return wrapPattern(ctor()), nil
	}
}
