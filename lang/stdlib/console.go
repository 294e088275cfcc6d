package stdlib

import (
	"fmt"
	"math"
	"strings"

	"github.com/wbrown/cycles/lang/interp"
)

// Console returns the "cycles/console" library: `console.log`/`print`,
// grounded on the teacher's own debug-breadcrumb convention
// (`log.Printf("DEBUG: ...")` in function_registry.go) repointed at a
// script-facing namespace object instead of the host log.
func Console() *interp.Library {
	lib := interp.NewLibrary("cycles/console")
	lib.WithNativeExport("console", consoleNamespace())
	lib.WithNativeExport("print", &interp.NativeFunc{Name: "print", Fn: func(args []interp.Value) (interp.Value, error) {
		parts := make([]interface{}, len(args))
		for i, a := range args {
			parts[i] = interp.Stringify(a)
		}
		fmt.Println(parts...)
		return nil, nil
	}})
	return lib
}

func consoleNamespace() *interp.Object {
	ns := interp.NewObject()
	ns.Set("log", &interp.NativeFunc{Name: "console.log", Fn: printFn})
	return ns
}

// Math returns the "cycles/math" library, a minimal `Math.*` namespace
// object mirroring the handful of functions mini-scripts actually need for
// shaping numeric arguments to pattern combinators (speeds, rotations,
// probabilities).
func Math() *interp.Library {
	return interp.NewLibrary("cycles/math").WithNativeExport("Math", mathNamespace())
}

func mathNamespace() *interp.Object {
	ns := interp.NewObject()
	unary := map[string]func(float64) float64{
		"sqrt": math.Sqrt, "abs": math.Abs, "floor": math.Floor,
		"ceil": math.Ceil, "round": math.Round, "sin": math.Sin,
		"cos": math.Cos, "tan": math.Tan,
	}
	for name, fn := range unary {
		fn := fn
		ns.Set(name, &interp.NativeFunc{Name: "Math." + name, Fn: func(args []interp.Value) (interp.Value, error) {
			n, err := numberArg("Math."+name, arg(args, 0))
			if err != nil {
				return nil, err
			}
			return fn(n), nil
		}})
	}
	ns.Set("min", &interp.NativeFunc{Name: "Math.min", Fn: func(args []interp.Value) (interp.Value, error) {
		return reduceNumbers("Math.min", args, math.Min)
	}})
	ns.Set("max", &interp.NativeFunc{Name: "Math.max", Fn: func(args []interp.Value) (interp.Value, error) {
		return reduceNumbers("Math.max", args, math.Max)
	}})
	ns.Set("pow", &interp.NativeFunc{Name: "Math.pow", Fn: func(args []interp.Value) (interp.Value, error) {
		base, err := numberArg("Math.pow", arg(args, 0))
		if err != nil {
			return nil, err
		}
		exp, err := numberArg("Math.pow", arg(args, 1))
		if err != nil {
			return nil, err
		}
		return math.Pow(base, exp), nil
	}})
	ns.Set("PI", math.Pi)
	return ns
}

// Stdlib returns the implicit "stdlib" library named in spec §6: print,
// console, Math, length, toUpperCase, toLowerCase, all in one importable
// unit so `import * from "stdlib"` brings in the whole ambient surface a
// script can rely on without reaching for "cycles/core".
func Stdlib() *interp.Library {
	lib := interp.NewLibrary("stdlib")
	lib.WithNativeExport("console", consoleNamespace())
	lib.WithNativeExport("Math", mathNamespace())
	lib.WithNativeExport("print", &interp.NativeFunc{Name: "print", Fn: printFn})
	lib.WithNativeExport("length", &interp.NativeFunc{Name: "length", Fn: func(args []interp.Value) (interp.Value, error) {
		switch x := arg(args, 0).(type) {
		case string:
			return float64(len(x)), nil
		case *interp.Array:
			return float64(len(x.Elements)), nil
		default:
			return nil, &interp.ArgumentError{Function: "length", Expected: "a string or array", Actual: interp.Stringify(x)}
		}
	}})
	lib.WithNativeExport("toUpperCase", &interp.NativeFunc{Name: "toUpperCase", Fn: func(args []interp.Value) (interp.Value, error) {
		s, ok := arg(args, 0).(string)
		if !ok {
			return nil, &interp.ArgumentError{Function: "toUpperCase", Expected: "a string", Actual: interp.Stringify(arg(args, 0))}
		}
		return strings.ToUpper(s), nil
	}})
	lib.WithNativeExport("toLowerCase", &interp.NativeFunc{Name: "toLowerCase", Fn: func(args []interp.Value) (interp.Value, error) {
		s, ok := arg(args, 0).(string)
		if !ok {
			return nil, &interp.ArgumentError{Function: "toLowerCase", Expected: "a string", Actual: interp.Stringify(arg(args, 0))}
		}
		return strings.ToLower(s), nil
	}})
	return lib
}

func printFn(args []interp.Value) (interp.Value, error) {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		parts[i] = interp.Stringify(a)
	}
	fmt.Println(parts...)
	return nil, nil
}

func arg(args []interp.Value, i int) interp.Value {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func reduceNumbers(fname string, args []interp.Value, combine func(a, b float64) float64) (interp.Value, error) {
	if len(args) == 0 {
		return nil, &interp.ArgumentError{Function: fname, Expected: "at least one number", Actual: "none"}
	}
	result, err := numberArg(fname, args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := numberArg(fname, a)
		if err != nil {
			return nil, err
		}
		result = combine(result, n)
	}
	return result, nil
}
