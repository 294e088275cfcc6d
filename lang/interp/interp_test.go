package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunEvaluatesArithmeticWithPrecedence(t *testing.T) {
	e := NewEngine()
	v, err := e.Run("1 + 2 * 3;")
	require.NoError(t, err)
	require.Equal(t, float64(7), v)
}

func TestRunArrowFunctionClosureCapturesEnclosingScope(t *testing.T) {
	e := NewEngine()
	v, err := e.Run(`
		let base = 10;
		let addBase = (x) => x + base;
		addBase(5);
	`)
	require.NoError(t, err)
	require.Equal(t, float64(15), v)
}

func TestRunBlockBodyArrowReturnsExplicitly(t *testing.T) {
	e := NewEngine()
	v, err := e.Run(`
		let double = (x) => {
			let y = x * 2;
			return y;
		};
		double(21);
	`)
	require.NoError(t, err)
	require.Equal(t, float64(42), v)
}

func TestRunConstReassignmentFails(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`
		const x = 1;
		const x = 2;
	`)
	require.ErrorIs(t, err, ErrName)
}

func TestRunStringConcatenationViaPlus(t *testing.T) {
	e := NewEngine()
	v, err := e.Run(`"a" + "b" + 1;`)
	require.NoError(t, err)
	require.Equal(t, "ab1", v)
}

func TestRunLogicalShortCircuit(t *testing.T) {
	e := NewEngine()
	v, err := e.Run(`false && (1/0 == 1);`)
	require.NoError(t, err)
	require.Equal(t, false, v)
}

func TestRunUndefinedIdentifierIsNameError(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`missing + 1;`)
	require.ErrorIs(t, err, ErrName)
}

func TestRunCallingNonFunctionIsTypeError(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`let x = 1; x();`)
	require.ErrorIs(t, err, ErrType)
}

func TestRunNativeFunctionArityMismatchIsArgumentError(t *testing.T) {
	e := NewEngine()
	e.Registry.DefineNative("needsTwo", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, &ArgumentError{Function: "needsTwo", Expected: "2 args", Actual: Stringify(&Array{Elements: args})}
		}
		return args[0], nil
	})
	e.Registry.RegisterLibrary(NewLibrary("math-ext").WithNativeExport("needsTwo", mustNative(e, "needsTwo")))

	_, err := e.Run(`
		import { needsTwo } from "math-ext";
		needsTwo(1);
	`)
	require.ErrorIs(t, err, ErrArgument)
}

func mustNative(e *Engine, name string) *NativeFunc {
	f, ok := e.Registry.Native(name)
	if !ok {
		panic("native not registered: " + name)
	}
	return f
}

func TestRunMethodCallDispatchesToRegisteredExtension(t *testing.T) {
	e := NewEngine()
	e.Registry.DefineMethod("Counter", "increment", func(receiver Value, args []Value) (Value, error) {
		n := receiver.(float64)
		return n + 1, nil
	})
	e.Registry.RegisterLibrary(NewLibrary("counters").WithNativeExport("counter", &NativeObject{Type: "Counter", Value: float64(5)}))

	v, err := e.Run(`
		import { counter } from "counters";
		counter.increment();
	`)
	require.NoError(t, err)
	require.Equal(t, float64(6), v)
}

func TestRunImportIsIdempotentUnderRepeatedUse(t *testing.T) {
	e := NewEngine()
	calls := 0
	e.Registry.RegisterLibrary(NewLibrary("once").WithRegistration(func(r *Registry) {
		calls++
	}))

	_, err := e.Run(`
		import * from "once";
		import * from "once";
	`)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRunMissingImportIsImportError(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`import * from "nope";`)
	require.ErrorIs(t, err, ErrImport)
}

func TestTruthyConventions(t *testing.T) {
	require.False(t, Truthy(nil))
	require.False(t, Truthy(false))
	require.False(t, Truthy(float64(0)))
	require.False(t, Truthy(""))
	require.True(t, Truthy(float64(1)))
	require.True(t, Truthy("x"))
}
