package interp

import (
	"fmt"
	"strings"

	"github.com/wbrown/cycles/lang/ast"
)

// Value is any mini-script runtime value: float64, string, bool, nil,
// *Array, *Object, *Closure, *NativeFunc, or *NativeObject.
type Value interface{}

// Array is an ordered, mutable list value.
type Array struct {
	Elements []Value
}

// objectEntry preserves insertion order for Object's fields.
type objectEntry struct {
	Key   string
	Value Value
}

// Object is an insertion-ordered string-keyed runtime value.
type Object struct {
	entries []objectEntry
	index   map[string]int
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

// Get looks up key, reporting whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.entries[i].Value, true
}

// Set inserts or updates key, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.entries[i].Value = v
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, objectEntry{Key: key, Value: v})
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Closure is an arrow function plus the environment it closed over. Engine
// is carried so host code holding a Closure (e.g. a pattern transform
// callback registered by cycles/lang/stdlib) can invoke it via Call without
// needing its own Engine reference.
type Closure struct {
	Params    []string
	Body      ast.Expr
	BlockBody []ast.Stmt
	Env       *Environment
	Engine    *Engine
}

// NativeFunc is a host-provided function exposed to scripts. Arity
// mismatches are the caller's responsibility to report as ArgumentError.
type NativeFunc struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

// NativeObject wraps a host value (typically a pattern.Pattern) with a
// Type tag used to look up extension methods in the Registry.
type NativeObject struct {
	Type  string
	Value interface{}
}

// Stringify renders v the way console.log/print does: objects and arrays
// recursively, native objects by their Type tag.
func Stringify(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return formatNumber(x)
	case string:
		return x
	case bool:
		return fmt.Sprintf("%v", x)
	case *Array:
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			parts[i] = Stringify(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Object:
		parts := make([]string, 0, len(x.entries))
		for _, e := range x.entries {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Key, Stringify(e.Value)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Closure:
		return "[Function]"
	case *NativeFunc:
		return fmt.Sprintf("[NativeFunction %s]", x.Name)
	case *NativeObject:
		return fmt.Sprintf("[%s]", x.Type)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Truthy implements the interpreter's truthiness convention: 0, "", false,
// and null are falsy; everything else (including empty arrays/objects) is
// truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
