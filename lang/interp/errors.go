package interp

import (
	"errors"
	"fmt"
)

// ErrArgument is the sentinel error kind for native-function arity/type
// mismatches.
var ErrArgument = errors.New("cycles: argument error")

// ArgumentError names the function, what was expected, and what arrived.
type ArgumentError struct {
	Function string
	Expected string
	Actual   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("cycles: argument error: %s: expected %s, got %s", e.Function, e.Expected, e.Actual)
}

func (e *ArgumentError) Unwrap() error { return ErrArgument }

// ErrType is the sentinel error kind for failed extension-method lookups
// and runtime value casts.
var ErrType = errors.New("cycles: type error")

// TypeError names the failed operation.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return fmt.Sprintf("cycles: type error: %s", e.Message) }
func (e *TypeError) Unwrap() error  { return ErrType }

// ErrImport is the sentinel error kind for a library name the loader
// cannot resolve.
var ErrImport = errors.New("cycles: import error")

// ImportError names the library that could not be found.
type ImportError struct {
	Library string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("cycles: import error: library %q not found", e.Library)
}

func (e *ImportError) Unwrap() error { return ErrImport }
