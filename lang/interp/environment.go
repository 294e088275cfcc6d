package interp

import (
	"errors"
	"fmt"
)

// ErrName is the sentinel error kind for undefined identifiers and illegal
// const rebinding.
var ErrName = errors.New("cycles: name error")

// NameError wraps ErrName with the offending identifier.
type NameError struct {
	Ident   string
	Message string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("cycles: name error: %s: %s", e.Ident, e.Message)
}

func (e *NameError) Unwrap() error { return ErrName }

type binding struct {
	value Value
	const_ bool
}

// Environment is a lexically scoped variable frame; child scopes chain to
// their parent for lookups that miss locally.
type Environment struct {
	vars   map[string]*binding
	parent *Environment
}

// NewEnvironment returns a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{vars: map[string]*binding{}}
}

// Child returns a new environment scoped inside e.
func (e *Environment) Child() *Environment {
	return &Environment{vars: map[string]*binding{}, parent: e}
}

// DefineLet binds name in the current scope as mutable, shadowing any
// outer binding of the same name.
func (e *Environment) DefineLet(name string, v Value) {
	e.vars[name] = &binding{value: v}
}

// DefineConst binds name in the current scope as immutable.
func (e *Environment) DefineConst(name string, v Value) {
	e.vars[name] = &binding{value: v, const_: true}
}

// Get resolves name through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			return b.value, nil
		}
	}
	return nil, &NameError{Ident: name, Message: "undefined"}
}

// Assign updates an existing binding through the scope chain, failing if
// the binding is a const or does not exist.
func (e *Environment) Assign(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.vars[name]; ok {
			if b.const_ {
				return &NameError{Ident: name, Message: "cannot reassign const"}
			}
			b.value = v
			return nil
		}
	}
	return &NameError{Ident: name, Message: "undefined"}
}
