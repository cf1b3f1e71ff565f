package runtime

import (
	"fmt"
	"sort"
)

// Environment provides lexical scoping for runtime values. Function scopes
// receive `var` declarations; block scopes receive `let` and `const`.
type Environment struct {
	values   map[string]Value
	consts   map[string]struct{}
	parent   *Environment
	function bool
}

// NewEnvironment creates a new block environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// NewFunctionEnvironment creates the scope for a function body.
func NewFunctionEnvironment(parent *Environment) *Environment {
	env := NewEnvironment(parent)
	env.function = true
	return env
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// FunctionScope returns the nearest enclosing function scope, or the global
// scope.
func (e *Environment) FunctionScope() *Environment {
	env := e
	for env.parent != nil && !env.function {
		env = env.parent
	}
	return env
}

// Snapshot returns a deterministic copy of the current bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
	delete(e.consts, name)
}

// DefineConst inserts a binding that rejects later assignment.
func (e *Environment) DefineConst(name string, value Value) {
	e.values[name] = value
	if e.consts == nil {
		e.consts = make(map[string]struct{})
	}
	e.consts[name] = struct{}{}
}

// HasOwn reports whether name is bound directly in this scope.
func (e *Environment) HasOwn(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Has reports whether name is bound anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			return true
		}
	}
	return false
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; ok {
		if _, isConst := e.consts[name]; isConst {
			return fmt.Errorf("TypeError: Assignment to constant variable '%s'", name)
		}
		e.values[name] = value
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return fmt.Errorf("ReferenceError: %s is not defined", name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, fmt.Errorf("ReferenceError: %s is not defined", name)
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child block scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
