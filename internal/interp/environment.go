package interp

import "fmt"

// binding pairs a stored value with whether it was declared `const`.
type binding struct {
	value Value
	const_ bool
}

// Environment is a lexical scope: a flat map of bindings plus a parent
// pointer, walked outward on lookup/assignment the same way the checker's
// Scope resolves narrowed types against its own parent chain.
type Environment struct {
	vars   map[string]*binding
	parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: map[string]*binding{}, parent: parent}
}

func (e *Environment) Child() *Environment { return NewEnvironment(e) }

// Declare introduces a new binding in this scope, shadowing any outer
// binding of the same name.
func (e *Environment) Declare(name string, v Value, isConst bool) {
	e.vars[name] = &binding{value: v, const_: isConst}
}

// Get resolves name by walking outward through parent scopes.
func (e *Environment) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Assign updates an existing binding, walking outward to find where it was
// declared. Returns an error if the name is undeclared or the binding is
// const — callers turn this into a thrown TypeError.
func (e *Environment) Assign(name string, v Value) error {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			if b.const_ {
				return fmt.Errorf("Assignment to constant variable '%s'", name)
			}
			b.value = v
			return nil
		}
	}
	return fmt.Errorf("'%s' is not defined", name)
}
