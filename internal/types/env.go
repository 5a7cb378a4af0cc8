package types

// Env is the name environment produced by the checker's hoisting pass:
// every top-level class, interface, type alias, enum, and function visible
// to mutual references, keyed by declared name. A fresh Env also scopes
// the Expander's memoization cache, since the same lazy form can expand
// differently depending on which aliases are in scope.
type Env struct {
	id         string
	Classes    map[string]*Class
	Interfaces map[string]*Interface
	Aliases    map[string]Type
	Enums      map[string]*Enum
	Functions  map[string]Type
	parent     *Env
}

// NewEnv returns an empty root environment identified by id (typically the
// source file path), used as a cache-key namespace for expansion memoization.
func NewEnv(id string) *Env {
	return &Env{
		id:         id,
		Classes:    map[string]*Class{},
		Interfaces: map[string]*Interface{},
		Aliases:    map[string]Type{},
		Enums:      map[string]*Enum{},
		Functions:  map[string]Type{},
	}
}

// Child returns a nested scope (e.g. a namespace or block) that falls back
// to the parent for lookups it doesn't itself shadow.
func (e *Env) Child(id string) *Env {
	c := NewEnv(e.id + "/" + id)
	c.parent = e
	return c
}

func (e *Env) key() string { return e.id }

// LookupClass resolves name through this scope and its ancestors.
func (e *Env) LookupClass(name string) (*Class, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if c, ok := cur.Classes[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// LookupInterface resolves name through this scope and its ancestors.
func (e *Env) LookupInterface(name string) (*Interface, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if i, ok := cur.Interfaces[name]; ok {
			return i, true
		}
	}
	return nil, false
}

// LookupAlias resolves a type-alias name through this scope and its
// ancestors.
func (e *Env) LookupAlias(name string) (Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.Aliases[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupEnum resolves name through this scope and its ancestors.
func (e *Env) LookupEnum(name string) (*Enum, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if en, ok := cur.Enums[name]; ok {
			return en, true
		}
	}
	return nil, false
}

// LookupFunction resolves name through this scope and its ancestors; the
// result may be *FuncType, *OverloadedFunction, or *GenericFunction.
func (e *Env) LookupFunction(name string) (Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if f, ok := cur.Functions[name]; ok {
			return f, true
		}
	}
	return nil, false
}
