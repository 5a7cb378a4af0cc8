package checker

import "github.com/sharpts/sharpts/internal/types"

// binding is one variable's declared type plus whether it was declared
// `const` (relevant to narrowing: a const binding's narrowed type never
// needs invalidation on reassignment, since it cannot be reassigned).
type binding struct {
	declared types.Type
	isConst  bool
}

// Scope is one lexical block's variable table plus the narrowing facts
// accumulated for paths rooted in this or an enclosing scope. Narrowing
// facts are stored by path string (see path.go) so a narrowed member
// access survives a child scope without re-deriving it.
type Scope struct {
	parent    *Scope
	vars      map[string]*binding
	narrowed  map[string]types.Type
}

// NewScope returns a fresh scope nested under parent (nil for the root).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]*binding{}, narrowed: map[string]types.Type{}}
}

// Child opens a nested block scope.
func (s *Scope) Child() *Scope { return NewScope(s) }

// Declare introduces name with its declared type in this scope.
func (s *Scope) Declare(name string, t types.Type, isConst bool) {
	s.vars[name] = &binding{declared: t, isConst: isConst}
}

// LookupDeclared returns the declared (unnarrowed) type of name.
func (s *Scope) LookupDeclared(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b.declared, true
		}
	}
	return nil, false
}

// IsConst reports whether name was declared const.
func (s *Scope) IsConst(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b.isConst
		}
	}
	return false
}

// LookupNarrowed returns the most specific type known for path, falling
// back to the declared type of its root identifier if no narrowing applies.
func (s *Scope) LookupNarrowed(path string, root string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.narrowed[path]; ok {
			return t, true
		}
	}
	return s.LookupDeclared(root)
}

// Narrow records that path is now known to have type t in this scope.
func (s *Scope) Narrow(path string, t types.Type) {
	s.narrowed[path] = t
}

// Invalidate drops every recorded narrowing whose path is, or extends,
// prefix — called on assignment to prefix, per the soundness invariant
// that a narrowed path reverts to its declared type once written.
func (s *Scope) Invalidate(prefix string) {
	for cur := s; cur != nil; cur = cur.parent {
		for p := range cur.narrowed {
			if p == prefix || hasPathPrefix(p, prefix) {
				delete(cur.narrowed, p)
			}
		}
	}
}

func hasPathPrefix(path, prefix string) bool {
	if len(path) <= len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix && (path[len(prefix)] == '.' || path[len(prefix)] == '[')
}

// snapshotNarrowed copies this scope's own narrowing map (not ancestors'),
// used to union branch outcomes at join points.
func (s *Scope) snapshotNarrowed() map[string]types.Type {
	out := make(map[string]types.Type, len(s.narrowed))
	for k, v := range s.narrowed {
		out[k] = v
	}
	return out
}

// unionNarrowings merges branch narrowings from a and b into a new map: a
// path narrowed in both branches keeps the union of its two narrowed types,
// and a path either branch has no narrowing for is dropped (reverting to
// declared).
func unionNarrowings(a, b map[string]types.Type) map[string]types.Type {
	out := map[string]types.Type{}
	for k, ta := range a {
		if tb, ok := b[k]; ok {
			out[k] = types.NewUnion(ta, tb)
		}
	}
	return out
}
