package types

// Substitution is a binding environment from type parameter name to
// concrete type, built fresh for each generic instantiation and consulted
// by every variant's Substitute method.
type Substitution struct {
	bindings map[string]Type
}

// NewSubstitution returns an empty binding environment.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[string]Type{}}
}

// Bind records name -> t, overwriting any prior binding for name.
func (s *Substitution) Bind(name string, t Type) {
	s.bindings[name] = t
}

// Lookup returns the type bound to name, if any.
func (s *Substitution) Lookup(name string) (Type, bool) {
	t, ok := s.bindings[name]
	return t, ok
}

// apply substitutes free type parameters inside t according to s. Types
// with no free parameters (primitives, literals, classes, enums) return
// themselves unchanged via their own Substitute implementation.
func (s *Substitution) apply(t Type) Type {
	if t == nil {
		return nil
	}
	if sub, ok := t.(Substitutable); ok {
		return sub.Substitute(s)
	}
	return t
}

// substituteTuple applies s to every element of t, flattening any element
// whose Kind is Spread and whose substituted type resolves to a concrete
// Tuple — this implements variadic-tuple substitution, where a rest type
// parameter bound to `[number, string]` splices its elements in place
// rather than nesting a tuple-of-tuples.
func substituteTuple(t *Tuple, s *Substitution) Type {
	elements := make([]TupleElement, 0, len(t.Elements))
	requiredCount := 0
	hasSpread := false
	for _, e := range t.Elements {
		newType := s.apply(e.Type)
		if e.Kind == Spread {
			if inner, ok := newType.(*Tuple); ok {
				elements = append(elements, inner.Elements...)
				requiredCount += inner.RequiredCount
				if inner.HasSpread {
					hasSpread = true
				}
				continue
			}
			elements = append(elements, TupleElement{Type: newType, Kind: Spread, Name: e.Name})
			hasSpread = true
			continue
		}
		elements = append(elements, TupleElement{Type: newType, Kind: e.Kind, Name: e.Name})
		if e.Kind == Required {
			requiredCount++
		}
	}
	return &Tuple{Elements: elements, RequiredCount: requiredCount, HasSpread: hasSpread}
}
