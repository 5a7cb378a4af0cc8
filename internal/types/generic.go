package types

import "strings"

// Variance records declared `in`/`out`/`in out` annotations on a type
// parameter.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant          // out
	Contravariant      // in
	Bivariant          // in out
)

// TypeParameter is a generic type's formal parameter.
type TypeParameter struct {
	Name       string
	Constraint Type // nil if unconstrained
	Default    Type // nil if no default
	IsConst    bool
	Variance   Variance
}

func (t *TypeParameter) typeNode()       {}
func (t *TypeParameter) String() string  { return t.Name }
func (t *TypeParameter) TypeKey() string { return "typaram:" + t.Name }
func (t *TypeParameter) Equals(o Type) bool {
	p, ok := o.(*TypeParameter)
	return ok && p.Name == t.Name
}
func (t *TypeParameter) Substitute(s *Substitution) Type {
	if sub, ok := s.Lookup(t.Name); ok {
		return sub
	}
	return t
}

// GenericClass is an unapplied generic class definition.
type GenericClass struct {
	TypeParams []*TypeParameter
	Def        *Class
}

func (t *GenericClass) typeNode()       {}
func (t *GenericClass) String() string  { return t.Def.Name + genericParamString(t.TypeParams) }
func (t *GenericClass) TypeKey() string { return "genclass:" + t.Def.Name }
func (t *GenericClass) Equals(o Type) bool {
	g, ok := o.(*GenericClass)
	return ok && g.Def.Name == t.Def.Name
}
func (t *GenericClass) Substitute(*Substitution) Type { return t }

// GenericInterface is an unapplied generic interface definition.
type GenericInterface struct {
	TypeParams []*TypeParameter
	Def        *Interface
}

func (t *GenericInterface) typeNode()       {}
func (t *GenericInterface) String() string  { return t.Def.Name + genericParamString(t.TypeParams) }
func (t *GenericInterface) TypeKey() string { return "geniface:" + t.Def.Name }
func (t *GenericInterface) Equals(o Type) bool {
	g, ok := o.(*GenericInterface)
	return ok && g.Def.Name == t.Def.Name
}
func (t *GenericInterface) Substitute(*Substitution) Type { return t }

func genericParamString(params []*TypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// GenericDef is implemented by GenericClass, GenericInterface, and
// GenericFunction — anything InstantiatedGeneric can point at.
type GenericDef interface {
	Type
	Params() []*TypeParameter
}

func (t *GenericClass) Params() []*TypeParameter     { return t.TypeParams }
func (t *GenericInterface) Params() []*TypeParameter { return t.TypeParams }
func (t *GenericFunction) Params() []*TypeParameter   { return t.TypeParams }

// InstantiatedGeneric is a generic definition applied to concrete type
// arguments; Identity()+TypeKey() forms the instantiation-cache key shared
// with internal/ir.
type InstantiatedGeneric struct {
	Def  GenericDef
	Args []Type
}

func (t *InstantiatedGeneric) typeNode() {}
func (t *InstantiatedGeneric) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Def.String() + "<" + strings.Join(parts, ", ") + ">"
}
func (t *InstantiatedGeneric) TypeKey() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.TypeKey()
	}
	return "inst:" + t.Def.TypeKey() + ":[" + strings.Join(parts, ",") + "]"
}
func (t *InstantiatedGeneric) Equals(o Type) bool {
	i, ok := o.(*InstantiatedGeneric)
	return ok && t.TypeKey() == i.TypeKey()
}
func (t *InstantiatedGeneric) Substitute(s *Substitution) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = s.apply(a)
	}
	return &InstantiatedGeneric{Def: t.Def, Args: args}
}

// Resolve substitutes the definition's body with Args, producing the
// concrete shape (a *Class, *Interface, or *FuncType) this instantiation
// denotes. Results should be cached by TypeKey() by the caller.
func (t *InstantiatedGeneric) Resolve() Type {
	sub := NewSubstitution()
	params := t.Def.Params()
	for i, p := range params {
		if i < len(t.Args) {
			sub.Bind(p.Name, t.Args[i])
		} else if p.Default != nil {
			sub.Bind(p.Name, p.Default)
		}
	}
	switch def := t.Def.(type) {
	case *GenericClass:
		return def.Def.Substitute(sub)
	case *GenericInterface:
		return def.Def.Substitute(sub)
	case *GenericFunction:
		return def.Signature.Substitute(sub)
	default:
		return TAny
	}
}

// InferredTypeParameter stands for an `infer U` binding site inside a
// ConditionalType's extends clause.
type InferredTypeParameter struct {
	Name string
}

func (t *InferredTypeParameter) typeNode()       {}
func (t *InferredTypeParameter) String() string  { return "infer " + t.Name }
func (t *InferredTypeParameter) TypeKey() string { return "infer:" + t.Name }
func (t *InferredTypeParameter) Equals(o Type) bool {
	i, ok := o.(*InferredTypeParameter)
	return ok && i.Name == t.Name
}
func (t *InferredTypeParameter) Substitute(s *Substitution) Type {
	if sub, ok := s.Lookup(t.Name); ok {
		return sub
	}
	return t
}
