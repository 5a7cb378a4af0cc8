package types

import "strings"

// Param is one function parameter's type plus arity-relevant flags.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Predicate captures `x is T` / `asserts x` / `asserts x is T` return
// annotations, consulted by narrowing at call sites.
type Predicate struct {
	Asserts   bool
	ParamName string
	Type      Type // nil for a bare `asserts x` with no narrowed type
}

// FuncType is a single callable signature.
type FuncType struct {
	Params    []Param
	Return    Type
	MinArity  int
	HasRest   bool
	ThisType  Type // nil if the signature doesn't constrain `this`
	Predicate *Predicate
}

func (t *FuncType) typeNode() {}
func (t *FuncType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		name := p.Name
		if p.Rest {
			name = "..." + name
		}
		parts[i] = name + opt + ": " + p.Type.String()
	}
	ret := t.Return.String()
	if t.Predicate != nil {
		if t.Predicate.Type != nil {
			ret = t.Predicate.ParamName + " is " + t.Predicate.Type.String()
		} else {
			ret = "asserts " + t.Predicate.ParamName
		}
	}
	return "(" + strings.Join(parts, ", ") + ") => " + ret
}
func (t *FuncType) TypeKey() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.Type.TypeKey()
	}
	return "func:(" + strings.Join(parts, ",") + ")->" + t.Return.TypeKey()
}
func (t *FuncType) Equals(o Type) bool {
	f, ok := o.(*FuncType)
	if !ok || len(f.Params) != len(t.Params) || !f.Return.Equals(t.Return) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Type.Equals(f.Params[i].Type) || t.Params[i].Optional != f.Params[i].Optional {
			return false
		}
	}
	return true
}
func (t *FuncType) Substitute(s *Substitution) Type {
	params := make([]Param, len(t.Params))
	for i, p := range t.Params {
		params[i] = Param{Name: p.Name, Type: s.apply(p.Type), Optional: p.Optional, Rest: p.Rest}
	}
	return &FuncType{Params: params, Return: s.apply(t.Return), MinArity: t.MinArity, HasRest: t.HasRest, ThisType: t.ThisType, Predicate: t.Predicate}
}

// Accepts reports whether this signature's arity allows n arguments.
func (t *FuncType) Accepts(n int) bool {
	if n < t.MinArity {
		return false
	}
	if t.HasRest {
		return true
	}
	return n <= len(t.Params)
}

// OverloadedFunction groups declared overload signatures plus the merged
// implementation signature used for body checking.
type OverloadedFunction struct {
	Signatures []*FuncType
}

func (t *OverloadedFunction) typeNode()      {}
func (t *OverloadedFunction) String() string { return "overloaded function" }
func (t *OverloadedFunction) TypeKey() string {
	parts := make([]string, len(t.Signatures))
	for i, s := range t.Signatures {
		parts[i] = s.TypeKey()
	}
	return "overload:[" + strings.Join(parts, "|") + "]"
}
func (t *OverloadedFunction) Equals(o Type) bool {
	f, ok := o.(*OverloadedFunction)
	return ok && t.TypeKey() == f.TypeKey()
}
func (t *OverloadedFunction) Substitute(*Substitution) Type { return t }

// GenericFunction carries declared type parameters plus a constraint
// environment consulted during inference/unification at call sites.
type GenericFunction struct {
	TypeParams []*TypeParameter
	Signature  *FuncType
}

func (t *GenericFunction) typeNode()      {}
func (t *GenericFunction) String() string { return "generic " + t.Signature.String() }
func (t *GenericFunction) TypeKey() string {
	return "genfunc:" + t.Signature.TypeKey()
}
func (t *GenericFunction) Equals(o Type) bool {
	g, ok := o.(*GenericFunction)
	return ok && t.TypeKey() == g.TypeKey()
}
func (t *GenericFunction) Substitute(*Substitution) Type { return t }
