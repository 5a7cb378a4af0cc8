package types

import (
	"fmt"
	"strconv"
)

// TemplateLiteralLimitError is returned when expanding a TemplateLiteralType
// would produce more than maxTemplateCombinations concrete string-literal
// members.
type TemplateLiteralLimitError struct {
	Combinations int
}

func (e *TemplateLiteralLimitError) Error() string {
	return fmt.Sprintf("template literal type expansion exceeds %d combinations (got %d)", maxTemplateCombinations, e.Combinations)
}

const maxTemplateCombinations = 10000

// Expander expands lazy type forms on demand, memoizing each result per
// (form, environment) pair so repeated references to the same alias don't
// redo the work.
type Expander struct {
	env   *Env
	cache map[string]Type
	err   error
}

// NewExpander returns an expander bound to the given name environment.
func NewExpander(env *Env) *Expander {
	return &Expander{env: env, cache: map[string]Type{}}
}

// Err returns the first error encountered during expansion (currently only
// the template-literal combination-limit overflow), if any.
func (ex *Expander) Err() error { return ex.err }

// Expand resolves t to a non-lazy form. Naked type parameters are left
// untouched (laziness is preserved until the parameter is bound).
func (ex *Expander) Expand(t Type) Type {
	if t == nil {
		return nil
	}
	key := ex.env.key() + "|" + t.TypeKey()
	if cached, ok := ex.cache[key]; ok {
		return cached
	}
	result := ex.expand(t)
	ex.cache[key] = result
	return result
}

func (ex *Expander) expand(t Type) Type {
	switch v := t.(type) {
	case *KeyOf:
		return ex.expandKeyOf(v)
	case *IndexedAccess:
		return ex.expandIndexedAccess(v)
	case *ConditionalType:
		return ex.expandConditional(v)
	case *MappedType:
		return ex.expandMapped(v)
	case *TemplateLiteralType:
		return ex.expandTemplateLiteral(v)
	case *Union:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = ex.Expand(m)
		}
		return NewUnion(members...)
	case *Intersection:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = ex.Expand(m)
		}
		return NewIntersection(members...)
	default:
		if name, ok := utilityName(t); ok {
			if result, handled := ex.expandUtility(name, t); handled {
				return result
			}
		}
		return t
	}
}

func isNakedTypeParam(t Type) bool {
	switch t.(type) {
	case *TypeParameter, *InferredTypeParameter:
		return true
	default:
		return false
	}
}

func (ex *Expander) expandKeyOf(k *KeyOf) Type {
	src := ex.Expand(k.Source)
	if isNakedTypeParam(src) {
		return &KeyOf{Source: src}
	}
	var names []string
	switch s := src.(type) {
	case *Record:
		for _, f := range s.Fields {
			names = append(names, f.Name)
		}
		if s.StringIndex != nil {
			return TString
		}
	case *Interface:
		for _, f := range s.Members {
			names = append(names, f.Name)
		}
		if s.StringIndex != nil {
			return TString
		}
	case *Instance:
		for _, m := range s.Class.AllPublicMembers() {
			names = append(names, m.Name)
		}
	default:
		return TNever
	}
	if len(names) == 0 {
		return TNever
	}
	members := make([]Type, len(names))
	for i, n := range names {
		members[i] = &Literal{Kind: StringLiteral, Value: n}
	}
	return NewUnion(members...)
}

func (ex *Expander) expandIndexedAccess(ia *IndexedAccess) Type {
	obj := ex.Expand(ia.Object)
	idx := ex.Expand(ia.Index)
	if isNakedTypeParam(obj) || isNakedTypeParam(idx) {
		return &IndexedAccess{Object: obj, Index: idx}
	}
	if u, ok := idx.(*Union); ok {
		members := make([]Type, len(u.Members))
		for i, m := range u.Members {
			members[i] = ex.expandIndexedAccess(&IndexedAccess{Object: obj, Index: m})
		}
		return NewUnion(members...)
	}
	lit, ok := idx.(*Literal)
	if !ok {
		return TUnknown
	}
	fields, stringIdx, numberIdx, ok := fieldsOf(obj)
	if !ok {
		if arr, ok := obj.(*Array); ok && lit.Kind == NumberLiteral {
			return arr.Element
		}
		return TUnknown
	}
	name, _ := lit.Value.(string)
	if f, found := findField(fields, name); found {
		return f.Type
	}
	if idxT := indexFor(name, stringIdx, numberIdx); idxT != nil {
		return idxT
	}
	return TUnknown
}

func (ex *Expander) expandConditional(c *ConditionalType) Type {
	check := ex.Expand(c.Check)
	if isNakedTypeParam(check) {
		return &ConditionalType{Check: check, Extends: c.Extends, True: c.True, False: c.False}
	}
	if u, ok := check.(*Union); ok {
		members := make([]Type, len(u.Members))
		for i, m := range u.Members {
			members[i] = ex.expandConditional(&ConditionalType{Check: m, Extends: c.Extends, True: c.True, False: c.False})
		}
		return NewUnion(members...)
	}
	sub, matched := matchExtends(check, c.Extends)
	if matched {
		return ex.Expand(sub.apply(c.True))
	}
	return ex.Expand(c.False)
}

// matchExtends attempts to unify check against extends, binding any
// `infer U` sites found inside extends. Reports whether check is assignable
// to extends under that binding.
func matchExtends(check, extends Type) (*Substitution, bool) {
	sub := NewSubstitution()
	if bindInfer(check, extends, sub) {
		return sub, true
	}
	if IsCompatible(extends, check) {
		return sub, true
	}
	return sub, false
}

func bindInfer(check, extends Type, sub *Substitution) bool {
	switch e := extends.(type) {
	case *InferredTypeParameter:
		sub.Bind(e.Name, check)
		return true
	case *Array:
		if c, ok := check.(*Array); ok {
			return bindInfer(c.Element, e.Element, sub)
		}
		return false
	case *Promise:
		if c, ok := check.(*Promise); ok {
			return bindInfer(c.Value, e.Value, sub)
		}
		return false
	case *FuncType:
		c, ok := check.(*FuncType)
		if !ok {
			return false
		}
		return bindInfer(c.Return, e.Return, sub)
	default:
		return IsCompatible(extends, check)
	}
}

func (ex *Expander) expandMapped(m *MappedType) Type {
	constraint := ex.Expand(m.Constraint)
	if isNakedTypeParam(constraint) {
		return &MappedType{Param: m.Param, Constraint: constraint, Value: m.Value, Modifiers: m.Modifiers, AsClause: m.AsClause}
	}
	keys := keysOfType(constraint)
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		sub := NewSubstitution()
		sub.Bind(m.Param, &Literal{Kind: StringLiteral, Value: k})
		valueType := ex.Expand(sub.apply(m.Value))
		name := k
		if m.AsClause != nil {
			remapped := ex.Expand(sub.apply(m.AsClause))
			if lit, ok := remapped.(*Literal); ok {
				if s, ok := lit.Value.(string); ok {
					name = s
				}
			}
		}
		optional := m.HasModifier(AddOptional) && !m.HasModifier(RemoveOptional)
		fields = append(fields, Field{Name: name, Type: valueType, Readonly: m.HasModifier(AddReadonly), Optional: optional})
	}
	return &Record{Fields: fields}
}

func keysOfType(t Type) []string {
	switch v := t.(type) {
	case *Union:
		var out []string
		for _, m := range v.Members {
			out = append(out, keysOfType(m)...)
		}
		return out
	case *Literal:
		if s, ok := v.Value.(string); ok {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}

func (ex *Expander) expandTemplateLiteral(tl *TemplateLiteralType) Type {
	combos := [][]string{{""}}
	total := 1
	for _, p := range tl.Parts {
		if p.Type == nil {
			for i := range combos {
				combos[i][0] += p.Literal
			}
			continue
		}
		opts := templateOptionsFor(ex.Expand(p.Type))
		if len(opts) == 0 {
			if isNakedTypeParam(p.Type) {
				return tl
			}
			opts = []string{""}
		}
		total *= len(opts)
		if total > maxTemplateCombinations {
			ex.err = &TemplateLiteralLimitError{Combinations: total}
			return TNever
		}
		next := make([][]string, 0, len(combos)*len(opts))
		for _, c := range combos {
			for _, o := range opts {
				nc := make([]string, len(c))
				copy(nc, c)
				nc[0] += o
				next = append(next, nc)
			}
		}
		combos = next
	}
	members := make([]Type, len(combos))
	for i, c := range combos {
		members[i] = &Literal{Kind: StringLiteral, Value: c[0]}
	}
	return NewUnion(members...)
}

func templateOptionsFor(t Type) []string {
	switch v := t.(type) {
	case *Literal:
		switch v.Kind {
		case StringLiteral:
			return []string{v.Value.(string)}
		case NumberLiteral:
			return []string{strconv.FormatFloat(v.Value.(float64), 'g', -1, 64)}
		case BooleanLiteral:
			if v.Value.(bool) {
				return []string{"true"}
			}
			return []string{"false"}
		}
	case *Union:
		var out []string
		for _, m := range v.Members {
			out = append(out, templateOptionsFor(m)...)
		}
		return out
	case *Primitive:
		switch v.Kind {
		case String:
			return nil
		}
	}
	return nil
}
