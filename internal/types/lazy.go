package types

import "strings"

// Union stores flattened members: no member is itself a Union, singleton
// unions collapse to the member at construction time, and `never` members
// are dropped (never is the identity element for union).
type Union struct {
	Members []Type
}

// NewUnion flattens nested unions, drops `never`, and collapses a singleton
// result to its bare member.
func NewUnion(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if u, ok := m.(*Union); ok {
			flat = append(flat, u.Members...)
			continue
		}
		if p, ok := m.(*Primitive); ok && p.Kind == Never {
			continue
		}
		flat = append(flat, m)
	}
	flat = dedupeTypes(flat)
	if len(flat) == 0 {
		return TNever
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Union{Members: flat}
}

func dedupeTypes(ts []Type) []Type {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		dup := false
		for _, o := range out {
			if t.Equals(o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

func (t *Union) typeNode() {}
func (t *Union) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = elemStringFor(m, "|")
	}
	return strings.Join(parts, " | ")
}
func (t *Union) TypeKey() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.TypeKey()
	}
	return "union:[" + strings.Join(parts, "|") + "]"
}
func (t *Union) Equals(o Type) bool {
	u, ok := o.(*Union)
	if !ok || len(u.Members) != len(t.Members) {
		return false
	}
	for _, m := range t.Members {
		found := false
		for _, om := range u.Members {
			if m.Equals(om) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
func (t *Union) Substitute(s *Substitution) Type {
	members := make([]Type, len(t.Members))
	for i, m := range t.Members {
		members[i] = s.apply(m)
	}
	return NewUnion(members...)
}

func elemStringFor(t Type, joiner string) string {
	switch t.(type) {
	case *FuncType, *ConditionalType:
		return "(" + t.String() + ")"
	case *Intersection:
		if joiner == "|" {
			return "(" + t.String() + ")"
		}
	}
	return t.String()
}

// Intersection stores flattened members; `never` annihilates (the whole
// intersection becomes never).
type Intersection struct {
	Members []Type
}

// NewIntersection flattens nested intersections and applies the `never`
// annihilation rule.
func NewIntersection(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if p, ok := m.(*Primitive); ok && p.Kind == Never {
			return TNever
		}
		if i, ok := m.(*Intersection); ok {
			flat = append(flat, i.Members...)
			continue
		}
		flat = append(flat, m)
	}
	flat = dedupeTypes(flat)
	if len(flat) == 0 {
		return TUnknown
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Intersection{Members: flat}
}

func (t *Intersection) typeNode() {}
func (t *Intersection) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = elemStringFor(m, "&")
	}
	return strings.Join(parts, " & ")
}
func (t *Intersection) TypeKey() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.TypeKey()
	}
	return "intersection:[" + strings.Join(parts, "&") + "]"
}
func (t *Intersection) Equals(o Type) bool {
	i, ok := o.(*Intersection)
	if !ok || len(i.Members) != len(t.Members) {
		return false
	}
	for _, m := range t.Members {
		found := false
		for _, om := range i.Members {
			if m.Equals(om) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
func (t *Intersection) Substitute(s *Substitution) Type {
	members := make([]Type, len(t.Members))
	for i, m := range t.Members {
		members[i] = s.apply(m)
	}
	return NewIntersection(members...)
}

// KeyOf is the lazy `keyof T` form, expanded to a union of string-literal
// types on demand.
type KeyOf struct {
	Source Type
}

func (t *KeyOf) typeNode()       {}
func (t *KeyOf) String() string  { return "keyof " + t.Source.String() }
func (t *KeyOf) TypeKey() string { return "keyof:" + t.Source.TypeKey() }
func (t *KeyOf) Equals(o Type) bool {
	k, ok := o.(*KeyOf)
	return ok && k.Source.Equals(t.Source)
}
func (t *KeyOf) Substitute(s *Substitution) Type {
	return &KeyOf{Source: s.apply(t.Source)}
}

// IndexedAccess is the lazy `T[K]` form.
type IndexedAccess struct {
	Object Type
	Index  Type
}

func (t *IndexedAccess) typeNode()      {}
func (t *IndexedAccess) String() string { return t.Object.String() + "[" + t.Index.String() + "]" }
func (t *IndexedAccess) TypeKey() string {
	return "indexed:" + t.Object.TypeKey() + "[" + t.Index.TypeKey() + "]"
}
func (t *IndexedAccess) Equals(o Type) bool {
	i, ok := o.(*IndexedAccess)
	return ok && i.Object.Equals(t.Object) && i.Index.Equals(t.Index)
}
func (t *IndexedAccess) Substitute(s *Substitution) Type {
	return &IndexedAccess{Object: s.apply(t.Object), Index: s.apply(t.Index)}
}

// ConditionalType is `Check extends Extends ? True : False`; `infer` binding
// sites inside Extends are resolved by expansion, not substitution.
type ConditionalType struct {
	Check   Type
	Extends Type
	True    Type
	False   Type
}

func (t *ConditionalType) typeNode() {}
func (t *ConditionalType) String() string {
	return t.Check.String() + " extends " + t.Extends.String() + " ? " + t.True.String() + " : " + t.False.String()
}
func (t *ConditionalType) TypeKey() string {
	return "cond:" + t.Check.TypeKey() + ":" + t.Extends.TypeKey() + ":" + t.True.TypeKey() + ":" + t.False.TypeKey()
}
func (t *ConditionalType) Equals(o Type) bool {
	c, ok := o.(*ConditionalType)
	return ok && c.Check.Equals(t.Check) && c.Extends.Equals(t.Extends) && c.True.Equals(t.True) && c.False.Equals(t.False)
}
func (t *ConditionalType) Substitute(s *Substitution) Type {
	return &ConditionalType{
		Check:   s.apply(t.Check),
		Extends: s.apply(t.Extends),
		True:    s.apply(t.True),
		False:   s.apply(t.False),
	}
}

// MappedModifier is the per-mapped-type +/-readonly/optional adjustment.
type MappedModifier uint8

const (
	NoModifier MappedModifier = iota
	AddOptional
	RemoveOptional
	AddReadonly
	RemoveReadonly
)

// MappedType is `{ [K in Constraint]: Value }`, optionally remapped via
// `as Clause`.
type MappedType struct {
	Param      string
	Constraint Type
	Value      Type
	Modifiers  []MappedModifier
	AsClause   Type // nil if no `as` remapping
}

func (t *MappedType) typeNode() {}
func (t *MappedType) String() string {
	return "{ [" + t.Param + " in " + t.Constraint.String() + "]: " + t.Value.String() + " }"
}
func (t *MappedType) TypeKey() string {
	return "mapped:" + t.Param + ":" + t.Constraint.TypeKey() + ":" + t.Value.TypeKey()
}
func (t *MappedType) Equals(o Type) bool {
	m, ok := o.(*MappedType)
	return ok && m.Param == t.Param && m.Constraint.Equals(t.Constraint) && m.Value.Equals(t.Value)
}
func (t *MappedType) Substitute(s *Substitution) Type {
	return &MappedType{
		Param:      t.Param,
		Constraint: s.apply(t.Constraint),
		Value:      s.apply(t.Value),
		Modifiers:  t.Modifiers,
		AsClause:   t.AsClause,
	}
}

// HasModifier reports whether m is present in the mapped type's modifier
// list.
func (t *MappedType) HasModifier(m MappedModifier) bool {
	for _, x := range t.Modifiers {
		if x == m {
			return true
		}
	}
	return false
}

// TemplateLiteralPart is either a literal string span or an interpolated
// type.
type TemplateLiteralPart struct {
	Literal string
	Type    Type // nil when this part is a literal span
}

// TemplateLiteralType is a template-literal type such as `` `hello ${T}` ``.
type TemplateLiteralType struct {
	Parts []TemplateLiteralPart
}

func (t *TemplateLiteralType) typeNode() {}
func (t *TemplateLiteralType) String() string {
	var b strings.Builder
	b.WriteByte('`')
	for _, p := range t.Parts {
		if p.Type != nil {
			b.WriteString("${" + p.Type.String() + "}")
		} else {
			b.WriteString(p.Literal)
		}
	}
	b.WriteByte('`')
	return b.String()
}
func (t *TemplateLiteralType) TypeKey() string {
	parts := make([]string, len(t.Parts))
	for i, p := range t.Parts {
		if p.Type != nil {
			parts[i] = "$" + p.Type.TypeKey()
		} else {
			parts[i] = p.Literal
		}
	}
	return "tmpl:[" + strings.Join(parts, "") + "]"
}
func (t *TemplateLiteralType) Equals(o Type) bool {
	return t.TypeKey() == o.TypeKey()
}
func (t *TemplateLiteralType) Substitute(s *Substitution) Type {
	parts := make([]TemplateLiteralPart, len(t.Parts))
	for i, p := range t.Parts {
		if p.Type != nil {
			parts[i] = TemplateLiteralPart{Type: s.apply(p.Type)}
		} else {
			parts[i] = p
		}
	}
	return &TemplateLiteralType{Parts: parts}
}

// SpreadType wraps a tuple-typed type parameter inside a tuple position; it
// is flattened away during substitution once the parameter resolves to a
// concrete tuple (see substituteTuple in substitution.go).
type SpreadType struct {
	Inner Type
}

func (t *SpreadType) typeNode()       {}
func (t *SpreadType) String() string  { return "..." + t.Inner.String() }
func (t *SpreadType) TypeKey() string { return "spread:" + t.Inner.TypeKey() }
func (t *SpreadType) Equals(o Type) bool {
	sp, ok := o.(*SpreadType)
	return ok && sp.Inner.Equals(t.Inner)
}
func (t *SpreadType) Substitute(s *Substitution) Type {
	return &SpreadType{Inner: s.apply(t.Inner)}
}

// Promise is the awaitable wrapper type.
type Promise struct {
	Value Type
}

func (t *Promise) typeNode()       {}
func (t *Promise) String() string  { return "Promise<" + t.Value.String() + ">" }
func (t *Promise) TypeKey() string { return "promise:" + t.Value.TypeKey() }
func (t *Promise) Equals(o Type) bool {
	p, ok := o.(*Promise)
	return ok && p.Value.Equals(t.Value)
}
func (t *Promise) Substitute(s *Substitution) Type {
	return &Promise{Value: s.apply(t.Value)}
}
