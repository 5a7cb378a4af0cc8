package types

// Access is the declared visibility of a class field or method.
type Access uint8

const (
	Public Access = iota
	Protected
	Private
)

// Member is one field or method collected during class elaboration.
type Member struct {
	Name     string
	Type     Type
	Access   Access
	Readonly bool
	Static   bool
	Abstract bool
	Override bool
}

// Class is a nominal type frozen from a MutableClass once elaboration
// completes. Structural shapes (Record/Interface) are compatible with an
// Instance(Class) only through its public surface.
type Class struct {
	Name            string
	Superclass      *Class
	TypeParams      []*TypeParameter
	Fields          []Member
	Methods         []Member
	Getters         []Member
	Setters         []Member
	AbstractMethods []Member
	AbstractGetters []Member
	AbstractSetters []Member
	IsAbstract      bool
	Implements      []*Interface
}

func (c *Class) typeNode()       {}
func (c *Class) String() string  { return c.Name }
func (c *Class) TypeKey() string { return "class:" + c.Name }
func (c *Class) Equals(o Type) bool {
	oc, ok := o.(*Class)
	return ok && oc.Name == c.Name
}
func (c *Class) Substitute(s *Substitution) Type {
	if len(c.TypeParams) == 0 {
		return c
	}
	return &Class{
		Name:            c.Name,
		Superclass:      c.Superclass,
		TypeParams:      c.TypeParams,
		Fields:          substituteMembers(c.Fields, s),
		Methods:         substituteMembers(c.Methods, s),
		Getters:         substituteMembers(c.Getters, s),
		Setters:         substituteMembers(c.Setters, s),
		AbstractMethods: substituteMembers(c.AbstractMethods, s),
		AbstractGetters: substituteMembers(c.AbstractGetters, s),
		AbstractSetters: substituteMembers(c.AbstractSetters, s),
		IsAbstract:      c.IsAbstract,
		Implements:      c.Implements,
	}
}

func substituteMembers(members []Member, s *Substitution) []Member {
	if len(members) == 0 {
		return nil
	}
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = Member{
			Name:     m.Name,
			Type:     s.apply(m.Type),
			Access:   m.Access,
			Readonly: m.Readonly,
			Static:   m.Static,
			Abstract: m.Abstract,
			Override: m.Override,
		}
	}
	return out
}

// AllPublicMembers walks the superclass chain and returns every public
// field/method/getter visible on an instance, used when checking structural
// compatibility of an Instance against a Record/Interface shape.
func (c *Class) AllPublicMembers() []Member {
	var out []Member
	seen := map[string]bool{}
	for cur := c; cur != nil; cur = cur.Superclass {
		for _, groups := range [][]Member{cur.Fields, cur.Methods, cur.Getters} {
			for _, m := range groups {
				if m.Access != Public || seen[m.Name] {
					continue
				}
				seen[m.Name] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// IsSubclassOf reports whether c is the same class as, or a descendant of,
// target, walking the superclass chain.
func (c *Class) IsSubclassOf(target *Class) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur.Name == target.Name {
			return true
		}
	}
	return false
}

// FindOverridable locates a member of the given name on an ancestor (not on
// c itself), used to validate `override`.
func (c *Class) FindOverridable(name string) (Member, bool) {
	if c.Superclass == nil {
		return Member{}, false
	}
	for cur := c.Superclass; cur != nil; cur = cur.Superclass {
		for _, groups := range [][]Member{cur.Methods, cur.Getters, cur.Setters} {
			for _, m := range groups {
				if m.Name == name {
					return m, true
				}
			}
		}
	}
	return Member{}, false
}

// MutableClass is the scratch representation used while a class declaration
// is being elaborated; it becomes a Class only once elaboration succeeds.
type MutableClass struct {
	Name       string
	Superclass *Class
	TypeParams []*TypeParameter
	Implements []*Interface
	IsAbstract bool
	Fields     []Member
	Methods    []Member
	Getters    []Member
	Setters    []Member
}

// Freeze converts elaboration scratch state into an immutable Class. Called
// once member collection, override validation, and interface-satisfaction
// checks have all passed.
func (m *MutableClass) Freeze() *Class {
	c := &Class{
		Name:       m.Name,
		Superclass: m.Superclass,
		TypeParams: m.TypeParams,
		Fields:     m.Fields,
		Methods:    m.Methods,
		Getters:    m.Getters,
		Setters:    m.Setters,
		IsAbstract: m.IsAbstract,
		Implements: m.Implements,
	}
	for _, grp := range [][]Member{m.Methods, m.Getters, m.Setters} {
		for _, mem := range grp {
			if !mem.Abstract {
				continue
			}
			switch {
			case contains(m.Getters, mem.Name):
				c.AbstractGetters = append(c.AbstractGetters, mem)
			case contains(m.Setters, mem.Name):
				c.AbstractSetters = append(c.AbstractSetters, mem)
			default:
				c.AbstractMethods = append(c.AbstractMethods, mem)
			}
		}
	}
	return c
}

func contains(members []Member, name string) bool {
	for _, m := range members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Instance is the type of a value produced by `new C(...)`.
type Instance struct {
	Class *Class
}

func (t *Instance) typeNode()       {}
func (t *Instance) String() string  { return t.Class.Name }
func (t *Instance) TypeKey() string { return "instance:" + t.Class.Name }
func (t *Instance) Equals(o Type) bool {
	i, ok := o.(*Instance)
	return ok && i.Class.Name == t.Class.Name
}
func (t *Instance) Substitute(s *Substitution) Type {
	return &Instance{Class: t.Class.Substitute(s).(*Class)}
}

// Enum is a nominal grouping of constant members.
type EnumKind uint8

const (
	NumericEnum EnumKind = iota
	StringEnum
	HeterogeneousEnum
)

type EnumMember struct {
	Name  string
	Value interface{}
}

type Enum struct {
	Name       string
	Kind       EnumKind
	Members    []EnumMember
	ReverseMap map[interface{}]string
	IsConst    bool
}

func (t *Enum) typeNode()       {}
func (t *Enum) String() string  { return t.Name }
func (t *Enum) TypeKey() string { return "enum:" + t.Name }
func (t *Enum) Equals(o Type) bool {
	e, ok := o.(*Enum)
	return ok && e.Name == t.Name
}
func (t *Enum) Substitute(*Substitution) Type { return t }

// MemberNames returns a stable, declaration-order list of this enum's member
// names, used when rendering reverse-mapping diagnostics.
func (t *Enum) MemberNames() []string {
	names := make([]string, len(t.Members))
	for i, m := range t.Members {
		names[i] = m.Name
	}
	return names
}
