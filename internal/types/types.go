// Package types implements the TypeInfo algebra: the closed set of type
// shapes the checker assigns to every expression, plus the operations
// (compatibility, expansion, substitution) that act on them.
package types

import (
	"fmt"
	"strings"
)

// Type is the common interface every TypeInfo variant implements. Variants
// are plain structs behind a marker method so a type switch is exhaustive
// over the set described in the data model.
type Type interface {
	String() string
	Equals(Type) bool
	// TypeKey returns a canonical string uniquely identifying this type for
	// use as a generic-instantiation cache key. Two structurally identical
	// types produce the same key regardless of construction path.
	TypeKey() string
	typeNode()
}

// Substitutable is implemented by every Type that can carry free type
// parameters and therefore participates in substitution.
type Substitutable interface {
	Type
	Substitute(*Substitution) Type
}

// Primitive is one of the built-in scalar kinds with no further structure.
type Primitive struct {
	Kind PrimitiveKind
}

type PrimitiveKind uint8

const (
	Number PrimitiveKind = iota
	String
	Boolean
	Symbol
	BigInt
	Void
	Null
	Undefined
	Any
	Unknown
	Never
)

func (k PrimitiveKind) String() string {
	switch k {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Symbol:
		return "symbol"
	case BigInt:
		return "bigint"
	case Void:
		return "void"
	case Null:
		return "null"
	case Undefined:
		return "undefined"
	case Any:
		return "any"
	case Unknown:
		return "unknown"
	case Never:
		return "never"
	default:
		return "<bad-primitive>"
	}
}

func (t *Primitive) typeNode()        {}
func (t *Primitive) String() string   { return t.Kind.String() }
func (t *Primitive) TypeKey() string  { return "prim:" + t.Kind.String() }
func (t *Primitive) Equals(o Type) bool {
	p, ok := o.(*Primitive)
	return ok && p.Kind == t.Kind
}
func (t *Primitive) Substitute(*Substitution) Type { return t }

// Shared instances for the primitives; every call site can reuse these
// rather than allocate, which also makes pointer comparison a valid fast
// path before falling back to Equals.
var (
	TNumber    = &Primitive{Kind: Number}
	TString    = &Primitive{Kind: String}
	TBoolean   = &Primitive{Kind: Boolean}
	TSymbol    = &Primitive{Kind: Symbol}
	TBigInt    = &Primitive{Kind: BigInt}
	TVoid      = &Primitive{Kind: Void}
	TNull      = &Primitive{Kind: Null}
	TUndefined = &Primitive{Kind: Undefined}
	TAny       = &Primitive{Kind: Any}
	TUnknown   = &Primitive{Kind: Unknown}
	TNever     = &Primitive{Kind: Never}
)

// LiteralKind distinguishes the three literal-typed variants.
type LiteralKind uint8

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BooleanLiteral
)

// Literal is a single-value type such as `"a"`, `5`, or `true`.
type Literal struct {
	Kind LiteralKind
	// Value holds a string, float64, or bool depending on Kind.
	Value interface{}
}

func (t *Literal) typeNode() {}
func (t *Literal) String() string {
	switch t.Kind {
	case StringLiteral:
		return fmt.Sprintf("%q", t.Value)
	default:
		return fmt.Sprintf("%v", t.Value)
	}
}
func (t *Literal) TypeKey() string { return fmt.Sprintf("lit:%d:%v", t.Kind, t.Value) }
func (t *Literal) Equals(o Type) bool {
	l, ok := o.(*Literal)
	return ok && l.Kind == t.Kind && l.Value == t.Value
}
func (t *Literal) Substitute(*Substitution) Type { return t }

// Widen returns the primitive a literal type widens to in a contextually
// typed position (`"a"` -> `string`).
func (t *Literal) Widen() Type {
	switch t.Kind {
	case StringLiteral:
		return TString
	case NumberLiteral:
		return TNumber
	case BooleanLiteral:
		return TBoolean
	default:
		return TAny
	}
}

// Array is a homogeneous, covariant element-type array.
type Array struct {
	Element Type
}

func (t *Array) typeNode()       {}
func (t *Array) String() string  { return elemString(t.Element) + "[]" }
func (t *Array) TypeKey() string { return "array:" + t.Element.TypeKey() }
func (t *Array) Equals(o Type) bool {
	a, ok := o.(*Array)
	return ok && a.Element.Equals(t.Element)
}
func (t *Array) Substitute(s *Substitution) Type {
	return &Array{Element: s.apply(t.Element)}
}

func elemString(t Type) string {
	switch t.(type) {
	case *Union, *Intersection, *ConditionalType, *FuncType:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

// TupleElementKind distinguishes required/optional/spread tuple positions.
type TupleElementKind uint8

const (
	Required TupleElementKind = iota
	Optional
	Spread
)

// TupleElement is one position inside a Tuple.
type TupleElement struct {
	Type Type
	Kind TupleElementKind
	Name string // optional, for named tuple members
}

func (e TupleElement) String() string {
	s := e.Type.String()
	switch e.Kind {
	case Optional:
		s += "?"
	case Spread:
		s = "..." + s
	}
	if e.Name != "" {
		prefix := e.Name
		if e.Kind == Optional {
			prefix += "?"
		}
		s = prefix + ": " + e.Type.String()
	}
	return s
}

// Tuple is a fixed-or-variadic positional sequence.
type Tuple struct {
	Elements      []TupleElement
	RequiredCount int
	HasSpread     bool
}

func (t *Tuple) typeNode() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t *Tuple) TypeKey() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = fmt.Sprintf("%d:%s", e.Kind, e.Type.TypeKey())
	}
	return "tuple:[" + strings.Join(parts, ",") + "]"
}
func (t *Tuple) Equals(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(ot.Elements) != len(t.Elements) {
		return false
	}
	for i := range t.Elements {
		if t.Elements[i].Kind != ot.Elements[i].Kind || !t.Elements[i].Type.Equals(ot.Elements[i].Type) {
			return false
		}
	}
	return true
}
func (t *Tuple) Substitute(s *Substitution) Type {
	return substituteTuple(t, s)
}

// Field is one member of a Record or Interface.
type Field struct {
	Name     string
	Type     Type
	Readonly bool
	Optional bool
}

// Record is a structural object type; index signatures stand in for
// unlisted keys.
type Record struct {
	Fields      []Field
	StringIndex Type // optional index signature value type, nil if absent
	NumberIndex Type
	SymbolIndex Type
}

func (t *Record) typeNode() {}
func (t *Record) String() string {
	if len(t.Fields) == 0 && t.StringIndex == nil && t.NumberIndex == nil {
		return "{}"
	}
	parts := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		ro := ""
		if f.Readonly {
			ro = "readonly "
		}
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s%s: %s", ro, f.Name, opt, f.Type.String()))
	}
	if t.StringIndex != nil {
		parts = append(parts, "[key: string]: "+t.StringIndex.String())
	}
	if t.NumberIndex != nil {
		parts = append(parts, "[key: number]: "+t.NumberIndex.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
func (t *Record) TypeKey() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ":" + f.Type.TypeKey()
	}
	return "record:{" + strings.Join(parts, ",") + "}"
}
func (t *Record) Equals(o Type) bool {
	r, ok := o.(*Record)
	if !ok || len(r.Fields) != len(t.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i].Name != r.Fields[i].Name || !t.Fields[i].Type.Equals(r.Fields[i].Type) {
			return false
		}
	}
	return true
}
func (t *Record) Substitute(s *Substitution) Type {
	fields := make([]Field, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = Field{Name: f.Name, Type: s.apply(f.Type), Readonly: f.Readonly, Optional: f.Optional}
	}
	r := &Record{Fields: fields}
	if t.StringIndex != nil {
		r.StringIndex = s.apply(t.StringIndex)
	}
	if t.NumberIndex != nil {
		r.NumberIndex = s.apply(t.NumberIndex)
	}
	if t.SymbolIndex != nil {
		r.SymbolIndex = s.apply(t.SymbolIndex)
	}
	return r
}

// Interface is a named structural type; unlike Record it tracks which
// members are optional.
type Interface struct {
	Name        string
	TypeParams  []*TypeParameter
	Extends     []Type
	Members     []Field
	Optional    map[string]bool
	StringIndex Type
	NumberIndex Type
	SymbolIndex Type
}

func (t *Interface) typeNode()       {}
func (t *Interface) String() string  { return t.Name }
func (t *Interface) TypeKey() string { return "iface:" + t.Name }
func (t *Interface) Equals(o Type) bool {
	i, ok := o.(*Interface)
	return ok && i.Name == t.Name
}
func (t *Interface) Substitute(s *Substitution) Type {
	if len(t.TypeParams) == 0 {
		return t
	}
	members := make([]Field, len(t.Members))
	for i, m := range t.Members {
		members[i] = Field{Name: m.Name, Type: s.apply(m.Type), Readonly: m.Readonly}
	}
	return &Interface{Name: t.Name, TypeParams: t.TypeParams, Extends: t.Extends, Members: members, Optional: t.Optional}
}

// IsRequired reports whether member name is required on this interface.
func (t *Interface) IsRequired(name string) bool {
	return !t.Optional[name]
}
