package ast

import (
	"fmt"
	"strings"
)

// This file holds the concrete node set of the type-annotation sub-grammar:
// the AST-level representation of a type expression, produced by the
// parser before the checker ever resolves it into a types.TypeInfo.

// TypeRef is a named type reference, optionally generic (`Foo<A, B>`) and
// optionally a dotted qualified name (`NS.Foo`).
type TypeRef struct {
	base
	Name     string
	Args     []TypeNode
}

func (*TypeRef) typeNode() {}
func (t *TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

// LiteralTypeKind mirrors LiteralKind for the subset usable as a type.
type LiteralTypeKind int

const (
	LitTypeString LiteralTypeKind = iota
	LitTypeNumber
	LitTypeBool
)

// LiteralTypeNode is a string/number/boolean literal used as a type.
type LiteralTypeNode struct {
	base
	Kind        LiteralTypeKind
	StringValue string
	NumberValue float64
	BoolValue   bool
}

func (*LiteralTypeNode) typeNode() {}
func (l *LiteralTypeNode) String() string {
	switch l.Kind {
	case LitTypeString:
		return fmt.Sprintf("%q", l.StringValue)
	case LitTypeNumber:
		return fmt.Sprintf("%g", l.NumberValue)
	default:
		return fmt.Sprintf("%v", l.BoolValue)
	}
}

// UnionTypeNode is `A | B | C`.
type UnionTypeNode struct {
	base
	Members []TypeNode
}

func (*UnionTypeNode) typeNode() {}
func (u *UnionTypeNode) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// IntersectionTypeNode is `A & B & C`.
type IntersectionTypeNode struct {
	base
	Members []TypeNode
}

func (*IntersectionTypeNode) typeNode() {}
func (i *IntersectionTypeNode) String() string {
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		parts[idx] = m.String()
	}
	return strings.Join(parts, " & ")
}

// ArrayTypeNode is the postfix `T[]` form.
type ArrayTypeNode struct {
	base
	Element TypeNode
}

func (*ArrayTypeNode) typeNode()        {}
func (a *ArrayTypeNode) String() string { return a.Element.String() + "[]" }

// IndexedAccessTypeNode is `T[K]`.
type IndexedAccessTypeNode struct {
	base
	Object TypeNode
	Index  TypeNode
}

func (*IndexedAccessTypeNode) typeNode() {}
func (i *IndexedAccessTypeNode) String() string {
	return fmt.Sprintf("%s[%s]", i.Object, i.Index)
}

// TupleElementKind distinguishes required/optional/spread tuple elements.
type TupleElementKind int

const (
	TupleElemRequired TupleElementKind = iota
	TupleElemOptional
	TupleElemSpread
)

// TupleElementNode is one element of a tuple type.
type TupleElementNode struct {
	Name string // optional label
	Type TypeNode
	Kind TupleElementKind
}

// TupleTypeNode is `[E1, E2?, ...E3]`.
type TupleTypeNode struct {
	base
	Elements []TupleElementNode
}

func (*TupleTypeNode) typeNode() {}
func (t *TupleTypeNode) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		switch e.Kind {
		case TupleElemOptional:
			parts[i] = e.Type.String() + "?"
		case TupleElemSpread:
			parts[i] = "..." + e.Type.String()
		default:
			parts[i] = e.Type.String()
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// ObjectTypeMember is one member of an object-type literal.
type ObjectTypeMember struct {
	Name        string
	Computed    TypeNode // for `[K in ...]`-style mapped members, unused on plain members
	Optional    bool
	Readonly    bool
	Params      []*Param // method-signature members
	ReturnType  TypeNode
	FieldType   TypeNode
	StringIndex TypeNode
	NumberIndex TypeNode
	SymbolIndex TypeNode
}

// ObjectTypeNode is a `{ ... }` type literal; when Mapped is non-nil it is a
// mapped type, recognized by a lookahead that sees `[ident in`.
type ObjectTypeNode struct {
	base
	Members []ObjectTypeMember
	Mapped  *MappedTypeNode
}

func (*ObjectTypeNode) typeNode() {}
func (o *ObjectTypeNode) String() string {
	if o.Mapped != nil {
		return o.Mapped.String()
	}
	parts := make([]string, len(o.Members))
	for i, m := range o.Members {
		parts[i] = m.Name
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// MappedTypeModifier distinguishes `+?`/`-?` on a mapped type; readonly
// modifiers are carried by MappedTypeNode's ReadonlyAdd/ReadonlyRemove.
type MappedTypeModifier int

const (
	ModifierNone MappedTypeModifier = iota
	ModifierAddOptional
	ModifierRemoveOptional
)

// MappedTypeNode is `{ [K in Constraint]: Value }`, optionally `as NameType`.
type MappedTypeNode struct {
	Param            string
	Constraint       TypeNode
	Value            TypeNode
	OptionalModifier MappedTypeModifier
	ReadonlyAdd      bool
	ReadonlyRemove   bool
	AsClause         TypeNode // optional `as` re-keying clause
}

func (m *MappedTypeNode) String() string {
	return fmt.Sprintf("{ [%s in %s]: %s }", m.Param, m.Constraint, m.Value)
}

// FuncTypeNode is `(params) => T`.
type FuncTypeNode struct {
	base
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeNode
}

func (*FuncTypeNode) typeNode() {}
func (f *FuncTypeNode) String() string { return fmt.Sprintf("(...) => %s", f.Return) }

// TypeofTypeNode is `typeof x(.id|[idx])*`.
type TypeofTypeNode struct {
	base
	Expr Expr
}

func (*TypeofTypeNode) typeNode()        {}
func (t *TypeofTypeNode) String() string { return "typeof " + t.Expr.String() }

// KeyofTypeNode is `keyof T`.
type KeyofTypeNode struct {
	base
	Operand TypeNode
}

func (*KeyofTypeNode) typeNode()        {}
func (k *KeyofTypeNode) String() string { return "keyof " + k.Operand.String() }

// InferTypeNode is `infer U` inside a conditional type's extends clause.
type InferTypeNode struct {
	base
	Name string
}

func (*InferTypeNode) typeNode()        {}
func (i *InferTypeNode) String() string { return "infer " + i.Name }

// UniqueSymbolTypeNode is `unique symbol`.
type UniqueSymbolTypeNode struct{ base }

func (*UniqueSymbolTypeNode) typeNode()        {}
func (*UniqueSymbolTypeNode) String() string   { return "unique symbol" }

// ConditionalTypeNode is `Check extends Extends ? True : False`, the
// loosest-binding form in the type-annotation grammar.
type ConditionalTypeNode struct {
	base
	Check   TypeNode
	Extends TypeNode
	True    TypeNode
	False   TypeNode
}

func (*ConditionalTypeNode) typeNode() {}
func (c *ConditionalTypeNode) String() string {
	return fmt.Sprintf("%s extends %s ? %s : %s", c.Check, c.Extends, c.True, c.False)
}

// TemplateLiteralTypePart is either a literal chunk or an interpolated type.
type TemplateLiteralTypePart struct {
	Literal string
	Type    TypeNode // nil for a literal-only part
}

// TemplateLiteralTypeNode is a template-literal type (`` `prefix-${T}-suffix` ``).
type TemplateLiteralTypeNode struct {
	base
	Parts []TemplateLiteralTypePart
}

func (*TemplateLiteralTypeNode) typeNode() {}
func (t *TemplateLiteralTypeNode) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for _, p := range t.Parts {
		if p.Type != nil {
			sb.WriteString("${" + p.Type.String() + "}")
		} else {
			sb.WriteString(p.Literal)
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

// ParenTypeNode is a parenthesized type, kept distinct so the precedence
// climber in parser_type.go can round-trip grouping for the printer.
type ParenTypeNode struct {
	base
	Inner TypeNode
}

func (*ParenTypeNode) typeNode()        {}
func (p *ParenTypeNode) String() string { return "(" + p.Inner.String() + ")" }
