package types

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// utilityName reports whether t is a builtin utility-type application and,
// if so, its name. Utility types are recognized by construction: the
// checker builds an *InstantiatedGeneric whose Def is one of the sentinel
// GenericDef values below when it sees `Partial<T>` etc. in source.
func utilityName(t Type) (string, bool) {
	ig, ok := t.(*InstantiatedGeneric)
	if !ok {
		return "", false
	}
	u, ok := ig.Def.(*utilityDef)
	if !ok {
		return "", false
	}
	return u.name, true
}

// utilityDef is a marker GenericDef identifying one of the builtin utility
// types; it carries no body of its own since expandUtility computes the
// result directly rather than through substitution.
type utilityDef struct {
	name   string
	params []*TypeParameter
}

func (u *utilityDef) typeNode()                    {}
func (u *utilityDef) String() string               { return u.name }
func (u *utilityDef) TypeKey() string               { return "utility:" + u.name }
func (u *utilityDef) Equals(o Type) bool            { d, ok := o.(*utilityDef); return ok && d.name == u.name }
func (u *utilityDef) Substitute(*Substitution) Type { return u }
func (u *utilityDef) Params() []*TypeParameter      { return u.params }

var utilityDefs = map[string]*utilityDef{}

func utilityDefFor(name string, arity int) *utilityDef {
	if d, ok := utilityDefs[name]; ok {
		return d
	}
	params := make([]*TypeParameter, arity)
	names := []string{"T", "K", "U", "V"}
	for i := range params {
		n := "T"
		if i < len(names) {
			n = names[i]
		}
		params[i] = &TypeParameter{Name: n}
	}
	d := &utilityDef{name: name, params: params}
	utilityDefs[name] = d
	return d
}

// NewUtilityType constructs the InstantiatedGeneric the checker uses to
// represent a reference to a builtin utility type with the given arguments.
func NewUtilityType(name string, args ...Type) Type {
	return &InstantiatedGeneric{Def: utilityDefFor(name, len(args)), Args: args}
}

// expandUtility computes the result of a builtin utility type application.
// When the relevant argument is a naked type parameter, it returns a
// MappedType or ConditionalType wrapper to preserve laziness rather than
// eagerly computing a wrong answer.
func (ex *Expander) expandUtility(name string, t Type) (Type, bool) {
	ig := t.(*InstantiatedGeneric)
	args := make([]Type, len(ig.Args))
	for i, a := range ig.Args {
		args[i] = ex.Expand(a)
	}
	if len(args) == 0 {
		return TAny, true
	}
	subject := args[0]

	switch name {
	case "Partial":
		if isNakedTypeParam(subject) {
			return lazyModifiedMapped(subject, AddOptional), true
		}
		return mapFields(subject, func(f Field) Field { f.Optional = true; return f }), true
	case "Required":
		if isNakedTypeParam(subject) {
			return lazyModifiedMapped(subject, RemoveOptional), true
		}
		return mapFields(subject, func(f Field) Field { f.Optional = false; return f }), true
	case "Readonly":
		if isNakedTypeParam(subject) {
			return lazyModifiedMapped(subject, AddReadonly), true
		}
		return mapFields(subject, func(f Field) Field { f.Readonly = true; return f }), true
	case "Record":
		if len(args) < 2 {
			return TAny, true
		}
		return buildRecordUtility(args[0], args[1]), true
	case "Pick":
		if len(args) < 2 {
			return TAny, true
		}
		names := keysOfType(args[1])
		return pickFields(subject, names, true), true
	case "Omit":
		if len(args) < 2 {
			return TAny, true
		}
		names := keysOfType(args[1])
		return pickFields(subject, names, false), true
	case "ReturnType":
		return returnTypeOf(subject), true
	case "Parameters":
		return parametersOf(subject), true
	case "ConstructorParameters":
		return constructorParametersOf(subject), true
	case "InstanceType":
		if c, ok := subject.(*Class); ok {
			return &Instance{Class: c}, true
		}
		return TAny, true
	case "Awaited":
		return unwrapPromise(subject), true
	case "NonNullable":
		return stripNullish(subject), true
	case "Extract":
		if len(args) < 2 {
			return subject, true
		}
		return filterUnion(subject, args[1], true), true
	case "Exclude":
		if len(args) < 2 {
			return subject, true
		}
		return filterUnion(subject, args[1], false), true
	case "Uppercase", "Lowercase", "Capitalize", "Uncapitalize":
		return caseTransform(name, subject), true
	default:
		return nil, false
	}
}

func lazyModifiedMapped(param Type, mod MappedModifier) Type {
	return &MappedType{
		Param:      "K",
		Constraint: &KeyOf{Source: param},
		Value:      &IndexedAccess{Object: param, Index: &TypeParameter{Name: "K"}},
		Modifiers:  []MappedModifier{mod},
	}
}

func mapFields(t Type, transform func(Field) Field) Type {
	fields, stringIdx, numberIdx, ok := fieldsOf(t)
	if !ok {
		return t
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = transform(f)
	}
	r := &Record{Fields: out, StringIndex: stringIdx, NumberIndex: numberIdx}
	return r
}

func pickFields(t Type, names []string, keep bool) Type {
	fields, stringIdx, numberIdx, ok := fieldsOf(t)
	if !ok {
		return t
	}
	in := func(n string) bool {
		for _, x := range names {
			if x == n {
				return true
			}
		}
		return false
	}
	var out []Field
	for _, f := range fields {
		if in(f.Name) == keep {
			out = append(out, f)
		}
	}
	return &Record{Fields: out, StringIndex: stringIdx, NumberIndex: numberIdx}
}

func buildRecordUtility(keys, value Type) Type {
	names := keysOfType(keys)
	if len(names) == 0 {
		idx := value
		if p, ok := keys.(*Primitive); ok && (p.Kind == Number) {
			return &Record{NumberIndex: idx}
		}
		return &Record{StringIndex: idx}
	}
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n, Type: value}
	}
	return &Record{Fields: fields}
}

func returnTypeOf(t Type) Type {
	switch f := t.(type) {
	case *FuncType:
		return f.Return
	case *OverloadedFunction:
		if len(f.Signatures) > 0 {
			return f.Signatures[len(f.Signatures)-1].Return
		}
	case *Union:
		members := make([]Type, len(f.Members))
		for i, m := range f.Members {
			members[i] = returnTypeOf(m)
		}
		return NewUnion(members...)
	}
	return TNever
}

func parametersOf(t Type) Type {
	f, ok := t.(*FuncType)
	if !ok {
		return &Tuple{}
	}
	elements := make([]TupleElement, len(f.Params))
	for i, p := range f.Params {
		kind := Required
		if p.Optional {
			kind = Optional
		}
		if p.Rest {
			kind = Spread
		}
		elements[i] = TupleElement{Type: p.Type, Kind: kind, Name: p.Name}
	}
	return &Tuple{Elements: elements, RequiredCount: f.MinArity, HasSpread: f.HasRest}
}

func constructorParametersOf(t Type) Type {
	c, ok := t.(*Class)
	if !ok {
		return &Tuple{}
	}
	for _, m := range c.Methods {
		if m.Name == "constructor" {
			if ft, ok := m.Type.(*FuncType); ok {
				return parametersOf(ft)
			}
		}
	}
	return &Tuple{}
}

func unwrapPromise(t Type) Type {
	for {
		p, ok := t.(*Promise)
		if !ok {
			return t
		}
		t = p.Value
	}
}

func stripNullish(t Type) Type {
	u, ok := t.(*Union)
	if !ok {
		if p, ok := t.(*Primitive); ok && (p.Kind == Null || p.Kind == Undefined) {
			return TNever
		}
		return t
	}
	var kept []Type
	for _, m := range u.Members {
		if p, ok := m.(*Primitive); ok && (p.Kind == Null || p.Kind == Undefined) {
			continue
		}
		kept = append(kept, m)
	}
	return NewUnion(kept...)
}

func filterUnion(t, pattern Type, keep bool) Type {
	members := []Type{t}
	if u, ok := t.(*Union); ok {
		members = u.Members
	}
	var kept []Type
	for _, m := range members {
		if IsCompatible(pattern, m) == keep {
			kept = append(kept, m)
		}
	}
	return NewUnion(kept...)
}

func caseTransform(name string, t Type) Type {
	if u, ok := t.(*Union); ok {
		members := make([]Type, len(u.Members))
		for i, m := range u.Members {
			members[i] = caseTransform(name, m)
		}
		return NewUnion(members...)
	}
	lit, ok := t.(*Literal)
	if !ok || lit.Kind != StringLiteral {
		return t
	}
	s := lit.Value.(string)
	return &Literal{Kind: StringLiteral, Value: applyCase(name, s)}
}

func applyCase(name, s string) string {
	switch name {
	case "Uppercase":
		return cases.Upper(language.Und).String(s)
	case "Lowercase":
		return cases.Lower(language.Und).String(s)
	case "Capitalize":
		if s == "" {
			return s
		}
		return cases.Upper(language.Und).String(s[:1]) + s[1:]
	case "Uncapitalize":
		if s == "" {
			return s
		}
		return cases.Lower(language.Und).String(s[:1]) + s[1:]
	default:
		return s
	}
}
