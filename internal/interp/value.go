package interp

import (
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/types"
)

// Value is a runtime value produced by evaluating SharpTS source. Every
// concrete representation below implements it; type switches in expr.go
// and class.go dispatch on the concrete type rather than on this
// interface's methods, mirroring the tagged-union Value hierarchy the
// surrounding packages use.
type Value interface {
	Kind() string
	String() string
}

// UndefinedValue and NullValue are empty structs: every Undefined (or
// Null) value equals every other, and strictEquals matches them by type.
type UndefinedValue struct{}

func (UndefinedValue) Kind() string   { return "undefined" }
func (UndefinedValue) String() string { return "undefined" }

type NullValue struct{}

func (NullValue) Kind() string   { return "null" }
func (NullValue) String() string { return "null" }

var (
	Undefined = UndefinedValue{}
	Null      = NullValue{}
)

// Number is the double-precision numeric value every arithmetic
// expression outside of BigInt literals evaluates to.
type Number float64

func (Number) Kind() string { return "number" }
func (n Number) String() string {
	f := float64(n)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Str is a string value.
type Str string

func (Str) Kind() string     { return "string" }
func (s Str) String() string { return string(s) }

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() string     { return "boolean" }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// BigIntValue wraps math/big.Int for the `123n` literal form and BigInt
// arithmetic.
type BigIntValue struct{ V *big.Int }

func (*BigIntValue) Kind() string     { return "bigint" }
func (b *BigIntValue) String() string { return b.V.String() }

// SymbolValue backs `Symbol()` and the well-known symbols the checker's
// builtin member tables assume exist at the type level.
type SymbolValue struct{ Desc string }

func (*SymbolValue) Kind() string     { return "symbol" }
func (s *SymbolValue) String() string { return fmt.Sprintf("Symbol(%s)", s.Desc) }

// Array is a dense, growable JS array.
type Array struct {
	Elements []Value
}

func NewArray(elems ...Value) *Array { return &Array{Elements: elems} }

func (*Array) Kind() string { return "object" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Object is a plain property bag; Keys records insertion order so
// `Object.keys`/spread/`JSON.stringify` iterate in declaration order
// rather than Go's randomized map order.
type Object struct {
	Fields map[string]Value
	Keys   []string
}

func NewObject() *Object { return &Object{Fields: map[string]Value{}} }

func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.Fields[name]
	return v, ok
}

func (o *Object) Set(name string, v Value) {
	if _, exists := o.Fields[name]; !exists {
		o.Keys = append(o.Keys, name)
	}
	o.Fields[name] = v
}

func (o *Object) Delete(name string) {
	if _, exists := o.Fields[name]; !exists {
		return
	}
	delete(o.Fields, name)
	for i, k := range o.Keys {
		if k == name {
			o.Keys = append(o.Keys[:i], o.Keys[i+1:]...)
			break
		}
	}
}

func (*Object) Kind() string { return "object" }
func (o *Object) String() string {
	keys := append([]string(nil), o.Keys...)
	sort.Strings(keys) // the loop below prints in insertion order (o.Keys), not this sorted copy
	parts := make([]string, 0, len(keys))
	for _, k := range o.Keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, o.Fields[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Function is a user-defined function/method/arrow closure.
type Function struct {
	Name      string
	Params    []*ast.Param
	Body      *ast.BlockStmt
	ExprBody  ast.Expr
	Closure   *Environment
	This      Value // bound receiver for arrow functions; nil means "look up the caller's this"
	Arrow     bool
	Async     bool
	Generator bool
}

func (*Function) Kind() string     { return "function" }
func (f *Function) String() string { return fmt.Sprintf("function %s(...)", f.Name) }

// NativeFunction wraps a builtin implemented in Go (console.log, Array
// prototype methods, Math, JSON, ...).
type NativeFunction struct {
	Name string
	Fn   func(i *Interpreter, this Value, args []Value) Value
}

// NewNativeFunction is a small convenience constructor internal/builtins
// uses when registering Go-backed globals.
func NewNativeFunction(name string, fn func(i *Interpreter, this Value, args []Value) Value) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

func (*NativeFunction) Kind() string     { return "function" }
func (n *NativeFunction) String() string { return fmt.Sprintf("function %s() { [native code] }", n.Name) }

// BoundMethod pairs a callable with the receiver it was looked up on, so
// `obj.method` passed around as a value still sees the right `this`.
// DefClass records which level of the superclass chain the method was
// found on, so `super` inside its body resolves one level further up
// rather than against the receiver's most-derived runtime class.
type BoundMethod struct {
	Receiver Value
	Fn       Value // *Function or *NativeFunction
	DefClass *ClassValue
}

func (*BoundMethod) Kind() string     { return "function" }
func (b *BoundMethod) String() string { return b.Fn.String() }

// ClassValue is a class's runtime shape: its constructor, method table,
// static members, and a pointer to its superclass's ClassValue so method
// dispatch and `super` calls can walk the chain.
type ClassValue struct {
	Name        string
	Super       *ClassValue
	Ctor        *Function
	Methods     map[string]Value // *Function or *NativeFunction
	Getters     map[string]Value
	Setters     map[string]Value
	Statics     map[string]Value
	FieldInits  []fieldInit
	StaticEnv   *Environment // scope the class body closed over, for static initializers
	TypeInfo    *types.Class // checked shape, consulted for private/protected field enumeration

	// NativeCtor lets internal/builtins register classes (Error and its
	// subclasses) whose constructor body is Go code instead of an
	// evaluated ast.BlockStmt. runConstructor in class.go prefers it over
	// an absent Ctor/superclass forward.
	NativeCtor func(inst *Instance, args []Value)
}

type fieldInit struct {
	Name string
	Init ast.Expr // nil means "initialize to undefined"
	Env  *Environment
}

func (*ClassValue) Kind() string     { return "function" }
func (c *ClassValue) String() string { return fmt.Sprintf("class %s", c.Name) }

// Instance is an object produced by `new SomeClass(...)`.
type Instance struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *Instance {
	return &Instance{Class: class, Fields: map[string]Value{}}
}

func (*Instance) Kind() string { return "object" }
func (in *Instance) String() string {
	return fmt.Sprintf("%s { ... }", in.Class.Name)
}

// findMethod walks the superclass chain looking for an instance method.
// The returned Value is a *Function for a user-defined method or a
// *NativeFunction for one internal/builtins attached to a registered
// class (Error.prototype-style methods).
func (c *ClassValue) findMethod(name string) (Value, *ClassValue) {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.Methods[name]; ok {
			return m, cur
		}
	}
	return nil, nil
}

func (c *ClassValue) findGetter(name string) (Value, *ClassValue) {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.Getters[name]; ok {
			return m, cur
		}
	}
	return nil, nil
}

func (c *ClassValue) findSetter(name string) (Value, *ClassValue) {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.Setters[name]; ok {
			return m, cur
		}
	}
	return nil, nil
}

func (c *ClassValue) findStatic(name string) (Value, bool) {
	for cur := c; cur != nil; cur = cur.Super {
		if v, ok := cur.Statics[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// NativeClass is a builtin constructor whose `new` expression produces an
// arbitrary Value rather than an *Instance — Promise being the motivating
// case, since its runtime shape (PromiseValue) predates and differs from
// the user-class Instance model.
type NativeClass struct {
	Name    string
	New     func(i *Interpreter, args []Value) Value
	Statics map[string]Value // e.g. Promise.resolve/reject/all/race
}

func (*NativeClass) Kind() string     { return "function" }
func (n *NativeClass) String() string { return fmt.Sprintf("function %s() { [native code] }", n.Name) }

// EnumObject backs a runtime `enum` declaration: a namespace-like object
// whose forward members map name->value and, for numeric enums, whose
// reverse members map value->name (TypeScript's reverse-mapping feature).
type EnumObject struct {
	Name    string
	Forward map[string]Value
	Reverse map[string]string
	Order   []string
}

func (*EnumObject) Kind() string     { return "object" }
func (e *EnumObject) String() string { return fmt.Sprintf("enum %s", e.Name) }

// MapEntry is one key/value pair of a MapValue, kept in insertion order the
// way `Map.prototype.forEach`/the for-of iteration protocol require.
type MapEntry struct {
	Key Value
	Val Value
}

// MapValue backs `new Map(...)`. Keys are compared with the SameValueZero
// algorithm (sameValueZero below) rather than hashed, since Value has no
// general hash: arbitrary objects, arrays, and instances are valid Map
// keys and are only ever compared by reference identity. A linear scan is
// adequate for the collection sizes SharpTS programs build by hand.
type MapValue struct {
	Entries []MapEntry
}

func NewMapValue() *MapValue { return &MapValue{} }

func (*MapValue) Kind() string { return "object" }
func (m *MapValue) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = fmt.Sprintf("%s => %s", e.Key.String(), e.Val.String())
	}
	return "Map(" + strconv.Itoa(len(m.Entries)) + ") {" + strings.Join(parts, ", ") + "}"
}

func (m *MapValue) indexOf(key Value) int {
	for i, e := range m.Entries {
		if sameValueZero(e.Key, key) {
			return i
		}
	}
	return -1
}

func (m *MapValue) Get(key Value) (Value, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.Entries[i].Val, true
	}
	return nil, false
}

func (m *MapValue) Set(key, val Value) {
	if i := m.indexOf(key); i >= 0 {
		m.Entries[i].Val = val
		return
	}
	m.Entries = append(m.Entries, MapEntry{Key: key, Val: val})
}

func (m *MapValue) Delete(key Value) bool {
	if i := m.indexOf(key); i >= 0 {
		m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
		return true
	}
	return false
}

// SetValue backs `new Set(...)`, with the same SameValueZero membership
// test MapValue uses for its keys.
type SetValue struct {
	Elements []Value
}

func NewSetValue() *SetValue { return &SetValue{} }

func (*SetValue) Kind() string { return "object" }
func (s *SetValue) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return "Set(" + strconv.Itoa(len(s.Elements)) + ") {" + strings.Join(parts, ", ") + "}"
}

func (s *SetValue) indexOf(v Value) int {
	for i, e := range s.Elements {
		if sameValueZero(e, v) {
			return i
		}
	}
	return -1
}

func (s *SetValue) Has(v Value) bool { return s.indexOf(v) >= 0 }

func (s *SetValue) Add(v Value) {
	if s.indexOf(v) < 0 {
		s.Elements = append(s.Elements, v)
	}
}

func (s *SetValue) Delete(v Value) bool {
	if i := s.indexOf(v); i >= 0 {
		s.Elements = append(s.Elements[:i], s.Elements[i+1:]...)
		return true
	}
	return false
}

// sameValueZero is the equality SameValueZero spec algorithm Map/Set keys
// use: like strictEquals but NaN equals itself (unlike ===), since
// `new Set([NaN, NaN]).size === 1` is spec behavior.
func sameValueZero(a, b Value) bool {
	if an, ok := a.(Number); ok {
		if bn, ok := b.(Number); ok {
			if isNaN(float64(an)) && isNaN(float64(bn)) {
				return true
			}
		}
	}
	return strictEquals(a, b)
}

// DateValue backs `new Date(...)` and `Date.now()`, wrapping time.UTC so
// getters are deterministic regardless of the host's local timezone.
type DateValue struct {
	T time.Time
}

func NewDateValue(t time.Time) *DateValue { return &DateValue{T: t.UTC()} }

func (*DateValue) Kind() string     { return "object" }
func (d *DateValue) String() string { return d.T.Format(time.RFC3339) }

// RegExpValue backs both `/pattern/flags` literals and `new RegExp(...)`.
// Source/Flags are kept alongside the compiled matcher so `.source`/
// `.flags`/`.toString()` can recover the original text Go's regexp package
// otherwise discards once compiled.
type RegExpValue struct {
	Source string
	Flags  string
	Re     *regexp.Regexp
}

// NewRegExpValue compiles pattern/flags, translating the handful of JS
// flag letters Go's RE2 engine understands (i, m, s) into inline group
// flags; flags it can't express (g, u, y) are recorded for `.flags` but
// don't change match semantics, since RE2 has no global-match mode of its
// own — callers loop over `.exec`/`matchAll` on the Go side instead.
func NewRegExpValue(pattern, flags string) (*RegExpValue, error) {
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i':
			inline.WriteByte('i')
		case 'm':
			inline.WriteByte('m')
		case 's':
			inline.WriteByte('s')
		}
	}
	expr := pattern
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RegExpValue{Source: pattern, Flags: flags, Re: re}, nil
}

func (*RegExpValue) Kind() string { return "object" }
func (r *RegExpValue) String() string {
	return "/" + r.Source + "/" + r.Flags
}

// Truthy implements JS truthiness coercion.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case UndefinedValue, NullValue:
		return false
	case Bool:
		return bool(x)
	case Number:
		return x != 0 && !isNaN(float64(x))
	case Str:
		return x != ""
	case *BigIntValue:
		return x.V.Sign() != 0
	default:
		return true
	}
}

func isNaN(f float64) bool { return f != f }
