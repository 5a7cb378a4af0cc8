package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// getProperty resolves `obj.name`/`obj[name]` across every runtime shape:
// plain objects, arrays/strings (with their builtin method tables),
// class instances (fields, then getters, then inherited methods), class
// values themselves (static members), enums, generators, and promises.
func (i *Interpreter) getProperty(obj Value, name string) Value {
	switch o := obj.(type) {
	case UndefinedValue, NullValue:
		return i.throwError("TypeError", fmt.Sprintf("Cannot read properties of %s (reading '%s')", obj.Kind(), name))
	case *Object:
		if v, ok := o.Get(name); ok {
			return v
		}
		return Undefined
	case *Array:
		return i.arrayProperty(o, name)
	case Str:
		return i.stringProperty(o, name)
	case *Instance:
		if v, ok := o.Fields[name]; ok {
			return v
		}
		if getter, cls := o.Class.findGetter(name); getter != nil {
			prev := i.currentClass
			i.currentClass = cls
			v := i.invokeGetter(getter, o)
			i.currentClass = prev
			return v
		}
		if m, cls := o.Class.findMethod(name); m != nil {
			return &BoundMethod{Receiver: o, Fn: m, DefClass: cls}
		}
		return Undefined
	case *ClassValue:
		if name == "name" {
			return Str(o.Name)
		}
		if v, ok := o.findStatic(name); ok {
			return v
		}
		return Undefined
	case *EnumObject:
		if v, ok := o.Forward[name]; ok {
			return v
		}
		if rev, ok := o.Reverse[name]; ok {
			return Str(rev)
		}
		return Undefined
	case *GeneratorObject:
		return i.generatorMethod(o, name)
	case *PromiseValue:
		return i.promiseMethod(o, name)
	case *NativeClass:
		if name == "name" {
			return Str(o.Name)
		}
		if v, ok := o.Statics[name]; ok {
			return v
		}
		return Undefined
	case *BigIntValue:
		if name == "toString" {
			return &NativeFunction{Name: "toString", Fn: func(_ *Interpreter, _ Value, _ []Value) Value { return Str(o.V.String()) }}
		}
	case *MapValue:
		return i.mapProperty(o, name)
	case *SetValue:
		return i.setValueProperty(o, name)
	case *DateValue:
		return i.dateProperty(o, name)
	case *RegExpValue:
		return i.regexpProperty(o, name)
	}
	return Undefined
}

// setProperty writes `obj.name = val`/`obj[name] = val`.
func (i *Interpreter) setProperty(obj Value, name string, val Value) {
	switch o := obj.(type) {
	case UndefinedValue, NullValue:
		i.throwError("TypeError", fmt.Sprintf("Cannot set properties of %s (setting '%s')", obj.Kind(), name))
	case *Object:
		o.Set(name, val)
	case *Array:
		i.setArrayProperty(o, name, val)
	case *Instance:
		if setter, cls := o.Class.findSetter(name); setter != nil {
			prev := i.currentClass
			i.currentClass = cls
			i.invokeSetter(setter, o, val)
			i.currentClass = prev
			return
		}
		o.Fields[name] = val
	case *ClassValue:
		o.Statics[name] = val
	default:
		i.throwError("TypeError", "cannot set property on "+obj.Kind())
	}
}

func (i *Interpreter) setArrayProperty(a *Array, name string, val Value) {
	if name == "length" {
		n := int(toNumber(val))
		if n < len(a.Elements) {
			a.Elements = a.Elements[:n]
		} else {
			for len(a.Elements) < n {
				a.Elements = append(a.Elements, Undefined)
			}
		}
		return
	}
	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 {
		return
	}
	for len(a.Elements) <= idx {
		a.Elements = append(a.Elements, Undefined)
	}
	a.Elements[idx] = val
}

func native(name string, fn func(i *Interpreter, this Value, args []Value) Value) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

func arg(args []Value, idx int) Value {
	if idx < len(args) {
		return args[idx]
	}
	return Undefined
}

// arrayProperty implements every Array.prototype member the checker's
// arrayBuiltinMember declares types for, so every call the checker accepts
// has a runtime counterpart, plus find, some, every, concat, sort, reverse
// and flat, which the checker does not declare.
func (i *Interpreter) arrayProperty(a *Array, name string) Value {
	switch name {
	case "length":
		return Number(len(a.Elements))
	case "push":
		return native("push", func(i *Interpreter, this Value, args []Value) Value {
			a.Elements = append(a.Elements, args...)
			return Number(len(a.Elements))
		})
	case "unshift":
		return native("unshift", func(i *Interpreter, this Value, args []Value) Value {
			a.Elements = append(append([]Value{}, args...), a.Elements...)
			return Number(len(a.Elements))
		})
	case "pop":
		return native("pop", func(i *Interpreter, this Value, args []Value) Value {
			if len(a.Elements) == 0 {
				return Undefined
			}
			v := a.Elements[len(a.Elements)-1]
			a.Elements = a.Elements[:len(a.Elements)-1]
			return v
		})
	case "shift":
		return native("shift", func(i *Interpreter, this Value, args []Value) Value {
			if len(a.Elements) == 0 {
				return Undefined
			}
			v := a.Elements[0]
			a.Elements = a.Elements[1:]
			return v
		})
	case "map":
		return native("map", func(i *Interpreter, this Value, args []Value) Value {
			out := NewArray()
			fn := arg(args, 0)
			for idx, el := range a.Elements {
				out.Elements = append(out.Elements, i.callValue(fn, Undefined, []Value{el, Number(idx), a}))
				if i.ctrl != ctrlNone {
					return Undefined
				}
			}
			return out
		})
	case "filter":
		return native("filter", func(i *Interpreter, this Value, args []Value) Value {
			out := NewArray()
			fn := arg(args, 0)
			for idx, el := range a.Elements {
				keep := i.callValue(fn, Undefined, []Value{el, Number(idx), a})
				if i.ctrl != ctrlNone {
					return Undefined
				}
				if Truthy(keep) {
					out.Elements = append(out.Elements, el)
				}
			}
			return out
		})
	case "forEach":
		return native("forEach", func(i *Interpreter, this Value, args []Value) Value {
			fn := arg(args, 0)
			for idx, el := range a.Elements {
				i.callValue(fn, Undefined, []Value{el, Number(idx), a})
				if i.ctrl != ctrlNone {
					return Undefined
				}
			}
			return Undefined
		})
	case "find":
		return native("find", func(i *Interpreter, this Value, args []Value) Value {
			fn := arg(args, 0)
			for idx, el := range a.Elements {
				ok := i.callValue(fn, Undefined, []Value{el, Number(idx), a})
				if i.ctrl != ctrlNone {
					return Undefined
				}
				if Truthy(ok) {
					return el
				}
			}
			return Undefined
		})
	case "some":
		return native("some", func(i *Interpreter, this Value, args []Value) Value {
			fn := arg(args, 0)
			for idx, el := range a.Elements {
				ok := i.callValue(fn, Undefined, []Value{el, Number(idx), a})
				if i.ctrl != ctrlNone {
					return Undefined
				}
				if Truthy(ok) {
					return Bool(true)
				}
			}
			return Bool(false)
		})
	case "every":
		return native("every", func(i *Interpreter, this Value, args []Value) Value {
			fn := arg(args, 0)
			for idx, el := range a.Elements {
				ok := i.callValue(fn, Undefined, []Value{el, Number(idx), a})
				if i.ctrl != ctrlNone {
					return Undefined
				}
				if !Truthy(ok) {
					return Bool(false)
				}
			}
			return Bool(true)
		})
	case "slice":
		return native("slice", func(i *Interpreter, this Value, args []Value) Value {
			start, end := sliceBounds(len(a.Elements), args)
			return NewArray(append([]Value{}, a.Elements[start:end]...)...)
		})
	case "concat":
		return native("concat", func(i *Interpreter, this Value, args []Value) Value {
			out := append([]Value{}, a.Elements...)
			for _, v := range args {
				if other, ok := v.(*Array); ok {
					out = append(out, other.Elements...)
				} else {
					out = append(out, v)
				}
			}
			return NewArray(out...)
		})
	case "includes":
		return native("includes", func(i *Interpreter, this Value, args []Value) Value {
			target := arg(args, 0)
			for _, el := range a.Elements {
				if strictEquals(el, target) {
					return Bool(true)
				}
			}
			return Bool(false)
		})
	case "indexOf":
		return native("indexOf", func(i *Interpreter, this Value, args []Value) Value {
			target := arg(args, 0)
			for idx, el := range a.Elements {
				if strictEquals(el, target) {
					return Number(idx)
				}
			}
			return Number(-1)
		})
	case "join":
		return native("join", func(i *Interpreter, this Value, args []Value) Value {
			sep := ","
			if len(args) > 0 {
				sep = toDisplayString(args[0])
			}
			parts := make([]string, len(a.Elements))
			for idx, el := range a.Elements {
				parts[idx] = toDisplayString(el)
			}
			return Str(strings.Join(parts, sep))
		})
	case "reduce":
		return native("reduce", func(i *Interpreter, this Value, args []Value) Value {
			fn := arg(args, 0)
			idx := 0
			var acc Value
			if len(args) > 1 {
				acc = args[1]
			} else {
				if len(a.Elements) == 0 {
					return i.throwError("TypeError", "Reduce of empty array with no initial value")
				}
				acc = a.Elements[0]
				idx = 1
			}
			for ; idx < len(a.Elements); idx++ {
				acc = i.callValue(fn, Undefined, []Value{acc, a.Elements[idx], Number(idx), a})
				if i.ctrl != ctrlNone {
					return Undefined
				}
			}
			return acc
		})
	case "sort":
		return native("sort", func(i *Interpreter, this Value, args []Value) Value {
			cmp := arg(args, 0)
			sort.SliceStable(a.Elements, func(x, y int) bool {
				if _, ok := cmp.(UndefinedValue); ok {
					return toDisplayString(a.Elements[x]) < toDisplayString(a.Elements[y])
				}
				r := i.callValue(cmp, Undefined, []Value{a.Elements[x], a.Elements[y]})
				return toNumber(r) < 0
			})
			return a
		})
	case "reverse":
		return native("reverse", func(i *Interpreter, this Value, args []Value) Value {
			for l, r := 0, len(a.Elements)-1; l < r; l, r = l+1, r-1 {
				a.Elements[l], a.Elements[r] = a.Elements[r], a.Elements[l]
			}
			return a
		})
	case "flat":
		return native("flat", func(i *Interpreter, this Value, args []Value) Value {
			var out []Value
			for _, el := range a.Elements {
				if inner, ok := el.(*Array); ok {
					out = append(out, inner.Elements...)
				} else {
					out = append(out, el)
				}
			}
			return NewArray(out...)
		})
	}
	idx, err := strconv.Atoi(name)
	if err == nil && idx >= 0 && idx < len(a.Elements) {
		return a.Elements[idx]
	}
	return Undefined
}

func sliceBounds(length int, args []Value) (int, int) {
	start, end := 0, length
	if len(args) > 0 {
		start = normalizeIndex(int(toNumber(args[0])), length)
	}
	if len(args) > 1 {
		end = normalizeIndex(int(toNumber(args[1])), length)
	}
	if end < start {
		end = start
	}
	return start, end
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

// stringProperty implements every String.prototype member the checker's
// stringBuiltinMember declares types for, plus repeat, padStart and padEnd.
func (i *Interpreter) stringProperty(s Str, name string) Value {
	str := string(s)
	runes := []rune(str)
	switch name {
	case "length":
		return Number(len(runes))
	case "toUpperCase":
		return native("toUpperCase", func(i *Interpreter, this Value, args []Value) Value { return Str(strings.ToUpper(str)) })
	case "toLowerCase":
		return native("toLowerCase", func(i *Interpreter, this Value, args []Value) Value { return Str(strings.ToLower(str)) })
	case "trim":
		return native("trim", func(i *Interpreter, this Value, args []Value) Value { return Str(strings.TrimSpace(str)) })
	case "charAt":
		return native("charAt", func(i *Interpreter, this Value, args []Value) Value {
			idx := int(toNumber(arg(args, 0)))
			if idx < 0 || idx >= len(runes) {
				return Str("")
			}
			return Str(string(runes[idx]))
		})
	case "slice":
		return native("slice", func(i *Interpreter, this Value, args []Value) Value {
			start, end := sliceBounds(len(runes), args)
			return Str(string(runes[start:end]))
		})
	case "substring":
		return native("substring", func(i *Interpreter, this Value, args []Value) Value {
			start, end := 0, len(runes)
			if len(args) > 0 {
				start = clampIndex(int(toNumber(args[0])), len(runes))
			}
			if len(args) > 1 {
				end = clampIndex(int(toNumber(args[1])), len(runes))
			}
			if start > end {
				start, end = end, start
			}
			return Str(string(runes[start:end]))
		})
	case "split":
		return native("split", func(i *Interpreter, this Value, args []Value) Value {
			sep := toDisplayString(arg(args, 0))
			parts := strings.Split(str, sep)
			out := make([]Value, len(parts))
			for idx, p := range parts {
				out[idx] = Str(p)
			}
			return NewArray(out...)
		})
	case "includes":
		return native("includes", func(i *Interpreter, this Value, args []Value) Value {
			return Bool(strings.Contains(str, toDisplayString(arg(args, 0))))
		})
	case "startsWith":
		return native("startsWith", func(i *Interpreter, this Value, args []Value) Value {
			return Bool(strings.HasPrefix(str, toDisplayString(arg(args, 0))))
		})
	case "endsWith":
		return native("endsWith", func(i *Interpreter, this Value, args []Value) Value {
			return Bool(strings.HasSuffix(str, toDisplayString(arg(args, 0))))
		})
	case "indexOf":
		return native("indexOf", func(i *Interpreter, this Value, args []Value) Value {
			return Number(strings.Index(str, toDisplayString(arg(args, 0))))
		})
	case "concat":
		return native("concat", func(i *Interpreter, this Value, args []Value) Value {
			var sb strings.Builder
			sb.WriteString(str)
			for _, a := range args {
				sb.WriteString(toDisplayString(a))
			}
			return Str(sb.String())
		})
	case "repeat":
		return native("repeat", func(i *Interpreter, this Value, args []Value) Value {
			n := int(toNumber(arg(args, 0)))
			if n < 0 {
				return i.throwError("RangeError", "Invalid count value")
			}
			return Str(strings.Repeat(str, n))
		})
	case "padStart":
		return native("padStart", func(i *Interpreter, this Value, args []Value) Value {
			return Str(pad(str, args, true))
		})
	case "padEnd":
		return native("padEnd", func(i *Interpreter, this Value, args []Value) Value {
			return Str(pad(str, args, false))
		})
	}
	idx, err := strconv.Atoi(name)
	if err == nil && idx >= 0 && idx < len(runes) {
		return Str(string(runes[idx]))
	}
	return Undefined
}

func clampIndex(idx, length int) int {
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

func pad(s string, args []Value, start bool) string {
	target := int(toNumber(arg(args, 0)))
	filler := " "
	if len(args) > 1 {
		filler = toDisplayString(args[1])
	}
	if filler == "" || len([]rune(s)) >= target {
		return s
	}
	need := target - len([]rune(s))
	fr := []rune(filler)
	padding := make([]rune, 0, need)
	for len(padding) < need {
		padding = append(padding, fr...)
	}
	padding = padding[:need]
	if start {
		return string(padding) + s
	}
	return s + string(padding)
}

// generatorMethod implements `.next()/.throw()/.return()`.
func (i *Interpreter) generatorMethod(g *GeneratorObject, name string) Value {
	switch name {
	case "next":
		return native("next", func(i *Interpreter, this Value, args []Value) Value {
			v, done := g.resume(i, genResumeNext, arg(args, 0))
			return iterResultObject(v, done)
		})
	case "throw":
		return native("throw", func(i *Interpreter, this Value, args []Value) Value {
			v, done := g.resume(i, genResumeThrow, arg(args, 0))
			return iterResultObject(v, done)
		})
	case "return":
		return native("return", func(i *Interpreter, this Value, args []Value) Value {
			v, done := g.resume(i, genResumeReturnVal, arg(args, 0))
			return iterResultObject(v, done)
		})
	}
	return Undefined
}

func iterResultObject(v Value, done bool) *Object {
	o := NewObject()
	o.Set("value", v)
	o.Set("done", Bool(done))
	return o
}

// promiseMethod implements `.then()/.catch()/.finally()` in terms of the
// same subscribe/settle machinery `await` uses.
func (i *Interpreter) promiseMethod(p *PromiseValue, name string) Value {
	switch name {
	case "then":
		return native("then", func(i *Interpreter, this Value, args []Value) Value {
			onFulfilled, onRejected := arg(args, 0), arg(args, 1)
			result := newPendingPromise(i.loop)
			p.subscribe(func(state int, v Value) {
				i.runPromiseReaction(result, state, v, onFulfilled, onRejected)
			})
			return result
		})
	case "catch":
		return native("catch", func(i *Interpreter, this Value, args []Value) Value {
			onRejected := arg(args, 0)
			result := newPendingPromise(i.loop)
			p.subscribe(func(state int, v Value) {
				i.runPromiseReaction(result, state, v, Undefined, onRejected)
			})
			return result
		})
	case "finally":
		return native("finally", func(i *Interpreter, this Value, args []Value) Value {
			onFinally := arg(args, 0)
			result := newPendingPromise(i.loop)
			p.subscribe(func(state int, v Value) {
				i.callValue(onFinally, Undefined, nil)
				result.settle(state, v)
			})
			return result
		})
	}
	return Undefined
}

func (i *Interpreter) runPromiseReaction(result *PromiseValue, state int, v Value, onFulfilled, onRejected Value) {
	handler := onFulfilled
	if state == promiseRejected {
		handler = onRejected
	}
	if isCallable(handler) {
		out := i.callValue(handler, Undefined, []Value{v})
		if i.ctrl == ctrlThrow {
			result.reject(i.ctrlValue)
			i.ctrl, i.ctrlValue = ctrlNone, nil
			return
		}
		result.resolve(out)
		return
	}
	if state == promiseRejected {
		result.reject(v)
	} else {
		result.resolve(v)
	}
}

func isCallable(v Value) bool {
	switch v.(type) {
	case *Function, *NativeFunction, *BoundMethod:
		return true
	default:
		return false
	}
}

// mapProperty implements Map.prototype's get/set/has/delete/clear/forEach
// plus the keys/values/entries/size views the for-of/spread protocol and
// destructuring assume exist on any Map instance.
func (i *Interpreter) mapProperty(m *MapValue, name string) Value {
	switch name {
	case "size":
		return Number(len(m.Entries))
	case "get":
		return native("get", func(_ *Interpreter, _ Value, args []Value) Value {
			v, ok := m.Get(arg(args, 0))
			if !ok {
				return Undefined
			}
			return v
		})
	case "set":
		return native("set", func(_ *Interpreter, _ Value, args []Value) Value {
			m.Set(arg(args, 0), arg(args, 1))
			return m
		})
	case "has":
		return native("has", func(_ *Interpreter, _ Value, args []Value) Value {
			_, ok := m.Get(arg(args, 0))
			return Bool(ok)
		})
	case "delete":
		return native("delete", func(_ *Interpreter, _ Value, args []Value) Value {
			return Bool(m.Delete(arg(args, 0)))
		})
	case "clear":
		return native("clear", func(_ *Interpreter, _ Value, _ []Value) Value {
			m.Entries = nil
			return Undefined
		})
	case "forEach":
		return native("forEach", func(i *Interpreter, _ Value, args []Value) Value {
			fn := arg(args, 0)
			for _, e := range m.Entries {
				i.callValue(fn, Undefined, []Value{e.Val, e.Key, m})
				if i.ctrl != ctrlNone {
					return Undefined
				}
			}
			return Undefined
		})
	case "keys":
		return native("keys", func(_ *Interpreter, _ Value, _ []Value) Value {
			out := NewArray()
			for _, e := range m.Entries {
				out.Elements = append(out.Elements, e.Key)
			}
			return out
		})
	case "values":
		return native("values", func(_ *Interpreter, _ Value, _ []Value) Value {
			out := NewArray()
			for _, e := range m.Entries {
				out.Elements = append(out.Elements, e.Val)
			}
			return out
		})
	case "entries":
		return native("entries", func(_ *Interpreter, _ Value, _ []Value) Value {
			out := NewArray()
			for _, e := range m.Entries {
				out.Elements = append(out.Elements, NewArray(e.Key, e.Val))
			}
			return out
		})
	}
	return Undefined
}

// setValueProperty implements Set.prototype's add/has/delete/clear/forEach
// plus the keys/values/entries views the for-of/spread protocol assume
// exist on any Set instance (keys/values/entries all iterate elements for
// a Set — a quirky alias kept for API parity with Map).
func (i *Interpreter) setValueProperty(s *SetValue, name string) Value {
	switch name {
	case "size":
		return Number(len(s.Elements))
	case "add":
		return native("add", func(_ *Interpreter, _ Value, args []Value) Value {
			s.Add(arg(args, 0))
			return s
		})
	case "has":
		return native("has", func(_ *Interpreter, _ Value, args []Value) Value {
			return Bool(s.Has(arg(args, 0)))
		})
	case "delete":
		return native("delete", func(_ *Interpreter, _ Value, args []Value) Value {
			return Bool(s.Delete(arg(args, 0)))
		})
	case "clear":
		return native("clear", func(_ *Interpreter, _ Value, _ []Value) Value {
			s.Elements = nil
			return Undefined
		})
	case "forEach":
		return native("forEach", func(i *Interpreter, _ Value, args []Value) Value {
			fn := arg(args, 0)
			for _, el := range s.Elements {
				i.callValue(fn, Undefined, []Value{el, el, s})
				if i.ctrl != ctrlNone {
					return Undefined
				}
			}
			return Undefined
		})
	case "keys", "values":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value {
			return NewArray(append([]Value{}, s.Elements...)...)
		})
	case "entries":
		return native("entries", func(_ *Interpreter, _ Value, _ []Value) Value {
			out := NewArray()
			for _, el := range s.Elements {
				out.Elements = append(out.Elements, NewArray(el, el))
			}
			return out
		})
	}
	return Undefined
}

// dateProperty implements the Date.prototype getters and formatters (no setters)
// SharpTS programs reach for most often, all derived from the single
// stored time.Time rather than tracking a separate millisecond count.
func (i *Interpreter) dateProperty(d *DateValue, name string) Value {
	switch name {
	case "getTime", "valueOf":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value {
			return Number(float64(d.T.UnixMilli()))
		})
	case "getFullYear":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(d.T.Year()) })
	case "getMonth":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(int(d.T.Month()) - 1) })
	case "getDate":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(d.T.Day()) })
	case "getDay":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(int(d.T.Weekday())) })
	case "getHours":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(d.T.Hour()) })
	case "getMinutes":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(d.T.Minute()) })
	case "getSeconds":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(d.T.Second()) })
	case "getMilliseconds":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Number(d.T.Nanosecond() / 1e6) })
	case "toISOString":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value {
			return Str(d.T.Format("2006-01-02T15:04:05.000Z"))
		})
	case "toString":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Str(d.String()) })
	case "toDateString":
		return native(name, func(_ *Interpreter, _ Value, _ []Value) Value { return Str(d.T.Format("Mon Jan 02 2006")) })
	}
	return Undefined
}

// regexpProperty implements RegExp.prototype's test/exec plus the
// source/flags/global accessors the checker's builtin member tables
// assume a RegExp instance exposes.
func (i *Interpreter) regexpProperty(r *RegExpValue, name string) Value {
	switch name {
	case "source":
		return Str(r.Source)
	case "flags":
		return Str(r.Flags)
	case "global":
		return Bool(strings.ContainsRune(r.Flags, 'g'))
	case "test":
		return native("test", func(_ *Interpreter, _ Value, args []Value) Value {
			return Bool(r.Re.MatchString(toDisplayString(arg(args, 0))))
		})
	case "exec":
		return native("exec", func(_ *Interpreter, _ Value, args []Value) Value {
			s := toDisplayString(arg(args, 0))
			m := r.Re.FindStringSubmatch(s)
			if m == nil {
				return Null
			}
			out := NewArray()
			for _, g := range m {
				out.Elements = append(out.Elements, Str(g))
			}
			return out
		})
	case "toString":
		return native("toString", func(_ *Interpreter, _ Value, _ []Value) Value { return Str(r.String()) })
	}
	return Undefined
}
