package interp

// Iterator is the runtime counterpart of the iterator protocol: repeated
// calls to Next produce a value until done is true. Arrays and strings
// iterate eagerly over an index cursor; generator objects (async.go) pull
// from the coroutine's yield channel instead.
type Iterator interface {
	Next(i *Interpreter) (value Value, done bool)
}

type arrayIterator struct {
	arr *Array
	pos int
}

func (it *arrayIterator) Next(i *Interpreter) (Value, bool) {
	if it.pos >= len(it.arr.Elements) {
		return Undefined, true
	}
	v := it.arr.Elements[it.pos]
	it.pos++
	return v, false
}

type stringIterator struct {
	runes []rune
	pos   int
}

func (it *stringIterator) Next(i *Interpreter) (Value, bool) {
	if it.pos >= len(it.runes) {
		return Undefined, true
	}
	v := Str(it.runes[it.pos])
	it.pos++
	return v, false
}

// methodIterator drives any object exposing a callable `next()` that
// returns `{ value, done }`: plain objects and class instances with a
// `next` method. Map and Set use mapIterator and setIterator instead.
type methodIterator struct {
	receiver Value
	next     Value
}

func (it *methodIterator) Next(i *Interpreter) (Value, bool) {
	result := i.callValue(it.next, it.receiver, nil)
	if i.ctrl != ctrlNone {
		return Undefined, true
	}
	obj, ok := result.(*Object)
	if !ok {
		return Undefined, true
	}
	done, _ := obj.Get("done")
	val, _ := obj.Get("value")
	if val == nil {
		val = Undefined
	}
	return val, Truthy(done)
}

// newIterator resolves v's iteration strategy, or nil if v isn't iterable.
func (i *Interpreter) newIterator(v Value) Iterator {
	switch x := v.(type) {
	case *Array:
		return &arrayIterator{arr: x}
	case Str:
		return &stringIterator{runes: []rune(string(x))}
	case *GeneratorObject:
		return x
	case *MapValue:
		return &mapIterator{m: x}
	case *SetValue:
		return &setIterator{s: x}
	case *Instance:
		if m, _ := x.Class.findMethod("next"); m != nil {
			return &methodIterator{receiver: x, next: m}
		}
	case *Object:
		if fn, ok := x.Get("next"); ok {
			return &methodIterator{receiver: x, next: fn}
		}
	}
	return nil
}

// mapIterator drives `for (const [k, v] of map)`, yielding a 2-element
// [key, value] array per entry the way the real Map iterator protocol does.
type mapIterator struct {
	m   *MapValue
	pos int
}

func (it *mapIterator) Next(i *Interpreter) (Value, bool) {
	if it.pos >= len(it.m.Entries) {
		return Undefined, true
	}
	e := it.m.Entries[it.pos]
	it.pos++
	return NewArray(e.Key, e.Val), false
}

// setIterator drives `for (const v of set)` in insertion order.
type setIterator struct {
	s   *SetValue
	pos int
}

func (it *setIterator) Next(i *Interpreter) (Value, bool) {
	if it.pos >= len(it.s.Elements) {
		return Undefined, true
	}
	v := it.s.Elements[it.pos]
	it.pos++
	return v, false
}

// spreadToSlice fully drains an iterable into a slice, used by array
// spread (`[...xs]`), call-argument spread, and (through SpreadToSlice)
// the Map/Set constructors and the bytecode VM.
func (i *Interpreter) spreadToSlice(v Value) []Value {
	it := i.newIterator(v)
	if it == nil {
		i.throwError("TypeError", v.Kind()+" is not iterable")
		return nil
	}
	var out []Value
	for {
		val, done := it.Next(i)
		if i.ctrl != ctrlNone || done {
			break
		}
		out = append(out, val)
	}
	return out
}
