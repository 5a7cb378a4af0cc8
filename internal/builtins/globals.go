package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sharpts/sharpts/internal/interp"
)

// registerGlobals installs the Array/Object/Number static namespaces,
// crypto.randomUUID, and a handful of free functions (parseInt,
// parseFloat, isNaN) every program can reach without an import.
func registerGlobals(ip *interp.Interpreter, g *interp.Environment) {
	arrayNS := interp.NewObject()
	arrayNS.Set("isArray", interp.NewNativeFunction("isArray", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		_, ok := arg0(args).(*interp.Array)
		return interp.Bool(ok)
	}))
	arrayNS.Set("from", interp.NewNativeFunction("from", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		out := interp.NewArray()
		if len(args) == 0 {
			return out
		}
		switch v := args[0].(type) {
		case *interp.Array:
			out.Elements = append(out.Elements, v.Elements...)
		case interp.Str:
			for _, r := range string(v) {
				out.Elements = append(out.Elements, interp.Str(string(r)))
			}
		}
		if len(args) > 1 {
			for idx, el := range out.Elements {
				out.Elements[idx] = i.Call(args[1], interp.Undefined, []interp.Value{el, interp.Number(idx)})
			}
		}
		return out
	}))
	arrayNS.Set("of", interp.NewNativeFunction("of", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.NewArray(append([]interp.Value(nil), args...)...)
	}))
	g.Declare("Array", arrayNS, true)

	objectNS := interp.NewObject()
	objectNS.Set("keys", interp.NewNativeFunction("keys", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		out := interp.NewArray()
		for _, k := range objectKeysOf(arg0(args)) {
			out.Elements = append(out.Elements, interp.Str(k))
		}
		return out
	}))
	objectNS.Set("values", interp.NewNativeFunction("values", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		out := interp.NewArray()
		obj := arg0(args)
		for _, k := range objectKeysOf(obj) {
			out.Elements = append(out.Elements, objectGet(obj, k))
		}
		return out
	}))
	objectNS.Set("entries", interp.NewNativeFunction("entries", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		out := interp.NewArray()
		obj := arg0(args)
		for _, k := range objectKeysOf(obj) {
			out.Elements = append(out.Elements, interp.NewArray(interp.Str(k), objectGet(obj, k)))
		}
		return out
	}))
	objectNS.Set("assign", interp.NewNativeFunction("assign", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if len(args) == 0 {
			return interp.NewObject()
		}
		target, ok := args[0].(*interp.Object)
		if !ok {
			return args[0]
		}
		for _, src := range args[1:] {
			for _, k := range objectKeysOf(src) {
				target.Set(k, objectGet(src, k))
			}
		}
		return target
	}))
	objectNS.Set("freeze", interp.NewNativeFunction("freeze", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return arg0(args) // no mutable-cell tracking to freeze against yet
	}))
	objectNS.Set("fromEntries", interp.NewNativeFunction("fromEntries", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		out := interp.NewObject()
		arr, ok := arg0(args).(*interp.Array)
		if !ok {
			return out
		}
		for _, pair := range arr.Elements {
			p, ok := pair.(*interp.Array)
			if !ok || len(p.Elements) < 2 {
				continue
			}
			out.Set(p.Elements[0].String(), p.Elements[1])
		}
		return out
	}))
	g.Declare("Object", objectNS, true)

	numberNS := interp.NewObject()
	numberNS.Set("isInteger", interp.NewNativeFunction("isInteger", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		n, ok := arg0(args).(interp.Number)
		return interp.Bool(ok && float64(n) == math.Trunc(float64(n)))
	}))
	numberNS.Set("isFinite", interp.NewNativeFunction("isFinite", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		n, ok := arg0(args).(interp.Number)
		return interp.Bool(ok && !math.IsInf(float64(n), 0) && !math.IsNaN(float64(n)))
	}))
	numberNS.Set("isNaN", interp.NewNativeFunction("isNaN", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		n, ok := arg0(args).(interp.Number)
		return interp.Bool(ok && math.IsNaN(float64(n)))
	}))
	numberNS.Set("parseFloat", interp.NewNativeFunction("parseFloat", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(parseLeadingFloat(displayArg(args, 0)))
	}))
	numberNS.Set("parseInt", interp.NewNativeFunction("parseInt", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(math.Trunc(parseLeadingFloat(displayArg(args, 0))))
	}))
	numberNS.Set("MAX_SAFE_INTEGER", interp.Number(9007199254740991))
	numberNS.Set("MIN_SAFE_INTEGER", interp.Number(-9007199254740991))
	numberNS.Set("EPSILON", interp.Number(2.220446049250313e-16))
	g.Declare("Number", numberNS, true)

	g.Declare("parseFloat", interp.NewNativeFunction("parseFloat", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(parseLeadingFloat(displayArg(args, 0)))
	}), true)
	g.Declare("parseInt", interp.NewNativeFunction("parseInt", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(math.Trunc(parseLeadingFloat(displayArg(args, 0))))
	}), true)
	g.Declare("isNaN", interp.NewNativeFunction("isNaN", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		n, ok := arg0(args).(interp.Number)
		return interp.Bool(!ok || math.IsNaN(float64(n)))
	}), true)

	cryptoNS := interp.NewObject()
	cryptoNS.Set("randomUUID", interp.NewNativeFunction("randomUUID", func(i *interp.Interpreter, _ interp.Value, _ []interp.Value) interp.Value {
		return interp.Str(uuid.NewString())
	}))
	g.Declare("crypto", cryptoNS, true)
}

func arg0(args []interp.Value) interp.Value {
	if len(args) == 0 {
		return interp.Undefined
	}
	return args[0]
}

func displayArg(args []interp.Value, idx int) string {
	if idx >= len(args) {
		return ""
	}
	return args[idx].String()
}

func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '+' || s[end] == '-' || s[end] == '.' || (s[end] >= '0' && s[end] <= '9') || s[end] == 'e' || s[end] == 'E') {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func objectKeysOf(v interp.Value) []string {
	switch o := v.(type) {
	case *interp.Object:
		return append([]string(nil), o.Keys...)
	case *interp.Instance:
		keys := make([]string, 0, len(o.Fields))
		for k := range o.Fields {
			keys = append(keys, k)
		}
		return keys
	}
	return nil
}

func objectGet(v interp.Value, key string) interp.Value {
	switch o := v.(type) {
	case *interp.Object:
		fv, _ := o.Get(key)
		return fv
	case *interp.Instance:
		return o.Fields[key]
	}
	return interp.Undefined
}
