package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/sharpts/sharpts/internal/interp"
)

// registerJSON installs `JSON.parse`/`JSON.stringify`. parse walks a
// gjson.Result tree into runtime Values instead of round-tripping through
// encoding/json's interface{} representation; stringify builds the output
// document incrementally with sjson.SetRaw so object key order
// follows Object.Keys (insertion order) rather than a sorted re-encoding.
func registerJSON(ip *interp.Interpreter, g *interp.Environment) {
	j := interp.NewObject()
	j.Set("parse", interp.NewNativeFunction("parse", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if len(args) == 0 {
			return i.ThrowError("SyntaxError", "Unexpected end of JSON input")
		}
		s, ok := args[0].(interp.Str)
		if !ok {
			return i.ThrowError("SyntaxError", "JSON.parse expects a string")
		}
		if !gjson.Valid(string(s)) {
			return i.ThrowError("SyntaxError", "Unexpected token in JSON")
		}
		return fromGJSON(gjson.Parse(string(s)))
	}))
	j.Set("stringify", interp.NewNativeFunction("stringify", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if len(args) == 0 {
			return interp.Undefined
		}
		raw, ok := toJSONRaw(args[0])
		if !ok {
			return interp.Undefined
		}
		return interp.Str(raw)
	}))
	g.Declare("JSON", j, true)
}

func fromGJSON(r gjson.Result) interp.Value {
	switch r.Type {
	case gjson.Null:
		return interp.Null
	case gjson.False:
		return interp.Bool(false)
	case gjson.True:
		return interp.Bool(true)
	case gjson.Number:
		return interp.Number(r.Num)
	case gjson.String:
		return interp.Str(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			arr := interp.NewArray()
			r.ForEach(func(_, v gjson.Result) bool {
				arr.Elements = append(arr.Elements, fromGJSON(v))
				return true
			})
			return arr
		}
		obj := interp.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Set(k.Str, fromGJSON(v))
			return true
		})
		return obj
	}
	return interp.Undefined
}

// toJSONRaw renders v as a raw JSON document, returning ok=false for
// values JSON.stringify drops (functions, undefined, symbols) the way the
// spec requires.
func toJSONRaw(v interp.Value) (string, bool) {
	switch x := v.(type) {
	case interp.UndefinedValue:
		return "", false
	case interp.NullValue:
		return "null", true
	case interp.Bool:
		return strconv.FormatBool(bool(x)), true
	case interp.Number:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), true
	case interp.Str:
		raw, err := sjson.Set("", "v", string(x))
		if err != nil {
			return "", false
		}
		return gjson.Get(raw, "v").Raw, true
	case *interp.Array:
		doc := "[]"
		var err error
		for idx, el := range x.Elements {
			raw, ok := toJSONRaw(el)
			if !ok {
				raw = "null"
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(idx), raw)
			if err != nil {
				return "", false
			}
		}
		return doc, true
	case *interp.Object:
		doc := "{}"
		var err error
		for _, k := range x.Keys {
			fv, _ := x.Get(k)
			raw, ok := toJSONRaw(fv)
			if !ok {
				continue
			}
			doc, err = sjson.SetRaw(doc, sjsonEscapeKey(k), raw)
			if err != nil {
				return "", false
			}
		}
		return doc, true
	case *interp.Instance:
		doc := "{}"
		var err error
		for k, fv := range x.Fields {
			raw, ok := toJSONRaw(fv)
			if !ok {
				continue
			}
			doc, err = sjson.SetRaw(doc, sjsonEscapeKey(k), raw)
			if err != nil {
				return "", false
			}
		}
		return doc, true
	default:
		return "", false
	}
}

// sjsonEscapeKey guards against path metacharacters (`.`, `*`, `?`) sjson
// otherwise interprets as path syntax in a plain object key.
func sjsonEscapeKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '.', '*', '?':
			out = append(out, '\\', k[i])
		default:
			out = append(out, k[i])
		}
	}
	return string(out)
}
