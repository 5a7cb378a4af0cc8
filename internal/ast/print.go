package ast

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Print produces a deterministic JSON representation of an AST node, used
// for diagnostics dumps (`--dump-ast`) and for golden snapshot tests.
//
// Design decisions:
//   - Omits instance-specific metadata (spans) so two parses of
//     differently-positioned-but-equal source compare equal.
//   - Every node is tagged with a "type" field naming its concrete Go type.
//   - Uses reflection over exported fields rather than a hand-written
//     type switch per node, since the TypeScript AST's node set is large
//     and keeps growing with new surface features.
func Print(node Node) string {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(reflect.ValueOf(node)), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return simplify(v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		out := make([]interface{}, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = simplify(v.Index(i))
		}
		return out
	case reflect.Map:
		out := map[string]interface{}{}
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = simplify(iter.Value())
		}
		return out
	case reflect.Struct:
		t := v.Type()
		out := map[string]interface{}{}
		if t.Name() != "" && t.Name() != "base" {
			out["type"] = t.Name()
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" { // unexported, e.g. the embedded `base` span holder
				continue
			}
			if f.Name == "Pos" || f.Name == "Offset" {
				continue
			}
			fv := simplify(v.Field(i))
			if fv == nil {
				continue
			}
			out[f.Name] = fv
		}
		return out
	default:
		return v.Interface()
	}
}
