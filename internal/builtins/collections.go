package builtins

import "github.com/sharpts/sharpts/internal/interp"

// registerCollections installs the Map and Set globals as NativeClasses,
// the same pattern registerPromise uses for a runtime shape (MapValue/
// SetValue) that predates and differs from the user-class Instance model.
func registerCollections(g *interp.Environment) {
	mapCtor := &interp.NativeClass{
		Name: "Map",
		New: func(i *interp.Interpreter, args []interp.Value) interp.Value {
			m := interp.NewMapValue()
			if len(args) == 0 || isNullish(args[0]) {
				return m
			}
			for _, pair := range i.SpreadToSlice(args[0]) {
				p, ok := pair.(*interp.Array)
				if !ok || len(p.Elements) < 2 {
					continue
				}
				m.Set(p.Elements[0], p.Elements[1])
			}
			return m
		},
	}
	g.Declare("Map", mapCtor, true)

	setCtor := &interp.NativeClass{
		Name: "Set",
		New: func(i *interp.Interpreter, args []interp.Value) interp.Value {
			s := interp.NewSetValue()
			if len(args) == 0 || isNullish(args[0]) {
				return s
			}
			for _, el := range i.SpreadToSlice(args[0]) {
				s.Add(el)
			}
			return s
		},
	}
	g.Declare("Set", setCtor, true)
}

func isNullish(v interp.Value) bool {
	switch v.(type) {
	case interp.UndefinedValue, interp.NullValue:
		return true
	default:
		return false
	}
}
