package builtins

import "github.com/sharpts/sharpts/internal/interp"

// registerErrors builds the Error/TypeError/RangeError/SyntaxError/
// ReferenceError/EvalError/URIError hierarchy that interp.newErrorInstance
// (interp.go) looks up by name whenever a runtime operation needs to throw
// — once these are registered, every thrown builtin error is a real,
// `instanceof Error`-satisfying Instance instead of the bare fallback
// object shape.
func registerErrors(g *interp.Environment) {
	base := newErrorClass("Error", nil)
	g.Declare("Error", base, true)

	for _, name := range []string{"TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError", "URIError"} {
		cv := newErrorClass(name, base)
		g.Declare(name, cv, true)
	}
}

func newErrorClass(name string, super *interp.ClassValue) *interp.ClassValue {
	cv := &interp.ClassValue{
		Name:    name,
		Super:   super,
		Methods: map[string]interp.Value{},
		Getters: map[string]interp.Value{},
		Setters: map[string]interp.Value{},
		Statics: map[string]interp.Value{},
	}
	cv.NativeCtor = func(inst *interp.Instance, args []interp.Value) {
		msg := ""
		if len(args) > 0 {
			if s, ok := args[0].(interp.Str); ok {
				msg = string(s)
			} else {
				msg = args[0].String()
			}
		}
		inst.Fields["name"] = interp.Str(name)
		inst.Fields["message"] = interp.Str(msg)
		inst.Fields["stack"] = interp.Str(name + ": " + msg)
	}
	return cv
}
