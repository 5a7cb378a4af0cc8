package builtins

import "github.com/sharpts/sharpts/internal/interp"

// registerRegExp installs `new RegExp(pattern, flags)` as a NativeClass,
// the constructor counterpart to the `/pattern/flags` literal form
// internal/interp's evalLiteral compiles directly to an *interp.RegExpValue.
func registerRegExp(g *interp.Environment) {
	ctor := &interp.NativeClass{
		Name: "RegExp",
		New: func(i *interp.Interpreter, args []interp.Value) interp.Value {
			pattern := ""
			if len(args) > 0 {
				if re, ok := args[0].(*interp.RegExpValue); ok {
					pattern = re.Source
				} else {
					pattern = args[0].String()
				}
			}
			flags := ""
			if len(args) > 1 {
				flags = args[1].String()
			}
			re, err := interp.NewRegExpValue(pattern, flags)
			if err != nil {
				return i.ThrowError("SyntaxError", "Invalid regular expression: "+err.Error())
			}
			return re
		},
	}
	g.Declare("RegExp", ctor, true)
}
