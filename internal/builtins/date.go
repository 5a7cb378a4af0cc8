package builtins

import (
	"time"

	"github.com/sharpts/sharpts/internal/interp"
)

// registerDate installs the Date global as a NativeClass: `new Date()`
// (current instant), `new Date(ms)` (epoch milliseconds), and
// `new Date(year, month, day, ...)` (component constructor, month
// zero-based to match the real-world JS quirk). Date.now() mirrors the
// static the constructor itself exposes.
func registerDate(g *interp.Environment) {
	ctor := &interp.NativeClass{
		Name: "Date",
		New: func(_ *interp.Interpreter, args []interp.Value) interp.Value {
			switch len(args) {
			case 0:
				return interp.NewDateValue(time.Now())
			case 1:
				if n, ok := args[0].(interp.Number); ok {
					return interp.NewDateValue(time.UnixMilli(int64(n)))
				}
				return interp.NewDateValue(time.Now())
			default:
				comp := func(idx int, def int) int {
					if idx < len(args) {
						if n, ok := args[idx].(interp.Number); ok {
							return int(n)
						}
					}
					return def
				}
				year := comp(0, 1970)
				month := comp(1, 0) + 1
				day := comp(2, 1)
				hour := comp(3, 0)
				minute := comp(4, 0)
				sec := comp(5, 0)
				ms := comp(6, 0)
				return interp.NewDateValue(time.Date(year, time.Month(month), day, hour, minute, sec, ms*1e6, time.UTC))
			}
		},
		Statics: map[string]interp.Value{},
	}
	ctor.Statics["now"] = interp.NewNativeFunction("now", func(_ *interp.Interpreter, _ interp.Value, _ []interp.Value) interp.Value {
		return interp.Number(float64(time.Now().UnixMilli()))
	})
	g.Declare("Date", ctor, true)
}
