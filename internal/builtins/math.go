package builtins

import (
	"math"
	"math/rand"

	"github.com/sharpts/sharpts/internal/interp"
)

// registerMath installs the `Math` namespace object with the constant and
// function surface the checker's global type table declares for it.
func registerMath(g *interp.Environment) {
	m := interp.NewObject()
	m.Set("PI", interp.Number(math.Pi))
	m.Set("E", interp.Number(math.E))
	m.Set("LN2", interp.Number(math.Ln2))
	m.Set("LN10", interp.Number(math.Log(10)))
	m.Set("SQRT2", interp.Number(math.Sqrt2))

	unary := func(name string, fn func(float64) float64) {
		m.Set(name, interp.NewNativeFunction(name, func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
			return interp.Number(fn(numArg(args, 0)))
		}))
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("exp", math.Exp)
	unary("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
	unary("round", func(f float64) float64 { return math.Floor(f + 0.5) })

	m.Set("pow", interp.NewNativeFunction("pow", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(math.Pow(numArg(args, 0), numArg(args, 1)))
	}))
	m.Set("atan2", interp.NewNativeFunction("atan2", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(math.Atan2(numArg(args, 0), numArg(args, 1)))
	}))
	m.Set("hypot", interp.NewNativeFunction("hypot", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return interp.Number(math.Hypot(numArg(args, 0), numArg(args, 1)))
	}))
	m.Set("max", interp.NewNativeFunction("max", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if len(args) == 0 {
			return interp.Number(math.Inf(-1))
		}
		best := numArg(args, 0)
		for idx := 1; idx < len(args); idx++ {
			if v := numArg(args, idx); v > best {
				best = v
			}
		}
		return interp.Number(best)
	}))
	m.Set("min", interp.NewNativeFunction("min", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if len(args) == 0 {
			return interp.Number(math.Inf(1))
		}
		best := numArg(args, 0)
		for idx := 1; idx < len(args); idx++ {
			if v := numArg(args, idx); v < best {
				best = v
			}
		}
		return interp.Number(best)
	}))
	m.Set("random", interp.NewNativeFunction("random", func(i *interp.Interpreter, _ interp.Value, _ []interp.Value) interp.Value {
		return interp.Number(rand.Float64())
	}))
	g.Declare("Math", m, true)
}

func numArg(args []interp.Value, idx int) float64 {
	if idx >= len(args) {
		return math.NaN()
	}
	n, ok := args[idx].(interp.Number)
	if !ok {
		return math.NaN()
	}
	return float64(n)
}
