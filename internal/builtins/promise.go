package builtins

import "github.com/sharpts/sharpts/internal/interp"

// registerPromise installs the `Promise` global as a NativeClass (its
// `new` produces an *interp.PromiseValue rather than an *Instance, since
// that runtime shape predates and differs from the user-class Instance
// model) plus the resolve/reject/all/race/allSettled statics.
// Promise.all/race/allSettled subscribe through each item's `.then` (via
// GetProperty/Call) rather than reaching into PromiseValue directly. Only
// *interp.PromiseValue items are subscribed this way; any other item,
// including an object with its own `then` method, is treated as an
// already-fulfilled value.
func registerPromise(g *interp.Environment) {
	ctor := &interp.NativeClass{
		Name: "Promise",
		New: func(i *interp.Interpreter, args []interp.Value) interp.Value {
			prom := i.NewPendingPromise()
			if len(args) == 0 {
				return prom
			}
			executor := args[0]
			resolveFn := interp.NewNativeFunction("resolve", func(_ *interp.Interpreter, _ interp.Value, a []interp.Value) interp.Value {
				prom.Resolve(arg0(a))
				return interp.Undefined
			})
			rejectFn := interp.NewNativeFunction("reject", func(_ *interp.Interpreter, _ interp.Value, a []interp.Value) interp.Value {
				prom.Reject(arg0(a))
				return interp.Undefined
			})
			i.Call(executor, interp.Undefined, []interp.Value{resolveFn, rejectFn})
			return prom
		},
		Statics: map[string]interp.Value{},
	}
	ctor.Statics["resolve"] = interp.NewNativeFunction("resolve", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		prom := i.NewPendingPromise()
		prom.Resolve(arg0(args))
		return prom
	})
	ctor.Statics["reject"] = interp.NewNativeFunction("reject", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		prom := i.NewPendingPromise()
		prom.Reject(arg0(args))
		return prom
	})
	ctor.Statics["all"] = interp.NewNativeFunction("all", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return settleGroup(i, args, false, false)
	})
	ctor.Statics["race"] = interp.NewNativeFunction("race", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return settleGroup(i, args, true, false)
	})
	ctor.Statics["allSettled"] = interp.NewNativeFunction("allSettled", func(i *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		return settleGroup(i, args, false, true)
	})
	g.Declare("Promise", ctor, true)
}

// settleGroup drains the array passed as arguments[0], subscribing to
// each item's `.then` and settling a combined promise: allSettled resolves
// once every item has settled, all resolves once every item has fulfilled
// and rejects on the first rejection, and race settles as soon as the
// first item does.
func settleGroup(i *interp.Interpreter, args []interp.Value, firstWins, reportStatus bool) interp.Value {
	result := i.NewPendingPromise()
	items, ok := arg0(args).(*interp.Array)
	if !ok {
		result.Resolve(interp.NewArray())
		return result
	}
	n := len(items.Elements)
	if n == 0 {
		result.Resolve(interp.NewArray())
		return result
	}
	values := make([]interp.Value, n)
	remaining := n
	for idx, item := range items.Elements {
		idx := idx
		onFulfilled := interp.NewNativeFunction("", func(_ *interp.Interpreter, _ interp.Value, a []interp.Value) interp.Value {
			if firstWins {
				result.Resolve(arg0(a))
				return interp.Undefined
			}
			if reportStatus {
				s := interp.NewObject()
				s.Set("status", interp.Str("fulfilled"))
				s.Set("value", arg0(a))
				values[idx] = s
			} else {
				values[idx] = arg0(a)
			}
			remaining--
			if remaining == 0 {
				result.Resolve(interp.NewArray(values...))
			}
			return interp.Undefined
		})
		onRejected := interp.NewNativeFunction("", func(_ *interp.Interpreter, _ interp.Value, a []interp.Value) interp.Value {
			if firstWins {
				result.Reject(arg0(a))
				return interp.Undefined
			}
			if reportStatus {
				s := interp.NewObject()
				s.Set("status", interp.Str("rejected"))
				s.Set("reason", arg0(a))
				values[idx] = s
				remaining--
				if remaining == 0 {
					result.Resolve(interp.NewArray(values...))
				}
				return interp.Undefined
			}
			result.Reject(arg0(a))
			return interp.Undefined
		})
		if _, isPromise := item.(*interp.PromiseValue); isPromise {
			then := i.GetProperty(item, "then")
			i.Call(then, item, []interp.Value{onFulfilled, onRejected})
		} else {
			i.Call(onFulfilled, interp.Undefined, []interp.Value{item})
		}
	}
	return result
}
