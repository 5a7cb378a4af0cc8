package interp

import "github.com/sharpts/sharpts/internal/ast"

// The exports below let internal/emitter's bytecode VM reuse this
// package's coercion, equality, and property/class machinery instead of
// re-implementing JS semantics a second time against the same Value
// hierarchy. Each wraps an unexported helper already used by expr.go/
// class.go/interp.go for the tree-walking evaluator.

// ApplyBinaryOp evaluates one arithmetic/comparison/bitwise operator
// (everything evalBinary handles except "instanceof" and "in", which have
// their own wrappers below) against two already-evaluated operands.
func ApplyBinaryOp(i *Interpreter, op string, left, right Value) Value {
	return applyBinary(i, op, left, right)
}

// IsInstanceOf implements the `instanceof` operator.
func IsInstanceOf(v Value, class Value) bool { return isInstanceOf(v, class) }

// HasProperty implements the `in` operator's right-hand-side check.
func HasProperty(v Value, key string) bool { return hasProperty(v, key) }

// ToKeyString coerces a value to the string form used to index an
// object/array (the same coercion `obj[expr]` applies to expr's result).
func ToKeyString(v Value) string { return toKeyString(v) }

// ToDisplayString coerces a value to the string form template literals and
// `+` with a string operand use.
func ToDisplayString(v Value) string { return toDisplayString(v) }

// ToNumber coerces a value the way unary `+`/arithmetic operators do.
func ToNumber(v Value) float64 { return toNumber(v) }

// StrictEquals implements `===`.
func StrictEquals(a, b Value) bool { return strictEquals(a, b) }

// EnumerableKeys lists the string keys a `for...in` loop should visit.
func EnumerableKeys(v Value) []string { return enumerableKeys(v) }

// SpreadToSlice fully drains an iterable into a slice, for array/call-arg
// spread and the bytecode VM's OpSpreadArr/OpMakeIterItems.
func (i *Interpreter) SpreadToSlice(v Value) []Value { return i.spreadToSlice(v) }

// EvalClass builds the runtime ClassValue for a class declaration/
// expression, the same construction hoistTop and evalExpr's ClassExpr case
// use — exposed so OpInterpFallback can run it without a second copy of
// the constructor/field-init wiring.
func (i *Interpreter) EvalClass(d *ast.ClassDecl, env *Environment) *ClassValue {
	return i.evalClassDecl(d, env)
}

// TakeThrown reports whether the interpreter has an in-flight exception
// (set by ThrowError/Throw or by a Call into user code that itself threw)
// and, if so, clears it and returns the thrown value. The bytecode VM polls
// this after every interp.Call so a fallback function's exception becomes a
// VM-level OpThrow instead of silently vanishing.
func (i *Interpreter) TakeThrown() (Value, bool) {
	if i.ctrl != ctrlThrow {
		return nil, false
	}
	v := i.ctrlValue
	i.ctrl, i.ctrlValue = ctrlNone, nil
	return v, true
}

// New implements the `new` operator against an already-evaluated callee,
// for OpNew: a *ClassValue instantiates through the constructor/field-init
// chain, a *NativeClass (Promise, Error subclasses registered as natives)
// runs its own New hook, anything else throws a TypeError.
func (i *Interpreter) New(callee Value, args []Value) Value {
	switch cv := callee.(type) {
	case *ClassValue:
		return i.instantiate(cv, args)
	case *NativeClass:
		return cv.New(i, args)
	default:
		return i.throwError("TypeError", callee.String()+" is not a constructor")
	}
}

// MakeFunction builds a Function value closing over env (an arrow when
// arrow is set; the caller then fills in its This), for the VM's async/generator fallback path (funcFallback) where a
// closure's body must run on this package's call machinery instead of
// bytecode.
func MakeFunction(name string, params []*ast.Param, body *ast.BlockStmt, exprBody ast.Expr, env *Environment, arrow, async, gen bool) *Function {
	return &Function{Name: name, Params: params, Body: body, ExprBody: exprBody, Closure: env, Arrow: arrow, Async: async, Generator: gen}
}
