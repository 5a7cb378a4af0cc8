package emitter

import (
	"fmt"
	"strings"

	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/ir"
)

// Closure is a compiled function value: a FuncProto paired with the
// environment it closed over, playing the same role interp.Function plays
// for the tree-walking evaluator. It implements interp.Value so it can be
// stored in an interp.Environment, passed to interp.Call from a builtin
// callback, or assigned to an object property exactly like any other
// runtime value.
type Closure struct {
	Proto *ir.FuncProto
	Env   *interp.Environment
	// This is the lexically captured receiver for an arrow-function
	// closure (Proto.Arrow); nil for every other closure, whose receiver
	// instead comes from the call site.
	This interp.Value
}

func (*Closure) Kind() string { return "function" }
func (c *Closure) String() string {
	name := c.Proto.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("function %s() { [bytecode] }", name)
}

// VM executes compiled Chunks against an interp.Interpreter's runtime
// value representation and global scope, the way DWScript's VM type runs
// a Chunk produced by its compiler. Every runtime operation the bytecode
// can't do by itself (arithmetic coercion, property access, calling into
// a native/fallback function) is delegated to the shared Interpreter
// instead of being re-implemented here.
type VM struct {
	it        *interp.Interpreter
	callStack []string
}

// NewVM builds a VM and registers it as it's call hook, so a builtin
// implemented in internal/interp (Array.prototype.map/filter/forEach/...)
// can invoke a bytecode-compiled *Closure callback without that package
// needing to know this one exists.
func NewVM(it *interp.Interpreter) *VM {
	vm := &VM{it: it}
	it.SetCallHook(func(callee, this interp.Value, args []interp.Value) (interp.Value, bool) {
		cl, ok := callee.(*Closure)
		if !ok {
			return nil, false
		}
		v, thrown, didThrow := vm.invoke(cl, this, args)
		if didThrow {
			it.Throw(thrown)
			return nil, true
		}
		return v, true
	})
	return vm
}

// Run executes a compiled Program's top-level chunk directly in the
// interpreter's global scope, mirroring interp.Run's hoist-then-execute
// contract: top-level var/function/class declarations end up bound in
// Global() exactly as they would running the tree-walking evaluator.
func (vm *VM) Run(prog *Program) (interp.Value, error) {
	result, thrown, didThrow := vm.execFrame(prog.Top.Chunk, vm.it.Global(), nil, nil)
	if didThrow {
		return nil, &interp.RuntimeError{Value: thrown, CallStack: append([]string(nil), vm.callStack...)}
	}
	return result, nil
}

// activeTry is one live try/catch/finally frame on the current call's
// handler stack, recording where to truncate the operand stack if this
// handler ends up catching.
type activeTry struct {
	entry     ir.TryEntry
	stackBase int
}

// raise searches tryStack innermost-to-outermost for the first entry with
// a catch clause. JS try/catch catches any thrown value unconditionally,
// so the first HasCatch entry always wins. Entries with only a finally
// clause are skipped without running that finally — unwinding past a
// try/finally (no catch) while searching for an outer catch does not run
// the skipped finally, a deliberate simplification (see DESIGN.md).
func raise(tryStack *[]activeTry, stack *[]interp.Value, v interp.Value) (int, bool) {
	ts := *tryStack
	for i := len(ts) - 1; i >= 0; i-- {
		if ts[i].entry.HasCatch {
			*tryStack = ts[:i]
			*stack = (*stack)[:ts[i].stackBase]
			*stack = append(*stack, v)
			return ts[i].entry.CatchOffset, true
		}
	}
	return 0, false
}

func nullish(v interp.Value) bool {
	switch v.(type) {
	case interp.NullValue, interp.UndefinedValue:
		return true
	default:
		return false
	}
}

var binaryOpSymbol = map[ir.OpCode]string{
	ir.OpAdd: "+", ir.OpSub: "-", ir.OpMul: "*", ir.OpDiv: "/", ir.OpMod: "%", ir.OpPow: "**",
	ir.OpBitAnd: "&", ir.OpBitOr: "|", ir.OpBitXor: "^", ir.OpShl: "<<", ir.OpShr: ">>", ir.OpUShr: ">>>",
	ir.OpEq: "==", ir.OpStrictEq: "===", ir.OpNeq: "!=", ir.OpStrictNeq: "!==",
	ir.OpLt: "<", ir.OpLte: "<=", ir.OpGt: ">", ir.OpGte: ">=",
}

// execFrame runs chunk from offset 0 against env/this, with stack as the
// frame's initial operand stack (already padded/truncated to the callee's
// parameter count by invoke/callClosure — see there for why). It returns
// either the value the frame returned, or a thrown value that escaped
// every try/catch this frame itself handles.
func (vm *VM) execFrame(chunk *ir.Chunk, env *interp.Environment, this interp.Value, stack []interp.Value) (result interp.Value, thrown interp.Value, didThrow bool) {
	ip := 0
	var tryStack []activeTry

	push := func(v interp.Value) { stack = append(stack, v) }
	pop := func() interp.Value {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	peek := func() interp.Value { return stack[len(stack)-1] }
	jumpTarget := func(inst ir.Instruction) int { return ip + 1 + int(inst.SignedB()) }

	// raiseHere attempts to route v to a handler within this frame; if
	// none catches, it reports that to the caller as an escaped throw.
	raiseHere := func(v interp.Value) (handled bool) {
		if target, ok := raise(&tryStack, &stack, v); ok {
			ip = target
			return true
		}
		result, thrown, didThrow = nil, v, true
		return false
	}
	// checkThrown polls the interpreter for an exception a just-completed
	// delegated operation (property access, call, instantiation, spread)
	// may have raised, and routes it the same way an OpThrow would. It
	// reports whether the opcode must stop its normal fallthrough; callers
	// that get true must then check the frame's didThrow themselves to
	// decide between returning (exception escaped this frame) and
	// continuing the dispatch loop (exception was caught here, ip already
	// moved to the handler by raiseHere).
	checkThrown := func() bool {
		v, ok := vm.it.TakeThrown()
		if !ok {
			return false
		}
		raiseHere(v)
		return true
	}

	for {
		if ip < 0 || ip >= len(chunk.Code) {
			return interp.Undefined, nil, false
		}
		inst := chunk.Code[ip]
		switch inst.Op() {
		case ir.OpLoadConst:
			switch c := chunk.Constants[inst.B()].(type) {
			case float64:
				push(interp.Number(c))
			case string:
				push(interp.Str(c))
			case *interp.BigIntValue:
				push(c)
			case *interp.RegExpValue:
				push(c)
			default:
				push(interp.Undefined)
			}
			ip++
		case ir.OpLoadUndefined:
			push(interp.Undefined)
			ip++
		case ir.OpLoadNull:
			push(interp.Null)
			ip++
		case ir.OpLoadTrue:
			push(interp.Bool(true))
			ip++
		case ir.OpLoadFalse:
			push(interp.Bool(false))
			ip++
		case ir.OpLoadThis:
			if this == nil {
				push(interp.Undefined)
			} else {
				push(this)
			}
			ip++

		case ir.OpLoadLocal:
			name := chunk.Constants[inst.B()].(string)
			v, ok := env.Get(name)
			if !ok {
				vm.it.ThrowError("ReferenceError", name+" is not defined")
				checkThrown()
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpStoreLocal:
			name := chunk.Constants[inst.B()].(string)
			env.Declare(name, pop(), false)
			ip++
		case ir.OpLoadGlobal:
			// never emitted by the current compiler (OpLoadLocal's
			// outward environment walk already reaches global scope);
			// implemented for completeness of the instruction set.
			name := chunk.Constants[inst.B()].(string)
			v, ok := vm.it.Global().Get(name)
			if !ok {
				vm.it.ThrowError("ReferenceError", name+" is not defined")
				checkThrown()
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpStoreGlobal:
			name := chunk.Constants[inst.B()].(string)
			v := pop()
			if err := env.Assign(name, v); err != nil {
				vm.it.ThrowError("TypeError", err.Error())
				checkThrown()
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			ip++
		case ir.OpLoadUpvalue:
			// dead: the compiler never populates FuncProto.Upvalues,
			// relying on shared *interp.Environment parent-chaining
			// instead of explicit upvalue capture.
			push(interp.Undefined)
			ip++
		case ir.OpStoreUpvalue:
			pop()
			ip++

		case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpPow,
			ir.OpBitAnd, ir.OpBitOr, ir.OpBitXor, ir.OpShl, ir.OpShr, ir.OpUShr,
			ir.OpEq, ir.OpStrictEq, ir.OpNeq, ir.OpStrictNeq,
			ir.OpLt, ir.OpLte, ir.OpGt, ir.OpGte:
			right := pop()
			left := pop()
			push(interp.ApplyBinaryOp(vm.it, binaryOpSymbol[inst.Op()], left, right))
			ip++

		case ir.OpNot:
			push(interp.Bool(!interp.Truthy(pop())))
			ip++
		case ir.OpNeg:
			push(interp.Number(-interp.ToNumber(pop())))
			ip++
		case ir.OpPos:
			push(interp.Number(interp.ToNumber(pop())))
			ip++
		case ir.OpBitNot:
			push(interp.Number(float64(^int64(interp.ToNumber(pop())))))
			ip++

		case ir.OpJump:
			ip = jumpTarget(inst)
		case ir.OpJumpIfFalse:
			if !interp.Truthy(pop()) {
				ip = jumpTarget(inst)
			} else {
				ip++
			}
		case ir.OpJumpIfTrue:
			if interp.Truthy(pop()) {
				ip = jumpTarget(inst)
			} else {
				ip++
			}
		case ir.OpJumpIfNullish:
			// `??`: short-circuits (keeps the left value, skips the
			// right operand and its following OpPop) when the left
			// value is NOT nullish.
			if !nullish(peek()) {
				ip = jumpTarget(inst)
			} else {
				ip++
			}
		case ir.OpAndJump:
			if !interp.Truthy(peek()) {
				ip = jumpTarget(inst)
			} else {
				ip++
			}
		case ir.OpOrJump:
			if interp.Truthy(peek()) {
				ip = jumpTarget(inst)
			} else {
				ip++
			}
		case ir.OpLoop:
			ip = jumpTarget(inst)

		case ir.OpPop:
			pop()
			ip++
		case ir.OpDup:
			push(peek())
			ip++
		case ir.OpSwap:
			a, b := pop(), pop()
			push(a)
			push(b)
			ip++

		case ir.OpNewArray:
			push(interp.NewArray())
			ip++
		case ir.OpArrayGet:
			idx := int(interp.ToNumber(pop()))
			arr := pop().(*interp.Array)
			if idx < 0 || idx >= len(arr.Elements) {
				push(interp.Undefined)
			} else {
				push(arr.Elements[idx])
			}
			ip++
		case ir.OpArraySet:
			// dead: no compiled form assigns an array element positionally
			// instead of through OpSetIndex; kept for a hand-written Chunk.
			v := pop()
			idx := int(interp.ToNumber(pop()))
			arr := pop().(*interp.Array)
			for len(arr.Elements) <= idx {
				arr.Elements = append(arr.Elements, interp.Undefined)
			}
			if idx >= 0 {
				arr.Elements[idx] = v
			}
			ip++
		case ir.OpArrayLen:
			arr := pop().(*interp.Array)
			push(interp.Number(len(arr.Elements)))
			ip++
		case ir.OpArrayPush:
			v := pop()
			arr := pop().(*interp.Array)
			arr.Elements = append(arr.Elements, v)
			push(arr)
			ip++
		case ir.OpSpreadArr:
			iterable := pop()
			target := pop()
			switch t := target.(type) {
			case *interp.Array:
				vals := vm.it.SpreadToSlice(iterable)
				if checkThrown() {
					if didThrow {
						return result, thrown, didThrow
					}
					continue
				}
				t.Elements = append(t.Elements, vals...)
				push(t)
			case *interp.Object:
				// object spread only merges another plain object's own
				// keys, matching the tree-walking evaluator's ObjectLiteral
				// spread handling — anything else is silently ignored.
				if src, ok := iterable.(*interp.Object); ok {
					for _, k := range src.Keys {
						v, _ := src.Get(k)
						t.Set(k, v)
					}
				}
				push(t)
			default:
				push(target)
			}
			ip++
		case ir.OpMakeIterItems:
			iterable := pop()
			var arr *interp.Array
			if inst.A() == 1 {
				keys := interp.EnumerableKeys(iterable)
				elems := make([]interp.Value, len(keys))
				for idx, k := range keys {
					elems[idx] = interp.Str(k)
				}
				arr = interp.NewArray(elems...)
			} else {
				vals := vm.it.SpreadToSlice(iterable)
				if checkThrown() {
					if didThrow {
						return result, thrown, didThrow
					}
					continue
				}
				arr = interp.NewArray(vals...)
			}
			push(arr)
			ip++

		case ir.OpNewObject:
			push(interp.NewObject())
			ip++
		case ir.OpObjectSet:
			v := pop()
			obj := pop().(*interp.Object)
			key := chunk.Constants[inst.B()].(string)
			obj.Set(key, v)
			push(obj)
			ip++
		case ir.OpObjectSetComputed:
			v := pop()
			key := pop()
			obj := pop().(*interp.Object)
			obj.Set(interp.ToKeyString(key), v)
			push(obj)
			ip++
		case ir.OpGetProp:
			obj := pop()
			name := chunk.Constants[inst.B()].(string)
			v := vm.it.GetProperty(obj, name)
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpSetProp:
			v := pop()
			obj := pop()
			name := chunk.Constants[inst.B()].(string)
			vm.it.SetProperty(obj, name, v)
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpGetIndex:
			key := pop()
			obj := pop()
			v := vm.it.GetProperty(obj, interp.ToKeyString(key))
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpSetIndex:
			v := pop()
			key := pop()
			obj := pop()
			vm.it.SetProperty(obj, interp.ToKeyString(key), v)
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpDeleteProp:
			obj := pop()
			name := chunk.Constants[inst.B()].(string)
			if o, ok := obj.(*interp.Object); ok {
				o.Delete(name)
			}
			push(interp.Bool(true))
			ip++
		case ir.OpIn:
			obj := pop()
			key := pop()
			push(interp.Bool(interp.HasProperty(obj, interp.ToKeyString(key))))
			ip++

		case ir.OpMakeClosure:
			proto := chunk.Constants[inst.B()].(*ir.FuncProto)
			cl := &Closure{Proto: proto, Env: env}
			if proto.Arrow {
				if this == nil {
					cl.This = interp.Undefined
				} else {
					cl.This = this
				}
			}
			push(cl)
			ip++

		case ir.OpCall:
			argc := int(inst.B())
			args := make([]interp.Value, argc)
			for k := argc - 1; k >= 0; k-- {
				args[k] = pop()
			}
			callee := pop()
			v, t, escaped := vm.invoke(callee, interp.Undefined, args)
			if escaped {
				if raiseHere(t) {
					continue
				}
				return result, thrown, didThrow
			}
			push(v)
			ip++
		case ir.OpCallMethod:
			argc := int(inst.A())
			name := chunk.Constants[inst.B()].(string)
			args := make([]interp.Value, argc)
			for k := argc - 1; k >= 0; k-- {
				args[k] = pop()
			}
			obj := pop()
			method := vm.it.GetProperty(obj, name)
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			v, t, escaped := vm.invoke(method, obj, args)
			if escaped {
				if raiseHere(t) {
					continue
				}
				return result, thrown, didThrow
			}
			push(v)
			ip++
		case ir.OpCallSpread:
			argsArr := pop().(*interp.Array)
			callee := pop()
			v, t, escaped := vm.invoke(callee, interp.Undefined, argsArr.Elements)
			if escaped {
				if raiseHere(t) {
					continue
				}
				return result, thrown, didThrow
			}
			push(v)
			ip++
		case ir.OpCallMethodSpread:
			argsArr := pop().(*interp.Array)
			name := chunk.Constants[inst.B()].(string)
			obj := pop()
			method := vm.it.GetProperty(obj, name)
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			v, t, escaped := vm.invoke(method, obj, argsArr.Elements)
			if escaped {
				if raiseHere(t) {
					continue
				}
				return result, thrown, didThrow
			}
			push(v)
			ip++
		case ir.OpNew:
			argc := int(inst.B())
			args := make([]interp.Value, argc)
			for k := argc - 1; k >= 0; k-- {
				args[k] = pop()
			}
			callee := pop()
			v := vm.it.New(callee, args)
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			push(v)
			ip++
		case ir.OpReturn:
			return pop(), nil, false
		case ir.OpReturnUndef:
			return interp.Undefined, nil, false

		case ir.OpMakeClass:
			// dead: class declarations/expressions always compile to
			// OpInterpFallback instead.
			vm.it.ThrowError("Error", "internal: OpMakeClass has no VM implementation")
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			ip++
		case ir.OpInstanceOf:
			class := pop()
			v := pop()
			push(interp.Bool(interp.IsInstanceOf(v, class)))
			ip++
		case ir.OpTypeOf:
			v := pop()
			push(interp.Str(v.Kind()))
			ip++

		case ir.OpTry:
			entry, ok := chunk.TryTable[ip]
			if ok {
				tryStack = append(tryStack, activeTry{entry: entry, stackBase: len(stack)})
			}
			ip++
		case ir.OpEndTry:
			if len(tryStack) > 0 {
				tryStack = tryStack[:len(tryStack)-1]
			}
			ip++
		case ir.OpThrow:
			v := pop()
			if raiseHere(v) {
				continue
			}
			return result, thrown, didThrow
		case ir.OpRethrow:
			// dead: no compiled path leaves an in-flight exception for a
			// finally block to re-raise; if ever reached, treat the
			// operand stack's top the way OpThrow does.
			v := pop()
			if raiseHere(v) {
				continue
			}
			return result, thrown, didThrow
		case ir.OpPushCatch:
			name := chunk.Constants[inst.B()].(string)
			env.Declare(name, pop(), false)
			ip++

		case ir.OpAwait, ir.OpYield:
			// dead: async/generator bodies never compile to bytecode
			// (see FuncProto.Fallback); these opcodes have no VM
			// implementation because nothing ever emits them into a
			// runnable chunk.
			vm.it.ThrowError("Error", "internal: "+inst.Op().String()+" has no VM implementation")
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			ip++
		case ir.OpInterpFallback:
			payload := chunk.Constants[inst.B()]
			if cf, ok := payload.(*classFallback); ok {
				cv := vm.it.EvalClass(cf.Decl, env)
				if checkThrown() {
					if didThrow {
						return result, thrown, didThrow
					}
					continue
				}
				push(cv)
			} else {
				push(interp.Undefined)
			}
			ip++

		case ir.OpTemplateConcat:
			n := int(inst.B())
			parts := make([]string, n)
			for k := n - 1; k >= 0; k-- {
				parts[k] = interp.ToDisplayString(pop())
			}
			push(interp.Str(strings.Join(parts, "")))
			ip++
		case ir.OpHalt:
			return interp.Undefined, nil, false

		default:
			vm.it.ThrowError("Error", "internal: unhandled opcode "+inst.Op().String())
			if checkThrown() {
				if didThrow {
					return result, thrown, didThrow
				}
				continue
			}
			ip++
		}
	}
}

// invoke dispatches any callable runtime value: a *Closure either runs on
// this VM (compiled body) or, for an async/generator function whose body
// was never lowered to bytecode, builds an interp.Function from its
// funcFallback and runs it on the tree-walking interpreter. Any other
// callable (interp.Function/NativeFunction/BoundMethod/ClassValue reached
// through an OpInterpFallback-produced class, or a builtin) is handed
// straight to interp.Call, which already implements JS's dispatch rules
// for every one of those shapes.
func (vm *VM) invoke(callee interp.Value, this interp.Value, args []interp.Value) (result interp.Value, thrown interp.Value, didThrow bool) {
	cl, ok := callee.(*Closure)
	if !ok {
		if callee == nil {
			vm.it.ThrowError("TypeError", "value is not a function")
		} else {
			result = vm.it.Call(callee, this, args)
		}
		if t, escaped := vm.it.TakeThrown(); escaped {
			return nil, t, true
		}
		return result, nil, false
	}
	if cl.Proto.Fallback != nil {
		fb := cl.Proto.Fallback.(*funcFallback)
		fn := interp.MakeFunction(fb.Name, fb.Params, fb.Body, fb.ExprBody, cl.Env, fb.Arrow, fb.Async, fb.Generator)
		if fb.Arrow {
			fn.This = cl.This
		}
		result = vm.it.Call(fn, this, args)
		if t, escaped := vm.it.TakeThrown(); escaped {
			return nil, t, true
		}
		return result, nil, false
	}
	return vm.callClosure(cl, this, args)
}

// callClosure starts a fresh bytecode frame for a compiled closure. The
// callee's chunk opens with one OpStoreLocal per declared parameter (see
// compileFunction), so the initial operand stack is built here with
// exactly ParamCount values — missing call arguments become undefined,
// extra ones are dropped (no `arguments` object) — pushed in reverse so
// the first parameter pops off the top first.
func (vm *VM) callClosure(cl *Closure, this interp.Value, args []interp.Value) (interp.Value, interp.Value, bool) {
	proto := cl.Proto
	frameEnv := cl.Env.Child()
	frameThis := this
	if proto.Arrow {
		frameThis = cl.This
	}
	initStack := make([]interp.Value, 0, proto.ParamCount)
	for idx := proto.ParamCount - 1; idx >= 0; idx-- {
		if idx < len(args) {
			initStack = append(initStack, args[idx])
		} else {
			initStack = append(initStack, interp.Undefined)
		}
	}
	vm.callStack = append(vm.callStack, proto.Name)
	result, thrown, didThrow := vm.execFrame(proto.Chunk, frameEnv, frameThis, initStack)
	vm.callStack = vm.callStack[:len(vm.callStack)-1]
	return result, thrown, didThrow
}
