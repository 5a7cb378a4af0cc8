// Package interp implements a tree-walking evaluator over the parsed and
// checked SharpTS AST: the runtime counterpart to internal/checker's static
// pass. It executes expressions and statements directly against
// internal/ast nodes rather than lowering to an intermediate form first —
// internal/ir/internal/emitter provide that lowering for the `build`
// command; `run`/`repl` drive this package instead.
package interp

import (
	"fmt"
	"io"

	"github.com/sharpts/sharpts/internal/ast"
)

// ctrlKind tags the single in-flight control-flow signal an evaluation can
// produce. Every statement-executing method checks i.ctrl after each
// sub-statement and stops walking its own block as soon as one is set,
// letting the signal unwind to whichever construct (loop, function call,
// try/catch) is the matching handler.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
	ctrlThrow
)

// Interpreter holds everything threaded through one program run: the
// current scope, accumulated control signal, and the call stack used to
// build Error.stack-style traces.
type Interpreter struct {
	global *Environment
	env    *Environment
	out    io.Writer

	ctrl      ctrlKind
	ctrlValue Value  // return value, thrown value, or undefined for break/continue
	ctrlLabel string // target label for a labeled break/continue

	callStack []string

	// loop is shared by every coroutine Interpreter spawned from this one
	// (forCoroutine) so Promise reactions scheduled from any goroutine
	// drain from the same queue.
	loop *eventLoop

	// genYieldCh/genResumeCh are set only on a coroutine Interpreter
	// created for a generator body; doYield uses them to suspend.
	genYieldCh  chan genYield
	genResumeCh chan genResume

	// currentClass gives `super` a class to resolve method/field lookups
	// against while a method/constructor body is executing.
	currentClass *ClassValue

	// callHook lets internal/emitter's bytecode VM register itself as the
	// handler for callee shapes this package doesn't know about (its
	// compiled *Closure type), so a builtin like Array.prototype.map can
	// invoke a bytecode-compiled callback without this package importing
	// internal/emitter.
	callHook func(callee, this Value, args []Value) (Value, bool)
}

// SetCallHook installs fn as the fallback callValue uses for a callee
// shape it doesn't recognize, instead of throwing "is not a function".
// fn's second return reports whether it recognized callee; false falls
// through to the usual TypeError.
func (i *Interpreter) SetCallHook(fn func(callee, this Value, args []Value) (Value, bool)) {
	i.callHook = fn
}

// New creates an Interpreter with an empty global scope. Callers install
// builtins (console, Math, JSON, Array/String/Object statics) by calling a
// registration function from internal/builtins against Global().
func New(out io.Writer) *Interpreter {
	global := NewEnvironment(nil)
	return &Interpreter{global: global, env: global, out: out, loop: &eventLoop{}}
}

// Global returns the interpreter's top-level scope.
func (i *Interpreter) Global() *Environment { return i.global }

// Out exposes the interpreter's output sink so internal/builtins can wire
// console.log/warn/error against the same writer Run uses.
func (i *Interpreter) Out() io.Writer { return i.out }

// ThrowError and Throw let internal/builtins raise catchable exceptions
// the same way expr.go/class.go do internally.
func (i *Interpreter) ThrowError(class, msg string) Value { return i.throwError(class, msg) }
func (i *Interpreter) Throw(v Value) Value                { return i.throw(v) }

// Call invokes any callable runtime value, for builtins (Array.prototype
// callbacks, Promise executors) that need to call back into user code.
func (i *Interpreter) Call(callee, this Value, args []Value) Value { return i.callValue(callee, this, args) }

// NewPendingPromise exposes the async.go machinery so internal/builtins
// can implement `new Promise(executor)` and the Promise.resolve/all/race
// statics.
func (i *Interpreter) NewPendingPromise() *PromiseValue { return newPendingPromise(i.loop) }

// GetProperty/SetProperty expose the property-access machinery expr.go
// uses internally, for builtins that need to read/write arbitrary runtime
// values generically (Promise.all iterating a thenable, Array.from
// driving an iterable's `next`).
func (i *Interpreter) GetProperty(v Value, name string) Value      { return i.getProperty(v, name) }
func (i *Interpreter) SetProperty(v Value, name string, val Value) { i.setProperty(v, name, val) }

// RuntimeError is what Run returns when a throw escapes every try/catch in
// the program, mirroring the uncaught-exception-to-error conversion the
// interpreter's tree-walking ancestors use.
type RuntimeError struct {
	Value     Value
	CallStack []string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("uncaught exception: %s", formatThrown(e.Value))
}

func formatThrown(v Value) string {
	if in, ok := v.(*Instance); ok {
		if msg, ok := in.Fields["message"]; ok {
			return fmt.Sprintf("%s: %s", in.Class.Name, msg.String())
		}
		return in.Class.Name
	}
	return v.String()
}

// Run hoists and executes every top-level statement of file in the global
// scope. Function and class declarations are hoisted first (by name) so
// mutually-recursive top-level declarations resolve the same way the
// checker's two-pass hoist does.
func (i *Interpreter) Run(file *ast.File) (Value, error) {
	i.hoistTop(file.Statements, i.global)
	var last Value = Undefined
	for _, s := range file.Statements {
		i.execStmt(s)
		if i.ctrl == ctrlThrow {
			stack := i.callStack
			thrown := i.ctrlValue
			i.ctrl, i.ctrlValue = ctrlNone, nil
			return nil, &RuntimeError{Value: thrown, CallStack: stack}
		}
		if i.ctrl != ctrlNone {
			i.ctrl, i.ctrlValue = ctrlNone, nil
			break
		}
	}
	i.loop.drain()
	return last, nil
}

// hoistTop pre-declares every function/class name in scope so forward
// references among top-level declarations resolve, matching the order the
// checker's hoisting pass already established statically.
func (i *Interpreter) hoistTop(stmts []ast.Stmt, env *Environment) {
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.FuncDecl:
			if d.Body != nil {
				env.Declare(d.Name, i.makeFunction(d.Name, d.Params, d.Body, nil, env, false, d.Async, d.Generator), false)
			}
		case *ast.ClassDecl:
			if d.Name != "" {
				env.Declare(d.Name, i.evalClassDecl(d, env), false)
			}
		case *ast.ExportDecl:
			if d.Decl != nil {
				i.hoistTop([]ast.Stmt{d.Decl}, env)
			}
		case *ast.NamespaceDecl:
			i.hoistTop(d.Body, env)
		}
	}
}

func (i *Interpreter) makeFunction(name string, params []*ast.Param, body *ast.BlockStmt, exprBody ast.Expr, closure *Environment, arrow, async, gen bool) *Function {
	return &Function{Name: name, Params: params, Body: body, ExprBody: exprBody, Closure: closure, Arrow: arrow, Async: async, Generator: gen}
}

// throw sets the in-flight signal to ctrlThrow with value v, to be used
// from expr.go/class.go wherever a runtime error (TypeError, RangeError,
// array-out-of-bounds) needs to surface as a catchable JS exception.
func (i *Interpreter) throw(v Value) Value {
	i.ctrl = ctrlThrow
	i.ctrlValue = v
	return Undefined
}

func (i *Interpreter) throwError(class, msg string) Value {
	return i.throw(i.newErrorInstance(class, msg))
}

// newErrorInstance builds a plain Instance shaped like the builtin Error
// hierarchy (name/message/stack) without requiring internal/builtins to be
// wired in yet — internal/builtins registers the real Error/TypeError/
// RangeError classes in global scope and newErrorInstance prefers those
// when present, falling back to this bare shape otherwise.
func (i *Interpreter) newErrorInstance(class, msg string) Value {
	if v, ok := i.global.Get(class); ok {
		if cv, ok := v.(*ClassValue); ok {
			inst := NewInstance(cv)
			inst.Fields["message"] = Str(msg)
			inst.Fields["name"] = Str(class)
			inst.Fields["stack"] = Str(fmt.Sprintf("%s: %s", class, msg))
			return inst
		}
	}
	return &Object{Fields: map[string]Value{"name": Str(class), "message": Str(msg)}, Keys: []string{"name", "message"}}
}

func (i *Interpreter) execStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.VarDecl:
		i.execVarDecl(v)
	case *ast.ExprStmt:
		i.evalExpr(v.X)
	case *ast.BlockStmt:
		i.execBlock(v, i.env.Child())
	case *ast.IfStmt:
		i.execIf(v)
	case *ast.WhileStmt:
		i.execWhile(v, "")
	case *ast.DoWhileStmt:
		i.execDoWhile(v, "")
	case *ast.ForStmt:
		i.execFor(v, "")
	case *ast.ReturnStmt:
		var val Value = Undefined
		if v.Value != nil {
			val = i.evalExpr(v.Value)
			if i.ctrl == ctrlThrow {
				return
			}
		}
		i.ctrl, i.ctrlValue = ctrlReturn, val
	case *ast.BreakStmt:
		i.ctrl, i.ctrlLabel = ctrlBreak, v.Label
	case *ast.ContinueStmt:
		i.ctrl, i.ctrlLabel = ctrlContinue, v.Label
	case *ast.ThrowStmt:
		val := i.evalExpr(v.Value)
		if i.ctrl == ctrlThrow {
			return
		}
		i.ctrl, i.ctrlValue = ctrlThrow, val
	case *ast.TryStmt:
		i.execTry(v)
	case *ast.SwitchStmt:
		i.execSwitch(v)
	case *ast.LabeledStmt:
		i.execLabeled(v)
	case *ast.FuncDecl:
		// already hoisted; nothing left to do for a statement-position decl
	case *ast.ClassDecl:
		if v.Name != "" {
			// already hoisted
		}
	case *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.EnumDecl:
		i.execTypeOnlyDecl(s)
	case *ast.NamespaceDecl:
		ns := i.env
		i.hoistTop(v.Body, ns)
		for _, stmt := range v.Body {
			i.execStmt(stmt)
			if i.ctrl != ctrlNone {
				return
			}
		}
	case *ast.ImportDecl:
		// module resolution happens at the host-program level, not here
	case *ast.ExportDecl:
		if v.Decl != nil {
			i.execStmt(v.Decl)
		}
	}
}

// execTypeOnlyDecl realizes the one declaration kind that is type-erased
// everywhere except at runtime itself: enums, which produce a real
// namespace object with reverse mappings.
func (i *Interpreter) execTypeOnlyDecl(s ast.Stmt) {
	d, ok := s.(*ast.EnumDecl)
	if !ok {
		return // interfaces/aliases are erased; nothing to execute
	}
	obj := &EnumObject{Name: d.Name, Forward: map[string]Value{}, Reverse: map[string]string{}}
	next := Number(0)
	for _, m := range d.Members {
		var val Value
		if m.Init != nil {
			val = i.evalExpr(m.Init)
			if i.ctrl == ctrlThrow {
				return
			}
		} else {
			val = next
		}
		if n, ok := val.(Number); ok {
			next = n + 1
		}
		obj.Forward[m.Name] = val
		obj.Order = append(obj.Order, m.Name)
		if n, ok := val.(Number); ok {
			obj.Reverse[n.String()] = m.Name
		}
	}
	i.env.Declare(d.Name, obj, true)
}

func (i *Interpreter) execVarDecl(d *ast.VarDecl) {
	for _, decl := range d.Declarators {
		var val Value = Undefined
		if decl.Init != nil {
			val = i.evalExpr(decl.Init)
			if i.ctrl == ctrlThrow {
				return
			}
		}
		isConst := d.Kind == ast.DeclConst
		if decl.Name != nil {
			i.env.Declare(decl.Name.Name, val, isConst)
		} else if decl.Pattern != nil {
			i.bindPattern(decl.Pattern, val, isConst)
		}
	}
}

func (i *Interpreter) execBlock(b *ast.BlockStmt, scope *Environment) {
	prev := i.env
	i.env = scope
	i.hoistTop(b.Statements, scope)
	for _, s := range b.Statements {
		i.execStmt(s)
		if i.ctrl != ctrlNone {
			break
		}
	}
	i.env = prev
}

func (i *Interpreter) execIf(s *ast.IfStmt) {
	cond := i.evalExpr(s.Cond)
	if i.ctrl == ctrlThrow {
		return
	}
	if Truthy(cond) {
		i.execStmt(s.Then)
	} else if s.Else != nil {
		i.execStmt(s.Else)
	}
}

// loopShouldStop centralizes break/continue handling shared by every loop
// form: it consumes a matching (unlabeled, or labeled with label) signal
// and reports whether the loop itself should stop iterating.
func (i *Interpreter) loopShouldStop(label string) (stop bool) {
	switch i.ctrl {
	case ctrlBreak:
		if i.ctrlLabel == "" || i.ctrlLabel == label {
			i.ctrl, i.ctrlLabel = ctrlNone, ""
		}
		return true
	case ctrlContinue:
		if i.ctrlLabel == "" || i.ctrlLabel == label {
			i.ctrl, i.ctrlLabel = ctrlNone, ""
			return false
		}
		return true
	case ctrlReturn, ctrlThrow:
		return true
	}
	return false
}

func (i *Interpreter) execWhile(s *ast.WhileStmt, label string) {
	for {
		cond := i.evalExpr(s.Cond)
		if i.ctrl == ctrlThrow {
			return
		}
		if !Truthy(cond) {
			return
		}
		i.execStmt(s.Body)
		if i.ctrl != ctrlNone && i.loopShouldStop(label) {
			return
		}
	}
}

func (i *Interpreter) execDoWhile(s *ast.DoWhileStmt, label string) {
	for {
		i.execStmt(s.Body)
		if i.ctrl != ctrlNone && i.loopShouldStop(label) {
			return
		}
		cond := i.evalExpr(s.Cond)
		if i.ctrl == ctrlThrow {
			return
		}
		if !Truthy(cond) {
			return
		}
	}
}

func (i *Interpreter) execFor(s *ast.ForStmt, label string) {
	iterable := i.evalExpr(s.Iterable)
	if i.ctrl == ctrlThrow {
		return
	}
	switch s.Kind {
	case ast.ForIn:
		for _, key := range enumerableKeys(iterable) {
			scope := i.env.Child()
			prev := i.env
			i.env = scope
			i.bindPattern(s.Binding, Str(key), s.DeclKind == ast.DeclConst)
			i.execStmt(s.Body)
			i.env = prev
			if i.ctrl != ctrlNone && i.loopShouldStop(label) {
				return
			}
		}
	case ast.ForOf, ast.ForAwaitOf:
		it := i.newIterator(iterable)
		if it == nil {
			i.throwError("TypeError", fmt.Sprintf("%s is not iterable", iterable.Kind()))
			return
		}
		for {
			val, done := it.Next(i)
			if i.ctrl != ctrlNone {
				return
			}
			if done {
				return
			}
			if s.Kind == ast.ForAwaitOf {
				val = i.awaitValue(val)
				if i.ctrl != ctrlNone {
					return
				}
			}
			scope := i.env.Child()
			prev := i.env
			i.env = scope
			i.bindPattern(s.Binding, val, s.DeclKind == ast.DeclConst)
			i.execStmt(s.Body)
			i.env = prev
			if i.ctrl != ctrlNone && i.loopShouldStop(label) {
				return
			}
		}
	}
}

func (i *Interpreter) execTry(s *ast.TryStmt) {
	i.execBlock(s.Try, i.env.Child())
	if i.ctrl == ctrlThrow && s.Catch != nil {
		thrown := i.ctrlValue
		i.ctrl, i.ctrlValue = ctrlNone, nil
		scope := i.env.Child()
		if s.Catch.Param != nil {
			i.bindPattern(s.Catch.Param, thrown, false)
		}
		i.execBlock(s.Catch.Body, scope)
	}
	if s.Finally != nil {
		savedCtrl, savedVal, savedLabel := i.ctrl, i.ctrlValue, i.ctrlLabel
		i.ctrl, i.ctrlValue, i.ctrlLabel = ctrlNone, nil, ""
		i.execBlock(s.Finally, i.env.Child())
		if i.ctrl == ctrlNone {
			// finally didn't itself divert control flow; restore try/catch's outcome
			i.ctrl, i.ctrlValue, i.ctrlLabel = savedCtrl, savedVal, savedLabel
		}
	}
}

func (i *Interpreter) execSwitch(s *ast.SwitchStmt) {
	disc := i.evalExpr(s.Disc)
	if i.ctrl == ctrlThrow {
		return
	}
	scope := i.env.Child()
	prev := i.env
	i.env = scope
	defer func() { i.env = prev }()

	matched := -1
	for idx, cs := range s.Cases {
		if cs.Test == nil {
			continue
		}
		tv := i.evalExpr(cs.Test)
		if i.ctrl == ctrlThrow {
			return
		}
		if strictEquals(disc, tv) {
			matched = idx
			break
		}
	}
	if matched == -1 {
		for idx, cs := range s.Cases {
			if cs.Test == nil {
				matched = idx
				break
			}
		}
	}
	if matched == -1 {
		return
	}
	for _, cs := range s.Cases[matched:] {
		for _, stmt := range cs.Statements {
			i.execStmt(stmt)
			if i.ctrl != ctrlNone {
				if i.ctrl == ctrlBreak && i.ctrlLabel == "" {
					i.ctrl = ctrlNone
				}
				return
			}
		}
	}
}

func (i *Interpreter) execLabeled(s *ast.LabeledStmt) {
	switch body := s.Body.(type) {
	case *ast.WhileStmt:
		i.execWhile(body, s.Label)
	case *ast.DoWhileStmt:
		i.execDoWhile(body, s.Label)
	case *ast.ForStmt:
		i.execFor(body, s.Label)
	default:
		i.execStmt(s.Body)
		if i.ctrl == ctrlBreak && i.ctrlLabel == s.Label {
			i.ctrl, i.ctrlLabel = ctrlNone, ""
		}
	}
}

func enumerableKeys(v Value) []string {
	switch o := v.(type) {
	case *Object:
		return append([]string(nil), o.Keys...)
	case *Array:
		keys := make([]string, len(o.Elements))
		for idx := range o.Elements {
			keys[idx] = fmt.Sprintf("%d", idx)
		}
		return keys
	case *Instance:
		keys := make([]string, 0, len(o.Fields))
		for k := range o.Fields {
			keys = append(keys, k)
		}
		return keys
	}
	return nil
}

func strictEquals(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case UndefinedValue:
		_, ok := b.(UndefinedValue)
		return ok
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	default:
		return a == b // reference equality for objects/arrays/functions/instances
	}
}
