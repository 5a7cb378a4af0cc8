package interp

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
)

// callValue invokes any callable runtime value. Generators return a
// GeneratorObject instead of running synchronously; async functions return
// a pending Promise and run on their own goroutine (async.go).
func (i *Interpreter) callValue(callee Value, this Value, args []Value) Value {
	switch fn := callee.(type) {
	case *Function:
		if fn.Generator {
			return i.newGenerator(fn, resolveThis(fn, this), args)
		}
		if fn.Async {
			return i.callAsync(fn, resolveThis(fn, this), args)
		}
		return i.callSync(fn, resolveThis(fn, this), args)
	case *NativeFunction:
		return fn.Fn(i, this, args)
	case *BoundMethod:
		if fn.DefClass != nil {
			prev := i.currentClass
			i.currentClass = fn.DefClass
			defer func() { i.currentClass = prev }()
		}
		return i.callValue(fn.Fn, fn.Receiver, args)
	case *ClassValue:
		return i.throwError("TypeError", fmt.Sprintf("Class constructor %s cannot be invoked without 'new'", fn.Name))
	default:
		if i.callHook != nil {
			if v, ok := i.callHook(callee, this, args); ok {
				return v
			}
		}
		return i.throwError("TypeError", callee.String()+" is not a function")
	}
}

// resolveThis returns the receiver a call should bind: arrow functions
// ignore the call-site receiver and keep whatever `this` their closure
// captured (lexical `this`), stored in fn.This when evalFuncExpr creates
// the arrow.
func resolveThis(fn *Function, callSite Value) Value {
	if fn.Arrow {
		return fn.This
	}
	return callSite
}

func (i *Interpreter) callSync(fn *Function, this Value, args []Value) Value {
	scope := fn.Closure.Child()
	i.bindParams(fn, scope, this, args)
	prevEnv := i.env
	i.env = scope
	i.callStack = append(i.callStack, fn.Name)
	if fn.Body != nil {
		for _, stmt := range fn.Body.Statements {
			i.execStmt(stmt)
			if i.ctrl != ctrlNone {
				break
			}
		}
	}
	i.callStack = i.callStack[:len(i.callStack)-1]
	i.env = prevEnv

	var result Value = Undefined
	if i.ctrl == ctrlReturn {
		result = i.ctrlValue
		i.ctrl, i.ctrlValue = ctrlNone, nil
	} else if fn.ExprBody != nil {
		result = i.evalExpr(fn.ExprBody)
	}
	return result
}

// bindParams declares `this` (for non-arrow functions) and every declared
// parameter (including rest collection and default-value evaluation) in
// scope; no `arguments` binding is created.
func (i *Interpreter) bindParams(fn *Function, scope *Environment, this Value, args []Value) {
	prevEnv := i.env
	i.env = scope
	defer func() { i.env = prevEnv }()

	if !fn.Arrow {
		scope.Declare("this", orUndefined(this), true)
	}
	for idx, p := range fn.Params {
		if p.Rest {
			rest := NewArray()
			if idx < len(args) {
				rest.Elements = append(rest.Elements, args[idx:]...)
			}
			i.bindPattern(p.Pattern, rest, false)
			continue
		}
		var val Value = Undefined
		if idx < len(args) {
			val = args[idx]
		}
		if _, isUndef := val.(UndefinedValue); isUndef && p.Default != nil {
			val = i.evalExpr(p.Default)
		}
		i.bindPattern(p.Pattern, val, false)
	}
}

func orUndefined(v Value) Value {
	if v == nil {
		return Undefined
	}
	return v
}

// bindPattern declares every binding a parameter/destructuring pattern
// introduces in the current scope, mirroring internal/checker's
// declarePattern but against runtime values instead of inferred types.
func (i *Interpreter) bindPattern(p ast.Pattern, val Value, isConst bool) {
	switch v := p.(type) {
	case *ast.Ident:
		i.env.Declare(v.Name, val, isConst)
	case *ast.ArrayLiteral:
		elems, isArr := val.(*Array)
		for idx, el := range v.Elements {
			if el.Value == nil {
				continue
			}
			if spread, ok := el.Value.(*ast.SpreadExpr); ok {
				rest := NewArray()
				if isArr && idx < len(elems.Elements) {
					rest.Elements = append(rest.Elements, elems.Elements[idx:]...)
				}
				i.bindPattern(patternOf(spread.Value), rest, isConst)
				continue
			}
			var ev Value = Undefined
			if isArr && idx < len(elems.Elements) {
				ev = elems.Elements[idx]
			}
			i.bindPattern(patternOf(el.Value), ev, isConst)
		}
	case *ast.ObjectLiteral:
		taken := map[string]bool{}
		for _, prop := range v.Properties {
			if prop.Spread {
				continue
			}
			name := objectKeyName(prop.Key)
			taken[name] = true
			fv := i.getProperty(val, name)
			if prop.Value != nil {
				i.bindPattern(patternOf(prop.Value), fv, isConst)
			} else {
				i.env.Declare(name, fv, isConst)
			}
		}
		for _, prop := range v.Properties {
			if !prop.Spread {
				continue
			}
			rest := NewObject()
			if src, ok := val.(*Object); ok {
				for _, k := range src.Keys {
					if !taken[k] {
						rest.Set(k, src.Fields[k])
					}
				}
			}
			i.bindPattern(patternOf(prop.Value), rest, isConst)
		}
	case *ast.DefaultPattern:
		actual := val
		if _, isUndef := val.(UndefinedValue); isUndef {
			actual = i.evalExpr(v.Default)
		}
		i.bindPattern(v.Target, actual, isConst)
	case *ast.SpreadExpr:
		i.bindPattern(patternOf(v.Value), val, isConst)
	}
}

func patternOf(e ast.Expr) ast.Pattern {
	if p, ok := e.(ast.Pattern); ok {
		return p
	}
	return &ast.Ident{}
}

