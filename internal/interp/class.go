package interp

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
)

// evalClassDecl builds the runtime ClassValue for a class declaration or
// expression: method/getter/setter tables keyed by name, static members
// evaluated eagerly in declaration order, and field initializers captured
// (not yet run — they run per-instance during instantiate/constructor
// chaining, fields before the constructor body).
func (i *Interpreter) evalClassDecl(d *ast.ClassDecl, env *Environment) *ClassValue {
	cv := &ClassValue{
		Name:    d.Name,
		Methods: map[string]Value{},
		Getters: map[string]Value{},
		Setters: map[string]Value{},
		Statics: map[string]Value{},
	}
	if d.Superclass != nil {
		if ref, ok := d.Superclass.(*ast.TypeRef); ok {
			if sv, ok := env.Get(ref.Name); ok {
				if sc, ok := sv.(*ClassValue); ok {
					cv.Super = sc
				}
			}
		}
	}

	for _, m := range d.Members {
		switch m.Kind {
		case ast.MemberConstructor:
			if m.Body != nil {
				cv.Ctor = &Function{Name: "constructor", Params: m.Params, Body: m.Body, Closure: env}
			}
			for _, p := range m.Params {
				if p.AccessMod != "" {
					cv.FieldInits = append(cv.FieldInits, fieldInit{Name: paramPatternName(p), Init: nil, Env: env})
				}
			}
		case ast.MemberMethod:
			fn := &Function{Name: m.Name, Params: m.Params, Body: m.Body, Closure: env, Async: m.Async, Generator: m.Generator}
			if m.Static {
				cv.Statics[m.Name] = fn
			} else {
				cv.Methods[m.Name] = fn
			}
		case ast.MemberGetter:
			fn := &Function{Name: m.Name, Params: nil, Body: m.Body, Closure: env}
			if m.Static {
				cv.Statics[m.Name] = fn
			} else {
				cv.Getters[m.Name] = fn
			}
		case ast.MemberSetter:
			fn := &Function{Name: m.Name, Params: m.Params, Body: m.Body, Closure: env}
			cv.Setters[m.Name] = fn
		case ast.MemberField:
			if m.Static {
				var val Value = Undefined
				if m.Init != nil {
					prev := i.env
					i.env = env.Child()
					i.env.Declare("this", cv, true)
					val = i.evalExpr(m.Init)
					i.env = prev
				}
				cv.Statics[m.Name] = val
			} else {
				cv.FieldInits = append(cv.FieldInits, fieldInit{Name: m.Name, Init: m.Init, Env: env})
			}
		}
	}
	return cv
}

func paramPatternName(p *ast.Param) string {
	if id, ok := p.Pattern.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// instantiate allocates an Instance, runs every field initializer down
// the superclass chain (base class fields first), then invokes the
// constructor chain, running field initializers before the constructor
// body at each class level.
func (i *Interpreter) instantiate(cv *ClassValue, args []Value) Value {
	inst := NewInstance(cv)
	i.runFieldInits(cv, inst)
	i.runConstructor(cv, inst, args)
	return inst
}

func (i *Interpreter) runFieldInits(cv *ClassValue, inst *Instance) {
	if cv == nil {
		return
	}
	i.runFieldInits(cv.Super, inst)
	for _, f := range cv.FieldInits {
		var val Value = Undefined
		if f.Init != nil {
			prev := i.env
			i.env = f.Env.Child()
			i.env.Declare("this", inst, true)
			val = i.evalExpr(f.Init)
			i.env = prev
		}
		if _, exists := inst.Fields[f.Name]; !exists {
			inst.Fields[f.Name] = val
		}
	}
}

// runConstructor invokes cv's constructor against inst. A class without
// its own constructor implicitly forwards args to the superclass
// constructor (the default-constructor rule); parameter
// properties (`constructor(public x: T)`) assign the matching field from
// the bound parameter right after the parameters are bound, before any
// body statement (a `super(...)` call included) runs, matching how the checker's collectMember synthesizes them as
// fields in declaration order.
func (i *Interpreter) runConstructor(cv *ClassValue, inst *Instance, args []Value) {
	if cv.Ctor == nil {
		if cv.NativeCtor != nil {
			cv.NativeCtor(inst, args)
			return
		}
		if cv.Super != nil {
			i.runConstructorArgsOnly(cv.Super, inst, args)
		}
		return
	}
	scope := cv.Ctor.Closure.Child()
	scope.Declare("this", inst, true)
	prevClass := i.currentClass
	i.currentClass = cv
	i.bindParams(cv.Ctor, scope, inst, args)
	for idx, p := range cv.Ctor.Params {
		if p.AccessMod == "" {
			continue
		}
		if idx < len(args) {
			inst.Fields[paramPatternName(p)] = args[idx]
		}
	}
	prevEnv := i.env
	i.env = scope
	for _, stmt := range cv.Ctor.Body.Statements {
		i.execStmt(stmt)
		if i.ctrl != ctrlNone {
			break
		}
	}
	i.env = prevEnv
	i.currentClass = prevClass
	if i.ctrl == ctrlReturn {
		i.ctrl, i.ctrlValue = ctrlNone, nil
	}
}

// runConstructorArgsOnly forwards args straight up the chain when a class
// (or one of its ancestors) declares no constructor of its own.
func (i *Interpreter) runConstructorArgsOnly(cv *ClassValue, inst *Instance, args []Value) {
	if cv.Ctor != nil || cv.NativeCtor != nil {
		i.runConstructor(cv, inst, args)
		return
	}
	if cv.Super != nil {
		i.runConstructorArgsOnly(cv.Super, inst, args)
	}
}

func (i *Interpreter) evalSuperCall(c *ast.CallExpr) Value {
	if i.currentClass == nil || i.currentClass.Super == nil {
		return i.throwError("SyntaxError", "'super' keyword is only valid inside a class with a superclass")
	}
	args := i.evalArgs(c.Args, c.SpreadArgIdx)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	inst, _ := i.currentThis().(*Instance)
	super := i.currentClass.Super
	prevClass := i.currentClass
	i.currentClass = super
	i.runConstructorArgsOnly(super, inst, args)
	i.currentClass = prevClass
	return Undefined
}

func (i *Interpreter) superMember(name string) Value {
	if i.currentClass == nil || i.currentClass.Super == nil {
		return i.throwError("SyntaxError", "'super' keyword is only valid inside a class with a superclass")
	}
	this := i.currentThis()
	if getter, cls := i.currentClass.Super.findGetter(name); getter != nil {
		prev := i.currentClass
		i.currentClass = cls
		v := i.invokeGetter(getter, this)
		i.currentClass = prev
		return v
	}
	if m, cls := i.currentClass.Super.findMethod(name); m != nil {
		return &BoundMethod{Receiver: this, Fn: m, DefClass: cls}
	}
	if in, ok := this.(*Instance); ok {
		if v, ok := in.Fields[name]; ok {
			return v
		}
	}
	return i.throwError("TypeError", fmt.Sprintf("super.%s is not defined", name))
}

func (i *Interpreter) superMethod(name string) Value {
	if i.currentClass == nil || i.currentClass.Super == nil {
		return i.throwError("SyntaxError", "'super' keyword is only valid inside a class with a superclass")
	}
	m, cls := i.currentClass.Super.findMethod(name)
	if m == nil {
		return i.throwError("TypeError", fmt.Sprintf("super.%s is not a function", name))
	}
	return &BoundMethod{Receiver: i.currentThis(), Fn: m, DefClass: cls}
}

// invokeGetter/invokeSetter run an accessor (a *Function or a builtins-
// registered *NativeFunction) with `this` bound.
func (i *Interpreter) invokeGetter(fn Value, this Value) Value {
	return i.callValue(fn, this, nil)
}

func (i *Interpreter) invokeSetter(fn Value, this Value, val Value) {
	i.callValue(fn, this, []Value{val})
}
