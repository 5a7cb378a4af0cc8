package interp

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/sharpts/sharpts/internal/ast"
)

func (i *Interpreter) evalExpr(e ast.Expr) Value {
	switch v := e.(type) {
	case *ast.Ident:
		return i.evalIdent(v)
	case *ast.Literal:
		return i.evalLiteral(v)
	case *ast.BinaryExpr:
		return i.evalBinary(v)
	case *ast.LogicalExpr:
		return i.evalLogical(v)
	case *ast.UnaryExpr:
		return i.evalUnary(v)
	case *ast.CallExpr:
		return i.evalCall(v)
	case *ast.NewExpr:
		return i.evalNew(v)
	case *ast.MemberExpr:
		return i.evalMember(v)
	case *ast.IndexExpr:
		return i.evalIndex(v)
	case *ast.AssignExpr:
		return i.evalAssign(v)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(v)
	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(v)
	case *ast.TemplateLiteral:
		return i.evalTemplateLiteral(v)
	case *ast.FuncExpr:
		return i.evalFuncExpr(v)
	case *ast.ClassExpr:
		return i.evalClassDecl(v.Class, i.env)
	case *ast.ConditionalExpr:
		cond := i.evalExpr(v.Cond)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		if Truthy(cond) {
			return i.evalExpr(v.Then)
		}
		return i.evalExpr(v.Else)
	case *ast.SequenceExpr:
		var last Value = Undefined
		for _, x := range v.Exprs {
			last = i.evalExpr(x)
			if i.ctrl != ctrlNone {
				return Undefined
			}
		}
		return last
	case *ast.SpreadExpr:
		return i.evalExpr(v.Value)
	case *ast.TypeAssertExpr:
		return i.evalExpr(v.Value)
	case *ast.NonNullExpr:
		return i.evalExpr(v.Value)
	case *ast.GroupingExpr:
		return i.evalExpr(v.Value)
	case *ast.YieldExpr:
		return i.evalYield(v)
	case *ast.AwaitExpr:
		val := i.evalExpr(v.Value)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		return i.awaitValue(val)
	}
	return Undefined
}

func (i *Interpreter) evalIdent(id *ast.Ident) Value {
	if v, ok := i.env.Get(id.Name); ok {
		return v
	}
	if v, ok := i.global.Get(id.Name); ok {
		return v
	}
	return i.throwError("ReferenceError", id.Name+" is not defined")
}

func (i *Interpreter) evalLiteral(l *ast.Literal) Value {
	switch l.Kind {
	case ast.LitNumber:
		return Number(l.NumberValue)
	case ast.LitString:
		return Str(l.StringValue)
	case ast.LitBool:
		return Bool(l.BoolValue)
	case ast.LitNull:
		return Null
	case ast.LitUndefined:
		return Undefined
	case ast.LitBigInt:
		n := new(big.Int)
		n.SetString(l.BigIntValue, 10)
		return &BigIntValue{V: n}
	case ast.LitRegex:
		re, err := NewRegExpValue(l.RegexPattern, l.RegexFlags)
		if err != nil {
			return i.throwError("SyntaxError", "Invalid regular expression: "+err.Error())
		}
		return re
	}
	return Undefined
}

func (i *Interpreter) evalYield(y *ast.YieldExpr) Value {
	var val Value = Undefined
	if y.Value != nil {
		val = i.evalExpr(y.Value)
		if i.ctrl != ctrlNone {
			return Undefined
		}
	}
	if y.Delegate {
		it := i.newIterator(val)
		if it == nil {
			return i.throwError("TypeError", val.Kind()+" is not iterable")
		}
		var last Value = Undefined
		for {
			v, done := it.Next(i)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			if done {
				last = v
				break
			}
			last = i.doYield(v)
			if i.ctrl != ctrlNone {
				return Undefined
			}
		}
		return last
	}
	return i.doYield(val)
}

func (i *Interpreter) evalBinary(b *ast.BinaryExpr) Value {
	left := i.evalExpr(b.Left)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	if b.Op == "instanceof" {
		right := i.evalExpr(b.Right)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		return Bool(isInstanceOf(left, right))
	}
	if b.Op == "in" {
		right := i.evalExpr(b.Right)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		return Bool(hasProperty(right, toKeyString(left)))
	}
	right := i.evalExpr(b.Right)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	return applyBinary(i, b.Op, left, right)
}

func applyBinary(i *Interpreter, op string, left, right Value) Value {
	switch op {
	case "+":
		if ls, ok := left.(Str); ok {
			return ls + Str(toDisplayString(right))
		}
		if rs, ok := right.(Str); ok {
			return Str(toDisplayString(left)) + rs
		}
		return Number(toNumber(left) + toNumber(right))
	case "-":
		return Number(toNumber(left) - toNumber(right))
	case "*":
		return Number(toNumber(left) * toNumber(right))
	case "/":
		return Number(toNumber(left) / toNumber(right))
	case "%":
		return Number(math.Mod(toNumber(left), toNumber(right)))
	case "**":
		return Number(math.Pow(toNumber(left), toNumber(right)))
	case "==":
		return Bool(looseEquals(left, right))
	case "!=":
		return Bool(!looseEquals(left, right))
	case "===":
		return Bool(strictEquals(left, right))
	case "!==":
		return Bool(!strictEquals(left, right))
	case "<":
		return compareValues(left, right, func(c int) bool { return c < 0 })
	case "<=":
		return compareValues(left, right, func(c int) bool { return c <= 0 })
	case ">":
		return compareValues(left, right, func(c int) bool { return c > 0 })
	case ">=":
		return compareValues(left, right, func(c int) bool { return c >= 0 })
	case "&":
		return Number(float64(int64(toNumber(left)) & int64(toNumber(right))))
	case "|":
		return Number(float64(int64(toNumber(left)) | int64(toNumber(right))))
	case "^":
		return Number(float64(int64(toNumber(left)) ^ int64(toNumber(right))))
	case "<<":
		return Number(float64(int64(toNumber(left)) << uint(int64(toNumber(right))&31)))
	case ">>":
		return Number(float64(int64(toNumber(left)) >> uint(int64(toNumber(right))&31)))
	case ">>>":
		return Number(float64(uint32(int64(toNumber(left))) >> uint(int64(toNumber(right))&31)))
	}
	return i.throwError("TypeError", "unsupported operator "+op)
}

func compareValues(left, right Value, ok func(int) bool) Value {
	if ls, lok := left.(Str); lok {
		if rs, rok := right.(Str); rok {
			return Bool(ok(strings.Compare(string(ls), string(rs))))
		}
	}
	lf, rf := toNumber(left), toNumber(right)
	switch {
	case lf < rf:
		return Bool(ok(-1))
	case lf > rf:
		return Bool(ok(1))
	default:
		return Bool(ok(0))
	}
}

func (i *Interpreter) evalLogical(l *ast.LogicalExpr) Value {
	left := i.evalExpr(l.Left)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	switch l.Op {
	case "&&":
		if !Truthy(left) {
			return left
		}
		return i.evalExpr(l.Right)
	case "||":
		if Truthy(left) {
			return left
		}
		return i.evalExpr(l.Right)
	case "??":
		if _, isNull := left.(NullValue); isNull {
			return i.evalExpr(l.Right)
		}
		if _, isUndef := left.(UndefinedValue); isUndef {
			return i.evalExpr(l.Right)
		}
		return left
	}
	return Undefined
}

func (i *Interpreter) evalUnary(u *ast.UnaryExpr) Value {
	if u.Op == "typeof" {
		if id, ok := u.Operand.(*ast.Ident); ok {
			if v, found := i.env.Get(id.Name); found {
				return Str(v.Kind())
			}
			if v, found := i.global.Get(id.Name); found {
				return Str(v.Kind())
			}
			return Str("undefined")
		}
		v := i.evalExpr(u.Operand)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		return Str(v.Kind())
	}
	if u.Op == "delete" {
		if m, ok := u.Operand.(*ast.MemberExpr); ok {
			obj := i.evalExpr(m.Object)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			if o, ok := obj.(*Object); ok {
				o.Delete(m.Property)
			}
			return Bool(true)
		}
		if idx, ok := u.Operand.(*ast.IndexExpr); ok {
			obj := i.evalExpr(idx.Object)
			key := i.evalExpr(idx.Index)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			if o, ok := obj.(*Object); ok {
				o.Delete(toKeyString(key))
			}
			return Bool(true)
		}
		return Bool(true)
	}
	if u.Op == "++" || u.Op == "--" {
		old := i.evalExpr(u.Operand)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		delta := 1.0
		if u.Op == "--" {
			delta = -1.0
		}
		updated := Number(toNumber(old) + delta)
		i.assignTo(u.Operand, updated)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		if u.Postfix {
			return Number(toNumber(old))
		}
		return updated
	}
	v := i.evalExpr(u.Operand)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	switch u.Op {
	case "!":
		return Bool(!Truthy(v))
	case "-":
		return Number(-toNumber(v))
	case "+":
		return Number(toNumber(v))
	case "~":
		return Number(float64(^int64(toNumber(v))))
	case "void":
		return Undefined
	}
	return Undefined
}

func (i *Interpreter) evalCall(c *ast.CallExpr) Value {
	if sup, ok := c.Callee.(*ast.Ident); ok && sup.Name == "super" {
		return i.evalSuperCall(c)
	}
	var this Value = Undefined
	var callee Value
	if m, ok := c.Callee.(*ast.MemberExpr); ok {
		obj := i.evalExpr(m.Object)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		if m.Optional {
			if isNullish(obj) {
				return Undefined
			}
		}
		if id, ok := m.Object.(*ast.Ident); ok && id.Name == "super" {
			callee = i.superMethod(m.Property)
			this = i.currentThis()
		} else {
			this = obj
			callee = i.getProperty(obj, m.Property)
		}
	} else if idx, ok := c.Callee.(*ast.IndexExpr); ok {
		obj := i.evalExpr(idx.Object)
		key := i.evalExpr(idx.Index)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		this = obj
		callee = i.getProperty(obj, toKeyString(key))
	} else {
		callee = i.evalExpr(c.Callee)
	}
	if i.ctrl != ctrlNone {
		return Undefined
	}
	if c.Optional && isNullish(callee) {
		return Undefined
	}
	args := i.evalArgs(c.Args, c.SpreadArgIdx)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	if callee == nil {
		return i.throwError("TypeError", "value is not a function")
	}
	return i.callValue(callee, this, args)
}

func (i *Interpreter) evalArgs(args []ast.Expr, spreadIdx []int) []Value {
	spread := map[int]bool{}
	for _, idx := range spreadIdx {
		spread[idx] = true
	}
	out := make([]Value, 0, len(args))
	for idx, a := range args {
		v := i.evalExpr(a)
		if i.ctrl != ctrlNone {
			return nil
		}
		if spread[idx] {
			out = append(out, i.spreadToSlice(v)...)
			if i.ctrl != ctrlNone {
				return nil
			}
			continue
		}
		out = append(out, v)
	}
	return out
}

func (i *Interpreter) evalMember(m *ast.MemberExpr) Value {
	if id, ok := m.Object.(*ast.Ident); ok && id.Name == "super" {
		return i.superMember(m.Property)
	}
	obj := i.evalExpr(m.Object)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	if m.Optional && isNullish(obj) {
		return Undefined
	}
	return i.getProperty(obj, m.Property)
}

func (i *Interpreter) evalIndex(ix *ast.IndexExpr) Value {
	obj := i.evalExpr(ix.Object)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	if ix.Optional && isNullish(obj) {
		return Undefined
	}
	key := i.evalExpr(ix.Index)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	return i.getProperty(obj, toKeyString(key))
}

func (i *Interpreter) evalNew(n *ast.NewExpr) Value {
	callee := i.evalExpr(n.Callee)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	args := i.evalArgs(n.Args, nil)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	switch cv := callee.(type) {
	case *ClassValue:
		return i.instantiate(cv, args)
	case *NativeClass:
		return cv.New(i, args)
	default:
		return i.throwError("TypeError", callee.String()+" is not a constructor")
	}
}

func (i *Interpreter) evalAssign(a *ast.AssignExpr) Value {
	if a.Op == "=" {
		if pat, ok := a.Left.(ast.Pattern); ok {
			if _, isIdent := a.Left.(*ast.Ident); !isIdent {
				rhs := i.evalExpr(a.Right)
				if i.ctrl != ctrlNone {
					return Undefined
				}
				i.destructureAssign(pat, rhs)
				return rhs
			}
		}
		rhs := i.evalExpr(a.Right)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		i.assignTo(a.Left, rhs)
		return rhs
	}
	// compound assignment: `x op= y` is `x = x op y`, with short-circuit
	// forms (&&=, ||=, ??=) only evaluating/assigning the right side when
	// the corresponding logical test says to.
	cur := i.evalExpr(a.Left)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	switch a.Op {
	case "&&=":
		if !Truthy(cur) {
			return cur
		}
	case "||=":
		if Truthy(cur) {
			return cur
		}
	case "??=":
		if !isNullish(cur) {
			return cur
		}
	}
	rhs := i.evalExpr(a.Right)
	if i.ctrl != ctrlNone {
		return Undefined
	}
	var result Value
	switch a.Op {
	case "&&=", "||=", "??=":
		result = rhs
	default:
		result = applyBinary(i, strings.TrimSuffix(a.Op, "="), cur, rhs)
	}
	if i.ctrl != ctrlNone {
		return Undefined
	}
	i.assignTo(a.Left, result)
	return result
}

// assignTo writes val to the location an identifier/member/index
// expression names, throwing a ReferenceError/TypeError for anything else
// (assigning to a literal, a call result, ...).
func (i *Interpreter) assignTo(target ast.Expr, val Value) {
	switch t := target.(type) {
	case *ast.Ident:
		if err := i.env.Assign(t.Name, val); err != nil {
			i.throwError("TypeError", err.Error())
		}
	case *ast.MemberExpr:
		obj := i.evalExpr(t.Object)
		if i.ctrl != ctrlNone {
			return
		}
		i.setProperty(obj, t.Property, val)
	case *ast.IndexExpr:
		obj := i.evalExpr(t.Object)
		key := i.evalExpr(t.Index)
		if i.ctrl != ctrlNone {
			return
		}
		i.setProperty(obj, toKeyString(key), val)
	default:
		i.throwError("ReferenceError", "Invalid left-hand side in assignment")
	}
}

func (i *Interpreter) destructureAssign(p ast.Pattern, val Value) {
	switch v := p.(type) {
	case *ast.ArrayLiteral:
		elems, _ := val.(*Array)
		for idx, el := range v.Elements {
			if el.Value == nil {
				continue
			}
			if spread, ok := el.Value.(*ast.SpreadExpr); ok {
				rest := NewArray()
				if elems != nil && idx < len(elems.Elements) {
					rest.Elements = append(rest.Elements, elems.Elements[idx:]...)
				}
				i.assignTo(spread.Value, rest)
				continue
			}
			var ev Value = Undefined
			if elems != nil && idx < len(elems.Elements) {
				ev = elems.Elements[idx]
			}
			if def, ok := el.Value.(*ast.DefaultPattern); ok {
				if _, isUndef := ev.(UndefinedValue); isUndef {
					ev = i.evalExpr(def.Default)
				}
				i.assignTo(def.Target.(ast.Expr), ev)
				continue
			}
			i.assignTo(el.Value, ev)
		}
	case *ast.ObjectLiteral:
		for _, prop := range v.Properties {
			if prop.Spread {
				continue
			}
			name := objectKeyName(prop.Key)
			fv := i.getProperty(val, name)
			i.assignTo(prop.Value, fv)
		}
	}
}

func (i *Interpreter) evalArrayLiteral(a *ast.ArrayLiteral) Value {
	out := NewArray()
	for _, el := range a.Elements {
		if el.Value == nil {
			out.Elements = append(out.Elements, Undefined)
			continue
		}
		if el.Spread {
			v := i.evalExpr(el.Value)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			out.Elements = append(out.Elements, i.spreadToSlice(v)...)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			continue
		}
		v := i.evalExpr(el.Value)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		out.Elements = append(out.Elements, v)
	}
	return out
}

func (i *Interpreter) evalObjectLiteral(o *ast.ObjectLiteral) Value {
	out := NewObject()
	for _, prop := range o.Properties {
		if prop.Spread {
			v := i.evalExpr(prop.Value)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			if src, ok := v.(*Object); ok {
				for _, k := range src.Keys {
					out.Set(k, src.Fields[k])
				}
			}
			continue
		}
		name := objectKeyName(prop.Key)
		if prop.Key.Kind == ast.KeyComputed {
			kv := i.evalExpr(prop.Key.Computed)
			if i.ctrl != ctrlNone {
				return Undefined
			}
			name = toKeyString(kv)
		}
		if prop.Shorthand {
			v, _ := i.env.Get(name)
			out.Set(name, orUndefined(v))
			continue
		}
		v := i.evalExpr(prop.Value)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		out.Set(name, v)
	}
	return out
}

func objectKeyName(k ast.ObjectKey) string {
	switch k.Kind {
	case ast.KeyString:
		return k.String
	case ast.KeyNumber:
		return formatNumberKey(k.Number)
	default:
		return k.Ident
	}
}

func formatNumberKey(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func (i *Interpreter) evalTemplateLiteral(t *ast.TemplateLiteral) Value {
	var sb strings.Builder
	for _, p := range t.Parts {
		if p.Expr == nil {
			sb.WriteString(p.Literal)
			continue
		}
		v := i.evalExpr(p.Expr)
		if i.ctrl != ctrlNone {
			return Undefined
		}
		sb.WriteString(toDisplayString(v))
	}
	return Str(sb.String())
}

func (i *Interpreter) evalFuncExpr(f *ast.FuncExpr) Value {
	fn := &Function{Name: f.Name, Params: f.Params, Body: f.Body, ExprBody: f.ExprBody, Closure: i.env, Arrow: f.Arrow, Async: f.Async, Generator: f.Generator}
	if f.Arrow {
		if this, ok := i.env.Get("this"); ok {
			fn.This = this
		} else {
			fn.This = Undefined
		}
	}
	return fn
}

func isNullish(v Value) bool {
	switch v.(type) {
	case NullValue, UndefinedValue:
		return true
	default:
		return false
	}
}

func toKeyString(v Value) string {
	if s, ok := v.(Str); ok {
		return string(s)
	}
	return toDisplayString(v)
}

func toDisplayString(v Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

func toNumber(v Value) float64 {
	switch x := v.(type) {
	case Number:
		return float64(x)
	case Bool:
		if x {
			return 1
		}
		return 0
	case Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case NullValue:
		return 0
	case UndefinedValue:
		return math.NaN()
	default:
		return math.NaN()
	}
}

func looseEquals(a, b Value) bool {
	if strictEquals(a, b) {
		return true
	}
	if isNullish(a) || isNullish(b) {
		return isNullish(a) && isNullish(b)
	}
	return toNumber(a) == toNumber(b)
}

func isInstanceOf(v Value, class Value) bool {
	if nc, ok := class.(*NativeClass); ok {
		return nativeClassMatches(v, nc.Name)
	}
	cv, ok := class.(*ClassValue)
	if !ok {
		return false
	}
	in, ok := v.(*Instance)
	if !ok {
		return false
	}
	for cur := in.Class; cur != nil; cur = cur.Super {
		if cur == cv {
			return true
		}
	}
	return false
}

// nativeClassMatches backs `instanceof` against the handful of builtin
// constructors whose runtime shape is a dedicated Value type rather than
// an *Instance (Promise, Map, Set, Date, RegExp).
func nativeClassMatches(v Value, className string) bool {
	switch className {
	case "Promise":
		_, ok := v.(*PromiseValue)
		return ok
	case "Map":
		_, ok := v.(*MapValue)
		return ok
	case "Set":
		_, ok := v.(*SetValue)
		return ok
	case "Date":
		_, ok := v.(*DateValue)
		return ok
	case "RegExp":
		_, ok := v.(*RegExpValue)
		return ok
	}
	return false
}

func hasProperty(v Value, key string) bool {
	switch o := v.(type) {
	case *Object:
		_, ok := o.Get(key)
		return ok
	case *Instance:
		if _, ok := o.Fields[key]; ok {
			return true
		}
		_, cls := o.Class.findMethod(key)
		return cls != nil
	case *Array:
		idx, err := strconv.Atoi(key)
		return err == nil && idx >= 0 && idx < len(o.Elements)
	}
	return false
}

func (i *Interpreter) currentThis() Value {
	if v, ok := i.env.Get("this"); ok {
		return v
	}
	return Undefined
}
