package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/types"
)

// checkExpr infers e's type, records it in the side table, and returns it.
func (c *Checker) checkExpr(e ast.Expr) types.Type {
	ty := c.inferExpr(e)
	c.types.set(e, ty)
	return ty
}

func (c *Checker) inferExpr(e ast.Expr) types.Type {
	switch v := e.(type) {
	case *ast.Ident:
		return c.checkIdent(v)
	case *ast.Literal:
		return c.checkLiteral(v)
	case *ast.BinaryExpr:
		return c.checkBinary(v)
	case *ast.LogicalExpr:
		return c.checkLogical(v)
	case *ast.UnaryExpr:
		return c.checkUnary(v)
	case *ast.CallExpr:
		return c.checkCall(v)
	case *ast.NewExpr:
		return c.checkNew(v)
	case *ast.MemberExpr:
		return c.checkMember(v)
	case *ast.IndexExpr:
		return c.checkIndex(v)
	case *ast.AssignExpr:
		return c.checkAssign(v)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(v)
	case *ast.ObjectLiteral:
		return c.checkObjectLiteral(v)
	case *ast.TemplateLiteral:
		for _, p := range v.Parts {
			if p.Expr != nil {
				c.checkExpr(p.Expr)
			}
		}
		return types.TString
	case *ast.FuncExpr:
		return c.checkFuncExpr(v)
	case *ast.ClassExpr:
		return c.checkClassExpr(v)
	case *ast.ConditionalExpr:
		return c.checkConditional(v)
	case *ast.SequenceExpr:
		var last types.Type = types.TVoid
		for _, x := range v.Exprs {
			last = c.checkExpr(x)
		}
		return last
	case *ast.SpreadExpr:
		return c.checkExpr(v.Value)
	case *ast.TypeAssertExpr:
		return c.checkTypeAssert(v)
	case *ast.NonNullExpr:
		return excludeNullish(c.checkExpr(v.Value))
	case *ast.YieldExpr:
		return c.checkYield(v)
	case *ast.AwaitExpr:
		return c.checkAwait(v)
	case *ast.GroupingExpr:
		return c.checkExpr(v.Value)
	default:
		return types.TAny
	}
}

func (c *Checker) checkIdent(id *ast.Ident) types.Type {
	if t, ok := c.scope.LookupNarrowed(id.Name, id.Name); ok {
		return t
	}
	if fn, ok := c.env.LookupFunction(id.Name); ok {
		return fn
	}
	if cls, ok := c.env.LookupClass(id.Name); ok {
		return cls
	}
	if en, ok := c.env.LookupEnum(id.Name); ok {
		return en
	}
	c.errorf(id.Span(), diagnostics.TYP006, "cannot find name '%s'", id.Name)
	return types.TAny
}

func (c *Checker) checkLiteral(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.LitNumber:
		return &types.Literal{Kind: types.NumberLiteral, Value: l.NumberValue}
	case ast.LitString:
		return &types.Literal{Kind: types.StringLiteral, Value: l.StringValue}
	case ast.LitBool:
		return &types.Literal{Kind: types.BooleanLiteral, Value: l.BoolValue}
	case ast.LitNull:
		return types.TNull
	case ast.LitUndefined:
		return types.TUndefined
	case ast.LitBigInt:
		return types.TBigInt
	case ast.LitRegex:
		if cls, ok := c.env.LookupClass("RegExp"); ok {
			return &types.Instance{Class: cls}
		}
		return types.TAny
	default:
		return types.TAny
	}
}

func (c *Checker) checkBinary(b *ast.BinaryExpr) types.Type {
	lt := c.checkExpr(b.Left)
	if b.Op == "typeof" { // parsed as UnaryExpr normally; defensive no-op
		return types.TString
	}
	rt := c.checkExpr(b.Right)
	switch b.Op {
	case "+":
		if isStringLike(lt) || isStringLike(rt) {
			return types.TString
		}
		return types.TNumber
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return types.TNumber
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return types.TBoolean
	default:
		return types.TAny
	}
}

func isStringLike(t types.Type) bool {
	if p, ok := t.(*types.Primitive); ok {
		return p.Kind == types.String
	}
	if l, ok := t.(*types.Literal); ok {
		return l.Kind == types.StringLiteral
	}
	return false
}

func (c *Checker) checkLogical(l *ast.LogicalExpr) types.Type {
	lt := c.checkExpr(l.Left)
	childScope := c.scope.Child()
	prevScope := c.scope
	c.scope = childScope
	if l.Op == "&&" {
		c.narrowCondition(l.Left, childScope, false)
	} else if l.Op == "||" {
		c.narrowCondition(l.Left, childScope, true)
	}
	rt := c.checkExpr(l.Right)
	c.scope = prevScope
	switch l.Op {
	case "&&":
		return rt
	case "||":
		return types.NewUnion(excludeNullish(lt), rt)
	case "??":
		return types.NewUnion(excludeNullish(lt), rt)
	default:
		return types.TAny
	}
}

func excludeNullish(t types.Type) types.Type {
	if u, ok := t.(*types.Union); ok {
		var kept []types.Type
		for _, m := range u.Members {
			if p, ok := m.(*types.Primitive); ok && (p.Kind == types.Null || p.Kind == types.Undefined) {
				continue
			}
			kept = append(kept, m)
		}
		return types.NewUnion(kept...)
	}
	return t
}

func (c *Checker) checkUnary(u *ast.UnaryExpr) types.Type {
	switch u.Op {
	case "typeof":
		c.checkExpr(u.Operand)
		return types.TString
	case "!":
		c.checkExpr(u.Operand)
		return types.TBoolean
	case "void":
		c.checkExpr(u.Operand)
		return types.TUndefined
	case "delete":
		c.checkExpr(u.Operand)
		return types.TBoolean
	case "-", "+", "~", "++", "--":
		c.checkExpr(u.Operand)
		return types.TNumber
	default:
		c.checkExpr(u.Operand)
		return types.TAny
	}
}

func (c *Checker) checkCall(call *ast.CallExpr) types.Type {
	calleeType := c.checkExpr(call.Callee)
	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = c.checkExpr(a)
	}
	return c.resolveCall(call, calleeType, argTypes)
}

func (c *Checker) checkNew(n *ast.NewExpr) types.Type {
	// `Promise` has no nominal Class the way Map/Set/Date/RegExp do — its
	// checked shape is the dedicated types.Promise wrapper every async
	// function's inferred return type already uses, so `new Promise(...)`
	// is resolved here rather than through the identifier/class lookup the
	// rest of this function falls through to.
	if id, ok := n.Callee.(*ast.Ident); ok && id.Name == "Promise" {
		if _, ok := c.scope.LookupNarrowed(id.Name, id.Name); !ok {
			if _, ok := c.env.LookupFunction(id.Name); !ok {
				if _, ok := c.env.LookupClass(id.Name); !ok {
					return c.checkPromiseConstructor(n)
				}
			}
		}
	}
	calleeType := c.checkExpr(n.Callee)
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	cls, ok := calleeType.(*types.Class)
	if !ok {
		c.errorf(n.Span(), diagnostics.TYP012, "this expression is not constructable")
		return types.TAny
	}
	if len(n.TypeArgs) > 0 && len(cls.TypeParams) > 0 {
		args := c.resolveArgs(n.TypeArgs, nil)
		ig := &types.InstantiatedGeneric{Def: &types.GenericClass{TypeParams: cls.TypeParams, Def: cls}, Args: args}
		if resolved, ok := ig.Resolve().(*types.Class); ok {
			cls = resolved
		}
	}
	return &types.Instance{Class: cls}
}

// checkPromiseConstructor type-checks `new Promise(executor)`'s argument
// and resolves to Promise<T> using an explicit `new Promise<T>(...)` type
// argument when given, falling back to Promise<any> the way an
// un-annotated executor's resolve callback would otherwise need full
// bidirectional inference to pin down precisely.
func (c *Checker) checkPromiseConstructor(n *ast.NewExpr) types.Type {
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	value := types.Type(types.TAny)
	if len(n.TypeArgs) > 0 {
		value = c.resolveType(n.TypeArgs[0], nil)
	}
	return &types.Promise{Value: value}
}

func (c *Checker) checkMember(m *ast.MemberExpr) types.Type {
	if id, ok := m.Object.(*ast.Ident); ok && id.Name == "super" {
		return c.checkSuperMember(m)
	}
	objType := c.checkExpr(m.Object)
	if path, root, ok := narrowPath(m); ok {
		if t, ok := c.scope.LookupNarrowed(path, root); ok {
			return t
		}
	}
	result := c.lookupMember(objType, m.Property, m.Span())
	if m.Optional {
		return types.NewUnion(result, types.TUndefined)
	}
	return result
}

// checkSuperMember resolves `super.name` against the enclosing class's
// superclass, since "super" is not an expression with its own type.
func (c *Checker) checkSuperMember(m *ast.MemberExpr) types.Type {
	if c.currentClass == nil || c.currentClass.frozen == nil || c.currentClass.frozen.Superclass == nil {
		c.errorf(m.Span(), diagnostics.TYP006, "'super' is only valid inside a derived class method")
		return types.TAny
	}
	if t := findAnyMember(c.currentClass.frozen.Superclass, m.Property); t != nil {
		return t
	}
	c.errorf(m.Span(), diagnostics.TYP002, "property '%s' does not exist on the base class", m.Property)
	return types.TAny
}

func (c *Checker) lookupMember(objType types.Type, name string, span ast.Span) types.Type {
	objType = c.expand(objType)
	switch v := objType.(type) {
	case *types.Record:
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Type
			}
		}
		if v.StringIndex != nil {
			return v.StringIndex
		}
	case *types.Interface:
		for _, f := range v.Members {
			if f.Name == name {
				return f.Type
			}
		}
		if v.StringIndex != nil {
			return v.StringIndex
		}
	case *types.Instance:
		if t := findAnyMember(v.Class, name); t != nil {
			return t
		}
	case *types.Class:
		if t := findStaticMember(v, name); t != nil {
			return t
		}
	case *types.Enum:
		for _, m := range v.Members {
			if m.Name == name {
				return &types.Literal{Kind: enumLiteralKind(m.Value), Value: m.Value}
			}
		}
	case *types.Array:
		if t := arrayBuiltinMember(v, name); t != nil {
			return t
		}
	case *types.Primitive:
		if v.Kind == types.String {
			if t := stringBuiltinMember(name); t != nil {
				return t
			}
		}
	}
	c.errorf(span, diagnostics.TYP002, "property '%s' does not exist on type '%s'", name, objType.String())
	return types.TAny
}

func enumLiteralKind(v interface{}) types.LiteralKind {
	switch v.(type) {
	case string:
		return types.StringLiteral
	default:
		return types.NumberLiteral
	}
}

func findAnyMember(cls *types.Class, name string) types.Type {
	for cur := cls; cur != nil; cur = cur.Superclass {
		for _, groups := range [][]types.Member{cur.Fields, cur.Methods, cur.Getters} {
			for _, m := range groups {
				if m.Name == name {
					return m.Type
				}
			}
		}
	}
	return nil
}

func findStaticMember(cls *types.Class, name string) types.Type {
	for cur := cls; cur != nil; cur = cur.Superclass {
		for _, groups := range [][]types.Member{cur.Fields, cur.Methods, cur.Getters} {
			for _, m := range groups {
				if m.Static && m.Name == name {
					return m.Type
				}
			}
		}
	}
	return nil
}

func arrayBuiltinMember(a *types.Array, name string) types.Type {
	switch name {
	case "length":
		return types.TNumber
	case "push", "unshift":
		return &types.FuncType{Params: []types.Param{{Name: "items", Type: a.Element, Rest: true}}, Return: types.TNumber, HasRest: true}
	case "pop", "shift":
		return &types.FuncType{Return: types.NewUnion(a.Element, types.TUndefined)}
	case "map":
		return &types.FuncType{Params: []types.Param{{Name: "fn", Type: types.TAny}}, MinArity: 1, Return: &types.Array{Element: types.TAny}}
	case "filter":
		return &types.FuncType{Params: []types.Param{{Name: "fn", Type: types.TAny}}, MinArity: 1, Return: a}
	case "forEach":
		return &types.FuncType{Params: []types.Param{{Name: "fn", Type: types.TAny}}, MinArity: 1, Return: types.TVoid}
	case "slice":
		return &types.FuncType{Return: a}
	case "includes":
		return &types.FuncType{Params: []types.Param{{Name: "v", Type: a.Element}}, MinArity: 1, Return: types.TBoolean}
	case "join":
		return &types.FuncType{Return: types.TString}
	case "indexOf":
		return &types.FuncType{Params: []types.Param{{Name: "v", Type: a.Element}}, MinArity: 1, Return: types.TNumber}
	case "reduce":
		return &types.FuncType{Params: []types.Param{{Name: "fn", Type: types.TAny}, {Name: "init", Type: types.TAny, Optional: true}}, MinArity: 1, Return: types.TAny}
	}
	return nil
}

func stringBuiltinMember(name string) types.Type {
	switch name {
	case "length":
		return types.TNumber
	case "toUpperCase", "toLowerCase", "trim":
		return &types.FuncType{Return: types.TString}
	case "charAt", "slice", "substring":
		return &types.FuncType{Return: types.TString}
	case "split":
		return &types.FuncType{Return: &types.Array{Element: types.TString}}
	case "includes", "startsWith", "endsWith":
		return &types.FuncType{Params: []types.Param{{Name: "s", Type: types.TString}}, MinArity: 1, Return: types.TBoolean}
	case "indexOf":
		return &types.FuncType{Return: types.TNumber}
	case "concat":
		return &types.FuncType{Return: types.TString}
	}
	return nil
}

func (c *Checker) checkIndex(ix *ast.IndexExpr) types.Type {
	objType := c.checkExpr(ix.Object)
	idxType := c.checkExpr(ix.Index)
	if path, root, ok := narrowPath(ix); ok {
		if t, ok := c.scope.LookupNarrowed(path, root); ok {
			return t
		}
	}
	objType = c.expand(objType)
	switch v := objType.(type) {
	case *types.Array:
		return v.Element
	case *types.Tuple:
		if lit, ok := ix.Index.(*ast.Literal); ok && lit.Kind == ast.LitNumber {
			n := int(lit.NumberValue)
			if n >= 0 && n < len(v.Elements) {
				return v.Elements[n].Type
			}
			c.errorf(ix.Span(), diagnostics.RUN001, "index %d is out of bounds on a tuple of length %d", n, len(v.Elements))
			return types.TUndefined
		}
		return types.TAny
	case *types.Record:
		if v.StringIndex != nil {
			return v.StringIndex
		}
		if v.NumberIndex != nil {
			return v.NumberIndex
		}
	case *types.Primitive:
		if v.Kind == types.String {
			return types.TString
		}
	}
	_ = idxType
	c.errorf(ix.Span(), diagnostics.TYP009, "type '%s' cannot be indexed", objType.String())
	return types.TAny
}

func (c *Checker) checkAssign(a *ast.AssignExpr) types.Type {
	lt := c.checkExpr(a.Left)
	rt := c.checkExpr(a.Right)
	if a.Op == "=" {
		if !types.IsCompatible(lt, rt) {
			c.errorf(a.Right.Span(), diagnostics.TYP001, "type '%s' is not assignable to type '%s'", rt.String(), lt.String())
		}
	}
	if path, _, ok := narrowPath(a.Left); ok {
		c.scope.Invalidate(path)
		if a.Op == "=" {
			c.scope.Narrow(path, rt)
		}
	}
	return rt
}

func (c *Checker) checkArrayLiteral(arr *ast.ArrayLiteral) types.Type {
	var members []types.Type
	for _, el := range arr.Elements {
		if el.Value == nil {
			continue
		}
		t := c.checkExpr(el.Value)
		if el.Spread {
			if inner, ok := c.expand(t).(*types.Array); ok {
				t = inner.Element
			}
		}
		members = append(members, widenLiteral(t))
	}
	if len(members) == 0 {
		return &types.Array{Element: types.TAny}
	}
	return &types.Array{Element: types.NewUnion(members...)}
}

func widenLiteral(t types.Type) types.Type {
	if l, ok := t.(*types.Literal); ok {
		return l.Widen()
	}
	return t
}

func (c *Checker) checkObjectLiteral(o *ast.ObjectLiteral) types.Type {
	r := &types.Record{}
	for _, p := range o.Properties {
		if p.Spread {
			if p.Value != nil {
				if spread, ok := c.expand(c.checkExpr(p.Value)).(*types.Record); ok {
					r.Fields = append(r.Fields, spread.Fields...)
				}
			}
			continue
		}
		name := objectKeyName(p.Key)
		var ft types.Type
		if p.Value != nil {
			ft = widenLiteral(c.checkExpr(p.Value))
		} else if p.Shorthand {
			ft = c.checkIdent(&ast.Ident{Name: name})
		} else {
			ft = types.TAny
		}
		r.Fields = append(r.Fields, types.Field{Name: name, Type: ft})
	}
	return r
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
		return itoa(int64(n))
	}
	return "?"
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (c *Checker) checkFuncExpr(f *ast.FuncExpr) types.Type {
	scope, tparams := tparamScopeFrom(f.TypeParams)
	sig := c.resolveMethodSig(f.Params, f.ReturnType, scope).(*types.FuncType)
	if f.Async {
		if _, ok := sig.Return.(*types.Promise); !ok {
			sig.Return = &types.Promise{Value: sig.Return}
		}
	}
	c.checkFuncBody(f.Params, sig, f.Body, f.ExprBody, f.Async, f.Generator)
	if len(tparams) == 0 {
		return sig
	}
	return &types.GenericFunction{TypeParams: tparams, Signature: sig}
}

func (c *Checker) checkFuncBody(params []*ast.Param, sig *types.FuncType, body *ast.BlockStmt, exprBody ast.Expr, async, generator bool) {
	prevScope, prevReturn, prevAsync, prevGen := c.scope, c.currentReturn, c.inAsync, c.inGenerator
	c.scope = c.scope.Child()
	c.currentReturn, c.inAsync, c.inGenerator = sig.Return, async, generator
	for i, p := range params {
		if id, ok := p.Pattern.(*ast.Ident); ok && i < len(sig.Params) {
			c.scope.Declare(id.Name, sig.Params[i].Type, false)
		}
	}
	if body != nil {
		for _, s := range body.Statements {
			c.checkStmt(s)
		}
	} else if exprBody != nil {
		c.checkExpr(exprBody)
	}
	c.scope, c.currentReturn, c.inAsync, c.inGenerator = prevScope, prevReturn, prevAsync, prevGen
}

func (c *Checker) checkClassExpr(ce *ast.ClassExpr) types.Type {
	scope, tparams := tparamScopeFrom(ce.Class.TypeParams)
	mc := &types.MutableClass{Name: ce.Class.Name, TypeParams: tparams, IsAbstract: ce.Class.Abstract}
	return c.elaborateClass(pendingClass{decl: ce.Class, partial: mc, scope: scope})
}

func (c *Checker) checkConditional(cond *ast.ConditionalExpr) types.Type {
	c.checkExpr(cond.Cond)
	thenScope := c.scope.Child()
	c.narrowCondition(cond.Cond, thenScope, false)
	prev := c.scope
	c.scope = thenScope
	thenType := c.checkExpr(cond.Then)
	c.scope = prev

	elseScope := c.scope.Child()
	c.narrowCondition(cond.Cond, elseScope, true)
	c.scope = elseScope
	elseType := c.checkExpr(cond.Else)
	c.scope = prev

	return types.NewUnion(thenType, elseType)
}

func (c *Checker) checkTypeAssert(t *ast.TypeAssertExpr) types.Type {
	c.checkExpr(t.Value)
	if t.AsConst {
		return c.expand(c.checkExpr(t.Value))
	}
	return c.resolveType(t.Type, nil)
}

func (c *Checker) checkYield(y *ast.YieldExpr) types.Type {
	if y.Value != nil {
		c.checkExpr(y.Value)
	}
	return types.TAny
}

func (c *Checker) checkAwait(a *ast.AwaitExpr) types.Type {
	t := c.expand(c.checkExpr(a.Value))
	if p, ok := t.(*types.Promise); ok {
		return p.Value
	}
	return t
}
