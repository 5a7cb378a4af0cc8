package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/types"
)

// narrowCondition records every narrowing fact cond implies into scope. When
// negate is true, cond is treated as having evaluated falsy (the `else`
// branch, or a negated operand of `&&`/`||`).
func (c *Checker) narrowCondition(cond ast.Expr, scope *Scope, negate bool) {
	switch v := cond.(type) {
	case *ast.UnaryExpr:
		if v.Op == "!" && !v.Postfix {
			c.narrowCondition(v.Operand, scope, !negate)
		}
	case *ast.LogicalExpr:
		switch v.Op {
		case "&&":
			if !negate {
				c.narrowCondition(v.Left, scope, false)
				c.narrowCondition(v.Right, scope, false)
			}
		case "||":
			if negate {
				c.narrowCondition(v.Left, scope, true)
				c.narrowCondition(v.Right, scope, true)
			}
		}
	case *ast.GroupingExpr:
		c.narrowCondition(v.Value, scope, negate)
	case *ast.BinaryExpr:
		c.narrowBinary(v, scope, negate)
	case *ast.CallExpr:
		c.narrowPredicateCall(v, scope, negate)
	default:
		c.narrowTruthy(cond, scope, negate)
	}
}

// narrowTruthy handles a bare expression used as a condition (`if (x)`,
// `if (x.y)`): a true branch excludes null and undefined from a union
// (false/""/0 literal members are kept); a false branch keeps only the
// members that can be falsy: primitives and the false/""/0 literals.
func (c *Checker) narrowTruthy(e ast.Expr, scope *Scope, negate bool) {
	path, root, ok := narrowPath(e)
	if !ok {
		return
	}
	cur, ok := scope.LookupNarrowed(path, root)
	if !ok {
		return
	}
	if negate {
		scope.Narrow(path, narrowToFalsy(cur))
	} else {
		scope.Narrow(path, narrowExcludingNullish(cur))
	}
}

func narrowExcludingNullish(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	kept := make([]types.Type, 0, len(u.Members))
	for _, m := range u.Members {
		if p, ok := m.(*types.Primitive); ok && (p.Kind == types.Null || p.Kind == types.Undefined) {
			continue
		}
		kept = append(kept, m)
	}
	return types.NewUnion(kept...)
}

func narrowToFalsy(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	kept := make([]types.Type, 0, len(u.Members))
	for _, m := range u.Members {
		switch v := m.(type) {
		case *types.Primitive:
			kept = append(kept, m)
		case *types.Literal:
			if v.Value == false || v.Value == "" || v.Value == float64(0) {
				kept = append(kept, m)
			}
		}
	}
	return types.NewUnion(kept...)
}

func (c *Checker) narrowBinary(b *ast.BinaryExpr, scope *Scope, negate bool) {
	switch b.Op {
	case "===", "!==", "==", "!=":
		eq := b.Op == "===" || b.Op == "=="
		if negate {
			eq = !eq
		}
		c.narrowEquality(b.Left, b.Right, scope, eq)
		c.narrowEquality(b.Right, b.Left, scope, eq)
	case "instanceof":
		if negate {
			return
		}
		path, root, ok := narrowPath(b.Left)
		if !ok {
			return
		}
		if ref, ok := b.Right.(*ast.Ident); ok {
			if cls, ok := c.env.LookupClass(ref.Name); ok {
				scope.Narrow(path, &types.Instance{Class: cls})
			}
		}
	}
}

// narrowEquality handles `typeof x === "string"` and discriminated-union
// comparisons `x.kind === "circle"`; lhs is the side being tested, rhs the
// comparand.
func (c *Checker) narrowEquality(lhs, rhs ast.Expr, scope *Scope, eq bool) {
	if typeofExpr, ok := lhs.(*ast.UnaryExpr); ok && typeofExpr.Op == "typeof" {
		lit, ok := rhs.(*ast.Literal)
		if !ok || lit.Kind != ast.LitString {
			return
		}
		path, root, ok := narrowPath(typeofExpr.Operand)
		if !ok {
			return
		}
		cur, ok := scope.LookupNarrowed(path, root)
		if !ok {
			return
		}
		if eq {
			scope.Narrow(path, narrowByTypeofTag(cur, lit.StringValue))
		}
		return
	}
	path, root, ok := narrowPath(lhs)
	if !ok {
		return
	}
	lit, ok := rhs.(*ast.Literal)
	if !ok || !eq {
		return
	}
	cur, ok := scope.LookupNarrowed(path, root)
	if !ok {
		return
	}
	tag := literalTag(lit)
	if tag == nil {
		return
	}
	scope.Narrow(path, narrowByDiscriminant(cur, path, tag))
}

func literalTag(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitString:
		return &types.Literal{Kind: types.StringLiteral, Value: lit.StringValue}
	case ast.LitNumber:
		return &types.Literal{Kind: types.NumberLiteral, Value: lit.NumberValue}
	case ast.LitBool:
		return &types.Literal{Kind: types.BooleanLiteral, Value: lit.BoolValue}
	default:
		return nil
	}
}

func narrowByTypeofTag(t types.Type, tag string) types.Type {
	want := map[string]types.PrimitiveKind{
		"string": types.String, "number": types.Number, "boolean": types.Boolean,
		"symbol": types.Symbol, "bigint": types.BigInt, "undefined": types.Undefined,
	}
	kind, ok := want[tag]
	if !ok {
		return t
	}
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	for _, m := range u.Members {
		if p, ok := m.(*types.Primitive); ok && p.Kind == kind {
			return m
		}
	}
	return t
}

// narrowByDiscriminant keeps only union members whose field named by the
// last path segment of path is compatible with tag, implementing
// discriminated-union narrowing on `x.kind === "..."`.
func narrowByDiscriminant(t types.Type, path string, tag types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	field := lastSegment(path)
	var kept []types.Type
	for _, m := range u.Members {
		ft := fieldTypeOf(m, field)
		if ft == nil || types.IsCompatible(ft, tag) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return t
	}
	return types.NewUnion(kept...)
}

func lastSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return path
}

func fieldTypeOf(t types.Type, name string) types.Type {
	switch v := t.(type) {
	case *types.Record:
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Type
			}
		}
	case *types.Interface:
		for _, f := range v.Members {
			if f.Name == name {
				return f.Type
			}
		}
	case *types.Instance:
		return findMemberType(&types.MutableClass{Fields: v.Class.Fields}, name)
	}
	return nil
}

// narrowPredicateCall handles calls to a user type-predicate function
// (`function isCat(x): x is Cat`) as a condition.
func (c *Checker) narrowPredicateCall(call *ast.CallExpr, scope *Scope, negate bool) {
	if negate {
		return
	}
	ft := c.calleeFuncType(call.Callee)
	if ft == nil || ft.Predicate == nil || ft.Predicate.Type == nil {
		return
	}
	idx := paramIndex(ft, ft.Predicate.ParamName)
	if idx < 0 || idx >= len(call.Args) {
		return
	}
	path, _, ok := narrowPath(call.Args[idx])
	if !ok {
		return
	}
	scope.Narrow(path, ft.Predicate.Type)
}

func paramIndex(ft *types.FuncType, name string) int {
	for i, p := range ft.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (c *Checker) calleeFuncType(e ast.Expr) *types.FuncType {
	id, ok := e.(*ast.Ident)
	if !ok {
		return nil
	}
	fn, ok := c.env.LookupFunction(id.Name)
	if !ok {
		return nil
	}
	ft, _ := fn.(*types.FuncType)
	return ft
}
