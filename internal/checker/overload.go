package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/types"
)

// resolveCall picks the signature a call site binds to and returns its
// result type. calleeType may be *types.FuncType, *types.OverloadedFunction,
// *types.GenericFunction, or *types.InstantiatedGeneric (resolved).
func (c *Checker) resolveCall(call *ast.CallExpr, calleeType types.Type, argTypes []types.Type) types.Type {
	switch ft := calleeType.(type) {
	case *types.FuncType:
		return c.bindCall(call, ft, argTypes)
	case *types.OverloadedFunction:
		return c.resolveOverload(call, ft, argTypes)
	case *types.GenericFunction:
		return c.instantiateGenericCall(call, ft, argTypes)
	case *types.Union:
		// Calling a union of function types: every member must accept the
		// call; result is the union of each member's result.
		var results []types.Type
		for _, m := range ft.Members {
			results = append(results, c.resolveCall(call, m, argTypes))
		}
		return types.NewUnion(results...)
	default:
		c.errorf(call.Span(), diagnostics.TYP012, "this expression is not callable")
		return types.TAny
	}
}

// bindCall checks argTypes against a concrete signature, without any
// generic instantiation, and returns its declared return type.
func (c *Checker) bindCall(call *ast.CallExpr, ft *types.FuncType, argTypes []types.Type) types.Type {
	if !ft.Accepts(len(argTypes)) {
		c.errorf(call.Span(), diagnostics.TYP005, "expected %d arguments, but got %d", ft.MinArity, len(argTypes))
		return ft.Return
	}
	for i, at := range argTypes {
		pt := paramTypeAt(ft, i)
		if pt == nil {
			continue
		}
		if !types.IsCompatible(pt, at) {
			c.errorf(call.Args[i].Span(), diagnostics.TYP001, "argument of type '%s' is not assignable to parameter of type '%s'", at.String(), pt.String())
		}
	}
	return ft.Return
}

func paramTypeAt(ft *types.FuncType, i int) types.Type {
	if i < len(ft.Params) {
		return ft.Params[i].Type
	}
	if ft.HasRest && len(ft.Params) > 0 {
		last := ft.Params[len(ft.Params)-1]
		if last.Rest {
			if arr, ok := last.Type.(*types.Array); ok {
				return arr.Element
			}
		}
	}
	return nil
}

// resolveOverload filters signatures by arity, then returns the first
// candidate in declaration order whose parameters accept every argument.
// Candidates are not ranked by specificity. When no signature accepts the
// argument count, or none accepts the argument types, it reports TYP012
// without naming a closest candidate.
func (c *Checker) resolveOverload(call *ast.CallExpr, of *types.OverloadedFunction, argTypes []types.Type) types.Type {
	var candidates []*types.FuncType
	for _, sig := range of.Signatures {
		if sig.Accepts(len(argTypes)) {
			candidates = append(candidates, sig)
		}
	}
	if len(candidates) == 0 {
		c.errorf(call.Span(), diagnostics.TYP012, "no overload matches this call")
		return types.TAny
	}
	for _, sig := range candidates {
		if allCompatible(sig, argTypes) {
			return sig.Return
		}
	}
	// No fully compatible overload: report the failure and recover with
	// the first arity-matching candidate's return type so checking can
	// continue.
	c.errorf(call.Span(), diagnostics.TYP012, "no overload matches this call")
	return candidates[0].Return
}

func allCompatible(sig *types.FuncType, argTypes []types.Type) bool {
	for i, at := range argTypes {
		pt := paramTypeAt(sig, i)
		if pt == nil {
			continue
		}
		if !types.IsCompatible(pt, at) {
			return false
		}
	}
	return true
}

// instantiateGenericCall infers type arguments from argTypes when call
// carries none explicitly, then checks the instantiated signature.
func (c *Checker) instantiateGenericCall(call *ast.CallExpr, gf *types.GenericFunction, argTypes []types.Type) types.Type {
	sub := types.NewSubstitution()
	if len(call.TypeArgs) > 0 {
		for i, tp := range gf.TypeParams {
			if i < len(call.TypeArgs) {
				sub.Bind(tp.Name, c.resolveType(call.TypeArgs[i], nil))
			} else if tp.Default != nil {
				sub.Bind(tp.Name, tp.Default)
			}
		}
	} else {
		for _, tp := range gf.TypeParams {
			inferred := inferTypeParam(tp.Name, gf.Signature, argTypes)
			if inferred == nil {
				inferred = tp.Constraint
			}
			if inferred == nil {
				inferred = tp.Default
			}
			if inferred == nil {
				inferred = types.TUnknown
			}
			sub.Bind(tp.Name, inferred)
		}
	}
	concrete := gf.Signature.Substitute(sub).(*types.FuncType)
	return c.bindCall(call, concrete, argTypes)
}

// inferTypeParam finds the first parameter position whose declared type is
// exactly the named type parameter and returns the argument type observed
// there — a single-pass unification covering a bare `T` parameter and a
// `T[]` parameter given an array argument (other wrapped positions are
// left to the constraint or default fallback).
func inferTypeParam(name string, sig *types.FuncType, argTypes []types.Type) types.Type {
	for i, p := range sig.Params {
		if i >= len(argTypes) {
			break
		}
		if tp, ok := p.Type.(*types.TypeParameter); ok && tp.Name == name {
			return argTypes[i]
		}
		if arr, ok := p.Type.(*types.Array); ok {
			if tp, ok := arr.Element.(*types.TypeParameter); ok && tp.Name == name {
				if at, ok := argTypes[i].(*types.Array); ok {
					return at.Element
				}
			}
		}
	}
	return nil
}
