package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/types"
)

// tparamScope resolves a bare identifier to an in-scope generic type
// parameter; nil or a miss falls through to the name environment.
type tparamScope map[string]*types.TypeParameter

// resolveType converts a parsed type-annotation node into a TypeInfo value,
// resolving named references against both the local generic-parameter scope
// and the checker's hoisted Env.
func (c *Checker) resolveType(n ast.TypeNode, tp tparamScope) types.Type {
	if n == nil {
		return types.TAny
	}
	switch v := n.(type) {
	case *ast.TypeRef:
		return c.resolveTypeRef(v, tp)
	case *ast.LiteralTypeNode:
		switch v.Kind {
		case ast.LitTypeString:
			return &types.Literal{Kind: types.StringLiteral, Value: v.StringValue}
		case ast.LitTypeNumber:
			return &types.Literal{Kind: types.NumberLiteral, Value: v.NumberValue}
		default:
			return &types.Literal{Kind: types.BooleanLiteral, Value: v.BoolValue}
		}
	case *ast.UnionTypeNode:
		members := make([]types.Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = c.resolveType(m, tp)
		}
		return types.NewUnion(members...)
	case *ast.IntersectionTypeNode:
		members := make([]types.Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = c.resolveType(m, tp)
		}
		return types.NewIntersection(members...)
	case *ast.ArrayTypeNode:
		return &types.Array{Element: c.resolveType(v.Element, tp)}
	case *ast.IndexedAccessTypeNode:
		return &types.IndexedAccess{Object: c.resolveType(v.Object, tp), Index: c.resolveType(v.Index, tp)}
	case *ast.TupleTypeNode:
		elements := make([]types.TupleElement, len(v.Elements))
		required := 0
		hasSpread := false
		for i, e := range v.Elements {
			var kind types.TupleElementKind
			switch e.Kind {
			case ast.TupleElemOptional:
				kind = types.Optional
			case ast.TupleElemSpread:
				kind = types.Spread
				hasSpread = true
			default:
				kind = types.Required
				required++
			}
			elements[i] = types.TupleElement{Type: c.resolveType(e.Type, tp), Kind: kind, Name: e.Name}
		}
		return &types.Tuple{Elements: elements, RequiredCount: required, HasSpread: hasSpread}
	case *ast.ObjectTypeNode:
		if v.Mapped != nil {
			return c.resolveMapped(v.Mapped, tp)
		}
		return c.resolveObjectType(v, tp)
	case *ast.FuncTypeNode:
		return c.resolveFuncTypeNode(v, tp)
	case *ast.TypeofTypeNode:
		return c.typeofExpr(v.Expr)
	case *ast.KeyofTypeNode:
		return &types.KeyOf{Source: c.resolveType(v.Operand, tp)}
	case *ast.InferTypeNode:
		return &types.InferredTypeParameter{Name: v.Name}
	case *ast.UniqueSymbolTypeNode:
		return types.TSymbol
	case *ast.ConditionalTypeNode:
		return &types.ConditionalType{
			Check:   c.resolveType(v.Check, tp),
			Extends: c.resolveType(v.Extends, tp),
			True:    c.resolveType(v.True, tp),
			False:   c.resolveType(v.False, tp),
		}
	case *ast.TemplateLiteralTypeNode:
		parts := make([]types.TemplateLiteralPart, len(v.Parts))
		for i, p := range v.Parts {
			if p.Type != nil {
				parts[i] = types.TemplateLiteralPart{Type: c.resolveType(p.Type, tp)}
			} else {
				parts[i] = types.TemplateLiteralPart{Literal: p.Literal}
			}
		}
		return &types.TemplateLiteralType{Parts: parts}
	case *ast.ParenTypeNode:
		return c.resolveType(v.Inner, tp)
	default:
		return types.TAny
	}
}

var primitiveTypeNames = map[string]types.Type{
	"number":    types.TNumber,
	"string":    types.TString,
	"boolean":   types.TBoolean,
	"symbol":    types.TSymbol,
	"bigint":    types.TBigInt,
	"void":      types.TVoid,
	"null":      types.TNull,
	"undefined": types.TUndefined,
	"any":       types.TAny,
	"unknown":   types.TUnknown,
	"never":     types.TNever,
	"object":    &types.Record{},
}

var utilityArity = map[string]bool{
	"Partial": true, "Required": true, "Readonly": true, "Record": true,
	"Pick": true, "Omit": true, "ReturnType": true, "Parameters": true,
	"ConstructorParameters": true, "InstanceType": true, "Awaited": true,
	"NonNullable": true, "Extract": true, "Exclude": true,
	"Uppercase": true, "Lowercase": true, "Capitalize": true, "Uncapitalize": true,
}

func (c *Checker) resolveTypeRef(v *ast.TypeRef, tp tparamScope) types.Type {
	if prim, ok := primitiveTypeNames[v.Name]; ok && len(v.Args) == 0 {
		return prim
	}
	if tp != nil {
		if p, ok := tp[v.Name]; ok {
			return p
		}
	}
	if v.Name == "Array" && len(v.Args) == 1 {
		return &types.Array{Element: c.resolveType(v.Args[0], tp)}
	}
	if v.Name == "Promise" && len(v.Args) == 1 {
		return &types.Promise{Value: c.resolveType(v.Args[0], tp)}
	}
	if utilityArity[v.Name] {
		args := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.resolveType(a, tp)
		}
		return types.NewUtilityType(v.Name, args...)
	}
	if iface, ok := c.env.LookupInterface(v.Name); ok {
		if len(v.Args) == 0 {
			return iface
		}
		return c.instantiate(&types.GenericInterface{TypeParams: iface.TypeParams, Def: iface}, v.Args, tp)
	}
	if cls, ok := c.env.LookupClass(v.Name); ok {
		if len(v.Args) == 0 {
			return &types.Instance{Class: cls}
		}
		return &types.InstantiatedGeneric{Def: &types.GenericClass{TypeParams: cls.TypeParams, Def: cls}, Args: c.resolveArgs(v.Args, tp)}
	}
	if alias, ok := c.env.LookupAlias(v.Name); ok {
		if len(v.Args) == 0 {
			return alias
		}
		// Generic alias: bind its declared type parameters (recorded in
		// aliasTypeParams during hoisting) to the arguments and substitute
		// them through the alias body.
		return c.instantiateAlias(v.Name, alias, v.Args, tp)
	}
	if en, ok := c.env.LookupEnum(v.Name); ok {
		return en
	}
	c.errorf(v.Span(), diagnostics.TYP006, "cannot find name '%s'", v.Name)
	return types.TAny
}

func (c *Checker) resolveArgs(nodes []ast.TypeNode, tp tparamScope) []types.Type {
	out := make([]types.Type, len(nodes))
	for i, n := range nodes {
		out[i] = c.resolveType(n, tp)
	}
	return out
}

func (c *Checker) instantiate(def types.GenericDef, argNodes []ast.TypeNode, tp tparamScope) types.Type {
	ig := &types.InstantiatedGeneric{Def: def, Args: c.resolveArgs(argNodes, tp)}
	return c.expand(ig.Resolve())
}

func (c *Checker) instantiateAlias(name string, body types.Type, argNodes []ast.TypeNode, tp tparamScope) types.Type {
	params := c.aliasTypeParams[name]
	sub := types.NewSubstitution()
	for i, p := range params {
		if i < len(argNodes) {
			sub.Bind(p.Name, c.resolveType(argNodes[i], tp))
		} else if p.Default != nil {
			sub.Bind(p.Name, p.Default)
		}
	}
	if subst, ok := body.(types.Substitutable); ok {
		return c.expand(subst.Substitute(sub))
	}
	return body
}

func (c *Checker) resolveObjectType(v *ast.ObjectTypeNode, tp tparamScope) types.Type {
	r := &types.Record{}
	for _, m := range v.Members {
		if m.StringIndex != nil {
			r.StringIndex = c.resolveType(m.StringIndex, tp)
			continue
		}
		if m.NumberIndex != nil {
			r.NumberIndex = c.resolveType(m.NumberIndex, tp)
			continue
		}
		var ft types.Type
		if len(m.Params) > 0 || m.ReturnType != nil {
			ft = c.resolveMethodSig(m.Params, m.ReturnType, tp)
		} else {
			ft = c.resolveType(m.FieldType, tp)
		}
		r.Fields = append(r.Fields, types.Field{Name: m.Name, Type: ft, Readonly: m.Readonly, Optional: m.Optional})
	}
	return r
}

func (c *Checker) resolveMethodSig(params []*ast.Param, ret ast.TypeNode, tp tparamScope) types.Type {
	fp := make([]types.Param, len(params))
	minArity := 0
	hasRest := false
	for i, p := range params {
		pt := c.resolveType(p.Type, tp)
		fp[i] = types.Param{Name: paramName(p), Type: pt, Optional: p.Optional, Rest: p.Rest}
		if p.Rest {
			hasRest = true
		} else if !p.Optional && p.Default == nil {
			minArity = i + 1
		}
	}
	return &types.FuncType{Params: fp, Return: c.resolveType(ret, tp), MinArity: minArity, HasRest: hasRest}
}

func paramName(p *ast.Param) string {
	if id, ok := p.Pattern.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func (c *Checker) resolveFuncTypeNode(v *ast.FuncTypeNode, tp tparamScope) types.Type {
	local := tparamScope{}
	for k, val := range tp {
		local[k] = val
	}
	for _, p := range v.TypeParams {
		local[p.Name] = &types.TypeParameter{Name: p.Name}
	}
	sig := c.resolveMethodSig(v.Params, v.Return, local)
	if len(v.TypeParams) == 0 {
		return sig
	}
	params := make([]*types.TypeParameter, len(v.TypeParams))
	for i, p := range v.TypeParams {
		params[i] = local[p.Name]
	}
	return &types.GenericFunction{TypeParams: params, Signature: sig.(*types.FuncType)}
}

func (c *Checker) resolveMapped(m *ast.MappedTypeNode, tp tparamScope) types.Type {
	local := tparamScope{}
	for k, v := range tp {
		local[k] = v
	}
	local[m.Param] = &types.TypeParameter{Name: m.Param}
	var mods []types.MappedModifier
	switch m.OptionalModifier {
	case ast.ModifierAddOptional:
		mods = append(mods, types.AddOptional)
	case ast.ModifierRemoveOptional:
		mods = append(mods, types.RemoveOptional)
	}
	if m.ReadonlyAdd {
		mods = append(mods, types.AddReadonly)
	}
	if m.ReadonlyRemove {
		mods = append(mods, types.RemoveReadonly)
	}
	mt := &types.MappedType{
		Param:      m.Param,
		Constraint: c.resolveType(m.Constraint, local),
		Value:      c.resolveType(m.Value, local),
		Modifiers:  mods,
	}
	if m.AsClause != nil {
		mt.AsClause = c.resolveType(m.AsClause, local)
	}
	return c.expand(mt)
}

// typeofExpr resolves `typeof x` by looking up x's declared/narrowed type
// in scope; property-path forms (`typeof x.y`) walk the same field lookup
// the expander uses for indexed access.
func (c *Checker) typeofExpr(e ast.Expr) types.Type {
	return c.checkExpr(e)
}
