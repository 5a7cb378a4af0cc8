package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/types"
)

// pendingClass pairs a parsed ClassDecl with the scratch MutableClass that
// elaborateClasses will finish populating once every name is hoisted.
type pendingClass struct {
	decl    *ast.ClassDecl
	partial *types.MutableClass
	scope   tparamScope
}

// hoistFile walks top-level statements (and, recursively, namespace bodies)
// registering every class/interface/alias/enum/function name before any
// body is type-checked, so mutually-recursive declarations resolve.
func (c *Checker) hoistFile(file *ast.File) {
	c.pendingClasses = nil
	c.hoistStmts(file.Statements)
}

func (c *Checker) hoistStmts(stmts []ast.Stmt) {
	// Pass 1: register every name with a placeholder so forward references
	// within this same block resolve during pass 2's body hoisting.
	for _, s := range stmts {
		c.hoistDecl(s)
	}
}

func (c *Checker) hoistDecl(s ast.Stmt) {
	switch d := s.(type) {
	case *ast.ClassDecl:
		c.hoistClass(d)
	case *ast.InterfaceDecl:
		c.hoistInterface(d)
	case *ast.TypeAliasDecl:
		c.hoistAlias(d)
	case *ast.EnumDecl:
		c.hoistEnum(d)
	case *ast.FuncDecl:
		c.hoistFunc(d)
	case *ast.NamespaceDecl:
		c.hoistStmts(d.Body)
	case *ast.ExportDecl:
		if d.Decl != nil {
			c.hoistDecl(d.Decl)
		}
	}
}

func tparamScopeFrom(params []*ast.TypeParam) (tparamScope, []*types.TypeParameter) {
	scope := tparamScope{}
	out := make([]*types.TypeParameter, len(params))
	for i, p := range params {
		tparam := &types.TypeParameter{Name: p.Name, IsConst: p.Const}
		scope[p.Name] = tparam
		out[i] = tparam
	}
	return scope, out
}

func (c *Checker) hoistInterface(d *ast.InterfaceDecl) {
	scope, tparams := tparamScopeFrom(d.TypeParams)
	iface := &types.Interface{Name: d.Name, TypeParams: tparams, Optional: map[string]bool{}}
	for _, e := range d.Extends {
		iface.Extends = append(iface.Extends, c.resolveType(e, scope))
	}
	for _, m := range d.Members {
		if m.StringIndex != nil {
			iface.StringIndex = c.resolveType(m.StringIndex, scope)
			continue
		}
		if m.NumberIndex != nil {
			iface.NumberIndex = c.resolveType(m.NumberIndex, scope)
			continue
		}
		var ft types.Type
		if len(m.Params) > 0 || m.ReturnType != nil {
			ft = c.resolveMethodSig(m.Params, m.ReturnType, scope)
		} else {
			ft = c.resolveType(m.FieldType, scope)
		}
		iface.Members = append(iface.Members, types.Field{Name: m.Name, Type: ft, Readonly: m.Readonly, Optional: m.Optional})
		if m.Optional {
			iface.Optional[m.Name] = true
		}
	}
	c.env.Interfaces[d.Name] = iface
}

func (c *Checker) hoistAlias(d *ast.TypeAliasDecl) {
	scope, tparams := tparamScopeFrom(d.TypeParams)
	c.aliasTypeParams[d.Name] = tparams
	c.env.Aliases[d.Name] = c.resolveType(d.Value, scope)
}

func (c *Checker) hoistEnum(d *ast.EnumDecl) {
	kind := types.NumericEnum
	members := make([]types.EnumMember, 0, len(d.Members))
	reverse := map[interface{}]string{}
	nextNumeric := float64(0)
	sawString := false
	sawNumber := false
	for _, m := range d.Members {
		var value interface{}
		if m.Init != nil {
			switch lit := m.Init.(type) {
			case *ast.Literal:
				switch lit.Kind {
				case ast.LitString:
					value = lit.StringValue
					sawString = true
				case ast.LitNumber:
					value = lit.NumberValue
					nextNumeric = lit.NumberValue + 1
					sawNumber = true
				}
			}
		}
		if value == nil {
			value = nextNumeric
			nextNumeric++
			sawNumber = true
		}
		members = append(members, types.EnumMember{Name: m.Name, Value: value})
		if _, isNum := value.(float64); isNum {
			reverse[value] = m.Name
		}
	}
	switch {
	case sawString && sawNumber:
		kind = types.HeterogeneousEnum
	case sawString:
		kind = types.StringEnum
	}
	c.env.Enums[d.Name] = &types.Enum{Name: d.Name, Kind: kind, Members: members, ReverseMap: reverse, IsConst: d.IsConst}
}

func (c *Checker) hoistFunc(d *ast.FuncDecl) {
	if len(d.Overloads) > 0 {
		sigs := make([]*types.FuncType, 0, len(d.Overloads)+1)
		for _, ov := range d.Overloads {
			sigs = append(sigs, c.funcTypeOf(ov))
		}
		sigs = append(sigs, c.funcTypeOf(d))
		c.env.Functions[d.Name] = &types.OverloadedFunction{Signatures: sigs}
		return
	}
	if len(d.TypeParams) > 0 {
		scope, tparams := tparamScopeFrom(d.TypeParams)
		sig := c.funcTypeOfWithScope(d, scope)
		c.env.Functions[d.Name] = &types.GenericFunction{TypeParams: tparams, Signature: sig}
		return
	}
	c.env.Functions[d.Name] = c.funcTypeOf(d)
}

func (c *Checker) funcTypeOf(d *ast.FuncDecl) *types.FuncType {
	return c.funcTypeOfWithScope(d, nil)
}

func (c *Checker) funcTypeOfWithScope(d *ast.FuncDecl, scope tparamScope) *types.FuncType {
	ret := c.resolveType(d.ReturnType, scope)
	if d.Async {
		if _, ok := ret.(*types.Promise); !ok && d.ReturnType != nil {
			// declared return type for an async function is the awaited
			// value; wrap it so call sites see a Promise.
			ret = &types.Promise{Value: ret}
		} else if d.ReturnType == nil {
			ret = &types.Promise{Value: types.TAny}
		}
	}
	ft := c.resolveMethodSig(d.Params, nil, scope).(*types.FuncType)
	ft.Return = ret
	if d.Predicate != nil {
		ft.Predicate = &types.Predicate{
			Asserts:   d.Predicate.Asserts,
			ParamName: d.Predicate.ParamName,
		}
		if d.Predicate.Type != nil {
			ft.Predicate.Type = c.resolveType(d.Predicate.Type, scope)
		}
	}
	return ft
}

func (c *Checker) hoistClass(d *ast.ClassDecl) {
	scope, tparams := tparamScopeFrom(d.TypeParams)
	mc := &types.MutableClass{Name: d.Name, TypeParams: tparams, IsAbstract: d.Abstract}
	c.pendingClasses = append(c.pendingClasses, pendingClass{decl: d, partial: mc, scope: scope})
	// Register a placeholder now so sibling/forward declarations that
	// reference this class by name (recursive fields, mutually-referencing
	// classes) resolve to the same pointer elaborateClasses fills in.
	c.env.Classes[d.Name] = &types.Class{Name: d.Name, TypeParams: tparams, IsAbstract: d.Abstract}
}
