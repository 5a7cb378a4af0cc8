package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/types"
)

// elaborateClasses finishes every hoisted class: collects members, merges
// constructor overloads, validates abstract/override obligations, checks
// interface satisfaction, then freezes the MutableClass into the Class
// pointer already published in the environment.
func (c *Checker) elaborateClasses() {
	for _, pc := range c.pendingClasses {
		c.elaborateClass(pc)
	}
}

func (c *Checker) elaborateClass(pc pendingClass) *types.Class {
	d, mc, scope := pc.decl, pc.partial, pc.scope

	if d.Superclass != nil {
		if ref, ok := d.Superclass.(*ast.TypeRef); ok {
			if super, ok := c.env.LookupClass(ref.Name); ok {
				mc.Superclass = super
			} else {
				c.errorf(d.Span(), diagnostics.TYP006, "cannot find name '%s'", ref.Name)
			}
		}
	}
	for _, impl := range d.Implements {
		resolved := c.resolveType(impl, scope)
		if iface, ok := resolved.(*types.Interface); ok {
			mc.Implements = append(mc.Implements, iface)
		}
	}

	for _, m := range d.Members {
		c.collectMember(mc, m, scope)
	}

	if mc.Superclass != nil && mc.Superclass.IsAbstract {
		c.checkAbstractImplemented(d, mc, mc.Superclass)
	}
	for _, iface := range mc.Implements {
		c.checkInterfaceSatisfied(d, mc, iface)
	}
	c.checkOverrides(d, mc)

	frozen := mc.Freeze()
	if placeholder, ok := c.env.Classes[d.Name]; ok {
		// Overwrite in place so every reference resolved against this
		// pointer during hoisting (recursive fields, sibling classes) sees
		// the fully elaborated class without needing a second pass.
		*placeholder = *frozen
		c.checkMemberBodies(d, placeholder, scope)
		return placeholder
	}
	c.checkMemberBodies(d, frozen, scope)
	return frozen
}

// checkMemberBodies type-checks every method/getter/setter/field-initializer
// body with `this` bound to an Instance of the frozen class.
func (c *Checker) checkMemberBodies(d *ast.ClassDecl, frozen *types.Class, scope tparamScope) {
	prevClass := c.currentClass
	c.currentClass = &classCtx{frozen: frozen}
	defer func() { c.currentClass = prevClass }()

	self := &types.Instance{Class: frozen}
	for _, m := range d.Members {
		switch m.Kind {
		case ast.MemberMethod, ast.MemberConstructor, ast.MemberGetter, ast.MemberSetter:
			if m.Body == nil {
				continue
			}
			sig := c.resolveMethodSig(m.Params, m.ReturnType, scope)
			ft, _ := sig.(*types.FuncType)
			if ft == nil {
				ft = &types.FuncType{Return: types.TAny}
			}
			if m.Async {
				if _, ok := ft.Return.(*types.Promise); !ok {
					ft.Return = &types.Promise{Value: ft.Return}
				}
			}
			prevScope, prevReturn, prevAsync, prevGen := c.scope, c.currentReturn, c.inAsync, c.inGenerator
			c.scope = c.scope.Child()
			if !m.Static {
				c.scope.Declare("this", self, true)
			}
			c.currentReturn, c.inAsync, c.inGenerator = ft.Return, m.Async, m.Generator
			for i, p := range m.Params {
				if id, ok := p.Pattern.(*ast.Ident); ok && i < len(ft.Params) {
					c.scope.Declare(id.Name, ft.Params[i].Type, false)
				}
			}
			for _, stmt := range m.Body.Statements {
				c.checkStmt(stmt)
			}
			c.scope, c.currentReturn, c.inAsync, c.inGenerator = prevScope, prevReturn, prevAsync, prevGen
		case ast.MemberField:
			if m.Init != nil {
				prevScope := c.scope
				c.scope = c.scope.Child()
				if !m.Static {
					c.scope.Declare("this", self, true)
				}
				c.checkExpr(m.Init)
				c.scope = prevScope
			}
		}
	}
}

func (c *Checker) collectMember(mc *types.MutableClass, m *ast.ClassMember, scope tparamScope) {
	access := accessOf(m.Access)
	switch m.Kind {
	case ast.MemberField:
		ft := c.resolveType(m.FieldType, scope)
		mem := types.Member{Name: m.Name, Type: ft, Access: access, Readonly: m.Readonly, Static: m.Static, Override: m.Override}
		mc.Fields = append(mc.Fields, mem)
	case ast.MemberMethod, ast.MemberConstructor:
		sig := c.resolveMethodSig(m.Params, m.ReturnType, scope)
		if m.Async {
			ft := sig.(*types.FuncType)
			if _, ok := ft.Return.(*types.Promise); !ok {
				ft.Return = &types.Promise{Value: ft.Return}
			}
		}
		mem := types.Member{Name: m.Name, Type: sig, Access: access, Static: m.Static, Abstract: m.Abstract, Override: m.Override}
		mc.Methods = append(mc.Methods, mem)
		for _, p := range m.Params {
			if p.AccessMod != "" {
				pt := c.resolveType(p.Type, scope)
				mc.Fields = append(mc.Fields, types.Member{Name: paramName(p), Type: pt, Access: accessOfString(p.AccessMod), Readonly: p.AccessMod == "readonly"})
			}
		}
	case ast.MemberGetter:
		ft := &types.FuncType{Return: c.resolveType(m.ReturnType, scope)}
		mc.Getters = append(mc.Getters, types.Member{Name: m.Name, Type: ft, Access: access, Static: m.Static, Abstract: m.Abstract, Override: m.Override})
	case ast.MemberSetter:
		sig := c.resolveMethodSig(m.Params, nil, scope)
		mc.Setters = append(mc.Setters, types.Member{Name: m.Name, Type: sig, Access: access, Static: m.Static, Abstract: m.Abstract, Override: m.Override})
	}
}

func accessOf(a ast.FieldAccess) types.Access {
	switch a {
	case ast.AccessProtected:
		return types.Protected
	case ast.AccessPrivate:
		return types.Private
	default:
		return types.Public
	}
}

func accessOfString(s string) types.Access {
	switch s {
	case "protected":
		return types.Protected
	case "private":
		return types.Private
	default:
		return types.Public
	}
}

// checkAbstractImplemented confirms every abstract member of super is
// either implemented (non-abstract, same name) on mc or re-declared
// abstract.
func (c *Checker) checkAbstractImplemented(d *ast.ClassDecl, mc *types.MutableClass, super *types.Class) {
	if mc.IsAbstract {
		return // abstract classes may leave abstract members unimplemented
	}
	for _, groups := range [][]types.Member{super.AbstractMethods, super.AbstractGetters, super.AbstractSetters} {
		for _, am := range groups {
			if !hasConcrete(mc, am.Name) {
				c.errorf(d.Span(), diagnostics.TYP003, "non-abstract class '%s' does not implement inherited abstract member '%s'", d.Name, am.Name)
			}
		}
	}
}

func hasConcrete(mc *types.MutableClass, name string) bool {
	for _, groups := range [][]types.Member{mc.Methods, mc.Getters, mc.Setters} {
		for _, m := range groups {
			if m.Name == name && !m.Abstract {
				return true
			}
		}
	}
	return false
}

// checkInterfaceSatisfied walks the public surface implied by mc (not yet
// frozen, so Freeze's AllPublicMembers path isn't available) and checks
// every interface member is present and compatible.
func (c *Checker) checkInterfaceSatisfied(d *ast.ClassDecl, mc *types.MutableClass, iface *types.Interface) {
	for _, m := range iface.Members {
		found := findMemberType(mc, m.Name)
		if found == nil {
			if iface.IsRequired(m.Name) {
				c.errorf(d.Span(), diagnostics.TYP013, "class '%s' incorrectly implements interface '%s': missing property '%s'", d.Name, iface.Name, m.Name)
			}
			continue
		}
		if !types.IsCompatible(m.Type, found) {
			c.errorf(d.Span(), diagnostics.TYP013, "class '%s' incorrectly implements interface '%s': property '%s' is incompatible", d.Name, iface.Name, m.Name)
		}
	}
}

func findMemberType(mc *types.MutableClass, name string) types.Type {
	for _, groups := range [][]types.Member{mc.Fields, mc.Methods, mc.Getters} {
		for _, m := range groups {
			if m.Name == name {
				return m.Type
			}
		}
	}
	return nil
}

// checkOverrides validates every `override`-marked member shadows a
// same-named ancestor member, and rejects `override` in positions the
// spec forbids (static, constructor, no superclass).
func (c *Checker) checkOverrides(d *ast.ClassDecl, mc *types.MutableClass) {
	for _, groups := range [][]types.Member{mc.Methods, mc.Getters, mc.Setters} {
		for _, m := range groups {
			if !m.Override {
				continue
			}
			if m.Static {
				c.errorf(d.Span(), diagnostics.TYP004, "'override' modifier cannot be used with 'static'")
				continue
			}
			if m.Name == "constructor" {
				c.errorf(d.Span(), diagnostics.TYP004, "'override' modifier cannot be used on a constructor")
				continue
			}
			if mc.Superclass == nil {
				c.errorf(d.Span(), diagnostics.TYP004, "'%s' has no superclass to override '%s' from", d.Name, m.Name)
				continue
			}
			frozenSuper := &types.Class{Name: mc.Superclass.Name, Superclass: mc.Superclass.Superclass, Methods: mc.Superclass.Methods, Getters: mc.Superclass.Getters, Setters: mc.Superclass.Setters}
			if _, ok := frozenSuper.FindOverridable(m.Name); !ok {
				c.errorf(d.Span(), diagnostics.TYP004, "this member cannot have an 'override' modifier because it is not declared in the base class '%s'", mc.Superclass.Name)
			}
		}
	}
}
