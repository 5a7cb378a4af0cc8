package checker

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/types"
)

// checkStmt type-checks one statement. Declarations already registered
// during hoisting (classes, interfaces, aliases, enums, top-level
// functions) are revisited here only to check their bodies.
func (c *Checker) checkStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(v)
	case *ast.ExprStmt:
		c.checkExpr(v.X)
	case *ast.BlockStmt:
		c.checkBlock(v)
	case *ast.IfStmt:
		c.checkIf(v)
	case *ast.WhileStmt:
		c.checkWhile(v)
	case *ast.DoWhileStmt:
		c.checkExpr(v.Cond)
		c.checkStmt(v.Body)
	case *ast.ForStmt:
		c.checkFor(v)
	case *ast.ReturnStmt:
		c.checkReturn(v)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no type obligations; label resolution is a parser-time concern
	case *ast.ThrowStmt:
		c.checkExpr(v.Value)
	case *ast.TryStmt:
		c.checkTry(v)
	case *ast.SwitchStmt:
		c.checkSwitch(v)
	case *ast.LabeledStmt:
		c.checkStmt(v.Body)
	case *ast.FuncDecl:
		c.checkFuncDeclBody(v)
	case *ast.ClassDecl, *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.EnumDecl:
		// fully handled by hoisting/elaboration; nothing left to check here
	case *ast.NamespaceDecl:
		for _, stmt := range v.Body {
			c.checkStmt(stmt)
		}
	case *ast.ImportDecl:
		// module resolution is outside the checker's scope
	case *ast.ExportDecl:
		if v.Decl != nil {
			c.checkStmt(v.Decl)
		}
	}
}

func (c *Checker) checkVarDecl(d *ast.VarDecl) {
	for _, decl := range d.Declarators {
		var declared types.Type
		if decl.Type != nil {
			declared = c.resolveType(decl.Type, nil)
		}
		var initType types.Type
		if decl.Init != nil {
			initType = c.checkExpr(decl.Init)
			if declared != nil && !types.IsCompatible(declared, initType) {
				c.errorf(decl.Init.Span(), diagnostics.TYP001, "type '%s' is not assignable to type '%s'", initType.String(), declared.String())
			}
		}
		final := declared
		if final == nil {
			if initType != nil {
				final = widenLiteral(initType)
			} else {
				final = types.TAny
			}
		}
		isConst := d.Kind == ast.DeclConst
		if decl.Name != nil {
			c.scope.Declare(decl.Name.Name, final, isConst)
			if initType != nil {
				c.scope.Narrow(decl.Name.Name, initType)
			}
		} else if decl.Pattern != nil {
			c.declarePattern(decl.Pattern, final, isConst)
		}
	}
}

// declarePattern introduces every binding a destructuring pattern names,
// widening element/field types from the pattern's source type where known.
func (c *Checker) declarePattern(p ast.Pattern, source types.Type, isConst bool) {
	switch v := p.(type) {
	case *ast.Ident:
		c.scope.Declare(v.Name, source, isConst)
	case *ast.ArrayLiteral:
		elemType := types.Type(types.TAny)
		if arr, ok := c.expand(source).(*types.Array); ok {
			elemType = arr.Element
		}
		for _, el := range v.Elements {
			if el.Value == nil {
				continue
			}
			c.declarePattern(patternOf(el.Value), elemType, isConst)
		}
	case *ast.ObjectLiteral:
		for _, p := range v.Properties {
			name := objectKeyName(p.Key)
			ft := c.lookupMember(c.expand(source), name, v.Span())
			if p.Value != nil {
				c.declarePattern(patternOf(p.Value), ft, isConst)
			} else {
				c.scope.Declare(name, ft, isConst)
			}
		}
	case *ast.DefaultPattern:
		c.declarePattern(v.Target, source, isConst)
	case *ast.SpreadExpr:
		c.declarePattern(patternOf(v.Value), source, isConst)
	}
}

func patternOf(e ast.Expr) ast.Pattern {
	if p, ok := e.(ast.Pattern); ok {
		return p
	}
	return &ast.Ident{}
}

func (c *Checker) checkBlock(b *ast.BlockStmt) {
	prev := c.scope
	c.scope = c.scope.Child()
	for _, s := range b.Statements {
		c.checkStmt(s)
	}
	c.scope = prev
}

func (c *Checker) checkIf(s *ast.IfStmt) {
	c.checkExpr(s.Cond)
	prev := c.scope

	thenScope := prev.Child()
	c.narrowCondition(s.Cond, thenScope, false)
	c.scope = thenScope
	c.checkStmt(s.Then)
	thenNarrowed := thenScope.snapshotNarrowed()
	c.scope = prev

	var elseNarrowed map[string]types.Type
	if s.Else != nil {
		elseScope := prev.Child()
		c.narrowCondition(s.Cond, elseScope, true)
		c.scope = elseScope
		c.checkStmt(s.Else)
		elseNarrowed = elseScope.snapshotNarrowed()
		c.scope = prev
	}
	if s.Else != nil {
		for k, t := range unionNarrowings(thenNarrowed, elseNarrowed) {
			prev.Narrow(k, t)
		}
	}
}

func (c *Checker) checkWhile(s *ast.WhileStmt) {
	c.checkExpr(s.Cond)
	prev := c.scope
	c.scope = prev.Child()
	c.narrowCondition(s.Cond, c.scope, false)
	c.checkStmt(s.Body)
	c.scope = prev
}

func (c *Checker) checkFor(s *ast.ForStmt) {
	prev := c.scope
	c.scope = prev.Child()
	iterType := c.checkExpr(s.Iterable)
	elemType := types.Type(types.TAny)
	switch s.Kind {
	case ast.ForOf, ast.ForAwaitOf:
		if arr, ok := c.expand(iterType).(*types.Array); ok {
			elemType = arr.Element
		}
		if s.Kind == ast.ForAwaitOf {
			if p, ok := elemType.(*types.Promise); ok {
				elemType = p.Value
			}
		}
	case ast.ForIn:
		elemType = types.TString
	}
	c.declarePattern(s.Binding, elemType, s.DeclKind == ast.DeclConst)
	c.checkStmt(s.Body)
	c.scope = prev
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	if s.Value == nil {
		return
	}
	rt := c.checkExpr(s.Value)
	if c.currentReturn == nil {
		return
	}
	want := c.currentReturn
	if c.inAsync {
		if p, ok := want.(*types.Promise); ok {
			want = p.Value
		}
	}
	if !types.IsCompatible(want, rt) {
		c.errorf(s.Value.Span(), diagnostics.TYP001, "type '%s' is not assignable to the function's return type '%s'", rt.String(), want.String())
	}
}

func (c *Checker) checkTry(s *ast.TryStmt) {
	c.checkBlock(s.Try)
	if s.Catch != nil {
		prev := c.scope
		c.scope = prev.Child()
		if s.Catch.Param != nil {
			t := types.Type(types.TUnknown)
			if s.Catch.Type != nil {
				t = c.resolveType(s.Catch.Type, nil)
			}
			c.declarePattern(s.Catch.Param, t, false)
		}
		for _, stmt := range s.Catch.Body.Statements {
			c.checkStmt(stmt)
		}
		c.scope = prev
	}
	if s.Finally != nil {
		c.checkBlock(s.Finally)
	}
}

func (c *Checker) checkSwitch(s *ast.SwitchStmt) {
	c.checkExpr(s.Disc)
	for _, cs := range s.Cases {
		prev := c.scope
		c.scope = prev.Child()
		if cs.Test != nil {
			c.checkExpr(cs.Test)
			if path, root, ok := narrowPath(s.Disc); ok {
				if lit, ok := cs.Test.(*ast.Literal); ok {
					tag := literalTag(lit)
					if tag != nil {
						if cur, ok := c.scope.LookupNarrowed(path, root); ok {
							c.scope.Narrow(path, narrowByDiscriminant(cur, path, tag))
						}
					}
				}
			}
		}
		for _, stmt := range cs.Statements {
			c.checkStmt(stmt)
		}
		c.scope = prev
	}
}

// checkFuncDeclBody checks a named function declaration's body against its
// already-hoisted signature; overload clauses carry no body and are skipped.
func (c *Checker) checkFuncDeclBody(d *ast.FuncDecl) {
	if d.Body == nil {
		return
	}
	sig, tparams := c.signatureFor(d)
	scope := tparamScope{}
	for _, tp := range tparams {
		scope[tp.Name] = tp
	}
	prevScope, prevReturn, prevAsync, prevGen := c.scope, c.currentReturn, c.inAsync, c.inGenerator
	c.scope = c.scope.Child()
	c.currentReturn, c.inAsync, c.inGenerator = sig.Return, d.Async, d.Generator
	for i, p := range d.Params {
		if id, ok := p.Pattern.(*ast.Ident); ok && i < len(sig.Params) {
			c.scope.Declare(id.Name, sig.Params[i].Type, false)
		} else if i < len(sig.Params) {
			c.declarePattern(p.Pattern, sig.Params[i].Type, false)
		}
	}
	for _, stmt := range d.Body.Statements {
		c.checkStmt(stmt)
	}
	c.scope, c.currentReturn, c.inAsync, c.inGenerator = prevScope, prevReturn, prevAsync, prevGen
}

func (c *Checker) signatureFor(d *ast.FuncDecl) (*types.FuncType, []*types.TypeParameter) {
	fn, ok := c.env.LookupFunction(d.Name)
	if !ok {
		return c.funcTypeOf(d), nil
	}
	switch f := fn.(type) {
	case *types.FuncType:
		return f, nil
	case *types.GenericFunction:
		return f.Signature, f.TypeParams
	case *types.OverloadedFunction:
		return f.Signatures[len(f.Signatures)-1], nil
	default:
		return c.funcTypeOf(d), nil
	}
}
