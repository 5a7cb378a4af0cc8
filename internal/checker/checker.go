// Package checker implements the two-pass TypeScript type checker: a
// hoisting pass that builds a name environment from top-level declarations,
// followed by a checking pass that infers the type of every expression and
// validates every statement against it.
package checker

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/types"
)

// Result is what a successful Check call returns: the inferred type of
// every expression node (keyed by pointer identity) plus the enriched name
// environment built during hoisting.
type Result struct {
	Types *TypeTable
	Env   *types.Env
}

// TypeTable maps expression nodes to their inferred TypeInfo, keyed by the
// Expr value itself (interfaces wrapping pointers compare equal iff the
// underlying pointer matches) as an expression-identity side table.
type TypeTable struct {
	m map[ast.Expr]types.Type
}

func newTypeTable() *TypeTable { return &TypeTable{m: map[ast.Expr]types.Type{}} }

func (t *TypeTable) set(e ast.Expr, ty types.Type) { t.m[e] = ty }

// Get returns the type inferred for e, or (nil, false) if e was never
// visited (e.g. inside a branch the checker didn't reach).
func (t *TypeTable) Get(e ast.Expr) (types.Type, bool) {
	ty, ok := t.m[e]
	return ty, ok
}

// Checker holds the mutable state threaded through hoisting and checking:
// the name environment, the per-expression type table, narrowing scopes,
// and the accumulated diagnostics.
type Checker struct {
	env     *types.Env
	exp     *types.Expander
	types   *TypeTable
	scope   *Scope
	errors  []*diagnostics.Report
	file    string

	// currentReturn is the declared/inferred return type of the function
	// currently being checked, consulted by `return` statements.
	currentReturn types.Type
	inAsync       bool
	inGenerator   bool

	// currentClass is the MutableClass under elaboration, so `this` and
	// `super` resolve inside method bodies.
	currentClass *classCtx

	// aliasTypeParams records the declared type parameters of every generic
	// type alias, keyed by name, populated during hoisting and consulted by
	// resolveTypeRef to instantiate `type P<T> = ...` references.
	aliasTypeParams map[string][]*types.TypeParameter

	// pendingClasses holds every hoisted class awaiting elaboration
	// (member collection, override/abstract validation) before the
	// checking pass begins.
	pendingClasses []pendingClass
}

type classCtx struct {
	mutable *types.MutableClass
	frozen  *types.Class // superclass lookups use this once available
}

// Check runs the hoisting pass followed by the checking pass over file and
// returns the inferred side table, or the first unrecoverable error.
func Check(file *ast.File) (*Result, error) {
	env := types.NewEnv(file.Path)
	registerBuiltinGlobals(env)
	c := &Checker{
		env:             env,
		exp:             types.NewExpander(env),
		types:           newTypeTable(),
		scope:           NewScope(nil),
		file:            file.Path,
		aliasTypeParams: map[string][]*types.TypeParameter{},
	}
	c.hoistFile(file)
	if err := c.firstError(); err != nil {
		return nil, err
	}
	c.elaborateClasses()
	if err := c.firstError(); err != nil {
		return nil, err
	}
	for _, stmt := range file.Statements {
		c.checkStmt(stmt)
	}
	if err := c.firstError(); err != nil {
		return nil, err
	}
	return &Result{Types: c.types, Env: c.env}, nil
}

func (c *Checker) firstError() error {
	if len(c.errors) == 0 {
		return nil
	}
	return diagnostics.Wrap(c.errors[0])
}

// Errors returns every diagnostic collected so far, even past the first
// (callers that want best-effort collection instead of fail-fast use this;
// Check itself stops at the first per the propagation policy).
func (c *Checker) Errors() []*diagnostics.Report { return c.errors }

func (c *Checker) errorf(span ast.Span, code, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.errors = append(c.errors, diagnostics.New(diagnostics.PhaseChecker, code, msg).WithSpan(span))
}

func (c *Checker) expand(t types.Type) types.Type {
	if t == nil {
		return types.TAny
	}
	return c.exp.Expand(t)
}
