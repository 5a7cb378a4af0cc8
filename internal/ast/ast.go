// Package ast defines the SharpTS abstract syntax tree: the two sum types
// described in the language spec (Statement, Expression) plus the type
// annotation sub-grammar and destructuring patterns they embed.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a single source location.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Span is a half-open range in the source text, used for diagnostics and for
// the checker's expression-identity -> TypeInfo side table.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return s.Start.String() }

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Span() Span
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeNode is implemented by every node of the type-annotation sub-grammar.
type TypeNode interface {
	Node
	typeNode()
}

// Pattern is implemented by every destructuring / binding pattern node.
type Pattern interface {
	Node
	patternNode()
}

// base embeds a Span and is composed into every concrete node.
type base struct{ span Span }

func (b base) Span() Span { return b.span }

// Base constructs the embeddable span holder; the parser calls this once per
// node so every literal struct initializer reads `base: ast.Base(span)`.
func Base(span Span) base { return base{span: span} }

// File is a single compilation unit: a flat list of top-level statements,
// plus the file-level directive list applied to every class declared in it.
type File struct {
	base
	Path       string
	Directives []string
	Statements []Stmt
}

func (f *File) String() string {
	parts := make([]string, len(f.Statements))
	for i, s := range f.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// ---------------------------------------------------------------------
// Identifiers and common sub-structures
// ---------------------------------------------------------------------

// Ident is a bare identifier, usable as an expression, a type reference root
// (`typeof x`), or a binding pattern.
type Ident struct {
	base
	Name string
}

func (i *Ident) String() string { return i.Name }
func (*Ident) exprNode()        {}
func (*Ident) patternNode()     {}
func (*Ident) typeNode()        {}

// Param is one function/method parameter.
type Param struct {
	Pattern   Pattern
	Type      TypeNode // optional
	Default   Expr     // optional
	Optional  bool
	Rest      bool
	AccessMod string // "", public, protected, private, readonly — parameter properties desugaring target
}

// TypeParam is one generic type parameter declaration (`<T extends U = D>`).
type TypeParam struct {
	Name       string
	Constraint TypeNode // optional
	Default    TypeNode // optional
	Const      bool
	Variance   Variance
}

// Variance annotations on a type parameter (`in`, `out`, `in out`).
type Variance int

const (
	VarianceInvariant Variance = iota
	VarianceIn
	VarianceOut
	VarianceInOut
)

// ObjectKeyKind distinguishes the four key forms object members may use.
type ObjectKeyKind int

const (
	KeyIdent ObjectKeyKind = iota
	KeyString
	KeyNumber
	KeyComputed
)

// ObjectKey is a key position in an object literal or an object type member.
type ObjectKey struct {
	Ident    string
	String   string
	Number   float64
	Computed Expr
	Kind     ObjectKeyKind
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// DeclKind distinguishes var/let/const bindings.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (k DeclKind) String() string { return [...]string{"var", "let", "const"}[k] }

// VarDeclarator is one `name[: T] [= init]` clause of a variable statement;
// Name is nil when Pattern carries a destructuring pattern instead.
type VarDeclarator struct {
	Name    *Ident
	Pattern Pattern // destructuring pattern, alternative to Name
	Type    TypeNode
	Init    Expr
}

// VarDecl is a `var`/`let`/`const` statement, possibly with several declarators.
type VarDecl struct {
	base
	Kind        DeclKind
	Declarators []*VarDeclarator
}

func (*VarDecl) stmtNode() {}
func (d *VarDecl) String() string {
	parts := make([]string, len(d.Declarators))
	for i, decl := range d.Declarators {
		name := "?"
		if decl.Name != nil {
			name = decl.Name.Name
		}
		parts[i] = name
	}
	return fmt.Sprintf("%s %s", d.Kind, strings.Join(parts, ", "))
}

// TypePredicate models `x is T`, `asserts x`, `asserts x is T` return annotations.
type TypePredicate struct {
	Asserts   bool
	ParamName string
	Type      TypeNode // nil for bare `asserts x`
}

// FuncDecl is a named function declaration: one clause of an overload
// cluster when it has no Body, or the implementation signature.
type FuncDecl struct {
	base
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeNode
	Predicate  *TypePredicate
	Body       *BlockStmt // nil for an overload signature with no body
	Async      bool
	Generator  bool
	Overloads  []*FuncDecl // sibling overload signatures preceding the implementation
	Exported   bool
}

func (*FuncDecl) stmtNode()        {}
func (f *FuncDecl) String() string { return fmt.Sprintf("function %s(...)", f.Name) }

// MemberKind distinguishes class member forms.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberGetter
	MemberSetter
	MemberConstructor
)

// FieldAccess is the declared visibility of a class member.
type FieldAccess int

const (
	AccessPublic FieldAccess = iota
	AccessProtected
	AccessPrivate
)

// ClassMember is one member of a class body.
type ClassMember struct {
	Kind       MemberKind
	Name       string
	Access     FieldAccess
	Static     bool
	Abstract   bool
	Readonly   bool
	Override   bool
	Optional   bool
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeNode
	FieldType  TypeNode
	Init       Expr       // field initializer
	Body       *BlockStmt // nil for abstract/ambient members
	Async      bool
	Generator  bool
}

// ClassDecl is a class declaration or class expression.
type ClassDecl struct {
	base
	Name       string // "" for anonymous class expressions
	TypeParams []*TypeParam
	Superclass TypeNode // extends clause, may carry type arguments
	Implements []TypeNode
	Members    []*ClassMember
	Abstract   bool
	Directives []string // this class's applicable file-level directives, resolved at parse time
	Exported   bool
}

func (*ClassDecl) stmtNode()        {}
func (c *ClassDecl) String() string { return fmt.Sprintf("class %s", c.Name) }

// InterfaceMember mirrors ClassMember for the lighter interface-body grammar.
type InterfaceMember struct {
	Name        string
	Optional    bool
	Readonly    bool
	Params      []*Param // set for method-signature members
	ReturnType  TypeNode
	FieldType   TypeNode
	StringIndex TypeNode
	NumberIndex TypeNode
}

// InterfaceDecl declares a structural interface, possibly generic and
// possibly extending other interfaces.
type InterfaceDecl struct {
	base
	Name       string
	TypeParams []*TypeParam
	Extends    []TypeNode
	Members    []*InterfaceMember
	Exported   bool
}

func (*InterfaceDecl) stmtNode()        {}
func (i *InterfaceDecl) String() string { return fmt.Sprintf("interface %s", i.Name) }

// TypeAliasDecl declares `type Name<T> = T2`.
type TypeAliasDecl struct {
	base
	Name       string
	TypeParams []*TypeParam
	Value      TypeNode
	Exported   bool
}

func (*TypeAliasDecl) stmtNode()        {}
func (t *TypeAliasDecl) String() string { return fmt.Sprintf("type %s = ...", t.Name) }

// EnumMember is one `Name [= init]` clause of an enum body.
type EnumMember struct {
	Name string
	Init Expr // optional; string/number literal or constant expression
}

// EnumDecl declares a (possibly const) enum.
type EnumDecl struct {
	base
	Name     string
	IsConst  bool
	Members  []*EnumMember
	Exported bool
}

func (*EnumDecl) stmtNode()        {}
func (e *EnumDecl) String() string { return fmt.Sprintf("enum %s", e.Name) }

// NamespaceDecl declares `namespace A { ... }`; dotted forms are desugared by
// the parser into nested NamespaceDecls.
type NamespaceDecl struct {
	base
	Name string
	Body []Stmt
}

func (*NamespaceDecl) stmtNode()        {}
func (n *NamespaceDecl) String() string { return fmt.Sprintf("namespace %s", n.Name) }

// ImportSpecifier is one named import clause (`{ a, b as c }`).
type ImportSpecifier struct {
	Imported string
	Local    string
}

// ImportDecl covers default, named, namespace, and side-effect-only imports.
type ImportDecl struct {
	base
	Default    string
	Namespace  string
	Specifiers []ImportSpecifier
	ModulePath string
}

func (*ImportDecl) stmtNode()        {}
func (i *ImportDecl) String() string { return fmt.Sprintf("import ... from %q", i.ModulePath) }

// ExportDecl wraps a declaration being exported, or carries named
// re-export/export specifiers when Decl is nil.
type ExportDecl struct {
	base
	Decl       Stmt
	Default    bool
	Specifiers []ImportSpecifier
	FromModule string // set for re-exports: `export { a } from "m"`
}

func (*ExportDecl) stmtNode()        {}
func (e *ExportDecl) String() string { return "export ..." }

// BlockStmt is `{ stmts... }`.
type BlockStmt struct {
	base
	Statements []Stmt
}

func (*BlockStmt) stmtNode()        {}
func (b *BlockStmt) String() string { return "{ ... }" }

// IfStmt is `if (cond) then [else else]`.
type IfStmt struct {
	base
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

func (*IfStmt) stmtNode()        {}
func (s *IfStmt) String() string { return "if (...) ..." }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	base
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode()        {}
func (s *WhileStmt) String() string { return "while (...) ..." }

// DoWhileStmt is `do body while (cond)`.
type DoWhileStmt struct {
	base
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) stmtNode()        {}
func (s *DoWhileStmt) String() string { return "do ... while (...)" }

// ForKind distinguishes the surviving surface loop forms; C-style for is
// desugared by the parser before it ever reaches this node.
type ForKind int

const (
	ForIn ForKind = iota
	ForOf
	ForAwaitOf
)

// ForStmt is `for (decl in|of expr) body`, after C-style desugaring.
type ForStmt struct {
	base
	Kind     ForKind
	DeclKind DeclKind // meaningful when Binding introduces a new variable
	Binding  Pattern
	Iterable Expr
	Body     Stmt
}

func (*ForStmt) stmtNode()        {}
func (s *ForStmt) String() string { return "for (...) ..." }

// ReturnStmt/BreakStmt/ContinueStmt/ThrowStmt.
type ReturnStmt struct {
	base
	Value Expr // optional
}

func (*ReturnStmt) stmtNode()        {}
func (s *ReturnStmt) String() string { return "return" }

type BreakStmt struct {
	base
	Label string
}

func (*BreakStmt) stmtNode()        {}
func (s *BreakStmt) String() string { return "break" }

type ContinueStmt struct {
	base
	Label string
}

func (*ContinueStmt) stmtNode()        {}
func (s *ContinueStmt) String() string { return "continue" }

type ThrowStmt struct {
	base
	Value Expr
}

func (*ThrowStmt) stmtNode()        {}
func (s *ThrowStmt) String() string { return "throw ..." }

// CatchClause is the optional `catch (param) body` of a try statement.
type CatchClause struct {
	Param Pattern // optional (bare `catch {}` is legal)
	Type  TypeNode
	Body  *BlockStmt
}

// TryStmt is `try { } [catch (e) { }] [finally { }]`.
type TryStmt struct {
	base
	Try     *BlockStmt
	Catch   *CatchClause // optional
	Finally *BlockStmt   // optional
}

func (*TryStmt) stmtNode()        {}
func (s *TryStmt) String() string { return "try { ... }" }

// SwitchCase is one `case expr:`/`default:` clause.
type SwitchCase struct {
	Test       Expr // nil for default
	Statements []Stmt
}

// SwitchStmt is a `switch (disc) { cases... }`.
type SwitchStmt struct {
	base
	Disc  Expr
	Cases []*SwitchCase
}

func (*SwitchStmt) stmtNode()        {}
func (s *SwitchStmt) String() string { return "switch (...) { ... }" }

// LabeledStmt is `label: stmt`.
type LabeledStmt struct {
	base
	Label string
	Body  Stmt
}

func (*LabeledStmt) stmtNode()        {}
func (s *LabeledStmt) String() string { return fmt.Sprintf("%s: ...", s.Label) }

// ExprStmt wraps a bare expression used as a statement.
type ExprStmt struct {
	base
	X Expr
}

func (*ExprStmt) stmtNode()        {}
func (s *ExprStmt) String() string { return s.X.String() }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// LiteralKind distinguishes the literal expression forms.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitNull
	LitUndefined
	LitBigInt
	LitRegex
)

// Literal is a literal expression; the parsed value lives in the field
// matching Kind (NumberValue is an IEEE-754 double, BigIntValue is
// arbitrary-precision text kept as decimal digits).
type Literal struct {
	base
	Kind         LiteralKind
	NumberValue  float64
	StringValue  string
	BoolValue    bool
	BigIntValue  string
	RegexPattern string
	RegexFlags   string
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	switch l.Kind {
	case LitNumber:
		return fmt.Sprintf("%g", l.NumberValue)
	case LitString:
		return fmt.Sprintf("%q", l.StringValue)
	case LitBool:
		return fmt.Sprintf("%v", l.BoolValue)
	case LitBigInt:
		return l.BigIntValue + "n"
	case LitNull:
		return "null"
	case LitUndefined:
		return "undefined"
	case LitRegex:
		return fmt.Sprintf("/%s/%s", l.RegexPattern, l.RegexFlags)
	}
	return "?"
}

// BinaryExpr is a binary operator application, including `instanceof`/`in`.
type BinaryExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode()        {}
func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// LogicalExpr is `&&`, `||`, `??` — kept distinct from BinaryExpr because it
// short-circuits and participates in narrowing.
type LogicalExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*LogicalExpr) exprNode()        {}
func (l *LogicalExpr) String() string { return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right) }

// UnaryExpr covers prefix operators (`!x`, `-x`, `++x`, `typeof x`, `void x`,
// `delete x`) and, with Postfix set, `x++`/`x--`.
type UnaryExpr struct {
	base
	Op      string
	Operand Expr
	Postfix bool
}

func (*UnaryExpr) exprNode() {}
func (u *UnaryExpr) String() string {
	if u.Postfix {
		return fmt.Sprintf("%s%s", u.Operand, u.Op)
	}
	return fmt.Sprintf("%s%s", u.Op, u.Operand)
}

// CallExpr is a function/method call, optionally with explicit type
// arguments and with an optional-chaining flag for `a?.(...)`.
type CallExpr struct {
	base
	Callee       Expr
	TypeArgs     []TypeNode
	Args         []Expr
	Optional     bool
	SpreadArgIdx []int // indices within Args that are spread (`...x`)
}

func (*CallExpr) exprNode()        {}
func (c *CallExpr) String() string { return fmt.Sprintf("%s(...)", c.Callee) }

// NewExpr is `new Callee(args)`.
type NewExpr struct {
	base
	Callee   Expr
	TypeArgs []TypeNode
	Args     []Expr
}

func (*NewExpr) exprNode()        {}
func (n *NewExpr) String() string { return fmt.Sprintf("new %s(...)", n.Callee) }

// MemberExpr is `obj.prop`, possibly with optional chaining.
type MemberExpr struct {
	base
	Object   Expr
	Property string
	Optional bool
}

func (*MemberExpr) exprNode()        {}
func (m *MemberExpr) String() string { return fmt.Sprintf("%s.%s", m.Object, m.Property) }

// IndexExpr is `obj[index]`, possibly with optional chaining.
type IndexExpr struct {
	base
	Object   Expr
	Index    Expr
	Optional bool
}

func (*IndexExpr) exprNode()        {}
func (i *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", i.Object, i.Index) }

// AssignExpr is `lhs op= rhs` for `=` and every compound assignment operator.
type AssignExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*AssignExpr) exprNode()        {}
func (a *AssignExpr) String() string { return fmt.Sprintf("%s %s %s", a.Left, a.Op, a.Right) }

// ArrayElement is one element of an array literal: a plain expression, a
// spread (`...x`), or a hole (all nil, from elisions like `[,,1]`).
type ArrayElement struct {
	Value  Expr
	Spread bool
}

// ArrayLiteral is `[elems...]`; it doubles as an array destructuring pattern.
type ArrayLiteral struct {
	base
	Elements []ArrayElement
}

func (*ArrayLiteral) exprNode()        {}
func (*ArrayLiteral) patternNode()     {}
func (a *ArrayLiteral) String() string { return "[...]" }

// ObjectProperty is one entry of an object literal.
type ObjectProperty struct {
	Key       ObjectKey
	Value     Expr // nil for shorthand `{x}`, in which case Key.Ident is the binding name
	Spread    bool
	Shorthand bool
	Method    bool // `{ f() {...} }`
}

// ObjectLiteral is `{ props... }`; it doubles as an object destructuring pattern.
type ObjectLiteral struct {
	base
	Properties []ObjectProperty
}

func (*ObjectLiteral) exprNode()        {}
func (*ObjectLiteral) patternNode()     {}
func (o *ObjectLiteral) String() string { return "{...}" }

// TemplatePart is either a literal chunk or an interleaved expression.
type TemplatePart struct {
	Literal string
	Expr    Expr // nil for a literal-only part
}

// TemplateLiteral is a template string with interleaved expressions.
type TemplateLiteral struct {
	base
	Parts []TemplatePart
}

func (*TemplateLiteral) exprNode()        {}
func (t *TemplateLiteral) String() string { return "`...`" }

// FuncExpr is a function expression or arrow function; Arrow distinguishes
// `this`-capturing semantics.
type FuncExpr struct {
	base
	Name       string // optional, for named function expressions
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeNode
	Predicate  *TypePredicate
	Body       *BlockStmt // for block bodies
	ExprBody   Expr       // for arrow concise bodies
	Arrow      bool
	Async      bool
	Generator  bool
}

func (*FuncExpr) exprNode()        {}
func (f *FuncExpr) String() string { return "function(...)" }

// ClassExpr wraps a ClassDecl used in expression position.
type ClassExpr struct {
	base
	Class *ClassDecl
}

func (*ClassExpr) exprNode()        {}
func (c *ClassExpr) String() string { return "class {...}" }

// ConditionalExpr is `cond ? then : else`.
type ConditionalExpr struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (*ConditionalExpr) exprNode() {}
func (c *ConditionalExpr) String() string {
	return fmt.Sprintf("%s ? %s : %s", c.Cond, c.Then, c.Else)
}

// SequenceExpr is the comma operator `(a, b, c)`.
type SequenceExpr struct {
	base
	Exprs []Expr
}

func (*SequenceExpr) exprNode()        {}
func (s *SequenceExpr) String() string { return "(a, b, ...)" }

// SpreadExpr is `...x` used in call-argument/array/object position; it
// doubles as a rest-element binding pattern.
type SpreadExpr struct {
	base
	Value Expr
}

func (*SpreadExpr) exprNode()        {}
func (*SpreadExpr) patternNode()     {}
func (s *SpreadExpr) String() string { return "..." + s.Value.String() }

// TypeAssertExpr is `<T>expr` or `expr as T`; AsConst marks `as const`.
type TypeAssertExpr struct {
	base
	Value   Expr
	Type    TypeNode
	AsConst bool
}

func (*TypeAssertExpr) exprNode()        {}
func (t *TypeAssertExpr) String() string { return fmt.Sprintf("%s as ...", t.Value) }

// NonNullExpr is the `!` non-null assertion postfix operator.
type NonNullExpr struct {
	base
	Value Expr
}

func (*NonNullExpr) exprNode()        {}
func (n *NonNullExpr) String() string { return n.Value.String() + "!" }

// YieldExpr is `yield [*] [expr]`.
type YieldExpr struct {
	base
	Value    Expr // optional
	Delegate bool
}

func (*YieldExpr) exprNode() {}
func (y *YieldExpr) String() string {
	if y.Delegate {
		return "yield* ..."
	}
	return "yield ..."
}

// AwaitExpr is `await expr`.
type AwaitExpr struct {
	base
	Value Expr
}

func (*AwaitExpr) exprNode()        {}
func (a *AwaitExpr) String() string { return "await " + a.Value.String() }

// GroupingExpr is a parenthesized expression, kept distinct so the printer
// and the `<T>expr`-vs-less-than parser disambiguation can see it.
type GroupingExpr struct {
	base
	Value Expr
}

func (*GroupingExpr) exprNode()        {}
func (g *GroupingExpr) String() string { return "(" + g.Value.String() + ")" }

// DefaultPattern wraps a pattern with a default value (`{a = 1}`, `[a = 1]`).
type DefaultPattern struct {
	base
	Target  Pattern
	Default Expr
}

func (*DefaultPattern) patternNode()     {}
func (d *DefaultPattern) String() string { return d.Target.String() + " = ..." }
