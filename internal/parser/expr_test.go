package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

func TestLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ast.LiteralKind
	}{
		{"int_zero", "0;", ast.LitNumber},
		{"int_positive", "42;", ast.LitNumber},
		{"float_simple", "3.14;", ast.LitNumber},
		{"float_scientific", "1.5e10;", ast.LitNumber},
		{"hex_literal", "0xFF;", ast.LitNumber},
		{"string_simple", `"hello";`, ast.LitString},
		{"string_with_escapes", `"hello\nworld";`, ast.LitString},
		{"bool_true", "true;", ast.LitBool},
		{"bool_false", "false;", ast.LitBool},
		{"null_literal", "null;", ast.LitNull},
		{"undefined_literal", "undefined;", ast.LitUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			lit, ok := expr.(*ast.Literal)
			if !ok {
				t.Fatalf("expected *ast.Literal, got %T", expr)
			}
			if lit.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, lit.Kind)
			}
		})
	}
}

func TestBigIntLiteral(t *testing.T) {
	expr := parseExpr(t, "9007199254740993n;")
	lit, ok := expr.(*ast.Literal)
	if !ok || lit.Kind != ast.LitBigInt {
		t.Fatalf("expected a bigint literal, got %#v", expr)
	}
	if lit.BigIntValue != "9007199254740993" {
		t.Errorf("unexpected bigint value %q", lit.BigIntValue)
	}
}

func TestIdentifiers(t *testing.T) {
	for _, name := range []string{"x", "foo", "foo_bar", "x1", "fooBar", "FooBar", "$dollar", "_underscore"} {
		t.Run(name, func(t *testing.T) {
			expr := parseExpr(t, name+";")
			id, ok := expr.(*ast.Ident)
			if !ok {
				t.Fatalf("expected *ast.Ident, got %T", expr)
			}
			if id.Name != name {
				t.Errorf("expected name %q, got %q", name, id.Name)
			}
		})
	}
}

func TestBinaryOperators(t *testing.T) {
	ops := []string{"+", "-", "*", "/", "%", "==", "===", "!=", "!==", "<", "<=", ">", ">=", "&", "|", "^", "<<", ">>", ">>>", "instanceof", "in"}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			expr := parseExpr(t, "x "+op+" y;")
			bin, ok := expr.(*ast.BinaryExpr)
			if !ok {
				t.Fatalf("expected *ast.BinaryExpr, got %T", expr)
			}
			if bin.Op != op {
				t.Errorf("expected op %q, got %q", op, bin.Op)
			}
		})
	}
}

func TestLogicalOperators(t *testing.T) {
	for _, op := range []string{"&&", "||", "??"} {
		t.Run(op, func(t *testing.T) {
			expr := parseExpr(t, "x "+op+" y;")
			lg, ok := expr.(*ast.LogicalExpr)
			if !ok {
				t.Fatalf("expected *ast.LogicalExpr, got %T", expr)
			}
			if lg.Op != op {
				t.Errorf("expected op %q, got %q", op, lg.Op)
			}
		})
	}
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct{ input, op string }{
		{"-x;", "-"},
		{"+x;", "+"},
		{"!true;", "!"},
		{"~x;", "~"},
		{"typeof x;", "typeof"},
		{"void 0;", "void"},
		{"delete x.y;", "delete"},
		{"++x;", "++"},
		{"--x;", "--"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			u, ok := expr.(*ast.UnaryExpr)
			if !ok {
				t.Fatalf("expected *ast.UnaryExpr, got %T", expr)
			}
			if u.Op != tt.op || u.Postfix {
				t.Errorf("expected prefix op %q, got op=%q postfix=%v", tt.op, u.Op, u.Postfix)
			}
		})
	}
}

func TestPostfixOperators(t *testing.T) {
	for _, op := range []string{"++", "--"} {
		t.Run(op, func(t *testing.T) {
			expr := parseExpr(t, "x"+op+";")
			u, ok := expr.(*ast.UnaryExpr)
			if !ok || !u.Postfix || u.Op != op {
				t.Fatalf("expected postfix %q, got %#v", op, expr)
			}
		})
	}
}

func TestArrayLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		elements int
	}{
		{"empty", "[];", 0},
		{"one_element", "[1];", 1},
		{"multiple", "[1, 2, 3];", 3},
		{"trailing_comma", "[1, 2, 3,];", 3},
		{"nested", "[[1, 2], [3, 4]];", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			arr, ok := expr.(*ast.ArrayLiteral)
			if !ok {
				t.Fatalf("expected *ast.ArrayLiteral, got %T", expr)
			}
			if len(arr.Elements) != tt.elements {
				t.Errorf("expected %d elements, got %d", tt.elements, len(arr.Elements))
			}
		})
	}
}

func TestArraySpread(t *testing.T) {
	expr := parseExpr(t, "[1, ...rest, 2];")
	arr, ok := expr.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("expected a 3-element array literal, got %#v", expr)
	}
	if !arr.Elements[1].Spread {
		t.Errorf("expected the middle element to be a spread")
	}
}

func TestObjectLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		props int
	}{
		{"empty", "({});", 0},
		{"one_field", "({x: 1});", 1},
		{"multiple", "({x: 1, y: 2});", 2},
		{"trailing_comma", "({x: 1, y: 2,});", 2},
		{"shorthand", "({x, y});", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			obj, ok := expr.(*ast.ObjectLiteral)
			if !ok {
				t.Fatalf("expected *ast.ObjectLiteral, got %T", expr)
			}
			if len(obj.Properties) != tt.props {
				t.Errorf("expected %d properties, got %d", tt.props, len(obj.Properties))
			}
		})
	}
}

func TestMemberAccess(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple", "point.x;"},
		{"chain", "user.address.city;"},
		{"after_call", "getUser().name;"},
		{"optional_chain", "user?.address;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			if _, ok := expr.(*ast.MemberExpr); !ok {
				t.Fatalf("expected *ast.MemberExpr, got %T", expr)
			}
		})
	}
}

func TestIndexAccess(t *testing.T) {
	expr := parseExpr(t, "arr[0];")
	idx, ok := expr.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected *ast.IndexExpr, got %T", expr)
	}
	if _, ok := idx.Index.(*ast.Literal); !ok {
		t.Errorf("expected index to be a literal, got %T", idx.Index)
	}
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		params int
	}{
		{"one_param_no_parens", "x => x + 1;", 1},
		{"one_param_parens", "(x) => x + 1;", 1},
		{"two_params", "(x, y) => x + y;", 2},
		{"no_params", "() => 1;", 0},
		{"block_body", "(x) => { return x; };", 1},
		{"nested", "x => y => x + y;", 1},
		{"typed_param", "(x: number) => x * 2;", 1},
		{"async_arrow", "async (x) => x;", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			fn, ok := expr.(*ast.FuncExpr)
			if !ok {
				t.Fatalf("expected *ast.FuncExpr, got %T", expr)
			}
			if len(fn.Params) != tt.params {
				t.Errorf("expected %d params, got %d", tt.params, len(fn.Params))
			}
		})
	}
}

func TestFunctionCalls(t *testing.T) {
	tests := []struct {
		name string
		in   string
		args int
	}{
		{"no_args", "foo();", 0},
		{"one_arg", "foo(1);", 1},
		{"multiple_args", "foo(1, 2, 3);", 3},
		{"nested", "foo(bar(x));", 1},
		{"spread_arg", "foo(...args);", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.in)
			call, ok := expr.(*ast.CallExpr)
			if !ok {
				t.Fatalf("expected *ast.CallExpr, got %T", expr)
			}
			if len(call.Args) != tt.args {
				t.Errorf("expected %d args, got %d", tt.args, len(call.Args))
			}
		})
	}
}

func TestCallChains(t *testing.T) {
	expr := parseExpr(t, "foo().bar().baz();")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr at the outermost level, got %T", expr)
	}
	if _, ok := call.Callee.(*ast.MemberExpr); !ok {
		t.Errorf("expected callee to be a member expression, got %T", call.Callee)
	}
}

func TestGenericCall(t *testing.T) {
	expr := parseExpr(t, "identity<number>(1);")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr)
	}
	if len(call.TypeArgs) != 1 {
		t.Errorf("expected one type argument, got %d", len(call.TypeArgs))
	}
}

func TestNewExpressions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		args int
	}{
		{"no_args", "new Foo;", 0},
		{"with_args", "new Foo(1, 2);", 2},
		{"with_generics", "new Box<number>(1);", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.in)
			n, ok := expr.(*ast.NewExpr)
			if !ok {
				t.Fatalf("expected *ast.NewExpr, got %T", expr)
			}
			if len(n.Args) != tt.args {
				t.Errorf("expected %d args, got %d", tt.args, len(n.Args))
			}
		})
	}
}

func TestConditionalExpressions(t *testing.T) {
	expr := parseExpr(t, "x > 0 ? \"pos\" : \"neg\";")
	cond, ok := expr.(*ast.ConditionalExpr)
	if !ok {
		t.Fatalf("expected *ast.ConditionalExpr, got %T", expr)
	}
	if _, ok := cond.Cond.(*ast.BinaryExpr); !ok {
		t.Errorf("expected condition to be a binary expression, got %T", cond.Cond)
	}
}

func TestGroupedExpressions(t *testing.T) {
	tests := []string{"(42);", "(1 + 2);", "((1 + 2) * 3);"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			expr := parseExpr(t, in)
			if expr == nil {
				t.Fatal("expected a parsed expression")
			}
		})
	}
}

func TestSequenceExpression(t *testing.T) {
	expr := parseExpr(t, "(a, b, c);")
	if _, ok := expr.(*ast.SequenceExpr); !ok {
		t.Fatalf("expected *ast.SequenceExpr, got %T", expr)
	}
}

func TestTemplateLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no_interpolation", "`hello`;"},
		{"single_interpolation", "`hello ${name}`;"},
		{"multiple_interpolations", "`${a} and ${b}`;"},
		{"nested_expr", "`value: ${1 + 2}`;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			if _, ok := expr.(*ast.TemplateLiteral); !ok {
				t.Fatalf("expected *ast.TemplateLiteral, got %T", expr)
			}
		})
	}
}

func TestAsExpression(t *testing.T) {
	expr := parseExpr(t, "x as number;")
	if _, ok := expr.(*ast.TypeAssertExpr); !ok {
		t.Fatalf("expected *ast.TypeAssertExpr, got %T", expr)
	}
}

func TestNonNullAssertion(t *testing.T) {
	expr := parseExpr(t, "x!.y;")
	if _, ok := expr.(*ast.MemberExpr); !ok {
		t.Fatalf("expected the non-null assertion to still resolve to member access, got %T", expr)
	}
}

func TestComplexExpressions(t *testing.T) {
	tests := []string{
		"(a + b) * (c - d) / e;",
		"foo(x + 1) + bar(y * 2);",
		"[{x: 1, y: 2}, {x: 3, y: 4}];",
		"((x) => x * 2)(21);",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			expr := parseExpr(t, in)
			if expr == nil {
				t.Fatal("expected a parsed expression")
			}
		})
	}
}
