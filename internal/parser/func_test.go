package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

func parseFuncDecl(t *testing.T, input string) *ast.FuncDecl {
	t.Helper()
	file := mustParse(t, input)
	stmt := firstStmt(t, file)
	fn, ok := stmt.(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", stmt)
	}
	return fn
}

func TestFunctionDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		params int
	}{
		{"no_params", "function hello() { return 42; }", 0},
		{"one_param", "function square(x) { return x * x; }", 1},
		{"two_params", "function add(x, y) { return x + y; }", 2},
		{"with_default", "function add(x, y = 1) { return x + y; }", 2},
		{"with_rest", "function sum(...nums) { return 0; }", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := parseFuncDecl(t, tt.input)
			if len(fn.Params) != tt.params {
				t.Errorf("expected %d params, got %d", tt.params, len(fn.Params))
			}
			if fn.Body == nil {
				t.Error("expected a function body")
			}
		})
	}
}

func TestFunctionWithTypes(t *testing.T) {
	fn := parseFuncDecl(t, "function add(x: number, y: number): number { return x + y; }")
	for i, p := range fn.Params {
		if p.Type == nil {
			t.Errorf("param %d missing a type annotation", i)
		}
	}
	if fn.ReturnType == nil {
		t.Error("expected a return type")
	}
}

func TestFunctionTypePredicate(t *testing.T) {
	fn := parseFuncDecl(t, "function isString(x: unknown): x is string { return typeof x === \"string\"; }")
	if fn.Predicate == nil {
		t.Fatal("expected a type predicate instead of a plain return type")
	}
	if fn.Predicate.ParamName != "x" {
		t.Errorf("expected predicate on param 'x', got %q", fn.Predicate.ParamName)
	}
}

func TestFunctionAssertsPredicate(t *testing.T) {
	fn := parseFuncDecl(t, "function assertIsString(x: unknown): asserts x is string { }")
	if fn.Predicate == nil || !fn.Predicate.Asserts {
		t.Fatalf("expected an asserts predicate, got %#v", fn.Predicate)
	}
}

func TestGeneratorFunction(t *testing.T) {
	fn := parseFuncDecl(t, "function* gen() { yield 1; }")
	if !fn.Generator {
		t.Error("expected Generator to be true")
	}
}

func TestAsyncFunction(t *testing.T) {
	file := mustParse(t, "async function load() { return await fetch(); }")
	fn, ok := firstStmt(t, file).(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", firstStmt(t, file))
	}
	if !fn.Async {
		t.Error("expected Async to be true")
	}
}

func TestFunctionOverloadMerging(t *testing.T) {
	file := mustParse(t, `
function identity(x: number): number;
function identity(x: string): string;
function identity(x: any): any { return x; }
`)

	if len(file.Statements) != 1 {
		t.Fatalf("expected overload signatures to merge into one declaration, got %d statements", len(file.Statements))
	}
	fn, ok := file.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", file.Statements[0])
	}
	if len(fn.Overloads) != 2 {
		t.Errorf("expected 2 merged overload signatures, got %d", len(fn.Overloads))
	}
	if fn.Body == nil {
		t.Error("expected the implementation to keep its body")
	}
}

func TestExportedFunctions(t *testing.T) {
	file := mustParse(t, "export function add(x, y) { return x + y; }")
	stmt := firstStmt(t, file)
	fn, ok := stmt.(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", stmt)
	}
	if !fn.Exported {
		t.Error("expected Exported to be true")
	}
}

func TestGenericFunction(t *testing.T) {
	fn := parseFuncDecl(t, "function identity<T>(x: T): T { return x; }")
	if len(fn.TypeParams) != 1 {
		t.Fatalf("expected 1 type parameter, got %d", len(fn.TypeParams))
	}
	if fn.TypeParams[0].Name != "T" {
		t.Errorf("expected type parameter named T, got %q", fn.TypeParams[0].Name)
	}
}

func TestInvalidFunctionSyntax(t *testing.T) {
	tests := []struct{ name, input string }{
		{"missing_name", "function (x) { return x; }"},
		{"missing_paren", "function add x, y) { return x + y; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Errorf("expected a parse error for %q", tt.input)
			}
		})
	}
}

func TestMultipleFunctions(t *testing.T) {
	file := mustParse(t, "function add(x, y) { return x + y; }\nfunction sub(x, y) { return x - y; }")
	if len(file.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Statements))
	}
}
