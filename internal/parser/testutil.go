package parser

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// update controls whether golden files are regenerated or compared.
// Usage: go test -update ./internal/parser
var update = flag.Bool("update", false, "update golden files")

// goldenCompare compares got against a golden file, or rewrites it when
// -update is passed.
func goldenCompare(t *testing.T, name string, got string) {
	t.Helper()

	path := filepath.Join("testdata", "parser", name+".golden")

	if *update {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatalf("failed to write golden file %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nrun with -update to create it", path, err)
	}

	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("golden mismatch for %s (-want +got):\n%s", name, diff)
	}
}

// mustParseError parses input and expects at least one parse error.
func mustParseError(t *testing.T, input string) []error {
	t.Helper()

	p := New(lexer.New(input, "test://unit"), "test://unit")
	file := p.Parse()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors but got none. AST:\n%s", ast.Print(file))
	}

	return p.Errors()
}

// mustParse parses input and expects it to succeed with no errors.
func mustParse(t *testing.T, input string) *ast.File {
	t.Helper()

	p := New(lexer.New(input, "test://unit"), "test://unit")
	file := p.Parse()

	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors:\n%v", p.Errors())
	}
	if file == nil {
		t.Fatal("parser returned a nil file with no errors")
	}

	return file
}

// assertHasErrorCode checks that at least one error carries the given code
// (PAR001, PAR002, ...).
func assertHasErrorCode(t *testing.T, errs []error, code string) {
	t.Helper()

	for _, err := range errs {
		if strings.Contains(err.Error(), code) {
			return
		}
	}

	t.Errorf("expected error code %s but not found in:", code)
	for _, err := range errs {
		t.Errorf("  - %v", err)
	}
}

// assertErrorCount checks the parser produced exactly n errors.
func assertErrorCount(t *testing.T, errs []error, expected int) {
	t.Helper()

	if len(errs) != expected {
		t.Errorf("expected %d errors, got %d:", expected, len(errs))
		for _, err := range errs {
			t.Errorf("  - %v", err)
		}
	}
}

// firstStmt returns the first statement in a parsed file, failing the test
// if there isn't exactly one.
func firstStmt(t *testing.T, file *ast.File) ast.Stmt {
	t.Helper()

	if len(file.Statements) == 0 {
		t.Fatal("parsed file has no statements")
	}
	return file.Statements[0]
}

// parseExpr parses a single expression statement and returns its expression.
func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()

	file := mustParse(t, input)
	stmt := firstStmt(t, file)

	exprStmt, ok := stmt.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", stmt)
	}
	return exprStmt.X
}

// assertPrecedence parses an expression and checks its fully parenthesized
// form matches expectedForm.
//
// Usage:
//
//	assertPrecedence(t, "1 + 2 * 3", "(1 + (2 * 3))")
//	assertPrecedence(t, "x && y || z", "((x && y) || z)")
func assertPrecedence(t *testing.T, input, expectedForm string) {
	t.Helper()

	expr := parseExpr(t, input)
	got := exprToParenForm(expr)

	if got != expectedForm {
		t.Errorf("precedence mismatch:\n  input:    %s\n  expected: %s\n  got:      %s",
			input, expectedForm, got)
	}
}

// exprToParenForm renders an expression as a fully parenthesized string,
// e.g. BinaryExpr(+, 1, BinaryExpr(*, 2, 3)) -> "(1 + (2 * 3))".
func exprToParenForm(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.String()
	case *ast.Ident:
		return e.Name
	case *ast.BinaryExpr:
		return "(" + exprToParenForm(e.Left) + " " + e.Op + " " + exprToParenForm(e.Right) + ")"
	case *ast.LogicalExpr:
		return "(" + exprToParenForm(e.Left) + " " + e.Op + " " + exprToParenForm(e.Right) + ")"
	case *ast.AssignExpr:
		return "(" + exprToParenForm(e.Left) + " " + e.Op + " " + exprToParenForm(e.Right) + ")"
	case *ast.UnaryExpr:
		if e.Postfix {
			return "(" + exprToParenForm(e.Operand) + e.Op + ")"
		}
		return "(" + e.Op + exprToParenForm(e.Operand) + ")"
	case *ast.ConditionalExpr:
		return "(" + exprToParenForm(e.Cond) + " ? " + exprToParenForm(e.Then) + " : " + exprToParenForm(e.Else) + ")"
	case *ast.CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = exprToParenForm(a)
		}
		return exprToParenForm(e.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.MemberExpr:
		return exprToParenForm(e.Object) + "." + e.Property
	case nil:
		return "nil"
	default:
		return "<?>"
	}
}
