package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

// TestDestructuringInFunctionParams checks that binding patterns parse
// correctly in parameter position, not just in variable declarations.
func TestDestructuringInFunctionParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"array_pattern_param",
			`function first([head]: number[]): number { return head; }`,
		},
		{
			"array_pattern_with_rest",
			`function rest([head, ...tail]: number[]): number[] { return tail; }`,
		},
		{
			"object_pattern_param",
			`function area({ width, height }: { width: number, height: number }): number { return width * height; }`,
		},
		{
			"nested_pattern",
			`function swap([{ x, y }]: { x: number, y: number }[]): number { return x + y; }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if len(file.Statements) != 1 {
				t.Fatalf("expected exactly one statement, got %d", len(file.Statements))
			}
		})
	}
}

func TestDestructuringInVarDecl(t *testing.T) {
	tests := []struct{ name, input string }{
		{"array", "const [a, b] = pair;"},
		{"array_with_rest", "const [a, ...rest] = list;"},
		{"object", "const { x, y } = point;"},
		{"object_with_rename", "const { x: px, y: py } = point;"},
		{"object_with_default", "const { x = 0 } = point;"},
		{"nested", "const { a: { b } } = deep;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			decl, ok := firstStmt(t, file).(*ast.VarDecl)
			if !ok {
				t.Fatalf("expected *ast.VarDecl, got %T", firstStmt(t, file))
			}
			if len(decl.Declarators) != 1 {
				t.Fatalf("expected one declarator, got %d", len(decl.Declarators))
			}
		})
	}
}

func TestArrayPatternElision(t *testing.T) {
	file := mustParse(t, "const [, second] = pair;")
	decl, ok := firstStmt(t, file).(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", firstStmt(t, file))
	}
	pat, ok := decl.Declarators[0].Pattern.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected *ast.ArrayLiteral pattern, got %T", decl.Declarators[0].Pattern)
	}
	if len(pat.Elements) != 2 {
		t.Fatalf("expected 2 positions (one elided), got %d", len(pat.Elements))
	}
}
