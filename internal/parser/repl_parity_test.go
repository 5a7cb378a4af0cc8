package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// TestREPLFileParity checks that the same expression parses to the same AST
// shape whether it arrives as a REPL line or as file content — only the
// source path differs.
func TestREPLFileParity(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"simple_arithmetic", "1 + 2;"},
		{"multiplication", "2 * 3;"},
		{"complex_expr", "1 + 2 * 3 - 4;"},
		{"function_call", "foo(bar, baz);"},
		{"array_literal", "[1, 2, 3];"},
		{"object_literal", "({x: 1, y: 2});"},
		{"arrow", "(x) => x + 1;"},
		{"let_then_use", "let x = 5; x + 1;"},
		{"conditional", "true ? 1 : 0;"},
		{"boolean", "true && false;"},
		{"string", `"hello world";`},
		{"field_access", "foo.bar.baz;"},
		{"comparison", "x > 5;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replParser := New(lexer.New(tt.expr, "<repl>"), "<repl>")
			replFile := replParser.Parse()
			if len(replParser.Errors()) > 0 {
				t.Fatalf("REPL parse errors: %v", replParser.Errors())
			}

			fileParser := New(lexer.New(tt.expr, "test.ts"), "test.ts")
			fileFile := fileParser.Parse()
			if len(fileParser.Errors()) > 0 {
				t.Fatalf("file parse errors: %v", fileParser.Errors())
			}

			replAST := ast.Print(replFile)
			fileAST := ast.Print(fileFile)
			if replAST != fileAST {
				t.Errorf("REPL and file ASTs differ:\nREPL:\n%s\n\nFile:\n%s", replAST, fileAST)
			}
		})
	}
}

// TestREPLFileParityWithContext checks that a surrounding namespace doesn't
// change how a trailing expression parses.
func TestREPLFileParityWithContext(t *testing.T) {
	expr := "1 + 2 * 3;"

	replFile := mustParse(t, expr)

	fileInput := "namespace Test {}\n" + expr
	fileFile := mustParse(t, fileInput)

	if len(replFile.Statements) == 0 {
		t.Error("REPL produced no statements")
	}
	if len(fileFile.Statements) != 2 {
		t.Fatalf("expected 2 statements (namespace + expr), got %d", len(fileFile.Statements))
	}
}

func TestREPLMultilineExpression(t *testing.T) {
	tests := []struct{ name, input string }{
		{"let_with_newline", "let x = 5;\nx + 1;"},
		{"conditional_multiline", "true\n  ? 1\n  : 0;"},
		{"arrow_multiline", "(x) =>\n  (y) =>\n    x + y;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input, "<repl>"), "<repl>")
			_ = p.Parse()
			if len(p.Errors()) > 0 {
				t.Logf("parse errors (may be expected): %v", p.Errors())
			}
		})
	}
}

// TestREPLCommandsNotParsed checks that REPL meta-commands (":help" etc.) do
// not crash the expression parser; they are handled upstream by the REPL
// itself and should never reach here as valid syntax.
func TestREPLCommandsNotParsed(t *testing.T) {
	commands := []string{":help", ":quit", ":type", ":import"}

	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			p := New(lexer.New(cmd, "<repl>"), "<repl>")
			_ = p.Parse()
		})
	}
}

func TestREPLIncompleteExpression(t *testing.T) {
	tests := []struct{ name, input string }{
		{"incomplete_let", "let x ="},
		{"incomplete_conditional", "true ?"},
		{"incomplete_arrow", "(x) =>"},
		{"incomplete_call", "foo("},
		{"incomplete_array", "[1, 2,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input, "<repl>"), "<repl>")
			_ = p.Parse()
			_ = p.Errors()
		})
	}
}

func TestREPLExpressionStatement(t *testing.T) {
	tests := []string{
		"42;",
		"1 + 2;",
		"foo();",
		"[1, 2, 3];",
		"({x: 1});",
		"true;",
		`"hello";`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			file := mustParse(t, input)
			if len(file.Statements) == 0 {
				t.Error("expected at least one statement")
			}
		})
	}
}

// TestParserFilenamePreservation checks that the file path passed to New is
// preserved on the resulting *ast.File regardless of its shape.
func TestParserFilenamePreservation(t *testing.T) {
	tests := []struct{ filename, input string }{
		{"<repl>", "1 + 2;"},
		{"test.ts", "1 + 2;"},
		{"foo/bar/baz.ts", "1 + 2;"},
		{"test://unit", "1 + 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p := New(lexer.New(tt.input, tt.filename), tt.filename)
			file := p.Parse()
			if len(p.Errors()) > 0 {
				t.Fatalf("parse errors: %v", p.Errors())
			}
			if file.Path != tt.filename {
				t.Errorf("expected path %q, got %q", tt.filename, file.Path)
			}
		})
	}
}
