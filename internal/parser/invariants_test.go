package parser

import (
	"strings"
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// TestUTF8BOM checks that a leading UTF-8 BOM is rejected rather than
// silently accepted or causing a panic (the lexer does not strip it).
func TestUTF8BOM(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"bom_before_number", "\xEF\xBB\xBF42;", true},
		{"bom_before_let", "\xEF\xBB\xBFlet x = 5;", true},
		{"no_bom", "42;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input, "test://unit"), "test://unit")
			_ = p.Parse()

			hasErrors := len(p.Errors()) > 0
			if hasErrors != tt.expectError {
				if tt.expectError {
					t.Error("expected parse errors but got none")
				} else {
					t.Errorf("unexpected parse errors: %v", p.Errors())
				}
			}
		})
	}
}

func TestLineEndingNormalization(t *testing.T) {
	tests := []struct{ name, input string }{
		{"unix_lf", "let x = 1;\nlet y = 2;\nlet z = 3;"},
		{"windows_crlf", "let x = 1;\r\nlet y = 2;\r\nlet z = 3;"},
		{"old_mac_cr", "let x = 1;\rlet y = 2;\rlet z = 3;"},
		{"mixed_endings", "let x = 1;\nlet y = 2;\r\nlet z = 3;\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if len(file.Statements) != 3 {
				t.Errorf("expected 3 statements, got %d", len(file.Statements))
			}
		})
	}
}

// TestLineEndingConsistency checks that the choice of line ending does not
// change the shape of the resulting AST.
func TestLineEndingConsistency(t *testing.T) {
	baseCode := "let x = 5;{NL}let y = 10;{NL}x + y;"

	variants := map[string]string{
		"LF":   strings.ReplaceAll(baseCode, "{NL}", "\n"),
		"CRLF": strings.ReplaceAll(baseCode, "{NL}", "\r\n"),
		"CR":   strings.ReplaceAll(baseCode, "{NL}", "\r"),
	}

	var counts []int
	for name, input := range variants {
		file := mustParse(t, input)
		counts = append(counts, len(file.Statements))
		if len(file.Statements) != 3 {
			t.Errorf("%s: expected 3 statements, got %d", name, len(file.Statements))
		}
	}

	for i, c := range counts[1:] {
		if c != counts[0] {
			t.Errorf("variant %d has a different statement count: want %d, got %d", i+1, counts[0], c)
		}
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	tests := []struct{ name, input string }{
		{"greek_letters", "let π = 3.14;"},
		{"accented_chars", "let café = true;"},
		{"chinese_chars", "let 变量 = 42;"},
		{"mixed_unicode", "let résumé_α = { name: \"test\" };"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input, "test://unit"), "test://unit")
			_ = p.Parse()
			// Just ensure no panic; the lexer's identifier rules decide acceptance.
		})
	}
}

func TestUnicodeStrings(t *testing.T) {
	tests := []struct{ name, input string }{
		{"chinese_string", `"你好世界";`},
		{"emoji_string", `"Hello 🌍🚀✨";`},
		{"mixed_unicode_string", `"Café résumé naïve π ∞";`},
		{"arabic_string", `"مرحبا بالعالم";`},
		{"hebrew_string", `"שלום עולם";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if len(file.Statements) == 0 {
				t.Error("expected a parsed string literal statement")
			}
		})
	}
}

func TestWhitespaceNormalization(t *testing.T) {
	tests := []struct{ name, input string }{
		{"spaces", "let x = 1 + 2;"},
		{"tabs", "let\tx\t=\t1\t+\t2;"},
		{"mixed_whitespace", "let  x\t= \t 1  +\t2;"},
		{"trailing_whitespace", "let x = 1 + 2;  \t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustParse(t, tt.input)
		})
	}
}

// TestDeterministicParsing checks that parsing the same input repeatedly
// always yields the same printed AST.
func TestDeterministicParsing(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3;",
		"let x = 5; x + 1;",
		"[1, 2, 3];",
		"({x: 1, y: 2});",
		`function add(a: number, b: number) { return a + b; }`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var outputs []string
			for i := 0; i < 5; i++ {
				file := mustParse(t, input)
				outputs = append(outputs, ast.Print(file))
			}

			first := outputs[0]
			for i, output := range outputs[1:] {
				if output != first {
					t.Errorf("iteration %d produced a different AST:\nwant:\n%s\ngot:\n%s", i+1, first, output)
				}
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	tests := []struct{ name, input string }{
		{"empty_string", ""},
		{"only_spaces", "   "},
		{"only_tabs", "\t\t\t"},
		{"only_newlines", "\n\n\n"},
		{"only_whitespace", " \t\n \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if len(file.Statements) != 0 {
				t.Errorf("expected no statements, got %d", len(file.Statements))
			}
		})
	}
}

func TestVeryLongInput(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("const xs = [")
	for i := 0; i < 1000; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("1")
	}
	sb.WriteString("];")

	file := mustParse(t, sb.String())
	if len(file.Statements) != 1 {
		t.Errorf("expected 1 statement, got %d", len(file.Statements))
	}
}

func TestDeeplyNestedStructures(t *testing.T) {
	tests := []struct{ name, input string }{
		{"nested_arrays", "[[[[[1]]]]];"},
		{"nested_objects", "({a: {b: {c: {d: {e: 1}}}}});"},
		{"nested_parens", "(((((1 + 2)))));"},
		{"nested_function_calls", "f(g(h(i(j(1)))));"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input, "test://unit"), "test://unit")
			_ = p.Parse()
			if len(p.Errors()) > 0 {
				t.Logf("parse errors (may be expected for deep nesting): %v", p.Errors())
			}
		})
	}
}
