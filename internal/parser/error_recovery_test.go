package parser

import (
	"strings"
	"testing"

	"github.com/sharpts/sharpts/internal/lexer"
)

// TestUnterminatedStructures checks various unclosed delimiters all report
// at least one error rather than panicking or looping.
func TestUnterminatedStructures(t *testing.T) {
	tests := []struct{ name, input string }{
		{"unterminated_array", "const x = [1, 2, 3"},
		{"unterminated_object", "const x = {a: 1, b: 2"},
		{"unterminated_paren", "const x = (1 + 2"},
		{"unterminated_block", "function f() { return 1;"},
		{"unterminated_string", `const s = "unclosed`},
		{"unterminated_template", "const s = `unclosed ${1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Error("expected parse errors for an unterminated structure")
			}
		})
	}
}

func TestUnexpectedTokens(t *testing.T) {
	tests := []struct{ name, input string }{
		{"operator_at_end", "1 + 2 *;"},
		{"operator_at_start", "* 1 + 2;"},
		{"missing_operand", "1 + + 2;"},
		{"invalid_const", "const = 5;"},
		{"invalid_if", "if () {}"},
		{"double_arrow", "(x) => => x;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Error("expected parse errors for an unexpected token")
			}
		})
	}
}

func TestUnexpectedEOF(t *testing.T) {
	tests := []struct{ name, input string }{
		{"eof_in_const", "const x ="},
		{"eof_in_if", "if (true)"},
		{"eof_in_arrow", "(x) =>"},
		{"eof_in_func", "function add(x, y)"},
		{"eof_after_operator", "1 +"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Error("expected parse errors for premature EOF")
			}
		})
	}
}

// TestLenientRecovery checks inputs that are syntactically odd but should
// not crash the parser, whether or not they end up reporting errors.
func TestLenientRecovery(t *testing.T) {
	tests := []struct{ name, input string }{
		{"if_without_braces", "if (true) 1; else 0;"},
		{"nested_arrow", "(x) => (y) => x + y;"},
		{"const_without_init", "let x;"},
		{"empty_block", "function f() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input, "test://unit"), "test://unit")
			_ = p.Parse()
		})
	}
}

func TestErrorRecoveryFindsMultipleErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		minErrorCount int
	}{
		{
			"two_bad_declarations",
			"const x = ;\nconst y = ;",
			2,
		},
		{
			"incomplete_functions",
			"function foo(x\nfunction bar(y) { return y; }\nfunction baz(z",
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) < tt.minErrorCount {
				t.Errorf("expected at least %d errors, got %d: %v", tt.minErrorCount, len(errs), errs)
			}
		})
	}
}

func TestStructuredErrorFormat(t *testing.T) {
	errs := mustParseError(t, "const x = [1, 2, 3")

	for _, err := range errs {
		if err.Error() == "" {
			t.Error("error has an empty message")
		}
		if pe, ok := err.(*ParseError); ok {
			if pe.Code == "" {
				t.Error("structured parse error missing a code")
			}
		}
	}
}

func TestErrorMessagesMentionContext(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectInMsg string
	}{
		{"missing_paren_mentions_paren", "const x = (1 + 2;", "RPAREN"},
		{"missing_operand_shows_operator", "1 + + 2;", "+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Fatal("expected a parse error")
			}

			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.expectInMsg) {
					found = true
					break
				}
			}
			if !found {
				t.Logf("expected an error mentioning %q, got:", tt.expectInMsg)
				for _, err := range errs {
					t.Logf("  - %s", err.Error())
				}
			}
		})
	}
}

func TestComplexErrorScenarios(t *testing.T) {
	tests := []struct{ name, input string }{
		{
			"incomplete_namespace",
			"namespace Foo {\nimport Bar from\nfunction test() {",
		},
		{
			"malformed_function",
			"function calculate(x: number, y: number -> number {\n  return x + y;",
		},
		{
			"broken_switch",
			"switch (value) {\n  case 1:\n  default\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Error("expected at least one error for malformed input")
			}
		})
	}
}
