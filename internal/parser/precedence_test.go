package parser

import (
	"fmt"
	"testing"
)

// TestOperatorPrecedence exercises the binary operator precedence table
// using table-driven tests with expected parenthesized forms.
func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"add_vs_multiply", "1 + 2 * 3;", "(1 + (2 * 3))"},
		{"multiply_vs_add", "2 * 3 + 1;", "((2 * 3) + 1)"},
		{"subtract_vs_multiply", "10 - 2 * 3;", "(10 - (2 * 3))"},
		{"divide_vs_add", "10 / 2 + 3;", "((10 / 2) + 3)"},
		{"modulo_vs_add", "10 % 3 + 1;", "((10 % 3) + 1)"},

		{"add_left_assoc", "1 + 2 + 3;", "((1 + 2) + 3)"},
		{"subtract_left_assoc", "10 - 5 - 2;", "((10 - 5) - 2)"},
		{"multiply_left_assoc", "2 * 3 * 4;", "((2 * 3) * 4)"},
		{"divide_left_assoc", "12 / 3 / 2;", "((12 / 3) / 2)"},

		{"complex_arith_1", "1 + 2 * 3 + 4;", "((1 + (2 * 3)) + 4)"},
		{"complex_arith_2", "2 * 3 + 4 * 5;", "((2 * 3) + (4 * 5))"},
		{"complex_arith_3", "10 - 2 * 3 + 1;", "((10 - (2 * 3)) + 1)"},

		{"compare_vs_add", "1 + 2 < 3 + 4;", "((1 + 2) < (3 + 4))"},
		{"compare_vs_multiply", "2 * 3 == 3 * 2;", "((2 * 3) == (3 * 2))"},
		{"compare_chain", "x < y && y < z;", "((x < y) && (y < z))"},

		{"and_vs_or", "x || y && z;", "(x || (y && z))"},
		{"or_vs_and", "x && y || z;", "((x && y) || z)"},

		{"and_left_assoc", "a && b && c;", "((a && b) && c)"},
		{"or_left_assoc", "a || b || c;", "((a || b) || c)"},

		{"complex_logical_1", "a && b || c && d;", "((a && b) || (c && d))"},
		{"complex_logical_2", "a || b && c || d;", "((a || (b && c)) || d)"},

		{"mixed_1", "1 + 2 * 3 < 4 + 5;", "((1 + (2 * 3)) < (4 + 5))"},
		{"mixed_2", "x < y && a + b > c;", "((x < y) && ((a + b) > c))"},
		{"mixed_3", "a * b + c * d == e;", "(((a * b) + (c * d)) == e)"},

		{"bitwise_or_vs_and", "a | b & c;", "(a | (b & c))"},
		{"bitwise_xor_vs_and", "a ^ b & c;", "(a ^ (b & c))"},
		{"bitwise_or_vs_xor", "a | b ^ c;", "(a | (b ^ c))"},
		{"equality_vs_bitwise", "a == b | c;", "(a == (b | c))"},
		{"shift_vs_add", "a << 1 + 2;", "(a << (1 + 2))"},
		{"relational_vs_shift", "a < b << 1;", "(a < (b << 1))"},

		{"nullish_vs_or", "a ?? b || c;", "(a ?? (b || c))"},
		{"and_vs_nullish", "a ?? b && c;", "(a ?? (b && c))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPrecedence(t, tt.input, tt.expected)
		})
	}
}

func TestUnaryPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"negate_vs_add", "-x + y;", "((-x) + y)"},
		{"not_vs_and", "!x && y;", "((!x) && y)"},
		{"negate_not", "-!x;", "(-(!x))"},
		{"unary_in_arith", "1 + -2 * 3;", "(1 + ((-2) * 3))"},
		{"not_in_logical", "!x || y && !z;", "((!x) || (y && (!z)))"},
		{"typeof_vs_equality", "typeof x == \"number\";", `((typeof x) == "number")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPrecedence(t, tt.input, tt.expected)
		})
	}
}

func TestPrecedenceWithGrouping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"grouped_add_first", "(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"grouped_or_first", "(x || y) && z;", "((x || y) && z)"},
		{"nested_grouping", "((1 + 2) * 3) + 4;", "(((1 + 2) * 3) + 4)"},
		{"multiple_groups", "(a + b) * (c + d);", "((a + b) * (c + d))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPrecedence(t, tt.input, tt.expected)
		})
	}
}

func TestAssociativity(t *testing.T) {
	tests := []struct {
		name string
		op   string
	}{
		{"add_assoc", "+"},
		{"subtract_assoc", "-"},
		{"multiply_assoc", "*"},
		{"divide_assoc", "/"},
		{"modulo_assoc", "%"},
		{"and_assoc", "&&"},
		{"or_assoc", "||"},
		{"equal_assoc", "=="},
		{"less_assoc", "<"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := fmt.Sprintf("a %s b %s c;", tt.op, tt.op)
			expected := fmt.Sprintf("((a %s b) %s c)", tt.op, tt.op)
			assertPrecedence(t, input, expected)
		})
	}
}

func TestPrecedenceWithFunctionCalls(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"call_vs_add", "f(x) + 1;", "(f(x) + 1)"},
		{"call_vs_multiply", "f(x) * 2;", "(f(x) * 2)"},
		{"add_in_call", "f(x + 1);", "f((x + 1))"},
		{"multiply_in_call", "f(x * 2);", "f((x * 2))"},
		{"chained_calls", "f(g(x));", "f(g(x))"},
		{"call_with_op", "f(x) + g(y);", "(f(x) + g(y))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPrecedence(t, tt.input, tt.expected)
		})
	}
}

func TestPrecedenceWithFieldAccess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"access_vs_add", "obj.field + 1;", "(obj.field + 1)"},
		{"access_vs_multiply", "obj.field * 2;", "(obj.field * 2)"},
		{"chained_access", "obj.a.b.c;", "obj.a.b.c"},
		{"access_with_op", "obj1.x + obj2.y;", "(obj1.x + obj2.y)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPrecedence(t, tt.input, tt.expected)
		})
	}
}

func TestPrecedenceEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"long_add_chain", "1 + 2 + 3 + 4 + 5;", "((((1 + 2) + 3) + 4) + 5)"},
		{"long_multiply_chain", "1 * 2 * 3 * 4;", "(((1 * 2) * 3) * 4)"},
		{"mixed_long_chain", "1 + 2 * 3 + 4 * 5 + 6;", "(((1 + (2 * 3)) + (4 * 5)) + 6)"},
		{"deep_nested", "a || b && c || d && e;", "((a || (b && c)) || (d && e))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPrecedence(t, tt.input, tt.expected)
		})
	}
}

func TestInvalidPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two_operators", "1 + * 2;"},
		{"trailing_operator", "1 + 2 +"},
		{"unmatched_paren", "(1 + 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mustParseError(t, tt.input)
			if len(errs) == 0 {
				t.Errorf("expected parse error for %q, but got none", tt.input)
			}
		})
	}
}
