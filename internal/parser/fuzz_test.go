package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/lexer"
)

// FuzzParseExpr fuzzes the expression parser.
func FuzzParseExpr(f *testing.F) {
	seeds := []string{
		"1 + 2;",
		"const x = 5; x;",
		"[1, 2, 3];",
		"(x) => x + 1;",
		"({x: 1, y: 2});",
		"x ? 1 : 0;",
		"foo(bar, baz);",
		"1 + 2 * 3 - 4 / 5;",
		"x && y || z;",
		"[1, [2, 3], 4];",
		"({a: {b: {c: 1}}});",
		"(x) => (y) => x + y;",
		"(function f(x) { return x * 2; })(21);",
		"(1, 2, 3);",
		"true;",
		"false;",
		`"hello world";`,
		"42;",
		"3.14;",
		"foo.bar.baz;",
		"a?.b?.c;",
		"`template ${x}`;",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		p := New(lexer.New(input, "fuzz"), "fuzz")
		file := p.Parse()

		_ = file
		_ = p.Errors()
	})
}

// FuzzParseModule fuzzes module-level declarations.
func FuzzParseModule(f *testing.F) {
	seeds := []string{
		"import Foo from \"foo\";",
		"import { bar, baz } from \"foo\";",
		"function add(x: number, y: number) { return x + y; }",
		"function factorial(n: number): number { if (n <= 1) { return 1; } return n * factorial(n - 1); }",
		"export function publicFn() { return 42; }",
		"export default function () { return 42; }",
		"const x = 5;",
		"namespace Test {\nimport { map, filter } from \"std\";\nfunction process(x) { return x + 1; }\n}",
		"class Foo extends Bar implements Baz {}",
		"interface Shape { area(): number; }",
		"enum Color { Red, Green, Blue }",
		"type Alias<T> = T | null;",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on module input %q: %v", input, r)
			}
		}()

		p := New(lexer.New(input, "fuzz"), "fuzz")
		file := p.Parse()

		_ = file
		_ = p.Errors()
	})
}

// FuzzParseMalformed fuzzes with intentionally malformed input.
func FuzzParseMalformed(f *testing.F) {
	seeds := []string{
		"[1, 2, 3",
		"{x: 1, y:",
		"const x =",
		"if (true)",
		"(x) =>",
		"switch (x) {",
		"function foo(",
		"1 + + 2",
		"* 1 + 2",
		"[[[[[",
		"}}}}}",
		")))))",
		"import",
		"namespace",
		"const const = const",
		"function function function",
		"1 + 2 * 3 /",
		"class {",
		"interface {",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on malformed input %q: %v", input, r)
			}
		}()

		p := New(lexer.New(input, "fuzz"), "fuzz")
		file := p.Parse()

		_ = file
		_ = p.Errors()
	})
}

// FuzzParseUnicode fuzzes with various Unicode inputs.
func FuzzParseUnicode(f *testing.F) {
	seeds := []string{
		"let π = 3.14;",
		`"hello 世界";`,
		"let café = true;",
		"let emoji = \"🚀\";",
		"let résumé = {};",
		"\xEF\xBB\xBF42;",
		"let x = 1;\r\n",
		"let y = 2;\n",
		"let z = 3;\r",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on Unicode input %q: %v", input, r)
			}
		}()

		p := New(lexer.New(input, "fuzz"), "fuzz")
		file := p.Parse()

		_ = file
		_ = p.Errors()
	})
}
