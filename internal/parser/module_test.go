package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

func TestImportDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare", `import "foo";`},
		{"named", `import { bar, baz } from "foo";`},
		{"named_alias", `import { bar as b } from "foo";`},
		{"default", `import Foo from "foo";`},
		{"namespace", `import * as Foo from "foo";`},
		{"default_and_named", `import Foo, { bar } from "foo";`},
		{"default_and_namespace", `import Foo, * as Bar from "foo";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			stmt := firstStmt(t, file)
			if _, ok := stmt.(*ast.ImportDecl); !ok {
				t.Fatalf("expected *ast.ImportDecl, got %T", stmt)
			}
		})
	}
}

func TestImportNamespaceBinding(t *testing.T) {
	file := mustParse(t, `import * as Foo from "foo";`)
	decl := firstStmt(t, file).(*ast.ImportDecl)
	if decl.Namespace != "Foo" {
		t.Errorf("expected namespace binding Foo, got %q", decl.Namespace)
	}
}

func TestExportDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"export_var", "export const x = 1;"},
		{"export_func", "export function f() { return 1; }"},
		{"export_class", "export class C {}"},
		{"export_named", "export { a, b as c };"},
		{"export_default_expr", "export default 42;"},
		{"export_default_func", "export default function () { return 1; }"},
		{"export_default_class", "export default class {}"},
		{"export_from", `export { a } from "foo";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			stmt := firstStmt(t, file)
			if _, ok := stmt.(*ast.ExportDecl); !ok {
				t.Fatalf("expected *ast.ExportDecl, got %T", stmt)
			}
		})
	}
}

func TestNamespaceDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple", "namespace Foo { }"},
		{"dotted", "namespace Foo.Bar { }"},
		{"with_statement", "namespace Foo { const x = 1; }"},
		{"module_keyword", "module Foo { }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			stmt := firstStmt(t, file)
			if _, ok := stmt.(*ast.NamespaceDecl); !ok {
				t.Fatalf("expected *ast.NamespaceDecl, got %T", stmt)
			}
		})
	}
}

func TestDottedNamespaceDesugars(t *testing.T) {
	file := mustParse(t, "namespace Foo.Bar { const x = 1; }")
	outer := firstStmt(t, file).(*ast.NamespaceDecl)
	if outer.Name != "Foo" {
		t.Fatalf("expected outer namespace Foo, got %q", outer.Name)
	}
	if len(outer.Body) != 1 {
		t.Fatalf("expected one nested statement, got %d", len(outer.Body))
	}
	inner, ok := outer.Body[0].(*ast.NamespaceDecl)
	if !ok || inner.Name != "Bar" {
		t.Fatalf("expected nested namespace Bar, got %#v", outer.Body[0])
	}
}

func TestInvalidModuleSyntax(t *testing.T) {
	tests := []struct{ name, input string }{
		{"import_missing_from", `import { a } "foo";`},
		{"import_missing_string", `import { a } from foo;`},
		{"export_unrecognized", "export 1 2 3;"},
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
