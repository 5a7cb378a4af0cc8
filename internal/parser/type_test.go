package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

func parseTypeAlias(t *testing.T, input string) *ast.TypeAliasDecl {
	t.Helper()
	file := mustParse(t, input)
	decl, ok := firstStmt(t, file).(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("expected *ast.TypeAliasDecl, got %T", firstStmt(t, file))
	}
	return decl
}

func TestTypeAliases(t *testing.T) {
	tests := []string{
		"type UserId = number;",
		"type Names = string[];",
		"type Point = [number, number];",
		"type Predicate = (x: number) => boolean;",
		"type Nullable<T> = T | null;",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			decl := parseTypeAlias(t, in)
			if decl.Value == nil {
				t.Fatal("expected a type annotation")
			}
		})
	}
}

func TestObjectTypeLiterals(t *testing.T) {
	decl := parseTypeAlias(t, "type Point = { x: number, y: number };")
	obj, ok := decl.Value.(*ast.ObjectTypeNode)
	if !ok {
		t.Fatalf("expected *ast.ObjectTypeNode, got %T", decl.Value)
	}
	if len(obj.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(obj.Members))
	}
}

func TestUnionAndIntersectionTypes(t *testing.T) {
	union := parseTypeAlias(t, "type Color = \"red\" | \"green\" | \"blue\";")
	if _, ok := union.Value.(*ast.UnionTypeNode); !ok {
		t.Fatalf("expected *ast.UnionTypeNode, got %T", union.Value)
	}

	inter := parseTypeAlias(t, "type Both = A & B;")
	if _, ok := inter.Value.(*ast.IntersectionTypeNode); !ok {
		t.Fatalf("expected *ast.IntersectionTypeNode, got %T", inter.Value)
	}
}

func TestGenericTypeAlias(t *testing.T) {
	decl := parseTypeAlias(t, "type Box<T> = { value: T };")
	if len(decl.TypeParams) != 1 || decl.TypeParams[0].Name != "T" {
		t.Fatalf("expected one type parameter named T, got %#v", decl.TypeParams)
	}
}

func TestConditionalType(t *testing.T) {
	decl := parseTypeAlias(t, "type IsString<T> = T extends string ? true : false;")
	if _, ok := decl.Value.(*ast.ConditionalTypeNode); !ok {
		t.Fatalf("expected *ast.ConditionalTypeNode, got %T", decl.Value)
	}
}

func TestMappedType(t *testing.T) {
	decl := parseTypeAlias(t, "type Readonly2<T> = { readonly [K in keyof T]: T[K] };")
	if _, ok := decl.Value.(*ast.MappedTypeNode); !ok {
		t.Fatalf("expected *ast.MappedTypeNode, got %T", decl.Value)
	}
}

func TestTemplateLiteralType(t *testing.T) {
	decl := parseTypeAlias(t, "type Greeting = `hello ${string}`;")
	if _, ok := decl.Value.(*ast.TemplateLiteralTypeNode); !ok {
		t.Fatalf("expected *ast.TemplateLiteralTypeNode, got %T", decl.Value)
	}
}

func TestTupleType(t *testing.T) {
	decl := parseTypeAlias(t, "type Pair = [number, string];")
	tup, ok := decl.Value.(*ast.TupleTypeNode)
	if !ok {
		t.Fatalf("expected *ast.TupleTypeNode, got %T", decl.Value)
	}
	if len(tup.Elements) != 2 {
		t.Errorf("expected 2 tuple elements, got %d", len(tup.Elements))
	}
}

func TestFunctionType(t *testing.T) {
	decl := parseTypeAlias(t, "type Handler = (req: string) => void;")
	if _, ok := decl.Value.(*ast.FuncTypeNode); !ok {
		t.Fatalf("expected *ast.FuncTypeNode, got %T", decl.Value)
	}
}

func TestKeyofAndIndexedAccess(t *testing.T) {
	decl := parseTypeAlias(t, "type Keys = keyof Point;")
	if decl.Value == nil {
		t.Fatal("expected a parsed keyof type")
	}
}

func TestInterfaceDeclarations(t *testing.T) {
	file := mustParse(t, `
interface Shape {
  area(): number;
  readonly name: string;
  [key: string]: unknown;
}
`)
	decl, ok := firstStmt(t, file).(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("expected *ast.InterfaceDecl, got %T", firstStmt(t, file))
	}
	if len(decl.Members) != 3 {
		t.Errorf("expected 3 members, got %d", len(decl.Members))
	}
}

func TestInterfaceExtends(t *testing.T) {
	file := mustParse(t, "interface Square extends Shape { side: number; }")
	decl := firstStmt(t, file).(*ast.InterfaceDecl)
	if len(decl.Extends) != 1 {
		t.Fatalf("expected one extends clause, got %d", len(decl.Extends))
	}
}

func TestEnumDeclarations(t *testing.T) {
	file := mustParse(t, `
enum Color {
  Red,
  Green,
  Blue = 10,
}
`)
	decl, ok := firstStmt(t, file).(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", firstStmt(t, file))
	}
	if len(decl.Members) != 3 {
		t.Errorf("expected 3 members, got %d", len(decl.Members))
	}
}

func TestConstEnum(t *testing.T) {
	file := mustParse(t, "const enum Direction { Up, Down }")
	decl, ok := firstStmt(t, file).(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", firstStmt(t, file))
	}
	if !decl.IsConst {
		t.Error("expected Const to be true")
	}
}

func TestExportedTypes(t *testing.T) {
	file := mustParse(t, "export type UserId = number;")
	decl, ok := firstStmt(t, file).(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("expected *ast.TypeAliasDecl, got %T", firstStmt(t, file))
	}
	if !decl.Exported {
		t.Error("expected Exported to be true")
	}
}

func TestInvalidTypeSyntax(t *testing.T) {
	tests := []struct{ name, input string }{
		{"no_name", "type = number;"},
		{"no_body", "type Foo;"},
		{"trailing_pipe", "type Color = \"red\" | ;"},
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

func TestMultipleTypeDeclarations(t *testing.T) {
	file := mustParse(t, `
type Point = { x: number, y: number };
type Color = "red" | "green" | "blue";
`)
	if len(file.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Statements))
	}
}
