package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

// TestFullProgramParses exercises a file that mixes imports, types, classes,
// and functions together, the way a real source file would.
func TestFullProgramParses(t *testing.T) {
	file := mustParse(t, `
import { readFile } from "fs";

export interface User {
  id: number;
  name: string;
}

export type UserList = User[];

export class Repository<T> {
  private items: T[] = [];

  add(item: T): void {
    this.items.push(item);
  }

  get size(): number {
    return this.items.length;
  }
}

export function loadUsers(path: string): UserList {
  const raw = readFile(path);
  return JSON.parse(raw);
}

const repo = new Repository<User>();
for (const user of loadUsers("users.json")) {
  repo.add(user);
}
`)

	if len(file.Statements) != 6 {
		t.Fatalf("expected 6 top-level statements, got %d", len(file.Statements))
	}

	if _, ok := file.Statements[0].(*ast.ImportDecl); !ok {
		t.Errorf("statement 0: expected *ast.ImportDecl, got %T", file.Statements[0])
	}
	if ed, ok := file.Statements[1].(*ast.ExportDecl); !ok {
		t.Errorf("statement 1: expected *ast.ExportDecl, got %T", file.Statements[1])
	} else if _, ok := ed.Decl.(*ast.InterfaceDecl); !ok {
		t.Errorf("statement 1: expected exported interface, got %T", ed.Decl)
	}
	if ed, ok := file.Statements[4].(*ast.ExportDecl); !ok {
		t.Errorf("statement 4: expected *ast.ExportDecl, got %T", file.Statements[4])
	} else if _, ok := ed.Decl.(*ast.FuncDecl); !ok {
		t.Errorf("statement 4: expected exported function, got %T", ed.Decl)
	}
	if _, ok := file.Statements[5].(*ast.VarDecl); !ok {
		t.Errorf("statement 5: expected *ast.VarDecl, got %T", file.Statements[5])
	}
}

// TestVarDeclarationKinds checks that var/let/const are all tracked distinctly.
func TestVarDeclarationKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"var x = 1;", "var"},
		{"let y = 2;", "let"},
		{"const z = 3;", "const"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			file := mustParse(t, tt.input)
			decl, ok := firstStmt(t, file).(*ast.VarDecl)
			if !ok {
				t.Fatalf("expected *ast.VarDecl, got %T", firstStmt(t, file))
			}
			if decl.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, decl.Kind)
			}
		})
	}
}

// TestMultipleDeclaratorsInOneVarDecl checks comma-separated declarators
// within a single var/let/const statement.
func TestMultipleDeclaratorsInOneVarDecl(t *testing.T) {
	file := mustParse(t, "let a = 1, b = 2, c = 3;")
	decl := firstStmt(t, file).(*ast.VarDecl)
	if len(decl.Declarators) != 3 {
		t.Fatalf("expected 3 declarators, got %d", len(decl.Declarators))
	}
	for i, name := range []string{"a", "b", "c"} {
		if decl.Declarators[i].Name == nil || decl.Declarators[i].Name.Name != name {
			t.Errorf("declarator %d: expected name %q, got %#v", i, name, decl.Declarators[i].Name)
		}
	}
}

func TestIfElseChain(t *testing.T) {
	file := mustParse(t, `
if (x > 0) {
  positive();
} else if (x < 0) {
  negative();
} else {
  zero();
}
`)
	ifStmt, ok := firstStmt(t, file).(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", firstStmt(t, file))
	}
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected else branch to be *ast.IfStmt, got %T", ifStmt.Else)
	}
	if elseIf.Else == nil {
		t.Error("expected a final else block")
	}
}

func TestWhileAndDoWhile(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"while", "while (running) { tick(); }"},
		{"do_while", "do { tick(); } while (running);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if len(file.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(file.Statements))
			}
		})
	}
}

func TestThrowStatement(t *testing.T) {
	file := mustParse(t, `throw new Error("bad");`)
	if _, ok := firstStmt(t, file).(*ast.ThrowStmt); !ok {
		t.Fatalf("expected *ast.ThrowStmt, got %T", firstStmt(t, file))
	}
}

func TestReturnStatementForms(t *testing.T) {
	tests := []struct{ name, input string }{
		{"bare", "function f() { return; }"},
		{"value", "function f() { return 1; }"},
		{"expr", "function f() { return a + b; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if len(file.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(file.Statements))
			}
		})
	}
}
