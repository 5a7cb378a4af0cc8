package parser

import (
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

// TestClassDeclarations exercises class parsing paths not covered elsewhere:
// accessors, static members, a constructor, and computed names.
func TestClassDeclarations(t *testing.T) {
	file := mustParse(t, `
class Box<T> extends Base implements Comparable<T> {
  private value: T;
  static count: number = 0;
  readonly id: string;

  constructor(value: T) {
    this.value = value;
  }

  get current(): T {
    return this.value;
  }

  set current(v: T) {
    this.value = v;
  }

  [Symbol.iterator]() {
    return this;
  }
}
`)
	class, ok := firstStmt(t, file).(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", firstStmt(t, file))
	}
	if class.Superclass == nil {
		t.Error("expected a superclass")
	}
	if len(class.Implements) != 1 {
		t.Errorf("expected 1 implements clause, got %d", len(class.Implements))
	}

	var sawGetter, sawSetter, sawCtor, sawComputed bool
	for _, m := range class.Members {
		switch m.Kind {
		case ast.MemberGetter:
			sawGetter = true
		case ast.MemberSetter:
			sawSetter = true
		case ast.MemberConstructor:
			sawCtor = true
		}
		if m.Name == "[computed]" {
			sawComputed = true
		}
	}
	if !sawGetter || !sawSetter || !sawCtor || !sawComputed {
		t.Errorf("missing member kinds: getter=%v setter=%v ctor=%v computed=%v", sawGetter, sawSetter, sawCtor, sawComputed)
	}
}

func TestAbstractClass(t *testing.T) {
	file := mustParse(t, `
abstract class Shape {
  abstract area(): number;
}
`)
	class, ok := firstStmt(t, file).(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", firstStmt(t, file))
	}
	if !class.Abstract {
		t.Error("expected Abstract to be true")
	}
	if len(class.Members) != 1 || !class.Members[0].Abstract {
		t.Error("expected the lone member to be abstract")
	}
}

func TestExportedAbstractClass(t *testing.T) {
	file := mustParse(t, "export abstract class Shape { abstract area(): number; }")
	class, ok := firstStmt(t, file).(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", firstStmt(t, file))
	}
	if !class.Abstract || !class.Exported {
		t.Errorf("expected abstract and exported class, got abstract=%v exported=%v", class.Abstract, class.Exported)
	}
}

func TestClassExpression(t *testing.T) {
	expr := parseExpr(t, "(class { greet() { return \"hi\"; } });")
	if _, ok := expr.(*ast.ClassExpr); !ok {
		t.Fatalf("expected *ast.ClassExpr, got %T", expr)
	}
}

func TestStaticAndPrivateMembers(t *testing.T) {
	file := mustParse(t, `
class Counter {
  private static count: number = 0;
  protected limit: number;
}
`)
	class := firstStmt(t, file).(*ast.ClassDecl)
	if len(class.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(class.Members))
	}
	if !class.Members[0].Static || class.Members[0].Access != ast.AccessPrivate {
		t.Errorf("expected first member static+private, got %#v", class.Members[0])
	}
	if class.Members[1].Access != ast.AccessProtected {
		t.Errorf("expected second member protected, got %#v", class.Members[1])
	}
}

func TestSwitchStatement(t *testing.T) {
	file := mustParse(t, `
switch (x) {
  case 1:
    break;
  case 2:
  case 3:
    break;
  default:
    break;
}
`)
	sw, ok := firstStmt(t, file).(*ast.SwitchStmt)
	if !ok {
		t.Fatalf("expected *ast.SwitchStmt, got %T", firstStmt(t, file))
	}
	if len(sw.Cases) != 4 {
		t.Errorf("expected 4 cases (the empty case 2 and default included), got %d", len(sw.Cases))
	}
}

func TestTryCatchFinally(t *testing.T) {
	file := mustParse(t, `
try {
  risky();
} catch (e) {
  handle(e);
} finally {
  cleanup();
}
`)
	tr, ok := firstStmt(t, file).(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected *ast.TryStmt, got %T", firstStmt(t, file))
	}
	if tr.Catch == nil || tr.Finally == nil {
		t.Error("expected both a catch clause and a finally block")
	}
}

func TestForInAndForOf(t *testing.T) {
	tests := []struct {
		name, input string
		desugared   bool
	}{
		{"for_of", "for (const x of items) { use(x); }", false},
		{"for_in", "for (const key in obj) { use(key); }", false},
		// A C-style for is desugared into a block holding the init and a while loop.
		{"c_style", "for (let i = 0; i < 10; i++) { use(i); }", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := mustParse(t, tt.input)
			if tt.desugared {
				if _, ok := firstStmt(t, file).(*ast.BlockStmt); !ok {
					t.Fatalf("expected *ast.BlockStmt, got %T", firstStmt(t, file))
				}
				return
			}
			if _, ok := firstStmt(t, file).(*ast.ForStmt); !ok {
				t.Fatalf("expected *ast.ForStmt, got %T", firstStmt(t, file))
			}
		})
	}
}

func TestLabeledStatement(t *testing.T) {
	file := mustParse(t, "outer: for (;;) { break outer; }")
	if _, ok := firstStmt(t, file).(*ast.LabeledStmt); !ok {
		t.Fatalf("expected *ast.LabeledStmt, got %T", firstStmt(t, file))
	}
}

func TestNestedEdgeCaseExpressions(t *testing.T) {
	tests := []string{
		"-(x + y);",
		"!(!x);",
		"f(x + 1, g(y), z * 2);",
		"a?.b?.[0]?.();",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			expr := parseExpr(t, in)
			if expr == nil {
				t.Fatal("expected a parsed expression")
			}
		})
	}
}
