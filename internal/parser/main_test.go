package parser

import (
	"flag"
	"testing"

	"github.com/sharpts/sharpts/internal/ast"
)

func TestMain(m *testing.M) {
	flag.Parse()
	m.Run()
}

func TestSmoke(t *testing.T) {
	input := "42;"

	file := mustParse(t, input)
	if file == nil {
		t.Fatal("expected a non-nil file")
	}

	output := ast.Print(file)
	if output == "" {
		t.Fatal("expected non-empty AST dump")
	}

	goldenCompare(t, "smoke/number_literal", output)
}
