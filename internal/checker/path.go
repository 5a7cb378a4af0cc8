package checker

import (
	"fmt"
	"strconv"

	"github.com/sharpts/sharpts/internal/ast"
)

// narrowPath renders e as a dotted path string for narrowing purposes, and
// reports the identifier the path is rooted at. Only identifier, member
// access, and element access with a literal index form valid paths;
// anything else returns ok=false, since narrowing is scoped to those forms.
func narrowPath(e ast.Expr) (path string, root string, ok bool) {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Name, v.Name, true
	case *ast.MemberExpr:
		base, r, ok := narrowPath(v.Object)
		if !ok {
			return "", "", false
		}
		return base + "." + v.Property, r, true
	case *ast.IndexExpr:
		base, r, ok := narrowPath(v.Object)
		if !ok {
			return "", "", false
		}
		lit, ok := v.Index.(*ast.Literal)
		if !ok {
			return "", "", false
		}
		var key string
		switch lit.Kind {
		case ast.LitNumber:
			key = strconv.FormatFloat(lit.NumberValue, 'g', -1, 64)
		case ast.LitString:
			key = lit.StringValue
		default:
			return "", "", false
		}
		return fmt.Sprintf("%s[%s]", base, key), r, true
	default:
		return "", "", false
	}
}
