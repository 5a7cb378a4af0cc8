package emitter

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/ir"
)

// compileAssign lowers `lhs op= rhs` for `=` and every compound operator.
// Compound forms read the current lvalue, apply the corresponding binary
// op, and write it back — mirroring how the tree-walking interpreter's
// evalAssign desugars compound assignment rather than special-casing each
// operator at the bytecode level.
func (c *Compiler) compileAssign(n *ast.AssignExpr) error {
	ln := line(n.Span())
	if n.Op == "=" {
		switch target := n.Left.(type) {
		case *ast.Ident:
			if err := c.compileExpr(n.Right); err != nil {
				return err
			}
			idx := c.chunk.AddConstant(target.Name)
			c.chunk.Emit(ir.OpStoreGlobal, 0, uint16(idx), ln)
			c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idx), ln)
			return nil
		case *ast.MemberExpr:
			if err := c.compileExpr(target.Object); err != nil {
				return err
			}
			if err := c.compileExpr(n.Right); err != nil {
				return err
			}
			idx := c.chunk.AddConstant(target.Property)
			c.chunk.Emit(ir.OpSetProp, 0, uint16(idx), ln)
			return nil
		case *ast.IndexExpr:
			if err := c.compileExpr(target.Object); err != nil {
				return err
			}
			if err := c.compileExpr(target.Index); err != nil {
				return err
			}
			if err := c.compileExpr(n.Right); err != nil {
				return err
			}
			c.chunk.EmitSimple(ir.OpSetIndex, ln)
			return nil
		default:
			return fmt.Errorf("emitter: unsupported assignment target %T", n.Left)
		}
	}

	binOp, ok := binaryOps[compoundBase(n.Op)]
	if !ok {
		return fmt.Errorf("emitter: unsupported compound assignment operator %q", n.Op)
	}
	switch target := n.Left.(type) {
	case *ast.Ident:
		idx := c.chunk.AddConstant(target.Name)
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idx), ln)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.chunk.EmitSimple(binOp, ln)
		c.chunk.Emit(ir.OpStoreGlobal, 0, uint16(idx), ln)
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idx), ln)
		return nil
	case *ast.MemberExpr:
		if err := c.compileExpr(target.Object); err != nil {
			return err
		}
		c.chunk.EmitSimple(ir.OpDup, ln)
		propIdx := c.chunk.AddConstant(target.Property)
		c.chunk.Emit(ir.OpGetProp, 0, uint16(propIdx), ln)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.chunk.EmitSimple(binOp, ln)
		c.chunk.Emit(ir.OpSetProp, 0, uint16(propIdx), ln)
		return nil
	case *ast.IndexExpr:
		// object/index are evaluated once and stashed in hidden locals so
		// they can be replayed for both the read and the write without
		// assuming either expression is side-effect-free.
		objName := c.syntheticName("lvobj")
		idxName := c.syntheticName("lvidx")
		resName := c.syntheticName("lvres")
		objIdx := c.chunk.AddConstant(objName)
		idxIdx := c.chunk.AddConstant(idxName)
		resIdx := c.chunk.AddConstant(resName)
		if err := c.compileExpr(target.Object); err != nil {
			return err
		}
		c.chunk.Emit(ir.OpStoreLocal, 0, uint16(objIdx), ln)
		if err := c.compileExpr(target.Index); err != nil {
			return err
		}
		c.chunk.Emit(ir.OpStoreLocal, 0, uint16(idxIdx), ln)

		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(objIdx), ln)
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idxIdx), ln)
		c.chunk.EmitSimple(ir.OpGetIndex, ln)
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.chunk.EmitSimple(binOp, ln)
		c.chunk.Emit(ir.OpStoreLocal, 0, uint16(resIdx), ln)

		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(objIdx), ln)
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idxIdx), ln)
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(resIdx), ln)
		c.chunk.EmitSimple(ir.OpSetIndex, ln)
		return nil
	default:
		return fmt.Errorf("emitter: unsupported compound assignment target %T", n.Left)
	}
}

func compoundBase(op string) string {
	if len(op) > 1 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

func (c *Compiler) compileUnary(n *ast.UnaryExpr) error {
	ln := line(n.Span())
	if n.Op == "++" || n.Op == "--" {
		return c.compileIncDec(n)
	}
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case "!":
		c.chunk.EmitSimple(ir.OpNot, ln)
	case "-":
		c.chunk.EmitSimple(ir.OpNeg, ln)
	case "+":
		c.chunk.EmitSimple(ir.OpPos, ln)
	case "~":
		c.chunk.EmitSimple(ir.OpBitNot, ln)
	case "typeof":
		c.chunk.EmitSimple(ir.OpTypeOf, ln)
	case "void":
		c.chunk.EmitSimple(ir.OpPop, ln)
		c.chunk.EmitSimple(ir.OpLoadUndefined, ln)
	case "delete":
		if member, ok := n.Operand.(*ast.MemberExpr); ok {
			idx := c.chunk.AddConstant(member.Property)
			c.chunk.EmitSimple(ir.OpPop, ln) // drop the already-loaded value; recompute the object below
			if err := c.compileExpr(member.Object); err != nil {
				return err
			}
			c.chunk.Emit(ir.OpDeleteProp, 0, uint16(idx), ln)
		} else {
			c.chunk.EmitSimple(ir.OpPop, ln)
			c.chunk.EmitSimple(ir.OpLoadTrue, ln)
		}
	default:
		return fmt.Errorf("emitter: unsupported unary operator %q", n.Op)
	}
	return nil
}

func (c *Compiler) compileIncDec(n *ast.UnaryExpr) error {
	ln := line(n.Span())
	delta := float64(1)
	if n.Op == "--" {
		delta = -1
	}
	switch target := n.Operand.(type) {
	case *ast.Ident:
		idx := c.chunk.AddConstant(target.Name)
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idx), ln)
		if n.Postfix {
			c.chunk.EmitSimple(ir.OpDup, ln)
		}
		dIdx := c.chunk.AddConstant(delta)
		c.chunk.Emit(ir.OpLoadConst, 0, uint16(dIdx), ln)
		c.chunk.EmitSimple(ir.OpAdd, ln)
		if !n.Postfix {
			c.chunk.EmitSimple(ir.OpDup, ln)
		}
		c.chunk.Emit(ir.OpStoreGlobal, 0, uint16(idx), ln)
		return nil
	case *ast.MemberExpr:
		if err := c.compileExpr(target.Object); err != nil {
			return err
		}
		c.chunk.EmitSimple(ir.OpDup, ln)
		propIdx := c.chunk.AddConstant(target.Property)
		c.chunk.Emit(ir.OpGetProp, 0, uint16(propIdx), ln)
		dIdx := c.chunk.AddConstant(delta)
		c.chunk.Emit(ir.OpLoadConst, 0, uint16(dIdx), ln)
		c.chunk.EmitSimple(ir.OpAdd, ln)
		c.chunk.Emit(ir.OpSetProp, 0, uint16(propIdx), ln)
		if n.Postfix {
			dIdx2 := c.chunk.AddConstant(-delta)
			c.chunk.Emit(ir.OpLoadConst, 0, uint16(dIdx2), ln)
			c.chunk.EmitSimple(ir.OpAdd, ln)
		}
		return nil
	default:
		return fmt.Errorf("emitter: unsupported increment/decrement target %T", n.Operand)
	}
}

func (c *Compiler) compileCall(n *ast.CallExpr) error {
	ln := line(n.Span())
	spread := make(map[int]bool, len(n.SpreadArgIdx))
	for _, idx := range n.SpreadArgIdx {
		spread[idx] = true
	}
	if member, ok := n.Callee.(*ast.MemberExpr); ok {
		if err := c.compileExpr(member.Object); err != nil {
			return err
		}
		nameIdx := c.chunk.AddConstant(member.Property)
		if len(spread) > 0 {
			if err := c.compileArgsArray(n.Args, spread); err != nil {
				return err
			}
			c.chunk.Emit(ir.OpCallMethodSpread, 0, uint16(nameIdx), ln)
			return nil
		}
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.chunk.Emit(ir.OpCallMethod, byte(len(n.Args)), uint16(nameIdx), ln)
		return nil
	}
	if err := c.compileExpr(n.Callee); err != nil {
		return err
	}
	if len(spread) > 0 {
		if err := c.compileArgsArray(n.Args, spread); err != nil {
			return err
		}
		c.chunk.EmitSimple(ir.OpCallSpread, ln)
		return nil
	}
	for _, a := range n.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.chunk.Emit(ir.OpCall, 0, uint16(len(n.Args)), ln)
	return nil
}

// compileArgsArray folds a call's argument list (some possibly spread)
// into a single array value the same way an array literal's elements are,
// for the OpCallSpread/OpCallMethodSpread forms that pass a dynamic argc.
func (c *Compiler) compileArgsArray(args []ast.Expr, spread map[int]bool) error {
	ln := 0
	if len(args) > 0 {
		ln = line(args[0].Span())
	}
	c.chunk.Emit(ir.OpNewArray, 0, 0, ln)
	for idx, a := range args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
		if spread[idx] {
			c.chunk.EmitSimple(ir.OpSpreadArr, ln)
		} else {
			c.chunk.EmitSimple(ir.OpArrayPush, ln)
		}
	}
	return nil
}

// compileFunction compiles one function/method/arrow body into its own
// Chunk, nested inside a fresh Compiler so its locals don't collide with
// the enclosing one's constant pool. Async and generator functions get a
// FuncProto whose Fallback carries the declaration for the VM to run on
// the tree-walking interpreter instead of a compiled Chunk body (see vm.go).
func (c *Compiler) compileFunction(name string, params []*ast.Param, body *ast.BlockStmt, exprBody ast.Expr, arrow, async, gen bool) (*ir.FuncProto, error) {
	fc := &Compiler{chunk: ir.NewChunk(name), parent: c, fileAST: c.fileAST}
	paramNames := make([]string, 0, len(params))
	for _, p := range params {
		if p.Rest {
			return nil, fmt.Errorf("emitter: rest parameters are not yet lowered to bytecode")
		}
		if p.Default != nil {
			return nil, fmt.Errorf("emitter: default parameter values are not yet lowered to bytecode")
		}
		ident, ok := p.Pattern.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("emitter: destructuring parameters are not yet lowered to bytecode")
		}
		paramNames = append(paramNames, ident.Name)
	}
	for i, pname := range paramNames {
		idx := fc.chunk.AddConstant(pname)
		_ = i
		fc.chunk.Emit(ir.OpStoreLocal, 0, uint16(idx), 0)
	}

	proto := &ir.FuncProto{Name: name, ParamCount: len(paramNames), Chunk: fc.chunk, Arrow: arrow, Async: async, Generator: gen}
	if async || gen {
		proto.Fallback = &funcFallback{Name: name, Params: params, Body: body, ExprBody: exprBody, Arrow: arrow, Async: async, Generator: gen}
		return proto, nil
	}

	if body != nil {
		if err := fc.compileStmts(body.Statements); err != nil {
			return nil, err
		}
		fc.chunk.EmitSimple(ir.OpReturnUndef, 0)
	} else if exprBody != nil {
		if err := fc.compileExpr(exprBody); err != nil {
			return nil, err
		}
		fc.chunk.EmitSimple(ir.OpReturn, 0)
	} else {
		fc.chunk.EmitSimple(ir.OpReturnUndef, 0)
	}
	return proto, nil
}

// funcFallback is the payload a Closure's FuncProto carries for async/
// generator bodies (see the package doc comment for why their control flow
// isn't compiled): enough of the original declaration for vm.go to build a
// interp.Function and hand it to the tree-walking call machinery instead
// of running a compiled Chunk.
type funcFallback struct {
	Name      string
	Params    []*ast.Param
	Body      *ast.BlockStmt
	ExprBody  ast.Expr
	Arrow     bool
	Async     bool
	Generator bool
}
