package emitter

import (
	"fmt"
	"math/big"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/ir"
)

func (c *Compiler) compileExpr(e ast.Expr) error {
	ln := line(e.Span())
	switch n := e.(type) {
	case *ast.Literal:
		return c.compileLiteral(n)

	case *ast.Ident:
		idx := c.chunk.AddConstant(n.Name)
		if n.Name == "this" {
			c.chunk.EmitSimple(ir.OpLoadThis, ln)
			return nil
		}
		c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idx), ln)
		return nil

	case *ast.GroupingExpr:
		return c.compileExpr(n.Value)

	case *ast.BinaryExpr:
		if err := c.compileExpr(n.Left); err != nil {
			return err
		}
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		op, ok := binaryOps[n.Op]
		if !ok {
			return fmt.Errorf("emitter: unsupported binary operator %q", n.Op)
		}
		c.chunk.EmitSimple(op, ln)
		return nil

	case *ast.LogicalExpr:
		return c.compileLogical(n)

	case *ast.UnaryExpr:
		return c.compileUnary(n)

	case *ast.ConditionalExpr:
		if err := c.compileExpr(n.Cond); err != nil {
			return err
		}
		elseJump := c.chunk.EmitJump(ir.OpJumpIfFalse, ln)
		if err := c.compileExpr(n.Then); err != nil {
			return err
		}
		endJump := c.chunk.EmitJump(ir.OpJump, ln)
		if err := c.chunk.PatchJump(elseJump); err != nil {
			return err
		}
		if err := c.compileExpr(n.Else); err != nil {
			return err
		}
		return c.chunk.PatchJump(endJump)

	case *ast.SequenceExpr:
		for i, sub := range n.Exprs {
			if i > 0 {
				c.chunk.EmitSimple(ir.OpPop, ln)
			}
			if err := c.compileExpr(sub); err != nil {
				return err
			}
		}
		return nil

	case *ast.AssignExpr:
		return c.compileAssign(n)

	case *ast.CallExpr:
		return c.compileCall(n)

	case *ast.NewExpr:
		if err := c.compileExpr(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.chunk.Emit(ir.OpNew, 0, uint16(len(n.Args)), ln)
		return nil

	case *ast.MemberExpr:
		if err := c.compileExpr(n.Object); err != nil {
			return err
		}
		idx := c.chunk.AddConstant(n.Property)
		c.chunk.Emit(ir.OpGetProp, 0, uint16(idx), ln)
		return nil

	case *ast.IndexExpr:
		if err := c.compileExpr(n.Object); err != nil {
			return err
		}
		if err := c.compileExpr(n.Index); err != nil {
			return err
		}
		c.chunk.EmitSimple(ir.OpGetIndex, ln)
		return nil

	case *ast.ArrayLiteral:
		// Every element is folded into the same array value via OpArrayPush
		// (one element) or OpSpreadArr (many), rather than batching runs of
		// plain elements into their own OpNewArray: a batch-per-run scheme
		// strands a freshly built array under the elements that follow a
		// spread, since nothing re-merges it with whatever the spread
		// already produced.
		c.chunk.Emit(ir.OpNewArray, 0, 0, ln)
		for _, el := range n.Elements {
			if el.Value == nil {
				c.chunk.EmitSimple(ir.OpLoadUndefined, ln)
				c.chunk.EmitSimple(ir.OpArrayPush, ln)
				continue
			}
			if el.Spread {
				if err := c.compileExpr(el.Value); err != nil {
					return err
				}
				c.chunk.EmitSimple(ir.OpSpreadArr, ln)
				continue
			}
			if err := c.compileExpr(el.Value); err != nil {
				return err
			}
			c.chunk.EmitSimple(ir.OpArrayPush, ln)
		}
		return nil

	case *ast.ObjectLiteral:
		c.chunk.EmitSimple(ir.OpNewObject, ln)
		for _, p := range n.Properties {
			if p.Spread {
				if err := c.compileExpr(p.Value); err != nil {
					return err
				}
				c.chunk.EmitSimple(ir.OpSpreadArr, ln) // VM treats spread-into-object as a merge when target is an object
				continue
			}
			if p.Key.Kind == ast.KeyComputed {
				if err := c.compileExpr(p.Key.Computed); err != nil {
					return err
				}
				if err := c.compileExpr(p.Value); err != nil {
					return err
				}
				c.chunk.EmitSimple(ir.OpObjectSetComputed, ln)
				continue
			}
			key := objectKeyName(p.Key)
			if p.Shorthand {
				idx := c.chunk.AddConstant(key)
				c.chunk.Emit(ir.OpLoadLocal, 0, uint16(idx), ln)
			} else if err := c.compileExpr(p.Value); err != nil {
				return err
			}
			keyIdx := c.chunk.AddConstant(key)
			c.chunk.Emit(ir.OpObjectSet, 0, uint16(keyIdx), ln)
		}
		return nil

	case *ast.TemplateLiteral:
		for _, part := range n.Parts {
			if part.Expr != nil {
				if err := c.compileExpr(part.Expr); err != nil {
					return err
				}
			} else {
				idx := c.chunk.AddConstant(part.Literal)
				c.chunk.Emit(ir.OpLoadConst, 0, uint16(idx), ln)
			}
		}
		c.chunk.Emit(ir.OpTemplateConcat, 0, uint16(len(n.Parts)), ln)
		return nil

	case *ast.FuncExpr:
		name := n.Name
		proto, err := c.compileFunction(name, n.Params, n.Body, n.ExprBody, n.Arrow, n.Async, n.Generator)
		if err != nil {
			return err
		}
		idx := c.chunk.AddConstant(proto)
		c.chunk.Emit(ir.OpMakeClosure, 0, uint16(idx), ln)
		return nil

	case *ast.ClassExpr:
		idx := c.chunk.AddConstant(&classFallback{Decl: n.Class})
		c.chunk.Emit(ir.OpInterpFallback, 0, uint16(idx), ln)
		return nil

	case *ast.SpreadExpr:
		return c.compileExpr(n.Value)

	case *ast.TypeAssertExpr:
		return c.compileExpr(n.Value)

	case *ast.NonNullExpr:
		return c.compileExpr(n.Value)

	case *ast.AwaitExpr:
		if err := c.compileExpr(n.Value); err != nil {
			return err
		}
		c.chunk.EmitSimple(ir.OpAwait, ln)
		return nil

	case *ast.YieldExpr:
		if n.Value != nil {
			if err := c.compileExpr(n.Value); err != nil {
				return err
			}
		} else {
			c.chunk.EmitSimple(ir.OpLoadUndefined, ln)
		}
		c.chunk.EmitSimple(ir.OpYield, ln)
		return nil

	default:
		return fmt.Errorf("emitter: unsupported expression %T", e)
	}
}

func objectKeyName(k ast.ObjectKey) string {
	switch k.Kind {
	case ast.KeyString:
		return k.String
	case ast.KeyNumber:
		return fmt.Sprintf("%g", k.Number)
	default:
		return k.Ident
	}
}

var binaryOps = map[string]ir.OpCode{
	"+": ir.OpAdd, "-": ir.OpSub, "*": ir.OpMul, "/": ir.OpDiv, "%": ir.OpMod, "**": ir.OpPow,
	"&": ir.OpBitAnd, "|": ir.OpBitOr, "^": ir.OpBitXor, "<<": ir.OpShl, ">>": ir.OpShr, ">>>": ir.OpUShr,
	"==": ir.OpEq, "===": ir.OpStrictEq, "!=": ir.OpNeq, "!==": ir.OpStrictNeq,
	"<": ir.OpLt, "<=": ir.OpLte, ">": ir.OpGt, ">=": ir.OpGte,
	"instanceof": ir.OpInstanceOf, "in": ir.OpIn,
}

func (c *Compiler) compileLiteral(n *ast.Literal) error {
	ln := line(n.Span())
	switch n.Kind {
	case ast.LitNumber:
		idx := c.chunk.AddConstant(n.NumberValue)
		c.chunk.Emit(ir.OpLoadConst, 0, uint16(idx), ln)
	case ast.LitString:
		idx := c.chunk.AddConstant(n.StringValue)
		c.chunk.Emit(ir.OpLoadConst, 0, uint16(idx), ln)
	case ast.LitBool:
		if n.BoolValue {
			c.chunk.EmitSimple(ir.OpLoadTrue, ln)
		} else {
			c.chunk.EmitSimple(ir.OpLoadFalse, ln)
		}
	case ast.LitNull:
		c.chunk.EmitSimple(ir.OpLoadNull, ln)
	case ast.LitUndefined:
		c.chunk.EmitSimple(ir.OpLoadUndefined, ln)
	case ast.LitBigInt:
		bi := new(big.Int)
		bi.SetString(n.BigIntValue, 10)
		idx := c.chunk.AddConstant(&interp.BigIntValue{V: bi})
		c.chunk.Emit(ir.OpLoadConst, 0, uint16(idx), ln)
	case ast.LitRegex:
		re, err := interp.NewRegExpValue(n.RegexPattern, n.RegexFlags)
		if err != nil {
			return fmt.Errorf("emitter: invalid regular expression literal: %w", err)
		}
		idx := c.chunk.AddConstant(re)
		c.chunk.Emit(ir.OpLoadConst, 0, uint16(idx), ln)
	default:
		return fmt.Errorf("emitter: unsupported literal kind %v", n.Kind)
	}
	return nil
}

// compileLogical lowers &&/||/?? with real short-circuiting: the no-pop
// jump opcodes peek the left operand so its value survives to become the
// expression's result when the jump is taken, and are only popped on the
// fallthrough path that evaluates the right operand instead.
func (c *Compiler) compileLogical(n *ast.LogicalExpr) error {
	ln := line(n.Span())
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	var jump int
	switch n.Op {
	case "&&":
		jump = c.chunk.EmitJump(ir.OpAndJump, ln)
	case "||":
		jump = c.chunk.EmitJump(ir.OpOrJump, ln)
	case "??":
		jump = c.chunk.EmitJump(ir.OpJumpIfNullish, ln)
	default:
		return fmt.Errorf("emitter: unsupported logical operator %q", n.Op)
	}
	c.chunk.EmitSimple(ir.OpPop, ln)
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	return c.chunk.PatchJump(jump)
}
