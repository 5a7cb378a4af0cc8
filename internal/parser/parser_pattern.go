package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// parseBindingPattern parses a destructuring target: an identifier, an array
// pattern `[a, , ...rest]`, or an object pattern `{a, b: c, ...rest}`.
// Defaults (`{a = 1}`) and nested patterns are handled recursively.
func (p *Parser) parseBindingPattern() ast.Pattern {
	switch p.curToken.Type {
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LBRACE:
		return p.parseObjectPattern()
	default:
		name := p.curToken.Literal
		return &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: name}
	}
}

func (p *Parser) parseArrayPattern() *ast.ArrayLiteral {
	start := p.curPos()
	lit := &ast.ArrayLiteral{}
	p.nextToken() // consume [
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.COMMA) {
			lit.Elements = append(lit.Elements, ast.ArrayElement{})
			p.nextToken()
			continue
		}
		if p.curTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			target := p.parseBindingPattern()
			lit.Elements = append(lit.Elements, ast.ArrayElement{Value: p.patternAsExpr(target), Spread: true})
		} else {
			target := p.parseBindingPattern()
			elemExpr := p.patternAsExpr(target)
			if p.peekTokenIs(lexer.ASSIGN) {
				p.nextToken()
				p.nextToken()
				def := p.parseExpression(ASSIGNMENT)
				elemExpr = p.patternAsExpr(&ast.DefaultPattern{Target: target, Default: def})
			}
			lit.Elements = append(lit.Elements, ast.ArrayElement{Value: elemExpr})
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACKET)
	lit.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return lit
}

func (p *Parser) parseObjectPattern() *ast.ObjectLiteral {
	start := p.curPos()
	lit := &ast.ObjectLiteral{}
	p.nextToken() // consume {
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			target := p.parseBindingPattern()
			lit.Properties = append(lit.Properties, ast.ObjectProperty{Spread: true, Value: p.patternAsExpr(target)})
		} else {
			key := ast.ObjectKey{Kind: ast.KeyIdent, Ident: p.curToken.Literal}
			var value ast.Expr
			shorthand := true
			if p.peekTokenIs(lexer.COLON) {
				p.nextToken() // :
				p.nextToken()
				shorthand = false
				target := p.parseBindingPattern()
				value = p.patternAsExpr(target)
			}
			if p.peekTokenIs(lexer.ASSIGN) {
				p.nextToken()
				p.nextToken()
				def := p.parseExpression(ASSIGNMENT)
				if value == nil {
					value = p.patternAsExpr(&ast.DefaultPattern{
						Target:  &ast.Ident{Name: key.Ident},
						Default: def,
					})
				} else {
					value = p.patternAsExpr(&ast.DefaultPattern{Target: value.(ast.Pattern), Default: def})
				}
				shorthand = false
			}
			lit.Properties = append(lit.Properties, ast.ObjectProperty{Key: key, Value: value, Shorthand: shorthand})
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE)
	lit.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return lit
}

// patternAsExpr widens a Pattern into the Expr it also implements (ast's
// patterns double as expression nodes for Ident/ArrayLiteral/ObjectLiteral/
// SpreadExpr/DefaultPattern), so parser code building a pattern tree can
// store it wherever an ast.Expr-typed field is expected.
func (p *Parser) patternAsExpr(pat ast.Pattern) ast.Expr {
	switch v := pat.(type) {
	case *ast.Ident:
		return v
	case *ast.ArrayLiteral:
		return v
	case *ast.ObjectLiteral:
		return v
	case *ast.SpreadExpr:
		return v
	case *ast.DefaultPattern:
		return &ast.AssignExpr{Op: "=", Left: p.patternAsExpr(v.Target), Right: v.Default}
	default:
		return nil
	}
}
