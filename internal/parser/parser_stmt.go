package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// parseStatement dispatches on the current token to the right statement
// parser. Declarations (function/class/interface/type/enum/namespace,
// import/export) live in parser_decl.go; everything else is here.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.VAR, lexer.LET, lexer.CONST:
		return p.parseVarDecl()
	case lexer.FUNCTION:
		return p.parseFuncDecl(false)
	case lexer.ASYNC:
		if p.peekTokenIs(lexer.FUNCTION) {
			p.nextToken()
			return p.parseFuncDecl(true)
		}
		return p.parseExprStmt()
	case lexer.CLASS:
		return p.parseClassDecl(false)
	case lexer.ABSTRACT:
		if p.peekTokenIs(lexer.CLASS) {
			return p.parseClassDecl(false)
		}
		return p.parseExprStmt()
	case lexer.INTERFACE:
		return p.parseInterfaceDecl()
	case lexer.ENUM:
		return p.parseEnumDecl(false)
	case lexer.IMPORT:
		return p.parseImportDecl()
	case lexer.EXPORT:
		return p.parseExportDecl()
	case lexer.LBRACE:
		return p.parseBlockStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.DO:
		return p.parseDoWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.BREAK:
		return p.parseBreakStmt()
	case lexer.CONTINUE:
		return p.parseContinueStmt()
	case lexer.THROW:
		return p.parseThrowStmt()
	case lexer.TRY:
		return p.parseTryStmt()
	case lexer.SWITCH:
		return p.parseSwitchStmt()
	case lexer.SEMICOLON:
		return nil // empty statement
	case lexer.IDENT:
		// "type", "namespace", "module" are contextual keywords: the
		// lexer always emits them as IDENT, so a declaration reading is only
		// taken when the following token looks like a declared name.
		switch p.curToken.Literal {
		case "type":
			if p.peekTokenIs(lexer.IDENT) {
				return p.parseTypeAliasDecl()
			}
		case "namespace", "module":
			if p.peekTokenIs(lexer.IDENT) {
				return p.parseNamespaceDecl()
			}
		}
		if p.peekTokenIs(lexer.COLON) {
			return p.parseLabeledStmt()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.curPos()
	block := &ast.BlockStmt{}
	p.nextToken() // consume {
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	block.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return block
}

// parseVarDecl parses `var|let|const decl[, decl...]`.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.curPos()
	var kind ast.DeclKind
	switch p.curToken.Type {
	case lexer.VAR:
		kind = ast.DeclVar
	case lexer.LET:
		kind = ast.DeclLet
	case lexer.CONST:
		kind = ast.DeclConst
	}

	decl := &ast.VarDecl{Kind: kind}

	for {
		p.nextToken() // move onto binding name or destructuring pattern
		d := &ast.VarDeclarator{}

		if p.curTokenIs(lexer.LBRACE) || p.curTokenIs(lexer.LBRACKET) {
			d.Pattern = p.parseBindingPattern()
		} else {
			name := p.curToken.Literal
			d.Name = &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: name}
		}

		if p.peekTokenIs(lexer.COLON) {
			p.nextToken() // :
			p.nextToken()
			d.Type = p.parseType()
		}

		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken() // =
			p.nextToken()
			d.Init = p.parseExpression(ASSIGNMENT)
		}

		decl.Declarators = append(decl.Declarators, d)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	decl.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return decl
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	start := p.curPos()
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExprStmt{X: expr}
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.curPos()
	stmt := &ast.IfStmt{}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Then = p.parseStatement()
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
	}
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return stmt
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.curPos()
	stmt := &ast.WhileStmt{}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return stmt
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	start := p.curPos()
	stmt := &ast.DoWhileStmt{}
	p.nextToken()
	stmt.Body = p.parseStatement()
	if !p.expectPeek(lexer.WHILE) {
		return stmt
	}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return stmt
}

// parseForStmt parses `for (... in|of ...) body`, and desugars the C-style
// `for (init; cond; update) body` form into an equivalent WhileStmt wrapped
// in a block that scopes `init`, so ast.ForStmt only ever needs to model
// for-in/for-of/for-await-of.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.curPos()
	isAwait := false
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.ForStmt{base: ast.Base(ast.Span{Start: start})}
	}
	if p.peekTokenIs(lexer.AWAIT) {
		p.nextToken()
		isAwait = true
	}
	p.nextToken() // move into the parenthesized head

	// Try for-in / for-of: [var|let|const] binding in|of expr
	declKind := ast.DeclLet
	hasDecl := false
	switch p.curToken.Type {
	case lexer.VAR:
		declKind, hasDecl = ast.DeclVar, true
		p.nextToken()
	case lexer.LET:
		declKind, hasDecl = ast.DeclLet, true
		p.nextToken()
	case lexer.CONST:
		declKind, hasDecl = ast.DeclConst, true
		p.nextToken()
	}

	var binding ast.Pattern
	if p.curTokenIs(lexer.LBRACE) || p.curTokenIs(lexer.LBRACKET) {
		binding = p.parseBindingPattern()
	} else if p.curTokenIs(lexer.IDENT) {
		binding = &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: p.curToken.Literal}
	}

	if binding != nil && (p.peekTokenIs(lexer.IN) || p.peekIsKeyword("of")) {
		kind := ast.ForIn
		if p.peekIsKeyword("of") {
			kind = ast.ForOf
		}
		if isAwait {
			kind = ast.ForAwaitOf
		}
		p.nextToken() // in|of
		p.nextToken()
		iterable := p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RPAREN) {
			return &ast.ForStmt{base: ast.Base(ast.Span{Start: start})}
		}
		p.nextToken()
		body := p.parseStatement()
		return &ast.ForStmt{
			base:     ast.Base(ast.Span{Start: start, End: p.curPos()}),
			Kind:     kind,
			DeclKind: declKind,
			Binding:  binding,
			Iterable: iterable,
			Body:     body,
		}
	}

	// C-style for: desugar to `{ init; while (cond) { body; update; } }`.
	block := &ast.BlockStmt{base: ast.Base(ast.Span{Start: start})}
	if hasDecl || binding != nil {
		// Re-enter as a VarDecl head if we consumed a decl keyword, else a
		// bare expression statement for `for (x = 0; ...)`.
		if hasDecl {
			decl := &ast.VarDecl{Kind: declKind}
			d := &ast.VarDeclarator{Name: binding.(*ast.Ident)}
			if p.peekTokenIs(lexer.COLON) {
				p.nextToken()
				p.nextToken()
				d.Type = p.parseType()
			}
			if p.peekTokenIs(lexer.ASSIGN) {
				p.nextToken()
				p.nextToken()
				d.Init = p.parseExpression(ASSIGNMENT)
			}
			decl.Declarators = append(decl.Declarators, d)
			for p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				d2 := &ast.VarDeclarator{Name: &ast.Ident{Name: p.curToken.Literal}}
				if p.peekTokenIs(lexer.ASSIGN) {
					p.nextToken()
					p.nextToken()
					d2.Init = p.parseExpression(ASSIGNMENT)
				}
				decl.Declarators = append(decl.Declarators, d2)
			}
			block.Statements = append(block.Statements, decl)
		} else {
			expr := p.parseExpression(LOWEST)
			block.Statements = append(block.Statements, &ast.ExprStmt{X: expr})
		}
	} else if !p.curTokenIs(lexer.SEMICOLON) {
		expr := p.parseExpression(LOWEST)
		block.Statements = append(block.Statements, &ast.ExprStmt{X: expr})
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return block
	}

	var cond ast.Expr
	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		cond = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return block
	}

	var update ast.Expr
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		update = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.RPAREN) {
		return block
	}
	p.nextToken()
	body := p.parseStatement()

	loopBody := &ast.BlockStmt{}
	loopBody.Statements = append(loopBody.Statements, body)
	if update != nil {
		loopBody.Statements = append(loopBody.Statements, &ast.ExprStmt{X: update})
	}
	whileCond := cond
	if whileCond == nil {
		whileCond = &ast.Literal{Kind: ast.LitBool, BoolValue: true}
	}
	block.Statements = append(block.Statements, &ast.WhileStmt{Cond: whileCond, Body: loopBody})
	block.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return block
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.curPos()
	stmt := &ast.ReturnStmt{}
	if !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	}
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.curPos()
	stmt := &ast.BreakStmt{}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	start := p.curPos()
	stmt := &ast.ContinueStmt{}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseThrowStmt() *ast.ThrowStmt {
	start := p.curPos()
	p.nextToken()
	stmt := &ast.ThrowStmt{Value: p.parseExpression(LOWEST)}
	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseTryStmt() *ast.TryStmt {
	start := p.curPos()
	stmt := &ast.TryStmt{}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Try = p.parseBlockStmt()

	if p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		clause := &ast.CatchClause{}
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			p.nextToken()
			if p.curTokenIs(lexer.LBRACE) || p.curTokenIs(lexer.LBRACKET) {
				clause.Param = p.parseBindingPattern()
			} else {
				clause.Param = &ast.Ident{Name: p.curToken.Literal}
			}
			if p.peekTokenIs(lexer.COLON) {
				p.nextToken()
				p.nextToken()
				clause.Type = p.parseType()
			}
			p.expectPeek(lexer.RPAREN)
		}
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		clause.Body = p.parseBlockStmt()
		stmt.Catch = clause
	}

	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		stmt.Finally = p.parseBlockStmt()
	}

	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return stmt
}

func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	start := p.curPos()
	stmt := &ast.SwitchStmt{}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Disc = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		c := &ast.SwitchCase{}
		if p.curTokenIs(lexer.CASE) {
			p.nextToken()
			c.Test = p.parseExpression(LOWEST)
			p.expectPeek(lexer.COLON)
		} else if p.curTokenIs(lexer.DEFAULT) {
			p.expectPeek(lexer.COLON)
		}
		p.nextToken()
		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) &&
			!p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			if s := p.parseStatement(); s != nil {
				c.Statements = append(c.Statements, s)
			}
			p.nextToken()
		}
		stmt.Cases = append(stmt.Cases, c)
	}

	stmt.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return stmt
}

func (p *Parser) parseLabeledStmt() *ast.LabeledStmt {
	start := p.curPos()
	label := p.curToken.Literal
	p.nextToken() // :
	p.nextToken()
	body := p.parseStatement()
	return &ast.LabeledStmt{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Label: label, Body: body}
}
