package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// registerExprPrefixFns wires every token that can start an expression to
// its prefix parse function, the Pratt-parser dispatch table.
func (p *Parser) registerExprPrefixFns() {
	p.registerPrefix(lexer.IDENT, p.parseIdentifierExpr)
	p.registerPrefix(lexer.NUMBER, p.parseNumberExpr)
	p.registerPrefix(lexer.BIGINT, p.parseBigIntExpr)
	p.registerPrefix(lexer.STRING, p.parseStringExpr)
	p.registerPrefix(lexer.TRUE, p.parseBoolExpr)
	p.registerPrefix(lexer.FALSE, p.parseBoolExpr)
	p.registerPrefix(lexer.NULL, p.parseNullExpr)
	p.registerPrefix(lexer.UNDEFINED, p.parseUndefinedExpr)
	p.registerPrefix(lexer.REGEX, p.parseRegexExpr)
	p.registerPrefix(lexer.TEMPLATE_FULL, p.parseTemplateLiteralExpr)
	p.registerPrefix(lexer.TEMPLATE_HEAD, p.parseTemplateLiteralExpr)
	p.registerPrefix(lexer.THIS, p.parseThisExpr)
	p.registerPrefix(lexer.SUPER, p.parseSuperExpr)
	p.registerPrefix(lexer.LPAREN, p.parseParenOrArrowExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteralExpr)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteralExpr)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionExprPrefix)
	p.registerPrefix(lexer.ASYNC, p.parseAsyncPrefixExpr)
	p.registerPrefix(lexer.CLASS, p.parseClassExprPrefix)
	p.registerPrefix(lexer.NEW, p.parseNewExprPrefix)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpr)
	p.registerPrefix(lexer.TILDE, p.parseUnaryExpr)
	p.registerPrefix(lexer.PLUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.INC, p.parseUnaryExpr)
	p.registerPrefix(lexer.DEC, p.parseUnaryExpr)
	p.registerPrefix(lexer.TYPEOF, p.parseUnaryExpr)
	p.registerPrefix(lexer.VOID, p.parseUnaryExpr)
	p.registerPrefix(lexer.DELETE, p.parseUnaryExpr)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExprPrefix)
	p.registerPrefix(lexer.YIELD, p.parseYieldExprPrefix)
	p.registerPrefix(lexer.ELLIPSIS, p.parseSpreadExprPrefix)
	p.registerPrefix(lexer.LT, p.parseLegacyTypeAssertExpr)
}

// registerExprInfixFns wires every token that can follow a complete
// expression and extend it to its infix parse function.
func (p *Parser) registerExprInfixFns() {
	binaryOps := []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT, lexer.STARSTAR,
		lexer.EQ, lexer.NEQ, lexer.SEQ, lexer.SNEQ,
		lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.INSTANCEOF, lexer.IN,
		lexer.AMP, lexer.PIPE, lexer.CARET, lexer.SHL, lexer.SHR, lexer.USHR,
	}
	for _, t := range binaryOps {
		p.registerInfix(t, p.parseBinaryExpr)
	}
	p.registerInfix(lexer.LOGAND, p.parseLogicalExpr)
	p.registerInfix(lexer.LOGOR, p.parseLogicalExpr)
	p.registerInfix(lexer.NULLISH, p.parseLogicalExpr)

	assignOps := []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN, lexer.STARSTAR_ASSIGN,
		lexer.AND_ASSIGN, lexer.OR_ASSIGN, lexer.XOR_ASSIGN,
		lexer.SHL_ASSIGN, lexer.SHR_ASSIGN, lexer.USHR_ASSIGN,
		lexer.LOGAND_ASSIGN, lexer.LOGOR_ASSIGN, lexer.NULLISH_ASSIGN,
	}
	for _, t := range assignOps {
		p.registerInfix(t, p.parseAssignExpr)
	}

	p.registerInfix(lexer.QUESTION, p.parseConditionalExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.DOT, p.parseMemberExpr)
	p.registerInfix(lexer.QUESTION_DOT, p.parseOptionalChainExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.INC, p.parsePostfixExpr)
	p.registerInfix(lexer.DEC, p.parsePostfixExpr)
	p.registerInfix(lexer.COMMA, p.parseSequenceExpr)
}

// parseExpression is the Pratt parser's core loop: it gets a left operand
// from curToken's prefix function, then repeatedly extends it with an infix
// function as long as the upcoming operator binds tighter than precedence.
// Generic call type-arguments (`f<T>(x)`) and the `as`/`as const` contextual
// operator are special-cased here since they are not plain single-token
// infix forms.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return &ast.Ident{Name: p.curToken.Literal}
	}
	left := prefix()

	for {
		if precedence < CALL && p.peekTokenIs(lexer.LT) {
			if call, ok := p.tryParseGenericCall(left); ok {
				left = call
				continue
			}
		}
		if precedence < RELATIONAL && p.peekIsKeyword("as") {
			p.nextToken() // as
			left = p.parseAsExpr(left)
			continue
		}
		if p.peekTokenIs(lexer.SEMICOLON) || precedence >= p.peekPrecedence() {
			break
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			break
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

// parseExpressionList parses a comma-separated list of assignment-level
// expressions up to (not including) end, leaving curToken on the last
// parsed expression's last token.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expr {
	var list []ast.Expr
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(ASSIGNMENT))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(ASSIGNMENT))
	}
	p.expectPeek(end)
	return list
}

// ---------------------------------------------------------------------
// Prefix parse functions
// ---------------------------------------------------------------------

func (p *Parser) parseIdentifierExpr() ast.Expr {
	ident := &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos(), End: p.curPos()}), Name: p.curToken.Literal}
	if p.peekTokenIs(lexer.ARROW) {
		return p.finishArrowFromSingleParam(ident)
	}
	return ident
}

func (p *Parser) parseNumberExpr() ast.Expr {
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitNumber, NumberValue: p.curToken.NumberValue}
}

func (p *Parser) parseBigIntExpr() ast.Expr {
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitBigInt, BigIntValue: p.curToken.BigIntDigits}
}

func (p *Parser) parseStringExpr() ast.Expr {
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitString, StringValue: p.curToken.Literal}
}

func (p *Parser) parseBoolExpr() ast.Expr {
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitBool, BoolValue: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullExpr() ast.Expr {
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitNull}
}

func (p *Parser) parseUndefinedExpr() ast.Expr {
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitUndefined}
}

func (p *Parser) parseRegexExpr() ast.Expr {
	pattern, flags := splitRegexLiteral(p.curToken.Literal)
	return &ast.Literal{base: ast.Base(ast.Span{Start: p.curPos()}), Kind: ast.LitRegex, RegexPattern: pattern, RegexFlags: flags}
}

// splitRegexLiteral separates a `/pattern/flags` lexeme (the lexer hands the
// parser the full delimited literal text) into its two parts.
func splitRegexLiteral(lexeme string) (pattern, flags string) {
	if len(lexeme) < 2 || lexeme[0] != '/' {
		return lexeme, ""
	}
	for i := len(lexeme) - 1; i > 0; i-- {
		if lexeme[i] == '/' {
			return lexeme[1:i], lexeme[i+1:]
		}
	}
	return lexeme[1:], ""
}

func (p *Parser) parseThisExpr() ast.Expr {
	return &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: "this"}
}

func (p *Parser) parseSuperExpr() ast.Expr {
	return &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: "super"}
}

// parseTemplateLiteralExpr mirrors parseTemplateLiteralType's interleaving,
// producing ast.TemplateLiteral instead.
func (p *Parser) parseTemplateLiteralExpr() ast.Expr {
	start := p.curPos()
	t := &ast.TemplateLiteral{}
	if p.curTokenIs(lexer.TEMPLATE_FULL) {
		t.Parts = append(t.Parts, ast.TemplatePart{Literal: p.curToken.Literal})
		t.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
		return t
	}
	t.Parts = append(t.Parts, ast.TemplatePart{Literal: p.curToken.Literal})
	for {
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		t.Parts = append(t.Parts, ast.TemplatePart{Expr: expr})

		if !p.peekTokenIs(lexer.RBRACE) {
			p.reportExpected(lexer.RBRACE, "close the interpolation with '}'")
			break
		}
		p.l.RewindForTemplateContinuation()
		tailTok := p.l.ContinueTemplate(p.peekToken.Line, p.peekToken.Column)
		p.curToken = tailTok
		p.peekToken = p.l.NextToken()

		t.Parts = append(t.Parts, ast.TemplatePart{Literal: tailTok.Literal})
		if tailTok.Type == lexer.TEMPLATE_TAIL {
			break
		}
	}
	t.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return t
}

// parseParenOrArrowExpr disambiguates `(expr)`/`(a, b)` grouping/sequence
// from an arrow function's parameter list, by the same try-then-restore
// technique as parseParenOrFuncType.
func (p *Parser) parseParenOrArrowExpr() ast.Expr {
	start := p.curPos()
	save := p.snapshot()
	if params, retType, ok := p.tryParseArrowParams(); ok {
		if p.peekTokenIs(lexer.ARROW) {
			p.nextToken() // =>
			return p.finishArrowBody(start, nil, params, retType, false)
		}
	}
	p.restore(save)

	p.nextToken() // consume (
	if p.curTokenIs(lexer.RPAREN) {
		p.report(errUnexpectedToken, "empty parentheses are not a valid expression", "an arrow function needs '=>' after '()'")
		return &ast.GroupingExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()})}
	}
	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.COMMA) {
		exprs := []ast.Expr{first}
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			exprs = append(exprs, p.parseExpression(LOWEST))
		}
		p.expectPeek(lexer.RPAREN)
		return &ast.SequenceExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Exprs: exprs}
	}
	p.expectPeek(lexer.RPAREN)
	return &ast.GroupingExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Value: first}
}

// tryParseArrowParams attempts to parse `(params)[: RetType]` as an arrow
// function head, leaving p.curToken on the closing `)` (or the return type's
// last token) on success.
func (p *Parser) tryParseArrowParams() (params []*ast.Param, retType ast.TypeNode, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			params, retType, ok = nil, nil, false
		}
	}()
	params = p.parseParamList()
	if !p.curTokenIs(lexer.RPAREN) {
		return nil, nil, false
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		retType = p.parseType()
	}
	return params, retType, true
}

// finishArrowFromSingleParam builds `x => body` from a bare identifier that
// parseIdentifierExpr discovered is immediately followed by `=>`.
func (p *Parser) finishArrowFromSingleParam(ident *ast.Ident) ast.Expr {
	start := ident.Span().Start
	params := []*ast.Param{{Pattern: ident}}
	p.nextToken() // =>
	return p.finishArrowBody(start, nil, params, nil, false)
}

// finishArrowBody parses an arrow function's body (block or concise) with
// p.curToken on `=>` and builds the FuncExpr.
func (p *Parser) finishArrowBody(start ast.Pos, typeParams []*ast.TypeParam, params []*ast.Param, retType ast.TypeNode, async bool) ast.Expr {
	fn := &ast.FuncExpr{
		Arrow: true, Async: async,
		TypeParams: typeParams, Params: params, ReturnType: retType,
	}
	p.nextToken() // move onto body
	if p.curTokenIs(lexer.LBRACE) {
		fn.Body = p.parseBlockStmt()
	} else {
		fn.ExprBody = p.parseExpression(ASSIGNMENT)
	}
	fn.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return fn
}

func (p *Parser) parseArrayLiteralExpr() ast.Expr {
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
			value := p.parseExpression(ASSIGNMENT)
			lit.Elements = append(lit.Elements, ast.ArrayElement{Value: value, Spread: true})
		} else {
			value := p.parseExpression(ASSIGNMENT)
			lit.Elements = append(lit.Elements, ast.ArrayElement{Value: value})
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

func (p *Parser) parseObjectLiteralExpr() ast.Expr {
	start := p.curPos()
	lit := &ast.ObjectLiteral{}
	p.nextToken() // consume {
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			value := p.parseExpression(ASSIGNMENT)
			lit.Properties = append(lit.Properties, ast.ObjectProperty{Spread: true, Value: value})
		} else {
			lit.Properties = append(lit.Properties, p.parseObjectProperty())
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

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	if p.curTokenIs(lexer.LBRACKET) {
		p.nextToken()
		computed := p.parseExpression(ASSIGNMENT)
		p.expectPeek(lexer.RBRACKET)
		key := ast.ObjectKey{Kind: ast.KeyComputed, Computed: computed}
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			params := p.parseParamList()
			fn := p.finishMethodBody(params)
			return ast.ObjectProperty{Key: key, Value: fn, Method: true}
		}
		p.expectPeek(lexer.COLON)
		p.nextToken()
		return ast.ObjectProperty{Key: key, Value: p.parseExpression(ASSIGNMENT)}
	}

	var key ast.ObjectKey
	switch p.curToken.Type {
	case lexer.STRING:
		key = ast.ObjectKey{Kind: ast.KeyString, String: p.curToken.Literal}
	case lexer.NUMBER:
		key = ast.ObjectKey{Kind: ast.KeyNumber, Number: p.curToken.NumberValue}
	default:
		key = ast.ObjectKey{Kind: ast.KeyIdent, Ident: p.curToken.Literal}
	}

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		params := p.parseParamList()
		fn := p.finishMethodBody(params)
		return ast.ObjectProperty{Key: key, Value: fn, Method: true}
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		return ast.ObjectProperty{Key: key, Value: p.parseExpression(ASSIGNMENT)}
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		// shorthand with default, valid only in destructuring position; kept
		// here so object literals and object patterns share one parser path.
		p.nextToken()
		p.nextToken()
		def := p.parseExpression(ASSIGNMENT)
		return ast.ObjectProperty{Key: key, Shorthand: true, Value: &ast.AssignExpr{Op: "=", Left: &ast.Ident{Name: key.Ident}, Right: def}}
	}
	return ast.ObjectProperty{Key: key, Shorthand: true}
}

// finishMethodBody parses `(...)  { ... }` method bodies shared by object
// literal methods and, later, class methods.
func (p *Parser) finishMethodBody(params []*ast.Param) *ast.FuncExpr {
	start := p.curPos()
	fn := &ast.FuncExpr{Params: params}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	p.expectPeek(lexer.LBRACE)
	fn.Body = p.parseBlockStmt()
	fn.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return fn
}

func (p *Parser) parseFunctionExprPrefix() ast.Expr {
	return p.parseFunctionExprBody(false)
}

func (p *Parser) parseAsyncPrefixExpr() ast.Expr {
	if p.peekTokenIs(lexer.FUNCTION) {
		p.nextToken()
		return p.parseFunctionExprBody(true)
	}
	start := p.curPos()
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		save := p.snapshot()
		if params, retType, ok := p.tryParseArrowParams(); ok && p.peekTokenIs(lexer.ARROW) {
			p.nextToken()
			return p.finishArrowBody(start, nil, params, retType, true)
		}
		p.restore(save)
	}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		ident := &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.ARROW) {
			p.nextToken()
			return p.finishArrowBody(start, nil, []*ast.Param{{Pattern: ident}}, nil, true)
		}
	}
	// "async" used as a plain identifier.
	return &ast.Ident{base: ast.Base(ast.Span{Start: start}), Name: "async"}
}

func (p *Parser) parseFunctionExprBody(async bool) ast.Expr {
	start := p.curPos()
	fn := &ast.FuncExpr{Async: async}
	if p.peekTokenIs(lexer.STAR) {
		p.nextToken()
		fn.Generator = true
	}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = p.curToken.Literal
	}
	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		fn.TypeParams = p.parseTypeParamList()
	}
	p.expectPeek(lexer.LPAREN)
	fn.Params = p.parseParamList()
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
	}
	p.expectPeek(lexer.LBRACE)
	fn.Body = p.parseBlockStmt()
	fn.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return fn
}

func (p *Parser) parseClassExprPrefix() ast.Expr {
	start := p.curPos()
	class := p.parseClassDecl(false)
	return &ast.ClassExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Class: class}
}

func (p *Parser) parseNewExprPrefix() ast.Expr {
	start := p.curPos()
	p.nextToken()
	callee := p.parseExpression(CALL)
	n := &ast.NewExpr{Callee: callee}
	if ce, ok := callee.(*ast.CallExpr); ok {
		// `new Foo(args)` parses its argument list as a normal call on the
		// callee expression; unwrap it into NewExpr's own Args/TypeArgs.
		n.Callee = ce.Callee
		n.Args = ce.Args
		n.TypeArgs = ce.TypeArgs
	}
	n.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return n
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	start := p.curPos()
	op := p.curToken.Literal
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Op: op, Operand: operand}
}

func (p *Parser) parseAwaitExprPrefix() ast.Expr {
	start := p.curPos()
	p.nextToken()
	value := p.parseExpression(UNARY)
	return &ast.AwaitExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Value: value}
}

func (p *Parser) parseYieldExprPrefix() ast.Expr {
	start := p.curPos()
	y := &ast.YieldExpr{}
	if p.peekTokenIs(lexer.STAR) {
		p.nextToken()
		y.Delegate = true
	}
	if !p.peekTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.RPAREN) &&
		!p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.RBRACKET) &&
		!p.peekTokenIs(lexer.COMMA) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		y.Value = p.parseExpression(ASSIGNMENT)
	}
	y.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return y
}

func (p *Parser) parseSpreadExprPrefix() ast.Expr {
	start := p.curPos()
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT)
	return &ast.SpreadExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Value: value}
}

// parseLegacyTypeAssertExpr parses the `<T>expr` cast form. This form is
// ambiguous with a relational `<` only in statement-initial position (where
// JSX would otherwise live, which SharpTS has no syntax for), so it is safe
// to always try it when `<` is seen in prefix position.
func (p *Parser) parseLegacyTypeAssertExpr() ast.Expr {
	start := p.curPos()
	p.nextToken()
	typ := p.parseType()
	p.expectPeek(lexer.GT)
	p.nextToken()
	value := p.parseExpression(UNARY)
	return &ast.TypeAssertExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Value: value, Type: typ}
}

// ---------------------------------------------------------------------
// Infix parse functions
// ---------------------------------------------------------------------

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{base: ast.Base(ast.Span{Start: left.Span().Start, End: p.curPos()}), Op: op, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpr(left ast.Expr) ast.Expr {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.LogicalExpr{base: ast.Base(ast.Span{Start: left.Span().Start, End: p.curPos()}), Op: op, Left: left, Right: right}
}

func (p *Parser) parseAssignExpr(left ast.Expr) ast.Expr {
	op := p.curToken.Literal
	p.nextToken()
	// Assignment is right-associative: ASSIGNMENT-1 would be wrong since
	// that's LOWEST's neighbor; re-entering at ASSIGNMENT itself lets a
	// chain `a = b = c` parse as `a = (b = c)`.
	right := p.parseExpression(ASSIGNMENT - 1)
	return &ast.AssignExpr{base: ast.Base(ast.Span{Start: left.Span().Start, End: p.curPos()}), Op: op, Left: left, Right: right}
}

func (p *Parser) parseConditionalExpr(cond ast.Expr) ast.Expr {
	p.nextToken()
	then := p.parseExpression(ASSIGNMENT)
	p.expectPeek(lexer.COLON)
	p.nextToken()
	elseExpr := p.parseExpression(ASSIGNMENT)
	return &ast.ConditionalExpr{base: ast.Base(ast.Span{Start: cond.Span().Start, End: p.curPos()}), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	args, spreadIdx := p.parseCallArguments()
	return &ast.CallExpr{
		base:         ast.Base(ast.Span{Start: callee.Span().Start, End: p.curPos()}),
		Callee:       callee,
		Args:         args,
		SpreadArgIdx: spreadIdx,
	}
}

// parseCallArguments parses `(arg, ...spread, arg)` with p.curToken on `(`
// on entry and the closing `)` on return.
func (p *Parser) parseCallArguments() ([]ast.Expr, []int) {
	var args []ast.Expr
	var spreadIdx []int
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args, spreadIdx
	}
	p.nextToken()
	for {
		if p.curTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			spreadIdx = append(spreadIdx, len(args))
		}
		args = append(args, p.parseExpression(ASSIGNMENT))
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return args, spreadIdx
}

func (p *Parser) parseMemberExpr(obj ast.Expr) ast.Expr {
	p.expectPeek(lexer.IDENT)
	return &ast.MemberExpr{base: ast.Base(ast.Span{Start: obj.Span().Start, End: p.curPos()}), Object: obj, Property: p.curToken.Literal}
}

// parseOptionalChainExpr handles `?.` followed by a member name, an index
// (`?.[`), or a call (`?.(`).
func (p *Parser) parseOptionalChainExpr(obj ast.Expr) ast.Expr {
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args, spreadIdx := p.parseCallArguments()
		return &ast.CallExpr{base: ast.Base(ast.Span{Start: obj.Span().Start, End: p.curPos()}), Callee: obj, Args: args, SpreadArgIdx: spreadIdx, Optional: true}
	}
	if p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		p.nextToken()
		index := p.parseExpression(LOWEST)
		p.expectPeek(lexer.RBRACKET)
		return &ast.IndexExpr{base: ast.Base(ast.Span{Start: obj.Span().Start, End: p.curPos()}), Object: obj, Index: index, Optional: true}
	}
	p.expectPeek(lexer.IDENT)
	return &ast.MemberExpr{base: ast.Base(ast.Span{Start: obj.Span().Start, End: p.curPos()}), Object: obj, Property: p.curToken.Literal, Optional: true}
}

func (p *Parser) parseIndexExpr(obj ast.Expr) ast.Expr {
	p.nextToken()
	index := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACKET)
	return &ast.IndexExpr{base: ast.Base(ast.Span{Start: obj.Span().Start, End: p.curPos()}), Object: obj, Index: index}
}

func (p *Parser) parsePostfixExpr(operand ast.Expr) ast.Expr {
	return &ast.UnaryExpr{base: ast.Base(ast.Span{Start: operand.Span().Start, End: p.curPos()}), Op: p.curToken.Literal, Operand: operand, Postfix: true}
}

func (p *Parser) parseSequenceExpr(first ast.Expr) ast.Expr {
	exprs := []ast.Expr{first}
	for {
		p.nextToken()
		exprs = append(exprs, p.parseExpression(ASSIGNMENT))
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return &ast.SequenceExpr{base: ast.Base(ast.Span{Start: first.Span().Start, End: p.curPos()}), Exprs: exprs}
}

// parseAsExpr parses the `as T` / `as const` suffix; p.curToken is on `as`
// on entry.
func (p *Parser) parseAsExpr(left ast.Expr) ast.Expr {
	if p.peekTokenIs(lexer.CONST) {
		p.nextToken()
		return &ast.TypeAssertExpr{base: ast.Base(ast.Span{Start: left.Span().Start, End: p.curPos()}), Value: left, AsConst: true}
	}
	p.nextToken()
	typ := p.parseType()
	return &ast.TypeAssertExpr{base: ast.Base(ast.Span{Start: left.Span().Start, End: p.curPos()}), Value: left, Type: typ}
}

// tryParseGenericCall attempts `<TypeArgs>(...)` immediately following an
// already-parsed callee, disambiguating it from a `<` relational comparison
// via the same snapshot/restore technique used for parenthesized types.
func (p *Parser) tryParseGenericCall(callee ast.Expr) (result ast.Expr, ok bool) {
	save := p.snapshot()
	defer func() {
		if r := recover(); r != nil {
			p.restore(save)
			result, ok = nil, false
		}
	}()

	p.nextToken() // <
	p.nextToken()
	var typeArgs []ast.TypeNode
	for !p.curTokenIs(lexer.GT) {
		typeArgs = append(typeArgs, p.parseType())
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.consumeGreaterInTypeContext()

	if !p.peekTokenIs(lexer.LPAREN) {
		p.restore(save)
		return nil, false
	}
	p.nextToken()
	args, spreadIdx := p.parseCallArguments()
	call := &ast.CallExpr{
		base:         ast.Base(ast.Span{Start: callee.Span().Start, End: p.curPos()}),
		Callee:       callee,
		TypeArgs:     typeArgs,
		Args:         args,
		SpreadArgIdx: spreadIdx,
	}
	return call, true
}

// ---------------------------------------------------------------------
// Shared parameter / type-parameter list parsing
// ---------------------------------------------------------------------

// parseParamList parses `(p1[: T1][= d1], ...rest[: T2])`; p.curToken must
// be LPAREN on entry and is the matching RPAREN on return. Parameter
// properties (`public`/`private`/`protected`/`readonly` modifiers) are
// recorded on Param.AccessMod for the class constructor elaborator to
// expand later.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		param := &ast.Param{}
		for p.curTokenIs(lexer.PUBLIC) || p.curTokenIs(lexer.PRIVATE) || p.curTokenIs(lexer.PROTECTED) || p.curIsKeyword("readonly") {
			if param.AccessMod == "" {
				param.AccessMod = p.curToken.Literal
			} else {
				param.AccessMod = param.AccessMod + " " + p.curToken.Literal
			}
			p.nextToken()
		}
		if p.curTokenIs(lexer.ELLIPSIS) {
			param.Rest = true
			p.nextToken()
		}
		if p.curTokenIs(lexer.LBRACE) || p.curTokenIs(lexer.LBRACKET) {
			param.Pattern = p.parseBindingPattern()
		} else {
			param.Pattern = &ast.Ident{base: ast.Base(ast.Span{Start: p.curPos()}), Name: p.curToken.Literal}
		}
		if p.peekTokenIs(lexer.QUESTION) {
			p.nextToken()
			param.Optional = true
		}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseType()
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(ASSIGNMENT)
		}
		params = append(params, param)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

// parseTypeParamList parses `<T1 [extends C1] [= D1], ...>`; p.curToken must
// be LT on entry and ends on the matching (possibly split) GT.
func (p *Parser) parseTypeParamList() []*ast.TypeParam {
	var params []*ast.TypeParam
	p.nextToken()
	for !p.curTokenIs(lexer.GT) {
		tp := &ast.TypeParam{}
		if p.curIsKeyword("out") {
			tp.Variance = ast.VarianceOut
			p.nextToken()
		} else if p.curTokenIs(lexer.IN) {
			tp.Variance = ast.VarianceIn
			p.nextToken()
		}
		if p.curTokenIs(lexer.CONST) {
			tp.Const = true
			p.nextToken()
		}
		tp.Name = p.curToken.Literal
		if p.peekTokenIs(lexer.EXTENDS) {
			p.nextToken()
			p.nextToken()
			tp.Constraint = p.parseType()
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			tp.Default = p.parseType()
		}
		params = append(params, tp)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.consumeGreaterInTypeContext()
	return params
}
