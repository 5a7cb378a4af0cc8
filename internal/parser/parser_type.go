package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// isContextualKeyword reports whether tok is an IDENT token whose lexeme is
// one of TypeScript's contextual keywords spelled lit — the lexer always
// lexes these as plain IDENT, so the parser tells them apart by
// grammatical position, never by TokenType.
func isContextualKeyword(tok lexer.Token, lit string) bool {
	return tok.Type == lexer.IDENT && tok.Literal == lit
}

func (p *Parser) curIsKeyword(lit string) bool  { return isContextualKeyword(p.curToken, lit) }
func (p *Parser) peekIsKeyword(lit string) bool { return isContextualKeyword(p.peekToken, lit) }

// parseType parses a type annotation starting at p.curToken, following a
// five-level precedence table (loosest to tightest: conditional, union,
// intersection, postfix array/indexed-access, primary).
func (p *Parser) parseType() ast.TypeNode {
	return p.parseConditionalType()
}

func (p *Parser) parseConditionalType() ast.TypeNode {
	start := p.curPos()
	check := p.parseUnionType()
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken() // extends
		p.nextToken()
		extends := p.parseUnionType()
		if !p.expectPeek(lexer.QUESTION) {
			return check
		}
		p.nextToken()
		trueType := p.parseConditionalType()
		if !p.expectPeek(lexer.COLON) {
			return check
		}
		p.nextToken()
		falseType := p.parseConditionalType()
		return &ast.ConditionalTypeNode{
			base:    ast.Base(ast.Span{Start: start, End: p.curPos()}),
			Check:   check,
			Extends: extends,
			True:    trueType,
			False:   falseType,
		}
	}
	return check
}

func (p *Parser) parseUnionType() ast.TypeNode {
	start := p.curPos()
	if p.curTokenIs(lexer.PIPE) { // leading `|` is allowed
		p.nextToken()
	}
	first := p.parseIntersectionType()
	if !p.peekTokenIs(lexer.PIPE) {
		return first
	}
	members := []ast.TypeNode{first}
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken() // |
		p.nextToken()
		members = append(members, p.parseIntersectionType())
	}
	return &ast.UnionTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Members: members}
}

func (p *Parser) parseIntersectionType() ast.TypeNode {
	start := p.curPos()
	if p.curTokenIs(lexer.AMP) {
		p.nextToken()
	}
	first := p.parsePostfixType()
	if !p.peekTokenIs(lexer.AMP) {
		return first
	}
	members := []ast.TypeNode{first}
	for p.peekTokenIs(lexer.AMP) {
		p.nextToken() // &
		p.nextToken()
		members = append(members, p.parsePostfixType())
	}
	return &ast.IntersectionTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Members: members}
}

func (p *Parser) parsePostfixType() ast.TypeNode {
	start := p.curPos()
	t := p.parsePrimaryType()
	for {
		if p.peekTokenIs(lexer.LBRACKET) {
			p.nextToken() // [
			if p.peekTokenIs(lexer.RBRACKET) {
				p.nextToken()
				t = &ast.ArrayTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Element: t}
				continue
			}
			p.nextToken()
			index := p.parseType()
			p.expectPeek(lexer.RBRACKET)
			t = &ast.IndexedAccessTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Object: t, Index: index}
			continue
		}
		break
	}
	return t
}

// parsePrimaryType parses one primary type form; p.curToken is positioned on
// its first token on entry and on its last token on return. Contextual
// keywords (keyof, infer, unique, readonly, symbol, ...) lex as plain IDENT,
// so they are dispatched on their literal text before falling through to a
// generic type reference.
func (p *Parser) parsePrimaryType() ast.TypeNode {
	start := p.curPos()

	if p.curTokenIs(lexer.IDENT) {
		switch p.curToken.Literal {
		case "keyof":
			p.nextToken()
			operand := p.parsePostfixType()
			return &ast.KeyofTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Operand: operand}
		case "infer":
			p.expectPeek(lexer.IDENT)
			return &ast.InferTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Name: p.curToken.Literal}
		case "unique":
			p.nextToken()
			if !p.curIsKeyword("symbol") {
				p.report(errInvalidTypeAnnot, "expected 'symbol' after 'unique'", "only 'unique symbol' is a valid type")
			}
			return &ast.UniqueSymbolTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()})}
		}
		return p.parseTypeRefOrFuncType(start)
	}

	switch p.curToken.Type {
	case lexer.LPAREN:
		return p.parseParenOrFuncType(start)
	case lexer.LBRACKET:
		return p.parseTupleType(start)
	case lexer.LBRACE:
		return p.parseObjectOrMappedType(start)
	case lexer.STRING:
		return &ast.LiteralTypeNode{base: ast.Base(ast.Span{Start: start}), Kind: ast.LitTypeString, StringValue: p.curToken.Literal}
	case lexer.NUMBER:
		return &ast.LiteralTypeNode{base: ast.Base(ast.Span{Start: start}), Kind: ast.LitTypeNumber, NumberValue: p.curToken.NumberValue}
	case lexer.TRUE:
		return &ast.LiteralTypeNode{base: ast.Base(ast.Span{Start: start}), Kind: ast.LitTypeBool, BoolValue: true}
	case lexer.FALSE:
		return &ast.LiteralTypeNode{base: ast.Base(ast.Span{Start: start}), Kind: ast.LitTypeBool, BoolValue: false}
	case lexer.MINUS:
		// negative numeric literal type, e.g. `-1`
		p.nextToken()
		n := p.curToken.NumberValue
		return &ast.LiteralTypeNode{base: ast.Base(ast.Span{Start: start}), Kind: ast.LitTypeNumber, NumberValue: -n}
	case lexer.TEMPLATE_FULL, lexer.TEMPLATE_HEAD:
		return p.parseTemplateLiteralType(start)
	case lexer.TYPEOF:
		p.nextToken()
		expr := p.parseTypeofTargetExpr()
		return &ast.TypeofTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Expr: expr}
	case lexer.VOID, lexer.NULL, lexer.UNDEFINED, lexer.THIS:
		return p.parseTypeRefOrFuncType(start)
	default:
		p.report(errInvalidTypeAnnot, "expected a type", "check for a missing or malformed type annotation")
		return &ast.TypeRef{base: ast.Base(ast.Span{Start: start}), Name: p.curToken.Literal}
	}
}

// parseTypeofTargetExpr parses the `id(.id|[idx])*` target of `typeof`.
func (p *Parser) parseTypeofTargetExpr() ast.Expr {
	start := p.curPos()
	var expr ast.Expr = &ast.Ident{base: ast.Base(ast.Span{Start: start}), Name: p.curToken.Literal}
	for {
		if p.peekTokenIs(lexer.DOT) {
			p.nextToken()
			p.expectPeek(lexer.IDENT)
			expr = &ast.MemberExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Object: expr, Property: p.curToken.Literal}
			continue
		}
		if p.peekTokenIs(lexer.LBRACKET) {
			p.nextToken()
			p.nextToken()
			idx := p.parseExpression(LOWEST)
			p.expectPeek(lexer.RBRACKET)
			expr = &ast.IndexExpr{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Object: expr, Index: idx}
			continue
		}
		break
	}
	return expr
}

// parseTypeRefOrFuncType handles an identifier type reference with optional
// `<Args>`, or backtracks to parse `(params) => T` when what looked like a
// parenthesized type argument list is actually an arrow function type's
// parameter list (disambiguated by the parser's save/restore facility).
func (p *Parser) parseTypeRefOrFuncType(start ast.Pos) ast.TypeNode {
	name := p.curToken.Literal
	ref := &ast.TypeRef{base: ast.Base(ast.Span{Start: start}), Name: name}

	for p.peekTokenIs(lexer.DOT) {
		p.nextToken()
		p.expectPeek(lexer.IDENT)
		name = name + "." + p.curToken.Literal
	}
	ref.Name = name

	if p.peekTokenIs(lexer.LT) {
		p.nextToken() // <
		p.nextToken()
		for !p.curTokenIs(lexer.GT) {
			ref.Args = append(ref.Args, p.parseType())
			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.consumeGreaterInTypeContext()
	}
	ref.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return ref
}

// consumeGreaterInTypeContext closes one level of `<...>` nesting, splitting
// a greedily-lexed `>>`/`>>>`/`>=` token's head off when needed.
func (p *Parser) consumeGreaterInTypeContext() {
	switch p.peekToken.Type {
	case lexer.GT:
		p.nextToken()
	case lexer.SHR:
		p.peekToken.Type = lexer.GT
		p.peekToken.Literal = ">"
		p.nextToken()
	case lexer.USHR:
		p.peekToken.Type = lexer.SHR
		p.peekToken.Literal = ">>"
		p.nextToken()
	case lexer.GTE:
		p.peekToken.Type = lexer.ASSIGN
		p.peekToken.Literal = "="
		p.nextToken()
	default:
		p.reportExpected(lexer.GT, "close the generic type argument list with '>'")
	}
}

// parseParenOrFuncType disambiguates `(T)` (a parenthesized type) from
// `(params) => T` (a function type) by scanning forward: a function type's
// parameter list is always followed by `=>`.
func (p *Parser) parseParenOrFuncType(start ast.Pos) ast.TypeNode {
	save := p.snapshot()
	if params, ok := p.tryParseFuncTypeParams(); ok {
		if p.peekTokenIs(lexer.ARROW) {
			p.nextToken() // =>
			p.nextToken()
			ret := p.parseType()
			return &ast.FuncTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Params: params, Return: ret}
		}
	}
	p.restore(save)

	p.nextToken() // consume (
	inner := p.parseType()
	p.expectPeek(lexer.RPAREN)
	return &ast.ParenTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Inner: inner}
}

// tryParseFuncTypeParams attempts to parse `(p1: T1, p2: T2, ...)` as a
// function type's parameter list, leaving p.curToken on the closing `)`.
func (p *Parser) tryParseFuncTypeParams() (params []*ast.Param, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			params, ok = nil, false
		}
	}()
	p.nextToken() // consume (
	for !p.curTokenIs(lexer.RPAREN) {
		if !p.curTokenIs(lexer.IDENT) {
			return nil, false
		}
		param := &ast.Param{Pattern: &ast.Ident{Name: p.curToken.Literal}}
		if p.peekTokenIs(lexer.QUESTION) {
			p.nextToken()
			param.Optional = true
		}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseType()
		} else {
			return nil, false
		}
		params = append(params, param)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseTupleType(start ast.Pos) ast.TypeNode {
	tup := &ast.TupleTypeNode{}
	p.nextToken() // consume [
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		elem := ast.TupleElementNode{}
		if p.curTokenIs(lexer.ELLIPSIS) {
			elem.Kind = ast.TupleElemSpread
			p.nextToken()
		}
		if p.curTokenIs(lexer.IDENT) && (p.peekTokenIs(lexer.COLON) || p.peekTokenIs(lexer.QUESTION)) {
			elem.Name = p.curToken.Literal
			if p.peekTokenIs(lexer.QUESTION) {
				p.nextToken()
				elem.Kind = ast.TupleElemOptional
			}
			p.expectPeek(lexer.COLON)
			p.nextToken()
		}
		elem.Type = p.parseType()
		if p.peekTokenIs(lexer.QUESTION) && elem.Kind != ast.TupleElemSpread {
			p.nextToken()
			elem.Kind = ast.TupleElemOptional
		}
		tup.Elements = append(tup.Elements, elem)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACKET)
	tup.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return tup
}

// parseObjectOrMappedType distinguishes a mapped type from a plain object
// type literal by a lookahead that sees `[ident in` under optional
// `+readonly`/`-readonly`/`readonly`.
func (p *Parser) parseObjectOrMappedType(start ast.Pos) ast.TypeNode {
	if p.looksLikeMappedType() {
		return p.parseMappedType(start)
	}

	obj := &ast.ObjectTypeNode{}
	p.nextToken() // consume {
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		member := ast.ObjectTypeMember{}
		if p.curIsKeyword("readonly") {
			member.Readonly = true
			p.nextToken()
		}
		if p.curTokenIs(lexer.LBRACKET) && p.peekTokenIs(lexer.IDENT) {
			// index signature: [key: string]: T
			p.nextToken()
			p.nextToken()
			p.expectPeek(lexer.COLON)
			p.nextToken()
			keyType := p.parseType()
			p.expectPeek(lexer.RBRACKET)
			p.expectPeek(lexer.COLON)
			p.nextToken()
			valType := p.parseType()
			if ref, ok := keyType.(*ast.TypeRef); ok && ref.Name == "number" {
				member.NumberIndex = valType
			} else if ref, ok := keyType.(*ast.TypeRef); ok && ref.Name == "symbol" {
				member.SymbolIndex = valType
			} else {
				member.StringIndex = valType
			}
		} else {
			member.Name = p.curToken.Literal
			if p.peekTokenIs(lexer.QUESTION) {
				p.nextToken()
				member.Optional = true
			}
			if p.peekTokenIs(lexer.LPAREN) {
				p.nextToken()
				member.Params = p.parseParamList()
				if p.peekTokenIs(lexer.COLON) {
					p.nextToken()
					p.nextToken()
					member.ReturnType = p.parseType()
				}
			} else {
				p.expectPeek(lexer.COLON)
				p.nextToken()
				member.FieldType = p.parseType()
			}
		}
		obj.Members = append(obj.Members, member)
		if p.peekTokenIs(lexer.COMMA) || p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE)
	obj.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return obj
}

// looksLikeMappedType implements the `[ident in` lookahead under an optional
// `+`/`-`/bare `readonly` modifier, without consuming input.
func (p *Parser) looksLikeMappedType() bool {
	save := p.snapshot()
	defer p.restore(save)

	p.nextToken() // consume {
	if p.curTokenIs(lexer.PLUS) || p.curTokenIs(lexer.MINUS) {
		p.nextToken()
	}
	if p.curIsKeyword("readonly") {
		p.nextToken()
	}
	if !p.curTokenIs(lexer.LBRACKET) {
		return false
	}
	if !p.peekTokenIs(lexer.IDENT) {
		return false
	}
	p.nextToken() // move onto the bound identifier
	return p.peekTokenIs(lexer.IN)
}

func (p *Parser) parseMappedType(start ast.Pos) ast.TypeNode {
	m := &ast.MappedTypeNode{}
	p.nextToken() // consume {

	switch {
	case p.curTokenIs(lexer.PLUS):
		p.nextToken()
		if p.curIsKeyword("readonly") {
			m.ReadonlyAdd = true
			p.nextToken()
		}
	case p.curTokenIs(lexer.MINUS):
		p.nextToken()
		if p.curIsKeyword("readonly") {
			m.ReadonlyRemove = true
			p.nextToken()
		}
	case p.curIsKeyword("readonly"):
		m.ReadonlyAdd = true
		p.nextToken()
	}

	// curToken is now LBRACKET (looksLikeMappedType already confirmed this
	// shape before parseMappedType was called).
	if !p.curTokenIs(lexer.LBRACKET) {
		p.report(errInvalidTypeAnnot, "expected '[' in mapped type", "mapped types have the form { [K in T]: V }")
	}
	p.expectPeek(lexer.IDENT)
	m.Param = p.curToken.Literal
	p.expectPeek(lexer.IN)
	p.nextToken()
	m.Constraint = p.parseType()
	p.expectPeek(lexer.RBRACKET)

	if p.peekIsKeyword("as") {
		p.nextToken()
		p.nextToken()
		m.AsClause = p.parseType()
	}

	if p.peekTokenIs(lexer.PLUS) {
		p.nextToken()
		p.expectPeek(lexer.QUESTION)
		m.OptionalModifier = ast.ModifierAddOptional
	} else if p.peekTokenIs(lexer.MINUS) {
		p.nextToken()
		p.expectPeek(lexer.QUESTION)
		m.OptionalModifier = ast.ModifierRemoveOptional
	} else if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		m.OptionalModifier = ast.ModifierAddOptional
	}

	p.expectPeek(lexer.COLON)
	p.nextToken()
	m.Value = p.parseType()
	p.expectPeek(lexer.RBRACE)

	return &ast.ObjectTypeNode{base: ast.Base(ast.Span{Start: start, End: p.curPos()}), Mapped: m}
}

// parseTemplateLiteralType parses a template-literal type, interleaving
// literal chunks with interpolated types via the lexer's ContinueTemplate.
// Because the parser prefetches one token of lookahead, the `}` closing an
// interpolation is always already tokenized as RBRACE by the time the parser
// notices it — RewindForTemplateContinuation backs the lexer up onto that
// `}` so ContinueTemplate can re-scan it as a literal-chunk delimiter.
func (p *Parser) parseTemplateLiteralType(start ast.Pos) ast.TypeNode {
	t := &ast.TemplateLiteralTypeNode{}
	if p.curTokenIs(lexer.TEMPLATE_FULL) {
		t.Parts = append(t.Parts, ast.TemplateLiteralTypePart{Literal: p.curToken.Literal})
		t.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
		return t
	}
	t.Parts = append(t.Parts, ast.TemplateLiteralTypePart{Literal: p.curToken.Literal})
	for {
		p.nextToken()
		typ := p.parseType()
		t.Parts = append(t.Parts, ast.TemplateLiteralTypePart{Type: typ})

		if !p.peekTokenIs(lexer.RBRACE) {
			p.reportExpected(lexer.RBRACE, "close the interpolation with '}'")
			break
		}
		p.l.RewindForTemplateContinuation()
		tailTok := p.l.ContinueTemplate(p.peekToken.Line, p.peekToken.Column)
		p.curToken = tailTok
		p.peekToken = p.l.NextToken()

		t.Parts = append(t.Parts, ast.TemplateLiteralTypePart{Literal: tailTok.Literal})
		if tailTok.Type == lexer.TEMPLATE_TAIL {
			break
		}
	}
	t.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return t
}

// parseTypePredicate parses a return-type position predicate: `x is T`,
// `asserts x`, or `asserts x is T`. `asserts` and `is` are contextual
// keywords, lexed as plain IDENT.
func (p *Parser) parseTypePredicate() *ast.TypePredicate {
	if p.curIsKeyword("asserts") {
		pred := &ast.TypePredicate{Asserts: true}
		p.nextToken()
		pred.ParamName = p.curToken.Literal
		if p.peekIsKeyword("is") {
			p.nextToken()
			p.nextToken()
			pred.Type = p.parseType()
		}
		return pred
	}
	if p.curTokenIs(lexer.IDENT) && p.peekIsKeyword("is") {
		pred := &ast.TypePredicate{ParamName: p.curToken.Literal}
		p.nextToken() // is
		p.nextToken()
		pred.Type = p.parseType()
		return pred
	}
	return nil
}

// snapshot/restore give the parser a save/restore facility for backtracking
// in ambiguous prefixes, e.g. `(params) => T` vs. a parenthesized type.
type parserSnapshot struct {
	lexerSnap lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lexerSnap: *p.l, curToken: p.curToken, peekToken: p.peekToken}
}

func (p *Parser) restore(s parserSnapshot) {
	*p.l = s.lexerSnap
	p.curToken = s.curToken
	p.peekToken = s.peekToken
}
