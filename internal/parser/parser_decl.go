package parser

import (
	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// parseFuncDecl parses `function name[<T>](params)[: RetType] { body }` or,
// for one clause of an overload cluster, the same head followed by `;` with
// no body. mergeOverloads (called from Parse) later folds adjacent
// no-body clauses sharing a name into the implementation's Overloads field.
func (p *Parser) parseFuncDecl(async bool) *ast.FuncDecl {
	start := p.curPos()
	fn := &ast.FuncDecl{Async: async}
	if p.peekTokenIs(lexer.STAR) {
		p.nextToken()
		fn.Generator = true
	}
	p.expectPeek(lexer.IDENT)
	fn.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		fn.TypeParams = p.parseTypeParamList()
	}
	p.expectPeek(lexer.LPAREN)
	fn.Params = p.parseParamList()

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		if pred := p.parseTypePredicate(); pred != nil {
			fn.Predicate = pred
		} else {
			fn.ReturnType = p.parseType()
		}
	}

	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		fn.Body = p.parseBlockStmt()
	} else {
		p.consumeSemicolon()
	}
	fn.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return fn
}

// mergeOverloads folds a run of body-less FuncDecl signatures followed by an
// implementation (or a final signature with no implementation, which is left
// as an error condition for the checker to report) into one FuncDecl per
// overload cluster.
func mergeOverloads(stmts []ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	var pending []*ast.FuncDecl
	flush := func() {
		for _, fn := range pending {
			out = append(out, fn)
		}
		pending = nil
	}
	for _, s := range stmts {
		fn, ok := s.(*ast.FuncDecl)
		if !ok {
			flush()
			out = append(out, s)
			continue
		}
		if len(pending) > 0 && pending[0].Name != fn.Name {
			flush()
		}
		if fn.Body == nil {
			pending = append(pending, fn)
			continue
		}
		fn.Overloads = pending
		pending = nil
		out = append(out, fn)
	}
	flush()
	return out
}

// parseClassDecl parses a class declaration or (when called from the
// ClassExpr prefix parser) class expression head; exported marks whether an
// enclosing `export` already consumed.
func (p *Parser) parseClassDecl(exported bool) *ast.ClassDecl {
	start := p.curPos()
	class := &ast.ClassDecl{Exported: exported}
	if p.curTokenIs(lexer.ABSTRACT) {
		class.Abstract = true
		p.nextToken()
	}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		class.Name = p.curToken.Literal
	}
	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		class.TypeParams = p.parseTypeParamList()
	}
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		p.nextToken()
		class.Superclass = p.parseTypeRefOrFuncType(p.curPos())
	}
	if p.peekTokenIs(lexer.IMPLEMENTS) {
		p.nextToken()
		p.nextToken()
		class.Implements = append(class.Implements, p.parseType())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			class.Implements = append(class.Implements, p.parseType())
		}
	}
	p.expectPeek(lexer.LBRACE)
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		class.Members = append(class.Members, p.parseClassMember())
		p.nextToken()
	}
	class.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return class
}

// parseClassMember parses one field/method/accessor/constructor member;
// p.curToken starts on the first modifier or member-name token and ends on
// the member's last token.
func (p *Parser) parseClassMember() *ast.ClassMember {
	m := &ast.ClassMember{}

	for {
		switch {
		case p.curTokenIs(lexer.PUBLIC):
			m.Access = ast.AccessPublic
		case p.curTokenIs(lexer.PRIVATE):
			m.Access = ast.AccessPrivate
		case p.curTokenIs(lexer.PROTECTED):
			m.Access = ast.AccessProtected
		case p.curTokenIs(lexer.STATIC):
			m.Static = true
		case p.curTokenIs(lexer.ABSTRACT):
			m.Abstract = true
		case p.curIsKeyword("override"):
			m.Override = true
		case p.curIsKeyword("readonly"):
			m.Readonly = true
		case p.curTokenIs(lexer.ASYNC):
			m.Async = true
		default:
			goto modifiersDone
		}
		p.nextToken()
	}
modifiersDone:

	if p.curTokenIs(lexer.STAR) {
		m.Generator = true
		p.nextToken()
	}

	if p.curIsKeyword("get") && !p.peekTokenIs(lexer.LPAREN) && !p.peekTokenIs(lexer.ASSIGN) && !p.peekTokenIs(lexer.COLON) {
		m.Kind = ast.MemberGetter
		p.nextToken()
	} else if p.curIsKeyword("set") && !p.peekTokenIs(lexer.LPAREN) && !p.peekTokenIs(lexer.ASSIGN) && !p.peekTokenIs(lexer.COLON) {
		m.Kind = ast.MemberSetter
		p.nextToken()
	}

	if p.curTokenIs(lexer.LBRACKET) {
		// computed member name `[expr](...)`; the checker resolves the name
		// dynamically, the parser records a placeholder.
		p.nextToken()
		p.parseExpression(ASSIGNMENT)
		p.expectPeek(lexer.RBRACKET)
		m.Name = "[computed]"
	} else {
		m.Name = p.curToken.Literal
	}

	if m.Name == "constructor" && m.Kind == ast.MemberField {
		m.Kind = ast.MemberConstructor
	}

	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		m.Optional = true
	}
	if p.peekTokenIs(lexer.BANG) {
		p.nextToken() // definite assignment assertion, no separate AST flag needed
	}

	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		m.TypeParams = p.parseTypeParamList()
	}

	if p.peekTokenIs(lexer.LPAREN) {
		if m.Kind == ast.MemberField {
			m.Kind = ast.MemberMethod
		}
		p.nextToken()
		m.Params = p.parseParamList()
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			m.ReturnType = p.parseType()
		}
		if p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			m.Body = p.parseBlockStmt()
		} else {
			p.consumeSemicolon()
		}
		return m
	}

	// Field declaration.
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		m.FieldType = p.parseType()
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		m.Init = p.parseExpression(ASSIGNMENT)
	}
	p.consumeSemicolon()
	return m
}

// parseInterfaceDecl parses `interface Name<T> [extends A, B] { members }`.
func (p *Parser) parseInterfaceDecl() *ast.InterfaceDecl {
	start := p.curPos()
	decl := &ast.InterfaceDecl{}
	p.expectPeek(lexer.IDENT)
	decl.Name = p.curToken.Literal
	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		decl.TypeParams = p.parseTypeParamList()
	}
	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		p.nextToken()
		decl.Extends = append(decl.Extends, p.parseType())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			decl.Extends = append(decl.Extends, p.parseType())
		}
	}
	p.expectPeek(lexer.LBRACE)
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) || p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		decl.Members = append(decl.Members, p.parseInterfaceMember())
		p.nextToken()
	}
	decl.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return decl
}

func (p *Parser) parseInterfaceMember() *ast.InterfaceMember {
	m := &ast.InterfaceMember{}
	if p.curIsKeyword("readonly") {
		m.Readonly = true
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
			m.NumberIndex = valType
		} else {
			m.StringIndex = valType
		}
		p.consumeSemicolon()
		return m
	}

	m.Name = p.curToken.Literal
	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		m.Optional = true
	}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		m.Params = p.parseParamList()
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			m.ReturnType = p.parseType()
		}
		p.consumeSemicolon()
		return m
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		m.FieldType = p.parseType()
	}
	p.consumeSemicolon()
	return m
}

// parseTypeAliasDecl parses `type Name<T> = Type`; p.curToken is on the
// "type" identifier on entry.
func (p *Parser) parseTypeAliasDecl() *ast.TypeAliasDecl {
	start := p.curPos()
	decl := &ast.TypeAliasDecl{}
	p.nextToken() // name
	decl.Name = p.curToken.Literal
	if p.peekTokenIs(lexer.LT) {
		p.nextToken()
		decl.TypeParams = p.parseTypeParamList()
	}
	p.expectPeek(lexer.ASSIGN)
	p.nextToken()
	decl.Value = p.parseType()
	decl.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return decl
}

// parseEnumDecl parses `[const] enum Name { A[= init], ... }`; p.curToken is
// on ENUM on entry (isConst having already been consumed by the caller).
func (p *Parser) parseEnumDecl(isConst bool) *ast.EnumDecl {
	start := p.curPos()
	decl := &ast.EnumDecl{IsConst: isConst}
	p.expectPeek(lexer.IDENT)
	decl.Name = p.curToken.Literal
	p.expectPeek(lexer.LBRACE)
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		member := &ast.EnumMember{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			member.Init = p.parseExpression(ASSIGNMENT)
		}
		decl.Members = append(decl.Members, member)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE)
	decl.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return decl
}

// parseNamespaceDecl parses `namespace A[.B.C] { stmts }`; p.curToken is on
// the "namespace"/"module" identifier on entry. A dotted name desugars into
// nested NamespaceDecls, one per segment.
func (p *Parser) parseNamespaceDecl() *ast.NamespaceDecl {
	start := p.curPos()
	p.nextToken() // first segment
	names := []string{p.curToken.Literal}
	for p.peekTokenIs(lexer.DOT) {
		p.nextToken()
		p.nextToken()
		names = append(names, p.curToken.Literal)
	}
	p.expectPeek(lexer.LBRACE)
	p.nextToken()
	var body []ast.Stmt
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
		p.nextToken()
	}
	body = mergeOverloads(body)

	end := p.curPos()
	inner := &ast.NamespaceDecl{base: ast.Base(ast.Span{Start: start, End: end}), Name: names[len(names)-1], Body: body}
	for i := len(names) - 2; i >= 0; i-- {
		inner = &ast.NamespaceDecl{base: ast.Base(ast.Span{Start: start, End: end}), Name: names[i], Body: []ast.Stmt{inner}}
	}
	return inner
}

// parseImportDecl parses every import form: default, named, namespace,
// combinations thereof, and side-effect-only imports.
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.curPos()
	decl := &ast.ImportDecl{}
	p.nextToken() // past 'import'

	if p.curTokenIs(lexer.STRING) {
		decl.ModulePath = p.curToken.Literal
		decl.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
		p.consumeSemicolon()
		return decl
	}

	if p.curTokenIs(lexer.STAR) {
		p.expectAsKeyword()
		p.expectPeek(lexer.IDENT)
		decl.Namespace = p.curToken.Literal
	} else if p.curTokenIs(lexer.LBRACE) {
		decl.Specifiers = p.parseImportSpecifiers()
	} else if p.curTokenIs(lexer.IDENT) {
		decl.Default = p.curToken.Literal
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			if p.curTokenIs(lexer.STAR) {
				p.expectAsKeyword()
				p.expectPeek(lexer.IDENT)
				decl.Namespace = p.curToken.Literal
			} else if p.curTokenIs(lexer.LBRACE) {
				decl.Specifiers = p.parseImportSpecifiers()
			}
		}
	}

	if p.peekTokenIs(lexer.FROM) {
		p.nextToken()
		p.nextToken()
		decl.ModulePath = p.curToken.Literal
	} else {
		p.reportExpected(lexer.STRING, "add 'from \"module\"' to complete the import")
	}
	decl.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	p.consumeSemicolon()
	return decl
}

// expectAsKeyword advances onto a required contextual "as", reporting an
// error if the upcoming token isn't it ("as" is lexed as plain IDENT, never
// a dedicated token type, so this can't use expectPeek).
func (p *Parser) expectAsKeyword() bool {
	if p.peekIsKeyword("as") {
		p.nextToken()
		return true
	}
	p.report(errUnexpectedToken, "expected 'as' in namespace import", "add 'as <name>' after '*'")
	return false
}

// parseImportSpecifiers parses `{ a, b as c }`; p.curToken is LBRACE on
// entry and the matching RBRACE on return.
func (p *Parser) parseImportSpecifiers() []ast.ImportSpecifier {
	var specs []ast.ImportSpecifier
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		spec := ast.ImportSpecifier{Imported: p.curToken.Literal, Local: p.curToken.Literal}
		if p.peekIsKeyword("as") {
			p.nextToken()
			p.nextToken()
			spec.Local = p.curToken.Literal
		}
		specs = append(specs, spec)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE)
	return specs
}

// parseExportDecl parses `export <decl>`, `export default <expr|decl>`, and
// `export { a, b as c } [from "m"]`. p.curToken is EXPORT on entry.
func (p *Parser) parseExportDecl() ast.Stmt {
	start := p.curPos()

	if p.peekTokenIs(lexer.DEFAULT) {
		p.nextToken()
		p.nextToken()
		ed := &ast.ExportDecl{Default: true}
		switch p.curToken.Type {
		case lexer.FUNCTION:
			ed.Decl = p.parseFuncDecl(false)
		case lexer.ASYNC:
			p.nextToken()
			ed.Decl = p.parseFuncDecl(true)
		case lexer.CLASS:
			ed.Decl = p.parseClassDecl(false)
		case lexer.ABSTRACT:
			ed.Decl = p.parseClassDecl(false)
		default:
			expr := p.parseExpression(ASSIGNMENT)
			ed.Decl = &ast.ExprStmt{X: expr}
			p.consumeSemicolon()
		}
		ed.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
		return ed
	}

	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		ed := &ast.ExportDecl{Specifiers: p.parseImportSpecifiers()}
		if p.peekTokenIs(lexer.FROM) {
			p.nextToken()
			p.nextToken()
			ed.FromModule = p.curToken.Literal
		}
		ed.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
		p.consumeSemicolon()
		return ed
	}

	p.nextToken()
	ed := &ast.ExportDecl{}
	switch {
	case p.curTokenIs(lexer.FUNCTION):
		ed.Decl = p.parseFuncDecl(false)
	case p.curTokenIs(lexer.ASYNC):
		p.nextToken()
		ed.Decl = p.parseFuncDecl(true)
	case p.curTokenIs(lexer.CLASS):
		ed.Decl = p.parseClassDecl(true)
	case p.curTokenIs(lexer.ABSTRACT):
		ed.Decl = p.parseClassDecl(true)
	case p.curTokenIs(lexer.INTERFACE):
		ed.Decl = p.parseInterfaceDecl()
	case p.curTokenIs(lexer.ENUM):
		ed.Decl = p.parseEnumDecl(false)
	case p.curTokenIs(lexer.VAR), p.curTokenIs(lexer.LET), p.curTokenIs(lexer.CONST):
		ed.Decl = p.parseVarDecl()
	case p.curIsKeyword("type"):
		ed.Decl = p.parseTypeAliasDecl()
	case p.curIsKeyword("namespace"), p.curIsKeyword("module"):
		ed.Decl = p.parseNamespaceDecl()
	default:
		p.report(errInvalidClassDecl, "expected a declaration after 'export'", "export a function, class, interface, type, enum, or variable declaration")
	}
	ed.base = ast.Base(ast.Span{Start: start, End: p.curPos()})
	return ed
}
