// Package parser turns a lexer.Lexer's token stream into an internal/ast
// tree: a recursive-descent parser for statements/declarations composed with
// a Pratt (precedence-climbing) parser for expressions, following the
// teacher's structure.
package parser

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Operator precedence levels, loosest to tightest. The type-annotation
// grammar's own precedence table mirrors this shape one-for-one;
// expressions follow the standard JS/TS table.
const (
	LOWEST int = iota
	COMMA
	ASSIGNMENT
	CONDITIONAL // ?:
	NULLISH_COALESCE
	LOGICAL_OR
	LOGICAL_AND
	BITWISE_OR
	BITWISE_XOR
	BITWISE_AND
	EQUALITY   // == != === !==
	RELATIONAL // < > <= >= instanceof in
	SHIFT      // << >> >>>
	ADDITIVE   // + -
	MULTIPLICATIVE
	EXPONENT // ** (right-assoc)
	UNARY    // ! ~ + - typeof void delete await prefix ++/--
	POSTFIX  // x++ x--
	CALL     // f(x) a[i] a.b new
)

var precedences = map[lexer.TokenType]int{
	lexer.COMMA:          COMMA,
	lexer.ASSIGN:         ASSIGNMENT,
	lexer.PLUS_ASSIGN:    ASSIGNMENT,
	lexer.MINUS_ASSIGN:   ASSIGNMENT,
	lexer.STAR_ASSIGN:    ASSIGNMENT,
	lexer.SLASH_ASSIGN:   ASSIGNMENT,
	lexer.PERCENT_ASSIGN: ASSIGNMENT,
	lexer.STARSTAR_ASSIGN: ASSIGNMENT,
	lexer.AND_ASSIGN:      ASSIGNMENT,
	lexer.OR_ASSIGN:       ASSIGNMENT,
	lexer.XOR_ASSIGN:      ASSIGNMENT,
	lexer.SHL_ASSIGN:      ASSIGNMENT,
	lexer.SHR_ASSIGN:      ASSIGNMENT,
	lexer.USHR_ASSIGN:     ASSIGNMENT,
	lexer.LOGAND_ASSIGN:   ASSIGNMENT,
	lexer.LOGOR_ASSIGN:    ASSIGNMENT,
	lexer.NULLISH_ASSIGN:  ASSIGNMENT,
	lexer.QUESTION:        CONDITIONAL,
	lexer.NULLISH:         NULLISH_COALESCE,
	lexer.LOGOR:           LOGICAL_OR,
	lexer.LOGAND:          LOGICAL_AND,
	lexer.PIPE:            BITWISE_OR,
	lexer.CARET:           BITWISE_XOR,
	lexer.AMP:             BITWISE_AND,
	lexer.EQ:              EQUALITY,
	lexer.NEQ:             EQUALITY,
	lexer.SEQ:              EQUALITY,
	lexer.SNEQ:             EQUALITY,
	lexer.LT:               RELATIONAL,
	lexer.GT:               RELATIONAL,
	lexer.LTE:              RELATIONAL,
	lexer.GTE:              RELATIONAL,
	lexer.INSTANCEOF:       RELATIONAL,
	lexer.IN:               RELATIONAL,
	lexer.SHL:              SHIFT,
	lexer.SHR:              SHIFT,
	lexer.USHR:             SHIFT,
	lexer.PLUS:             ADDITIVE,
	lexer.MINUS:            ADDITIVE,
	lexer.STAR:             MULTIPLICATIVE,
	lexer.SLASH:            MULTIPLICATIVE,
	lexer.PERCENT:          MULTIPLICATIVE,
	lexer.STARSTAR:         EXPONENT,
	lexer.LPAREN:           CALL,
	lexer.DOT:              CALL,
	lexer.QUESTION_DOT:     CALL,
	lexer.LBRACKET:         CALL,
	lexer.INC:              POSTFIX,
	lexer.DEC:              POSTFIX,
}

// Parser builds an internal/ast tree from a token stream.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []error

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	file string

	// inType disables statement-position ambiguities (e.g. `<` never starts
	// a JSX-like construct here, SharpTS has no JSX) — reserved for future
	// context flags; currently always false.
	noIn bool
}

// New creates a Parser over l. filename is used for reconstructing Pos
// values independent of the lexer's token positions.
func New(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{l: l, errors: []error{}, file: filename}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerExprPrefixFns()

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerExprInfixFns()

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t lexer.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool  { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column, File: p.curToken.File}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// consumeSemicolon consumes an optional trailing `;` — SharpTS does not
// implement automatic-semicolon-insertion edge cases beyond "a `;` is
// optional before `}` or EOF"; a full ASI state machine is out of scope.
func (p *Parser) consumeSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// Parse parses a complete source file into an *ast.File.
func (p *Parser) Parse() (file *ast.File) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", r)
			p.errors = append(p.errors, newParseError(errPanic, p.curPos(), p.curToken,
				"internal parser error: "+msg, nil, "this is an internal parser error"))
			if file == nil {
				file = &ast.File{Statements: []ast.Stmt{}}
			}
		}
	}()

	file = &ast.File{base: ast.Base(ast.Span{Start: p.curPos()}), Path: p.file}

	for !p.curTokenIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			file.Statements = append(file.Statements, stmt)
		}
		p.nextToken()
	}

	file.Statements = mergeOverloads(file.Statements)
	return file
}
