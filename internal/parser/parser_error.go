package parser

import (
	"fmt"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/lexer"
)

// ParseError is a structured parser error with a fix suggestion, rendered by
// internal/diagnostics the same way checker and emitter errors are.
type ParseError struct {
	Code       string
	Message    string
	Pos        ast.Pos
	NearToken  lexer.Token
	Expected   []lexer.TokenType
	Fix        string
	Confidence float64
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s:%d:%d: %s", e.Code, e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
}

func newParseError(code string, pos ast.Pos, tok lexer.Token, message string, expected []lexer.TokenType, fix string) *ParseError {
	return &ParseError{Code: code, Message: message, Pos: pos, NearToken: tok, Expected: expected, Fix: fix, Confidence: 0.85}
}

// Parse error codes, grouped under the PAR phase prefix.
const (
	errUnexpectedToken  = "PAR001"
	errMissingDelimiter = "PAR002"
	errInvalidFuncDecl  = "PAR003"
	errInvalidImport    = "PAR004"
	errInvalidClassDecl = "PAR005"
	errInvalidTypeAnnot = "PAR006"
	errInvalidPattern   = "PAR007"
	errNoPrefixParseFn  = "PAR008"
	errSeparatorSyntax  = "PAR009"
	errPanic            = "PAR999"
)

func (p *Parser) report(code, message, fix string) {
	p.errors = append(p.errors, newParseError(code, p.curPos(), p.curToken, message, nil, fix))
}

func (p *Parser) reportExpected(expected lexer.TokenType, fix string) {
	msg := fmt.Sprintf("expected %s, got %s", expected, p.curToken.Type)
	p.errors = append(p.errors, newParseError(errUnexpectedToken, p.curPos(), p.curToken, msg, []lexer.TokenType{expected}, fix))
}

func (p *Parser) peekError(t lexer.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	pos := ast.Pos{Line: p.peekToken.Line, Column: p.peekToken.Column, File: p.peekToken.File}
	p.errors = append(p.errors, newParseError(errUnexpectedToken, pos, p.peekToken, msg, []lexer.TokenType{t}, fmt.Sprintf("add or correct the %s token", t)))
}

func (p *Parser) noPrefixParseFnError(t lexer.TokenType) {
	msg := fmt.Sprintf("unexpected token in expression: %s", t)
	fix := "this token cannot start an expression"
	if t == lexer.RBRACE || t == lexer.RPAREN || t == lexer.RBRACKET {
		fix = "check for unmatched delimiters or a missing expression"
	}
	p.errors = append(p.errors, newParseError(errNoPrefixParseFn, p.curPos(), p.curToken, msg, nil, fix))
}
