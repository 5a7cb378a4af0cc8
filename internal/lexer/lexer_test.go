package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `let x = 5 + 10;
function add(a: number, b: number): number {
  return a + b;
}

if (x > 10) {
  console.log("big");
} else {
  console.log("small");
}

const arr: number[] = [1, 2, 3];
const obj = { name: "Alice", age: 30 };

// line comment
true && false || !true;
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "5"},
		{PLUS, "+"},
		{NUMBER, "10"},
		{SEMICOLON, ";"},

		{FUNCTION, "function"},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "a"},
		{COLON, ":"},
		{IDENT, "number"},
		{COMMA, ","},
		{IDENT, "b"},
		{COLON, ":"},
		{IDENT, "number"},
		{RPAREN, ")"},
		{COLON, ":"},
		{IDENT, "number"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "a"},
		{PLUS, "+"},
		{IDENT, "b"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},

		{IF, "if"},
		{LPAREN, "("},
		{IDENT, "x"},
		{GT, ">"},
		{NUMBER, "10"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{IDENT, "console"},
		{DOT, "."},
		{IDENT, "log"},
		{LPAREN, "("},
		{STRING, "big"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{LBRACE, "{"},
		{IDENT, "console"},
		{DOT, "."},
		{IDENT, "log"},
		{LPAREN, "("},
		{STRING, "small"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},

		{CONST, "const"},
		{IDENT, "arr"},
		{COLON, ":"},
		{IDENT, "number"},
		{LBRACKET, "["},
		{RBRACKET, "]"},
		{ASSIGN, "="},
		{LBRACKET, "["},
		{NUMBER, "1"},
		{COMMA, ","},
		{NUMBER, "2"},
		{COMMA, ","},
		{NUMBER, "3"},
		{RBRACKET, "]"},
		{SEMICOLON, ";"},

		{CONST, "const"},
		{IDENT, "obj"},
		{ASSIGN, "="},
		{LBRACE, "{"},
		{IDENT, "name"},
		{COLON, ":"},
		{STRING, "Alice"},
		{COMMA, ","},
		{IDENT, "age"},
		{COLON, ":"},
		{NUMBER, "30"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},

		{TRUE, "true"},
		{LOGAND, "&&"},
		{FALSE, "false"},
		{LOGOR, "||"},
		{BANG, "!"},
		{TRUE, "true"},
		{SEMICOLON, ";"},

		{EOF, ""},
	}

	l := New(input, "test.ts")

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumericLiteralForms(t *testing.T) {
	tests := []struct {
		input        string
		expectedType TokenType
	}{
		{"3.14", NUMBER},
		{"2.0", NUMBER},
		{"1e10", NUMBER},
		{"1.5e-3", NUMBER},
		{"0xFF", NUMBER},
		{"0b101", NUMBER},
		{"0o17", NUMBER},
		{"1_000_000", NUMBER},
		{"123n", BIGINT},
		{"1_0n", BIGINT},
		{"1__0", ILLEGAL},
		{"1_", ILLEGAL},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.ts")
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expectedType, tok.Type)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"hello\nworld" "tab\there" "quote\"inside\""`

	l := New(input, "test.ts")

	tok1 := l.NextToken()
	if tok1.Type != STRING || tok1.Literal != "hello\nworld" {
		t.Fatalf("tok1: expected STRING %q, got %s %q", "hello\nworld", tok1.Type, tok1.Literal)
	}

	tok2 := l.NextToken()
	if tok2.Type != STRING || tok2.Literal != "tab\there" {
		t.Fatalf("tok2: expected STRING %q, got %s %q", "tab\there", tok2.Type, tok2.Literal)
	}

	tok3 := l.NextToken()
	if tok3.Type != STRING || tok3.Literal != `quote"inside"` {
		t.Fatalf("tok3: expected STRING %q, got %s %q", `quote"inside"`, tok3.Type, tok3.Literal)
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * ** / % == != === !== < > <= >= && || ?? ! -> => | & ^ ~ << >> >>> ++ -- ... . ? ?. : ; , @`

	tests := []TokenType{
		PLUS, MINUS, STAR, STARSTAR, SLASH, PERCENT,
		EQ, NEQ, SEQ, SNEQ, LT, GT, LTE, GTE,
		LOGAND, LOGOR, NULLISH, BANG,
		MINUS, GT, ARROW, // "->" has no TS meaning: lexes as MINUS then GT; "=>" is ARROW
		PIPE, AMP, CARET, TILDE,
		SHL, SHR, USHR,
		INC, DEC, ELLIPSIS, DOT, QUESTION, QUESTION_DOT,
		COLON, SEMICOLON, COMMA, AT,
		EOF,
	}

	l := New(input, "test.ts")

	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (%q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestGreaterThanGreedyEmission(t *testing.T) {
	// The lexer greedily emits >> and >>> as single tokens; splitting them
	// back into individual `>` for nested generic closes is the parser's job.
	l := New("Array<Array<number>>", "test.ts")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	found := false
	for _, ty := range types {
		if ty == SHR {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a greedily-lexed SHR token in %v", types)
	}
}

func TestRegexVsDivisionDisambiguation(t *testing.T) {
	// After an identifier (an expression-ending token), `/` is division.
	l := New("a / b", "test.ts")
	l.NextToken() // a
	tok := l.NextToken()
	if tok.Type != SLASH {
		t.Fatalf("expected SLASH after identifier, got %s", tok.Type)
	}

	// After `(`, `/` starts a regex literal.
	l2 := New("(/abc/)", "test.ts")
	tok2 := l2.NextToken()
	if tok2.Type != LPAREN {
		t.Fatalf("expected LPAREN, got %s", tok2.Type)
	}
	tok3 := l2.NextToken()
	if tok3.Type != REGEX {
		t.Fatalf("expected REGEX after '(', got %s (%q)", tok3.Type, tok3.Literal)
	}
}

func TestKeywords(t *testing.T) {
	keywords := []string{
		"function", "var", "let", "const", "if", "else", "for", "while", "do",
		"return", "break", "continue", "throw", "try", "catch", "finally",
		"switch", "case", "default", "new", "delete", "typeof", "void",
		"instanceof", "in", "this", "super", "class", "extends", "implements",
		"interface", "enum", "import", "export", "from", "async", "await",
		"yield", "static", "public", "private", "protected", "abstract",
		"null", "undefined", "true", "false",
	}

	for _, kw := range keywords {
		l := New(kw, "test.ts")
		tok := l.NextToken()

		expectedType := LookupIdent(kw)
		if tok.Type != expectedType {
			t.Errorf("keyword %q: expected type %s, got %s", kw, expectedType, tok.Type)
		}
		if tok.Type == IDENT {
			t.Errorf("keyword %q was parsed as IDENT", kw)
		}
	}
}

func TestContextualKeywordsLexAsIdent(t *testing.T) {
	for _, kw := range []string{"as", "is", "asserts", "infer", "keyof", "unique", "readonly", "of", "get", "set", "type", "declare"} {
		l := New(kw, "test.ts")
		tok := l.NextToken()
		if tok.Type != IDENT {
			t.Errorf("contextual keyword %q: expected IDENT, got %s", kw, tok.Type)
		}
		if !IsContextualKeyword(kw) {
			t.Errorf("expected %q to be flagged as contextual", kw)
		}
	}
}

func TestLineAndColumn(t *testing.T) {
	input := "let x = 5\nfunction add(a, b) {\n  return a + b;\n}"

	l := New(input, "test.ts")

	tok := l.NextToken() // let
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("let: expected 1:1, got %d:%d", tok.Line, tok.Column)
	}

	tok = l.NextToken() // x
	if tok.Line != 1 || tok.Column != 5 {
		t.Errorf("x: expected 1:5, got %d:%d", tok.Line, tok.Column)
	}

	for tok.Type != FUNCTION {
		tok = l.NextToken()
	}
	if tok.Line != 2 || tok.Column != 1 {
		t.Errorf("function: expected 2:1, got %d:%d", tok.Line, tok.Column)
	}
}

func TestComments(t *testing.T) {
	input := `// leading comment
let x = 5; // inline comment
/* block
   comment */
function f() { return x; }`

	expected := []TokenType{
		LET, IDENT, ASSIGN, NUMBER, SEMICOLON,
		FUNCTION, IDENT, LPAREN, RPAREN, LBRACE, RETURN, IDENT, SEMICOLON, RBRACE,
		EOF,
	}

	l := New(input, "test.ts")
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp {
			t.Fatalf("tests[%d]: expected %s, got %s", i, exp, tok.Type)
		}
	}
}

func TestTemplateLiteralFull(t *testing.T) {
	l := New("`hello world`", "test.ts")
	tok := l.NextToken()
	if tok.Type != TEMPLATE_FULL || tok.Literal != "hello world" {
		t.Fatalf("expected TEMPLATE_FULL %q, got %s %q", "hello world", tok.Type, tok.Literal)
	}
}

func TestTemplateLiteralHeadAndContinuation(t *testing.T) {
	// `a${ — the lexer yields TEMPLATE_HEAD up to and consuming "${"; the
	// parser then lexes the embedded expression with NextToken and calls
	// ContinueTemplate once it reaches the matching "}".
	l := New("`a${1}b`", "test.ts")
	head := l.NextToken()
	if head.Type != TEMPLATE_HEAD || head.Literal != "a" {
		t.Fatalf("expected TEMPLATE_HEAD %q, got %s %q", "a", head.Type, head.Literal)
	}
	num := l.NextToken()
	if num.Type != NUMBER || num.Literal != "1" {
		t.Fatalf("expected NUMBER 1, got %s %q", num.Type, num.Literal)
	}
	// l.ch is now '}'; ContinueTemplate itself consumes the brace.
	if l.ch != '}' {
		t.Fatalf("expected lexer positioned at '}', got %q", l.ch)
	}
	tail := l.ContinueTemplate(l.line, l.column)
	if tail.Type != TEMPLATE_TAIL || tail.Literal != "b" {
		t.Fatalf("expected TEMPLATE_TAIL %q, got %s %q", "b", tail.Type, tail.Literal)
	}
}
