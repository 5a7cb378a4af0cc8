package diagnostics

// Phase names, used both as Report.Phase and as a prefix for log lines.
const (
	PhaseLexer  = "lexer"
	PhaseParser = "parser"
	PhaseChecker = "checker"
	PhaseInterp  = "interp"
	PhaseIR      = "ir"
	PhaseEmitter = "emitter"
	PhaseRuntime = "runtime"
)

// Lexer errors (LEX###).
const (
	LEX001 = "LEX001" // malformed numeric separator
	LEX002 = "LEX002" // unterminated string literal
	LEX003 = "LEX003" // unterminated template literal
	LEX004 = "LEX004" // unterminated regex literal
	LEX005 = "LEX005" // invalid escape sequence
	LEX006 = "LEX006" // unexpected character
)

// Parser errors (PAR###) — the same codes internal/parser already emits.
const (
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing delimiter
	PAR003 = "PAR003" // invalid function declaration
	PAR004 = "PAR004" // invalid import
	PAR005 = "PAR005" // invalid class declaration
	PAR006 = "PAR006" // invalid type annotation
	PAR007 = "PAR007" // invalid destructuring pattern
	PAR008 = "PAR008" // no prefix parse function
	PAR009 = "PAR009" // numeric separator syntax error
)

// Checker errors (TYP###).
const (
	TYP001 = "TYP001" // assignment incompatibility
	TYP002 = "TYP002" // missing property
	TYP003 = "TYP003" // abstract member not implemented
	TYP004 = "TYP004" // override with no base member
	TYP005 = "TYP005" // wrong arity
	TYP006 = "TYP006" // unresolved identifier
	TYP007 = "TYP007" // generic constraint unsatisfied
	TYP008 = "TYP008" // reverse mapping on string enum
	TYP009 = "TYP009" // indexing an unindexable type
	TYP010 = "TYP010" // duplicate declaration
	TYP011 = "TYP011" // variance violation
	TYP012 = "TYP012" // no matching overload
	TYP013 = "TYP013" // interface not satisfied
	TYP014 = "TYP014" // const enum initializer not constant
)

// Runtime errors (RUN###), raised by both the interpreter and the emitted
// program's runtime shim so the two surfaces share one taxonomy.
const (
	RUN001 = "RUN001" // index beyond tuple max length
	RUN002 = "RUN002" // instanceof on non-callable
	RUN003 = "RUN003" // write to frozen object in strict mode
	RUN004 = "RUN004" // calling a non-callable
	RUN005 = "RUN005" // iterating a non-iterable
	RUN006 = "RUN006" // Symbol coercion to number
	RUN007 = "RUN007" // bigint/number mixing
	RUN008 = "RUN008" // private member brand check failure
	RUN009 = "RUN009" // stack overflow
)

// Emitter errors (EMT###).
const (
	EMT001 = "EMT001" // emitter invariant violation
	EMT002 = "EMT002" // unsupported construct on the backend
)
