// Package builtins registers the global JS/TS runtime surface — console,
// Math, JSON, the Error class hierarchy, Array/Object/Number statics,
// Promise, Map/Set, Date, and RegExp — against an internal/interp
// Interpreter's global scope. The split-by-concern registration style (one
// register*Builtins function per file, called from a single entry point)
// follows CWBudde-go-dws/internal/bytecode's
// vm_builtins.go/vm_builtins_*.go layout.
package builtins

import "github.com/sharpts/sharpts/internal/interp"

// Register installs every builtin global into i's top-level scope. Callers
// (cmd/sharpts, internal/repl) call this once per Interpreter before
// running any source.
func Register(i *interp.Interpreter) {
	g := i.Global()
	registerConsole(i, g)
	registerMath(g)
	registerJSON(i, g)
	registerErrors(g)
	registerGlobals(i, g)
	registerPromise(g)
	registerCollections(g)
	registerDate(g)
	registerRegExp(g)
}
