package interp

import (
	"fmt"

	"github.com/anmitsu/go-shlex"

	"github.com/gshell/gsh/builtins"
	"github.com/gshell/gsh/core/ast"
)

// runSimple expands a simple command's arguments and dispatches it:
// alias splice, then user function, then builtin, then external.
// Background execution only applies to externals.
func (e *Executor) runSimple(s *ast.Simple) int {
	args := e.Expand.ExpandArgs(s.Args)
	if len(args) == 0 {
		return 0
	}

	args = e.spliceAlias(args)

	if fn, ok := e.State.Function(args[0]); ok {
		return e.callFunction(fn, args[1:])
	}

	if fn, ok := builtins.Lookup(args[0]); ok {
		return e.runBuiltin(fn, args, s.Redirects)
	}

	return e.runExternal(args, s.Redirects, s.Background)
}

// spliceAlias replaces the command word with its alias expansion.
// An alias whose first word is the command itself is left alone, so
// alias ls='ls --color' does not recurse.
func (e *Executor) spliceAlias(args []string) []string {
	value, ok := e.State.Alias(args[0])
	if !ok {
		return args
	}
	words, err := shlex.Split(value, true)
	if err != nil || len(words) == 0 || words[0] == args[0] {
		return args
	}
	return append(words, args[1:]...)
}

// runBuiltin wires any redirects into the builtin's stream sinks and
// invokes it in-process.
func (e *Executor) runBuiltin(fn builtins.Func, args []string, redirects []ast.Redirect) int {
	streams, err := e.applyRedirects(redirects, e.Stdin, e.Stdout, e.Stderr)
	if err != nil {
		fmt.Fprintf(e.Stderr, "gsh: %v\n", err)
		return 1
	}
	defer streams.Close()

	return fn(e.builtinProc(args, streams.stdin, streams.stdout, streams.stderr))
}
