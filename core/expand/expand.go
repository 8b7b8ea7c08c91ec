// Package expand performs the expansion passes that turn parsed words
// into final argv values: $((...)) arithmetic, $VAR / ${VAR} / $?
// variables, and glob patterns.
//
// Expansion order is arithmetic first (its expression may reference
// variables, which are expanded within it), then variables, then globs
// on the resulting word. Glob expansion may splice multiple arguments
// into the list.
package expand

import (
	"io"

	"github.com/gshell/gsh/core/state"
)

// Expander resolves expansions against a session. Diagnostics for
// recoverable problems (bad arithmetic) go to Errw; expansion itself
// never fails the command.
type Expander struct {
	State *state.State
	Errw  io.Writer
}

func New(st *state.State, errw io.Writer) *Expander {
	return &Expander{State: st, Errw: errw}
}

// ExpandWord runs arithmetic and variable expansion on a single word.
// Globs are left alone; use ExpandArgs when pattern matching applies.
func (e *Expander) ExpandWord(s string) string {
	return e.expandVars(e.expandArithmetic(s))
}

// ExpandArgs expands every argument and splices glob matches in place,
// preserving order.
func (e *Expander) ExpandArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		out = append(out, e.ExpandGlob(e.ExpandWord(arg))...)
	}
	return out
}
