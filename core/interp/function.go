package interp

import (
	"strconv"
	"strings"

	"github.com/gshell/gsh/core/state"
)

// maxPositional is how many positional parameters a function call
// binds: $1 through $9.
const maxPositional = 9

// callFunction binds the call arguments to $1..$9, evaluates the body
// line by line and restores the previous positional values. The
// function's exit code is its last evaluated line's.
func (e *Executor) callFunction(fn *state.Function, args []string) int {
	type slot struct {
		value string
		set   bool
	}
	var saved [maxPositional]slot
	for i := range saved {
		v, ok := e.State.LookupEnv(strconv.Itoa(i + 1))
		saved[i] = slot{v, ok}
	}
	for i, arg := range args {
		if i >= maxPositional {
			break
		}
		e.State.Setenv(strconv.Itoa(i+1), arg)
	}

	last := 0
	for _, line := range fn.Body {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		last = e.EvalLine(line)
		if _, requested := e.State.ExitRequested(); requested {
			break
		}
	}

	for i, s := range saved {
		name := strconv.Itoa(i + 1)
		if s.set {
			e.State.Setenv(name, s.value)
		} else {
			e.State.Unsetenv(name)
		}
	}
	return last
}
