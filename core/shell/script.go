package shell

import (
	"fmt"
	"strings"

	"github.com/gshell/gsh/core/interp"
	"github.com/gshell/gsh/core/parser"
	"github.com/gshell/gsh/core/state"
)

// EvalLines feeds command text through the executor line by line,
// accumulating multi-line function bodies ("name() {" through a bare
// "}") into direct definitions. Used for rc files and script mode.
// The return value is the exit builtin's code if one ran, otherwise
// the last line's code.
func EvalLines(e *interp.Executor, data string) int {
	last := 0
	var fnName string
	var fnBody []string

	for _, raw := range strings.Split(data, "\n") {
		line := strings.TrimSpace(raw)

		if fnName != "" {
			if line == "}" {
				e.State.DefineFunction(&state.Function{Name: fnName, Body: fnBody})
				fnName = ""
				fnBody = nil
				continue
			}
			fnBody = append(fnBody, line)
			continue
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, ok := parser.ParseFunctionStart(line); ok && !strings.HasSuffix(line, "}") {
			fnName = name
			continue
		}

		last = e.EvalLine(line)
		if code, requested := e.State.ExitRequested(); requested {
			return code
		}
	}

	if fnName != "" {
		fmt.Fprintf(e.Stderr, "gsh: %s: unterminated function\n", fnName)
	}
	return last
}
