package expand

import (
	"os"
	"strconv"
	"strings"
)

// expandVars replaces $VAR, ${VAR} and $? references. Unset variables
// expand to the empty string; a '$' not followed by a variable form
// passes through unchanged. Positional parameters ($1..$9) resolve
// through the same overlay, where function calls bind them.
func (e *Expander) expandVars(s string) string {
	var out strings.Builder

	for i := 0; i < len(s); {
		if s[i] != '$' {
			out.WriteByte(s[i])
			i++
			continue
		}
		i++
		if i >= len(s) {
			out.WriteByte('$')
			break
		}

		switch {
		case s[i] == '{':
			j := i + 1
			for j < len(s) && s[j] != '}' {
				j++
			}
			out.WriteString(e.lookup(s[i+1 : j]))
			if j < len(s) {
				j++ // closing brace
			}
			i = j

		case s[i] == '?':
			out.WriteString(strconv.Itoa(e.State.LastExit()))
			i++

		case isVarByte(s[i]):
			j := i
			for j < len(s) && isVarByte(s[j]) {
				j++
			}
			out.WriteString(e.lookup(s[i:j]))
			i = j

		default:
			out.WriteByte('$')
		}
	}

	return out.String()
}

// lookup reads the session overlay first, then the process
// environment. The overlay is seeded from the process at startup, so
// the fallback only matters for variables exported to the shell
// process after that snapshot was taken.
func (e *Expander) lookup(name string) string {
	if val, ok := e.State.LookupEnv(name); ok {
		return val
	}
	return os.Getenv(name)
}

func isVarByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
