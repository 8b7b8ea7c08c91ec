package parser

import "fmt"

// SyntaxError reports malformed input. The offending line is never
// executed; the shell prints the error and returns to the prompt.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}
