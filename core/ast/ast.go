// Package ast defines the command tree produced by the parser and
// consumed by the interpreter.
package ast

import "strings"

// Kind discriminates the Command variants.
type Kind int

const (
	KindSimple Kind = iota
	KindPipeline
	KindAnd
	KindOr
	KindSequence
	KindIf
	KindFor
	KindWhile
	KindFuncDef
	KindFuncCall
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindPipeline:
		return "Pipeline"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindSequence:
		return "Sequence"
	case KindIf:
		return "If"
	case KindFor:
		return "For"
	case KindWhile:
		return "While"
	case KindFuncDef:
		return "FuncDef"
	case KindFuncCall:
		return "FuncCall"
	default:
		return "Unknown"
	}
}

// Command is one node of the parsed tree. Exactly one of the variant
// fields is set, selected by Kind. The tree is owned by whoever parsed
// it; nodes are never shared between trees.
type Command struct {
	Kind Kind

	Simple   *Simple
	Pipeline []*Command // each stage is KindSimple, len >= 2

	// And, Or and Sequence use Left/Right.
	Left  *Command
	Right *Command

	If       *If
	For      *For
	While    *While
	FuncDef  *FuncDef
	FuncCall *FuncCall
}

// Simple is a single invocation: argv, redirections and whether the
// command was sent to the background with a trailing '&'.
type Simple struct {
	Args       []string
	Redirects  []Redirect
	Background bool
}

// Text reconstructs a display form of the command for job listings.
func (s *Simple) Text() string {
	return strings.Join(s.Args, " ")
}

// RedirectKind enumerates the supported redirection operators.
type RedirectKind int

const (
	RedirStdout         RedirectKind = iota // > file
	RedirStdoutAppend                       // >> file
	RedirStdin                              // < file
	RedirStderr                             // 2> file
	RedirStderrToStdout                     // 2>&1
)

// Redirect is immutable once constructed. Target is empty for
// RedirStderrToStdout.
type Redirect struct {
	Kind   RedirectKind
	Target string
}

// If runs Body when Cond exits zero, otherwise Else (which may be nil).
type If struct {
	Cond *Command
	Body []*Command
	Else []*Command
}

// For binds Var to each of Items in turn and runs Body.
type For struct {
	Var   string
	Items []string
	Body  []*Command
}

// While re-evaluates Cond before every iteration of Body.
type While struct {
	Cond *Command
	Body []*Command
}

// FuncDef registers a user function. The body is kept as raw source
// lines and re-parsed on every call so that each line sees state
// changes made by the lines before it.
type FuncDef struct {
	Name string
	Body []string
}

// FuncCall invokes a user function with positional arguments.
type FuncCall struct {
	Name string
	Args []string
}
