// Package parser turns raw command lines into the ast.Command tree.
//
// The grammar, lowest binding first:
//
//	sequence := and_or (';' and_or)*
//	and_or   := pipeline (('&&' | '||') pipeline)*   // left-associative
//	pipeline := simple ('|' simple)*
//	simple   := (word | redirect)* ['&']
//	redirect := '>' word | '>>' word | '<' word | '2>' word | '2>&1'
//
// Control-flow forms (if/for/while/function) are recognized by a
// pre-pass on the raw line before tokenization because their bodies
// are themselves command text that needs recursive parsing.
package parser

import (
	"strings"

	"github.com/gshell/gsh/core/ast"
)

// Parser converts input lines into command trees. Home is substituted
// for a leading '~' during tokenization.
type Parser struct {
	Home string
}

func New(home string) *Parser {
	return &Parser{Home: home}
}

// Parse converts one input line into a command tree. It fails with a
// *SyntaxError for malformed input, including input that is empty
// after trimming and comment stripping.
func (p *Parser) Parse(input string) (*ast.Command, error) {
	input = strings.TrimSpace(input)

	if cmd, ok, err := p.parseControlFlow(input); ok {
		return cmd, err
	}

	tokens, err := Tokenize(input, p.Home)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, syntaxErrorf("empty input")
	}

	cur := &cursor{tokens: tokens}
	cmd, err := parseSequence(cur)
	if err != nil {
		return nil, err
	}
	if !cur.atEnd() {
		return nil, syntaxErrorf("unexpected token after command")
	}
	return cmd, nil
}

type cursor struct {
	tokens []Token
	pos    int
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.tokens) }

func (c *cursor) peek() (Token, bool) {
	if c.atEnd() {
		return Token{}, false
	}
	return c.tokens[c.pos], true
}

func (c *cursor) next() (Token, bool) {
	tok, ok := c.peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

func parseSequence(c *cursor) (*ast.Command, error) {
	left, err := parseAndOr(c)
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := c.peek()
		if !ok || tok.Kind != TokenSemicolon {
			return left, nil
		}
		c.next()
		if c.atEnd() {
			// Trailing semicolon is fine.
			return left, nil
		}
		right, err := parseAndOr(c)
		if err != nil {
			return nil, err
		}
		left = &ast.Command{Kind: ast.KindSequence, Left: left, Right: right}
	}
}

// parseAndOr treats '&&' and '||' at the same precedence, grouping
// left to right: "a && b || c" is "(a && b) || c".
func parseAndOr(c *cursor) (*ast.Command, error) {
	left, err := parsePipeline(c)
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := c.peek()
		if !ok {
			return left, nil
		}

		var kind ast.Kind
		switch tok.Kind {
		case TokenAnd:
			kind = ast.KindAnd
		case TokenOr:
			kind = ast.KindOr
		default:
			return left, nil
		}
		c.next()

		right, err := parsePipeline(c)
		if err != nil {
			return nil, err
		}
		left = &ast.Command{Kind: kind, Left: left, Right: right}
	}
}

func parsePipeline(c *cursor) (*ast.Command, error) {
	first, err := parseSimple(c)
	if err != nil {
		return nil, err
	}

	stages := []*ast.Command{first}
	for {
		tok, ok := c.peek()
		if !ok || tok.Kind != TokenPipe {
			break
		}
		c.next()
		stage, err := parseSimple(c)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	// A one-stage pipeline collapses to the stage itself.
	if len(stages) == 1 {
		return stages[0], nil
	}
	return &ast.Command{Kind: ast.KindPipeline, Pipeline: stages}, nil
}

func parseSimple(c *cursor) (*ast.Command, error) {
	simple := &ast.Simple{}

loop:
	for {
		tok, ok := c.peek()
		if !ok {
			break
		}

		switch tok.Kind {
		case TokenWord:
			simple.Args = append(simple.Args, tok.Text)
			c.next()

		case TokenRedirectOut, TokenRedirectAppend, TokenRedirectIn, TokenRedirectErr:
			c.next()
			target, ok := c.next()
			if !ok || target.Kind != TokenWord {
				return nil, syntaxErrorf("expected filename after %s", redirectText(tok.Kind))
			}
			simple.Redirects = append(simple.Redirects, ast.Redirect{
				Kind:   redirectKind(tok.Kind),
				Target: target.Text,
			})

		case TokenRedirectErrOut:
			c.next()
			simple.Redirects = append(simple.Redirects, ast.Redirect{Kind: ast.RedirStderrToStdout})

		case TokenAmpersand:
			c.next()
			simple.Background = true
			break loop

		default:
			break loop
		}
	}

	if len(simple.Args) == 0 {
		return nil, syntaxErrorf("expected command")
	}
	return &ast.Command{Kind: ast.KindSimple, Simple: simple}, nil
}

func redirectKind(k TokenKind) ast.RedirectKind {
	switch k {
	case TokenRedirectOut:
		return ast.RedirStdout
	case TokenRedirectAppend:
		return ast.RedirStdoutAppend
	case TokenRedirectIn:
		return ast.RedirStdin
	case TokenRedirectErr:
		return ast.RedirStderr
	default:
		return ast.RedirStderrToStdout
	}
}

func redirectText(k TokenKind) string {
	switch k {
	case TokenRedirectOut:
		return ">"
	case TokenRedirectAppend:
		return ">>"
	case TokenRedirectIn:
		return "<"
	case TokenRedirectErr:
		return "2>"
	default:
		return "2>&1"
	}
}
