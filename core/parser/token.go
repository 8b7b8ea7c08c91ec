package parser

import "strings"

// TokenKind enumerates the lexical classes produced by Tokenize.
type TokenKind int

const (
	TokenWord           TokenKind = iota
	TokenPipe                     // |
	TokenAnd                      // &&
	TokenOr                       // ||
	TokenSemicolon                // ;
	TokenAmpersand                // &
	TokenRedirectOut              // >
	TokenRedirectAppend           // >>
	TokenRedirectIn               // <
	TokenRedirectErr              // 2>
	TokenRedirectErrOut           // 2>&1
)

// Token is a single lexical unit. Text is only meaningful for
// TokenWord.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize splits a command line into words and operators.
//
// Single quotes delimit literal spans. Double quotes allow backslash
// escapes of the following character. Unterminated quotes consume to
// the end of the input rather than failing; the only lexical error is
// a dangling backslash with nothing after it. A '#' at the start of a
// word ends tokenization for the rest of the line. A '~' at the start
// of an unquoted word is replaced with home immediately, so later
// expansion stages always see an absolute path. Glob characters are
// left untouched here; pattern expansion happens in the expander where
// shell variable state is available.
func Tokenize(input, home string) ([]Token, error) {
	var tokens []Token
	i := 0
	n := len(input)

	for i < n {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '\'':
			i++
			start := i
			for i < n && input[i] != '\'' {
				i++
			}
			tokens = append(tokens, Token{Kind: TokenWord, Text: input[start:i]})
			if i < n {
				i++ // closing quote
			}

		case c == '"':
			i++
			var word strings.Builder
			for i < n && input[i] != '"' {
				if input[i] == '\\' {
					if i+1 >= n {
						return nil, syntaxErrorf("unterminated escape at end of input")
					}
					i++
				}
				word.WriteByte(input[i])
				i++
			}
			tokens = append(tokens, Token{Kind: TokenWord, Text: word.String()})
			if i < n {
				i++ // closing quote
			}

		case c == '|':
			if i+1 < n && input[i+1] == '|' {
				tokens = append(tokens, Token{Kind: TokenOr})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: TokenPipe})
				i++
			}

		case c == '&':
			if i+1 < n && input[i+1] == '&' {
				tokens = append(tokens, Token{Kind: TokenAnd})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: TokenAmpersand})
				i++
			}

		case c == ';':
			tokens = append(tokens, Token{Kind: TokenSemicolon})
			i++

		case c == '>':
			if i+1 < n && input[i+1] == '>' {
				tokens = append(tokens, Token{Kind: TokenRedirectAppend})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: TokenRedirectOut})
				i++
			}

		case c == '<':
			tokens = append(tokens, Token{Kind: TokenRedirectIn})
			i++

		case c == '2' && i+1 < n && input[i+1] == '>':
			// Stderr redirects are only recognized when '2' starts a
			// token; "a2>" lexes as the word "a2" followed by '>'.
			if strings.HasPrefix(input[i:], "2>&1") {
				tokens = append(tokens, Token{Kind: TokenRedirectErrOut})
				i += 4
			} else {
				tokens = append(tokens, Token{Kind: TokenRedirectErr})
				i += 2
			}

		case c == '#':
			// Comment: ignore the rest of the line.
			return tokens, nil

		default:
			// An escaped first byte suppresses tilde expansion, so \~
			// stays a literal tilde.
			escaped := c == '\\'
			word, next, err := readWord(input, i)
			if err != nil {
				return nil, err
			}
			i = next
			if !escaped && strings.HasPrefix(word, "~") && home != "" {
				word = home + word[1:]
			}
			tokens = append(tokens, Token{Kind: TokenWord, Text: word})
		}
	}

	return tokens, nil
}

// readWord consumes an unquoted word starting at i, processing
// backslash escapes. It stops at whitespace, operators and quotes.
func readWord(input string, i int) (string, int, error) {
	var word strings.Builder
	n := len(input)

	for i < n {
		c := input[i]
		if c == ' ' || c == '\t' || c == '|' || c == '&' || c == ';' ||
			c == '>' || c == '<' || c == '"' || c == '\'' {
			break
		}
		if c == '\\' {
			if i+1 >= n {
				return "", 0, syntaxErrorf("unterminated escape at end of input")
			}
			i++
			word.WriteByte(input[i])
			i++
			continue
		}
		word.WriteByte(c)
		i++
	}

	return word.String(), i, nil
}
