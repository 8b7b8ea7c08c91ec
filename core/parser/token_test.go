package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(texts ...string) []Token {
	var out []Token
	for _, t := range texts {
		out = append(out, Token{Kind: TokenWord, Text: t})
	}
	return out
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "simple words",
			input: "echo hello world",
			want:  words("echo", "hello", "world"),
		},
		{
			name:  "single quotes preserve spaces",
			input: "echo 'hello world'",
			want:  words("echo", "hello world"),
		},
		{
			name:  "double quotes with escape",
			input: `echo "say \"hi\""`,
			want:  words("echo", `say "hi"`),
		},
		{
			name:  "single quotes keep dollar literal",
			input: "echo '$HOME'",
			want:  words("echo", "$HOME"),
		},
		{
			name:  "pipe",
			input: "ls | wc",
			want: []Token{
				{Kind: TokenWord, Text: "ls"},
				{Kind: TokenPipe},
				{Kind: TokenWord, Text: "wc"},
			},
		},
		{
			name:  "and or are greedy",
			input: "a && b || c",
			want: []Token{
				{Kind: TokenWord, Text: "a"},
				{Kind: TokenAnd},
				{Kind: TokenWord, Text: "b"},
				{Kind: TokenOr},
				{Kind: TokenWord, Text: "c"},
			},
		},
		{
			name:  "background ampersand",
			input: "sleep 5 &",
			want: []Token{
				{Kind: TokenWord, Text: "sleep"},
				{Kind: TokenWord, Text: "5"},
				{Kind: TokenAmpersand},
			},
		},
		{
			name:  "redirects",
			input: "cmd > out >> log < in",
			want: []Token{
				{Kind: TokenWord, Text: "cmd"},
				{Kind: TokenRedirectOut},
				{Kind: TokenWord, Text: "out"},
				{Kind: TokenRedirectAppend},
				{Kind: TokenWord, Text: "log"},
				{Kind: TokenRedirectIn},
				{Kind: TokenWord, Text: "in"},
			},
		},
		{
			name:  "stderr redirect",
			input: "cmd 2> err",
			want: []Token{
				{Kind: TokenWord, Text: "cmd"},
				{Kind: TokenRedirectErr},
				{Kind: TokenWord, Text: "err"},
			},
		},
		{
			name:  "stderr to stdout",
			input: "cmd 2>&1",
			want: []Token{
				{Kind: TokenWord, Text: "cmd"},
				{Kind: TokenRedirectErrOut},
			},
		},
		{
			name:  "2 inside a word is not a redirect",
			input: "file2> out",
			want: []Token{
				{Kind: TokenWord, Text: "file2"},
				{Kind: TokenRedirectOut},
				{Kind: TokenWord, Text: "out"},
			},
		},
		{
			name:  "comment ends the line",
			input: "echo hi # trailing words",
			want:  words("echo", "hi"),
		},
		{
			name:  "comment only",
			input: "# nothing here",
			want:  nil,
		},
		{
			name:  "backslash escapes space",
			input: `echo hello\ world`,
			want:  words("echo", "hello world"),
		},
		{
			name:  "unterminated single quote consumes rest",
			input: "echo 'oops",
			want:  words("echo", "oops"),
		},
		{
			name:  "adjacent quoted and bare text",
			input: `echo "a"b`,
			want:  words("echo", "a", "b"),
		},
		{
			name:  "semicolon separates",
			input: "a; b",
			want: []Token{
				{Kind: TokenWord, Text: "a"},
				{Kind: TokenSemicolon},
				{Kind: TokenWord, Text: "b"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.input, "")
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeTilde(t *testing.T) {
	got, err := Tokenize("ls ~/docs", "/home/amy")
	require.NoError(t, err)
	assert.Equal(t, words("ls", "/home/amy/docs"), got)

	// Quoted tilde stays literal.
	got, err = Tokenize("echo '~/docs'", "/home/amy")
	require.NoError(t, err)
	assert.Equal(t, words("echo", "~/docs"), got)

	// Escaped tilde stays literal.
	got, err = Tokenize(`echo \~/docs`, "/home/amy")
	require.NoError(t, err)
	assert.Equal(t, words("echo", "~/docs"), got)
}

func TestTokenizeDanglingEscape(t *testing.T) {
	_, err := Tokenize(`echo broken\`, "")
	require.Error(t, err)
	assert.IsType(t, &SyntaxError{}, err)
}
