package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gshell/gsh/core/ast"
)

func simple(args ...string) *ast.Command {
	return &ast.Command{Kind: ast.KindSimple, Simple: &ast.Simple{Args: args}}
}

func mustParse(t *testing.T, input string) *ast.Command {
	t.Helper()
	cmd, err := New("/home/amy").Parse(input)
	require.NoError(t, err, "input: %s", input)
	return cmd
}

func TestParseSimple(t *testing.T) {
	got := mustParse(t, "echo hello world")
	want := simple("echo", "hello", "world")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipeline(t *testing.T) {
	got := mustParse(t, "cat f | grep x | wc -l")
	want := &ast.Command{
		Kind: ast.KindPipeline,
		Pipeline: []*ast.Command{
			simple("cat", "f"),
			simple("grep", "x"),
			simple("wc", "-l"),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSingleStagePipelineCollapses(t *testing.T) {
	got := mustParse(t, "ls")
	assert.Equal(t, ast.KindSimple, got.Kind)
}

func TestParseAndOrLeftAssociative(t *testing.T) {
	// "a && b || c" groups as "(a && b) || c".
	got := mustParse(t, "a && b || c")
	want := &ast.Command{
		Kind: ast.KindOr,
		Left: &ast.Command{
			Kind:  ast.KindAnd,
			Left:  simple("a"),
			Right: simple("b"),
		},
		Right: simple("c"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePrecedence(t *testing.T) {
	// '|' binds tighter than '&&', which binds tighter than ';'.
	got := mustParse(t, "a | b && c; d")
	want := &ast.Command{
		Kind: ast.KindSequence,
		Left: &ast.Command{
			Kind: ast.KindAnd,
			Left: &ast.Command{
				Kind:     ast.KindPipeline,
				Pipeline: []*ast.Command{simple("a"), simple("b")},
			},
			Right: simple("c"),
		},
		Right: simple("d"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTrailingSemicolon(t *testing.T) {
	got := mustParse(t, "echo hi;")
	assert.Equal(t, ast.KindSimple, got.Kind)
}

func TestParseRedirects(t *testing.T) {
	got := mustParse(t, "cmd arg > out 2> err < in")
	want := &ast.Command{
		Kind: ast.KindSimple,
		Simple: &ast.Simple{
			Args: []string{"cmd", "arg"},
			Redirects: []ast.Redirect{
				{Kind: ast.RedirStdout, Target: "out"},
				{Kind: ast.RedirStderr, Target: "err"},
				{Kind: ast.RedirStdin, Target: "in"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStderrToStdout(t *testing.T) {
	got := mustParse(t, "cmd 2>&1")
	require.Equal(t, ast.KindSimple, got.Kind)
	require.Len(t, got.Simple.Redirects, 1)
	assert.Equal(t, ast.RedirStderrToStdout, got.Simple.Redirects[0].Kind)
	assert.Empty(t, got.Simple.Redirects[0].Target)
}

func TestParseBackground(t *testing.T) {
	got := mustParse(t, "sleep 10 &")
	require.Equal(t, ast.KindSimple, got.Kind)
	assert.True(t, got.Simple.Background)
	assert.Equal(t, []string{"sleep", "10"}, got.Simple.Args)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"comment only", "# hi"},
		{"missing redirect target", "echo >"},
		{"pipe without stage", "ls |"},
		{"leading pipe", "| ls"},
		{"and without right side", "a &&"},
		{"dangling escape", `echo \`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("").Parse(tc.input)
			require.Error(t, err)
			assert.IsType(t, &SyntaxError{}, err)
		})
	}
}

func TestParseIfBraceForm(t *testing.T) {
	got := mustParse(t, "if test -f x { echo yes } else { echo no }")
	want := &ast.Command{
		Kind: ast.KindIf,
		If: &ast.If{
			Cond: simple("test", "-f", "x"),
			Body: []*ast.Command{simple("echo", "yes")},
			Else: []*ast.Command{simple("echo", "no")},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIfKeywordForm(t *testing.T) {
	got := mustParse(t, "if test -f x; then echo yes; else echo no; fi")
	want := &ast.Command{
		Kind: ast.KindIf,
		If: &ast.If{
			Cond: simple("test", "-f", "x"),
			Body: []*ast.Command{simple("echo", "yes")},
			Else: []*ast.Command{simple("echo", "no")},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	got := mustParse(t, "if true; then echo yes; fi")
	require.Equal(t, ast.KindIf, got.Kind)
	assert.Nil(t, got.If.Else)
	require.Len(t, got.If.Body, 1)
}

func TestParseNestedIf(t *testing.T) {
	got := mustParse(t, "if a; then if b; then echo inner; fi; fi")
	require.Equal(t, ast.KindIf, got.Kind)
	require.Len(t, got.If.Body, 1)
	inner := got.If.Body[0]
	require.Equal(t, ast.KindIf, inner.Kind)
	require.Len(t, inner.If.Body, 1)
	assert.Equal(t, []string{"echo", "inner"}, inner.If.Body[0].Simple.Args)
}

func TestParseIfFollowedBySequence(t *testing.T) {
	got := mustParse(t, "if a { b }; echo done")
	require.Equal(t, ast.KindSequence, got.Kind)
	assert.Equal(t, ast.KindIf, got.Left.Kind)
	assert.Equal(t, []string{"echo", "done"}, got.Right.Simple.Args)
}

func TestParseForBraceForm(t *testing.T) {
	got := mustParse(t, "for f in a b c { echo $f }")
	want := &ast.Command{
		Kind: ast.KindFor,
		For: &ast.For{
			Var:   "f",
			Items: []string{"a", "b", "c"},
			Body:  []*ast.Command{simple("echo", "$f")},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseForKeywordForm(t *testing.T) {
	got := mustParse(t, "for f in a b; do echo $f; done")
	require.Equal(t, ast.KindFor, got.Kind)
	assert.Equal(t, "f", got.For.Var)
	assert.Equal(t, []string{"a", "b"}, got.For.Items)
	require.Len(t, got.For.Body, 1)
}

func TestParseForQuotedItems(t *testing.T) {
	got := mustParse(t, `for x in "one two" three { echo $x }`)
	require.Equal(t, ast.KindFor, got.Kind)
	assert.Equal(t, []string{"one two", "three"}, got.For.Items)
}

func TestParseForMissingIn(t *testing.T) {
	_, err := New("").Parse("for f a b { echo $f }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "for")
}

func TestParseWhileBraceForm(t *testing.T) {
	got := mustParse(t, "while test -f lock { sleep 1 }")
	require.Equal(t, ast.KindWhile, got.Kind)
	assert.Equal(t, []string{"test", "-f", "lock"}, got.While.Cond.Simple.Args)
	require.Len(t, got.While.Body, 1)
}

func TestParseWhileKeywordForm(t *testing.T) {
	got := mustParse(t, "while test -f lock; do sleep 1; done")
	require.Equal(t, ast.KindWhile, got.Kind)
	require.Len(t, got.While.Body, 1)
	assert.Equal(t, []string{"sleep", "1"}, got.While.Body[0].Simple.Args)
}

func TestParseNestedLoopInBody(t *testing.T) {
	got := mustParse(t, "if ok; then for i in 1 2; do echo $i; done; fi")
	require.Equal(t, ast.KindIf, got.Kind)
	require.Len(t, got.If.Body, 1)
	require.Equal(t, ast.KindFor, got.If.Body[0].Kind)
	assert.Equal(t, []string{"1", "2"}, got.If.Body[0].For.Items)
}

func TestParseFunctionDef(t *testing.T) {
	got := mustParse(t, "greet() { echo hello; echo $1 }")
	want := &ast.Command{
		Kind: ast.KindFuncDef,
		FuncDef: &ast.FuncDef{
			Name: "greet",
			Body: []string{"echo hello", "echo $1"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFunctionKeywordForm(t *testing.T) {
	got := mustParse(t, "function greet { echo hi }")
	require.Equal(t, ast.KindFuncDef, got.Kind)
	assert.Equal(t, "greet", got.FuncDef.Name)
	assert.Equal(t, []string{"echo hi"}, got.FuncDef.Body)
}

func TestParseFunctionStart(t *testing.T) {
	name, ok := ParseFunctionStart("deploy() {")
	require.True(t, ok)
	assert.Equal(t, "deploy", name)

	name, ok = ParseFunctionStart("function deploy() {")
	require.True(t, ok)
	assert.Equal(t, "deploy", name)

	_, ok = ParseFunctionStart("echo ()")
	assert.False(t, ok, "missing open brace")

	_, ok = ParseFunctionStart("not-a-name() {")
	assert.False(t, ok, "hyphen is not an identifier rune")
}

func TestParseIfBadCondition(t *testing.T) {
	_, err := New("").Parse("if ; then echo x; fi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition")
}

func TestParseIfMissingFi(t *testing.T) {
	_, err := New("").Parse("if a; then echo x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fi")
}
