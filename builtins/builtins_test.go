package builtins_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gshell/gsh/builtins"
	"github.com/gshell/gsh/builtins/builtintest"
	"github.com/gshell/gsh/core/state"
)

func TestCd(t *testing.T) {
	cmd := builtintest.Command(builtins.Cd, "cd", "/tmp/work")
	require.NoError(t, cmd.State.FS().MkdirAll("/tmp/work", 0o755))

	out, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "/tmp/work", cmd.State.Cwd())
}

func TestCdMissingDirectory(t *testing.T) {
	cmd := builtintest.Command(builtins.Cd, "cd", "/nope")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "no such directory")
}

func TestCdDash(t *testing.T) {
	cmd := builtintest.Command(builtins.Cd, "cd", "-")
	require.NoError(t, cmd.State.FS().MkdirAll("/a", 0o755))
	require.NoError(t, cmd.State.FS().MkdirAll("/b", 0o755))
	cmd.State.SetCwd("/a")
	cmd.State.SetCwd("/b")

	_, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, "/a", cmd.State.Cwd())
}

func TestCdDashWithoutPrevious(t *testing.T) {
	cmd := builtintest.Command(builtins.Cd, "cd", "-")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "no previous directory")
}

func TestCdRelative(t *testing.T) {
	cmd := builtintest.Command(builtins.Cd, "cd", "sub")
	require.NoError(t, cmd.State.FS().MkdirAll("/work/sub", 0o755))
	cmd.State.SetCwd("/work")

	_, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, "/work/sub", cmd.State.Cwd())
}

func TestPwd(t *testing.T) {
	cmd := builtintest.Command(builtins.Pwd, "pwd")
	cmd.State.SetCwd("/somewhere")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, "/somewhere\n", out)
}

func TestEcho(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"joins args", []string{"hello", "world"}, "hello world\n"},
		{"-n suppresses newline", []string{"-n", "hi"}, "hi"},
		{"escapes", []string{`a\tb\nc`}, "a\tb\nc\n"},
		{"empty", nil, "\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := builtintest.Command(builtins.Echo, "echo", tc.args...)
			out, code := cmd.CombinedOutput()
			assert.Equal(t, 0, code)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestExport(t *testing.T) {
	cmd := builtintest.Command(builtins.Export, "export", "FOO=bar")
	_, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, "bar", cmd.State.Getenv("FOO"))
}

func TestExportQuotedValue(t *testing.T) {
	cmd := builtintest.Command(builtins.Export, "export", `GREETING="hello there"`)
	cmd.Run()
	assert.Equal(t, "hello there", cmd.State.Getenv("GREETING"))
}

func TestExportBareListsEnvironment(t *testing.T) {
	cmd := builtintest.Command(builtins.Export, "export")
	cmd.State.Setenv("ONE", "1")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ONE=1\n")
}

func TestSetExitOnError(t *testing.T) {
	cmd := builtintest.Command(builtins.Export, "set", "-e")
	cmd.Run()
	assert.True(t, cmd.State.ExitOnError())

	cmd2 := builtintest.Command(builtins.Export, "set", "+e")
	cmd2.State = cmd.State
	cmd2.Run()
	assert.False(t, cmd.State.ExitOnError())
}

func TestUnset(t *testing.T) {
	cmd := builtintest.Command(builtins.Unset, "unset", "FOO")
	cmd.State.Setenv("FOO", "bar")
	cmd.Run()
	_, ok := cmd.State.LookupEnv("FOO")
	assert.False(t, ok)
}

func TestAliasDefineAndShow(t *testing.T) {
	cmd := builtintest.Command(builtins.Alias, "alias", "ll=ls", "-la")
	_, code := cmd.CombinedOutput()
	require.Equal(t, 0, code)

	value, ok := cmd.State.Alias("ll")
	require.True(t, ok, "split alias definition is rejoined")
	assert.Equal(t, "ls -la", value)

	show := builtintest.Command(builtins.Alias, "alias")
	show.State = cmd.State
	out, _ := show.CombinedOutput()
	assert.Equal(t, "alias ll='ls -la'\n", out)
}

func TestAliasUnknownName(t *testing.T) {
	cmd := builtintest.Command(builtins.Alias, "alias", "missing")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "alias: missing: not found")
}

func TestUnalias(t *testing.T) {
	cmd := builtintest.Command(builtins.Unalias, "unalias", "ll")
	cmd.State.SetAlias("ll", "ls -la")
	cmd.Run()
	_, ok := cmd.State.Alias("ll")
	assert.False(t, ok)
}

func TestHistory(t *testing.T) {
	cmd := builtintest.Command(builtins.History, "history")
	cmd.State.AddHistory("echo one")
	cmd.State.AddHistory("echo two")

	out, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, "   1  echo one\n   2  echo two\n", out)
}

func TestSource(t *testing.T) {
	cmd := builtintest.Command(builtins.Source, "source", "setup.gsh")
	cmd.State.SetCwd("/work")
	script := "# comment\n\nexport A=1\nexport B=2\n"
	require.NoError(t, afero.WriteFile(cmd.State.FS(), "/work/setup.gsh", []byte(script), 0o644))

	var lines []string
	cmd.Eval = func(line string) int {
		lines = append(lines, line)
		return 0
	}

	_, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"export A=1", "export B=2"}, lines,
		"comments and blank lines are skipped")
}

func TestSourceMissingFile(t *testing.T) {
	cmd := builtintest.Command(builtins.Source, "source", "nope.gsh")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "nope.gsh")
}

func TestWhich(t *testing.T) {
	cmd := builtintest.Command(builtins.Which, "which", "cd", "deploy", "ls", "missing")
	cmd.State.DefineFunction(&state.Function{Name: "deploy", Body: []string{"echo hi"}})
	cmd.LookPath = func(name string) (string, bool) {
		if name == "ls" {
			return "/bin/ls", true
		}
		return "", false
	}

	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code, "any unresolved name fails the builtin")
	assert.Contains(t, out, "cd: shell builtin\n")
	assert.Contains(t, out, "deploy: shell function\n")
	assert.Contains(t, out, "/bin/ls\n")
	assert.Contains(t, out, "missing: not found\n")
}

func TestFunctions(t *testing.T) {
	cmd := builtintest.Command(builtins.Functions, "functions")
	cmd.State.DefineFunction(&state.Function{Name: "greet", Body: []string{"echo hi"}})
	out, _ := cmd.CombinedOutput()
	assert.Equal(t, "function greet() {\n  echo hi\n}\n", out)

	empty := builtintest.Command(builtins.Functions, "functions")
	out, _ = empty.CombinedOutput()
	assert.Equal(t, "No functions defined.\n", out)
}

func TestExit(t *testing.T) {
	cmd := builtintest.Command(builtins.Exit, "exit", "3")
	assert.Equal(t, 3, cmd.Run())
	code, requested := cmd.State.ExitRequested()
	require.True(t, requested)
	assert.Equal(t, 3, code)
}

func TestExitDefaultsToLastCode(t *testing.T) {
	cmd := builtintest.Command(builtins.Exit, "exit")
	cmd.State.SetLastExit(7)
	assert.Equal(t, 7, cmd.Run())
}

func TestTrueFalse(t *testing.T) {
	assert.Equal(t, 0, builtintest.Command(builtins.True, "true").Run())
	assert.Equal(t, 1, builtintest.Command(builtins.False, "false").Run())
}

func TestPushdPopd(t *testing.T) {
	pushd := builtintest.Command(builtins.Pushd, "pushd", "/b")
	require.NoError(t, pushd.State.FS().MkdirAll("/a", 0o755))
	require.NoError(t, pushd.State.FS().MkdirAll("/b", 0o755))
	pushd.State.SetCwd("/a")

	out, code := pushd.CombinedOutput()
	require.Equal(t, 0, code)
	assert.Equal(t, "/b", pushd.State.Cwd())
	assert.Contains(t, out, "/b  /a")

	popd := builtintest.Command(builtins.Popd, "popd")
	popd.State = pushd.State
	_, code = popd.CombinedOutput()
	require.Equal(t, 0, code)
	assert.Equal(t, "/a", popd.State.Cwd())
}

func TestPopdEmptyStack(t *testing.T) {
	cmd := builtintest.Command(builtins.Popd, "popd")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "directory stack empty")
}

func TestDirsCollapsesHome(t *testing.T) {
	cmd := builtintest.Command(builtins.Dirs, "dirs")
	cmd.State.Setenv("HOME", "/home/amy")
	cmd.State.SetCwd("/home/amy/src")
	out, _ := cmd.CombinedOutput()
	assert.Equal(t, "~/src\n", out)
}

func TestTest(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want int
	}{
		{"nonempty string", []string{"hello"}, 0},
		{"empty string", []string{""}, 1},
		{"-n nonempty", []string{"-n", "x"}, 0},
		{"-n empty", []string{"-n", ""}, 1},
		{"-z empty", []string{"-z", ""}, 0},
		{"-z nonempty", []string{"-z", "x"}, 1},
		{"string equal", []string{"a", "=", "a"}, 0},
		{"string not equal", []string{"a", "!=", "b"}, 0},
		{"double equals", []string{"a", "==", "a"}, 0},
		{"numeric eq", []string{"3", "-eq", "3"}, 0},
		{"numeric lt", []string{"2", "-lt", "3"}, 0},
		{"numeric ge fails", []string{"2", "-ge", "3"}, 1},
		{"negation", []string{"!", "-z", "x"}, 0},
		{"no args", nil, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := builtintest.Command(builtins.Test, "test", tc.args...)
			assert.Equal(t, tc.want, cmd.Run())
		})
	}
}

func TestTestBracketForm(t *testing.T) {
	cmd := builtintest.Command(builtins.Test, "[", "a", "=", "a", "]")
	assert.Equal(t, 0, cmd.Run())
}

func TestTestNonNumericOperand(t *testing.T) {
	cmd := builtintest.Command(builtins.Test, "test", "abc", "-eq", "3")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "is not a number")
}

func TestTestFileChecks(t *testing.T) {
	cmd := builtintest.Command(builtins.Test, "test", "-f", "present.txt")
	cmd.State.SetCwd("/work")
	require.NoError(t, afero.WriteFile(cmd.State.FS(), "/work/present.txt", []byte("data"), 0o644))
	assert.Equal(t, 0, cmd.Run())

	dir := builtintest.Command(builtins.Test, "test", "-d", "/work")
	dir.State = cmd.State
	assert.Equal(t, 0, dir.Run())

	missing := builtintest.Command(builtins.Test, "test", "-e", "/absent")
	missing.State = cmd.State
	assert.Equal(t, 1, missing.Run())

	size := builtintest.Command(builtins.Test, "test", "-s", "/work/present.txt")
	size.State = cmd.State
	assert.Equal(t, 0, size.Run())
}

func TestJobsEmpty(t *testing.T) {
	cmd := builtintest.Command(builtins.Jobs, "jobs")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 0, code)
	assert.Equal(t, "No jobs\n", out)
}

func TestKillUsage(t *testing.T) {
	cmd := builtintest.Command(builtins.Kill, "kill")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "usage: kill")
}

func TestFgNoJobs(t *testing.T) {
	cmd := builtintest.Command(builtins.Fg, "fg")
	out, code := cmd.CombinedOutput()
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "fg: no such job")
}

func TestHelpGolden(t *testing.T) {
	cmd := builtintest.Command(builtins.Help, "help")
	out, code := cmd.CombinedOutput()
	require.Equal(t, 0, code)

	g := goldie.New(t)
	g.Assert(t, "help", []byte(out))
}

func TestNames(t *testing.T) {
	names := builtins.Names()
	assert.Contains(t, names, "cd")
	assert.Contains(t, names, "jobs")
	assert.True(t, builtins.IsBuiltin("echo"))
	assert.False(t, builtins.IsBuiltin("definitely-not-a-builtin"))
}
