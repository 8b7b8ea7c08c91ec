package builtins

import (
	"fmt"
	"path"
	"strconv"

	"github.com/spf13/afero"
)

// Test evaluates a conditional expression: string tests (-n, -z, =,
// !=), numeric comparisons (-eq family), file tests (-f, -d, -e, -s)
// and a leading ! negation. Registered as both "test" and "[" (a
// trailing "]" is ignored).
func Test(p *Proc) int {
	args := p.Args[1:]
	if len(args) > 0 && args[len(args)-1] == "]" {
		args = args[:len(args)-1]
	}
	if len(args) == 0 {
		return 1
	}
	if args[0] == "!" {
		if evalTest(p, args[1:]) == 0 {
			return 1
		}
		return 0
	}
	return evalTest(p, args)
}

func evalTest(p *Proc, args []string) int {
	switch len(args) {
	case 1:
		return boolCode(args[0] != "")

	case 2:
		switch args[0] {
		case "-n":
			return boolCode(args[1] != "")
		case "-z":
			return boolCode(args[1] == "")
		case "-f":
			return boolCode(isFile(p, args[1]))
		case "-d":
			ok, _ := afero.DirExists(p.State.FS(), testPath(p, args[1]))
			return boolCode(ok)
		case "-e":
			ok, _ := afero.Exists(p.State.FS(), testPath(p, args[1]))
			return boolCode(ok)
		case "-s":
			info, err := p.State.FS().Stat(testPath(p, args[1]))
			return boolCode(err == nil && info.Size() > 0)
		}

	case 3:
		a, op, b := args[0], args[1], args[2]
		switch op {
		case "=", "==":
			return boolCode(a == b)
		case "!=":
			return boolCode(a != b)
		case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
			return compareNums(p, a, op, b)
		}
	}

	fmt.Fprintf(p.Stderr, "test: unsupported expression: %v\n", args)
	return 1
}

func compareNums(p *Proc, a, op, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		fmt.Fprintf(p.Stderr, "test: '%s' or '%s' is not a number\n", a, b)
		return 1
	}

	switch op {
	case "-eq":
		return boolCode(x == y)
	case "-ne":
		return boolCode(x != y)
	case "-lt":
		return boolCode(x < y)
	case "-le":
		return boolCode(x <= y)
	case "-gt":
		return boolCode(x > y)
	default: // -ge
		return boolCode(x >= y)
	}
}

func isFile(p *Proc, name string) bool {
	info, err := p.State.FS().Stat(testPath(p, name))
	return err == nil && !info.IsDir()
}

func testPath(p *Proc, name string) string {
	if path.IsAbs(name) {
		return name
	}
	return path.Join(p.State.Cwd(), name)
}

func boolCode(ok bool) int {
	if ok {
		return 0
	}
	return 1
}

func init() {
	register("test", Test)
	register("[", Test)
}
