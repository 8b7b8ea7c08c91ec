package builtins

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Cd changes the session working directory. "cd -" returns to the
// previous directory, "cd" and "cd ~" go home. The change is recorded
// in the session only; child processes pick it up via their Dir at
// spawn time.
func Cd(p *Proc) int {
	var target string
	switch {
	case len(p.Args) < 2 || p.Args[1] == "~":
		target = p.State.Home()
	case p.Args[1] == "-":
		target = p.State.PrevDir()
		if target == "" {
			fmt.Fprintln(p.Stderr, "cd: no previous directory")
			return 1
		}
	default:
		target = p.Args[1]
		if strings.HasPrefix(target, "~/") {
			target = p.State.Home() + target[1:]
		}
	}

	if !path.IsAbs(target) {
		target = path.Join(p.State.Cwd(), target)
	}
	target = path.Clean(target)

	ok, err := afero.DirExists(p.State.FS(), target)
	if err != nil || !ok {
		fmt.Fprintf(p.Stderr, "cd: %s: no such directory\n", p.Args[1])
		return 1
	}

	p.State.SetCwd(target)
	return 0
}

// Pwd prints the session working directory.
func Pwd(p *Proc) int {
	fmt.Fprintln(p.Stdout, p.State.Cwd())
	return 0
}

// Pushd pushes the current directory and changes to the argument;
// without one it swaps the current directory with the stack top.
func Pushd(p *Proc) int {
	if len(p.Args) > 1 {
		p.State.PushDir(p.State.Cwd())
		if code := Cd(p); code != 0 {
			p.State.PopDir()
			return code
		}
		printDirStack(p)
		return 0
	}

	top, ok := p.State.PopDir()
	if !ok {
		fmt.Fprintln(p.Stderr, "pushd: directory stack empty")
		return 1
	}
	p.State.PushDir(p.State.Cwd())
	if code := cdTo(p, top); code != 0 {
		p.State.PopDir()
		return code
	}
	printDirStack(p)
	return 0
}

// Popd pops the directory stack and changes back to it.
func Popd(p *Proc) int {
	dir, ok := p.State.PopDir()
	if !ok {
		fmt.Fprintln(p.Stderr, "popd: directory stack empty")
		return 1
	}
	if code := cdTo(p, dir); code != 0 {
		return code
	}
	printDirStack(p)
	return 0
}

// Dirs prints the working directory followed by the stack, top first,
// with $HOME collapsed to "~".
func Dirs(p *Proc) int {
	printDirStack(p)
	return 0
}

func cdTo(p *Proc, dir string) int {
	sub := *p
	sub.Args = []string{"cd", dir}
	return Cd(&sub)
}

func printDirStack(p *Proc) {
	home := p.State.Home()
	fmt.Fprint(p.Stdout, collapseHome(p.State.Cwd(), home))
	stack := p.State.Dirs()
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Fprint(p.Stdout, "  ", collapseHome(stack[i], home))
	}
	fmt.Fprintln(p.Stdout)
}

func collapseHome(dir, home string) string {
	if home != "/" && strings.HasPrefix(dir, home) {
		return "~" + dir[len(home):]
	}
	return dir
}

func init() {
	register("cd", Cd)
	register("pwd", Pwd)
	register("pushd", Pushd)
	register("popd", Popd)
	register("dirs", Dirs)
}
