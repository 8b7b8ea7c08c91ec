package builtins

import (
	"fmt"
	"strconv"
	"time"
)

// Exit asks the main loop to terminate. An explicit code argument
// wins; otherwise the shell exits with the last command's code.
func Exit(p *Proc) int {
	code := p.State.LastExit()
	if len(p.Args) > 1 {
		n, err := strconv.Atoi(p.Args[1])
		if err != nil {
			fmt.Fprintf(p.Stderr, "exit: %s: numeric argument required\n", p.Args[1])
			n = 2
		}
		code = n
	}
	p.State.RequestExit(code)
	return code
}

// True exits 0.
func True(p *Proc) int { return 0 }

// False exits 1.
func False(p *Proc) int { return 1 }

// Clear clears the screen and homes the cursor.
func Clear(p *Proc) int {
	fmt.Fprint(p.Stdout, "\x1b[2J\x1b[H")
	return 0
}

// Sleep pauses for a fractional number of seconds.
func Sleep(p *Proc) int {
	if len(p.Args) < 2 {
		fmt.Fprintln(p.Stderr, "usage: sleep <seconds>")
		return 1
	}
	secs, err := strconv.ParseFloat(p.Args[1], 64)
	if err != nil || secs < 0 {
		fmt.Fprintf(p.Stderr, "sleep: invalid time: %s\n", p.Args[1])
		return 1
	}
	time.Sleep(time.Duration(secs * float64(time.Second)))
	return 0
}

func init() {
	register("exit", Exit)
	register("quit", Exit)
	register("true", True)
	register("false", False)
	register("clear", Clear)
	register("cls", Clear)
	register("sleep", Sleep)
}
