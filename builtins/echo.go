package builtins

import (
	"fmt"
	"strings"
)

var echoUnescape = strings.NewReplacer(
	`\n`, "\n", // newline
	`\t`, "\t", // horizontal tab
	`\r`, "\r", // carriage return
)

// Echo prints its arguments joined by spaces. Escape sequences are
// always interpreted; -n suppresses the trailing newline.
func Echo(p *Proc) int {
	args := p.Args[1:]
	noNewline := false
	if len(args) > 0 && args[0] == "-n" {
		noNewline = true
		args = args[1:]
	}

	fmt.Fprint(p.Stdout, echoUnescape.Replace(strings.Join(args, " ")))
	if !noNewline {
		fmt.Fprintln(p.Stdout)
	}
	return 0
}

func init() {
	register("echo", Echo)
}
