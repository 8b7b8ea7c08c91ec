package builtins

import "fmt"

const helpText = `gsh built-in commands

  cd [dir]           Change directory (- for previous, ~ for home)
  pwd                Print working directory
  echo [-n] [args]   Print text
  export [VAR=VAL]   Set or show environment variables
  set -e / +e        Toggle exit-on-error
  unset VAR          Remove environment variable
  alias [k=v]        Set or show aliases
  unalias NAME       Remove alias
  history            Show command history
  source FILE        Execute commands from a file
  clear / cls        Clear the screen
  which CMD          Show how a command resolves
  functions          Show user-defined functions
  pushd [dir]        Push directory onto stack and cd
  popd               Pop directory stack and cd back
  dirs               Show directory stack
  test / [ EXPR ]    Evaluate a conditional expression
  sleep SECS         Pause for a number of seconds
  help               Show this help
  exit / quit [N]    Exit the shell

  Job control:
    jobs             List background jobs
    fg [%id]         Bring job to foreground
    bg [%id]         Resume stopped job in background
    kill [%id|pid]   Terminate a job or process
    cmd &            Run in background

  Scripting:
    if / for / while / function
    echo $((2 + 2))    arithmetic
    $VAR  ${VAR}  $?   variable expansion
    *.go  ?  [abc]     glob patterns

  Operators:
    |  pipe   &&  and   ||  or   ;  sequence   &  background
    >  stdout   >>  append   <  stdin   2>  stderr   2>&1
`

// Help prints the builtin catalog.
func Help(p *Proc) int {
	fmt.Fprint(p.Stdout, helpText)
	return 0
}

func init() {
	register("help", Help)
}
