package main

import (
	"os"

	"github.com/gshell/gsh/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
