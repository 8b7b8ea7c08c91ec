package shell

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// trapInterrupts keeps the shell alive across SIGINT. The terminal
// delivers Ctrl-C to the whole foreground process group: the child
// dies and its wait status surfaces as 130, while the shell absorbs
// the signal and returns to prompting. Ctrl-C at an empty prompt is
// separate; readline runs the terminal in raw mode and reports it as
// ErrInterrupt. The returned stop function restores the default
// disposition.
func trapInterrupts() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGINT)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				// Absorbed; the foreground child reacts to it.
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
