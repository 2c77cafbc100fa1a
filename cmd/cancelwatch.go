//go:build !windows

package cmd

import (
	"os"

	"golang.org/x/term"

	"github.com/scoutcli/scout/pkg/cancel"
)

// watchEscape puts stdin into raw mode for the duration of one user
// turn and sets flag the moment it sees an ESC byte (27), matching
// SPEC_FULL.md §5's note that the escape-key listener lives in the CLI
// harness and talks to the core only through the shared cancellation
// flag. It returns a stop function that restores the terminal; callers
// must invoke it once the turn completes, win or lose.
//
// Grounded on the teacher's pkg/console/input.go raw-mode read loop
// (term.MakeRaw, a deferred term.Restore, reading raw bytes off
// os.Stdin), narrowed to the single control character this listener
// cares about.
func watchEscape(flag *cancel.Flag) (stop func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		for {
			select {
			case <-done:
				return
			default:
			}
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n > 0 && buf[0] == 27 {
				flag.Set()
			}
		}
	}()

	return func() {
		close(done)
		_ = term.Restore(fd, oldState)
	}
}
