// Package termio decodes terminal keystrokes into the key codes the
// dispatcher understands and puts stdin into raw mode for the duration
// of the session.
package termio

import (
	"os"

	"golang.org/x/term"

	"github.com/lineshare/lineshare/internal/errs"
)

// Terminal owns stdin's raw-mode state.
type Terminal struct {
	fd   int
	orig *term.State
}

// Open switches stdin into raw mode. Callers must call Restore before
// the process exits, including on panic recovery, so a crash never
// leaves the user's shell in raw mode.
func Open() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errs.Wrap(errs.ErrBadArgs, "stdin is not a terminal")
	}

	orig, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errs.Wrap(err, "entering raw mode")
	}

	return &Terminal{fd: fd, orig: orig}, nil
}

// Restore returns stdin to its original (cooked) mode.
func (t *Terminal) Restore() error {
	if t == nil || t.orig == nil {
		return nil
	}
	return term.Restore(t.fd, t.orig)
}

// ReenterRaw switches stdin back into raw mode after a temporary
// Restore, as used by the search prompt (§4.3) to read a line-buffered
// term before resuming byte-at-a-time keystroke decoding.
func (t *Terminal) ReenterRaw() error {
	orig, err := term.MakeRaw(t.fd)
	if err != nil {
		return errs.Wrap(err, "re-entering raw mode")
	}
	t.orig = orig
	return nil
}
