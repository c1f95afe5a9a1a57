//go:build unix

package ptychild

import "github.com/creack/pty"

// SetWinsize propagates a terminal size onto the child's PTY, e.g. in
// response to SIGWINCH while a human is attached through cmd/rexpect-watch.
// Window-size propagation isn't part of the distilled send/expect contract
// spec.md describes, but is a supplemented feature (SPEC_FULL.md 13) for
// the interactive attach path.
func (c *Child) SetWinsize(rows, cols uint16) error {
	return pty.Setsize(c.master, &pty.Winsize{Rows: rows, Cols: cols})
}
