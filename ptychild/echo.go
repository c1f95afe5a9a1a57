//go:build unix

package ptychild

import (
	"os"

	"golang.org/x/sys/unix"
)

// disableEcho clears the ECHO local flag on the pty slave so bytes the
// controller writes are not reflected back onto the same stream it reads
// (spec.md 4.A: "fetch local terminal flags and clear the local-echo bit").
// Canonical mode and signal generation are deliberately left alone so
// Ctrl-C/Ctrl-Z keep behaving like an interactive terminal.
func disableEcho(f *os.File) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	t.Lflag &^= unix.ECHO
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, t)
}
