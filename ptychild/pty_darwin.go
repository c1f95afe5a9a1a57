//go:build darwin

package ptychild

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	ioctlReadTermios  = unix.TIOCGETA
	ioctlWriteTermios = unix.TIOCSETA
)

// openPTY opens /dev/ptmx and grants/unlocks/resolves the slave via the BSD
// ioctls. TIOCPTYGNAME writes the slave's path into a caller-supplied
// buffer, the reentrant alternative to ptsname() called out in spec.md 4.A
// -- no process-wide lock is needed here either.
func openPTY() (master, slave *os.File, err error) {
	m, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open /dev/ptmx: %w", err)
	}

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, m.Fd(), uintptr(unix.TIOCPTYGRANT), 0); errno != 0 {
		m.Close()
		return nil, nil, fmt.Errorf("grantpt: %w", errno)
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, m.Fd(), uintptr(unix.TIOCPTYUNLK), 0); errno != 0 {
		m.Close()
		return nil, nil, fmt.Errorf("unlockpt: %w", errno)
	}

	var buf [1024]byte
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, m.Fd(), uintptr(unix.TIOCPTYGNAME), uintptr(unsafe.Pointer(&buf[0]))); errno != 0 {
		m.Close()
		return nil, nil, fmt.Errorf("ptsname: %w", errno)
	}

	slaveName := unix.ByteSliceToString(buf[:])
	s, err := os.OpenFile(slaveName, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("open slave %s: %w", slaveName, err)
	}

	return m, s, nil
}
