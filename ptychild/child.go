//go:build unix

// Package ptychild owns the PTY master/child-process pair: opening a
// master/slave PTY, forking a child attached to the slave with local echo
// disabled, and deterministic teardown (graceful signal, bounded wait, hard
// kill).
package ptychild

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const pollInterval = 100 * time.Millisecond

// WaitStatus mirrors the outcome of a (possibly non-blocking) wait on the
// child. Alive is set when WNOHANG observed the process still running.
type WaitStatus struct {
	Alive    bool
	Exited   bool
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

func (w WaitStatus) String() string {
	switch {
	case w.Alive:
		return "still alive"
	case w.Signaled:
		return fmt.Sprintf("signal: %s", w.Signal)
	case w.Exited:
		return fmt.Sprintf("exited with code %d", w.Code)
	default:
		return "unknown"
	}
}

// Child owns a PTY master file descriptor and the pid of a process attached
// to its slave end, placed in its own session.
type Child struct {
	master *os.File
	cmd    *exec.Cmd
	pid    int

	mu          sync.Mutex
	killTimeout time.Duration
	reaped      bool
	last        WaitStatus
}

// Spawn opens a PTY pair, execs program/args attached to the slave with
// local echo disabled, and returns the live Child. The parent's copy of the
// slave fd is closed once the child has inherited it, so the master
// observes EOF when the child's side of the pty closes.
func Spawn(program string, args []string, dir string, env []string) (*Child, error) {
	master, slave, err := openPTY()
	if err != nil {
		return nil, fmt.Errorf("ptychild: open pty: %w", err)
	}

	if err := disableEcho(slave); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("ptychild: disable echo: %w", err)
	}

	cmd := exec.Command(program, args...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}

	if err := cmd.Start(); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("ptychild: exec %s: %w", program, err)
	}

	slave.Close()

	c := &Child{
		master: master,
		cmd:    cmd,
		pid:    cmd.Process.Pid,
	}
	log.Printf("ptychild: spawned %q (pid %d)", cmd.String(), c.pid)
	return c, nil
}

// PID returns the child's process id.
func (c *Child) PID() int { return c.pid }

// Master returns the PTY master file. Both reader and writer sides of a
// session hold independent duplicates from FileHandle, not this one.
func (c *Child) Master() *os.File { return c.master }

// FileHandle duplicates the master fd and wraps it as an owned file, so
// callers (a reader, a writer, a test) can each hold an independent handle
// that closes without affecting the others or the Child's own lifecycle
// tracking.
func (c *Child) FileHandle() (*os.File, error) {
	fd, err := unix.Dup(int(c.master.Fd()))
	if err != nil {
		return nil, fmt.Errorf("ptychild: dup master: %w", err)
	}
	return os.NewFile(uintptr(fd), c.master.Name()), nil
}

// SetKillTimeout bounds how long Kill waits after the initial signal before
// escalating to SIGKILL. Zero (the default) means no escalation deadline.
func (c *Child) SetKillTimeout(d time.Duration) {
	c.mu.Lock()
	c.killTimeout = d
	c.mu.Unlock()
}

// Status performs a non-blocking wait (WNOHANG). The second return value is
// false if the wait itself errored, e.g. because the child was already
// reaped by someone else.
func (c *Child) Status() (WaitStatus, bool) {
	c.mu.Lock()
	if c.reaped {
		st := c.last
		c.mu.Unlock()
		return st, true
	}
	c.mu.Unlock()

	var ws syscall.WaitStatus
	pid, err := syscall.Wait4(c.pid, &ws, syscall.WNOHANG, nil)
	if err != nil {
		return WaitStatus{}, false
	}
	if pid == 0 {
		return WaitStatus{Alive: true}, true
	}

	st := waitStatusFrom(ws)
	c.mu.Lock()
	c.reaped = true
	c.last = st
	c.mu.Unlock()
	return st, true
}

// Wait blocks until the child exits.
func (c *Child) Wait() WaitStatus {
	c.mu.Lock()
	if c.reaped {
		st := c.last
		c.mu.Unlock()
		return st
	}
	c.mu.Unlock()

	var ws syscall.WaitStatus
	var st WaitStatus
	if _, err := syscall.Wait4(c.pid, &ws, 0, nil); err != nil {
		st = WaitStatus{Exited: true, Code: -1}
	} else {
		st = waitStatusFrom(ws)
	}

	c.mu.Lock()
	c.reaped = true
	c.last = st
	c.mu.Unlock()
	return st
}

// Signal sends sig to the child without waiting on it.
func (c *Child) Signal(sig syscall.Signal) error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Signal(sig)
}

// Kill sends sig, then polls Status every 100ms until the child exits,
// escalating to SIGKILL once the configured kill-timeout elapses. If the
// process has already disappeared, a synthetic Exited(0) status is
// returned rather than an error.
func (c *Child) Kill(sig syscall.Signal) WaitStatus {
	if err := c.Signal(sig); err != nil {
		if errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone) {
			return WaitStatus{Exited: true, Code: 0}
		}
	}

	c.mu.Lock()
	deadline := c.killTimeout
	c.mu.Unlock()

	start := time.Now()
	escalated := deadline <= 0
	for {
		st, ok := c.Status()
		if !ok {
			return WaitStatus{Exited: true, Code: 0}
		}
		if !st.Alive {
			return st
		}
		if !escalated && time.Since(start) > deadline {
			log.Printf("ptychild: pid %d did not exit after %s, escalating to SIGKILL", c.pid, deadline)
			c.Signal(syscall.SIGKILL)
			escalated = true
		}
		time.Sleep(pollInterval)
	}
}

// Exit sends SIGTERM and waits for the child to die, per Kill's policy.
func (c *Child) Exit() WaitStatus {
	return c.Kill(syscall.SIGTERM)
}

// Close tears the child down if it is still alive, then closes the master
// fd. Closing the master is sufficient to tear down the slave side; any
// reader still pumping from a duplicated handle observes EOF on its own
// next read, independent of this Close.
func (c *Child) Close() error {
	if st, ok := c.Status(); !ok || st.Alive {
		c.Exit()
	}
	return c.master.Close()
}

func waitStatusFrom(ws syscall.WaitStatus) WaitStatus {
	switch {
	case ws.Exited():
		return WaitStatus{Exited: true, Code: ws.ExitStatus()}
	case ws.Signaled():
		return WaitStatus{Signaled: true, Signal: ws.Signal()}
	default:
		return WaitStatus{Alive: true}
	}
}
