package rexpect

import (
	"errors"
	"fmt"

	"github.com/nick/pexpect/ioreader"
)

// EOFError reports that the child's combined output ended before the
// requested pattern was found. Exit carries the child's wait status,
// rendered as a string, once the session has enriched it (spec.md 4.D).
type EOFError struct {
	Expected string
	Got      string
	Exit     string
}

func (e *EOFError) Error() string {
	msg := "EOF while waiting for " + e.Expected + ", got " + e.Got
	if e.Exit != "" {
		msg += " (child exited: " + e.Exit + ")"
	}
	return msg
}

// TimeoutError reports that a needle did not match within the session's
// configured timeout.
type TimeoutError struct {
	Expected string
	Got      string
}

func (e *TimeoutError) Error() string {
	return "timeout waiting for " + e.Expected + ", got " + e.Got
}

// BrokenPipeError reports that the write side of the session can no
// longer accept bytes, typically because the child died mid-write.
type BrokenPipeError struct{ Cause error }

func (e *BrokenPipeError) Error() string { return "broken pipe: " + e.Cause.Error() }
func (e *BrokenPipeError) Unwrap() error { return e.Cause }

// ErrEmptyProgramName is returned by Spawn when given an empty command line.
var ErrEmptyProgramName = errors.New("empty program name")

// UnknownControlCharError reports an unsupported character passed to
// SendControl.
type UnknownControlCharError struct{ Char rune }

func (e *UnknownControlCharError) Error() string {
	return fmt.Sprintf("unknown control character %q", e.Char)
}

// RegexError wraps an invalid pattern passed to an exp_regex-style call.
type RegexError struct {
	Pattern string
	Cause   error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Cause)
}
func (e *RegexError) Unwrap() error { return e.Cause }

// IOError wraps a low-level I/O failure with the operation it occurred
// during.
type IOError struct {
	Context string
	Cause   error
}

func (e *IOError) Error() string { return e.Context + ": " + e.Cause.Error() }
func (e *IOError) Unwrap() error { return e.Cause }

// PtyError wraps a low-level PTY-layer failure with the operation it
// occurred during.
type PtyError struct {
	Context string
	Cause   error
}

func (e *PtyError) Error() string { return e.Context + ": " + e.Cause.Error() }
func (e *PtyError) Unwrap() error { return e.Cause }

// wrapReaderErr translates an ioreader error into the session-facing
// error kinds, enriching EOF with the supplied exit status string.
func wrapReaderErr(err error, exitStatus string) error {
	switch e := err.(type) {
	case *ioreader.EOFErr:
		return &EOFError{Expected: e.Expected, Got: e.Got, Exit: exitStatus}
	case *ioreader.TimeoutErr:
		return &TimeoutError{Expected: e.Expected, Got: e.Got}
	default:
		return err
	}
}
