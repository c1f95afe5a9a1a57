// Package ioreader implements the non-blocking byte reader that sits
// between a PTY master (or any io.Reader, for tests) and the needle
// matching engine: a detached goroutine pumps bytes into a channel, and
// the consumer drains that channel into a growable buffer on demand.
package ioreader

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"syscall"
	"time"

	"github.com/nick/pexpect/needle"
)

const initialBufCap = 1024

const pollInterval = 100 * time.Millisecond

type itemKind int

const (
	itemByte itemKind = iota
	itemEOF
	itemIOError
)

type item struct {
	kind itemKind
	b    byte
	err  error
}

// Reader drains a byte source on a detached goroutine and exposes a
// pattern-driven, timeout-bounded read interface over the accumulated
// buffer.
type Reader struct {
	ch      chan item
	buf     []byte
	eof     bool
	timeout time.Duration
}

// New spawns the background pump over src and returns a Reader. A zero
// timeout means read_until blocks until a needle matches or EOF.
func New(src io.Reader, timeout time.Duration) *Reader {
	r := &Reader{
		ch:      make(chan item, 256),
		buf:     make([]byte, 0, initialBufCap),
		timeout: timeout,
	}
	go pump(bufio.NewReader(src), r.ch)
	return r
}

// SetTimeout changes the per-read_until timeout applied to subsequent calls.
func (r *Reader) SetTimeout(d time.Duration) { r.timeout = d }

func pump(br *bufio.Reader, ch chan<- item) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				trySend(ch, item{kind: itemEOF})
			} else {
				trySend(ch, item{kind: itemIOError, err: err})
			}
			return
		}
		if !trySend(ch, item{kind: itemByte, b: b}) {
			return
		}
	}
}

// trySend delivers an item onto the channel, blocking while the channel's
// buffer is full. It always reports success: the pump stops only at end
// of stream or after a read error, and a consumer that stops draining
// leaves the pump blocked here rather than ending it.
func trySend(ch chan<- item, it item) bool {
	ch <- it
	return true
}

// drain empties the channel into the buffer without blocking further
// than the items already queued.
func (r *Reader) drain() {
	for {
		select {
		case it, ok := <-r.ch:
			if !ok {
				return
			}
			switch it.kind {
			case itemByte:
				r.buf = append(r.buf, it.b)
			case itemEOF:
				r.eof = true
			case itemIOError:
				if errors.Is(it.err, io.ErrClosedPipe) || errors.Is(it.err, syscall.EIO) {
					// A PTY master with no attached slave reads back EIO on
					// Linux/Darwin; that is this platform's rendering of
					// "no output stream left", so it latches EOF exactly
					// like a clean end-of-file would (spec.md 4.B).
					r.eof = true
				}
				// other IOErrors are discarded per spec.md 4.B
			}
		default:
			return
		}
	}
}

// TryRead drains the channel once (without blocking), then pops and
// returns the first buffered byte, if any.
func (r *Reader) TryRead() (byte, bool) {
	r.drain()
	if len(r.buf) == 0 {
		return 0, false
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, true
}

// EOFSeen reports whether the sticky EOF flag has been observed.
func (r *Reader) EOFSeen() bool { return r.eof }

// Error kinds surfaced by ReadUntil, mirroring the taxonomy in spec.md 4.F.
var (
	// ErrTimeout is wrapped with timeout/expected/got context; use errors.As
	// with *TimeoutErr to recover them.
	ErrTimeout = errors.New("timeout waiting for pattern")
	// ErrEOF is wrapped with expected/got context; use errors.As with *EOFErr.
	ErrEOF = errors.New("end of file")
)

// TimeoutErr reports a read_until call that exceeded its deadline.
type TimeoutErr struct {
	Expected string
	Got      string
	Timeout  time.Duration
}

func (e *TimeoutErr) Error() string {
	return "timeout (" + e.Timeout.String() + ") waiting for " + e.Expected + ", got " + e.Got
}

func (e *TimeoutErr) Unwrap() error { return ErrTimeout }

// EOFErr reports a read_until call where the stream ended before the
// needle matched.
type EOFErr struct {
	Expected string
	Got      string
}

func (e *EOFErr) Error() string {
	return "EOF while waiting for " + e.Expected + ", got " + e.Got
}

func (e *EOFErr) Unwrap() error { return ErrEOF }

// ReadUntil repeatedly drains the channel into the buffer and asks n to
// locate a match, returning the unmatched prefix and the matched region
// on success. On failure it returns a *TimeoutErr or *EOFErr.
func (r *Reader) ReadUntil(n needle.Needle) (before, matched []byte, err error) {
	start := time.Now()
	for {
		r.drain()
		if m, ok := n.Find(r.buf, r.eof); ok {
			before = append([]byte(nil), r.buf[:m.Begin]...)
			matched = append([]byte(nil), r.buf[m.Begin:m.End]...)
			r.buf = r.buf[m.End:]
			return before, matched, nil
		}
		if r.eof {
			return nil, nil, &EOFErr{Expected: n.Display(), Got: string(r.buf)}
		}
		if r.timeout > 0 && time.Since(start) > r.timeout {
			return nil, nil, &TimeoutErr{
				Expected: n.Display(),
				Got:      sanitize(string(r.buf)),
				Timeout:  r.timeout,
			}
		}
		time.Sleep(pollInterval)
	}
}

// sanitize replaces control characters that would make a single-line
// error message hard to read with printable placeholders.
func sanitize(s string) string {
	replacer := strings.NewReplacer(
		"\n", "`\\n`",
		"\r", "`\\r`",
		"\x1b", "`ESC`",
	)
	return replacer.Replace(s)
}
