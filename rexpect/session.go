package rexpect

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/nick/pexpect/ioreader"
	"github.com/nick/pexpect/needle"
	"github.com/nick/pexpect/ptychild"
)

// StreamSession binds one non-blocking reader and one line-buffered
// writer to a single child, plus a debug name reported by Name. It is
// the Send/Exp surface described in spec.md 4.D.
type StreamSession struct {
	child  *ptychild.Child
	reader *ioreader.Reader
	writer *bufio.Writer
	wfile  interface{ Close() error }
	name   string
}

// NewStreamSession wraps an already-spawned child: it duplicates the
// child's master handle once for the reader and once for the writer so
// each side owns an independent file, per spec.md's ownership rules.
func NewStreamSession(child *ptychild.Child, name string, timeout time.Duration) (*StreamSession, error) {
	readSide, err := child.FileHandle()
	if err != nil {
		return nil, &PtyError{Context: "duplicating master for reader", Cause: err}
	}
	writeSide, err := child.FileHandle()
	if err != nil {
		readSide.Close()
		return nil, &PtyError{Context: "duplicating master for writer", Cause: err}
	}
	return &StreamSession{
		child:  child,
		reader: ioreader.New(readSide, timeout),
		writer: bufio.NewWriter(writeSide),
		wfile:  writeSide,
		name:   name,
	}, nil
}

// NewRawStreamSession wraps arbitrary byte streams rather than a PTY
// child, matching spec.md 6's spawn_stream entry point (testing /
// remote-stream use). There is no child to enrich EOF errors with or to
// terminate on Close; Close only flushes and closes the writer if it
// implements io.Closer.
func NewRawStreamSession(r io.Reader, w io.Writer, name string, timeout time.Duration) *StreamSession {
	closer, _ := w.(interface{ Close() error })
	return &StreamSession{
		reader: ioreader.New(r, timeout),
		writer: bufio.NewWriter(w),
		wfile:  closer,
		name:   name,
	}
}

// SetTimeout updates the reader's per-call timeout.
func (s *StreamSession) SetTimeout(d time.Duration) { s.reader.SetTimeout(d) }

// Name returns the session's debug name (typically the spawned command).
func (s *StreamSession) Name() string { return s.name }

// Send writes raw bytes. Bytes stay buffered until a newline is written
// or Flush is called; a str containing a newline flushes the writer.
func (s *StreamSession) Send(str string) (int, error) {
	n, err := s.writer.WriteString(str)
	if err != nil {
		return n, &BrokenPipeError{Cause: err}
	}
	if strings.Contains(str, "\n") {
		if err := s.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// SendLine writes str followed by a newline.
func (s *StreamSession) SendLine(str string) (int, error) {
	n, err := s.Send(str)
	if err != nil {
		return n, err
	}
	m, err := s.Send("\n")
	return n + m, err
}

// SendControl translates a letter or bracket character to its ASCII
// control code and writes the single resulting byte, flushing
// immediately (spec.md 4.D).
func (s *StreamSession) SendControl(c rune) error {
	b, ok := controlCode(c)
	if !ok {
		return &UnknownControlCharError{Char: c}
	}
	if _, err := s.writer.Write([]byte{b}); err != nil {
		return &BrokenPipeError{Cause: err}
	}
	return s.Flush()
}

func controlCode(c rune) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return byte(c-'a') + 1, true
	case c >= 'A' && c <= 'Z':
		return byte(c-'A') + 1, true
	case c == '[':
		return 27, true
	case c == '\\':
		return 28, true
	case c == ']':
		return 29, true
	case c == '^':
		return 30, true
	case c == '_':
		return 31, true
	default:
		return 0, false
	}
}

// Flush flushes any buffered writes to the child.
func (s *StreamSession) Flush() error {
	if err := s.writer.Flush(); err != nil {
		return &BrokenPipeError{Cause: err}
	}
	return nil
}

// exitStatusString renders the child's current wait status for EOF
// enrichment, or "" if there is no child to query (spawn_stream use).
func (s *StreamSession) exitStatusString() string {
	if s.child == nil {
		return ""
	}
	st, ok := s.child.Status()
	if !ok {
		return ""
	}
	return st.String()
}

func (s *StreamSession) readUntil(n needle.Needle) ([]byte, []byte, error) {
	before, matched, err := s.reader.ReadUntil(n)
	if err != nil {
		return nil, nil, wrapReaderErr(err, s.exitStatusString())
	}
	return before, matched, nil
}

// ExpEOF waits for the stream to end and returns the trailing buffer.
func (s *StreamSession) ExpEOF() (string, error) {
	_, matched, err := s.readUntil(needle.EOF{})
	if err != nil {
		return "", err
	}
	return string(matched), nil
}

// ExpString waits for the literal s and returns everything that
// preceded it; s itself is consumed but not returned.
func (s *StreamSession) ExpString(str string) (string, error) {
	before, _, err := s.readUntil(needle.Literal{S: str})
	if err != nil {
		return "", err
	}
	return string(before), nil
}

// ExpChar is ExpString for a single character.
func (s *StreamSession) ExpChar(c rune) (string, error) {
	return s.ExpString(string(c))
}

// ExpRegexp compiles pat (failing with *RegexError on an invalid
// pattern) and returns the prefix before the match plus the match
// itself.
func (s *StreamSession) ExpRegexp(pat string) (prefix, matched string, err error) {
	n, cerr := needle.NewRegexp(pat)
	if cerr != nil {
		return "", "", &RegexError{Pattern: pat, Cause: cerr}
	}
	before, m, err := s.readUntil(n)
	if err != nil {
		return "", "", err
	}
	return string(before), string(m), nil
}

// ExpNBytes waits for exactly n bytes (or the remainder of the stream
// at EOF) and returns them.
func (s *StreamSession) ExpNBytes(n int) (string, error) {
	_, matched, err := s.readUntil(needle.NBytes{N: n})
	if err != nil {
		return "", err
	}
	return string(matched), nil
}

// ExpAny waits for the first of needles (in declaration order) to match.
func (s *StreamSession) ExpAny(needles ...needle.Needle) (prefix, matched string, err error) {
	before, m, err := s.readUntil(needle.Any{Needles: needles})
	if err != nil {
		return "", "", err
	}
	return string(before), string(m), nil
}

// ReadLine waits for a newline and returns the line with any trailing
// carriage return stripped.
func (s *StreamSession) ReadLine() (string, error) {
	line, err := s.ExpString("\n")
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\r"), nil
}

// TryRead nonblockingly pops a single buffered byte.
func (s *StreamSession) TryRead() (byte, bool) {
	return s.reader.TryRead()
}

// Close tears down the child, which in turn closes the master fd and
// lets the reader's background pump observe EOF and exit.
func (s *StreamSession) Close() error {
	if s.child == nil {
		s.writer.Flush()
	}
	if s.wfile != nil {
		s.wfile.Close()
	}
	if s.child == nil {
		return nil
	}
	s.child.Exit()
	return s.child.Close()
}
