// Package needle implements the small pattern algebra consumed by
// ioreader.ReadUntil: literal substrings, regular expressions, fixed byte
// counts, end-of-stream, and alternation over any of those.
package needle

import "regexp"

// Match carries the begin/end offsets of a pattern match within a live
// buffer. Begin is the start of the matched region (the end of whatever
// "unread" prefix precedes it); End is one past the matched region's last
// byte, and the number of bytes the reader consumes from the front of its
// buffer on a successful match.
type Match struct {
	Begin int
	End   int
}

// Needle locates itself within buf, given whether the stream has reached
// EOF. Find returns ok=false when there is no match yet (the caller should
// keep waiting, unless eof is already true and the needle can never match).
type Needle interface {
	Find(buf []byte, eof bool) (Match, bool)
	// Display renders the needle for error messages (e.g. "literal \"hans\"").
	Display() string
}

// Literal matches the first occurrence of a fixed byte sequence.
type Literal struct {
	S string
}

func (l Literal) Find(buf []byte, eof bool) (Match, bool) {
	if len(l.S) == 0 {
		return Match{0, 0}, true
	}
	idx := indexOf(buf, l.S)
	if idx < 0 {
		return Match{}, false
	}
	return Match{Begin: idx, End: idx + len(l.S)}, true
}

func (l Literal) Display() string { return "literal " + quote(l.S) }

// Regexp matches the first occurrence of a compiled regular expression.
type Regexp struct {
	Re *regexp.Regexp
}

// NewRegexp compiles pattern, returning an error the caller should surface
// as rexpect's RegexError.
func NewRegexp(pattern string) (Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regexp{}, err
	}
	return Regexp{Re: re}, nil
}

func (r Regexp) Find(buf []byte, eof bool) (Match, bool) {
	loc := r.Re.FindIndex(buf)
	if loc == nil {
		return Match{}, false
	}
	return Match{Begin: loc[0], End: loc[1]}, true
}

func (r Regexp) Display() string { return "regex " + quote(r.Re.String()) }

// NBytes consumes exactly N bytes once the buffer holds that many, or the
// remainder of the buffer once EOF has been observed and the buffer holds
// at least one byte.
type NBytes struct {
	N int
}

func (n NBytes) Find(buf []byte, eof bool) (Match, bool) {
	if len(buf) >= n.N {
		return Match{Begin: 0, End: n.N}, true
	}
	if eof && len(buf) > 0 {
		return Match{Begin: 0, End: len(buf)}, true
	}
	return Match{}, false
}

func (n NBytes) Display() string { return "n-bytes" }

// EOF matches once the stream's EOF flag is set; the match spans the
// entire current buffer.
type EOF struct{}

func (EOF) Find(buf []byte, eof bool) (Match, bool) {
	if !eof {
		return Match{}, false
	}
	return Match{Begin: 0, End: len(buf)}, true
}

func (EOF) Display() string { return "EOF" }

// Any is alternation: the first needle (in declaration order) that
// matches wins, even if a later alternative would have matched earlier in
// the buffer. Tests in ioreader depend on this ordering, not the
// leftmost-in-buffer match across alternatives (spec.md 4.C note).
type Any struct {
	Needles []Needle
}

func (a Any) Find(buf []byte, eof bool) (Match, bool) {
	for _, n := range a.Needles {
		if m, ok := n.Find(buf, eof); ok {
			return m, true
		}
	}
	return Match{}, false
}

func (a Any) Display() string {
	s := "any of ["
	for i, n := range a.Needles {
		if i > 0 {
			s += ", "
		}
		s += n.Display()
	}
	return s + "]"
}

func indexOf(buf []byte, s string) int {
	if len(s) == 0 {
		return 0
	}
	n := len(buf)
	m := len(s)
	if m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if string(buf[i:i+m]) == s {
			return i
		}
	}
	return -1
}

func quote(s string) string {
	return "\"" + s + "\""
}
