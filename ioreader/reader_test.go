package ioreader

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nick/pexpect/needle"
)

func TestReadUntilLiteralConsumesOnlyMatch(t *testing.T) {
	r := New(strings.NewReader("well hans is here, more text"), time.Second)
	before, matched, err := r.ReadUntil(needle.Literal{S: "hans"})
	if err != nil {
		t.Fatalf("ReadUntil: %v", err)
	}
	if string(before) != "well " {
		t.Fatalf("unexpected before: %q", before)
	}
	if string(matched) != "hans" {
		t.Fatalf("unexpected matched: %q", matched)
	}

	// The buffer invariant: remaining unmatched bytes stay for the next call.
	before2, matched2, err := r.ReadUntil(needle.Literal{S: "text"})
	if err != nil {
		t.Fatalf("second ReadUntil: %v", err)
	}
	if string(before2) != " is here, more " {
		t.Fatalf("unexpected before2: %q", before2)
	}
	if string(matched2) != "text" {
		t.Fatalf("unexpected matched2: %q", matched2)
	}
}

func TestReadUntilEOFWhenNeedleNeverMatches(t *testing.T) {
	r := New(strings.NewReader("short"), time.Second)
	_, _, err := r.ReadUntil(needle.Literal{S: "nope"})
	if err == nil {
		t.Fatal("expected an error")
	}
	eofErr, ok := err.(*EOFErr)
	if !ok {
		t.Fatalf("expected *EOFErr, got %T: %v", err, err)
	}
	if eofErr.Got != "short" {
		t.Fatalf("unexpected Got: %q", eofErr.Got)
	}
}

func TestReadUntilTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := New(pr, 150*time.Millisecond)

	_, _, err := r.ReadUntil(needle.Literal{S: "never"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if _, ok := err.(*TimeoutErr); !ok {
		t.Fatalf("expected *TimeoutErr, got %T: %v", err, err)
	}
}

func TestReadUntilTimeoutSanitizesGot(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte("line one\nline two\r\x1b["))
	}()
	r := New(pr, 150*time.Millisecond)

	_, _, err := r.ReadUntil(needle.Literal{S: "never"})
	te, ok := err.(*TimeoutErr)
	if !ok {
		t.Fatalf("expected *TimeoutErr, got %T: %v", err, err)
	}
	if strings.Contains(te.Got, "\n") || strings.Contains(te.Got, "\r") || strings.Contains(te.Got, "\x1b") {
		t.Fatalf("expected sanitized Got, still has raw control chars: %q", te.Got)
	}
	pw.Close()
}

func TestEOFNeedleMatchesAfterStreamEnds(t *testing.T) {
	r := New(strings.NewReader("all of it"), time.Second)
	_, matched, err := r.ReadUntil(needle.EOF{})
	if err != nil {
		t.Fatalf("ReadUntil: %v", err)
	}
	if string(matched) != "all of it" {
		t.Fatalf("unexpected matched: %q", matched)
	}
}

func TestTryReadDrainsWithoutBlocking(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := New(pr, 0)

	if _, ok := r.TryRead(); ok {
		t.Fatal("expected no byte available yet")
	}

	go pw.Write([]byte("x"))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if b, ok := r.TryRead(); ok {
			if b != 'x' {
				t.Fatalf("unexpected byte: %q", b)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for byte to arrive")
}

func TestNBytesNeedleAtEOF(t *testing.T) {
	r := New(strings.NewReader("ab"), time.Second)
	_, matched, err := r.ReadUntil(needle.NBytes{N: 10})
	if err != nil {
		t.Fatalf("ReadUntil: %v", err)
	}
	if string(matched) != "ab" {
		t.Fatalf("expected short match at EOF, got %q", matched)
	}
}

func TestAnyNeedleOrderingThroughReader(t *testing.T) {
	r := New(strings.NewReader("zzz then hans"), time.Second)
	a := needle.Any{Needles: []needle.Needle{needle.Literal{S: "hans"}, needle.Literal{S: "zzz"}}}
	before, matched, err := r.ReadUntil(a)
	if err != nil {
		t.Fatalf("ReadUntil: %v", err)
	}
	if string(matched) != "hans" {
		t.Fatalf("expected declared-first needle to win, got matched=%q before=%q", matched, before)
	}
}
