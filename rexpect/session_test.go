//go:build unix

package rexpect

import (
	"testing"
	"time"

	"github.com/nick/pexpect/needle"
)

// S1: cat roundtrip.
func TestCatRoundtrip(t *testing.T) {
	sess, err := Spawn("cat", Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer sess.Close()

	if _, err := sess.SendLine("hans"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if err := sess.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	line, err := sess.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "hans" {
		t.Fatalf("expected %q, got %q", "hans", line)
	}
}

// S2: timeout behavior.
func TestTimeoutVsSuccess(t *testing.T) {
	slow, err := Spawn("sleep 3", Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer slow.Close()

	if _, err := slow.ExpEOF(); err == nil {
		t.Fatal("expected a timeout error")
	} else if _, ok := err.(*TimeoutError); !ok {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}

	fast, err := Spawn("sleep 1", Options{Timeout: 1100 * time.Millisecond})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer fast.Close()

	if _, err := fast.ExpEOF(); err != nil {
		t.Fatalf("expected ExpEOF to succeed, got %v", err)
	}
}

// S3: string-before.
func TestExpStringReturnsPrefix(t *testing.T) {
	sess, err := Spawn("cat", Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer sess.Close()

	if _, err := sess.SendLine("lorem ipsum dolor sit amet"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if err := sess.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	prefix, err := sess.ExpString("amet")
	if err != nil {
		t.Fatalf("ExpString: %v", err)
	}
	if prefix != "lorem ipsum dolor sit " {
		t.Fatalf("unexpected prefix: %q", prefix)
	}
}

// S4: any-match, declared-order precedence over earliest-in-buffer.
func TestExpAnyPrefersDeclaredOrder(t *testing.T) {
	sess, err := Spawn("cat", Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer sess.Close()

	if _, err := sess.SendLine("Hi"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if err := sess.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	prefix, matched, err := sess.ExpAny(needle.NBytes{N: 3}, needle.Literal{S: "Hi"})
	if err != nil {
		t.Fatalf("ExpAny: %v", err)
	}
	if prefix != "" || matched != "Hi\r" {
		t.Fatalf("unexpected result: prefix=%q matched=%q", prefix, matched)
	}
}

// S5: empty command.
func TestSpawnEmptyProgramName(t *testing.T) {
	_, err := Spawn("", Options{Timeout: time.Second})
	if err != ErrEmptyProgramName {
		t.Fatalf("expected ErrEmptyProgramName, got %v", err)
	}
}
