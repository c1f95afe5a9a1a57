//go:build unix

package ptychild

import (
	"bytes"
	"syscall"
	"testing"
	"time"
)

func TestSpawnCatRoundtrip(t *testing.T) {
	c, err := Spawn("cat", nil, "", nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer c.Close()

	if c.PID() <= 0 {
		t.Fatalf("expected positive pid, got %d", c.PID())
	}

	if _, err := c.Master().Write([]byte("hans\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 64)
	deadline := time.Now().Add(2 * time.Second)
	var got []byte
	for time.Now().Before(deadline) {
		n, err := c.Master().Read(buf)
		if n > 0 {
			got = append(got, buf[:n]...)
		}
		if bytes.Contains(got, []byte("hans")) {
			break
		}
		if err != nil {
			break
		}
	}

	if !bytes.Contains(got, []byte("hans")) {
		t.Fatalf("expected output to contain %q, got %q", "hans", got)
	}
}

func TestStatusStillAlive(t *testing.T) {
	c, err := Spawn("sleep", []string{"5"}, "", nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer c.Close()

	st, ok := c.Status()
	if !ok {
		t.Fatal("expected Status to succeed")
	}
	if !st.Alive {
		t.Fatalf("expected process to still be alive, got %v", st)
	}
}

func TestKillEscalatesToSigkill(t *testing.T) {
	// A process that ignores SIGTERM forces Kill to escalate.
	c, err := Spawn("sh", []string{"-c", "trap '' TERM; sleep 5"}, "", nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer c.Close()

	c.SetKillTimeout(200 * time.Millisecond)

	start := time.Now()
	st := c.Kill(syscall.SIGTERM)
	elapsed := time.Since(start)

	if st.Alive {
		t.Fatalf("expected process to be dead after Kill, got %v", st)
	}
	if elapsed > 3*time.Second {
		t.Fatalf("expected escalation to SIGKILL well under 3s, took %s", elapsed)
	}
}

func TestExitSendsSigtermAndWaits(t *testing.T) {
	c, err := Spawn("sleep", []string{"30"}, "", nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	st := c.Exit()
	if st.Alive {
		t.Fatalf("expected exited status, got %v", st)
	}
	c.Master().Close()
}

func TestFileHandleIsIndependent(t *testing.T) {
	c, err := Spawn("cat", nil, "", nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer c.Close()

	dup, err := c.FileHandle()
	if err != nil {
		t.Fatalf("FileHandle: %v", err)
	}
	if err := dup.Close(); err != nil {
		t.Fatalf("closing duplicate handle: %v", err)
	}

	// The original master should still be usable after closing the dup.
	if _, err := c.Master().Write([]byte("x")); err != nil {
		t.Fatalf("master unusable after dup close: %v", err)
	}
}
