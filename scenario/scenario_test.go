package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.yaml")
	content := `
name: cat roundtrip
command: cat
timeout: 1000000000
steps:
  - action: send_line
    text: hans
  - action: expect_string
    text: "hans"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Command != "cat" {
		t.Fatalf("unexpected command: %q", s.Command)
	}
	if len(s.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(s.Steps))
	}
	if s.Steps[0].Action != ActionSendLine || s.Steps[1].Action != ActionExpectString {
		t.Fatalf("unexpected step actions: %+v", s.Steps)
	}
}

func TestLoadRejectsMissingCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("name: broken\nsteps: []\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a scenario with no command")
	}
}
