// Package scenario loads YAML-described scripted interactions and
// drives them over a rexpect session — a generalization of the
// hand-written spawn_bash/spawn_python/ftp examples into a declarative
// file any caller can author without writing Go.
package scenario

import (
	"fmt"
	"os"
	"time"

	"github.com/nick/pexpect/rexpect"
	"gopkg.in/yaml.v3"
)

// Script is a named sequence of steps run against one spawned program.
type Script struct {
	Name    string        `yaml:"name"`
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
	Steps   []Step        `yaml:"steps"`
}

// Step is one scripted action. Action selects which of Text, Char,
// Pattern or NBytes the step reads.
type Step struct {
	Action  string `yaml:"action"`
	Text    string `yaml:"text,omitempty"`
	Char    string `yaml:"char,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	NBytes  int    `yaml:"n_bytes,omitempty"`
}

const (
	ActionSend         = "send"
	ActionSendLine     = "send_line"
	ActionSendControl  = "send_control"
	ActionExpectString = "expect_string"
	ActionExpectRegexp = "expect_regexp"
	ActionExpectEOF    = "expect_eof"
	ActionExpectNBytes = "expect_n_bytes"
)

// Load reads and parses a scripted interaction file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Script
	if err := yaml.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Command == "" {
		return nil, fmt.Errorf("scenario %s: command is required", path)
	}
	return &s, nil
}

// Run spawns the script's command and executes its steps in order,
// stopping at the first error.
func (s *Script) Run() (*Record, error) {
	sess, err := rexpect.Spawn(s.Command, rexpect.Options{Timeout: s.Timeout})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: spawning %q: %w", s.Name, s.Command, err)
	}
	defer sess.Close()

	rec := &Record{Name: s.Name}
	for i, step := range s.Steps {
		if err := runStep(sess, step, rec); err != nil {
			return rec, fmt.Errorf("scenario %s: step %d (%s): %w", s.Name, i, step.Action, err)
		}
	}
	return rec, nil
}

// Record accumulates the text captured by expectation steps, in order,
// for callers that want to inspect what a scripted run actually saw.
type Record struct {
	Name     string
	Captures []string
}

func runStep(sess *rexpect.StreamSession, step Step, rec *Record) error {
	switch step.Action {
	case ActionSend:
		_, err := sess.Send(step.Text)
		return err
	case ActionSendLine:
		_, err := sess.SendLine(step.Text)
		return err
	case ActionSendControl:
		if step.Char == "" {
			return fmt.Errorf("send_control step requires a char")
		}
		return sess.SendControl(rune(step.Char[0]))
	case ActionExpectString:
		prefix, err := sess.ExpString(step.Text)
		if err != nil {
			return err
		}
		rec.Captures = append(rec.Captures, prefix)
		return nil
	case ActionExpectRegexp:
		prefix, matched, err := sess.ExpRegexp(step.Pattern)
		if err != nil {
			return err
		}
		rec.Captures = append(rec.Captures, prefix, matched)
		return nil
	case ActionExpectEOF:
		tail, err := sess.ExpEOF()
		if err != nil {
			return err
		}
		rec.Captures = append(rec.Captures, tail)
		return nil
	case ActionExpectNBytes:
		got, err := sess.ExpNBytes(step.NBytes)
		if err != nil {
			return err
		}
		rec.Captures = append(rec.Captures, got)
		return nil
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}
