package rexpect

import (
	"io"
	"os"
	"time"

	"github.com/nick/pexpect/ptychild"
)

// Options configures a spawned session. The zero value is a usable
// default: no timeout (blocking read_until), no kill-timeout escalation
// (Exit/Close waits indefinitely for SIGTERM to land), the caller's own
// working directory, and the caller's own environment (SpawnCommand
// passes a nil Env through to os/exec, which inherits os.Environ()).
type Options struct {
	// Timeout bounds every ExpXxx call on the resulting session.
	Timeout time.Duration
	// KillTimeout bounds how long Exit/Close wait after SIGTERM before
	// escalating to SIGKILL (ptychild.Child.Kill). Zero means no escalation
	// deadline.
	KillTimeout time.Duration
	// Dir is the child's working directory; "" means the caller's own.
	Dir string
	// Env is the child's environment; nil means the caller's own
	// (os/exec's default when Cmd.Env is nil).
	Env []string
}

// Spawn tokenizes program on whitespace (respecting single and double
// quotes) and executes it as a StreamSession. Fails with
// ErrEmptyProgramName on empty input (spec.md 6).
func Spawn(program string, opts Options) (*StreamSession, error) {
	tokens := tokenize(program)
	if len(tokens) == 0 {
		return nil, ErrEmptyProgramName
	}
	return SpawnCommand(tokens[0], tokens[1:], opts)
}

// SpawnCommand executes program with args directly, without tokenizing.
func SpawnCommand(program string, args []string, opts Options) (*StreamSession, error) {
	child, err := ptychild.Spawn(program, args, opts.Dir, opts.Env)
	if err != nil {
		return nil, &PtyError{Context: "spawning " + program, Cause: err}
	}
	child.SetKillTimeout(opts.KillTimeout)

	sess, err := NewStreamSession(child, program, opts.Timeout)
	if err != nil {
		child.Close()
		return nil, err
	}
	return sess, nil
}

// SpawnStream wraps arbitrary byte streams as a StreamSession, useful
// for tests and for driving a remote stream that isn't a local PTY
// child (spec.md 6). There is no child process, so Dir/Env/KillTimeout
// from Options do not apply; only the timeout is used.
func SpawnStream(r io.Reader, w io.Writer, name string, timeout time.Duration) *StreamSession {
	return NewRawStreamSession(r, w, name, timeout)
}

const bashRcTemplate = `if [ -f /etc/bash.bashrc ]; then source /etc/bash.bashrc; fi
if [ -f ~/.bashrc ]; then source ~/.bashrc; fi
PS1="~~~~"
unset PROMPT_COMMAND
`

// SpawnBash spawns bash with a scratch rcfile that forces a recognizable
// bootstrap prompt, then swaps to a second, final prompt once the shell
// is confirmed alive. Echo is off; Close sends "quit" as a parting
// command, matching shells (bash included) that do not exit on SIGTERM
// (spec.md 6, 9).
func SpawnBash(opts Options) (*ReplSession, error) {
	rcfile, err := os.CreateTemp("", "rexpect-rc-*")
	if err != nil {
		return nil, &IOError{Context: "creating bash rcfile", Cause: err}
	}
	rcPath := rcfile.Name()
	if _, err := rcfile.WriteString(bashRcTemplate); err != nil {
		rcfile.Close()
		os.Remove(rcPath)
		return nil, &IOError{Context: "writing bash rcfile", Cause: err}
	}
	rcfile.Close()

	sess, err := SpawnCommand("bash", []string{"--rcfile", rcPath}, opts)
	if err != nil {
		os.Remove(rcPath)
		return nil, err
	}

	if _, err := sess.ExpString("~~~~"); err != nil {
		sess.Close()
		os.Remove(rcPath)
		return nil, err
	}
	os.Remove(rcPath)

	repl := &ReplSession{StreamSession: sess, Prompt: "[REXPECT_PROMPT>", QuitCommand: "quit", EchoOn: false}
	if _, err := repl.StreamSession.SendLine(`PS1='[REXPECT_PROMPT>'`); err != nil {
		repl.Close()
		return nil, err
	}
	if _, err := repl.WaitForPrompt(); err != nil {
		repl.Close()
		return nil, err
	}
	return repl, nil
}

// SpawnPython spawns a python REPL with echo on, prompt ">>> ", and
// quit command "exit()".
func SpawnPython(opts Options) (*ReplSession, error) {
	sess, err := SpawnCommand("python", nil, opts)
	if err != nil {
		return nil, err
	}
	repl := &ReplSession{StreamSession: sess, Prompt: ">>> ", QuitCommand: "exit()", EchoOn: true}
	if _, err := repl.WaitForPrompt(); err != nil {
		repl.Close()
		return nil, err
	}
	return repl, nil
}
