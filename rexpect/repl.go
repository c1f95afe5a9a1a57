package rexpect

// ReplSession adds prompt synchronization and an optional quit command
// on top of a StreamSession, per spec.md 4.E.
type ReplSession struct {
	*StreamSession
	Prompt      string
	QuitCommand string
	EchoOn      bool
}

// WaitForPrompt waits for the configured prompt and returns the text
// that preceded it.
func (r *ReplSession) WaitForPrompt() (string, error) {
	return r.ExpString(r.Prompt)
}

// SendLine sends line followed by a newline; if echo is on, it also
// consumes the shell's echo of that line so it doesn't reappear in a
// later Exp call.
func (r *ReplSession) SendLine(line string) (int, error) {
	n, err := r.StreamSession.SendLine(line)
	if err != nil {
		return n, err
	}
	if r.EchoOn {
		if _, err := r.ExpString(line); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Execute sends cmd, optionally consumes its echo, then waits for
// readyPattern — a marker emitted by the running command itself. This
// avoids a race that a bare SendLine plus an immediate control
// character would hit when echo is off (spec.md 4.E).
func (r *ReplSession) Execute(cmd, readyPattern string) (string, error) {
	if _, err := r.SendLine(cmd); err != nil {
		return "", err
	}
	_, matched, err := r.ExpRegexp(readyPattern)
	if err != nil {
		return "", err
	}
	return matched, nil
}

// Close sends the configured quit command, if any, before tearing down
// the underlying child — required for shells such as bash that ignore
// SIGTERM.
func (r *ReplSession) Close() error {
	if r.QuitCommand != "" {
		r.StreamSession.SendLine(r.QuitCommand)
		r.StreamSession.Flush()
	}
	return r.StreamSession.Close()
}
