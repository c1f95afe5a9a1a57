package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/nick/pexpect/ptychild"

	"github.com/nick/pexpect/cmd/rexpect-watch/scrollback"
)

// attach spawns program/args attached to a PTY and gives the calling
// terminal a direct, raw-mode passthrough to it: keystrokes go straight
// to the child, the child's combined output goes into a bounded
// transcript and reaches stdout through a live subscription on that
// transcript, and SIGWINCH is forwarded so the
// child's notion of window size tracks the real terminal.
func attach(program string, args []string) error {
	child, err := ptychild.Spawn(program, args, "", nil)
	if err != nil {
		return fmt.Errorf("spawning %s: %w", program, err)
	}
	defer child.Close()

	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		child.SetWinsize(uint16(h), uint16(w))
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	transcript := scrollback.New(1 << 20)

	// Subscribe before the master-to-buffer copy starts so no byte
	// written in the race window between snapshot and subscription is
	// lost or duplicated.
	snapshot, subID, live := transcript.SnapshotAndSubscribe()
	defer transcript.Unsubscribe(subID)
	if len(snapshot) > 0 {
		os.Stdout.Write(snapshot)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go watchResize(ctx, sigCh, child)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := io.Copy(child.Master(), os.Stdin)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(transcript, child.Master())
		return err
	})
	g.Go(func() error {
		for chunk := range live {
			if _, err := os.Stdout.Write(chunk); err != nil {
				return err
			}
		}
		return nil
	})

	st := child.Wait()
	cancel()
	child.Master().Close()
	transcript.Unsubscribe(subID)
	_ = g.Wait()

	if !st.Exited || st.Code != 0 {
		return fmt.Errorf("%s exited: %s", program, st.String())
	}
	return nil
}

func watchResize(ctx context.Context, sigCh <-chan os.Signal, child *ptychild.Child) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
				child.SetWinsize(uint16(h), uint16(w))
			}
		}
	}
}
