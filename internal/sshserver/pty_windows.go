// SPDX-License-Identifier: MPL-2.0

//go:build windows

package sshserver

import (
	"io"
	"os"
	"os/exec"
)

// shellTerminal drives the interactive shell over plain pipes: Windows has
// no pty here, so stdout and stderr share one pipe back to the session.
type shellTerminal struct {
	stdin io.WriteCloser
	out   *os.File
}

// startShellTerminal starts cmd with its stdio wired to pipes.
func startShellTerminal(cmd *exec.Cmd) (*shellTerminal, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = outW
	cmd.Stderr = outW

	if err := cmd.Start(); err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, err
	}
	// The child holds its own handle; closing ours lets reads finish when
	// the shell exits.
	_ = outW.Close()

	return &shellTerminal{stdin: stdin, out: outR}, nil
}

// Resize is a no-op without a pty.
func (t *shellTerminal) Resize(width, height int) {}

// Attach pumps the session stream into the shell's stdin in the background
// and returns once the shell stops producing output.
func (t *shellTerminal) Attach(stream io.ReadWriter) {
	go func() {
		_, _ = io.Copy(t.stdin, stream)
	}()
	_, _ = io.Copy(stream, t.out)
}

// Close releases both pipe ends.
func (t *shellTerminal) Close() error {
	_ = t.stdin.Close()
	return t.out.Close()
}
