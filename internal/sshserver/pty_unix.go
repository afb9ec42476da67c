// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package sshserver

import (
	"io"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	"github.com/creack/pty"
)

// shellTerminal is the server-side end of the pseudo-terminal an
// interactive session's shell runs on.
type shellTerminal struct {
	tty *os.File
}

// startShellTerminal starts cmd on a fresh pty.
func startShellTerminal(cmd *exec.Cmd) (*shellTerminal, error) {
	tty, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	return &shellTerminal{tty: tty}, nil
}

// Resize propagates the client's window dimensions to the shell.
func (t *shellTerminal) Resize(width, height int) {
	ws := struct{ rows, cols, xpix, ypix uint16 }{
		rows: uint16(height),
		cols: uint16(width),
	}
	_, _, _ = syscall.Syscall(syscall.SYS_IOCTL, t.tty.Fd(),
		uintptr(syscall.TIOCSWINSZ), uintptr(unsafe.Pointer(&ws)))
}

// Attach pumps the session stream into the terminal in the background and
// returns once the shell side stops producing output.
func (t *shellTerminal) Attach(stream io.ReadWriter) {
	go func() {
		_, _ = io.Copy(t.tty, stream)
	}()
	_, _ = io.Copy(stream, t.tty)
}

// Close releases the pty.
func (t *shellTerminal) Close() error {
	return t.tty.Close()
}
