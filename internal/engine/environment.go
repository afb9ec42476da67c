// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Environment is the runtime environment object handed to every action. The
// orchestration core passes it through opaquely; actions (and the script
// runtime) downcast it to reach I/O streams, the working directory, and the
// logger.
type Environment struct {
	// Out receives action standard output. Defaults to os.Stdout.
	Out io.Writer
	// ErrOut receives action standard error. Defaults to os.Stderr.
	ErrOut io.Writer
	// WorkDir is the working directory for script actions. Empty means the
	// process working directory.
	WorkDir string
	// Logger is the structured logger actions may use for diagnostics.
	Logger *log.Logger
}

// NewEnvironment returns an Environment bound to the process streams and the
// given logger. A nil logger gets the package default.
func NewEnvironment(logger *log.Logger) *Environment {
	if logger == nil {
		logger = log.Default()
	}
	return &Environment{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Logger: logger,
	}
}

// Stdout returns the action standard output stream.
func (e *Environment) Stdout() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

// Stderr returns the action standard error stream.
func (e *Environment) Stderr() io.Writer {
	if e.ErrOut != nil {
		return e.ErrOut
	}
	return os.Stderr
}

// Workdir returns the working directory for script actions.
func (e *Environment) Workdir() string { return e.WorkDir }
