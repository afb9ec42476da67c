// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
)

const (
	// RunPending indicates the invocation was created but not started.
	RunPending RunState = iota
	// RunValidating indicates argument validation is in progress.
	RunValidating
	// RunFailedValidation is terminal: the arguments were rejected and no
	// action ran.
	RunFailedValidation
	// RunRunning indicates the action chain is executing.
	RunRunning
	// RunFailedRuntime is terminal: the chain started and failed.
	RunFailedRuntime
	// RunCompleted is terminal: the outermost action returned a result.
	RunCompleted
)

// ErrInvalidRunState is the sentinel error wrapped by InvalidRunStateError.
var ErrInvalidRunState = errors.New("invalid run state")

type (
	// RunState is the lifecycle state of one task invocation.
	RunState int32

	// InvalidRunStateError is returned when a RunState value is not one of
	// the defined lifecycle states.
	InvalidRunStateError struct {
		Value RunState
	}
)

// String returns a human-readable representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunValidating:
		return "validating"
	case RunFailedValidation:
		return "failed-validation"
	case RunRunning:
		return "running"
	case RunFailedRuntime:
		return "failed-runtime"
	case RunCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Validate returns nil if the RunState is one of the defined lifecycle
// states, or an error wrapping ErrInvalidRunState if it is not.
func (s RunState) Validate() error {
	switch s {
	case RunPending, RunValidating, RunFailedValidation, RunRunning, RunFailedRuntime, RunCompleted:
		return nil
	default:
		return &InvalidRunStateError{Value: s}
	}
}

// IsTerminal reports whether the state ends the invocation.
func (s RunState) IsTerminal() bool {
	return s == RunFailedValidation || s == RunFailedRuntime || s == RunCompleted
}

// Error implements the error interface.
func (e *InvalidRunStateError) Error() string {
	return fmt.Sprintf("invalid run state %d (valid: 0=pending, 1=validating, 2=failed-validation, 3=running, 4=failed-runtime, 5=completed)", e.Value)
}

// Unwrap returns ErrInvalidRunState for errors.Is() compatibility.
func (e *InvalidRunStateError) Unwrap() error { return ErrInvalidRunState }
