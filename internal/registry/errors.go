// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"

	"taskweave-cli/pkg/taskdef"
)

var (
	// ErrTaskAlreadyDefined is the sentinel error wrapped by TaskAlreadyDefinedError.
	ErrTaskAlreadyDefined = errors.New("task already defined")
	// ErrSubtaskWithoutParent is the sentinel error wrapped by SubtaskWithoutParentError.
	ErrSubtaskWithoutParent = errors.New("subtask without parent")
	// ErrTaskNotFound is the sentinel error wrapped by TaskNotFoundError.
	ErrTaskNotFound = errors.New("task not found")
	// ErrParamClashesWithGlobal is the sentinel error wrapped by ParamClashesWithGlobalError.
	ErrParamClashesWithGlobal = errors.New("task parameter clashes with a global parameter")
	// ErrOverrideParamAlreadyDefined is the sentinel error wrapped by OverrideParamAlreadyDefinedError.
	ErrOverrideParamAlreadyDefined = errors.New("override parameter already defined on task")
)

type (
	// TaskAlreadyDefinedError is returned when a NEW or EMPTY definition
	// targets an id that is already registered.
	TaskAlreadyDefinedError struct {
		ID          taskdef.TaskID
		Contributor string
		Owner       string
	}

	// SubtaskWithoutParentError is returned when a definition with a nested
	// id arrives before any task was registered under its parent id.
	SubtaskWithoutParentError struct {
		ID          taskdef.TaskID
		Contributor string
	}

	// TaskNotFoundError is returned when an override targets an unregistered
	// id, or a lookup misses.
	TaskNotFoundError struct {
		ID taskdef.TaskID
	}

	// ParamClashesWithGlobalError is returned when a NEW definition declares
	// a named parameter or flag whose name was globally declared by a
	// different contributor.
	ParamClashesWithGlobalError struct {
		ID          taskdef.TaskID
		Param       string
		Contributor string
		DeclaredBy  string
	}

	// OverrideParamAlreadyDefinedError is returned when an override adds a
	// parameter whose name already exists anywhere in the target task's
	// merged schema.
	OverrideParamAlreadyDefinedError struct {
		ID          taskdef.TaskID
		Param       string
		Contributor string
	}
)

// identityLabel names a contributor in error text. The configuration is the
// unattributed final contributor.
func identityLabel(identity string) string {
	if identity == "" {
		return "the configuration"
	}
	return fmt.Sprintf("plugin %q", identity)
}

// Error implements the error interface.
func (e *TaskAlreadyDefinedError) Error() string {
	return fmt.Sprintf("%s cannot define task %q: it is already defined by %s",
		identityLabel(e.Contributor), e.ID, identityLabel(e.Owner))
}

// Unwrap returns ErrTaskAlreadyDefined for errors.Is() compatibility.
func (e *TaskAlreadyDefinedError) Unwrap() error { return ErrTaskAlreadyDefined }

// Error implements the error interface.
func (e *SubtaskWithoutParentError) Error() string {
	return fmt.Sprintf("%s cannot define subtask %q: no task %q was registered first",
		identityLabel(e.Contributor), e.ID, e.ID.Parent())
}

// Unwrap returns ErrSubtaskWithoutParent for errors.Is() compatibility.
func (e *SubtaskWithoutParentError) Unwrap() error { return ErrSubtaskWithoutParent }

// Error implements the error interface.
func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// Unwrap returns ErrTaskNotFound for errors.Is() compatibility.
func (e *TaskNotFoundError) Unwrap() error { return ErrTaskNotFound }

// Error implements the error interface.
func (e *ParamClashesWithGlobalError) Error() string {
	return fmt.Sprintf("%s cannot declare parameter %q on task %q: the name is globally declared by %s",
		identityLabel(e.Contributor), e.Param, e.ID, identityLabel(e.DeclaredBy))
}

// Unwrap returns ErrParamClashesWithGlobal for errors.Is() compatibility.
func (e *ParamClashesWithGlobalError) Unwrap() error { return ErrParamClashesWithGlobal }

// Error implements the error interface.
func (e *OverrideParamAlreadyDefinedError) Error() string {
	return fmt.Sprintf("%s cannot add parameter %q to task %q: the name already exists in the task's schema",
		identityLabel(e.Contributor), e.Param, e.ID)
}

// Unwrap returns ErrOverrideParamAlreadyDefined for errors.Is() compatibility.
func (e *OverrideParamAlreadyDefinedError) Unwrap() error { return ErrOverrideParamAlreadyDefined }
