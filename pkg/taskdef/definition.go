// SPDX-License-Identifier: MPL-2.0

package taskdef

import (
	"errors"
	"fmt"
	"slices"

	"taskweave-cli/pkg/types"
)

const (
	// KindNew declares a brand-new task with its full parameter schema.
	KindNew TaskKind = iota
	// KindOverride layers a new action (and optionally extra named
	// parameters or flags) on top of an already-registered task.
	KindOverride
	// KindEmpty declares a description-only placeholder, typically the
	// namespace parent for subtasks.
	KindEmpty
)

// ErrInvalidTaskKind is the sentinel error wrapped by InvalidTaskKindError.
var ErrInvalidTaskKind = errors.New("invalid task kind")

type (
	// TaskKind identifies how a TaskDefinition contributes to the registry.
	TaskKind int

	// InvalidTaskKindError is returned when a TaskKind is not one of the
	// defined kind constants.
	InvalidTaskKindError struct {
		Value TaskKind
	}

	// TaskDefinition is one contributor-supplied definition: the immutable
	// input record the registry folds into resolved tasks. Fields are
	// unexported; a definition is only obtainable through a builder, which
	// guarantees shape invariants.
	TaskDefinition struct {
		kind        TaskKind
		id          TaskID
		description types.DescriptionText
		action      Action
		params      []Parameter
	}
)

// String returns a human-readable kind name.
func (k TaskKind) String() string {
	switch k {
	case KindNew:
		return "new"
	case KindOverride:
		return "override"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// IsValid returns whether the TaskKind is one of the defined kind constants,
// and a list of validation errors if it is not.
func (k TaskKind) IsValid() (bool, []error) {
	switch k {
	case KindNew, KindOverride, KindEmpty:
		return true, nil
	default:
		return false, []error{&InvalidTaskKindError{Value: k}}
	}
}

// Error implements the error interface.
func (e *InvalidTaskKindError) Error() string {
	return fmt.Sprintf("invalid task kind %d (valid: 0=new, 1=override, 2=empty)", e.Value)
}

// Unwrap returns ErrInvalidTaskKind for errors.Is() compatibility.
func (e *InvalidTaskKindError) Unwrap() error { return ErrInvalidTaskKind }

// Kind returns the definition's contribution kind.
func (d *TaskDefinition) Kind() TaskKind { return d.kind }

// ID returns the definition's hierarchical task id.
func (d *TaskDefinition) ID() TaskID { return slices.Clone(d.id) }

// Description returns the definition's description text. For overrides the
// zero value means "keep the overridden task's description".
func (d *TaskDefinition) Description() types.DescriptionText { return d.description }

// Action returns the definition's action variant.
func (d *TaskDefinition) Action() Action { return d.action }

// Parameters returns a copy of the definition's parameter schema in
// declaration order. NEW definitions carry the full schema, OVERRIDE
// definitions only the added named parameters and flags, EMPTY definitions
// none.
func (d *TaskDefinition) Parameters() []Parameter { return slices.Clone(d.params) }
