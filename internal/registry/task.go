// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"taskweave-cli/pkg/taskdef"
	"taskweave-cli/pkg/types"
)

var (
	// ErrActionNotInvocable is the sentinel error wrapped by ActionNotInvocableError.
	ErrActionNotInvocable = errors.New("action is not invocable")
)

type (
	// ActionResolver turns a reference locator into an invocable function.
	// The production resolver lives in internal/runtime; tests supply fakes.
	ActionResolver interface {
		ResolveAction(locator string) (taskdef.ActionFunc, error)
	}

	// ActionNotInvocableError is returned when an action cannot produce an
	// invocable function (the empty sentinel, or a zero action).
	ActionNotInvocableError struct {
		ID taskdef.TaskID
	}

	// BoundAction pairs an action with the identity of the contributor that
	// supplied it. Reference actions resolve lazily, once per bound action,
	// at first invocation; the resolved invocable (or the resolution error)
	// is cached for the life of the registry.
	BoundAction struct {
		action   taskdef.Action
		pluginID string
		taskID   taskdef.TaskID

		resolveOnce sync.Once
		resolved    taskdef.ActionFunc
		resolveErr  error
	}

	// Task is one resolved node of the task graph. It is immutable after
	// the fold: concurrent reads need no synchronization.
	Task struct {
		id          taskdef.TaskID
		description types.DescriptionText
		pluginID    string
		params      []taskdef.Parameter
		actions     []*BoundAction
	}
)

// Error implements the error interface.
func (e *ActionNotInvocableError) Error() string {
	return fmt.Sprintf("task %q has no invocable action", e.ID)
}

// Unwrap returns ErrActionNotInvocable for errors.Is() compatibility.
func (e *ActionNotInvocableError) Unwrap() error { return ErrActionNotInvocable }

// Action returns the underlying action variant.
func (b *BoundAction) Action() taskdef.Action { return b.action }

// PluginID returns the identity of the contributor that supplied the action,
// or "" for the configuration.
func (b *BoundAction) PluginID() string { return b.pluginID }

// Invocable returns the action as a callable function. Inline actions return
// their function directly; reference actions are resolved through the given
// resolver on first call and cached, error included, for subsequent calls.
func (b *BoundAction) Invocable(resolver ActionResolver) (taskdef.ActionFunc, error) {
	switch {
	case b.action.IsInline():
		return b.action.Func(), nil
	case b.action.IsReference():
		b.resolveOnce.Do(func() {
			b.resolved, b.resolveErr = resolver.ResolveAction(b.action.Locator())
		})
		return b.resolved, b.resolveErr
	default:
		return nil, &ActionNotInvocableError{ID: b.taskID}
	}
}

// ID returns the task's hierarchical id.
func (t *Task) ID() taskdef.TaskID { return slices.Clone(t.id) }

// Description returns the task's effective description: the latest non-empty
// override text, or the original's.
func (t *Task) Description() types.DescriptionText { return t.description }

// PluginID returns the identity of the contributor that originally defined
// the task, or "" when it was defined directly in the configuration.
func (t *Task) PluginID() string { return t.pluginID }

// IsRoot reports whether the task's id has exactly one segment. Root-ness is
// derived from the id, independent of whether the task has children.
func (t *Task) IsRoot() bool { return t.id.IsRoot() }

// IsEmpty reports whether the task still carries only the empty placeholder
// action, meaning it was declared EMPTY and never overridden.
func (t *Task) IsEmpty() bool {
	return len(t.actions) == 1 && t.actions[0].action.IsEmpty()
}

// Parameters returns the task's merged schema in insertion order: the
// original definition's parameters followed by every override-added one.
func (t *Task) Parameters() []taskdef.Parameter { return slices.Clone(t.params) }

// NamedParameters returns the named and flag parameters of the merged schema.
func (t *Task) NamedParameters() []taskdef.Parameter {
	var out []taskdef.Parameter
	for _, p := range t.params {
		if !p.Kind.IsPositional() {
			out = append(out, p)
		}
	}
	return out
}

// PositionalParameters returns the positional and variadic parameters of the
// merged schema, in ordinal order.
func (t *Task) PositionalParameters() []taskdef.Parameter {
	var out []taskdef.Parameter
	for _, p := range t.params {
		if p.Kind.IsPositional() {
			out = append(out, p)
		}
	}
	return out
}

// Actions returns the task's override chain, oldest (original) first.
func (t *Task) Actions() []*BoundAction { return slices.Clone(t.actions) }
