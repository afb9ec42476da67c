// SPDX-License-Identifier: MPL-2.0

package taskdef

import (
	"context"
	"errors"
	"maps"
)

// ErrRunSuperUndefined is returned when the original action in an override
// chain invokes its run-super delegate. Only overrides have an older action
// to delegate to.
var ErrRunSuperUndefined = errors.New("run-super is not defined for the original action")

type (
	// Arguments is the finalized name→value mapping handed to actions after
	// validation and default application. Every declared parameter of the
	// task is bound; no extraneous keys are present.
	Arguments map[string]any

	// RunSuperFunc invokes the next-older action in an override chain.
	// A nil args inherits the caller's finalized arguments.
	RunSuperFunc func(ctx context.Context, args Arguments) (any, error)

	// RunSuper is the delegate an override action calls to run the action it
	// overrode. The zero value is the undefined delegate handed to the
	// original action: Defined() reports false and Run fails.
	RunSuper struct {
		fn RunSuperFunc
	}

	// ActionFunc is the shape of every invocable action. env is the runtime
	// environment object; the orchestration core passes it through opaquely.
	// runSuper is undefined for the original action of a task.
	ActionFunc func(ctx context.Context, args Arguments, env any, runSuper RunSuper) (any, error)

	// Action is the polymorphic action of a task definition: an in-process
	// function, an opaque locator resolved to a function at first invocation,
	// or the empty sentinel of an EMPTY task.
	Action struct {
		fn      ActionFunc
		locator string
		empty   bool
	}
)

// Clone returns a shallow copy of the arguments.
func (a Arguments) Clone() Arguments {
	return maps.Clone(a)
}

// NewRunSuper builds a defined delegate bound to the given function.
func NewRunSuper(fn RunSuperFunc) RunSuper {
	return RunSuper{fn: fn}
}

// Defined reports whether the delegate has an older action to invoke.
func (r RunSuper) Defined() bool { return r.fn != nil }

// Run invokes the next-older action. It fails with ErrRunSuperUndefined when
// called on the undefined delegate of an original action.
func (r RunSuper) Run(ctx context.Context, args Arguments) (any, error) {
	if r.fn == nil {
		return nil, ErrRunSuperUndefined
	}
	return r.fn(ctx, args)
}

// InlineAction wraps an in-process function as an Action.
func InlineAction(fn ActionFunc) Action {
	return Action{fn: fn}
}

// ReferenceAction wraps an opaque locator as an Action. The locator is
// resolved to an invocable lazily, at the task's first invocation.
func ReferenceAction(locator string) Action {
	return Action{locator: locator}
}

// EmptyAction returns the sentinel action of an EMPTY task definition.
func EmptyAction() Action {
	return Action{empty: true}
}

// IsInline reports whether the action is an in-process function.
func (a Action) IsInline() bool { return a.fn != nil }

// IsReference reports whether the action is an unresolved locator.
func (a Action) IsReference() bool { return a.locator != "" }

// IsEmpty reports whether the action is the empty sentinel.
func (a Action) IsEmpty() bool { return a.empty }

// IsZero reports whether no action variant was ever set.
func (a Action) IsZero() bool { return a.fn == nil && a.locator == "" && !a.empty }

// Func returns the inline function, or nil for reference and empty actions.
func (a Action) Func() ActionFunc { return a.fn }

// Locator returns the reference locator, or "" for inline and empty actions.
func (a Action) Locator() string { return a.locator }
