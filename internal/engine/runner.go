// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"taskweave-cli/internal/args"
	"taskweave-cli/internal/registry"
	"taskweave-cli/pkg/taskdef"
)

// ErrEmptyTask is the sentinel error wrapped by EmptyTaskError.
var ErrEmptyTask = errors.New("empty task cannot be run")

type (
	// EmptyTaskError is returned when an EMPTY task that was never
	// overridden is invoked.
	EmptyTaskError struct {
		ID taskdef.TaskID
	}

	// Invocation is the record of one task run: its terminal state, the
	// outermost action's result, and the failure, if any. Each invocation
	// builds its own closures; concurrent invocations of the same task are
	// independent.
	Invocation struct {
		Task   *registry.Task
		State  RunState
		Result any
		Err    error
	}

	// Runner executes resolved tasks against a read-only registry. The
	// resolver turns reference actions into invocables; the environment is
	// handed to actions opaquely.
	Runner struct {
		registry *registry.Registry
		resolver registry.ActionResolver
		env      *Environment
		logger   *log.Logger
	}

	// invoker runs one chain position with the caller's finalized arguments.
	invoker func(ctx context.Context, a taskdef.Arguments) (any, error)
)

// Error implements the error interface.
func (e *EmptyTaskError) Error() string {
	return fmt.Sprintf("task %q is an empty placeholder: define an action or override it before running", e.ID)
}

// Unwrap returns ErrEmptyTask for errors.Is() compatibility.
func (e *EmptyTaskError) Unwrap() error { return ErrEmptyTask }

// NewRunner builds a Runner. A nil environment gets a default bound to the
// process streams; a nil logger gets the package default.
func NewRunner(reg *registry.Registry, resolver registry.ActionResolver, env *Environment, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if env == nil {
		env = NewEnvironment(logger)
	}
	return &Runner{registry: reg, resolver: resolver, env: env, logger: logger}
}

// Run looks up the task registered under the dot-joined name and invokes it.
func (r *Runner) Run(ctx context.Context, name string, raw map[string]any) (any, error) {
	task, err := r.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return r.RunTask(ctx, task, raw)
}

// RunTask invokes the given task with the raw argument bag. The result is
// whatever the outermost action returns.
func (r *Runner) RunTask(ctx context.Context, task *registry.Task, raw map[string]any) (any, error) {
	inv := r.Invoke(ctx, task, raw)
	return inv.Result, inv.Err
}

// Invoke runs the full invocation lifecycle and returns its record:
// pending → validating → {failed-validation | running} →
// {failed-runtime | completed}. A validation failure never starts the chain.
func (r *Runner) Invoke(ctx context.Context, task *registry.Task, raw map[string]any) *Invocation {
	inv := &Invocation{Task: task, State: RunPending}

	inv.State = RunValidating
	if task.IsEmpty() {
		inv.State = RunFailedValidation
		inv.Err = &EmptyTaskError{ID: task.ID()}
		return inv
	}
	finalized, err := args.Resolve(task.Parameters(), raw)
	if err != nil {
		inv.State = RunFailedValidation
		inv.Err = err
		return inv
	}

	inv.State = RunRunning
	r.logger.Debug("running task", "task", task.ID().String(), "actions", len(task.Actions()))
	result, err := r.runChain(ctx, task, finalized)
	if err != nil {
		inv.State = RunFailedRuntime
		inv.Err = err
		return inv
	}
	inv.State = RunCompleted
	inv.Result = result
	return inv
}

// runChain builds one bound invoker per chain position, oldest first, wires
// each override's run-super delegate to the invoker below it, and calls the
// outermost (most recent) one. An override that never calls its delegate
// short-circuits the rest of the chain.
func (r *Runner) runChain(ctx context.Context, task *registry.Task, finalized taskdef.Arguments) (any, error) {
	actions := task.Actions()
	invokers := make([]invoker, len(actions))

	for i, bound := range actions {
		var super taskdef.RunSuper
		if i > 0 {
			older := invokers[i-1]
			super = taskdef.NewRunSuper(func(superCtx context.Context, override taskdef.Arguments) (any, error) {
				return older(superCtx, override)
			})
		}
		invokers[i] = func(callCtx context.Context, callArgs taskdef.Arguments) (any, error) {
			fn, err := bound.Invocable(r.resolver)
			if err != nil {
				return nil, err
			}
			boundSuper := super
			if boundSuper.Defined() {
				// A nil delegate argument inherits this call's finalized args.
				inherited := callArgs
				boundSuper = taskdef.NewRunSuper(func(superCtx context.Context, override taskdef.Arguments) (any, error) {
					if override == nil {
						override = inherited
					}
					return super.Run(superCtx, override)
				})
			}
			return fn(callCtx, callArgs, r.env, boundSuper)
		}
	}

	return invokers[len(invokers)-1](ctx, finalized)
}
