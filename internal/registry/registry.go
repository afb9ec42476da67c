// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"taskweave-cli/pkg/taskdef"
	"taskweave-cli/pkg/types"
)

type (
	// GlobalParameter is a contributor-level parameter declaration. The
	// registry records declared names to detect clashes with task-level
	// parameters from other contributors; value handling is the CLI
	// front-end's business.
	GlobalParameter struct {
		Name        string
		Description types.DescriptionText
	}

	// Contributor is one ordered source of task definitions and global
	// parameter declarations: a plugin (Identity set) or the configuration
	// (Identity empty, always last).
	Contributor struct {
		Identity         string
		Tasks            []*taskdef.TaskDefinition
		GlobalParameters []GlobalParameter
	}

	// Registry is the resolved task graph. It is read-only after Resolve;
	// concurrent lookups need no synchronization.
	Registry struct {
		tasks   map[string]*Task
		order   []string
		globals map[string]string
	}
)

// Resolve folds the contributors, strictly in the given order, into a
// resolved registry. Each contributor's global parameter declarations are
// recorded before its task definitions are processed. Any conflict aborts
// the fold; no partial registry is returned.
func Resolve(contributors []Contributor) (*Registry, error) {
	reg := &Registry{
		tasks:   make(map[string]*Task),
		order:   make([]string, 0),
		globals: make(map[string]string),
	}

	for _, contributor := range contributors {
		for _, gp := range contributor.GlobalParameters {
			if _, taken := reg.globals[gp.Name]; !taken {
				reg.globals[gp.Name] = contributor.Identity
			}
		}

		for _, def := range contributor.Tasks {
			var err error
			switch def.Kind() {
			case taskdef.KindOverride:
				err = reg.applyOverride(def, contributor.Identity)
			default:
				err = reg.insertTask(def, contributor.Identity)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return reg, nil
}

// insertTask registers a NEW or EMPTY definition as a fresh task.
func (r *Registry) insertTask(def *taskdef.TaskDefinition, identity string) error {
	id := def.ID()
	if len(id) == 0 {
		return &taskdef.EmptyTaskIDError{}
	}
	key := id.String()

	if existing, taken := r.tasks[key]; taken {
		return &TaskAlreadyDefinedError{ID: id, Contributor: identity, Owner: existing.pluginID}
	}
	if parent := id.Parent(); parent != nil {
		if _, found := r.tasks[parent.String()]; !found {
			return &SubtaskWithoutParentError{ID: id, Contributor: identity}
		}
	}

	params := def.Parameters()
	for _, p := range params {
		if p.Kind.IsPositional() {
			continue
		}
		if declarer, declared := r.globals[p.Name]; declared && declarer != identity {
			return &ParamClashesWithGlobalError{ID: id, Param: p.Name, Contributor: identity, DeclaredBy: declarer}
		}
	}

	r.tasks[key] = &Task{
		id:          id,
		description: def.Description(),
		pluginID:    identity,
		params:      params,
		actions:     []*BoundAction{{action: def.Action(), pluginID: identity, taskID: id}},
	}
	r.order = append(r.order, key)
	return nil
}

// applyOverride layers an OVERRIDE definition onto an already-registered
// task: the action is appended to the chain, added parameters are merged
// into the schema, and a non-empty description replaces the current one.
func (r *Registry) applyOverride(def *taskdef.TaskDefinition, identity string) error {
	id := def.ID()
	target, found := r.tasks[id.String()]
	if !found {
		return &TaskNotFoundError{ID: id}
	}

	added := def.Parameters()
	for _, p := range added {
		for _, existing := range target.params {
			if existing.Name == p.Name {
				return &OverrideParamAlreadyDefinedError{ID: id, Param: p.Name, Contributor: identity}
			}
		}
	}

	target.params = append(target.params, added...)
	target.actions = append(target.actions, &BoundAction{action: def.Action(), pluginID: identity, taskID: id})
	if !def.Description().IsEmpty() {
		target.description = def.Description()
	}
	return nil
}

// Get returns the task registered under the given id.
func (r *Registry) Get(id taskdef.TaskID) (*Task, error) {
	task, found := r.tasks[id.String()]
	if !found {
		return nil, &TaskNotFoundError{ID: id}
	}
	return task, nil
}

// Lookup parses the canonical dot-joined id form and returns the task
// registered under it.
func (r *Registry) Lookup(name string) (*Task, error) {
	id, err := taskdef.ParseTaskID(name)
	if err != nil {
		return nil, err
	}
	return r.Get(id)
}

// Tasks returns every registered task in registration order.
func (r *Registry) Tasks() []*Task {
	out := make([]*Task, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.tasks[key])
	}
	return out
}

// RootTasks returns, in registration order, every task whose id has exactly
// one segment.
func (r *Registry) RootTasks() []*Task {
	var out []*Task
	for _, key := range r.order {
		if task := r.tasks[key]; task.IsRoot() {
			out = append(out, task)
		}
	}
	return out
}

// Subtasks returns, in registration order, the direct children of the given
// task id.
func (r *Registry) Subtasks(id taskdef.TaskID) []*Task {
	var out []*Task
	for _, key := range r.order {
		task := r.tasks[key]
		if parent := task.id.Parent(); parent != nil && parent.Equals(id) {
			out = append(out, task)
		}
	}
	return out
}

// GlobalParamDeclarer returns the identity of the contributor that declared
// the given global parameter name, and whether any contributor declared it.
func (r *Registry) GlobalParamDeclarer(name string) (string, bool) {
	identity, declared := r.globals[name]
	return identity, declared
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int { return len(r.tasks) }
