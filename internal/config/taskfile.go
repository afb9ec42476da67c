// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"taskweave-cli/internal/registry"
	"taskweave-cli/pkg/cueutil"
	"taskweave-cli/pkg/taskdef"
	"taskweave-cli/pkg/types"
)

//go:embed taskfile_schema.cue
var taskfileSchema string

// ErrInvalidTaskDecl is the sentinel error wrapped by InvalidTaskDeclError.
var ErrInvalidTaskDecl = errors.New("invalid task declaration")

type (
	// Taskfile is the decoded form of a project taskfile. Its declarations
	// fold into the task registry as the final contributor, after every
	// plugin.
	Taskfile struct {
		GlobalParams []GlobalParamDecl `json:"global_params,omitempty"`
		Tasks        []TaskDecl        `json:"tasks,omitempty"`
	}

	// GlobalParamDecl reserves a parameter name across every task.
	GlobalParamDecl struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}

	// TaskDecl declares one task. Kind defaults to "new"; empty tasks carry
	// neither script nor parameters, and overrides may only add named
	// parameters and flags.
	TaskDecl struct {
		Name        string      `json:"name"`
		Kind        string      `json:"kind"`
		Description string      `json:"description,omitempty"`
		Script      string      `json:"script,omitempty"`
		Params      []ParamDecl `json:"params,omitempty"`
		Flags       []string    `json:"flags,omitempty"`
	}

	// ParamDecl declares one parameter of a task.
	ParamDecl struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Kind    string `json:"kind"`
		Default any    `json:"default,omitempty"`
	}

	// InvalidTaskDeclError is returned when a task declaration combines
	// fields its kind does not allow.
	InvalidTaskDeclError struct {
		Task   string
		Detail string
	}
)

// Error implements the error interface.
func (e *InvalidTaskDeclError) Error() string {
	return fmt.Sprintf("task %q: %s", e.Task, e.Detail)
}

// Unwrap returns ErrInvalidTaskDecl for errors.Is() compatibility.
func (e *InvalidTaskDeclError) Unwrap() error { return ErrInvalidTaskDecl }

// LoadTaskfile reads and decodes the taskfile at path against the embedded
// schema.
func LoadTaskfile(path string) (*Taskfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taskfile: %w", err)
	}
	res, err := cueutil.ParseAndDecode[Taskfile]([]byte(taskfileSchema), data, "#Taskfile", cueutil.WithFilename(filepath.Base(path)))
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Contributor converts the taskfile into the configuration's registry
// contribution. Its identity is empty: the configuration is not a plugin.
func (tf *Taskfile) Contributor() (registry.Contributor, error) {
	defs, err := tf.Definitions()
	if err != nil {
		return registry.Contributor{}, err
	}

	globals := make([]registry.GlobalParameter, 0, len(tf.GlobalParams))
	for _, g := range tf.GlobalParams {
		globals = append(globals, registry.GlobalParameter{Name: g.Name, Description: types.DescriptionText(g.Description)})
	}

	return registry.Contributor{
		Identity:         "",
		Tasks:            defs,
		GlobalParameters: globals,
	}, nil
}

// Definitions converts every task declaration into a built task definition,
// in declaration order.
func (tf *Taskfile) Definitions() ([]*taskdef.TaskDefinition, error) {
	defs := make([]*taskdef.TaskDefinition, 0, len(tf.Tasks))
	for _, decl := range tf.Tasks {
		def, err := decl.build()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (d TaskDecl) build() (*taskdef.TaskDefinition, error) {
	id, err := taskdef.ParseTaskID(d.Name)
	if err != nil {
		return nil, err
	}

	switch d.Kind {
	case "", "new":
		return d.buildNew(id)
	case "override":
		return d.buildOverride(id)
	case "empty":
		return d.buildEmpty(id)
	default:
		return nil, &InvalidTaskDeclError{Task: d.Name, Detail: fmt.Sprintf("unknown kind %q", d.Kind)}
	}
}

func (d TaskDecl) buildNew(id taskdef.TaskID) (*taskdef.TaskDefinition, error) {
	b := taskdef.NewTask(id.Segments()...)
	if d.Description != "" {
		b.Description(d.Description)
	}
	for _, p := range d.Params {
		t := taskdef.ParamType(p.Type)
		def, hasDefault, err := normalizeDefault(d.Name, p, t)
		if err != nil {
			return nil, err
		}
		switch p.Kind {
		case "", "named":
			if hasDefault {
				b.NamedParamWithDefault(p.Name, t, def)
			} else {
				b.NamedParam(p.Name, t)
			}
		case "positional":
			if hasDefault {
				b.PositionalParamWithDefault(p.Name, t, def)
			} else {
				b.PositionalParam(p.Name, t)
			}
		case "variadic":
			if hasDefault {
				seq, ok := def.([]any)
				if !ok {
					return nil, &InvalidTaskDeclError{Task: d.Name, Detail: fmt.Sprintf("variadic parameter %q default must be a list", p.Name)}
				}
				b.VariadicParamWithDefault(p.Name, t, seq)
			} else {
				b.VariadicParam(p.Name, t)
			}
		default:
			return nil, &InvalidTaskDeclError{Task: d.Name, Detail: fmt.Sprintf("parameter %q has unknown kind %q", p.Name, p.Kind)}
		}
	}
	for _, flag := range d.Flags {
		b.Flag(flag)
	}
	if d.Script == "" {
		return nil, &InvalidTaskDeclError{Task: d.Name, Detail: "a new task needs a script"}
	}
	b.ActionRef("script:" + d.Script)
	return b.Build()
}

func (d TaskDecl) buildOverride(id taskdef.TaskID) (*taskdef.TaskDefinition, error) {
	b := taskdef.OverrideTask(id.Segments()...)
	if d.Description != "" {
		b.Description(d.Description)
	}
	for _, p := range d.Params {
		if p.Kind != "" && p.Kind != "named" {
			return nil, &InvalidTaskDeclError{Task: d.Name, Detail: fmt.Sprintf("override parameter %q must be named; overrides cannot change the positional shape", p.Name)}
		}
		t := taskdef.ParamType(p.Type)
		def, hasDefault, err := normalizeDefault(d.Name, p, t)
		if err != nil {
			return nil, err
		}
		if !hasDefault {
			return nil, &InvalidTaskDeclError{Task: d.Name, Detail: fmt.Sprintf("override parameter %q needs a default value", p.Name)}
		}
		b.NamedParam(p.Name, t, def)
	}
	for _, flag := range d.Flags {
		b.Flag(flag)
	}
	if d.Script == "" {
		return nil, &InvalidTaskDeclError{Task: d.Name, Detail: "an override needs a script"}
	}
	b.ActionRef("script:" + d.Script)
	return b.Build()
}

func (d TaskDecl) buildEmpty(id taskdef.TaskID) (*taskdef.TaskDefinition, error) {
	if d.Script != "" || len(d.Params) > 0 || len(d.Flags) > 0 {
		return nil, &InvalidTaskDeclError{Task: d.Name, Detail: "an empty task carries neither script nor parameters"}
	}
	b := taskdef.EmptyTask(id.Segments()...)
	if d.Description != "" {
		b.Description(d.Description)
	}
	return b.Build()
}

// normalizeDefault adapts a CUE-decoded default value to the parameter type.
// Bigint defaults may be written as integers or decimal strings; both become
// *big.Int.
func normalizeDefault(task string, p ParamDecl, t taskdef.ParamType) (any, bool, error) {
	if p.Default == nil {
		return nil, false, nil
	}
	if t != taskdef.TypeBigInt {
		return p.Default, true, nil
	}
	switch v := p.Default.(type) {
	case int:
		return big.NewInt(int64(v)), true, nil
	case int64:
		return big.NewInt(v), true, nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, false, &InvalidTaskDeclError{Task: task, Detail: fmt.Sprintf("bigint default %q for parameter %s is not a decimal integer", v, p.Name)}
		}
		return n, true, nil
	default:
		return nil, false, &InvalidTaskDeclError{Task: task, Detail: fmt.Sprintf("bigint default %v for parameter %s must be an integer or decimal string", v, p.Name)}
	}
}
