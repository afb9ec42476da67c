// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"testing"

	"taskweave-cli/pkg/taskdef"
)

func nopAction(_ context.Context, _ taskdef.Arguments, _ any, _ taskdef.RunSuper) (any, error) {
	return nil, nil
}

// definitionBuilder is satisfied by every taskdef builder variant.
type definitionBuilder interface {
	Build() (*taskdef.TaskDefinition, error)
}

func mustBuild(t *testing.T, b definitionBuilder) *taskdef.TaskDefinition {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("building definition: %v", err)
	}
	return def
}

func newTask(t *testing.T, segments ...string) *taskdef.TaskDefinition {
	t.Helper()
	return mustBuild(t, taskdef.NewTask(segments...).Action(nopAction))
}

func TestResolve_NoContributors(t *testing.T) {
	t.Parallel()

	reg, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
	if len(reg.RootTasks()) != 0 {
		t.Errorf("RootTasks() = %d entries, want 0", len(reg.RootTasks()))
	}
}

func TestResolve_Attribution(t *testing.T) {
	t.Parallel()

	reg, err := Resolve([]Contributor{
		{Identity: "pluginA", Tasks: []*taskdef.TaskDefinition{newTask(t, "build")}},
		{Identity: "", Tasks: []*taskdef.TaskDefinition{newTask(t, "lint")}},
	})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	build, err := reg.Lookup("build")
	if err != nil {
		t.Fatalf("Lookup(build): %v", err)
	}
	if build.PluginID() != "pluginA" {
		t.Errorf("build PluginID() = %q, want pluginA", build.PluginID())
	}

	lint, err := reg.Lookup("lint")
	if err != nil {
		t.Fatalf("Lookup(lint): %v", err)
	}
	if lint.PluginID() != "" {
		t.Errorf("config-defined task PluginID() = %q, want empty", lint.PluginID())
	}
}

func TestResolve_RootDerivation(t *testing.T) {
	t.Parallel()

	reg, err := Resolve([]Contributor{{
		Identity: "pluginA",
		Tasks: []*taskdef.TaskDefinition{
			newTask(t, "task1"),
			newTask(t, "task1", "subtask1"),
			newTask(t, "task2"),
		},
	}})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	roots := reg.RootTasks()
	if len(roots) != 2 {
		t.Fatalf("RootTasks() = %d entries, want 2", len(roots))
	}
	if roots[0].ID().String() != "task1" || roots[1].ID().String() != "task2" {
		t.Errorf("RootTasks() order = [%s %s], want [task1 task2]", roots[0].ID(), roots[1].ID())
	}

	sub, err := reg.Lookup("task1.subtask1")
	if err != nil {
		t.Fatalf("Lookup(task1.subtask1): %v", err)
	}
	if sub.IsRoot() {
		t.Error("task1.subtask1 must not be a root")
	}
	if _, err := reg.Lookup("subtask1"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Lookup(subtask1) error = %v, want ErrTaskNotFound", err)
	}

	children := reg.Subtasks(taskdef.TaskID{"task1"})
	if len(children) != 1 || children[0].ID().String() != "task1.subtask1" {
		t.Errorf("Subtasks(task1) = %v, want [task1.subtask1]", children)
	}
}

func TestResolve_TaskAlreadyDefined(t *testing.T) {
	t.Parallel()

	_, err := Resolve([]Contributor{
		{Identity: "pluginA", Tasks: []*taskdef.TaskDefinition{newTask(t, "build")}},
		{Identity: "pluginB", Tasks: []*taskdef.TaskDefinition{newTask(t, "build")}},
	})
	var defined *TaskAlreadyDefinedError
	if !errors.As(err, &defined) {
		t.Fatalf("Resolve() error = %v, want TaskAlreadyDefinedError", err)
	}
	if defined.Contributor != "pluginB" || defined.Owner != "pluginA" {
		t.Errorf("attribution = contributor %q owner %q, want pluginB/pluginA", defined.Contributor, defined.Owner)
	}
}

func TestResolve_SubtaskWithoutParent(t *testing.T) {
	t.Parallel()

	_, err := Resolve([]Contributor{{
		Identity: "pluginA",
		Tasks:    []*taskdef.TaskDefinition{newTask(t, "missing", "child")},
	}})
	if !errors.Is(err, ErrSubtaskWithoutParent) {
		t.Errorf("Resolve() error = %v, want ErrSubtaskWithoutParent", err)
	}
}

func TestResolve_EmptyParentAllowsSubtasks(t *testing.T) {
	t.Parallel()

	reg, err := Resolve([]Contributor{{
		Identity: "pluginA",
		Tasks: []*taskdef.TaskDefinition{
			mustBuild(t, taskdef.EmptyTask("deploy").Description("Deployment tasks")),
			newTask(t, "deploy", "staging"),
		},
	}})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	parent, err := reg.Lookup("deploy")
	if err != nil {
		t.Fatalf("Lookup(deploy): %v", err)
	}
	if !parent.IsEmpty() {
		t.Error("never-overridden empty task should report IsEmpty")
	}
}

func TestResolve_GlobalParamClash(t *testing.T) {
	t.Parallel()

	clashing := mustBuild(t, taskdef.NewTask("build").
		NamedParam("network", taskdef.TypeString).
		Action(nopAction))

	// A different contributor's global declaration blocks the task parameter.
	_, err := Resolve([]Contributor{
		{Identity: "pluginA", GlobalParameters: []GlobalParameter{{Name: "network"}}},
		{Identity: "pluginB", Tasks: []*taskdef.TaskDefinition{clashing}},
	})
	var clash *ParamClashesWithGlobalError
	if !errors.As(err, &clash) {
		t.Fatalf("Resolve() error = %v, want ParamClashesWithGlobalError", err)
	}
	if clash.Param != "network" || clash.DeclaredBy != "pluginA" {
		t.Errorf("clash = %+v, want network declared by pluginA", clash)
	}

	// The declaring contributor may use its own global name on its tasks.
	own := mustBuild(t, taskdef.NewTask("build").
		NamedParam("network", taskdef.TypeString).
		Action(nopAction))
	if _, err := Resolve([]Contributor{
		{Identity: "pluginA", GlobalParameters: []GlobalParameter{{Name: "network"}}, Tasks: []*taskdef.TaskDefinition{own}},
	}); err != nil {
		t.Errorf("same-contributor global reuse should succeed, got %v", err)
	}
}

func TestResolve_OverrideAccumulation(t *testing.T) {
	t.Parallel()

	original := mustBuild(t, taskdef.NewTask("compile").
		Description("Compiles the sources").
		NamedParam("target", taskdef.TypeString).
		Action(nopAction))
	first := mustBuild(t, taskdef.OverrideTask("compile").
		Flag("cache").
		Action(nopAction))
	second := mustBuild(t, taskdef.OverrideTask("compile").
		Description("Compiles with extras").
		NamedParam("extra", taskdef.TypeString, "").
		Action(nopAction))

	reg, err := Resolve([]Contributor{
		{Identity: "pluginA", Tasks: []*taskdef.TaskDefinition{original}},
		{Identity: "pluginB", Tasks: []*taskdef.TaskDefinition{first}},
		{Identity: "pluginC", Tasks: []*taskdef.TaskDefinition{second}},
	})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	task, err := reg.Lookup("compile")
	if err != nil {
		t.Fatalf("Lookup(compile): %v", err)
	}

	actions := task.Actions()
	if len(actions) != 3 {
		t.Fatalf("Actions() = %d entries, want 3 (original + 2 overrides)", len(actions))
	}
	wantOrder := []string{"pluginA", "pluginB", "pluginC"}
	for i, want := range wantOrder {
		if actions[i].PluginID() != want {
			t.Errorf("actions[%d].PluginID() = %q, want %q", i, actions[i].PluginID(), want)
		}
	}

	params := task.Parameters()
	if len(params) != 3 {
		t.Fatalf("Parameters() = %d entries, want 3", len(params))
	}
	if params[0].Name != "target" || params[1].Name != "cache" || params[2].Name != "extra" {
		t.Errorf("parameter order = [%s %s %s], want [target cache extra]", params[0].Name, params[1].Name, params[2].Name)
	}

	// The latest non-empty override description wins; pluginB set none.
	if task.Description().String() != "Compiles with extras" {
		t.Errorf("Description() = %q, want the pluginC override text", task.Description())
	}
	// The original owner is preserved across overrides.
	if task.PluginID() != "pluginA" {
		t.Errorf("PluginID() = %q, want pluginA", task.PluginID())
	}
}

func TestResolve_OverrideParamClash(t *testing.T) {
	t.Parallel()

	kinds := []struct {
		name     string
		original *taskdef.TaskDefinition
	}{
		{
			name: "against named",
			original: mustBuild(t, taskdef.NewTask("job").
				NamedParam("limit", taskdef.TypeInt).Action(nopAction)),
		},
		{
			name: "against flag",
			original: mustBuild(t, taskdef.NewTask("job").
				Flag("limit").Action(nopAction)),
		},
		{
			name: "against positional",
			original: mustBuild(t, taskdef.NewTask("job").
				PositionalParam("limit", taskdef.TypeInt).Action(nopAction)),
		},
		{
			name: "against variadic",
			original: mustBuild(t, taskdef.NewTask("job").
				VariadicParam("limit", taskdef.TypeInt).Action(nopAction)),
		},
	}

	for _, tt := range kinds {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			override := mustBuild(t, taskdef.OverrideTask("job").
				Flag("limit").Action(nopAction))
			_, err := Resolve([]Contributor{
				{Identity: "pluginA", Tasks: []*taskdef.TaskDefinition{tt.original}},
				{Identity: "pluginB", Tasks: []*taskdef.TaskDefinition{override}},
			})
			var clash *OverrideParamAlreadyDefinedError
			if !errors.As(err, &clash) {
				t.Fatalf("Resolve() error = %v, want OverrideParamAlreadyDefinedError", err)
			}
			if clash.Param != "limit" {
				t.Errorf("clash names %q, want limit", clash.Param)
			}
		})
	}
}

func TestResolve_OverrideOrdering(t *testing.T) {
	t.Parallel()

	// An override after its target within the same batch succeeds.
	reg, err := Resolve([]Contributor{{
		Identity: "pluginA",
		Tasks: []*taskdef.TaskDefinition{
			newTask(t, "build"),
			mustBuild(t, taskdef.OverrideTask("build").Action(nopAction)),
		},
	}})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	task, _ := reg.Lookup("build")
	if len(task.Actions()) != 2 {
		t.Errorf("same-batch override: %d actions, want 2", len(task.Actions()))
	}

	// An override before its target fails, naming the id.
	_, err = Resolve([]Contributor{{
		Identity: "pluginA",
		Tasks: []*taskdef.TaskDefinition{
			mustBuild(t, taskdef.OverrideTask("build").Action(nopAction)),
			newTask(t, "build"),
		},
	}})
	var notFound *TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Resolve() error = %v, want TaskNotFoundError", err)
	}
	if notFound.ID.String() != "build" {
		t.Errorf("not-found id = %q, want build", notFound.ID)
	}
}

// Two overrides for one task from the same contributor in one batch
// accumulate like any others; the fold carries no per-contributor dedup.
func TestResolve_SiblingOverridesSameContributor(t *testing.T) {
	t.Parallel()

	reg, err := Resolve([]Contributor{
		{Identity: "pluginA", Tasks: []*taskdef.TaskDefinition{newTask(t, "build")}},
		{Identity: "pluginB", Tasks: []*taskdef.TaskDefinition{
			mustBuild(t, taskdef.OverrideTask("build").Action(nopAction)),
			mustBuild(t, taskdef.OverrideTask("build").Action(nopAction)),
		}},
	})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	task, _ := reg.Lookup("build")
	if len(task.Actions()) != 3 {
		t.Errorf("Actions() = %d, want 3", len(task.Actions()))
	}
}

func TestTask_ParameterViews(t *testing.T) {
	t.Parallel()

	def := mustBuild(t, taskdef.NewTask("render").
		NamedParam("format", taskdef.TypeString).
		Flag("force").
		PositionalParam("input", taskdef.TypeFile).
		VariadicParam("rest", taskdef.TypeString).
		Action(nopAction))
	reg, err := Resolve([]Contributor{{Identity: "pluginA", Tasks: []*taskdef.TaskDefinition{def}}})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	task, _ := reg.Lookup("render")

	named := task.NamedParameters()
	if len(named) != 2 || named[0].Name != "format" || named[1].Name != "force" {
		t.Errorf("NamedParameters() = %v", named)
	}
	positional := task.PositionalParameters()
	if len(positional) != 2 || positional[0].Name != "input" || positional[1].Name != "rest" {
		t.Errorf("PositionalParameters() = %v", positional)
	}
}
