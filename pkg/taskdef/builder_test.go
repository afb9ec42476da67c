// SPDX-License-Identifier: MPL-2.0

package taskdef

import (
	"context"
	"errors"
	"testing"
)

func nopAction(_ context.Context, _ Arguments, _ any, _ RunSuper) (any, error) {
	return nil, nil
}

func TestNewTask_Build(t *testing.T) {
	t.Parallel()

	def, err := NewTask("compile").
		Description("Compiles the sources").
		NamedParam("target", TypeString).
		NamedParamWithDefault("jobs", TypeInt, 4).
		Flag("verbose").
		PositionalParam("input", TypeFile).
		VariadicParam("extra", TypeString).
		Action(nopAction).
		Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if def.Kind() != KindNew {
		t.Errorf("Kind() = %v, want KindNew", def.Kind())
	}
	if def.ID().String() != "compile" {
		t.Errorf("ID() = %q, want compile", def.ID())
	}
	if !def.Action().IsInline() {
		t.Error("action should be inline")
	}

	params := def.Parameters()
	if len(params) != 5 {
		t.Fatalf("expected 5 parameters, got %d", len(params))
	}
	if params[2].Kind != KindFlag || params[2].Default != false || !params[2].HasDefault {
		t.Errorf("flag parameter should default to false: %+v", params[2])
	}
	if params[3].Position != 0 || params[4].Position != 1 {
		t.Errorf("positional ordinals wrong: input=%d extra=%d", params[3].Position, params[4].Position)
	}
}

func TestNewTask_ShapeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		build   func() (*TaskDefinition, error)
		wantErr error
	}{
		{
			name:    "empty id",
			build:   func() (*TaskDefinition, error) { return NewTask().Action(nopAction).Build() },
			wantErr: ErrEmptyTaskID,
		},
		{
			name: "missing action",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").NamedParam("target", TypeString).Build()
			},
			wantErr: ErrMissingAction,
		},
		{
			name: "duplicate name across kinds",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").NamedParam("x", TypeString).Flag("x").Action(nopAction).Build()
			},
			wantErr: ErrDuplicateParam,
		},
		{
			name: "positional after variadic",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").
					VariadicParam("rest", TypeString).
					PositionalParam("late", TypeString).
					Action(nopAction).Build()
			},
			wantErr: ErrVariadicNotLast,
		},
		{
			name: "second variadic",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").
					VariadicParam("rest", TypeString).
					VariadicParam("more", TypeString).
					Action(nopAction).Build()
			},
			wantErr: ErrMultipleVariadic,
		},
		{
			name: "invalid parameter name",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").NamedParam("1bad", TypeString).Action(nopAction).Build()
			},
			wantErr: ErrInvalidParamName,
		},
		{
			name: "default of wrong type",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").NamedParamWithDefault("jobs", TypeInt, "four").Action(nopAction).Build()
			},
			wantErr: ErrInvalidDefault,
		},
		{
			name: "variadic default not a sequence",
			build: func() (*TaskDefinition, error) {
				return NewTask("build").
					VariadicParamWithDefault("rest", TypeString, nil).
					Action(nopAction).Build()
			},
			wantErr: ErrInvalidDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.build()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// A defaulted positional parameter may precede a required one. The builder
// accepts the ordering as-is; callers own the consequences.
func TestNewTask_DefaultedPositionalBeforeRequired(t *testing.T) {
	t.Parallel()

	def, err := NewTask("build").
		PositionalParamWithDefault("mode", TypeString, "debug").
		PositionalParam("target", TypeString).
		Action(nopAction).
		Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	params := def.Parameters()
	if !params[0].HasDefault || params[1].HasDefault {
		t.Error("expected defaulted positional followed by required positional")
	}
}

func TestOverrideTask_Build(t *testing.T) {
	t.Parallel()

	def, err := OverrideTask("compile").
		Description("Compiles with caching").
		NamedParam("cache-dir", TypeString, ".cache").
		Flag("no-cache").
		Action(nopAction).
		Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if def.Kind() != KindOverride {
		t.Errorf("Kind() = %v, want KindOverride", def.Kind())
	}
	for _, p := range def.Parameters() {
		if !p.HasDefault {
			t.Errorf("override-added parameter %q must carry a default", p.Name)
		}
	}

	if _, err := OverrideTask("compile").Build(); !errors.Is(err, ErrMissingAction) {
		t.Errorf("override without action error = %v, want ErrMissingAction", err)
	}
}

func TestEmptyTask_Build(t *testing.T) {
	t.Parallel()

	def, err := EmptyTask("deploy").Description("Deployment namespace").Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if def.Kind() != KindEmpty {
		t.Errorf("Kind() = %v, want KindEmpty", def.Kind())
	}
	if !def.Action().IsEmpty() {
		t.Error("empty task should carry the empty sentinel action")
	}
	if len(def.Parameters()) != 0 {
		t.Error("empty task should carry no parameters")
	}

	// Non-leaf ids are fine: the placeholder becomes a namespace parent.
	if _, err := EmptyTask("deploy", "staging").Build(); err != nil {
		t.Errorf("nested empty task unexpected error: %v", err)
	}
}

func TestRunSuper(t *testing.T) {
	t.Parallel()

	var undefined RunSuper
	if undefined.Defined() {
		t.Error("zero RunSuper should be undefined")
	}
	if _, err := undefined.Run(context.Background(), nil); !errors.Is(err, ErrRunSuperUndefined) {
		t.Errorf("undefined Run() error = %v, want ErrRunSuperUndefined", err)
	}

	called := false
	rs := NewRunSuper(func(_ context.Context, _ Arguments) (any, error) {
		called = true
		return "older", nil
	})
	if !rs.Defined() {
		t.Error("constructed RunSuper should be defined")
	}
	res, err := rs.Run(context.Background(), nil)
	if err != nil || res != "older" || !called {
		t.Errorf("Run() = (%v, %v), called=%v", res, err, called)
	}
}
