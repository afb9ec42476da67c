// SPDX-License-Identifier: MPL-2.0

package args

import (
	"errors"
	"math/big"
	"testing"

	"taskweave-cli/pkg/taskdef"
)

func schemaOf(params ...taskdef.Parameter) []taskdef.Parameter { return params }

func named(name string, t taskdef.ParamType) taskdef.Parameter {
	return taskdef.Parameter{Name: name, Type: t, Kind: taskdef.KindNamed}
}

func namedWithDefault(name string, t taskdef.ParamType, def any) taskdef.Parameter {
	return taskdef.Parameter{Name: name, Type: t, Kind: taskdef.KindNamed, Default: def, HasDefault: true}
}

func flag(name string) taskdef.Parameter {
	return taskdef.Parameter{Name: name, Type: taskdef.TypeBoolean, Kind: taskdef.KindFlag, Default: false, HasDefault: true}
}

func variadic(name string, elem taskdef.ParamType) taskdef.Parameter {
	return taskdef.Parameter{Name: name, Type: elem, Kind: taskdef.KindVariadic}
}

func TestResolve_BindsAndDefaults(t *testing.T) {
	t.Parallel()

	schema := schemaOf(
		named("target", taskdef.TypeString),
		namedWithDefault("jobs", taskdef.TypeInt, 4),
		flag("verbose"),
	)

	got, err := Resolve(schema, map[string]any{"target": "all"})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got["target"] != "all" {
		t.Errorf("target = %v, want all", got["target"])
	}
	if got["jobs"] != 4 {
		t.Errorf("jobs = %v, want default 4", got["jobs"])
	}
	if got["verbose"] != false {
		t.Errorf("omitted flag = %v, want false", got["verbose"])
	}
	if len(got) != 3 {
		t.Errorf("resolved %d keys, want exactly the declared 3", len(got))
	}
}

func TestResolve_MissingRequired(t *testing.T) {
	t.Parallel()

	_, err := Resolve(schemaOf(named("target", taskdef.TypeString)), nil)
	var missing *MissingValueError
	if !errors.As(err, &missing) {
		t.Fatalf("Resolve() error = %v, want MissingValueError", err)
	}
	if missing.Param != "target" {
		t.Errorf("missing param = %q, want target", missing.Param)
	}
}

func TestResolve_Unrecognized(t *testing.T) {
	t.Parallel()

	_, err := Resolve(schemaOf(flag("verbose")), map[string]any{"verbose": true, "bogus": 1})
	var unrecognized *UnrecognizedParamError
	if !errors.As(err, &unrecognized) {
		t.Fatalf("Resolve() error = %v, want UnrecognizedParamError", err)
	}
	if unrecognized.Param != "bogus" {
		t.Errorf("unrecognized param = %q, want bogus", unrecognized.Param)
	}
}

func TestResolve_TypeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema []taskdef.Parameter
		raw    map[string]any
		ok     bool
	}{
		{
			name:   "bigint accepts *big.Int",
			schema: schemaOf(named("amount", taskdef.TypeBigInt)),
			raw:    map[string]any{"amount": big.NewInt(1000)},
			ok:     true,
		},
		{
			name:   "bigint rejects plain int",
			schema: schemaOf(named("amount", taskdef.TypeBigInt)),
			raw:    map[string]any{"amount": 1000},
		},
		{
			name:   "int rejects fractional",
			schema: schemaOf(named("count", taskdef.TypeInt)),
			raw:    map[string]any{"count": 1.5},
		},
		{
			name:   "boolean rejects string",
			schema: schemaOf(named("flagged", taskdef.TypeBoolean)),
			raw:    map[string]any{"flagged": "true"},
		},
		{
			name:   "file accepts path string",
			schema: schemaOf(named("input", taskdef.TypeFile)),
			raw:    map[string]any{"input": "data/in.txt"},
			ok:     true,
		},
		{
			name:   "variadic rejects non-sequence",
			schema: schemaOf(variadic("rest", taskdef.TypeString)),
			raw:    map[string]any{"rest": "alone"},
		},
		{
			name:   "variadic rejects one wrong element",
			schema: schemaOf(variadic("rest", taskdef.TypeString)),
			raw:    map[string]any{"rest": []any{"a", 2, "c"}},
		},
		{
			name:   "variadic accepts homogeneous sequence",
			schema: schemaOf(variadic("rest", taskdef.TypeString)),
			raw:    map[string]any{"rest": []any{"a", "b"}},
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Resolve(tt.schema, tt.raw)
			if tt.ok {
				if err != nil {
					t.Errorf("Resolve() unexpected error: %v", err)
				}
				return
			}
			var invalid *InvalidValueError
			if !errors.As(err, &invalid) {
				t.Fatalf("Resolve() error = %v, want InvalidValueError", err)
			}
			if invalid.Param == "" || invalid.Type == "" {
				t.Errorf("error must name parameter and type: %+v", invalid)
			}
		})
	}
}

func TestResolve_VariadicErrorReportsWholeSequence(t *testing.T) {
	t.Parallel()

	seq := []any{"a", 2}
	_, err := Resolve(schemaOf(variadic("rest", taskdef.TypeString)), map[string]any{"rest": seq})
	var invalid *InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("Resolve() error = %v, want InvalidValueError", err)
	}
	got, ok := invalid.Value.([]any)
	if !ok || len(got) != 2 {
		t.Errorf("error value = %v, want the whole offending sequence", invalid.Value)
	}
}

func TestResolve_VariadicDefaultIsCopied(t *testing.T) {
	t.Parallel()

	def := []any{"x", "y"}
	schema := schemaOf(taskdef.Parameter{
		Name: "rest", Type: taskdef.TypeString, Kind: taskdef.KindVariadic,
		Default: def, HasDefault: true,
	})

	got, err := Resolve(schema, nil)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	bound := got["rest"].([]any)
	bound[0] = "mutated"
	if def[0] != "x" {
		t.Error("mutating the resolved sequence must not affect the schema default")
	}
}
