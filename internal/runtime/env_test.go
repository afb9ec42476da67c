// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"math/big"
	"reflect"
	"testing"

	"taskweave-cli/pkg/taskdef"
)

func TestEncodeArguments(t *testing.T) {
	t.Parallel()

	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	a := taskdef.Arguments{
		"target":    "dist",
		"verbose":   true,
		"jobs":      4,
		"ratio":     0.5,
		"gas-limit": huge,
		"files":     []any{"a.txt", "b.txt"},
	}

	vars, positional, err := EncodeArguments(a)
	if err != nil {
		t.Fatalf("EncodeArguments() returned error: %v", err)
	}

	wantVars := []string{
		"TW_PARAM_FILES=a.txt b.txt",
		"TW_PARAM_GAS_LIMIT=123456789012345678901234567890",
		"TW_PARAM_JOBS=4",
		"TW_PARAM_RATIO=0.5",
		"TW_PARAM_TARGET=dist",
		"TW_PARAM_VERBOSE=true",
	}
	if !reflect.DeepEqual(vars, wantVars) {
		t.Errorf("vars = %v, want %v", vars, wantVars)
	}
	if !reflect.DeepEqual(positional, []string{"a.txt", "b.txt"}) {
		t.Errorf("positional = %v, want [a.txt b.txt]", positional)
	}
}

func TestEncodeArguments_Empty(t *testing.T) {
	t.Parallel()

	vars, positional, err := EncodeArguments(taskdef.Arguments{})
	if err != nil {
		t.Fatalf("EncodeArguments() returned error: %v", err)
	}
	if len(vars) != 0 || len(positional) != 0 {
		t.Errorf("empty arguments produced vars=%v positional=%v", vars, positional)
	}
}

func TestEncodeArguments_NameCollision(t *testing.T) {
	t.Parallel()

	a := taskdef.Arguments{
		"gas-limit": 1,
		"gas_limit": 2,
	}

	_, _, err := EncodeArguments(a)
	if !errors.Is(err, ErrEnvNameCollision) {
		t.Fatalf("EncodeArguments() error = %v, want ErrEnvNameCollision", err)
	}
	var collision *EnvNameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("EncodeArguments() error = %T, want *EnvNameCollisionError", err)
	}
	if collision.EnvVar != "TW_PARAM_GAS_LIMIT" {
		t.Errorf("EnvVar = %q, want TW_PARAM_GAS_LIMIT", collision.EnvVar)
	}
	if collision.First != "gas-limit" || collision.Second != "gas_limit" {
		t.Errorf("collision names = %q/%q, want gas-limit/gas_limit", collision.First, collision.Second)
	}
}

func TestEncodeArguments_VariadicBoundaries(t *testing.T) {
	t.Parallel()

	a := taskdef.Arguments{
		"files": []any{"a file.txt", "b.txt"},
	}

	vars, positional, err := EncodeArguments(a)
	if err != nil {
		t.Fatalf("EncodeArguments() returned error: %v", err)
	}
	// The joined variable cannot distinguish a space inside an element from
	// the separator; the positionals keep the boundaries.
	if !reflect.DeepEqual(vars, []string{"TW_PARAM_FILES=a file.txt b.txt"}) {
		t.Errorf("vars = %v, want the space-joined form", vars)
	}
	if !reflect.DeepEqual(positional, []string{"a file.txt", "b.txt"}) {
		t.Errorf("positional = %v, want the elements intact", positional)
	}
}

func TestFilterParamEnvVars(t *testing.T) {
	t.Parallel()

	in := []string{
		"PATH=/usr/bin",
		"TW_PARAM_TARGET=dist",
		"TW_PARAMISH=keep",
		"HOME=/root",
	}
	got := FilterParamEnvVars(in)
	want := []string{"PATH=/usr/bin", "TW_PARAMISH=keep", "HOME=/root"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterParamEnvVars() = %v, want %v", got, want)
	}
}
