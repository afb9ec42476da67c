// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"taskweave-cli/internal/engine"
	"taskweave-cli/pkg/taskdef"
	"taskweave-cli/pkg/types"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestScriptResolver_LocatorErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "broken.sh", "if then fi\n")
	writeScript(t, dir, "blank.sh", "\n\n")

	tests := []struct {
		name    string
		locator string
		wantErr error
	}{
		{name: "wrong scheme", locator: "exec:do.sh", wantErr: ErrInvalidLocator},
		{name: "empty path", locator: "script: ", wantErr: ErrInvalidLocator},
		{name: "missing file", locator: "script:nope.sh", wantErr: ErrScriptLoad},
		{name: "syntax error", locator: "script:broken.sh", wantErr: ErrScriptSyntax},
		{name: "no commands", locator: "script:blank.sh", wantErr: ErrScriptSyntax},
	}

	resolver := NewScriptResolver(dir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := resolver.ResolveAction(tt.locator)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveAction(%q) error = %v, want %v", tt.locator, err, tt.wantErr)
			}
		})
	}
}

func TestScriptResolver_RunsScript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "greet.sh", `echo "hello $TW_PARAM_TARGET"`+"\n")

	fn, err := NewScriptResolver(dir).ResolveAction("script:greet.sh")
	if err != nil {
		t.Fatalf("ResolveAction() error: %v", err)
	}

	var out bytes.Buffer
	env := &engine.Environment{Out: &out, ErrOut: &bytes.Buffer{}, WorkDir: dir}
	result, err := fn(context.Background(), taskdef.Arguments{"target": "world"}, env, taskdef.RunSuper{})
	if err != nil {
		t.Fatalf("action error: %v", err)
	}
	if result != types.ExitCode(0) {
		t.Errorf("result = %v, want exit code 0", result)
	}
	if got := out.String(); got != "hello world\n" {
		t.Errorf("stdout = %q, want %q", got, "hello world\n")
	}
}

func TestScriptResolver_VariadicPositionals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "list.sh", `echo "$#:$1:$2"`+"\n")

	fn, err := NewScriptResolver(dir).ResolveAction("script:list.sh")
	if err != nil {
		t.Fatalf("ResolveAction() error: %v", err)
	}

	var out bytes.Buffer
	env := &engine.Environment{Out: &out, ErrOut: &bytes.Buffer{}, WorkDir: dir}
	args := taskdef.Arguments{"files": []any{"-v", "b.txt"}}
	if _, err := fn(context.Background(), args, env, taskdef.RunSuper{}); err != nil {
		t.Fatalf("action error: %v", err)
	}
	if got := out.String(); got != "2:-v:b.txt\n" {
		t.Errorf("stdout = %q, want %q", got, "2:-v:b.txt\n")
	}
}

func TestScriptResolver_NonZeroExit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "fail.sh", "exit 3\n")

	fn, err := NewScriptResolver(dir).ResolveAction("script:fail.sh")
	if err != nil {
		t.Fatalf("ResolveAction() error: %v", err)
	}

	env := &engine.Environment{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}, WorkDir: dir}
	result, err := fn(context.Background(), taskdef.Arguments{}, env, taskdef.RunSuper{})
	if !errors.Is(err, ErrScriptExit) {
		t.Fatalf("action error = %v, want ErrScriptExit", err)
	}
	var exitErr *ScriptExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitCode(3) {
		t.Errorf("exit error = %+v, want code 3", exitErr)
	}
	if result != types.ExitCode(3) {
		t.Errorf("result = %v, want exit code 3", result)
	}
}
