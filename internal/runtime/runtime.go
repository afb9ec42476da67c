// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"taskweave-cli/internal/engine"
	"taskweave-cli/pkg/taskdef"
	"taskweave-cli/pkg/types"
)

// LocatorScheme is the prefix a script action locator must carry.
const LocatorScheme = "script:"

var (
	// ErrInvalidLocator is the sentinel error wrapped by InvalidLocatorError.
	ErrInvalidLocator = errors.New("invalid action locator")
	// ErrScriptLoad is the sentinel error wrapped by ScriptLoadError.
	ErrScriptLoad = errors.New("script could not be loaded")
	// ErrScriptSyntax is the sentinel error wrapped by ScriptSyntaxError.
	ErrScriptSyntax = errors.New("script is not valid shell")
	// ErrScriptExit is the sentinel error wrapped by ScriptExitError.
	ErrScriptExit = errors.New("script exited with a non-zero code")
)

type (
	// InvalidLocatorError is returned when a locator does not use the
	// script: scheme or names no path.
	InvalidLocatorError struct {
		Locator string
		Reason  string
	}

	// ScriptLoadError is returned when the script file cannot be read.
	ScriptLoadError struct {
		Path string
		Err  error
	}

	// ScriptSyntaxError is returned when the script fails to parse or has
	// no commands.
	ScriptSyntaxError struct {
		Path   string
		Detail string
	}

	// ScriptExitError is returned when a script runs to completion but
	// exits non-zero.
	ScriptExitError struct {
		Path string
		Code types.ExitCode
	}

	// ScriptResolver resolves script: locators into invocable actions. Paths
	// are relative to the resolver's root directory.
	ScriptResolver struct {
		root string
	}

	// ioEnvironment is the surface script actions need from the opaque
	// environment handed to actions.
	ioEnvironment interface {
		Stdout() io.Writer
		Stderr() io.Writer
		Workdir() string
	}
)

var _ ioEnvironment = (*engine.Environment)(nil)

// Error implements the error interface.
func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf("invalid action locator %q: %s", e.Locator, e.Reason)
}

// Unwrap returns ErrInvalidLocator for errors.Is() compatibility.
func (e *InvalidLocatorError) Unwrap() error { return ErrInvalidLocator }

// Error implements the error interface.
func (e *ScriptLoadError) Error() string {
	return fmt.Sprintf("cannot load script %q: %v", e.Path, e.Err)
}

// Unwrap returns ErrScriptLoad for errors.Is() compatibility.
func (e *ScriptLoadError) Unwrap() error { return ErrScriptLoad }

// Error implements the error interface.
func (e *ScriptSyntaxError) Error() string {
	return fmt.Sprintf("script %q: %s", e.Path, e.Detail)
}

// Unwrap returns ErrScriptSyntax for errors.Is() compatibility.
func (e *ScriptSyntaxError) Unwrap() error { return ErrScriptSyntax }

// Error implements the error interface.
func (e *ScriptExitError) Error() string {
	return fmt.Sprintf("script %q exited with code %d", e.Path, e.Code)
}

// Unwrap returns ErrScriptExit for errors.Is() compatibility.
func (e *ScriptExitError) Unwrap() error { return ErrScriptExit }

// NewScriptResolver builds a resolver rooted at the given directory. An empty
// root resolves paths against the process working directory.
func NewScriptResolver(root string) *ScriptResolver {
	return &ScriptResolver{root: root}
}

// ResolveAction parses a script: locator, loads and parses the script, and
// returns an action that runs it in the embedded shell. Resolution errors
// surface here; execution errors surface when the action runs.
func (r *ScriptResolver) ResolveAction(locator string) (taskdef.ActionFunc, error) {
	rel, ok := strings.CutPrefix(locator, LocatorScheme)
	if !ok {
		return nil, &InvalidLocatorError{Locator: locator, Reason: "expected the script: scheme"}
	}
	if strings.TrimSpace(rel) == "" {
		return nil, &InvalidLocatorError{Locator: locator, Reason: "empty script path"}
	}

	path := rel
	if !filepath.IsAbs(path) && r.root != "" {
		path = filepath.Join(r.root, rel)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScriptLoadError{Path: path, Err: err}
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(string(src)), filepath.Base(path))
	if err != nil {
		return nil, &ScriptSyntaxError{Path: path, Detail: err.Error()}
	}
	if len(prog.Stmts) == 0 {
		return nil, &ScriptSyntaxError{Path: path, Detail: "script has no commands"}
	}

	return r.scriptAction(path, prog), nil
}

// scriptAction builds the invocable for a parsed script. The run-super
// delegate is ignored: scripts cannot call back into an older action.
func (r *ScriptResolver) scriptAction(path string, prog *syntax.File) taskdef.ActionFunc {
	return func(ctx context.Context, a taskdef.Arguments, env any, _ taskdef.RunSuper) (any, error) {
		stdout, stderr, workdir := ioSurfaces(env)
		if workdir == "" {
			workdir = r.root
		}

		vars, positional, err := EncodeArguments(a)
		if err != nil {
			return nil, fmt.Errorf("exporting arguments for %q: %w", path, err)
		}
		environ := append(FilterParamEnvVars(os.Environ()), vars...)

		opts := []interp.RunnerOption{
			interp.Dir(workdir),
			interp.Env(expand.ListEnviron(environ...)),
			interp.StdIO(nil, stdout, stderr),
		}
		// Prepend "--" so values like "-v" are not read as shell options.
		if len(positional) > 0 {
			opts = append(opts, interp.Params(append([]string{"--"}, positional...)...))
		}

		runner, err := interp.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating interpreter for %q: %w", path, err)
		}

		if err := runner.Run(ctx, prog); err != nil {
			var status interp.ExitStatus
			if errors.As(err, &status) {
				code := types.ExitCode(status)
				return code, &ScriptExitError{Path: path, Code: code}
			}
			return nil, fmt.Errorf("running script %q: %w", path, err)
		}
		return types.ExitCode(0), nil
	}
}

// ioSurfaces extracts the I/O streams and working directory from the opaque
// environment, falling back to the process streams.
func ioSurfaces(env any) (stdout, stderr io.Writer, workdir string) {
	if e, ok := env.(ioEnvironment); ok {
		return e.Stdout(), e.Stderr(), e.Workdir()
	}
	return os.Stdout, os.Stderr, ""
}
