// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"taskweave-cli/internal/args"
	"taskweave-cli/internal/engine"
	"taskweave-cli/internal/issue"
	"taskweave-cli/internal/registry"
	"taskweave-cli/pkg/types"
)

// runCmd executes a resolved task with textual arguments parsed against the
// task's merged parameter schema.
var runCmd = &cobra.Command{
	Use:   "run <task-id> [--<param> <value>...] [positional...]",
	Short: "Run a task",
	Long: `Run a task by its dot-joined id.

Named parameters and flags are given as --<name> <value> (or --<name> for
flags); remaining tokens bind the task's positional and variadic parameters
in order. A bare -- ends named parsing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		app, err := buildApp(cmd.Context(), appOptions{ConfigFile: cfgFile, Verbose: verbose})
		if err != nil {
			return err
		}
		app.ReportDiagnostics(os.Stderr)

		task, err := app.Registry.Lookup(argv[0])
		if err != nil {
			var notFound *registry.TaskNotFoundError
			if errors.As(err, &notFound) {
				return issue.NewErrorContext().
					WithOperation("run task").
					WithResource(argv[0]).
					WithSuggestion("Run 'taskweave list' to see the registered tasks").
					Wrap(err).
					BuildError()
			}
			return err
		}

		raw, err := args.BuildRaw(task.Parameters(), argv[1:])
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("parse task arguments").
				WithResource(argv[0]).
				WithSuggestion("Run 'taskweave describe " + argv[0] + "' to see the task's parameters").
				Wrap(err).
				BuildError()
		}

		env := &engine.Environment{
			Out:     os.Stdout,
			ErrOut:  os.Stderr,
			WorkDir: app.WorkDir,
			Logger:  app.Logger,
		}
		runner := engine.NewRunner(app.Registry, app.Resolver, env, app.Logger)
		result, err := runner.RunTask(cmd.Context(), task, raw)
		return exitResult(result, err)
	},
}

func init() {
	// Stop flag parsing at the task id so --<param> tokens after it reach the
	// task's own schema instead of cobra.
	runCmd.Flags().SetInterspersed(false)
}

// exitResult maps a task outcome to the CLI error contract: a typed exit
// code becomes an ExitError so Execute exits with the script's status.
func exitResult(result any, err error) error {
	code, isCode := result.(types.ExitCode)
	if err != nil {
		if isCode && !code.IsSuccess() {
			return &ExitError{Code: code, Err: err}
		}
		return err
	}
	if isCode && !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}
