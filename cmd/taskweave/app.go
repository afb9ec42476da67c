// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"taskweave-cli/internal/config"
	"taskweave-cli/internal/issue"
	"taskweave-cli/internal/plugin"
	"taskweave-cli/internal/registry"
	"taskweave-cli/internal/runtime"
)

type (
	// App is the composition root for the CLI layer: the loaded configuration,
	// the resolved task registry, and the shared execution dependencies every
	// command handler needs.
	App struct {
		Config      *config.Config
		Registry    *registry.Registry
		Resolver    registry.ActionResolver
		Logger      *log.Logger
		WorkDir     string
		Diagnostics []plugin.Diagnostic
	}

	// appOptions captures the global flag state a command hands to buildApp.
	appOptions struct {
		ConfigFile string
		Verbose    bool
	}
)

// buildApp loads the configuration, folds plugin and taskfile contributions
// into the task registry, and wires the script resolver. Plugin loading
// failures for explicitly configured plugins abort the build; discovery
// problems surface as diagnostics on the returned App.
func buildApp(ctx context.Context, opts appOptions) (*App, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: opts.ConfigFile})
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "taskweave"})
	if opts.Verbose || cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	loaded, err := plugin.NewLoader(cfg).LoadAll()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load plugins").
			WithSuggestion("Run 'taskweave config show' to inspect the configured plugin paths").
			WithSuggestion("Give conflicting plugins unique aliases in the configuration").
			Wrap(err).
			BuildError()
	}

	contributors, err := plugin.Contributors(loaded.Plugins)
	if err != nil {
		return nil, err
	}

	// The taskfile folds in last so its definitions can override any plugin's.
	workDir := ""
	taskfilePath := string(cfg.Taskfile)
	explicit := taskfilePath != ""
	if !explicit {
		taskfilePath = config.DefaultTaskfileName
	}
	switch {
	case fileExists(taskfilePath):
		tf, loadErr := config.LoadTaskfile(taskfilePath)
		if loadErr != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load taskfile").
				WithResource(taskfilePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("See 'taskweave describe --help' for the accepted task fields").
				Wrap(loadErr).
				BuildError()
		}
		contributor, declErr := tf.Contributor()
		if declErr != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load taskfile").
				WithResource(taskfilePath).
				WithSuggestion("Check the task declarations for fields their kind does not allow").
				Wrap(declErr).
				BuildError()
		}
		contributors = append(contributors, contributor)
		workDir = filepath.Dir(taskfilePath)
	case explicit:
		return nil, issue.NewErrorContext().
			WithOperation("load taskfile").
			WithResource(taskfilePath).
			WithSuggestion("Verify the taskfile path in the configuration").
			WithSuggestion("Run 'taskweave config show' to see the effective configuration").
			Wrap(fmt.Errorf("taskfile not found: %s", taskfilePath)).
			BuildError()
	}

	reg, err := registry.Resolve(contributors)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve task registry").
			WithSuggestion("Check for tasks defined by more than one contributor").
			WithSuggestion("Declare subtasks after their parent task").
			Wrap(err).
			BuildError()
	}

	return &App{
		Config:      cfg,
		Registry:    reg,
		Resolver:    runtime.NewScriptResolver(workDir),
		Logger:      logger,
		WorkDir:     workDir,
		Diagnostics: loaded.Diagnostics,
	}, nil
}

// ReportDiagnostics writes plugin loading diagnostics to the given writer.
func (a *App) ReportDiagnostics(w io.Writer) {
	for _, diag := range a.Diagnostics {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == plugin.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, diag.Message)
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
