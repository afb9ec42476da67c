// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"taskweave-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "taskweave",
		Short: "A pluggable task runner",
		Long: TitleStyle.Render("taskweave") + SubtitleStyle.Render(" - a pluggable task runner") + `

taskweave folds task definitions contributed by plugins and the project
taskfile into one hierarchical registry, layering overrides in contribution
order, and runs their script actions in an embedded shell.

Tasks are declared in 'taskfile.cue' files using CUE format and can be
organized hierarchically with dot-joined ids (build, build.docs).

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a taskfile.cue in your project directory
  2. Declare tasks and parameters using CUE syntax
  3. Run tasks with: taskweave run <task-id>

` + SubtitleStyle.Render("Examples:") + `
  taskweave list                List all registered tasks
  taskweave run build           Run the 'build' task
  taskweave run build.docs      Run the nested 'build.docs' task
  taskweave describe compile    Show parameters and the override chain
  taskweave serve               Expose tasks over SSH`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/taskweave/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.HasSuggestions() {
			fmt.Fprintln(os.Stderr, ae.Format(verbose))
		}
		os.Exit(1)
	}
}
