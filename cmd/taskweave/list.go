// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskweave-cli/internal/registry"
)

// listCmd prints the resolved task tree in registration order.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildApp(cmd.Context(), appOptions{ConfigFile: cfgFile, Verbose: verbose})
		if err != nil {
			return err
		}
		app.ReportDiagnostics(os.Stderr)

		fmt.Print(renderTaskTree(app.Registry))
		return nil
	},
}

// renderTaskTree renders the root tasks and their subtasks, indented by
// depth, in registration order.
func renderTaskTree(reg *registry.Registry) string {
	roots := reg.RootTasks()
	if len(roots) == 0 {
		return SubtitleStyle.Render("no tasks registered") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Tasks") + "\n\n")
	for _, task := range roots {
		writeTaskBranch(&sb, reg, task, 0)
	}
	return sb.String()
}

func writeTaskBranch(sb *strings.Builder, reg *registry.Registry, task *registry.Task, depth int) {
	line := strings.Repeat("  ", depth) + TaskStyle.Render(task.ID().String())
	if desc := task.Description(); !desc.IsEmpty() {
		line += "  " + SubtitleStyle.Render(desc.String())
	}
	if task.IsEmpty() {
		line += "  " + WarningStyle.Render("(placeholder)")
	}
	sb.WriteString(line + "\n")

	for _, sub := range reg.Subtasks(task.ID()) {
		writeTaskBranch(sb, reg, sub, depth+1)
	}
}
