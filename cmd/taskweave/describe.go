// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskweave-cli/internal/registry"
	"taskweave-cli/pkg/taskdef"
)

// describeCmd shows a task's merged parameter schema and its override chain.
var describeCmd = &cobra.Command{
	Use:   "describe <task-id>",
	Short: "Show a task's parameters and override chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		app, err := buildApp(cmd.Context(), appOptions{ConfigFile: cfgFile, Verbose: verbose})
		if err != nil {
			return err
		}
		app.ReportDiagnostics(os.Stderr)

		task, err := app.Registry.Lookup(argv[0])
		if err != nil {
			return err
		}

		fmt.Print(renderTaskDescription(task))
		return nil
	},
}

// renderTaskDescription renders a task: attribution, the merged schema in
// insertion order, and the action chain oldest (original) first.
func renderTaskDescription(task *registry.Task) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(task.ID().String()) + "\n")
	if desc := task.Description(); !desc.IsEmpty() {
		sb.WriteString(SubtitleStyle.Render(desc.String()) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Defined by: %s\n", contributorName(task.PluginID())))

	sb.WriteString("\n" + TitleStyle.Render("Parameters") + "\n")
	params := task.Parameters()
	if len(params) == 0 {
		sb.WriteString(SubtitleStyle.Render("  (none)") + "\n")
	}
	for _, p := range params {
		entry := fmt.Sprintf("  %s  %s/%s", TaskStyle.Render(p.Name), p.Kind, p.Type)
		if p.HasDefault {
			entry += SubtitleStyle.Render(fmt.Sprintf("  (default %v)", p.Default))
		}
		sb.WriteString(entry + "\n")
	}

	sb.WriteString("\n" + TitleStyle.Render("Action chain") + "\n")
	for i, bound := range task.Actions() {
		sb.WriteString(fmt.Sprintf("  %d. %s  %s\n", i+1, contributorName(bound.PluginID()), actionForm(bound.Action())))
	}

	return sb.String()
}

// contributorName maps the empty contributor identity to its display name.
func contributorName(identity string) string {
	if identity == "" {
		return "taskfile"
	}
	return identity
}

func actionForm(a taskdef.Action) string {
	switch {
	case a.IsReference():
		return a.Locator()
	case a.IsInline():
		return "inline action"
	case a.IsEmpty():
		return "empty placeholder"
	default:
		return "unresolvable action"
	}
}
