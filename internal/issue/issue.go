// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	TaskfileNotFoundId
	TaskfileParseErrorId
	PluginLoadFailedId
	PluginConflictId
	TaskNotFoundId
	TaskConflictId
	ValidationFailedId
	ScriptExecutionFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the taskweave configuration file.

## Configuration file locations:
- Linux: ~/.config/taskweave/config.cue
- macOS: ~/Library/Application Support/taskweave/config.cue
- Windows: %APPDATA%\taskweave\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ taskweave config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/taskweave/config.cue
~~~

## Example configuration:
~~~cue
plugin_dirs: [
    "/home/user/.taskweave/plugins"
]

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	taskfileNotFoundIssue = &Issue{
		id: TaskfileNotFoundId,
		mdMsg: `
# No taskfile found!

We searched for a taskfile but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The path given with --taskfile
2. taskfile.cue in the current directory

## Things you can try:
- Create a taskfile in your current directory:
~~~
$ taskweave init
~~~

- Or run from the project that has one:
~~~
$ cd /path/to/your/project
$ taskweave list
~~~

## Example taskfile structure:
~~~cue
tasks: [
  {
    name: "build"
    description: "Build the project"
    script: "scripts/build.sh"
  },
  {
    name: "test"
    description: "Run tests"
    script: "scripts/test.sh"
  },
]
~~~`,
	}

	taskfileParseErrorIssue = &Issue{
		id: TaskfileParseErrorId,
		mdMsg: `
# Failed to parse taskfile!

Your taskfile contains syntax errors or invalid task definitions.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A parameter type that is not one of string, boolean, int, float, bigint, file
- A variadic parameter that is not the last positional parameter

## Things you can try:
- Check the error message above for the specific line/column
- Validate your CUE syntax using the cue command-line tool
- Run with verbose mode for more details:
~~~
$ taskweave --verbose list
~~~

## Example of a valid task definition:
~~~cue
tasks: [
  {
    name: "build"
    description: "Build the project"
    script: "scripts/build.sh"
    params: [
      {name: "target", type: "string", default: "dist"},
    ]
    flags: ["verbose"]
  }
]
~~~`,
	}

	pluginLoadFailedIssue = &Issue{
		id: PluginLoadFailedId,
		mdMsg: `
# Failed to load a plugin!

A plugin directory could not be loaded or its manifest is invalid.

## Things you can try:
- Check that the plugin directory ends in .twplugin and contains a plugin.cue
- Validate the manifest syntax with the cue command-line tool
- List the plugins that did load:
~~~
$ taskweave list
~~~`,
	}

	pluginConflictIssue = &Issue{
		id: PluginConflictId,
		mdMsg: `
# Plugin conflict!

Two plugins declare the same identity, so their contributions cannot be
ordered deterministically.

## Things you can try:
- Remove one of the conflicting plugin directories
- Give one of them a unique alias in your configuration:
~~~cue
plugins: [
  {path: "/plugins/build.twplugin", alias: "build-alt"},
]
~~~`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you specified is not registered by any plugin or by your taskfile.

## Things you can try:
- List all available tasks:
~~~
$ taskweave list
~~~

- Check for typos in the task name (subtasks are dot-separated, e.g. compile.solidity)
- Verify the taskfile or plugin defines the task
- Remember an override cannot create a task: use a NEW definition first`,
	}

	taskConflictIssue = &Issue{
		id: TaskConflictId,
		mdMsg: `
# Task registration conflict!

Two contributors tried to register the same task name, or a parameter clashes
with a reserved global parameter.

## Things you can try:
- Use an OVERRIDE definition if you want to extend an existing task
- Rename the conflicting parameter
- Check which plugin owns the task:
~~~
$ taskweave describe <task>
~~~`,
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Invalid task arguments!

The arguments you provided do not satisfy the task's parameter schema.

## Things you can try:
- Inspect the task's parameters and their types:
~~~
$ taskweave describe <task>
~~~

- Check that required parameters are present
- Check value types: bigint parameters take arbitrary-precision integers,
  boolean flags take true/false`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The task's script action failed to execute properly.

## Common causes:
- Command not found in PATH
- Permission denied
- Syntax error in the script
- Missing dependencies

## Things you can try:
- Run with verbose mode for more details:
~~~
$ taskweave --verbose run <task>
~~~

- Test the script manually in your shell
- Check file permissions and PATH settings`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Trying to write to a protected directory
- Script file is not readable
- The server's authorized keys file is not readable

## Things you can try:
- Check file/directory permissions
- Run taskweave from a directory you own`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		taskfileNotFoundIssue.Id():      taskfileNotFoundIssue,
		taskfileParseErrorIssue.Id():    taskfileParseErrorIssue,
		pluginLoadFailedIssue.Id():      pluginLoadFailedIssue,
		pluginConflictIssue.Id():        pluginConflictIssue,
		taskNotFoundIssue.Id():          taskNotFoundIssue,
		taskConflictIssue.Id():          taskConflictIssue,
		validationFailedIssue.Id():      validationFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
