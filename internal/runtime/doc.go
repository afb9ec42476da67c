// SPDX-License-Identifier: MPL-2.0

// Package runtime resolves reference actions into invocables. Script actions
// run in an embedded POSIX shell interpreter, with task arguments exported as
// TW_PARAM_* environment variables and variadic values as positional
// parameters.
package runtime
