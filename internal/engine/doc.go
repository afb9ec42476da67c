// SPDX-License-Identifier: MPL-2.0

// Package engine invokes a resolved task: it validates raw arguments against
// the task's merged schema, builds the override chain as explicit bound
// invokers (oldest to newest), and runs the outermost action, handing each
// override a run-super delegate bound to the next-older action.
package engine
