// SPDX-License-Identifier: MPL-2.0

// Package args validates a raw argument bag against a task's merged
// parameter schema and produces the finalized Arguments record handed to
// actions: every declared parameter bound (validated or defaulted), no
// extraneous keys.
package args
