// SPDX-License-Identifier: MPL-2.0

// Package serverbase provides the lifecycle plumbing a long-running server
// embeds: a compare-and-swap state machine, readiness and error channels,
// WaitGroup goroutine tracking, and a context cancelled on stop or failure.
// The SSH task server embeds Base.
package serverbase
