// SPDX-License-Identifier: MPL-2.0

// Package taskdef defines the task definition model: hierarchical task ids,
// parameter schemas, action variants, and the fluent builders that produce
// well-formed TaskDefinition records.
//
// Definitions are immutable input records. Folding them into resolved tasks
// is the job of internal/registry; this package only guarantees that a
// definition is well-shaped (non-empty id, unique parameter names, exactly
// one action) before it ever reaches the registry.
package taskdef
