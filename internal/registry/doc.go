// SPDX-License-Identifier: MPL-2.0

// Package registry folds ordered contributors (plugins in load order, then
// the configuration) into the resolved task graph: one immutable Task per
// hierarchical id, with merged parameter schemas, override chains, and
// parent/child linkage. Any conflict aborts the whole fold; no partial
// registry is ever exposed.
package registry
