// SPDX-License-Identifier: MPL-2.0

// Package cueutil parses CUE documents against an embedded schema and decodes
// them into Go structs, with error messages that point at the offending path.
package cueutil
