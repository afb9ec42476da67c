// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the task model,
// the registry, and the CLI layer. Each type carries its own validation and a
// typed error struct wrapping a sentinel error for errors.Is() checks.
//
// This package is a leaf dependency: it imports only the standard library.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

type (
	// DescriptionText is the human-readable description of a task or parameter.
	// The zero value ("") means no description. Non-zero values must contain
	// at least one non-whitespace character.
	DescriptionText string

	// InvalidDescriptionTextError is returned when a DescriptionText is
	// non-empty but contains only whitespace.
	InvalidDescriptionTextError struct {
		Value DescriptionText
	}
)

// String returns the raw description text.
func (d DescriptionText) String() string { return string(d) }

// IsEmpty reports whether no description was provided.
func (d DescriptionText) IsEmpty() bool { return d == "" }

// IsValid returns whether the DescriptionText is valid, and the validation
// errors if it is not. The zero value is valid.
func (d DescriptionText) IsValid() (bool, []error) {
	if d != "" && strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidDescriptionTextError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidDescriptionTextError) Error() string {
	return fmt.Sprintf("invalid description text %q: must contain non-whitespace characters when set", e.Value)
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }
