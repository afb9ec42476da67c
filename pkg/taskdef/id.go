// SPDX-License-Identifier: MPL-2.0

package taskdef

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyTaskID is the sentinel error wrapped by EmptyTaskIDError.
	ErrEmptyTaskID = errors.New("empty task id")
	// ErrInvalidTaskIDSegment is the sentinel error wrapped by InvalidTaskIDSegmentError.
	ErrInvalidTaskIDSegment = errors.New("invalid task id segment")
)

type (
	// TaskID is the hierarchical identifier of a task: an ordered, non-empty
	// sequence of path segments. The canonical string form joins segments
	// with dots ("task1.subtask1"). Two ids are equal iff their segment
	// sequences are element-wise equal.
	TaskID []string

	// EmptyTaskIDError is returned when a TaskID is constructed from zero
	// segments. It wraps ErrEmptyTaskID for errors.Is() compatibility.
	EmptyTaskIDError struct{}

	// InvalidTaskIDSegmentError is returned when a TaskID segment is blank
	// or contains the "." separator.
	InvalidTaskIDSegmentError struct {
		Segment string
		Index   int
	}
)

// NewTaskID builds a TaskID from the given segments. It fails if no segments
// are given, or if any segment is blank or contains the "." separator.
func NewTaskID(segments ...string) (TaskID, error) {
	if len(segments) == 0 {
		return nil, &EmptyTaskIDError{}
	}
	for i, seg := range segments {
		if strings.TrimSpace(seg) == "" || strings.Contains(seg, ".") {
			return nil, &InvalidTaskIDSegmentError{Segment: seg, Index: i}
		}
	}
	return slices.Clone(segments), nil
}

// ParseTaskID parses the canonical dot-joined string form of a TaskID.
func ParseTaskID(s string) (TaskID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &EmptyTaskIDError{}
	}
	return NewTaskID(strings.Split(s, ".")...)
}

// String returns the canonical dot-joined form of the id.
func (id TaskID) String() string { return strings.Join(id, ".") }

// Segments returns a copy of the id's segment sequence.
func (id TaskID) Segments() []string { return slices.Clone(id) }

// IsRoot reports whether the id has exactly one segment.
func (id TaskID) IsRoot() bool { return len(id) == 1 }

// Parent returns the id formed by all segments but the last, or nil for a
// root id.
func (id TaskID) Parent() TaskID {
	if len(id) <= 1 {
		return nil
	}
	return slices.Clone(id[:len(id)-1])
}

// Equals reports whether two ids have element-wise equal segments.
func (id TaskID) Equals(other TaskID) bool { return slices.Equal(id, other) }

// Error implements the error interface.
func (e *EmptyTaskIDError) Error() string {
	return "task id must have at least one segment"
}

// Unwrap returns ErrEmptyTaskID for errors.Is() compatibility.
func (e *EmptyTaskIDError) Unwrap() error { return ErrEmptyTaskID }

// Error implements the error interface.
func (e *InvalidTaskIDSegmentError) Error() string {
	return fmt.Sprintf("invalid task id segment %q at position %d: segments must be non-blank and must not contain '.'", e.Segment, e.Index)
}

// Unwrap returns ErrInvalidTaskIDSegment for errors.Is() compatibility.
func (e *InvalidTaskIDSegmentError) Unwrap() error { return ErrInvalidTaskIDSegment }
