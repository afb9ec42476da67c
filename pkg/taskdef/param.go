// SPDX-License-Identifier: MPL-2.0

package taskdef

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
)

const (
	// TypeString accepts any string value.
	TypeString ParamType = "string"
	// TypeBoolean accepts strictly true or false.
	TypeBoolean ParamType = "boolean"
	// TypeInt accepts whole numbers.
	TypeInt ParamType = "int"
	// TypeFloat accepts any numeric value.
	TypeFloat ParamType = "float"
	// TypeBigInt accepts arbitrary-precision integers (*big.Int).
	TypeBigInt ParamType = "bigint"
	// TypeFile accepts a filesystem path given as a string.
	TypeFile ParamType = "file"
)

const (
	// KindNamed is a value-carrying parameter addressed by name.
	KindNamed ParamKind = iota
	// KindFlag is a boolean named parameter defaulting to false, toggled to
	// true by presence alone.
	KindFlag
	// KindPositional is a parameter addressed by its ordinal position.
	KindPositional
	// KindVariadic collects the trailing sequence of positional values.
	KindVariadic
)

var (
	// ErrInvalidParamType is the sentinel error wrapped by InvalidParamTypeError.
	ErrInvalidParamType = errors.New("invalid parameter type")
	// ErrInvalidParamKind is the sentinel error wrapped by InvalidParamKindError.
	ErrInvalidParamKind = errors.New("invalid parameter kind")
	// ErrInvalidParamName is the sentinel error wrapped by InvalidParamNameError.
	ErrInvalidParamName = errors.New("invalid parameter name")

	// paramNameRegex validates parameter names: a letter followed by
	// alphanumerics, hyphens, or underscores.
	paramNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

type (
	// ParamType identifies the runtime type a parameter value must satisfy.
	ParamType string

	// ParamKind distinguishes how a parameter is supplied: by name, as a
	// flag, by position, or as the trailing variadic sequence.
	ParamKind int

	// InvalidParamTypeError is returned when a ParamType is not one of the
	// defined type constants.
	InvalidParamTypeError struct {
		Value ParamType
	}

	// InvalidParamKindError is returned when a ParamKind is not one of the
	// defined kind constants.
	InvalidParamKindError struct {
		Value ParamKind
	}

	// InvalidParamNameError is returned when a parameter name does not match
	// the accepted name shape.
	InvalidParamNameError struct {
		Name string
	}

	// Parameter describes one parameter of a task: its name (unique per task
	// across all kinds), runtime type, kind, and optional default value.
	// A parameter with a default is optional at invocation time. A variadic
	// parameter's default is itself a slice; its Type describes the element
	// type. Position is meaningful for positional and variadic parameters
	// only.
	Parameter struct {
		Name       string
		Type       ParamType
		Kind       ParamKind
		Default    any
		HasDefault bool
		Position   int
	}
)

// IsValid returns whether the ParamType is one of the defined type constants,
// and a list of validation errors if it is not.
func (t ParamType) IsValid() (bool, []error) {
	switch t {
	case TypeString, TypeBoolean, TypeInt, TypeFloat, TypeBigInt, TypeFile:
		return true, nil
	default:
		return false, []error{&InvalidParamTypeError{Value: t}}
	}
}

// String returns the type name.
func (t ParamType) String() string { return string(t) }

// Accepts reports whether the given runtime value satisfies the type's
// predicate. Numeric predicates accept the Go types a CUE decode or an
// inline caller can plausibly produce: TypeInt accepts int, int64, and
// whole-valued float64; TypeFloat accepts any of those plus fractional
// float64; TypeBigInt accepts *big.Int only.
func (t ParamType) Accepts(v any) bool {
	switch t {
	case TypeString, TypeFile:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeInt:
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == math.Trunc(n) && !math.IsInf(n, 0)
		default:
			return false
		}
	case TypeFloat:
		switch v.(type) {
		case int, int64, float64:
			return true
		default:
			return false
		}
	case TypeBigInt:
		_, ok := v.(*big.Int)
		return ok
	default:
		return false
	}
}

// IsValid returns whether the ParamKind is one of the defined kind constants,
// and a list of validation errors if it is not.
func (k ParamKind) IsValid() (bool, []error) {
	switch k {
	case KindNamed, KindFlag, KindPositional, KindVariadic:
		return true, nil
	default:
		return false, []error{&InvalidParamKindError{Value: k}}
	}
}

// String returns a human-readable kind name.
func (k ParamKind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindFlag:
		return "flag"
	case KindPositional:
		return "positional"
	case KindVariadic:
		return "variadic"
	default:
		return "unknown"
	}
}

// IsPositional reports whether the parameter is supplied by position
// (positional or variadic).
func (k ParamKind) IsPositional() bool {
	return k == KindPositional || k == KindVariadic
}

// IsOptional reports whether the parameter may be omitted at invocation time.
func (p Parameter) IsOptional() bool { return p.HasDefault }

// ValidateParamName returns an error if the name does not match the accepted
// parameter name shape (a letter followed by alphanumerics, hyphens, or
// underscores).
func ValidateParamName(name string) error {
	if !paramNameRegex.MatchString(name) {
		return &InvalidParamNameError{Name: name}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidParamTypeError) Error() string {
	return fmt.Sprintf("invalid parameter type %q (valid: string, boolean, int, float, bigint, file)", e.Value)
}

// Unwrap returns ErrInvalidParamType for errors.Is() compatibility.
func (e *InvalidParamTypeError) Unwrap() error { return ErrInvalidParamType }

// Error implements the error interface.
func (e *InvalidParamKindError) Error() string {
	return fmt.Sprintf("invalid parameter kind %d (valid: 0=named, 1=flag, 2=positional, 3=variadic)", e.Value)
}

// Unwrap returns ErrInvalidParamKind for errors.Is() compatibility.
func (e *InvalidParamKindError) Unwrap() error { return ErrInvalidParamKind }

// Error implements the error interface.
func (e *InvalidParamNameError) Error() string {
	return fmt.Sprintf("invalid parameter name %q: must start with a letter and contain only alphanumerics, hyphens, and underscores", e.Name)
}

// Unwrap returns ErrInvalidParamName for errors.Is() compatibility.
func (e *InvalidParamNameError) Unwrap() error { return ErrInvalidParamName }
