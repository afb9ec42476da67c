// SPDX-License-Identifier: MPL-2.0

package args

import (
	"errors"
	"fmt"
	"slices"

	"taskweave-cli/pkg/taskdef"
)

var (
	// ErrMissingValue is the sentinel error wrapped by MissingValueError.
	ErrMissingValue = errors.New("missing value for required parameter")
	// ErrInvalidValue is the sentinel error wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid value for parameter type")
	// ErrUnrecognizedParam is the sentinel error wrapped by UnrecognizedParamError.
	ErrUnrecognizedParam = errors.New("unrecognized parameter")
)

type (
	// MissingValueError is returned when a required parameter (one without a
	// default) is absent from the raw argument bag.
	MissingValueError struct {
		Param string
	}

	// InvalidValueError is returned when a supplied value does not satisfy
	// the parameter's declared type. For a variadic parameter the whole
	// sequence value is reported, not the offending element.
	InvalidValueError struct {
		Param string
		Value any
		Type  taskdef.ParamType
		Kind  taskdef.ParamKind
	}

	// UnrecognizedParamError is returned when the raw argument bag contains
	// a name that no parameter of the task declares.
	UnrecognizedParamError struct {
		Param string
	}
)

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing value for required parameter %q", e.Param)
}

// Unwrap returns ErrMissingValue for errors.Is() compatibility.
func (e *MissingValueError) Unwrap() error { return ErrMissingValue }

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	if e.Kind == taskdef.KindVariadic {
		return fmt.Sprintf("invalid value %v for variadic parameter %q: expected a sequence of %s values", e.Value, e.Param, e.Type)
	}
	return fmt.Sprintf("invalid value %v for parameter %q: expected a %s value", e.Value, e.Param, e.Type)
}

// Unwrap returns ErrInvalidValue for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// Error implements the error interface.
func (e *UnrecognizedParamError) Error() string {
	return fmt.Sprintf("unrecognized parameter %q", e.Param)
}

// Unwrap returns ErrUnrecognizedParam for errors.Is() compatibility.
func (e *UnrecognizedParamError) Unwrap() error { return ErrUnrecognizedParam }

// Resolve walks the schema in declaration order, binding each parameter to
// its validated raw value or its default, then rejects any raw name no
// parameter consumed.
func Resolve(schema []taskdef.Parameter, raw map[string]any) (taskdef.Arguments, error) {
	resolved := make(taskdef.Arguments, len(schema))
	consumed := make(map[string]bool, len(raw))

	for _, param := range schema {
		value, supplied := raw[param.Name]
		if !supplied {
			if !param.HasDefault {
				return nil, &MissingValueError{Param: param.Name}
			}
			resolved[param.Name] = defaultValue(param)
			continue
		}
		consumed[param.Name] = true

		if err := checkValue(param, value); err != nil {
			return nil, err
		}
		resolved[param.Name] = value
	}

	for name := range raw {
		if !consumed[name] {
			return nil, &UnrecognizedParamError{Param: name}
		}
	}

	return resolved, nil
}

// checkValue validates one supplied value against its parameter. A variadic
// value must be a sequence whose every element satisfies the element type;
// violations report the whole sequence.
func checkValue(param taskdef.Parameter, value any) error {
	if param.Kind == taskdef.KindVariadic {
		seq, ok := value.([]any)
		if !ok {
			return &InvalidValueError{Param: param.Name, Value: value, Type: param.Type, Kind: param.Kind}
		}
		for _, elem := range seq {
			if !param.Type.Accepts(elem) {
				return &InvalidValueError{Param: param.Name, Value: value, Type: param.Type, Kind: param.Kind}
			}
		}
		return nil
	}

	if !param.Type.Accepts(value) {
		return &InvalidValueError{Param: param.Name, Value: value, Type: param.Type, Kind: param.Kind}
	}
	return nil
}

// defaultValue returns the parameter's default, copying variadic sequence
// defaults so actions cannot mutate the schema's copy.
func defaultValue(param taskdef.Parameter) any {
	if seq, ok := param.Default.([]any); ok {
		return slices.Clone(seq)
	}
	return param.Default
}
