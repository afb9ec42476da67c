// SPDX-License-Identifier: MPL-2.0

package taskdef

import (
	"errors"
	"fmt"

	"taskweave-cli/pkg/types"
)

var (
	// ErrDuplicateParam is the sentinel error wrapped by DuplicateParamError.
	ErrDuplicateParam = errors.New("duplicate parameter name")
	// ErrMissingAction is the sentinel error wrapped by MissingActionError.
	ErrMissingAction = errors.New("task definition has no action")
	// ErrVariadicNotLast is the sentinel error wrapped by VariadicNotLastError.
	ErrVariadicNotLast = errors.New("variadic parameter must be last")
	// ErrMultipleVariadic is the sentinel error wrapped by MultipleVariadicError.
	ErrMultipleVariadic = errors.New("at most one variadic parameter is allowed")
	// ErrInvalidDefault is the sentinel error wrapped by InvalidDefaultError.
	ErrInvalidDefault = errors.New("default value does not satisfy the parameter type")
)

type (
	// DuplicateParamError is returned when two parameters of one definition
	// share a name, regardless of their kinds.
	DuplicateParamError struct {
		Name string
	}

	// MissingActionError is returned when a NEW or OVERRIDE definition is
	// built without an action.
	MissingActionError struct {
		ID TaskID
	}

	// VariadicNotLastError is returned when a positional or variadic
	// parameter is added after a variadic one.
	VariadicNotLastError struct {
		Name string
	}

	// MultipleVariadicError is returned when a second variadic parameter is
	// added to one definition.
	MultipleVariadicError struct {
		Name string
	}

	// InvalidDefaultError is returned when a declared default value does not
	// satisfy the parameter's own type predicate.
	InvalidDefaultError struct {
		Name  string
		Value any
		Type  ParamType
	}

	// builderCore holds the state shared by all three builders: the id, the
	// accumulated parameters with local duplicate detection, and the first
	// recorded shape error. Fluent calls after an error are no-ops; the
	// error surfaces at Build().
	builderCore struct {
		id          TaskID
		description types.DescriptionText
		params      []Parameter
		seen        map[string]bool
		hasVariadic bool
		positions   int
		err         error
	}

	// TaskBuilder builds a NEW task definition: full parameter schema plus
	// exactly one action.
	TaskBuilder struct {
		core      builderCore
		action    Action
		actionSet bool
	}

	// OverrideTaskBuilder builds an OVERRIDE definition: an action plus
	// optionally added named parameters and flags. Overrides never add
	// positional or variadic parameters, so the builder does not offer them;
	// a task's positional call shape is fixed by its original definition.
	OverrideTaskBuilder struct {
		core      builderCore
		action    Action
		actionSet bool
	}

	// EmptyTaskBuilder builds an EMPTY placeholder definition.
	EmptyTaskBuilder struct {
		core builderCore
	}
)

// Error implements the error interface.
func (e *DuplicateParamError) Error() string {
	return fmt.Sprintf("parameter %q is declared more than once in the same definition", e.Name)
}

// Unwrap returns ErrDuplicateParam for errors.Is() compatibility.
func (e *DuplicateParamError) Unwrap() error { return ErrDuplicateParam }

// Error implements the error interface.
func (e *MissingActionError) Error() string {
	return fmt.Sprintf("task %q was defined without an action", e.ID)
}

// Unwrap returns ErrMissingAction for errors.Is() compatibility.
func (e *MissingActionError) Unwrap() error { return ErrMissingAction }

// Error implements the error interface.
func (e *VariadicNotLastError) Error() string {
	return fmt.Sprintf("parameter %q follows a variadic parameter; the variadic parameter must be last", e.Name)
}

// Unwrap returns ErrVariadicNotLast for errors.Is() compatibility.
func (e *VariadicNotLastError) Unwrap() error { return ErrVariadicNotLast }

// Error implements the error interface.
func (e *MultipleVariadicError) Error() string {
	return fmt.Sprintf("variadic parameter %q: a task may declare at most one variadic parameter", e.Name)
}

// Unwrap returns ErrMultipleVariadic for errors.Is() compatibility.
func (e *MultipleVariadicError) Unwrap() error { return ErrMultipleVariadic }

// Error implements the error interface.
func (e *InvalidDefaultError) Error() string {
	return fmt.Sprintf("default value %v for parameter %q does not satisfy type %s", e.Value, e.Name, e.Type)
}

// Unwrap returns ErrInvalidDefault for errors.Is() compatibility.
func (e *InvalidDefaultError) Unwrap() error { return ErrInvalidDefault }

func newBuilderCore(segments []string) builderCore {
	core := builderCore{seen: make(map[string]bool)}
	id, err := NewTaskID(segments...)
	if err != nil {
		core.err = err
		return core
	}
	core.id = id
	return core
}

func (c *builderCore) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *builderCore) setDescription(text string) {
	desc := types.DescriptionText(text)
	if valid, errs := desc.IsValid(); !valid {
		c.fail(errs[0])
		return
	}
	c.description = desc
}

func (c *builderCore) addParam(p Parameter) {
	if c.err != nil {
		return
	}
	if err := ValidateParamName(p.Name); err != nil {
		c.fail(err)
		return
	}
	if valid, errs := p.Type.IsValid(); !valid {
		c.fail(errs[0])
		return
	}
	if c.seen[p.Name] {
		c.fail(&DuplicateParamError{Name: p.Name})
		return
	}
	if p.Kind.IsPositional() {
		if c.hasVariadic {
			c.fail(&VariadicNotLastError{Name: p.Name})
			return
		}
		p.Position = c.positions
		c.positions++
		if p.Kind == KindVariadic {
			c.hasVariadic = true
		}
	}
	if p.HasDefault {
		if err := checkDefault(p); err != nil {
			c.fail(err)
			return
		}
	}
	c.seen[p.Name] = true
	c.params = append(c.params, p)
}

// checkDefault validates a declared default against the parameter's own type.
// A variadic default must be a slice whose every element satisfies the
// element type.
func checkDefault(p Parameter) error {
	if p.Kind == KindVariadic {
		seq, ok := p.Default.([]any)
		if !ok {
			return &InvalidDefaultError{Name: p.Name, Value: p.Default, Type: p.Type}
		}
		for _, elem := range seq {
			if !p.Type.Accepts(elem) {
				return &InvalidDefaultError{Name: p.Name, Value: p.Default, Type: p.Type}
			}
		}
		return nil
	}
	if !p.Type.Accepts(p.Default) {
		return &InvalidDefaultError{Name: p.Name, Value: p.Default, Type: p.Type}
	}
	return nil
}

// NewTask starts a builder for a NEW task definition with the given id
// segments.
func NewTask(segments ...string) *TaskBuilder {
	return &TaskBuilder{core: newBuilderCore(segments)}
}

// Description sets the task's description.
func (b *TaskBuilder) Description(text string) *TaskBuilder {
	b.core.setDescription(text)
	return b
}

// NamedParam adds a required named parameter.
func (b *TaskBuilder) NamedParam(name string, t ParamType) *TaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: t, Kind: KindNamed})
	return b
}

// NamedParamWithDefault adds an optional named parameter with a default value.
func (b *TaskBuilder) NamedParamWithDefault(name string, t ParamType, def any) *TaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: t, Kind: KindNamed, Default: def, HasDefault: true})
	return b
}

// Flag adds a boolean flag defaulting to false.
func (b *TaskBuilder) Flag(name string) *TaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: TypeBoolean, Kind: KindFlag, Default: false, HasDefault: true})
	return b
}

// PositionalParam adds a required positional parameter. Position follows
// declaration order.
func (b *TaskBuilder) PositionalParam(name string, t ParamType) *TaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: t, Kind: KindPositional})
	return b
}

// PositionalParamWithDefault adds an optional positional parameter.
//
// Note: a defaulted positional parameter followed by a required one is
// accepted here; whether that ordering is sensible is left to the caller.
func (b *TaskBuilder) PositionalParamWithDefault(name string, t ParamType, def any) *TaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: t, Kind: KindPositional, Default: def, HasDefault: true})
	return b
}

// VariadicParam adds the required trailing variadic parameter with the given
// element type. At most one variadic parameter is allowed and it must be
// declared last.
func (b *TaskBuilder) VariadicParam(name string, elemType ParamType) *TaskBuilder {
	if b.core.hasVariadic {
		b.core.fail(&MultipleVariadicError{Name: name})
		return b
	}
	b.core.addParam(Parameter{Name: name, Type: elemType, Kind: KindVariadic})
	return b
}

// VariadicParamWithDefault adds an optional trailing variadic parameter whose
// default is the given sequence.
func (b *TaskBuilder) VariadicParamWithDefault(name string, elemType ParamType, def []any) *TaskBuilder {
	if b.core.hasVariadic {
		b.core.fail(&MultipleVariadicError{Name: name})
		return b
	}
	b.core.addParam(Parameter{Name: name, Type: elemType, Kind: KindVariadic, Default: def, HasDefault: true})
	return b
}

// Action sets an in-process function as the task's action. A later call
// replaces an earlier one.
func (b *TaskBuilder) Action(fn ActionFunc) *TaskBuilder {
	b.action = InlineAction(fn)
	b.actionSet = true
	return b
}

// ActionRef sets an opaque locator as the task's action, resolved to an
// invocable at first invocation.
func (b *TaskBuilder) ActionRef(locator string) *TaskBuilder {
	b.action = ReferenceAction(locator)
	b.actionSet = true
	return b
}

// Build validates the accumulated shape and produces the definition.
func (b *TaskBuilder) Build() (*TaskDefinition, error) {
	if b.core.err != nil {
		return nil, b.core.err
	}
	if !b.actionSet {
		return nil, &MissingActionError{ID: b.core.id}
	}
	return &TaskDefinition{
		kind:        KindNew,
		id:          b.core.id,
		description: b.core.description,
		action:      b.action,
		params:      b.core.params,
	}, nil
}

// OverrideTask starts a builder for an OVERRIDE definition targeting the
// given id segments.
func OverrideTask(segments ...string) *OverrideTaskBuilder {
	return &OverrideTaskBuilder{core: newBuilderCore(segments)}
}

// Description sets a replacement description. The zero value keeps the
// overridden task's description.
func (b *OverrideTaskBuilder) Description(text string) *OverrideTaskBuilder {
	b.core.setDescription(text)
	return b
}

// NamedParam adds an optional named parameter to the overridden task's
// schema. Override-added parameters must carry a default: the override may
// run against callers that predate it.
func (b *OverrideTaskBuilder) NamedParam(name string, t ParamType, def any) *OverrideTaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: t, Kind: KindNamed, Default: def, HasDefault: true})
	return b
}

// Flag adds a boolean flag to the overridden task's schema.
func (b *OverrideTaskBuilder) Flag(name string) *OverrideTaskBuilder {
	b.core.addParam(Parameter{Name: name, Type: TypeBoolean, Kind: KindFlag, Default: false, HasDefault: true})
	return b
}

// Action sets the override's in-process action function.
func (b *OverrideTaskBuilder) Action(fn ActionFunc) *OverrideTaskBuilder {
	b.action = InlineAction(fn)
	b.actionSet = true
	return b
}

// ActionRef sets the override's action as an opaque locator.
func (b *OverrideTaskBuilder) ActionRef(locator string) *OverrideTaskBuilder {
	b.action = ReferenceAction(locator)
	b.actionSet = true
	return b
}

// Build validates the accumulated shape and produces the definition.
func (b *OverrideTaskBuilder) Build() (*TaskDefinition, error) {
	if b.core.err != nil {
		return nil, b.core.err
	}
	if !b.actionSet {
		return nil, &MissingActionError{ID: b.core.id}
	}
	return &TaskDefinition{
		kind:        KindOverride,
		id:          b.core.id,
		description: b.core.description,
		action:      b.action,
		params:      b.core.params,
	}, nil
}

// EmptyTask starts a builder for an EMPTY placeholder definition. An EMPTY
// task carries no parameters and the empty sentinel action; it may serve as
// the namespace parent for subtasks.
func EmptyTask(segments ...string) *EmptyTaskBuilder {
	return &EmptyTaskBuilder{core: newBuilderCore(segments)}
}

// Description sets the placeholder's description.
func (b *EmptyTaskBuilder) Description(text string) *EmptyTaskBuilder {
	b.core.setDescription(text)
	return b
}

// Build produces the definition.
func (b *EmptyTaskBuilder) Build() (*TaskDefinition, error) {
	if b.core.err != nil {
		return nil, b.core.err
	}
	return &TaskDefinition{
		kind:        KindEmpty,
		id:          b.core.id,
		description: b.core.description,
		action:      EmptyAction(),
	}, nil
}
