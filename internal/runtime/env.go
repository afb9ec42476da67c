// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"taskweave-cli/pkg/taskdef"
)

// ParamEnvPrefix is the prefix under which finalized arguments are exported
// to scripts.
const ParamEnvPrefix = "TW_PARAM_"

// ErrEnvNameCollision is the sentinel error wrapped by EnvNameCollisionError.
var ErrEnvNameCollision = errors.New("parameter names collide in the environment")

// EnvNameCollisionError is returned when two parameter names map to the same
// TW_PARAM_* variable, such as "gas-limit" and "gas_limit".
type EnvNameCollisionError struct {
	First  string
	Second string
	EnvVar string
}

// Error implements the error interface.
func (e *EnvNameCollisionError) Error() string {
	return fmt.Sprintf("parameters %q and %q both export as %s", e.First, e.Second, e.EnvVar)
}

// Unwrap returns ErrEnvNameCollision for errors.Is() compatibility.
func (e *EnvNameCollisionError) Unwrap() error { return ErrEnvNameCollision }

// EncodeArguments renders finalized arguments as environment variables and
// positional parameters. Every argument becomes TW_PARAM_<NAME>; variadic
// sequences additionally become the shell positional parameters, in order.
// The variable form of a variadic joins its elements with a single space, so
// element boundaries are only reliable through "$@"; the variable is a
// convenience for space-free values. Output is sorted by name so scripts see
// a stable environment.
//
// Hyphens upper-case to underscores, so "gas-limit" and "gas_limit" would
// export as the same variable; that collision is an error rather than a
// silent clobber.
func EncodeArguments(a taskdef.Arguments) (vars, positional []string, err error) {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)

	claimed := make(map[string]string, len(names))
	for _, name := range names {
		ev := envName(name)
		if first, ok := claimed[ev]; ok {
			return nil, nil, &EnvNameCollisionError{First: first, Second: name, EnvVar: ev}
		}
		claimed[ev] = name

		switch v := a[name].(type) {
		case []any:
			rendered := make([]string, len(v))
			for i, elem := range v {
				rendered[i] = formatValue(elem)
			}
			positional = append(positional, rendered...)
			vars = append(vars, ev+"="+strings.Join(rendered, " "))
		default:
			vars = append(vars, ev+"="+formatValue(v))
		}
	}
	return vars, positional, nil
}

// FilterParamEnvVars drops TW_PARAM_* entries from an environment slice so a
// script that invokes the tool again does not leak its own arguments into the
// nested run.
func FilterParamEnvVars(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		name, _, ok := strings.Cut(e, "=")
		if ok && strings.HasPrefix(name, ParamEnvPrefix) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func envName(param string) string {
	cleaned := strings.ReplaceAll(param, "-", "_")
	return ParamEnvPrefix + strings.ToUpper(cleaned)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case *big.Int:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
