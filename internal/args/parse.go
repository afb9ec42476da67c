// SPDX-License-Identifier: MPL-2.0

package args

import (
	"math/big"
	"strconv"
	"strings"

	"taskweave-cli/pkg/taskdef"
)

// ParseValue converts one textual token into the typed value the parameter
// accepts. For a variadic parameter the type applies to each element.
func ParseValue(param taskdef.Parameter, text string) (any, error) {
	switch param.Type {
	case taskdef.TypeString, taskdef.TypeFile:
		return text, nil
	case taskdef.TypeBoolean:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return nil, &InvalidValueError{Param: param.Name, Value: text, Type: param.Type, Kind: param.Kind}
		}
		return v, nil
	case taskdef.TypeInt:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, &InvalidValueError{Param: param.Name, Value: text, Type: param.Type, Kind: param.Kind}
		}
		return v, nil
	case taskdef.TypeFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &InvalidValueError{Param: param.Name, Value: text, Type: param.Type, Kind: param.Kind}
		}
		return v, nil
	case taskdef.TypeBigInt:
		v, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, &InvalidValueError{Param: param.Name, Value: text, Type: param.Type, Kind: param.Kind}
		}
		return v, nil
	default:
		return nil, &InvalidValueError{Param: param.Name, Value: text, Type: param.Type, Kind: param.Kind}
	}
}

// BuildRaw parses a textual argument vector against the schema into the raw
// bag Resolve consumes. Named parameters are addressed as --name value or
// --name=value; flags take no value; a bare -- ends named parsing. Leftover
// tokens bind to positional parameters in declaration order, and the
// variadic parameter, when declared, collects the trailing tokens.
func BuildRaw(schema []taskdef.Parameter, argv []string) (map[string]any, error) {
	named := make(map[string]taskdef.Parameter)
	var positionals []taskdef.Parameter
	var variadic *taskdef.Parameter
	for _, param := range schema {
		p := param
		switch p.Kind {
		case taskdef.KindNamed, taskdef.KindFlag:
			named[p.Name] = p
		case taskdef.KindPositional:
			positionals = append(positionals, p)
		case taskdef.KindVariadic:
			variadic = &p
		}
	}

	raw := make(map[string]any)
	var tail []string
	namedDone := false

	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if namedDone || !strings.HasPrefix(tok, "--") {
			tail = append(tail, tok)
			continue
		}
		if tok == "--" {
			namedDone = true
			continue
		}

		name := strings.TrimPrefix(tok, "--")
		var text string
		var hasText bool
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, text, hasText = name[:eq], name[eq+1:], true
		}

		param, declared := named[name]
		if !declared {
			return nil, &UnrecognizedParamError{Param: name}
		}

		if param.Kind == taskdef.KindFlag {
			if hasText {
				v, err := ParseValue(param, text)
				if err != nil {
					return nil, err
				}
				raw[name] = v
			} else {
				raw[name] = true
			}
			continue
		}

		if !hasText {
			i++
			if i >= len(argv) {
				return nil, &MissingValueError{Param: name}
			}
			text = argv[i]
		}
		v, err := ParseValue(param, text)
		if err != nil {
			return nil, err
		}
		raw[name] = v
	}

	for _, param := range positionals {
		if len(tail) == 0 {
			break
		}
		v, err := ParseValue(param, tail[0])
		if err != nil {
			return nil, err
		}
		raw[param.Name] = v
		tail = tail[1:]
	}

	if len(tail) > 0 {
		if variadic == nil {
			return nil, &UnrecognizedParamError{Param: tail[0]}
		}
		seq := make([]any, 0, len(tail))
		for _, tok := range tail {
			v, err := ParseValue(*variadic, tok)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		raw[variadic.Name] = seq
	}

	return raw, nil
}
