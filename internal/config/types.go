// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"taskweave-cli/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// pluginSuffix is the filesystem suffix for plugin directories.
	// Defined locally to avoid coupling config to internal/plugin.
	pluginSuffix = ".twplugin"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPluginPath is the sentinel error wrapped by InvalidPluginPathError.
	ErrInvalidPluginPath = errors.New("invalid plugin path")
	// ErrInvalidPluginAlias is the sentinel error wrapped by InvalidPluginAliasError.
	ErrInvalidPluginAlias = errors.New("invalid plugin alias")
	// ErrInvalidTaskfilePath is returned when a TaskfilePath value is whitespace-only.
	ErrInvalidTaskfilePath = errors.New("invalid taskfile path")
	// ErrInvalidPluginRef is the sentinel error wrapped by InvalidPluginRefError.
	ErrInvalidPluginRef = errors.New("invalid plugin reference")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidServerConfig is the sentinel error wrapped by InvalidServerConfigError.
	ErrInvalidServerConfig = errors.New("invalid server config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// PluginPath represents a filesystem path to a *.twplugin directory.
	// A valid path must be non-empty and not whitespace-only.
	PluginPath string

	// InvalidPluginPathError is returned when a PluginPath value is empty or
	// whitespace-only. It wraps ErrInvalidPluginPath for errors.Is().
	InvalidPluginPathError struct {
		Value PluginPath
	}

	// PluginAlias optionally renames a plugin's identity for collision
	// disambiguation. The zero value ("") means "use the plugin's own name".
	PluginAlias string

	// InvalidPluginAliasError is returned when a PluginAlias value is
	// non-empty but whitespace-only.
	InvalidPluginAliasError struct {
		Value PluginAlias
	}

	// TaskfilePath represents a filesystem path to the project taskfile.
	// The zero value ("") is valid and means "use taskfile.cue in the
	// working directory".
	TaskfilePath string

	// InvalidTaskfilePathError is returned when a TaskfilePath value is
	// non-empty but whitespace-only.
	InvalidTaskfilePathError struct {
		Value TaskfilePath
	}

	// InvalidPluginRefError is returned when a PluginRef has invalid fields.
	// It wraps ErrInvalidPluginRef for errors.Is() compatibility and collects
	// field-level validation errors from Path and Alias.
	InvalidPluginRefError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidServerConfigError is returned when a ServerConfig has invalid fields.
	InvalidServerConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// PluginRef pins a plugin into the explicit load order.
	PluginRef struct {
		// Path is the filesystem path to a *.twplugin directory.
		Path PluginPath `json:"path" mapstructure:"path"`
		// Alias optionally overrides the plugin identity for collision disambiguation.
		Alias PluginAlias `json:"alias,omitempty" mapstructure:"alias"`
	}

	// Config holds the application configuration.
	Config struct {
		// Plugins lists plugins in explicit load order. Contributions fold
		// into the task registry in this order, before the taskfile's.
		Plugins []PluginRef `json:"plugins" mapstructure:"plugins"`
		// PluginDirs lists directories scanned for additional *.twplugin
		// directories not already pinned by Plugins.
		PluginDirs []string `json:"plugin_dirs" mapstructure:"plugin_dirs"`
		// Taskfile is the path to the project taskfile.
		Taskfile TaskfilePath `json:"taskfile" mapstructure:"taskfile"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Server configures the SSH task server.
		Server ServerConfig `json:"server" mapstructure:"server"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// ServerConfig configures the SSH task server.
	ServerConfig struct {
		// Enabled allows `taskweave serve` to start without the flag.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Host is the listen address.
		Host string `json:"host" mapstructure:"host"`
		// Port is the listen port.
		Port types.ListenPort `json:"port" mapstructure:"port"`
		// AuthorizedKeys is the path to the authorized keys file. Empty
		// disables public key checks (local use only).
		AuthorizedKeys string `json:"authorized_keys" mapstructure:"authorized_keys"`
	}
)

// IsPlugin reports whether this ref points at a plugin directory (.twplugin).
func (r PluginRef) IsPlugin() bool {
	return strings.HasSuffix(string(r.Path), pluginSuffix)
}

// IsValid returns whether the PluginRef has valid fields.
// It delegates to Path.IsValid() unconditionally and to Alias.IsValid()
// only when non-empty (the zero-value alias is always valid).
func (r PluginRef) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := r.Path.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if r.Alias != "" {
		if valid, fieldErrs := r.Alias.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPluginRefError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPluginRefError.
func (e *InvalidPluginRefError) Error() string {
	return fmt.Sprintf("invalid plugin reference: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPluginRef for errors.Is() compatibility.
func (e *InvalidPluginRefError) Unwrap() error { return ErrInvalidPluginRef }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the ServerConfig has valid fields.
// Port is validated only when the server is enabled; a disabled server may
// carry the zero port.
func (c ServerConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Enabled {
		if err := c.Port.Validate(); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(c.Host) == "" {
			errs = append(errs, errors.New("server host must be non-empty when the server is enabled"))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServerConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServerConfigError.
func (e *InvalidServerConfigError) Error() string {
	return fmt.Sprintf("invalid server config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServerConfig for errors.Is() compatibility.
func (e *InvalidServerConfigError) Unwrap() error { return ErrInvalidServerConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each Plugins entry's IsValid(), Taskfile.IsValid(),
// UI.IsValid(), and Server.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, ref := range c.Plugins {
		if valid, fieldErrs := ref.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Taskfile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Server.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the PluginPath.
func (p PluginPath) String() string { return string(p) }

// IsValid returns whether the PluginPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p PluginPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidPluginPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPluginPathError.
func (e *InvalidPluginPathError) Error() string {
	return fmt.Sprintf("invalid plugin path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidPluginPath for errors.Is() compatibility.
func (e *InvalidPluginPathError) Unwrap() error { return ErrInvalidPluginPath }

// String returns the string representation of the PluginAlias.
func (a PluginAlias) String() string { return string(a) }

// IsValid returns whether the PluginAlias is valid.
// The zero value ("") is valid. Non-zero values must not be whitespace-only.
func (a PluginAlias) IsValid() (bool, []error) {
	if a == "" {
		return true, nil
	}
	if strings.TrimSpace(string(a)) == "" {
		return false, []error{&InvalidPluginAliasError{Value: a}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPluginAliasError.
func (e *InvalidPluginAliasError) Error() string {
	return fmt.Sprintf("invalid plugin alias %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidPluginAlias for errors.Is() compatibility.
func (e *InvalidPluginAliasError) Unwrap() error { return ErrInvalidPluginAlias }

// String returns the string representation of the TaskfilePath.
func (p TaskfilePath) String() string { return string(p) }

// IsValid returns whether the TaskfilePath is valid.
// The zero value ("") is valid (means "use taskfile.cue in the working
// directory"). Non-zero values must not be whitespace-only.
func (p TaskfilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidTaskfilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTaskfilePathError.
func (e *InvalidTaskfilePathError) Error() string {
	return fmt.Sprintf("invalid taskfile path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidTaskfilePath for errors.Is() compatibility.
func (e *InvalidTaskfilePathError) Unwrap() error { return ErrInvalidTaskfilePath }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Plugins:    []PluginRef{},
		PluginDirs: []string{},
		Taskfile:   "", // Will use taskfile.cue in the working directory
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Server: ServerConfig{
			Enabled:        false,
			Host:           "localhost",
			Port:           types.ListenPort(2227),
			AuthorizedKeys: "",
		},
	}
}
