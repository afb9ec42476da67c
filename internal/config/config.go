// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"taskweave-cli/internal/issue"
	"taskweave-cli/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "taskweave"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// DefaultTaskfileName is the taskfile looked up in the working directory
	// when the configuration names none.
	DefaultTaskfileName = "taskfile.cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the taskweave configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// PluginsDir returns the default directory for user-installed plugins.
// The path is ~/.taskweave/plugins on all platforms.
func PluginsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName, "plugins"), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("plugins", defaults.Plugins)
	v.SetDefault("plugin_dirs", defaults.PluginDirs)
	v.SetDefault("taskfile", defaults.Taskfile)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("server.enabled", defaults.Server.Enabled)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", int(defaults.Server.Port))
	v.SetDefault("server.authorized_keys", defaults.Server.AuthorizedKeys)

	resolvedPath := ""

	// If a custom config file path is set via --tw-config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'taskweave config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'taskweave config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("See 'taskweave config --help' for configuration options").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		} else {
			// Also check current directory
			localCuePath := ConfigFileName + "." + ConfigFileExt
			if fileExists(localCuePath) {
				if err := loadCUEIntoViper(v, localCuePath); err != nil {
					return nil, "", issue.NewErrorContext().
						WithOperation("load configuration").
						WithResource(localCuePath).
						WithSuggestion("Check that the file contains valid CUE syntax").
						WithSuggestion("Verify the configuration values match the expected schema").
						WithSuggestion("See 'taskweave config --help' for configuration options").
						Wrap(err).
						BuildError()
				}
				resolvedPath = localCuePath
			}
			// If no config file found, use defaults (no error)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate plugin constraints that CUE cannot express:
	// path uniqueness, alias uniqueness, and short-name collision disambiguation.
	if err := validatePlugins("plugins", cfg.Plugins); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Ensure each alias is unique across all plugins entries").
			WithSuggestion("When two plugins share the same short name, all must have unique aliases").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because:
// 1. Config decodes to map[string]any (not a struct) for Viper integration
// 2. Uses Concrete(false) because config fields are optional
// 3. Needs to merge into Viper's config map, not return a struct
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if int64(len(data)) > cueutil.DefaultMaxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), cueutil.DefaultMaxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// validatePlugins checks plugin refs for constraints that CUE cannot express:
//   - all paths must be unique (normalized via filepath.Clean)
//   - all non-empty aliases must be globally unique across entries
//   - when two or more entries share the same filesystem short name (e.g.,
//     "solidity.twplugin"), ALL entries with that short name must have a
//     non-empty alias for disambiguation
//
// The fieldName parameter is used in error messages to identify which section
// failed validation.
func validatePlugins(fieldName string, plugins []PluginRef) error {
	seenAliases := make(map[PluginAlias]PluginPath) // alias -> path of first occurrence
	seenPaths := make(map[string]int)               // cleaned path -> index of first occurrence
	shortNames := make(map[string][]int)            // short name -> indices of entries with that name

	for i, ref := range plugins {
		cleanPath := filepath.Clean(string(ref.Path))
		if firstIdx, exists := seenPaths[cleanPath]; exists {
			return fmt.Errorf("%s[%d]: duplicate path %q (same as %s[%d])", fieldName, i, ref.Path, fieldName, firstIdx)
		}
		seenPaths[cleanPath] = i

		shortName := strings.TrimSuffix(filepath.Base(string(ref.Path)), pluginSuffix)
		shortNames[shortName] = append(shortNames[shortName], i)

		if ref.Alias != "" {
			if existingPath, exists := seenAliases[ref.Alias]; exists {
				return fmt.Errorf("%s: duplicate alias %q used by both %q and %q", fieldName, ref.Alias, existingPath, ref.Path)
			}
			seenAliases[ref.Alias] = ref.Path
		}
	}

	// Enforce short-name collision rule: if 2+ entries share the same short
	// name, ALL of those entries must have non-empty aliases.
	for shortName, indices := range shortNames {
		if len(indices) < 2 {
			continue
		}
		for _, idx := range indices {
			if plugins[idx].Alias == "" {
				return fmt.Errorf(
					"%s[%d]: plugin %q shares short name %q with %d other entry(ies); all entries with this short name must have unique aliases",
					fieldName, idx, plugins[idx].Path, shortName, len(indices)-1,
				)
			}
		}
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// EnsurePluginsDir creates the plugins directory if it doesn't exist
func EnsurePluginsDir() error {
	dir, err := PluginsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Taskweave Configuration File\n\n")

	if len(cfg.Plugins) > 0 {
		sb.WriteString("plugins: [\n")
		for _, ref := range cfg.Plugins {
			if ref.Alias != "" {
				sb.WriteString(fmt.Sprintf("\t{path: %q, alias: %q},\n", ref.Path, ref.Alias))
			} else {
				sb.WriteString(fmt.Sprintf("\t{path: %q},\n", ref.Path))
			}
		}
		sb.WriteString("]\n\n")
	}

	if len(cfg.PluginDirs) > 0 {
		sb.WriteString("plugin_dirs: [\n")
		for _, dir := range cfg.PluginDirs {
			sb.WriteString(fmt.Sprintf("\t%q,\n", dir))
		}
		sb.WriteString("]\n\n")
	}

	if cfg.Taskfile != "" {
		sb.WriteString(fmt.Sprintf("taskfile: %q\n\n", cfg.Taskfile))
	}

	sb.WriteString("ui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	sb.WriteString("\nserver: {\n")
	sb.WriteString(fmt.Sprintf("\tenabled: %v\n", cfg.Server.Enabled))
	sb.WriteString(fmt.Sprintf("\thost: %q\n", cfg.Server.Host))
	sb.WriteString(fmt.Sprintf("\tport: %d\n", cfg.Server.Port))
	if cfg.Server.AuthorizedKeys != "" {
		sb.WriteString(fmt.Sprintf("\tauthorized_keys: %q\n", cfg.Server.AuthorizedKeys))
	}
	sb.WriteString("}\n")

	return sb.String()
}
