// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"taskweave-cli/internal/config"
)

const (
	// SeverityWarning indicates a recoverable loading warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal loading error diagnostic.
	SeverityError Severity = "error"
)

type (
	// Severity represents loader diagnostic severity.
	Severity string

	// Diagnostic represents a structured loading diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering
	// policy. Skipped plugins in search directories produce diagnostics;
	// plugins named explicitly in the configuration fail the load instead.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "plugin_parse_skipped").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the plugin directory associated with this diagnostic.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Loader finds and loads plugins according to the configuration.
	Loader struct {
		cfg *config.Config

		// LockPath overrides where the lock file is read from. When empty,
		// the lock file next to the config file is used.
		LockPath string

		diags []Diagnostic
	}

	// Result bundles the loaded plugins with the diagnostics produced while
	// loading them.
	Result struct {
		Plugins     []*Plugin
		Diagnostics []Diagnostic
	}
)

// NewLoader creates a loader for the given configuration.
func NewLoader(cfg *config.Config) *Loader {
	return &Loader{cfg: cfg}
}

// LoadAll loads every plugin in contribution order: explicit configuration
// entries first, in configuration order, then discovered plugins ordered by
// the lock file and then by discovery order. An identity collision between
// any two loaded plugins aborts the load.
func (l *Loader) LoadAll() (*Result, error) {
	l.diags = nil

	var plugins []*Plugin
	seen := make(map[string]bool)

	for _, ref := range l.cfg.Plugins {
		p, err := Load(filepath.Clean(string(ref.Path)))
		if err != nil {
			return nil, fmt.Errorf("failed to load configured plugin %s: %w", ref.Path, err)
		}
		p.Alias = ref.Alias
		if seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		plugins = append(plugins, p)
	}

	var discovered []*Plugin
	for _, dir := range l.searchDirs() {
		discovered = append(discovered, l.scanDir(dir, seen)...)
	}

	lock, err := l.readLock()
	if err != nil {
		return nil, err
	}
	lock.applyOrder(discovered)
	plugins = append(plugins, discovered...)

	if err := checkIdentities(plugins); err != nil {
		return nil, err
	}

	return &Result{Plugins: plugins, Diagnostics: l.diags}, nil
}

// searchDirs returns the directories scanned for plugins: the configured
// plugin directories followed by the user plugins directory.
func (l *Loader) searchDirs() []string {
	dirs := make([]string, 0, len(l.cfg.PluginDirs)+1)
	dirs = append(dirs, l.cfg.PluginDirs...)
	if userDir, err := config.PluginsDir(); err == nil {
		dirs = append(dirs, userDir)
	}
	return dirs
}

// scanDir loads every plugin in the immediate subdirectories of dir.
// Plugins are not nested. Directories that fail to load are skipped with a
// diagnostic.
func (l *Loader) scanDir(dir string, seen map[string]bool) []*Plugin {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	entries, err := os.ReadDir(absDir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.diags = append(l.diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     "plugin_dir_unreadable",
				Message:  fmt.Sprintf("skipping plugin directory %s: %v", absDir, err),
				Path:     absDir,
				Cause:    err,
			})
		}
		return nil
	}

	var plugins []*Plugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(absDir, entry.Name())
		if !IsPlugin(entryPath) {
			continue
		}
		if seen[entryPath] {
			continue
		}

		p, err := Load(entryPath)
		if err != nil {
			l.diags = append(l.diags, Diagnostic{
				Severity: SeverityError,
				Code:     "plugin_parse_skipped",
				Message:  fmt.Sprintf("skipping plugin %s: %v", entryPath, err),
				Path:     entryPath,
				Cause:    err,
			})
			continue
		}
		seen[entryPath] = true
		plugins = append(plugins, p)
	}
	return plugins
}

// readLock loads the lock file, defaulting to the one next to the config
// file.
func (l *Loader) readLock() (*Lock, error) {
	path := l.LockPath
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return &Lock{Version: LockVersion}, nil
		}
		path = filepath.Join(dir, LockFileName)
	}
	return ReadLock(path)
}

// checkIdentities rejects two plugins contributing under the same identity.
func checkIdentities(plugins []*Plugin) error {
	owners := make(map[string]string, len(plugins))
	for _, p := range plugins {
		identity := p.Identity()
		if first, taken := owners[identity]; taken {
			return &DuplicateIdentityError{Identity: identity, FirstPath: first, SecondPath: p.Path}
		}
		owners[identity] = p.Path
	}
	return nil
}
