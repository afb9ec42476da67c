// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskweave-cli/internal/config"
	"taskweave-cli/internal/registry"
	"taskweave-cli/pkg/cueutil"
)

//go:embed plugin_schema.cue
var manifestSchema string

const (
	// Suffix marks a directory as a plugin.
	Suffix = ".twplugin"
	// ManifestName is the manifest file every plugin carries at its root.
	ManifestName = "plugin.cue"
)

var (
	// ErrManifestNotFound is the sentinel error wrapped by ManifestNotFoundError.
	ErrManifestNotFound = errors.New("plugin manifest not found")
	// ErrDuplicateIdentity is the sentinel error wrapped by DuplicateIdentityError.
	ErrDuplicateIdentity = errors.New("duplicate plugin identity")
)

type (
	// Manifest is the decoded plugin.cue. Task and parameter declarations
	// share their shape with the project taskfile.
	Manifest struct {
		Identity     string                   `json:"identity"`
		Version      string                   `json:"version,omitempty"`
		Description  string                   `json:"description,omitempty"`
		GlobalParams []config.GlobalParamDecl `json:"global_params,omitempty"`
		Tasks        []config.TaskDecl        `json:"tasks,omitempty"`
	}

	// Plugin is a loaded plugin: its absolute directory, the configured
	// alias (if any), and the decoded manifest.
	Plugin struct {
		Path     string
		Alias    config.PluginAlias
		Manifest *Manifest
	}

	// ManifestNotFoundError is returned when a plugin directory has no
	// plugin.cue.
	ManifestNotFoundError struct {
		Dir string
	}

	// DuplicateIdentityError is returned when two loaded plugins contribute
	// under the same identity.
	DuplicateIdentityError struct {
		Identity   string
		FirstPath  string
		SecondPath string
	}
)

// Error implements the error interface.
func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("plugin manifest not found: %s has no %s", e.Dir, ManifestName)
}

// Unwrap returns ErrManifestNotFound for errors.Is() compatibility.
func (e *ManifestNotFoundError) Unwrap() error { return ErrManifestNotFound }

// Error implements the error interface.
func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf(
		"plugin identity collision: %q provided by both:\n"+
			"  - %s\n"+
			"  - %s\n\n"+
			"Give one of them an alias in the plugins list of your config file.",
		e.Identity, e.FirstPath, e.SecondPath)
}

// Unwrap returns ErrDuplicateIdentity for errors.Is() compatibility.
func (e *DuplicateIdentityError) Unwrap() error { return ErrDuplicateIdentity }

// IsPlugin reports whether path is a plugin directory: it carries the
// .twplugin suffix and contains a manifest.
func IsPlugin(path string) bool {
	if !strings.HasSuffix(path, Suffix) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(path, ManifestName))
	return err == nil
}

// Load reads and decodes the manifest of the plugin at dir.
func Load(dir string) (*Plugin, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin path %s: %w", dir, err)
	}

	data, err := os.ReadFile(filepath.Join(absDir, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ManifestNotFoundError{Dir: absDir}
		}
		return nil, fmt.Errorf("failed to read plugin manifest: %w", err)
	}

	res, err := cueutil.ParseAndDecode[Manifest]([]byte(manifestSchema), data, "#Plugin",
		cueutil.WithFilename(filepath.Join(filepath.Base(absDir), ManifestName)))
	if err != nil {
		return nil, err
	}

	return &Plugin{Path: absDir, Manifest: res.Value}, nil
}

// Identity returns the identity the plugin contributes under: the configured
// alias when one is set, the manifest identity otherwise.
func (p *Plugin) Identity() string {
	if p.Alias != "" {
		return string(p.Alias)
	}
	return p.Manifest.Identity
}

// ShortName returns the plugin directory name without the suffix.
func (p *Plugin) ShortName() string {
	return strings.TrimSuffix(filepath.Base(p.Path), Suffix)
}

// Contributor converts the plugin's manifest into its registry contribution.
// Relative script paths are rebased onto the plugin directory so scripts
// resolve regardless of the working directory.
func (p *Plugin) Contributor() (registry.Contributor, error) {
	tasks := make([]config.TaskDecl, len(p.Manifest.Tasks))
	copy(tasks, p.Manifest.Tasks)
	for i := range tasks {
		if s := tasks[i].Script; s != "" && !filepath.IsAbs(s) {
			tasks[i].Script = filepath.Join(p.Path, s)
		}
	}

	tf := config.Taskfile{GlobalParams: p.Manifest.GlobalParams, Tasks: tasks}
	c, err := tf.Contributor()
	if err != nil {
		return registry.Contributor{}, fmt.Errorf("plugin %s: %w", p.Identity(), err)
	}
	c.Identity = p.Identity()
	return c, nil
}

// Contributors converts loaded plugins into registry contributors, preserving
// load order.
func Contributors(plugins []*Plugin) ([]registry.Contributor, error) {
	out := make([]registry.Contributor, 0, len(plugins))
	for _, p := range plugins {
		c, err := p.Contributor()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
