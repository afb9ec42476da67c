// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from. The zero value
	// means the platform config directory, falling back to the working
	// directory, falling back to defaults.
	LoadOptions struct {
		// ConfigFilePath, when set, is the only source consulted; a missing
		// or invalid file is an error rather than a fallback.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory lookup.
		ConfigDirPath string
	}

	// Provider loads the effective configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider returns the file-backed configuration provider.
func NewProvider() Provider {
	return fileProvider{}
}

// Load reads, validates, and decodes the configuration named by opts.
func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

// configDirOverride short-circuits ConfigDir. Tests set it because
// os.UserHomeDir ignores a rewritten HOME on some platforms, so pointing
// HOME at a temp dir is not enough to isolate a test.
var configDirOverride string

// SetConfigDirOverride pins the config directory for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides; pair it with t.Cleanup.
func Reset() {
	configDirOverride = ""
}
