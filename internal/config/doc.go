// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/taskweave/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/taskweave/config.cue on macOS, %APPDATA%\taskweave\config.cue
// on Windows). The package provides type-safe configuration access: plugin load order and
// search paths, the project taskfile location, UI settings, and the SSH server.
//
// Configuration validation is performed against a CUE schema (config_schema.cue); the
// project taskfile is parsed here too, against its own schema (taskfile_schema.cue), and
// converted into the registry contribution that folds in after every plugin.
package config
