// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, errs := cs.IsValid(); !valid {
			t.Errorf("%s should be valid, got %v", cs, errs)
		}
	}

	valid, errs := ColorScheme("neon").IsValid()
	if valid {
		t.Error("neon should be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("errors = %v, want ErrInvalidColorScheme", errs)
	}
}

func TestPluginPath_IsValid(t *testing.T) {
	if valid, _ := PluginPath("/p/build.twplugin").IsValid(); !valid {
		t.Error("non-empty path should be valid")
	}
	for _, p := range []PluginPath{"", "   "} {
		valid, errs := p.IsValid()
		if valid {
			t.Errorf("%q should be invalid", p)
		}
		if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidPluginPath) {
			t.Errorf("errors = %v, want ErrInvalidPluginPath", errs)
		}
	}
}

func TestPluginAlias_IsValid(t *testing.T) {
	if valid, _ := PluginAlias("").IsValid(); !valid {
		t.Error("zero-value alias should be valid")
	}
	if valid, _ := PluginAlias("builder").IsValid(); !valid {
		t.Error("non-empty alias should be valid")
	}
	valid, errs := PluginAlias("  ").IsValid()
	if valid {
		t.Error("whitespace-only alias should be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidPluginAlias) {
		t.Errorf("errors = %v, want ErrInvalidPluginAlias", errs)
	}
}

func TestTaskfilePath_IsValid(t *testing.T) {
	if valid, _ := TaskfilePath("").IsValid(); !valid {
		t.Error("zero-value taskfile path should be valid")
	}
	if valid, _ := TaskfilePath("tasks.cue").IsValid(); !valid {
		t.Error("non-empty taskfile path should be valid")
	}
	if valid, _ := TaskfilePath(" ").IsValid(); valid {
		t.Error("whitespace-only taskfile path should be invalid")
	}
}

func TestPluginRef_IsValid(t *testing.T) {
	if valid, _ := (PluginRef{Path: "/p/build.twplugin"}).IsValid(); !valid {
		t.Error("ref with path should be valid")
	}

	valid, errs := (PluginRef{Path: "", Alias: " "}).IsValid()
	if valid {
		t.Error("ref with empty path and whitespace alias should be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidPluginRef) {
		t.Fatalf("errors = %v, want one InvalidPluginRefError", errs)
	}
	var refErr *InvalidPluginRefError
	if !errors.As(errs[0], &refErr) || len(refErr.FieldErrors) != 2 {
		t.Errorf("field errors = %v, want 2", refErr)
	}
}

func TestPluginRef_IsPlugin(t *testing.T) {
	if !(PluginRef{Path: "/p/build.twplugin"}).IsPlugin() {
		t.Error("path ending in .twplugin is a plugin")
	}
	if (PluginRef{Path: "/p/build"}).IsPlugin() {
		t.Error("path without the suffix is not a plugin")
	}
}

func TestServerConfig_IsValid(t *testing.T) {
	disabled := ServerConfig{Enabled: false}
	if valid, errs := disabled.IsValid(); !valid {
		t.Errorf("disabled server needs no host or port, got %v", errs)
	}

	enabled := ServerConfig{Enabled: true, Host: "localhost", Port: 2227}
	if valid, errs := enabled.IsValid(); !valid {
		t.Errorf("enabled server with host and port should be valid, got %v", errs)
	}

	badPort := ServerConfig{Enabled: true, Host: "localhost", Port: 99999}
	if valid, _ := badPort.IsValid(); valid {
		t.Error("port above 65535 should be invalid")
	}

	noHost := ServerConfig{Enabled: true, Host: " ", Port: 2227}
	if valid, _ := noHost.IsValid(); valid {
		t.Error("enabled server without host should be invalid")
	}
}

func TestConfig_IsValid_CollectsErrors(t *testing.T) {
	cfg := Config{
		Plugins:  []PluginRef{{Path: ""}},
		Taskfile: " ",
		UI:       UIConfig{ColorScheme: "neon"},
		Server:   ServerConfig{Enabled: true, Host: "", Port: -1},
	}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("config with invalid fields should be invalid")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidConfig) {
		t.Fatalf("errors = %v, want one InvalidConfigError", errs)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) || len(cfgErr.FieldErrors) != 4 {
		t.Errorf("field errors = %+v, want 4", cfgErr)
	}
}
