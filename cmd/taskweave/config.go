// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskweave-cli/internal/config"
	"taskweave-cli/internal/issue"
)

// configCmd is the `taskweave config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage taskweave configuration",
	Long: `Manage taskweave configuration.

Configuration is stored in:
  - Linux: ~/.config/taskweave/config.cue
  - macOS: ~/Library/Application Support/taskweave/config.cue
  - Windows: %APPDATA%\taskweave\config.cue`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		return err
	}

	keyStyle := TaskStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExists(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("plugins"))
	if len(cfg.Plugins) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, ref := range cfg.Plugins {
			if ref.Alias != "" {
				fmt.Printf("  - %s (alias: %s)\n", valueStyle.Render(ref.Path.String()), valueStyle.Render(ref.Alias.String()))
			} else {
				fmt.Printf("  - %s\n", valueStyle.Render(ref.Path.String()))
			}
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("plugin_dirs"))
	if len(cfg.PluginDirs) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, dir := range cfg.PluginDirs {
			fmt.Printf("  - %s\n", valueStyle.Render(dir))
		}
	}

	fmt.Println()
	if cfg.Taskfile != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("taskfile"), valueStyle.Render(cfg.Taskfile.String()))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("taskfile"), SubtitleStyle.Render("(taskfile.cue in the working directory)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("server"))
	fmt.Printf("  enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Server.Enabled)))
	fmt.Printf("  host: %s\n", valueStyle.Render(cfg.Server.Host))
	fmt.Printf("  port: %s\n", valueStyle.Render(cfg.Server.Port.String()))
	if cfg.Server.AuthorizedKeys != "" {
		fmt.Printf("  authorized_keys: %s\n", valueStyle.Render(cfg.Server.AuthorizedKeys))
	} else {
		fmt.Printf("  authorized_keys: %s\n", SubtitleStyle.Render("(unset, public keys rejected)"))
	}

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	// Also create the user plugins directory
	pluginsDir, err := config.PluginsDir()
	if err == nil {
		if mkdirErr := config.EnsurePluginsDir(); mkdirErr != nil {
			log.Warn("failed to create plugins directory", "path", pluginsDir, "error", mkdirErr)
		} else {
			fmt.Printf("%s Created plugins directory at %s\n", SuccessStyle.Render("✓"), pluginsDir)
		}
	} else {
		log.Warn("failed to determine plugins directory", "error", err)
	}

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	pluginsDir, err := config.PluginsDir()
	if err == nil {
		fmt.Printf("Plugins directory: %s\n", pluginsDir)
	}

	return nil
}
