// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/studiotools/stlaunch/internal/config"
)

// newConfigCommand creates the `stlaunch config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stlaunch configuration",
		Long: `Manage stlaunch configuration.

Configuration is stored in:
  - Linux: ~/.config/stlaunch/config.cue
  - macOS: ~/Library/Application Support/stlaunch/config.cue
  - Windows: %APPDATA%\stlaunch\config.cue

Any value can be overridden with a STLAUNCH_ environment variable,
for example STLAUNCH_TOOLS_DIR or STLAUNCH_BOOTSTRAP_ENABLED.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return app.fail(cmd, err)
			}
			showConfig(app.stdout, cfg, app.cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, written, err := config.CreateDefaultConfig(app.configDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			if !written {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.configDir
			if dir == "" {
				var err error
				if dir, err = config.ConfigDir(); err != nil {
					return app.fail(cmd, err)
				}
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", dir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	kv := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	kv("", "tools_dir", cfg.ToolsDir)
	kv("", "log_level", cfg.LogLevel)

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("blender"))
	kv("  ", "load_script", cfg.Blender.LoadScript)
	kv("  ", "requirements", cfg.Blender.Requirements)

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("houdini"))
	kv("  ", "load_script", cfg.Houdini.LoadScript)
	kv("  ", "toolbar_dir", cfg.Houdini.ToolbarDir)
	kv("  ", "otls_dir", cfg.Houdini.OtlsDir)
	kv("  ", "menu_dir", cfg.Houdini.MenuDir)

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("usdview"))
	kv("  ", "windows_binary", cfg.Usdview.WindowsBinary)
	kv("  ", "unix_binary", cfg.Usdview.UnixBinary)
	if cfg.Usdview.WindowsPathDir == "" {
		fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("windows_path_dir"), SubtitleStyle.Render("(none)"))
	} else {
		kv("  ", "windows_path_dir", cfg.Usdview.WindowsPathDir)
	}

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("bootstrap"))
	kv("  ", "enabled", cfg.Bootstrap.Enabled)
	kv("  ", "timeout", cfg.Bootstrap.Timeout)

	fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("ui"))
	kv("  ", "verbose", cfg.UI.Verbose)
	kv("  ", "color_scheme", cfg.UI.ColorScheme)
}
