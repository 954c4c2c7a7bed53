// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stlaunch",
		Short: "Launch DCC applications with studio tools injected",
		Long: TitleStyle.Render("stlaunch") + SubtitleStyle.Render(" - Launch DCC applications with studio tools injected") + `

stlaunch starts Blender, Houdini, usdview and other applications with the
environment, bootstrap steps and load scripts the studio tools need.

` + SubtitleStyle.Render("Examples:") + `
  stlaunch launch blender shot.blend --exe /opt/blender-4.2/blender
  stlaunch launch houdini shot.hip --exe /opt/hfs20.5/bin/houdini --wait
  stlaunch launch usdview stage.usda
  stlaunch apps list --all
  stlaunch config show`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.loadConfig(cmd.Context())
			if err := app.setupLogger(); err != nil {
				return app.fail(cmd, err)
			}
			if app.cfgErr != nil {
				app.logger.Debug("configuration not loaded", "err", app.cfgErr)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/stlaunch/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newLaunchCommand(app))
	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newSymlinkCommand(app))
	rootCmd.AddCommand(newAppsCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
