// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/studiotools/stlaunch/internal/launcher"
	"github.com/studiotools/stlaunch/internal/project"
	"github.com/studiotools/stlaunch/internal/runtime"
)

type launchFlags struct {
	executable string
	wait       bool
	dryRun     bool
	jsonOut    bool
	preload    string
	taskDir    string
	envFiles   []string
	envVars    []string
}

// workfileExtensions are the scene extensions used to derive a default
// content path from a task directory.
var workfileExtensions = map[launcher.AppID]string{
	launcher.Blender: "blend",
	launcher.Houdini: "hip",
}

func newLaunchCommand(app *App) *cobra.Command {
	var flags launchFlags

	cmd := &cobra.Command{
		Use:   "launch <app-id> [content-path]",
		Short: "Launch an application",
		Long: `Launch an application.

The application identifier selects the launch profile: blender, houdini,
usdview, or any other name for a plain "<exe> <content>" launch.

Bootstrap and prelaunch steps run to completion first. Their failures are
reported as warnings. The application itself is started and left running
unless --wait is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, runLaunch(cmd, app, args, flags))
		},
	}

	cmd.Flags().StringVar(&flags.executable, "exe", "", "application executable")
	cmd.Flags().BoolVar(&flags.wait, "wait", false, "wait for the application to exit and return its exit code")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the commands without running them")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the launch outcome as JSON")
	cmd.Flags().StringVar(&flags.preload, "preload", "", "wrapper program prefixed to the main command")
	cmd.Flags().StringVar(&flags.taskDir, "task-dir", "", "task directory inside a project; adds ST_* variables")
	cmd.Flags().StringArrayVar(&flags.envFiles, "env-file", nil, "dotenv file for the application (suffix ? for optional)")
	cmd.Flags().StringArrayVar(&flags.envVars, "env", nil, "KEY=VALUE for the application (highest precedence)")

	return cmd
}

func runLaunch(cmd *cobra.Command, app *App, args []string, flags launchFlags) error {
	cfg, err := app.config()
	if err != nil {
		return err
	}

	req := launcher.Request{
		App:        launcher.AppID(args[0]),
		Executable: flags.executable,
		Preload:    flags.preload,
		EnvFiles:   flags.envFiles,
	}
	if len(args) > 1 {
		req.ContentPath = args[1]
	}

	if len(flags.envVars) > 0 {
		if req.EnvVars, err = runtime.ParseAssignments(flags.envVars); err != nil {
			return err
		}
	}

	projectDir := ""
	if flags.taskDir != "" {
		if req.Context, err = project.NewContext(flags.taskDir); err != nil {
			return err
		}
		projectDir = req.Context.Project.Path
	}

	if req.Executable == "" {
		if err := app.applyCatalogEntry(cmd, &req, projectDir); err != nil {
			return err
		}
	}

	if req.Context != nil && req.ContentPath == "" {
		id := launcher.ParseAppID(string(req.App))
		if ext, ok := workfileExtensions[id]; ok {
			if flags.dryRun {
				req.ContentPath = req.Context.WorkfilePath(id.String(), ext)
			} else if req.ContentPath, err = req.Context.Workfile(id.String(), ext); err != nil {
				return err
			}
		}
	}

	outcome, launchErr := app.orchestrator(cfg).Launch(cmd.Context(), req, launcher.Options{
		Wait:   flags.wait,
		DryRun: flags.dryRun,
	})

	if flags.jsonOut {
		if err := writeJSON(app.stdout, outcome); err != nil {
			return err
		}
	} else if len(outcome.Steps) > 0 {
		renderOutcome(app.stdout, outcome, app.verbose())
	}

	if launchErr != nil {
		return launchErr
	}
	if outcome.MainExitCode != nil && *outcome.MainExitCode != 0 {
		return &ExitError{Code: *outcome.MainExitCode}
	}
	return nil
}

// applyCatalogEntry fills the executable, launch profile and preload of req
// from the catalog application named req.App. Unknown names are left alone.
func (a *App) applyCatalogEntry(cmd *cobra.Command, req *launcher.Request, projectDir string) error {
	c, err := a.loadCatalog(cmd.Context(), projectDir)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		a.logger.Warn("application catalog not loaded", "err", err)
		return nil
	}
	entry, ok := c.Get(string(req.App))
	if !ok {
		return nil
	}
	if !entry.Enabled {
		a.logger.Warn("launching a disabled application", "app", entry.Name)
	}
	req.App = launcher.ParseAppID(entry.Type)
	req.Executable = entry.Executable
	if req.Preload == "" {
		req.Preload = entry.Preload
	}
	a.logger.Debug("application from catalog", "name", entry.Name, "type", entry.Type, "executable", entry.Executable)
	return nil
}
