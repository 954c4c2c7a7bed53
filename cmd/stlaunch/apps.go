// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiotools/stlaunch/internal/catalog"
	"github.com/studiotools/stlaunch/internal/issue"
	"github.com/studiotools/stlaunch/internal/project"
)

func newAppsCommand(app *App) *cobra.Command {
	var projectDir string

	appsCmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the applications of a project",
		Long: `Manage the applications of a project.

Installed applications are discovered in the standard install locations.
The project's apps.yaml enables, disables or retypes them and adds custom
applications. The project is found by walking up from the working directory
to project.yaml unless --project is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	appsCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory (default: found from the working directory)")

	var (
		showAll bool
		jsonOut bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.loadCatalog(cmd.Context(), projectDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			apps := c.Enabled()
			if showAll {
				apps = c.All()
			}
			if jsonOut {
				return app.fail(cmd, writeJSON(app.stdout, apps))
			}
			renderApps(app, apps)
			return nil
		},
	}
	listCmd.Flags().BoolVar(&showAll, "all", false, "include disabled applications")
	listCmd.Flags().BoolVar(&jsonOut, "json", false, "print the list as JSON")

	forCmd := &cobra.Command{
		Use:   "for <file>",
		Short: "List the enabled applications that open a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.loadCatalog(cmd.Context(), projectDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			apps := c.ForFile(args[0])
			if len(apps) == 0 {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("find application").
					WithResource(args[0]).
					WithIssue(issue.ApplicationNotFoundId).
					Wrap(catalog.ErrAppNotFound).
					BuildError())
			}
			renderApps(app, apps)
			return nil
		},
	}

	setEnabled := func(enabled bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, err := app.projectStore(projectDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := store.SetEnabled(args[0], enabled); err != nil {
				return app.fail(cmd, err)
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), args[0], state)
			return nil
		}
	}

	var appType string
	setTypeCmd := &cobra.Command{
		Use:   "set-type <name> <type>",
		Short: "Override the type of an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.projectStore(projectDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := store.SetType(args[0], args[1]); err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s %s is now %s\n", SuccessStyle.Render("✓"), args[0], args[1])
			return nil
		},
	}

	var (
		addExe, addIcon, addPreload string
		addExts                     []string
		addDisabled                 bool
	)
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.projectStore(projectDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			err = store.AddCustom(catalog.Application{
				Name:       args[0],
				Executable: addExe,
				Icon:       addIcon,
				Type:       appType,
				Preload:    addPreload,
				Extensions: addExts,
				Enabled:    !addDisabled,
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s added %s to %s\n", SuccessStyle.Render("✓"), args[0], store.Path())
			return nil
		},
	}
	addCmd.Flags().StringVar(&addExe, "exe", "", "application executable")
	addCmd.Flags().StringVar(&appType, "type", catalog.TypeCustom, "application type: blender, houdini, nuke, usdview or custom")
	addCmd.Flags().StringSliceVar(&addExts, "ext", nil, "file extensions the application opens")
	addCmd.Flags().StringVar(&addIcon, "icon", "", "icon path")
	addCmd.Flags().StringVar(&addPreload, "preload", "", "wrapper program prefixed to the launch command")
	addCmd.Flags().BoolVar(&addDisabled, "disabled", false, "add the application disabled")

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an application record from apps.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.projectStore(projectDir)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := store.Remove(args[0]); err != nil {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("remove application").
					WithResource(args[0]).
					WithIssue(issue.ApplicationNotFoundId).
					Wrap(err).
					BuildError())
			}
			fmt.Fprintf(app.stdout, "%s removed %s\n", SuccessStyle.Render("✓"), args[0])
			return nil
		},
	}

	appsCmd.AddCommand(listCmd, forCmd, setTypeCmd, addCmd, removeCmd,
		&cobra.Command{Use: "enable <name>", Short: "Enable an application", Args: cobra.ExactArgs(1), RunE: setEnabled(true)},
		&cobra.Command{Use: "disable <name>", Short: "Disable an application", Args: cobra.ExactArgs(1), RunE: setEnabled(false)},
	)
	return appsCmd
}

// findProjectDir returns dir, or the project root above the working directory.
// With required unset a missing project yields "".
func findProjectDir(dir string, required bool) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	p, err := project.Find(wd)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) && !required {
			return "", nil
		}
		return "", err
	}
	return p.Path, nil
}

func (a *App) projectStore(dir string) (*catalog.Store, error) {
	dir, err := findProjectDir(dir, true)
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(dir), nil
}

func (a *App) loadCatalog(ctx context.Context, dir string) (*catalog.Catalog, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	dir, err = findProjectDir(dir, false)
	if err != nil {
		return nil, err
	}
	toolsDir, err := filepath.Abs(cfg.ToolsDir)
	if err != nil {
		return nil, err
	}
	return catalog.Load(ctx, dir, a.Sources(a.GOOS, toolsDir), a.logger)
}

func renderApps(app *App, apps []catalog.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no applications)"))
		return
	}
	for _, a := range apps {
		mark := SuccessStyle.Render("✓")
		if !a.Enabled {
			mark = SubtitleStyle.Render("-")
		}
		exts := ""
		if len(a.Extensions) > 0 {
			exts = " ." + strings.Join(a.Extensions, " .")
		}
		fmt.Fprintf(app.stdout, "%s %s %s%s\n", mark, TitleStyle.Render(a.Name),
			SubtitleStyle.Render("("+a.Type+")"), SubtitleStyle.Render(exts))
		fmt.Fprintf(app.stdout, "    %s\n", CmdStyle.Render(a.Executable))
		if app.verbose() && a.Preload != "" {
			fmt.Fprintf(app.stdout, "    %s %s\n", VerboseStyle.Render("preload:"), a.Preload)
		}
	}
}
