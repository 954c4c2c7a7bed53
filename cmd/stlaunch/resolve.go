// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/studiotools/stlaunch/internal/launcher"
	"github.com/studiotools/stlaunch/internal/resolver"
)

// interpreterLayouts maps identifiers to the bundled interpreter their
// launch profile uses.
var interpreterLayouts = map[launcher.AppID]resolver.Layout{
	launcher.Blender: resolver.BlenderPython,
	launcher.Houdini: resolver.HoudiniPython,
}

type resolveOutput struct {
	App        launcher.AppID `json:"app"`
	Layout     string         `json:"layout"`
	Path       string         `json:"path"`
	VersionDir string         `json:"version_dir,omitempty"`
	RuntimeDir string         `json:"runtime_dir,omitempty"`
	Fallback   bool           `json:"fallback"`
}

func newResolveCommand(app *App) *cobra.Command {
	var (
		executable string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <app-id> --exe <executable>",
		Short: "Print the bundled interpreter an application launch would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := launcher.ParseAppID(args[0])
			layout, ok := interpreterLayouts[id]
			if !ok {
				return app.fail(cmd, fmt.Errorf("%s has no bundled interpreter to resolve", args[0]))
			}
			if executable == "" {
				return app.fail(cmd, fmt.Errorf("--exe is required"))
			}

			res := resolver.ResolveInterpreter(filepath.Dir(executable), app.GOOS, layout)
			app.logger.Debug("resolved interpreter", "layout", layout.Name, "path", res.Path, "fallback", res.Fallback)

			if jsonOut {
				return app.fail(cmd, writeJSON(app.stdout, resolveOutput{
					App:        id,
					Layout:     layout.Name,
					Path:       res.Path,
					VersionDir: res.VersionDir,
					RuntimeDir: res.RuntimeDir,
					Fallback:   res.Fallback,
				}))
			}

			fmt.Fprintln(app.stdout, res.Path)
			if app.verbose() {
				if res.VersionDir != "" {
					fmt.Fprintf(app.stderr, "%s %s\n", VerboseStyle.Render("version dir:"), res.VersionDir)
				}
				if res.Fallback {
					fmt.Fprintf(app.stderr, "%s no interpreter found in the installation, using %s from PATH\n", WarningStyle.Render("!"), res.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&executable, "exe", "", "application executable")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the resolution as JSON")
	return cmd
}
