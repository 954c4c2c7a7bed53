// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studiotools/stlaunch/internal/issue"
	"github.com/studiotools/stlaunch/internal/symlink"
)

func newSymlinkCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "symlink <asset> <link>",
		Short: "Create a symbolic link to an asset",
		Long: `Create a symbolic link to an asset.

On Windows this requires administrator rights or Developer Mode.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := symlink.Create(args[0], args[1]); err != nil {
				id := issue.SymlinkFailedId
				if errors.Is(err, symlink.ErrPrivilege) {
					id = issue.SymlinkPrivilegeId
				}
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("create symbolic link").
					WithResource(args[1]).
					WithIssue(id).
					Wrap(err).
					BuildError())
			}
			fmt.Fprintf(app.stdout, "%s %s -> %s\n", SuccessStyle.Render("✓"), args[1], args[0])
			return nil
		},
	}
}
