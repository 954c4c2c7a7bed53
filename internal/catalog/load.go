// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/studiotools/stlaunch/internal/issue"
)

// Load discovers installations from sources and merges the project's apps.yaml.
// An empty projectDir skips the file.
func Load(ctx context.Context, projectDir string, sources []Source, logger *log.Logger) (*Catalog, error) {
	discovered, err := Discover(ctx, sources, logger)
	if err != nil {
		return nil, err
	}
	if projectDir == "" {
		return New(discovered, nil), nil
	}

	store := NewStore(projectDir)
	f, err := store.Read()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load application list").
			WithResource(store.Path()).
			WithIssue(issue.CatalogLoadFailedId).
			WithSuggestion("Check the YAML syntax of " + FileName).
			Wrap(err).
			BuildError()
	}
	return New(discovered, f), nil
}
