// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour/styles"

	"github.com/studiotools/stlaunch/internal/config"
	"github.com/studiotools/stlaunch/internal/issue"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the issue catalog entry.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// toServiceError classifies err for rendering. Actionable errors keep their
// issue link and suggestions.
func toServiceError(err error, verbose bool) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return newServiceError(err, ae.IssueID, ErrorStyle.Render("Error: ")+ae.Format(verbose)+"\n")
	}
	return newServiceError(err, 0, ErrorStyle.Render("Error: ")+err.Error()+"\n")
}

// issueStyle maps the configured color scheme to a glamour standard style.
func issueStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return styles.DarkStyle
	case config.ColorSchemeLight:
		return styles.LightStyle
	default:
		return styles.AutoStyle
	}
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section
// rendered with the glamour style. The issue section is only rendered in
// verbose mode.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, verbose bool, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 || !verbose {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			fmt.Fprintf(stderr, "%s failed to render issue %d: %v\n", WarningStyle.Render("!"), svcErr.IssueID, renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
