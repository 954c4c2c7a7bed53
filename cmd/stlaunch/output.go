// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/studiotools/stlaunch/internal/launcher"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// renderOutcome prints one line per step followed by a summary line.
func renderOutcome(w io.Writer, o *launcher.Outcome, verbose bool) {
	for _, s := range o.Steps {
		fmt.Fprintf(w, "%s %s %s\n", statusMark(s.Status), SubtitleStyle.Render(string(s.Kind)+":"), CmdStyle.Render(s.Command))
		if s.Error != "" {
			fmt.Fprintf(w, "    %s\n", WarningStyle.Render(s.Error))
		}
		if verbose && s.Duration > 0 {
			fmt.Fprintf(w, "    %s\n", VerboseStyle.Render("took "+s.Duration.String()))
		}
	}

	switch {
	case o.DryRun:
		fmt.Fprintf(w, "%s dry run, nothing started\n", SubtitleStyle.Render("•"))
	case o.MainExitCode != nil:
		fmt.Fprintf(w, "%s exited with code %d\n", succeededMark(o), *o.MainExitCode)
	case o.PID != 0:
		fmt.Fprintf(w, "%s started %s (pid %d)\n", succeededMark(o), o.App, o.PID)
	}
	if n := len(o.Warnings()); n > 0 {
		fmt.Fprintf(w, "%s %d setup step(s) failed, launch continued\n", WarningStyle.Render("!"), n)
	}
	if verbose {
		fmt.Fprintf(w, "%s\n", VerboseStyle.Render("launch id "+o.ID))
	}
}

func succeededMark(o *launcher.Outcome) string {
	if o.Succeeded() {
		return SuccessStyle.Render("✓")
	}
	return ErrorStyle.Render("✗")
}

func statusMark(s launcher.StepStatus) string {
	switch s {
	case launcher.StatusSucceeded, launcher.StatusStarted:
		return SuccessStyle.Render("✓")
	case launcher.StatusFailed:
		return ErrorStyle.Render("✗")
	default:
		return SubtitleStyle.Render("-")
	}
}
