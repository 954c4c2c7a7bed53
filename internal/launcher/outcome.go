// SPDX-License-Identifier: MPL-2.0

package launcher

import "time"

// Step statuses.
const (
	StatusSucceeded StepStatus = "succeeded"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
	// StatusStarted marks a main process that was started and not waited for.
	StatusStarted StepStatus = "started"
)

type (
	// StepStatus is the result of one step.
	StepStatus string

	// StepOutcome records what happened to one plan step.
	StepOutcome struct {
		Name     string        `json:"name"`
		Kind     StepKind      `json:"kind"`
		Command  string        `json:"command"`
		Status   StepStatus    `json:"status"`
		ExitCode int           `json:"exit_code"`
		Error    string        `json:"error,omitempty"`
		Duration time.Duration `json:"duration_ns,omitempty"`

		// Err is the underlying error, if any.
		Err error `json:"-"`
	}

	// Outcome is the structured result of a launch.
	Outcome struct {
		// ID tags the launch in logs.
		ID    string        `json:"id"`
		App   AppID         `json:"app"`
		Steps []StepOutcome `json:"steps"`
		// PID of the main process, 0 when it was not started.
		PID int `json:"pid,omitempty"`
		// MainExitCode is set only when the launch waited for the main process.
		MainExitCode *int `json:"main_exit_code,omitempty"`
		DryRun       bool `json:"dry_run,omitempty"`
	}
)

// Main returns the outcome of the main step.
func (o *Outcome) Main() (StepOutcome, bool) {
	for _, s := range o.Steps {
		if s.Kind == StepMain {
			return s, true
		}
	}
	return StepOutcome{}, false
}

// Warnings returns the bootstrap and prelaunch steps that failed.
func (o *Outcome) Warnings() []StepOutcome {
	var out []StepOutcome
	for _, s := range o.Steps {
		if s.Kind != StepMain && s.Status == StatusFailed {
			out = append(out, s)
		}
	}
	return out
}

// Succeeded reports whether the main process was started and, when waited
// for, exited with code 0.
func (o *Outcome) Succeeded() bool {
	main, ok := o.Main()
	if !ok {
		return false
	}
	return main.Status == StatusStarted || main.Status == StatusSucceeded
}

func (o *Outcome) record(s StepOutcome) {
	o.Steps = append(o.Steps, s)
}
