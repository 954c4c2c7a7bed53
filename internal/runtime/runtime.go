// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"time"
)

type (
	// Result contains the outcome of a finished child process.
	Result struct {
		// ExitCode is the child's exit status.
		ExitCode ExitCode
		// Error is set when the child could not be started or waited on.
		// A clean non-zero exit leaves Error nil.
		Error error
		// Duration is the wall time between start and exit.
		Duration time.Duration
	}

	// Handle refers to a started child process.
	Handle interface {
		// PID returns the operating system process ID.
		PID() int
		// Wait blocks until the child exits. It may be called more than once.
		Wait() *Result
	}

	// Spawner starts child processes described by a ProcessSpec.
	Spawner interface {
		// Run starts the child and blocks until it exits or ctx is done.
		Run(ctx context.Context, spec ProcessSpec) *Result
		// Start starts the child and returns without waiting. The child is not
		// bound to any context and keeps running after the caller returns.
		Start(spec ProcessSpec) (Handle, error)
	}
)

// Success returns true if the child started and exited with code 0.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}
