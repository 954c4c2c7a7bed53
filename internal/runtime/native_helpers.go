// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// executeOutput configures where child output is directed.
type executeOutput struct {
	stdout io.Writer
	stderr io.Writer
}

// newStreamingOutput streams to the given writers, defaulting to the parent's
// stdout and stderr so the child inherits the launcher's console.
func newStreamingOutput(stdout, stderr io.Writer) *executeOutput {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &executeOutput{stdout: stdout, stderr: stderr}
}

// extractExitCode converts the error returned by exec.Cmd.Run/Wait into a Result.
func extractExitCode(err error) *Result {
	result := &Result{}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := ExitCode(exitErr.ExitCode())
		if code == -1 {
			// killed by a signal; no exit status available
			result.ExitCode = ExitSignaled
			result.Error = err
			return result
		}
		if validateErr := code.Validate(); validateErr != nil {
			result.ExitCode = 1
			result.Error = validateErr
			return result
		}
		result.ExitCode = code
		return result
	}

	// command not found, permission denied, ...
	result.ExitCode = ExitSpawnFailed
	result.Error = err
	return result
}
