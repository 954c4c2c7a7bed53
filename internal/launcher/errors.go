// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrToolFileNotFound is returned when a load script or requirements file is missing.
	ErrToolFileNotFound = errors.New("tool file not found")
	// ErrExecutableNotFound is returned when a profile needs the request
	// executable and it does not exist.
	ErrExecutableNotFound = errors.New("executable not found")
)

type (
	// ToolFileError names the missing tool file.
	ToolFileError struct {
		// Kind describes the file, e.g. "blender load script".
		Kind string
		Path string
	}

	// LaunchError is returned when the main process could not be started.
	LaunchError struct {
		App     AppID
		Program string
		Err     error
	}
)

func (e *ToolFileError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// Unwrap returns ErrToolFileNotFound for errors.Is() compatibility.
func (e *ToolFileError) Unwrap() error { return ErrToolFileNotFound }

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %s (%s): %v", e.App, e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }
