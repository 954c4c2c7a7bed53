// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"io"

	"golang.org/x/exp/slices"
)

// ErrEmptyProgram is returned when a ProcessSpec has no program to execute.
var ErrEmptyProgram = errors.New("process spec has no program")

// ProcessSpec describes a single child process.
type ProcessSpec struct {
	// Program is the executable path or bare command name (resolved via PATH).
	Program string
	// Args are passed to Program verbatim, one element per argv entry.
	Args []string
	// Overlay is applied to a copy of the parent environment.
	Overlay Overlay
	// Dir is the working directory. Empty means the caller's working directory.
	Dir string

	// Stdin, Stdout and Stderr default to nil, os.Stdout and os.Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Argv returns the full argument vector, program first.
func (s ProcessSpec) Argv() []string {
	argv := make([]string, 0, 1+len(s.Args))
	argv = append(argv, s.Program)
	return append(argv, s.Args...)
}

// Validate checks that the spec can be handed to a Spawner.
func (s ProcessSpec) Validate() error {
	if s.Program == "" {
		return ErrEmptyProgram
	}
	return nil
}

// WithPrefix returns a copy of s whose program is prefix and whose arguments are
// the original program followed by its arguments. It is used for wrapper
// programs such as preload scripts.
func (s ProcessSpec) WithPrefix(prefix string) ProcessSpec {
	wrapped := s
	wrapped.Program = prefix
	wrapped.Args = append([]string{s.Program}, slices.Clone(s.Args)...)
	wrapped.Overlay = s.Overlay.Clone()
	return wrapped
}
