// SPDX-License-Identifier: MPL-2.0

// Package symlink creates directory-capable symbolic links on every platform
// the launcher supports.
package symlink

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned on platforms without symbolic link support.
	ErrUnsupported = errors.New("symbolic links are not supported on this platform")
	// ErrPrivilege is returned on Windows when the process may not create
	// symbolic links (no administrator rights and developer mode disabled).
	ErrPrivilege = errors.New("insufficient privilege to create symbolic link")
	// ErrReservedName is returned on Windows when the link name is a reserved device name.
	ErrReservedName = errors.New("link name is a reserved Windows device name")
	// ErrEmptyPath is returned when target or link is empty.
	ErrEmptyPath = errors.New("target and link paths must not be empty")
)

// LinkError records a failed symlink operation.
type LinkError struct {
	Op     string
	Target string
	Link   string
	Err    error
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Link, e.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LinkError) Unwrap() error { return e.Err }

// Create makes link a symbolic link pointing at target. Target is stored as
// given, so relative targets resolve against the link's directory.
func Create(target, link string) error {
	if target == "" || link == "" {
		return &LinkError{Op: "symlink", Target: target, Link: link, Err: ErrEmptyPath}
	}
	if err := create(target, link); err != nil {
		return &LinkError{Op: "symlink", Target: target, Link: link, Err: err}
	}
	return nil
}
