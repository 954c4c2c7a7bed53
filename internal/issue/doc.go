// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. The issue catalog maps well-known failure classes
// (missing executable, missing tool file, symlink privilege, ...) to Markdown
// guidance rendered in the terminal with glamour.
package issue
