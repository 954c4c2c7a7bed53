// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for stlaunch.
//
// The commands are thin: they parse flags, load configuration through the
// App's ConfigProvider and delegate to the launcher, resolver, catalog and
// symlink packages. Errors are rendered here, with the issue catalog when the
// error links to an entry.
package cmd
