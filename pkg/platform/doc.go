// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes the GOOS names the launcher dispatches on, the path-list
// separator used when appending to search-path variables for a given target OS,
// Windows reserved device names, and detection of application sandboxes
// (Flatpak, Snap) together with the host-spawn wrapper needed to reach DCC
// installations from inside a Flatpak.
package platform
