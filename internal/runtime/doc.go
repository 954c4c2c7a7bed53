// SPDX-License-Identifier: MPL-2.0

// Package runtime provides child-process execution for the launcher.
//
// A ProcessSpec describes one child: program, argv, an environment Overlay and an
// optional working directory. Specs are always executed directly (program plus
// argument vector); nothing in this package builds shell command strings.
//
// The environment a child sees is computed functionally: Overlay.Apply takes a
// snapshot of the parent environment and returns a new slice with the overlay's
// Set/Append/Prepend entries applied. The parent's environment is never mutated,
// so overlapping launches cannot observe each other's variables.
//
// The Spawner interface offers two execution modes:
//   - Run: start the child and block until it exits (bootstrap and prelaunch steps)
//   - Start: start the child and return a Handle without waiting (main DCC process)
//
// NativeSpawner is the production implementation based on os/exec. When the
// launcher itself runs inside a Flatpak sandbox, NativeSpawner re-routes children
// through flatpak-spawn so that host-installed applications are reachable.
package runtime
