// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sort"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
//
// INVARIANT: detectSandboxFrom MUST NOT panic. sync.OnceValue propagates a
// panic on every call, which would turn one bad lookup into a permanent crash.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the type of application sandbox the current process is running in.
// The result is cached after the first call.
//
// Detection methods:
//   - Flatpak: Checks for existence of /.flatpak-info
//   - Snap: Checks for SNAP_NAME environment variable
func DetectSandbox() SandboxType {
	return detectOnce()
}

// CanSpawnOnHost reports whether children can be redirected to the host for st.
// Only Flatpak offers a host-spawn portal that accepts an arbitrary argv and
// environment; Snap confinement has no equivalent, so children stay inside it.
func CanSpawnOnHost(st SandboxType) bool {
	return st == SandboxFlatpak
}

// HostSpawn rewrites program/args so the child runs on the host system instead
// of inside the sandbox st. Flatpak's flatpak-spawn does not forward the caller's
// environment, so every entry of env is passed as an explicit --env flag (in
// sorted key order, for stable command lines).
//
// For sandboxes without host spawn support the inputs are returned unchanged.
func HostSpawn(st SandboxType, program string, args []string, env map[string]string) (string, []string) {
	if !CanSpawnOnHost(st) {
		return program, args
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wrapped := make([]string, 0, 2+len(keys)+len(args))
	wrapped = append(wrapped, "--host")
	for _, k := range keys {
		wrapped = append(wrapped, "--env="+k+"="+env[k])
	}
	wrapped = append(wrapped, program)
	wrapped = append(wrapped, args...)
	return "flatpak-spawn", wrapped
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
// Accepting lookupEnv and statFile as parameters allows tests to inject custom
// behavior without mutating process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence; /.flatpak-info is always present inside one.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
