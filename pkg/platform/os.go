// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether goos names Windows.
func IsWindows(goos string) bool {
	return goos == Windows
}

// PathListSeparator returns the separator used between entries of a
// search-path variable (PATH, PYTHONPATH, HOUDINI_*_PATH) on goos.
// It is ";" on Windows and ":" everywhere else.
func PathListSeparator(goos string) string {
	if IsWindows(goos) {
		return ";"
	}
	return ":"
}
