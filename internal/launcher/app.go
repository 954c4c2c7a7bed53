// SPDX-License-Identifier: MPL-2.0

package launcher

import "strings"

// Application identifiers with a dedicated launch profile.
const (
	Blender AppID = "blender"
	Houdini AppID = "houdini"
	Usdview AppID = "usdview"
	// Generic runs the executable with the content path and nothing else.
	Generic AppID = "generic"
)

// AppID identifies a launch profile.
type AppID string

// ParseAppID maps an identifier or catalog application type to an AppID.
// Matching is case-insensitive and anything unknown maps to Generic.
func ParseAppID(s string) AppID {
	switch id := AppID(strings.ToLower(strings.TrimSpace(s))); id {
	case Blender, Houdini, Usdview:
		return id
	default:
		return Generic
	}
}

// String returns the identifier.
func (id AppID) String() string { return string(id) }
