// SPDX-License-Identifier: MPL-2.0

// Package resolver locates interpreters bundled inside DCC installations.
//
// Blender ships its Python under a version-named directory next to the
// executable (for example "4.2/python/bin/python3.11"). Houdini ships hython
// directly in its bin directory. A Layout captures these conventions, and
// ResolveInterpreter searches the filesystem for the most specific interpreter
// available, falling back to a plain program name resolved through PATH.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/mod/semver"

	"github.com/studiotools/stlaunch/pkg/platform"
)

type (
	// Layout describes where an installation keeps its interpreter.
	Layout struct {
		// Name identifies the layout in logs.
		Name string
		// VersionDir requires a digit-prefixed child directory of the root
		// (e.g. "4.2") that contains RuntimeSubpath.
		VersionDir bool
		// RuntimeSubpath is the slash-separated path from the version directory
		// (or from the root when VersionDir is false) to the interpreter directory.
		RuntimeSubpath string
		// UnixCandidates and WindowsCandidates are tried in order, most specific first.
		UnixCandidates    []string
		WindowsCandidates []string
		// UnixFallback and WindowsFallback are returned when no candidate exists.
		UnixFallback    string
		WindowsFallback string
	}

	// Resolution is the result of ResolveInterpreter.
	Resolution struct {
		// Path is the interpreter to execute: an absolute path when a candidate
		// was found, otherwise the fallback program name.
		Path string
		// VersionDir is the selected version directory, empty when none was used.
		VersionDir string
		// RuntimeDir is the directory that was searched for candidates.
		RuntimeDir string
		// Fallback is true when no candidate existed and Path is the fallback name.
		Fallback bool
	}
)

// BlenderPython is the layout of Blender's bundled Python.
var BlenderPython = Layout{
	Name:              "blender-python",
	VersionDir:        true,
	RuntimeSubpath:    "python/bin",
	UnixCandidates:    []string{"python3.11", "python3.10", "python3.9", "python3"},
	WindowsCandidates: []string{"python.exe"},
	UnixFallback:      "python3",
	WindowsFallback:   "python.exe",
}

// HoudiniPython is the layout of Houdini's hython, which lives next to the
// houdini executable.
var HoudiniPython = Layout{
	Name:              "houdini-hython",
	UnixCandidates:    []string{"hython3.11", "hython3.10", "hython3.9", "hython"},
	WindowsCandidates: []string{"hython.exe"},
	UnixFallback:      "hython",
	WindowsFallback:   "hython.exe",
}

// Candidates returns the ordered candidate file names for goos.
func (l Layout) Candidates(goos string) []string {
	if platform.IsWindows(goos) {
		return l.WindowsCandidates
	}
	return l.UnixCandidates
}

// FallbackName returns the program name used when no candidate exists.
func (l Layout) FallbackName(goos string) string {
	if platform.IsWindows(goos) {
		return l.WindowsFallback
	}
	return l.UnixFallback
}

// ResolveInterpreter finds the interpreter for layout under root. It never
// fails: a missing root, a missing version directory or a missing interpreter
// all produce the layout's fallback name with Fallback set.
func ResolveInterpreter(root, goos string, layout Layout) Resolution {
	var res Resolution

	if layout.VersionDir {
		dir, ok := FindVersionDir(root, layout.RuntimeSubpath)
		if !ok {
			return fallback(res, layout, goos)
		}
		res.VersionDir = dir
		res.RuntimeDir = filepath.Join(dir, filepath.FromSlash(layout.RuntimeSubpath))
	} else {
		res.RuntimeDir = filepath.Join(root, filepath.FromSlash(layout.RuntimeSubpath))
	}

	for _, name := range layout.Candidates(goos) {
		candidate := filepath.Join(res.RuntimeDir, name)
		if isRegularFile(candidate) {
			res.Path = candidate
			return res
		}
	}
	return fallback(res, layout, goos)
}

// FindVersionDir returns the version directory under root that contains
// subpath. Only immediate children whose name starts with an ASCII digit are
// considered. When several qualify the highest version wins; names that are
// not valid versions rank below valid ones and compare lexicographically.
func FindVersionDir(root, subpath string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}

	var qualifying []string
	for _, entry := range entries {
		name := entry.Name()
		if !startsWithDigit(name) {
			continue
		}
		if !isDir(filepath.Join(root, name, filepath.FromSlash(subpath))) {
			continue
		}
		qualifying = append(qualifying, name)
	}
	if len(qualifying) == 0 {
		return "", false
	}

	slices.SortFunc(qualifying, compareVersionNames)
	return filepath.Join(root, qualifying[len(qualifying)-1]), true
}

// compareVersionNames orders directory names ascending by version.
func compareVersionNames(a, b string) int {
	va, vb := "v"+a, "v"+b
	validA, validB := semver.IsValid(va), semver.IsValid(vb)
	switch {
	case validA && validB:
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case validA:
		return 1
	case validB:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func fallback(res Resolution, layout Layout, goos string) Resolution {
	res.Path = layout.FallbackName(goos)
	res.Fallback = true
	return res
}

func startsWithDigit(name string) bool {
	return name != "" && name[0] >= '0' && name[0] <= '9'
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
