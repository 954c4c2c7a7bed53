// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// WipDir is the task subdirectory holding work-in-progress scene files.
const WipDir = "wip"

var versionPattern = regexp.MustCompile(`(?i)[._-]?v(\d+)`)

// ParseVersion extracts the first vNNN version number from a file name.
func ParseVersion(name string) (int, bool) {
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatVersion renders a version as v001.
func FormatVersion(v int) string {
	return fmt.Sprintf("v%03d", v)
}

// LatestVersion scans <cwd>/wip/*/ for versioned files and returns the highest
// version found, or 1 when there is none.
func (c *Context) LatestVersion() int {
	latest := 1
	appDirs, err := os.ReadDir(filepath.Join(c.Cwd, WipDir))
	if err != nil {
		return latest
	}
	for _, dir := range appDirs {
		if !dir.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(c.Cwd, WipDir, dir.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if v, ok := ParseVersion(f.Name()); ok && v > latest {
				latest = v
			}
		}
	}
	return latest
}

// WorkfilePath returns the default scene path for an application type,
// <cwd>/wip/<appType>/scene_vNNN.<ext>, at the latest version. Nothing is
// created on disk.
func (c *Context) WorkfilePath(appType, ext string) string {
	name := "scene_" + FormatVersion(c.LatestVersion()) + "." + strings.TrimPrefix(ext, ".")
	return filepath.Join(c.Cwd, WipDir, appType, name)
}

// Workfile returns WorkfilePath after creating the application directory.
func (c *Context) Workfile(appType, ext string) (string, error) {
	path := c.WorkfilePath(appType, ext)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return path, nil
}
