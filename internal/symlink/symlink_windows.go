// SPDX-License-Identifier: MPL-2.0

//go:build windows

package symlink

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/studiotools/stlaunch/pkg/platform"
)

// create makes a directory symbolic link. Asset links point at folders, and
// a file link to a directory is unusable from Explorer and most DCCs.
func create(target, link string) error {
	if platform.IsWindowsReservedName(link) {
		return ErrReservedName
	}

	flags := uint32(windows.SYMBOLIC_LINK_FLAG_ALLOW_UNPRIVILEGED_CREATE)
	if isDirTarget(target, link) {
		flags |= windows.SYMBOLIC_LINK_FLAG_DIRECTORY
	}

	linkPtr, err := windows.UTF16PtrFromString(filepath.FromSlash(link))
	if err != nil {
		return err
	}
	targetPtr, err := windows.UTF16PtrFromString(filepath.FromSlash(target))
	if err != nil {
		return err
	}

	err = windows.CreateSymbolicLink(linkPtr, targetPtr, flags)
	if errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) {
		return ErrPrivilege
	}
	return err
}

// isDirTarget reports whether target is a directory, resolving a relative
// target against the link's parent. A missing target is treated as a
// directory.
func isDirTarget(target, link string) bool {
	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(link), resolved)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return true
	}
	return info.IsDir()
}
