// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// FakeInstall builds a throwaway DCC installation tree rooted at Root.
type FakeInstall struct {
	t    testing.TB
	Root string
}

// NewFakeInstall creates an empty installation root inside t.TempDir().
func NewFakeInstall(t testing.TB) *FakeInstall {
	t.Helper()
	root := filepath.Join(t.TempDir(), "install")
	MustMkdirAll(t, root, 0o755)
	return &FakeInstall{t: t, Root: root}
}

// Dir creates the slash-separated directory rel under Root and returns its path.
func (f *FakeInstall) Dir(rel string) string {
	f.t.Helper()
	path := filepath.Join(f.Root, filepath.FromSlash(rel))
	MustMkdirAll(f.t, path, 0o755)
	return path
}

// Executable creates an executable shell script at rel under Root.
func (f *FakeInstall) Executable(rel string) string {
	f.t.Helper()
	return MustWriteExecutable(f.t, filepath.Join(f.Root, filepath.FromSlash(rel)), "#!/bin/sh\nexit 0\n")
}

// File creates a regular file at rel under Root.
func (f *FakeInstall) File(rel, content string) string {
	f.t.Helper()
	return MustWriteFile(f.t, filepath.Join(f.Root, filepath.FromSlash(rel)), content)
}
