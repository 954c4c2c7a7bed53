// SPDX-License-Identifier: MPL-2.0

//go:build windows

package symlink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreate_ReservedName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := Create(dir, filepath.Join(dir, "con"))
	if !errors.Is(err, ErrReservedName) {
		t.Errorf("Create(link=con) = %v, want ErrReservedName", err)
	}
}

func TestIsDirTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "asset.usd"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "current")

	tests := []struct {
		target string
		want   bool
	}{
		{dir, true},
		{filepath.Join(dir, "asset.usd"), false},
		{"asset.usd", false},
		{filepath.Join(dir, "missing"), true},
	}
	for _, tt := range tests {
		if got := isDirTarget(tt.target, link); got != tt.want {
			t.Errorf("isDirTarget(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}
