// SPDX-License-Identifier: MPL-2.0

//go:build !unix && !windows

package symlink

func create(string, string) error {
	return ErrUnsupported
}
