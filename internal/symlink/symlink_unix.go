// SPDX-License-Identifier: MPL-2.0

//go:build unix

package symlink

import (
	"errors"
	"os"
)

func create(target, link string) error {
	err := os.Symlink(target, link)
	// os.Symlink wraps its cause in an *os.LinkError; Create adds its own
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}
