// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
)

// Application types understood by the catalog.
const (
	TypeBlender = "blender"
	TypeHoudini = "houdini"
	TypeNuke    = "nuke"
	TypeUsdview = "usdview"
	TypeCustom  = "custom"
)

var (
	// ErrInvalidApplication is the sentinel wrapped by InvalidApplicationError.
	ErrInvalidApplication = errors.New("invalid application")

	validate = validator.New()
)

type (
	// Application is one launchable installation.
	Application struct {
		Name       string   `json:"name" validate:"required"`
		Executable string   `json:"executable" validate:"required"`
		Icon       string   `json:"icon,omitempty"`
		Type       string   `json:"app_type" validate:"required,oneof=blender houdini nuke usdview custom"`
		Preload    string   `json:"preload,omitempty"`
		Extensions []string `json:"extensions" validate:"dive,required"`
		Enabled    bool     `json:"enabled"`
		Custom     bool     `json:"custom"`
	}

	// InvalidApplicationError wraps the validator's field errors.
	InvalidApplicationError struct {
		Name string
		Err  error
	}
)

func (e *InvalidApplicationError) Error() string {
	return fmt.Sprintf("invalid application %q: %v", e.Name, e.Err)
}

// Unwrap returns ErrInvalidApplication for errors.Is() compatibility.
func (e *InvalidApplicationError) Unwrap() error { return ErrInvalidApplication }

// Validate checks required fields and the application type.
func (a Application) Validate() error {
	if err := validate.Struct(a); err != nil {
		return &InvalidApplicationError{Name: a.Name, Err: err}
	}
	return nil
}

// Handles reports whether path has one of the application's extensions.
func (a Application) Handles(path string) bool {
	ext := NormalizeExtension(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return slices.Contains(a.Extensions, ext)
}

// DefaultExtension is the first registered extension, or "".
func (a Application) DefaultExtension() string {
	if len(a.Extensions) == 0 {
		return ""
	}
	return a.Extensions[0]
}

// NormalizeExtension lowercases ext and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// NormalizeExtensions normalizes every extension, dropping empty and duplicate ones.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		n := NormalizeExtension(ext)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
