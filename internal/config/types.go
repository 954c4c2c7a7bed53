// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug enables debug output, including resolver fallbacks and rendered commands.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn only reports warnings such as failed bootstrap steps.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError only reports errors.
	LogLevelError LogLevel = "error"

	// DefaultUsdviewWindowsDir is the Houdini bin directory shipping usdview on Windows.
	DefaultUsdviewWindowsDir = "c:/Program Files/Side Effects Software/Houdini 20.5.332/bin"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// ColorScheme selects the CLI color palette.
	ColorScheme string

	// LogLevel is the minimum level of emitted log lines.
	LogLevel string

	// Config holds the launcher configuration.
	Config struct {
		// ToolsDir is the root of the studio tool checkout. Relative paths are
		// resolved against the working directory at launch time.
		ToolsDir  string          `json:"tools_dir" mapstructure:"tools_dir" validate:"required"`
		LogLevel  LogLevel        `json:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`
		Blender   BlenderConfig   `json:"blender" mapstructure:"blender"`
		Houdini   HoudiniConfig   `json:"houdini" mapstructure:"houdini"`
		Usdview   UsdviewConfig   `json:"usdview" mapstructure:"usdview"`
		Bootstrap BootstrapConfig `json:"bootstrap" mapstructure:"bootstrap"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
	}

	// BlenderConfig locates Blender tool files, relative to ToolsDir.
	BlenderConfig struct {
		LoadScript   string `json:"load_script" mapstructure:"load_script" validate:"required"`
		Requirements string `json:"requirements" mapstructure:"requirements" validate:"required"`
	}

	// HoudiniConfig locates Houdini tool files and search directories, relative to ToolsDir.
	HoudiniConfig struct {
		LoadScript string `json:"load_script" mapstructure:"load_script" validate:"required"`
		ToolbarDir string `json:"toolbar_dir" mapstructure:"toolbar_dir" validate:"required"`
		OtlsDir    string `json:"otls_dir" mapstructure:"otls_dir" validate:"required"`
		MenuDir    string `json:"menu_dir" mapstructure:"menu_dir" validate:"required"`
	}

	// UsdviewConfig selects the usdview binary per platform.
	UsdviewConfig struct {
		WindowsBinary string `json:"windows_binary" mapstructure:"windows_binary" validate:"required"`
		UnixBinary    string `json:"unix_binary" mapstructure:"unix_binary" validate:"required"`
		// WindowsPathDir is prepended to PATH for usdview on Windows so that the
		// co-located Houdini binaries resolve. Empty disables the PATH change.
		WindowsPathDir string `json:"windows_path_dir" mapstructure:"windows_path_dir"`
	}

	// BootstrapConfig controls the dependency bootstrap steps run before a DCC starts.
	BootstrapConfig struct {
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Timeout bounds each bootstrap step. Zero disables the limit.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout" validate:"gte=0"`
	}

	// UIConfig contains CLI presentation settings.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" validate:"oneof=auto dark light"`
	}

	// InvalidConfigError wraps the validator's field errors.
	InvalidConfigError struct {
		Err error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Err)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ToolsDir: "./tools",
		LogLevel: LogLevelInfo,
		Blender: BlenderConfig{
			LoadScript:   "blender_studiotools/load.py",
			Requirements: "blender_studiotools/requirements.txt",
		},
		Houdini: HoudiniConfig{
			LoadScript: "houdini_studiotools/load.py",
			ToolbarDir: "houdini_studiotools/houdini/toolbar",
			OtlsDir:    "houdini_studiotools/houdini/otls",
			MenuDir:    "houdini_studiotools/houdini",
		},
		Usdview: UsdviewConfig{
			WindowsBinary:  DefaultUsdviewWindowsDir + "/usdview",
			UnixBinary:     "usdview",
			WindowsPathDir: DefaultUsdviewWindowsDir,
		},
		Bootstrap: BootstrapConfig{
			Enabled: true,
			Timeout: 10 * time.Minute,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ToolPath joins a tools-relative, slash-separated path onto ToolsDir.
func (c *Config) ToolPath(rel string) string {
	return filepath.Join(c.ToolsDir, filepath.FromSlash(rel))
}
