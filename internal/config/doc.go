// SPDX-License-Identifier: MPL-2.0

// Package config handles launcher configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/stlaunch/config.cue on Linux,
// ~/Library/Application Support/stlaunch/config.cue on macOS and
// %APPDATA%\stlaunch\config.cue on Windows, falling back to ./config.cue. It
// covers the tools directory, per-DCC tool file locations, the usdview binary,
// dependency bootstrap behavior and UI settings.
//
// Files are validated against an embedded CUE schema (config_schema.cue); the
// decoded struct is then checked with go-playground/validator. Every key can be
// overridden through STLAUNCH_-prefixed environment variables, with '.'
// replaced by '_' (for example STLAUNCH_BOOTSTRAP_ENABLED=false).
package config
