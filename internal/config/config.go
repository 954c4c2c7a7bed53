// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/studiotools/stlaunch/internal/issue"
	"github.com/studiotools/stlaunch/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "stlaunch"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides (STLAUNCH_TOOLS_DIR, ...).
	EnvPrefix = "STLAUNCH"

	// maxConfigFileSize bounds config files read into memory.
	maxConfigFileSize = 1 << 20
)

var (
	//go:embed config_schema.cue
	configSchema string

	validate = validator.New()
)

// ConfigDir returns the stlaunch configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the path of the per-user config file.
func FilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions loads defaults, then the first config file found, then
// STLAUNCH_ environment overrides, and validates the result. It returns the
// path of the file that was loaded, or "" when only defaults applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'stlaunch config dump' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check STLAUNCH_* environment variables for invalid values").
			Wrap(&InvalidConfigError{Err: err}).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigFile picks the config file to load: the explicit path if set
// (which must exist), else <config dir>/config.cue, else ./config.cue.
// Returns "" when none exists.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'stlaunch config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}
	if p := ConfigFileName + "." + ConfigFileExt; fileExists(p) {
		return p, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("tools_dir", d.ToolsDir)
	v.SetDefault("log_level", string(d.LogLevel))
	v.SetDefault("blender.load_script", d.Blender.LoadScript)
	v.SetDefault("blender.requirements", d.Blender.Requirements)
	v.SetDefault("houdini.load_script", d.Houdini.LoadScript)
	v.SetDefault("houdini.toolbar_dir", d.Houdini.ToolbarDir)
	v.SetDefault("houdini.otls_dir", d.Houdini.OtlsDir)
	v.SetDefault("houdini.menu_dir", d.Houdini.MenuDir)
	v.SetDefault("usdview.windows_binary", d.Usdview.WindowsBinary)
	v.SetDefault("usdview.unix_binary", d.Usdview.UnixBinary)
	v.SetDefault("usdview.windows_path_dir", d.Usdview.WindowsPathDir)
	v.SetDefault("bootstrap.enabled", d.Bootstrap.Enabled)
	v.SetDefault("bootstrap.timeout", d.Bootstrap.Timeout.String())
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Fields are optional, so validation does
// not require concrete values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file in dir (the platform config
// directory when empty) unless one already exists. It returns the file path
// and whether a file was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE renders cfg in the config file format.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// stlaunch configuration file\n")
	sb.WriteString("// Paths under blender and houdini are relative to tools_dir.\n\n")

	fmt.Fprintf(&sb, "tools_dir: %q\n", cfg.ToolsDir)
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	sb.WriteString("\nblender: {\n")
	fmt.Fprintf(&sb, "\tload_script:  %q\n", cfg.Blender.LoadScript)
	fmt.Fprintf(&sb, "\trequirements: %q\n", cfg.Blender.Requirements)
	sb.WriteString("}\n")

	sb.WriteString("\nhoudini: {\n")
	fmt.Fprintf(&sb, "\tload_script: %q\n", cfg.Houdini.LoadScript)
	fmt.Fprintf(&sb, "\ttoolbar_dir: %q\n", cfg.Houdini.ToolbarDir)
	fmt.Fprintf(&sb, "\totls_dir:    %q\n", cfg.Houdini.OtlsDir)
	fmt.Fprintf(&sb, "\tmenu_dir:    %q\n", cfg.Houdini.MenuDir)
	sb.WriteString("}\n")

	sb.WriteString("\nusdview: {\n")
	fmt.Fprintf(&sb, "\twindows_binary:   %q\n", cfg.Usdview.WindowsBinary)
	fmt.Fprintf(&sb, "\tunix_binary:      %q\n", cfg.Usdview.UnixBinary)
	fmt.Fprintf(&sb, "\twindows_path_dir: %q\n", cfg.Usdview.WindowsPathDir)
	sb.WriteString("}\n")

	sb.WriteString("\nbootstrap: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Bootstrap.Enabled)
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.Bootstrap.Timeout.String())
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}
