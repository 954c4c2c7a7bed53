// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/studiotools/stlaunch/internal/issue"
	"github.com/studiotools/stlaunch/internal/testutil"
	"github.com/studiotools/stlaunch/pkg/platform"
)

func loadFromDir(t *testing.T, dir string) (*Loaded, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	loaded, err := loadFromDir(t, t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Load().Path = %q, want empty", loaded.Path)
	}
	if !reflect.DeepEqual(loaded.Config, DefaultConfig()) {
		t.Errorf("Load().Config = %+v, want defaults %+v", loaded.Config, DefaultConfig())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `
tools_dir: "/studio/tools"
log_level: "debug"
houdini: toolbar_dir: "hou/toolbar"
bootstrap: {
	enabled: false
	timeout: "30s"
}
ui: color_scheme: "dark"
`)

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := loaded.Config
	if loaded.Path != path {
		t.Errorf("Load().Path = %q, want %q", loaded.Path, path)
	}
	if cfg.ToolsDir != "/studio/tools" || cfg.LogLevel != LogLevelDebug {
		t.Errorf("Load() tools_dir/log_level = %q/%q", cfg.ToolsDir, cfg.LogLevel)
	}
	if cfg.Houdini.ToolbarDir != "hou/toolbar" {
		t.Errorf("Houdini.ToolbarDir = %q, want %q", cfg.Houdini.ToolbarDir, "hou/toolbar")
	}
	if cfg.Houdini.LoadScript != DefaultConfig().Houdini.LoadScript {
		t.Errorf("Houdini.LoadScript = %q, want default", cfg.Houdini.LoadScript)
	}
	if cfg.Bootstrap.Enabled || cfg.Bootstrap.Timeout != 30*time.Second {
		t.Errorf("Bootstrap = %+v, want disabled with 30s timeout", cfg.Bootstrap)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("UI.ColorScheme = %q, want dark", cfg.UI.ColorScheme)
	}
}

func TestLoad_ZeroTimeoutIsUnlimited(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `bootstrap: timeout: "0s"`)

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Config.Bootstrap.Timeout != 0 {
		t.Errorf("Bootstrap.Timeout = %v, want 0", loaded.Config.Bootstrap.Timeout)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantText string
	}{
		{name: "bad log level", content: `log_level: "loud"`, wantText: "log_level"},
		{name: "unknown field", content: `launcher: "x"`, wantText: "launcher"},
		{name: "bad timeout", content: `bootstrap: timeout: "soon"`, wantText: "timeout"},
		{name: "wrong type", content: `bootstrap: enabled: "yes"`, wantText: "enabled"},
		{name: "syntax error", content: `tools_dir: {`, wantText: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), tt.content)

			_, err := loadFromDir(t, dir)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Load() error = %T, want *issue.ActionableError", err)
			}
			if ae.IssueID != issue.ConfigLoadFailedId {
				t.Errorf("IssueID = %d, want ConfigLoadFailedId", ae.IssueID)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("Load() error = %q, want mention of %q", err, tt.wantText)
			}
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want config file not found", err)
	}
}

func TestLoad_ExplicitFileWinsOverDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `tools_dir: "/from/dir"`)
	explicit := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "other.cue"), `tools_dir: "/from/flag"`)

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: explicit, ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Config.ToolsDir != "/from/flag" {
		t.Errorf("ToolsDir = %q, want /from/flag", loaded.Config.ToolsDir)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

// Not parallel: sets process environment.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STLAUNCH_TOOLS_DIR", "/env/tools")
	t.Setenv("STLAUNCH_BOOTSTRAP_ENABLED", "false")
	t.Setenv("STLAUNCH_BOOTSTRAP_TIMEOUT", "2m")

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `tools_dir: "/file/tools"`)

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := loaded.Config
	if cfg.ToolsDir != "/env/tools" {
		t.Errorf("ToolsDir = %q, want env override", cfg.ToolsDir)
	}
	if cfg.Bootstrap.Enabled {
		t.Error("Bootstrap.Enabled = true, want env override false")
	}
	if cfg.Bootstrap.Timeout != 2*time.Minute {
		t.Errorf("Bootstrap.Timeout = %v, want 2m", cfg.Bootstrap.Timeout)
	}
}

// Not parallel: sets process environment.
func TestLoad_EnvOverrideValidated(t *testing.T) {
	t.Setenv("STLAUNCH_LOG_LEVEL", "chatty")

	_, err := loadFromDir(t, t.TempDir())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.ToolsDir = `C:\studio\tools`
	want.Bootstrap.Timeout = 90 * time.Second
	want.UI.Verbose = true

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), GenerateCUE(want))

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load(GenerateCUE()) error = %v", err)
	}
	if !reflect.DeepEqual(loaded.Config, want) {
		t.Errorf("round trip = %+v, want %+v", loaded.Config, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "stlaunch")

	path, written, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !written || path != filepath.Join(dir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = %q, %v", path, written)
	}

	_, written, err = CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	if written {
		t.Error("second CreateDefaultConfig() overwrote the existing file")
	}
}

// Not parallel: uses the package-level directory override.
func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = %q, %v; want %q", got, err, dir)
	}
	path, err := FilePath()
	if err != nil || path != filepath.Join(dir, "config.cue") {
		t.Errorf("FilePath() = %q, %v", path, err)
	}
}

// Not parallel: sets process environment.
func TestConfigDir_PlatformDefault(t *testing.T) {
	home := t.TempDir()
	t.Cleanup(testutil.SetConfigHome(t, home))

	want := filepath.Join(home, AppName)
	if runtime.GOOS == platform.Darwin {
		want = filepath.Join(home, "Library", "Application Support", AppName)
	}
	if got, err := ConfigDir(); err != nil || got != want {
		t.Errorf("ConfigDir() = %q, %v; want %q", got, err, want)
	}
}

func TestFormatCUEPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"#Config", "bootstrap", "timeout"}, want: "bootstrap.timeout"},
		{path: []string{"items", "0", "name"}, want: "items[0].name"},
		{path: []string{"0"}, want: "0"},
	}
	for _, tt := range tests {
		if got := formatCUEPath(tt.path); got != tt.want {
			t.Errorf("formatCUEPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestToolPath(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ToolsDir = filepath.Join("studio", "tools")
	want := filepath.Join("studio", "tools", "blender_studiotools", "load.py")
	if got := cfg.ToolPath(cfg.Blender.LoadScript); got != want {
		t.Errorf("ToolPath() = %q, want %q", got, want)
	}
}
