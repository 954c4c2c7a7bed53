// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/studiotools/stlaunch/internal/catalog"
	"github.com/studiotools/stlaunch/internal/config"
	"github.com/studiotools/stlaunch/internal/launcher"
	"github.com/studiotools/stlaunch/internal/runtime"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App reference.
	App struct {
		Config  ConfigProvider
		Spawner runtime.Spawner
		Sources func(goos, toolsDir string) []catalog.Source
		GOOS    string
		stdout  io.Writer
		stderr  io.Writer

		configDir string
		flags     rootFlags

		// populated by the root command before any subcommand runs
		cfg     *config.Config
		cfgPath string
		cfgErr  error
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Spawner runtime.Spawner
		Sources func(goos, toolsDir string) []catalog.Source
		GOOS    string
		// ConfigDir overrides the platform configuration directory.
		ConfigDir string
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	rootFlags struct {
		verbose    bool
		configFile string
		logLevel   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.GOOS == "" {
		deps.GOOS = goruntime.GOOS
	}
	if deps.Sources == nil {
		deps.Sources = catalog.DefaultSources
	}

	return &App{
		Config:    deps.Config,
		Spawner:   deps.Spawner,
		Sources:   deps.Sources,
		GOOS:      deps.GOOS,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		configDir: deps.ConfigDir,
		cfg:       config.DefaultConfig(),
		logger:    log.New(io.Discard),
	}
}

// loadConfig loads configuration for the invocation. A failure is kept and
// reported by the commands that need configuration, so that "config path" and
// "config init" still work with a broken file.
func (a *App) loadConfig(ctx context.Context) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		ConfigDirPath:  a.configDir,
	})
	if err != nil {
		a.cfg, a.cfgPath, a.cfgErr = config.DefaultConfig(), "", err
		return
	}
	a.cfg, a.cfgPath, a.cfgErr = loaded.Config, loaded.Path, nil
}

// config returns the loaded configuration or the load error.
func (a *App) config() (*config.Config, error) {
	if a.cfgErr != nil {
		return nil, a.cfgErr
	}
	return a.cfg, nil
}

// setupLogger builds the invocation logger. --verbose wins over --log-level,
// which wins over the configured level.
func (a *App) setupLogger() error {
	level := string(a.cfg.LogLevel)
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	if a.verbose() {
		level = string(config.LogLevelDebug)
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:  lvl,
		Prefix: config.AppName,
	})
	return nil
}

func (a *App) verbose() bool {
	return a.flags.verbose || (a.cfg != nil && a.cfg.UI.Verbose)
}

// orchestrator builds a launcher for cfg.
func (a *App) orchestrator(cfg *config.Config) *launcher.Orchestrator {
	opts := []launcher.Option{launcher.WithLogger(a.logger), launcher.WithGOOS(a.GOOS)}
	if a.Spawner != nil {
		opts = append(opts, launcher.WithSpawner(a.Spawner))
	}
	return launcher.New(cfg, opts...)
}

// fail renders err and turns it into an ExitError so that the root command
// does not print it a second time.
func (a *App) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr
	}

	scheme := config.ColorSchemeAuto
	if a.cfg != nil {
		scheme = a.cfg.UI.ColorScheme
	}
	renderServiceError(a.stderr, toServiceError(err, a.verbose()), a.verbose(), issueStyle(scheme))
	code := 1
	if exitErr != nil {
		code = exitErr.Code
	}
	return &ExitError{Code: code, Err: err}
}
