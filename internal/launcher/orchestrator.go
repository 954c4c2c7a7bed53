// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/studiotools/stlaunch/internal/config"
	"github.com/studiotools/stlaunch/internal/issue"
	"github.com/studiotools/stlaunch/internal/runtime"
)

type (
	// Orchestrator carries out launch requests.
	Orchestrator struct {
		config   *config.Config
		spawner  runtime.Spawner
		registry Registry
		logger   *log.Logger
		goos     string
		workDir  string
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)
)

// WithSpawner replaces the native spawner.
func WithSpawner(s runtime.Spawner) Option {
	return func(o *Orchestrator) { o.spawner = s }
}

// WithRegistry replaces the built-in profiles.
func WithRegistry(r Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithGOOS selects the target operating system semantics.
func WithGOOS(goos string) Option {
	return func(o *Orchestrator) { o.goos = goos }
}

// WithWorkDir sets the directory relative tools and env file paths are
// resolved against. Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(o *Orchestrator) { o.workDir = dir }
}

// New creates an Orchestrator. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	o := &Orchestrator{
		config:   cfg,
		registry: DefaultRegistry(),
		goos:     goruntime.GOOS,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.spawner == nil {
		s := runtime.NewNativeSpawner()
		s.GOOS = o.goos
		o.spawner = s
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// canonicalApp normalizes an identifier to its registry key; empty means Generic.
func (o *Orchestrator) canonicalApp(id AppID) AppID {
	if id = o.registry.Canonical(id); id == "" {
		return Generic
	}
	return id
}

// Plan validates req and builds its plan without spawning anything.
func (o *Orchestrator) Plan(req Request) (*Plan, error) {
	req.App = o.canonicalApp(req.App)
	if err := validate.Struct(req); err != nil {
		return nil, o.envError(fmt.Errorf("invalid launch request: %w", err))
	}

	profile, ok := o.registry.Lookup(req.App)
	if !ok {
		return nil, fmt.Errorf("no launch profile for %q", req.App)
	}

	if profile.ExecutesDirectly {
		if info, err := os.Stat(req.Executable); req.Executable == "" || err != nil || info.IsDir() {
			return nil, issue.NewErrorContext().
				WithOperation("launch " + req.App.String()).
				WithResource(req.Executable).
				WithIssue(issue.ExecutableNotFoundId).
				WithSuggestion("Pass the application binary with --exe").
				Wrap(ErrExecutableNotFound).
				BuildError()
		}
	}

	workDir, err := o.resolveWorkDir()
	if err != nil {
		return nil, err
	}
	toolsDir := o.config.ToolsDir
	if !filepath.IsAbs(toolsDir) {
		toolsDir = filepath.Join(workDir, toolsDir)
	}

	plan, err := profile.Build(BuildContext{
		Request:  req,
		Config:   o.config,
		ToolsDir: filepath.Clean(toolsDir),
		GOOS:     o.goos,
		Logger:   o.logger,
	})
	if err != nil {
		var tfe *ToolFileError
		if errors.As(err, &tfe) {
			return nil, issue.NewErrorContext().
				WithOperation("launch " + req.App.String()).
				WithResource(tfe.Path).
				WithIssue(issue.ToolFileNotFoundId).
				WithSuggestion("Check tools_dir in the configuration").
				Wrap(err).
				BuildError()
		}
		return nil, err
	}
	if _, ok := plan.MainStep(); !ok {
		return nil, fmt.Errorf("launch profile for %q produced no main step", req.App)
	}

	extra, err := o.extraOverlay(req, workDir)
	if err != nil {
		return nil, err
	}
	for i := range plan.Steps {
		step := &plan.Steps[i]
		if step.Kind == StepBootstrap {
			continue
		}
		step.Spec.Overlay.Merge(extra)
		if step.Kind == StepMain && req.Preload != "" {
			step.Spec = step.Spec.WithPrefix(req.Preload)
		}
	}
	return plan, nil
}

// Launch builds the plan for req and carries it out. Bootstrap and prelaunch
// failures are recorded as warnings and do not stop the launch. When the main
// process cannot be started the returned Outcome is still populated and the
// error is a *LaunchError.
func (o *Orchestrator) Launch(ctx context.Context, req Request, opts Options) (*Outcome, error) {
	req.App = o.canonicalApp(req.App)
	outcome := &Outcome{ID: uuid.NewString(), App: req.App, DryRun: opts.DryRun}
	logger := o.logger.With("launch_id", outcome.ID, "app", req.App)

	plan, err := o.Plan(req)
	if err != nil {
		return outcome, err
	}

	if opts.DryRun {
		for _, step := range plan.Steps {
			logger.Info("dry run", "step", step.Name, "command", step.CommandLine())
			outcome.record(StepOutcome{Name: step.Name, Kind: step.Kind, Command: step.CommandLine(), Status: StatusSkipped})
		}
		return outcome, nil
	}

	bootstrapCtx, cancel := o.bootstrapContext(ctx)
	defer cancel()

	for _, step := range plan.Steps {
		switch step.Kind {
		case StepBootstrap:
			if !o.config.Bootstrap.Enabled {
				logger.Debug("bootstrap disabled", "step", step.Name)
				outcome.record(StepOutcome{Name: step.Name, Kind: step.Kind, Command: step.CommandLine(), Status: StatusSkipped})
				continue
			}
			outcome.record(o.runStep(bootstrapCtx, step, logger))
		case StepPrelaunch:
			outcome.record(o.runStep(ctx, step, logger))
		case StepMain:
			if err := ctx.Err(); err != nil {
				return outcome, fmt.Errorf("launch canceled: %w", err)
			}
			return outcome, o.startMain(step, opts, outcome, logger)
		}
	}
	return outcome, nil
}

func (o *Orchestrator) runStep(ctx context.Context, step Step, logger *log.Logger) StepOutcome {
	so := StepOutcome{Name: step.Name, Kind: step.Kind, Command: step.CommandLine()}
	logger.Info("running "+string(step.Kind)+" step", "step", step.Name, "command", so.Command)

	result := o.spawner.Run(ctx, step.Spec)
	so.ExitCode = int(result.ExitCode)
	so.Duration = result.Duration
	if result.Success() {
		so.Status = StatusSucceeded
		return so
	}

	so.Status = StatusFailed
	so.Err = result.Error
	if so.Err == nil {
		so.Err = fmt.Errorf("exited with code %d", result.ExitCode)
	}
	so.Error = so.Err.Error()
	logger.Warn(string(step.Kind)+" step failed, continuing", "step", step.Name, "exit_code", so.ExitCode, "err", so.Err)
	return so
}

func (o *Orchestrator) startMain(step Step, opts Options, outcome *Outcome, logger *log.Logger) error {
	so := StepOutcome{Name: step.Name, Kind: step.Kind, Command: step.CommandLine()}
	logger.Info("starting application", "command", so.Command)

	handle, err := o.spawner.Start(step.Spec)
	if err != nil {
		so.Status = StatusFailed
		so.ExitCode = int(runtime.ExitSpawnFailed)
		so.Err = err
		so.Error = err.Error()
		outcome.record(so)
		logger.Error("application failed to start", "err", err)
		return issue.NewErrorContext().
			WithOperation("launch " + outcome.App.String()).
			WithResource(step.Spec.Program).
			WithIssue(issue.LaunchFailedId).
			Wrap(&LaunchError{App: outcome.App, Program: step.Spec.Program, Err: err}).
			BuildError()
	}
	outcome.PID = handle.PID()
	logger.Info("application started", "pid", outcome.PID)

	if !opts.Wait {
		so.Status = StatusStarted
		outcome.record(so)
		go reap(handle, logger)
		return nil
	}

	result := handle.Wait()
	code := int(result.ExitCode)
	outcome.MainExitCode = &code
	so.ExitCode = code
	so.Duration = result.Duration
	so.Status = StatusSucceeded
	if !result.Success() {
		so.Status = StatusFailed
		so.Err = result.Error
		if so.Err == nil {
			so.Err = fmt.Errorf("exited with code %d", code)
		}
		so.Error = so.Err.Error()
	}
	outcome.record(so)
	logger.Info("application exited", "exit_code", code, "duration", result.Duration)
	return nil
}

// reap waits for a detached main process so that it does not linger as a
// zombie, and logs how it ended.
func reap(h runtime.Handle, logger *log.Logger) {
	result := h.Wait()
	if result.Success() {
		logger.Debug("application exited", "pid", h.PID(), "duration", result.Duration)
		return
	}
	logger.Warn("application exited with failure", "pid", h.PID(), "exit_code", int(result.ExitCode), "err", result.Error)
}

func (o *Orchestrator) bootstrapContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.config.Bootstrap.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.config.Bootstrap.Timeout)
}

// extraOverlay layers the project context, env files and explicit variables,
// in increasing precedence.
func (o *Orchestrator) extraOverlay(req Request, workDir string) (runtime.Overlay, error) {
	var extra runtime.Overlay
	if req.Context != nil {
		extra.SetAll(req.Context.Env())
	}
	if len(req.EnvFiles) > 0 {
		vars, err := runtime.LoadEnvFiles(req.EnvFiles, workDir)
		if err != nil {
			return runtime.Overlay{}, o.envError(err)
		}
		extra.SetAll(vars)
	}
	extra.SetAll(req.EnvVars)
	return extra, nil
}

func (o *Orchestrator) envError(err error) error {
	return issue.NewErrorContext().
		WithOperation("prepare launch environment").
		WithIssue(issue.InvalidEnvironmentId).
		Wrap(err).
		BuildError()
}

func (o *Orchestrator) resolveWorkDir() (string, error) {
	if o.workDir != "" {
		return filepath.Abs(o.workDir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
