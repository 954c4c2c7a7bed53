// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/studiotools/stlaunch/internal/config"
	"github.com/studiotools/stlaunch/internal/issue"
	"github.com/studiotools/stlaunch/internal/project"
	"github.com/studiotools/stlaunch/internal/runtime"
	"github.com/studiotools/stlaunch/internal/testutil"
)

type fixture struct {
	cfg      *config.Config
	toolsDir string
	spawner  *fakeSpawner
	install  *testutil.FakeInstall
}

// newFixture lays out a tools checkout and an application install dir.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	toolsDir := filepath.Join(t.TempDir(), "tools")
	cfg := config.DefaultConfig()
	cfg.ToolsDir = toolsDir
	testutil.MustWriteFile(t, cfg.ToolPath(cfg.Blender.LoadScript), "")
	testutil.MustWriteFile(t, cfg.ToolPath(cfg.Blender.Requirements), "")
	testutil.MustWriteFile(t, cfg.ToolPath(cfg.Houdini.LoadScript), "")

	return &fixture{
		cfg:      cfg,
		toolsDir: toolsDir,
		spawner:  newFakeSpawner(),
		install:  testutil.NewFakeInstall(t),
	}
}

func (f *fixture) orchestrator(opts ...Option) *Orchestrator {
	opts = append([]Option{WithSpawner(f.spawner), WithGOOS("linux")}, opts...)
	return New(f.cfg, opts...)
}

func overlayOf(spec runtime.ProcessSpec) []runtime.EnvEntry {
	return spec.Overlay.Entries()
}

func TestParseAppID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want AppID
	}{
		{in: "blender", want: Blender},
		{in: " Houdini ", want: Houdini},
		{in: "USDVIEW", want: Usdview},
		{in: "nuke", want: Generic},
		{in: "custom", want: Generic},
		{in: "", want: Generic},
	}
	for _, tt := range tests {
		if got := ParseAppID(tt.in); got != tt.want {
			t.Errorf("ParseAppID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLaunch_UnknownIdentifierRunsGeneric(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	exe := f.install.Executable("maya")

	outcome, err := f.orchestrator().Launch(context.Background(), Request{
		App:         AppID("maya"),
		Executable:  exe,
		ContentPath: "shot.ma",
	}, Options{})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	if len(f.spawner.runs) != 0 || len(f.spawner.starts) != 1 {
		t.Fatalf("spawns = %d runs, %d starts; want 0, 1", len(f.spawner.runs), len(f.spawner.starts))
	}
	main := f.spawner.starts[0]
	if main.Program != exe {
		t.Errorf("main program = %q, want %q", main.Program, exe)
	}
	if !reflect.DeepEqual(main.Args, []string{"shot.ma"}) {
		t.Errorf("main args = %v, want exactly the content path", main.Args)
	}
	if !main.Overlay.IsEmpty() {
		t.Errorf("main overlay = %v, want empty", overlayOf(main))
	}
	if outcome.PID != 4242 || !outcome.Succeeded() || outcome.MainExitCode != nil {
		t.Errorf("outcome = %+v, want started main without exit code", outcome)
	}
	if outcome.ID == "" {
		t.Error("outcome has no launch ID")
	}
	<-f.spawner.waited
}

func TestLaunch_BlenderBootstrapFailureStillStartsMain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	exe := f.install.Executable("blender")
	python := f.install.Executable(filepath.Join("4.2", "python", "bin", "python3.11"))
	f.spawner.runResult = func(n int, _ runtime.ProcessSpec) *runtime.Result {
		if n == 0 {
			return runtime.NewExitCodeResult(1)
		}
		return runtime.NewErrorResult(runtime.ExitSpawnFailed, errSpawn)
	}

	outcome, err := f.orchestrator().Launch(context.Background(), Request{
		App:         Blender,
		Executable:  exe,
		ContentPath: "/shots/sh010/scene.blend",
	}, Options{})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	if len(f.spawner.runs) != 2 {
		t.Fatalf("bootstrap runs = %d, want 2", len(f.spawner.runs))
	}
	wantBootstrap := [][]string{
		{python, "-m", "ensurepip"},
		{python, "-m", "pip", "install", "-r", f.cfg.ToolPath(f.cfg.Blender.Requirements)},
	}
	for i, spec := range f.spawner.runs {
		if !reflect.DeepEqual(spec.Argv(), wantBootstrap[i]) {
			t.Errorf("bootstrap %d argv = %v, want %v", i, spec.Argv(), wantBootstrap[i])
		}
		if !spec.Overlay.IsEmpty() {
			t.Errorf("bootstrap %d overlay = %v, want empty", i, overlayOf(spec))
		}
	}

	if len(f.spawner.starts) != 1 {
		t.Fatalf("main starts = %d, want 1", len(f.spawner.starts))
	}
	main := f.spawner.starts[0]
	wantArgs := []string{"/shots/sh010/scene.blend", "--python-use-system-env", "--python", f.cfg.ToolPath(f.cfg.Blender.LoadScript)}
	if main.Program != exe || !reflect.DeepEqual(main.Args, wantArgs) {
		t.Errorf("main argv = %v, want %v", main.Argv(), append([]string{exe}, wantArgs...))
	}
	wantEnv := []runtime.EnvEntry{
		{Name: EnvPythonPath, Value: f.toolsDir, Mode: runtime.EnvAppend},
		{Name: EnvInPipe, Value: "true", Mode: runtime.EnvSet},
	}
	if got := overlayOf(main); !reflect.DeepEqual(got, wantEnv) {
		t.Errorf("main overlay = %v, want %v", got, wantEnv)
	}

	if got := len(outcome.Warnings()); got != 2 {
		t.Errorf("Warnings() = %d, want 2", got)
	}
	if !outcome.Succeeded() {
		t.Error("Succeeded() = false, want true despite failed bootstrap")
	}
	<-f.spawner.waited
}

func TestLaunch_MissingToolFilesSpawnNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		app    AppID
		remove func(cfg *config.Config) string
	}{
		{name: "blender load script", app: Blender, remove: func(cfg *config.Config) string { return cfg.ToolPath(cfg.Blender.LoadScript) }},
		{name: "blender requirements", app: Blender, remove: func(cfg *config.Config) string { return cfg.ToolPath(cfg.Blender.Requirements) }},
		{name: "houdini load script", app: Houdini, remove: func(cfg *config.Config) string { return cfg.ToolPath(cfg.Houdini.LoadScript) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			missing := tt.remove(f.cfg)
			testutil.MustRemoveAll(t, missing)

			_, err := f.orchestrator().Launch(context.Background(), Request{
				App:         tt.app,
				Executable:  f.install.Executable("app"),
				ContentPath: "scene",
			}, Options{})

			if !errors.Is(err, ErrToolFileNotFound) {
				t.Fatalf("Launch() error = %v, want ErrToolFileNotFound", err)
			}
			var tfe *ToolFileError
			if !errors.As(err, &tfe) || tfe.Path != missing {
				t.Errorf("ToolFileError = %+v, want path %q", tfe, missing)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.IssueID != issue.ToolFileNotFoundId {
				t.Errorf("Launch() error not linked to ToolFileNotFoundId: %v", err)
			}
			if n := f.spawner.spawnCount(); n != 0 {
				t.Errorf("spawns = %d, want 0", n)
			}
		})
	}
}

func TestLaunch_MissingExecutable(t *testing.T) {
	t.Parallel()

	for _, app := range []AppID{Blender, Houdini, Generic} {
		f := newFixture(t)
		_, err := f.orchestrator().Launch(context.Background(), Request{
			App:        app,
			Executable: filepath.Join(t.TempDir(), "missing"),
		}, Options{})
		if !errors.Is(err, ErrExecutableNotFound) {
			t.Errorf("Launch(%s) error = %v, want ErrExecutableNotFound", app, err)
		}
		if n := f.spawner.spawnCount(); n != 0 {
			t.Errorf("Launch(%s) spawns = %d, want 0", app, n)
		}
	}
}

func TestLaunch_Houdini(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	exe := f.install.Executable(filepath.Join("bin", "houdini"))
	hython := f.install.Executable(filepath.Join("bin", "hython3.11"))

	_, err := f.orchestrator().Launch(context.Background(), Request{
		App:         Houdini,
		Executable:  exe,
		ContentPath: "shot.hip",
	}, Options{})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	if len(f.spawner.runs) != 1 {
		t.Fatalf("prelaunch runs = %d, want 1", len(f.spawner.runs))
	}
	pre := f.spawner.runs[0]
	load := f.cfg.ToolPath(f.cfg.Houdini.LoadScript)
	if want := []string{hython, load, "shot.hip"}; !reflect.DeepEqual(pre.Argv(), want) {
		t.Errorf("prelaunch argv = %v, want %v", pre.Argv(), want)
	}

	main := f.spawner.starts[0]
	if want := []string{exe, "shot.hip"}; !reflect.DeepEqual(main.Argv(), want) {
		t.Errorf("main argv = %v, want %v", main.Argv(), want)
	}

	environ := []string{"HOUDINI_MENU_PATH=/site/menus", "PYTHONPATH=/site/python"}
	got := main.Overlay.Resolve(environ, "linux")
	want := map[string]string{
		EnvPythonPath:         "/site/python:" + f.toolsDir,
		EnvHoudiniToolbarPath: f.cfg.ToolPath(f.cfg.Houdini.ToolbarDir) + ":&",
		EnvHoudiniOtlScanPath: f.cfg.ToolPath(f.cfg.Houdini.OtlsDir) + ":&",
		EnvHoudiniMenuPath:    "/site/menus:" + f.cfg.ToolPath(f.cfg.Houdini.MenuDir) + ":&",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("main env = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(pre.Overlay.Resolve(environ, "linux"), want) {
		t.Error("prelaunch env differs from main env")
	}
	<-f.spawner.waited
}

func TestLaunch_HoudiniWindowsSeparator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	plan, err := f.orchestrator(WithGOOS("windows")).Plan(Request{
		App:        Houdini,
		Executable: f.install.Executable("houdini.exe"),
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	main, _ := plan.MainStep()
	if len(main.Spec.Args) != 0 {
		t.Errorf("main args = %v, want none for empty content path", main.Spec.Args)
	}
	env := main.Spec.Overlay.Resolve(nil, "windows")
	if want := f.cfg.ToolPath(f.cfg.Houdini.ToolbarDir) + ";&"; env[EnvHoudiniToolbarPath] != want {
		t.Errorf("%s = %q, want %q", EnvHoudiniToolbarPath, env[EnvHoudiniToolbarPath], want)
	}
	if plan.Steps[0].Spec.Program != "hython.exe" {
		t.Errorf("prelaunch program = %q, want fallback hython.exe", plan.Steps[0].Spec.Program)
	}
}

func TestLaunch_Usdview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos        string
		wantProgram string
		wantEnv     []runtime.EnvEntry
	}{
		{goos: "linux", wantProgram: "usdview"},
		{
			goos:        "windows",
			wantProgram: config.DefaultUsdviewWindowsDir + "/usdview",
			wantEnv:     []runtime.EnvEntry{{Name: EnvPath, Value: config.DefaultUsdviewWindowsDir, Mode: runtime.EnvPrepend}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			plan, err := f.orchestrator(WithGOOS(tt.goos)).Plan(Request{App: Usdview, ContentPath: "stage.usda"})
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if len(plan.Steps) != 1 {
				t.Fatalf("steps = %d, want 1", len(plan.Steps))
			}
			main := plan.Steps[0].Spec
			if main.Program != tt.wantProgram || !reflect.DeepEqual(main.Args, []string{"stage.usda"}) {
				t.Errorf("main argv = %v", main.Argv())
			}
			if got := main.Overlay.Entries(); !reflect.DeepEqual(got, tt.wantEnv) {
				t.Errorf("overlay = %v, want %v", got, tt.wantEnv)
			}
		})
	}
}

func TestLaunch_DryRunSpawnsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome, err := f.orchestrator().Launch(context.Background(), Request{
		App:         Blender,
		Executable:  f.install.Executable("blender"),
		ContentPath: "a b.blend",
	}, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if n := f.spawner.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
	if len(outcome.Steps) != 3 || !outcome.DryRun {
		t.Fatalf("outcome = %+v, want 3 dry-run steps", outcome)
	}
	for _, s := range outcome.Steps {
		if s.Status != StatusSkipped || s.Command == "" {
			t.Errorf("step %s = %+v, want skipped with command", s.Name, s)
		}
	}
	if outcome.Succeeded() {
		t.Error("Succeeded() = true for a dry run")
	}
}

func TestLaunch_BootstrapDisabled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.Bootstrap.Enabled = false

	outcome, err := f.orchestrator().Launch(context.Background(), Request{
		App:        Blender,
		Executable: f.install.Executable("blender"),
	}, Options{Wait: true})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if len(f.spawner.runs) != 0 {
		t.Errorf("runs = %d, want 0", len(f.spawner.runs))
	}
	if outcome.Steps[0].Status != StatusSkipped || outcome.Steps[1].Status != StatusSkipped {
		t.Errorf("bootstrap steps = %+v, want skipped", outcome.Steps[:2])
	}
}

func TestLaunch_BootstrapTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{name: "bounded", timeout: time.Minute, wantDeadline: true},
		{name: "zero is unlimited", timeout: 0, wantDeadline: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.cfg.Bootstrap.Timeout = tt.timeout

			if _, err := f.orchestrator().Launch(context.Background(), Request{
				App:        Blender,
				Executable: f.install.Executable("blender"),
			}, Options{Wait: true}); err != nil {
				t.Fatalf("Launch() error = %v", err)
			}
			if len(f.spawner.runCtxs) == 0 {
				t.Fatal("no bootstrap step ran")
			}
			for i, ctx := range f.spawner.runCtxs {
				deadline, ok := ctx.Deadline()
				if ok != tt.wantDeadline {
					t.Errorf("bootstrap %d has deadline = %v, want %v", i, ok, tt.wantDeadline)
				}
				if ok && time.Until(deadline) > tt.timeout {
					t.Errorf("bootstrap %d deadline = %v, want within %v", i, deadline, tt.timeout)
				}
			}
		})
	}
}

func TestLaunch_Wait(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.spawner.waitCode = 3

	outcome, err := f.orchestrator().Launch(context.Background(), Request{
		Executable: f.install.Executable("tool"),
	}, Options{Wait: true})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if outcome.App != Generic {
		t.Errorf("outcome.App = %q, want generic for an empty identifier", outcome.App)
	}
	if outcome.MainExitCode == nil || *outcome.MainExitCode != 3 {
		t.Fatalf("MainExitCode = %v, want 3", outcome.MainExitCode)
	}
	if outcome.Succeeded() {
		t.Error("Succeeded() = true for non-zero exit")
	}
	if main, _ := outcome.Main(); main.Status != StatusFailed || main.Error == "" {
		t.Errorf("main outcome = %+v, want failed with error", main)
	}
}

func TestLaunch_StartFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.spawner.startErr = errSpawn

	outcome, err := f.orchestrator().Launch(context.Background(), Request{
		Executable: f.install.Executable("tool"),
	}, Options{})

	var le *LaunchError
	if !errors.As(err, &le) || !errors.Is(err, errSpawn) {
		t.Fatalf("Launch() error = %v, want *LaunchError wrapping the spawn error", err)
	}
	if outcome == nil || outcome.Succeeded() || outcome.PID != 0 {
		t.Errorf("outcome = %+v, want recorded failure", outcome)
	}
	if main, ok := outcome.Main(); !ok || main.ExitCode != int(runtime.ExitSpawnFailed) {
		t.Errorf("main outcome = %+v", main)
	}
}

func TestLaunch_CanceledBeforeMain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orchestrator().Launch(ctx, Request{Executable: f.install.Executable("tool")}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Launch() error = %v, want context.Canceled", err)
	}
	if len(f.spawner.starts) != 0 {
		t.Error("main started after cancellation")
	}
}

func TestLaunch_OverlayPrecedence(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(workDir, "shot.env"), "INPIPE=false\nSHOT=sh010\nST_TASK=fromfile\n")

	root := t.TempDir()
	task := filepath.Join(root, "sh010", "lighting")
	pctx := &project.Context{Project: project.Project{Name: "hero", Path: root}, Cwd: task}

	plan, err := f.orchestrator(WithWorkDir(workDir)).Plan(Request{
		App:        Blender,
		Executable: f.install.Executable("blender"),
		Context:    pctx,
		EnvFiles:   []string{"shot.env", "missing.env?"},
		EnvVars:    map[string]string{"SHOT": "sh020"},
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	main, _ := plan.MainStep()
	env := main.Spec.Overlay.Resolve(nil, "linux")
	want := map[string]string{
		EnvPythonPath:       f.toolsDir,
		EnvInPipe:           "false",
		"SHOT":              "sh020",
		project.EnvProject:  root,
		project.EnvTask:     "fromfile",
		project.EnvTaskArea: "sh010",
		project.EnvCwd:      task,
	}
	if !reflect.DeepEqual(env, want) {
		t.Errorf("main env = %v, want %v", env, want)
	}
	for _, step := range plan.Steps {
		if step.Kind == StepBootstrap && !step.Spec.Overlay.IsEmpty() {
			t.Errorf("bootstrap step %s has overlay %v", step.Name, step.Spec.Overlay.Entries())
		}
	}
}

func TestLaunch_InvalidEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
	}{
		{name: "missing env file", req: Request{EnvFiles: []string{"nope.env"}}},
		{name: "empty env var name", req: Request{EnvVars: map[string]string{"": "x"}}},
		{name: "env var name with equals", req: Request{EnvVars: map[string]string{"A=B": "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tt.req.Executable = f.install.Executable("tool")
			_, err := f.orchestrator(WithWorkDir(t.TempDir())).Launch(context.Background(), tt.req, Options{})

			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.IssueID != issue.InvalidEnvironmentId {
				t.Errorf("Launch() error = %v, want InvalidEnvironmentId", err)
			}
			if n := f.spawner.spawnCount(); n != 0 {
				t.Errorf("spawns = %d, want 0", n)
			}
		})
	}
}

func TestLaunch_Preload(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	exe := f.install.Executable("nuke")

	plan, err := f.orchestrator().Plan(Request{
		Executable:  exe,
		ContentPath: "comp.nk",
		Preload:     "/studio/preload.sh",
		EnvVars:     map[string]string{"JOB": "hero"},
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	main, _ := plan.MainStep()
	if want := []string{"/studio/preload.sh", exe, "comp.nk"}; !reflect.DeepEqual(main.Spec.Argv(), want) {
		t.Errorf("main argv = %v, want %v", main.Spec.Argv(), want)
	}
	if main.Spec.Overlay.Resolve(nil, "linux")["JOB"] != "hero" {
		t.Error("preloaded main lost its overlay")
	}
}

func TestLaunch_RelativeToolsDir(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workDir := filepath.Dir(f.toolsDir)
	f.cfg.ToolsDir = "./tools"

	plan, err := f.orchestrator(WithWorkDir(workDir)).Plan(Request{
		App:        Blender,
		Executable: f.install.Executable("blender"),
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	main, _ := plan.MainStep()
	if got := main.Spec.Args[len(main.Spec.Args)-1]; !filepath.IsAbs(got) {
		t.Errorf("load script = %q, want absolute path", got)
	}
}

func TestLaunch_IdentifierCaseInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       AppID
		want     AppID
		wantRuns int
	}{
		{id: "Blender", want: Blender, wantRuns: 2},
		{id: " HOUDINI ", want: Houdini, wantRuns: 1},
		{id: "Maya", want: "maya", wantRuns: 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			exe := f.install.Executable(filepath.Join("bin", "app"))

			outcome, err := f.orchestrator().Launch(context.Background(), Request{
				App:         tt.id,
				Executable:  exe,
				ContentPath: "scene",
			}, Options{})
			if err != nil {
				t.Fatalf("Launch() error = %v", err)
			}
			if outcome.App != tt.want {
				t.Errorf("outcome.App = %q, want %q", outcome.App, tt.want)
			}
			if len(f.spawner.runs) != tt.wantRuns {
				t.Errorf("runs = %d, want %d", len(f.spawner.runs), tt.wantRuns)
			}
			main := f.spawner.starts[0]
			if tt.wantRuns == 0 {
				if !main.Overlay.IsEmpty() {
					t.Errorf("main overlay = %v, want empty", overlayOf(main))
				}
				return
			}
			if _, ok := main.Overlay.Resolve(nil, "linux")[EnvPythonPath]; !ok {
				t.Errorf("main overlay = %v, want %s", overlayOf(main), EnvPythonPath)
			}
		})
	}
}

func TestRegistry_CanonicalKeepsCustomEntries(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	reg["Maya"] = Profile{}

	tests := []struct {
		in, want AppID
	}{
		{in: "Maya", want: "Maya"},
		{in: "Blender", want: Blender},
		{in: " usdview", want: Usdview},
		{in: "Nuke", want: "nuke"},
	}
	for _, tt := range tests {
		if got := reg.Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistry_CustomProfile(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := DefaultRegistry()
	reg["maya"] = Profile{Build: func(bc BuildContext) (*Plan, error) {
		return bc.newPlan().Main(runtime.ProcessSpec{Program: "maya", Args: []string{"-file", bc.Request.ContentPath}}), nil
	}}

	plan, err := f.orchestrator(WithRegistry(reg)).Plan(Request{App: "maya", ContentPath: "a.ma"})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if want := []string{"maya", "-file", "a.ma"}; !reflect.DeepEqual(plan.Steps[0].Spec.Argv(), want) {
		t.Errorf("argv = %v, want %v", plan.Steps[0].Spec.Argv(), want)
	}

	_, err = f.orchestrator(WithRegistry(Registry{})).Plan(Request{App: "maya"})
	if err == nil {
		t.Error("Plan() with empty registry succeeded")
	}
}

func TestStepCommandLine(t *testing.T) {
	t.Parallel()

	step := Step{Spec: runtime.ProcessSpec{
		Program: "/opt/my apps/blender",
		Args:    []string{"--python", "load.py"},
	}}
	if got, want := step.CommandLine(), "'/opt/my apps/blender' --python load.py"; got != want {
		t.Errorf("CommandLine() = %q, want %q", got, want)
	}
}
