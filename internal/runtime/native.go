// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/studiotools/stlaunch/pkg/platform"
)

type (
	// NativeSpawner executes children on the host with os/exec.
	NativeSpawner struct {
		// Environ returns the parent environment snapshot. Defaults to os.Environ.
		Environ func() []string
		// GOOS selects path-list and env-key semantics. Defaults to runtime.GOOS.
		GOOS string
		// Sandbox, when it can spawn on the host, wraps every child in the
		// sandbox's host-spawn helper.
		Sandbox platform.SandboxType
	}

	// nativeProcess is the Handle returned by NativeSpawner.Start.
	nativeProcess struct {
		cmd     *exec.Cmd
		started time.Time
		once    sync.Once
		result  *Result
	}
)

// NewNativeSpawner creates a spawner for the current platform and sandbox.
func NewNativeSpawner() *NativeSpawner {
	return &NativeSpawner{
		Environ: os.Environ,
		GOOS:    goruntime.GOOS,
		Sandbox: platform.DetectSandbox(),
	}
}

// Run starts the child and waits for it to exit. Cancelling ctx kills the child.
func (s *NativeSpawner) Run(ctx context.Context, spec ProcessSpec) *Result {
	return s.run(ctx, spec, newStreamingOutput(spec.Stdout, spec.Stderr))
}

// Start starts the child without waiting for it.
func (s *NativeSpawner) Start(spec ProcessSpec) (Handle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	program, args, env := s.prepare(spec)
	// no context: the child must outlive the launch call
	cmd := exec.Command(program, args...)
	s.configure(cmd, spec, env, newStreamingOutput(spec.Stdout, spec.Stderr))

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", spec.Program, err)
	}
	return &nativeProcess{cmd: cmd, started: time.Now()}, nil
}

func (s *NativeSpawner) run(ctx context.Context, spec ProcessSpec, out *executeOutput) *Result {
	if err := spec.Validate(); err != nil {
		return NewErrorResult(ExitSpawnFailed, err)
	}

	program, args, env := s.prepare(spec)
	cmd := exec.CommandContext(ctx, program, args...)
	s.configure(cmd, spec, env, out)

	started := time.Now()
	result := extractExitCode(cmd.Run())
	result.Duration = time.Since(started)
	if result.Error != nil && ctx.Err() != nil {
		result.Error = fmt.Errorf("%s: %w", spec.Program, ctx.Err())
	}
	return result
}

// prepare computes the final program, argv and environment for spec.
// Inside a sandbox that can reach the host, the overlay travels as --env flags
// to the host-spawn helper and the child environment is left untouched.
func (s *NativeSpawner) prepare(spec ProcessSpec) (program string, args, env []string) {
	environ := s.environ()
	if platform.CanSpawnOnHost(s.Sandbox) {
		program, args = platform.HostSpawn(s.Sandbox, spec.Program, spec.Args, spec.Overlay.Resolve(environ, s.goos()))
		return program, args, environ
	}
	return spec.Program, spec.Args, spec.Overlay.Apply(environ, s.goos())
}

func (s *NativeSpawner) configure(cmd *exec.Cmd, spec ProcessSpec, env []string, out *executeOutput) {
	cmd.Env = env
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Stdin = spec.Stdin
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr
}

func (s *NativeSpawner) environ() []string {
	if s.Environ == nil {
		return os.Environ()
	}
	return s.Environ()
}

func (s *NativeSpawner) goos() string {
	if s.GOOS == "" {
		return goruntime.GOOS
	}
	return s.GOOS
}

// PID returns the operating system process ID.
func (p *nativeProcess) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Wait blocks until the child exits. Subsequent calls return the same Result.
func (p *nativeProcess) Wait() *Result {
	p.once.Do(func() {
		p.result = extractExitCode(p.cmd.Wait())
		p.result.Duration = time.Since(p.started)
	})
	return p.result
}
