// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"sync"

	"github.com/studiotools/stlaunch/internal/runtime"
)

type (
	// fakeSpawner records specs instead of starting processes.
	fakeSpawner struct {
		mu sync.Mutex

		runs   []runtime.ProcessSpec
		starts []runtime.ProcessSpec
		// runCtxs holds the context of each Run call.
		runCtxs []context.Context

		// runResult returns the result of the n-th Run call. Nil means success.
		runResult func(n int, spec runtime.ProcessSpec) *runtime.Result
		startErr  error
		// waitCode is the exit code reported by started processes.
		waitCode runtime.ExitCode
		waited   chan struct{}
	}

	fakeHandle struct {
		pid    int
		code   runtime.ExitCode
		waited chan struct{}
		once   sync.Once
	}
)

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{waited: make(chan struct{}, 1)}
}

func (f *fakeSpawner) Run(ctx context.Context, spec runtime.ProcessSpec) *runtime.Result {
	f.mu.Lock()
	n := len(f.runs)
	f.runs = append(f.runs, spec)
	f.runCtxs = append(f.runCtxs, ctx)
	f.mu.Unlock()

	if f.runResult != nil {
		if r := f.runResult(n, spec); r != nil {
			return r
		}
	}
	return runtime.NewSuccessResult()
}

func (f *fakeSpawner) Start(spec runtime.ProcessSpec) (runtime.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, spec)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &fakeHandle{pid: 4242, code: f.waitCode, waited: f.waited}, nil
}

func (f *fakeSpawner) spawnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs) + len(f.starts)
}

func (h *fakeHandle) PID() int { return h.pid }

func (h *fakeHandle) Wait() *runtime.Result {
	h.once.Do(func() { h.waited <- struct{}{} })
	if h.code != 0 {
		return runtime.NewExitCodeResult(h.code)
	}
	return runtime.NewSuccessResult()
}

var errSpawn = errors.New("exec format error")
