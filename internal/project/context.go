// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"path/filepath"
)

// Context environment variable names.
const (
	EnvProject  = "ST_PROJECT"
	EnvTask     = "ST_TASK"
	EnvTaskArea = "ST_TASKAREA"
	EnvCwd      = "ST_CWD"
)

// Context is a project plus the task directory the user is working in.
type Context struct {
	Project Project
	Cwd     string
}

// NewContext finds the project containing cwd and returns the context for it.
func NewContext(cwd string) (*Context, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cwd, err)
	}
	p, err := Find(abs)
	if err != nil {
		return nil, err
	}
	return &Context{Project: *p, Cwd: abs}, nil
}

// Task is the base name of the working directory.
func (c *Context) Task() string {
	return filepath.Base(c.Cwd)
}

// TaskArea is the base name of the working directory's parent.
func (c *Context) TaskArea() string {
	return filepath.Base(filepath.Dir(c.Cwd))
}

// Env returns the ST_* variables describing the context.
func (c *Context) Env() map[string]string {
	return map[string]string{
		EnvProject:  c.Project.Path,
		EnvTask:     c.Task(),
		EnvTaskArea: c.TaskArea(),
		EnvCwd:      c.Cwd,
	}
}
