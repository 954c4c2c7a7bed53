// SPDX-License-Identifier: MPL-2.0

// Package project discovers the studio project a working directory belongs to
// and derives the ST_* context variables handed to launched applications.
//
// A project root is marked by a project.yaml file. Task directories live
// below it, typically <project>/<taskarea>/<task>.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the marker file at the root of every project.
const FileName = "project.yaml"

// ErrNotFound is returned when no project.yaml exists in a directory or any parent.
var ErrNotFound = errors.New("no " + FileName + " found")

// Project is the content of project.yaml.
type Project struct {
	Name string `yaml:"name"`
	// Path is the project root. Loaders fill it with the directory holding
	// project.yaml when the file leaves it empty.
	Path string `yaml:"path"`
}

// Find walks from start up to the filesystem root and loads the first
// project.yaml it meets.
func Find(start string) (*Project, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(current, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return Load(candidate)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, fmt.Errorf("%w from %s", ErrNotFound, start)
		}
		current = parent
	}
}

// Load reads a project.yaml file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if p.Path == "" {
		p.Path = dir
	}
	if p.Name == "" {
		p.Name = filepath.Base(p.Path)
	}
	return &p, nil
}

// Save writes p to path, creating parent directories.
func Save(p *Project, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}
