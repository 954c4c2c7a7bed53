// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project application file.
const FileName = "apps.yaml"

// ErrAppNotFound is returned when an operation names an application that is
// not in apps.yaml.
var ErrAppNotFound = errors.New("application not found")

type (
	// File is the content of apps.yaml.
	File struct {
		AppList map[string]*Entry `yaml:"app_list"`
	}

	// Entry is one apps.yaml record. For discovered installations only Enabled
	// and AppType are meaningful; entries with an executable are custom
	// applications. Fields are declared in key order so that files are written
	// with sorted keys.
	Entry struct {
		AppType    string   `yaml:"app_type,omitempty"`
		Enabled    *bool    `yaml:"enabled,omitempty"`
		Executable string   `yaml:"executable,omitempty"`
		Extensions []string `yaml:"extensions,omitempty"`
		Icon       string   `yaml:"icon,omitempty"`
		IsCustom   bool     `yaml:"iscustom,omitempty"`
		Preload    string   `yaml:"preload,omitempty"`
	}

	// Store reads and updates a project's apps.yaml.
	Store struct {
		path string
	}
)

// NewStore returns the store for <projectDir>/apps.yaml.
func NewStore(projectDir string) *Store {
	return &Store{path: filepath.Join(projectDir, FileName)}
}

// Path returns the apps.yaml path.
func (s *Store) Path() string { return s.path }

// Read loads apps.yaml. A missing file yields an empty File.
func (s *Store) Read() (*File, error) {
	f := &File{AppList: map[string]*Entry{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if f.AppList == nil {
		f.AppList = map[string]*Entry{}
	}
	for name, e := range f.AppList {
		if e == nil {
			f.AppList[name] = &Entry{}
		}
	}
	return f, nil
}

// Write replaces apps.yaml with f.
func (s *Store) Write(f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// SetEnabled records the enabled flag for an application.
func (s *Store) SetEnabled(name string, enabled bool) error {
	return s.update(func(f *File) error {
		entry(f, name).Enabled = &enabled
		return nil
	})
}

// SetType overrides the type of an application.
func (s *Store) SetType(name, appType string) error {
	if err := validate.Var(appType, "oneof=blender houdini nuke usdview custom"); err != nil {
		return &InvalidApplicationError{Name: name, Err: err}
	}
	return s.update(func(f *File) error {
		entry(f, name).AppType = appType
		return nil
	})
}

// AddCustom adds or replaces a custom application.
func (s *Store) AddCustom(app Application) error {
	app.Extensions = NormalizeExtensions(app.Extensions)
	if err := app.Validate(); err != nil {
		return err
	}
	enabled := app.Enabled
	return s.update(func(f *File) error {
		f.AppList[app.Name] = &Entry{
			AppType:    app.Type,
			Enabled:    &enabled,
			Executable: app.Executable,
			Extensions: app.Extensions,
			Icon:       app.Icon,
			IsCustom:   true,
			Preload:    app.Preload,
		}
		return nil
	})
}

// Remove deletes an application's record.
func (s *Store) Remove(name string) error {
	return s.update(func(f *File) error {
		if _, ok := f.AppList[name]; !ok {
			return fmt.Errorf("%w: %s", ErrAppNotFound, name)
		}
		delete(f.AppList, name)
		return nil
	})
}

func (s *Store) update(fn func(*File) error) error {
	f, err := s.Read()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.Write(f)
}

func entry(f *File, name string) *Entry {
	e, ok := f.AppList[name]
	if !ok {
		e = &Entry{}
		f.AppList[name] = e
	}
	return e
}
