// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Catalog is the merged application list of a project.
type Catalog struct {
	apps []Application
}

// New merges discovered installations with the records of f.
//
// Entries with an executable become custom applications and replace a
// discovered installation of the same name. A record for a discovered
// installation overrides its type and sets its enabled flag, which defaults
// to false once the installation is mentioned in the file.
func New(discovered []Application, f *File) *Catalog {
	byName := make(map[string]int)
	var apps []Application
	for _, app := range discovered {
		byName[app.Name] = len(apps)
		apps = append(apps, app)
	}

	if f != nil {
		for name, e := range f.AppList {
			if e.Executable == "" {
				continue
			}
			custom := Application{
				Name:       name,
				Executable: e.Executable,
				Icon:       e.Icon,
				Type:       e.AppType,
				Preload:    e.Preload,
				Extensions: NormalizeExtensions(e.Extensions),
				Enabled:    e.Enabled != nil && *e.Enabled,
				Custom:     e.IsCustom,
			}
			if i, ok := byName[name]; ok {
				apps[i] = custom
				continue
			}
			byName[name] = len(apps)
			apps = append(apps, custom)
		}

		for i := range apps {
			e, ok := f.AppList[apps[i].Name]
			if !ok || e.Executable != "" {
				continue
			}
			apps[i].Enabled = e.Enabled != nil && *e.Enabled
			if e.AppType != "" {
				apps[i].Type = e.AppType
			}
		}
	}

	slices.SortFunc(apps, func(a, b Application) int { return strings.Compare(a.Name, b.Name) })
	return &Catalog{apps: apps}
}

// All returns every application, enabled or not.
func (c *Catalog) All() []Application {
	return slices.Clone(c.apps)
}

// Enabled returns the enabled applications.
func (c *Catalog) Enabled() []Application {
	var out []Application
	for _, app := range c.apps {
		if app.Enabled {
			out = append(out, app)
		}
	}
	return out
}

// Get looks an application up by name.
func (c *Catalog) Get(name string) (Application, bool) {
	for _, app := range c.apps {
		if app.Name == name {
			return app, true
		}
	}
	return Application{}, false
}

// ForFile returns the enabled applications that handle path.
func (c *Catalog) ForFile(path string) []Application {
	var out []Application
	for _, app := range c.apps {
		if app.Enabled && app.Handles(path) {
			out = append(out, app)
		}
	}
	return out
}

// IsTaskFile reports whether any application, enabled or not, handles path.
func (c *Catalog) IsTaskFile(path string) bool {
	for _, app := range c.apps {
		if app.Handles(path) {
			return true
		}
	}
	return false
}
