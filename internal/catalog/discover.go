// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/studiotools/stlaunch/pkg/platform"
)

// Source describes where installations of one application type live.
type Source struct {
	Type string
	// Pattern is a filepath.Glob pattern matching installation directories, or
	// executables directly when Executable is empty.
	Pattern string
	// Executable is a glob relative to each matched directory. The first match
	// that is a regular file is used.
	Executable string
	// Name is the fixed display name. Empty uses the installation directory name.
	Name       string
	Extensions []string
	// Preload is an optional wrapper program, kept only when it exists.
	Preload string
	// Icon is relative to each matched directory, kept only when it exists.
	Icon string
	// Variants are extra executables next to Executable, each listed as its
	// own application when present.
	Variants []Variant
}

// Variant is an alternative executable of the same installation, such as
// Houdini Core or FX.
type Variant struct {
	// Suffix is appended to the installation name: "hfs20.5 FX".
	Suffix     string
	Executable string
}

const houdiniIcon = "houdini/pic/minimizedicon.png"

// DefaultSources returns the standard installation locations for goos.
// Windows preload wrappers are looked up under toolsDir.
func DefaultSources(goos, toolsDir string) []Source {
	switch goos {
	case platform.Windows:
		programFiles := `C:\Program Files`
		preload := func(pkg string) string {
			if toolsDir == "" {
				return ""
			}
			return filepath.Join(toolsDir, pkg, "preload.bat")
		}
		return []Source{
			{
				Type:       TypeHoudini,
				Pattern:    filepath.Join(programFiles, "Side Effects Software", "Houdini*"),
				Executable: filepath.Join("bin", "houdini.exe"),
				Extensions: []string{"hip", "hipnc"},
				Preload:    preload("houdini_studiotools"),
				Icon:       houdiniIcon,
				Variants: []Variant{
					{Suffix: "Core", Executable: filepath.Join("bin", "houdinicore.exe")},
					{Suffix: "FX", Executable: filepath.Join("bin", "houdinifx.exe")},
				},
			},
			{
				Type:       TypeBlender,
				Pattern:    filepath.Join(programFiles, "Blender Foundation", "Blender*"),
				Executable: "blender.exe",
				Extensions: []string{"blend"},
				Preload:    preload("blender_studiotools"),
			},
			{
				Type:       TypeBlender,
				Pattern:    filepath.Join(programFiles, "Blender*"),
				Executable: "blender.exe",
				Extensions: []string{"blend"},
				Preload:    preload("blender_studiotools"),
			},
			{
				Type:       TypeNuke,
				Pattern:    filepath.Join(programFiles, "Nuke*"),
				Executable: "Nuke*.exe",
				Extensions: []string{"nk"},
				Preload:    preload("nuke_studiotools"),
			},
		}
	case platform.Linux:
		return []Source{
			{
				Type:       TypeHoudini,
				Pattern:    "/opt/hfs*",
				Executable: "bin/houdini",
				Extensions: []string{"hip", "hipnc"},
				Icon:       houdiniIcon,
				Variants: []Variant{
					{Suffix: "Core", Executable: "bin/houdinicore"},
					{Suffix: "FX", Executable: "bin/houdinifx"},
				},
			},
			{Type: TypeBlender, Pattern: "/usr/bin/blender", Name: "Blender", Extensions: []string{"blend"}},
			{Type: TypeBlender, Pattern: "/snap/bin/blender", Name: "Blender", Extensions: []string{"blend"}},
			{Type: TypeNuke, Pattern: "/usr/local/Nuke*", Executable: "Nuke*", Extensions: []string{"nk"}},
			{Type: TypeNuke, Pattern: "/opt/Nuke*", Executable: "Nuke*", Extensions: []string{"nk"}},
		}
	default:
		return nil
	}
}

// Discover scans every source concurrently and returns the installations found,
// sorted by name. When two sources yield the same name the earlier source wins.
func Discover(ctx context.Context, sources []Source, logger *log.Logger) ([]Application, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	found := make([][]Application, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			apps, err := scan(src)
			if err != nil {
				logger.Debug("skipping install source", "pattern", src.Pattern, "err", err)
				return nil
			}
			found[i] = apps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Application
	seen := make(map[string]bool)
	for _, apps := range found {
		for _, app := range apps {
			if seen[app.Name] {
				continue
			}
			seen[app.Name] = true
			logger.Debug("discovered application", "name", app.Name, "type", app.Type, "executable", app.Executable)
			out = append(out, app)
		}
	}
	slices.SortFunc(out, func(a, b Application) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func scan(src Source) ([]Application, error) {
	matches, err := filepath.Glob(src.Pattern)
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)

	var apps []Application
	for _, match := range matches {
		exe := match
		if src.Executable != "" {
			if exe = firstFile(filepath.Join(match, src.Executable)); exe == "" {
				continue
			}
		} else if !isFile(exe) {
			continue
		}

		name := src.Name
		if name == "" {
			name = filepath.Base(match)
		}
		app := Application{
			Name:       name,
			Executable: exe,
			Type:       src.Type,
			Extensions: NormalizeExtensions(src.Extensions),
			Enabled:    true,
		}
		if src.Preload != "" && isFile(src.Preload) {
			app.Preload = src.Preload
		}
		if src.Icon != "" {
			if icon := filepath.Join(match, filepath.FromSlash(src.Icon)); isFile(icon) {
				app.Icon = icon
			}
		}
		apps = append(apps, app)

		for _, v := range src.Variants {
			variantExe := filepath.Join(match, filepath.FromSlash(v.Executable))
			if !isFile(variantExe) {
				continue
			}
			variant := app
			variant.Name = name + " " + v.Suffix
			variant.Executable = variantExe
			variant.Extensions = slices.Clone(app.Extensions)
			apps = append(apps, variant)
		}
	}
	return apps, nil
}

func firstFile(pattern string) string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return ""
	}
	slices.Sort(matches)
	for _, m := range matches {
		if isFile(m) {
			return m
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
