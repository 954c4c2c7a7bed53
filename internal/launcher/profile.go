// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/studiotools/stlaunch/internal/config"
	"github.com/studiotools/stlaunch/internal/resolver"
	"github.com/studiotools/stlaunch/internal/runtime"
	"github.com/studiotools/stlaunch/pkg/platform"
)

// Environment variables set by the built-in profiles.
const (
	EnvPythonPath         = "PYTHONPATH"
	EnvInPipe             = "INPIPE"
	EnvHoudiniToolbarPath = "HOUDINI_TOOLBAR_PATH"
	EnvHoudiniOtlScanPath = "HOUDINI_OTLSCAN_PATH"
	EnvHoudiniMenuPath    = "HOUDINI_MENU_PATH"
	EnvPath               = "PATH"

	// houdiniDefaultPath is Houdini's marker for the rest of the default search path.
	houdiniDefaultPath = "&"
)

type (
	// Profile builds the plan for one application family.
	Profile struct {
		// ExecutesDirectly is set when the request executable is the main
		// program and therefore must exist.
		ExecutesDirectly bool
		Build            func(bc BuildContext) (*Plan, error)
	}

	// Registry maps identifiers to profiles. Unknown identifiers use the
	// Generic entry.
	Registry map[AppID]Profile

	// BuildContext is the input of Profile.Build.
	BuildContext struct {
		Request Request
		Config  *config.Config
		// ToolsDir is the absolute tools directory.
		ToolsDir string
		GOOS     string
		Logger   *log.Logger
	}
)

// DefaultRegistry returns the built-in profiles.
func DefaultRegistry() Registry {
	return Registry{
		Blender: {ExecutesDirectly: true, Build: buildBlender},
		Houdini: {ExecutesDirectly: true, Build: buildHoudini},
		Usdview: {Build: buildUsdview},
		Generic: {ExecutesDirectly: true, Build: buildGeneric},
	}
}

// Canonical returns the registry key matching id: id itself when registered,
// else its trimmed lower-case form. Unregistered ids are returned normalized.
func (r Registry) Canonical(id AppID) AppID {
	if _, ok := r[id]; ok {
		return id
	}
	return AppID(strings.ToLower(strings.TrimSpace(string(id))))
}

// Lookup returns the profile for id, matched case-insensitively, falling back
// to Generic.
func (r Registry) Lookup(id AppID) (Profile, bool) {
	if p, ok := r[r.Canonical(id)]; ok {
		return p, true
	}
	p, ok := r[Generic]
	return p, ok
}

// ToolFile resolves a tools-relative file and checks that it exists.
func (bc BuildContext) ToolFile(kind, rel string) (string, error) {
	path := bc.ToolPath(rel)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &ToolFileError{Kind: kind, Path: path}
	}
	return path, nil
}

// ToolPath joins a slash-separated relative path onto the tools directory.
func (bc BuildContext) ToolPath(rel string) string {
	return filepath.Join(bc.ToolsDir, filepath.FromSlash(rel))
}

// SearchPath returns dir followed by the path-list separator and Houdini's
// default-path marker.
func (bc BuildContext) SearchPath(dir string) string {
	return dir + platform.PathListSeparator(bc.GOOS) + houdiniDefaultPath
}

func (bc BuildContext) newPlan() *Plan {
	return &Plan{App: bc.Request.App}
}

func (bc BuildContext) logResolution(layout resolver.Layout, res resolver.Resolution) {
	if res.Fallback {
		bc.Logger.Debug("interpreter not found in installation, using fallback",
			"layout", layout.Name, "interpreter", res.Path)
		return
	}
	bc.Logger.Debug("resolved interpreter", "layout", layout.Name, "interpreter", res.Path)
}

func buildBlender(bc BuildContext) (*Plan, error) {
	cfg := bc.Config.Blender
	loadScript, err := bc.ToolFile("blender load script", cfg.LoadScript)
	if err != nil {
		return nil, err
	}
	requirements, err := bc.ToolFile("blender requirements file", cfg.Requirements)
	if err != nil {
		return nil, err
	}

	res := resolver.ResolveInterpreter(filepath.Dir(bc.Request.Executable), bc.GOOS, resolver.BlenderPython)
	bc.logResolution(resolver.BlenderPython, res)

	var overlay runtime.Overlay
	overlay.Append(EnvPythonPath, bc.ToolsDir).Set(EnvInPipe, "true")

	plan := bc.newPlan()
	plan.Bootstrap("ensurepip", res.Path, "-m", "ensurepip")
	plan.Bootstrap("pip install", res.Path, "-m", "pip", "install", "-r", requirements)
	plan.Main(runtime.ProcessSpec{
		Program: bc.Request.Executable,
		Args:    append(contentArg(bc.Request.ContentPath), "--python-use-system-env", "--python", loadScript),
		Overlay: overlay,
	})
	return plan, nil
}

func buildHoudini(bc BuildContext) (*Plan, error) {
	cfg := bc.Config.Houdini
	loadScript, err := bc.ToolFile("houdini load script", cfg.LoadScript)
	if err != nil {
		return nil, err
	}

	res := resolver.ResolveInterpreter(filepath.Dir(bc.Request.Executable), bc.GOOS, resolver.HoudiniPython)
	bc.logResolution(resolver.HoudiniPython, res)

	var overlay runtime.Overlay
	overlay.Append(EnvPythonPath, bc.ToolsDir).
		Append(EnvHoudiniToolbarPath, bc.SearchPath(bc.ToolPath(cfg.ToolbarDir))).
		Append(EnvHoudiniOtlScanPath, bc.SearchPath(bc.ToolPath(cfg.OtlsDir))).
		Append(EnvHoudiniMenuPath, bc.SearchPath(bc.ToolPath(cfg.MenuDir)))

	plan := bc.newPlan()
	plan.Prelaunch("load script", runtime.ProcessSpec{
		Program: res.Path,
		Args:    append([]string{loadScript}, contentArg(bc.Request.ContentPath)...),
		Overlay: overlay.Clone(),
	})
	plan.Main(runtime.ProcessSpec{
		Program: bc.Request.Executable,
		Args:    contentArg(bc.Request.ContentPath),
		Overlay: overlay,
	})
	return plan, nil
}

func buildUsdview(bc BuildContext) (*Plan, error) {
	cfg := bc.Config.Usdview

	var overlay runtime.Overlay
	program := cfg.UnixBinary
	if platform.IsWindows(bc.GOOS) {
		program = cfg.WindowsBinary
		if cfg.WindowsPathDir != "" {
			overlay.Prepend(EnvPath, cfg.WindowsPathDir)
		}
	}

	return bc.newPlan().Main(runtime.ProcessSpec{
		Program: program,
		Args:    contentArg(bc.Request.ContentPath),
		Overlay: overlay,
	}), nil
}

func buildGeneric(bc BuildContext) (*Plan, error) {
	return bc.newPlan().Main(runtime.ProcessSpec{
		Program: bc.Request.Executable,
		Args:    contentArg(bc.Request.ContentPath),
	}), nil
}
