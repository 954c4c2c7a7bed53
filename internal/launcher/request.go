// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"github.com/go-playground/validator/v10"

	"github.com/studiotools/stlaunch/internal/project"
)

var validate = validator.New()

type (
	// Request describes one launch.
	Request struct {
		App AppID
		// Executable is the application binary. Profiles that hard-code their
		// own binary ignore it.
		Executable string
		// ContentPath is the scene or file to open. Empty opens the application
		// without a file.
		ContentPath string
		// Preload is an optional wrapper program prefixed to the main command.
		Preload string
		// Context adds the ST_* project variables to the main and prelaunch steps.
		Context *project.Context
		// EnvFiles are dotenv files layered over the profile environment. A
		// trailing "?" marks a file optional.
		EnvFiles []string `validate:"dive,required"`
		// EnvVars have the highest precedence.
		EnvVars map[string]string `validate:"dive,keys,required,excludes==,endkeys"`
	}

	// Options control how a launch is carried out.
	Options struct {
		// Wait blocks until the main process exits.
		Wait bool
		// DryRun builds the plan without spawning anything.
		DryRun bool
	}
)
