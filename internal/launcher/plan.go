// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/studiotools/stlaunch/internal/runtime"
)

// Step kinds, in execution order.
const (
	StepBootstrap StepKind = "bootstrap"
	StepPrelaunch StepKind = "prelaunch"
	StepMain      StepKind = "main"
)

type (
	// StepKind classifies a plan step.
	StepKind string

	// Step is one child process of a launch.
	Step struct {
		Name string
		Kind StepKind
		Spec runtime.ProcessSpec
	}

	// Plan is the ordered list of steps for one launch. It always ends with
	// exactly one main step.
	Plan struct {
		App   AppID
		Steps []Step
	}
)

// CommandLine renders the step's argv quoted for a POSIX shell. It is for
// display only; children are never started through a shell.
func (s Step) CommandLine() string {
	argv := s.Spec.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// Bootstrap appends a bootstrap step. Bootstrap steps inherit the parent
// environment unchanged.
func (p *Plan) Bootstrap(name, program string, args ...string) *Plan {
	return p.add(StepBootstrap, name, runtime.ProcessSpec{Program: program, Args: args})
}

// Prelaunch appends a prelaunch step.
func (p *Plan) Prelaunch(name string, spec runtime.ProcessSpec) *Plan {
	return p.add(StepPrelaunch, name, spec)
}

// Main appends the main step.
func (p *Plan) Main(spec runtime.ProcessSpec) *Plan {
	return p.add(StepMain, string(p.App), spec)
}

// MainStep returns the main step and whether the plan has one.
func (p *Plan) MainStep() (Step, bool) {
	for _, s := range p.Steps {
		if s.Kind == StepMain {
			return s, true
		}
	}
	return Step{}, false
}

func (p *Plan) add(kind StepKind, name string, spec runtime.ProcessSpec) *Plan {
	p.Steps = append(p.Steps, Step{Name: name, Kind: kind, Spec: spec})
	return p
}

// contentArg returns the content path as an argument list, empty when there is
// no content path.
func contentArg(content string) []string {
	if content == "" {
		return nil
	}
	return []string{content}
}
