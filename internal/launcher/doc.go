// SPDX-License-Identifier: MPL-2.0

// Package launcher starts DCC applications with studio tooling injected.
//
// Each application identifier maps to a Profile in a Registry. A profile turns
// a Request into a Plan: bootstrap steps (dependency installation into a
// bundled interpreter), prelaunch steps (scripts run with the application's own
// interpreter) and the main command, each with its own environment overlay.
// The Orchestrator validates the request, builds the plan, runs the
// bootstrap and prelaunch steps to completion, starts the main process and
// reports everything in an Outcome.
package launcher
