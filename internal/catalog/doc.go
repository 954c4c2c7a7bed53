// SPDX-License-Identifier: MPL-2.0

// Package catalog lists the applications a project can launch.
//
// The catalog is the union of installations discovered on the machine and the
// custom entries of the project's apps.yaml. The same file also carries
// per-application overrides (enabled flag, application type) for discovered
// installations.
package catalog
