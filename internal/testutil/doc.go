// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover environment variables (MustSetenv, SetConfigHome), file
// fixtures (MustWriteFile, MustWriteExecutable) and fake DCC installation
// trees (FakeInstall).
package testutil
