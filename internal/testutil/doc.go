// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test on
// setup errors instead of returning them.
//
// Helpers cover environment variables (MustSetenv, MustUnsetenv, SetHomeDir),
// the working directory (MustChdir) and project fixtures (MustMkdirAll,
// MustWriteFile, WriteProject).
package testutil
