// SPDX-License-Identifier: MPL-2.0

// Package workspace materializes a project locator as a local directory,
// cloning remote GitHub repositories with go-git when needed.
package workspace
