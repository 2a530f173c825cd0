// SPDX-License-Identifier: MPL-2.0

// Package artifact reads version evidence files from a project, regardless of
// whether the project is a local checkout or a repository hosted on GitHub.
//
// The package is organized into four concerns:
//   - kind.go: the fixed, ranked set of recognized artifact files
//   - locator.go: ProjectLocator, the local/remote tagged union and URL parsing
//   - local.go: LocalReader, rooted filesystem reads
//   - github.go: GitHubReader, contents-API reads with LRU memoization
//
// Every absence, whether a missing file, a 404, an auth failure or a broken
// connection, is reported as an error wrapping ErrNotFound. The concrete
// *NotFoundError keeps the reason and cause for diagnostics.
package artifact
