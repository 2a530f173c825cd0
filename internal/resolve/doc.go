// SPDX-License-Identifier: MPL-2.0

// Package resolve implements the version resolution cascade: the recognized
// artifacts are consulted in fixed priority order, the first one that yields a
// version wins, and source-file shebangs and the remote listing act as
// progressively weaker fallbacks.
//
// Resolve never fails. Everything that went wrong along the way (missing
// files, network problems, unusable constraints) is attached to the Result as
// Diagnostics for the caller to render.
package resolve
