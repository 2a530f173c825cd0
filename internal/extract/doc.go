// SPDX-License-Identifier: MPL-2.0

// Package extract turns the raw contents of a recognized artifact into an
// interpreter version token. There is one strategy per artifact.Kind; each is
// total over arbitrary input and reports problems as a Diagnostic instead of
// an error, because a malformed file simply means "no evidence here".
package extract
