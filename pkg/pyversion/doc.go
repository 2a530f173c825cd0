// SPDX-License-Identifier: MPL-2.0

// Package pyversion defines the normalized interpreter version token used
// throughout pysetup and the rules for reducing a requirement expression
// (e.g. ">=3.9,<4" or "^3.10") to a single token.
//
// A Token always has the shape major.minor or major.minor.patch. Anything that
// cannot be reduced to exactly one such value is rejected rather than guessed.
package pyversion
