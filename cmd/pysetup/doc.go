// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pysetup CLI: the detect, setup and config commands
// built with cobra and executed through fang.
package cmd
