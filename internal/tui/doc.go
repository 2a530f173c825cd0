// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts used when a Python version
// cannot be used without the user's input: a yes/no confirmation for an
// assumed version and a text input for a manually entered one. Both are
// bubbletea programs built from bubbles components.
package tui
