// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

// ConfirmVersion asks whether an assumed version should be used.
func ConfirmVersion(cfg Config, version pyversion.Token, reason string) (bool, error) {
	return Confirm(ConfirmOptions{
		Title:       fmt.Sprintf("Use Python %s?", version),
		Description: reason,
		Default:     true,
		Config:      cfg,
	})
}

// PromptVersion asks for a version in major.minor[.patch] form.
func PromptVersion(cfg Config, suggestion string) (string, error) {
	return Input(InputOptions{
		Title:       "Which Python version does this project need?",
		Description: "Enter a version such as 3.11 or 3.10.4.",
		Placeholder: suggestion,
		CharLimit:   16,
		Validate:    ValidateVersion,
		Config:      cfg,
	})
}

// ValidateVersion accepts major.minor[.patch] versions.
func ValidateVersion(s string) error {
	if _, err := pyversion.Parse(s); err != nil {
		return err
	}
	return nil
}
