// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/pysetup/pysetup/internal/runtime"
)

const (
	// exitStageFailed is returned when a provisioning stage failed.
	exitStageFailed runtime.ExitCode = 1
	// exitUnresolved is returned when no Python version could be settled.
	exitUnresolved runtime.ExitCode = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// An ExitError without Err means the failure was already reported.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
