// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

const (
	// RequestManual asks the caller to obtain a version from the user.
	RequestManual Decision = iota
	// UseResolved lets the caller proceed with the resolved version.
	UseResolved
	// ConfirmResolved asks the caller to confirm an assumed version first.
	ConfirmResolved
)

// Decision tells an interactive caller what to do with a Result.
type Decision int

// NextAction maps a result to the caller's next step. Exact and inferred
// versions are used as is, defaults need confirmation and an absent version
// needs manual entry.
func NextAction(r Result) Decision {
	switch {
	case !r.Found():
		return RequestManual
	case r.Confidence == ConfidenceDefault:
		return ConfirmResolved
	default:
		return UseResolved
	}
}

// Manual validates a version typed by the user and returns it as a result.
func Manual(version string) (Result, error) {
	tok, err := pyversion.Parse(version)
	if err != nil {
		return Result{Source: SourceNone}, fmt.Errorf("manual version: %w", err)
	}
	return Result{Token: tok, Source: SourceManual, Confidence: ConfidenceExact}, nil
}

// String returns a short name for the decision.
func (d Decision) String() string {
	switch d {
	case UseResolved:
		return "use"
	case ConfirmResolved:
		return "confirm"
	default:
		return "manual"
	}
}
