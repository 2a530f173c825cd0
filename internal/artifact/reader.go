// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
)

const (
	// ReasonMissing means the file does not exist at the project root.
	ReasonMissing Reason = "missing"
	// ReasonOutsideRoot means the requested name escapes the project root.
	ReasonOutsideRoot Reason = "outside-root"
	// ReasonTooLarge means the file exceeds the read limit.
	ReasonTooLarge Reason = "too-large"
	// ReasonIO means a local read failed for a reason other than absence.
	ReasonIO Reason = "io"
	// ReasonAuth means the remote host rejected the credentials.
	ReasonAuth Reason = "auth"
	// ReasonRateLimit means the remote API quota is exhausted.
	ReasonRateLimit Reason = "rate-limit"
	// ReasonNetwork means the request failed or returned an unexpected status.
	ReasonNetwork Reason = "network"
	// ReasonDecode means the remote response could not be decoded.
	ReasonDecode Reason = "decode"

	// maxArtifactBytes bounds a single artifact read (1 MiB).
	maxArtifactBytes = 1 << 20
)

// ErrNotFound is the sentinel error wrapped by NotFoundError. Every failed
// Read or List wraps it, so absence and transport failures look the same to
// callers that only need "is the evidence there".
var ErrNotFound = errors.New("artifact not found")

type (
	// Reason classifies why an artifact could not be read.
	Reason string

	// NotFoundError describes an artifact that could not be obtained.
	NotFoundError struct {
		Name   string
		Reason Reason
		Cause  error
	}

	// Entry is a single file in a project listing. Path is slash-separated
	// and relative to the project root.
	Entry struct {
		Path  string
		Size  int64
		IsDir bool
	}

	// Reader reads artifact files relative to a project root.
	Reader interface {
		// Locator returns the project the reader is bound to.
		Locator() Locator
		// Read returns the contents of the named file. Any failure wraps ErrNotFound.
		Read(ctx context.Context, name string) ([]byte, error)
		// List returns the files available for sampling. Local readers walk the
		// tree; remote readers list the top level only.
		List(ctx context.Context) ([]Entry, error)
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Reason == ReasonMissing || e.Reason == "" {
		return fmt.Sprintf("artifact %q not found", e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("artifact %q unavailable (%s): %v", e.Name, e.Reason, e.Cause)
	}
	return fmt.Sprintf("artifact %q unavailable (%s)", e.Name, e.Reason)
}

// Unwrap exposes both ErrNotFound and the underlying cause.
func (e *NotFoundError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Cause}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// ReasonOf returns the Reason carried by err, or "" when err is not a NotFoundError.
func ReasonOf(err error) Reason {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Reason
	}
	return ""
}

// NewReader returns the Reader matching the locator shape. GitHub options
// are ignored for local locators.
func NewReader(loc Locator, opts ...GitHubOption) (Reader, error) {
	switch {
	case loc.IsLocal():
		return NewLocalReader(loc.Path())
	case loc.IsRemote():
		return NewGitHubReader(loc, opts...)
	default:
		return nil, &InvalidLocatorError{Value: loc.String(), Reason: "empty locator"}
	}
}
