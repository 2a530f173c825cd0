// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

const (
	// ConfidenceExact means the version was declared explicitly.
	ConfidenceExact Confidence = "exact"
	// ConfidenceInferred means the version was inferred from a shebang.
	ConfidenceInferred Confidence = "inferred"
	// ConfidenceDefault means the version is an assumed default.
	ConfidenceDefault Confidence = "default"

	// SourceShebang marks a version read from a source file shebang.
	SourceShebang Source = "shebang"
	// SourceListing marks the assumed version for remote Python projects.
	SourceListing Source = "listing"
	// SourceManual marks a version entered by the user.
	SourceManual Source = "manual"
	// SourceNone marks an unresolved result.
	SourceNone Source = "none"
)

const (
	// SeverityInfo marks expected absences, such as a missing artifact.
	SeverityInfo Severity = "info"
	// SeverityWarning indicates evidence that was present but unusable.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a failure that cut the resolution short.
	SeverityError Severity = "error"

	// CodeArtifactMissing is recorded for each artifact that does not exist.
	CodeArtifactMissing = "artifact_missing"
	// CodeArtifactUnavailable is recorded when a read failed for a reason
	// other than absence (auth, rate limit, network, decode).
	CodeArtifactUnavailable = "artifact_unavailable"
	// CodeArtifactUnusable is recorded when an artifact exists but yields no version.
	CodeArtifactUnusable = "artifact_unusable"
	// CodeListingFailed is recorded when the project listing could not be obtained.
	CodeListingFailed = "listing_failed"
	// CodeCanceled is recorded when the context ended mid-resolution.
	CodeCanceled = "canceled"
)

type (
	// Source names where a resolved version came from: an artifact kind name
	// ("pin-file", "build-manifest", ...) or one of the Source constants.
	Source string

	// Confidence expresses how trustworthy a resolved version is.
	Confidence string

	// Severity represents resolution diagnostic severity.
	Severity string

	// Diagnostic is a structured note produced while resolving.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "artifact_missing").
		Code    string
		Message string
		// Path is the artifact or file the diagnostic refers to (optional).
		Path  string
		Cause error
	}

	// Result is the outcome of a resolution. Its identity is the triple
	// Token, Source, Confidence; Diagnostics are attached detail.
	Result struct {
		Token       pyversion.Token
		Source      Source
		Confidence  Confidence
		Diagnostics []Diagnostic
	}
)

// SourceOf returns the Source naming an artifact kind.
func SourceOf(k artifact.Kind) Source { return Source(k.String()) }

// String returns the string representation of the Source.
func (s Source) String() string { return string(s) }

// String returns the string representation of the Confidence.
func (c Confidence) String() string { return string(c) }

// Found reports whether a version was resolved.
func (r Result) Found() bool { return !r.Token.IsZero() }

// Equal compares two results on identity, ignoring diagnostics.
func (r Result) Equal(o Result) bool {
	return r.Token == o.Token && r.Source == o.Source && r.Confidence == o.Confidence
}

// Warnings returns the diagnostics at warning severity or above.
func (r Result) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity != SeverityInfo {
			out = append(out, d)
		}
	}
	return out
}
