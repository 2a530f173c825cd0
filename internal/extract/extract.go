// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"fmt"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

const (
	// CodeParseFailure means the file is syntactically malformed for its format.
	CodeParseFailure Code = "parse-failure"
	// CodeAmbiguous means a constraint was found but names no single version.
	CodeAmbiguous Code = "ambiguous-constraint"
	// CodeNoVersion means the file parsed but carries no usable version.
	CodeNoVersion Code = "no-version"
)

type (
	// Code classifies a Diagnostic.
	Code string

	// Diagnostic explains why an artifact that was present yielded no token.
	Diagnostic struct {
		Kind    artifact.Kind
		Code    Code
		Message string
		Err     error
	}

	// strategy extracts a token from the content of one artifact kind.
	// A zero token with a nil diagnostic is never returned.
	strategy func(content []byte) (pyversion.Token, *Diagnostic)
)

var strategies = map[artifact.Kind]strategy{
	artifact.KindPinFile:         fromPinFile,
	artifact.KindRuntimeManifest: fromRuntimeManifest,
	artifact.KindBuildManifest:   fromBuildManifest,
	artifact.KindSetupScript:     fromSetupScript,
	artifact.KindSetupConfig:     fromSetupConfig,
	artifact.KindToxConfig:       fromToxConfig,
	artifact.KindPipfile:         fromPipfile,
	artifact.KindRequirements:    fromRequirements,
}

// Extract runs the strategy registered for kind. It returns the token and
// true on success; otherwise a zero token, false and a diagnostic.
func Extract(kind artifact.Kind, content []byte) (pyversion.Token, bool, *Diagnostic) {
	fn, ok := strategies[kind]
	if !ok {
		return "", false, &Diagnostic{Kind: kind, Code: CodeNoVersion, Message: "no extraction strategy"}
	}

	tok, diag := fn(content)
	if diag != nil {
		diag.Kind = kind
		return "", false, diag
	}
	return tok, true, nil
}

// String renders the diagnostic as "<kind>: <message>".
func (d *Diagnostic) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s: %s: %v", d.Kind, d.Message, d.Err)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

func noVersion(format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: CodeNoVersion, Message: fmt.Sprintf(format, args...)}
}

func parseFailure(err error) *Diagnostic {
	return &Diagnostic{Code: CodeParseFailure, Message: "malformed file", Err: err}
}

// reduce applies constraint reduction and maps failures to diagnostics.
func reduce(expr string) (pyversion.Token, *Diagnostic) {
	tok, err := pyversion.FromConstraint(expr)
	if err != nil {
		if errors.Is(err, pyversion.ErrAmbiguousConstraint) {
			return "", &Diagnostic{Code: CodeAmbiguous, Message: fmt.Sprintf("constraint %q names no single version", expr), Err: err}
		}
		return "", noVersion("unusable constraint %q", expr)
	}
	return tok, nil
}

// exact requires s to be a version token verbatim.
func exact(s string) (pyversion.Token, *Diagnostic) {
	tok, err := pyversion.Parse(s)
	if err != nil {
		return "", noVersion("%q is not a version", s)
	}
	return tok, nil
}
