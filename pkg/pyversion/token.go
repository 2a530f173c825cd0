// SPDX-License-Identifier: MPL-2.0

package pyversion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidToken is the sentinel error wrapped by InvalidTokenError.
	ErrInvalidToken = errors.New("invalid version token")

	tokenPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)
)

type (
	// Token is a normalized interpreter version: major.minor[.patch].
	// The zero value ("") means "no version" and is never a valid token.
	Token string

	// InvalidTokenError is returned when a string does not have the
	// major.minor[.patch] shape.
	InvalidTokenError struct {
		Value string
	}
)

// Parse validates s (after trimming surrounding whitespace) and returns it as a Token.
func Parse(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if !tokenPattern.MatchString(s) {
		return "", &InvalidTokenError{Value: s}
	}
	return Token(s), nil
}

// MustParse is like Parse but panics on invalid input. Intended for constants and tests.
func MustParse(s string) Token {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the string representation of the Token.
func (t Token) String() string { return string(t) }

// IsZero reports whether the token is absent.
func (t Token) IsZero() bool { return t == "" }

// IsValid returns whether the Token has the major.minor[.patch] shape,
// and a list of validation errors if it does not.
func (t Token) IsValid() (bool, []error) {
	if !tokenPattern.MatchString(string(t)) {
		return false, []error{&InvalidTokenError{Value: string(t)}}
	}
	return true, nil
}

// MajorMinor returns the major.minor prefix of the token ("3.11" for "3.11.4").
// It returns "" for an invalid token.
func (t Token) MajorMinor() string {
	m := tokenPattern.FindStringSubmatch(string(t))
	if m == nil {
		return ""
	}
	return m[1] + "." + m[2]
}

// Semver returns the token in the "vMAJOR.MINOR[.PATCH]" form expected by
// golang.org/x/mod/semver.
func (t Token) Semver() string {
	if t.IsZero() {
		return ""
	}
	return "v" + string(t)
}

// Error implements the error interface for InvalidTokenError.
func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid version %q: expected major.minor[.patch]", e.Value)
}

// Unwrap returns ErrInvalidToken for errors.Is() compatibility.
func (e *InvalidTokenError) Unwrap() error { return ErrInvalidToken }
