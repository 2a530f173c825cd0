// SPDX-License-Identifier: MPL-2.0

package pyversion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrAmbiguousConstraint is the sentinel error wrapped by AmbiguousConstraintError.
	ErrAmbiguousConstraint = errors.New("ambiguous version constraint")

	// lowerBoundPattern finds the first major.minor following ">=".
	lowerBoundPattern = regexp.MustCompile(`>=\s*v?(\d+)\.(\d+)`)

	// clausePattern matches a single clause that names one release line:
	// "^3.9", "~3.9", "~=3.9.1", "==3.9.*", "===3.9.2".
	clausePattern = regexp.MustCompile(`^(\^|~=|~|===|==)?\s*v?(\d+)\.(\d+)(?:\.(\d+|\*))?$`)
)

// AmbiguousConstraintError is returned when a requirement expression cannot be
// reduced to a single version, e.g. it only carries upper bounds or exclusions.
type AmbiguousConstraintError struct {
	Expr string
}

// Error implements the error interface.
func (e *AmbiguousConstraintError) Error() string {
	return fmt.Sprintf("cannot reduce constraint %q to a single version", e.Expr)
}

// Unwrap returns ErrAmbiguousConstraint for errors.Is() compatibility.
func (e *AmbiguousConstraintError) Unwrap() error { return ErrAmbiguousConstraint }

// FromConstraint reduces a requirement expression to a Token.
//
// Rules, in order:
//  1. a bare version ("3.11", "3.11.4") is returned verbatim;
//  2. when the expression contains ">=", the first major.minor after the first ">=" wins;
//  3. otherwise the first clause naming one release line ("^3.9", "~=3.9", "==3.9.*")
//     yields its major.minor ("==" with a full patch version yields the full version);
//  4. anything else (only "<", "<=", "!=", ">" or wildcards) is ambiguous.
func FromConstraint(expr string) (Token, error) {
	expr = strings.Trim(strings.TrimSpace(expr), `"'`)
	if expr == "" {
		return "", &AmbiguousConstraintError{Expr: expr}
	}

	if t, err := Parse(expr); err == nil {
		return t, nil
	}

	if strings.Contains(expr, ">=") {
		m := lowerBoundPattern.FindStringSubmatch(expr)
		if m == nil {
			return "", &AmbiguousConstraintError{Expr: expr}
		}
		return Token(m[1] + "." + m[2]), nil
	}

	for _, clause := range splitClauses(expr) {
		m := clausePattern.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		op, patch := m[1], m[4]
		if (op == "==" || op == "===") && patch != "" && patch != "*" {
			return Token(m[2] + "." + m[3] + "." + patch), nil
		}
		return Token(m[2] + "." + m[3]), nil
	}

	return "", &AmbiguousConstraintError{Expr: expr}
}

// splitClauses splits a PEP 440 or Poetry expression on ",", "|" and "||".
func splitClauses(expr string) []string {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ',' || r == '|'
	})
	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			clauses = append(clauses, f)
		}
	}
	return clauses
}
