// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation suggestions. The catalog in issue.go maps well-known failure
// classes (missing interpreter, clone failure, unresolved version) to
// Markdown guidance rendered with glamour.
package issue
