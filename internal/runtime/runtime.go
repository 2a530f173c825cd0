// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	// ErrCommandNotFound is returned when the executable is not on PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrTimedOut is returned when a command exceeds its timeout.
	ErrTimedOut = errors.New("command timed out")
)

type (
	// Command describes a single process invocation. The process is started
	// directly, never through a shell.
	Command struct {
		// Name is the executable name or path.
		Name string
		// Args are passed verbatim.
		Args []string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env, when non-nil, replaces the inherited environment.
		Env []string
		// Timeout bounds the run; zero means no bound beyond the context.
		Timeout time.Duration
		// Stdout and Stderr, when set, receive a live copy of the output in
		// addition to the captured buffers.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result contains the result of a command execution.
	Result struct {
		// ExitCode is the exit code of the command.
		ExitCode ExitCode
		// Error is set when the command could not run to completion
		// (not found, timeout, cancellation). A nonzero exit alone is not an error.
		Error error
		// Output contains captured stdout.
		Output string
		// ErrOutput contains captured stderr.
		ErrOutput string
		// Duration is the wall time of the run.
		Duration time.Duration
	}

	// Runner executes commands to completion.
	Runner interface {
		Run(ctx context.Context, cmd Command) *Result
	}
)

// String renders the command line for logs and reports.
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Success reports whether the command ran and exited with code 0.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// CombinedOutput returns stdout followed by stderr.
func (r *Result) CombinedOutput() string {
	switch {
	case r.Output == "":
		return r.ErrOutput
	case r.ErrOutput == "":
		return r.Output
	case strings.HasSuffix(r.Output, "\n"):
		return r.Output + r.ErrOutput
	default:
		return r.Output + "\n" + r.ErrOutput
	}
}
