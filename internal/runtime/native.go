// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Run waits for output pipes to close after
// a timed-out process was killed.
const DefaultWaitDelay = 2 * time.Second

// NativeRunner executes commands as host processes.
type NativeRunner struct {
	waitDelay time.Duration
}

// NewNativeRunner creates a new native runner.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{waitDelay: DefaultWaitDelay}
}

// Run starts the command, waits for it and captures its output. Failure to
// start, a timeout or cancellation are reported through Result.Error; a
// nonzero exit is reported through Result.ExitCode only.
//
// A context that is already done prevents the start. Once started, the
// process runs to completion: cancelling ctx does not interrupt it, only
// Command.Timeout does.
func (r *NativeRunner) Run(ctx context.Context, c Command) *Result {
	if err := ctx.Err(); err != nil {
		return NewErrorResult(1, fmt.Errorf("%s: %w", c.Name, err))
	}

	procCtx := context.WithoutCancel(ctx)
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		procCtx, cancel = context.WithTimeout(procCtx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(procCtx, c.Name, c.Args...)
	cmd.WaitDelay = r.waitDelay
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = teeWriter(&stdout, c.Stdout)
	cmd.Stderr = teeWriter(&stderr, c.Stderr)

	start := time.Now()
	err := cmd.Run()
	result := classify(procCtx, c, err, stdout.String(), stderr.String())
	result.Duration = time.Since(start)
	return result
}

// classify turns the outcome of cmd.Run into a Result.
func classify(procCtx context.Context, c Command, err error, stdout, stderr string) *Result {
	var result *Result
	var exitErr *exec.ExitError

	switch {
	case err == nil, errors.Is(err, exec.ErrWaitDelay):
		// ErrWaitDelay: exited cleanly while a leftover child held the pipes.
		result = NewSuccessResult(stdout)
	case errors.Is(procCtx.Err(), context.DeadlineExceeded):
		result = NewErrorResult(ExitTimedOut, fmt.Errorf("%s: %w after %s", c.Name, ErrTimedOut, c.Timeout))
	case errors.Is(err, exec.ErrNotFound):
		result = NewErrorResult(ExitCommandNotFound, fmt.Errorf("%s: %w", c.Name, ErrCommandNotFound))
	case errors.As(err, &exitErr):
		result = NewExitCodeResult(ExitCode(exitErr.ExitCode()), stdout, stderr)
	default:
		result = NewErrorResult(1, fmt.Errorf("failed to execute %s: %w", c.Name, err))
	}

	result.Output, result.ErrOutput = stdout, stderr
	return result
}

func teeWriter(buf *bytes.Buffer, live io.Writer) io.Writer {
	if live == nil {
		return buf
	}
	return io.MultiWriter(buf, live)
}
