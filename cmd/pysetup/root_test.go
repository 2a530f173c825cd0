// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pysetup/pysetup/internal/config"
	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/provision"
	"github.com/pysetup/pysetup/internal/resolve"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: exitUnresolved}
	if bare.Error() != "exit status 2" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 2")
	}

	cause := errors.New("boom")
	wrapped := &ExitError{Code: exitStageFailed, Err: cause}
	if wrapped.Error() != "boom" || !errors.Is(wrapped, cause) {
		t.Errorf("wrapped ExitError = %q, should unwrap to cause", wrapped.Error())
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		cfg     config.LogLevel
		verbose bool
		want    log.Level
	}{
		{name: "config default", cfg: config.LogLevelWarn, want: log.WarnLevel},
		{name: "flag wins", flag: "info", cfg: config.LogLevelError, want: log.InfoLevel},
		{name: "verbose forces debug", flag: "error", verbose: true, want: log.DebugLevel},
		{name: "unknown falls back to warn", flag: "loud", want: log.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := logLevel(tt.flag, tt.cfg, tt.verbose); got != tt.want {
				t.Errorf("logLevel(%q, %q, %v) = %v, want %v", tt.flag, tt.cfg, tt.verbose, got, tt.want)
			}
		})
	}
}

func TestStageIssue(t *testing.T) {
	t.Parallel()

	for _, stage := range provision.Stages() {
		if stageIssue(stage) == 0 {
			t.Errorf("stage %s has no issue entry", stage)
		}
		if issue.Get(stageIssue(stage)) == nil {
			t.Errorf("issue for stage %s is not in the catalog", stage)
		}
	}
}

func TestUnresolvedIssue(t *testing.T) {
	t.Parallel()

	missing := resolve.Result{Source: resolve.SourceNone, Diagnostics: []resolve.Diagnostic{
		{Severity: resolve.SeverityInfo, Code: resolve.CodeArtifactMissing, Path: ".python-version"},
	}}
	if got := unresolvedIssue(missing); got != issue.VersionNotDetectedId {
		t.Errorf("unresolvedIssue(missing) = %d, want VersionNotDetectedId", got)
	}

	unreachable := resolve.Result{Source: resolve.SourceNone, Diagnostics: []resolve.Diagnostic{
		{Severity: resolve.SeverityWarning, Code: resolve.CodeArtifactUnavailable, Path: "pyproject.toml"},
	}}
	if got := unresolvedIssue(unreachable); got != issue.RemoteAccessFailedId {
		t.Errorf("unresolvedIssue(unreachable) = %d, want RemoteAccessFailedId", got)
	}
}
