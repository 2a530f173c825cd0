// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"time"
)

const (
	StageInterpreterCheck  Stage = "interpreter-check"
	StageEnvCreate         Stage = "env-create"
	StageDependencyInstall Stage = "dependency-install"
	StageHookInstall       Stage = "hook-install"
	StageTestRun           Stage = "test-run"

	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

var (
	// ErrInterpreterUnavailable means no interpreter matching the version was found.
	ErrInterpreterUnavailable = errors.New("interpreter unavailable")
	// ErrEnvironmentCreation means the virtual environment could not be created.
	ErrEnvironmentCreation = errors.New("environment creation failed")
	// ErrInstallFailed means the dependency installer exited with an error.
	ErrInstallFailed = errors.New("dependency install failed")
	// ErrHookInstall means the pre-commit hook could not be written.
	ErrHookInstall = errors.New("hook install failed")
	// ErrTestRunFailed means the test suite reported failures.
	ErrTestRunFailed = errors.New("test run failed")

	// stages lists every stage in execution order.
	stages = []Stage{StageInterpreterCheck, StageEnvCreate, StageDependencyInstall, StageHookInstall, StageTestRun}
)

type (
	// Stage names a pipeline step.
	Stage string

	// Status is the result of a stage.
	Status string

	// Outcome records what one stage did.
	Outcome struct {
		Stage    Stage         `json:"stage"`
		Status   Status        `json:"status"`
		Detail   string        `json:"detail,omitempty"`
		Output   string        `json:"output,omitempty"`
		Duration time.Duration `json:"duration"`
		// Err is set for failed stages and wraps one of the package sentinels.
		Err error `json:"-"`
	}
)

// Stages returns every stage in execution order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// String returns the string representation of the Stage.
func (s Stage) String() string { return string(s) }

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// Terminal reports whether a failure of this stage stops the pipeline.
func (s Stage) Terminal() bool {
	return s == StageInterpreterCheck || s == StageEnvCreate
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool { return o.Status == StatusFailed }

func ok(stage Stage, detail string) Outcome {
	return Outcome{Stage: stage, Status: StatusOK, Detail: detail}
}

func skipped(stage Stage, detail string) Outcome {
	return Outcome{Stage: stage, Status: StatusSkipped, Detail: detail}
}

func failed(stage Stage, detail string, err error) Outcome {
	return Outcome{Stage: stage, Status: StatusFailed, Detail: detail, Err: err}
}
