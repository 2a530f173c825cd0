// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pysetup/pysetup/internal/runtime"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

type (
	// Request names the project to provision and the optional stages to run.
	Request struct {
		// ProjectDir is the local project root.
		ProjectDir string
		// Version is the interpreter version to provision for.
		Version pyversion.Token
		// InstallHook writes a pre-commit hook running the unit tests.
		InstallHook bool
		// RunTests runs the unit tests after installation.
		RunTests bool
	}

	// Provisioner runs the provisioning pipeline. It holds no per-run state.
	Provisioner struct {
		cfg    Config
		runner runtime.Runner
		logger *log.Logger
	}

	// run carries the state of a single Provision call.
	run struct {
		ctx    context.Context
		req    Request
		layout Layout
	}
)

// New creates a Provisioner executing commands through runner.
func New(runner runtime.Runner, opts ...Option) *Provisioner {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	return &Provisioner{cfg: *cfg, runner: runner, logger: log.New(io.Discard)}
}

// WithLogger sets the logger used for stage tracing. A nil logger discards output.
func (p *Provisioner) WithLogger(l *log.Logger) *Provisioner {
	if l != nil {
		p.logger = l
	}
	return p
}

// Config returns a copy of the provisioner settings.
func (p *Provisioner) Config() Config { return p.cfg }

// Layout returns the virtual environment layout for a project directory.
func (p *Provisioner) Layout(projectDir string) Layout {
	return NewLayout(filepath.Join(projectDir, p.cfg.VenvDir), p.cfg.GOOS)
}

// Provision runs every stage in order and returns their outcomes. Terminal
// stage failures end the pipeline early; other failures are recorded and the
// pipeline moves on. When ctx is done before a stage starts, that stage and
// all later ones are recorded as skipped.
func (p *Provisioner) Provision(ctx context.Context, req Request) []Outcome {
	rn := &run{ctx: ctx, req: req, layout: p.Layout(req.ProjectDir)}

	steps := map[Stage]func(*run) Outcome{
		StageInterpreterCheck:  p.checkInterpreter,
		StageEnvCreate:         p.createEnv,
		StageDependencyInstall: p.installDependencies,
		StageHookInstall:       p.installHook,
		StageTestRun:           p.runTests,
	}

	outcomes := make([]Outcome, 0, len(stages))
	for i, stage := range stages {
		if ctx.Err() != nil {
			for _, rest := range stages[i:] {
				outcomes = append(outcomes, skipped(rest, "canceled"))
			}
			p.logger.Warn("provisioning canceled", "stage", stage)
			return outcomes
		}

		start := time.Now()
		out := steps[stage](rn)
		out.Duration = time.Since(start)
		outcomes = append(outcomes, out)

		p.logger.Debug("stage finished", "stage", stage, "status", out.Status, "duration", out.Duration)
		if out.Failed() {
			p.logger.Warn("stage failed", "stage", stage, "error", out.Err)
			if stage.Terminal() {
				return outcomes
			}
		}
	}
	return outcomes
}

// exec runs a command with the configured timeout and live writers.
func (p *Provisioner) exec(rn *run, cmd runtime.Command) *runtime.Result {
	cmd.Timeout = p.cfg.CommandTimeout
	if cmd.Stdout == nil {
		cmd.Stdout = p.cfg.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = p.cfg.Stderr
	}
	p.logger.Debug("running", "cmd", cmd.String(), "dir", cmd.Dir)
	return p.runner.Run(rn.ctx, cmd)
}

// interpreter returns the versioned interpreter binary name, e.g. "python3.11".
func (p *Provisioner) interpreter(v pyversion.Token) string {
	return p.cfg.InterpreterPrefix + v.MajorMinor()
}
