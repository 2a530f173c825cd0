// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"os"

	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/runtime"
)

func (p *Provisioner) createEnv(rn *run) Outcome {
	bin := p.interpreter(rn.req.Version)
	dir := rn.layout.Root

	res := p.exec(rn, runtime.Command{Name: bin, Args: []string{"-m", "venv", dir}, Dir: rn.req.ProjectDir})
	if !res.Success() {
		out := failed(StageEnvCreate, fmt.Sprintf("%s -m venv failed", bin), envError(dir, resultError(res)))
		out.Output = res.CombinedOutput()
		return out
	}

	for _, required := range []string{rn.layout.Activate(), rn.layout.Pip()} {
		if _, err := os.Stat(required); err != nil {
			out := failed(StageEnvCreate, "environment is incomplete", envError(dir, fmt.Errorf("missing %s", required)))
			out.Output = res.CombinedOutput()
			return out
		}
	}

	detail := "created " + dir
	if p.cfg.UpgradePip {
		up := p.exec(rn, runtime.Command{
			Name: rn.layout.Python(),
			Args: []string{"-m", "pip", "install", "--upgrade", "pip", "wheel"},
			Dir:  rn.req.ProjectDir,
		})
		if up.Success() {
			detail += "; upgraded pip and wheel"
		} else {
			detail += "; pip upgrade failed: " + resultError(up).Error()
		}
	}
	return ok(StageEnvCreate, detail)
}

func envError(dir string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("create virtual environment").
		WithResource(dir).
		WithSuggestions(
			"Install the venv module for your interpreter (e.g. apt install python3.11-venv)",
			"Remove a partially created environment and retry",
		).
		Wrap(fmt.Errorf("%w: %w", ErrEnvironmentCreation, cause)).
		Build()
}

// resultError describes why a command did not succeed.
func resultError(res *runtime.Result) error {
	if res.Error != nil {
		return res.Error
	}
	return fmt.Errorf("exit code %s", res.ExitCode)
}
