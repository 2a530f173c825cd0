// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"path/filepath"

	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/runtime"
)

const testsDir = "tests"

func (p *Provisioner) runTests(rn *run) Outcome {
	if !rn.req.RunTests {
		return skipped(StageTestRun, "not requested")
	}
	if !isDir(filepath.Join(rn.req.ProjectDir, testsDir)) {
		return skipped(StageTestRun, "no tests directory")
	}

	res := p.exec(rn, runtime.Command{
		Name: rn.layout.Python(),
		Args: []string{"-m", "unittest", "discover", testsDir},
		Dir:  rn.req.ProjectDir,
		Env:  runtime.VirtualEnv(nil, rn.layout.Root, rn.layout.BinDir()),
	})

	if !res.Success() {
		err := issue.NewErrorContext().
			WithOperation("run tests").
			WithResource(rn.req.ProjectDir).
			WithSuggestion("Re-run the suite with: " + rn.layout.Python() + " -m unittest discover tests").
			Wrap(fmt.Errorf("%w: %w", ErrTestRunFailed, resultError(res))).
			Build()
		out := failed(StageTestRun, "tests failed", err)
		out.Output = res.CombinedOutput()
		return out
	}

	out := ok(StageTestRun, "tests passed")
	out.Output = res.CombinedOutput()
	return out
}
