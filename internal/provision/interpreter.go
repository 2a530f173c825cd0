// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"

	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/runtime"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

var reportedVersionPattern = regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?)`)

func (p *Provisioner) checkInterpreter(rn *run) Outcome {
	want := rn.req.Version
	if ok, errs := want.IsValid(); !ok {
		return failed(StageInterpreterCheck, "no valid version requested", interpreterError("", want, errs[0]))
	}

	bin := p.interpreter(want)
	res := p.exec(rn, runtime.Command{Name: bin, Args: []string{"--version"}})
	if !res.Success() {
		cause := res.Error
		if cause == nil {
			cause = fmt.Errorf("exit code %s", res.ExitCode)
		}
		out := failed(StageInterpreterCheck, bin+" is not available", interpreterError(bin, want, cause))
		out.Output = res.CombinedOutput()
		return out
	}

	// Python 2 prints the version on stderr.
	got, found := ReportedVersion(res.CombinedOutput())
	if !found {
		out := failed(StageInterpreterCheck, bin+" did not report a version",
			interpreterError(bin, want, fmt.Errorf("unrecognized output %q", res.CombinedOutput())))
		out.Output = res.CombinedOutput()
		return out
	}
	if !SameRelease(got, want) {
		return failed(StageInterpreterCheck, fmt.Sprintf("%s reports Python %s", bin, got),
			interpreterError(bin, want, fmt.Errorf("reported version %s does not match %s", got, want.MajorMinor())))
	}

	return ok(StageInterpreterCheck, fmt.Sprintf("found Python %s (%s)", got, bin))
}

// ReportedVersion extracts the version from "python --version" output.
func ReportedVersion(output string) (pyversion.Token, bool) {
	m := reportedVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return pyversion.Token(m[1]), true
}

// SameRelease reports whether two tokens share major.minor.
func SameRelease(a, b pyversion.Token) bool {
	ma, mb := semver.MajorMinor(a.Semver()), semver.MajorMinor(b.Semver())
	return ma != "" && ma == mb
}

func interpreterError(bin string, v pyversion.Token, cause error) error {
	mm := v.MajorMinor()
	return issue.NewErrorContext().
		WithOperation("find Python interpreter").
		WithResource(bin).
		WithSuggestions(
			fmt.Sprintf("Download Python %s from https://www.python.org/downloads/", mm),
			fmt.Sprintf("Install it with your package manager (e.g. apt install python%s python%s-venv, brew install python@%s)", mm, mm, mm),
			fmt.Sprintf("Or use pyenv: pyenv install %s", mm),
		).
		Wrap(fmt.Errorf("%w: %w", ErrInterpreterUnavailable, cause)).
		Build()
}
