// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/pysetup/pysetup/internal/issue"
)

const (
	hookName = "pre-commit"
	hookMode = 0o755

	// hookMarker identifies hooks written by this tool.
	hookMarker = "# managed by pysetup"
)

// HookScript returns a POSIX sh pre-commit hook that runs the unit tests with
// the environment's interpreter. The script is parsed and reprinted so a bad
// path can never produce a hook that fails to parse.
func HookScript(python string) (string, error) {
	quoted, err := syntax.Quote(python, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting %s: %w", python, err)
	}

	src := strings.Join([]string{
		"#!/bin/sh",
		hookMarker,
		`cd "$(git rev-parse --show-toplevel)" || exit 1`,
		"exec " + quoted + " -m unittest discover tests",
		"",
	}, "\n")

	file, err := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangPOSIX)).
		Parse(strings.NewReader(src), hookName)
	if err != nil {
		return "", fmt.Errorf("generated hook does not parse: %w", err)
	}

	var buf bytes.Buffer
	if err := syntax.NewPrinter().Print(&buf, file); err != nil {
		return "", fmt.Errorf("printing hook: %w", err)
	}
	return buf.String(), nil
}

func (p *Provisioner) installHook(rn *run) Outcome {
	if !rn.req.InstallHook {
		return skipped(StageHookInstall, "not requested")
	}

	gitDir := filepath.Join(rn.req.ProjectDir, ".git")
	if !isDir(gitDir) {
		return skipped(StageHookInstall, "not a git repository")
	}

	script, err := HookScript(rn.layout.Python())
	if err != nil {
		return failed(StageHookInstall, "could not generate hook", hookError(gitDir, err))
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return failed(StageHookInstall, "could not create hooks directory", hookError(hooksDir, err))
	}

	path := filepath.Join(hooksDir, hookName)
	detail := "installed " + path
	if existing, err := os.ReadFile(path); err == nil && !bytes.Contains(existing, []byte(hookMarker)) {
		backup := path + ".bak"
		if err := os.WriteFile(backup, existing, hookMode); err != nil {
			return failed(StageHookInstall, "could not back up existing hook", hookError(backup, err))
		}
		detail += "; previous hook saved as " + filepath.Base(backup)
	}

	if err := os.WriteFile(path, []byte(script), hookMode); err != nil {
		return failed(StageHookInstall, "could not write hook", hookError(path, err))
	}
	// WriteFile leaves an existing file's mode untouched and applies the umask.
	if err := os.Chmod(path, hookMode); err != nil {
		return failed(StageHookInstall, "could not make hook executable", hookError(path, err))
	}
	return ok(StageHookInstall, detail)
}

func hookError(path string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("install pre-commit hook").
		WithResource(path).
		WithSuggestion("Check that the hooks directory is writable").
		Wrap(fmt.Errorf("%w: %w", ErrHookInstall, cause)).
		Build()
}
