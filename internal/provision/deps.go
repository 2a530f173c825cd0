// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/runtime"
)

const (
	// InstallRequirements installs from requirements.txt.
	InstallRequirements InstallStrategy = "requirements"
	// InstallPoetry installs a Poetry project with poetry itself.
	InstallPoetry InstallStrategy = "poetry"
	// InstallPEP517 installs a pyproject.toml project through its build backend.
	InstallPEP517 InstallStrategy = "pep517"
	// InstallSetupScript installs a legacy setup.py project.
	InstallSetupScript InstallStrategy = "setup.py"
	// InstallNone means there is nothing to install.
	InstallNone InstallStrategy = ""
)

type (
	// InstallStrategy names how dependencies are installed.
	InstallStrategy string

	// buildSystem is the subset of pyproject.toml used to pick a strategy.
	buildSystem struct {
		BuildSystem struct {
			BuildBackend string   `toml:"build-backend"`
			Requires     []string `toml:"requires"`
		} `toml:"build-system"`
		Tool struct {
			Poetry map[string]any `toml:"poetry"`
		} `toml:"tool"`
	}
)

// DetectInstallStrategy picks the install strategy from the project's files.
// requirements.txt wins, then pyproject.toml, then setup.py.
func DetectInstallStrategy(projectDir string) InstallStrategy {
	switch {
	case isFile(filepath.Join(projectDir, "requirements.txt")):
		return InstallRequirements
	case isFile(filepath.Join(projectDir, "pyproject.toml")):
		return pyprojectStrategy(filepath.Join(projectDir, "pyproject.toml"))
	case isFile(filepath.Join(projectDir, "setup.py")):
		return InstallSetupScript
	default:
		return InstallNone
	}
}

// pyprojectStrategy returns InstallPoetry for Poetry projects and
// InstallPEP517 for everything else, including unreadable files.
func pyprojectStrategy(path string) InstallStrategy {
	data, err := os.ReadFile(path)
	if err != nil {
		return InstallPEP517
	}
	var bs buildSystem
	if err := toml.Unmarshal(data, &bs); err != nil {
		return InstallPEP517
	}
	if strings.HasPrefix(bs.BuildSystem.BuildBackend, "poetry") {
		return InstallPoetry
	}
	if bs.BuildSystem.BuildBackend == "" && bs.Tool.Poetry != nil {
		return InstallPoetry
	}
	return InstallPEP517
}

func (p *Provisioner) installDependencies(rn *run) Outcome {
	strategy := DetectInstallStrategy(rn.req.ProjectDir)
	if strategy == InstallNone {
		return skipped(StageDependencyInstall, "no requirements.txt, pyproject.toml or setup.py")
	}

	pip := rn.layout.Pip()
	var cmds []runtime.Command
	switch strategy {
	case InstallRequirements:
		cmds = []runtime.Command{{Name: pip, Args: []string{"install", "-r", "requirements.txt"}}}
	case InstallPoetry:
		cmds = []runtime.Command{
			{Name: pip, Args: []string{"install", "poetry"}},
			{Name: rn.layout.Executable("poetry"), Args: []string{"install"}},
		}
	default:
		cmds = []runtime.Command{{Name: pip, Args: []string{"install", "."}}}
	}

	env := runtime.VirtualEnv(nil, rn.layout.Root, rn.layout.BinDir())
	var output strings.Builder
	for _, cmd := range cmds {
		cmd.Dir = rn.req.ProjectDir
		cmd.Env = env
		res := p.exec(rn, cmd)
		output.WriteString(res.CombinedOutput())
		if !res.Success() {
			err := issue.NewErrorContext().
				WithOperation("install dependencies").
				WithResource(rn.req.ProjectDir).
				WithSuggestion("Check the installer output for missing system packages").
				Wrap(fmt.Errorf("%w: %s: %w", ErrInstallFailed, cmd.String(), resultError(res))).
				Build()
			out := failed(StageDependencyInstall, fmt.Sprintf("%s install failed", strategy), err)
			out.Output = output.String()
			return out
		}
	}

	out := ok(StageDependencyInstall, fmt.Sprintf("installed via %s", strategy))
	out.Output = output.String()
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
