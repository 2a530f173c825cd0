// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/provision"
	"github.com/pysetup/pysetup/internal/report"
	"github.com/pysetup/pysetup/internal/resolve"
	"github.com/pysetup/pysetup/internal/tui"
)

var (
	// errVersionNotDetected is returned when nothing declares a version and no
	// prompt can be shown.
	errVersionNotDetected = errors.New("no Python version detected; pass --python to choose one")
	// errConfirmationRequired is returned when an assumed version cannot be
	// confirmed interactively.
	errConfirmationRequired = errors.New("the Python version was assumed; pass --yes to accept it or --python to choose one")
)

type setupOptions struct {
	python  string
	path    string
	hooks   bool
	tests   bool
	yes     bool
	readme  bool
	jsonOut bool
}

func newSetupCommand(app *App) *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup <path|url>",
		Short: "Set up a Python environment for a project",
		Long: `Set up a Python environment for a project.

A GitHub URL is cloned into the projects directory first (see
workspace.projects_dir). The required Python version is then detected,
a virtual environment is created and the project dependencies are
installed. --hooks adds a pre-commit hook that runs the unit tests and
--tests runs them once.

Exit status is 1 when a setup stage failed and 2 when no Python version
could be settled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runSetup(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.python, "python", "", "use this Python version instead of detecting one (e.g. 3.11)")
	cmd.Flags().StringVar(&opts.path, "path", "", "directory to clone a remote project into")
	cmd.Flags().BoolVar(&opts.hooks, "hooks", false, "install a git pre-commit hook that runs the tests")
	cmd.Flags().BoolVar(&opts.tests, "tests", false, "run the test suite after installing dependencies")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "accept an assumed Python version without asking")
	cmd.Flags().BoolVar(&opts.readme, "readme", false, "show the project README before setting it up")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")

	return cmd
}

func (a *App) runSetup(ctx context.Context, arg string, opts setupOptions) error {
	loc, err := parseLocator(arg)
	if err != nil {
		return err
	}

	rep := report.New(loc)
	res, err := a.settleVersion(ctx, loc, opts)
	rep.Resolution = res
	if err != nil {
		return err
	}

	cloner, err := a.newCloner()
	if err != nil {
		return err
	}
	checkout, err := cloner.Checkout(ctx, loc, opts.path)
	if err != nil {
		return newServiceError(err, issue.CloneFailedId, "")
	}
	if loc.IsRemote() && !opts.jsonOut {
		if checkout.Reused {
			printf(a.stderr, "%s Using existing checkout %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(checkout.Dir))
		} else {
			printf(a.stderr, "%s Cloned %s into %s\n", SuccessStyle.Render("✓"), loc.String(), CmdStyle.Render(checkout.Dir))
		}
	}

	rep.LocalPath = checkout.Dir
	rep.DockerCompatible = report.DetectDocker(checkout.Dir)

	if opts.readme && !opts.jsonOut {
		a.showReadme(checkout.Dir)
	}

	rep.Add(a.newProvisioner().Provision(ctx, provision.Request{
		ProjectDir:  checkout.Dir,
		Version:     res.Token,
		InstallHook: opts.hooks,
		RunTests:    opts.tests,
	})...)
	rep.Finish()

	if err := a.writeReport(rep, opts.jsonOut); err != nil {
		return err
	}

	if !rep.Succeeded() {
		if !opts.jsonOut {
			a.renderStageFailure(rep)
		}
		return &ExitError{Code: exitStageFailed}
	}
	return nil
}

// settleVersion produces the version to provision: --python when given,
// otherwise the cascade result, confirmed or replaced by the user when the
// result calls for it.
func (a *App) settleVersion(ctx context.Context, loc artifact.Locator, opts setupOptions) (resolve.Result, error) {
	if opts.python != "" {
		res, err := resolve.Manual(opts.python)
		if err != nil {
			return res, unresolvedError(err)
		}
		return res, nil
	}

	res, err := a.resolve(ctx, loc)
	if err != nil {
		return res, err
	}

	switch resolve.NextAction(res) {
	case resolve.UseResolved:
		return res, nil
	case resolve.ConfirmResolved:
		if opts.yes {
			return res, nil
		}
		if !a.Prompter.Interactive() {
			return res, unresolvedError(errConfirmationRequired)
		}
		reason := fmt.Sprintf("No version file was found; %s is assumed because the project contains Python sources.", res.Token)
		ok, err := a.Prompter.ConfirmVersion(res.Token, reason)
		if err != nil {
			return res, promptError(err)
		}
		if ok {
			return res, nil
		}
		return a.manualVersion(res, res.Token.String())
	default:
		if !a.Prompter.Interactive() {
			return res, unresolvedError(errVersionNotDetected)
		}
		return a.manualVersion(res, "")
	}
}

// manualVersion asks for a version and keeps the diagnostics of prev.
func (a *App) manualVersion(prev resolve.Result, suggestion string) (resolve.Result, error) {
	v, err := a.Prompter.PromptVersion(suggestion)
	if err != nil {
		return prev, promptError(err)
	}
	res, err := resolve.Manual(v)
	if err != nil {
		return prev, unresolvedError(err)
	}
	res.Diagnostics = prev.Diagnostics
	return res, nil
}

func unresolvedError(err error) error {
	return &ExitError{Code: exitUnresolved, Err: newServiceError(err, issue.VersionNotDetectedId, "")}
}

func promptError(err error) error {
	if errors.Is(err, tui.ErrCancelled) {
		return &ExitError{Code: exitUnresolved, Err: fmt.Errorf("setup cancelled: %w", err)}
	}
	return &ExitError{Code: exitUnresolved, Err: fmt.Errorf("prompt failed: %w", err)}
}

// showReadme renders README.md of the project, if there is one.
func (a *App) showReadme(dir string) {
	for _, name := range []string{"README.md", "readme.md", "README.rst", "README"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		out := string(content)
		if filepath.Ext(name) == ".md" {
			rendered, renderErr := tui.RenderMarkdown(tui.MarkdownOptions{Content: out, Theme: a.stylePath()})
			if renderErr != nil {
				a.logger.Warn("failed to render README", "path", name, "error", renderErr)
			} else {
				out = rendered
			}
		}
		printf(a.stdout, "%s\n", out)
		return
	}
	printf(a.stderr, "%s\n", SubtitleStyle.Render("(no README found)"))
}

// renderStageFailure explains the first failed stage.
func (a *App) renderStageFailure(rep *report.Report) {
	for _, o := range rep.Outcomes {
		if !o.Failed() {
			continue
		}
		if o.Err != nil {
			printf(a.stderr, "\n%s%s\n", ErrorStyle.Render("Error: "), formatErrorForDisplay(o.Err, a.flags.verbose))
		}
		renderIssue(a.stderr, stageIssue(o.Stage), a.stylePath())
		return
	}
}

// stageIssue maps a failed stage to its help entry.
func stageIssue(stage provision.Stage) issue.Id {
	switch stage {
	case provision.StageInterpreterCheck:
		return issue.InterpreterUnavailableId
	case provision.StageEnvCreate:
		return issue.EnvironmentCreationFailedId
	case provision.StageDependencyInstall:
		return issue.DependencyInstallFailedId
	case provision.StageHookInstall:
		return issue.HookInstallFailedId
	case provision.StageTestRun:
		return issue.TestsFailedId
	default:
		return 0
	}
}
