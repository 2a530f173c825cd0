// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/report"
	"github.com/pysetup/pysetup/internal/resolve"
)

func newDetectCommand(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "detect <path|url>",
		Short: "Detect the Python version a project needs",
		Long: `Detect the Python version a project needs without changing anything.

A local directory is inspected on disk. A GitHub URL is inspected through
the GitHub contents API, so nothing is cloned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runDetect(cmd.Context(), args[0], jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary as JSON")

	return cmd
}

func (a *App) runDetect(ctx context.Context, arg string, jsonOut bool) error {
	loc, err := parseLocator(arg)
	if err != nil {
		return err
	}

	res, err := a.resolve(ctx, loc)
	if err != nil {
		return err
	}

	rep := report.New(loc)
	rep.Resolution = res
	if loc.IsLocal() {
		rep.LocalPath = loc.Path()
		rep.DockerCompatible = report.DetectDocker(loc.Path())
	}
	rep.Finish()

	if err := a.writeReport(rep, jsonOut); err != nil {
		return err
	}

	if !res.Found() {
		if !jsonOut {
			renderIssue(a.stderr, unresolvedIssue(res), a.stylePath())
		}
		return &ExitError{Code: exitUnresolved}
	}
	return nil
}

// parseLocator turns a CLI argument into a locator.
func parseLocator(arg string) (artifact.Locator, error) {
	loc, err := artifact.ParseLocator(arg)
	if err != nil {
		return artifact.Locator{}, newServiceError(err, issue.InvalidLocatorId, "")
	}
	return loc, nil
}

// resolve runs the cascade against the project named by loc.
func (a *App) resolve(ctx context.Context, loc artifact.Locator) (resolve.Result, error) {
	reader, err := a.newReader(loc)
	if err != nil {
		return resolve.Result{}, newServiceError(err, issue.InvalidLocatorId, "")
	}
	a.component("resolve").Debug("resolving", "project", loc.String())
	return a.newCascade().Resolve(ctx, reader), nil
}

// writeReport prints rep as JSON or as styled text.
func (a *App) writeReport(rep *report.Report, jsonOut bool) error {
	if jsonOut {
		return rep.WriteJSON(a.stdout)
	}
	return rep.WriteText(a.stdout, a.flags.verbose)
}

// unresolvedIssue picks the help entry for a result without a version:
// unreadable remote artifacts point at access problems, anything else at
// the missing declaration.
func unresolvedIssue(res resolve.Result) issue.Id {
	for _, d := range res.Diagnostics {
		if d.Code == resolve.CodeArtifactUnavailable || d.Code == resolve.CodeListingFailed {
			return issue.RemoteAccessFailedId
		}
	}
	return issue.VersionNotDetectedId
}

// printf writes a formatted line to w, ignoring write errors on the terminal.
func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
