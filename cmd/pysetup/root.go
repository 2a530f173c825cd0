// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/pysetup/pysetup/internal/config"
	"github.com/pysetup/pysetup/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pysetup",
		Short: "Detect a project's Python version and set up its environment",
		Long: TitleStyle.Render("pysetup") + SubtitleStyle.Render(" - Python project environment setup") + `

pysetup works out which Python version a project needs by looking at
.python-version, runtime.txt, pyproject.toml, setup.py, setup.cfg, tox.ini,
Pipfile and requirements.txt (in that order), then the shebang lines of its
sources. It then creates a virtual environment, installs dependencies and
optionally installs a pre-commit hook and runs the test suite.

` + SubtitleStyle.Render("Examples:") + `
  pysetup detect .                                   Show the version of a local project
  pysetup detect https://github.com/psf/requests     Inspect a repository without cloning
  pysetup setup https://github.com/psf/requests      Clone and set up a repository
  pysetup setup . --hooks --tests                    Set up, install the hook, run tests
  pysetup config show                                Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+err.Error())
			}
			app.loadConfig(cmd.Context())
			app.configureLogging()
			return nil
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/pysetup/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error (default from ui.log_level)")

	rootCmd.AddCommand(newDetectCommand(app))
	rootCmd.AddCommand(newSetupCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by the returned error.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError renders command errors. Service errors print their issue
// catalog entry; bare exit errors were already reported by the command.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr, a.stylePath())
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(svcErr.Err, a.flags.verbose))
		return
	}

	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := issue.AsActionable(err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
