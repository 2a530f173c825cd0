// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/internal/config"
	"github.com/pysetup/pysetup/internal/provision"
	"github.com/pysetup/pysetup/internal/resolve"
	"github.com/pysetup/pysetup/internal/runtime"
	"github.com/pysetup/pysetup/internal/tui"
	"github.com/pysetup/pysetup/internal/workspace"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every cobra handler receives an App reference.
	App struct {
		Config   config.Provider
		Runner   runtime.Runner
		Prompter Prompter
		stdout   io.Writer
		stderr   io.Writer

		flags  globalFlags
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Runner   runtime.Runner
		Prompter Prompter
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// Prompter asks the user to settle a Python version.
	Prompter interface {
		// Interactive reports whether prompts can be shown at all.
		Interactive() bool
		// ConfirmVersion asks whether an assumed version should be used.
		ConfirmVersion(version pyversion.Token, reason string) (bool, error)
		// PromptVersion asks for a version to use.
		PromptVersion(suggestion string) (string, error)
	}

	globalFlags struct {
		verbose    bool
		configPath string
		logLevel   string
	}

	// tuiPrompter implements Prompter with bubbletea prompts on the terminal.
	tuiPrompter struct {
		cfg   tui.Config
		force func() bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = runtime.NewNativeRunner()
	}

	app := &App{
		Config: deps.Config,
		Runner: deps.Runner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: log.New(io.Discard),
	}
	if deps.Prompter == nil {
		deps.Prompter = &tuiPrompter{
			cfg:   tui.Config{Input: os.Stdin, Output: deps.Stderr},
			force: func() bool { return app.cfg.UI.Interactive },
		}
	}
	app.Prompter = deps.Prompter
	return app
}

// loadConfig loads the configuration for this invocation. A load failure is
// reported as a warning and defaults are used, so a broken config file never
// locks the user out of `pysetup config`.
func (a *App) loadConfig(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}
}

// component returns a logger prefixed with the component name.
func (a *App) component(name string) *log.Logger {
	return a.logger.WithPrefix(name)
}

// stylePath returns the glamour style matching the configured color scheme.
func (a *App) stylePath() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(a.cfg.UI.ColorScheme)
	default:
		return "auto"
	}
}

// newReader builds the artifact reader for a locator from the GitHub settings.
func (a *App) newReader(loc artifact.Locator) (artifact.Reader, error) {
	gh := a.cfg.GitHub
	return artifact.NewReader(loc,
		artifact.WithBaseURL(gh.APIURL),
		artifact.WithToken(gh.ResolvedToken()),
		artifact.WithUserAgent(gh.UserAgent),
		artifact.WithLogger(a.component("github")),
	)
}

// newCascade builds the resolution cascade from the resolve settings.
func (a *App) newCascade() *resolve.Cascade {
	opts := []resolve.Option{
		resolve.WithShebangSample(a.cfg.Resolve.ShebangSample),
		resolve.WithLogger(a.component("resolve")),
	}
	if assumed, err := a.cfg.Resolve.AssumedVersion(); err == nil {
		opts = append(opts, resolve.WithDefaultAssumedVersion(assumed))
	}
	return resolve.New(opts...)
}

// newProvisioner builds the provisioner from the provision settings.
func (a *App) newProvisioner() *provision.Provisioner {
	pc := a.cfg.Provision
	opts := []provision.Option{
		provision.WithInterpreterPrefix(pc.InterpreterPrefix),
		provision.WithVenvDir(pc.VenvDir),
		provision.WithUpgradePip(pc.UpgradePip),
		provision.WithCommandTimeout(pc.CommandTimeout),
	}
	if a.flags.verbose {
		opts = append(opts, provision.WithOutput(a.stderr, a.stderr))
	}
	return provision.New(a.Runner, opts...).WithLogger(a.component("provision"))
}

// newCloner builds the workspace cloner from the workspace settings.
func (a *App) newCloner() (*workspace.Cloner, error) {
	opts := []workspace.Option{
		workspace.WithToken(a.cfg.GitHub.ResolvedToken()),
		workspace.WithLogger(slog.Default().With("component", "workspace")),
	}
	if a.flags.verbose {
		opts = append(opts, workspace.WithProgress(a.stderr))
	}
	return workspace.New(a.cfg.Workspace.ProjectsDir, opts...)
}

// Interactive implements Prompter.
func (p *tuiPrompter) Interactive() bool {
	return tui.IsInteractive() || (p.force != nil && p.force())
}

// ConfirmVersion implements Prompter.
func (p *tuiPrompter) ConfirmVersion(version pyversion.Token, reason string) (bool, error) {
	return tui.ConfirmVersion(p.cfg, version, reason)
}

// PromptVersion implements Prompter.
func (p *tuiPrompter) PromptVersion(suggestion string) (string, error) {
	return tui.PromptVersion(p.cfg, suggestion)
}
