// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pysetup/pysetup/internal/config"
	"github.com/pysetup/pysetup/internal/issue"
)

// newConfigCommand creates the `pysetup config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pysetup configuration",
		Long: `Manage pysetup configuration.

Configuration is stored in:
  - Linux: ~/.config/pysetup/config.cue
  - macOS: ~/Library/Application Support/pysetup/config.cue
  - Windows: %APPDATA%\pysetup\config.cue

Every key can be overridden with a PYSETUP_<SECTION>_<KEY> environment
variable, e.g. PYSETUP_PROVISION_VENV_DIR=.venv.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.flags.configPath})
			if err != nil {
				return newServiceError(err, issue.ConfigLoadFailedId, "")
			}
			printf(app.stdout, "%s", config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Output the CUE schema configuration files are validated against",
		RunE: func(cmd *cobra.Command, args []string) error {
			printf(app.stdout, "%s", config.Schema())
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	kv := func(key string, value any) {
		printf(a.stdout, "  %s: %s\n", keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}

	printf(a.stdout, "%s\n\n", TitleStyle.Render("Current Configuration"))
	if path := a.configFile(); path != "" {
		printf(a.stdout, "%s: %s\n\n", keyStyle.Render("Config file"), path)
	} else {
		printf(a.stdout, "%s: %s\n\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	token := SubtitleStyle.Render("(not set)")
	if cfg.GitHub.ResolvedToken() != "" {
		token = "(set)"
	}

	printf(a.stdout, "%s:\n", keyStyle.Render("github"))
	kv("api_url", cfg.GitHub.APIURL)
	kv("token_env", cfg.GitHub.TokenEnv)
	kv("token", token)
	kv("user_agent", cfg.GitHub.UserAgent)

	printf(a.stdout, "\n%s:\n", keyStyle.Render("resolve"))
	kv("shebang_sample", cfg.Resolve.ShebangSample)
	kv("default_assumed_version", cfg.Resolve.DefaultAssumedVersion)

	printf(a.stdout, "\n%s:\n", keyStyle.Render("provision"))
	kv("interpreter_prefix", cfg.Provision.InterpreterPrefix)
	kv("venv_dir", cfg.Provision.VenvDir)
	kv("upgrade_pip", cfg.Provision.UpgradePip)
	kv("command_timeout", cfg.Provision.CommandTimeout)

	printf(a.stdout, "\n%s:\n", keyStyle.Render("workspace"))
	kv("projects_dir", cfg.Workspace.ProjectsDir)

	printf(a.stdout, "\n%s:\n", keyStyle.Render("ui"))
	kv("verbose", cfg.UI.Verbose)
	kv("interactive", cfg.UI.Interactive)
	kv("log_level", cfg.UI.LogLevel)
	kv("color_scheme", cfg.UI.ColorScheme)

	return nil
}

// configFile returns the config file in effect, or "" when defaults apply.
func (a *App) configFile() string {
	if a.flags.configPath != "" {
		return a.flags.configPath
	}
	path, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
		return ""
	}
	return path
}

func (a *App) initConfig() error {
	existing := ""
	if path, err := config.ConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			existing = path
		}
	}

	path, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if existing != "" {
		printf(a.stdout, "%s Configuration already exists at %s\n", SubtitleStyle.Render("-"), path)
		return nil
	}
	printf(a.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func (a *App) showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	printf(a.stdout, "Config directory: %s\n", cfgDir)
	printf(a.stdout, "Config file: %s\n", cfgPath)
	return nil
}
