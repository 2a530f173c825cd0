// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "pysetup"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variables overriding config keys.
	EnvPrefix = "PYSETUP"
)

//go:embed config_schema.cue
var configSchema string

// Schema returns the CUE schema configuration files are validated against.
func Schema() string { return configSchema }

// ConfigDir returns the pysetup configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration described by opts.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return NewProvider().Load(ctx, opts)
}

// LoadWithPath reads the configuration and reports which file it came from.
func LoadWithPath(ctx context.Context, opts LoadOptions) (LoadResult, error) {
	select {
	case <-ctx.Done():
		return LoadResult{}, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return LoadResult{}, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'pysetup config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			dir, err := ConfigDir()
			if err != nil {
				return LoadResult{}, err
			}
			cfgDir = dir
		}
		if path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(path) {
			resolvedPath = path
		}
		// If no config file found, use defaults (no error)
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return LoadResult{}, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare it with the schema printed by 'pysetup config schema'").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return LoadResult{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if ok, errs := cfg.IsValid(); !ok {
		return LoadResult{}, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for invalid values").
			Wrap(errs[0]).
			BuildError()
	}

	return LoadResult{Config: &cfg, Path: resolvedPath}, nil
}

// newViper returns a Viper instance holding the defaults and reading
// PYSETUP_* environment overrides (PYSETUP_PROVISION_VENV_DIR for provision.venv_dir).
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("github.api_url", defaults.GitHub.APIURL)
	v.SetDefault("github.token", defaults.GitHub.Token)
	v.SetDefault("github.token_env", defaults.GitHub.TokenEnv)
	v.SetDefault("github.user_agent", defaults.GitHub.UserAgent)
	v.SetDefault("resolve.shebang_sample", defaults.Resolve.ShebangSample)
	v.SetDefault("resolve.default_assumed_version", defaults.Resolve.DefaultAssumedVersion)
	v.SetDefault("provision.interpreter_prefix", defaults.Provision.InterpreterPrefix)
	v.SetDefault("provision.venv_dir", defaults.Provision.VenvDir)
	v.SetDefault("provision.upgrade_pip", defaults.Provision.UpgradePip)
	v.SetDefault("provision.command_timeout", defaults.Provision.CommandTimeout)
	v.SetDefault("workspace.projects_dir", defaults.Workspace.ProjectsDir)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.interactive", defaults.UI.Interactive)
	v.SetDefault("ui.log_level", defaults.UI.LogLevel)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Every schema field is optional, so the
// value is decoded with Concrete(false) into a map for Viper to merge.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(*configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the named files (".env" when none are
// given) into the process environment. Variables that are already set are
// never overridden and missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one exists, and
// returns its path.
func CreateDefaultConfig() (string, error) {
	cfgPath, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if fileExists(cfgPath) {
		return cfgPath, nil
	}
	return cfgPath, writeCUE(cfgPath, DefaultConfig())
}

func writeCUE(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration. The
// GitHub token is written only when set explicitly.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pysetup configuration file\n")
	sb.WriteString("// Run 'pysetup config schema' to see every available field.\n\n")

	sb.WriteString("github: {\n")
	fmt.Fprintf(&sb, "\tapi_url:    %q\n", cfg.GitHub.APIURL)
	if cfg.GitHub.Token != "" {
		fmt.Fprintf(&sb, "\ttoken:      %q\n", cfg.GitHub.Token)
	}
	fmt.Fprintf(&sb, "\ttoken_env:  %q\n", cfg.GitHub.TokenEnv)
	fmt.Fprintf(&sb, "\tuser_agent: %q\n", cfg.GitHub.UserAgent)
	sb.WriteString("}\n")

	sb.WriteString("\nresolve: {\n")
	fmt.Fprintf(&sb, "\tshebang_sample:          %d\n", cfg.Resolve.ShebangSample)
	fmt.Fprintf(&sb, "\tdefault_assumed_version: %q\n", cfg.Resolve.DefaultAssumedVersion)
	sb.WriteString("}\n")

	sb.WriteString("\nprovision: {\n")
	fmt.Fprintf(&sb, "\tinterpreter_prefix: %q\n", cfg.Provision.InterpreterPrefix)
	fmt.Fprintf(&sb, "\tvenv_dir:           %q\n", cfg.Provision.VenvDir)
	fmt.Fprintf(&sb, "\tupgrade_pip:        %v\n", cfg.Provision.UpgradePip)
	fmt.Fprintf(&sb, "\tcommand_timeout:    %q\n", cfg.Provision.CommandTimeout.String())
	sb.WriteString("}\n")

	sb.WriteString("\nworkspace: {\n")
	fmt.Fprintf(&sb, "\tprojects_dir: %q\n", cfg.Workspace.ProjectsDir)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tinteractive:  %v\n", cfg.UI.Interactive)
	fmt.Fprintf(&sb, "\tlog_level:    %q\n", cfg.UI.LogLevel)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}
