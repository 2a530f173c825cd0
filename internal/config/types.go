// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug logs everything.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs progress messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs problems only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// LogLevel specifies the minimum level of log messages.
	LogLevel string

	// Config holds the application configuration.
	Config struct {
		GitHub    GitHubConfig    `json:"github" mapstructure:"github"`
		Resolve   ResolveConfig   `json:"resolve" mapstructure:"resolve"`
		Provision ProvisionConfig `json:"provision" mapstructure:"provision"`
		Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
	}

	// GitHubConfig configures access to the GitHub API and to clones.
	GitHubConfig struct {
		APIURL string `json:"api_url" mapstructure:"api_url"`
		// Token authenticates requests; when empty the variable named by
		// TokenEnv is consulted.
		Token     string `json:"-" mapstructure:"token"`
		TokenEnv  string `json:"token_env" mapstructure:"token_env"`
		UserAgent string `json:"user_agent" mapstructure:"user_agent"`
	}

	// ResolveConfig tunes the version resolution fallbacks.
	ResolveConfig struct {
		ShebangSample         int    `json:"shebang_sample" mapstructure:"shebang_sample"`
		DefaultAssumedVersion string `json:"default_assumed_version" mapstructure:"default_assumed_version"`
	}

	// ProvisionConfig tunes environment provisioning.
	ProvisionConfig struct {
		InterpreterPrefix string        `json:"interpreter_prefix" mapstructure:"interpreter_prefix"`
		VenvDir           string        `json:"venv_dir" mapstructure:"venv_dir"`
		UpgradePip        bool          `json:"upgrade_pip" mapstructure:"upgrade_pip"`
		CommandTimeout    time.Duration `json:"command_timeout" mapstructure:"command_timeout"`
	}

	// WorkspaceConfig configures where remote projects are cloned.
	WorkspaceConfig struct {
		ProjectsDir string `json:"projects_dir" mapstructure:"projects_dir"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Interactive enables prompts even when stdin is not detected as a terminal.
		Interactive bool        `json:"interactive" mapstructure:"interactive"`
		LogLevel    LogLevel    `json:"log_level" mapstructure:"log_level"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// InvalidConfigError lists the fields that failed validation.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com",
			TokenEnv:  "GITHUB_TOKEN",
			UserAgent: "pysetup",
		},
		Resolve: ResolveConfig{
			ShebangSample:         5,
			DefaultAssumedVersion: "3.6",
		},
		Provision: ProvisionConfig{
			InterpreterPrefix: "python",
			VenvDir:           "venv",
		},
		Workspace: WorkspaceConfig{
			ProjectsDir: "~/github_projects",
		},
		UI: UIConfig{
			LogLevel:    LogLevelWarn,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ResolvedToken returns the configured GitHub token, falling back to the
// environment variable named by TokenEnv.
func (c GitHubConfig) ResolvedToken() string {
	if c.Token != "" {
		return c.Token
	}
	if c.TokenEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.TokenEnv))
}

// AssumedVersion returns DefaultAssumedVersion as a token.
func (c ResolveConfig) AssumedVersion() (pyversion.Token, error) {
	return pyversion.Parse(c.DefaultAssumedVersion)
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q (valid: auto, dark, light)", ErrInvalidColorScheme, string(c))}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q (valid: debug, info, warn, error)", ErrInvalidLogLevel, string(l))}
	}
}

// IsValid returns whether the Config holds usable values, and a list of
// validation errors if it does not. It covers what the schema cannot see:
// values that arrive through environment overrides.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if _, err := c.Resolve.AssumedVersion(); err != nil {
		errs = append(errs, fmt.Errorf("resolve.default_assumed_version: %w", err))
	}
	if c.Resolve.ShebangSample < 0 {
		errs = append(errs, fmt.Errorf("resolve.shebang_sample: must not be negative, got %d", c.Resolve.ShebangSample))
	}
	if strings.TrimSpace(c.Provision.InterpreterPrefix) == "" {
		errs = append(errs, errors.New("provision.interpreter_prefix: must not be empty"))
	}
	if strings.TrimSpace(c.Provision.VenvDir) == "" {
		errs = append(errs, errors.New("provision.venv_dir: must not be empty"))
	}
	if c.Provision.CommandTimeout < 0 {
		errs = append(errs, fmt.Errorf("provision.command_timeout: must not be negative, got %s", c.Provision.CommandTimeout))
	}
	if ok, lerrs := c.UI.LogLevel.IsValid(); !ok {
		errs = append(errs, lerrs...)
	}
	if ok, cerrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, cerrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
