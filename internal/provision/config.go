// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"time"
)

const (
	// DefaultInterpreterPrefix is joined with major.minor to name the interpreter binary.
	DefaultInterpreterPrefix = "python"
	// DefaultVenvDir is the environment directory relative to the project root.
	DefaultVenvDir = "venv"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid provision config")

type (
	// Config holds provisioning settings.
	Config struct {
		// InterpreterPrefix is the binary name prefix; "python" yields "python3.11".
		InterpreterPrefix string
		// VenvDir is the environment directory, relative to the project root.
		VenvDir string
		// UpgradePip upgrades pip and wheel right after the environment is created.
		UpgradePip bool
		// CommandTimeout bounds each subprocess; zero means unbounded.
		CommandTimeout time.Duration
		// Stdout and Stderr receive live subprocess output when set.
		Stdout io.Writer
		Stderr io.Writer
		// GOOS selects the environment layout; empty means the host OS.
		GOOS string
	}

	// Option is a functional option for configuring a Config.
	Option func(*Config)

	// InvalidConfigError lists the fields that failed validation.
	InvalidConfigError struct {
		Problems []string
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid provision config: %s", strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		InterpreterPrefix: DefaultInterpreterPrefix,
		VenvDir:           DefaultVenvDir,
		GOOS:              goruntime.GOOS,
	}
}

// WithInterpreterPrefix returns an Option that sets InterpreterPrefix on the config.
func WithInterpreterPrefix(prefix string) Option {
	return func(c *Config) {
		c.InterpreterPrefix = prefix
	}
}

// WithVenvDir returns an Option that sets VenvDir on the config.
func WithVenvDir(dir string) Option {
	return func(c *Config) {
		c.VenvDir = dir
	}
}

// WithUpgradePip returns an Option that sets UpgradePip on the config.
func WithUpgradePip(upgrade bool) Option {
	return func(c *Config) {
		c.UpgradePip = upgrade
	}
}

// WithCommandTimeout returns an Option that sets CommandTimeout on the config.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.CommandTimeout = d
	}
}

// WithOutput returns an Option that streams subprocess output to the writers.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Config) {
		c.Stdout = stdout
		c.Stderr = stderr
	}
}

// WithGOOS returns an Option that selects the environment layout for an OS.
func WithGOOS(goos string) Option {
	return func(c *Config) {
		c.GOOS = goos
	}
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// IsValid returns whether the config can be used, and a list of validation
// errors if it cannot.
func (c *Config) IsValid() (bool, []error) {
	var problems []string
	if strings.TrimSpace(c.InterpreterPrefix) == "" {
		problems = append(problems, "interpreter prefix is empty")
	}
	if strings.ContainsAny(c.InterpreterPrefix, `/\ `) {
		problems = append(problems, fmt.Sprintf("interpreter prefix %q must be a bare command name", c.InterpreterPrefix))
	}
	if c.VenvDir == "" || !filepath.IsLocal(c.VenvDir) {
		problems = append(problems, fmt.Sprintf("venv dir %q must be a relative path inside the project", c.VenvDir))
	}
	if c.CommandTimeout < 0 {
		problems = append(problems, "command timeout is negative")
	}
	if len(problems) > 0 {
		return false, []error{&InvalidConfigError{Problems: problems}}
	}
	return true, nil
}
