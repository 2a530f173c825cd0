// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/pysetup/pysetup/internal/config"
)

// newLogger creates the process logger. --log-level wins over ui.log_level,
// and --verbose forces debug.
func newLogger(w io.Writer, flagLevel string, cfgLevel config.LogLevel, verbose bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level: logLevel(flagLevel, cfgLevel, verbose),
	})
}

func logLevel(flagLevel string, cfgLevel config.LogLevel, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	name := flagLevel
	if name == "" {
		name = string(cfgLevel)
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// configureLogging installs the App logger and routes log/slog through it.
func (a *App) configureLogging() {
	a.logger = newLogger(a.stderr, a.flags.logLevel, a.cfg.UI.LogLevel, a.flags.verbose)
	slog.SetDefault(slog.New(a.logger))
}
