// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const keyCtrlC = "ctrl+c"

// ErrCancelled is returned when the user cancels a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("prompt cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7C3AED")).Bold(true).Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Config holds the terminal streams prompts run on.
type Config struct {
	// Input is read for key presses (default: os.Stdin).
	Input io.Reader
	// Output receives the rendered prompt (default: os.Stderr, so prompts
	// are not captured when stdout is redirected).
	Output io.Writer
}

// DefaultConfig returns a Config using the process terminal.
func DefaultConfig() Config {
	return Config{Input: os.Stdin, Output: os.Stderr}
}

// IsInteractive reports whether stdin is a terminal a prompt can read from.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (c Config) programOptions() []tea.ProgramOption {
	var opts []tea.ProgramOption
	if c.Input != nil {
		opts = append(opts, tea.WithInput(c.Input))
	}
	if c.Output != nil {
		opts = append(opts, tea.WithOutput(c.Output))
	}
	return opts
}

// run executes model as a bubbletea program and returns the final model.
func run[M tea.Model](cfg Config, model M) (M, error) {
	final, err := tea.NewProgram(model, cfg.programOptions()...).Run()
	if err != nil {
		var zero M
		return zero, err
	}
	m, ok := final.(M)
	if !ok {
		var zero M
		return zero, errors.New("unexpected model type returned by the program")
	}
	return m, nil
}
