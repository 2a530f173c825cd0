// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	// ConfirmOptions configures the Confirm component.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description provides additional context below the title.
		Description string
		// Affirmative is the text for the affirmative option (default: "Yes").
		Affirmative string
		// Negative is the text for the negative option (default: "No").
		Negative string
		// Default is the initially selected answer.
		Default bool
		// Config holds the terminal streams.
		Config Config
	}

	confirmModel struct {
		opts      ConfirmOptions
		selection bool
		done      bool
		cancelled bool
		width     int
	}
)

func newConfirmModel(opts ConfirmOptions) *confirmModel {
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}
	return &confirmModel{opts: opts, selection: opts.Default}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, "esc":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "y", "Y":
			m.selection = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.selection = false
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.selection = true
		case "right", "l":
			m.selection = false
		case "up", "down", "tab", "shift+tab":
			m.selection = !m.selection
		case "enter", " ":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	yes := inactiveStyle.Render(m.opts.Affirmative)
	no := inactiveStyle.Render(m.opts.Negative)
	if m.selection {
		yes = activeStyle.Render(m.opts.Affirmative)
	} else {
		no = activeStyle.Render(m.opts.Negative)
	}

	lines := make([]string, 0, 4)
	if m.opts.Title != "" {
		lines = append(lines, titleStyle.Render(m.opts.Title))
	}
	if m.opts.Description != "" {
		lines = append(lines, descStyle.Render(m.opts.Description))
	}
	lines = append(lines, yes+"  "+no, helpStyle.Render("enter submit • y yes • n no • esc cancel"))

	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = descStyle.UnsetForeground().MaxWidth(m.width).Render(view)
	}
	return view + "\n"
}

// result returns the selected answer or ErrCancelled.
func (m *confirmModel) result() (bool, error) {
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.selection, nil
}

// Confirm asks a yes/no question. It returns ErrCancelled when the user
// aborts the prompt.
func Confirm(opts ConfirmOptions) (bool, error) {
	m, err := run(opts.Config, newConfirmModel(opts))
	if err != nil {
		return false, err
	}
	return m.result()
}
