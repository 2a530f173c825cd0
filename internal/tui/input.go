// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	// InputOptions configures the Input component.
	InputOptions struct {
		// Title is the prompt displayed above the input.
		Title string
		// Description provides additional context below the title.
		Description string
		// Placeholder is shown while the input is empty.
		Placeholder string
		// Value is the initial value.
		Value string
		// CharLimit limits the number of characters (0 for no limit).
		CharLimit int
		// Validate rejects a submitted value; the prompt stays open and shows
		// the error until a valid value is entered.
		Validate func(string) error
		// Config holds the terminal streams.
		Config Config
	}

	inputModel struct {
		opts      InputOptions
		input     textinput.Model
		err       error
		done      bool
		cancelled bool
	}
)

func newInputModel(opts InputOptions) *inputModel {
	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.SetValue(opts.Value)
	ti.CharLimit = opts.CharLimit
	ti.Prompt = "> "
	ti.Focus()
	return &inputModel{opts: opts, input: ti}
}

// Init implements tea.Model.
func (m *inputModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, "esc":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if m.opts.Validate != nil {
				if err := m.opts.Validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.input.SetValue(value)
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(1, msg.Width-len(m.input.Prompt)-1)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, isKey := msg.(tea.KeyMsg); isKey {
		m.err = nil
	}
	return m, cmd
}

// View implements tea.Model.
func (m *inputModel) View() string {
	if m.done {
		return ""
	}

	lines := make([]string, 0, 5)
	if m.opts.Title != "" {
		lines = append(lines, titleStyle.Render(m.opts.Title))
	}
	if m.opts.Description != "" {
		lines = append(lines, descStyle.Render(m.opts.Description))
	}
	lines = append(lines, m.input.View())
	if m.err != nil {
		lines = append(lines, errorStyle.Render(m.err.Error()))
	}
	lines = append(lines, helpStyle.Render("enter submit • esc cancel"))
	return strings.Join(lines, "\n") + "\n"
}

func (m *inputModel) result() (string, error) {
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.input.Value(), nil
}

// Input prompts for a line of text. It returns ErrCancelled when the user
// aborts the prompt.
func Input(opts InputOptions) (string, error) {
	m, err := run(opts.Config, newInputModel(opts))
	if err != nil {
		return "", err
	}
	return m.result()
}
