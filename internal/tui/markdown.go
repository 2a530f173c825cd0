// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/glamour"

// MarkdownOptions configures RenderMarkdown.
type MarkdownOptions struct {
	// Content is the markdown source.
	Content string
	// Theme is a glamour standard style ("dark", "light", "ascii", "notty").
	// Empty or "auto" detects the terminal background.
	Theme string
	// Width is the word wrap width (0 for the glamour default).
	Width int
}

// RenderMarkdown renders markdown content for the terminal using glamour.
func RenderMarkdown(opts MarkdownOptions) (string, error) {
	var rendererOpts []glamour.TermRendererOption
	if opts.Theme == "" || opts.Theme == "auto" {
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(opts.Theme))
	}
	if opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(opts.Content)
}
