// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown(MarkdownOptions{
		Content: "# Sample Project\n\nInstall with `pip install .`\n",
		Theme:   "ascii",
		Width:   60,
	})
	if err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	for _, want := range []string{"Sample Project", "pip install ."} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderMarkdown() output missing %q:\n%s", want, out)
		}
	}
}
