// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseGitHubURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantOwner string
		wantName  string
		wantRef   string
		wantErr   bool
	}{
		{name: "plain", raw: "https://github.com/psf/requests", wantOwner: "psf", wantName: "requests"},
		{name: "trailing slash", raw: "https://github.com/psf/requests/", wantOwner: "psf", wantName: "requests"},
		{name: "git suffix", raw: "https://github.com/psf/requests.git", wantOwner: "psf", wantName: "requests"},
		{name: "tree ref", raw: "https://github.com/psf/requests/tree/v2.31.0", wantOwner: "psf", wantName: "requests", wantRef: "v2.31.0"},
		{name: "tree ref with slash", raw: "https://github.com/o/r/tree/feature/x", wantOwner: "o", wantName: "r", wantRef: "feature/x"},
		{name: "blob path ignored", raw: "https://github.com/o/r/blob/main/setup.py", wantOwner: "o", wantName: "r"},
		{name: "scheme-less", raw: "github.com/o/r", wantOwner: "o", wantName: "r"},
		{name: "www host", raw: "https://www.github.com/o/r", wantOwner: "o", wantName: "r"},
		{name: "other host", raw: "https://gitlab.com/o/r", wantErr: true},
		{name: "owner only", raw: "https://github.com/psf", wantErr: true},
		{name: "ftp scheme", raw: "ftp://github.com/o/r", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loc, err := ParseGitHubURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLocator) {
					t.Fatalf("ParseGitHubURL(%q) error = %v, want ErrInvalidLocator", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGitHubURL(%q) unexpected error: %v", tt.raw, err)
			}
			if !loc.IsRemote() {
				t.Fatal("expected a remote locator")
			}
			if loc.Owner() != tt.wantOwner || loc.Name() != tt.wantName || loc.Ref() != tt.wantRef {
				t.Errorf("got %s/%s@%s, want %s/%s@%s",
					loc.Owner(), loc.Name(), loc.Ref(), tt.wantOwner, tt.wantName, tt.wantRef)
			}
		})
	}
}

func TestParseLocator_LocalDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	loc, err := ParseLocator(dir)
	if err != nil {
		t.Fatalf("ParseLocator() unexpected error: %v", err)
	}
	if !loc.IsLocal() {
		t.Fatal("expected a local locator")
	}
	if !filepath.IsAbs(loc.Path()) {
		t.Errorf("Path() = %q, want absolute", loc.Path())
	}
	if loc.Name() != filepath.Base(dir) {
		t.Errorf("Name() = %q, want %q", loc.Name(), filepath.Base(dir))
	}
}

func TestParseLocator_Errors(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "setup.py")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, arg := range []string{"", "does/not/exist", "octo/demo", file, "https://example.com/o/r"} {
		if _, err := ParseLocator(arg); !errors.Is(err, ErrInvalidLocator) {
			t.Errorf("ParseLocator(%q) error = %v, want ErrInvalidLocator", arg, err)
		}
	}
}

func TestLocator_Strings(t *testing.T) {
	t.Parallel()

	loc := Remote("psf", "black", "")
	if got := loc.String(); got != "https://github.com/psf/black" {
		t.Errorf("String() = %q", got)
	}
	if got := loc.CloneURL(); got != "https://github.com/psf/black.git" {
		t.Errorf("CloneURL() = %q", got)
	}
	if got := Remote("psf", "black", "main").String(); got != "https://github.com/psf/black/tree/main" {
		t.Errorf("String() with ref = %q", got)
	}
	if got := Local("/tmp/x").CloneURL(); got != "" {
		t.Errorf("local CloneURL() = %q, want empty", got)
	}
	if Local("/tmp/x").Kind().String() != "local" || loc.Kind().String() != "remote" {
		t.Error("unexpected LocatorKind strings")
	}
}
