// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantOK: true},
		{name: "nested venv dir", mutate: func(c *Config) { c.VenvDir = ".envs/dev" }, wantOK: true},
		{name: "empty prefix", mutate: func(c *Config) { c.InterpreterPrefix = " " }, wantOK: false},
		{name: "prefix with path", mutate: func(c *Config) { c.InterpreterPrefix = "/usr/bin/python" }, wantOK: false},
		{name: "escaping venv dir", mutate: func(c *Config) { c.VenvDir = "../venv" }, wantOK: false},
		{name: "absolute venv dir", mutate: func(c *Config) { c.VenvDir = "/tmp/venv" }, wantOK: false},
		{name: "negative timeout", mutate: func(c *Config) { c.CommandTimeout = -1 }, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			ok, errs := cfg.IsValid()
			if ok != tt.wantOK {
				t.Fatalf("IsValid() = %v, %v; want %v", ok, errs, tt.wantOK)
			}
			if !ok && !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error does not wrap ErrInvalidConfig: %v", errs[0])
			}
		})
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	posix := NewLayout("/p/venv", "linux")
	if posix.Pip() != filepath.Join("/p/venv", "bin", "pip") {
		t.Errorf("posix Pip() = %q", posix.Pip())
	}
	if posix.Activate() != filepath.Join("/p/venv", "bin", "activate") {
		t.Errorf("posix Activate() = %q", posix.Activate())
	}

	win := NewLayout("/p/venv", "windows")
	if win.Python() != filepath.Join("/p/venv", "Scripts", "python.exe") {
		t.Errorf("windows Python() = %q", win.Python())
	}
	if win.Activate() != filepath.Join("/p/venv", "Scripts", "activate") {
		t.Errorf("windows Activate() = %q", win.Activate())
	}
}

func TestSameRelease(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b pyversion.Token
		want bool
	}{
		{"3.11.4", "3.11", true},
		{"3.11", "3.11.9", true},
		{"3.10.12", "3.11", false},
		{"2.7.18", "3.7", false},
		{"", "3.11", false},
	}
	for _, tt := range tests {
		if got := SameRelease(tt.a, tt.b); got != tt.want {
			t.Errorf("SameRelease(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	if v, ok := ReportedVersion("Python 3.12.1\n"); !ok || v != "3.12.1" {
		t.Errorf("ReportedVersion() = %q, %v", v, ok)
	}
	if _, ok := ReportedVersion("command not found"); ok {
		t.Error("ReportedVersion() should not match arbitrary output")
	}
}

func TestStages(t *testing.T) {
	t.Parallel()

	got := Stages()
	if len(got) != 5 || got[0] != StageInterpreterCheck || got[4] != StageTestRun {
		t.Errorf("Stages() = %v", got)
	}
	if !StageEnvCreate.Terminal() || StageDependencyInstall.Terminal() {
		t.Error("only interpreter-check and env-create are terminal")
	}
}
