// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectInstallStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  InstallStrategy
	}{
		{name: "none", files: nil, want: InstallNone},
		{
			name:  "requirements wins",
			files: map[string]string{"requirements.txt": "flask\n", "pyproject.toml": "[tool.poetry]\n", "setup.py": ""},
			want:  InstallRequirements,
		},
		{
			name:  "poetry backend",
			files: map[string]string{"pyproject.toml": "[build-system]\nbuild-backend = \"poetry.core.masonry.api\"\n"},
			want:  InstallPoetry,
		},
		{
			name:  "poetry table without build system",
			files: map[string]string{"pyproject.toml": "[tool.poetry]\nname = \"x\"\n"},
			want:  InstallPoetry,
		},
		{
			name:  "setuptools backend",
			files: map[string]string{"pyproject.toml": "[build-system]\nrequires = [\"setuptools\"]\nbuild-backend = \"setuptools.build_meta\"\n"},
			want:  InstallPEP517,
		},
		{
			name:  "malformed pyproject",
			files: map[string]string{"pyproject.toml": "[build-system\n"},
			want:  InstallPEP517,
		},
		{name: "setup.py", files: map[string]string{"setup.py": "from setuptools import setup\n"}, want: InstallSetupScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if got := DetectInstallStrategy(dir); got != tt.want {
				t.Errorf("DetectInstallStrategy() = %q, want %q", got, tt.want)
			}
		})
	}
}
