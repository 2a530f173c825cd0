// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestVirtualEnv(t *testing.T) {
	t.Parallel()

	base := []string{"HOME=/home/dev", "PATH=/usr/bin", "PYTHONHOME=/opt/py", "VIRTUAL_ENV=/old"}
	env := VirtualEnv(base, "/proj/venv", "/proj/venv/bin")

	if v, _ := LookupEnv(env, "VIRTUAL_ENV"); v != "/proj/venv" {
		t.Errorf("VIRTUAL_ENV = %q", v)
	}
	wantPath := "/proj/venv/bin" + string(filepath.ListSeparator) + "/usr/bin"
	if v, _ := LookupEnv(env, "PATH"); v != wantPath {
		t.Errorf("PATH = %q, want %q", v, wantPath)
	}
	if _, ok := LookupEnv(env, "PYTHONHOME"); ok {
		t.Error("PYTHONHOME should be removed")
	}
	if !slices.Contains(env, "HOME=/home/dev") {
		t.Error("unrelated variables should be kept")
	}
	if len(base) != 4 || base[1] != "PATH=/usr/bin" {
		t.Error("base environment must not be modified")
	}
}

func TestVirtualEnv_EmptyPath(t *testing.T) {
	t.Parallel()

	env := VirtualEnv([]string{}, "/v", "/v/bin")
	if v, _ := LookupEnv(env, "PATH"); v != "/v/bin" {
		t.Errorf("PATH = %q, want /v/bin", v)
	}
}
