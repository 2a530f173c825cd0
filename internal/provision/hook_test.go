// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/syntax"
)

func TestHookScript(t *testing.T) {
	t.Parallel()

	script, err := HookScript("/home/dev/proj/venv/bin/python")
	if err != nil {
		t.Fatalf("HookScript() error: %v", err)
	}

	if !strings.HasPrefix(script, "#!/bin/sh\n") {
		t.Errorf("script should start with a shebang:\n%s", script)
	}
	if !strings.Contains(script, "/home/dev/proj/venv/bin/python -m unittest discover tests") {
		t.Errorf("script does not run the unit tests:\n%s", script)
	}
	if !strings.Contains(script, hookMarker) {
		t.Errorf("script is missing the marker comment:\n%s", script)
	}
}

func TestHookScript_QuotesUnsafePaths(t *testing.T) {
	t.Parallel()

	python := "/tmp/my project/$(rm -rf ~)/venv/bin/python"
	script, err := HookScript(python)
	if err != nil {
		t.Fatalf("HookScript() error: %v", err)
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "pre-commit")
	if err != nil {
		t.Fatalf("generated hook does not parse: %v", err)
	}

	// The exec call must receive the path as a single literal word.
	var found bool
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) < 2 || call.Args[0].Lit() != "exec" {
			return true
		}
		for _, part := range call.Args[1].Parts {
			if _, isCmdSubst := part.(*syntax.CmdSubst); isCmdSubst {
				t.Errorf("path was not quoted: %s", script)
			}
		}
		found = true
		return false
	})
	if !found {
		t.Fatalf("no exec call in hook:\n%s", script)
	}
}

func TestInstallHook_BacksUpForeignHook(t *testing.T) {
	t.Parallel()

	dir := newProject(t, ".git/hooks/")
	foreign := filepath.Join(dir, ".git", "hooks", "pre-commit")
	if err := os.WriteFile(foreign, []byte("#!/bin/sh\nmake lint\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := New(&fakeRunner{})
	out := p.installHook(&run{
		ctx:    context.Background(),
		req:    Request{ProjectDir: dir, InstallHook: true},
		layout: p.Layout(dir),
	})
	if out.Status != StatusOK {
		t.Fatalf("installHook() = %+v", out)
	}

	backup, err := os.ReadFile(foreign + ".bak")
	if err != nil || !strings.Contains(string(backup), "make lint") {
		t.Errorf("foreign hook not backed up: %q, %v", backup, err)
	}

	// A second install replaces our own hook without another backup.
	if err := os.Remove(foreign + ".bak"); err != nil {
		t.Fatal(err)
	}
	out = p.installHook(&run{ctx: context.Background(), req: Request{ProjectDir: dir, InstallHook: true}, layout: p.Layout(dir)})
	if out.Status != StatusOK || strings.Contains(out.Detail, "saved") {
		t.Errorf("reinstall = %+v", out)
	}
	if _, err := os.Stat(foreign + ".bak"); !os.IsNotExist(err) {
		t.Error("managed hook should not be backed up")
	}
}
