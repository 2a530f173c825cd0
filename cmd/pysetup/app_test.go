// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"testing"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/internal/config"
	"github.com/pysetup/pysetup/internal/issue"
	"github.com/pysetup/pysetup/internal/provision"
	"github.com/pysetup/pysetup/internal/report"
	"github.com/pysetup/pysetup/internal/resolve"
	"github.com/pysetup/pysetup/internal/runtime"
	"github.com/pysetup/pysetup/internal/testutil"
	"github.com/pysetup/pysetup/internal/tui"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

type (
	staticProvider struct {
		cfg *config.Config
	}

	// fakeRunner answers like a healthy interpreter of any version.
	fakeRunner struct {
		mu    sync.Mutex
		names []string
	}

	fakePrompter struct {
		interactive bool
		confirm     bool
		version     string
		err         error
		confirmed   []pyversion.Token
		prompted    []string
	}
)

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, nil
}

func (f *fakeRunner) Run(_ context.Context, cmd runtime.Command) *runtime.Result {
	f.mu.Lock()
	f.names = append(f.names, filepath.Base(cmd.Name))
	f.mu.Unlock()

	args := strings.Join(cmd.Args, " ")
	switch {
	case args == "--version":
		v := strings.TrimPrefix(filepath.Base(cmd.Name), "python")
		return runtime.NewSuccessResult("Python " + v + ".2\n")
	case strings.HasPrefix(args, "-m venv "):
		layout := provision.NewLayout(cmd.Args[2], goruntime.GOOS)
		if err := os.MkdirAll(layout.BinDir(), 0o755); err != nil {
			return runtime.NewErrorResult(1, err)
		}
		for _, p := range []string{layout.Activate(), layout.Pip()} {
			if err := os.WriteFile(p, nil, 0o755); err != nil {
				return runtime.NewErrorResult(1, err)
			}
		}
		return runtime.NewSuccessResult("")
	default:
		return runtime.NewSuccessResult("ok\n")
	}
}

func (f *fakeRunner) interpreters() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, n := range f.names {
		if strings.HasPrefix(n, "python3.") {
			out = append(out, n)
		}
	}
	return out
}

func (p *fakePrompter) Interactive() bool { return p.interactive }

func (p *fakePrompter) ConfirmVersion(v pyversion.Token, _ string) (bool, error) {
	p.confirmed = append(p.confirmed, v)
	return p.confirm, p.err
}

func (p *fakePrompter) PromptVersion(suggestion string) (string, error) {
	p.prompted = append(p.prompted, suggestion)
	return p.version, p.err
}

type harness struct {
	app    *App
	runner *fakeRunner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, prompter Prompter, mutate func(*config.Config)) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.GitHub.TokenEnv = ""
	cfg.Workspace.ProjectsDir = t.TempDir()
	cfg.UI.LogLevel = config.LogLevelError
	if mutate != nil {
		mutate(cfg)
	}
	if prompter == nil {
		prompter = &fakePrompter{}
	}

	h := &harness{runner: &fakeRunner{}, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = NewApp(Dependencies{
		Config:   staticProvider{cfg: cfg},
		Runner:   h.runner,
		Prompter: prompter,
		Stdout:   h.stdout,
		Stderr:   h.stderr,
	})
	h.app.cfg = cfg
	return h
}

func (h *harness) run(args ...string) error {
	root := newRootCommand(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func (h *harness) summary(t *testing.T) report.Summary {
	t.Helper()
	var s report.Summary
	if err := json.Unmarshal(h.stdout.Bytes(), &s); err != nil {
		t.Fatalf("stdout is not a JSON summary: %v\n%s", err, h.stdout.String())
	}
	return s
}

func exitCode(err error) runtime.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestDetect_LocalProject(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{
		".python-version": "3.10\n",
		"Dockerfile":      "FROM python:3.10\n",
	})
	h := newHarness(t, nil, nil)

	if err := h.run("detect", dir); err != nil {
		t.Fatalf("detect error: %v\nstderr: %s", err, h.stderr.String())
	}
	out := h.stdout.String()
	for _, want := range []string{"3.10", "pin-file", "exact", "compatible"} {
		if !strings.Contains(out, want) {
			t.Errorf("detect output missing %q:\n%s", want, out)
		}
	}
}

func TestDetect_JSON(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{
		"pyproject.toml": "[project]\nname = \"demo\"\nrequires-python = \">=3.9\"\n",
	})
	h := newHarness(t, nil, nil)

	if err := h.run("detect", "--json", dir); err != nil {
		t.Fatalf("detect --json error: %v", err)
	}
	s := h.summary(t)
	if s.Version != "3.9" || s.Source != "build-manifest" || s.Confidence != "exact" {
		t.Errorf("summary = %+v, want 3.9 from build-manifest (exact)", s)
	}
	if s.LocalPath != dir {
		t.Errorf("LocalPath = %q, want %q", s.LocalPath, dir)
	}
}

func TestDetect_UnresolvedExitsWithTwo(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{"README.md": "# nothing here\n"})
	h := newHarness(t, nil, nil)

	err := h.run("detect", "--json", dir)
	if got := exitCode(err); got != exitUnresolved {
		t.Fatalf("exit code = %d (err %v), want %d", got, err, exitUnresolved)
	}
	if s := h.summary(t); s.Source != "none" || s.Version != "" {
		t.Errorf("summary = %+v, want no version", s)
	}
}

func TestDetect_InvalidLocator(t *testing.T) {
	h := newHarness(t, nil, nil)

	err := h.run("detect", filepath.Join(t.TempDir(), "missing"))
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want ServiceError", err)
	}
	if svcErr.IssueID != issue.InvalidLocatorId {
		t.Errorf("IssueID = %d, want InvalidLocatorId", svcErr.IssueID)
	}
	if !errors.Is(err, artifact.ErrInvalidLocator) {
		t.Error("error should wrap artifact.ErrInvalidLocator")
	}
}

func TestSetup_LocalProject(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{
		"runtime.txt":      "python-3.8.10\n",
		"requirements.txt": "requests\n",
	})
	h := newHarness(t, nil, nil)

	if err := h.run("setup", "--json", dir); err != nil {
		t.Fatalf("setup error: %v\nstderr: %s", err, h.stderr.String())
	}

	s := h.summary(t)
	if s.Version != "3.8.10" || !s.Succeeded {
		t.Fatalf("summary = %+v, want a successful 3.8.10 setup", s)
	}
	want := []string{"interpreter-check=ok", "env-create=ok", "dependency-install=ok", "hook-install=skipped", "test-run=skipped"}
	var got []string
	for _, st := range s.Stages {
		got = append(got, st.Stage+"="+st.Status)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("stages = %v, want %v", got, want)
	}
	if names := h.runner.interpreters(); len(names) == 0 || names[0] != "python3.8" {
		t.Errorf("interpreter commands = %v, want python3.8 first", names)
	}
}

func TestSetup_PythonFlagOverridesDetection(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{".python-version": "3.12\n"})
	h := newHarness(t, nil, nil)

	if err := h.run("setup", "--json", "--python", "3.9", dir); err != nil {
		t.Fatalf("setup error: %v", err)
	}
	s := h.summary(t)
	if s.Version != "3.9" || s.Source != string(resolve.SourceManual) {
		t.Errorf("summary = %+v, want manual 3.9", s)
	}
}

func TestSetup_InvalidPythonFlag(t *testing.T) {
	dir := testutil.WriteProject(t, nil)
	h := newHarness(t, nil, nil)

	err := h.run("setup", "--python", "three", dir)
	if got := exitCode(err); got != exitUnresolved {
		t.Fatalf("exit code = %d (err %v), want %d", got, err, exitUnresolved)
	}
	if !errors.Is(err, pyversion.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken in chain", err)
	}
}

func TestSetup_UnresolvedNonInteractive(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{"app.py": "print('hi')\n"})
	h := newHarness(t, &fakePrompter{interactive: false}, nil)

	err := h.run("setup", dir)
	if got := exitCode(err); got != exitUnresolved {
		t.Fatalf("exit code = %d (err %v), want %d", got, err, exitUnresolved)
	}
	if !errors.Is(err, errVersionNotDetected) {
		t.Errorf("error = %v, want errVersionNotDetected", err)
	}
	if len(h.runner.interpreters()) != 0 {
		t.Error("nothing should be provisioned without a version")
	}
}

func TestSetup_PromptsForManualVersion(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{"app.py": "print('hi')\n"})
	prompter := &fakePrompter{interactive: true, version: "3.11"}
	h := newHarness(t, prompter, nil)

	if err := h.run("setup", "--json", dir); err != nil {
		t.Fatalf("setup error: %v", err)
	}
	if len(prompter.prompted) != 1 {
		t.Fatalf("PromptVersion called %d times, want 1", len(prompter.prompted))
	}
	s := h.summary(t)
	if s.Version != "3.11" || s.Source != "manual" || s.Confidence != "exact" {
		t.Errorf("summary = %+v, want manual 3.11 (exact)", s)
	}
}

func TestSetup_PromptCancelled(t *testing.T) {
	dir := testutil.WriteProject(t, nil)
	h := newHarness(t, &fakePrompter{interactive: true, err: tui.ErrCancelled}, nil)

	err := h.run("setup", dir)
	if got := exitCode(err); got != exitUnresolved {
		t.Fatalf("exit code = %d, want %d", got, exitUnresolved)
	}
	if !errors.Is(err, tui.ErrCancelled) {
		t.Errorf("error = %v, want tui.ErrCancelled in chain", err)
	}
}

func TestSetup_StageFailureExitsWithOne(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{".python-version": "3.10\n", "tests/test_app.py": ""})
	h := newHarness(t, nil, nil)
	h.app.Runner = runtime.Runner(failingTests{h.runner})

	err := h.run("setup", "--tests", dir)
	if got := exitCode(err); got != exitStageFailed {
		t.Fatalf("exit code = %d (err %v), want %d", got, err, exitStageFailed)
	}
	if !strings.Contains(h.stdout.String(), "test-run") {
		t.Errorf("report should list the failed stage:\n%s", h.stdout.String())
	}
	if !strings.Contains(h.stdout.String(), "FAILED (failures=1)") {
		t.Errorf("report should include the test output:\n%s", h.stdout.String())
	}
}

// failingTests makes the unittest run fail and delegates everything else.
type failingTests struct{ next runtime.Runner }

func (f failingTests) Run(ctx context.Context, cmd runtime.Command) *runtime.Result {
	if strings.Contains(strings.Join(cmd.Args, " "), "-m unittest") {
		return runtime.NewExitCodeResult(1, "", "FAILED (failures=1)\n")
	}
	return f.next.Run(ctx, cmd)
}

// newListingServer serves a repository whose only Python evidence is a
// top-level source file without a shebang.
func newListingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/proj/contents", "/repos/octo/proj/contents/":
			_, _ = w.Write([]byte(`[{"type":"file","name":"main.py","path":"main.py","size":12}]`))
		case "/repos/octo/proj/contents/main.py":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"type":     "file",
				"encoding": "base64",
				"content":  base64.StdEncoding.EncodeToString([]byte("print('hi')\n")),
				"size":     12,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDetect_RemoteListingFallback(t *testing.T) {
	srv := newListingServer(t)
	h := newHarness(t, nil, func(cfg *config.Config) { cfg.GitHub.APIURL = srv.URL })

	if err := h.run("detect", "--json", "https://github.com/octo/proj"); err != nil {
		t.Fatalf("detect error: %v", err)
	}
	s := h.summary(t)
	if s.Version != "3.6" || s.Source != "listing" || s.Confidence != "default" {
		t.Errorf("summary = %+v, want 3.6 from listing (default)", s)
	}
}

func TestSettleVersion_AssumedVersion(t *testing.T) {
	srv := newListingServer(t)
	loc := artifact.Remote("octo", "proj", "")

	tests := []struct {
		name        string
		prompter    *fakePrompter
		yes         bool
		wantVersion pyversion.Token
		wantSource  resolve.Source
		wantErr     error
	}{
		{name: "yes accepts", prompter: &fakePrompter{}, yes: true, wantVersion: "3.6", wantSource: resolve.SourceListing},
		{name: "non-interactive needs yes", prompter: &fakePrompter{}, wantErr: errConfirmationRequired},
		{name: "confirmed", prompter: &fakePrompter{interactive: true, confirm: true}, wantVersion: "3.6", wantSource: resolve.SourceListing},
		{name: "declined then entered", prompter: &fakePrompter{interactive: true, version: "3.7"}, wantVersion: "3.7", wantSource: resolve.SourceManual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.prompter, func(cfg *config.Config) { cfg.GitHub.APIURL = srv.URL })

			res, err := h.app.settleVersion(context.Background(), loc, setupOptions{yes: tt.yes})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("settleVersion() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("settleVersion() error: %v", err)
			}
			if res.Token != tt.wantVersion || res.Source != tt.wantSource {
				t.Errorf("settleVersion() = %s from %s, want %s from %s", res.Token, res.Source, tt.wantVersion, tt.wantSource)
			}
			if tt.wantSource == resolve.SourceManual && (len(tt.prompter.prompted) != 1 || tt.prompter.prompted[0] != "3.6") {
				t.Errorf("PromptVersion suggestions = %v, want [3.6]", tt.prompter.prompted)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t, nil, nil)

	if err := h.run("config", "schema"); err != nil {
		t.Fatalf("config schema error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "#Config") {
		t.Errorf("schema output missing #Config:\n%s", h.stdout.String())
	}

	h.stdout.Reset()
	if err := h.run("config", "dump"); err != nil {
		t.Fatalf("config dump error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "default_assumed_version") {
		t.Errorf("dump output missing resolve section:\n%s", h.stdout.String())
	}

	h.stdout.Reset()
	if err := h.run("config", "show"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	for _, want := range []string{"Current Configuration", "projects_dir", "interpreter_prefix"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("show output missing %q", want)
		}
	}
}

func TestRoot_LoadsDotEnv(t *testing.T) {
	dir := testutil.WriteProject(t, map[string]string{
		".env": "PYSETUP_CMD_DOTENV_PROBE=from-dotenv\n",
	})
	t.Cleanup(testutil.MustUnsetenv(t, "PYSETUP_CMD_DOTENV_PROBE"))
	t.Cleanup(testutil.MustChdir(t, dir))

	h := newHarness(t, nil, nil)
	if err := h.run("config", "path"); err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if got := os.Getenv("PYSETUP_CMD_DOTENV_PROBE"); got != "from-dotenv" {
		t.Errorf("PYSETUP_CMD_DOTENV_PROBE = %q, want value from .env", got)
	}
}
