// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/internal/extract"
	"github.com/pysetup/pysetup/pkg/pyversion"
)

const (
	// DefaultShebangSample is the number of source files inspected for a shebang.
	DefaultShebangSample = 5

	// DefaultAssumedVersion is assumed for remote projects that contain Python
	// sources but declare no version anywhere.
	DefaultAssumedVersion pyversion.Token = "3.6"

	sourceSuffix = ".py"
)

type (
	// Cascade resolves the interpreter version of a project. A Cascade holds
	// no per-run state and may be reused and shared.
	Cascade struct {
		sample  int
		assumed pyversion.Token
		logger  *log.Logger
	}

	// Option configures a Cascade.
	Option func(*Cascade)

	// run carries the state of a single Resolve call.
	run struct {
		ctx   context.Context
		r     artifact.Reader
		diags []Diagnostic
	}
)

// WithShebangSample sets how many source files are inspected for a shebang.
func WithShebangSample(n int) Option {
	return func(c *Cascade) {
		if n > 0 {
			c.sample = n
		}
	}
}

// WithDefaultAssumedVersion overrides the version assumed by the remote
// listing fallback.
func WithDefaultAssumedVersion(t pyversion.Token) Option {
	return func(c *Cascade) {
		if ok, _ := t.IsValid(); ok {
			c.assumed = t
		}
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Cascade) {
		c.logger = l
	}
}

// New returns a Cascade with default settings.
func New(opts ...Option) *Cascade {
	c := &Cascade{
		sample:  DefaultShebangSample,
		assumed: DefaultAssumedVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Resolve runs the cascade once against the reader's project.
//
// Artifacts are consulted in artifact.Kinds() order and the first one that
// yields a version is returned with exact confidence. Otherwise a bounded
// sample of source files is checked for a versioned shebang (inferred
// confidence). For remote projects only, the presence of any top-level
// Python file yields the assumed default version (default confidence).
// A local project without evidence resolves to an absent version.
func (c *Cascade) Resolve(ctx context.Context, r artifact.Reader) Result {
	rn := &run{ctx: ctx, r: r}

	for _, kind := range artifact.Kinds() {
		if rn.canceled() {
			return rn.result("", SourceNone, "")
		}
		if tok, ok := c.fromArtifact(rn, kind); ok {
			c.logger.Debug("resolved from artifact", "kind", kind, "version", tok)
			return rn.result(tok, SourceOf(kind), ConfidenceExact)
		}
	}

	if rn.canceled() {
		return rn.result("", SourceNone, "")
	}
	entries, err := r.List(ctx)
	if err != nil {
		rn.note(SeverityWarning, CodeListingFailed, "project listing unavailable", ".", err)
		return rn.result("", SourceNone, "")
	}

	sources := sourceFiles(entries, r.Locator().IsLocal())
	if tok, path, ok := c.fromShebangs(rn, sources); ok {
		c.logger.Debug("resolved from shebang", "file", path, "version", tok)
		return rn.result(tok, SourceShebang, ConfidenceInferred)
	}
	if rn.canceled() {
		return rn.result("", SourceNone, "")
	}

	if r.Locator().IsRemote() && len(sources) > 0 {
		c.logger.Debug("assuming default version for remote sources", "version", c.assumed)
		return rn.result(c.assumed, SourceListing, ConfidenceDefault)
	}

	c.logger.Debug("no version evidence found", "project", r.Locator())
	return rn.result("", SourceNone, "")
}

func (c *Cascade) fromArtifact(rn *run, kind artifact.Kind) (pyversion.Token, bool) {
	name := kind.Filename()
	content, err := rn.r.Read(rn.ctx, name)
	if err != nil {
		if artifact.ReasonOf(err) == artifact.ReasonMissing {
			rn.note(SeverityInfo, CodeArtifactMissing, "not present", name, nil)
		} else {
			rn.note(SeverityWarning, CodeArtifactUnavailable, "could not be read", name, err)
		}
		return "", false
	}

	tok, ok, diag := extract.Extract(kind, content)
	if !ok {
		c.logger.Debug("artifact yielded no version", "kind", kind, "reason", diag.Message)
		rn.note(SeverityWarning, CodeArtifactUnusable, diag.String(), name, diag.Err)
		return "", false
	}
	return tok, true
}

// fromShebangs inspects at most c.sample source files.
func (c *Cascade) fromShebangs(rn *run, sources []string) (pyversion.Token, string, bool) {
	for _, p := range sources[:min(c.sample, len(sources))] {
		if rn.canceled() {
			return "", "", false
		}
		content, err := rn.r.Read(rn.ctx, p)
		if err != nil {
			continue
		}
		if tok, ok := ShebangVersion(content); ok {
			return tok, p, true
		}
	}
	return "", "", false
}

// ShebangVersion parses the version from a "#!...pythonX.Y" first line.
// The text after the last "python" must be a version token; a bare
// "python3" carries no minor version and yields nothing.
func ShebangVersion(content []byte) (pyversion.Token, bool) {
	line, _, _ := bytes.Cut(content, []byte("\n"))
	s := strings.TrimSpace(string(line))
	if !strings.HasPrefix(s, "#!") {
		return "", false
	}
	i := strings.LastIndex(s, "python")
	if i < 0 {
		return "", false
	}
	tok, err := pyversion.Parse(s[i+len("python"):])
	if err != nil {
		return "", false
	}
	return tok, true
}

// sourceFiles returns the Python source paths of a listing. Local listings are
// sorted by path; remote listings keep the API order.
func sourceFiles(entries []artifact.Entry, sortPaths bool) []string {
	var out []string
	for _, e := range entries {
		if !e.IsDir && strings.HasSuffix(e.Path, sourceSuffix) {
			out = append(out, e.Path)
		}
	}
	if sortPaths {
		slices.Sort(out)
	}
	return out
}

func (rn *run) canceled() bool {
	if err := rn.ctx.Err(); err != nil {
		if len(rn.diags) == 0 || rn.diags[len(rn.diags)-1].Code != CodeCanceled {
			rn.note(SeverityError, CodeCanceled, "resolution canceled", "", err)
		}
		return true
	}
	return false
}

func (rn *run) note(sev Severity, code, msg, path string, cause error) {
	rn.diags = append(rn.diags, Diagnostic{Severity: sev, Code: code, Message: msg, Path: path, Cause: cause})
}

func (rn *run) result(tok pyversion.Token, src Source, conf Confidence) Result {
	return Result{Token: tok, Source: src, Confidence: conf, Diagnostics: rn.diags}
}
