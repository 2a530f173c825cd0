// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pysetup/pysetup/internal/artifact"
)

// DefaultProjectsDir is where remote projects are cloned unless configured otherwise.
const DefaultProjectsDir = "~/github_projects"

var (
	// commitPattern matches full or abbreviated commit hashes.
	commitPattern = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

	// ErrCloneFailed is the sentinel error wrapped by CloneError.
	ErrCloneFailed = errors.New("clone failed")
	// ErrTargetExists means the target directory holds something other than
	// a checkout of the requested repository.
	ErrTargetExists = errors.New("target directory already exists")
)

type (
	// Cloner turns locators into local project directories.
	Cloner struct {
		projectsDir string
		auth        transport.AuthMethod
		progress    io.Writer
		logger      *slog.Logger
		depth       int
		urlFor      func(artifact.Locator) string
	}

	// Option configures a Cloner.
	Option func(*Cloner)

	// Checkout is a project available on the local filesystem.
	Checkout struct {
		// Dir is the project root.
		Dir string
		// Head is the checked out commit, empty for local locators.
		Head string
		// Reused is true when no clone was needed.
		Reused bool
	}

	// CloneError describes a failed clone.
	CloneError struct {
		URL  string
		Dest string
		Err  error
	}
)

// Error implements the error interface.
func (e *CloneError) Error() string {
	return fmt.Sprintf("cloning %s into %s: %v", e.URL, e.Dest, e.Err)
}

// Unwrap returns ErrCloneFailed and the underlying cause.
func (e *CloneError) Unwrap() []error { return []error{ErrCloneFailed, e.Err} }

// WithToken authenticates HTTPS clones with a GitHub token.
func WithToken(token string) Option {
	return func(c *Cloner) {
		if token != "" {
			c.auth = &http.BasicAuth{Username: "x-access-token", Password: token}
		}
	}
}

// WithProgress streams git progress messages to w.
func WithProgress(w io.Writer) Option {
	return func(c *Cloner) {
		c.progress = w
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cloner) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Cloner placing remote projects under projectsDir.
// A leading "~" in projectsDir is expanded to the home directory.
func New(projectsDir string, opts ...Option) (*Cloner, error) {
	if projectsDir == "" {
		projectsDir = DefaultProjectsDir
	}
	dir, err := ExpandHome(projectsDir)
	if err != nil {
		return nil, err
	}
	c := &Cloner{
		projectsDir: dir,
		logger:      slog.Default(),
		depth:       1,
		urlFor:      artifact.Locator.CloneURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ProjectsDir returns the directory remote projects are cloned into.
func (c *Cloner) ProjectsDir() string { return c.projectsDir }

// Target returns the directory a remote locator is cloned into.
func (c *Cloner) Target(loc artifact.Locator) string {
	return filepath.Join(c.projectsDir, loc.Name())
}

// Checkout makes the project available locally. Local locators are returned
// as is. Remote locators are cloned into dest, or Target(loc) when dest is
// empty; an existing checkout of the same repository is reused. The
// locator's ref is tried as a branch, then a tag, then as a commit hash.
func (c *Cloner) Checkout(ctx context.Context, loc artifact.Locator, dest string) (Checkout, error) {
	if loc.IsLocal() {
		return Checkout{Dir: loc.Path(), Reused: true}, nil
	}
	if dest == "" {
		dest = c.Target(loc)
	}

	url := c.urlFor(loc)
	entries, statErr := os.ReadDir(dest)
	if statErr == nil && len(entries) > 0 {
		return c.reuse(loc, url, dest)
	}
	existed := statErr == nil

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Checkout{}, &CloneError{URL: url, Dest: dest, Err: fmt.Errorf("failed to create parent directory: %w", err)}
	}

	var refs []plumbing.ReferenceName
	if ref := loc.Ref(); ref != "" {
		refs = []plumbing.ReferenceName{plumbing.NewBranchReferenceName(ref), plumbing.NewTagReferenceName(ref)}
	} else {
		refs = []plumbing.ReferenceName{""}
	}

	var lastErr error
	for _, ref := range refs {
		c.logger.Debug("cloning repository", "url", url, "dest", dest, "ref", ref)
		repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           url,
			Auth:          c.auth,
			ReferenceName: ref,
			SingleBranch:  true,
			Depth:         c.depth,
			Progress:      c.progress,
		})
		if err != nil {
			lastErr = err
			discard(dest, existed)
			if ctx.Err() != nil {
				return Checkout{}, &CloneError{URL: url, Dest: dest, Err: lastErr}
			}
			continue
		}
		return c.checkedOut(repo, url, dest)
	}

	if ref := loc.Ref(); commitPattern.MatchString(ref) {
		co, err := c.cloneCommit(ctx, url, dest, ref)
		if err == nil {
			return co, nil
		}
		discard(dest, existed)
		lastErr = err
	}

	return Checkout{}, &CloneError{URL: url, Dest: dest, Err: lastErr}
}

// cloneCommit clones the full history and checks out a commit. Shallow
// clones cannot fetch an arbitrary commit, so depth is not applied.
func (c *Cloner) cloneCommit(ctx context.Context, url, dest, rev string) (Checkout, error) {
	c.logger.Debug("cloning repository at commit", "url", url, "dest", dest, "commit", rev)
	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:      url,
		Auth:     c.auth,
		Progress: c.progress,
	})
	if err != nil {
		return Checkout{}, err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return Checkout{}, fmt.Errorf("commit %s: %w", rev, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return Checkout{}, err
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return Checkout{}, fmt.Errorf("checkout %s: %w", rev, err)
	}
	return c.checkedOut(repo, url, dest)
}

func (c *Cloner) checkedOut(repo *git.Repository, url, dest string) (Checkout, error) {
	head, err := repo.Head()
	if err != nil {
		return Checkout{}, &CloneError{URL: url, Dest: dest, Err: fmt.Errorf("failed to get HEAD: %w", err)}
	}
	c.logger.Info("cloned repository", "url", url, "dest", dest, "head", head.Hash().String())
	return Checkout{Dir: dest, Head: head.Hash().String()}, nil
}

// discard removes what a failed clone left in dest. A directory that existed
// beforehand (necessarily empty) is kept and only emptied.
func discard(dest string, existed bool) {
	if !existed {
		_ = os.RemoveAll(dest)
		return
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return
	}
	for _, e := range entries {
		_ = os.RemoveAll(filepath.Join(dest, e.Name()))
	}
}

// reuse accepts dest when it is a git checkout whose origin is the locator's repository.
func (c *Cloner) reuse(loc artifact.Locator, url, dest string) (Checkout, error) {
	repo, err := git.PlainOpen(dest)
	if err != nil {
		return Checkout{}, fmt.Errorf("%w: %s is not a git repository", ErrTargetExists, dest)
	}

	origin, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return Checkout{}, fmt.Errorf("%w: %s has no origin remote", ErrTargetExists, dest)
	}
	if !sameRepository(origin.Config().URLs, url) {
		return Checkout{}, fmt.Errorf("%w: %s is a checkout of %s, not %s",
			ErrTargetExists, dest, strings.Join(origin.Config().URLs, ", "), loc)
	}

	var hash string
	if head, err := repo.Head(); err == nil {
		hash = head.Hash().String()
	}
	c.logger.Info("reusing existing checkout", "dir", dest, "head", hash)
	return Checkout{Dir: dest, Head: hash, Reused: true}, nil
}

// sameRepository reports whether any of urls points at the same repository as want.
func sameRepository(urls []string, want string) bool {
	w := normalizeURL(want)
	for _, u := range urls {
		if normalizeURL(u) == w {
			return true
		}
	}
	return false
}

// normalizeURL reduces a clone URL to "host/path" for comparison.
func normalizeURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	if _, rest, found := strings.Cut(u, "://"); found {
		u = rest
	}
	if at := strings.LastIndex(u, "@"); at >= 0 {
		u = u[at+1:]
	}
	// scp-like syntax: git@github.com:owner/repo.git
	u = strings.Replace(u, ":", "/", 1)
	u = strings.TrimPrefix(u, "www.")
	u = strings.TrimSuffix(strings.TrimSuffix(u, "/"), ".git")
	return u
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}
