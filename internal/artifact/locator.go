// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	// LocatorLocal identifies a project on the local filesystem.
	LocatorLocal LocatorKind = iota
	// LocatorRemote identifies a repository hosted on GitHub.
	LocatorRemote
)

// ErrInvalidLocator is the sentinel error wrapped by InvalidLocatorError.
var ErrInvalidLocator = errors.New("invalid project locator")

type (
	// LocatorKind discriminates the two shapes of a Locator.
	LocatorKind int

	// Locator identifies a project to inspect: either an existing local
	// directory or a remote GitHub repository (owner, name and optional ref).
	// Construct values with Local, Remote or ParseLocator.
	Locator struct {
		kind  LocatorKind
		path  string
		owner string
		name  string
		ref   string
	}

	// InvalidLocatorError is returned when an argument is neither an existing
	// directory nor a recognizable GitHub repository URL.
	InvalidLocatorError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf("invalid project locator %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidLocator for errors.Is() compatibility.
func (e *InvalidLocatorError) Unwrap() error { return ErrInvalidLocator }

// Local returns a Locator for a directory on disk.
func Local(path string) Locator {
	return Locator{kind: LocatorLocal, path: path}
}

// Remote returns a Locator for a GitHub repository. An empty ref means the
// repository default branch.
func Remote(owner, name, ref string) Locator {
	return Locator{kind: LocatorRemote, owner: owner, name: name, ref: ref}
}

// ParseLocator interprets a user-supplied argument. An existing directory wins
// over URL parsing, so a local folder named like a URL is still local.
func ParseLocator(arg string) (Locator, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Locator{}, &InvalidLocatorError{Value: arg, Reason: "empty"}
	}

	if info, err := os.Stat(arg); err == nil {
		if !info.IsDir() {
			return Locator{}, &InvalidLocatorError{Value: arg, Reason: "not a directory"}
		}
		abs, absErr := filepath.Abs(arg)
		if absErr != nil {
			return Locator{}, fmt.Errorf("resolving %s: %w", arg, absErr)
		}
		return Local(abs), nil
	}

	if strings.Contains(arg, "://") || strings.HasPrefix(strings.ToLower(arg), "github.com/") {
		return ParseGitHubURL(arg)
	}

	return Locator{}, &InvalidLocatorError{Value: arg, Reason: "no such directory"}
}

// ParseGitHubURL parses https://github.com/<owner>/<repo>[.git][/tree/<ref>].
// A scheme-less "github.com/<owner>/<repo>" is accepted as well.
func ParseGitHubURL(raw string) (Locator, error) {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return Locator{}, &InvalidLocatorError{Value: raw, Reason: err.Error()}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Locator{}, &InvalidLocatorError{Value: raw, Reason: "unsupported scheme " + u.Scheme}
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return Locator{}, &InvalidLocatorError{Value: raw, Reason: "not a github.com URL"}
	}

	segs := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segs) < 2 {
		return Locator{}, &InvalidLocatorError{Value: raw, Reason: "expected /<owner>/<repo>"}
	}

	owner := segs[0]
	name := strings.TrimSuffix(segs[1], ".git")
	if owner == "" || name == "" {
		return Locator{}, &InvalidLocatorError{Value: raw, Reason: "expected /<owner>/<repo>"}
	}

	var ref string
	if len(segs) >= 4 && segs[2] == "tree" {
		ref = strings.Join(segs[3:], "/")
	}

	return Remote(owner, name, ref), nil
}

// Kind returns whether the locator is local or remote.
func (l Locator) Kind() LocatorKind { return l.kind }

// IsLocal reports whether the locator names a local directory.
func (l Locator) IsLocal() bool { return l.kind == LocatorLocal && l.path != "" }

// IsRemote reports whether the locator names a GitHub repository.
func (l Locator) IsRemote() bool { return l.kind == LocatorRemote && l.owner != "" }

// Path returns the local directory, or "" for remote locators.
func (l Locator) Path() string { return l.path }

// Owner returns the repository owner, or "" for local locators.
func (l Locator) Owner() string { return l.owner }

// Name returns the repository name for remote locators and the directory
// base name for local ones.
func (l Locator) Name() string {
	if l.kind == LocatorLocal {
		return filepath.Base(l.path)
	}
	return l.name
}

// Ref returns the branch, tag or commit for remote locators. Empty means the
// default branch.
func (l Locator) Ref() string { return l.ref }

// CloneURL returns the HTTPS clone URL of a remote locator.
func (l Locator) CloneURL() string {
	if !l.IsRemote() {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", l.owner, l.name)
}

// String renders the locator the way a user would type it.
func (l Locator) String() string {
	switch {
	case l.IsRemote() && l.ref != "":
		return fmt.Sprintf("https://github.com/%s/%s/tree/%s", l.owner, l.name, l.ref)
	case l.IsRemote():
		return fmt.Sprintf("https://github.com/%s/%s", l.owner, l.name)
	default:
		return l.path
	}
}

// String returns "local" or "remote".
func (k LocatorKind) String() string {
	if k == LocatorRemote {
		return "remote"
	}
	return "local"
}
