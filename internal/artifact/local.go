// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// skippedDirs are never descended into when listing a local project.
var skippedDirs = []string{".git", ".hg", ".svn", "node_modules", "venv", ".venv", "__pycache__", ".tox", ".mypy_cache"}

// LocalReader reads artifacts from a directory on disk. Reads are confined to
// the root; names that escape it are reported as not found.
type LocalReader struct {
	root string
}

// NewLocalReader returns a reader rooted at dir, which must exist.
func NewLocalReader(dir string) (*LocalReader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &InvalidLocatorError{Value: dir, Reason: "no such directory"}
	}
	if !info.IsDir() {
		return nil, &InvalidLocatorError{Value: dir, Reason: "not a directory"}
	}
	return &LocalReader{root: abs}, nil
}

// Locator returns the local locator for the reader root.
func (r *LocalReader) Locator() Locator { return Local(r.root) }

// Root returns the absolute project directory.
func (r *LocalReader) Root() string { return r.root }

// Read returns the named file's contents.
func (r *LocalReader) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NotFoundError{Name: name, Reason: ReasonIO, Cause: err}
	}

	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return nil, &NotFoundError{Name: name, Reason: ReasonOutsideRoot}
	}
	full := filepath.Join(r.root, rel)

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name, Reason: ReasonMissing}
		}
		return nil, &NotFoundError{Name: name, Reason: ReasonIO, Cause: err}
	}
	if info.IsDir() {
		return nil, &NotFoundError{Name: name, Reason: ReasonMissing}
	}
	if info.Size() > maxArtifactBytes {
		return nil, &NotFoundError{Name: name, Reason: ReasonTooLarge}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &NotFoundError{Name: name, Reason: ReasonIO, Cause: err}
	}
	return data, nil
}

// List walks the project tree in lexical order, skipping VCS metadata,
// virtual environments and caches.
func (r *LocalReader) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped rather than failing the listing.
			if d != nil && d.IsDir() && path != r.root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == r.root {
			return nil
		}
		if d.IsDir() {
			if slices.Contains(skippedDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // Unrelatable paths are skipped.
		}
		var size int64
		if info, infoErr := d.Info(); infoErr == nil {
			size = info.Size()
		}
		entries = append(entries, Entry{Path: filepath.ToSlash(rel), Size: size})
		return nil
	})
	if err != nil {
		return nil, &NotFoundError{Name: ".", Reason: ReasonIO, Cause: err}
	}
	return entries, nil
}
