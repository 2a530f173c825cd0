// SPDX-License-Identifier: MPL-2.0

package provision

import "path/filepath"

// Layout locates the executables of a virtual environment. POSIX
// environments use bin/, Windows environments use Scripts/ and .exe suffixes.
type Layout struct {
	Root    string
	windows bool
}

// NewLayout returns the layout of the environment rooted at dir for goos.
func NewLayout(dir, goos string) Layout {
	return Layout{Root: dir, windows: goos == "windows"}
}

// BinDir returns the directory holding the environment's executables.
func (l Layout) BinDir() string {
	if l.windows {
		return filepath.Join(l.Root, "Scripts")
	}
	return filepath.Join(l.Root, "bin")
}

// Executable returns the path of a named executable inside the environment.
func (l Layout) Executable(name string) string {
	if l.windows {
		name += ".exe"
	}
	return filepath.Join(l.BinDir(), name)
}

// Python returns the environment's interpreter.
func (l Layout) Python() string { return l.Executable("python") }

// Pip returns the environment's pip.
func (l Layout) Pip() string { return l.Executable("pip") }

// Activate returns the activation script used to verify the environment.
func (l Layout) Activate() string {
	return filepath.Join(l.BinDir(), "activate")
}
