// SPDX-License-Identifier: MPL-2.0

package artifact

import "fmt"

// Recognized artifact kinds in cascade order. The numeric value is the rank:
// a lower value always takes precedence over a higher one.
const (
	KindPinFile Kind = iota
	KindRuntimeManifest
	KindBuildManifest
	KindSetupScript
	KindSetupConfig
	KindToxConfig
	KindPipfile
	KindRequirements

	kindCount
)

// Kind identifies a recognized artifact file and its format.
type Kind int

var (
	kindNames = [kindCount]string{
		KindPinFile:         "pin-file",
		KindRuntimeManifest: "runtime-manifest",
		KindBuildManifest:   "build-manifest",
		KindSetupScript:     "setup-script",
		KindSetupConfig:     "setup-config",
		KindToxConfig:       "tox-config",
		KindPipfile:         "lockfile-pipfile",
		KindRequirements:    "requirements-list",
	}

	kindFiles = [kindCount]string{
		KindPinFile:         ".python-version",
		KindRuntimeManifest: "runtime.txt",
		KindBuildManifest:   "pyproject.toml",
		KindSetupScript:     "setup.py",
		KindSetupConfig:     "setup.cfg",
		KindToxConfig:       "tox.ini",
		KindPipfile:         "Pipfile",
		KindRequirements:    "requirements.txt",
	}
)

// Kinds returns every recognized kind in cascade order. The returned slice is
// a fresh copy; callers may not reorder the cascade through it.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := range kindCount {
		out = append(out, k)
	}
	return out
}

// String returns the kind name used in reports (e.g. "pin-file").
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Filename returns the file name read relative to the project root.
func (k Kind) Filename() string {
	if !k.valid() {
		return ""
	}
	return kindFiles[k]
}

// Rank returns the fixed priority of the kind; 0 is the highest priority.
func (k Kind) Rank() int { return int(k) }

// KindByName looks up a kind by its report name.
func KindByName(name string) (Kind, bool) {
	for k := range kindCount {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) valid() bool { return k >= 0 && k < kindCount }
