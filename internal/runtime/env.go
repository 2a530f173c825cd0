// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"strings"
)

// VirtualEnv returns base with the variables an activated virtual environment
// would set: VIRTUAL_ENV points at venvDir, binDir is prepended to PATH and
// PYTHONHOME is removed. A nil base means the current process environment.
func VirtualEnv(base []string, venvDir, binDir string) []string {
	if base == nil {
		base = os.Environ()
	}

	out := make([]string, 0, len(base)+2)
	path := ""
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch strings.ToUpper(key) {
		case "PYTHONHOME", "VIRTUAL_ENV":
			continue
		case "PATH":
			path = value
			continue
		}
		out = append(out, kv)
	}

	if path == "" {
		path = binDir
	} else {
		path = binDir + string(filepath.ListSeparator) + path
	}
	return append(out, "VIRTUAL_ENV="+venvDir, "PATH="+path)
}

// LookupEnv returns the value of key in env, the last assignment winning.
func LookupEnv(env []string, key string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			value, found = v, true
		}
	}
	return value, found
}
