// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

var (
	// buildManifestKeys are the pyproject.toml key paths consulted, in order.
	buildManifestKeys = [][]string{
		{"project", "requires-python"},
		{"tool", "poetry", "dependencies", "python"},
		{"tool", "poetry", "python"},
		{"tool", "pdm", "requires-python"},
	}

	pipfileVersionPattern     = regexp.MustCompile(`python_version\s*=\s*['"]([^'"]+)['"]`)
	pipfileFullVersionPattern = regexp.MustCompile(`python_full_version\s*=\s*['"]([^'"]+)['"]`)
)

// fromBuildManifest decodes pyproject.toml and reduces the first declared
// interpreter requirement.
func fromBuildManifest(content []byte) (pyversion.Token, *Diagnostic) {
	doc, err := decodeTOML(content)
	if err != nil {
		return "", parseFailure(err)
	}

	for _, keys := range buildManifestKeys {
		v, ok := lookup(doc, keys...)
		if !ok {
			continue
		}
		expr, ok := requirementString(v)
		if !ok {
			return "", noVersion("%s is not a string", strings.Join(keys, "."))
		}
		return reduce(expr)
	}
	return "", noVersion("no python requirement declared")
}

// fromPipfile reads [requires] python_version (or python_full_version).
// Files that are not valid TOML are scanned with a regex instead.
func fromPipfile(content []byte) (pyversion.Token, *Diagnostic) {
	if doc, err := decodeTOML(content); err == nil {
		for _, key := range []string{"python_version", "python_full_version"} {
			if v, ok := lookup(doc, "requires", key); ok {
				if s, ok := v.(string); ok {
					return exact(s)
				}
			}
		}
		return "", noVersion("no [requires] python_version")
	}

	if m := pipfileVersionPattern.FindSubmatch(content); m != nil {
		return exact(string(m[1]))
	}
	if m := pipfileFullVersionPattern.FindSubmatch(content); m != nil {
		return exact(string(m[1]))
	}
	return "", noVersion("no python_version")
}

func decodeTOML(content []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(content, &doc); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, err
	}
	return doc, nil
}

// lookup walks nested TOML tables.
func lookup(doc map[string]any, keys ...string) (any, bool) {
	var cur any = doc
	for _, k := range keys {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = table[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// requirementString accepts a plain string or a Poetry-style
// { version = "..." } table.
func requirementString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case map[string]any:
		s, ok := t["version"].(string)
		return s, ok
	default:
		return "", false
	}
}
