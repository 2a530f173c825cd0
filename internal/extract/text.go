// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

const runtimePrefix = "python-"

var (
	setupScriptPattern  = regexp.MustCompile(`python_requires\s*=\s*['"]([^'"]+)['"]`)
	requirementsPattern = regexp.MustCompile(`python[>=]=\s*(\d+\.\d+(?:\.\d+)?)`)
)

// fromPinFile reads .python-version. Blank and comment lines are ignored and
// exactly one line must remain; several versions name no single interpreter.
func fromPinFile(content []byte) (pyversion.Token, *Diagnostic) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	switch len(lines) {
	case 0:
		return "", noVersion("empty pin file")
	case 1:
		return exact(lines[0])
	default:
		return "", &Diagnostic{
			Code:    CodeAmbiguous,
			Message: fmt.Sprintf("pin file lists %d versions: %s", len(lines), strings.Join(lines, ", ")),
		}
	}
}

// fromRuntimeManifest reads "python-X.Y[.Z]" from runtime.txt.
func fromRuntimeManifest(content []byte) (pyversion.Token, *Diagnostic) {
	s := strings.TrimSpace(string(content))
	suffix, ok := strings.CutPrefix(s, runtimePrefix)
	if !ok {
		return "", noVersion("runtime does not start with %q", runtimePrefix)
	}
	return exact(suffix)
}

// fromSetupScript scans setup.py for a quoted python_requires argument.
func fromSetupScript(content []byte) (pyversion.Token, *Diagnostic) {
	m := setupScriptPattern.FindSubmatch(content)
	if m == nil {
		return "", noVersion("no python_requires argument")
	}
	return reduce(string(m[1]))
}

// fromRequirements looks for a "python==X.Y" or "python>=X.Y" line.
func fromRequirements(content []byte) (pyversion.Token, *Diagnostic) {
	m := requirementsPattern.FindSubmatch(content)
	if m == nil {
		return "", noVersion("no python requirement")
	}
	return exact(string(m[1]))
}
