// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"regexp"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/pysetup/pysetup/pkg/pyversion"
)

var (
	setupConfigPattern = regexp.MustCompile(`python_requires\s*=\s*(.+)`)
	toxEnvListPattern  = regexp.MustCompile(`env_?list\s*=\s*(.+)`)
	toxFactorPattern   = regexp.MustCompile(`py(\d+)`)

	iniOptions = ini.LoadOptions{
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}
)

// fromSetupConfig reads python_requires, preferring the [options] section.
func fromSetupConfig(content []byte) (pyversion.Token, *Diagnostic) {
	cfg, err := ini.LoadSources(iniOptions, content)
	if err != nil {
		m := setupConfigPattern.FindSubmatch(content)
		if m == nil {
			return "", parseFailure(err)
		}
		return reduce(string(m[1]))
	}

	if v := iniValue(cfg, "options", "python_requires"); v != "" {
		return reduce(v)
	}
	for _, sec := range cfg.Sections() {
		if !sec.HasKey("python_requires") {
			continue
		}
		if v := strings.TrimSpace(sec.Key("python_requires").String()); v != "" {
			return reduce(v)
		}
	}
	return "", noVersion("no python_requires option")
}

// fromToxConfig derives a version from the first pyNN factor in envlist.
// The first digit is the major version and the rest the minor, so py38 is
// 3.8 and py310 is 3.10.
func fromToxConfig(content []byte) (pyversion.Token, *Diagnostic) {
	var candidates []string
	cfg, err := ini.LoadSources(iniOptions, content)
	if err == nil {
		candidates = append(candidates, iniValue(cfg, "tox", "envlist"), iniValue(cfg, "tox", "env_list"))
	}
	if m := toxEnvListPattern.FindSubmatch(content); m != nil {
		candidates = append(candidates, string(m[1]))
	}

	var envlist string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if envlist == "" {
			envlist = c
		}
		if m := toxFactorPattern.FindStringSubmatch(c); m != nil {
			return splitFactor(m[1])
		}
	}

	switch {
	case envlist != "":
		return "", noVersion("envlist %q names no pyNN environment", strings.TrimSpace(envlist))
	case err != nil:
		return "", parseFailure(err)
	default:
		return "", noVersion("no envlist")
	}
}

func splitFactor(digits string) (pyversion.Token, *Diagnostic) {
	if len(digits) < 2 {
		return "", noVersion("environment py%s carries no minor version", digits)
	}
	return exact(digits[:1] + "." + digits[1:])
}

func iniValue(cfg *ini.File, section, key string) string {
	sec, err := cfg.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return ""
	}
	return strings.TrimSpace(sec.Key(key).String())
}
