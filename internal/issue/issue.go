// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	InterpreterUnavailableId Id = iota + 1
	EnvironmentCreationFailedId
	VersionNotDetectedId
	InvalidLocatorId
	CloneFailedId
	ConfigLoadFailedId
	DependencyInstallFailedId
	TestsFailedId
	RemoteAccessFailedId
	HookInstallFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the failure class
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	interpreterUnavailableIssue = &Issue{
		id: InterpreterUnavailableId,
		mdMsg: `
# Python interpreter not found!

The project needs a specific Python version, but no matching
interpreter (e.g. ` + "`python3.11`" + `) is on your PATH.

## Things you can try:
- Download an installer from python.org
- Install it with your package manager:
~~~
$ sudo apt install python3.11 python3.11-venv   # Debian/Ubuntu
$ brew install python@3.11                      # macOS
~~~

- Or manage versions with pyenv:
~~~
$ pyenv install 3.11
$ pyenv local 3.11
~~~

- Override the detected version:
~~~
$ pysetup setup --python 3.12 .
~~~`,
		extLinks: []HttpLink{"https://www.python.org/downloads/", "https://github.com/pyenv/pyenv"},
	}

	environmentCreationFailedIssue = &Issue{
		id: EnvironmentCreationFailedId,
		mdMsg: `
# Virtual environment could not be created!

The interpreter was found, but ` + "`python -m venv`" + ` did not produce a usable
environment (the activation script or pip is missing).

## Things you can try:
- Install the venv module for your interpreter:
~~~
$ sudo apt install python3.11-venv
~~~

- Remove a half-created environment and retry:
~~~
$ rm -rf venv
$ pysetup setup .
~~~

- Use a different directory name via ` + "`provision.venv_dir`" + ` in your config`,
		docLinks: []HttpLink{"https://docs.python.org/3/library/venv.html"},
	}

	versionNotDetectedIssue = &Issue{
		id: VersionNotDetectedId,
		mdMsg: `
# Python version could not be detected!

None of the recognized files declare a version, and no source file has a
versioned shebang.

## Files consulted (in order):
1. .python-version
2. runtime.txt
3. pyproject.toml
4. setup.py
5. setup.cfg
6. tox.ini
7. Pipfile
8. requirements.txt

## Things you can try:
- Pass the version explicitly:
~~~
$ pysetup setup --python 3.11 .
~~~

- Pin it for everyone:
~~~
$ echo 3.11 > .python-version
~~~`,
	}

	invalidLocatorIssue = &Issue{
		id: InvalidLocatorId,
		mdMsg: `
# Not a project directory or GitHub URL!

The argument must be an existing directory or a repository URL such as
` + "`https://github.com/owner/repo`" + `.

## Things you can try:
- Check the path for typos
- Use the full repository URL, optionally with a branch:
~~~
$ pysetup detect https://github.com/psf/requests/tree/main
~~~`,
	}

	cloneFailedIssue = &Issue{
		id: CloneFailedId,
		mdMsg: `
# Repository could not be cloned!

## Things you can try:
- Check that the repository exists and is public
- For private repositories, export a token:
~~~
$ export GITHUB_TOKEN=ghp_...
~~~

- Remove a stale target directory or pick another one:
~~~
$ pysetup setup --path /tmp/checkout https://github.com/owner/repo
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be loaded.

## Things you can try:
- Check the CUE syntax in your config file
- Show where the file is expected:
~~~
$ pysetup config path
~~~

- Reset to defaults by recreating the file:
~~~
$ pysetup config init
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	dependencyInstallFailedIssue = &Issue{
		id: DependencyInstallFailedId,
		mdMsg: `
# Dependencies failed to install!

The virtual environment was created, but installing the project
dependencies failed. The installer output is shown above.

## Things you can try:
- Check whether a dependency needs system libraries (headers, compilers)
- Upgrade the installer tooling and retry:
~~~
$ venv/bin/pip install --upgrade pip wheel setuptools
~~~

- Try a different Python version with ` + "`--python`",
		docLinks: []HttpLink{"https://pip.pypa.io/en/stable/cli/pip_install/"},
	}

	testsFailedIssue = &Issue{
		id: TestsFailedId,
		mdMsg: `
# Tests failed!

The environment is ready, but the project's test suite reported failures.

## Things you can try:
- Re-run the suite yourself:
~~~
$ venv/bin/python -m unittest discover tests
~~~

- Check whether the tests need extra services or environment variables`,
	}

	remoteAccessFailedIssue = &Issue{
		id: RemoteAccessFailedId,
		mdMsg: `
# GitHub could not be reached!

Some files could not be read from the repository because of an
authentication, rate limit or network problem.

## Things you can try:
- Authenticate to raise the rate limit from 60 to 5000 requests per hour:
~~~
$ export GITHUB_TOKEN=ghp_...
~~~

- Check your network or proxy settings`,
		extLinks: []HttpLink{"https://docs.github.com/en/rest/using-the-rest-api/rate-limits-for-the-rest-api"},
	}

	hookInstallFailedIssue = &Issue{
		id: HookInstallFailedId,
		mdMsg: `
# Git hook could not be installed!

## Things you can try:
- Check that ` + "`.git/hooks`" + ` is writable
- Check whether another tool manages hooks for this repository
  (e.g. ` + "`core.hooksPath`" + `)`,
	}

	issues = map[Id]*Issue{
		interpreterUnavailableIssue.Id():    interpreterUnavailableIssue,
		environmentCreationFailedIssue.Id(): environmentCreationFailedIssue,
		versionNotDetectedIssue.Id():        versionNotDetectedIssue,
		invalidLocatorIssue.Id():            invalidLocatorIssue,
		cloneFailedIssue.Id():               cloneFailedIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		dependencyInstallFailedIssue.Id():   dependencyInstallFailedIssue,
		testsFailedIssue.Id():               testsFailedIssue,
		remoteAccessFailedIssue.Id():        remoteAccessFailedIssue,
		hookInstallFailedIssue.Id():         hookInstallFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(slices.Values(maps.Keys(issues))) {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
