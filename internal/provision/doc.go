// SPDX-License-Identifier: MPL-2.0

// Package provision prepares a local Python project for development once its
// interpreter version is known.
//
// Provision runs a fixed pipeline of stages and records one Outcome per stage:
//
//	interpreter-check   pythonX.Y --version must report X.Y
//	env-create          pythonX.Y -m venv <project>/venv
//	dependency-install  requirements.txt, pyproject.toml (poetry or PEP 517) or setup.py
//	hook-install        optional pre-commit hook running the unit tests
//	test-run            optional unittest discovery under tests/
//
// The first two stages are terminal: when they fail the pipeline stops. Later
// failures are recorded and the pipeline continues. Provision never returns an
// error; failed outcomes carry an *issue.ActionableError in Outcome.Err.
//
//	p := provision.New(runtime.NewNativeRunner(), provision.WithUpgradePip(true))
//	outcomes := p.Provision(ctx, provision.Request{ProjectDir: dir, Version: "3.11"})
package provision
