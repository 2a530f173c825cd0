// SPDX-License-Identifier: MPL-2.0

// Package runtime runs external processes on behalf of the provisioner.
//
// A Runner executes a Command to completion and returns a Result holding the
// exit code and the captured standard output and error. The only production
// implementation is NativeRunner, which uses os/exec directly without a
// shell. Tests substitute their own Runner.
//
// Environment helpers in env.go build the variables that make a command see a
// virtual environment as active (VIRTUAL_ENV, PATH) without sourcing an
// activation script.
package runtime
