// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/pysetup/config.cue on Linux
// (~/Library/Application Support/pysetup/config.cue on macOS,
// %APPDATA%\pysetup\config.cue on Windows), or from an explicit path. Every
// file is validated against the embedded #Config schema (config_schema.cue).
// Environment variables prefixed with PYSETUP_ override file values
// (PYSETUP_GITHUB_TOKEN overrides github.token), and .env files are loaded
// into the environment with LoadDotEnv.
package config
