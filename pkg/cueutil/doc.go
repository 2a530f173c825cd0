// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing flow shared by configuration loading:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	settings, err := cueutil.Decode[map[string]any](
//	    schema,
//	    data,
//	    "#Config",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return err // *ValidationError lists each problem with its CUE path
//	}
package cueutil
