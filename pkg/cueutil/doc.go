// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation helpers.
//
// Configuration files are decoded by their native parser first (TOML for the
// validation config) and then checked against an embedded CUE definition:
//
//	//go:embed config_schema.cue
//	var schema string
//
//	if err := cueutil.Validate(schema, "#Config", decoded, "validation.toml"); err != nil {
//	    return err // error text carries the offending field path
//	}
package cueutil
