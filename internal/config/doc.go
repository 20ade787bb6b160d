// SPDX-License-Identifier: MPL-2.0

// Package config resolves the validation parameter set.
//
// Three layers are merged with viper in fixed precedence: built-in defaults,
// the [Validations] table of a TOML config file, and flags the user passed
// explicitly on the command line. The resolved Params value is immutable and
// handed to the recipe renderer and the command builder.
package config
