// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
)

// ErrConfig is the sentinel matched by every ConfigError.
var ErrConfig = errors.New("configuration error")

// ConfigError reports a config file that cannot be read or decoded, a
// parameter that fails validation, or a host path that cannot be prepared
// for mounting. It matches ErrConfig and its cause with errors.Is.
//
//nolint:revive // config.ConfigError reads better at call sites than config.Error
type ConfigError struct {
	// Op is what was being attempted ("parse config", "prepare mount").
	Op string
	// Path is the file or directory involved, if any.
	Path string
	// Key is the parameter key involved, if any.
	Key string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Path != "" {
		sb.WriteString(" " + e.Path)
	}
	if e.Key != "" {
		sb.WriteString(": " + e.Key)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both ErrConfig and the cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}
