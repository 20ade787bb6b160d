// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name.
	AppName = "validation"
	// ConfigFileName is the config file name looked up in the config directory
	// and in the working directory.
	ConfigFileName = "validation.toml"
)

// configDirOverride allows tests to bypass the XDG lookup.
var configDirOverride string

// ConfigDir returns $XDG_CONFIG_HOME/validation, or the platform equivalent
// resolved by adrg/xdg.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SetConfigDirOverride points ConfigDir at dir. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}
