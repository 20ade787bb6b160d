// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Resolve merges defaults, the optional file layer and the explicit CLI layer
// (later wins) into a validated Params. A nil file layer means no config file
// was found. The CLI layer must only contain flags the user actually passed;
// lists from a higher layer replace lower lists entirely. A leading "~/" in
// host path parameters is expanded.
func Resolve(defaults Params, file, cli Layer) (Params, error) {
	v := viper.New()

	for key, value := range defaults.Layer() {
		v.SetDefault(key, value)
	}

	if file != nil {
		if err := file.checkKeys(); err != nil {
			return Params{}, &ConfigError{Op: "resolve parameters", Err: err}
		}
		if err := v.MergeConfigMap(map[string]any(file)); err != nil {
			return Params{}, &ConfigError{Op: "resolve parameters", Err: err}
		}
	}

	if err := cli.checkKeys(); err != nil {
		return Params{}, &ConfigError{Op: "resolve parameters", Err: err}
	}
	for key, value := range cli {
		v.Set(key, value)
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, &ConfigError{Op: "decode parameters", Err: err}
	}

	p.ExtraPackages = normalizeList(p.ExtraPackages)
	p.Volumes = normalizeList(p.Volumes)
	p.Command = nil
	p = expandHomePaths(p)

	if err := p.Validate(); err != nil {
		return Params{}, &ConfigError{Op: "validate parameters", Err: err}
	}

	return p, nil
}

func expandHomePaths(p Params) Params {
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}

	for _, field := range []*string{&p.Keyfile, &p.LogPath, &p.ValidationLogDir, &p.CommunityDir, &p.RecipeTemplate} {
		switch {
		case *field == "~":
			*field = home
		case strings.HasPrefix(*field, "~/"):
			*field = filepath.Join(home, (*field)[2:])
		}
	}
	return p
}
