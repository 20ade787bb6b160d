// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"validation-cli/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
)

// SectionName is the TOML table holding the parameter set.
const SectionName = "Validations"

//go:embed config_schema.cue
var configSchema string

// LoadFile reads the [Validations] table of a TOML config file and returns it
// as a layer. List values are split back into slices. Unreadable files,
// invalid TOML and schema violations (unknown keys, a non-integer uid, an
// unknown engine) are reported as *ConfigError.
func LoadFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Op: "read config", Path: path, Err: err}
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &ConfigError{Op: "read config", Path: path, Err: err}
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			err = fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, &ConfigError{Op: "parse config", Path: path, Err: err}
	}

	if err := cueutil.Validate(configSchema, "#Config", doc, path); err != nil {
		return nil, &ConfigError{Op: "validate config", Path: path, Err: err}
	}

	section, _ := doc[SectionName].(map[string]any)
	return decodeSection(section), nil
}

// Save writes layer into the [Validations] table of the TOML file at path.
// Keys absent from layer keep their current value and other tables are left
// untouched. Lists are stored joined with ListDelimiter.
func Save(path string, layer Layer) error {
	if err := layer.checkKeys(); err != nil {
		return &ConfigError{Op: "save config", Path: path, Err: err}
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return &ConfigError{Op: "parse config", Path: path, Err: err}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return &ConfigError{Op: "read config", Path: path, Err: err}
	}

	section, _ := doc[SectionName].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	for key, value := range encodeLayer(layer) {
		section[key] = value
	}
	doc[SectionName] = section

	out, err := toml.Marshal(doc)
	if err != nil {
		return &ConfigError{Op: "encode config", Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &ConfigError{Op: "create config directory", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return &ConfigError{Op: "write config", Path: path, Err: err}
	}
	return nil
}

// Export writes the pre-merge layer (defaults overlaid with explicit flags)
// to path. Values coming from an existing config file are not included, and
// neither are the action keys, so the file never triggers an action by itself.
func Export(path string, defaults Params, cli Layer) error {
	layer := defaults.Layer().Merge(cli)
	for _, key := range ActionKeys {
		delete(layer, key)
	}
	return Save(path, layer)
}

func decodeSection(section map[string]any) Layer {
	layer := make(Layer, len(section))
	for key, value := range section {
		if kind, _ := KindOf(key); kind == KindList {
			joined, _ := value.(string)
			layer[key] = SplitList(key, joined)
			continue
		}
		layer[key] = value
	}
	return layer
}

func encodeLayer(layer Layer) map[string]any {
	out := make(map[string]any, len(layer))
	for key, value := range layer {
		switch v := value.(type) {
		case []string:
			out[key] = JoinList(v)
		case int:
			out[key] = int64(v)
		case ContainerEngine:
			out[key] = string(v)
		default:
			out[key] = v
		}
	}
	return out
}
