// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"validation-cli/internal/issue"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}

	// Source is the file layer found by a Provider. Path is empty and Layer
	// is nil when no config file exists.
	Source struct {
		Path  string
		Layer Layer
	}

	// Provider locates and loads the config file layer.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (Source, error)
	}

	fileProvider struct{}
)

// NewProvider creates a file-backed configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load finds the config file and decodes its [Validations] table. An explicit
// path must exist. Otherwise the config directory is searched first, then
// the working directory, and a missing file is not an error.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (Source, error) {
	select {
	case <-ctx.Done():
		return Source{}, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	path, err := Locate(opts)
	if err != nil || path == "" {
		return Source{}, err
	}

	layer, err := LoadFile(path)
	if err != nil {
		return Source{}, err
	}
	return Source{Path: path, Layer: layer}, nil
}

// Locate returns the config file that Load would read, or "" when there is
// none.
func Locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", &ConfigError{
				Op:   "load config",
				Path: opts.ConfigFilePath,
				Err: issue.NewErrorContext().
					WithOperation("find configuration file").
					WithResource(opts.ConfigFilePath).
					WithSuggestion("Verify the file path is correct").
					WithSuggestion("Create one with 'validation --create-config " + opts.ConfigFilePath + "'").
					Wrap(os.ErrNotExist).
					BuildError(),
			}
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		dir = ConfigDir()
	}
	for _, candidate := range []string{filepath.Join(dir, ConfigFileName), ConfigFileName} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
