// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"validation-cli/internal/config"
	"validation-cli/internal/container"
	"validation-cli/internal/recipe"

	"github.com/spf13/afero"
)

// In-container paths, relative to the home directory of the image user.
const (
	KeyfileTarget       = "containerhost_private_key"
	RepositoryTarget    = "validation-repository"
	InventoryTarget     = "inventory.yaml"
	LogFileTarget       = "validations.log"
	ValidationLogTarget = "validations"
	CommunityTarget     = "community-validations"
)

// Environment variables read by the image entrypoint.
const (
	EnvRepository     = "VALIDATION_REPOSITORY"
	EnvInventory      = "INVENTORY"
	EnvBranch         = "VALIDATION_BRANCH"
	EnvValidations    = "VALIDATIONS"
	EnvCallback       = "ANSIBLE_STDOUT_CALLBACK"
	EnvForceColor     = "ANSIBLE_FORCE_COLOR"
	EnvGroup          = "VALIDATION_GROUP"
	EnvHost           = "VALIDATION_HOST"
	EnvVerbosity      = "ANSIBLE_VERBOSITY"
	EnvAction         = "ACTION"
	debugVerbosity    = "3"
	forceColorEnabled = "true"
)

type (
	// Rule contributes the tokens of one conditional decision.
	Rule func(*state) ([]string, error)

	state struct {
		fs     afero.Fs
		action config.Action
		params config.Params
	}
)

// defaultRules is the fixed order of the run vector.
var defaultRules = []Rule{
	baseRule,
	keyfileRule,
	repositoryRule,
	inventoryRule,
	logRule,
	auxDirsRule,
	volumesRule,
	envRule,
	targetRule,
}

// target returns the in-container path of name for the image user.
func (s *state) target(name string) string {
	return path.Join("/home", s.params.User, name)
}

func mount(host, target string, readOnly bool) []string {
	return []string{"-v", container.FormatVolumeMount(container.VolumeMount{
		HostPath:      host,
		ContainerPath: target,
		ReadOnly:      readOnly,
		SELinux:       container.SELinuxLabelShared,
	})}
}

func env(key, value string) string {
	return "--env=" + key + "=" + value
}

func absPath(key, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &config.ConfigError{Op: "resolve path", Path: p, Key: key, Err: err}
	}
	return abs, nil
}

func baseRule(s *state) ([]string, error) {
	mode := "--rm"
	if s.params.Interactive {
		mode = "-ti"
	}
	return []string{string(s.params.Engine), "run", mode}, nil
}

func keyfileRule(s *state) ([]string, error) {
	keyfile, err := absPath(config.KeyKeyfile, s.params.Keyfile)
	if err != nil {
		return nil, err
	}
	if _, statErr := s.fs.Stat(keyfile); statErr != nil {
		slog.Warn("keyfile not found, the engine will fail to mount it", "path", keyfile)
	}
	return mount(keyfile, s.target(KeyfileTarget), true), nil
}

// repositoryRule mounts a local checkout or passes a remote URL, never both.
func repositoryRule(s *state) ([]string, error) {
	repo := s.params.Repository
	if repo == "" {
		return nil, nil
	}

	isDir, err := afero.IsDir(s.fs, repo)
	if err != nil || !isDir {
		return []string{env(EnvRepository, repo)}, nil
	}

	abs, err := absPath(config.KeyRepository, repo)
	if err != nil {
		return nil, err
	}
	return mount(abs, s.target(RepositoryTarget), false), nil
}

// inventoryRule mounts an inventory file, or passes any other non-empty
// value (inline inventory or a host list) through the environment.
func inventoryRule(s *state) ([]string, error) {
	inv := s.params.Inventory
	if inv == "" {
		return nil, nil
	}

	if info, err := s.fs.Stat(inv); err == nil && info.Mode().IsRegular() {
		abs, err := absPath(config.KeyInventory, inv)
		if err != nil {
			return nil, err
		}
		return mount(abs, s.target(InventoryTarget), false), nil
	}
	return []string{env(EnvInventory, inv)}, nil
}

// logRule creates the log file and its parents so the engine bind-mounts a
// file rather than creating a directory in its place.
func logRule(s *state) ([]string, error) {
	if s.params.LogPath == "" {
		return nil, nil
	}

	logPath, err := absPath(config.KeyLogPath, s.params.LogPath)
	if err != nil {
		return nil, err
	}
	prepErr := func(err error) error {
		return &config.ConfigError{Op: "prepare log file", Path: logPath, Key: config.KeyLogPath, Err: err}
	}

	if err := s.fs.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, prepErr(err)
	}

	info, err := s.fs.Stat(logPath)
	switch {
	case err == nil && info.IsDir():
		return nil, prepErr(errors.New("path is a directory"))
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("creating log file", "path", logPath)
		f, createErr := s.fs.OpenFile(logPath, os.O_CREATE|os.O_WRONLY, 0o644)
		if createErr != nil {
			return nil, prepErr(createErr)
		}
		if closeErr := f.Close(); closeErr != nil {
			return nil, prepErr(closeErr)
		}
	case err != nil:
		return nil, prepErr(err)
	}

	return mount(logPath, s.target(LogFileTarget), false), nil
}

// auxDirsRule mounts the validation log and community validation
// directories, creating them when missing. A path occupied by a regular file
// is skipped.
func auxDirsRule(s *state) ([]string, error) {
	var out []string
	for _, dir := range []struct {
		key, path, target string
	}{
		{config.KeyValidationLogDir, s.params.ValidationLogDir, ValidationLogTarget},
		{config.KeyCommunityDir, s.params.CommunityDir, CommunityTarget},
	} {
		if dir.path == "" {
			continue
		}
		abs, err := absPath(dir.key, dir.path)
		if err != nil {
			return nil, err
		}

		info, err := s.fs.Stat(abs)
		switch {
		case err == nil && !info.IsDir():
			slog.Debug("not mounting, path is not a directory", "key", dir.key, "path", abs)
			continue
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("creating directory", "key", dir.key, "path", abs)
			if mkErr := s.fs.MkdirAll(abs, 0o755); mkErr != nil && !errors.Is(mkErr, fs.ErrExist) {
				return nil, &config.ConfigError{Op: "prepare mount", Path: abs, Key: dir.key, Err: mkErr}
			}
		case err != nil:
			return nil, &config.ConfigError{Op: "prepare mount", Path: abs, Key: dir.key, Err: err}
		}

		out = append(out, mount(abs, s.target(dir.target), false)...)
	}
	return out, nil
}

// volumesRule appends every user volume verbatim, in order.
func volumesRule(s *state) ([]string, error) {
	var out []string
	for _, vol := range s.params.Volumes {
		if strings.TrimSpace(vol) == "" {
			continue
		}
		if _, err := container.ParseVolumeMount(vol); err != nil {
			slog.Warn("volume does not look like host:container[:options], passing it through", "volume", vol, "error", err)
		}
		out = append(out, "-v", vol)
	}
	return out, nil
}

func envRule(s *state) ([]string, error) {
	p := s.params
	out := []string{env(EnvBranch, p.Branch)}
	if p.Validations != "" {
		out = append(out, env(EnvValidations, p.Validations))
	}
	if p.Callback != "" {
		out = append(out, env(EnvCallback, p.Callback), env(EnvForceColor, forceColorEnabled))
	}
	if p.Group != "" {
		out = append(out, env(EnvGroup, p.Group))
	}
	if p.Host != "" {
		out = append(out, env(EnvHost, p.Host))
	}
	if p.Debug {
		out = append(out, env(EnvVerbosity, debugVerbosity))
	}
	return append(out, env(EnvAction, s.action.String())), nil
}

// targetRule ends the vector. Outside interactive mode the image runs the
// action dispatcher, which receives any trailing arguments. Interactive runs
// start the image entrypoint and drop trailing arguments.
func targetRule(s *state) ([]string, error) {
	out := []string{"--network=" + s.params.Network, s.params.ImageTag}
	if s.params.Interactive {
		return out, nil
	}
	out = append(out, recipe.DispatcherName)
	return append(out, s.params.Command...), nil
}
