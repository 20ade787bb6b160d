// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

const (
	// DefaultImage is the base image of the validation Containerfile.
	DefaultImage = "fedora:30"
	// DefaultImageTag is the tag the validation image is built and run as.
	DefaultImageTag = "localhost/validation"
	// DefaultBranch is the branch cloned from a remote validation repository.
	DefaultBranch = "master"
	// DefaultNetwork is the container network mode.
	DefaultNetwork = "host"

	fallbackUser = "validation"
	fallbackUID  = 1000
)

// DefaultParams returns the built-in defaults. User, uid and home-relative
// paths are taken from the invoking OS user.
func DefaultParams() Params {
	name, uid := currentUser()
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/root"
	}

	return Params{
		User:             name,
		UID:              uid,
		Keyfile:          filepath.Join(home, ".ssh", "id_rsa"),
		Image:            DefaultImage,
		ExtraPackages:    []string{},
		Branch:           DefaultBranch,
		Engine:           ContainerEnginePodman,
		Volumes:          []string{},
		ValidationLogDir: filepath.Join(home, "validations"),
		CommunityDir:     filepath.Join(home, "community-validations"),
		Network:          DefaultNetwork,
		ImageTag:         DefaultImageTag,
	}
}

func currentUser() (string, int) {
	name, uid := fallbackUser, os.Getuid()
	if uid < 0 {
		uid = fallbackUID
	}

	if u, err := user.Current(); err == nil {
		candidate := strings.ToLower(u.Username)
		if i := strings.LastIndexAny(candidate, `\/`); i >= 0 {
			candidate = candidate[i+1:]
		}
		if ValidUserName(candidate) {
			name = candidate
		}
	}

	return name, uid
}
