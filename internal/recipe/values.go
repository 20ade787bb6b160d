// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"slices"
	"strings"

	"validation-cli/internal/config"

	"github.com/spf13/afero"
)

const (
	// EntrypointPath is the validation CLI inside the image.
	EntrypointPath = "/usr/local/bin/validation"
	// DispatcherName is the in-image command that runs the action named by
	// the ACTION environment variable.
	DispatcherName = "validation-dispatch"
	// DispatcherPath is where the recipe installs DispatcherName.
	DispatcherPath = "/usr/local/bin/" + DispatcherName
)

type (
	// Values is everything the Containerfile template can reference.
	Values struct {
		Image         string
		User          string
		UID           int
		ExtraPackages []string

		// Repository is set only when the user repository must be cloned
		// at build time. A local checkout is mounted at run time instead.
		Repository *RepositorySource
		// Interactive is set when the image should start the validation
		// shell by default.
		Interactive *Entrypoint
		// Dispatcher is the action script installed into the image. Run
		// vectors name it after the image unless the run is interactive.
		Dispatcher *Script
	}

	// RepositorySource is a remote git repository cloned into the image.
	RepositorySource struct {
		URL    string
		Branch string
	}

	// Entrypoint is the image ENTRYPOINT.
	Entrypoint struct {
		Path string
	}

	// Script is an executable file written into the image.
	Script struct {
		Path string
		Body string
	}
)

// ValuesFrom derives the template values from resolved parameters. A
// repository that is a local directory on fs is not cloned.
func ValuesFrom(fs afero.Fs, p config.Params) Values {
	v := Values{
		Image:         p.Image,
		User:          p.User,
		UID:           p.UID,
		ExtraPackages: slices.Clone(p.ExtraPackages),
		Dispatcher:    &Script{Path: DispatcherPath, Body: dispatchScript},
	}

	if p.Repository != "" {
		if isDir, err := afero.IsDir(fs, p.Repository); err != nil || !isDir {
			v.Repository = &RepositorySource{URL: p.Repository, Branch: p.Branch}
		}
	}
	if p.Interactive {
		v.Interactive = &Entrypoint{Path: EntrypointPath}
	}

	return v
}

// Validate rejects values that would break the recipe structure.
func (v Values) Validate() error {
	if err := requireWord("Image", v.Image); err != nil {
		return err
	}
	if !config.ValidUserName(v.User) {
		return &TemplateError{Placeholder: "User", Err: fmt.Errorf("%w: %q is not a valid user name", ErrInvalidValue, v.User)}
	}
	if v.UID < 0 {
		return &TemplateError{Placeholder: "UID", Err: fmt.Errorf("%w: %d", ErrInvalidValue, v.UID)}
	}
	for _, pkg := range v.ExtraPackages {
		if err := requireWord("ExtraPackages", pkg); err != nil {
			return err
		}
	}
	if v.Repository != nil {
		if err := requireLine("Repository.URL", v.Repository.URL); err != nil {
			return err
		}
		if err := requireLine("Repository.Branch", v.Repository.Branch); err != nil {
			return err
		}
	}
	if v.Interactive != nil {
		if err := requireWord("Interactive.Path", v.Interactive.Path); err != nil {
			return err
		}
	}
	if v.Dispatcher != nil {
		if err := requireWord("Dispatcher.Path", v.Dispatcher.Path); err != nil {
			return err
		}
		if strings.TrimSpace(v.Dispatcher.Body) == "" {
			return &TemplateError{Placeholder: "Dispatcher.Body", Err: fmt.Errorf("%w: empty script", ErrInvalidValue)}
		}
	}
	return nil
}

func requireLine(placeholder, value string) error {
	if strings.TrimSpace(value) == "" || strings.ContainsAny(value, "\r\n\x00") {
		return &TemplateError{Placeholder: placeholder, Err: fmt.Errorf("%w: must be a non-empty single line", ErrInvalidValue)}
	}
	return nil
}

func requireWord(placeholder, value string) error {
	if err := requireLine(placeholder, value); err != nil {
		return err
	}
	if strings.ContainsAny(value, " \t") {
		return &TemplateError{Placeholder: placeholder, Err: fmt.Errorf("%w: %q must not contain whitespace", ErrInvalidValue, value)}
	}
	return nil
}
