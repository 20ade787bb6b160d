// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"

	// ActionNone means no action flag was set; only an optional build runs.
	ActionNone Action = ""
	// ActionRun runs the selected validations.
	ActionRun Action = "run"
	// ActionList lists the validations available inside the image.
	ActionList Action = "list"
	// ActionInventoryPing checks connectivity to every inventory host.
	ActionInventoryPing Action = "inventory-ping"
	// ActionBuildOnly builds the image and stops.
	ActionBuildOnly Action = "build-only"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidUID is the sentinel error wrapped by InvalidUIDError.
	ErrInvalidUID = errors.New("invalid uid")
	// ErrInvalidUser is the sentinel error wrapped by InvalidUserError.
	ErrInvalidUser = errors.New("invalid user name")
	// ErrMissingValue is the sentinel error wrapped by MissingValueError.
	ErrMissingValue = errors.New("missing required value")
	// ErrInvalidParams is the sentinel error wrapped by InvalidParamsError.
	ErrInvalidParams = errors.New("invalid parameters")

	userNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// Action is the single operation dispatched after the optional build.
	Action string

	// InvalidUIDError is returned for a negative uid.
	InvalidUIDError struct {
		Value int
	}

	// InvalidUserError is returned when the user name cannot be used as a
	// login name inside the image.
	InvalidUserError struct {
		Value string
	}

	// MissingValueError is returned when a required key resolved to an empty
	// or multi-line value.
	MissingValueError struct {
		Key string
	}

	// InvalidParamsError collects every field error found by Params.Validate.
	InvalidParamsError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// Validate returns an error if the ContainerEngine is not podman or docker.
func (ce ContainerEngine) Validate() error {
	switch ce {
	case ContainerEnginePodman, ContainerEngineDocker:
		return nil
	default:
		return &InvalidContainerEngineError{Value: ce}
	}
}

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the action name passed to the container as ACTION.
func (a Action) String() string { return string(a) }

// Error implements the error interface.
func (e *InvalidUIDError) Error() string {
	return fmt.Sprintf("invalid uid %d: must be a non-negative integer", e.Value)
}

// Unwrap returns ErrInvalidUID for errors.Is() compatibility.
func (e *InvalidUIDError) Unwrap() error { return ErrInvalidUID }

// Error implements the error interface.
func (e *InvalidUserError) Error() string {
	return fmt.Sprintf("invalid user name %q: must match %s", e.Value, userNamePattern.String())
}

// Unwrap returns ErrInvalidUser for errors.Is() compatibility.
func (e *InvalidUserError) Unwrap() error { return ErrInvalidUser }

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s must be a non-empty single-line value", e.Key)
}

// Unwrap returns ErrMissingValue for errors.Is() compatibility.
func (e *MissingValueError) Unwrap() error { return ErrMissingValue }

// Error implements the error interface.
func (e *InvalidParamsError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the sentinel and each field error.
func (e *InvalidParamsError) Unwrap() []error {
	return append([]error{ErrInvalidParams}, e.FieldErrors...)
}

// ValidUserName reports whether name can be used as the in-image login.
func ValidUserName(name string) bool {
	return userNamePattern.MatchString(name)
}
