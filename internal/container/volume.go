// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SELinuxLabelNone means no SELinux label is applied to volume mounts.
	SELinuxLabelNone SELinuxLabel = ""
	// SELinuxLabelShared allows sharing the volume between containers.
	SELinuxLabelShared SELinuxLabel = "z"
	// SELinuxLabelPrivate restricts the volume to a single container.
	SELinuxLabelPrivate SELinuxLabel = "Z"
)

var (
	// ErrInvalidSELinuxLabel is the sentinel error wrapped by InvalidSELinuxLabelError.
	ErrInvalidSELinuxLabel = errors.New("invalid SELinux label")
	// ErrInvalidVolumeMount is the sentinel error wrapped by InvalidVolumeMountError.
	ErrInvalidVolumeMount = errors.New("invalid volume mount")
)

type (
	// SELinuxLabel represents an SELinux volume labeling option.
	SELinuxLabel string

	// InvalidSELinuxLabelError is returned when an SELinuxLabel is not a recognized label.
	InvalidSELinuxLabelError struct {
		Value SELinuxLabel
	}

	// VolumeMount represents a bind mount passed with -v.
	VolumeMount struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
		SELinux       SELinuxLabel
	}

	// InvalidVolumeMountError is returned when a VolumeMount has one or more invalid fields.
	InvalidVolumeMountError struct {
		Value     VolumeMount
		FieldErrs []error
	}
)

// Validate returns an error if the label is not "", "z" or "Z".
func (s SELinuxLabel) Validate() error {
	switch s {
	case SELinuxLabelNone, SELinuxLabelShared, SELinuxLabelPrivate:
		return nil
	default:
		return &InvalidSELinuxLabelError{Value: s}
	}
}

// Error implements the error interface.
func (e *InvalidSELinuxLabelError) Error() string {
	return fmt.Sprintf("invalid SELinux label %q (valid: z, Z)", e.Value)
}

// Unwrap returns ErrInvalidSELinuxLabel for errors.Is() compatibility.
func (e *InvalidSELinuxLabelError) Unwrap() error { return ErrInvalidSELinuxLabel }

// Validate checks that both paths are set and the label is known.
func (v VolumeMount) Validate() error {
	var errs []error
	if strings.TrimSpace(v.HostPath) == "" {
		errs = append(errs, errors.New("host path must not be empty"))
	}
	if strings.TrimSpace(v.ContainerPath) == "" {
		errs = append(errs, errors.New("container path must not be empty"))
	}
	if err := v.SELinux.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidVolumeMountError{Value: v, FieldErrs: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidVolumeMountError) Error() string {
	return fmt.Sprintf("invalid volume mount %s:%s: %v", e.Value.HostPath, e.Value.ContainerPath, errors.Join(e.FieldErrs...))
}

// Unwrap returns ErrInvalidVolumeMount and the field errors.
func (e *InvalidVolumeMountError) Unwrap() []error {
	return append([]error{ErrInvalidVolumeMount}, e.FieldErrs...)
}

// String returns the mount in -v form.
func (v VolumeMount) String() string {
	return FormatVolumeMount(v)
}

// FormatVolumeMount formats a volume mount as "host:container[:ro][,z]".
func FormatVolumeMount(mount VolumeMount) string {
	var result strings.Builder
	result.WriteString(mount.HostPath)
	result.WriteString(":")
	result.WriteString(mount.ContainerPath)

	var options []string
	if mount.ReadOnly {
		options = append(options, "ro")
	}
	if mount.SELinux != "" {
		options = append(options, string(mount.SELinux))
	}

	if len(options) > 0 {
		result.WriteString(":")
		result.WriteString(strings.Join(options, ","))
	}

	return result.String()
}

// ParseVolumeMount parses "host:container[:options]". Options other than ro,
// z and Z are ignored. The result is validated.
func ParseVolumeMount(volume string) (VolumeMount, error) {
	mount := VolumeMount{}

	parts := strings.SplitN(volume, ":", 3)
	mount.HostPath = parts[0]
	if len(parts) >= 2 {
		mount.ContainerPath = parts[1]
	}
	if len(parts) == 3 {
		for opt := range strings.SplitSeq(parts[2], ",") {
			switch opt {
			case "ro":
				mount.ReadOnly = true
			case "z", "Z":
				mount.SELinux = SELinuxLabel(opt)
			}
		}
	}

	if err := mount.Validate(); err != nil {
		return mount, err
	}
	return mount, nil
}
