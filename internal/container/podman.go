// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// PodmanEngine implements the Engine interface using Podman CLI.
// It embeds BaseCLIEngine for common CLI operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a Podman engine running the binary at path.
func NewPodmanEngine(path string, opts ...BaseCLIEngineOption) *PodmanEngine {
	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypePodman))}, opts...)
	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get podman version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageExists uses `podman image exists`, which exits 1 for a missing image.
// Any other failure is returned as an error.
func (e *PodmanEngine) ImageExists(ctx context.Context, tag string) (bool, error) {
	err := e.CreateCommand(ctx, "image", "exists", tag).Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("podman image exists %s: %w", tag, err)
}
