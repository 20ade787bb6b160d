// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"strings"
)

// DockerEngine implements the Engine interface using Docker CLI.
// It embeds BaseCLIEngine for common CLI operations.
type DockerEngine struct {
	*BaseCLIEngine
}

// NewDockerEngine creates a Docker engine running the binary at path.
func NewDockerEngine(path string, opts ...BaseCLIEngineOption) *DockerEngine {
	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypeDocker))}, opts...)
	return &DockerEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Version returns the Docker server version.
func (e *DockerEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Server.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get docker version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageExists checks if an image exists. Docker has no dedicated command, so
// a failed inspect means the image is missing.
func (e *DockerEngine) ImageExists(ctx context.Context, tag string) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "inspect", tag)
	return err == nil, nil
}
