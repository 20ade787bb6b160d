// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

const (
	// EngineTypePodman selects the podman CLI.
	EngineTypePodman EngineType = "podman"
	// EngineTypeDocker selects the docker CLI.
	EngineTypeDocker EngineType = "docker"

	// PhaseBuild is the image build.
	PhaseBuild Phase = "build"
	// PhaseRun runs validations.
	PhaseRun Phase = "run"
	// PhaseList lists validations.
	PhaseList Phase = "list"
	// PhaseInventoryPing checks inventory connectivity.
	PhaseInventoryPing Phase = "inventory-ping"
)

// lookPath resolves engine binaries. Tests replace it.
var lookPath = exec.LookPath

type (
	// EngineType identifies the container engine CLI.
	EngineType string

	// Phase names the orchestration step an engine invocation belongs to.
	Phase string

	// Streams are the stdio handles passed to the engine process. Nil
	// fields are connected to the null device.
	Streams struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Engine is a resolved container engine CLI.
	Engine interface {
		// Name returns the engine name, which is also the first token of
		// every vector the engine accepts.
		Name() string
		// BinaryPath returns the resolved executable.
		BinaryPath() string
		// Version returns the engine version string.
		Version(ctx context.Context) (string, error)
		// ImageExists reports whether tag is present in local storage.
		ImageExists(ctx context.Context, tag string) (bool, error)
		// Execute runs vector and waits for it to exit.
		Execute(ctx context.Context, phase Phase, vector []string, streams Streams) error
	}
)

// String returns the engine name.
func (t EngineType) String() string { return string(t) }

// String returns the phase name.
func (p Phase) String() string { return string(p) }

// NewEngine resolves the binary of engineType on PATH.
func NewEngine(engineType EngineType, opts ...BaseCLIEngineOption) (Engine, error) {
	switch engineType {
	case EngineTypePodman, EngineTypeDocker:
	default:
		return nil, fmt.Errorf("unknown container engine type: %s", engineType)
	}

	path, err := lookPath(string(engineType))
	if err != nil {
		return nil, &EngineNotFoundError{
			Engine: engineType,
			Reason: fmt.Sprintf("%s is not installed or not on PATH", engineType),
			Err:    err,
		}
	}

	if engineType == EngineTypeDocker {
		return NewDockerEngine(path, opts...), nil
	}
	return NewPodmanEngine(path, opts...), nil
}
