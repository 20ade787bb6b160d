// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// DefaultWaitDelay bounds how long Execute waits for the engine to exit after
// the context is canceled and SIGTERM was sent.
const DefaultWaitDelay = 10 * time.Second

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides process handling shared by the CLI engines.
	BaseCLIEngine struct {
		name        string
		binaryPath  string
		execCommand ExecCommandFunc
		waitDelay   time.Duration
	}
)

// WithName sets the engine name used in vectors and error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.waitDelay = d
	}
}

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		waitDelay:   DefaultWaitDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// CreateCommand creates an exec.Cmd running the engine binary with args.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// RunCommandStatus executes a command and returns only the error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}

	return out.String(), nil
}

// Execute runs vector synchronously. vector[0] must be the engine name; the
// remaining tokens are passed to the resolved binary unchanged. When ctx is
// canceled the engine receives SIGTERM and is given the configured wait
// delay to exit.
func (e *BaseCLIEngine) Execute(ctx context.Context, phase Phase, vector []string, streams Streams) error {
	if len(vector) == 0 || vector[0] != e.name {
		return fmt.Errorf("%w: %q does not start with %q", ErrInvalidVector, vector, e.name)
	}

	cmd := e.CreateCommand(ctx, vector[1:]...)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.waitDelay

	err := cmd.Run()
	if err == nil {
		return nil
	}

	execErr := &EngineExecutionError{
		Engine:   e.name,
		Phase:    phase,
		ExitCode: -1,
		Vector:   vector,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
	} else {
		execErr.Err = err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		execErr.Err = ctxErr
	}
	return executionError(execErr)
}
