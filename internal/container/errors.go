// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
	"strings"

	"validation-cli/internal/issue"
)

var (
	// ErrNoEngineAvailable is the sentinel matched by EngineNotFoundError.
	ErrNoEngineAvailable = errors.New("no container engine available")
	// ErrEngineExecution is the sentinel matched by EngineExecutionError.
	ErrEngineExecution = errors.New("container engine execution failed")
	// ErrInvalidVector is returned for a vector that does not belong to the
	// engine it is passed to.
	ErrInvalidVector = errors.New("invalid command vector")
)

type (
	// EngineNotFoundError is returned when the engine binary is not on PATH.
	EngineNotFoundError struct {
		Engine EngineType
		Reason string
		Err    error
	}

	// EngineExecutionError is returned when the engine process exits non-zero
	// or cannot be started. ExitCode is -1 when no exit status exists.
	EngineExecutionError struct {
		Engine   string
		Phase    Phase
		ExitCode int
		Vector   []string
		Err      error
	}
)

// Error implements the error interface.
func (e *EngineNotFoundError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Unwrap returns ErrNoEngineAvailable and the lookup error.
func (e *EngineNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNoEngineAvailable}
	}
	return []error{ErrNoEngineAvailable, e.Err}
}

// Suggestions lists remedies shown to the user.
func (e *EngineNotFoundError) Suggestions() []string {
	return []string{
		fmt.Sprintf("Install %s or add it to PATH", e.Engine),
		"Select another engine with --container podman|docker",
	}
}

// Error implements the error interface.
func (e *EngineExecutionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", e.Engine, e.Phase)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&sb, " exited with code %d", e.ExitCode)
	} else {
		sb.WriteString(" did not complete")
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns ErrEngineExecution and the underlying cause, if any.
func (e *EngineExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEngineExecution}
	}
	return []error{ErrEngineExecution, e.Err}
}

// executionError wraps an EngineExecutionError with phase specific hints.
func executionError(execErr *EngineExecutionError) error {
	ctx := issue.NewErrorContext().
		WithOperation(string(execErr.Phase) + " validation container").
		WithResource(strings.Join(execErr.Vector, " "))

	switch execErr.Phase {
	case PhaseBuild:
		ctx.WithSuggestion("Check the Containerfile for errors")
		ctx.WithSuggestion("Ensure the base image is available (try: " + execErr.Engine + " pull <image>)")
	default:
		ctx.WithSuggestion("Verify the image exists (try: " + execErr.Engine + " images)")
		ctx.WithSuggestion("Check that volume mount paths exist on the host")
		ctx.WithSuggestion("Rebuild the image with --build")
	}
	ctx.WithSuggestion("Run with --debug to see the full engine invocation")

	return ctx.Wrap(execErr).BuildError()
}
