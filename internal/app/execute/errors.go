// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"fmt"

	"validation-cli/internal/container"
)

const (
	// ExitBuildFailure is the process exit code for a failed build phase.
	ExitBuildFailure = 1
	// ExitActionFailure is the process exit code for a failed action phase.
	ExitActionFailure = 2
)

// PhaseError reports a failed build or action phase.
type PhaseError struct {
	Phase container.Phase
	Err   error
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

// Unwrap returns the phase failure.
func (e *PhaseError) Unwrap() error { return e.Err }

// ExitCode maps the phase to the process exit code: 1 for build, 2 for the
// container actions.
func (e *PhaseError) ExitCode() int {
	if e.Phase == container.PhaseBuild {
		return ExitBuildFailure
	}
	return ExitActionFailure
}
