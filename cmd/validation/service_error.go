// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"validation-cli/internal/issue"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the issue help section first and the styled
// message last, so the error stays visible below the page.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.IssueID != 0 {
		if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
			rendered, renderErr := catalogEntry.Render(style)
			if renderErr != nil {
				slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			} else {
				fmt.Fprint(stderr, rendered)
			}
		}
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}
}
