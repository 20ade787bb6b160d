// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"validation-cli/internal/app/execute"
	"validation-cli/internal/catalog"
	"validation-cli/internal/config"
	"validation-cli/internal/container"
	"validation-cli/internal/issue"
	"validation-cli/internal/recipe"
)

// classifyExecutionError maps a failed invocation to an issue catalog ID and
// the process exit code, and returns a styled message for CLI rendering.
func classifyExecutionError(err error, verbose bool) (issueID issue.Id, exitCode int, styledMsg string) {
	exitCode = execute.ExitBuildFailure

	var (
		phaseErr  *execute.PhaseError
		configErr *config.ConfigError
	)
	switch {
	case errors.As(err, &phaseErr):
		exitCode = phaseErr.ExitCode()
		issueID = issue.ValidationRunFailedId
		if phaseErr.Phase == container.PhaseBuild {
			issueID = issue.ImageBuildFailedId
		}
	case errors.Is(err, container.ErrNoEngineAvailable):
		issueID = issue.ContainerEngineNotFoundId
	case errors.Is(err, recipe.ErrTemplate):
		issueID = issue.RecipeRenderFailedId
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.As(err, &configErr):
		issueID = classifyConfigError(configErr)
	case errors.Is(err, catalog.ErrPlaybook):
		issueID = issue.PlaybookCatalogFailedId
	}

	return issueID, exitCode, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

func classifyConfigError(err *config.ConfigError) issue.Id {
	switch {
	case errors.Is(err, config.ErrInvalidParams):
		return issue.ConfigInvalidId
	case strings.HasPrefix(err.Op, "prepare"):
		return issue.MountPreparationFailedId
	default:
		return issue.ConfigLoadFailedId
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
