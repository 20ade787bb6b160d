// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands of the validation container builder.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "validation [flags] [-- command...]",
		Short: "Build and run the validation container",
		Long: TitleStyle.Render("validation") + SubtitleStyle.Render(" - Build and run the validation container") + `

validation renders a Containerfile for the validation framework, builds it
with podman or docker and runs validations, listings or inventory pings in
the resulting image.

Parameters are resolved from built-in defaults, then the [Validations] table
of the config file, then the flags given on the command line.

` + SubtitleStyle.Render("Examples:") + `
  validation --build                           Build the image
  validation --run --validations check-ram     Run one validation
  validation --list --group pre-deployment     List validations of a group
  validation --build --run --dry-run           Print the engine commands only
  validation --create-config validation.toml   Save defaults and flags to a file`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidation(cmd, app, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/validation/validation.toml, then ./validation.toml)")
	rootCmd.Flags().StringVar(&opts.createConfig, "create-config", "", "write defaults and the given flags to this config file and exit")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "render the recipe and print the engine commands without running them")
	registerParamFlags(rootCmd.Flags(), app.defaults)

	rootCmd.AddCommand(newConfigCommand(app, opts))
	rootCmd.AddCommand(newCatalogCommand(app))

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints errors that were not already rendered as a
// ServiceError.
func handleError(w io.Writer, _ fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, false))
}
