// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"
	"os"

	"validation-cli/internal/app/execute"
	"validation-cli/internal/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and delegate through it.
	App struct {
		Config    config.Provider
		FS        afero.Fs
		NewEngine execute.EngineFactory
		Logger    *log.Logger
		// IssueStyle is the glamour style used for issue pages.
		IssueStyle string

		defaults config.Params
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		FS        afero.Fs
		NewEngine execute.EngineFactory
		// Defaults replaces config.DefaultParams when non-nil.
		Defaults   *config.Params
		IssueStyle string
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates the CLI composition root and installs its logger as the
// slog default.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.IssueStyle == "" {
		deps.IssueStyle = "dark"
	}

	defaults := config.DefaultParams()
	if deps.Defaults != nil {
		defaults = *deps.Defaults
	}

	logger := newLogger(deps.Stderr)
	slog.SetDefault(slog.New(logger))

	return &App{
		Config:     deps.Config,
		FS:         deps.FS,
		NewEngine:  deps.NewEngine,
		Logger:     logger,
		IssueStyle: deps.IssueStyle,
		defaults:   defaults,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// newLogger returns the CLI logger. It starts at info level; SetDebug
// lowers it once parameters are resolved.
func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "validation",
		Level:  log.InfoLevel,
	})
}

// SetDebug switches the logger between debug and info level.
func (a *App) SetDebug(debug bool) {
	if debug {
		a.Logger.SetLevel(log.DebugLevel)
		return
	}
	a.Logger.SetLevel(log.InfoLevel)
}
