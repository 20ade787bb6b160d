// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"validation-cli/internal/app/execute"
	"validation-cli/internal/config"
	"validation-cli/internal/container"
	"validation-cli/internal/invocation"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runValidation resolves the parameters and hands them to the orchestrator.
func runValidation(cmd *cobra.Command, app *App, opts *rootOptions, args []string) error {
	ctx := cmd.Context()
	cli := cliLayer(cmd.Flags())

	if opts.createConfig != "" {
		return app.fail(cmd, createConfig(app, opts.createConfig, cli))
	}

	p, err := app.resolve(ctx, opts.configPath, cli)
	if err != nil {
		return app.fail(cmd, err)
	}
	p = p.WithCommand(args)
	app.SetDebug(p.Debug)

	if p.Interactive && !app.stdinIsTerminal() {
		slog.Warn("interactive mode requested but stdin is not a terminal")
	}
	if p.Action() == config.ActionNone {
		slog.Info("nothing to do: pass --build, --run, --list or --inventory-ping")
	}

	orch := execute.NewOrchestrator(app.orchestratorOptions(opts.dryRun)...)
	if _, err := orch.Execute(ctx, p); err != nil {
		return app.fail(cmd, err)
	}
	return nil
}

// resolve merges defaults, the config file and the CLI layer.
func (a *App) resolve(ctx context.Context, configPath string, cli config.Layer) (config.Params, error) {
	src, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return config.Params{}, err
	}
	if src.Path != "" {
		slog.Debug("loaded config file", "path", src.Path)
	}
	return config.Resolve(a.defaults, src.Layer, cli)
}

func (a *App) orchestratorOptions(dryRun bool) []execute.Option {
	opts := []execute.Option{
		execute.WithFS(a.FS),
		execute.WithStreams(container.Streams{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}),
	}
	if a.NewEngine != nil {
		opts = append(opts, execute.WithEngineFactory(a.NewEngine))
	}
	if dryRun {
		opts = append(opts, execute.WithDryRun(a.printVector))
	}
	return opts
}

// printVector is the dry-run sink.
func (a *App) printVector(phase container.Phase, vector invocation.Vector) {
	fmt.Fprintf(a.stdout, "%s %s\n", SubtitleStyle.Render(fmt.Sprintf("[%s]", phase)), CmdStyle.Render(vector.String()))
}

// createConfig validates the explicit flags and writes the pre-merge layer.
func createConfig(app *App, path string, cli config.Layer) error {
	if _, err := config.Resolve(app.defaults, nil, cli); err != nil {
		return err
	}
	if err := config.Export(path, app.defaults, cli); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Config written to"), CmdStyle.Render(path))
	return nil
}

func (a *App) stdinIsTerminal() bool {
	f, ok := a.stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// fail renders err with its issue page and turns it into an ExitError
// carrying the mapped exit code.
func (a *App) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		slog.Warn("interrupted")
	}

	cmd.SilenceUsage = true
	issueID, code, styled := classifyExecutionError(err, a.Logger.GetLevel() == log.DebugLevel)
	svcErr := newServiceError(err, issueID, styled)
	renderServiceError(a.stderr, svcErr, a.IssueStyle)
	return &ExitError{Code: code, Err: svcErr}
}
