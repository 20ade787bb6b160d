// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"validation-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `validation config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the validation configuration",
		Long: `Inspect the validation configuration.

The [Validations] table is read from the first file found in:
  - the path given with --config
  - ` + config.ConfigDir() + `/` + config.ConfigFileName + `
  - ./` + config.ConfigFileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved parameters (defaults and config file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.resolve(cmd.Context(), opts.configPath, config.Layer{})
			if err != nil {
				return app.fail(cmd, err)
			}
			showParams(app.stdout, p)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config file that would be loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Locate(config.LoadOptions{ConfigFilePath: opts.configPath})
			if err != nil {
				return app.fail(cmd, err)
			}
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no config file, using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func showParams(w io.Writer, p config.Params) {
	fmt.Fprintln(w, TitleStyle.Render("Resolved parameters"))
	fmt.Fprintln(w)

	layer := p.Layer()
	for _, key := range config.Keys() {
		var value string
		switch v := layer[key].(type) {
		case []string:
			value = strings.Join(v, config.ListDelimiter)
		default:
			value = fmt.Sprint(v)
		}
		if value == "" {
			value = SubtitleStyle.Render("(unset)")
		} else {
			value = SuccessStyle.Render(value)
		}
		fmt.Fprintf(w, "%s = %s\n", CmdStyle.Render(key), value)
	}
	fmt.Fprintf(w, "\n%s = %s\n", CmdStyle.Render("action"), SuccessStyle.Render(actionName(p.Action())))
}

func actionName(a config.Action) string {
	if a == config.ActionNone {
		return "none"
	}
	return a.String()
}
