// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"validation-cli/internal/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCommand(app *App) *cobra.Command {
	var (
		filter catalog.Filter
		long   bool
	)

	catalogCmd := &cobra.Command{
		Use:   "catalog <directory>",
		Short: "List the playbooks of a validations checkout",
		Long: `List the playbooks found in <directory>/playbooks.

--group selects playbooks whose metadata lists the group. Otherwise --host
selects playbooks whose hosts include the host.`,
		Example: "  validation catalog /usr/share/ansible/validation-playbooks --group pre-deployment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playbooks, err := catalog.New(app.FS).List(args[0], filter)
			if err != nil {
				return app.fail(cmd, err)
			}

			for _, pb := range playbooks {
				if long && pb.Description != "" {
					fmt.Fprintf(app.stdout, "%s  %s\n", CmdStyle.Render(pb.Name), SubtitleStyle.Render(pb.Description))
					continue
				}
				fmt.Fprintln(app.stdout, pb.Name)
			}
			return nil
		},
	}

	catalogCmd.Flags().StringVarP(&filter.Group, "group", "g", "", "only playbooks of this group")
	catalogCmd.Flags().StringVar(&filter.Host, "host", "", "only playbooks targeting this host")
	catalogCmd.Flags().BoolVar(&long, "long", false, "show descriptions")

	return catalogCmd
}
