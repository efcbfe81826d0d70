package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIDsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List the run ids found under the scan roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.collectInventory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if inv.Len() == 0 {
				fmt.Fprintln(out, "No run folders found")
				return nil
			}
			rows := make([][]string, 0, inv.Len())
			for _, id := range inv.IDs() {
				folder, _ := inv.Lookup(id)
				rows = append(rows, []string{id, folder})
			}
			fmt.Fprintln(out, renderTable([]string{"Run ID", "Folder"}, rows))
			return nil
		},
	}
}
