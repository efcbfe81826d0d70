package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rundispatch/internal/dispatch"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every known run folder has sequence reads",
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, store, err := ctx.newDispatcher()
			if err != nil {
				return err
			}
			defer store.Close()

			results := dispatcher.CheckAll(cmd.Context())
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No run folders found")
				return nil
			}

			rows := make([][]string, 0, len(results))
			failing := 0
			for _, result := range results {
				if result.Status != dispatch.CheckOK {
					failing++
				}
				rows = append(rows, []string{result.RunID, string(result.Status), result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Run ID", "Status", "Detail"}, rows))
			if failing > 0 {
				return fmt.Errorf("%d of %d run folders failed the check", failing, len(results))
			}
			return nil
		},
	}
}
