package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove published archives past their retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dispatcher, store, err := ctx.newDispatcher()
			if err != nil {
				return err
			}
			defer store.Close()

			result := dispatcher.Cleanup()
			out := cmd.OutOrStdout()
			if cfg.Mail.RetentionDays <= 0 {
				fmt.Fprintln(out, "Retention is disabled (retention_days = 0); nothing removed")
				return nil
			}
			for _, removed := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", removed)
			}
			fmt.Fprintf(out, "%d archive(s) removed\n", len(result.Removed))
			if len(result.Errors) > 0 {
				for _, pruneErr := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "failed to remove %s: %v\n", pruneErr.Path, pruneErr.Error)
				}
				return fmt.Errorf("%d archive(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}
}
