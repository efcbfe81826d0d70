package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rundispatch/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int
	var runFlag string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously dispatched runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []history.Entry
			if runID := strings.TrimSpace(runFlag); runID != "" {
				entries, err = store.ForRun(cmd.Context(), runID)
			} else {
				entries, err = store.List(cmd.Context(), limitFlag)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No dispatches recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.SentAt.Local().Format(time.RFC3339),
					entry.RunID,
					entry.Group,
					entry.Archive,
					strings.Join(entry.Recipients, ", "),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Sent At", "Run ID", "Group", "Archive", "Recipients"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of entries to show")
	cmd.Flags().StringVar(&runFlag, "run", "", "Show every dispatch of a single run id")

	return cmd
}
