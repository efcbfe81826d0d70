package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rundispatch/internal/mailer"
)

func newTestMailCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-mail <recipient>...",
		Short: "Send a test message to verify the SMTP settings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			recipients := normalizeRecipients(args)
			if err := mailer.ValidateRecipients(recipients); err != nil {
				return err
			}
			if err := mailer.NewService(cfg).Test(cmd.Context(), recipients); err != nil {
				return err
			}
			if cfg.SMTP.Host == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No SMTP host configured; nothing was sent")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test message sent")
			return nil
		},
	}
}
