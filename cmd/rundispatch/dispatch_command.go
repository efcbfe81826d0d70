package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"rundispatch/internal/mailer"
	"rundispatch/internal/wizard"
)

func newDispatchCommand(ctx *commandContext) *cobra.Command {
	var runFlags []string
	var groupFlag string
	var toFlags []string

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Archive runs, publish them, and mail the download details",
		Long: "Dispatch packs the fastq reads of each selected run into a tar.gz " +
			"archive, moves it to the public download directory, and mails the " +
			"recipients the download URL, checksum, and login. Without flags on a " +
			"terminal an interactive prompt collects the runs, group, and recipients.",
		RunE: func(cmd *cobra.Command, args []string) error {
			runIDs := runFlags
			group := strings.TrimSpace(groupFlag)
			recipients := toFlags

			if len(runIDs) == 0 {
				if !stdinIsTerminal() {
					return errors.New("no runs selected; pass --run (and --group, --to) when not on a terminal")
				}
				inv, err := ctx.collectInventory()
				if err != nil {
					return err
				}
				if inv.Len() == 0 {
					return errors.New("no run folders found under the scan roots")
				}
				answers, err := wizard.Run(inv.IDs())
				if err != nil {
					return err
				}
				if answers.Cancelled {
					fmt.Fprintln(cmd.OutOrStdout(), "Dispatch cancelled")
					return nil
				}
				runIDs = answers.RunIDs
				group = answers.Group
				recipients = answers.Recipients
			}

			recipients = normalizeRecipients(recipients)

			dispatcher, store, err := ctx.newDispatcher()
			if err != nil {
				return err
			}
			defer store.Close()

			results, err := dispatcher.Dispatch(cmd.Context(), runIDs, group, recipients)
			out := cmd.OutOrStdout()
			for _, result := range results {
				fmt.Fprintf(out, "Dispatched %s\n", result.RunID)
				fmt.Fprintf(out, "  archive:    %s\n", result.PublicPath)
				fmt.Fprintf(out, "  md5:        %s\n", result.Checksum)
				fmt.Fprintf(out, "  recipients: %s\n", strings.Join(result.Recipients, ", "))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d run(s) dispatched\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&runFlags, "run", nil, "Run id to dispatch (repeatable)")
	cmd.Flags().StringVarP(&groupFlag, "group", "g", "", "Research group the runs belong to")
	cmd.Flags().StringSliceVar(&toFlags, "to", nil, "Recipient email addresses")

	return cmd
}

// normalizeRecipients re-splits flag values so both repeated --to flags and
// a single comma separated list are accepted.
func normalizeRecipients(values []string) []string {
	var recipients []string
	for _, value := range values {
		recipients = append(recipients, mailer.SplitRecipients(value)...)
	}
	return recipients
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
