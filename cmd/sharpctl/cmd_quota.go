package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newQuotaCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show today's prediction usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openApp(cmd, stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			id := identityFlag(cmd)
			d, err := a.Service().Usage(cmd.Context(), id)
			if err != nil {
				return err
			}
			who := id.UserID
			if id.Guest() {
				who = "guest"
			}
			fmt.Fprintf(stdout, "%s: %d/%d used, %d remaining\n", who, d.Used, d.Limit, d.Remaining())
			return nil
		},
	}
}
