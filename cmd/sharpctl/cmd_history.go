package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"sharpline/internal/pkg/text"
)

func newHistoryCmd(stdout, stderr io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := openApp(cmd, stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			rows, err := a.Store().Predictions().ListRecent(cmd.Context(), identityFlag(cmd).UserRef(), limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(stdout, "no predictions recorded")
				return nil
			}
			for _, r := range rows {
				res := gjson.ParseBytes(r.ResultJSON)
				models := gjson.ParseBytes(r.ModelsUsed).Array()
				ids := make([]string, 0, len(models))
				for _, m := range models {
					ids = append(ids, m.String())
				}
				fmt.Fprintf(stdout, "%s  %s  %-4s %-10s p=%.2f %-6s [%s] %s\n",
					r.CreatedAt.Format("2006-01-02 15:04"), text.Prefix(r.ID, 8), r.Sport, r.BetType,
					res.Get("probability").Float(), res.Get("confidence").String(),
					strings.Join(ids, ","), r.Prompt)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to show")
	return cmd
}
