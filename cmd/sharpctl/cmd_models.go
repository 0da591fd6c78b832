package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sharpline/internal/config"
)

func newModelsCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List providers and whether their credentials are set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cfg, err := openApp(cmd, stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			for _, m := range a.Summary.Providers {
				mark := " "
				if m.ID == cfg.Predict.DefaultProvider {
					mark = "*"
				}
				state := "ready"
				if !m.Configured {
					state = "missing " + config.CredentialEnv[m.ID]
				}
				fmt.Fprintf(stdout, "%s %-7s %-12s %-28s %s\n", mark, m.ID, m.Name, m.Model, state)
			}
			return nil
		},
	}
}
