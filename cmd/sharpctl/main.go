// sharpctl runs sharpline predictions and inspects local history from the shell.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit signals a non-zero exit after the command already reported its error.
var errExit = errors.New("exit")

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "sharpctl: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "sharpctl",
		Short:         "Multi-model sports betting predictions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("config", "", "Config file (defaults to $SHARPLINE_CONFIG or configs/config.yaml)")
	root.PersistentFlags().String("env-file", ".env", "Dotenv file with provider credentials")
	root.PersistentFlags().String("user", "", "Act as this user id; empty means guest")
	root.AddCommand(
		newPredictCmd(stdout, stderr),
		newQuotaCmd(stdout, stderr),
		newHistoryCmd(stdout, stderr),
		newModelsCmd(stdout, stderr),
	)
	return root
}
