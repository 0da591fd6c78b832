package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sharpline/internal/prediction"
)

type predictFlags struct {
	sport       string
	event       string
	betType     string
	odds        int
	models      []string
	thinkHarder bool
	images      []string
}

func newPredictCmd(stdout, stderr io.Writer) *cobra.Command {
	var f predictFlags
	cmd := &cobra.Command{
		Use:   "predict [prompt]",
		Short: "Ask one or more models for a prediction",
		Long: `Ask one or more models for a prediction and print the JSON response.

The first model listed is the primary; its result is recorded.

Examples:
  sharpctl predict "Lakers vs Celtics, Lakers ML" --odds -110
  sharpctl predict "Over 221.5" --bet-type Over/Under --models grok,claude`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := ""
			if len(args) == 1 {
				prompt = args[0]
			}
			return runPredict(cmd, stdout, stderr, prompt, f)
		},
	}
	cmd.Flags().StringVar(&f.sport, "sport", "", "Sport (defaults to config)")
	cmd.Flags().StringVar(&f.event, "event", "", "Event description")
	cmd.Flags().StringVar(&f.betType, "bet-type", "", "Moneyline, Spread, Over/Under or Parlay")
	cmd.Flags().IntVar(&f.odds, "odds", 0, "American odds, e.g. -110 or +150")
	cmd.Flags().StringSliceVar(&f.models, "models", nil, "Provider ids; the first is primary")
	cmd.Flags().BoolVar(&f.thinkHarder, "think-harder", false, "Request deeper analysis")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "Screenshot file to attach (repeatable)")
	return cmd
}

func runPredict(cmd *cobra.Command, stdout, stderr io.Writer, prompt string, f predictFlags) error {
	a, cfg, err := openApp(cmd, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	images, err := readImages(f.images)
	if err != nil {
		return err
	}
	sport := strings.TrimSpace(f.sport)
	if sport == "" {
		sport = cfg.Predict.DefaultSport
	}
	betName := strings.TrimSpace(f.betType)
	if betName == "" {
		betName = cfg.Predict.DefaultBetType
	}
	in := prediction.Input{
		Sport:       sport,
		Event:       f.event,
		BetType:     prediction.BetType(betName),
		Prompt:      prompt,
		ThinkHarder: f.thinkHarder,
		Images:      images,
	}
	if bt, ok := prediction.ParseBetType(betName); ok {
		in.BetType = bt
	}
	if cmd.Flags().Changed("odds") {
		o := f.odds
		in.Odds = &o
	}

	resp, err := a.Service().Predict(cmd.Context(), prediction.Request{
		Identity: identityFlag(cmd),
		Input:    in,
		Models:   f.models,
	})
	if err != nil {
		fmt.Fprintf(stderr, "sharpctl: %v\n", err)
		return errExit
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
