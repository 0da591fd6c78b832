package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"sharpline/internal/config"
	apihttp "sharpline/internal/transport/http/api"
)

type StartupSummary struct {
	Addr            string
	DefaultProvider string
	Providers       []apihttp.ModelInfo
	GuestLimit      int
	UserLimit       int
	StorePath       string
	PromptPath      string
	KafkaTopic      string
	AuthEnabled     bool

	out io.Writer
}

func newStartupSummary(cfg *config.Config, models []apihttp.ModelInfo) *StartupSummary {
	s := &StartupSummary{
		Addr:            cfg.HTTP.Addr,
		DefaultProvider: cfg.Predict.DefaultProvider,
		Providers:       models,
		GuestLimit:      cfg.Quota.GuestDailyLimit,
		UserLimit:       cfg.Quota.UserDailyLimit,
		StorePath:       cfg.Store.Path,
		PromptPath:      cfg.Prompt.Path,
		AuthEnabled:     strings.TrimSpace(cfg.HTTP.JWTSecret) != "",
		out:             os.Stdout,
	}
	if cfg.Events.Kafka.Enabled {
		s.KafkaTopic = cfg.Events.Kafka.Topic
	}
	return s
}

func (s *StartupSummary) Print() {
	w := s.out
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
	title := "STARTUP SUMMARY"
	fmt.Fprintf(w, "%*s\n", 40+len(title)/2, title)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	fmt.Fprintln(w, "[HTTP]")
	fmt.Fprintf(w, "  listen: %s\n", s.Addr)
	fmt.Fprintf(w, "  auth:   %s\n", onOff(s.AuthEnabled))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[PROVIDERS]")
	if len(s.Providers) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, m := range s.Providers {
		mark := " "
		if m.ID == s.DefaultProvider {
			mark = "*"
		}
		state := "ready"
		if !m.Configured {
			state = "missing " + config.CredentialEnv[m.ID]
		}
		fmt.Fprintf(w, "  %s %-7s %-28s %s\n", mark, m.ID, m.Model, state)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[QUOTA]")
	fmt.Fprintf(w, "  guest/day: %d\n", s.GuestLimit)
	fmt.Fprintf(w, "  user/day:  %d\n", s.UserLimit)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[STORAGE]")
	fmt.Fprintf(w, "  sqlite:  %s\n", s.StorePath)
	fmt.Fprintf(w, "  prompts: %s\n", formatOptional(s.PromptPath, "built-in"))
	fmt.Fprintf(w, "  kafka:   %s\n", formatOptional(s.KafkaTopic, "disabled"))
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func onOff(b bool) string {
	if b {
		return "jwt"
	}
	return "guest only"
}

func formatOptional(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
