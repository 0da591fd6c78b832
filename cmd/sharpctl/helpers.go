package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sharpline/internal/app"
	"sharpline/internal/config"
	"sharpline/internal/logger"
	"sharpline/internal/prediction"
	"sharpline/internal/quota"
)

// openApp loads configuration from the persistent flags and builds the app
// in-process. Logs go to stderr so stdout stays machine-readable.
func openApp(cmd *cobra.Command, stderr io.Writer) (*app.App, *config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, err
	}
	path, _ := cmd.Flags().GetString("config")
	if strings.TrimSpace(path) == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(stderr)
	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func identityFlag(cmd *cobra.Command) quota.Identity {
	user, _ := cmd.Flags().GetString("user")
	return quota.Identity{UserID: strings.TrimSpace(user)}
}

func readImages(paths []string) ([]prediction.ImageAttachment, error) {
	out := make([]prediction.ImageAttachment, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading image %s: %w", p, err)
		}
		out = append(out, prediction.ImageAttachment{
			Data:     base64.StdEncoding.EncodeToString(raw),
			MimeType: http.DetectContentType(raw),
		})
	}
	return out, nil
}
