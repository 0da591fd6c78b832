package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "store:\n  path: " + filepath.Join(dir, "cli.db") + "\nquota:\n  guest_daily_limit: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestQuotaForGuest(t *testing.T) {
	cfg := writeTestConfig(t)
	code, out, _ := runCLI(t, "quota", "--config", cfg, "--env-file", "")
	require.Equal(t, 0, code)
	assert.Equal(t, "guest: 0/3 used, 3 remaining\n", out)
}

func TestHistoryEmpty(t *testing.T) {
	cfg := writeTestConfig(t)
	code, out, _ := runCLI(t, "history", "--config", cfg, "--env-file", "", "--user", "u1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "no predictions recorded")
}

func TestModelsListsEveryProvider(t *testing.T) {
	cfg := writeTestConfig(t)
	code, out, _ := runCLI(t, "models", "--config", cfg, "--env-file", "")
	require.Equal(t, 0, code)
	for _, id := range []string{"grok", "gpt", "claude", "gemini"} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "* grok")
}

func TestPredictRequiresPrompt(t *testing.T) {
	cfg := writeTestConfig(t)
	code, out, errOut := runCLI(t, "predict", "--config", cfg, "--env-file", "")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Prompt is required")
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown command")
}
