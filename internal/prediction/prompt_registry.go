package prediction

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"sharpline/internal/logger"
)

const defaultSchemaPrompt = `You must respond with ONLY valid JSON in this exact format. No markdown, no explanation outside JSON.
{
  "sport": "string - e.g. NBA, NFL",
  "event": "string - teams/event name",
  "bet_type": "string - Moneyline, Spread, Over/Under, or Parlay",
  "bet": "string - the specific bet e.g. Hornets +2.5",
  "probability": number between 0 and 1,
  "confidence": "low" | "medium" | "high",
  "edge": number between -1 and 1,
  "recommended_units": number between 0 and 2,
  "explanation": "3-6 sentences max, betting focused. No sources. No guarantees.",
  "key_factors": ["factor1", "factor2", "factor3"]
}

RULES: Sports betting only. Output only JSON. Short explanations. No source mentions (no SofaScore, etc). No guarantees. probability must be 0-1. confidence only: low|medium|high.`

const defaultThinkHarderPrompt = `When thinkHarder is true: incorporate injuries, form, H2H, schedule, rest, lineup news.
Return best-calibrated probability. Be thorough.`

const defaultUserThinkHarder = "[Think harder: use live context, injuries, form, H2H, rest, lineups]"

// Templates is the set of prompt texts in effect.
type Templates struct {
	Schema          string `yaml:"schema"`
	ThinkHarder     string `yaml:"think_harder"`
	UserThinkHarder string `yaml:"user_think_harder"`
}

// DefaultTemplates returns the compiled-in prompts.
func DefaultTemplates() Templates {
	return Templates{
		Schema:          defaultSchemaPrompt,
		ThinkHarder:     defaultThinkHarderPrompt,
		UserThinkHarder: defaultUserThinkHarder,
	}
}

func (t Templates) withDefaults() Templates {
	def := DefaultTemplates()
	if strings.TrimSpace(t.Schema) == "" {
		t.Schema = def.Schema
	}
	if strings.TrimSpace(t.ThinkHarder) == "" {
		t.ThinkHarder = def.ThinkHarder
	}
	if strings.TrimSpace(t.UserThinkHarder) == "" {
		t.UserThinkHarder = def.UserThinkHarder
	}
	t.Schema = strings.TrimSpace(t.Schema)
	t.ThinkHarder = strings.TrimSpace(t.ThinkHarder)
	t.UserThinkHarder = strings.TrimSpace(t.UserThinkHarder)
	return t
}

type promptFile struct {
	Prompts Templates `yaml:"prompts"`
}

// TemplateSource hands out the current templates.
type TemplateSource interface {
	Templates() Templates
}

// PromptRegistry serves prompt templates, optionally overridden by a YAML file
// that is watched for changes. A reload that fails keeps the previous set.
type PromptRegistry struct {
	path string

	mu      sync.RWMutex
	current Templates
	version int64
}

// NewPromptRegistry returns the built-in templates when path is empty.
func NewPromptRegistry(path string) (*PromptRegistry, error) {
	r := &PromptRegistry{path: strings.TrimSpace(path), current: DefaultTemplates()}
	if r.path == "" {
		return r, nil
	}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(r.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read prompt file failed: %w", err)
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("prompt reload failed, keeping version %d: %v", r.Version(), err)
		}
	})
	v.WatchConfig()
	return r, nil
}

func (r *PromptRegistry) Templates() Templates {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Version increments on every successful load.
func (r *PromptRegistry) Version() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *PromptRegistry) reload() error {
	tpl, err := readPromptFile(r.path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.current = tpl
	r.version++
	r.mu.Unlock()
	logger.Infof("prompt templates loaded from %s", filepath.Base(r.path))
	return nil
}

func readPromptFile(path string) (Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read prompt file failed: %w", err)
	}
	var f promptFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Templates{}, fmt.Errorf("parse prompt file failed: %w", err)
	}
	return f.Prompts.withDefaults(), nil
}
