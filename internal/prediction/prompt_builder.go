package prediction

import (
	"fmt"
	"strings"

	"sharpline/internal/gateway/provider"
)

const defaultMaxTokens = 1000

// PromptBuilder turns an Input into provider-neutral request payloads.
type PromptBuilder struct {
	source TemplateSource
}

func NewPromptBuilder(source TemplateSource) *PromptBuilder {
	return &PromptBuilder{source: source}
}

func (b *PromptBuilder) templates() Templates {
	if b == nil || b.source == nil {
		return DefaultTemplates()
	}
	return b.source.Templates()
}

// SystemPrompt is the schema instruction, followed by the think-harder guidance
// only when the provider opts in and the request asks for it.
func (b *PromptBuilder) SystemPrompt(thinkHarderGuidance bool, in Input) string {
	tpl := b.templates()
	if thinkHarderGuidance && in.ThinkHarder {
		return tpl.Schema + "\n\n" + tpl.ThinkHarder
	}
	return tpl.Schema
}

func (b *PromptBuilder) UserPrompt(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sport: %s\nEvent: %s\nBet type: %s\n\n%s", in.Sport, in.Event, in.BetType, in.Prompt)
	if in.Odds != nil && *in.Odds != 0 {
		fmt.Fprintf(&sb, "\n\nAmerican odds provided: %d", *in.Odds)
	}
	if in.ThinkHarder {
		sb.WriteString("\n\n")
		sb.WriteString(b.templates().UserThinkHarder)
	}
	return sb.String()
}

func (b *PromptBuilder) BuildPayload(profile Profile, in Input) provider.ChatPayload {
	temperature := profile.Temperature
	if in.ThinkHarder {
		temperature = profile.ThinkTemperature
	}
	maxTokens := profile.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return provider.ChatPayload{
		System:      b.SystemPrompt(profile.ThinkHarderGuidance, in),
		User:        b.UserPrompt(in),
		Images:      toImagePayloads(in.Images),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

func toImagePayloads(src []ImageAttachment) []provider.ImagePayload {
	if len(src) == 0 {
		return nil
	}
	out := make([]provider.ImagePayload, len(src))
	for i, img := range src {
		out[i] = provider.ImagePayload{MimeType: img.MimeType, Data: img.Data}
	}
	return out
}
