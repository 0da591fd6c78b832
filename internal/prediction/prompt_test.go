package prediction

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleInput() Input {
	return Input{
		Sport:   "NBA",
		Event:   "Hornets vs Celtics",
		BetType: BetSpread,
		Prompt:  "Hornets +2.5?",
	}
}

func TestUserPrompt(t *testing.T) {
	b := NewPromptBuilder(nil)
	in := sampleInput()
	assert.Equal(t, "Sport: NBA\nEvent: Hornets vs Celtics\nBet type: Spread\n\nHornets +2.5?", b.UserPrompt(in))

	in.Odds = intPtr(-110)
	in.ThinkHarder = true
	assert.Equal(t, "Sport: NBA\nEvent: Hornets vs Celtics\nBet type: Spread\n\nHornets +2.5?"+
		"\n\nAmerican odds provided: -110"+
		"\n\n[Think harder: use live context, injuries, form, H2H, rest, lineups]", b.UserPrompt(in))

	in.Odds = intPtr(0)
	in.ThinkHarder = false
	assert.NotContains(t, b.UserPrompt(in), "American odds")
}

func TestSystemPromptGuidanceOnlyWhenOptedIn(t *testing.T) {
	b := NewPromptBuilder(nil)
	in := sampleInput()
	plain := b.SystemPrompt(true, in)
	assert.True(t, strings.HasPrefix(plain, "You must respond with ONLY valid JSON"))
	assert.NotContains(t, plain, "Be thorough")

	in.ThinkHarder = true
	assert.Contains(t, b.SystemPrompt(true, in), "Return best-calibrated probability. Be thorough.")
	assert.Equal(t, plain, b.SystemPrompt(false, in))
}

func TestBuildPayload(t *testing.T) {
	b := NewPromptBuilder(nil)
	profile := Profile{ID: "grok", ThinkHarderGuidance: true, Temperature: 0.3, ThinkTemperature: 0.2}
	in := sampleInput()
	in.Images = []ImageAttachment{{Data: "AAA=", MimeType: "image/png"}, {Data: "BBB=", MimeType: "image/jpeg"}}

	p := b.BuildPayload(profile, in)
	assert.InDelta(t, 0.3, p.Temperature, 1e-9)
	assert.Equal(t, 1000, p.MaxTokens)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "image/png", p.Images[0].MimeType)
	assert.Equal(t, "BBB=", p.Images[1].Data)

	in.ThinkHarder = true
	p = b.BuildPayload(profile, in)
	assert.InDelta(t, 0.2, p.Temperature, 1e-9)
	assert.Contains(t, p.System, "Be thorough")
}

func TestPromptRegistryOverridesAndKeepsOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompts:\n  user_think_harder: \"[dig deeper]\"\n"), 0o644))

	reg, err := NewPromptRegistry(path)
	require.NoError(t, err)
	tpl := reg.Templates()
	assert.Equal(t, "[dig deeper]", tpl.UserThinkHarder)
	assert.Equal(t, DefaultTemplates().Schema, tpl.Schema)
	assert.EqualValues(t, 1, reg.Version())

	in := sampleInput()
	in.ThinkHarder = true
	assert.True(t, strings.HasSuffix(NewPromptBuilder(reg).UserPrompt(in), "\n\n[dig deeper]"))

	require.NoError(t, os.WriteFile(path, []byte("prompts:\n  unknown_key: x\n"), 0o644))
	assert.Error(t, reg.reload())
	assert.Equal(t, "[dig deeper]", reg.Templates().UserThinkHarder)
	assert.EqualValues(t, 1, reg.Version())
}

func TestPromptRegistryDefaultsWithoutPath(t *testing.T) {
	reg, err := NewPromptRegistry("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplates(), reg.Templates())
}
