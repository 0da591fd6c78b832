package prediction

import (
	"context"
	"fmt"

	"sharpline/internal/gateway/provider"
	"sharpline/internal/logger"
)

// Adapter turns a wire-level ModelProvider into a Predictor: build the payload,
// call the backend, then parse and normalize its answer.
type Adapter struct {
	provider provider.ModelProvider
	builder  *PromptBuilder
	profile  Profile
}

func NewAdapter(p provider.ModelProvider, builder *PromptBuilder, profile Profile) *Adapter {
	if profile.ID == "" {
		profile.ID = p.ID()
	}
	return &Adapter{provider: p, builder: builder, profile: profile}
}

func (a *Adapter) Profile() Profile { return a.profile }

func (a *Adapter) GeneratePrediction(ctx context.Context, in Input) (Result, error) {
	payload := a.builder.BuildPayload(a.profile, in)
	reqID := logger.RequestID(ctx)
	logger.LogLLMRequest(a.profile.ID, reqID, payload.System, payload.User, summarizeImages(payload.Images),
		fmt.Sprintf("model=%s temperature=%.2f max_tokens=%d images=%d",
			a.provider.Model(), payload.Temperature, payload.MaxTokens, len(payload.Images)))

	raw, err := a.provider.Call(ctx, payload)
	logger.LogLLMResponse(a.profile.ID, reqID, raw, err)
	if err != nil {
		return Result{}, err
	}
	res, err := ParseResult(raw)
	if err != nil {
		return Result{}, err
	}
	return Normalize(res), nil
}

func summarizeImages(images []provider.ImagePayload) []string {
	if len(images) == 0 {
		return nil
	}
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = fmt.Sprintf("%s, ~%d bytes", img.MimeType, len(img.Data)*3/4)
	}
	return out
}
