package agent

import (
	"context"

	"github.com/dotvoice/dot/pkg/llm"
)

// Corrector cleans a raw voice transcript through a single LLM pass with a
// fixed correction prompt.
//
// Correction is best effort: callers are expected to fall back to the raw
// transcript when Run fails, so a flaky model never breaks the pipeline.
type Corrector struct {
	provider    llm.Provider
	temperature float64
	topP        float64
}

// NewCorrector creates a corrector using the given provider and sampling
// parameters.
func NewCorrector(provider llm.Provider, temperature, topP float64) *Corrector {
	return &Corrector{
		provider:    provider,
		temperature: temperature,
		topP:        topP,
	}
}

// Run sends the raw transcript through the correction prompt and returns
// the cleaned text.
func (c *Corrector) Run(ctx context.Context, rawTranscript string) (string, error) {
	return c.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: correctionSystemPrompt(),
		UserPrompt:   correctionUserPrompt(rawTranscript),
		Temperature:  c.temperature,
		TopP:         c.topP,
	})
}
