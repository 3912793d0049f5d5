package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dotvoice/dot/pkg/llm"
	"github.com/dotvoice/dot/pkg/vault"
)

// Generator turns a cleaned transcript into a batch of notes via a single
// JSON-mode LLM call.
type Generator struct {
	provider    llm.Provider
	temperature float64
	topP        float64
	now         func() time.Time
}

// NewGenerator creates a generator using the given provider and sampling
// parameters.
func NewGenerator(provider llm.Provider, temperature, topP float64) *Generator {
	return &Generator{
		provider:    provider,
		temperature: temperature,
		topP:        topP,
		now:         time.Now,
	}
}

// notesResponse is the strict schema expected from the model. Anything that
// does not unmarshal into this shape is a fatal generation failure; there
// is no partial extraction.
type notesResponse struct {
	Notes []noteData `json:"notes"`
}

type noteData struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	RelatedNotes []string `json:"related_notes"`
}

// Run builds the context-aware prompt from the transcript and the existing
// notes index, calls the model in JSON mode, and parses the response into
// Note values. All notes in a batch share the same creation instant, and
// tags are sanitized at construction.
//
// A failed LLM call or an unparsable response is fatal for the request and
// surfaced to the caller with the upstream detail.
func (g *Generator) Run(ctx context.Context, cleanedTranscript string, existing []vault.NoteMeta) ([]vault.Note, error) {
	response, err := g.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: generationSystemPrompt(existing),
		UserPrompt:   generationUserPrompt(cleanedTranscript),
		Temperature:  g.temperature,
		TopP:         g.topP,
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: LLM note generation failed: %w", err)
	}

	var parsed notesResponse
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, fmt.Errorf("agent: failed to parse notes JSON from LLM: %w", err)
	}
	if parsed.Notes == nil {
		return nil, fmt.Errorf("agent: LLM response is missing the \"notes\" key")
	}

	batchTime := g.now()
	notes := make([]vault.Note, 0, len(parsed.Notes))
	for _, nd := range parsed.Notes {
		notes = append(notes, vault.Note{
			Title:        nd.Title,
			Content:      nd.Content,
			Tags:         vault.SanitizeTags(nd.Tags),
			Date:         batchTime,
			Source:       vault.SourceVoiceMemo,
			RelatedNotes: nd.RelatedNotes,
		})
	}

	return notes, nil
}
