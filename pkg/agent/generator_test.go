package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotvoice/dot/pkg/llm"
	"github.com/dotvoice/dot/pkg/vault"
)

func staticProvider(response string, err error) llm.Provider {
	return &fakeProvider{
		generate: func(req llm.ChatRequest) (string, error) {
			return response, err
		},
	}
}

func TestGeneratorParsesNotes(t *testing.T) {
	g := NewGenerator(staticProvider(`{
		"notes": [
			{"title": "Idea", "content": "Testo", "tags": ["machine learning", "ai"], "related_notes": ["Altra Nota"]},
			{"title": "Task", "content": "Da fare", "tags": ["todo"]}
		]
	}`, nil), 0.7, 0.9)

	notes, err := g.Run(context.Background(), "trascrizione", nil)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.Equal(t, "Idea", notes[0].Title)
	assert.Equal(t, []string{"machine-learning", "ai"}, notes[0].Tags,
		"tags are sanitized at construction")
	assert.Equal(t, []string{"Altra Nota"}, notes[0].RelatedNotes)
	assert.Equal(t, vault.SourceVoiceMemo, notes[0].Source)

	assert.True(t, notes[0].Date.Equal(notes[1].Date),
		"all notes in a batch share the same creation instant")
}

func TestGeneratorUsesJSONMode(t *testing.T) {
	var jsonMode bool
	provider := &fakeProvider{
		generate: func(req llm.ChatRequest) (string, error) {
			jsonMode = req.JSONMode
			return `{"notes": []}`, nil
		},
	}

	_, err := NewGenerator(provider, 0.7, 0.9).Run(context.Background(), "testo", nil)
	require.NoError(t, err)
	assert.True(t, jsonMode)
}

func TestGeneratorMalformedJSONIsFatal(t *testing.T) {
	g := NewGenerator(staticProvider("sure! here are your notes: {", nil), 0.7, 0.9)

	_, err := g.Run(context.Background(), "testo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse notes JSON")
}

func TestGeneratorMissingNotesKeyIsFatal(t *testing.T) {
	g := NewGenerator(staticProvider(`{"documents": []}`, nil), 0.7, 0.9)

	_, err := g.Run(context.Background(), "testo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing the \"notes\" key")
}

func TestGeneratorProviderErrorIsSurfaced(t *testing.T) {
	g := NewGenerator(staticProvider("", &llm.StatusError{StatusCode: 429, Body: "rate limited"}), 0.7, 0.9)

	_, err := g.Run(context.Background(), "testo", nil)
	require.Error(t, err)

	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 429, statusErr.StatusCode)
}

func TestGeneratorBatchTimestamp(t *testing.T) {
	g := NewGenerator(staticProvider(`{"notes": [{"title": "A", "content": "x", "tags": []}]}`, nil), 0.7, 0.9)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	notes, err := g.Run(context.Background(), "testo", nil)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Date.Equal(fixed))
}
