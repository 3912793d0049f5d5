package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotvoice/dot/pkg/llm"
)

// fakeProvider routes calls to per-test functions. JSON-mode requests go to
// the generation pass, everything else to correction.
type fakeProvider struct {
	correct  func(req llm.ChatRequest) (string, error)
	generate func(req llm.ChatRequest) (string, error)
}

func (f *fakeProvider) Chat(_ context.Context, req llm.ChatRequest) (string, error) {
	if req.JSONMode {
		if f.generate == nil {
			return "", fmt.Errorf("unexpected generation call")
		}
		return f.generate(req)
	}
	if f.correct == nil {
		return "", fmt.Errorf("unexpected correction call")
	}
	return f.correct(req)
}

func newTestAgent(provider llm.Provider, notesDir string) *Agent {
	return New(provider, Options{
		NotesDir:              notesDir,
		CorrectionEnabled:     true,
		CorrectionTemperature: 0.3,
		CorrectionTopP:        0.9,
		GenerationTemperature: 0.7,
		GenerationTopP:        0.9,
	})
}

func TestProcessTranscriptFullPipeline(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{
		correct: func(req llm.ChatRequest) (string, error) {
			assert.Contains(t, req.UserPrompt, "testo grezzo")
			return "testo corretto", nil
		},
		generate: func(req llm.ChatRequest) (string, error) {
			assert.Contains(t, req.UserPrompt, "testo corretto")
			return `{"notes": [
				{"title": "Nota A", "content": "Contenuto A", "tags": ["rust", "coding"]},
				{"title": "Nota B", "content": "Contenuto B", "tags": ["rust"]}
			]}`, nil
		},
	}

	result, err := newTestAgent(provider, dir).ProcessTranscript(context.Background(), "testo grezzo")
	require.NoError(t, err)

	assert.Equal(t, "testo grezzo", result.RawTranscript)
	assert.Equal(t, "testo corretto", result.CleanedTranscript)
	require.Len(t, result.Notes, 2)
	require.Len(t, result.SavedPaths, 2)

	// Siblings share the "rust" tag, so they reference each other.
	assert.Contains(t, result.Notes[0].RelatedNotes, "Nota B")
	assert.Contains(t, result.Notes[1].RelatedNotes, "Nota A")

	for _, path := range result.SavedPaths {
		_, err := os.Stat(path)
		assert.NoError(t, err, "saved path should exist: %s", path)
	}
}

func TestProcessTranscriptCorrectionFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{
		correct: func(req llm.ChatRequest) (string, error) {
			return "", &llm.StatusError{StatusCode: 500, Body: "boom"}
		},
		generate: func(req llm.ChatRequest) (string, error) {
			return `{"notes": []}`, nil
		},
	}

	result, err := newTestAgent(provider, dir).ProcessTranscript(context.Background(), "testo grezzo")
	require.NoError(t, err)
	assert.Equal(t, result.RawTranscript, result.CleanedTranscript,
		"correction failure must fall back to the raw transcript")
}

func TestProcessTranscriptCorrectionDisabled(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{
		generate: func(req llm.ChatRequest) (string, error) {
			return `{"notes": []}`, nil
		},
	}

	ag := New(provider, Options{NotesDir: dir, CorrectionEnabled: false})
	result, err := ag.ProcessTranscript(context.Background(), "testo grezzo")
	require.NoError(t, err)
	assert.Equal(t, "testo grezzo", result.CleanedTranscript)
}

func TestProcessTranscriptGenerationFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{
		correct: func(req llm.ChatRequest) (string, error) {
			return "pulito", nil
		},
		generate: func(req llm.ChatRequest) (string, error) {
			return "", llm.ErrMissingContent
		},
	}

	_, err := newTestAgent(provider, dir).ProcessTranscript(context.Background(), "testo")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrMissingContent)
}

func TestProcessTranscriptExistingNotesFlowIntoPrompt(t *testing.T) {
	dir := t.TempDir()
	existing := `---
title: "Architettura Microservizi"
tags:
  - architettura
---

Nota esistente.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Architettura Microservizi.md"), []byte(existing), 0o600))

	provider := &fakeProvider{
		correct: func(req llm.ChatRequest) (string, error) { return "pulito", nil },
		generate: func(req llm.ChatRequest) (string, error) {
			assert.Contains(t, req.SystemPrompt, "NOTE ESISTENTI NEL SISTEMA")
			assert.Contains(t, req.SystemPrompt, "Architettura Microservizi")
			return `{"notes": [{"title": "Nuova", "content": "Si collega ad Architettura Microservizi.", "tags": ["architettura"]}]}`, nil
		},
	}

	result, err := newTestAgent(provider, dir).ProcessTranscript(context.Background(), "testo")
	require.NoError(t, err)
	require.Len(t, result.Notes, 1)
	assert.Contains(t, result.Notes[0].Content, "[[Architettura Microservizi]]",
		"bare mention of an existing note gets wiki-linked")
}
