// Package agent implements the note-generation pipeline: it corrects a raw
// voice transcript, reads the index of existing vault notes, generates
// structured notes through an LLM, resolves cross-references to canonical
// identifiers, and persists the result.
//
// The pipeline is strictly sequential within one run. Concurrent runs are
// independent except for the vault directory, which is a shared resource:
// each run reads a point-in-time snapshot of the index, and writes are
// serialized per directory by the vault package. A run aborted mid-flight
// leaves already-written notes on disk; there is no rollback.
package agent

import (
	"context"
	"log/slog"

	"github.com/dotvoice/dot/pkg/llm"
	"github.com/dotvoice/dot/pkg/vault"
)

// Options configures an Agent.
type Options struct {
	// NotesDir is the vault directory notes are read from and written to.
	NotesDir string

	// CorrectionEnabled toggles the transcript-correction pass.
	CorrectionEnabled bool

	// Sampling parameters for the two LLM passes.
	CorrectionTemperature float64
	CorrectionTopP        float64
	GenerationTemperature float64
	GenerationTopP        float64
}

// Agent sequences the pipeline stages over a shared LLM provider.
type Agent struct {
	corrector         *Corrector
	generator         *Generator
	notesDir          string
	correctionEnabled bool
}

// Result aggregates the outcome of one pipeline run. It is owned by the
// caller and never persisted.
//
// SavedPaths can be shorter than Notes: a note whose write failed is
// dropped from the paths but still present in Notes.
type Result struct {
	Notes             []vault.Note
	SavedPaths        []string
	CleanedTranscript string
	RawTranscript     string
}

// New creates an agent that runs both LLM passes against the given
// provider.
func New(provider llm.Provider, opts Options) *Agent {
	return &Agent{
		corrector:         NewCorrector(provider, opts.CorrectionTemperature, opts.CorrectionTopP),
		generator:         NewGenerator(provider, opts.GenerationTemperature, opts.GenerationTopP),
		notesDir:          opts.NotesDir,
		correctionEnabled: opts.CorrectionEnabled,
	}
}

// ProcessTranscript runs the full pipeline over a raw transcript.
//
// Correction and index failures are recoverable: the raw transcript and an
// empty index are used instead and the pipeline continues. A generation
// failure is fatal and returned with the upstream detail. Individual write
// failures only shorten SavedPaths.
func (a *Agent) ProcessTranscript(ctx context.Context, rawTranscript string) (*Result, error) {
	slog.Info("agent: correcting transcript", "enabled", a.correctionEnabled)
	cleaned := rawTranscript
	if a.correctionEnabled {
		corrected, err := a.corrector.Run(ctx, rawTranscript)
		if err != nil {
			slog.Warn("agent: correction failed, using raw transcript", "err", err)
		} else {
			cleaned = corrected
		}
	}

	slog.Info("agent: reading existing notes index", "dir", a.notesDir)
	existing, err := vault.Scan(a.notesDir)
	if err != nil {
		slog.Warn("agent: failed to read existing notes, using empty index", "err", err)
		existing = nil
	} else {
		slog.Info("agent: notes index read", "count", len(existing))
	}

	slog.Info("agent: generating notes")
	notes, err := a.generator.Run(ctx, cleaned, existing)
	if err != nil {
		return nil, err
	}
	slog.Info("agent: notes generated", "count", len(notes))

	notes = vault.ResolveLinks(notes, existing)

	slog.Info("agent: saving notes")
	saved, err := vault.WriteNotes(notes, a.notesDir)
	if err != nil {
		return nil, err
	}

	return &Result{
		Notes:             notes,
		SavedPaths:        saved,
		CleanedTranscript: cleaned,
		RawTranscript:     rawTranscript,
	}, nil
}
