// Package transcription turns audio files into text through a pluggable
// provider, selected by configuration.
package transcription

import (
	"context"
	"fmt"

	"github.com/dotvoice/dot/pkg/config"
)

// Transcriber converts an audio file into a raw transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// New builds the transcriber selected by the configuration.
//
// "whisper-api" uses an OpenAI-compatible audio transcriptions endpoint.
// "local" is recognized but not supported by this build; it is reserved for
// an on-device whisper backend.
func New(cfg config.TranscriptionConfig) (Transcriber, error) {
	switch cfg.Provider {
	case "whisper-api":
		return NewWhisperAPI(cfg)
	case "local":
		return nil, fmt.Errorf("transcription: provider %q is not supported by this build", cfg.Provider)
	default:
		return nil, fmt.Errorf("transcription: unknown provider %q", cfg.Provider)
	}
}
