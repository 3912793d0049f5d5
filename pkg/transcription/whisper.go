package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dotvoice/dot/pkg/config"
)

// DefaultWhisperBaseURL is the default OpenAI audio API base URL.
const DefaultWhisperBaseURL = "https://api.openai.com/v1"

// WhisperAPI transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint.
type WhisperAPI struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	language   string
	maxBytes   int64
}

// NewWhisperAPI creates a hosted-whisper transcriber from configuration.
func NewWhisperAPI(cfg config.TranscriptionConfig) (*WhisperAPI, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("transcription: API key is required for the whisper-api provider")
	}

	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = DefaultWhisperBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	return &WhisperAPI{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		language:   cfg.Language,
		maxBytes:   cfg.MaxAudioSizeMB * 1024 * 1024,
	}, nil
}

// Transcribe uploads the audio file and returns the transcript text.
func (w *WhisperAPI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("transcription: stat audio file: %w", err)
	}
	if w.maxBytes > 0 && info.Size() > w.maxBytes {
		return "", fmt.Errorf("transcription: audio file is %d bytes, limit is %d", info.Size(), w.maxBytes)
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("transcription: open audio file: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("transcription: build form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("transcription: read audio file: %w", err)
	}
	if err := form.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("transcription: build form: %w", err)
	}
	if w.language != "" {
		if err := form.WriteField("language", w.language); err != nil {
			return "", fmt.Errorf("transcription: build form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("transcription: build form: %w", err)
	}

	url := w.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("transcription: create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("transcription: API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("transcription: API request failed with status %d: %s", resp.StatusCode, string(errBody))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("transcription: parse response: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("transcription: response contains no text")
	}

	return result.Text, nil
}
