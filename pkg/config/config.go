// Package config loads the application configuration from a TOML file,
// applies defaults and environment overrides, and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file location used when none is given.
const DefaultPath = "config.toml"

// Config is the full application configuration.
type Config struct {
	Transcription TranscriptionConfig `toml:"transcription"`
	Chat          ChatConfig          `toml:"chat"`
	Correction    CorrectionConfig    `toml:"correction"`
	Generation    GenerationConfig    `toml:"generation"`
	Output        OutputConfig        `toml:"output"`
}

// TranscriptionConfig selects and tunes the transcription backend.
type TranscriptionConfig struct {
	Provider       string `toml:"provider"` // "whisper-api" or "local"
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	Endpoint       string `toml:"endpoint"`
	APIKey         string `toml:"api_key"`
	MaxAudioSizeMB int64  `toml:"max_audio_size_mb"`
}

// ChatConfig selects and tunes the chat backend used by both LLM passes.
type ChatConfig struct {
	Provider string `toml:"provider"` // "openai" or "ollama"
	Model    string `toml:"model"`
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
}

// CorrectionConfig tunes the transcript-correction pass.
type CorrectionConfig struct {
	Enabled     bool    `toml:"enabled"`
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
}

// GenerationConfig tunes the note-generation pass.
type GenerationConfig struct {
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
}

// OutputConfig holds the output locations.
type OutputConfig struct {
	NotesDir string `toml:"notes_dir"`
	TempDir  string `toml:"temp_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Transcription: TranscriptionConfig{
			Provider:       "whisper-api",
			Model:          "whisper-1",
			Language:       "it",
			MaxAudioSizeMB: 20,
		},
		Chat: ChatConfig{
			Provider: "ollama",
			Model:    "llama3.1",
			Endpoint: "http://localhost:11434",
		},
		Correction: CorrectionConfig{
			Enabled:     true,
			Temperature: 0.3,
			TopP:        0.9,
		},
		Generation: GenerationConfig{
			Temperature: 0.7,
			TopP:        0.9,
		},
		Output: OutputConfig{
			NotesDir: "./output/notes",
			TempDir:  "./temp",
		},
	}
}

// Load reads the configuration from path, falling back to defaults for a
// missing file, and applies environment overrides.
//
// DOT_OPENAI_API_KEY (or OPENAI_API_KEY) overrides both API keys so
// credentials never need to live in the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults are a valid configuration.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if key := os.Getenv("DOT_OPENAI_API_KEY"); key != "" {
		cfg.Chat.APIKey = key
		cfg.Transcription.APIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.Chat.APIKey == "" {
			cfg.Chat.APIKey = key
		}
		if cfg.Transcription.APIKey == "" {
			cfg.Transcription.APIKey = key
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Chat.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("config: unknown chat provider %q", c.Chat.Provider)
	}
	switch c.Transcription.Provider {
	case "whisper-api", "local":
	default:
		return fmt.Errorf("config: unknown transcription provider %q", c.Transcription.Provider)
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("config: chat model is required")
	}
	if c.Output.NotesDir == "" {
		return fmt.Errorf("config: output notes_dir is required")
	}
	for name, v := range map[string]float64{
		"correction.temperature": c.Correction.Temperature,
		"correction.top_p":       c.Correction.TopP,
		"generation.temperature": c.Generation.Temperature,
		"generation.top_p":       c.Generation.TopP,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("config: %s must be in [0, 1], got %v", name, v)
		}
	}
	return nil
}

// EnsureDirectories creates the output directories if they do not exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Output.NotesDir, c.Output.TempDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Clean(dir), 0o750); err != nil {
			return fmt.Errorf("config: create directory %s: %w", dir, err)
		}
	}
	return nil
}
