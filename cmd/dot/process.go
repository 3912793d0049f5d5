package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotvoice/dot/pkg/agent"
)

var processCmd = &cobra.Command{
	Use:   "process [transcript-file]",
	Short: "Run the note pipeline over a raw transcript",
	Long: `Process reads a raw transcript from the given file (or stdin when no
file is given) and runs the full pipeline: correction, note generation,
link resolution, and persistence into the notes directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if len(args) == 0 || args[0] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}
		transcript := strings.TrimSpace(string(raw))
		if transcript == "" {
			return fmt.Errorf("transcript is empty")
		}

		return runPipeline(cmd, transcript)
	},
}

// runPipeline wires the configured chat provider into an agent and prints
// the outcome of one run.
func runPipeline(cmd *cobra.Command, transcript string) error {
	provider, err := newChatProvider(cfg)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	ag := agent.New(provider, agent.Options{
		NotesDir:              cfg.Output.NotesDir,
		CorrectionEnabled:     cfg.Correction.Enabled,
		CorrectionTemperature: cfg.Correction.Temperature,
		CorrectionTopP:        cfg.Correction.TopP,
		GenerationTemperature: cfg.Generation.Temperature,
		GenerationTopP:        cfg.Generation.TopP,
	})

	result, err := ag.ProcessTranscript(cmd.Context(), transcript)
	if err != nil {
		return err
	}

	appLog.Infof("pipeline done: %d note(s), %d saved", len(result.Notes), len(result.SavedPaths))
	fmt.Printf("Generated %d note(s):\n", len(result.Notes))
	for _, note := range result.Notes {
		fmt.Printf("  - %s (tags: %s)\n", note.Title, strings.Join(note.Tags, ", "))
	}
	fmt.Printf("Saved %d file(s):\n", len(result.SavedPaths))
	for _, path := range result.SavedPaths {
		fmt.Printf("  - %s\n", path)
	}
	if len(result.SavedPaths) < len(result.Notes) {
		fmt.Fprintf(os.Stderr, "warning: %d note(s) failed to save\n", len(result.Notes)-len(result.SavedPaths))
	}
	return nil
}
