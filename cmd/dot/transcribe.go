package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotvoice/dot/pkg/transcription"
)

var transcribeOnly bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an audio file and run the note pipeline over it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcriber, err := transcription.New(cfg.Transcription)
		if err != nil {
			return err
		}

		appLog.Infof("transcribing %s", args[0])
		transcript, err := transcriber.Transcribe(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("transcribe %s: %w", args[0], err)
		}

		if transcribeOnly {
			fmt.Println(transcript)
			return nil
		}
		return runPipeline(cmd, transcript)
	},
}

func init() {
	transcribeCmd.Flags().BoolVar(&transcribeOnly, "transcript-only", false, "print the transcript instead of generating notes")
}
