package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotvoice/dot/pkg/vault"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and report index changes",
	Long: `Watch observes the notes directory and prints a fresh index summary
whenever a markdown note is created, modified, or removed. Useful to follow
what concurrent pipeline runs are writing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("watching %s (ctrl-c to stop)\n", cfg.Output.NotesDir)
		return vault.Watch(cmd.Context(), cfg.Output.NotesDir, func(notes []vault.NoteMeta) {
			fmt.Printf("index: %d note(s)\n", len(notes))
			for _, meta := range notes {
				fmt.Printf("  - %s (%s)\n", meta.Title, meta.Stem())
			}
		})
	},
}
