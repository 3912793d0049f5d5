package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotvoice/dot/pkg/vault"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "List the notes currently in the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := vault.Scan(cfg.Output.NotesDir)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Printf("no notes in %s\n", cfg.Output.NotesDir)
			return nil
		}
		for _, meta := range notes {
			line := fmt.Sprintf("%s  (%s)", meta.Title, meta.Stem())
			if meta.Date != "" {
				line += "  " + meta.Date
			}
			if len(meta.Tags) > 0 {
				line += "  [" + strings.Join(meta.Tags, ", ") + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}
