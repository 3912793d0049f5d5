// Command dot turns voice memos into cross-linked markdown notes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dotvoice/dot/pkg/config"
	"github.com/dotvoice/dot/pkg/llm"
	"github.com/dotvoice/dot/pkg/llm/ollama"
	"github.com/dotvoice/dot/pkg/llm/openai"
	"github.com/dotvoice/dot/pkg/logging"
)

const version = "0.1.0"

var (
	cfgPath string
	cfg     *config.Config
	appLog  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:     "dot",
	Short:   "Turn voice memos into cross-linked knowledge-base notes",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = os.Getenv("DOT_CONFIG")
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		// NewLogger falls back to stderr on error and reports the
		// problem itself, so the error is not fatal here.
		appLog, _ = logging.NewLogger("dot")
		appLog.Infof("configuration loaded (chat=%s, notes_dir=%s)", cfg.Chat.Provider, cfg.Output.NotesDir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			_ = appLog.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config.toml (default ./config.toml)")
	rootCmd.AddCommand(processCmd, transcribeCmd, indexCmd, watchCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dot: %v\n", err)
		os.Exit(1)
	}
}

// newChatProvider builds the chat backend selected by configuration.
func newChatProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Chat.Provider {
	case "openai":
		opts := []openai.ProviderOption{openai.WithModel(cfg.Chat.Model)}
		if cfg.Chat.Endpoint != "" {
			opts = append(opts, openai.WithBaseURL(cfg.Chat.Endpoint))
		}
		return openai.NewProvider(cfg.Chat.APIKey, opts...)
	case "ollama":
		var opts []ollama.ProviderOption
		if cfg.Chat.Endpoint != "" {
			opts = append(opts, ollama.WithEndpoint(cfg.Chat.Endpoint))
		}
		return ollama.NewProvider(cfg.Chat.Model, opts...)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.Chat.Provider)
	}
}
