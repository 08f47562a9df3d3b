// Package cli provides the command-line interface for topbot.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fkalasek/topbot/internal/chat"
	"github.com/fkalasek/topbot/internal/command"
	"github.com/fkalasek/topbot/internal/config"
	"github.com/fkalasek/topbot/internal/metrics"
	"github.com/fkalasek/topbot/internal/orchestrator"
	"github.com/fkalasek/topbot/internal/provider"
	"github.com/fkalasek/topbot/internal/speech"
	"github.com/fkalasek/topbot/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configFile string
	verbose    bool

	// Global wiring, built in PersistentPreRunE.
	cfg         config.Config
	logger      *slog.Logger
	closeLogger func() error
	collector   *metrics.Collector
	kv          store.KV
	gemini      *provider.Gemini
	speechAPI   *provider.Speech
	speaker     *speech.Speaker
	orch        *orchestrator.Orchestrator
	interpreter *command.Interpreter
	service     *chat.Service
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "topbot",
	Short: "Drzý český AI chatbot TopBot.PwnZ",
	Long: `TopBot.PwnZ je český AI chatbot Františka Kaláška: textové odpovědi,
hloubkový webový výzkum s fallback řetězcem, analýza obrázků, generování
obrázků, převod textu na řeč a zpět.

Konverzace se ukládají lokálně, takže pokračuješ tam, kde jsi skončil.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.LoadWithFile(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, closeLogger = config.SetupLogger(cfg.LogFile, cfg.LogLevel)

		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("missing Gemini API key (set TOPBOT_GEMINI_API_KEY)")
		}

		collector = metrics.NewCollector()
		gemini = provider.NewGemini(cfg, logger)
		speechAPI = provider.NewSpeech(cfg, logger)

		var research orchestrator.Researcher
		if perplexity, perr := provider.NewPerplexity(cfg, logger); perr != nil {
			logger.Warn("deep research unavailable, fallback chain starts at web search", "error", perr)
			research = unavailableResearcher{perr}
		} else {
			research = perplexity
		}
		serper := provider.NewSerper(cfg, logger)
		orch = orchestrator.New(gemini, research, serper, collector, logger)

		var player speech.Player
		if p := speech.NewExecPlayer(); p != nil {
			player = p
		} else {
			logger.Debug("no audio player found on PATH, playback disabled")
		}
		speaker = speech.NewSpeaker(speechAPI, player, collector, logger)

		interpreter = command.New(orch, gemini, gemini, speaker.Speak, nil, logger)

		kv = openKV()
		service = chat.NewService(
			store.NewConversationStore(kv, logger),
			orch, interpreter, collector, logger,
			chat.Options{Vision: gemini, STT: speechAPI, Speaker: speaker},
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if collector != nil {
			snap := collector.GetSnapshot()
			for op, s := range snap.Operations {
				logger.Debug("operation stats", "op", op, "count", s.Count,
					"errors", s.Errors, "avg_ms", s.AvgTimeMs)
			}
		}
		if kv != nil {
			if err := kv.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
		if closeLogger != nil {
			closeLogger()
		}
	},
}

// openKV opens the SQLite store, falling back to memory so the chat still
// works when the data directory is unwritable.
func openKV() store.KV {
	path := filepath.Join(cfg.DataDir, "topbot.db")
	sqlite, err := store.OpenSQLite(path)
	if err != nil {
		logger.Warn("persistent store unavailable, conversations will not survive restart",
			"path", path, "error", err)
		return store.NewMemoryKV()
	}
	return sqlite
}

// unavailableResearcher fails every call so the fallback chain moves on.
type unavailableResearcher struct {
	err error
}

func (u unavailableResearcher) DeepResearch(context.Context, string) (string, error) {
	return "", u.err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(imageCmd)
}
