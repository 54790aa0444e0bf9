package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/entorb/flashcards-sub001/internal/config"
	"github.com/entorb/flashcards-sub001/internal/deck"
	"github.com/entorb/flashcards-sub001/internal/logging"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Adaptive flashcard trainer",
	Long:  "Flashcards: a terminal trainer for times tables and word lists that adapts to what you know.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FLASHCARDS_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides FLASHCARDS_CONFIG env var)")
	rootCmd.PersistentFlags().String("deck", "", "Deck to use (default from config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(etaCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config, FLASHCARDS_CONFIG or
// the default path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	p, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(p)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (FLASHCARDS_DB or the config file), then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

// resolveDeck returns the --deck flag or the configured deck.
func resolveDeck(cmd *cobra.Command, cfg *config.Config) (string, error) {
	name, _ := cmd.Flags().GetString("deck")
	if name == "" {
		name = cfg.Game.Deck
	}
	if err := deck.ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// env is what most subcommands need: config, a logger and an open store.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	store  *store.Store
	closer io.Closer
}

func (e *env) Close() error {
	err := e.store.Close()
	if e.closer != nil {
		_ = e.closer.Close()
	}
	return err
}

// openEnv loads config, sets up logging and opens the store. logFile is the
// fallback log destination; empty logs to stderr.
func openEnv(cmd *cobra.Command, logFile string) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.Open(cfg.Log, logFile)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)
	return &env{cfg: cfg, log: logger, store: st, closer: closer}, nil
}
