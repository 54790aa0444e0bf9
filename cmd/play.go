package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/entorb/flashcards-sub001/internal/app"
	"github.com/entorb/flashcards-sub001/internal/config"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/selector"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var errNotTerminal = errors.New("flashcards needs an interactive terminal")

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the trainer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().String("mode", "", "Game mode: standard, rounds, endless-3 or endless-5")
	playCmd.Flags().String("focus", "", "Card focus: weak, strong or slow")
	playCmd.Flags().String("cards", "", "Card selection: all, squares or a list like 3,7")
	playCmd.Flags().String("direction", "", "Word decks: forward or reverse")
}

// runPlay opens the store, builds the game, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	logFile := ""
	if dir, err := store.DataDir(); err == nil {
		logFile = filepath.Join(dir, "flashcards.log")
	}
	e, err := openEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	name, err := resolveDeck(cmd, e.cfg)
	if err != nil {
		return err
	}
	sessCfg, err := e.cfg.Session()
	if err != nil {
		return err
	}

	ctx := context.Background()
	repo := e.store.Deck(name)
	settings, err := initialSettings(ctx, cmd, e.cfg, repo)
	if err != nil {
		return err
	}

	game := session.NewGame(ctx, session.Deps{Repo: repo, Logger: e.log}, sessCfg)
	e.log.Info("starting trainer", "deck", name, "phase", game.Phase().String())

	return app.Run(app.Options{
		Game:     game,
		Repo:     repo,
		Settings: settings,
	})
}

// initialSettings resolves the menu defaults: command-line flags win over
// the deck's last used settings, which win over the config file.
func initialSettings(ctx context.Context, cmd *cobra.Command, cfg *config.Config, repo store.DeckRepo) (session.Settings, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return session.Settings{}, err
	}
	if stored, err := repo.GetGameConfig(ctx); err == nil && stored != nil {
		if s, err := session.SettingsFromData(*stored); err == nil {
			settings = s
		}
	}
	return applySettingFlags(cmd, settings)
}

func applySettingFlags(cmd *cobra.Command, s session.Settings) (session.Settings, error) {
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		m, err := session.ParseMode(v)
		if err != nil {
			return s, fmt.Errorf("--mode: %w", err)
		}
		s.Mode = m
	}
	if v, _ := cmd.Flags().GetString("focus"); v != "" {
		f, err := selector.ParseFocus(v)
		if err != nil {
			return s, fmt.Errorf("--focus: %w", err)
		}
		s.Focus = f
	}
	if v, _ := cmd.Flags().GetString("cards"); v != "" {
		sel, err := filter.ParseSelection(v)
		if err != nil {
			return s, fmt.Errorf("--cards: %w", err)
		}
		s.Selection = sel
	}
	if v, _ := cmd.Flags().GetString("direction"); v != "" {
		d, err := session.ParseDirection(v)
		if err != nil {
			return s, fmt.Errorf("--direction: %w", err)
		}
		s.Direction = d
	}
	return s, nil
}
