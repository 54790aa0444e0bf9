package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset card levels and times of a deck",
	Long: "Sets every card of the deck back to level 1 and the slowest time, and " +
		"discards an unfinished game. History is kept; --stats also clears the totals.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		withStats, _ := cmd.Flags().GetBool("stats")

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		name, err := resolveDeck(cmd, e.cfg)
		if err != nil {
			return err
		}
		if !yes {
			return fmt.Errorf("refusing to reset deck %q without --yes", name)
		}
		if err := resetDeck(context.Background(), e.store.Deck(name), withStats); err != nil {
			return err
		}
		e.log.Info("deck reset", "deck", name, "stats", withStats)
		fmt.Fprintf(cmd.OutOrStdout(), "Deck %s reset.\n", name)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
	resetCmd.Flags().Bool("stats", false, "Also clear points, streak and totals")
}

func resetDeck(ctx context.Context, repo store.DeckRepo, withStats bool) error {
	if err := repo.ResetCards(ctx); err != nil {
		return fmt.Errorf("reset cards: %w", err)
	}
	if err := repo.ClearGameState(ctx); err != nil {
		return fmt.Errorf("clear game state: %w", err)
	}
	if err := repo.ClearGameResult(ctx); err != nil {
		return fmt.Errorf("clear game result: %w", err)
	}
	if withStats {
		if err := repo.SaveGameStats(ctx, stats.Stats{}); err != nil {
			return fmt.Errorf("clear stats: %w", err)
		}
	}
	return nil
}
