package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show deck statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		name, err := resolveDeck(cmd, e.cfg)
		if err != nil {
			return err
		}
		ctx := context.Background()
		repo := e.store.Deck(name)
		s, err := repo.LoadGameStats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		cards, err := repo.LoadCards(ctx)
		if err != nil {
			return fmt.Errorf("load cards: %w", err)
		}
		printStats(cmd.OutOrStdout(), name, s, cards, time.Now())
		return nil
	},
}

func printStats(w io.Writer, name string, s stats.Stats, cards []card.Card, now time.Time) {
	fmt.Fprintf(w, "Deck:        %s\n", name)
	fmt.Fprintf(w, "Games:       %s\n", humanize.Comma(int64(s.GamesPlayed)))
	fmt.Fprintf(w, "Points:      %s (best %d)\n", humanize.Comma(int64(s.Points)), s.BestPoints)
	fmt.Fprintf(w, "Accuracy:    %.0f%% (%d/%d)\n", s.Accuracy()*100, s.Correct, s.Answered)
	fmt.Fprintf(w, "Streak:      %d %s\n", s.Streak, plural(s.Streak, "day", "days"))
	if !s.LastPlayed.IsZero() {
		fmt.Fprintf(w, "Last played: %s\n", humanize.RelTime(s.LastPlayed, now, "ago", "from now"))
	}

	if len(cards) == 0 {
		return
	}
	var perLevel [card.MaxLevel + 1]int
	for _, c := range cards {
		perLevel[card.ClampLevel(c.Level)]++
	}
	fmt.Fprintf(w, "\nCards:       %d\n", len(cards))
	for lvl := card.MinLevel; lvl <= card.MaxLevel; lvl++ {
		fmt.Fprintf(w, "  level %d    %d\n", lvl, perLevel[lvl])
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
