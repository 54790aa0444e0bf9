package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/entorb/flashcards-sub001/internal/screens/history"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished games of a deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		name, err := resolveDeck(cmd, e.cfg)
		if err != nil {
			return err
		}
		records, err := e.store.Deck(name).LoadHistory(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		printHistory(cmd.OutOrStdout(), name, records, verbose, time.Now())
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of games (0 for all)")
	historyCmd.Flags().BoolP("verbose", "v", false, "Show the settings of each game")
}

func printHistory(w io.Writer, name string, records []store.HistoryRecord, verbose bool, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No games played on deck %q yet.\n", name)
		return
	}
	fmt.Fprintf(w, "Deck %s\n", name)
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, rec := range records {
		fmt.Fprintln(w, history.Line(rec, now))
		if verbose {
			fmt.Fprintln(w, "    "+history.Details(rec))
		}
	}
	fmt.Fprintf(w, "\n%d games\n", len(records))
}
