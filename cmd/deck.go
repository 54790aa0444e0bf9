package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entorb/flashcards-sub001/internal/deck"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		decks, err := e.store.DeckCatalog().List(context.Background())
		if err != nil {
			return fmt.Errorf("list decks: %w", err)
		}
		printDecks(cmd.OutOrStdout(), decks)
		return nil
	},
}

var deckImportCmd = &cobra.Command{
	Use:   "import <name> <file>",
	Short: "Import a tab-separated word list (front<TAB>back per line)",
	Long: "Adds the words of file to deck name. Existing cards keep their progress. " +
		"Use - to read from stdin.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reverse, _ := cmd.Flags().GetBool("swap")

		name := args[0]
		if err := deck.ValidateName(name); err != nil {
			return err
		}
		if deck.IsPairDeck(name) {
			return fmt.Errorf("deck %q is built in and cannot be imported into", name)
		}

		var r io.Reader = cmd.InOrStdin()
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open word list: %w", err)
			}
			defer f.Close()
			r = f
		}
		cards, err := deck.ReadWords(r)
		if err != nil {
			return fmt.Errorf("read word list: %w", err)
		}
		if reverse {
			cards = deck.Reverse(cards)
		}

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Deck(name).SeedCards(context.Background(), cards); err != nil {
			return fmt.Errorf("import cards: %w", err)
		}
		e.log.Info("deck imported", "deck", name, "cards", len(cards))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards into %s.\n", len(cards), name)
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a deck with its history and statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		err = e.store.DeckCatalog().Delete(context.Background(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no deck named %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("delete deck: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deck %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	deckImportCmd.Flags().Bool("swap", false, "Swap the columns (back<TAB>front)")

	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckImportCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}

func printDecks(w io.Writer, decks []store.DeckInfo) {
	if len(decks) == 0 {
		fmt.Fprintf(w, "No decks stored yet. The %s deck is created on first play.\n", deck.Multiplication)
		return
	}
	fmt.Fprintf(w, "%-24s  %6s  %s\n", "Deck", "Cards", "Mean level")
	fmt.Fprintln(w, strings.Repeat("─", 46))
	for _, d := range decks {
		fmt.Fprintf(w, "%-24s  %6d  %.1f\n", d.Name, d.Cards, d.MeanLevel)
	}
}
