// Package deck builds the card universes the trainer draws from.
package deck

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/entorb/flashcards-sub001/internal/card"
)

// Multiplication is the name of the built-in times-table deck.
const Multiplication = "1x1"

// Default operand bounds of the times-table universe.
const (
	MinOperand = 1
	MaxOperand = 12
)

var (
	// ErrInvalidName is returned for deck names that cannot be stored.
	ErrInvalidName = errors.New("invalid deck name")
	// ErrEmpty is returned when an imported word list has no usable rows.
	ErrEmpty = errors.New("deck has no cards")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateName checks that name is usable as a deck identifier.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// IsPairDeck reports whether the named deck is keyed by operand pairs.
func IsPairDeck(name string) bool {
	return name == Multiplication
}

// Pairs returns every multiplication card AxB with lo <= A <= B <= hi,
// ordered by A then B. Bounds are swapped if given in reverse.
func Pairs(lo, hi int) []card.Card {
	if lo > hi {
		lo, hi = hi, lo
	}
	var cards []card.Card
	for a := lo; a <= hi; a++ {
		for b := a; b <= hi; b++ {
			cards = append(cards, card.New(card.PairKey(a, b)))
		}
	}
	return cards
}

// Universe returns the default card universe for a built-in deck, or nil for
// word decks (their cards live only in the store).
func Universe(name string) []card.Card {
	if IsPairDeck(name) {
		return Pairs(MinOperand, MaxOperand)
	}
	return nil
}
