// Package filter narrows a card universe to the cards a game may draw.
package filter

import "github.com/entorb/flashcards-sub001/internal/card"

// Filter returns the cards of universe matching sel with both operands in rng.
// The universe is never modified. Cards without operand-pair keys are dropped.
func Filter(universe []card.Card, sel Selection, rng Range) []card.Card {
	keep := predicate(sel, rng)
	out := make([]card.Card, 0, len(universe))
	for _, c := range universe {
		a, b, ok := c.Operands()
		if !ok {
			continue
		}
		if keep(a, b) {
			out = append(out, c)
		}
	}
	return out
}

func predicate(sel Selection, rng Range) func(a, b int) bool {
	inRange := func(a, b int) bool {
		return rng.Contains(a) && rng.Contains(b)
	}
	switch sel.Kind {
	case KindExplicit:
		ids := RangeOf(sel.IDs...)
		return func(a, b int) bool {
			return (ids.Contains(a) || ids.Contains(b)) && inRange(a, b)
		}
	case KindAll:
		return inRange
	case KindSquares:
		return func(a, b int) bool {
			return a == b && rng.Contains(a)
		}
	default:
		return func(int, int) bool { return false }
	}
}
