// Package selector draws weighted random subsets of cards.
package selector

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/entorb/flashcards-sub001/internal/card"
)

// Weighted pairs an item with its draw weight.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// Select draws up to count items without replacement, each pick made with
// probability proportional to its weight. The input slice is not modified.
// When every remaining weight is zero the pick falls back to uniform.
// Negative weights count as zero.
func Select[T any](rnd *rand.Rand, items []Weighted[T], count int) []T {
	if count <= 0 || len(items) == 0 {
		return nil
	}
	count = min(count, len(items))

	pool := make([]Weighted[T], len(items))
	total := 0.0
	for i, it := range items {
		if it.Weight < 0 || it.Weight != it.Weight {
			it.Weight = 0
		}
		pool[i] = it
		total += it.Weight
	}

	result := make([]T, 0, count)
	for len(result) < count {
		idx := pick(rnd, pool, total)
		result = append(result, pool[idx].Item)
		pool = append(pool[:idx], pool[idx+1:]...)
		// Re-sum rather than subtract so no rounding residue survives
		// once only zero weights remain.
		total = 0
		for _, it := range pool {
			total += it.Weight
		}
	}
	return result
}

func pick[T any](rnd *rand.Rand, pool []Weighted[T], total float64) int {
	if total <= 0 {
		return rnd.IntN(len(pool))
	}
	r := rnd.Float64() * total
	acc := 0.0
	for i, w := range pool {
		acc += w.Weight
		if r < acc {
			return i
		}
	}
	// Float rounding can leave r just past the final sum.
	for i := len(pool) - 1; i >= 0; i-- {
		if pool[i].Weight > 0 {
			return i
		}
	}
	return len(pool) - 1
}

// Focus biases which cards are drawn.
type Focus string

const (
	FocusWeak   Focus = "weak"
	FocusStrong Focus = "strong"
	FocusSlow   Focus = "slow"
)

// Focuses lists every focus in menu order.
var Focuses = []Focus{FocusWeak, FocusStrong, FocusSlow}

// DisplayName returns a human-readable label.
func (f Focus) DisplayName() string {
	switch f {
	case FocusWeak:
		return "Weak cards"
	case FocusStrong:
		return "Strong cards"
	case FocusSlow:
		return "Slow cards"
	default:
		return string(f)
	}
}

// ParseFocus parses a focus strategy name.
func ParseFocus(s string) (Focus, error) {
	switch f := Focus(strings.ToLower(strings.TrimSpace(s))); f {
	case FocusWeak, FocusStrong, FocusSlow:
		return f, nil
	default:
		return "", fmt.Errorf("unknown focus %q (want weak, strong or slow)", s)
	}
}

// Weight returns the draw weight of c under focus f.
func (f Focus) Weight(c card.Card) float64 {
	switch f {
	case FocusStrong:
		return float64(c.Level)
	case FocusSlow:
		return c.Time
	default:
		return float64(card.MaxLevel + 1 - c.Level)
	}
}

// SelectCards draws count cards weighted by focus.
func SelectCards(rnd *rand.Rand, cards []card.Card, focus Focus, count int) []card.Card {
	items := make([]Weighted[card.Card], len(cards))
	for i, c := range cards {
		items[i] = Weighted[card.Card]{Item: c, Weight: focus.Weight(c)}
	}
	return Select(rnd, items, count)
}
