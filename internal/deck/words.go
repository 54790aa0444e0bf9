package deck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/entorb/flashcards-sub001/internal/card"
)

// ReadWords parses a tab-separated word list. Each row is "front<TAB>back";
// blank lines and lines starting with '#' are skipped. Duplicate fronts keep
// the first row.
func ReadWords(r io.Reader) ([]card.Card, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	seen := make(map[string]bool)
	var cards []card.Card
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading word list: %w", err)
		}
		if len(rec) < 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected front and back separated by a tab", line)
		}
		front := strings.TrimSpace(rec[0])
		back := strings.TrimSpace(rec[1])
		if front == "" || back == "" {
			continue
		}
		if seen[front] {
			continue
		}
		seen[front] = true

		c := card.New(front)
		c.Front = front
		c.Back = back
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		return nil, ErrEmpty
	}
	return cards, nil
}

// Reverse swaps front and back, used for the reverse translation direction.
func Reverse(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	for i, c := range cards {
		c.Front, c.Back = c.Back, c.Front
		out[i] = c
	}
	return out
}
