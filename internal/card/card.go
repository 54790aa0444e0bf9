package card

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinLevel is the lowest mastery level; new cards start here.
	MinLevel = 1
	// MaxLevel is the highest mastery level.
	MaxLevel = 5

	// MinTime is the fastest answer latency recorded, in seconds.
	MinTime = 0.1
	// MaxTime is the slowest answer latency recorded and the default for unseen cards.
	MaxTime = 60.0
)

// Card is a single learnable question/answer unit.
type Card struct {
	Key   string  `json:"key"`
	Front string  `json:"front,omitempty"`
	Back  string  `json:"back,omitempty"`
	Level int     `json:"level"`
	Time  float64 `json:"time"`
}

// New returns a default-valued card for key. Used for cards that are
// referenced but not yet persisted.
func New(key string) Card {
	return Card{Key: key, Level: MinLevel, Time: MaxTime}
}

// Reset returns c with level and time set back to their defaults.
func (c Card) Reset() Card {
	c.Level = MinLevel
	c.Time = MaxTime
	return c
}

// PairKey formats the key of a multiplication card. The smaller operand
// always comes first, so 6x3 and 3x6 share one card.
func PairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%dx%d", a, b)
}

// Operands parses a pair key like "3x6". ok is false for keys that are not
// operand pairs (word cards).
func (c Card) Operands() (a, b int, ok bool) {
	return ParsePairKey(c.Key)
}

// ParsePairKey parses "AxB" into its operands.
func ParsePairKey(key string) (a, b int, ok bool) {
	left, right, found := strings.Cut(key, "x")
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, false
	}
	b, err = strconv.Atoi(right)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Question returns the prompt shown to the learner.
func (c Card) Question() string {
	if c.Front != "" {
		return c.Front
	}
	if a, b, ok := c.Operands(); ok {
		return fmt.Sprintf("%d × %d", a, b)
	}
	return c.Key
}

// Answer returns the expected answer.
func (c Card) Answer() string {
	if c.Back != "" {
		return c.Back
	}
	if a, b, ok := c.Operands(); ok {
		return strconv.Itoa(a * b)
	}
	return ""
}
