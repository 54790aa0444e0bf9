// Package scoring computes the points awarded for a single answer.
package scoring

import (
	"time"
	"unicode/utf8"

	"github.com/entorb/flashcards-sub001/internal/card"
)

// Config holds the scoring constants.
type Config struct {
	// LevelPoints maps a card level to its base points. Levels missing from
	// the table score as the nearest lower level present, or zero.
	LevelPoints        map[int]int
	CloseAdjustment    int
	LanguageBonus      int
	TimeBonus          int
	TimeBonusThreshold time.Duration
}

// DefaultConfig returns the stock scoring table.
func DefaultConfig() Config {
	return Config{
		LevelPoints:        map[int]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
		CloseAdjustment:    -1,
		LanguageBonus:      1,
		TimeBonus:          5,
		TimeBonusThreshold: 5 * time.Second,
	}
}

// Input describes one answer to be scored.
type Input struct {
	DifficultyPoints      int
	Level                 int
	TimeBonus             bool
	CloseAdjustment       bool
	LanguageBonusEligible bool
}

// Breakdown itemizes the points for one answer.
type Breakdown struct {
	LevelPoints       int `json:"levelPoints"`
	DifficultyPoints  int `json:"difficultyPoints"`
	PointsBeforeBonus int `json:"pointsBeforeBonus"`
	CloseAdjustment   int `json:"closeAdjustment"`
	LanguageBonus     int `json:"languageBonus"`
	TimeBonus         int `json:"timeBonus"`
	TotalPoints       int `json:"totalPoints"`
}

// Compute returns the breakdown for in. The total is never negative.
func Compute(cfg Config, in Input) Breakdown {
	b := Breakdown{
		LevelPoints:      cfg.levelPoints(in.Level),
		DifficultyPoints: max(in.DifficultyPoints, 0),
	}
	b.PointsBeforeBonus = b.LevelPoints + b.DifficultyPoints
	if in.CloseAdjustment {
		b.CloseAdjustment = cfg.CloseAdjustment
	}
	if in.LanguageBonusEligible {
		b.LanguageBonus = cfg.LanguageBonus
	}
	if in.TimeBonus {
		b.TimeBonus = cfg.TimeBonus
	}
	b.TotalPoints = max(0, b.PointsBeforeBonus+b.CloseAdjustment+b.LanguageBonus+b.TimeBonus)
	return b
}

// EarnsTimeBonus reports whether elapsed beats the configured threshold.
func (c Config) EarnsTimeBonus(elapsed time.Duration) bool {
	return c.TimeBonusThreshold > 0 && elapsed < c.TimeBonusThreshold
}

func (c Config) levelPoints(level int) int {
	level = card.ClampLevel(level)
	for l := level; l >= card.MinLevel; l-- {
		if p, ok := c.LevelPoints[l]; ok {
			return p
		}
	}
	return 0
}

// maxWordDifficulty caps the difficulty of word cards.
const maxWordDifficulty = 10

// Difficulty derives difficulty points from card content: the smaller
// operand for pair cards, otherwise the answer length in runes.
func Difficulty(c card.Card) int {
	if a, b, ok := c.Operands(); ok {
		return min(a, b)
	}
	n := utf8.RuneCountInString(c.Answer())
	return min(max(n, 1), maxWordDifficulty)
}
