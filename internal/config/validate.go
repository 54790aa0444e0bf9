package config

import (
	"fmt"
	"slices"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/deck"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/session"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	if err := c.Game.validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if err := c.Scoring.validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}

func (g *GameConfig) validate() error {
	if err := deck.ValidateName(g.Deck); err != nil {
		return fmt.Errorf("deck: %w", err)
	}
	if g.MaxCards <= 0 {
		return fmt.Errorf("max_cards must be > 0 (got %d)", g.MaxCards)
	}
	if g.LoopCount <= 0 {
		return fmt.Errorf("loop_count must be > 0 (got %d)", g.LoopCount)
	}
	if _, err := filter.ParseRange(g.Range); err != nil {
		return fmt.Errorf("range: %w", err)
	}
	if _, err := session.SettingsFromData(storeSettings(*g)); err != nil {
		return err
	}
	return nil
}

func (s *ScoringConfig) validate() error {
	if len(s.LevelPoints) != card.MaxLevel-card.MinLevel+1 {
		return fmt.Errorf("level_points needs %d entries (got %d)", card.MaxLevel-card.MinLevel+1, len(s.LevelPoints))
	}
	for i := 1; i < len(s.LevelPoints); i++ {
		if s.LevelPoints[i] < s.LevelPoints[i-1] {
			return fmt.Errorf("level_points must not decrease (got %v)", s.LevelPoints)
		}
	}
	if s.LevelPoints[0] < 0 {
		return fmt.Errorf("level_points must be >= 0 (got %v)", s.LevelPoints)
	}
	if s.LanguageBonus < 0 || s.TimeBonus < 0 {
		return fmt.Errorf("bonuses must be >= 0")
	}
	if s.TimeBonusSecs < 0 {
		return fmt.Errorf("time_bonus_secs must be >= 0 (got %v)", s.TimeBonusSecs)
	}
	return nil
}

func storeSettings(g GameConfig) store.SettingsData {
	return store.SettingsData{
		Selection: g.Selection,
		Focus:     g.Focus,
		Mode:      g.Mode,
		Direction: g.Direction,
	}
}
