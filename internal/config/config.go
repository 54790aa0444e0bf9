// Package config loads flashcards settings from a TOML file and the environment.
package config

import (
	"fmt"
	"time"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/filter"
	"github.com/entorb/flashcards-sub001/internal/scoring"
	"github.com/entorb/flashcards-sub001/internal/session"
)

// Config is the root configuration.
type Config struct {
	DB      DBConfig      `toml:"db"`
	Log     LogConfig     `toml:"log"`
	Game    GameConfig    `toml:"game"`
	Scoring ScoringConfig `toml:"scoring"`
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	// Path is empty to use the XDG data directory.
	Path string `toml:"path" env:"FLASHCARDS_DB"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"  env:"FLASHCARDS_LOG_LEVEL"  env-default:"info"`
	Format string `toml:"format" env:"FLASHCARDS_LOG_FORMAT" env-default:"text"`
	// File receives log output; empty means stderr for CLI commands and
	// flashcards.log in the data directory for the terminal UI.
	File string `toml:"file" env:"FLASHCARDS_LOG_FILE"`
}

// GameConfig holds the defaults for new games.
type GameConfig struct {
	Deck      string `toml:"deck"       env:"FLASHCARDS_DECK"       env-default:"1x1"`
	MaxCards  int    `toml:"max_cards"  env:"FLASHCARDS_MAX_CARDS"  env-default:"10"`
	LoopCount int    `toml:"loop_count" env:"FLASHCARDS_LOOP_COUNT" env-default:"3"`
	Range     string `toml:"range"      env:"FLASHCARDS_RANGE"      env-default:"1-10"`
	Selection string `toml:"selection"  env:"FLASHCARDS_SELECTION"  env-default:"all"`
	Focus     string `toml:"focus"      env:"FLASHCARDS_FOCUS"      env-default:"weak"`
	Mode      string `toml:"mode"       env:"FLASHCARDS_MODE"       env-default:"standard"`
	Direction string `toml:"direction"  env:"FLASHCARDS_DIRECTION"  env-default:"forward"`
}

// ScoringConfig holds the points table.
type ScoringConfig struct {
	// LevelPoints lists the base points for levels 1 through 5.
	LevelPoints     []int   `toml:"level_points"      env:"FLASHCARDS_LEVEL_POINTS"      env-default:"1,2,3,4,5" env-separator:","`
	CloseAdjustment int     `toml:"close_adjustment"  env:"FLASHCARDS_CLOSE_ADJUSTMENT"  env-default:"-1"`
	LanguageBonus   int     `toml:"language_bonus"    env:"FLASHCARDS_LANGUAGE_BONUS"    env-default:"1"`
	TimeBonus       int     `toml:"time_bonus"        env:"FLASHCARDS_TIME_BONUS"        env-default:"5"`
	TimeBonusSecs   float64 `toml:"time_bonus_secs"   env:"FLASHCARDS_TIME_BONUS_SECS"   env-default:"5"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Game: GameConfig{
			Deck:      "1x1",
			MaxCards:  10,
			LoopCount: 3,
			Range:     "1-10",
			Selection: "all",
			Focus:     "weak",
			Mode:      "standard",
			Direction: "forward",
		},
		Scoring: ScoringConfig{
			LevelPoints:     []int{1, 2, 3, 4, 5},
			CloseAdjustment: -1,
			LanguageBonus:   1,
			TimeBonus:       5,
			TimeBonusSecs:   5,
		},
	}
}

// Scoring converts the scoring section.
func (s ScoringConfig) Scoring() scoring.Config {
	points := make(map[int]int, len(s.LevelPoints))
	for i, p := range s.LevelPoints {
		points[card.MinLevel+i] = p
	}
	return scoring.Config{
		LevelPoints:        points,
		CloseAdjustment:    s.CloseAdjustment,
		LanguageBonus:      s.LanguageBonus,
		TimeBonus:          s.TimeBonus,
		TimeBonusThreshold: time.Duration(s.TimeBonusSecs * float64(time.Second)),
	}
}

// Session returns the game configuration for the session package.
func (c *Config) Session() (session.Config, error) {
	rng, err := filter.ParseRange(c.Game.Range)
	if err != nil {
		return session.Config{}, fmt.Errorf("game.range: %w", err)
	}
	return session.Config{
		MaxCards:  c.Game.MaxCards,
		LoopCount: c.Game.LoopCount,
		Range:     rng,
		Scoring:   c.Scoring.Scoring(),
	}, nil
}

// Settings returns the default game settings.
func (c *Config) Settings() (session.Settings, error) {
	return session.SettingsFromData(storeSettings(c.Game))
}
