package store

import (
	"context"
	"errors"
	"time"

	"github.com/entorb/flashcards-sub001/internal/card"
	"github.com/entorb/flashcards-sub001/internal/eta"
	"github.com/entorb/flashcards-sub001/internal/stats"
)

// ErrNotFound is returned when a named record does not exist.
var ErrNotFound = errors.New("not found")

// SettingsData is the persisted form of a game's settings.
type SettingsData struct {
	Selection string `json:"selection"`
	Focus     string `json:"focus"`
	Mode      string `json:"mode"`
	Direction string `json:"direction,omitempty"`
}

// AppearanceData is one scheduled appearance of a card in a game.
type AppearanceData struct {
	Key   string `json:"key"`
	Round int    `json:"round"`
}

// GameStateData is the mid-game snapshot used for reload recovery.
type GameStateData struct {
	Version      int              `json:"version"`
	SessionID    string           `json:"sessionId"`
	StartedAt    string           `json:"startedAt"` // RFC3339
	Settings     SettingsData     `json:"settings"`
	Appearances  []AppearanceData `json:"appearances"`
	Pool         []string         `json:"pool,omitempty"`
	CurrentIndex int              `json:"currentIndex"`
	Points       int              `json:"points"`
	CorrectCount int              `json:"correctCount"`
	Answered     int              `json:"answered"`
	LastAccepted bool             `json:"lastAccepted,omitempty"`
}

// GameResultData is the hand-off from a finished game to the results view.
type GameResultData struct {
	SessionID    string       `json:"sessionId"`
	Deck         string       `json:"deck"`
	Settings     SettingsData `json:"settings"`
	FinishedAt   string       `json:"finishedAt"` // RFC3339
	DurationSecs float64      `json:"durationSecs"`
	Points       int          `json:"points"`
	CorrectCount int          `json:"correctCount"`
	Answered     int          `json:"answered"`
	DayBonus     int          `json:"dayBonus"`
	StreakBonus  int          `json:"streakBonus"`
}

// HistoryRecord is one finished game.
type HistoryRecord struct {
	ID           int
	Sequence     int64
	SessionID    string
	PlayedAt     time.Time
	Settings     SettingsData
	Points       int
	Correct      int
	Answered     int
	Bonus        int
	DurationSecs float64
}

// DeckInfo summarizes a stored deck.
type DeckInfo struct {
	Name      string
	Cards     int
	MeanLevel float64
}

// DeckRepo is the persistence collaborator for one deck.
type DeckRepo interface {
	// Name returns the deck this repository is scoped to.
	Name() string

	// LoadCards returns all persisted cards of the deck.
	LoadCards(ctx context.Context) ([]card.Card, error)

	// SeedCards inserts the given cards unless a card with the same key exists.
	SeedCards(ctx context.Context, cards []card.Card) error

	// UpdateCard applies a partial update, creating the card with default
	// values first if it is not yet stored. The latest call wins.
	UpdateCard(ctx context.Context, key string, patch card.Patch) error

	// ResetCards sets every card of the deck back to default level and time.
	ResetCards(ctx context.Context) error

	// LoadHistory returns finished games, newest first. limit <= 0 returns all.
	LoadHistory(ctx context.Context, limit int) ([]HistoryRecord, error)

	// AppendHistory stores a finished game.
	AppendHistory(ctx context.Context, rec HistoryRecord) error

	LoadGameStats(ctx context.Context) (stats.Stats, error)
	SaveGameStats(ctx context.Context, s stats.Stats) error

	// LoadGameState returns the mid-game snapshot, or nil if none is stored.
	// Snapshots that fail validation are cleared and reported as absent.
	LoadGameState(ctx context.Context) (*GameStateData, error)
	SaveGameState(ctx context.Context, state GameStateData) error
	ClearGameState(ctx context.Context) error

	// GetGameConfig returns the last used settings, or nil if none is stored.
	GetGameConfig(ctx context.Context) (*SettingsData, error)
	SetGameConfig(ctx context.Context, settings SettingsData) error

	// LoadRange returns the stored operand range, or nil if none is stored.
	LoadRange(ctx context.Context) ([]int, error)
	SaveRange(ctx context.Context, values []int) error

	GetGameResult(ctx context.Context) (*GameResultData, error)
	SetGameResult(ctx context.Context, result GameResultData) error
	ClearGameResult(ctx context.Context) error
}

// DeckCatalog lists and removes whole decks.
type DeckCatalog interface {
	List(ctx context.Context) ([]DeckInfo, error)

	// Delete removes the deck's cards and all deck-scoped state.
	// It returns ErrNotFound if the deck has no cards.
	Delete(ctx context.Context, name string) error
}

// ETARepo stores the single ETA tracker.
type ETARepo interface {
	// Load returns the stored tracker, or nil if none is stored.
	// Corrupt trackers are cleared and reported as absent.
	Load(ctx context.Context) (*eta.Tracker, error)
	Save(ctx context.Context, t eta.Tracker) error
	Clear(ctx context.Context) error
}
