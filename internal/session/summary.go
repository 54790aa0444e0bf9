package session

import (
	"fmt"
	"time"

	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/store"
)

// Result is the outcome of a finished game.
type Result struct {
	SessionID  string
	Deck       string
	Settings   Settings
	StartedAt  time.Time
	FinishedAt time.Time
	Points     int
	Correct    int
	Answered   int
	// Bonus went into the aggregate statistics, not into Points.
	Bonus stats.Bonus
}

// Duration returns the wall time of the game.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Accuracy returns the share of accepted answers.
func (r Result) Accuracy() float64 {
	if r.Answered == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Answered)
}

// Data converts r to the hand-off record read by the results view.
func (r Result) Data() store.GameResultData {
	return store.GameResultData{
		SessionID:    r.SessionID,
		Deck:         r.Deck,
		Settings:     r.Settings.Data(),
		FinishedAt:   r.FinishedAt.Format(time.RFC3339),
		DurationSecs: r.Duration().Seconds(),
		Points:       r.Points,
		CorrectCount: r.Correct,
		Answered:     r.Answered,
		DayBonus:     r.Bonus.FirstGameOfDay,
		StreakBonus:  r.Bonus.Streak,
	}
}

// ResultFromData parses a stored hand-off record.
func ResultFromData(d store.GameResultData) (Result, error) {
	settings, err := SettingsFromData(d.Settings)
	if err != nil {
		return Result{}, fmt.Errorf("result settings: %w", err)
	}
	finished, err := time.Parse(time.RFC3339, d.FinishedAt)
	if err != nil {
		return Result{}, fmt.Errorf("result time: %w", err)
	}
	return Result{
		SessionID:  d.SessionID,
		Deck:       d.Deck,
		Settings:   settings,
		StartedAt:  finished.Add(-time.Duration(d.DurationSecs * float64(time.Second))),
		FinishedAt: finished,
		Points:     d.Points,
		Correct:    d.CorrectCount,
		Answered:   d.Answered,
		Bonus:      stats.Bonus{FirstGameOfDay: d.DayBonus, Streak: d.StreakBonus},
	}, nil
}
