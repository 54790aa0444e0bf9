// Package stats keeps aggregate statistics across finished games.
package stats

import "time"

const (
	// FirstGameOfDayBonus is added for the first finished game on a calendar day.
	FirstGameOfDayBonus = 5
	// MaxStreakBonus caps the daily-streak bonus.
	MaxStreakBonus = 5
)

// Stats is the per-deck aggregate.
type Stats struct {
	GamesPlayed int
	Points      int
	Correct     int
	Answered    int
	BestPoints  int
	LastPlayed  time.Time
	// Streak counts consecutive calendar days with at least one game.
	Streak int
}

// Game is the outcome of one finished game.
type Game struct {
	Points   int
	Correct  int
	Answered int
}

// Bonus itemizes the bonus points granted at game finish.
type Bonus struct {
	FirstGameOfDay int
	Streak         int
}

// Total returns the sum of all bonuses.
func (b Bonus) Total() int {
	return b.FirstGameOfDay + b.Streak
}

// Accuracy returns the share of correct answers in [0, 1].
func (s Stats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Record folds g into s and returns the new aggregate with the bonus granted.
// Bonuses are added to the aggregate points only.
func Record(s Stats, g Game, now time.Time) (Stats, Bonus) {
	var bonus Bonus

	today := day(now)
	switch {
	case s.LastPlayed.IsZero():
		s.Streak = 1
		bonus.FirstGameOfDay = FirstGameOfDayBonus
	case day(s.LastPlayed.In(now.Location())).Equal(today):
		// Same day: no bonus, streak unchanged.
	case day(s.LastPlayed.In(now.Location())).Equal(today.AddDate(0, 0, -1)):
		s.Streak++
		bonus.FirstGameOfDay = FirstGameOfDayBonus
		bonus.Streak = min(s.Streak, MaxStreakBonus)
	default:
		s.Streak = 1
		bonus.FirstGameOfDay = FirstGameOfDayBonus
	}

	s.GamesPlayed++
	s.Points += g.Points + bonus.Total()
	s.Correct += g.Correct
	s.Answered += g.Answered
	s.BestPoints = max(s.BestPoints, g.Points)
	s.LastPlayed = now
	return s, bonus
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
