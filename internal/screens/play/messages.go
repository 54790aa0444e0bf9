package play

import "time"

// tickMsg drives the per-card stopwatch. Ticks from an older card carry a
// stale id and are dropped.
type tickMsg struct {
	id int
	at time.Time
}

// finishMsg ends the game and shows the results.
type finishMsg struct{}
