package eta

import (
	"errors"
	"fmt"
	"time"
)

// Tracker records progress toward a fixed number of tasks.
type Tracker struct {
	Total   int       `json:"total"`
	Started time.Time `json:"started"`
	Samples []Sample  `json:"samples"`
}

// Start resets the tracker for total tasks. Non-positive totals are rejected.
func (t *Tracker) Start(total int, now time.Time) bool {
	if total <= 0 {
		return false
	}
	*t = Tracker{
		Total:   total,
		Started: now,
		Samples: []Sample{{At: now, Completed: 0}},
	}
	return true
}

// Active reports whether Start has been called.
func (t *Tracker) Active() bool {
	return t.Total > 0
}

// Record adds a progress sample. Counts outside [0, Total] are rejected.
func (t *Tracker) Record(completed int, at time.Time) bool {
	if !t.Active() || completed < 0 || completed > t.Total {
		return false
	}
	t.Samples = append(t.Samples, Sample{At: at, Completed: completed})
	return true
}

// Completed returns the latest recorded count.
func (t *Tracker) Completed() int {
	if len(t.Samples) == 0 {
		return 0
	}
	return t.Samples[len(t.Samples)-1].Completed
}

// Estimate predicts the remaining time from the recorded samples.
func (t *Tracker) Estimate(now time.Time) (Prediction, bool) {
	if !t.Active() {
		return Prediction{}, false
	}
	if t.Completed() >= t.Total {
		return Prediction{Completion: now}, true
	}
	reg, ok := CalculateRegression(t.Samples, t.Started)
	if !ok {
		return Prediction{}, false
	}
	return PredictRemainingTime(reg, t.Total, now.Sub(t.Started).Seconds(), now)
}

var errCorrupt = errors.New("corrupt eta tracker")

// Validate checks a tracker restored from storage.
func (t *Tracker) Validate() error {
	if t.Total <= 0 {
		return fmt.Errorf("%w: total %d", errCorrupt, t.Total)
	}
	if t.Started.IsZero() {
		return fmt.Errorf("%w: missing start time", errCorrupt)
	}
	for i, s := range t.Samples {
		if s.Completed < 0 || s.Completed > t.Total {
			return fmt.Errorf("%w: sample %d completed %d", errCorrupt, i, s.Completed)
		}
	}
	return nil
}
