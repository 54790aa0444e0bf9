package card

// Patch is a partial card update written through the store.
// Nil fields are left untouched.
type Patch struct {
	Level *int
	Time  *float64
}

// OnCorrect promotes c by one level and records the answer latency.
func OnCorrect(c Card, elapsedSecs float64) Patch {
	level := ClampLevel(c.Level + 1)
	t := ClampTime(elapsedSecs)
	return Patch{Level: &level, Time: &t}
}

// OnIncorrect demotes c by one level. Time is never changed by a wrong answer.
func OnIncorrect(c Card) Patch {
	level := ClampLevel(c.Level - 1)
	return Patch{Level: &level}
}

// Apply returns c with the patch applied. Values are clamped into range.
func Apply(c Card, p Patch) Card {
	if p.Level != nil {
		c.Level = ClampLevel(*p.Level)
	}
	if p.Time != nil {
		c.Time = ClampTime(*p.Time)
	}
	return c
}

// ClampLevel bounds a level to [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return min(max(level, MinLevel), MaxLevel)
}

// ClampTime bounds a latency to [MinTime, MaxTime].
// NaN is treated as unknown and maps to MaxTime.
func ClampTime(t float64) float64 {
	if t != t {
		return MaxTime
	}
	return min(max(t, MinTime), MaxTime)
}
