package home

import (
	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default
	MascotCelebrating                      // Played today
	MascotAlert                            // Unfinished game waiting
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ A→B │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A→B │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ A→B │
└─────┘`

// mascotVariant picks the mascot for the home screen state.
func mascotVariant(gameWaiting, playedToday bool) MascotVariant {
	switch {
	case gameWaiting:
		return MascotAlert
	case playedToday:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
