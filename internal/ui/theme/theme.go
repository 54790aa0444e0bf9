package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/card"
)

// Color palette
var (
	Primary      = lipgloss.Color("#6366F1") // Indigo
	Secondary    = lipgloss.Color("#14B8A6") // Teal
	Accent       = lipgloss.Color("#F97316") // Orange
	Success      = lipgloss.Color("#22C55E") // Green
	Warning      = lipgloss.Color("#EAB308") // Amber
	Error        = lipgloss.Color("#F43F5E") // Rose
	Text         = lipgloss.Color("#F8FAFC") // White
	TextDim      = lipgloss.Color("#94A3B8") // Slate
	BgDark       = lipgloss.Color("#0F172A") // Deep Navy
	BgCard       = lipgloss.Color("#1E293B") // Dark Slate
	Border       = lipgloss.Color("#334155") // Slate
	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

// levelColors runs from red for new cards to green for learned ones.
var levelColors = [...]color.Color{
	lipgloss.Color("#F43F5E"),
	lipgloss.Color("#F97316"),
	lipgloss.Color("#EAB308"),
	lipgloss.Color("#84CC16"),
	lipgloss.Color("#22C55E"),
}

// LevelColor returns the display color of a card level.
func LevelColor(level int) color.Color {
	return levelColors[card.ClampLevel(level)-card.MinLevel]
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Close = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
