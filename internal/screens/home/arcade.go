package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/stats"
	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

const arcadeTitleFull = `╭─────────╮ ╭─────────╮
│  7 × 8  │ │   56    │
╰─────────╯ ╰─────────╯
F L A S H C A R D S`

const arcadeTitleCompact = "F · L · A · S · H · C · A · R · D · S"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the deck statistics in a bordered box matching content width.
func renderStatsBar(s stats.Stats, cards int, cw int, compact bool) string {
	pointsStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	cardStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			pointsStyle.Render(fmt.Sprintf("★%d", s.Points)),
			streakStyle.Render(fmt.Sprintf("⚡%d", s.Streak)),
			cardStyle.Render(fmt.Sprintf("▤%d", cards)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			pointsStyle.Render(fmt.Sprintf("★ %d POINTS", s.Points)),
			streakStyle.Render(fmt.Sprintf("⚡ %d DAY STREAK", s.Streak)),
			cardStyle.Render(fmt.Sprintf("▤ %d CARDS", cards)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderNotice renders a one-line message under the menu.
func renderNotice(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render(msg)
}
